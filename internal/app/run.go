package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/specialistvlad/ninjagen/internal/ctxlog"
	"github.com/specialistvlad/ninjagen/internal/diffcheck"
	"github.com/specialistvlad/ninjagen/internal/generator"
	"github.com/specialistvlad/ninjagen/internal/settings"
)

// ErrStale is returned by Run in check mode when build.ninja is out of date.
var ErrStale = errors.New("build file is out of date")

// checkContext is the number of unchanged lines shown around each change.
const checkContext = 3

// Run generates build.ninja, or in check mode compares it with the file on
// disk.
func (a *App) Run(ctx context.Context) error {
	ctx = a.context(ctx)
	a.logger.Debug("App.Run method started.")

	gcfg, err := a.generatorConfig(ctx)
	if err != nil {
		return err
	}
	g := generator.New(a.runner, a.loader)

	if a.config.Check {
		return a.check(ctx, g, gcfg)
	}

	res, err := g.Run(ctx, gcfg)
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}
	a.logger.Info("Build file written.", "path", res.File.Path(), "edges", res.File.EdgeCount())
	return nil
}

func (a *App) check(ctx context.Context, g *generator.Generator, gcfg generator.Config) error {
	res, err := g.Generate(ctx, gcfg)
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}
	path := res.File.Path()
	want := res.File.Bytes()

	stale, have, err := diffcheck.Stale(path, want)
	if err != nil {
		return err
	}
	if !stale {
		a.logger.Info("Build file is up to date.", "path", path)
		return nil
	}

	if _, err := diffcheck.Write(a.outW, path, "generated", string(have), string(want), diffcheck.Options{
		Context: checkContext,
		Color:   isTerminal(a.outW),
	}); err != nil {
		return err
	}
	return ErrStale
}

// generatorConfig resolves settings and the build layout for one run.
func (a *App) generatorConfig(ctx context.Context) (generator.Config, error) {
	s, err := settings.Load(ctx, a.config.SettingsFile, a.config.SettingsExplicit, settings.Overrides{
		BuildDir: a.config.BuildDir,
		Coverage: a.config.Coverage,
	})
	if err != nil {
		return generator.Config{}, err
	}

	buildDir := s.BuildDir
	if !filepath.IsAbs(buildDir) {
		buildDir = filepath.Join(a.config.SourceDir, buildDir)
	}
	ctxlog.FromContext(ctx).Debug("Resolved layout.", "source_dir", a.config.SourceDir, "build_dir", buildDir)

	return generator.Config{
		SourceDir:    a.config.SourceDir,
		BuildDir:     buildDir,
		ProjectFile:  a.config.ProjectFile,
		SettingsFile: a.config.SettingsFile,
		Settings:     s,
		Regenerate:   a.regenerateArgs(buildDir),
	}, nil
}

// regenerateArgs is the command line the build.ninja edge reruns. It always
// names every path so it works from any directory.
func (a *App) regenerateArgs(buildDir string) []string {
	args := []string{
		a.executable,
		"--source-dir", a.config.SourceDir,
		"--build-dir", buildDir,
		"--project", a.config.ProjectFile,
	}
	if a.config.SettingsExplicit {
		args = append(args, "--settings", a.config.SettingsFile)
	}
	if a.config.Coverage != nil {
		args = append(args, fmt.Sprintf("--coverage=%t", *a.config.Coverage))
	}
	return args
}
