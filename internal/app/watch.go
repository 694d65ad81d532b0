package app

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"

	"github.com/specialistvlad/ninjagen/internal/config"
	"github.com/specialistvlad/ninjagen/internal/generator"
	"github.com/specialistvlad/ninjagen/internal/watch"
)

// watchedExtensions trigger a regeneration when such files appear or vanish.
var watchedExtensions = []string{".rs", ".hcl", ".yaml"}

// Watch generates once and then regenerates whenever the project inputs
// change, until ctx is cancelled. A change of the project file re-reads the
// set of watched directories.
func (a *App) Watch(ctx context.Context) error {
	ctx = a.context(ctx)
	g := generator.New(a.runner, a.loader)

	res, err := a.generate(ctx, g)
	if err != nil {
		return err
	}
	project := res.Project

	for {
		roots := a.watchRoots(project)
		w, err := watch.New(ctx, watch.Config{
			Roots:      roots,
			Files:      []string{a.config.ProjectFile, a.config.SettingsFile},
			Extensions: watchedExtensions,
			SkipDirs:   []string{res.File.BuildDir()},
			Debounce:   a.config.Debounce,
		})
		if err != nil {
			return fmt.Errorf("watch: %w", err)
		}
		a.logger.Info("Watching for changes.", "directories", len(roots))

		inner, cancel := context.WithCancel(ctx)
		rewatch := false
		err = w.Run(inner, func(ctx context.Context, paths []string) error {
			a.logger.Info("Inputs changed, regenerating.", "changes", len(paths))
			next, err := a.generate(ctx, g)
			if err != nil {
				return err
			}
			res = next
			if slices.Contains(paths, a.config.ProjectFile) {
				project = next.Project
				rewatch = true
				cancel()
			}
			return nil
		})
		cancel()
		w.Close()

		if ctx.Err() != nil || !rewatch {
			return err
		}
	}
}

func (a *App) generate(ctx context.Context, g *generator.Generator) (*generator.Result, error) {
	gcfg, err := a.generatorConfig(ctx)
	if err != nil {
		return nil, err
	}
	res, err := g.Run(ctx, gcfg)
	if err != nil {
		return nil, fmt.Errorf("generation failed: %w", err)
	}
	a.logger.Info("Build file written.", "path", res.File.Path(), "edges", res.File.EdgeCount())
	return res, nil
}

// watchRoots lists the module and install-tree directories of project.
func (a *App) watchRoots(project *config.Project) []string {
	var roots []string
	for _, m := range project.Modules {
		roots = append(roots, filepath.Join(a.config.SourceDir, filepath.FromSlash(m.Path)))
	}
	for _, t := range project.InstallTrees {
		roots = append(roots, filepath.Join(a.config.SourceDir, filepath.FromSlash(t.From)))
	}
	return roots
}
