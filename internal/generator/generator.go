package generator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/specialistvlad/ninjagen/internal/config"
	"github.com/specialistvlad/ninjagen/internal/ctxlog"
	"github.com/specialistvlad/ninjagen/internal/ninja"
	"github.com/specialistvlad/ninjagen/internal/registrar"
	"github.com/specialistvlad/ninjagen/internal/settings"
	"github.com/specialistvlad/ninjagen/internal/toolchain"
)

// Banner is the first line of every generated file.
const Banner = "Generated by ninjagen, DO NOT EDIT MANUALLY"

// Config is the input of one generation run.
type Config struct {
	// SourceDir and BuildDir are absolute.
	SourceDir string
	BuildDir  string
	// ProjectFile is the project description. A missing file yields a build
	// file with the fixed rules and umbrella targets only.
	ProjectFile string
	// SettingsFile is tracked by the regeneration edge when it exists.
	SettingsFile string
	Settings     *settings.Settings
	// Regenerate is the argv that rewrites build.ninja.
	Regenerate []string
}

// Result summarizes a finished run.
type Result struct {
	File     *ninja.File
	Manifest ninja.PathManifest
	Project  *config.Project
	Modules  int
}

// Generator builds the document of a run.
type Generator struct {
	runner toolchain.Runner
	loader config.Loader
}

// New returns a Generator that probes through runner and reads projects
// through loader.
func New(runner toolchain.Runner, loader config.Loader) *Generator {
	return &Generator{runner: runner, loader: loader}
}

// state carries the values shared by the emit steps of one run.
type state struct {
	cfg           Config
	file          *ninja.File
	project       *config.Project
	rustTarget    string
	rustTargetDir string
	agg           registrar.Aggregates
	installed     ninja.List
}

// Generate builds the document in memory. Directories the build needs are
// created, but neither build.ninja nor info.json is written.
func (g *Generator) Generate(ctx context.Context, cfg Config) (*Result, error) {
	logger := ctxlog.FromContext(ctx)
	if cfg.Settings == nil {
		return nil, fmt.Errorf("generator: settings are required")
	}
	if len(cfg.Regenerate) == 0 {
		return nil, fmt.Errorf("generator: regeneration command is required")
	}

	target, err := toolchain.Probe(ctx, g.runner, cfg.Settings.Toolchain.Rustc)
	if err != nil {
		return nil, err
	}

	f, err := ninja.NewFile(cfg.BuildDir, cfg.SourceDir)
	if err != nil {
		return nil, err
	}
	st := &state{
		cfg:           cfg,
		file:          f,
		rustTarget:    target,
		rustTargetDir: filepath.Join(f.BuildDir(), "ya-build", "rust-target"),
	}

	if st.project, err = g.loadProject(ctx, st); err != nil {
		return nil, err
	}

	steps := []struct {
		name string
		run  func(context.Context) error
	}{
		{"prelude", st.emitPrelude},
		{"codegen", st.emitCodegen},
		{"modules", st.emitModules},
		{"commands", st.emitCommands},
		{"umbrellas", st.emitUmbrellas},
	}
	for _, step := range steps {
		stepCtx := ctxlog.With(ctx, "section", step.name)
		ctxlog.FromContext(stepCtx).Debug("Emitting section.")
		if err := step.run(stepCtx); err != nil {
			return nil, fmt.Errorf("%s: %w", step.name, err)
		}
	}

	logger.Info("Build graph generated.",
		"rules", f.RuleCount(),
		"edges", f.EdgeCount(),
		"modules", len(st.project.Modules),
		"rust_target", target,
	)
	return &Result{
		File:     f,
		Manifest: st.manifest(),
		Project:  st.project,
		Modules:  len(st.project.Modules),
	}, nil
}

// Run generates the document and writes build.ninja and info.json.
func (g *Generator) Run(ctx context.Context, cfg Config) (*Result, error) {
	res, err := g.Generate(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := res.File.Finalize(res.Manifest); err != nil {
		return nil, err
	}
	ctxlog.FromContext(ctx).Debug("Build file written.", "path", res.File.Path())
	return res, nil
}

func (g *Generator) loadProject(ctx context.Context, st *state) (*config.Project, error) {
	if _, err := os.Stat(st.cfg.ProjectFile); os.IsNotExist(err) {
		ctxlog.FromContext(ctx).Warn("Project file not found, emitting fixed targets only.", "path", st.cfg.ProjectFile)
		return &config.Project{}, nil
	}
	return g.loader.Load(ctx, st.cfg.ProjectFile, config.Vars{
		SourceDir:     st.file.SourceDir(),
		BuildDir:      st.file.BuildDir(),
		RustTarget:    st.rustTarget,
		RustTargetDir: st.rustTargetDir,
	})
}

func (st *state) coverageDir() string {
	return filepath.Join(st.file.BuildDir(), "cov")
}

func (st *state) manifest() ninja.PathManifest {
	return ninja.PathManifest{
		CoverageDir:   st.coverageDir(),
		BuildDir:      st.file.BuildDir(),
		RustTargetDir: st.rustTargetDir,
	}
}
