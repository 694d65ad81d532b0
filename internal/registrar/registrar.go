// Package registrar expands one Cargo module registration into the set of
// coordinated ninja edges that check, format, build and install it.
package registrar

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/ninjagen/internal/ctxlog"
	"github.com/specialistvlad/ninjagen/internal/fsutil"
	"github.com/specialistvlad/ninjagen/internal/ninja"
)

// Names of the rules the registrar's edges refer to.
const (
	RulePhony         = "phony"
	RulePhonyTouch    = "phony_touch"
	RuleCustomCommand = "CUSTOM_COMMAND"
	RuleCopy          = "cp"
	RuleCargo         = "cargo"
	RuleCargoBuild    = "cargo_build"
)

// ManifestFiles must exist in every registered module.
var ManifestFiles = []string{"Cargo.toml", "Cargo.lock"}

// SourcePattern selects the module files the sentinel tracks.
const SourcePattern = "**/*.rs"

// Layout is the directory layout of one generation run. All paths are
// absolute.
type Layout struct {
	BuildDir      string
	SourceDir     string
	RustTarget    string
	RustTargetDir string
}

// StateDir returns the directory holding per-module sentinel files.
func (l Layout) StateDir(module string) string {
	return filepath.Join(l.BuildDir, "ya-build", filepath.FromSlash(module))
}

// Options tune the commands of registered modules.
type Options struct {
	Cargo     string
	LintAllow []string
	Coverage  bool
}

// Module is one Cargo package to register.
type Module struct {
	// Path is the slash-separated package directory relative to the source root.
	Path      string
	ExtraArgs []string
	// InstallTo is the build-dir-relative destination of the debug binary.
	// Empty means the module is not compiled by ninja.
	InstallTo string
}

// Aggregates accumulates the targets that umbrella phony edges tie together.
type Aggregates struct {
	Format  ninja.List
	Lint    ninja.List
	LintFix ninja.List
}

// Result names the outputs of one registration.
type Result struct {
	Sentinel  ninja.Path
	Lint      ninja.Path
	LintFix   ninja.Path
	Format    ninja.Str
	Binary    *ninja.Path
	Installed *ninja.Str
}

// Registrar declares module edges into a ninja file.
type Registrar struct {
	file   *ninja.File
	layout Layout
	opts   Options
}

// New returns a Registrar writing into f.
func New(f *ninja.File, layout Layout, opts Options) *Registrar {
	if opts.Cargo == "" {
		opts.Cargo = "cargo"
	}
	return &Registrar{file: f, layout: layout, opts: opts}
}

// DeclareRules declares the cargo and cargo_build rules used by module edges.
func (r *Registrar) DeclareRules() error {
	common := []ninja.Value{
		ninja.Str("--target"), ninja.Str(r.layout.RustTarget),
		ninja.Str("--target-dir"), ninja.Str(r.layout.RustTargetDir),
		ninja.Raw("$extra_args"),
	}

	cargo := ninja.NewRule(RuleCargo).
		Command(
			ninja.Str("cd"), ninja.Raw("$wd"),
			ninja.And, ninja.Raw("$env"), ninja.Str(r.opts.Cargo), ninja.Raw("$subcommand"), ninja.List(common),
			ninja.And, ninja.Str("cd"), ninja.Str(r.layout.BuildDir),
			ninja.And, ninja.Str("touch"), ninja.Out,
		).
		Description("Running cargo $subcommand").
		Pool("console")
	if err := r.file.Rule(cargo); err != nil {
		return err
	}

	build := ninja.NewRule(RuleCargoBuild).
		Command(
			ninja.Str("cd"), ninja.Raw("$wd"),
			ninja.And, ninja.Raw("$env"), ninja.Str(r.opts.Cargo), ninja.Str("build"), ninja.List(common),
		).
		Description("Running cargo $subcommand").
		Depfile(ninja.Raw("$out.d")).
		Pool("console")
	return r.file.Rule(build)
}

func (r *Registrar) lintArgs(m Module, fix bool) ninja.List {
	args := append([]string{}, m.ExtraArgs...)
	if fix {
		args = append(args, "--fix", "--allow-dirty", "--allow-staged")
	}
	args = append(args, "--")
	for _, lint := range r.opts.LintAllow {
		args = append(args, "-A", lint)
	}
	args = append(args, "-Dwarnings")
	return ninja.Strs(args...)
}

// RegisterCargo declares the sentinel, lint, lint-fix, format and, when
// requested, compile and install edges of m, and records the lint, lint-fix
// and format targets in agg.
func (r *Registrar) RegisterCargo(ctx context.Context, agg *Aggregates, m Module) (*Result, error) {
	if err := validateModulePath(m.Path); err != nil {
		return nil, err
	}
	logger := ctxlog.FromContext(ctx).With("module", m.Path)

	dir := filepath.Join(r.layout.SourceDir, filepath.FromSlash(m.Path))
	if err := fsutil.RequireFiles(dir, ManifestFiles...); err != nil {
		return nil, fmt.Errorf("register %s: %w", m.Path, err)
	}
	sources, err := fsutil.FindFiles(dir, SourcePattern)
	if err != nil {
		return nil, fmt.Errorf("register %s: %w", m.Path, err)
	}
	logger.Debug("Collected module sources.", "files", len(sources))

	stateDir := r.layout.StateDir(m.Path)
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		return nil, err
	}

	tracked := make(ninja.List, 0, len(sources)+len(ManifestFiles))
	for _, f := range sources {
		tracked = append(tracked, ninja.SourcePath(path.Join(m.Path, f)))
	}
	for _, f := range ManifestFiles {
		tracked = append(tracked, ninja.SourcePath(path.Join(m.Path, f)))
	}

	res := &Result{
		Sentinel: ninja.AbsPath(filepath.Join(stateDir, "files.trg")),
		Lint:     ninja.AbsPath(filepath.Join(stateDir, "clippy.trg")),
		LintFix:  ninja.AbsPath(filepath.Join(stateDir, "clippy.fix.trg")),
		Format:   ninja.Str("target/" + m.Path + "/fmt"),
	}
	wd := ninja.SourcePath(m.Path)

	if err := r.file.Build(ninja.NewBuild(RulePhonyTouch, res.Sentinel).
		AddImplicitDependency(tracked)); err != nil {
		return nil, err
	}

	if err := r.file.Build(ninja.NewBuild(RuleCargo, res.Lint).
		AddDependency(res.Sentinel).
		Var("subcommand", ninja.Str("clippy")).
		Var("wd", wd).
		Var("extra_args", r.lintArgs(m, false))); err != nil {
		return nil, err
	}
	if err := r.file.Build(ninja.NewBuild(RulePhony, ninja.Str("target/"+m.Path+"/clippy")).
		AddDependency(res.Lint).
		Description("Run cargo clippy for " + m.Path)); err != nil {
		return nil, err
	}
	agg.Lint = append(agg.Lint, res.Lint)

	if err := r.file.Build(ninja.NewBuild(RuleCargo, res.LintFix).
		AddDependency(res.Sentinel).
		Var("subcommand", ninja.Str("clippy")).
		Var("wd", wd).
		Var("extra_args", r.lintArgs(m, true))); err != nil {
		return nil, err
	}
	agg.LintFix = append(agg.LintFix, res.LintFix)

	// The fmt output is never created, so ninja always reruns it.
	if err := r.file.Build(ninja.NewBuild(RuleCustomCommand, res.Format).
		AddDependency(res.Sentinel).
		Var("command", ninja.List{ninja.Str("cd"), wd, ninja.And, ninja.Str(r.opts.Cargo), ninja.Str("fmt")}).
		Description("Run cargo fmt for " + m.Path)); err != nil {
		return nil, err
	}
	agg.Format = append(agg.Format, res.Format)

	if m.InstallTo != "" {
		if err := r.registerInstall(m, res, wd); err != nil {
			return nil, err
		}
	}

	logger.Debug("Module registered.", "install_to", m.InstallTo)
	return res, nil
}

func (r *Registrar) registerInstall(m Module, res *Result, wd ninja.Path) error {
	bin := ninja.AbsPath(filepath.Join(r.layout.RustTargetDir, r.layout.RustTarget, "debug", path.Base(m.InstallTo)))
	compile := ninja.NewBuild(RuleCargoBuild, bin).
		AddDependency(res.Sentinel).
		Var("wd", wd)
	if len(m.ExtraArgs) > 0 {
		compile.Var("extra_args", ninja.Strs(m.ExtraArgs...))
	}
	if r.opts.Coverage {
		compile.Var("env", ninja.Raw(`RUSTFLAGS="-C instrument-coverage" LLVM_PROFILE_FILE=/dev/null`))
	}
	if err := r.file.Build(compile); err != nil {
		return err
	}

	installed := ninja.Str(m.InstallTo)
	if err := r.file.Build(ninja.NewBuild(RuleCopy, installed).AddDependency(bin)); err != nil {
		return err
	}
	res.Binary = &bin
	res.Installed = &installed
	return nil
}

func validateModulePath(p string) error {
	switch {
	case p == "":
		return fmt.Errorf("module path must not be empty")
	case path.IsAbs(p) || filepath.IsAbs(p):
		return fmt.Errorf("module path %q must be relative to the source root", p)
	case path.Clean(p) != p:
		return fmt.Errorf("module path %q must be clean", p)
	case p == ".." || strings.HasPrefix(p, "../"):
		return fmt.Errorf("module path %q escapes the source root", p)
	}
	return nil
}
