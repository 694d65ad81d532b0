package generator

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/specialistvlad/ninjagen/internal/config"
	"github.com/specialistvlad/ninjagen/internal/ctxlog"
	"github.com/specialistvlad/ninjagen/internal/fsutil"
	"github.com/specialistvlad/ninjagen/internal/ninja"
	"github.com/specialistvlad/ninjagen/internal/registrar"
)

// Umbrella target names.
const (
	TargetCodegen  = "codegen"
	TargetFormat   = "cargo/fmt"
	TargetLint     = "cargo/clippy"
	TargetLintFix  = "cargo/clippy/fix"
	TargetBinaries = "all/bin"
	TargetAll      = "all"
)

// installPattern selects every file of an install tree.
const installPattern = "**"

// emitCodegen declares the codegen rule, one edge per codegen block and the
// codegen phony that groups their outputs.
func (st *state) emitCodegen(_ context.Context) error {
	f := st.file
	if err := os.MkdirAll(st.rustTargetDir, 0o755); err != nil {
		return err
	}
	if err := f.Rule(ninja.NewRule(RuleCodegen).
		Command(ninja.Str(st.cfg.Settings.Codegen.Interpreter), ninja.In, ninja.Out)); err != nil {
		return err
	}

	outputs := make(ninja.List, 0, len(st.project.Codegen))
	for _, c := range st.project.Codegen {
		out := ninja.SourcePath(c.Output)
		if err := f.Build(ninja.NewBuild(RuleCodegen, out).
			AddDependency(ninja.SourcePath(c.Template)).
			AddDependency(ninja.SourcePath(c.Data))); err != nil {
			return err
		}
		outputs = append(outputs, out)
	}
	return f.Build(ninja.NewBuild(registrar.RulePhony, ninja.Str(TargetCodegen)).AddDependency(outputs))
}

// emitModules declares the cargo rules and registers every cargo_module.
func (st *state) emitModules(ctx context.Context) error {
	s := st.cfg.Settings
	r := registrar.New(st.file, registrar.Layout{
		BuildDir:      st.file.BuildDir(),
		SourceDir:     st.file.SourceDir(),
		RustTarget:    st.rustTarget,
		RustTargetDir: st.rustTargetDir,
	}, registrar.Options{
		Cargo:     s.Toolchain.Cargo,
		LintAllow: s.Lint.Allow,
		Coverage:  s.Coverage,
	})
	if err := r.DeclareRules(); err != nil {
		return err
	}
	if err := os.MkdirAll(st.coverageDir(), 0o755); err != nil {
		return err
	}

	for _, m := range st.project.Modules {
		res, err := r.RegisterCargo(ctx, &st.agg, registrar.Module{
			Path:      m.Path,
			ExtraArgs: m.ExtraArgs,
			InstallTo: m.InstallTo,
		})
		if err != nil {
			return err
		}
		if res.Installed != nil {
			st.installed = append(st.installed, *res.Installed)
		}
	}
	return nil
}

// emitCommands declares one CUSTOM_COMMAND edge per command block.
func (st *state) emitCommands(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	for _, c := range st.project.Commands {
		implicit, err := st.implicitInputs(c)
		if err != nil {
			return err
		}
		logger.Debug("Collected command inputs.", "output", c.Output, "implicit", len(implicit))

		argv := commandTokens(c.Argv)
		env := envAssignments(c.Env)
		b := ninja.NewBuild(registrar.RuleCustomCommand, ninja.Str(c.Output)).
			AddDependency(ninja.Paths(c.Deps...)).
			AddImplicitDependency(implicit)
		if c.Cwd == "" {
			b.Var("command", append(env, argv...))
		} else {
			b.Var("CWD", ninja.SourcePath(c.Cwd))
			if len(env) > 0 {
				b.Var("ENV", env)
			}
			b.Var("COMMAND", argv)
		}
		if c.Pool != "" {
			b.Var("pool", ninja.Sym(c.Pool))
		}
		if err := st.file.Build(b); err != nil {
			return err
		}
	}
	return nil
}

// implicitInputs expands the command's globs against the source root, drops
// excluded directories and removes duplicates while keeping glob order.
func (st *state) implicitInputs(c *config.Command) (ninja.List, error) {
	var out ninja.List
	seen := make(map[string]struct{})
	for _, pattern := range c.ImplicitGlobs {
		files, err := fsutil.FindFiles(st.file.SourceDir(), pattern)
		if err != nil {
			return nil, err
		}
		for _, rel := range fsutil.ExcludeDirs(files, c.ExcludeDirs...) {
			if _, dup := seen[rel]; dup {
				continue
			}
			seen[rel] = struct{}{}
			out = append(out, ninja.SourcePath(rel))
		}
	}
	return out, nil
}

// emitUmbrellas declares the aggregate phony targets, the install-tree copies
// and `default all`.
func (st *state) emitUmbrellas(ctx context.Context) error {
	f := st.file
	for _, u := range []struct {
		name string
		deps ninja.List
	}{
		{TargetFormat, st.agg.Format},
		{TargetLint, st.agg.Lint},
		{TargetLintFix, st.agg.LintFix},
	} {
		if err := f.Build(ninja.NewBuild(registrar.RulePhony, ninja.Str(u.name)).AddDependency(u.deps)); err != nil {
			return err
		}
	}

	bins := append(ninja.List{}, st.installed...)
	for _, tree := range st.project.InstallTrees {
		copied, err := st.emitInstallTree(ctx, tree)
		if err != nil {
			return err
		}
		bins = append(bins, copied...)
	}
	if err := f.Build(ninja.NewBuild(registrar.RulePhony, ninja.Str(TargetBinaries)).AddDependency(bins)); err != nil {
		return err
	}

	all := ninja.NewBuild(registrar.RulePhony, ninja.Str(TargetAll)).AddDependency(ninja.Str(TargetBinaries))
	for _, c := range st.project.Commands {
		if c.InAll {
			all.AddDependency(ninja.Str(c.Output))
		}
	}
	if err := f.Build(all); err != nil {
		return err
	}
	return f.Default(ninja.Str(TargetAll))
}

// emitInstallTree declares one cp edge per file under the tree and returns
// the copied outputs.
func (st *state) emitInstallTree(ctx context.Context, tree *config.InstallTree) (ninja.List, error) {
	root := filepath.Join(st.file.SourceDir(), filepath.FromSlash(tree.From))
	files, err := fsutil.FindFiles(root, installPattern)
	if err != nil {
		return nil, err
	}
	ctxlog.FromContext(ctx).Debug("Installing tree.", "from", tree.From, "to", tree.To, "files", len(files))

	copied := make(ninja.List, 0, len(files))
	for _, rel := range files {
		out := ninja.Str(strings.TrimSuffix(tree.To, "/") + "/" + rel)
		if err := st.file.Build(ninja.NewBuild(registrar.RuleCopy, out).
			AddDependency(ninja.SourcePath(path.Join(tree.From, rel)))); err != nil {
			return nil, err
		}
		copied = append(copied, out)
	}
	return copied, nil
}

var shellOperators = map[string]struct{}{
	"&&": {}, "||": {}, "|": {}, ";": {}, ">": {}, ">>": {}, "<": {}, "2>&1": {},
}

// commandTokens escapes argv for the shell. Shell operators and tokens that
// reference ninja variables are passed through verbatim.
func commandTokens(argv []string) ninja.List {
	out := make(ninja.List, 0, len(argv))
	for _, tok := range argv {
		if _, ok := shellOperators[tok]; ok || strings.Contains(tok, "$") {
			out = append(out, ninja.Raw(tok))
			continue
		}
		out = append(out, ninja.Str(tok))
	}
	return out
}

// envAssignments renders env as NAME=value words sorted by name.
func envAssignments(env map[string]string) ninja.List {
	names := make([]string, 0, len(env))
	for name := range env {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make(ninja.List, 0, len(names))
	for _, name := range names {
		out = append(out, ninja.Str(name+"="+env[name]))
	}
	return out
}
