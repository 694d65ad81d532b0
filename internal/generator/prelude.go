package generator

import (
	"context"
	"os"
	"path/filepath"

	"github.com/specialistvlad/ninjagen/internal/ninja"
	"github.com/specialistvlad/ninjagen/internal/registrar"
)

// Names of the helper rules and their targets.
const (
	RuleClean   = "CLEAN"
	RuleHelp    = "HELP"
	RuleCodegen = "codegen"
)

// emitPrelude writes the banner, the helper rules and the generic rules
// every later section refers to, then the self-regeneration edge.
func (st *state) emitPrelude(ctx context.Context) error {
	f := st.file
	s := st.cfg.Settings
	ninjaBin := ninja.Str(s.Toolchain.Ninja)

	f.Comment(Banner)
	if err := f.Var("ninja_required_version", ninja.Str(s.NinjaRequiredVersion)); err != nil {
		return err
	}

	if err := f.Rule(ninja.NewRule(RuleClean).
		Command(ninjaBin, ninja.Raw("$FILE_ARG"), ninja.Str("-t"), ninja.Str("clean"), ninja.Raw("$TARGETS")).
		Description("Cleaning all built files...")); err != nil {
		return err
	}
	if err := f.Rule(ninja.NewRule(RuleHelp).
		Command(ninjaBin, ninja.Raw("$FILE_ARG"), ninja.Str("-t"), ninja.Str("targets"),
			ninja.Strs("rule", registrar.RulePhony, "rule", RuleClean, "rule", RuleHelp)).
		Description("All primary targets available")); err != nil {
		return err
	}

	if err := f.Var("build_dir", ninja.Str(s.BuildDir)); err != nil {
		return err
	}
	if err := f.Build(ninja.NewBuild(RuleClean, ninja.Str("clean"))); err != nil {
		return err
	}
	if err := f.Build(ninja.NewBuild(RuleHelp, ninja.Str("help"))); err != nil {
		return err
	}

	if err := f.Rule(ninja.NewRule(registrar.RulePhonyTouch).
		Command(ninja.Str("touch"), ninja.Out)); err != nil {
		return err
	}
	if err := f.Rule(ninja.NewRule(registrar.RuleCustomCommand).
		Command(ninja.Str("cd"), ninja.Raw("$CWD"), ninja.And, ninja.Raw("$ENV"), ninja.Raw("$COMMAND")).
		Description("Running custom command")); err != nil {
		return err
	}
	if err := f.Rule(ninja.NewRule(registrar.RuleCopy).
		Command(ninja.Str("cp"), ninja.In, ninja.Out)); err != nil {
		return err
	}

	return st.emitRegeneration()
}

// emitRegeneration declares build.ninja itself as an output so ninja reruns
// the generator when the project file, the settings file or the generator
// binary changes. Inputs that do not exist are left out.
func (st *state) emitRegeneration() error {
	regen := ninja.NewBuild(registrar.RuleCustomCommand, ninja.Str(ninja.BuildFileName)).
		Var("COMMAND", ninja.Strs(st.cfg.Regenerate...)).
		Var("CWD", ninja.Str(st.file.SourceDir()))
	for _, p := range []string{st.cfg.ProjectFile, st.cfg.SettingsFile} {
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		if _, err := os.Stat(abs); err == nil {
			regen.AddDependency(ninja.AbsPath(abs))
		}
	}
	if exe := st.cfg.Regenerate[0]; filepath.IsAbs(exe) {
		if _, err := os.Stat(exe); err == nil {
			regen.AddImplicitDependency(ninja.AbsPath(exe))
		}
	}
	return st.file.Build(regen)
}
