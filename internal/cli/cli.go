package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/specialistvlad/ninjagen/internal/app"
	"github.com/specialistvlad/ninjagen/internal/config"
	"github.com/specialistvlad/ninjagen/internal/toolchain"
	"github.com/specialistvlad/ninjagen/internal/watch"
	"github.com/spf13/cobra"
)

// Version is stamped at build time.
var Version = "dev"

// Process exit codes.
const (
	ExitFailure = 1
	ExitUsage   = 2
	ExitStale   = 3
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Deps are the collaborators the commands hand to the app.
type Deps struct {
	Runner toolchain.Runner
	Loader config.Loader
}

// flags are shared by the root and watch commands.
type flags struct {
	sourceDir string
	buildDir  string
	project   string
	settings  string
	logLevel  string
	logFormat string
	coverage  bool
	check     bool
	debounce  time.Duration
}

// Execute parses args, runs the selected command and maps failures onto an
// *ExitError.
func Execute(ctx context.Context, args []string, outW, errW io.Writer, deps Deps) error {
	cmd := NewRootCommand(outW, errW, deps)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, app.ErrStale):
		return &ExitError{Code: ExitStale, Message: err.Error()}
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}
	return &ExitError{Code: ExitFailure, Message: err.Error()}
}

// NewRootCommand builds the command tree.
func NewRootCommand(outW, errW io.Writer, deps Deps) *cobra.Command {
	f := &flags{}

	root := &cobra.Command{
		Use:   "ninjagen",
		Short: "Generate build.ninja for a Cargo workspace",
		Long: `ninjagen reads ninjagen.hcl and ninjagen.yaml from the source directory and
writes build.ninja and info.json into the build directory.

Every registered Cargo module gets lint, lint-fix, format and, when it is
installed, compile and copy edges. The umbrella targets cargo/fmt,
cargo/clippy, cargo/clippy/fix, all/bin and all tie them together.`,
		Args:          noArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd, f, outW, errW, deps)
			if err != nil {
				return err
			}
			return a.Run(cmd.Context())
		},
	}
	root.SetOut(outW)
	root.SetErr(errW)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &ExitError{Code: ExitUsage, Message: err.Error()}
	})

	pf := root.PersistentFlags()
	pf.StringVarP(&f.sourceDir, "source-dir", "C", ".", "Source root holding the project and settings files.")
	pf.StringVar(&f.buildDir, "build-dir", "", "Build directory. Overrides build_dir from the settings file.")
	pf.StringVar(&f.project, "project", "", "Project file. Defaults to <source-dir>/ninjagen.hcl.")
	pf.StringVar(&f.settings, "settings", "", "Settings file. Defaults to <source-dir>/ninjagen.yaml.")
	pf.StringVar(&f.logLevel, "log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	pf.StringVar(&f.logFormat, "log-format", "auto", "Log output format. Options: 'auto', 'text' or 'json'.")
	pf.BoolVar(&f.coverage, "coverage", true, "Instrument compiled binaries. Overrides coverage from the settings file.")
	root.Flags().BoolVar(&f.check, "check", false, "Do not write; exit 3 and print a diff when build.ninja is stale.")

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Regenerate build.ninja whenever sources or project files change",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd, f, outW, errW, deps)
			if err != nil {
				return err
			}
			return a.Watch(cmd.Context())
		},
	}
	watchCmd.Flags().DurationVar(&f.debounce, "debounce", watch.DefaultDebounce, "Quiet period before regenerating.")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  noArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "ninjagen version %s\n", Version)
		},
	}

	root.AddCommand(watchCmd, versionCmd)
	return root
}

// noArgs rejects positional arguments as a usage error.
func noArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.NoArgs(cmd, args); err != nil {
		return &ExitError{Code: ExitUsage, Message: err.Error()}
	}
	return nil
}

// newApp turns parsed flags into a validated app.Config.
func newApp(cmd *cobra.Command, f *flags, outW, errW io.Writer, deps Deps) (*app.App, error) {
	cfg := app.Config{
		SourceDir:        f.sourceDir,
		BuildDir:         f.buildDir,
		ProjectFile:      f.project,
		SettingsFile:     f.settings,
		SettingsExplicit: f.settings != "",
		LogLevel:         f.logLevel,
		LogFormat:        f.logFormat,
		Check:            f.check,
		Debounce:         f.debounce,
	}
	if cmd.Flags().Changed("coverage") {
		cfg.Coverage = &f.coverage
	}

	c, err := app.NewConfig(cfg)
	if err != nil {
		return nil, &ExitError{Code: ExitUsage, Message: err.Error()}
	}
	return app.NewApp(outW, errW, c, deps.Runner, deps.Loader), nil
}
