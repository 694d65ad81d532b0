package hcl

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/ninjagen/internal/config"
	"github.com/specialistvlad/ninjagen/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testVars = config.Vars{
	SourceDir:     "/src",
	BuildDir:      "/src/build",
	RustTarget:    "x86_64-unknown-linux-gnu",
	RustTargetDir: "/src/build/ya-build/rust-target",
}

func writeProject(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeProject(t, `
cargo_module "executor" {
  install_to = "out/executor/vTEST/bin/genvm"
}

cargo_module "modules/implementation" {
  extra_args = ["--features", "vendored-lua"]
  install_to = "out/bin/genvm-modules"
}

cargo_module "modules/interfaces" {}

codegen "executor/src/public_abi.rs" {
  template = "executor/codegen/templates/rs.rb"
  data     = "executor/codegen/data/public-abi.json"
}

install_tree "executor/install" {
  to = "out/executor/vTEST"
}

command "target/runners" {
  command = [
    "nix", "build", "-o", "${build_dir}/runners-nix",
    "&&", "mkdir", "-p", "./out/runners",
  ]
  deps           = ["runners/build-here.nix"]
  implicit_globs = ["runners/**/*"]
  exclude_dirs   = ["test", "tests", "fuzz"]
  env            = { NIX_CONFIG = upper("x") }
  pool           = "console"
  in_all         = true
}
`)
	ctx, _ := testutil.LogContext(t)

	project, err := NewLoader().Load(ctx, path, testVars)

	require.NoError(t, err)
	expected := &config.Project{
		Modules: []*config.CargoModule{
			{Path: "executor", InstallTo: "out/executor/vTEST/bin/genvm"},
			{Path: "modules/implementation", ExtraArgs: []string{"--features", "vendored-lua"}, InstallTo: "out/bin/genvm-modules"},
			{Path: "modules/interfaces"},
		},
		Codegen: []*config.Codegen{{
			Output:   "executor/src/public_abi.rs",
			Template: "executor/codegen/templates/rs.rb",
			Data:     "executor/codegen/data/public-abi.json",
		}},
		InstallTrees: []*config.InstallTree{{From: "executor/install", To: "out/executor/vTEST"}},
		Commands: []*config.Command{{
			Output:        "target/runners",
			Argv:          []string{"nix", "build", "-o", "/src/build/runners-nix", "&&", "mkdir", "-p", "./out/runners"},
			Env:           map[string]string{"NIX_CONFIG": "X"},
			Deps:          []string{"runners/build-here.nix"},
			ImplicitGlobs: []string{"runners/**/*"},
			ExcludeDirs:   []string{"test", "tests", "fuzz"},
			Pool:          "console",
			InAll:         true,
		}},
	}
	if diff := cmp.Diff(expected, project); diff != "" {
		t.Errorf("project mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_EmptyFile(t *testing.T) {
	ctx, _ := testutil.LogContext(t)

	project, err := NewLoader().Load(ctx, writeProject(t, ""), testVars)

	require.NoError(t, err)
	assert.Empty(t, project.Modules)
	assert.Empty(t, project.Commands)
}

func TestLoad_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		content string
		wantErr string
	}{
		{name: "syntax error", content: `cargo_module "a" {`, wantErr: "failed to parse"},
		{name: "unknown block", content: `step "a" {}`, wantErr: "failed to decode"},
		{name: "unknown variable", content: `cargo_module "a" { install_to = nope }`, wantErr: "failed to decode"},
		{name: "missing codegen data", content: `codegen "x" { template = "t" }`, wantErr: "failed to decode"},
		{name: "duplicate module", content: "cargo_module \"a\" {}\ncargo_module \"a\" {}", wantErr: `duplicate cargo_module "a"`},
		{name: "absolute module", content: `cargo_module "/a" {}`, wantErr: "must be relative"},
		{name: "escaping module", content: `cargo_module "../a" {}`, wantErr: "escapes the source root"},
		{name: "unclean module", content: `cargo_module "a/./b" {}`, wantErr: "clean path"},
		{name: "empty command", content: `command "x" { command = [] }`, wantErr: "command must not be empty"},
		{name: "output reused", content: "codegen \"x\" {\n template = \"t\"\n data = \"d\"\n}\ncommand \"x\" { command = [\"true\"] }", wantErr: `duplicate output "x"`},
		{name: "empty implicit glob", content: `command "x" {
  command        = ["true"]
  implicit_globs = [""]
}`, wantErr: `command "x": implicit_globs entries must not be empty`},
		{name: "invalid implicit glob", content: `command "x" {
  command        = ["true"]
  implicit_globs = ["src/[a"]
}`, wantErr: `command "x": invalid implicit glob "src/[a"`},
		{name: "install tree without target", content: `install_tree "a" { to = "" }`, wantErr: "to must not be empty"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx, _ := testutil.LogContext(t)

			_, err := NewLoader().Load(ctx, writeProject(t, tc.content), testVars)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	ctx, _ := testutil.LogContext(t)

	_, err := NewLoader().Load(ctx, filepath.Join(t.TempDir(), FileName), testVars)

	require.Error(t, err)
}
