package ninja

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFile(t *testing.T) (*File, string) {
	t.Helper()
	root := t.TempDir()
	f, err := NewFile(filepath.Join(root, "build"), root)
	require.NoError(t, err)
	return f, root
}

func populate(t *testing.T, f *File) {
	t.Helper()
	f.Comment("Generated by test\nDO NOT EDIT\n")
	require.NoError(t, f.Var("ninja_required_version", Str("1.5")))
	require.NoError(t, f.Rule(NewRule("cp").Command(Str("cp"), In, Out)))
	require.NoError(t, f.Rule(NewRule("cargo_build").
		Command(Str("cd"), Raw("$wd"), And, Raw("$env"), Str("cargo"), Str("build")).
		Description("Running cargo $subcommand").
		Depfile(Raw("$out.d")).
		Pool("console")))
	require.NoError(t, f.Build(NewBuild("cp", Str("out/bin")).
		AddImplicitOutput(Str("out/bin.d")).
		AddDependency(SourcePath("src/bin")).
		AddImplicitDependency(Paths("a", "b")).
		AddOrderOnlyDependency(Str("codegen")).
		Description("Copy bin")))
	require.NoError(t, f.Build(NewBuild("phony", Str("all")).AddDependency(Strs("out/bin"))))
	require.NoError(t, f.Default(Str("all")))
}

const expectedDocument = `# Generated by test
# DO NOT EDIT
ninja_required_version = 1.5

rule cp
  command = cp $in $out

rule cargo_build
  command = cd $wd && $env cargo build
  description = Running\ cargo\ \$subcommand
  depfile = $out.d
  pool = console

build out/bin | out/bin.d: cp ../src/bin | ../a ../b || codegen
  description = Copy\ bin

build all: phony out/bin

default all

`

func TestFile_Render(t *testing.T) {
	f, _ := newTestFile(t)
	populate(t, f)

	if diff := cmp.Diff(expectedDocument, string(f.Bytes())); diff != "" {
		t.Errorf("rendered document mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 2, f.RuleCount())
	assert.Equal(t, 2, f.EdgeCount())
}

func TestFile_RegenerationIsByteIdentical(t *testing.T) {
	first, _ := newTestFile(t)
	populate(t, first)
	second, _ := newTestFile(t)
	populate(t, second)

	assert.Equal(t, string(first.Bytes()), string(second.Bytes()))
}

func TestFile_NewFileIsIdempotent(t *testing.T) {
	root := t.TempDir()
	buildDir := filepath.Join(root, "build")

	_, err := NewFile(buildDir, root)
	require.NoError(t, err)
	_, err = NewFile(buildDir, root)
	require.NoError(t, err)

	info, err := os.Stat(buildDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestFile_FinalizeWritesBuildFileAndManifest(t *testing.T) {
	f, root := newTestFile(t)
	populate(t, f)

	manifest := PathManifest{
		CoverageDir:   filepath.Join(root, "build", "cov"),
		BuildDir:      filepath.Join(root, "build"),
		RustTargetDir: filepath.Join(root, "build", "ya-build", "rust-target"),
	}
	require.NoError(t, f.Finalize(manifest))

	data, err := os.ReadFile(filepath.Join(root, "build", BuildFileName))
	require.NoError(t, err)
	assert.Equal(t, expectedDocument, string(data))

	raw, err := os.ReadFile(filepath.Join(root, "build", ManifestFileName))
	require.NoError(t, err)
	var decoded map[string]string
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, map[string]string{
		"coverage_dir":    manifest.CoverageDir,
		"build_dir":       manifest.BuildDir,
		"rust_target_dir": manifest.RustTargetDir,
	}, decoded)
}

func TestFile_FinalizeManifestFailureKeepsPreviousBuildFile(t *testing.T) {
	f, root := newTestFile(t)
	populate(t, f)
	buildDir := filepath.Join(root, "build")
	require.NoError(t, os.WriteFile(filepath.Join(buildDir, BuildFileName), []byte("old"), 0o644))
	// A non-empty directory in place of info.json makes its rename fail.
	require.NoError(t, os.MkdirAll(filepath.Join(buildDir, ManifestFileName, "keep"), 0o755))

	err := f.Finalize(PathManifest{BuildDir: buildDir})

	require.Error(t, err)
	data, err := os.ReadFile(filepath.Join(buildDir, BuildFileName))
	require.NoError(t, err)
	assert.Equal(t, "old", string(data))

	entries, err := os.ReadDir(buildDir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{BuildFileName, ManifestFileName}, names, "staged files are cleaned up")
}

func TestFile_FailedDeclarationPreventsWrite(t *testing.T) {
	testCases := []struct {
		name    string
		declare func(f *File) error
	}{
		{
			name:    "edge without outputs",
			declare: func(f *File) error { return f.Build(NewBuild("cp")) },
		},
		{
			name:    "rule without command",
			declare: func(f *File) error { return f.Rule(NewRule("touch").Description("x")) },
		},
		{
			name:    "unsupported value",
			declare: func(f *File) error { return f.Build(NewBuild("cp", Str("x")).Var("bad", List{nil})) },
		},
		{
			name: "duplicate rule",
			declare: func(f *File) error {
				if err := f.Rule(NewRule("cp").Command(Str("cp"))); err != nil {
					return err
				}
				return f.Rule(NewRule("cp").Command(Str("cp")))
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f, root := newTestFile(t)
			before := string(f.Bytes())

			require.Error(t, tc.declare(f))
			require.Error(t, f.Err())

			err := f.Finalize(PathManifest{})
			require.ErrorIs(t, err, ErrAborted)
			_, statErr := os.Stat(filepath.Join(root, "build", BuildFileName))
			assert.True(t, os.IsNotExist(statErr), "build file must not exist after a failed declaration")

			if tc.name != "duplicate rule" {
				assert.Equal(t, before, string(f.Bytes()), "failed declarations must not leave partial text")
			}
		})
	}
}

func TestFile_CommentTrimsLines(t *testing.T) {
	f, _ := newTestFile(t)
	f.Comment("  first  \nsecond")
	assert.Equal(t, "# first\n# second\n", string(f.Bytes()))
}

func TestFile_DefaultRequiresTarget(t *testing.T) {
	f, _ := newTestFile(t)
	var verr *ValidationError
	require.ErrorAs(t, f.Default(), &verr)
}
