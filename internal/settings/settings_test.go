package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/ninjagen/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	s := Default()

	require.NoError(t, s.Validate())
	assert.Equal(t, "build", s.BuildDir)
	assert.Equal(t, "1.5", s.NinjaRequiredVersion)
	assert.Equal(t, []string{"clippy::upper_case_acronyms"}, s.Lint.Allow)
	assert.True(t, s.Coverage)
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name    string
		modify  func(*Settings)
		wantErr string
	}{
		{name: "defaults", modify: func(*Settings) {}},
		{name: "three part version", modify: func(s *Settings) { s.NinjaRequiredVersion = "1.10.2" }},
		{name: "no allowed lints", modify: func(s *Settings) { s.Lint.Allow = nil }},
		{name: "missing build dir", modify: func(s *Settings) { s.BuildDir = "" }, wantErr: "build_dir is required"},
		{name: "missing cargo", modify: func(s *Settings) { s.Toolchain.Cargo = "" }, wantErr: "toolchain.cargo is required"},
		{name: "missing interpreter", modify: func(s *Settings) { s.Codegen.Interpreter = "" }, wantErr: "codegen.interpreter is required"},
		{name: "bad version", modify: func(s *Settings) { s.NinjaRequiredVersion = "latest" }, wantErr: "not a version"},
		{name: "empty lint", modify: func(s *Settings) { s.Lint.Allow = []string{""} }, wantErr: "lint.allow[0]"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := Default()
			tc.modify(s)
			err := s.Validate()
			if tc.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestParse(t *testing.T) {
	s, err := Parse([]byte(`
build_dir: out
coverage: false
toolchain:
  cargo: /opt/rust/bin/cargo
lint:
  allow: [clippy::too_many_arguments]
`))

	require.NoError(t, err)
	assert.Equal(t, "out", s.BuildDir)
	assert.False(t, s.Coverage)
	assert.Equal(t, "/opt/rust/bin/cargo", s.Toolchain.Cargo)
	assert.Equal(t, "rustc", s.Toolchain.Rustc, "unset keys keep their defaults")
	assert.Equal(t, []string{"clippy::too_many_arguments"}, s.Lint.Allow)
}

func TestParse_EmptyDocumentKeepsDefaults(t *testing.T) {
	s, err := Parse(nil)

	require.NoError(t, err)
	assert.Equal(t, Default(), s)
}

func TestParse_UnknownKey(t *testing.T) {
	_, err := Parse([]byte("bulid_dir: out\n"))
	require.Error(t, err)
}

func TestLoad(t *testing.T) {
	ctx, _ := testutil.LogContext(t)
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)

	t.Run("missing implicit file falls back to defaults", func(t *testing.T) {
		s, err := Load(ctx, path, false, Overrides{})
		require.NoError(t, err)
		assert.Equal(t, Default(), s)
	})

	t.Run("missing explicit file is an error", func(t *testing.T) {
		_, err := Load(ctx, path, true, Overrides{})
		require.Error(t, err)
	})

	t.Run("overrides win over the file", func(t *testing.T) {
		require.NoError(t, os.WriteFile(path, []byte("build_dir: from-file\ncoverage: true\n"), 0o644))
		off := false

		s, err := Load(ctx, path, true, Overrides{BuildDir: "from-flag", Coverage: &off})

		require.NoError(t, err)
		assert.Equal(t, "from-flag", s.BuildDir)
		assert.False(t, s.Coverage)
	})

	t.Run("invalid result is rejected", func(t *testing.T) {
		require.NoError(t, os.WriteFile(path, []byte("ninja_required_version: x\n"), 0o644))
		_, err := Load(ctx, path, true, Overrides{})
		require.Error(t, err)
	})
}
