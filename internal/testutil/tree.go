package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// WriteTree writes files (slash-separated path -> content) below root.
func WriteTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
}

// CargoModule creates a Cargo package at root/dir with its two manifests and
// the given source files.
func CargoModule(t *testing.T, root, dir string, sources ...string) {
	t.Helper()
	files := map[string]string{
		dir + "/Cargo.toml": "[package]\nname = \"" + filepath.Base(dir) + "\"\n",
		dir + "/Cargo.lock": "version = 3\n",
	}
	for _, s := range sources {
		files[dir+"/"+s] = "fn main() {}\n"
	}
	WriteTree(t, root, files)
}
