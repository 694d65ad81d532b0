package system

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/ninjagen/internal/app"
	"github.com/specialistvlad/ninjagen/internal/hcl"
	"github.com/specialistvlad/ninjagen/internal/testutil"
	"github.com/stretchr/testify/require"
)

// runApp generates build.ninja for root and returns the log output and the
// error of the run. mutate may adjust the configuration before validation.
func runApp(t *testing.T, root string, mutate func(*app.Config)) (string, error) {
	t.Helper()
	cfg := app.Config{SourceDir: root, LogLevel: "debug", LogFormat: "text"}
	if mutate != nil {
		mutate(&cfg)
	}
	appConfig, err := app.NewConfig(cfg)
	require.NoError(t, err)

	logs := &testutil.SafeBuffer{}
	a := app.NewApp(&bytes.Buffer{}, logs, appConfig, testutil.NewRustcRunner(), hcl.NewLoader())
	a.SetExecutable("/usr/local/bin/ninjagen")
	err = a.Run(context.Background())
	if os.Getenv("NINJAGEN_TEST_LOGS") == "true" {
		t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logs.String())
	}
	return logs.String(), err
}

// readBuildFile returns the generated build.ninja below buildDir.
func readBuildFile(t *testing.T, buildDir string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(buildDir, "build.ninja"))
	require.NoError(t, err)
	return string(data)
}
