package diffcheck

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLines(t *testing.T) {
	got := Lines("a\nb\nc\n", "a\nB\nc\n")

	assert.Equal(t, []Line{
		{Op: diffpatch.DiffEqual, Text: "a\n"},
		{Op: diffpatch.DiffDelete, Text: "b\n"},
		{Op: diffpatch.DiffInsert, Text: "B\n"},
		{Op: diffpatch.DiffEqual, Text: "c\n"},
	}, got)
}

func TestLines_MultiLineChunksKeepNewlines(t *testing.T) {
	got := Lines("a\nb\nc\nd", "a\nb\nx\ny\nd")

	assert.Equal(t, []Line{
		{Op: diffpatch.DiffEqual, Text: "a\n"},
		{Op: diffpatch.DiffEqual, Text: "b\n"},
		{Op: diffpatch.DiffDelete, Text: "c\n"},
		{Op: diffpatch.DiffInsert, Text: "x\n"},
		{Op: diffpatch.DiffInsert, Text: "y\n"},
		{Op: diffpatch.DiffEqual, Text: "d"},
	}, got)
}

func TestWrite_Identical(t *testing.T) {
	var buf bytes.Buffer

	changed, err := Write(&buf, "old", "new", "x\n", "x\n", Options{Context: 1})

	require.NoError(t, err)
	assert.False(t, changed)
	assert.Empty(t, buf.String())
}

func TestWrite_ContextAndGaps(t *testing.T) {
	from := "1\n2\n3\n4\n5\n6\n7\n"
	to := "1\n2\nthree\n4\n5\n6\nseven\n"
	var buf bytes.Buffer

	changed, err := Write(&buf, "build.ninja", "generated", from, to, Options{Context: 1})

	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, `--- build.ninja
+++ generated
 2
-3
+three
 4
@@
 6
-7
+seven
`, buf.String())
}

func TestWrite_Colored(t *testing.T) {
	var buf bytes.Buffer

	_, err := Write(&buf, "a", "b", "x\n", "y\n", Options{Color: true})

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "\x1b[31m-x")
	assert.Contains(t, buf.String(), "\x1b[32m+y")
}

func TestStale(t *testing.T) {
	path := filepath.Join(t.TempDir(), "build.ninja")

	stale, have, err := Stale(path, []byte("x"))
	require.NoError(t, err)
	assert.True(t, stale, "missing file is stale")
	assert.Nil(t, have)

	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	stale, have, err = Stale(path, []byte("x"))
	require.NoError(t, err)
	assert.False(t, stale)
	assert.Equal(t, []byte("x"), have)

	stale, _, err = Stale(path, []byte("y"))
	require.NoError(t, err)
	assert.True(t, stale)
}
