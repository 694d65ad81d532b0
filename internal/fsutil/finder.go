// Package fsutil provides file system utility functions.
package fsutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// FindFiles returns the regular files under root matching a doublestar
// pattern such as "**/*.rs". Results are slash-separated, relative to root and
// sorted. Files and directories whose name starts with a dot are skipped.
// Unreadable directories are reported as errors.
func FindFiles(root, pattern string) ([]string, error) {
	if pattern == "" {
		return nil, errors.New("glob pattern must not be empty")
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid glob pattern %q", pattern)
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", root)
	}

	matches, err := doublestar.Glob(os.DirFS(root), pattern, doublestar.WithFilesOnly(), doublestar.WithFailOnIOErrors())
	if err != nil {
		return nil, fmt.Errorf("glob %s in %s: %w", pattern, root, err)
	}
	out := matches[:0]
	for _, m := range matches {
		if !isHidden(m) {
			out = append(out, m)
		}
	}
	sort.Strings(out)
	return out, nil
}

// isHidden reports whether any component of the slash-separated rel starts
// with a dot.
func isHidden(rel string) bool {
	for _, part := range strings.Split(rel, "/") {
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}

// ExcludeDirs drops every relative path that has a directory component named
// in dirs.
func ExcludeDirs(files []string, dirs ...string) []string {
	if len(dirs) == 0 {
		return files
	}
	skip := make(map[string]struct{}, len(dirs))
	for _, d := range dirs {
		skip[d] = struct{}{}
	}
	out := files[:0:0]
	for _, f := range files {
		if !hasComponent(path.Dir(f), skip) {
			out = append(out, f)
		}
	}
	return out
}

func hasComponent(dir string, names map[string]struct{}) bool {
	if dir == "." {
		return false
	}
	for _, part := range strings.Split(dir, "/") {
		if _, ok := names[part]; ok {
			return true
		}
	}
	return false
}

// MissingFilesError lists required files that do not exist.
type MissingFilesError struct {
	Dir   string
	Files []string
}

func (e *MissingFilesError) Error() string {
	return fmt.Sprintf("missing required files in %s: %s", e.Dir, strings.Join(e.Files, ", "))
}

// RequireFiles checks that every name exists as a regular file inside dir.
func RequireFiles(dir string, names ...string) error {
	var missing []string
	for _, name := range names {
		info, err := os.Stat(filepath.Join(dir, name))
		switch {
		case errors.Is(err, fs.ErrNotExist):
			missing = append(missing, name)
		case err != nil:
			return err
		case !info.Mode().IsRegular():
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return &MissingFilesError{Dir: dir, Files: missing}
	}
	return nil
}
