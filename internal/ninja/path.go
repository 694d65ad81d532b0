package ninja

import (
	"path/filepath"
	"strings"
)

func isAbs(p string) bool {
	return filepath.IsAbs(p)
}

// Subpath reports whether candidate lies inside ancestor (or is ancestor
// itself). Both paths are made absolute first. When no relative path between
// them exists, for example across volumes, the answer is false.
func Subpath(candidate, ancestor string) bool {
	c, err := filepath.Abs(candidate)
	if err != nil {
		return false
	}
	a, err := filepath.Abs(ancestor)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(a, c)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// resolvePath renders p for a file whose build directory is buildDir and
// whose source root is sourceDir. Both must be absolute and clean.
func resolvePath(p Path, buildDir, sourceDir string) string {
	if !p.absolute {
		return relOrSelf(buildDir, filepath.Join(sourceDir, p.path))
	}
	abs := filepath.Clean(p.path)
	if Subpath(abs, buildDir) || Subpath(abs, sourceDir) {
		return relOrSelf(buildDir, abs)
	}
	return p.path
}

func relOrSelf(base, target string) string {
	rel, err := filepath.Rel(base, target)
	if err != nil {
		return target
	}
	return filepath.ToSlash(rel)
}
