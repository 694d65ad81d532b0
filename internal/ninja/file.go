package ninja

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// BuildFileName is the file ninja reads from the build directory.
	BuildFileName = "build.ninja"
	// ManifestFileName holds the PathManifest written next to BuildFileName.
	ManifestFileName = "info.json"
)

// ErrAborted is returned by Finalize after any declaration failed.
var ErrAborted = errors.New("build file not written: an earlier declaration failed")

// PathManifest lists absolute paths that downstream tools need without
// re-deriving the build layout.
type PathManifest struct {
	CoverageDir   string `json:"coverage_dir"`
	BuildDir      string `json:"build_dir"`
	RustTargetDir string `json:"rust_target_dir"`
}

// File is the build.ninja document of one generation run.
type File struct {
	buf       strings.Builder
	buildDir  string
	sourceDir string
	rules     map[string]struct{}
	edges     int
	err       error
}

// NewFile canonicalizes buildDir and sourceDir and creates the build
// directory if it does not exist yet.
func NewFile(buildDir, sourceDir string) (*File, error) {
	bd, err := filepath.Abs(buildDir)
	if err != nil {
		return nil, fmt.Errorf("resolve build dir: %w", err)
	}
	sd, err := filepath.Abs(sourceDir)
	if err != nil {
		return nil, fmt.Errorf("resolve source dir: %w", err)
	}
	if err := os.MkdirAll(bd, 0o755); err != nil {
		return nil, err
	}
	return &File{
		buildDir:  bd,
		sourceDir: sd,
		rules:     make(map[string]struct{}),
	}, nil
}

// BuildDir returns the absolute build directory.
func (f *File) BuildDir() string { return f.buildDir }

// SourceDir returns the absolute source root.
func (f *File) SourceDir() string { return f.sourceDir }

// RuleCount returns the number of rules declared so far.
func (f *File) RuleCount() int { return len(f.rules) }

// EdgeCount returns the number of build edges declared so far.
func (f *File) EdgeCount() int { return f.edges }

// Err returns the first declaration failure, if any.
func (f *File) Err() error { return f.err }

func (f *File) fail(err error) error {
	if f.err == nil {
		f.err = err
	}
	return err
}

// emit renders through a scratch buffer so nothing is appended on failure.
func (f *File) emit(render func(e *encoder) error) error {
	var scratch strings.Builder
	e := &encoder{buf: &scratch, buildDir: f.buildDir, sourceDir: f.sourceDir}
	if err := render(e); err != nil {
		return f.fail(err)
	}
	f.buf.WriteString(scratch.String())
	return nil
}

// Comment writes every line of text as a "#" comment.
func (f *File) Comment(text string) {
	for _, line := range strings.SplitAfter(text, "\n") {
		if line == "" {
			continue
		}
		f.buf.WriteString("# ")
		f.buf.WriteString(strings.TrimSpace(line))
		f.buf.WriteByte('\n')
	}
}

// Var writes a top-level variable assignment.
func (f *File) Var(name string, v Value) error {
	return f.emit(func(e *encoder) error {
		e.buf.WriteString(name)
		e.buf.WriteString(" = ")
		if err := e.value(v); err != nil {
			return fmt.Errorf("variable %q: %w", name, err)
		}
		e.buf.WriteString("\n\n")
		return nil
	})
}

// Rule finishes b and appends the rule. Rule names are unique per file.
func (f *File) Rule(b *RuleBuilder) error {
	r, err := b.Finish()
	if err != nil {
		return f.fail(err)
	}
	if _, dup := f.rules[r.name]; dup {
		return f.fail(&ValidationError{Kind: "rule", Name: r.name, Reason: "is already declared"})
	}
	if err := f.emit(func(e *encoder) error {
		if err := r.encode(e); err != nil {
			return fmt.Errorf("rule %s: %w", r.name, err)
		}
		return nil
	}); err != nil {
		return err
	}
	f.rules[r.name] = struct{}{}
	return nil
}

// Build finishes b and appends the edge.
func (f *File) Build(b *BuildBuilder) error {
	edge, err := b.Finish()
	if err != nil {
		return f.fail(err)
	}
	if err := f.emit(func(e *encoder) error {
		if err := edge.encode(e); err != nil {
			return fmt.Errorf("build edge %s: %w", edge.rule, err)
		}
		return nil
	}); err != nil {
		return err
	}
	f.edges++
	return nil
}

// Default declares the targets ninja builds when none is named.
func (f *File) Default(targets ...Value) error {
	if len(targets) == 0 {
		return f.fail(&ValidationError{Kind: "default", Name: "statement", Reason: "must name at least one target"})
	}
	return f.emit(func(e *encoder) error {
		e.buf.WriteString("default")
		if err := e.items(targets); err != nil {
			return err
		}
		e.buf.WriteString("\n\n")
		return nil
	})
}

// Bytes returns the document rendered so far.
func (f *File) Bytes() []byte {
	return []byte(f.buf.String())
}

// Path returns the absolute location of build.ninja.
func (f *File) Path() string {
	return filepath.Join(f.buildDir, BuildFileName)
}

// Finalize writes build.ninja and the path manifest into the build directory.
// It writes nothing if any declaration failed. Both files are staged before
// either is renamed into place, and the manifest goes first, so a failure
// never leaves a new build.ninja next to a stale manifest.
func (f *File) Finalize(manifest PathManifest) error {
	if f.err != nil {
		return fmt.Errorf("%w: %w", ErrAborted, f.err)
	}
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("encode path manifest: %w", err)
	}

	manifestPath := filepath.Join(f.buildDir, ManifestFileName)
	manifestTmp, err := stageFile(manifestPath, data)
	if err != nil {
		return err
	}
	buildTmp, err := stageFile(f.Path(), f.Bytes())
	if err != nil {
		os.Remove(manifestTmp)
		return err
	}

	if err := os.Rename(manifestTmp, manifestPath); err != nil {
		os.Remove(manifestTmp)
		os.Remove(buildTmp)
		return err
	}
	if err := os.Rename(buildTmp, f.Path()); err != nil {
		os.Remove(buildTmp)
		return err
	}
	return nil
}

// stageFile writes data to a temporary sibling of path and returns its name.
func stageFile(path string, data []byte) (string, error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return "", err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return "", err
	}
	return tmpName, nil
}
