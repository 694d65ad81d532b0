package config

import (
	"context"
)

// Vars are the layout values a project file may reference in expressions.
type Vars struct {
	SourceDir     string
	BuildDir      string
	RustTarget    string
	RustTargetDir string
}

// Loader is the interface for a format-specific project loader.
type Loader interface {
	// Load reads the project file at path, evaluates it against vars and
	// translates it into the format-agnostic model.
	Load(ctx context.Context, path string, vars Vars) (*Project, error)
}
