package settings

import (
	"context"
	"errors"
	"io/fs"

	"github.com/specialistvlad/ninjagen/internal/ctxlog"
)

// Overrides are command-line values that take precedence over the file.
// Empty fields leave the file value in place.
type Overrides struct {
	BuildDir string
	Coverage *bool
}

// Load resolves settings in layers: defaults, then the file at path, then
// overrides. A missing file is only an error when explicit is set.
func Load(ctx context.Context, path string, explicit bool, o Overrides) (*Settings, error) {
	logger := ctxlog.FromContext(ctx)

	s := Default()
	if path != "" {
		loaded, err := LoadFromFile(path)
		switch {
		case err == nil:
			logger.Debug("Loaded settings file.", "path", path)
			s = loaded
		case errors.Is(err, fs.ErrNotExist) && !explicit:
			logger.Debug("No settings file found, using defaults.", "path", path)
		default:
			return nil, err
		}
	}

	if o.BuildDir != "" {
		s.BuildDir = o.BuildDir
	}
	if o.Coverage != nil {
		s.Coverage = *o.Coverage
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}
