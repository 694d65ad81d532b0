// Package settings loads the generator settings file (ninjagen.yaml).
package settings

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// FileName is the settings file looked up in the source root.
const FileName = "ninjagen.yaml"

// Settings tune a generation run. Project content lives in the project file;
// settings only choose tools and layout.
type Settings struct {
	// BuildDir is relative to the source root unless absolute.
	BuildDir             string            `yaml:"build_dir"`
	NinjaRequiredVersion string            `yaml:"ninja_required_version"`
	Toolchain            ToolchainSettings `yaml:"toolchain"`
	Lint                 LintSettings      `yaml:"lint"`
	// Coverage instruments every compiled binary.
	Coverage bool            `yaml:"coverage"`
	Codegen  CodegenSettings `yaml:"codegen"`
}

// ToolchainSettings name the executables the build file invokes.
type ToolchainSettings struct {
	Rustc string `yaml:"rustc"`
	Cargo string `yaml:"cargo"`
	Ninja string `yaml:"ninja"`
}

// LintSettings configure clippy.
type LintSettings struct {
	// Allow lists lints passed as "-A <lint>".
	Allow []string `yaml:"allow"`
}

// CodegenSettings configure the codegen rule.
type CodegenSettings struct {
	Interpreter string `yaml:"interpreter"`
}

var versionPattern = regexp.MustCompile(`^[0-9]+\.[0-9]+(\.[0-9]+)?$`)

// Default returns the settings used when no file overrides them.
func Default() *Settings {
	return &Settings{
		BuildDir:             "build",
		NinjaRequiredVersion: "1.5",
		Toolchain: ToolchainSettings{
			Rustc: "rustc",
			Cargo: "cargo",
			Ninja: "ninja",
		},
		Lint: LintSettings{
			Allow: []string{"clippy::upper_case_acronyms"},
		},
		Coverage: true,
		Codegen: CodegenSettings{
			Interpreter: "ruby",
		},
	}
}

// Validate checks that every required field is set.
func (s *Settings) Validate() error {
	required := []struct {
		key   string
		value string
	}{
		{"build_dir", s.BuildDir},
		{"ninja_required_version", s.NinjaRequiredVersion},
		{"toolchain.rustc", s.Toolchain.Rustc},
		{"toolchain.cargo", s.Toolchain.Cargo},
		{"toolchain.ninja", s.Toolchain.Ninja},
		{"codegen.interpreter", s.Codegen.Interpreter},
	}
	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("%s is required", r.key)
		}
	}
	if !versionPattern.MatchString(s.NinjaRequiredVersion) {
		return fmt.Errorf("ninja_required_version %q is not a version like 1.5 or 1.10.2", s.NinjaRequiredVersion)
	}
	for i, lint := range s.Lint.Allow {
		if lint == "" {
			return fmt.Errorf("lint.allow[%d] must not be empty", i)
		}
	}
	return nil
}

// Parse decodes data on top of the defaults. Unknown keys are rejected.
func Parse(data []byte) (*Settings, error) {
	s := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(s); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}
	return s, nil
}

// LoadFromFile reads and parses the settings file at path.
func LoadFromFile(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}
