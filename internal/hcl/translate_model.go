// This file contains the logic for translating decoded HCL blocks (from the
// schema package) into the format-agnostic model defined in the config
// package.

package hcl

import (
	"fmt"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/specialistvlad/ninjagen/internal/config"
	"github.com/specialistvlad/ninjagen/internal/schema"
)

// translateProject converts every block and rejects duplicate labels.
func (l *Loader) translateProject(root *schema.ProjectFile) (*config.Project, error) {
	p := &config.Project{}

	seen := make(map[string]struct{})
	for _, m := range root.Modules {
		if err := checkRelative("cargo_module", m.Path); err != nil {
			return nil, err
		}
		if err := unique(seen, "cargo_module", m.Path); err != nil {
			return nil, err
		}
		p.Modules = append(p.Modules, &config.CargoModule{
			Path:      m.Path,
			ExtraArgs: m.ExtraArgs,
			InstallTo: m.InstallTo,
		})
	}

	// Outputs share one namespace across codegen and command blocks.
	outputs := make(map[string]struct{})
	for _, c := range root.Codegen {
		if err := checkRelative("codegen", c.Output); err != nil {
			return nil, err
		}
		if err := unique(outputs, "output", c.Output); err != nil {
			return nil, err
		}
		p.Codegen = append(p.Codegen, &config.Codegen{
			Output:   c.Output,
			Template: c.Template,
			Data:     c.Data,
		})
	}

	for _, t := range root.InstallTrees {
		if err := checkRelative("install_tree", t.From); err != nil {
			return nil, err
		}
		if t.To == "" {
			return nil, fmt.Errorf("install_tree %q: to must not be empty", t.From)
		}
		p.InstallTrees = append(p.InstallTrees, &config.InstallTree{From: t.From, To: t.To})
	}

	for _, c := range root.Commands {
		cmd, err := translateCommand(c)
		if err != nil {
			return nil, err
		}
		if err := unique(outputs, "output", cmd.Output); err != nil {
			return nil, err
		}
		p.Commands = append(p.Commands, cmd)
	}
	return p, nil
}

func translateCommand(c *schema.Command) (*config.Command, error) {
	if c.Output == "" {
		return nil, fmt.Errorf("command output label must not be empty")
	}
	if len(c.Command) == 0 {
		return nil, fmt.Errorf("command %q: command must not be empty", c.Output)
	}
	if c.Cwd != "" {
		if err := checkRelative("command "+c.Output+" cwd", c.Cwd); err != nil {
			return nil, err
		}
	}
	for _, g := range c.ImplicitGlobs {
		if g == "" {
			return nil, fmt.Errorf("command %q: implicit_globs entries must not be empty", c.Output)
		}
		if !doublestar.ValidatePattern(g) {
			return nil, fmt.Errorf("command %q: invalid implicit glob %q", c.Output, g)
		}
	}
	return &config.Command{
		Output:        c.Output,
		Argv:          c.Command,
		Cwd:           c.Cwd,
		Env:           c.Env,
		Deps:          c.Deps,
		ImplicitGlobs: c.ImplicitGlobs,
		ExcludeDirs:   c.ExcludeDirs,
		Pool:          c.Pool,
		InAll:         c.InAll,
	}, nil
}

// checkRelative requires a clean, slash-separated path inside the source root.
func checkRelative(kind, p string) error {
	switch {
	case p == "":
		return fmt.Errorf("%s path must not be empty", kind)
	case path.IsAbs(p):
		return fmt.Errorf("%s %q must be relative to the source root", kind, p)
	case path.Clean(p) != p:
		return fmt.Errorf("%s %q must be a clean path", kind, p)
	case p == ".." || strings.HasPrefix(p, "../"):
		return fmt.Errorf("%s %q escapes the source root", kind, p)
	}
	return nil
}

func unique(seen map[string]struct{}, kind, label string) error {
	if _, dup := seen[label]; dup {
		return fmt.Errorf("duplicate %s %q", kind, label)
	}
	seen[label] = struct{}{}
	return nil
}
