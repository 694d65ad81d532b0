package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/ninjagen/internal/config"
	"github.com/specialistvlad/ninjagen/internal/ctxlog"
	"github.com/specialistvlad/ninjagen/internal/schema"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// FileName is the project file looked up in the source root.
const FileName = "ninjagen.hcl"

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL project loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses the project file at path and translates it into the model.
func (l *Loader) Load(ctx context.Context, path string, vars config.Vars) (*config.Project, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path", path)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
	}

	var root schema.ProjectFile
	diags = gohcl.DecodeBody(file.Body, evalContext(vars), &root)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", path, diags)
	}

	project, err := l.translateProject(&root)
	if err != nil {
		return nil, fmt.Errorf("invalid project file %s: %w", path, err)
	}

	logger.Debug("HCL loading complete.",
		"modules", len(project.Modules),
		"codegen", len(project.Codegen),
		"install_trees", len(project.InstallTrees),
		"commands", len(project.Commands),
	)
	return project, nil
}

// evalContext exposes the build layout and a few string functions to
// project expressions.
func evalContext(vars config.Vars) *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"source_dir":      cty.StringVal(vars.SourceDir),
			"build_dir":       cty.StringVal(vars.BuildDir),
			"rust_target":     cty.StringVal(vars.RustTarget),
			"rust_target_dir": cty.StringVal(vars.RustTargetDir),
		},
		Functions: map[string]function.Function{
			"concat": stdlib.ConcatFunc,
			"format": stdlib.FormatFunc,
			"join":   stdlib.JoinFunc,
			"lower":  stdlib.LowerFunc,
			"upper":  stdlib.UpperFunc,
		},
	}
}
