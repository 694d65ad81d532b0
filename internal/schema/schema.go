// Package schema holds the gohcl decoding targets of the project file.
package schema

// CargoModule is a `cargo_module "<path>" { ... }` block.
type CargoModule struct {
	Path      string   `hcl:"path,label"`
	ExtraArgs []string `hcl:"extra_args,optional"`
	InstallTo string   `hcl:"install_to,optional"`
}

// Codegen is a `codegen "<output>" { ... }` block.
type Codegen struct {
	Output   string `hcl:"output,label"`
	Template string `hcl:"template"`
	Data     string `hcl:"data"`
}

// InstallTree is an `install_tree "<from>" { ... }` block.
type InstallTree struct {
	From string `hcl:"from,label"`
	To   string `hcl:"to"`
}

// Command is a `command "<output>" { ... }` block.
type Command struct {
	Output        string            `hcl:"output,label"`
	Command       []string          `hcl:"command"`
	Cwd           string            `hcl:"cwd,optional"`
	Env           map[string]string `hcl:"env,optional"`
	Deps          []string          `hcl:"deps,optional"`
	ImplicitGlobs []string          `hcl:"implicit_globs,optional"`
	ExcludeDirs   []string          `hcl:"exclude_dirs,optional"`
	Pool          string            `hcl:"pool,optional"`
	InAll         bool              `hcl:"in_all,optional"`
}

// ProjectFile is the top-level structure of a project file.
type ProjectFile struct {
	Modules      []*CargoModule `hcl:"cargo_module,block"`
	Codegen      []*Codegen     `hcl:"codegen,block"`
	InstallTrees []*InstallTree `hcl:"install_tree,block"`
	Commands     []*Command     `hcl:"command,block"`
}
