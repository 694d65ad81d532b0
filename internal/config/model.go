package config

// Project is the unified, format-agnostic representation of everything a
// generation run declares beyond the fixed rules. Every list keeps file order.
type Project struct {
	Modules      []*CargoModule
	Codegen      []*Codegen
	InstallTrees []*InstallTree
	Commands     []*Command
}

// CargoModule registers one Cargo package.
type CargoModule struct {
	// Path is slash-separated and relative to the source root.
	Path      string
	ExtraArgs []string
	// InstallTo is relative to the build directory. Empty skips compilation.
	InstallTo string
}

// Codegen renders Output by running Template on Data. All three are relative
// to the source root.
type Codegen struct {
	Output   string
	Template string
	Data     string
}

// InstallTree copies every file under From (source-relative) into To
// (build-relative), keeping the relative layout.
type InstallTree struct {
	From string
	To   string
}

// Command is a free-form edge run through the CUSTOM_COMMAND rule.
type Command struct {
	// Output is relative to the build directory.
	Output string
	// Argv tokens. Shell operators and tokens referencing ninja variables
	// are emitted verbatim.
	Argv []string
	// Cwd is source-relative. Empty runs the command in the build directory.
	Cwd  string
	Env  map[string]string
	Deps []string
	// ImplicitGlobs are doublestar patterns relative to the source root.
	ImplicitGlobs []string
	ExcludeDirs   []string
	Pool          string
	InAll         bool
}
