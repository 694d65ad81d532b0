// Package ninja models a ninja build graph and serializes it into the textual
// build.ninja format consumed by the ninja executor.
//
// # Phases
//
// Every declaration goes through the same three steps:
//
//  1. **Mutation:** a RuleBuilder or BuildBuilder is created and configured
//     through its setters (Var, Command, AddDependency, ...).
//  2. **Validation:** Finish checks the graph invariants (a rule needs a
//     command, an edge needs at least one output) and returns an immutable
//     Rule or Build, or a *ValidationError.
//  3. **Serialization:** File.Rule and File.Build render the finished value
//     into a scratch buffer and append it to the file only when rendering
//     succeeded.
//
// # Values
//
// Property values and edge inputs/outputs are Values. The set of variants is
// closed:
//
//	Raw   verbatim build-file syntax ($in, $out, &&, variable references)
//	Str   shell-escaped string
//	Sym   shell-escaped symbol (rule-local names such as pool names)
//	Path  filesystem path, rebased onto the build directory on output
//	List  ordered sequence, flattened and joined by single spaces
//
// # Paths
//
// Relative paths are interpreted against the source root. Absolute paths that
// live under the build directory or the source root are rewritten relative to
// the build directory, everything else (toolchain binaries, /dev/null) is kept
// as is. This keeps the emitted file relocatable together with the tree.
//
// # Writing
//
// A File is created once per generation run. The first failed declaration is
// remembered and Finalize refuses to write anything afterwards, so ninja never
// sees a half-correct graph.
package ninja
