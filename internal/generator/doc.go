// Package generator drives one generation run: it probes the toolchain, loads
// the project file and writes every rule and edge of build.ninja in a fixed
// order.
//
// # Order
//
// The document is always emitted as: banner, required version, the CLEAN and
// HELP helpers, the generic rules, the self-regeneration edge, codegen, the
// cargo rules, module edges, command edges, umbrella targets and finally
// `default all`. Within each group, entries keep project file order, so equal
// inputs give byte-identical output.
package generator
