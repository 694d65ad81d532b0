// Package config defines the format-agnostic project model consumed by the
// generator, along with the Loader interface that produces it.
//
// The `config.Project` is the single source of truth for the `generator`
// package. Concrete loaders, such as the HCL one, live in separate packages.
package config
