// Package hcl provides the concrete HCL implementation of config.Loader. It
// parses the project file, evaluates its expressions against the build
// layout and translates the decoded blocks into the format-agnostic model.
package hcl
