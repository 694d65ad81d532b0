package testutil

import (
	"context"
	"fmt"
	"strings"
)

// RustcOutput is a realistic `rustc -vV` output for x86_64 Linux.
const RustcOutput = `rustc 1.83.0 (90b35a623 2024-11-26)
binary: rustc
host: x86_64-unknown-linux-gnu
release: 1.83.0
`

// FakeRunner answers toolchain commands from a fixed table keyed by the
// joined command line.
type FakeRunner struct {
	Outputs map[string]string
	Calls   []string
}

// NewRustcRunner returns a FakeRunner that knows `rustc -vV`.
func NewRustcRunner() *FakeRunner {
	return &FakeRunner{Outputs: map[string]string{"rustc -vV": RustcOutput}}
}

// Output implements toolchain.Runner.
func (f *FakeRunner) Output(_ context.Context, name string, args ...string) ([]byte, error) {
	cmd := strings.Join(append([]string{name}, args...), " ")
	f.Calls = append(f.Calls, cmd)
	out, ok := f.Outputs[cmd]
	if !ok {
		return nil, fmt.Errorf("exec: %q: executable file not found in $PATH", name)
	}
	return []byte(out), nil
}
