// Package toolchain discovers facts about the Rust toolchain that the build
// layout depends on.
package toolchain

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/specialistvlad/ninjagen/internal/ctxlog"
)

// hostMarker prefixes the target triple line of `rustc -vV`.
const hostMarker = "host: "

// ToolProbeError is returned when the compiler could not be queried or its
// output lacks the host line.
type ToolProbeError struct {
	Command string
	Err     error
}

func (e *ToolProbeError) Error() string {
	return fmt.Sprintf("failed to detect rust target from '%s' output: %v", e.Command, e.Err)
}

func (e *ToolProbeError) Unwrap() error { return e.Err }

// Runner runs a command and returns its standard output.
type Runner interface {
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// Output runs the command to completion. There is no timeout besides ctx.
func (ExecRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// Probe asks rustc for its host target triple.
func Probe(ctx context.Context, r Runner, rustc string) (string, error) {
	logger := ctxlog.FromContext(ctx)
	command := rustc + " -vV"
	logger.Debug("Probing toolchain.", "command", command)

	out, err := r.Output(ctx, rustc, "-vV")
	if err != nil {
		return "", &ToolProbeError{Command: command, Err: err}
	}
	target, err := ParseHost(out)
	if err != nil {
		return "", &ToolProbeError{Command: command, Err: err}
	}
	logger.Debug("Toolchain probed.", "rust_target", target)
	return target, nil
}

// ParseHost extracts the host triple from `rustc -vV` output.
func ParseHost(out []byte) (string, error) {
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		line := sc.Text()
		if strings.HasPrefix(line, hostMarker) {
			if target := strings.TrimSpace(line[len(hostMarker):]); target != "" {
				return target, nil
			}
		}
	}
	if err := sc.Err(); err != nil {
		return "", err
	}
	return "", fmt.Errorf("no %q line found", strings.TrimSpace(hostMarker))
}
