// Package diffcheck compares a freshly generated document with the copy on
// disk and renders a line diff.
package diffcheck

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/fatih/color"
	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

// Options control Write.
type Options struct {
	// Context is the number of unchanged lines kept around each change.
	Context int
	Color   bool
}

// Line is one line of a line diff.
type Line struct {
	Op   diffpatch.Operation
	Text string
}

// Lines diffs a and b line by line.
func Lines(a, b string) []Line {
	dmp := diffpatch.New()
	ca, cb, lines := dmp.DiffLinesToChars(a, b)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(ca, cb, false), lines)

	var out []Line
	for _, d := range diffs {
		for _, text := range splitLines(d.Text) {
			out = append(out, Line{Op: d.Type, Text: text})
		}
	}
	return out
}

// splitLines splits s after every newline. Each line keeps its "\n" except
// a final line without one.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.SplitAfter(s, "\n")
	if parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	return parts
}

// Stale reports whether the file at path differs from want, and returns the
// current content. A missing file is stale with empty content.
func Stale(path string, want []byte) (bool, []byte, error) {
	have, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return true, nil, nil
	}
	if err != nil {
		return false, nil, err
	}
	return string(have) != string(want), have, nil
}

// Write renders the diff from a to b and reports whether they differ.
func Write(w io.Writer, fromName, toName, a, b string, opts Options) (bool, error) {
	lines := Lines(a, b)
	changed := false
	for _, l := range lines {
		if l.Op != diffpatch.DiffEqual {
			changed = true
			break
		}
	}
	if !changed {
		return false, nil
	}

	del := color.New(color.FgRed)
	ins := color.New(color.FgGreen)
	hdr := color.New(color.Bold)
	for _, c := range []*color.Color{del, ins, hdr} {
		if opts.Color {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	pw := &printer{w: w}
	pw.printf(hdr, "--- %s\n+++ %s\n", fromName, toName)
	for i, l := range lines {
		switch l.Op {
		case diffpatch.DiffDelete:
			pw.printf(del, "-%s\n", strings.TrimSuffix(l.Text, "\n"))
		case diffpatch.DiffInsert:
			pw.printf(ins, "+%s\n", strings.TrimSuffix(l.Text, "\n"))
		default:
			switch {
			case nearChange(lines, i, opts.Context):
				pw.printf(nil, " %s\n", strings.TrimSuffix(l.Text, "\n"))
			case i > 0 && nearChange(lines, i-1, opts.Context):
				pw.printf(hdr, "@@\n")
			}
		}
	}
	return true, pw.err
}

// nearChange reports whether a changed line lies within n lines of i.
func nearChange(lines []Line, i, n int) bool {
	for j := max(0, i-n); j <= min(len(lines)-1, i+n); j++ {
		if lines[j].Op != diffpatch.DiffEqual {
			return true
		}
	}
	return false
}

// printer keeps the first write error.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(c *color.Color, format string, args ...any) {
	if p.err != nil {
		return
	}
	if c == nil {
		_, p.err = fmt.Fprintf(p.w, format, args...)
		return
	}
	_, p.err = c.Fprintf(p.w, format, args...)
}
