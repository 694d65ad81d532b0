package ninja

import (
	"fmt"
	"strings"
)

// encoder renders values relative to one build directory and source root.
type encoder struct {
	buf       *strings.Builder
	buildDir  string
	sourceDir string
}

// value writes v, flattening lists with single spaces.
func (e *encoder) value(v Value) error {
	list, ok := v.(List)
	if !ok {
		return e.scalar(v)
	}
	for i, item := range list {
		if i > 0 {
			e.buf.WriteByte(' ')
		}
		if err := e.value(item); err != nil {
			return err
		}
	}
	return nil
}

func (e *encoder) scalar(v Value) error {
	switch v := v.(type) {
	case Raw:
		e.buf.WriteString(string(v))
	case Str:
		e.buf.WriteString(escapeWord(string(v)))
	case Sym:
		e.buf.WriteString(escapeWord(string(v)))
	case Path:
		e.buf.WriteString(escapeWord(resolvePath(v, e.buildDir, e.sourceDir)))
	case List:
		return e.value(v)
	default:
		return &SerializationError{Kind: fmt.Sprintf("%T", v)}
	}
	return nil
}

// items writes each value preceded by a single space.
func (e *encoder) items(values []Value) error {
	for _, v := range values {
		e.buf.WriteByte(' ')
		if err := e.value(v); err != nil {
			return err
		}
	}
	return nil
}

func (e *encoder) properties(props properties) error {
	for _, p := range props {
		e.buf.WriteString("  ")
		e.buf.WriteString(p.name)
		e.buf.WriteString(" = ")
		if err := e.value(p.value); err != nil {
			return fmt.Errorf("property %q: %w", p.name, err)
		}
		e.buf.WriteByte('\n')
	}
	return nil
}
