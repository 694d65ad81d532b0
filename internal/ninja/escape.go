package ninja

import "strings"

// shellEscape quotes s so that a POSIX shell reads it back as a single word.
// Every byte outside the safe set gets a backslash, newlines become '\n'
// quoted in single quotes, and the empty string becomes ''.
func shellEscape(s string) string {
	if s == "" {
		return "''"
	}
	var sb strings.Builder
	sb.Grow(len(s) + 8)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\n':
			sb.WriteString("'\n'")
		case isShellSafe(c):
			sb.WriteByte(c)
		default:
			sb.WriteByte('\\')
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

func isShellSafe(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	}
	switch c {
	case '_', '-', '.', ',', ':', '+', '/', '@':
		return true
	}
	return false
}

// escapeWord shell-escapes s but leaves '=' unescaped, so KEY=value
// environment assignments in front of a command keep working.
func escapeWord(s string) string {
	return strings.ReplaceAll(shellEscape(s), `\=`, "=")
}
