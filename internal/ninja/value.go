package ninja

// Value is a property value or an edge input/output. It is implemented only by
// the variants declared in this file.
type Value interface {
	isValue()
}

// Raw is emitted verbatim, without any escaping. Reserve it for build-file
// syntax.
type Raw string

// Str is a plain string, shell-escaped on output.
type Str string

// Sym is a symbolic name, shell-escaped on output like Str.
type Sym string

// List is an ordered sequence of values. Nested lists flatten on output.
type List []Value

// Path is a filesystem path. A relative Path is interpreted against the
// source root of the File it is written to.
type Path struct {
	path     string
	absolute bool
}

func (Raw) isValue()  {}
func (Str) isValue()  {}
func (Sym) isValue()  {}
func (List) isValue() {}
func (Path) isValue() {}

// Frequently used raw tokens.
const (
	And Raw = "&&"
	In  Raw = "$in"
	Out Raw = "$out"
)

// SourcePath references p relative to the source root. Absolute inputs are
// treated like AbsPath.
func SourcePath(p string) Path {
	return Path{path: p, absolute: isAbs(p)}
}

// AbsPath references an absolute path.
func AbsPath(p string) Path {
	return Path{path: p, absolute: true}
}

// String returns the path as given by the caller.
func (p Path) String() string {
	return p.path
}

// IsAbs reports whether the path is absolute.
func (p Path) IsAbs() bool {
	return p.absolute
}

// Strs converts plain strings into a List of Str.
func Strs(items ...string) List {
	l := make(List, 0, len(items))
	for _, it := range items {
		l = append(l, Str(it))
	}
	return l
}

// Paths converts source-relative paths into a List of Path.
func Paths(items ...string) List {
	l := make(List, 0, len(items))
	for _, it := range items {
		l = append(l, SourcePath(it))
	}
	return l
}
