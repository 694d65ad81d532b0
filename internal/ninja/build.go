package ninja

// BuildBuilder collects the inputs, outputs and properties of a build edge.
type BuildBuilder struct {
	rule            string
	outputs         []Value
	implicitOutputs []Value
	deps            []Value
	implicitDeps    []Value
	orderOnlyDeps   []Value
	props           properties
}

// NewBuild starts a build edge for rule. Outputs may be given here or added
// later with AddOutput.
func NewBuild(rule string, outputs ...Value) *BuildBuilder {
	b := &BuildBuilder{rule: rule}
	for _, o := range outputs {
		b.outputs = appendItem(b.outputs, o)
	}
	return b
}

// appendItem appends a scalar, or the elements of a List.
func appendItem(dst []Value, item Value) []Value {
	if l, ok := item.(List); ok {
		return append(dst, l...)
	}
	return append(dst, item)
}

// Var sets an edge-local variable. The last write for a name wins.
func (b *BuildBuilder) Var(name string, v Value) *BuildBuilder {
	b.props = b.props.set(name, v)
	return b
}

// Description overrides the rule description for this edge.
func (b *BuildBuilder) Description(text string) *BuildBuilder {
	return b.Var("description", Str(text))
}

// AddOutput appends an explicit output. A List adds each of its elements.
func (b *BuildBuilder) AddOutput(item Value) *BuildBuilder {
	b.outputs = appendItem(b.outputs, item)
	return b
}

// AddImplicitOutput appends an output listed after `|` on the build line.
func (b *BuildBuilder) AddImplicitOutput(item Value) *BuildBuilder {
	b.implicitOutputs = appendItem(b.implicitOutputs, item)
	return b
}

// AddDependency appends an explicit input, available to the rule as $in.
func (b *BuildBuilder) AddDependency(item Value) *BuildBuilder {
	b.deps = appendItem(b.deps, item)
	return b
}

// AddImplicitDependency appends an input that triggers a rebuild but is not
// part of $in.
func (b *BuildBuilder) AddImplicitDependency(item Value) *BuildBuilder {
	b.implicitDeps = appendItem(b.implicitDeps, item)
	return b
}

// AddOrderOnlyDependency appends an input that must be built first but never
// triggers a rebuild.
func (b *BuildBuilder) AddOrderOnlyDependency(item Value) *BuildBuilder {
	b.orderOnlyDeps = appendItem(b.orderOnlyDeps, item)
	return b
}

// Finish validates the edge and returns its immutable form.
func (b *BuildBuilder) Finish() (*Build, error) {
	if len(b.outputs) == 0 {
		return nil, &ValidationError{Kind: "build edge", Name: b.rule, Reason: "must have at least one output"}
	}
	return &Build{
		rule:            b.rule,
		outputs:         cloneValues(b.outputs),
		implicitOutputs: cloneValues(b.implicitOutputs),
		deps:            cloneValues(b.deps),
		implicitDeps:    cloneValues(b.implicitDeps),
		orderOnlyDeps:   cloneValues(b.orderOnlyDeps),
		props:           b.props.clone(),
	}, nil
}

func cloneValues(v []Value) []Value {
	if len(v) == 0 {
		return nil
	}
	out := make([]Value, len(v))
	copy(out, v)
	return out
}

// Build is a finished, validated build edge.
type Build struct {
	rule            string
	outputs         []Value
	implicitOutputs []Value
	deps            []Value
	implicitDeps    []Value
	orderOnlyDeps   []Value
	props           properties
}

// Rule returns the name of the rule the edge refers to.
func (b *Build) Rule() string { return b.rule }

// Outputs returns a copy of the explicit outputs.
func (b *Build) Outputs() []Value { return cloneValues(b.outputs) }

// ImplicitOutputs returns a copy of the implicit outputs.
func (b *Build) ImplicitOutputs() []Value { return cloneValues(b.implicitOutputs) }

// Dependencies returns a copy of the explicit inputs.
func (b *Build) Dependencies() []Value { return cloneValues(b.deps) }

// ImplicitDependencies returns a copy of the implicit inputs.
func (b *Build) ImplicitDependencies() []Value { return cloneValues(b.implicitDeps) }

// OrderOnlyDependencies returns a copy of the order-only inputs.
func (b *Build) OrderOnlyDependencies() []Value { return cloneValues(b.orderOnlyDeps) }

// Property returns the value of an edge variable.
func (b *Build) Property(name string) (Value, bool) {
	return b.props.get(name)
}

func (b *Build) encode(e *encoder) error {
	e.buf.WriteString("build")
	if err := e.items(b.outputs); err != nil {
		return err
	}
	if len(b.implicitOutputs) > 0 {
		e.buf.WriteString(" |")
		if err := e.items(b.implicitOutputs); err != nil {
			return err
		}
	}
	e.buf.WriteString(": ")
	e.buf.WriteString(b.rule)
	if err := e.items(b.deps); err != nil {
		return err
	}
	if len(b.implicitDeps) > 0 {
		e.buf.WriteString(" |")
		if err := e.items(b.implicitDeps); err != nil {
			return err
		}
	}
	if len(b.orderOnlyDeps) > 0 {
		e.buf.WriteString(" ||")
		if err := e.items(b.orderOnlyDeps); err != nil {
			return err
		}
	}
	e.buf.WriteByte('\n')
	if err := e.properties(b.props); err != nil {
		return err
	}
	e.buf.WriteByte('\n')
	return nil
}
