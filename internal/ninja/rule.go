package ninja

// RuleBuilder collects the properties of a rule before it is finished.
type RuleBuilder struct {
	name  string
	props properties
}

// NewRule starts a rule declaration.
func NewRule(name string) *RuleBuilder {
	return &RuleBuilder{name: name}
}

// Var sets a rule property. The last write for a name wins.
func (b *RuleBuilder) Var(name string, v Value) *RuleBuilder {
	b.props = b.props.set(name, v)
	return b
}

// Command sets the command property from a sequence of tokens.
func (b *RuleBuilder) Command(tokens ...Value) *RuleBuilder {
	return b.Var("command", List(tokens))
}

// Description sets the line ninja prints while the rule runs.
func (b *RuleBuilder) Description(text string) *RuleBuilder {
	return b.Var("description", Str(text))
}

// Pool assigns the rule to a ninja pool, e.g. "console".
func (b *RuleBuilder) Pool(name string) *RuleBuilder {
	return b.Var("pool", Sym(name))
}

// Depfile names the gcc-style dependency file produced by the command.
func (b *RuleBuilder) Depfile(v Value) *RuleBuilder {
	return b.Var("depfile", v)
}

// Finish validates the rule and returns its immutable form.
func (b *RuleBuilder) Finish() (*Rule, error) {
	if _, ok := b.props.get("command"); !ok {
		return nil, &ValidationError{Kind: "rule", Name: b.name, Reason: "must have a command"}
	}
	return &Rule{name: b.name, props: b.props.clone()}, nil
}

// Rule is a finished, validated rule.
type Rule struct {
	name  string
	props properties
}

// Name returns the rule name edges refer to.
func (r *Rule) Name() string { return r.name }

// Property returns the value of a rule property.
func (r *Rule) Property(name string) (Value, bool) {
	return r.props.get(name)
}

func (r *Rule) encode(e *encoder) error {
	e.buf.WriteString("rule ")
	e.buf.WriteString(r.name)
	e.buf.WriteByte('\n')
	if err := e.properties(r.props); err != nil {
		return err
	}
	e.buf.WriteByte('\n')
	return nil
}
