package ninja

type property struct {
	name  string
	value Value
}

// properties is an insertion-ordered name/value list. Setting an existing
// name replaces its value in place.
type properties []property

func (p properties) set(name string, v Value) properties {
	for i := range p {
		if p[i].name == name {
			p[i].value = v
			return p
		}
	}
	return append(p, property{name: name, value: v})
}

func (p properties) get(name string) (Value, bool) {
	for _, prop := range p {
		if prop.name == name {
			return prop.value, true
		}
	}
	return nil, false
}

func (p properties) clone() properties {
	if p == nil {
		return nil
	}
	out := make(properties, len(p))
	copy(out, p)
	return out
}
