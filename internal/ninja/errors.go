package ninja

import "fmt"

// ValidationError reports a violated graph invariant on a rule or build edge.
type ValidationError struct {
	Kind   string // "rule" or "build edge"
	Name   string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s %s", e.Kind, e.Name, e.Reason)
}

// SerializationError reports a value the serializer cannot render. It always
// points at a bug in the code declaring the graph.
type SerializationError struct {
	Kind string
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("unsupported variable type: %s", e.Kind)
}
