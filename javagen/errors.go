package javagen

import (
	"encoding/xml"
	"fmt"
)

// A ResolveError is returned when a type reference cannot be mapped
// to a Java type: the name is declared nowhere, it is an unsupported
// built-in type, or it is declared in a schema with no known package.
type ResolveError struct {
	Name   xml.Name
	Reason string
}

func (err *ResolveError) Error() string {
	return fmt.Sprintf("cannot resolve {%s}%s: %s", err.Name.Space, err.Name.Local, err.Reason)
}

// A ShapeError is returned when a schema construct has a shape that
// code generation does not handle.
type ShapeError struct {
	// The top-level construct being generated.
	Owner string
	// Description of the offending construct.
	Value string
}

func (err *ShapeError) Error() string {
	return fmt.Sprintf("cannot handle %s in %s", err.Value, err.Owner)
}
