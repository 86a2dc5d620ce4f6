package typesystem

import "fmt"

// DuplicateNameError indicates a name declared twice in a registry.
type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("duplicate declaration: %s", e.Name)
}

// UnknownTypeError indicates a member referencing an undeclared type name.
type UnknownTypeError struct {
	Name    string
	Context string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("%s: unknown type %s", e.Context, e.Name)
}

// NewUnknownTypeError reports a type name that is not registered.
func NewUnknownTypeError(name, context string) *UnknownTypeError {
	return &UnknownTypeError{Name: name, Context: context}
}
