package grammar

import "fmt"

// IndexError indicates a generator index outside the grammar.
type IndexError struct {
	Index VecIndex
	Dim   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("generator %s out of range for a %d-dimensional grammar", e.Index, e.Dim)
}

// ConventionError indicates a naming convention that does not describe the
// same generator set as the blade it renames.
type ConventionError struct {
	Canonical []VecIndex
	Preferred []VecIndex
	Reason    string
}

func (e *ConventionError) Error() string {
	return fmt.Sprintf("convention %v -> %v: %s", e.Canonical, e.Preferred, e.Reason)
}
