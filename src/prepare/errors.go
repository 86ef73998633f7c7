package prepare

import "fmt"

// MissingColumnError reports an expected input column that is absent
// from the raw table. There is no recovery: the acquisition layer
// handed us a table with the wrong shape.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("prepare: required column %q missing from input", e.Column)
}

// UnrecognizedCategoryError reports a categorical value outside its
// expected enumeration. The pandas original silently nulled these;
// here they are surfaced so bad source data cannot pass undetected.
type UnrecognizedCategoryError struct {
	Column string
	Value  string
	Row    int
}

func (e *UnrecognizedCategoryError) Error() string {
	return fmt.Sprintf("prepare: unrecognized value %q in column %q (row %d)", e.Value, e.Column, e.Row)
}
