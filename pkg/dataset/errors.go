package dataset

import "fmt"

// InputNotFoundError indicates the input table does not exist or cannot be opened.
type InputNotFoundError struct {
	Path string
	Err  error
}

func (e *InputNotFoundError) Error() string {
	return fmt.Sprintf("input table not found: %s", e.Path)
}

func (e *InputNotFoundError) Unwrap() error { return e.Err }

// MalformedRecordError indicates a row is missing a required field.
// Row is 1-based and counts the header row, matching what a user sees
// in a spreadsheet.
type MalformedRecordError struct {
	Row   int
	Field string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("row %d: missing required field %q", e.Row, e.Field)
}

// UnknownRelationshipTypeError indicates a row carries a relationship_type
// outside the known set.
type UnknownRelationshipTypeError struct {
	Row   int
	Value string
}

func (e *UnknownRelationshipTypeError) Error() string {
	return fmt.Sprintf("row %d: unknown relationship_type %q", e.Row, e.Value)
}
