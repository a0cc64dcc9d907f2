package profile

import "fmt"

// InvalidInputError reports a caller contract violation, such as passing
// something that is not a profile record.
type InvalidInputError struct {
	Field string
	Got   string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: expected a profile record, got %s", e.Field, e.Got)
}

func invalid(field string, v any) *InvalidInputError {
	got := "nil"
	if v != nil {
		got = fmt.Sprintf("%T", v)
	}
	return &InvalidInputError{Field: field, Got: got}
}
