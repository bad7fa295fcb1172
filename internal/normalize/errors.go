package normalize

import (
	"fmt"
)

// InvalidFieldError reports a raw attribute whose value could not be coerced
// to the canonical type, or violated a range invariant. The field name always
// identifies the offending attribute so the caller can fix and resubmit just
// that row.
type InvalidFieldError struct {
	Field  string
	Value  any
	Reason string
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("invalid field %q (value %v): %s", e.Field, e.Value, e.Reason)
}

// UnknownEnumValueError reports an enum attribute (orientation, condition,
// property type) whose value is not recognized after case normalization.
// Unknown enum values fail loudly rather than silently defaulting, so a
// misclassified record never sneaks into scoring.
type UnknownEnumValueError struct {
	Field string
	Value any
}

func (e *UnknownEnumValueError) Error() string {
	return fmt.Sprintf("unknown value %v for enum field %q", e.Value, e.Field)
}
