package transform

import (
	"errors"
	"fmt"
)

// InvalidMappingError reports a table-mapping value that parses as neither a
// table identifier nor a SQL expression. Value carries the offending
// literal.
type InvalidMappingError struct {
	Value string
}

// Error implements the error interface.
func (e *InvalidMappingError) Error() string {
	return fmt.Sprintf("%s is not a valid SQL expression", e.Value)
}

// MaliciousInputError reports input rejected before emission because its
// structure could smuggle SQL past the substitution layer, such as a second
// statement hidden behind a separator.
type MaliciousInputError struct {
	Reason string
}

// Error implements the error interface.
func (e *MaliciousInputError) Error() string {
	return "malicious query rejected: " + e.Reason
}

// IsInvalidMapping reports whether err is (or wraps) an
// InvalidMappingError.
func IsInvalidMapping(err error) bool {
	var ime *InvalidMappingError
	return errors.As(err, &ime)
}

// IsMaliciousInput reports whether err is (or wraps) a
// MaliciousInputError.
func IsMaliciousInput(err error) bool {
	var mie *MaliciousInputError
	return errors.As(err, &mie)
}
