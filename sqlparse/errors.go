package sqlparse

import (
	"errors"
	"fmt"
)

// ParseError reports a syntax error with its position in the input.
type ParseError struct {
	// Pos is the byte offset of the offending token.
	Pos int

	// Near is the literal of the offending token, if any.
	Near string

	// Message describes what the parser expected.
	Message string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Near != "" {
		return fmt.Sprintf("syntax error at offset %d near %q: %s", e.Pos, e.Near, e.Message)
	}
	return fmt.Sprintf("syntax error at offset %d: %s", e.Pos, e.Message)
}

// IsParseError reports whether err is (or wraps) a ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}
