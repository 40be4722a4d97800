package builder

import (
	"errors"
	"fmt"
	"strings"
)

// BuildError represents a configuration error detected while constructing
// or composing query builders.
//
// Build errors include:
//   - Cycle detection: a view transitively depends on itself
//   - Missing dependency: a referenced table has no loader
//   - Empty view: a view schema references no tables at all
//
// All build errors are deterministic functions of the schema configuration;
// nothing in this layer retries.
type BuildError struct {
	// Code identifies the error category.
	Code BuildErrorCode

	// Message is a human-readable description.
	Message string

	// View identifies the affected view schema.
	View string

	// Path holds the dependency path for cycle errors.
	Path []string
}

// BuildErrorCode categorizes build errors.
type BuildErrorCode string

const (
	// ErrCodeCycleDetected indicates a view transitively depends on itself.
	ErrCodeCycleDetected BuildErrorCode = "CYCLE_DETECTED"

	// ErrCodeMissingDependency indicates a referenced table has no loader.
	ErrCodeMissingDependency BuildErrorCode = "MISSING_DEPENDENCY"

	// ErrCodeEmptyView indicates a view references no tables.
	ErrCodeEmptyView BuildErrorCode = "EMPTY_VIEW"
)

// Error implements the error interface.
func (e *BuildError) Error() string {
	if len(e.Path) > 0 {
		return fmt.Sprintf("%s: %s (view=%s, path=%s)", e.Code, e.Message, e.View, strings.Join(e.Path, " -> "))
	}
	if e.View != "" {
		return fmt.Sprintf("%s: %s (view=%s)", e.Code, e.Message, e.View)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsCycleError returns true if the error is a cycle detection error.
// Uses errors.As to handle wrapped errors.
func IsCycleError(err error) bool {
	var be *BuildError
	if errors.As(err, &be) {
		return be.Code == ErrCodeCycleDetected
	}
	return false
}

// NewCycleError creates a BuildError for a cyclic view definition.
func NewCycleError(view string, path []string) *BuildError {
	return &BuildError{
		Code:    ErrCodeCycleDetected,
		Message: "view depends on itself",
		View:    view,
		Path:    path,
	}
}

// NewMissingDependencyError creates a BuildError for an unresolvable table
// reference.
func NewMissingDependencyError(view, table string) *BuildError {
	return &BuildError{
		Code:    ErrCodeMissingDependency,
		Message: fmt.Sprintf("no loader for table %q", table),
		View:    view,
	}
}
