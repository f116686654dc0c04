package graphir

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes errors raised while building or compiling a request.
type ErrorCode string

const (
	// ErrCodeShape indicates a structurally invalid request (arity mismatch,
	// empty required list, missing required field).
	ErrCodeShape ErrorCode = "SHAPE"

	// ErrCodeAmbiguity indicates more than one export sub-query binds the
	// anchor variable.
	ErrCodeAmbiguity ErrorCode = "AMBIGUITY"

	// ErrCodeInternal indicates a broken internal invariant.
	ErrCodeInternal ErrorCode = "INTERNAL_CONSISTENCY"
)

// AnchorRule is the rule text reported by AmbiguityError.
const AnchorRule = "at most one sub-query may bind the anchor variable"

// ShapeError reports a request value that cannot be constructed.
//
// Field uses a JSON-path-like notation relative to the request root, e.g.
// "matches[0].path.relationships". It is empty when the error is detected
// outside a decoding context.
type ShapeError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ShapeError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s: %s", ErrCodeShape, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", ErrCodeShape, e.Message)
}

// Code returns ErrCodeShape.
func (e *ShapeError) Code() ErrorCode { return ErrCodeShape }

// AmbiguityError reports that an export request has more than one sub-query
// binding the anchor variable. It is raised at compile time, since each
// sub-query is individually valid.
type AmbiguityError struct {
	// Anchor is the anchor variable name.
	Anchor string

	// Count is the number of sub-queries that bind Anchor.
	Count int
}

// Error implements the error interface.
func (e *AmbiguityError) Error() string {
	return fmt.Sprintf("%s: %s %q (%d sub-queries bind it)", ErrCodeAmbiguity, AnchorRule, e.Anchor, e.Count)
}

// Code returns ErrCodeAmbiguity.
func (e *AmbiguityError) Code() ErrorCode { return ErrCodeAmbiguity }

// InternalConsistencyError signals a state that construction invariants make
// unreachable. It is raised with panic, never returned.
type InternalConsistencyError struct {
	Message string
}

// Error implements the error interface.
func (e *InternalConsistencyError) Error() string {
	return fmt.Sprintf("%s: %s", ErrCodeInternal, e.Message)
}

// Code returns ErrCodeInternal.
func (e *InternalConsistencyError) Code() ErrorCode { return ErrCodeInternal }

// IsShapeError returns true if err is or wraps a *ShapeError.
func IsShapeError(err error) bool {
	var se *ShapeError
	return errors.As(err, &se)
}

// IsAmbiguityError returns true if err is or wraps an *AmbiguityError.
func IsAmbiguityError(err error) bool {
	var ae *AmbiguityError
	return errors.As(err, &ae)
}

// CodeOf returns the ErrorCode carried by err, or "" for errors raised
// outside this package.
func CodeOf(err error) ErrorCode {
	var coded interface{ Code() ErrorCode }
	if errors.As(err, &coded) {
		return coded.Code()
	}
	return ""
}

func shapeErr(field, format string, args ...any) *ShapeError {
	return &ShapeError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// withField prefixes the Field of a *ShapeError with parent. Other errors are
// returned unchanged.
func withField(err error, parent string) error {
	var se *ShapeError
	if !errors.As(err, &se) {
		return err
	}
	field := parent
	if se.Field != "" {
		if se.Field[0] == '[' {
			field = parent + se.Field
		} else {
			field = parent + "." + se.Field
		}
	}
	return &ShapeError{Field: field, Message: se.Message}
}
