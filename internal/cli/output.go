package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/roach88/pgq/internal/graphir"
	"github.com/roach88/pgq/internal/schema"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Semantic failure (ambiguous export, failed scenarios)
	ExitCommandError = 2 // Request or command error (malformed request, bad paths, etc.)
)

// Error codes for failures that are not request errors. Request errors use
// their graphir code (SHAPE, AMBIGUITY, MALFORMED).
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeReadFailed  = "E002" // Request file read error
	ErrCodeWriteFailed = "E003" // Output file write error
	ErrCodeNotFound    = "E004" // Path not found
	ErrCodeTestFailed  = "E005" // One or more scenarios failed
)

// ExitError represents an error with a specific exit code.
// Use this to return errors with meaningful exit codes from CLI commands.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitSuccess for nil and ExitFailure if the error is not an ExitError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format  string
	Writer  io.Writer
	Verbose bool
	TraceID string
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status  string    `json:"status"`             // "ok" or "error"
	Data    any       `json:"data,omitempty"`     // success payload
	Error   *CLIError `json:"error,omitempty"`    // error details
	TraceID string    `json:"trace_id,omitempty"` // trace correlation
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code"`              // "SHAPE", "E002", etc.
	Message string `json:"message"`           // human-readable message
	Details any    `json:"details,omitempty"` // additional context
}

// Success outputs a successful result in the configured format.
func (f *OutputFormatter) Success(data any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status:  "ok",
			Data:    data,
			TraceID: f.TraceID,
		})
	}

	// Human-readable text output
	fmt.Fprintln(f.Writer, data)
	return nil
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
			TraceID: f.TraceID,
		})
	}

	// Human-readable error
	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

// outputCommandError reports a failure that is not a request error.
func outputCommandError(formatter *OutputFormatter, code, message string) error {
	_ = formatter.Error(code, message, nil)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}

// outputRequestError reports a request that failed to validate or compile.
// Ambiguous exports are semantic failures (exit 1); everything else is a
// request error (exit 2).
func outputRequestError(formatter *OutputFormatter, err error) error {
	code := string(graphir.CodeOf(err))
	if code == "" {
		code = ErrCodeGeneric
	}
	_ = formatter.Error(code, err.Error(), errorDetails(err))

	exit := ExitCommandError
	if graphir.IsAmbiguityError(err) {
		exit = ExitFailure
	}
	return WrapExitError(exit, "request failed", err)
}

// errorDetails extracts the location of a request error, if any.
func errorDetails(err error) map[string]any {
	var schemaErr *schema.Error
	if errors.As(err, &schemaErr) {
		details := map[string]any{"field": schemaErr.Field}
		if schemaErr.Pos.IsValid() {
			details["line"] = schemaErr.Pos.Line()
			details["column"] = schemaErr.Pos.Column()
		}
		return details
	}
	var shapeErr *graphir.ShapeError
	if errors.As(err, &shapeErr) && shapeErr.Field != "" {
		return map[string]any{"field": shapeErr.Field}
	}
	var decodeErr *graphir.DecodeError
	if errors.As(err, &decodeErr) && decodeErr.Field != "" {
		return map[string]any{"field": decodeErr.Field}
	}
	var ambErr *graphir.AmbiguityError
	if errors.As(err, &ambErr) {
		return map[string]any{"anchor": ambErr.Anchor, "count": ambErr.Count}
	}
	return nil
}
