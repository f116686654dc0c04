package harness

// Result is the outcome of running one scenario.
type Result struct {
	// Pass is true when every expectation held.
	Pass bool `json:"pass"`

	// Output is the compiled text, empty when compilation failed.
	Output string `json:"output,omitempty"`

	// ErrorCode is the error kind when compilation failed (SHAPE,
	// AMBIGUITY, MALFORMED), empty otherwise.
	ErrorCode string `json:"error_code,omitempty"`

	// Error is the full compilation error message.
	Error string `json:"error,omitempty"`

	// Warnings are reference warnings for a request that compiled.
	Warnings []string `json:"warnings,omitempty"`

	// Errors lists failed expectations. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:     true,
		Warnings: []string{},
		Errors:   []string{},
	}
}

// AddError records a failed expectation and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Snapshot returns the golden-file form of the result.
func (r *Result) Snapshot() []byte {
	if r.ErrorCode != "" {
		return []byte("error: " + r.ErrorCode + "\n")
	}
	return []byte(r.Output + "\n")
}
