package harness

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/roach88/pgq/internal/graphir"
	"github.com/roach88/pgq/internal/request"
)

// Harness runs scenarios. The zero value is not usable; use New.
type Harness struct {
	logger *slog.Logger
}

// New creates a Harness that logs to logger. A nil logger discards output.
func New(logger *slog.Logger) *Harness {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Harness{logger: logger}
}

// Run executes a scenario with a silent logger.
func Run(scenario *Scenario) (*Result, error) {
	return New(nil).Run(scenario)
}

// Run compiles the scenario's request and evaluates its expectations.
//
// A compilation error is a result, not a Run error: it is compared with
// expect.error. Run fails only when the scenario itself cannot be turned
// into a request.
func (h *Harness) Run(scenario *Scenario) (*Result, error) {
	kind, err := scenario.RequestKind()
	if err != nil {
		return nil, err
	}
	data, err := scenario.RequestJSON()
	if err != nil {
		return nil, err
	}
	sk, err := scenario.Skeleton()
	if err != nil {
		return nil, err
	}

	compiler := request.NewCompiler(
		request.WithSkeleton(sk),
		request.WithDefaultLimit(scenario.DefaultLimit),
	)

	result := NewResult()
	out, err := compiler.Compile(kind, data)
	if err != nil {
		result.ErrorCode = string(graphir.CodeOf(err))
		if result.ErrorCode == "" {
			return nil, fmt.Errorf("compile %s: %w", scenario.Name, err)
		}
		result.Error = err.Error()
		h.logger.Debug("scenario rejected",
			"scenario", scenario.Name,
			"code", result.ErrorCode,
			"error", result.Error,
		)
	} else {
		result.Output = out
		check, err := compiler.Check(kind, data)
		if err != nil {
			return nil, fmt.Errorf("check %s: %w", scenario.Name, err)
		}
		result.Warnings = append(result.Warnings, check.Warnings...)
		h.logger.Debug("scenario compiled",
			"scenario", scenario.Name,
			"warnings", len(result.Warnings),
		)
	}

	for _, msg := range evaluateExpectation(result, scenario.Expect) {
		result.AddError(msg)
	}
	return result, nil
}

// evaluateExpectation returns one message per unmet expectation.
func evaluateExpectation(result *Result, expect Expectation) []string {
	var errs []string

	if expect.Error != "" {
		if result.ErrorCode != expect.Error {
			errs = append(errs, fmt.Sprintf("expected error %s, got %s", expect.Error, describe(result)))
		}
		return errs
	}

	if result.ErrorCode != "" {
		return append(errs, fmt.Sprintf("unexpected error: %s", result.Error))
	}

	for _, want := range expect.Contains {
		if !strings.Contains(result.Output, want) {
			errs = append(errs, fmt.Sprintf("output does not contain %q\n  output: %s", want, result.Output))
		}
	}
	for _, unwanted := range expect.NotContains {
		if strings.Contains(result.Output, unwanted) {
			errs = append(errs, fmt.Sprintf("output contains %q\n  output: %s", unwanted, result.Output))
		}
	}
	if expect.Warnings != nil && len(result.Warnings) != *expect.Warnings {
		errs = append(errs, fmt.Sprintf("expected %d warning(s), got %d: %v",
			*expect.Warnings, len(result.Warnings), result.Warnings))
	}
	return errs
}

func describe(result *Result) string {
	if result.ErrorCode == "" {
		return "success"
	}
	return result.ErrorCode
}
