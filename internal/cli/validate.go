package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/pgq/internal/schema"
)

// ValidationResult is the JSON payload of the validate command.
type ValidationResult struct {
	Kind     schema.Kind `json:"kind"`
	Valid    bool        `json:"valid"`
	Warnings []string    `json:"warnings"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <query|export> <request.json|->",
		Short: "Validate a request without compiling it",
		Long: `Validate a request against the request schema and construct it.

Reports reference warnings (variables used but never bound, reused
relationship variables, duplicate sort keys). Warnings never fail the
command; malformed or structurally invalid requests do.

Examples:
  pgq validate query request.json
  pgq validate export - --format json < export.json`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], args[1], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, kindArg, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	kind, err := schema.ParseKind(kindArg)
	if err != nil {
		return outputCommandError(formatter, ErrCodeGeneric, err.Error())
	}
	logger := opts.logger().With("trace_id", formatter.TraceID, "kind", kind)

	data, err := readRequest(path, cmd.InOrStdin())
	if err != nil {
		return outputCommandError(formatter, ErrCodeReadFailed, err.Error())
	}

	check, err := opts.compiler(nil).Check(kind, data)
	if err != nil {
		logger.Debug("request rejected", "error", err)
		return outputRequestError(formatter, err)
	}
	for _, w := range check.Warnings {
		logger.Debug("reference warning", "warning", w)
	}

	result := ValidationResult{Kind: kind, Valid: true, Warnings: check.Warnings}
	if result.Warnings == nil {
		result.Warnings = []string{}
	}
	return outputValidateSuccess(formatter, result)
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, result ValidationResult) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	if len(result.Warnings) == 0 {
		fmt.Fprintf(formatter.Writer, "✓ Valid %s request\n", result.Kind)
		return nil
	}
	fmt.Fprintf(formatter.Writer, "✓ Valid %s request (%d warning(s))\n", result.Kind, len(result.Warnings))
	for _, w := range result.Warnings {
		fmt.Fprintf(formatter.Writer, "  warning: %s\n", w)
	}
	return nil
}
