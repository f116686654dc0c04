package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/pgq/internal/schema"
)

// CompileOptions holds flags for the compile and export commands.
type CompileOptions struct {
	*RootOptions
	Output string // output file path
	Limit  int    // overrides the configured default limit when set
}

// CompilationResult is the JSON payload of a successful compilation.
type CompilationResult struct {
	Kind   schema.Kind `json:"kind"`
	Query  string      `json:"query"`
	Output string      `json:"output,omitempty"`
}

// NewCompileCommand creates the compile command for generic query requests.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <request.json|->",
		Short: "Compile a query request to Cypher",
		Long: `Compile a generic query request to a Cypher statement.

The request is read from the given file, or from stdin when the argument
is "-". The request is checked against the request schema, constructed,
and compiled; nothing is executed.

Examples:
  pgq compile request.json
  pgq compile request.json --limit 100 -o query.cypher
  cat request.json | pgq compile - --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, schema.KindQuery, args[0], cmd)
		},
	}

	addCompileFlags(cmd, opts)
	return cmd
}

// NewExportCommand creates the export command for DumpQuery requests.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export <request.json|->",
		Short: "Compile an export request to Cypher",
		Long: `Compile an export request to the fixed export statement.

The statement returns the de-duplicated set of anchor documents, their
neighboring entities and the relationships between them. At most one
sub-query may bind the anchor variable; its filter, sort and limit
replace the defaults.

Exit codes:
  0 - Compiled
  1 - More than one sub-query binds the anchor
  2 - Malformed or structurally invalid request

Examples:
  pgq export request.json
  pgq export - --limit 500 < request.json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, schema.KindExport, args[0], cmd)
		},
	}

	addCompileFlags(cmd, opts)
	return cmd
}

func addCompileFlags(cmd *cobra.Command, opts *CompileOptions) {
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "default result limit (overrides config)")
}

func runCompile(opts *CompileOptions, kind schema.Kind, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	logger := opts.logger().With("trace_id", formatter.TraceID, "kind", kind)

	var limit *int
	if cmd.Flags().Changed("limit") {
		if opts.Limit < 0 {
			return outputCommandError(formatter, ErrCodeGeneric,
				fmt.Sprintf("--limit must be non-negative, got %d", opts.Limit))
		}
		limit = &opts.Limit
	}

	data, err := readRequest(path, cmd.InOrStdin())
	if err != nil {
		return outputCommandError(formatter, ErrCodeReadFailed, err.Error())
	}
	logger.Debug("read request", "path", path, "bytes", len(data))

	query, err := opts.compiler(limit).Compile(kind, data)
	if err != nil {
		logger.Debug("request rejected", "error", err)
		return outputRequestError(formatter, err)
	}
	logger.Debug("request compiled", "bytes", len(query))

	// Write to file if --output specified
	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, []byte(query+"\n"), 0644); err != nil {
			return outputCommandError(formatter, ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err))
		}
	}

	return outputCompileSuccess(formatter, CompilationResult{Kind: kind, Query: query, Output: opts.Output})
}

// readRequest reads a request from path, or from stdin when path is "-".
func readRequest(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("request file not found: %s", path)
		}
		return nil, fmt.Errorf("reading request file: %w", err)
	}
	return data, nil
}

// outputCompileSuccess outputs successful compilation results.
func outputCompileSuccess(formatter *OutputFormatter, result CompilationResult) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	if result.Output != "" {
		fmt.Fprintf(formatter.Writer, "✓ Wrote %s statement to %s\n", result.Kind, result.Output)
		return nil
	}
	fmt.Fprintln(formatter.Writer, result.Query)
	return nil
}
