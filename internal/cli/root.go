package cli

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/roach88/pgq/internal/config"
	"github.com/roach88/pgq/internal/request"
)

// RootOptions holds global flags for all commands, plus the configuration
// and logger resolved from them before any subcommand runs.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string

	Config   *config.Config
	Logger   *slog.Logger
	TraceIDs TraceIDGenerator
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// TraceIDGenerator produces the trace id attached to every command response.
type TraceIDGenerator interface {
	Generate() string
}

// uuidTraceIDs generates time-ordered UUIDv7 trace ids.
type uuidTraceIDs struct{}

func (uuidTraceIDs) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// RootOption configures the root command.
type RootOption func(*RootOptions)

// WithTraceIDGenerator replaces the UUIDv7 trace id generator.
func WithTraceIDGenerator(g TraceIDGenerator) RootOption {
	return func(o *RootOptions) {
		o.TraceIDs = g
	}
}

// NewRootCommand creates the root command for the pgq CLI.
func NewRootCommand(options ...RootOption) *cobra.Command {
	opts := &RootOptions{TraceIDs: uuidTraceIDs{}}
	for _, opt := range options {
		opt(opts)
	}

	cmd := &cobra.Command{
		Use:   "pgq",
		Short: "pgq - property graph query compiler",
		Long: `Compile structured graph query requests into Cypher statements.

Requests are JSON documents describing match patterns, filters, sort keys
and limits. Export requests compile into a fixed statement that returns
anchor documents together with their neighboring entities.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Validate format flag
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return opts.load(cmd)
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output (debug logging)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to YAML config file")

	// Add subcommands
	cmd.AddCommand(NewCompileCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))
	cmd.AddCommand(NewServeCommand(opts))

	return cmd
}

// load resolves the configuration and logger. Logs go to stderr so JSON
// output on stdout stays parseable.
func (o *RootOptions) load(cmd *cobra.Command) error {
	cfg := config.Default()
	if o.ConfigPath != "" {
		loaded, err := config.Load(o.ConfigPath)
		if err != nil {
			return WrapExitError(ExitCommandError, "loading config", err)
		}
		cfg = loaded
	}
	o.Config = cfg

	level := cfg.Level()
	if o.Verbose {
		level = slog.LevelDebug
	}
	o.Logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	return nil
}

// logger returns the resolved logger, or a discarding one when commands run
// without the root command's pre-run.
func (o *RootOptions) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o.Logger
}

// compiler builds a request compiler from the configuration. limit, when
// non-nil, replaces the configured default limit.
func (o *RootOptions) compiler(limit *int) *request.Compiler {
	cfg := o.Config
	if cfg == nil {
		cfg = config.Default()
	}
	if limit == nil {
		limit = cfg.DefaultLimit
	}
	return request.NewCompiler(
		request.WithSkeleton(cfg.Export),
		request.WithDefaultLimit(limit),
	)
}

// formatter creates an output formatter bound to the command's writers with
// a fresh trace id.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	if o.TraceIDs == nil {
		o.TraceIDs = uuidTraceIDs{}
	}
	return &OutputFormatter{
		Format:  o.Format,
		Writer:  cmd.OutOrStdout(),
		Verbose: o.Verbose,
		TraceID: o.TraceIDs.Generate(),
	}
}
