package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/pgq/internal/tools"
)

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the compilers as MCP tools over stdio",
		Long: `Start a Model Context Protocol server on stdin/stdout.

Registers the compile_query and compile_export tools. The configured
default limit and export skeleton apply to every call. Logs go to
stderr.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			srv := tools.NewServer(rootOpts.Config, rootOpts.logger())
			if err := srv.Run(cmd.Context()); err != nil {
				return WrapExitError(ExitCommandError, "mcp server", err)
			}
			return nil
		},
	}

	return cmd
}
