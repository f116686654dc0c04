// Package tools exposes the request compilers as MCP tools.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/roach88/pgq/internal/config"
	"github.com/roach88/pgq/internal/cypher"
	"github.com/roach88/pgq/internal/graphir"
	"github.com/roach88/pgq/internal/request"
	"github.com/roach88/pgq/internal/schema"
)

// Version is reported to MCP clients during initialization.
var Version = "0.1.0"

// Server wraps the MCP server with tool handlers.
type Server struct {
	mcp    *mcp.Server
	cfg    *config.Config
	logger *slog.Logger
}

// NewServer creates a new MCP server with all tools registered. A nil cfg
// uses config.Default; a nil logger discards output.
func NewServer(cfg *config.Config, logger *slog.Logger) *Server {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	srv := &Server{
		cfg:    cfg,
		logger: logger,
		mcp: mcp.NewServer(
			&mcp.Implementation{
				Name:    "pgq",
				Version: Version,
			},
			nil,
		),
	}
	srv.registerTools()
	return srv
}

// MCPServer returns the underlying MCP server.
func (s *Server) MCPServer() *mcp.Server {
	return s.mcp
}

// Run serves tool calls over stdin/stdout until ctx is done or the client
// disconnects.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("mcp server starting", "version", Version)
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}

const requestSchema = `{
	"type": "object",
	"properties": {
		"request": {
			"type": "object",
			"description": %q
		},
		"default_limit": {
			"type": "integer",
			"minimum": 0,
			"description": "System result cap for this call. Can only lower the server's configured cap."
		}
	},
	"required": ["request"]
}`

func (s *Server) registerTools() {
	s.mcp.AddTool(&mcp.Tool{
		Name:        "compile_query",
		Description: "Compile a structured graph query (matches, where, orderBy, limit) into a Cypher statement. Returns the statement text; nothing is executed.",
		InputSchema: json.RawMessage(fmt.Sprintf(requestSchema,
			"Query request: {matches: [{path: {nodes, relationships, optional?}}], where?, orderBy?, limit?}")),
	}, s.handleCompileQuery)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "compile_export",
		Description: "Compile an export request into a statement returning the de-duplicated set of anchor documents, their neighbor entities and the relationships between them. At most one sub-query may bind the anchor variable.",
		InputSchema: json.RawMessage(fmt.Sprintf(requestSchema,
			"Export request: {queries: [Query, ...]}")),
	}, s.handleCompileExport)
}

func (s *Server) handleCompileQuery(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.compile(ctx, "compile_query", schema.KindQuery, req)
}

func (s *Server) handleCompileExport(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.compile(ctx, "compile_export", schema.KindExport, req)
}

type compileArgs struct {
	Request      json.RawMessage `json:"request"`
	DefaultLimit *int            `json:"default_limit"`
}

func (s *Server) compile(_ context.Context, tool string, kind schema.Kind, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := parseArgs(req)
	if err != nil {
		return errResult(string(graphir.ErrCodeMalformed), err.Error()), nil
	}
	if len(args.Request) == 0 || string(args.Request) == "null" {
		return errResult(string(graphir.ErrCodeMalformed), "request is required"), nil
	}
	if args.DefaultLimit != nil && *args.DefaultLimit < 0 {
		return errResult(string(graphir.ErrCodeMalformed), "default_limit must be non-negative"), nil
	}

	limit := s.limit(args.DefaultLimit)
	compiler := request.NewCompiler(
		request.WithSkeleton(s.cfg.Export),
		request.WithDefaultLimit(limit),
	)

	out, err := compiler.Compile(kind, args.Request)
	if err != nil {
		code := graphir.CodeOf(err)
		s.logger.Debug("tool call rejected", "tool", tool, "code", code, "error", err)
		if code == "" {
			return errResult("ERROR", err.Error()), nil
		}
		return errResult(string(code), err.Error()), nil
	}

	s.logger.Debug("tool call compiled", "tool", tool, "bytes", len(out))
	return jsonResult(map[string]any{"query": out}), nil
}

// limit combines the configured cap with a per-call cap; the smaller wins.
func (s *Server) limit(perCall *int) *int {
	if perCall == nil {
		return s.cfg.DefaultLimit
	}
	n, _ := cypher.EffectiveLimit(*perCall, true, s.cfg.DefaultLimit)
	return &n
}

// parseArgs unmarshals the raw JSON arguments.
func parseArgs(req *mcp.CallToolRequest) (compileArgs, error) {
	var args compileArgs
	if req.Params == nil || len(req.Params.Arguments) == 0 {
		return args, nil
	}
	if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
		return args, fmt.Errorf("invalid arguments: %w", err)
	}
	return args, nil
}

// jsonResult marshals data to JSON and returns as tool result.
func jsonResult(data any) *mcp.CallToolResult {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return errResult("ERROR", "json marshal err="+err.Error())
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(b)},
		},
	}
}

// errResult returns a tool result indicating an error. The text is a JSON
// object carrying the error code so clients can branch on it.
func errResult(code, msg string) *mcp.CallToolResult {
	b, _ := json.Marshal(map[string]string{"code": code, "message": msg})
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(b)},
		},
		IsError: true,
	}
}
