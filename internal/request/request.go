// Package request runs the full request pipeline:
//
//	JSON → schema check (CUE) → graphir construction → Cypher text
//
// Each stage fails with its own error kind so callers can map them to
// different responses: *schema.Error and *graphir.DecodeError for malformed
// input, *graphir.ShapeError for structurally invalid requests and
// *graphir.AmbiguityError for export conflicts.
package request

import (
	"fmt"

	"github.com/roach88/pgq/internal/cypher"
	"github.com/roach88/pgq/internal/export"
	"github.com/roach88/pgq/internal/graphir"
	"github.com/roach88/pgq/internal/schema"
)

// Compiler compiles raw requests. It holds no per-request state and is safe
// for concurrent use.
type Compiler struct {
	skeleton     export.Skeleton
	defaultLimit *int
	validate     func(schema.Kind, []byte) error
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithSkeleton sets the export skeleton.
//
// Default: export.DefaultSkeleton()
func WithSkeleton(s export.Skeleton) Option {
	return func(c *Compiler) {
		c.skeleton = s
	}
}

// WithDefaultLimit sets the system result cap. Per-request limits can lower
// it but never raise it. nil means no cap.
func WithDefaultLimit(limit *int) Option {
	return func(c *Compiler) {
		if limit == nil {
			c.defaultLimit = nil
			return
		}
		n := *limit
		c.defaultLimit = &n
	}
}

// WithoutSchema skips the CUE schema stage. Malformed input is then reported
// by the strict JSON decoder instead.
func WithoutSchema() Option {
	return func(c *Compiler) {
		c.validate = nil
	}
}

// NewCompiler creates a Compiler with the default skeleton, no default limit
// and schema validation enabled.
func NewCompiler(opts ...Option) *Compiler {
	c := &Compiler{
		skeleton: export.DefaultSkeleton(),
		validate: schema.Validate,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DefaultLimit returns the configured system cap, or nil.
func (c *Compiler) DefaultLimit() *int {
	if c.defaultLimit == nil {
		return nil
	}
	n := *c.defaultLimit
	return &n
}

// Compile compiles a request of the given kind.
func (c *Compiler) Compile(kind schema.Kind, data []byte) (string, error) {
	switch kind {
	case schema.KindQuery:
		q, err := c.decodeQuery(data)
		if err != nil {
			return "", err
		}
		return cypher.CompileQuery(q, c.defaultLimit)
	case schema.KindExport:
		dq, err := c.decodeExport(data)
		if err != nil {
			return "", err
		}
		return export.Compile(dq, c.skeleton, c.defaultLimit)
	default:
		return "", fmt.Errorf("unknown request kind %q", kind)
	}
}

// Check validates and constructs a request without compiling it, returning
// reference warnings. For exports it also reports anchor ambiguity, which
// would otherwise only surface at compile time.
func (c *Compiler) Check(kind schema.Kind, data []byte) (graphir.ValidationResult, error) {
	switch kind {
	case schema.KindQuery:
		q, err := c.decodeQuery(data)
		if err != nil {
			return graphir.ValidationResult{}, err
		}
		return graphir.Validate(q), nil
	case schema.KindExport:
		dq, err := c.decodeExport(data)
		if err != nil {
			return graphir.ValidationResult{}, err
		}
		if _, _, err := export.FindAnchorQuery(dq, c.skeleton.AnchorVariable); err != nil {
			return graphir.ValidationResult{}, err
		}
		result := graphir.ValidationResult{Clean: true, Warnings: []string{}}
		for i, q := range dq.Queries() {
			for _, w := range graphir.Validate(q).Warnings {
				result.Warnings = append(result.Warnings, fmt.Sprintf("queries[%d].%s", i, w))
			}
		}
		result.Clean = len(result.Warnings) == 0
		return result, nil
	default:
		return graphir.ValidationResult{}, fmt.Errorf("unknown request kind %q", kind)
	}
}

func (c *Compiler) decodeQuery(data []byte) (*graphir.Query, error) {
	if c.validate != nil {
		if err := c.validate(schema.KindQuery, data); err != nil {
			return nil, err
		}
	}
	return graphir.DecodeQuery(data)
}

func (c *Compiler) decodeExport(data []byte) (*graphir.DumpQuery, error) {
	if c.validate != nil {
		if err := c.validate(schema.KindExport, data); err != nil {
			return nil, err
		}
	}
	return graphir.DecodeDumpQuery(data)
}

// CompileQuery compiles a generic query request with the default pipeline.
func CompileQuery(data []byte, defaultLimit *int) (string, error) {
	return NewCompiler(WithDefaultLimit(defaultLimit)).Compile(schema.KindQuery, data)
}

// CompileExport compiles an export request against skeleton s.
func CompileExport(data []byte, s export.Skeleton, defaultLimit *int) (string, error) {
	return NewCompiler(WithSkeleton(s), WithDefaultLimit(defaultLimit)).Compile(schema.KindExport, data)
}

// Check validates a request with the default pipeline.
func Check(kind schema.Kind, data []byte) (graphir.ValidationResult, error) {
	return NewCompiler().Check(kind, data)
}
