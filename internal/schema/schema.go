// Package schema validates request envelopes against an embedded CUE schema
// before they are decoded into graphir values.
//
// The schema reports malformed input (wrong JSON types, unknown fields,
// unknown enum values, negative limits) with source positions. Structural
// rules that need context, such as path arity or "at least one match", are
// left to the graphir constructors so they surface as shape errors.
package schema

import (
	_ "embed"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	cuejson "cuelang.org/go/encoding/json"

	"github.com/roach88/pgq/internal/graphir"
)

//go:embed request.cue
var source string

// Kind selects the request envelope to validate against.
type Kind string

const (
	// KindQuery is a generic graph query.
	KindQuery Kind = "query"

	// KindExport is an export (dump) request.
	KindExport Kind = "export"
)

// ParseKind parses a request kind name.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(s)); k {
	case KindQuery, KindExport:
		return k, nil
	}
	return "", fmt.Errorf("unknown request kind %q (want query or export)", s)
}

func (k Kind) definition() string {
	if k == KindExport {
		return "#DumpQuery"
	}
	return "#Query"
}

// Error is a schema violation with the position of the offending input.
type Error struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *Error) Error() string {
	field := e.Field
	if field == "" {
		field = "request"
	}
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s: %d:%d: %s: %s",
			graphir.ErrCodeMalformed, e.Pos.Line(), e.Pos.Column(), field, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", graphir.ErrCodeMalformed, field, e.Message)
}

// Code returns graphir.ErrCodeMalformed.
func (e *Error) Code() graphir.ErrorCode { return graphir.ErrCodeMalformed }

// Validator checks requests against the compiled schema.
//
// Thread-safety: a cue.Context is not safe for concurrent use, so Validate
// serializes callers with an internal mutex.
type Validator struct {
	mu     sync.Mutex
	ctx    *cue.Context
	schema cue.Value
}

// NewValidator compiles the embedded schema.
func NewValidator() (*Validator, error) {
	ctx := cuecontext.New()
	schema := ctx.CompileString(source, cue.Filename("request.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compile request schema: %w", err)
	}
	return &Validator{ctx: ctx, schema: schema}, nil
}

var defaultValidator = sync.OnceValues(NewValidator)

// Validate checks data with a shared Validator.
func Validate(kind Kind, data []byte) error {
	v, err := defaultValidator()
	if err != nil {
		return err
	}
	return v.Validate(kind, data)
}

// Validate checks data against the envelope for kind. It returns nil or an
// *Error describing the first violation.
func (v *Validator) Validate(kind Kind, data []byte) error {
	filename := string(kind) + ".json"

	v.mu.Lock()
	defer v.mu.Unlock()

	expr, err := cuejson.Extract(filename, data)
	if err != nil {
		return formatCUEError(err, filename)
	}
	value := v.ctx.BuildExpr(expr)
	if err := value.Err(); err != nil {
		return formatCUEError(err, filename)
	}

	def := v.schema.LookupPath(cue.ParsePath(kind.definition()))
	if err := def.Unify(value).Validate(cue.Concrete(true)); err != nil {
		return formatCUEError(err, filename)
	}
	return nil
}

// formatCUEError converts the first CUE error into an *Error, preferring a
// position inside the request over one inside the schema.
func formatCUEError(err error, filename string) error {
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return &Error{Message: err.Error()}
	}

	first := errs[0]
	format, args := first.Msg()
	out := &Error{
		Field:   fieldPath(errors.Path(first)),
		Message: fmt.Sprintf(format, args...),
	}
	positions := errors.Positions(first)
	for _, pos := range positions {
		if pos.Filename() == filename {
			out.Pos = pos
			return out
		}
	}
	if len(positions) > 0 {
		out.Pos = positions[0]
	}
	return out
}

// fieldPath renders a CUE path in the same notation as graphir field names:
// list indices in brackets, struct fields joined by dots. Definition names
// are dropped.
func fieldPath(path []string) string {
	var b strings.Builder
	for _, seg := range path {
		if strings.HasPrefix(seg, "#") {
			continue
		}
		if _, err := strconv.Atoi(seg); err == nil {
			b.WriteString("[" + seg + "]")
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(seg)
	}
	return b.String()
}
