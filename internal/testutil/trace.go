package testutil

import (
	"fmt"
	"sync"
)

// FixedTraceGenerator returns the same trace id every time.
//
// CLI and MCP responses carry a trace id; fixing it makes their JSON output
// byte-comparable across runs.
//
// Thread-safety: FixedTraceGenerator is stateless and safe for concurrent use.
type FixedTraceGenerator struct {
	id string
}

// NewFixedTraceGenerator creates a fixed trace id generator.
// If id is empty, Generate returns "test-trace-default".
func NewFixedTraceGenerator(id string) *FixedTraceGenerator {
	if id == "" {
		id = "test-trace-default"
	}
	return &FixedTraceGenerator{id: id}
}

// Generate returns the fixed trace id.
func (g *FixedTraceGenerator) Generate() string {
	return g.id
}

// SequentialTraceGenerator returns "trace-0001", "trace-0002", ...
//
// Unlike the UUIDv7 generator used in production, its output is
// deterministic and can be Reset between test cases.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type SequentialTraceGenerator struct {
	mu  sync.Mutex
	seq int64
}

// NewSequentialTraceGenerator creates a generator whose first id ends in 0001.
func NewSequentialTraceGenerator() *SequentialTraceGenerator {
	return &SequentialTraceGenerator{}
}

// Generate increments the sequence and returns the next id.
func (g *SequentialTraceGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	return fmt.Sprintf("trace-%04d", g.seq)
}

// Reset restarts the sequence.
func (g *SequentialTraceGenerator) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq = 0
}
