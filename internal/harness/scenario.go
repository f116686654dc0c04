package harness

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/pgq/internal/export"
	"github.com/roach88/pgq/internal/graphir"
	"github.com/roach88/pgq/internal/schema"
)

// Scenario is one request plus the expected compilation outcome.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Kind is "query" or "export".
	Kind string `yaml:"kind"`

	// DefaultLimit is the system cap applied during compilation.
	DefaultLimit *int `yaml:"default_limit,omitempty"`

	// Export overrides fields of the default export skeleton.
	Export yaml.Node `yaml:"export,omitempty"`

	// Request is the request body, either inline YAML or a JSON string.
	Request yaml.Node `yaml:"request"`

	// Expect describes the expected outcome.
	Expect Expectation `yaml:"expect"`
}

// Expectation describes the expected outcome of a scenario.
type Expectation struct {
	// Error is the expected error code. Empty means compilation must succeed.
	Error string `yaml:"error,omitempty"`

	// Contains lists substrings the compiled text must contain.
	Contains []string `yaml:"contains,omitempty"`

	// NotContains lists substrings the compiled text must not contain.
	NotContains []string `yaml:"not_contains,omitempty"`

	// Warnings is the expected number of reference warnings, if set.
	Warnings *int `yaml:"warnings,omitempty"`
}

var validErrorCodes = []string{
	string(graphir.ErrCodeShape),
	string(graphir.ErrCodeAmbiguity),
	string(graphir.ErrCodeMalformed),
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields, or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML with strict field validation.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// LoadScenarios loads every .yaml/.yml file in dir, sorted by file name.
// filter is an optional glob matched against the file name without
// extension.
func LoadScenarios(dir, filter string) ([]*Scenario, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario directory: %w", err)
	}

	var scenarios []*Scenario
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		if filter != "" {
			matched, err := filepath.Match(filter, strings.TrimSuffix(entry.Name(), ext))
			if err != nil {
				return nil, fmt.Errorf("invalid filter pattern: %w", err)
			}
			if !matched {
				continue
			}
		}
		s, err := LoadScenario(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", entry.Name(), err)
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// RequestKind returns the parsed request kind.
func (s *Scenario) RequestKind() (schema.Kind, error) {
	return schema.ParseKind(s.Kind)
}

// RequestJSON renders the request as JSON. A scalar request is taken as
// JSON text verbatim; a mapping is converted.
func (s *Scenario) RequestJSON() ([]byte, error) {
	if s.Request.Kind == yaml.ScalarNode {
		return []byte(s.Request.Value), nil
	}
	var body any
	if err := s.Request.Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode request: %w", err)
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request as JSON: %w", err)
	}
	return data, nil
}

// Skeleton returns the default export skeleton with the scenario's
// overrides applied.
func (s *Scenario) Skeleton() (export.Skeleton, error) {
	sk := export.DefaultSkeleton()
	if s.Export.Kind == 0 {
		return sk, nil
	}
	if err := s.Export.Decode(&sk); err != nil {
		return export.Skeleton{}, fmt.Errorf("failed to decode export overrides: %w", err)
	}
	return sk, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if _, err := s.RequestKind(); err != nil {
		return fmt.Errorf("kind: %w", err)
	}

	if s.Request.Kind == 0 {
		return fmt.Errorf("request is required")
	}

	if s.DefaultLimit != nil && *s.DefaultLimit < 0 {
		return fmt.Errorf("default_limit must be non-negative")
	}

	if s.Expect.Error != "" && !slices.Contains(validErrorCodes, s.Expect.Error) {
		return fmt.Errorf("expect.error: unknown error code %q (want one of %v)", s.Expect.Error, validErrorCodes)
	}

	if s.Expect.Error != "" && (len(s.Expect.Contains) > 0 || s.Expect.Warnings != nil) {
		return fmt.Errorf("expect: contains and warnings cannot be combined with error")
	}

	return nil
}
