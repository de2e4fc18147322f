package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test scenario: one query compiled against
// one schema, with assertions on the outcome.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Schema is the CUE package directory holding the schema.
	// Relative paths are resolved against the scenario file location.
	Schema string `yaml:"schema"`

	// Query is the GraphQL query document text.
	Query string `yaml:"query"`

	// ParentType overrides the type the top-level field is looked up on.
	// Defaults to the schema's query type.
	ParentType string `yaml:"parent_type,omitempty"`

	// Assertions validate the compiled plan or the compile error.
	Assertions []Assertion `yaml:"assertions"`
}

// Assertion validates a compile outcome.
type Assertion struct {
	// Type specifies the assertion type:
	// - "error": compilation fails with Code
	// - "aliases": allocated aliases in preorder equal Aliases
	// - "children": child descriptors of Table equal Children
	// - "grab_many": Table's grabMany flag equals Expect
	// - "plan_hash": plan hash equals Hash
	Type string `yaml:"type"`

	// Code is the expected error code (used by error).
	Code string `yaml:"code,omitempty"`

	// Aliases is the expected alias list (used by aliases).
	Aliases []string `yaml:"aliases,omitempty"`

	// Table is the alias of the table under test (used by children, grab_many).
	Table string `yaml:"table,omitempty"`

	// Children are the expected child descriptors (used by children).
	Children []string `yaml:"children,omitempty"`

	// Expect is the expected grabMany flag (used by grab_many).
	Expect *bool `yaml:"expect,omitempty"`

	// Hash is the expected plan hash (used by plan_hash).
	Hash string `yaml:"hash,omitempty"`
}

// Assertion type constants.
const (
	AssertError    = "error"
	AssertAliases  = "aliases"
	AssertChildren = "children"
	AssertGrabMany = "grab_many"
	AssertPlanHash = "plan_hash"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Resolve the schema path relative to the scenario BEFORE validation
	if scenario.Schema != "" && !filepath.IsAbs(scenario.Schema) {
		scenario.Schema = filepath.Join(filepath.Dir(path), scenario.Schema)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// FindScenarios returns the .yaml and .yml files under dir in lexical order.
func FindScenarios(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if ext := filepath.Ext(path); ext == ".yaml" || ext == ".yml" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Schema == "" {
		return fmt.Errorf("schema is required")
	}

	if s.Query == "" {
		return fmt.Errorf("query is required")
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	info, err := os.Stat(s.Schema)
	if os.IsNotExist(err) {
		return fmt.Errorf("schema directory not found: %s", s.Schema)
	}
	if err != nil {
		return fmt.Errorf("schema directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("schema must be a directory: %s", s.Schema)
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertError:
		if a.Code == "" {
			return fmt.Errorf("assertions[%d]: code is required for error", index)
		}
	case AssertAliases:
		if len(a.Aliases) == 0 {
			return fmt.Errorf("assertions[%d]: aliases list is required for aliases", index)
		}
	case AssertChildren:
		if a.Table == "" {
			return fmt.Errorf("assertions[%d]: table is required for children", index)
		}
		if a.Children == nil {
			return fmt.Errorf("assertions[%d]: children list is required for children", index)
		}
	case AssertGrabMany:
		if a.Table == "" {
			return fmt.Errorf("assertions[%d]: table is required for grab_many", index)
		}
		if a.Expect == nil {
			return fmt.Errorf("assertions[%d]: expect is required for grab_many", index)
		}
	case AssertPlanHash:
		if a.Hash == "" {
			return fmt.Errorf("assertions[%d]: hash is required for plan_hash", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
