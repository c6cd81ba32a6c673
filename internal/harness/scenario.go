package harness

import (
	"bytes"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/roach88/socialgraph/internal/engine"
	"github.com/roach88/socialgraph/internal/ir"
	"github.com/roach88/socialgraph/internal/record"
	"github.com/roach88/socialgraph/internal/store"
)

// Scenario is one conformance test.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Users lists the identities taking part, by name.
	Users []string `yaml:"users"`

	// Steps are applied in order, one seq each.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final store.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Step is one instruction and its expected outcome.
type Step struct {
	Op string `yaml:"op"`

	// As names the calling user.
	As string `yaml:"as"`

	// Address names the target. Omitted for vote and create_alias.
	Address string `yaml:"address,omitempty"`

	Args StepArgs `yaml:"args,omitempty"`

	// Expect is "ok" (the default) or an engine error code.
	Expect string `yaml:"expect,omitempty"`

	// Save names the resolved target address, for derived ops.
	Save string `yaml:"save,omitempty"`
}

// StepArgs mirrors ir.Args with names in place of keys.
type StepArgs struct {
	Tag       string `yaml:"tag,omitempty"`
	Content   string `yaml:"content,omitempty"`
	Tweet     string `yaml:"tweet,omitempty"`
	Parent    string `yaml:"parent,omitempty"`
	Result    string `yaml:"result,omitempty"`
	Recipient string `yaml:"recipient,omitempty"`
	Alias     string `yaml:"alias,omitempty"`
}

// Assertion validates the final store.
type Assertion struct {
	// Type is one of record, absent, scan, journal.
	Type string `yaml:"type"`

	// Address names the record (record, absent).
	Address string `yaml:"address,omitempty"`

	// Kind is the expected record kind (record) or the scanned kind (scan).
	Kind string `yaml:"kind,omitempty"`

	// Expect holds a subset of rendered record fields (record).
	Expect map[string]any `yaml:"expect,omitempty"`

	// Where holds scan filters (scan).
	Where *ScanFilter `yaml:"where,omitempty"`

	// Count is the expected number of scan hits or journal entries.
	Count *int `yaml:"count,omitempty"`

	// Addresses is the exact expected scan result, in order.
	Addresses []string `yaml:"addresses,omitempty"`

	// Outcome selects journal entries by outcome (journal).
	Outcome string `yaml:"outcome,omitempty"`
}

// ScanFilter selects records by the query layer's predicate builders.
// Fields are names; empty fields are not filtered on.
type ScanFilter struct {
	Owner     string `yaml:"owner,omitempty"`
	Tag       string `yaml:"tag,omitempty"`
	Tweet     string `yaml:"tweet,omitempty"`
	Parent    string `yaml:"parent,omitempty"`
	TopLevel  bool   `yaml:"top_level,omitempty"`
	Recipient string `yaml:"recipient,omitempty"`
	Result    string `yaml:"result,omitempty"`
}

// Assertion types.
const (
	AssertRecord  = "record"
	AssertAbsent  = "absent"
	AssertScan    = "scan"
	AssertJournal = "journal"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or fails validation.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses and validates scenario YAML.
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

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Users) == 0 {
		return fmt.Errorf("users list is required and must be non-empty")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		op, err := ir.ParseOp(step.Op)
		if err != nil {
			return fmt.Errorf("steps[%d]: %w", i, err)
		}
		if !slices.Contains(s.Users, step.As) {
			return fmt.Errorf("steps[%d]: as %q is not a declared user", i, step.As)
		}
		if op.NeedsAddress() && step.Address == "" {
			return fmt.Errorf("steps[%d]: address is required for %s", i, op)
		}
		if step.Args.Recipient != "" && !slices.Contains(s.Users, step.Args.Recipient) {
			return fmt.Errorf("steps[%d]: recipient %q is not a declared user", i, step.Args.Recipient)
		}
		if step.Args.Result != "" {
			if _, err := ir.ParseVotingResult(step.Args.Result); err != nil {
				return fmt.Errorf("steps[%d]: %w", i, err)
			}
		}
		if err := validateExpect(step.Expect); err != nil {
			return fmt.Errorf("steps[%d]: %w", i, err)
		}
	}

	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i]); err != nil {
			return err
		}
	}
	return nil
}

func validateExpect(expect string) error {
	if expect == "" || expect == store.OutcomeOK {
		return nil
	}
	if !slices.Contains(engine.Codes(), engine.Code(expect)) {
		return fmt.Errorf("unknown expected outcome %q", expect)
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	switch a.Type {
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	case AssertRecord:
		if a.Address == "" {
			return fmt.Errorf("assertions[%d]: address is required for record", index)
		}
		if len(a.Expect) == 0 && a.Kind == "" {
			return fmt.Errorf("assertions[%d]: kind or expect is required for record", index)
		}
	case AssertAbsent:
		if a.Address == "" {
			return fmt.Errorf("assertions[%d]: address is required for absent", index)
		}
	case AssertScan:
		if a.Count == nil && a.Addresses == nil {
			return fmt.Errorf("assertions[%d]: count or addresses is required for scan", index)
		}
	case AssertJournal:
		if a.Count == nil {
			return fmt.Errorf("assertions[%d]: count is required for journal", index)
		}
		if err := validateExpect(a.Outcome); err != nil {
			return fmt.Errorf("assertions[%d]: %w", index, err)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	if a.Kind != "" {
		if _, err := record.ParseKind(a.Kind); err != nil {
			return fmt.Errorf("assertions[%d]: %w", index, err)
		}
	} else if a.Type == AssertScan {
		return fmt.Errorf("assertions[%d]: kind is required for scan", index)
	}
	if a.Where != nil && a.Where.Result != "" {
		if _, err := ir.ParseVotingResult(a.Where.Result); err != nil {
			return fmt.Errorf("assertions[%d]: %w", index, err)
		}
	}
	if a.Count != nil && *a.Count < 0 {
		return fmt.Errorf("assertions[%d]: count must be non-negative", index)
	}
	return nil
}
