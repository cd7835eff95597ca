package replay

// #region imports
import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/smart-bin/go-controller/internal/waste"
)

// #endregion

// #region fixture-types

// Fixture is the top-level JSON structure for a replay fixture.
type Fixture struct {
	Description     string           `json:"description"`
	Interactions    []Interaction    `json:"interactions"`
	ExpectedResults []ExpectedResult `json:"expected_results,omitempty"`
}

// ExpectedResult captures the expected final classification per item.
type ExpectedResult struct {
	ItemID           string         `json:"item_id"`
	Category         waste.Category `json:"category"`
	IsManualOverride bool           `json:"is_manual_override"`
}

// Mismatch reports one divergence between replayed and expected results.
type Mismatch struct {
	ItemID   string
	Expected ExpectedResult
	Got      Result
}

// #endregion fixture-types

// #region fixture-io

// LoadFixture reads and parses a JSON fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	return &f, nil
}

// SaveFixture writes a fixture as indented JSON.
func SaveFixture(path string, f *Fixture) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal fixture: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write fixture %s: %w", path, err)
	}
	return nil
}

// #endregion fixture-io

// #region check

// Check compares replayed results against the fixture's expectations.
// Items with no expectation are skipped.
func Check(results []Result, expected []ExpectedResult) []Mismatch {
	byID := make(map[string]Result, len(results))
	for _, r := range results {
		byID[r.ItemID] = r
	}

	var mismatches []Mismatch
	for _, exp := range expected {
		got, ok := byID[exp.ItemID]
		if !ok {
			mismatches = append(mismatches, Mismatch{ItemID: exp.ItemID, Expected: exp})
			continue
		}
		if got.Err != "" || got.Category != exp.Category || got.IsManualOverride != exp.IsManualOverride {
			mismatches = append(mismatches, Mismatch{ItemID: exp.ItemID, Expected: exp, Got: got})
		}
	}
	return mismatches
}

// #endregion check
