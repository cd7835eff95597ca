package engine

// #region imports
import (
	"github.com/smart-bin/go-controller/internal/facts"
	"github.com/smart-bin/go-controller/internal/waste"
)

// #endregion

// #region classify

// Classify runs one full automatic cycle on a fresh engine: assert, fire,
// finalize. The one-engine-per-item discipline for callers that never
// override mid-cycle.
func Classify(snap facts.Snapshot) (waste.Decision, error) {
	e := New()
	if err := e.AssertFacts(snap); err != nil {
		return waste.Decision{}, err
	}
	if err := e.FireRules(); err != nil {
		return waste.Decision{}, err
	}
	return e.Finalize()
}

// #endregion classify
