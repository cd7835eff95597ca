package replay

// #region imports
import (
	"github.com/smart-bin/go-controller/internal/engine"
	"github.com/smart-bin/go-controller/internal/facts"
	"github.com/smart-bin/go-controller/internal/waste"
)

// #endregion

// #region types

// Interaction is one recorded item presentation for replay: the derived
// snapshot plus an optional operator override that was active in-cycle.
type Interaction struct {
	ItemID   string         `json:"item_id"`
	Snapshot facts.Snapshot `json:"snapshot"`
	Override *OverrideSpec  `json:"override,omitempty"`
}

// OverrideSpec mirrors the in-cycle override arguments.
type OverrideSpec struct {
	Category         waste.Category `json:"category"`
	Reason           string         `json:"reason"`
	DisposalLocation string         `json:"disposal_location,omitempty"`
}

// Result captures the outcome of replaying one interaction.
type Result struct {
	ItemID           string         `json:"item_id"`
	Category         waste.Category `json:"category"`
	Confidence       float64        `json:"confidence"`
	DisposalLocation string         `json:"disposal_location"`
	IsManualOverride bool           `json:"is_manual_override"`
	CandidateCount   int            `json:"candidate_count"`
	Err              string         `json:"error,omitempty"`
}

// Summary provides aggregate stats from a replay run.
type Summary struct {
	TotalItems int
	Overrides  int
	Unknowns   int
	Errors     int
	ByCategory map[waste.Category]int
}

// #endregion types

// #region run

// Run replays each interaction through a fresh engine: assert, override if
// recorded, fire, finalize. Deterministic and entirely in-memory; the same
// fixture always yields the same results.
func Run(interactions []Interaction) []Result {
	results := make([]Result, 0, len(interactions))

	for _, inter := range interactions {
		results = append(results, runOne(inter))
	}
	return results
}

func runOne(inter Interaction) Result {
	res := Result{ItemID: inter.ItemID}

	e := engine.New()
	if err := e.AssertFacts(inter.Snapshot); err != nil {
		res.Err = err.Error()
		return res
	}
	if inter.Override != nil {
		err := e.SetOverride(inter.Override.Category, 1.0, inter.Override.Reason, inter.Override.DisposalLocation)
		if err != nil {
			res.Err = err.Error()
			return res
		}
	}
	if err := e.FireRules(); err != nil {
		res.Err = err.Error()
		return res
	}
	decision, err := e.Finalize()
	if err != nil {
		res.Err = err.Error()
		return res
	}

	res.Category = decision.FinalClassification.Category
	res.Confidence = decision.FinalClassification.Confidence
	res.DisposalLocation = decision.FinalClassification.DisposalLocation
	res.IsManualOverride = decision.IsManualOverride
	res.CandidateCount = len(decision.Candidates)
	return res
}

// #endregion run

// #region summarize

// Summarize aggregates a replay run.
func Summarize(results []Result) Summary {
	s := Summary{
		TotalItems: len(results),
		ByCategory: make(map[waste.Category]int),
	}
	for _, r := range results {
		if r.Err != "" {
			s.Errors++
			continue
		}
		s.ByCategory[r.Category]++
		if r.IsManualOverride {
			s.Overrides++
		}
		if r.Category == waste.CategoryUnknown {
			s.Unknowns++
		}
	}
	return s
}

// #endregion summarize
