package rules

// #region imports
import (
	"fmt"
	"sort"

	"github.com/smart-bin/go-controller/internal/facts"
	"github.com/smart-bin/go-controller/internal/waste"
)

// #endregion

// #region rule-type

// Proposal is the classification a rule contributes when it fires.
type Proposal struct {
	Category         waste.Category
	Confidence       float64
	Reasoning        string
	DisposalLocation string
}

// Rule is one (predicate, salience, action) entry in the static table.
// A nil Match always fires. Fallback rules additionally require an empty
// ledger at the moment they are reached, so with the lowest salience they
// fire only when no domain rule produced a candidate.
type Rule struct {
	Name     string
	Salience int
	Match    func(facts.Snapshot) bool
	Propose  Proposal
	Fallback bool
}

// #endregion rule-type

// #region table

// table is declared in descending-salience order; init re-sorts stably so a
// misordered edit cannot change firing semantics. Declaration order breaks
// salience ties.
var table = []Rule{
	{
		Name:     "battery_metal",
		Salience: 110,
		Match: func(s facts.Snapshot) bool {
			return s.CVLabel == "battery" && s.IsMetal
		},
		Propose: Proposal{
			Category:   waste.CategoryEwaste,
			Confidence: 0.95,
			Reasoning:  "CV detected battery and metal sensor triggered; classified as e-waste due to domain knowledge.",
		},
	},
	{
		Name:     "paint_can_metal",
		Salience: 105,
		Match: func(s facts.Snapshot) bool {
			return s.CVLabel == "paint can" && s.IsMetal
		},
		Propose: Proposal{
			Category:   waste.CategoryHazardous,
			Confidence: 0.95,
			Reasoning:  "CV detected paint can and metal sensor triggered; hazardous waste prioritized.",
		},
	},
	{
		Name:     "can_high_confidence",
		Salience: 100,
		Match:    labelWithConfidence("can"),
		Propose: Proposal{
			Category:   waste.CategoryMetal,
			Confidence: 0.90,
			Reasoning:  "Computer vision confidently identified the item as 'can'. Metal detected by shape and texture.",
		},
	},
	{
		Name:     "banana_peel",
		Salience: 95,
		Match:    labelWithConfidence("banana peel"),
		Propose: Proposal{
			Category:   waste.CategoryOrganic,
			Confidence: 0.90,
			Reasoning:  "Computer vision confidently identified the item as 'banana peel'. Typical organic shape and color.",
		},
	},
	{
		Name:     "apple_core",
		Salience: 90,
		Match:    labelWithConfidence("apple core"),
		Propose: Proposal{
			Category:   waste.CategoryOrganic,
			Confidence: 0.90,
			Reasoning:  "Computer vision confidently identified the item as 'apple core'. Typical organic shape and color.",
		},
	},
	{
		Name:     "metal_sensor",
		Salience: 90,
		Match: func(s facts.Snapshot) bool {
			return s.IsMetal
		},
		Propose: Proposal{
			Category:   waste.CategoryMetal,
			Confidence: 0.70,
			Reasoning:  "Metal sensor triggered indicating metal presence.",
		},
	},
	{
		Name:     "paper_visual",
		Salience: 85,
		Match:    labelWithConfidence("paper"),
		Propose: Proposal{
			Category:   waste.CategoryPaper,
			Confidence: 0.85,
			Reasoning:  "Computer vision confidently identified the item as 'paper'. Paper-like texture confirmed.",
		},
	},
	{
		Name:     "plastic_bottle",
		Salience: 80,
		Match:    labelWithConfidence("plastic bottle"),
		Propose: Proposal{
			Category:   waste.CategoryPlasticPET,
			Confidence: 0.85,
			Reasoning:  "Computer vision confidently identified the item as 'plastic bottle'. PET shape and transparency detected.",
		},
	},
	{
		Name:     "moisture_sensor",
		Salience: 80,
		Match: func(s facts.Snapshot) bool {
			return s.IsMoist
		},
		Propose: Proposal{
			Category:   waste.CategoryOrganic,
			Confidence: 0.60,
			Reasoning:  "Moisture detected; item is likely organic or wet paper.",
		},
	},
	{
		Name:     "glass_bottle",
		Salience: 75,
		Match:    labelWithConfidence("glass bottle"),
		Propose: Proposal{
			Category:   waste.CategoryGlass,
			Confidence: 0.90,
			Reasoning:  "Computer vision confidently identified the item as 'glass bottle'. Glass texture and shape identified.",
		},
	},
	{
		Name:     "heavy_item",
		Salience: 75,
		Match: func(s facts.Snapshot) bool {
			return s.WeightGrams > 500
		},
		Propose: Proposal{
			Category:   waste.CategoryOrganic,
			Confidence: 0.60,
			Reasoning:  "Item is heavy (>500g); may be bulk organic waste or metal.",
		},
	},
	{
		Name:     "transparency_sensor",
		Salience: 70,
		Match: func(s facts.Snapshot) bool {
			return s.IsTransparent
		},
		Propose: Proposal{
			Category:   waste.CategoryPlasticPET,
			Confidence: 0.50,
			Reasoning:  "Item is transparent, often indicating PET plastic.",
		},
	},
	{
		Name:     "flexibility_sensor",
		Salience: 65,
		Match: func(s facts.Snapshot) bool {
			return s.IsFlexible
		},
		Propose: Proposal{
			Category:   waste.CategoryPlasticSoft,
			Confidence: 0.60,
			Reasoning:  "Flexible item detected, may be soft plastic or paper.",
		},
	},
	{
		Name:     "fallback_unknown",
		Salience: 10,
		Fallback: true,
		Propose: Proposal{
			Category:   waste.CategoryUnknown,
			Confidence: 0.30,
			Reasoning:  "No clear indicators found.",
		},
	},
}

func init() {
	sort.SliceStable(table, func(i, j int) bool {
		return table[i].Salience > table[j].Salience
	})
	for i := range table {
		if table[i].Propose.DisposalLocation == "" {
			table[i].Propose.DisposalLocation = waste.DisposalLocation(table[i].Propose.Category)
		}
	}
}

// Table returns the rule set in evaluation order.
func Table() []Rule {
	out := make([]Rule, len(table))
	copy(out, table)
	return out
}

// #endregion table

// #region fire

// FireAll evaluates every rule against the snapshot in salience order and
// appends one candidate per match to the ledger. Single forward pass: actions
// assert no new facts, so nothing refires. Returns the number of rules fired.
func FireAll(snap facts.Snapshot, led *Ledger) int {
	fired := 0
	for _, r := range table {
		if r.Fallback && led.Len() > 0 {
			continue
		}
		if r.Match != nil && !r.Match(snap) {
			continue
		}
		c := waste.Classification{
			Category:         r.Propose.Category,
			Confidence:       r.Propose.Confidence,
			Reasoning:        r.Propose.Reasoning,
			DisposalLocation: r.Propose.DisposalLocation,
		}
		led.Append(c, fmt.Sprintf("-> RULE FIRED [%s]: %s", r.Name, r.Propose.Reasoning))
		fired++
	}
	return fired
}

// #endregion fire

// #region helpers

// labelWithConfidence matches a CV label at or above the shared 0.7
// confidence floor used by all single-label vision rules.
func labelWithConfidence(label string) func(facts.Snapshot) bool {
	return func(s facts.Snapshot) bool {
		return s.CVLabel == label && s.CVConfidence >= 0.7
	}
}

// #endregion helpers
