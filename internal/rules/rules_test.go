package rules

import (
	"strings"
	"testing"

	"github.com/smart-bin/go-controller/internal/facts"
	"github.com/smart-bin/go-controller/internal/waste"
)

func fire(t *testing.T, snap facts.Snapshot) *Ledger {
	t.Helper()
	led := NewLedger()
	FireAll(snap, led)
	return led
}

func TestTableIsSalienceOrdered(t *testing.T) {
	tbl := Table()
	if len(tbl) == 0 {
		t.Fatal("empty rule table")
	}
	for i := 1; i < len(tbl); i++ {
		if tbl[i].Salience > tbl[i-1].Salience {
			t.Fatalf("rule %s (salience %d) after %s (salience %d)",
				tbl[i].Name, tbl[i].Salience, tbl[i-1].Name, tbl[i-1].Salience)
		}
	}
	if last := tbl[len(tbl)-1]; !last.Fallback {
		t.Fatalf("lowest-salience rule should be the fallback, got %s", last.Name)
	}
}

func TestEveryRuleHasDisposalText(t *testing.T) {
	for _, r := range Table() {
		if r.Propose.DisposalLocation == "" {
			t.Fatalf("rule %s has no disposal location", r.Name)
		}
		if r.Propose.Reasoning == "" {
			t.Fatalf("rule %s has no reasoning", r.Name)
		}
	}
}

func TestBatteryWithMetalFiresEwaste(t *testing.T) {
	led := fire(t, facts.Snapshot{CVLabel: "battery", IsMetal: true})

	cands := led.All()
	if len(cands) == 0 {
		t.Fatal("no candidates")
	}
	// battery_metal (110) fires before the bare metal_sensor rule (90).
	if cands[0].Category != waste.CategoryEwaste || cands[0].Confidence != 0.95 {
		t.Fatalf("first candidate = %+v", cands[0])
	}
	if cands[1].Category != waste.CategoryMetal || cands[1].Confidence != 0.70 {
		t.Fatalf("second candidate = %+v", cands[1])
	}
}

func TestPaintCanFiresHazardous(t *testing.T) {
	led := fire(t, facts.Snapshot{CVLabel: "paint can", IsMetal: true})

	cands := led.All()
	if cands[0].Category != waste.CategoryHazardous || cands[0].Confidence != 0.95 {
		t.Fatalf("first candidate = %+v", cands[0])
	}
	if cands[0].DisposalLocation != "Hazardous waste disposal facility" {
		t.Fatalf("disposal = %q", cands[0].DisposalLocation)
	}
}

func TestVisionRulesRespectConfidenceFloor(t *testing.T) {
	led := fire(t, facts.Snapshot{CVLabel: "can", CVConfidence: 0.69})
	cands := led.All()
	if len(cands) != 1 || cands[0].Category != waste.CategoryUnknown {
		t.Fatalf("below-floor detection should fall through to unknown, got %+v", cands)
	}

	led = fire(t, facts.Snapshot{CVLabel: "can", CVConfidence: 0.7})
	cands = led.All()
	if len(cands) != 1 || cands[0].Category != waste.CategoryMetal || cands[0].Confidence != 0.90 {
		t.Fatalf("at-floor detection should fire the can rule, got %+v", cands)
	}
}

func TestAllMatchingRulesFire(t *testing.T) {
	// Moist and heavy: both organics rules fire, no first-match-wins.
	led := fire(t, facts.Snapshot{IsMoist: true, WeightGrams: 600})

	cands := led.All()
	if len(cands) != 2 {
		t.Fatalf("expected 2 candidates, got %d: %+v", len(cands), cands)
	}
	for _, c := range cands {
		if c.Category != waste.CategoryOrganic || c.Confidence != 0.60 {
			t.Fatalf("unexpected candidate %+v", c)
		}
	}
}

func TestFiringOrderFollowsSalience(t *testing.T) {
	// plastic bottle (80) vs transparency (70) vs flexibility (65).
	led := fire(t, facts.Snapshot{
		CVLabel:       "plastic bottle",
		CVConfidence:  0.9,
		IsTransparent: true,
		IsFlexible:    true,
	})

	cands := led.All()
	want := []waste.Category{waste.CategoryPlasticPET, waste.CategoryPlasticPET, waste.CategoryPlasticSoft}
	if len(cands) != len(want) {
		t.Fatalf("expected %d candidates, got %d", len(want), len(cands))
	}
	for i, cat := range want {
		if cands[i].Category != cat {
			t.Fatalf("candidate %d = %s, want %s", i, cands[i].Category, cat)
		}
	}
	if cands[0].Confidence != 0.85 || cands[1].Confidence != 0.50 {
		t.Fatalf("salience order violated: %+v", cands)
	}
}

func TestFallbackFiresOnlyOnEmptyLedger(t *testing.T) {
	led := fire(t, facts.Snapshot{})
	cands := led.All()
	if len(cands) != 1 {
		t.Fatalf("expected only the fallback, got %+v", cands)
	}
	c := cands[0]
	if c.Category != waste.CategoryUnknown || c.Confidence != 0.30 {
		t.Fatalf("fallback candidate = %+v", c)
	}
	if c.DisposalLocation != "Manual sorting recommended" {
		t.Fatalf("fallback disposal = %q", c.DisposalLocation)
	}

	led = fire(t, facts.Snapshot{IsMetal: true})
	for _, c := range led.All() {
		if c.Category == waste.CategoryUnknown {
			t.Fatal("fallback fired despite existing candidates")
		}
	}
}

func TestTraceMirrorsCandidates(t *testing.T) {
	led := fire(t, facts.Snapshot{CVLabel: "glass bottle", CVConfidence: 0.8, WeightGrams: 700})

	cands := led.All()
	trace := led.Trace()
	if len(trace) != len(cands) {
		t.Fatalf("trace has %d lines for %d candidates", len(trace), len(cands))
	}
	for i, line := range trace {
		if !strings.HasPrefix(line, "-> RULE FIRED [") {
			t.Fatalf("trace line %d = %q", i, line)
		}
		if !strings.Contains(line, cands[i].Reasoning) {
			t.Fatalf("trace line %d does not carry the candidate's reasoning: %q", i, line)
		}
	}
}

func TestLedgerClearAndCopies(t *testing.T) {
	led := NewLedger()
	led.Append(waste.Classification{Category: waste.CategoryPaper, Confidence: 0.85}, "line")
	led.Note("resolution")

	cands := led.All()
	cands[0].Category = waste.CategoryGlass
	if led.All()[0].Category != waste.CategoryPaper {
		t.Fatal("All should return a copy")
	}

	trace := led.Trace()
	if len(trace) != 2 {
		t.Fatalf("trace = %v", trace)
	}
	trace[0] = "mutated"
	if led.Trace()[0] != "line" {
		t.Fatal("Trace should return a copy")
	}

	led.Clear()
	if led.Len() != 0 || len(led.Trace()) != 0 {
		t.Fatal("clear should empty candidates and trace")
	}
}
