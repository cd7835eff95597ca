package replay

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/smart-bin/go-controller/internal/facts"
	"github.com/smart-bin/go-controller/internal/waste"
)

func sampleInteractions() []Interaction {
	return []Interaction{
		{
			ItemID:   "item-1",
			Snapshot: facts.Snapshot{CVLabel: "battery", IsMetal: true},
		},
		{
			ItemID:   "item-2",
			Snapshot: facts.Snapshot{CVLabel: "can", CVConfidence: 0.8},
			Override: &OverrideSpec{Category: waste.CategoryHazardous, Reason: "rusted aerosol"},
		},
		{
			ItemID:   "item-3",
			Snapshot: facts.Snapshot{},
		},
	}
}

func TestRun(t *testing.T) {
	results := Run(sampleInteractions())
	if len(results) != 3 {
		t.Fatalf("got %d results", len(results))
	}

	if r := results[0]; r.Category != waste.CategoryEwaste || r.Confidence != 0.95 || r.IsManualOverride {
		t.Fatalf("item-1 = %+v", r)
	}
	if r := results[1]; r.Category != waste.CategoryHazardous || !r.IsManualOverride {
		t.Fatalf("item-2 = %+v", r)
	}
	// An in-cycle override preempts rule firing entirely.
	if results[1].CandidateCount != 0 {
		t.Fatalf("item-2 candidates = %d", results[1].CandidateCount)
	}
	if results[1].Confidence != 1.0 {
		t.Fatalf("item-2 confidence = %.2f", results[1].Confidence)
	}
	if r := results[2]; r.Category != waste.CategoryUnknown || r.Confidence != 0.30 {
		t.Fatalf("item-3 = %+v", r)
	}
	for _, r := range results {
		if r.Err != "" {
			t.Fatalf("unexpected error for %s: %s", r.ItemID, r.Err)
		}
	}
}

func TestRunInvalidOverride(t *testing.T) {
	results := Run([]Interaction{{
		ItemID:   "bad",
		Snapshot: facts.Snapshot{},
		Override: &OverrideSpec{Category: "cardboard"},
	}})
	if results[0].Err == "" {
		t.Fatal("expected error result for invalid override category")
	}
}

func TestRunDeterministic(t *testing.T) {
	first := Run(sampleInteractions())
	for i := 0; i < 10; i++ {
		again := Run(sampleInteractions())
		if diff := cmp.Diff(first, again); diff != "" {
			t.Fatalf("run %d diverged (-first +again):\n%s", i, diff)
		}
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(Run(sampleInteractions()))

	if s.TotalItems != 3 || s.Overrides != 1 || s.Unknowns != 1 || s.Errors != 0 {
		t.Fatalf("summary = %+v", s)
	}
	want := map[waste.Category]int{
		waste.CategoryEwaste:    1,
		waste.CategoryHazardous: 1,
		waste.CategoryUnknown:   1,
	}
	if diff := cmp.Diff(want, s.ByCategory); diff != "" {
		t.Fatalf("by-category mismatch (-want +got):\n%s", diff)
	}
}

func TestSummarizeCountsErrors(t *testing.T) {
	s := Summarize([]Result{{ItemID: "x", Err: "boom"}})
	if s.Errors != 1 || s.TotalItems != 1 || len(s.ByCategory) != 0 {
		t.Fatalf("summary = %+v", s)
	}
}

func TestFixtureRoundTrip(t *testing.T) {
	f := &Fixture{
		Description:  "bench capture 2026-03-14",
		Interactions: sampleInteractions(),
		ExpectedResults: []ExpectedResult{
			{ItemID: "item-1", Category: waste.CategoryEwaste},
			{ItemID: "item-2", Category: waste.CategoryHazardous, IsManualOverride: true},
			{ItemID: "item-3", Category: waste.CategoryUnknown},
		},
	}

	path := filepath.Join(t.TempDir(), "fixture.json")
	if err := SaveFixture(path, f); err != nil {
		t.Fatal(err)
	}
	loaded, err := LoadFixture(path)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(f, loaded); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFixtureMissing(t *testing.T) {
	if _, err := LoadFixture(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("expected error for missing fixture")
	}
}

func TestCheck(t *testing.T) {
	f := &Fixture{
		Interactions: sampleInteractions(),
		ExpectedResults: []ExpectedResult{
			{ItemID: "item-1", Category: waste.CategoryEwaste},
			{ItemID: "item-2", Category: waste.CategoryHazardous, IsManualOverride: true},
			{ItemID: "item-3", Category: waste.CategoryUnknown},
		},
	}
	if mismatches := Check(Run(f.Interactions), f.ExpectedResults); len(mismatches) != 0 {
		t.Fatalf("mismatches = %+v", mismatches)
	}
}

func TestCheckReportsDivergence(t *testing.T) {
	results := Run(sampleInteractions())
	expected := []ExpectedResult{
		{ItemID: "item-1", Category: waste.CategoryMetal},     // wrong category
		{ItemID: "item-2", Category: waste.CategoryHazardous}, // override flag missing
		{ItemID: "item-4", Category: waste.CategoryGlass},     // no such item
	}

	mismatches := Check(results, expected)
	if len(mismatches) != 3 {
		t.Fatalf("got %d mismatches: %+v", len(mismatches), mismatches)
	}
	ids := map[string]bool{}
	for _, m := range mismatches {
		ids[m.ItemID] = true
	}
	for _, id := range []string{"item-1", "item-2", "item-4"} {
		if !ids[id] {
			t.Fatalf("missing mismatch for %s", id)
		}
	}
}
