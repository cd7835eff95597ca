package logging

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/smart-bin/go-controller/internal/facts"
	"github.com/smart-bin/go-controller/internal/store"
	"github.com/smart-bin/go-controller/internal/waste"
)

func tempDB(t *testing.T) (*store.Store, string) {
	t.Helper()
	st, err := store.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { st.Close() })

	rec, err := st.SaveDecision(facts.Snapshot{CVLabel: "can"}, waste.Decision{
		FinalClassification: waste.Classification{
			Category:         waste.CategoryMetal,
			Confidence:       0.90,
			Reasoning:        "test",
			DisposalLocation: waste.DisposalLocation(waste.CategoryMetal),
		},
		Candidates:     []waste.Classification{},
		ReasoningTrace: []string{},
	})
	if err != nil {
		t.Fatal(err)
	}
	return st, rec.ID
}

func TestLogDecision(t *testing.T) {
	st, id := tempDB(t)

	entry := Entry{
		ClassificationID: id,
		TriggerType:      TriggerAuto,
		CandidateCount:   3,
		Decision:         string(waste.CategoryMetal),
	}
	if err := LogDecision(st.DB(), entry); err != nil {
		t.Fatal(err)
	}

	var trigger, decision string
	var count int
	var reason *string
	var createdStr string
	err := st.DB().QueryRow(
		`SELECT trigger_type, candidate_count, decision, reason, created_at
		 FROM classification_log WHERE classification_id = ?`, id,
	).Scan(&trigger, &count, &decision, &reason, &createdStr)
	if err != nil {
		t.Fatal(err)
	}
	if trigger != TriggerAuto || count != 3 || decision != "metal" {
		t.Fatalf("row = %s %d %s", trigger, count, decision)
	}
	if reason != nil {
		t.Fatalf("empty reason stored as %q, want NULL", *reason)
	}
	if _, err := time.Parse(time.RFC3339Nano, createdStr); err != nil {
		t.Fatalf("created_at %q: %v", createdStr, err)
	}
}

func TestLogDecisionOverrideReason(t *testing.T) {
	st, id := tempDB(t)

	entry := Entry{
		ClassificationID: id,
		TriggerType:      TriggerManualOverride,
		CandidateCount:   0,
		Decision:         string(waste.CategoryHazardous),
		Reason:           "operator spotted solvent residue",
		CreatedAt:        time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
	}
	if err := LogDecision(st.DB(), entry); err != nil {
		t.Fatal(err)
	}

	var reason string
	var createdStr string
	err := st.DB().QueryRow(
		`SELECT reason, created_at FROM classification_log WHERE classification_id = ?`, id,
	).Scan(&reason, &createdStr)
	if err != nil {
		t.Fatal(err)
	}
	if reason != entry.Reason {
		t.Fatalf("reason = %q", reason)
	}
	got, err := time.Parse(time.RFC3339Nano, createdStr)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(entry.CreatedAt) {
		t.Fatalf("created_at = %v, want %v", got, entry.CreatedAt)
	}
}
