package logging

import "time"

// #region trigger

// Trigger types for classification_log rows.
const (
	TriggerAuto           = "auto"
	TriggerManualOverride = "manual_override"
)

// #endregion trigger

// #region entry

// Entry is a single row in the classification_log table: the provenance of
// one emitted or overridden decision.
type Entry struct {
	ClassificationID string
	TriggerType      string
	CandidateCount   int
	Decision         string // final category token
	Reason           string
	CreatedAt        time.Time
}

// #endregion entry
