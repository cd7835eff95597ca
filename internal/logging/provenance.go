package logging

import (
	"database/sql"
	"fmt"
	"time"
)

// #region log-decision
// LogDecision writes a provenance entry to the classification_log table.
func LogDecision(db *sql.DB, entry Entry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := db.Exec(
		`INSERT INTO classification_log (classification_id, trigger_type, candidate_count, decision, reason, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		entry.ClassificationID,
		entry.TriggerType,
		entry.CandidateCount,
		entry.Decision,
		nullIfEmpty(entry.Reason),
		entry.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("log decision: %w", err)
	}
	return nil
}
// #endregion log-decision

// #region helpers
func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
// #endregion helpers
