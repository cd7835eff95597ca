package store

// #region imports
import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/smart-bin/go-controller/internal/facts"
	"github.com/smart-bin/go-controller/internal/waste"
)

// #endregion

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS classifications (
	classification_id  TEXT PRIMARY KEY,
	cv_label           TEXT NOT NULL,
	final_category     TEXT NOT NULL,
	final_confidence   REAL NOT NULL,
	final_reasoning    TEXT NOT NULL,
	disposal_location  TEXT NOT NULL,
	candidates_json    TEXT NOT NULL,
	trace_json         TEXT NOT NULL,
	snapshot_json      TEXT NOT NULL,
	is_manual_override INTEGER NOT NULL DEFAULT 0,
	created_at         TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS override_audit (
	id                    INTEGER PRIMARY KEY AUTOINCREMENT,
	classification_id     TEXT NOT NULL,
	previous_category     TEXT NOT NULL,
	new_category          TEXT NOT NULL,
	new_disposal_location TEXT NOT NULL,
	reason                TEXT,
	operator_id           TEXT,
	created_at            TEXT NOT NULL,
	FOREIGN KEY (classification_id) REFERENCES classifications(classification_id)
);

CREATE TABLE IF NOT EXISTS classification_log (
	id                INTEGER PRIMARY KEY AUTOINCREMENT,
	classification_id TEXT NOT NULL,
	trigger_type      TEXT NOT NULL,
	candidate_count   INTEGER NOT NULL,
	decision          TEXT NOT NULL,
	reason            TEXT,
	created_at        TEXT NOT NULL,
	FOREIGN KEY (classification_id) REFERENCES classifications(classification_id)
);
`
// #endregion schema

// #region store-struct
// Store persists classification records and override audit rows in SQLite.
type Store struct {
	db *sql.DB
}
// #endregion store-struct

// #region constructor
// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}
// #endregion constructor

// #region close
// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
// #endregion close

// #region db-accessor
// DB returns the underlying *sql.DB for use by other packages (e.g. logging).
func (s *Store) DB() *sql.DB {
	return s.db
}
// #endregion db-accessor

// #region save-decision
// SaveDecision persists one emitted decision with its snapshot and returns
// the stored record with its generated ID.
func (s *Store) SaveDecision(snap facts.Snapshot, d waste.Decision) (Record, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	candJSON, err := json.Marshal(d.Candidates)
	if err != nil {
		return Record{}, fmt.Errorf("marshal candidates: %w", err)
	}
	traceJSON, err := json.Marshal(d.ReasoningTrace)
	if err != nil {
		return Record{}, fmt.Errorf("marshal trace: %w", err)
	}
	snapJSON, err := json.Marshal(snap)
	if err != nil {
		return Record{}, fmt.Errorf("marshal snapshot: %w", err)
	}

	override := 0
	if d.IsManualOverride {
		override = 1
	}

	_, err = s.db.Exec(
		`INSERT INTO classifications
		 (classification_id, cv_label, final_category, final_confidence, final_reasoning,
		  disposal_location, candidates_json, trace_json, snapshot_json, is_manual_override, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, snap.CVLabel,
		string(d.FinalClassification.Category),
		d.FinalClassification.Confidence,
		d.FinalClassification.Reasoning,
		d.FinalClassification.DisposalLocation,
		string(candJSON), string(traceJSON), string(snapJSON),
		override, now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return Record{}, fmt.Errorf("insert classification: %w", err)
	}

	return Record{
		ID:               id,
		CVLabel:          snap.CVLabel,
		FinalCategory:    d.FinalClassification.Category,
		FinalConfidence:  d.FinalClassification.Confidence,
		FinalReasoning:   d.FinalClassification.Reasoning,
		DisposalLocation: d.FinalClassification.DisposalLocation,
		Candidates:       d.Candidates,
		ReasoningTrace:   d.ReasoningTrace,
		Snapshot:         snap,
		IsManualOverride: d.IsManualOverride,
		CreatedAt:        now,
	}, nil
}
// #endregion save-decision

// #region get-decision
// GetDecision retrieves a stored classification by ID.
func (s *Store) GetDecision(id string) (Record, error) {
	row := s.db.QueryRow(
		`SELECT classification_id, cv_label, final_category, final_confidence, final_reasoning,
		        disposal_location, candidates_json, trace_json, snapshot_json, is_manual_override, created_at
		 FROM classifications WHERE classification_id = ?`, id,
	)
	rec, err := scanRecord(row)
	if err != nil {
		return Record{}, fmt.Errorf("get classification %s: %w", id, err)
	}
	return rec, nil
}
// #endregion get-decision

// #region list-recent
// ListRecent returns up to n records, most recent first. An empty category
// filter matches everything.
func (s *Store) ListRecent(n int, category waste.Category) ([]Record, error) {
	query := `SELECT classification_id, cv_label, final_category, final_confidence, final_reasoning,
	                 disposal_location, candidates_json, trace_json, snapshot_json, is_manual_override, created_at
	          FROM classifications`
	args := []any{}
	if category != "" {
		query += ` WHERE final_category = ?`
		args = append(args, string(category))
	}
	query += ` ORDER BY created_at DESC LIMIT ?`
	args = append(args, n)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list classifications: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan classification: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
// #endregion list-recent

// #region apply-override
// ApplyOverride records an operator override against an already persisted
// classification: one audit row plus a rewrite of the stored final fields,
// in a single transaction. The historical cycle is not re-resolved.
func (s *Store) ApplyOverride(p OverridePatch) (Record, error) {
	if !p.NewCategory.Valid() {
		return Record{}, fmt.Errorf("override category %q outside the closed set", p.NewCategory)
	}
	disposal := p.NewDisposalLocation
	if disposal == "" {
		disposal = waste.DisposalLocation(p.NewCategory)
	}
	now := time.Now().UTC()

	tx, err := s.db.Begin()
	if err != nil {
		return Record{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var prevCategory string
	err = tx.QueryRow(
		`SELECT final_category FROM classifications WHERE classification_id = ?`, p.ClassificationID,
	).Scan(&prevCategory)
	if err != nil {
		return Record{}, fmt.Errorf("find classification %s: %w", p.ClassificationID, err)
	}

	_, err = tx.Exec(
		`INSERT INTO override_audit
		 (classification_id, previous_category, new_category, new_disposal_location, reason, operator_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ClassificationID, prevCategory, string(p.NewCategory), disposal,
		nullIfEmpty(p.Reason), nullIfEmpty(p.OperatorID), now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return Record{}, fmt.Errorf("insert audit: %w", err)
	}

	_, err = tx.Exec(
		`UPDATE classifications
		 SET final_category = ?, final_confidence = 1.0, final_reasoning = ?,
		     disposal_location = ?, is_manual_override = 1
		 WHERE classification_id = ?`,
		string(p.NewCategory), "User override: "+p.Reason, disposal, p.ClassificationID,
	)
	if err != nil {
		return Record{}, fmt.Errorf("update classification: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Record{}, fmt.Errorf("commit: %w", err)
	}

	return s.GetDecision(p.ClassificationID)
}
// #endregion apply-override

// #region overrides
// Overrides returns the audit trail for one classification, oldest first.
func (s *Store) Overrides(classificationID string) ([]OverrideAudit, error) {
	rows, err := s.db.Query(
		`SELECT classification_id, previous_category, new_category, new_disposal_location, reason, operator_id, created_at
		 FROM override_audit WHERE classification_id = ? ORDER BY id ASC`, classificationID,
	)
	if err != nil {
		return nil, fmt.Errorf("list overrides: %w", err)
	}
	defer rows.Close()

	var out []OverrideAudit
	for rows.Next() {
		var a OverrideAudit
		var prev, next string
		var reason, operator sql.NullString
		var createdStr string
		if err := rows.Scan(&a.ClassificationID, &prev, &next, &a.NewDisposalLocation, &reason, &operator, &createdStr); err != nil {
			return nil, fmt.Errorf("scan override: %w", err)
		}
		a.PreviousCategory = waste.Category(prev)
		a.NewCategory = waste.Category(next)
		a.Reason = reason.String
		a.OperatorID = operator.String
		a.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
		out = append(out, a)
	}
	return out, rows.Err()
}
// #endregion overrides

// #region helpers

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (Record, error) {
	var rec Record
	var category string
	var candJSON, traceJSON, snapJSON string
	var override int
	var createdStr string

	err := row.Scan(&rec.ID, &rec.CVLabel, &category, &rec.FinalConfidence, &rec.FinalReasoning,
		&rec.DisposalLocation, &candJSON, &traceJSON, &snapJSON, &override, &createdStr)
	if err != nil {
		return Record{}, err
	}

	rec.FinalCategory = waste.Category(category)
	rec.IsManualOverride = override != 0
	if err := json.Unmarshal([]byte(candJSON), &rec.Candidates); err != nil {
		return Record{}, fmt.Errorf("unmarshal candidates: %w", err)
	}
	if err := json.Unmarshal([]byte(traceJSON), &rec.ReasoningTrace); err != nil {
		return Record{}, fmt.Errorf("unmarshal trace: %w", err)
	}
	if err := json.Unmarshal([]byte(snapJSON), &rec.Snapshot); err != nil {
		return Record{}, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
	return rec, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// #endregion helpers
