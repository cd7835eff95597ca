package store

// #region imports
import (
	"time"

	"github.com/smart-bin/go-controller/internal/facts"
	"github.com/smart-bin/go-controller/internal/waste"
)

// #endregion

// #region record

// Record is one persisted classification cycle: the emitted decision plus
// the fact snapshot it was derived from, keyed by a generated ID.
type Record struct {
	ID               string
	CVLabel          string
	FinalCategory    waste.Category
	FinalConfidence  float64
	FinalReasoning   string
	DisposalLocation string
	Candidates       []waste.Classification
	ReasoningTrace   []string
	Snapshot         facts.Snapshot
	IsManualOverride bool
	CreatedAt        time.Time
}

// #endregion record

// #region override

// OverridePatch is the out-of-band operator request against an already
// persisted classification.
type OverridePatch struct {
	ClassificationID    string
	NewCategory         waste.Category
	NewDisposalLocation string
	Reason              string
	OperatorID          string
}

// OverrideAudit is one row of the override bookkeeping trail.
type OverrideAudit struct {
	ClassificationID    string
	PreviousCategory    waste.Category
	NewCategory         waste.Category
	NewDisposalLocation string
	Reason              string
	OperatorID          string
	CreatedAt           time.Time
}

// #endregion override
