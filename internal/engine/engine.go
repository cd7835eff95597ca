package engine

// #region imports
import (
	"fmt"

	"github.com/smart-bin/go-controller/internal/facts"
	"github.com/smart-bin/go-controller/internal/resolve"
	"github.com/smart-bin/go-controller/internal/rules"
	"github.com/smart-bin/go-controller/internal/waste"
)

// #endregion

// #region phase

// Phase is the engine's lifecycle state for the current cycle.
type Phase string

const (
	PhaseIdle          Phase = "idle"
	PhaseFactsAsserted Phase = "facts_asserted"
	PhaseRulesFired    Phase = "rules_fired"
	PhaseOverridden    Phase = "overridden"
	PhaseDecisionReady Phase = "decision_ready"
)

// #endregion phase

// #region engine-struct

// Engine owns one classification cycle: the asserted fact snapshot, the
// candidate ledger with its reasoning trace, and any manual override. It is
// stateful for the duration of one item and not safe for overlapping cycles;
// construct one per item (see Classify) or serialize access externally.
type Engine struct {
	phase    Phase
	snapshot facts.Snapshot
	ledger   *rules.Ledger
	override *waste.Classification
}

// New returns an idle engine ready to accept a fact snapshot.
func New() *Engine {
	return &Engine{
		phase:  PhaseIdle,
		ledger: rules.NewLedger(),
	}
}

// Phase reports the current lifecycle phase.
func (e *Engine) Phase() Phase {
	return e.phase
}

// #endregion engine-struct

// #region assert-facts

// AssertFacts accepts the cycle's immutable evidence bundle. Calling it
// twice without an intervening Reset is caller misuse.
func (e *Engine) AssertFacts(snap facts.Snapshot) error {
	if e.phase != PhaseIdle {
		return fmt.Errorf("%w: assert facts in phase %s", ErrInvalidState, e.phase)
	}
	e.snapshot = snap
	e.phase = PhaseFactsAsserted
	return nil
}

// #endregion assert-facts

// #region fire-rules

// FireRules evaluates the full rule table exactly once against the asserted
// snapshot, in salience order. On an overridden cycle firing is preempted
// and this is a no-op.
func (e *Engine) FireRules() error {
	if e.phase == PhaseOverridden {
		return nil
	}
	if e.phase != PhaseFactsAsserted {
		return fmt.Errorf("%w: fire rules in phase %s", ErrInvalidState, e.phase)
	}
	rules.FireAll(e.snapshot, e.ledger)
	e.phase = PhaseRulesFired
	return nil
}

// #endregion fire-rules

// #region override

// SetOverride stores an operator-supplied classification that supersedes the
// resolver for the remainder of the cycle. Valid once facts are asserted; a
// later override replaces an earlier one. An empty disposal location falls
// back to the category's default text.
func (e *Engine) SetOverride(category waste.Category, confidence float64, reason, disposalLocation string) error {
	switch e.phase {
	case PhaseFactsAsserted, PhaseRulesFired, PhaseOverridden:
	default:
		return fmt.Errorf("%w: set override in phase %s", ErrInvalidState, e.phase)
	}
	if !category.Valid() {
		return fmt.Errorf("%w: category %q outside the closed set", ErrInvalidArgument, category)
	}
	if confidence < 0 || confidence > 1 {
		return fmt.Errorf("%w: override confidence %.2f outside [0,1]", ErrInvalidArgument, confidence)
	}
	if disposalLocation == "" {
		disposalLocation = waste.DisposalLocation(category)
	}
	e.override = &waste.Classification{
		Category:         category,
		Confidence:       confidence,
		Reasoning:        "User override: " + reason,
		DisposalLocation: disposalLocation,
	}
	e.phase = PhaseOverridden
	return nil
}

// #endregion override

// #region finalize

// Finalize produces the cycle's Decision: the override if one is active,
// otherwise the resolver's pick over the candidate ledger. The returned
// record is a defensive copy, safe to hand to other goroutines.
func (e *Engine) Finalize() (waste.Decision, error) {
	if e.phase != PhaseRulesFired && e.phase != PhaseOverridden {
		return waste.Decision{}, fmt.Errorf("%w: finalize in phase %s", ErrInvalidState, e.phase)
	}

	var final waste.Classification
	isOverride := false

	if e.override != nil {
		final = *e.override
		isOverride = true
		e.ledger.Note(fmt.Sprintf("-> OVERRIDE APPLIED: %s -> %s", final.Reasoning, final.Category))
	} else {
		resolved, err := resolve.Resolve(e.ledger.All())
		if err != nil {
			// Unreachable through FireRules: the fallback rule guarantees a
			// non-empty ledger.
			return waste.Decision{}, fmt.Errorf("resolve candidates: %w", err)
		}
		final = resolved
		e.ledger.Note(fmt.Sprintf("-> RESOLVED: %s (confidence %.2f) from %d candidate(s)",
			final.Category, final.Confidence, e.ledger.Len()))
	}

	e.phase = PhaseDecisionReady
	return waste.Decision{
		FinalClassification: final,
		Candidates:          e.ledger.All(),
		ReasoningTrace:      e.ledger.Trace(),
		IsManualOverride:    isOverride,
		ConfidenceScore:     final.Confidence,
	}, nil
}

// #endregion finalize

// #region reset

// Reset clears the snapshot, ledger, trace and override atomically and
// returns the engine to idle. Valid from any phase.
func (e *Engine) Reset() {
	e.phase = PhaseIdle
	e.snapshot = facts.Snapshot{}
	e.ledger.Clear()
	e.override = nil
}

// #endregion reset
