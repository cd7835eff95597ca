package rules

import "github.com/smart-bin/go-controller/internal/waste"

// #region ledger

// Ledger is the append-only per-cycle record of candidate classifications
// and the parallel human-readable reasoning trace. Candidates are never
// deduplicated or removed within a cycle.
type Ledger struct {
	candidates []waste.Classification
	trace      []string
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{}
}

// Append records one candidate and its trace line.
func (l *Ledger) Append(c waste.Classification, trace string) {
	l.candidates = append(l.candidates, c)
	l.trace = append(l.trace, trace)
}

// Note appends a trace line that carries no candidate, such as the resolver
// or override action at the end of a cycle.
func (l *Ledger) Note(trace string) {
	l.trace = append(l.trace, trace)
}

// Len reports the number of candidates recorded so far.
func (l *Ledger) Len() int {
	return len(l.candidates)
}

// All returns a copy of the candidates in insertion (firing) order.
func (l *Ledger) All() []waste.Classification {
	out := make([]waste.Classification, len(l.candidates))
	copy(out, l.candidates)
	return out
}

// Trace returns a copy of the reasoning trace in insertion order.
func (l *Ledger) Trace() []string {
	out := make([]string, len(l.trace))
	copy(out, l.trace)
	return out
}

// Clear empties candidates and trace for the next cycle.
func (l *Ledger) Clear() {
	l.candidates = l.candidates[:0]
	l.trace = l.trace[:0]
}

// #endregion ledger
