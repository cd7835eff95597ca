// Package resolve collapses a cycle's candidate classifications into the
// single final classification.
//
// Policy: candidates are grouped by category and each group is scored by the
// maximum confidence it contains. Ties between groups go to the group whose
// first candidate fired earliest, which with salience-ordered firing means
// the highest-salience evidence. The winner is that group's highest-
// confidence candidate (earliest among equals). One strong piece of evidence
// therefore beats many weak ones: repeated low-confidence matches for the
// same category never sum past their best member.
package resolve

// #region imports
import (
	"errors"

	"github.com/smart-bin/go-controller/internal/waste"
)

// #endregion

// ErrNoCandidates is returned when Resolve is called with an empty slate.
// The engine's fallback rule makes this unreachable in a normal cycle.
var ErrNoCandidates = errors.New("resolve: no candidates")

// #region resolve

// Resolve picks the final classification from candidates in firing order.
// Pure and deterministic; the input is not modified.
func Resolve(candidates []waste.Classification) (waste.Classification, error) {
	if len(candidates) == 0 {
		return waste.Classification{}, ErrNoCandidates
	}

	type group struct {
		firstIdx int     // insertion order of the group's first candidate
		bestIdx  int     // index of the highest-confidence candidate
		score    float64 // max confidence in the group
	}

	groups := make(map[waste.Category]*group, len(candidates))
	order := make([]waste.Category, 0, len(candidates))

	for i, c := range candidates {
		g, ok := groups[c.Category]
		if !ok {
			groups[c.Category] = &group{firstIdx: i, bestIdx: i, score: c.Confidence}
			order = append(order, c.Category)
			continue
		}
		// Strict greater keeps the earliest candidate among equal confidences.
		if c.Confidence > g.score {
			g.score = c.Confidence
			g.bestIdx = i
		}
	}

	winner := groups[order[0]]
	for _, cat := range order[1:] {
		g := groups[cat]
		if g.score > winner.score {
			winner = g
			continue
		}
		if g.score == winner.score && g.firstIdx < winner.firstIdx {
			winner = g
		}
	}

	return candidates[winner.bestIdx], nil
}

// #endregion resolve
