// Package game holds the per-player bookkeeping a cribbage game loop needs:
// points, the winning line, and the one-off awards outside the show.
package game

import (
	"github.com/domino14/muggins/card"
)

// DefaultWinThreshold is the number of points that wins a game.
const DefaultWinThreshold = 121

// Points awarded outside the show and the pile.
const (
	HisHeelsPoints = 2
	GoPoints       = 1
	LastCardPoints = 1
)

// Rules are the tunable parts of a game.
type Rules struct {
	WinThreshold int
	Values       card.ValueTable
}

func DefaultRules() Rules {
	return Rules{WinThreshold: DefaultWinThreshold, Values: card.DefaultValues}
}

// CutPoints is what the dealer earns from the cut itself: two for a jack
// ("his heels").
func CutPoints(cut card.Card) int {
	if cut.Rank == card.Jack {
		return HisHeelsPoints
	}
	return 0
}
