package game

import (
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/muggins/card"
)

func TestCutPoints(t *testing.T) {
	is := is.New(t)
	for _, s := range []card.Suit{card.Spades, card.Hearts, card.Clubs, card.Diamonds} {
		is.Equal(CutPoints(card.New(card.Jack, s)), HisHeelsPoints)
		is.Equal(CutPoints(card.New(card.Queen, s)), 0)
		is.Equal(CutPoints(card.New(card.Ace, s)), 0)
	}
}

func TestDefaultRules(t *testing.T) {
	is := is.New(t)
	r := DefaultRules()
	is.Equal(r.WinThreshold, 121)
	is.Equal(r.Values, card.DefaultValues)
}
