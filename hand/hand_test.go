package hand

import (
	"errors"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/muggins/card"
)

func TestAddRemove(t *testing.T) {
	is := is.New(t)
	h, err := New(card.MustParseList("5S 5H JD"))
	is.NoErr(err)
	is.NoErr(h.Add(card.New(card.Five, card.Clubs)))
	is.Equal(h.Len(), 4)
	is.NoErr(h.Remove(card.New(card.Five, card.Hearts)))
	is.Equal(card.Join(h.Cards()), "5S JD 5C")
	is.True(!h.Contains(card.New(card.Five, card.Hearts)))
}

func TestRemoveMissingDoesNotMutate(t *testing.T) {
	is := is.New(t)
	h, err := New(card.MustParseList("AS 2S 3S"))
	is.NoErr(err)
	err = h.Remove(card.New(card.King, card.Hearts))
	is.True(errors.Is(err, ErrNotFound))
	is.Equal(card.Join(h.Cards()), "AS 2S 3S")
}

func TestHandFull(t *testing.T) {
	is := is.New(t)
	h, err := New(card.MustParseList("AS 2S 3S 4S 5S 6S"))
	is.NoErr(err)
	is.True(errors.Is(h.Add(card.New(card.Seven, card.Spades)), ErrHandFull))
	_, err = New(card.MustParseList("AS 2S 3S 4S 5S 6S 7S"))
	is.True(errors.Is(err, ErrHandFull))
}

func TestAtIsOneBased(t *testing.T) {
	is := is.New(t)
	h, err := New(card.MustParseList("9C KD"))
	is.NoErr(err)
	c, err := h.At(1)
	is.NoErr(err)
	is.Equal(c, card.New(card.Nine, card.Clubs))
	_, err = h.At(0)
	is.True(errors.Is(err, ErrBadIndex))
	_, err = h.At(3)
	is.True(errors.Is(err, ErrBadIndex))
	is.Equal(h.MinimumValue(card.DefaultValues), 9)
	is.Equal(h.String(), "1. Nine of Clubs\n2. King of Diamonds")
}

func TestCardsIsACopy(t *testing.T) {
	is := is.New(t)
	h, err := New(card.MustParseList("9C KD"))
	is.NoErr(err)
	cs := h.Cards()
	cs[0] = card.New(card.Ace, card.Spades)
	c, _ := h.At(1)
	is.Equal(c, card.New(card.Nine, card.Clubs))
}
