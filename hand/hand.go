// Package hand is a player's holding of up to six cards.
package hand

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/domino14/muggins/card"
)

// MaxSize is the most cards a hand holds, right after the deal.
const MaxSize = 6

var (
	ErrNotFound = errors.New("card not in hand")
	ErrHandFull = errors.New("hand is full")
	ErrBadIndex = errors.New("hand index out of range")
)

// Hand is an ordered collection of cards owned by one player.
type Hand struct {
	cards []card.Card
}

// New creates a hand holding a copy of cards.
func New(cards []card.Card) (*Hand, error) {
	if len(cards) > MaxSize {
		return nil, fmt.Errorf("%w: %d cards", ErrHandFull, len(cards))
	}
	h := &Hand{cards: make([]card.Card, len(cards), MaxSize)}
	copy(h.cards, cards)
	return h, nil
}

func (h *Hand) Add(c card.Card) error {
	if len(h.cards) >= MaxSize {
		return ErrHandFull
	}
	h.cards = append(h.cards, c)
	return nil
}

// Remove takes the first copy of c out of the hand. The hand is not
// modified if c is not held.
func (h *Hand) Remove(c card.Card) error {
	idx := lo.IndexOf(h.cards, c)
	if idx < 0 {
		return fmt.Errorf("%w: %v", ErrNotFound, c)
	}
	h.cards = append(h.cards[:idx], h.cards[idx+1:]...)
	return nil
}

// At returns the card at 1-based position i, the way players number them.
func (h *Hand) At(i int) (card.Card, error) {
	if i < 1 || i > len(h.cards) {
		return card.Card{}, fmt.Errorf("%w: %d", ErrBadIndex, i)
	}
	return h.cards[i-1], nil
}

func (h *Hand) Contains(c card.Card) bool {
	return lo.Contains(h.cards, c)
}

// Cards returns a copy of the held cards.
func (h *Hand) Cards() []card.Card {
	return append([]card.Card(nil), h.cards...)
}

func (h *Hand) Len() int {
	return len(h.cards)
}

func (h *Hand) IsEmpty() bool {
	return len(h.cards) == 0
}

// MinimumValue is the lowest counting value held; a player whose minimum
// does not fit under the pile limit has to say go.
func (h *Hand) MinimumValue(t card.ValueTable) int {
	return card.Min(h.cards, t)
}

func (h *Hand) String() string {
	var sb strings.Builder
	for i, c := range h.cards {
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "%d. %s", i+1, c.LongString())
	}
	return sb.String()
}
