// Package deck holds a shuffled 52-card deck that is dealt from the top
// without replacement.
package deck

import (
	"errors"
	"fmt"

	"lukechampine.com/frand"

	"github.com/domino14/muggins/card"
)

var ErrOutOfCards = errors.New("out of cards")

// A Deck is a full set of 52 cards plus a cursor. Cards before the cursor
// have been dealt; the rest remain. A Deck belongs to one caller at a time.
type Deck struct {
	cards      []card.Card
	top        int
	randomizer *frand.RNG
}

// NewDeck returns an unshuffled deck using the process-wide random source.
func NewDeck() *Deck {
	return &Deck{cards: card.All(), randomizer: frand.New()}
}

// NewSeededDeck returns an unshuffled deck whose shuffles are reproducible
// for a given seed.
func NewSeededDeck(seed [32]byte) *Deck {
	return &Deck{cards: card.All(), randomizer: frand.NewCustom(seed[:], 1024, 12)}
}

// Shuffle puts every card back and shuffles the whole deck.
func (d *Deck) Shuffle() {
	d.top = 0
	d.randomizer.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// Draw deals the next card.
func (d *Deck) Draw() (card.Card, error) {
	if d.top >= len(d.cards) {
		return card.Card{}, ErrOutOfCards
	}
	c := d.cards[d.top]
	d.top++
	return c, nil
}

// Deal draws n cards. If fewer than n remain nothing is drawn.
func (d *Deck) Deal(n int) ([]card.Card, error) {
	if n < 0 {
		return nil, fmt.Errorf("cannot deal %d cards", n)
	}
	if n > d.CardsRemaining() {
		return nil, fmt.Errorf("%w: tried to deal %d, deck has %d",
			ErrOutOfCards, n, d.CardsRemaining())
	}
	dealt := make([]card.Card, n)
	copy(dealt, d.cards[d.top:d.top+n])
	d.top += n
	return dealt, nil
}

// Remaining returns a copy of the cards not dealt yet, in deck order.
func (d *Deck) Remaining() []card.Card {
	rem := make([]card.Card, len(d.cards)-d.top)
	copy(rem, d.cards[d.top:])
	return rem
}

// Dealt returns a copy of the cards dealt so far, in deal order.
func (d *Deck) Dealt() []card.Card {
	dealt := make([]card.Card, d.top)
	copy(dealt, d.cards[:d.top])
	return dealt
}

func (d *Deck) CardsRemaining() int {
	return len(d.cards) - d.top
}
