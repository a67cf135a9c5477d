// Package pegging keeps the running pile played during the pegging phase
// and awards points as each card goes down.
package pegging

import (
	"errors"
	"fmt"

	"github.com/domino14/muggins/card"
)

// Limit is the highest count a pile can reach.
const Limit = 31

var ErrOverLimit = errors.New("card would take the count past 31")

// points for 2, 3 and 4 of a kind on top of the pile
var pairPoints = [5]int{0, 0, 2, 6, 12}

// Pile is the sequence of cards played since the last reset.
type Pile struct {
	cards  []card.Card
	count  int
	values card.ValueTable
}

func NewPile() *Pile {
	return NewPileWithValues(card.DefaultValues)
}

func NewPileWithValues(t card.ValueTable) *Pile {
	return &Pile{values: t, cards: make([]card.Card, 0, 8)}
}

// Add plays c on the pile and returns the points it scored. If c would
// take the count past Limit the pile is unchanged.
func (p *Pile) Add(c card.Card) (int, error) {
	v := c.Value(p.values)
	if p.count+v > Limit {
		return 0, fmt.Errorf("%w: count %d, %v is worth %d", ErrOverLimit, p.count, c, v)
	}
	p.cards = append(p.cards, c)
	p.count += v
	return p.scored(), nil
}

// scored is what the top card earned.
func (p *Pile) scored() int {
	pts := 0
	if p.count == 15 || p.count == Limit {
		pts += 2
	}
	pts += pairPoints[p.topKind()]
	pts += p.topRun()
	return pts
}

// topKind is how many cards of the top card's rank sit together on top.
func (p *Pile) topKind() int {
	n := len(p.cards)
	top := p.cards[n-1].Rank
	ct := 1
	for i := n - 2; i >= 0 && p.cards[i].Rank == top && ct < 4; i-- {
		ct++
	}
	return ct
}

// topRun is the length of the longest suffix, of three cards or more, whose
// ranks form a sequence in any order. 0 if there is none.
func (p *Pile) topRun() int {
	for n := len(p.cards); n >= 3; n-- {
		if isRun(p.cards[len(p.cards)-n:]) {
			return n
		}
	}
	return 0
}

// isRun reports whether cards have distinct ranks with no gap between the
// lowest and highest.
func isRun(cards []card.Card) bool {
	if len(cards) > card.NumRanks {
		return false
	}
	var counts [card.NumRanks]int
	for _, c := range cards {
		counts[c.Rank]++
		if counts[c.Rank] > 1 {
			return false
		}
	}
	length, started := 0, false
	for _, ct := range counts {
		if ct == 0 {
			if started {
				break
			}
			continue
		}
		started = true
		length++
	}
	return length == len(cards)
}

// Count is the running total.
func (p *Pile) Count() int {
	return p.count
}

// MinRequired is how much room is left under the limit.
func (p *Pile) MinRequired() int {
	return Limit - p.count
}

// CanPlay reports whether c fits on the pile.
func (p *Pile) CanPlay(c card.Card) bool {
	return p.count+c.Value(p.values) <= Limit
}

func (p *Pile) Reset() {
	p.cards = p.cards[:0]
	p.count = 0
}

func (p *Pile) Cards() []card.Card {
	return append([]card.Card(nil), p.cards...)
}

func (p *Pile) Len() int {
	return len(p.cards)
}

func (p *Pile) String() string {
	return fmt.Sprintf("[%s] (%d)", card.Join(p.cards), p.count)
}
