// Package scoring counts a cribbage hand: four held cards plus the cut.
package scoring

import (
	"errors"
	"fmt"

	"github.com/domino14/muggins/card"
)

// HandSize is the number of held cards a show is scored on.
const HandSize = 4

var ErrHandSize = errors.New("hand must have exactly 4 cards")

// pairPoints is indexed by how many cards share a rank.
var pairPoints = [5]int{0, 0, 2, 6, 12}

// Breakdown is a scored show, rule by rule.
type Breakdown struct {
	Fifteens int `json:"fifteens" yaml:"fifteens"`
	Pairs    int `json:"pairs" yaml:"pairs"`
	Runs     int `json:"runs" yaml:"runs"`
	Flush    int `json:"flush" yaml:"flush"`
	Knobs    int `json:"knobs" yaml:"knobs"`
	Total    int `json:"total" yaml:"total"`
}

func (b Breakdown) String() string {
	return fmt.Sprintf("fifteens %d, pairs %d, runs %d, flush %d, knobs %d: total %d",
		b.Fifteens, b.Pairs, b.Runs, b.Flush, b.Knobs, b.Total)
}

// Scorer scores shows under a particular value table. The zero value is
// not useful; use NewScorer or Default. A Scorer has no mutable state and
// can be shared across goroutines.
type Scorer struct {
	values card.ValueTable
}

func NewScorer(values card.ValueTable) *Scorer {
	return &Scorer{values: values}
}

// Default scores with face cards worth ten.
var Default = NewScorer(card.DefaultValues)

func (s *Scorer) Values() card.ValueTable {
	return s.values
}

// Score returns the points for hand plus cut.
func (s *Scorer) Score(hand []card.Card, cut card.Card) (int, error) {
	if len(hand) != HandSize {
		return 0, fmt.Errorf("%w: got %d", ErrHandSize, len(hand))
	}
	return s.score(hand, cut, false), nil
}

// ScoreCrib is Score with the crib's flush rule: all five cards must share
// a suit, and then the flush is worth five.
func (s *Scorer) ScoreCrib(hand []card.Card, cut card.Card) (int, error) {
	if len(hand) != HandSize {
		return 0, fmt.Errorf("%w: got %d", ErrHandSize, len(hand))
	}
	return s.score(hand, cut, true), nil
}

func (s *Scorer) ScoreBreakdown(hand []card.Card, cut card.Card) (Breakdown, error) {
	return s.breakdown(hand, cut, false)
}

func (s *Scorer) ScoreCribBreakdown(hand []card.Card, cut card.Card) (Breakdown, error) {
	return s.breakdown(hand, cut, true)
}

func (s *Scorer) breakdown(hand []card.Card, cut card.Card, crib bool) (Breakdown, error) {
	if len(hand) != HandSize {
		return Breakdown{}, fmt.Errorf("%w: got %d", ErrHandSize, len(hand))
	}
	var counts [card.NumRanks]int
	var vals [HandSize + 1]int
	fill(hand, cut, s.values, &counts, &vals)
	b := Breakdown{
		Fifteens: fifteens(&vals),
		Pairs:    pairs(&counts),
		Runs:     runs(&counts),
		Flush:    flush(hand, cut, crib),
		Knobs:    knobs(hand, cut),
	}
	b.Total = b.Fifteens + b.Pairs + b.Runs + b.Flush + b.Knobs
	return b, nil
}

// score assumes len(hand) == HandSize. It is the estimator's inner loop and
// does not allocate.
func (s *Scorer) score(hand []card.Card, cut card.Card, crib bool) int {
	var counts [card.NumRanks]int
	var vals [HandSize + 1]int
	fill(hand, cut, s.values, &counts, &vals)
	return fifteens(&vals) + pairs(&counts) + runs(&counts) +
		flush(hand, cut, crib) + knobs(hand, cut)
}

func fill(hand []card.Card, cut card.Card, t card.ValueTable,
	counts *[card.NumRanks]int, vals *[HandSize + 1]int) {

	for i, c := range hand {
		counts[c.Rank]++
		vals[i] = c.Value(t)
	}
	counts[cut.Rank]++
	vals[HandSize] = cut.Value(t)
}

// fifteens awards 2 for every subset of two or more cards summing to 15.
func fifteens(vals *[HandSize + 1]int) int {
	pts := 0
	for mask := 3; mask < 1<<len(vals); mask++ {
		if mask&(mask-1) == 0 {
			// single card
			continue
		}
		sum := 0
		for i := 0; i < len(vals) && sum <= 15; i++ {
			if mask&(1<<i) != 0 {
				sum += vals[i]
			}
		}
		if sum == 15 {
			pts += 2
		}
	}
	return pts
}

func pairs(counts *[card.NumRanks]int) int {
	pts := 0
	for _, ct := range counts {
		if ct < len(pairPoints) {
			pts += pairPoints[ct]
		} else {
			pts += ct * (ct - 1)
		}
	}
	return pts
}

// runs scans the ranks in order. A run's multiplier is the product of the
// counts of its ranks, so 5-5-6-7 is two runs of three.
func runs(counts *[card.NumRanks]int) int {
	pts := 0
	length, mult := 0, 1
	for _, ct := range counts {
		if ct == 0 {
			if length >= 3 {
				pts += length * mult
			}
			length, mult = 0, 1
			continue
		}
		length++
		mult *= ct
	}
	if length >= 3 {
		pts += length * mult
	}
	return pts
}

func flush(hand []card.Card, cut card.Card, crib bool) int {
	suit := hand[0].Suit
	for _, c := range hand[1:] {
		if c.Suit != suit {
			return 0
		}
	}
	if cut.Suit == suit {
		return HandSize + 1
	}
	if crib {
		return 0
	}
	return HandSize
}

func knobs(hand []card.Card, cut card.Card) int {
	for _, c := range hand {
		if c.Rank == card.Jack && c.Suit == cut.Suit {
			return 1
		}
	}
	return 0
}

// Score scores with the Default scorer.
func Score(hand []card.Card, cut card.Card) (int, error) {
	return Default.Score(hand, cut)
}

func ScoreCrib(hand []card.Card, cut card.Card) (int, error) {
	return Default.ScoreCrib(hand, cut)
}

func ScoreBreakdown(hand []card.Card, cut card.Card) (Breakdown, error) {
	return Default.ScoreBreakdown(hand, cut)
}
