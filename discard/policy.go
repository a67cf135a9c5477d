// Package discard decides which two of the six dealt cards go to the crib.
// Policies speak the integer card encoding so that outside deciders, such
// as a trained classifier, can be swapped in.
package discard

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"lukechampine.com/frand"

	"github.com/domino14/muggins/card"
)

const (
	DealtSize = 6
	ThrowSize = 2
)

var ErrBadThrow = errors.New("bad throw")

// Policy picks ThrowSize indices into a dealt hand to send to the crib.
type Policy interface {
	Throw(ctx context.Context, isDealer bool, cards [DealtSize]int) ([]int, error)
}

// Decode turns an encoded deal back into cards.
func Decode(cards [DealtSize]int) ([]card.Card, error) {
	out := make([]card.Card, DealtSize)
	for i, n := range cards {
		c, err := card.Decode(n)
		if err != nil {
			return nil, err
		}
		out[i] = c
	}
	return out, nil
}

// Encode is the inverse of Decode.
func Encode(cards []card.Card) ([DealtSize]int, error) {
	var out [DealtSize]int
	if len(cards) != DealtSize {
		return out, fmt.Errorf("need %d cards, got %d", DealtSize, len(cards))
	}
	for i, c := range cards {
		out[i] = card.Encode(c)
	}
	return out, nil
}

// Apply splits dealt into the cards kept and the cards thrown.
func Apply(dealt []card.Card, throw []int) (keep, thrown []card.Card, err error) {
	if len(throw) != ThrowSize {
		return nil, nil, fmt.Errorf("%w: %d indices", ErrBadThrow, len(throw))
	}
	seen := make([]bool, len(dealt))
	for _, i := range throw {
		if i < 0 || i >= len(dealt) || seen[i] {
			return nil, nil, fmt.Errorf("%w: index %d", ErrBadThrow, i)
		}
		seen[i] = true
	}
	for i, c := range dealt {
		if seen[i] {
			thrown = append(thrown, c)
		} else {
			keep = append(keep, c)
		}
	}
	return keep, thrown, nil
}

// RandomPolicy throws two distinct cards at random. It is the baseline
// other policies are measured against.
type RandomPolicy struct {
	rand *randomizer
}

func NewRandomPolicy() *RandomPolicy {
	return &RandomPolicy{rand: newRandomizer()}
}

// NewSeededRandomPolicy returns a RandomPolicy whose throw for a given deal
// is fixed by seed.
func NewSeededRandomPolicy(seed [32]byte) *RandomPolicy {
	return &RandomPolicy{rand: newSeededRandomizer(seed)}
}

func (p *RandomPolicy) Throw(ctx context.Context, isDealer bool, cards [DealtSize]int) ([]int, error) {
	var throw []int
	p.rand.with(isDealer, cards, func(r *frand.RNG) {
		throw = r.Perm(DealtSize)[:ThrowSize]
	})
	slices.Sort(throw)
	return throw, nil
}
