package discard

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"lukechampine.com/frand"

	"github.com/domino14/muggins/card"
	"github.com/domino14/muggins/combos"
	"github.com/domino14/muggins/equity"
)

// Choice is one way of splitting a deal, with its estimated worth.
type Choice struct {
	Throw  [ThrowSize]int
	Keep   []card.Card
	Thrown []card.Card
	HandEV float64
	CribEV float64
	// Value is HandEV plus CribEV for the dealer, minus it otherwise.
	Value float64
}

// ExpectedValuePolicy keeps the four cards whose estimated show, plus or
// minus the estimated crib, is highest.
type ExpectedValuePolicy struct {
	predictor   equity.Predictor
	handQuality float64
	cribQuality float64
	rand        *randomizer
}

func NewExpectedValuePolicy(p equity.Predictor, handQuality, cribQuality float64) *ExpectedValuePolicy {
	return &ExpectedValuePolicy{predictor: p, handQuality: handQuality, cribQuality: cribQuality,
		rand: newRandomizer()}
}

// NewSeededExpectedValuePolicy is NewExpectedValuePolicy with the unseen
// pool for each deal shuffled from seed, so Throw is repeatable.
func NewSeededExpectedValuePolicy(p equity.Predictor, handQuality, cribQuality float64, seed [32]byte) *ExpectedValuePolicy {
	return &ExpectedValuePolicy{predictor: p, handQuality: handQuality, cribQuality: cribQuality,
		rand: newSeededRandomizer(seed)}
}

// Throw values the deal against every unseen card, shuffled so the quality
// cut-off does not favour any suit.
func (p *ExpectedValuePolicy) Throw(ctx context.Context, isDealer bool, cards [DealtSize]int) ([]int, error) {
	dealt, err := Decode(cards)
	if err != nil {
		return nil, err
	}
	pool := lo.Filter(card.All(), func(c card.Card, _ int) bool {
		return !lo.Contains(dealt, c)
	})
	p.rand.with(isDealer, cards, func(r *frand.RNG) {
		r.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	})
	best, err := p.Best(ctx, isDealer, dealt, pool)
	if err != nil {
		return nil, err
	}
	return best.Throw[:], nil
}

// Best tries all fifteen throws with an explicit pool of unseen cards.
// Ties go to the throw enumerated first.
func (p *ExpectedValuePolicy) Best(ctx context.Context, isDealer bool, dealt, pool []card.Card) (*Choice, error) {
	choices, err := p.All(ctx, isDealer, dealt, pool)
	if err != nil {
		return nil, err
	}
	best := choices[0]
	for _, c := range choices[1:] {
		if c.Value > best.Value {
			best = c
		}
	}
	zerolog.Ctx(ctx).Debug().Str("keep", card.Join(best.Keep)).Str("throw", card.Join(best.Thrown)).
		Float64("value", best.Value).Bool("dealer", isDealer).Msg("best-throw")
	return best, nil
}

// All values every throw, in enumeration order.
func (p *ExpectedValuePolicy) All(ctx context.Context, isDealer bool, dealt, pool []card.Card) ([]*Choice, error) {
	if len(dealt) != DealtSize {
		return nil, fmt.Errorf("need %d cards, got %d", DealtSize, len(dealt))
	}
	it, err := combos.New(DealtSize, ThrowSize)
	if err != nil {
		return nil, err
	}
	choices := make([]*Choice, 0, it.Len())
	for it.Next() {
		idx := it.Indices()
		keep, thrown, err := Apply(dealt, idx)
		if err != nil {
			return nil, err
		}
		handEV, err := p.predictor.Predict(ctx, keep, pool, p.handQuality)
		if err != nil {
			return nil, fmt.Errorf("valuing keep %s: %w", card.Join(keep), err)
		}
		cribEV, err := p.predictor.PredictCrib(ctx, thrown, pool, p.cribQuality)
		if err != nil {
			return nil, fmt.Errorf("valuing throw %s: %w", card.Join(thrown), err)
		}
		c := &Choice{Keep: keep, Thrown: thrown, HandEV: handEV, CribEV: cribEV}
		copy(c.Throw[:], idx)
		if isDealer {
			c.Value = handEV + cribEV
		} else {
			c.Value = handEV - cribEV
		}
		choices = append(choices, c)
	}
	return choices, nil
}
