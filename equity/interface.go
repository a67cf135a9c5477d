package equity

import (
	"context"

	"github.com/domino14/muggins/card"
)

// Predictor estimates the average show of a partially known hand, given
// the cards it could still be completed with and cut from.
type Predictor interface {
	// Predict values a hand the player keeps.
	Predict(ctx context.Context, partial, pool []card.Card, quality float64) (float64, error)
	// PredictCrib values cards thrown to the crib, which uses the crib
	// flush rule.
	PredictCrib(ctx context.Context, partial, pool []card.Card, quality float64) (float64, error)
}
