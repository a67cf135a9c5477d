package automatic

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/domino14/muggins/discard"
	"github.com/domino14/muggins/equity"
	"github.com/domino14/muggins/stats"
)

// NamedPolicy is a discard policy with a name for reports.
type NamedPolicy struct {
	Name   string
	Policy discard.Policy
}

type CompareOptions struct {
	// Trials is the number of deals for each of dealer and non-dealer.
	Trials      int
	Quality     float64
	CribQuality float64
	Workers     int
	Seed        *[32]byte
}

// PolicyReport summarises how a policy's throws scored.
type PolicyReport struct {
	Name          string  `yaml:"name"`
	Mean          float64 `yaml:"mean"`
	Stdev         float64 `yaml:"stdev"`
	StandardError float64 `yaml:"standard_error"`
	CI95          float64 `yaml:"ci95"`
	DealerMean    float64 `yaml:"dealer_mean"`
	PoneMean      float64 `yaml:"pone_mean"`
}

type Comparison struct {
	Trials   int            `yaml:"trials"`
	Policies []PolicyReport `yaml:"policies"`
}

func (c *Comparison) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}

// policyStats are one worker's numbers for one policy.
type policyStats struct {
	all, dealer, pone stats.Statistic
}

// ComparePolicies deals the same hands to every policy and values what
// each keeps: the kept hand's estimate plus the crib's estimate when
// dealing, minus it otherwise.
func ComparePolicies(ctx context.Context, predictor equity.Predictor, policies []NamedPolicy, opts CompareOptions) (*Comparison, error) {
	if opts.Trials <= 0 {
		return nil, errors.New("trials must be positive")
	}
	if len(policies) == 0 {
		return nil, errors.New("no policies to compare")
	}
	logger := zerolog.Ctx(ctx)
	workers := max(opts.Workers, 1)
	total := 2 * opts.Trials
	perWorker := make([][]policyStats, workers)

	g, gctx := errgroup.WithContext(ctx)
	for t := 0; t < workers; t++ {
		t := t
		perWorker[t] = make([]policyStats, len(policies))
		g.Go(func() error {
			for i := t; i < total; i += workers {
				job := dealJob{index: i, isDealer: i >= opts.Trials}
				if err := playDeal(gctx, predictor, policies, job, opts, perWorker[t]); err != nil {
					return err
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	cmp := &Comparison{Trials: opts.Trials}
	for p, np := range policies {
		var merged policyStats
		for t := range perWorker {
			merged.all.Merge(&perWorker[t][p].all)
			merged.dealer.Merge(&perWorker[t][p].dealer)
			merged.pone.Merge(&perWorker[t][p].pone)
		}
		cmp.Policies = append(cmp.Policies, PolicyReport{
			Name:          np.Name,
			Mean:          merged.all.Mean(),
			Stdev:         merged.all.Stdev(),
			StandardError: merged.all.StandardError(),
			CI95:          stats.HalfWidth(&merged.all, 95),
			DealerMean:    merged.dealer.Mean(),
			PoneMean:      merged.pone.Mean(),
		})
		logger.Info().Str("policy", np.Name).Float64("mean", merged.all.Mean()).
			Int("deals", merged.all.Iterations()).Msg("policy-compared")
	}
	return cmp, nil
}

func playDeal(ctx context.Context, predictor equity.Predictor, policies []NamedPolicy,
	job dealJob, opts CompareOptions, out []policyStats) error {

	d := newDeck(opts.Seed, job.index)
	d.Shuffle()
	dealt, err := d.Deal(discard.DealtSize)
	if err != nil {
		return err
	}
	enc, err := discard.Encode(dealt)
	if err != nil {
		return err
	}
	pool := d.Remaining()
	for p, np := range policies {
		throw, err := np.Policy.Throw(ctx, job.isDealer, enc)
		if err != nil {
			return fmt.Errorf("policy %s: %w", np.Name, err)
		}
		keep, thrown, err := discard.Apply(dealt, throw)
		if err != nil {
			return fmt.Errorf("policy %s: %w", np.Name, err)
		}
		handEV, err := predictor.Predict(ctx, keep, pool, opts.Quality)
		if err != nil {
			return err
		}
		cribEV, err := predictor.PredictCrib(ctx, thrown, pool, opts.CribQuality)
		if err != nil {
			return err
		}
		if job.isDealer {
			v := handEV + cribEV
			out[p].all.Push(v)
			out[p].dealer.Push(v)
		} else {
			v := handEV - cribEV
			out[p].all.Push(v)
			out[p].pone.Push(v)
		}
	}
	return nil
}
