// Package equity estimates the expected value of an incomplete cribbage
// hand by scoring every way the hand could be completed and cut.
package equity

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"runtime"

	"github.com/cespare/xxhash"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/domino14/muggins/cache"
	"github.com/domino14/muggins/card"
	"github.com/domino14/muggins/combos"
	"github.com/domino14/muggins/scoring"
	"github.com/domino14/muggins/stats"
)

var (
	ErrHandTooLarge  = errors.New("partial hand has more than 4 cards")
	ErrBadQuality    = errors.New("quality must be in (0, 1]")
	ErrPoolExhausted = errors.New("pool too small to complete the hand and cut")
)

// ctx is checked once per this many completions.
const cancelCheckInterval = 256

// Estimator averages scores over completions of a partial hand. It holds no
// per-call state and may be used from several goroutines.
type Estimator struct {
	scorer  *scoring.Scorer
	threads int
	cache   *cache.Cache
}

type Option func(*Estimator)

// WithThreads sets how many goroutines share an enumeration. Values below
// one mean one.
func WithThreads(n int) Option {
	return func(e *Estimator) {
		e.threads = max(n, 1)
	}
}

// WithValues scores with a non-default value table.
func WithValues(t card.ValueTable) Option {
	return func(e *Estimator) {
		e.scorer = scoring.NewScorer(t)
	}
}

// WithCache memoises Predict and PredictCrib results.
func WithCache(c *cache.Cache) Option {
	return func(e *Estimator) {
		e.cache = c
	}
}

func NewEstimator(opts ...Option) *Estimator {
	e := &Estimator{
		scorer:  scoring.Default,
		threads: runtime.NumCPU(),
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

func (e *Estimator) Threads() int {
	return e.threads
}

// Result summarises every show scored for one estimate.
type Result struct {
	Mean  float64 `yaml:"mean"`
	Stdev float64 `yaml:"stdev"`
	Count int     `yaml:"count"`
	Min   int     `yaml:"min"`
	Max   int     `yaml:"max"`
	// Distribution maps a show's points to how many completions scored it.
	Distribution map[int]int `yaml:"distribution"`
	// Stat is the merged running statistic, for confidence intervals.
	Stat stats.Statistic `yaml:"-"`
}

// Predict returns the mean score of partial completed to four cards and
// cut, over the first ⌈len(pool)·quality⌉ cards of pool. The caller
// controls which cards are used by ordering pool.
func (e *Estimator) Predict(ctx context.Context, partial, pool []card.Card, quality float64) (float64, error) {
	return e.cachedMean(ctx, partial, pool, quality, false)
}

// PredictCrib is Predict scored with the crib flush rule.
func (e *Estimator) PredictCrib(ctx context.Context, partial, pool []card.Card, quality float64) (float64, error) {
	return e.cachedMean(ctx, partial, pool, quality, true)
}

// Evaluate performs the same enumeration as Predict and also reports the
// spread of the scores.
func (e *Estimator) Evaluate(ctx context.Context, partial, pool []card.Card, quality float64) (*Result, error) {
	tallies, err := e.enumerate(ctx, partial, pool, quality, false, true)
	if err != nil {
		return nil, err
	}
	total := reduce(tallies)
	res := &Result{
		Mean:         float64(total.sum) / float64(total.count),
		Stdev:        total.stat.Stdev(),
		Count:        int(total.count),
		Min:          int(total.stat.Min()),
		Max:          int(total.stat.Max()),
		Distribution: make(map[int]int),
		Stat:         total.stat,
	}
	for pts, ct := range total.dist {
		if ct > 0 {
			res.Distribution[pts] = ct
		}
	}
	return res, nil
}

func (e *Estimator) cachedMean(ctx context.Context, partial, pool []card.Card, quality float64, crib bool) (float64, error) {
	load := func() (float64, error) {
		tallies, err := e.enumerate(ctx, partial, pool, quality, crib, false)
		if err != nil {
			return 0, err
		}
		total := reduce(tallies)
		return float64(total.sum) / float64(total.count), nil
	}
	if e.cache == nil {
		return load()
	}
	if err := validate(partial, quality); err != nil {
		return 0, err
	}
	return e.cache.Get(cacheKey(e.scorer.Values(), partial, truncate(pool, quality), crib), load)
}

// tally is one worker's share of the enumeration.
type tally struct {
	sum   int64
	count int64
	dist  []int
	stat  stats.Statistic
}

func (t *tally) add(pts int, full bool) {
	t.sum += int64(pts)
	t.count++
	if !full {
		return
	}
	if pts >= len(t.dist) {
		t.dist = append(t.dist, make([]int, pts+1-len(t.dist))...)
	}
	t.dist[pts]++
	t.stat.Push(float64(pts))
}

func reduce(tallies []tally) tally {
	var total tally
	for i := range tallies {
		t := &tallies[i]
		total.sum += t.sum
		total.count += t.count
		if len(t.dist) > len(total.dist) {
			total.dist = append(total.dist, make([]int, len(t.dist)-len(total.dist))...)
		}
		for pts, ct := range t.dist {
			total.dist[pts] += ct
		}
		total.stat.Merge(&t.stat)
	}
	return total
}

func validate(partial []card.Card, quality float64) error {
	if len(partial) > scoring.HandSize {
		return fmt.Errorf("%w: got %d", ErrHandTooLarge, len(partial))
	}
	if math.IsNaN(quality) || quality <= 0 || quality > 1 {
		return fmt.Errorf("%w: got %v", ErrBadQuality, quality)
	}
	return nil
}

func truncate(pool []card.Card, quality float64) []card.Card {
	m := int(math.Ceil(float64(len(pool)) * quality))
	return pool[:min(m, len(pool))]
}

// enumerate scores every completion/cut pair. Each worker takes a
// contiguous range of the enumeration and keeps its own tally; the tallies
// are summed afterwards.
func (e *Estimator) enumerate(ctx context.Context, partial, pool []card.Card,
	quality float64, crib, full bool) ([]tally, error) {

	if err := validate(partial, quality); err != nil {
		return nil, err
	}
	pool = truncate(pool, quality)
	k := scoring.HandSize - len(partial)
	m := len(pool)
	if m < k+1 {
		return nil, fmt.Errorf("%w: need %d cards, have %d", ErrPoolExhausted, k+1, m)
	}

	completions := combos.Count(m, k)
	threads := min(e.threads, completions)
	zerolog.Ctx(ctx).Debug().Int("need", k).Int("pool", m).Int("completions", completions).
		Int("evaluations", completions*(m-k)).Int("threads", threads).Bool("crib", crib).
		Msg("enumerating")

	score := e.scorer.Score
	if crib {
		score = e.scorer.ScoreCrib
	}

	tallies := make([]tally, threads)
	g, ctx := errgroup.WithContext(ctx)
	for t := 0; t < threads; t++ {
		t := t
		start := t * completions / threads
		end := (t + 1) * completions / threads
		g.Go(func() error {
			it, err := combos.NewRange(m, k, start, end-start)
			if err != nil {
				return err
			}
			h := make([]card.Card, scoring.HandSize)
			copy(h, partial)
			cuts := make([]int, 0, m)
			var tl tally
			for done := 0; it.Next(); done++ {
				if done%cancelCheckInterval == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				chosen := it.Indices()
				for i, c := range chosen {
					h[len(partial)+i] = pool[c]
				}
				cuts = combos.Complement(m, chosen, cuts)
				for _, c := range cuts {
					pts, err := score(h, pool[c])
					if err != nil {
						return err
					}
					tl.add(pts, full)
				}
			}
			tallies[t] = tl
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return tallies, nil
}

// cacheKey identifies an estimate. It covers the value table, so one cache
// can serve estimators that count face cards differently. The partial hand
// is order-free; the truncated pool is hashed in the order given, since that
// order decides which cards take part.
func cacheKey(values card.ValueTable, partial, pool []card.Card, crib bool) uint64 {
	sorted := append([]card.Card(nil), partial...)
	card.Sort(sorted)
	buf := make([]byte, 0, len(values)+len(sorted)+len(pool)+4)
	for _, v := range values {
		buf = append(buf, byte(v))
	}
	if crib {
		buf = append(buf, 1)
	} else {
		buf = append(buf, 0)
	}
	for _, c := range sorted {
		buf = append(buf, byte(c.Index()))
	}
	buf = append(buf, 0xff)
	for _, c := range pool {
		buf = append(buf, byte(c.Index()))
	}
	buf = binary.LittleEndian.AppendUint16(buf, uint16(len(pool)))
	return xxhash.Sum64(buf)
}
