package equity

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/matryer/is"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"

	"github.com/domino14/muggins/cache"
	"github.com/domino14/muggins/card"
	"github.com/domino14/muggins/scoring"
)

// unseen returns every card not in held, in encoding order.
func unseen(held []card.Card) []card.Card {
	return lo.Filter(card.All(), func(c card.Card, _ int) bool {
		return !lo.Contains(held, c)
	})
}

func TestFullHandIsMeanOverCuts(t *testing.T) {
	is := is.New(t)
	hand := card.MustParseList("5S 5H 5C JD")
	pool := unseen(hand)
	sum := 0
	for _, c := range pool {
		s, err := scoring.Score(hand, c)
		is.NoErr(err)
		sum += s
	}
	want := float64(sum) / float64(len(pool))

	ev, err := NewEstimator(WithThreads(4)).Predict(context.Background(), hand, pool, 1.0)
	is.NoErr(err)
	is.Equal(ev, want)
}

func TestMatchesBruteForce(t *testing.T) {
	is := is.New(t)
	partial := card.MustParseList("5S 6H")
	pool := card.MustParseList("4D 7C 5D JS QH 9S 2C AH 8D")
	sum, count := 0, 0
	for i := range pool {
		for j := i + 1; j < len(pool); j++ {
			for c := range pool {
				if c == i || c == j {
					continue
				}
				s, err := scoring.Score([]card.Card{partial[0], partial[1], pool[i], pool[j]}, pool[c])
				is.NoErr(err)
				sum += s
				count++
			}
		}
	}
	is.Equal(count, 36*7)
	ev, err := NewEstimator(WithThreads(3)).Predict(context.Background(), partial, pool, 1.0)
	is.NoErr(err)
	is.Equal(ev, float64(sum)/float64(count))
}

func TestThreadCountDoesNotChangeResult(t *testing.T) {
	is := is.New(t)
	partial := card.MustParseList("3S 4H")
	pool := unseen(partial)[:20]
	ctx := context.Background()
	want, err := NewEstimator(WithThreads(1)).Predict(ctx, partial, pool, 1.0)
	is.NoErr(err)
	for _, threads := range []int{2, 3, 8, 64} {
		got, err := NewEstimator(WithThreads(threads)).Predict(ctx, partial, pool, 1.0)
		is.NoErr(err)
		is.Equal(got, want)
	}
}

func TestQualityTruncatesPool(t *testing.T) {
	is := is.New(t)
	partial := card.MustParseList("AS 2S 3S")
	pool := card.MustParseList("4S 5H 9C KD 10H 6C JS 7D 8H")
	e := NewEstimator()
	ctx := context.Background()
	// ceil(9 * 0.5) = 5
	half, err := e.Predict(ctx, partial, pool, 0.5)
	is.NoErr(err)
	first5, err := e.Predict(ctx, partial, pool[:5], 1.0)
	is.NoErr(err)
	is.Equal(half, first5)
}

func TestPreconditions(t *testing.T) {
	is := is.New(t)
	e := NewEstimator()
	ctx := context.Background()
	pool := unseen(nil)

	_, err := e.Predict(ctx, card.MustParseList("AS 2S 3S 4S 5S"), pool, 1)
	is.True(errors.Is(err, ErrHandTooLarge))

	for _, q := range []float64{0, -0.5, 1.01, math.NaN(), math.Inf(1)} {
		_, err = e.Predict(ctx, card.MustParseList("AS"), pool, q)
		is.True(errors.Is(err, ErrBadQuality))
	}
}

func TestPoolExhausted(t *testing.T) {
	for _, tc := range []struct {
		name    string
		partial string
		pool    string
		quality float64
	}{
		{"empty pool, full hand", "AS 2S 3S 4S", "", 1},
		{"two needed, two in pool", "AS 2S", "3S 4S", 1},
		{"truncated below need", "AS 2S", "3S 4S 5S 6S 7S 8S 9S 10S JS QS", 0.2},
		{"empty hand", "", "3S 4S 5S 6S", 1},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewEstimator().Predict(context.Background(),
				card.MustParseList(tc.partial), card.MustParseList(tc.pool), tc.quality)
			assert.ErrorIs(t, err, ErrPoolExhausted)
		})
	}
}

func TestSmallestPoolWorks(t *testing.T) {
	is := is.New(t)
	// k+1 cards: JD cut 5D scores 29, 5D cut JD scores 28.
	ev, err := NewEstimator().Predict(context.Background(),
		card.MustParseList("5S 5H 5C"), card.MustParseList("JD 5D"), 1)
	is.NoErr(err)
	is.Equal(ev, 28.5)
}

func TestEvaluate(t *testing.T) {
	is := is.New(t)
	partial := card.MustParseList("7S 8H 9C")
	pool := unseen(partial)[:16]
	e := NewEstimator(WithThreads(5))
	ctx := context.Background()
	res, err := e.Evaluate(ctx, partial, pool, 1.0)
	is.NoErr(err)
	is.Equal(res.Count, 16*15)
	total := 0
	for pts, ct := range res.Distribution {
		is.True(pts >= res.Min && pts <= res.Max)
		total += ct
	}
	is.Equal(total, res.Count)
	ev, err := e.Predict(ctx, partial, pool, 1.0)
	is.NoErr(err)
	is.Equal(res.Mean, ev)
	is.True(math.Abs(res.Stat.Mean()-ev) < 1e-9)
	is.True(res.Stdev > 0)
}

func TestCribUsesCribFlush(t *testing.T) {
	is := is.New(t)
	partial := card.MustParseList("2H 4H 6H 8H")
	pool := card.MustParseList("KS QC")
	e := NewEstimator()
	ctx := context.Background()
	hand, err := e.Predict(ctx, partial, pool, 1)
	is.NoErr(err)
	is.Equal(hand, 4.0)
	crib, err := e.PredictCrib(ctx, partial, pool, 1)
	is.NoErr(err)
	is.Equal(crib, 0.0)
}

func TestCache(t *testing.T) {
	is := is.New(t)
	c := cache.New()
	e := NewEstimator(WithCache(c), WithThreads(2))
	ctx := context.Background()
	pool := unseen(card.MustParseList("5S 5H JD"))[:12]

	v1, err := e.Predict(ctx, card.MustParseList("5S 5H JD"), pool, 1)
	is.NoErr(err)
	// same hand, different order
	v2, err := e.Predict(ctx, card.MustParseList("JD 5S 5H"), pool, 1)
	is.NoErr(err)
	is.Equal(v1, v2)
	hits, misses := c.Stats()
	is.Equal(hits, uint64(1))
	is.Equal(misses, uint64(1))

	_, err = e.PredictCrib(ctx, card.MustParseList("5S 5H JD"), pool, 1)
	is.NoErr(err)
	is.Equal(c.Len(), 2)

	// validation still happens before the cache is consulted
	_, err = e.Predict(ctx, card.MustParseList("5S 5H JD"), pool, 2)
	is.True(errors.Is(err, ErrBadQuality))
}

func TestSharedCacheKeepsValueTablesApart(t *testing.T) {
	is := is.New(t)
	c := cache.New()
	ten := NewEstimator(WithCache(c))
	rank := NewEstimator(WithCache(c), WithValues(card.FaceRankValues))
	ctx := context.Background()
	h, pool := card.MustParseList("5S 5H 5C JD"), card.MustParseList("5D")

	v, err := ten.Predict(ctx, h, pool, 1)
	is.NoErr(err)
	is.Equal(v, 29.0)
	v, err = rank.Predict(ctx, h, pool, 1)
	is.NoErr(err)
	is.Equal(v, 21.0)
	is.Equal(c.Len(), 2)
}

func TestCanceledContext(t *testing.T) {
	is := is.New(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewEstimator(WithThreads(2)).Predict(ctx, card.MustParseList("AS"), unseen(nil)[1:], 1)
	is.True(errors.Is(err, context.Canceled))
}

func TestFaceRankValues(t *testing.T) {
	is := is.New(t)
	ev, err := NewEstimator(WithValues(card.FaceRankValues)).Predict(context.Background(),
		card.MustParseList("5S 5H 5C JD"), card.MustParseList("5D"), 1)
	is.NoErr(err)
	is.Equal(ev, 21.0)
}

func BenchmarkPredictTwoCards(b *testing.B) {
	partial := card.MustParseList("5S 5H")
	pool := unseen(partial)
	e := NewEstimator()
	ctx := context.Background()
	for i := 0; i < b.N; i++ {
		if _, err := e.Predict(ctx, partial, pool, 0.5); err != nil {
			b.Fatal(err)
		}
	}
}
