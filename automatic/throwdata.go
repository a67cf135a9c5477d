// Package automatic runs many deals without a human: it produces training
// data for discard classifiers and measures one discard policy against
// another.
package automatic

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"strconv"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"lukechampine.com/frand"

	"github.com/domino14/muggins/deck"
	"github.com/domino14/muggins/discard"
	"github.com/domino14/muggins/equity"
)

// ThrowRecord is one labelled deal: who dealt, the six cards dealt and the
// indices the expected-value policy threw.
type ThrowRecord struct {
	IsDealer bool
	Cards    [discard.DealtSize]int
	Throw    [discard.ThrowSize]int
}

var ThrowDataHeader = []string{"is_dealer", "c0", "c1", "c2", "c3", "c4", "c5", "t0", "t1"}

// CSV renders the record as a row under ThrowDataHeader.
func (r ThrowRecord) CSV() []string {
	row := make([]string, 0, len(ThrowDataHeader))
	if r.IsDealer {
		row = append(row, "1")
	} else {
		row = append(row, "0")
	}
	for _, c := range r.Cards {
		row = append(row, strconv.Itoa(c))
	}
	for _, t := range r.Throw {
		row = append(row, strconv.Itoa(t))
	}
	return row
}

type ThrowDataOptions struct {
	// Deals is the number of deals for each of dealer and non-dealer.
	Deals       int
	Quality     float64
	CribQuality float64
	Workers     int
	// Seed, when set, makes the deals reproducible.
	Seed *[32]byte
}

type dealJob struct {
	index    int
	isDealer bool
}

// GenerateThrowData deals opts.Deals hands per dealer flag, finds the best
// throw for each with an expected-value policy, and writes one CSV row per
// deal to w. Rows arrive in completion order. It returns the rows written.
func GenerateThrowData(ctx context.Context, w io.Writer, predictor equity.Predictor, opts ThrowDataOptions) (int, error) {
	if opts.Deals <= 0 {
		return 0, errors.New("deals must be positive")
	}
	logger := zerolog.Ctx(ctx)
	policy := discard.NewExpectedValuePolicy(predictor, opts.Quality, opts.CribQuality)
	workers := max(opts.Workers, 1)

	jobs := make(chan dealJob, workers)
	results := make(chan ThrowRecord, workers)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(jobs)
		for _, isDealer := range []bool{false, true} {
			for i := 0; i < opts.Deals; i++ {
				job := dealJob{index: i, isDealer: isDealer}
				if isDealer {
					job.index += opts.Deals
				}
				select {
				case jobs <- job:
				case <-gctx.Done():
					return gctx.Err()
				}
			}
		}
		return nil
	})

	workerGroup, wctx := errgroup.WithContext(gctx)
	for t := 0; t < workers; t++ {
		workerGroup.Go(func() error {
			for job := range jobs {
				rec, err := labelDeal(wctx, policy, job, opts.Seed)
				if err != nil {
					return err
				}
				select {
				case results <- rec:
				case <-wctx.Done():
					return wctx.Err()
				}
			}
			return nil
		})
	}
	g.Go(func() error {
		defer close(results)
		return workerGroup.Wait()
	})

	cw := csv.NewWriter(w)
	written := 0
	var writeErr error
	if err := cw.Write(ThrowDataHeader); err != nil {
		writeErr = err
	}
	for rec := range results {
		if writeErr != nil {
			continue
		}
		if err := cw.Write(rec.CSV()); err != nil {
			writeErr = err
			continue
		}
		written++
		if written%100 == 0 {
			logger.Info().Int("written", written).Msg("throw-data-progress")
			cw.Flush()
		}
	}
	err := g.Wait()
	cw.Flush()
	if err != nil {
		return written, err
	}
	if writeErr != nil {
		return written, writeErr
	}
	return written, cw.Error()
}

func newDeck(seed *[32]byte, index int) *deck.Deck {
	if seed == nil {
		var s [32]byte
		frand.Read(s[:])
		return deck.NewSeededDeck(s)
	}
	return deck.NewSeededDeck(DeriveSeed(*seed, index))
}

func labelDeal(ctx context.Context, policy *discard.ExpectedValuePolicy, job dealJob, seed *[32]byte) (ThrowRecord, error) {
	d := newDeck(seed, job.index)
	d.Shuffle()
	dealt, err := d.Deal(discard.DealtSize)
	if err != nil {
		return ThrowRecord{}, err
	}
	best, err := policy.Best(ctx, job.isDealer, dealt, d.Remaining())
	if err != nil {
		return ThrowRecord{}, err
	}
	enc, err := discard.Encode(dealt)
	if err != nil {
		return ThrowRecord{}, err
	}
	return ThrowRecord{IsDealer: job.isDealer, Cards: enc, Throw: best.Throw}, nil
}
