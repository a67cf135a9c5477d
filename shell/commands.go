package shell

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/samber/lo"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/domino14/muggins/automatic"
	"github.com/domino14/muggins/card"
	"github.com/domino14/muggins/deck"
	"github.com/domino14/muggins/discard"
	"github.com/domino14/muggins/game"
	"github.com/domino14/muggins/pegging"
	"github.com/domino14/muggins/scoring"
	"github.com/domino14/muggins/stats"
)

var errArgs = errors.New("wrong number of arguments")

// Above this many completions the distribution is shown as a table
// instead of a histogram, since the histogram needs every sample. A
// single distinct score is also shown as a table.
const maxHistogramSamples = 200000

const histogramBins = 15

// Kept hands and cribs are judged at a higher quality than the policies
// used when throwing.
const (
	compareQuality     = 0.5
	compareCribQuality = 0.2
)

// cardArgs parses each argument as a card list and concatenates them, so
// `5S 5H` and "5S 5H" both work.
func cardArgs(args []string) ([]card.Card, error) {
	var cards []card.Card
	for _, a := range args {
		cs, err := card.ParseList(a)
		if err != nil {
			return nil, err
		}
		cards = append(cards, cs...)
	}
	return cards, nil
}

// unseenPool is every card not in seen, in shuffled order. The order is
// reproducible when a seed is configured.
func (sc *ShellController) unseenPool(seen []card.Card) ([]card.Card, error) {
	seed, ok, err := sc.config.Seed()
	if err != nil {
		return nil, err
	}
	var d *deck.Deck
	if ok {
		d = deck.NewSeededDeck(seed)
	} else {
		d = deck.NewDeck()
	}
	d.Shuffle()
	return lo.Filter(d.Remaining(), func(c card.Card, _ int) bool {
		return !lo.Contains(seen, c)
	}), nil
}

func (sc *ShellController) score(args []string, crib bool) error {
	if len(args) != 2 {
		return fmt.Errorf("%w: need a hand and a cut", errArgs)
	}
	h, err := card.ParseList(args[0])
	if err != nil {
		return err
	}
	cut, err := card.Parse(args[1])
	if err != nil {
		return err
	}
	var b scoring.Breakdown
	if crib {
		b, err = sc.scorer.ScoreCribBreakdown(h, cut)
	} else {
		b, err = sc.scorer.ScoreBreakdown(h, cut)
	}
	if err != nil {
		return err
	}
	sc.showMessage(fmt.Sprintf("%s | %s", card.Join(h), cut))
	sc.showMessage(b.String())
	return nil
}

func (sc *ShellController) predict(ctx context.Context, args []string, crib bool) error {
	if len(args) < 1 || len(args) > 2 {
		return fmt.Errorf("%w: need cards and an optional pool", errArgs)
	}
	partial, err := card.ParseList(args[0])
	if err != nil {
		return err
	}
	var pool []card.Card
	if len(args) == 2 {
		pool, err = card.ParseList(args[1])
	} else {
		pool, err = sc.unseenPool(partial)
	}
	if err != nil {
		return err
	}
	quality := sc.config.Quality()
	if crib {
		quality = sc.config.CribQuality()
		ev, err := sc.estimator.PredictCrib(ctx, partial, pool, quality)
		if err != nil {
			return err
		}
		sc.showMessage(fmt.Sprintf("crib from %s: %.3f", card.Join(partial), ev))
		return nil
	}
	res, err := sc.estimator.Evaluate(ctx, partial, pool, quality)
	if err != nil {
		return err
	}
	ci := stats.HalfWidth(&res.Stat, 95)
	sc.showMessage(fmt.Sprintf("%s: mean %.3f ± %.3f (95%%), stdev %.3f, min %d, max %d, %d shows",
		card.Join(partial), res.Mean, ci, res.Stdev, res.Min, res.Max, res.Count))
	return sc.showDistribution(res.Distribution, res.Count)
}

func (sc *ShellController) showDistribution(dist map[int]int, count int) error {
	points := lo.Keys(dist)
	sort.Ints(points)
	if count > maxHistogramSamples || len(points) < 2 {
		var sb strings.Builder
		printer := message.NewPrinter(language.English)
		for _, p := range points {
			printer.Fprintf(&sb, "%3d %12d %6.2f%%\n", p, dist[p], 100*float64(dist[p])/float64(count))
		}
		sc.showMessage(strings.TrimRight(sb.String(), "\n"))
		return nil
	}
	samples := make([]float64, 0, count)
	for _, p := range points {
		for i := 0; i < dist[p]; i++ {
			samples = append(samples, float64(p))
		}
	}
	h := histogram.Hist(histogramBins, samples)
	return histogram.Fprint(sc.out, h, histogram.Linear(40))
}

func (sc *ShellController) throw(ctx context.Context, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return fmt.Errorf("%w: need six cards and optionally dealer", errArgs)
	}
	dealt, err := card.ParseList(args[0])
	if err != nil {
		return err
	}
	if len(dealt) != discard.DealtSize {
		return fmt.Errorf("%w: %d cards dealt", discard.ErrBadThrow, len(dealt))
	}
	isDealer := false
	if len(args) == 2 {
		switch args[1] {
		case "dealer":
			isDealer = true
		case "pone":
		default:
			return fmt.Errorf("%w: expected dealer or pone, got %q", errArgs, args[1])
		}
	}
	pool, err := sc.unseenPool(dealt)
	if err != nil {
		return err
	}
	policy := discard.NewExpectedValuePolicy(sc.estimator, sc.config.Quality(), sc.config.CribQuality())
	choices, err := policy.All(ctx, isDealer, dealt, pool)
	if err != nil {
		return err
	}
	sort.SliceStable(choices, func(i, j int) bool {
		return choices[i].Value > choices[j].Value
	})
	var sb strings.Builder
	fmt.Fprintf(&sb, "%-14s %-8s %7s %7s %7s\n", "keep", "throw", "hand", "crib", "value")
	for _, c := range choices {
		fmt.Fprintf(&sb, "%-14s %-8s %7.3f %7.3f %7.3f\n",
			card.Join(c.Keep), card.Join(c.Thrown), c.HandEV, c.CribEV, c.Value)
	}
	sc.showMessage(strings.TrimRight(sb.String(), "\n"))
	return nil
}

func (sc *ShellController) peg(args []string) error {
	cards, err := cardArgs(args)
	if err != nil {
		return err
	}
	if len(cards) == 0 {
		return fmt.Errorf("%w: need cards to play", errArgs)
	}
	pile := pegging.NewPileWithValues(sc.values)
	total := 0
	for _, c := range cards {
		pts, err := pile.Add(c)
		if err != nil {
			return fmt.Errorf("playing %s on %s: %w", c, pile, err)
		}
		total += pts
		sc.showMessage(fmt.Sprintf("%-4s %s +%d", c, pile, pts))
	}
	sc.showMessage(fmt.Sprintf("total %d", total))
	return nil
}

// board pegs a run of scores for one player and stops at the win.
func (sc *ShellController) board(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: need points to peg", errArgs)
	}
	p := game.NewPlayer("player", sc.rules)
	for i, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil {
			return err
		}
		if n < 0 {
			return fmt.Errorf("%w: negative points %d", errArgs, n)
		}
		won := p.AddPoints(n)
		sc.showMessage(fmt.Sprintf("+%-3d %d", n, p.Points()))
		if won {
			sc.showMessage(fmt.Sprintf("won at %d after %d scores", p.Points(), i+1))
			return nil
		}
	}
	sc.showMessage(fmt.Sprintf("%d to go", sc.rules.WinThreshold-p.Points()))
	return nil
}

func (sc *ShellController) compare(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: need a number of trials", errArgs)
	}
	trials, err := strconv.Atoi(args[0])
	if err != nil {
		return err
	}
	opts := automatic.CompareOptions{
		Trials:      trials,
		Quality:     compareQuality,
		CribQuality: compareCribQuality,
		Workers:     sc.config.Threads(),
	}
	seed, ok, err := sc.config.Seed()
	if err != nil {
		return err
	}
	q, cq := sc.config.Quality(), sc.config.CribQuality()
	var expected, random discard.Policy
	if ok {
		opts.Seed = &seed
		expected = discard.NewSeededExpectedValuePolicy(sc.estimator, q, cq, automatic.DeriveSeed(seed, -2))
		random = discard.NewSeededRandomPolicy(automatic.DeriveSeed(seed, -1))
	} else {
		expected = discard.NewExpectedValuePolicy(sc.estimator, q, cq)
		random = discard.NewRandomPolicy()
	}
	policies := []automatic.NamedPolicy{
		{Name: "expected", Policy: expected},
		{Name: "random", Policy: random},
	}
	cmp, err := automatic.ComparePolicies(ctx, sc.estimator, policies, opts)
	if err != nil {
		return err
	}
	out, err := cmp.YAML()
	if err != nil {
		return err
	}
	sc.showMessage(strings.TrimRight(string(out), "\n"))
	return nil
}

func (sc *ShellController) encode(args []string) error {
	cards, err := cardArgs(args)
	if err != nil {
		return err
	}
	strs := lo.Map(cards, func(c card.Card, _ int) string {
		return strconv.Itoa(card.Encode(c))
	})
	sc.showMessage(strings.Join(strs, " "))
	return nil
}
