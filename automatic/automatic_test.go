package automatic

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"testing"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"
	"gopkg.in/yaml.v3"

	"github.com/domino14/muggins/discard"
	"github.com/domino14/muggins/equity"
)

func TestSeedsRoundTrip(t *testing.T) {
	is := is.New(t)
	seeds := GenerateSeeds(5)
	var buf bytes.Buffer
	is.NoErr(WriteSeeds(&buf, seeds))
	read, err := ReadSeeds(&buf)
	is.NoErr(err)
	is.Equal(read, seeds)

	_, err = ReadSeeds(strings.NewReader("# hi\nabcd\n"))
	is.True(err != nil)
}

func TestLoadOrCreateSeed(t *testing.T) {
	is := is.New(t)
	path := filepath.Join(t.TempDir(), "seeds.txt")

	seed, created, err := LoadOrCreateSeed(path, nil)
	is.NoErr(err)
	is.True(created)
	again, created, err := LoadOrCreateSeed(path, nil)
	is.NoErr(err)
	is.True(!created)
	is.Equal(again, seed)

	// a seed already on file wins over the fallback
	other := GenerateSeeds(1)[0]
	again, _, err = LoadOrCreateSeed(path, &other)
	is.NoErr(err)
	is.Equal(again, seed)

	fresh := filepath.Join(t.TempDir(), "fresh.txt")
	got, created, err := LoadOrCreateSeed(fresh, &other)
	is.NoErr(err)
	is.True(created)
	is.Equal(got, other)

	empty := filepath.Join(t.TempDir(), "empty.txt")
	is.NoErr(os.WriteFile(empty, []byte("# nothing\n"), 0o644))
	_, _, err = LoadOrCreateSeed(empty, nil)
	is.True(err != nil)
}

func TestDeriveSeed(t *testing.T) {
	is := is.New(t)
	var master [32]byte
	master[0] = 7
	a := DeriveSeed(master, 1)
	is.Equal(a, DeriveSeed(master, 1))
	is.True(a != DeriveSeed(master, 2))
	is.True(a != master)
}

func readRows(t *testing.T, data []byte) [][]string {
	t.Helper()
	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	return rows
}

func TestGenerateThrowData(t *testing.T) {
	is := is.New(t)
	seed := GenerateSeeds(1)[0]
	opts := ThrowDataOptions{Deals: 3, Quality: 0.1, CribQuality: 0.1, Workers: 2, Seed: &seed}
	est := equity.NewEstimator(equity.WithThreads(1))

	var buf bytes.Buffer
	n, err := GenerateThrowData(context.Background(), &buf, est, opts)
	is.NoErr(err)
	is.Equal(n, 6)
	rows := readRows(t, buf.Bytes())
	is.Equal(len(rows), 7)
	is.Equal(rows[0], ThrowDataHeader)

	dealers := 0
	for _, row := range rows[1:] {
		is.Equal(len(row), 9)
		if row[0] == "1" {
			dealers++
		}
		seen := map[int]bool{}
		for _, f := range row[1:7] {
			c, err := strconv.Atoi(f)
			is.NoErr(err)
			is.True(c >= 0 && c < 52)
			is.True(!seen[c])
			seen[c] = true
		}
		t0, _ := strconv.Atoi(row[7])
		t1, _ := strconv.Atoi(row[8])
		is.True(t0 < t1)
		is.True(t0 >= 0 && t1 < 6)
	}
	is.Equal(dealers, 3)

	// same seed, same rows (in some order)
	var again bytes.Buffer
	_, err = GenerateThrowData(context.Background(), &again, est, opts)
	is.NoErr(err)
	flatten := func(rows [][]string) []string {
		out := make([]string, len(rows))
		for i, r := range rows {
			out[i] = strings.Join(r, ",")
		}
		sort.Strings(out)
		return out
	}
	is.Equal(flatten(rows), flatten(readRows(t, again.Bytes())))
}

func TestGenerateThrowDataNeedsDeals(t *testing.T) {
	is := is.New(t)
	_, err := GenerateThrowData(context.Background(), &bytes.Buffer{}, equity.NewEstimator(), ThrowDataOptions{})
	is.True(err != nil)
}

type firstTwo struct{}

func (firstTwo) Throw(ctx context.Context, isDealer bool, cards [discard.DealtSize]int) ([]int, error) {
	return []int{0, 1}, nil
}

type badThrow struct{}

func (badThrow) Throw(ctx context.Context, isDealer bool, cards [discard.DealtSize]int) ([]int, error) {
	return []int{0, 0}, nil
}

func TestComparePolicies(t *testing.T) {
	is := is.New(t)
	seed := GenerateSeeds(1)[0]
	est := equity.NewEstimator(equity.WithThreads(1))
	opts := CompareOptions{Trials: 4, Quality: 0.1, CribQuality: 0.1, Workers: 3, Seed: &seed}
	policies := []NamedPolicy{
		{Name: "first-two", Policy: firstTwo{}},
		{Name: "first-two-again", Policy: firstTwo{}},
		{Name: "random", Policy: discard.NewRandomPolicy()},
	}
	cmp, err := ComparePolicies(context.Background(), est, policies, opts)
	is.NoErr(err)
	is.Equal(len(cmp.Policies), 3)
	a, b := cmp.Policies[0], cmp.Policies[1]
	is.Equal(a.Mean, b.Mean)
	is.Equal(a.DealerMean, b.DealerMean)
	is.Equal(a.PoneMean, b.PoneMean)
	assert.InDelta(t, (a.DealerMean+a.PoneMean)/2, a.Mean, 1e-9)

	// reproducible with a seed
	again, err := ComparePolicies(context.Background(), est, policies[:1], opts)
	is.NoErr(err)
	is.Equal(again.Policies[0].Mean, a.Mean)

	out, err := cmp.YAML()
	is.NoErr(err)
	var back Comparison
	is.NoErr(yaml.Unmarshal(out, &back))
	is.Equal(back.Trials, 4)
	is.Equal(back.Policies[2].Name, "random")
}

func TestSeededComparisonRepeats(t *testing.T) {
	is := is.New(t)
	seed := GenerateSeeds(1)[0]
	est := equity.NewEstimator(equity.WithThreads(1))
	opts := CompareOptions{Trials: 3, Quality: 0.2, CribQuality: 0.1, Workers: 3, Seed: &seed}
	run := func() *Comparison {
		policies := []NamedPolicy{
			{Name: "expected", Policy: discard.NewSeededExpectedValuePolicy(est, 0.1, 0.1, DeriveSeed(seed, -2))},
			{Name: "random", Policy: discard.NewSeededRandomPolicy(DeriveSeed(seed, -1))},
		}
		cmp, err := ComparePolicies(context.Background(), est, policies, opts)
		is.NoErr(err)
		return cmp
	}
	first := run()
	for i := 0; i < 3; i++ {
		is.Equal(run().Policies, first.Policies)
	}
}

func TestComparePoliciesErrors(t *testing.T) {
	is := is.New(t)
	est := equity.NewEstimator(equity.WithThreads(1))
	_, err := ComparePolicies(context.Background(), est, nil, CompareOptions{Trials: 1})
	is.True(err != nil)
	_, err = ComparePolicies(context.Background(), est,
		[]NamedPolicy{{Name: "bad", Policy: badThrow{}}},
		CompareOptions{Trials: 1, Quality: 0.1, CribQuality: 0.1})
	is.True(err != nil)
	assert.ErrorIs(t, err, discard.ErrBadThrow)
}
