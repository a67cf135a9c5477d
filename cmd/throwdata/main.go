package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/muggins/automatic"
	"github.com/domino14/muggins/config"
	"github.com/domino14/muggins/equity"
)

// throwdata writes labelled throws as CSV to stdout:
//
//	throwdata [flags] <deals>
//
// Each estimate runs on one goroutine; deals are spread over -threads
// workers instead.
func main() {
	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	var logger zerolog.Logger
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	if cfg.GetBool(config.ConfigDebug) {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		logger = zerolog.New(output).Level(zerolog.DebugLevel).With().Timestamp().Logger()
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		logger = zerolog.New(output).Level(zerolog.InfoLevel).With().Timestamp().Logger()
	}
	zerolog.DefaultContextLogger = &logger
	log.Logger = logger

	args := cfg.Args()
	if len(args) != 1 {
		log.Fatal().Msg("usage: throwdata [flags] <deals>")
	}
	deals, err := strconv.Atoi(args[0])
	if err != nil {
		log.Fatal().Err(err).Msg("bad-deal-count")
	}
	values, err := cfg.ValueTable()
	if err != nil {
		log.Fatal().Err(err).Msg("bad-config")
	}
	opts := automatic.ThrowDataOptions{
		Deals:       deals,
		Quality:     cfg.Quality(),
		CribQuality: cfg.CribQuality(),
		Workers:     cfg.Threads(),
	}
	seed, ok, err := cfg.Seed()
	if err != nil {
		log.Fatal().Err(err).Msg("bad-seed")
	}
	var fallback *[32]byte
	if ok {
		fallback = &seed
	}
	if path := cfg.GetString(config.ConfigSeedsFile); path != "" {
		var created bool
		seed, created, err = automatic.LoadOrCreateSeed(path, fallback)
		if err != nil {
			log.Fatal().Err(err).Msg("bad-seeds-file")
		}
		log.Info().Str("path", path).Bool("created", created).Hex("seed", seed[:]).Msg("seeds-file")
	} else if !ok {
		seed = automatic.GenerateSeeds(1)[0]
		log.Info().Hex("seed", seed[:]).Msg("generated-seed")
	}
	opts.Seed = &seed

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithContext(ctx)

	estimator := equity.NewEstimator(equity.WithThreads(1), equity.WithValues(values))
	w := bufio.NewWriter(os.Stdout)
	start := time.Now()
	rows, err := automatic.GenerateThrowData(ctx, w, estimator, opts)
	if ferr := w.Flush(); err == nil {
		err = ferr
	}
	if err != nil {
		log.Error().Err(err).Int("rows", rows).Msg("throwdata-failed")
		stop()
		os.Exit(1)
	}
	log.Info().Int("rows", rows).Dur("elapsed", time.Since(start)).Msg("throwdata-done")
}
