package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/muggins/config"
	"github.com/domino14/muggins/shell"
)

var (
	GitVersion string
)

func setupLogging(cfg *config.Config) {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	output.FormatLevel = func(i interface{}) string {
		return strings.ToUpper(fmt.Sprintf("| %-6s|", i))
	}
	output.FormatMessage = func(i interface{}) string {
		return fmt.Sprintf("%s", i)
	}
	output.FormatFieldName = func(i interface{}) string {
		return fmt.Sprintf("%s:", i)
	}

	var logger zerolog.Logger
	if cfg.GetBool(config.ConfigDebug) {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		logger = zerolog.New(output).Level(zerolog.DebugLevel).With().Timestamp().Logger()
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		logger = zerolog.New(output).Level(zerolog.InfoLevel).With().Timestamp().Logger()
	}
	zerolog.DefaultContextLogger = &logger
	log.Logger = logger
	logger.Debug().Msg("debug logging is on")
}

// With no command, muggins reads commands from stdin. `batch <file>` reads
// them from a file.
func main() {
	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	setupLogging(cfg)
	log.Debug().Str("version", GitVersion).Interface("settings", cfg.AllSettings()).Msg("loaded-config")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = log.Logger.WithContext(ctx)

	sc, err := shell.NewShellController(cfg, os.Stdout)
	if err != nil {
		log.Fatal().Err(err).Msg("bad-config")
	}

	args := cfg.Args()
	switch {
	case len(args) == 0:
		err = sc.RunBatch(ctx, os.Stdin)
	case args[0] == "batch":
		err = runFile(ctx, sc, args[1:])
	default:
		err = sc.Execute(ctx, args)
	}
	if err != nil {
		log.Error().Err(err).Msg("command-failed")
		stop()
		os.Exit(1)
	}
}

func runFile(ctx context.Context, sc *shell.ShellController, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("batch needs exactly one file, got %d", len(args))
	}
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()
	return sc.RunBatch(ctx, f)
}
