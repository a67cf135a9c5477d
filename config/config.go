package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/domino14/muggins/card"
	"github.com/domino14/muggins/game"
)

const (
	ConfigDebug          = "debug"
	ConfigQuality        = "quality"
	ConfigCribQuality    = "crib-quality"
	ConfigThreads        = "threads"
	ConfigFaceValues     = "face-values"
	ConfigEstimatorCache = "estimator-cache"
	ConfigWinThreshold   = "win-threshold"
	ConfigSeed           = "seed"
	ConfigSeedsFile      = "seeds-file"
	ConfigFile           = "config-file"
)

var (
	ErrBadValueTable = errors.New("unknown face-values setting")
	ErrBadQuality    = errors.New("quality must be in (0, 1]")
	ErrBadSeed       = errors.New("seed must be 64 hex characters")
)

// Config wraps viper. Settings come, lowest priority first, from the
// defaults here, an optional YAML file, MUGGINS_* environment variables and
// command-line flags.
type Config struct {
	*viper.Viper

	args []string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(ConfigDebug, false)
	v.SetDefault(ConfigQuality, 0.1)
	v.SetDefault(ConfigCribQuality, 0.1)
	v.SetDefault(ConfigThreads, runtime.NumCPU())
	v.SetDefault(ConfigFaceValues, card.ValuesTen)
	v.SetDefault(ConfigEstimatorCache, false)
	v.SetDefault(ConfigWinThreshold, 121)
	v.SetDefault(ConfigSeed, "")
	v.SetDefault(ConfigSeedsFile, "")
}

// DefaultConfig is a config holding only defaults, for tests and library
// callers that never parse flags.
func DefaultConfig() Config {
	v := viper.New()
	setDefaults(v)
	return Config{Viper: v}
}

// Load parses args (without the program name) and reads the environment
// and config file.
func (c *Config) Load(args []string) error {
	c.Viper = viper.New()
	setDefaults(c.Viper)

	fs := pflag.NewFlagSet("muggins", pflag.ContinueOnError)
	fs.Bool(ConfigDebug, false, "debug logging on")
	fs.Float64(ConfigQuality, 0.1, "fraction of unseen cards enumerated when valuing a hand, in (0, 1]")
	fs.Float64(ConfigCribQuality, 0.1, "fraction of unseen cards enumerated when valuing a crib, in (0, 1]")
	fs.Int(ConfigThreads, runtime.NumCPU(), "goroutines used per estimate")
	fs.String(ConfigFaceValues, card.ValuesTen, "counting value of J/Q/K: ten or rank (11/12/13)")
	fs.Bool(ConfigEstimatorCache, false, "memoise hand estimates")
	fs.Int(ConfigWinThreshold, 121, "points needed to win")
	fs.String(ConfigSeed, "", "hex seed (32 bytes) for reproducible shuffles")
	fs.String(ConfigSeedsFile, "", "seed file for throwdata: read to replay a run, written when missing")
	fs.String(ConfigFile, "", "path to a YAML config file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	c.args = fs.Args()
	if err := c.BindPFlags(fs); err != nil {
		return err
	}
	c.SetEnvPrefix("muggins")
	c.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.AutomaticEnv()

	if path := c.GetString(ConfigFile); path != "" {
		c.SetConfigFile(path)
		c.SetConfigType("yaml")
		if err := c.ReadInConfig(); err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
	}
	return c.Validate()
}

// Args are the positional arguments left over after Load.
func (c *Config) Args() []string {
	return c.args
}

// Validate checks the settings that viper cannot type-check.
func (c *Config) Validate() error {
	for _, key := range []string{ConfigQuality, ConfigCribQuality} {
		q := c.GetFloat64(key)
		if !(q > 0 && q <= 1) {
			return fmt.Errorf("%w: %s = %v", ErrBadQuality, key, q)
		}
	}
	if _, err := c.ValueTable(); err != nil {
		return err
	}
	if _, _, err := c.Seed(); err != nil {
		return err
	}
	return nil
}

func (c *Config) Quality() float64 {
	return c.GetFloat64(ConfigQuality)
}

func (c *Config) CribQuality() float64 {
	return c.GetFloat64(ConfigCribQuality)
}

func (c *Config) Threads() int {
	return max(c.GetInt(ConfigThreads), 1)
}

func (c *Config) ValueTable() (card.ValueTable, error) {
	name := c.GetString(ConfigFaceValues)
	t, ok := card.ValuesByName(name)
	if !ok {
		return card.ValueTable{}, fmt.Errorf("%w: %q", ErrBadValueTable, name)
	}
	return t, nil
}

// Rules builds game rules from the win threshold and value table.
func (c *Config) Rules() (game.Rules, error) {
	t, err := c.ValueTable()
	if err != nil {
		return game.Rules{}, err
	}
	return game.Rules{WinThreshold: c.GetInt(ConfigWinThreshold), Values: t}, nil
}

// Seed returns the configured shuffle seed; ok is false when none is set.
func (c *Config) Seed() (seed [32]byte, ok bool, err error) {
	s := c.GetString(ConfigSeed)
	if s == "" {
		return seed, false, nil
	}
	b, err := hex.DecodeString(s)
	if err != nil || len(b) != len(seed) {
		return seed, false, fmt.Errorf("%w: %q", ErrBadSeed, s)
	}
	copy(seed[:], b)
	return seed, true, nil
}
