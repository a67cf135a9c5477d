// Package shell runs muggins commands, one per line, for the command-line
// tool and for scripted batch runs.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog"

	"github.com/domino14/muggins/cache"
	"github.com/domino14/muggins/card"
	"github.com/domino14/muggins/config"
	"github.com/domino14/muggins/equity"
	"github.com/domino14/muggins/game"
	"github.com/domino14/muggins/scoring"
)

var errUnknownCommand = errors.New("unknown command")

// ShellController holds what every command needs: settings, a scorer and
// an estimator sharing one value table, and where to write output.
type ShellController struct {
	config    *config.Config
	rules     game.Rules
	values    card.ValueTable
	scorer    *scoring.Scorer
	estimator *equity.Estimator
	out       io.Writer
}

func NewShellController(cfg *config.Config, out io.Writer) (*ShellController, error) {
	rules, err := cfg.Rules()
	if err != nil {
		return nil, err
	}
	values := rules.Values
	opts := []equity.Option{equity.WithThreads(cfg.Threads()), equity.WithValues(values)}
	if cfg.GetBool(config.ConfigEstimatorCache) {
		opts = append(opts, equity.WithCache(cache.New()))
	}
	return &ShellController{
		config:    cfg,
		rules:     rules,
		values:    values,
		scorer:    scoring.NewScorer(values),
		estimator: equity.NewEstimator(opts...),
		out:       out,
	}, nil
}

func (sc *ShellController) showMessage(msg string) {
	io.WriteString(sc.out, msg+"\n")
}

// Execute runs one command. args[0] is the command name.
func (sc *ShellController) Execute(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return nil
	}
	cmd, rest := args[0], args[1:]
	zerolog.Ctx(ctx).Debug().Str("cmd", cmd).Strs("args", rest).Msg("execute")
	switch cmd {
	case "score":
		return sc.score(rest, false)
	case "crib-score":
		return sc.score(rest, true)
	case "predict":
		return sc.predict(ctx, rest, false)
	case "crib":
		return sc.predict(ctx, rest, true)
	case "throw":
		return sc.throw(ctx, rest)
	case "peg":
		return sc.peg(rest)
	case "compare":
		return sc.compare(ctx, rest)
	case "board":
		return sc.board(rest)
	case "encode":
		return sc.encode(rest)
	case "help":
		usage(sc.out)
		return nil
	}
	return fmt.Errorf("%w: %s", errUnknownCommand, cmd)
}

// RunBatch executes each line of r as a command, with shell-style quoting,
// so that card lists can be passed as one argument. Blank lines and lines
// starting with # are skipped. It stops at the first failing command.
func (sc *ShellController) RunBatch(ctx context.Context, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields, err := shellquote.Split(line)
		if err != nil {
			return fmt.Errorf("line %d: %w", lineNum, err)
		}
		sc.showMessage("> " + line)
		if err := sc.Execute(ctx, fields); err != nil {
			return fmt.Errorf("line %d: %w", lineNum, err)
		}
	}
	return scanner.Err()
}
