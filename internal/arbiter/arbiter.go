// Package arbiter adjudicates constructed decks by driving the external
// Forge simulator and collecting winners and match durations.
package arbiter

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/BigFish003/MTGnew/internal"
	"github.com/BigFish003/MTGnew/internal/config"
)

// ErrNoVerdict is returned when the simulator output carries no recognizable
// result line.
var ErrNoVerdict = errors.New("arbiter: no verdict in simulator output")

// Result is one adjudicated match.
type Result struct {
	Opponent string
	Winner   int // 1 means the first (drafted) deck won
	Duration time.Duration
}

// Arbiter runs matches through the Forge desktop jar's sim mode.
type Arbiter struct {
	javaPath string
	jarPath  string
	workDir  string
	timeout  time.Duration
}

// New builds an Arbiter from configuration.
func New(cfg config.ArbiterConfig) (*Arbiter, error) {
	if cfg.JarPath == "" {
		return nil, errors.New("arbiter: jar_path is required")
	}
	timeout, err := time.ParseDuration(cfg.Timeout)
	if err != nil {
		return nil, fmt.Errorf("arbiter: invalid timeout: %w", err)
	}
	javaPath := cfg.JavaPath
	if javaPath == "" {
		javaPath = "java"
	}
	return &Arbiter{
		javaPath: javaPath,
		jarPath:  cfg.JarPath,
		workDir:  cfg.WorkDir,
		timeout:  timeout,
	}, nil
}

// Match plays one game between the drafted deck and an opponent deck and
// returns the verdict.
func (a *Arbiter) Match(ctx context.Context, deckFile, opponentFile string) (Result, error) {
	logger := internal.GetLogger()

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, a.javaPath, "-jar", a.jarPath,
		"sim", "-d", deckFile, opponentFile, "-n", "1")
	cmd.Dir = a.workDir

	out, err := cmd.Output()
	if err != nil {
		return Result{}, fmt.Errorf("run simulator for %s vs %s: %w", deckFile, opponentFile, err)
	}

	result, err := parseSimOutput(string(out))
	if err != nil {
		return Result{}, err
	}
	result.Opponent = opponentFile
	logger.Infow("match adjudicated",
		"opponent", opponentFile, "winner", result.Winner, "duration", result.Duration)
	return result, nil
}

// verdictRe matches the simulator's summary line, e.g.
// "Game 1 ended in 4821 ms. Ai(1)-deck won!".
var verdictRe = regexp.MustCompile(`(\d+)\s*ms\. Ai\((\d)\)`)

// parseSimOutput scans simulator output from the last line backwards for the
// verdict, which sits a couple of lines above the tail.
func parseSimOutput(output string) (Result, error) {
	lines := strings.Split(strings.TrimRight(output, "\n"), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		m := verdictRe.FindStringSubmatch(lines[i])
		if m == nil {
			continue
		}
		ms, err := strconv.Atoi(m[1])
		if err != nil {
			return Result{}, fmt.Errorf("arbiter: bad duration %q: %w", m[1], err)
		}
		winner, err := strconv.Atoi(m[2])
		if err != nil {
			return Result{}, fmt.Errorf("arbiter: bad winner %q: %w", m[2], err)
		}
		return Result{Winner: winner, Duration: time.Duration(ms) * time.Millisecond}, nil
	}
	return Result{}, ErrNoVerdict
}

// MatchAll plays the drafted deck against every opponent, at most workers
// matches at a time, and returns the results in opponent order.
func (a *Arbiter) MatchAll(ctx context.Context, deckFile string, opponents []string, workers int) ([]Result, error) {
	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}

	results := make([]Result, len(opponents))
	for i, opponent := range opponents {
		i, opponent := i, opponent
		g.Go(func() error {
			r, err := a.Match(ctx, deckFile, opponent)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// WinRate returns the fraction of matches the drafted deck won.
func WinRate(results []Result) float64 {
	if len(results) == 0 {
		return 0
	}
	wins := 0
	for _, r := range results {
		if r.Winner == 1 {
			wins++
		}
	}
	return float64(wins) / float64(len(results))
}
