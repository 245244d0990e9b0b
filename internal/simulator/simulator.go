// Package simulator plays headless bot-only matches and aggregates per-seat results.
package simulator

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"runtime"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"tienlenmn/internal/app"
	"tienlenmn/internal/bot"
	"tienlenmn/internal/domain"
	"tienlenmn/internal/table"
)

// MaxTurns bounds a single match. Every play sheds at least one card and at most three passes
// separate two plays, so a terminating policy never gets close.
const MaxTurns = 4 * domain.DeckSize * domain.NumPlayers

// ErrTurnLimit is returned when a match exceeds MaxTurns.
var ErrTurnLimit = errors.New("turn limit reached")

// Options configures a simulation run.
type Options struct {
	Matches int
	// Seed of match 0; match i is dealt from Seed+i.
	Seed    int64
	Workers int
	Level   bot.Level
	Logger  *log.Logger
}

// Stats aggregates the outcome of a simulation run.
type Stats struct {
	Matches  int
	Wins     [domain.NumPlayers]int
	Openings [domain.NumPlayers]int
	Plays    int
	Resets   int
}

// WinRate returns the fraction of matches won by seat.
func (s Stats) WinRate(seat domain.Seat) float64 {
	if s.Matches == 0 || !seat.Valid() {
		return 0
	}
	return float64(s.Wins[seat]) / float64(s.Matches)
}

func (s *Stats) add(r result) {
	s.Matches++
	s.Wins[r.winner]++
	s.Openings[r.opener]++
	s.Plays += r.plays
	s.Resets += r.resets
}

type result struct {
	winner domain.Seat
	opener domain.Seat
	plays  int
	resets int
}

// Run plays opts.Matches matches across opts.Workers goroutines. Results depend only on the seed
// and level, not on the worker count.
func Run(ctx context.Context, opts Options) (Stats, error) {
	if opts.Matches <= 0 {
		return Stats{}, fmt.Errorf("matches must be positive, got %d", opts.Matches)
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	if opts.Level == "" {
		opts.Level = bot.LevelGreedy
	}
	if _, err := bot.ParseLevel(string(opts.Level)); err != nil {
		return Stats{}, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	logger = logger.WithPrefix("simulator")

	results := make([]result, opts.Matches)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)

	for i := range opts.Matches {
		seed := opts.Seed + int64(i)
		g.Go(func() error {
			res, err := playMatch(ctx, seed, opts.Level, logger)
			if err != nil {
				return fmt.Errorf("match %d (seed %d): %w", i, seed, err)
			}
			results[i] = res
			logger.Debug("match finished", "seed", seed, "winner", int(res.winner), "plays", res.plays)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Stats{}, err
	}

	var stats Stats
	for _, r := range results {
		stats.add(r)
	}
	logger.Info("simulation complete", "matches", stats.Matches, "plays", stats.Plays, "resets", stats.Resets)
	return stats, nil
}

func playMatch(ctx context.Context, seed int64, level bot.Level, logger *log.Logger) (result, error) {
	svc := app.NewService(rand.New(rand.NewSource(seed)))
	var names [domain.NumPlayers]string
	for i := range names {
		names[i] = fmt.Sprintf("Bot %d", i)
	}
	game, _, err := svc.StartGame(names, seed)
	if err != nil {
		return result{}, err
	}

	agents := make(map[domain.Seat]*bot.Agent, domain.NumPlayers)
	for seat := domain.Seat(0); seat < domain.NumPlayers; seat++ {
		brain, err := bot.NewBrain(level, rand.New(rand.NewSource(seed*domain.NumPlayers+int64(seat))))
		if err != nil {
			return result{}, err
		}
		agents[seat] = bot.NewAgent(seat, names[seat], brain)
	}

	res := result{opener: game.Match.CurrentPlayer()}
	r := table.New(svc, game, agents, table.WithThinkDelay(0), table.WithLogger(logger))
	for turn := 0; ; turn++ {
		if winner, ok := game.Match.Winner(); ok {
			res.winner = winner
			break
		}
		if turn >= MaxTurns {
			return result{}, ErrTurnLimit
		}
		if _, err := r.Step(ctx); err != nil {
			return result{}, err
		}
	}
	res.plays = game.Match.Plays()
	res.resets = game.Match.TrickResets()
	return res, nil
}
