// Package simulator plays batches of matches between built-in bots,
// collecting win statistics and optionally archiving every match history
// for replay.
package simulator

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/lox/kittenforbots/internal/bot"
	"github.com/lox/kittenforbots/internal/game"
	"github.com/lox/kittenforbots/internal/gameid"
	"github.com/lox/kittenforbots/internal/randutil"
)

// Config holds configuration for a simulation run
type Config struct {
	Matches     int
	Seed        int64
	Parallelism int    // concurrent matches, defaults to GOMAXPROCS
	HistoryDir  string // when set, each match history is written here as <id>.json
	Sim         *SimConfig
	Logger      *log.Logger
}

// Simulator runs batches of matches
type Simulator struct {
	config Config
}

// New creates a new simulator with the given configuration
func New(config Config) *Simulator {
	if config.Matches <= 0 {
		config.Matches = 1
	}
	if config.Parallelism <= 0 {
		config.Parallelism = runtime.GOMAXPROCS(0)
	}
	if config.Sim == nil {
		config.Sim = DefaultSimConfig()
	}
	if config.Logger == nil {
		config.Logger = log.Default()
	}
	return &Simulator{config: config}
}

// Run executes the configured number of matches and returns aggregate
// results. Matches are independent, each derives its own seed from the
// base seed, so results do not depend on scheduling order.
func (s *Simulator) Run() (*Results, error) {
	if err := s.config.Sim.Validate(); err != nil {
		return nil, err
	}
	if s.config.HistoryDir != "" {
		if err := os.MkdirAll(s.config.HistoryDir, 0o755); err != nil {
			return nil, err
		}
	}

	results := NewResults()
	var g errgroup.Group
	g.SetLimit(s.config.Parallelism)

	for i := 0; i < s.config.Matches; i++ {
		g.Go(func() error {
			return s.playMatch(i, results)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// playMatch runs a single match end to end and folds it into results
func (s *Simulator) playMatch(index int, results *Results) error {
	matchSeed := s.config.Seed + int64(index)
	timeout, err := time.ParseDuration(s.config.Sim.Game.Timeout)
	if err != nil {
		return err
	}

	cfg := game.DefaultConfig()
	cfg.Seed = matchSeed
	cfg.HandSize = s.config.Sim.Game.HandSize
	cfg.MaxTurns = s.config.Sim.Game.MaxTurns
	cfg.Timeout = timeout
	if len(s.config.Sim.Game.Deck) > 0 {
		cfg.Deck = make(game.DeckConfig, len(s.config.Sim.Game.Deck))
		for typ, n := range s.config.Sim.Game.Deck {
			cfg.Deck[game.CardType(typ)] = n
		}
	}

	logger := s.config.Logger.With("match", index, "seed", matchSeed)
	eng := game.New(cfg, logger)

	for _, b := range s.buildBots(matchSeed) {
		if err := eng.Register(b); err != nil {
			return fmt.Errorf("match %d: %w", index, err)
		}
	}

	result, err := eng.Run()
	if err != nil {
		return fmt.Errorf("match %d (seed %d): %w", index, matchSeed, err)
	}
	results.Add(result)

	if s.config.HistoryDir != "" {
		path := filepath.Join(s.config.HistoryDir, gameid.Generate()+".json")
		if err := eng.History().SaveToFile(path); err != nil {
			return fmt.Errorf("saving history for match %d: %w", index, err)
		}
		logger.Debug("Saved match history", "path", path)
	}
	return nil
}

// buildBots creates fresh bot instances for one match. Bots never carry
// state across matches; each match gets its own strategies seeded from
// the match seed so runs stay reproducible.
func (s *Simulator) buildBots(matchSeed int64) []game.Bot {
	var bots []game.Bot
	seat := 0
	for _, spec := range s.config.Sim.Bots {
		count := max(spec.Count, 1)
		for i := 0; i < count; i++ {
			name := spec.Name
			if count > 1 {
				name = fmt.Sprintf("%s-%d", spec.Name, i+1)
			}
			seat++

			logger := s.config.Logger.With("bot", name)
			switch spec.Strategy {
			case "draw":
				bots = append(bots, bot.NewDrawBot(name, logger))
			case "tracker":
				bots = append(bots, bot.NewTrackerBot(name, logger))
			default:
				botSeed := spec.Seed
				if botSeed == 0 {
					botSeed = matchSeed + int64(seat)*1000003
				}
				bots = append(bots, bot.NewRandBot(name, randutil.New(botSeed), logger))
			}
		}
	}
	return bots
}
