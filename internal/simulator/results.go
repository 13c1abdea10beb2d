package simulator

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/lox/kittenforbots/internal/game"
)

// BotStats accumulates outcomes for a single seat across matches
type BotStats struct {
	Matches      int
	Wins         int
	Eliminations int // matches where the bot did not survive
	Timeouts     int // eliminations caused by a callback deadline
	PlacementSum int // sum of final ranks, 1 is best
}

// MeanPlacement returns the average finishing rank
func (b *BotStats) MeanPlacement() float64 {
	if b.Matches == 0 {
		return 0
	}
	return float64(b.PlacementSum) / float64(b.Matches)
}

// Results tracks aggregate outcomes across a simulation run. Add is safe
// to call from concurrent match workers.
type Results struct {
	mu      sync.Mutex
	Matches int
	Draws   int
	Turns   int
	perBot  map[string]*BotStats
}

// NewResults creates an empty results accumulator
func NewResults() *Results {
	return &Results{perBot: make(map[string]*BotStats)}
}

// Add folds one finished match into the totals
func (r *Results) Add(result *game.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Matches++
	r.Turns += result.Turns
	if result.Winner == "" {
		r.Draws++
	}

	timedOut := make(map[string]bool)
	eliminated := make(map[string]bool)
	for _, ev := range result.Events {
		switch ev.Type {
		case game.EventBotTimeout:
			timedOut[ev.Player] = true
		case game.EventPlayerEliminated:
			eliminated[ev.Player] = true
		}
	}

	for name, rank := range result.Placements {
		s := r.perBot[name]
		if s == nil {
			s = &BotStats{}
			r.perBot[name] = s
		}
		s.Matches++
		s.PlacementSum += rank
		if name == result.Winner {
			s.Wins++
		}
		// survivors of a drawn match are neither winners nor eliminations
		if eliminated[name] {
			s.Eliminations++
		}
		if timedOut[name] {
			s.Timeouts++
		}
	}
}

// Bot returns the accumulated stats for a named seat, or nil
func (r *Results) Bot(name string) *BotStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.perBot[name]
}

// Summary renders a leaderboard sorted by wins
func (r *Results) Summary() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.perBot))
	for name := range r.perBot {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		a, b := r.perBot[names[i]], r.perBot[names[j]]
		if a.Wins != b.Wins {
			return a.Wins > b.Wins
		}
		return names[i] < names[j]
	})

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d matches (%d draws), %d turns total\n", r.Matches, r.Draws, r.Turns)
	for _, name := range names {
		s := r.perBot[name]
		fmt.Fprintf(&sb, "  %-16s wins=%-4d winrate=%5.1f%% avg-place=%.2f timeouts=%d\n",
			name, s.Wins, 100*float64(s.Wins)/float64(max(s.Matches, 1)), s.MeanPlacement(), s.Timeouts)
	}
	return sb.String()
}
