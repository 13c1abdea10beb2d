package game

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
)

// ErrBotTimeout is returned when a bot callback overruns its time budget.
// Unlike a panic, which degrades to a safe default, a timeout is an
// elimination-worthy fault.
var ErrBotTimeout = errors.New("bot callback timed out")

// botGuard is the fault boundary around a single bot. Every engine call
// into bot code goes through invoke, which runs the callback on its own
// goroutine, recovers panics, and races it against the clock. A timed-out
// goroutine is abandoned; it only ever held a View, so engine state is
// untouched no matter what it does afterwards.
type botGuard struct {
	bot     Bot
	name    string
	clock   quartz.Clock
	timeout time.Duration
	logger  *log.Logger

	// onFault is called whenever a panic is swallowed, so the engine can
	// put the fault on the match record
	onFault func(method string, cause error)
}

func newBotGuard(bot Bot, clock quartz.Clock, timeout time.Duration, logger *log.Logger) *botGuard {
	return &botGuard{
		bot:     bot,
		name:    bot.Name(),
		clock:   clock,
		timeout: timeout,
		logger:  logger.With("bot", bot.Name()),
	}
}

type callResult struct {
	value any
	err   error
}

func (g *botGuard) invoke(method string, fn func() any) (any, error) {
	done := make(chan callResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- callResult{err: fmt.Errorf("bot panicked in %s: %v", method, r)}
			}
		}()
		done <- callResult{value: fn()}
	}()

	timedOut := make(chan struct{})
	timer := g.clock.AfterFunc(g.timeout, func() {
		close(timedOut)
	})
	defer timer.Stop()

	select {
	case res := <-done:
		if res.err != nil {
			g.logger.Error("Bot callback fault", "method", method, "error", res.err)
			if g.onFault != nil {
				g.onFault(method, res.err)
			}
		}
		return res.value, res.err
	case <-timedOut:
		g.logger.Warn("Bot callback timed out", "method", method, "timeout", g.timeout)
		return nil, fmt.Errorf("%s: %w", method, ErrBotTimeout)
	}
}

// takeTurn asks for a turn action; faults degrade to a draw
func (g *botGuard) takeTurn(v *View) (Action, error) {
	res, err := g.invoke("take_turn", func() any { return g.bot.TakeTurn(v) })
	if errors.Is(err, ErrBotTimeout) {
		return Action{}, err
	}
	if err != nil {
		return DrawAction(), nil
	}
	return res.(Action), nil
}

// react asks for a reaction; faults degrade to a decline
func (g *botGuard) react(v *View, trigger Event) (Action, error) {
	res, err := g.invoke("react", func() any { return g.bot.React(v, trigger) })
	if errors.Is(err, ErrBotTimeout) {
		return Action{}, err
	}
	if err != nil {
		return PassAction(), nil
	}
	return res.(Action), nil
}

// onEvent delivers a notification; faults are logged and dropped. Event
// delivery shares the decision time budget - a bot that hangs in OnEvent
// is just as faulty as one that hangs choosing an action.
func (g *botGuard) onEvent(ev Event, v *View) error {
	_, err := g.invoke("on_event", func() any { g.bot.OnEvent(ev, v); return nil })
	if errors.Is(err, ErrBotTimeout) {
		return err
	}
	return nil
}

// chooseDefusePosition defaults to the top of the pile on fault
func (g *botGuard) chooseDefusePosition(v *View, drawPileSize int) (int, error) {
	res, err := g.invoke("choose_defuse_position", func() any {
		return g.bot.ChooseDefusePosition(v, drawPileSize)
	})
	if errors.Is(err, ErrBotTimeout) {
		return 0, err
	}
	if err != nil {
		return 0, nil
	}
	pos := res.(int)
	if pos < 0 {
		pos = 0
	}
	if pos > drawPileSize {
		pos = drawPileSize
	}
	return pos, nil
}

// chooseTarget defaults to the first candidate on fault or a bad answer
func (g *botGuard) chooseTarget(v *View, candidates []string) (string, error) {
	res, err := g.invoke("choose_target", func() any {
		return g.bot.ChooseTarget(v, append([]string(nil), candidates...))
	})
	if errors.Is(err, ErrBotTimeout) {
		return "", err
	}
	if err == nil {
		choice := res.(string)
		for _, c := range candidates {
			if c == choice {
				return choice, nil
			}
		}
	}
	return candidates[0], nil
}

// chooseCardToGive returns nil on fault; the caller substitutes a random card
func (g *botGuard) chooseCardToGive(v *View, requester string) (*Card, error) {
	res, err := g.invoke("choose_card_to_give", func() any {
		return g.bot.ChooseCardToGive(v, requester)
	})
	if errors.Is(err, ErrBotTimeout) {
		return nil, err
	}
	if err != nil {
		return nil, nil
	}
	card, _ := res.(*Card)
	return card, nil
}

// chooseCardType defaults to Defuse on fault - the greedy ask
func (g *botGuard) chooseCardType(v *View, target string) (CardType, error) {
	res, err := g.invoke("choose_card_type", func() any {
		return g.bot.ChooseCardType(v, target)
	})
	if errors.Is(err, ErrBotTimeout) {
		return "", err
	}
	if err != nil {
		return Defuse, nil
	}
	return res.(CardType), nil
}

// chooseFromDiscard returns nil on fault or a bad answer; the caller skips
// the reclaim
func (g *botGuard) chooseFromDiscard(v *View, discard []*Card) (*Card, error) {
	res, err := g.invoke("choose_from_discard", func() any {
		return g.bot.ChooseFromDiscard(v, append([]*Card(nil), discard...))
	})
	if errors.Is(err, ErrBotTimeout) {
		return nil, err
	}
	if err != nil {
		return nil, nil
	}
	card, _ := res.(*Card)
	return card, nil
}

// onExplode is informational; even a timeout here is ignored since the
// bot is already being eliminated
func (g *botGuard) onExplode(v *View) {
	_, _ = g.invoke("on_explode", func() any { g.bot.OnExplode(v); return nil })
}
