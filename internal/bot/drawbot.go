package bot

import (
	"github.com/charmbracelet/log"

	"github.com/lox/kittenforbots/internal/game"
)

// DrawBot is the simplest possible strategy: it never plays a card, never
// reacts, and ends every turn by drawing. Useful as a baseline and for
// exercising engine paths that only trigger on draws.
type DrawBot struct {
	defaults
	logger *log.Logger
}

// NewDrawBot creates a new DrawBot instance
func NewDrawBot(name string, logger *log.Logger) *DrawBot {
	return &DrawBot{defaults: defaults{name: name}, logger: logger}
}

func (d *DrawBot) TakeTurn(v *game.View) game.Action {
	d.logger.Debug("Drawing as always", "hand", len(v.Hand))
	return game.DrawAction()
}

func (d *DrawBot) React(v *game.View, trigger game.Event) game.Action {
	return game.PassAction()
}
