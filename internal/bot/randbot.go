package bot

import (
	rand "math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/lox/kittenforbots/internal/game"
)

// RandBot picks uniformly among its legal actions. With a shared seed it
// gives reproducible matches, which makes it the workhorse for simulation
// runs and regression fixtures.
type RandBot struct {
	defaults
	rng    *rand.Rand
	logger *log.Logger
}

// NewRandBot creates a new RandBot instance
func NewRandBot(name string, rng *rand.Rand, logger *log.Logger) *RandBot {
	return &RandBot{defaults: defaults{name: name}, rng: rng, logger: logger}
}

func (r *RandBot) TakeTurn(v *game.View) game.Action {
	// Drawing is always on the menu alongside every playable single and
	// every two-of-a-kind the hand supports.
	actions := []game.Action{game.DrawAction()}
	for _, c := range playableSingles(v) {
		actions = append(actions, game.PlayAction(c))
	}
	for _, pair := range catPairs(v) {
		actions = append(actions, game.ComboAction("", pair...))
	}
	act := actions[r.rng.IntN(len(actions))]
	r.logger.Debug("Rolled an action", "options", len(actions), "action", act.Type)
	return act
}

func (r *RandBot) React(v *game.View, trigger game.Event) game.Action {
	nopes := v.CardsOfType(game.Nope)
	if len(nopes) == 0 || r.rng.IntN(2) == 0 {
		return game.PassAction()
	}
	return game.PlayAction(nopes[0])
}

func (r *RandBot) ChooseDefusePosition(v *game.View, drawPileSize int) int {
	return r.rng.IntN(drawPileSize + 1)
}

func (r *RandBot) ChooseTarget(v *game.View, candidates []string) string {
	return candidates[r.rng.IntN(len(candidates))]
}

func (r *RandBot) ChooseCardToGive(v *game.View, requester string) *game.Card {
	if len(v.Hand) == 0 {
		return nil
	}
	return v.Hand[r.rng.IntN(len(v.Hand))]
}
