package bot

import (
	"github.com/charmbracelet/log"

	"github.com/lox/kittenforbots/internal/game"
)

// TrackerBot remembers what See the Future showed it and steers around
// known Exploding Kittens. Knowledge decays as cards are drawn and is
// discarded entirely whenever the deck order changes under it.
type TrackerBot struct {
	defaults
	logger *log.Logger

	// known holds the card types it believes sit on top of the draw
	// pile, index 0 first to be drawn
	known []game.CardType
}

// NewTrackerBot creates a new TrackerBot instance
func NewTrackerBot(name string, logger *log.Logger) *TrackerBot {
	return &TrackerBot{defaults: defaults{name: name}, logger: logger}
}

func (t *TrackerBot) OnEvent(ev game.Event, v *game.View) {
	switch ev.Type {
	case game.EventCardsPeeked:
		// addressed events only reach the peeker, so this is our own peek
		if types, ok := ev.Data["cards"].([]string); ok {
			t.known = t.known[:0]
			for _, s := range types {
				t.known = append(t.known, game.CardType(s))
			}
		}
	case game.EventCardDrawn, game.EventKittenDrawn:
		if len(t.known) > 0 {
			t.known = t.known[1:]
		}
	case game.EventDeckShuffled, game.EventKittenInserted:
		// order is no longer what we saw
		t.known = nil
	}
}

func (t *TrackerBot) TakeTurn(v *game.View) game.Action {
	if len(t.known) > 0 && t.known[0] == game.Kitten {
		// dodge the known kitten rather than draw it
		for _, typ := range []game.CardType{game.Skip, game.Attack, game.Shuffle} {
			if cards := v.CardsOfType(typ); len(cards) > 0 {
				t.logger.Debug("Dodging a known kitten", "card", cards[0].String())
				return game.PlayAction(cards[0])
			}
		}
		t.logger.Debug("Kitten on top and nothing to dodge with")
	}
	if len(t.known) == 0 {
		if scrying := v.CardsOfType(game.SeeTheFuture); len(scrying) > 0 {
			return game.PlayAction(scrying[0])
		}
	}
	return game.DrawAction()
}

// React nopes Attacks aimed our way and lets everything else through
func (t *TrackerBot) React(v *game.View, trigger game.Event) game.Action {
	nopes := v.CardsOfType(game.Nope)
	if len(nopes) == 0 {
		return game.PassAction()
	}
	if trigger.Type == game.EventCardPlayed && trigger.Data["card"] == game.Attack.String() {
		t.logger.Debug("Noping an attack", "attacker", trigger.Player)
		return game.PlayAction(nopes[0])
	}
	return game.PassAction()
}

func (t *TrackerBot) ChooseDefusePosition(v *game.View, drawPileSize int) int {
	// bury it at the bottom, far from our own next draw
	return drawPileSize
}
