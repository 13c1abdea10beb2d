// Package bot provides the built-in bot strategies. They exist to exercise
// the engine and to give uploaded bots something to lose to; none of them
// are meant to be strong.
package bot

import (
	"github.com/lox/kittenforbots/internal/game"
)

// defaults supplies safe implementations of the callback methods so each
// strategy only overrides what it has an opinion about.
type defaults struct {
	name string
}

func (d *defaults) Name() string { return d.name }

func (d *defaults) OnEvent(ev game.Event, v *game.View) {}

func (d *defaults) OnExplode(v *game.View) {}

func (d *defaults) ChooseDefusePosition(v *game.View, drawPileSize int) int {
	// back on top: the next drawer's problem
	return 0
}

func (d *defaults) ChooseTarget(v *game.View, candidates []string) string {
	return candidates[0]
}

// ChooseCardToGive surrenders a cat when possible, keeping the cards that
// actually do something.
func (d *defaults) ChooseCardToGive(v *game.View, requester string) *game.Card {
	for _, c := range v.Hand {
		if c.Type().IsCat() {
			return c
		}
	}
	if len(v.Hand) > 0 {
		return v.Hand[0]
	}
	return nil
}

func (d *defaults) ChooseCardType(v *game.View, target string) game.CardType {
	return game.Defuse
}

func (d *defaults) ChooseFromDiscard(v *game.View, discard []*game.Card) *game.Card {
	// prefer reclaiming a Defuse, otherwise the freshest discard
	for _, c := range discard {
		if c.Type() == game.Defuse {
			return c
		}
	}
	if len(discard) > 0 {
		return discard[len(discard)-1]
	}
	return nil
}

// playableSingles returns the cards in hand that are legal turn actions
func playableSingles(v *game.View) []*game.Card {
	var out []*game.Card
	for _, c := range v.Hand {
		b := game.BehaviorFor(c.Type())
		if b != nil && b.CanPlay(v, true) {
			out = append(out, c)
		}
	}
	return out
}

// catPairs returns one two-of-a-kind combo per cat type held twice, in
// hand order so choices stay reproducible under a fixed seed.
func catPairs(v *game.View) [][]*game.Card {
	seen := make(map[game.CardType]bool)
	var out [][]*game.Card
	for _, c := range v.Hand {
		if !c.Type().IsCat() || seen[c.Type()] {
			continue
		}
		seen[c.Type()] = true
		if pair := v.CardsOfType(c.Type()); len(pair) >= 2 {
			out = append(out, pair[:2])
		}
	}
	return out
}
