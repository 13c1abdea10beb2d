package game

import "sync"

// View is the restricted snapshot handed to a bot at every decision point.
// Built fresh per call; every slice and map is a copy, so nothing a bot does
// to a View can reach the engine's real state. The bot's own hand holds real
// card pointers (they are the bot's own assets and cards are immutable);
// everyone else's hand is visible only as a count.
type View struct {
	// PlayerID is the bot this view was built for
	PlayerID string

	// Hand is the bot's own cards
	Hand []*Card

	// OtherHandCounts maps every other living player to their hand size
	OtherHandCounts map[string]int

	// DrawPileCount is the number of cards left to draw. Pile contents are
	// never exposed outside an explicit See the Future peek.
	DrawPileCount int

	// DiscardPile is the full discard pile, oldest first. Public information.
	DiscardPile []*Card

	// TurnOrder is the current cyclic seating of living players
	TurnOrder []string

	// CurrentPlayer is whoever's turn it is
	CurrentPlayer string

	// MyTurnsRemaining is how many turns this bot still owes
	MyTurnsRemaining int

	mu   sync.Mutex
	msgs []string
}

// CardsOfType returns the bot's own cards of the given type
func (v *View) CardsOfType(typ CardType) []*Card {
	var out []*Card
	for _, c := range v.Hand {
		if c.typ == typ {
			out = append(out, c)
		}
	}
	return out
}

// CountOfType returns how many cards of the given type the bot holds
func (v *View) CountOfType(typ CardType) int {
	n := 0
	for _, c := range v.Hand {
		if c.typ == typ {
			n++
		}
	}
	return n
}

// CanPlayCombo reports whether the given cards form a legal combo shape:
// two of a kind, three of a kind, or five pairwise-distinct types, all
// combo-eligible and all in the bot's hand.
func (v *View) CanPlayCombo(cards []*Card) bool {
	return validComboShape(cards) && v.ownsAll(cards)
}

func (v *View) ownsAll(cards []*Card) bool {
	for _, c := range cards {
		found := false
		for _, own := range v.Hand {
			if own == c {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Say queues a table-talk message. Write-only: there is no way to read or
// drain messages through the view. The engine collects them after the
// call returns and records them as events.
func (v *View) Say(msg string) {
	v.mu.Lock()
	v.msgs = append(v.msgs, msg)
	v.mu.Unlock()
}

func (v *View) takeMessages() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	msgs := v.msgs
	v.msgs = nil
	return msgs
}

// validComboShape checks the combo rules without looking at ownership:
// exactly 2 identical types, exactly 3 identical types, or exactly 5
// pairwise-distinct types. Every component must be combo-eligible.
func validComboShape(cards []*Card) bool {
	for _, c := range cards {
		b := BehaviorFor(c.typ)
		if b == nil || !b.CanCombo() {
			return false
		}
	}
	// reject the same physical card listed twice
	for i := range cards {
		for j := i + 1; j < len(cards); j++ {
			if cards[i] == cards[j] {
				return false
			}
		}
	}
	switch len(cards) {
	case 2, 3:
		for _, c := range cards[1:] {
			if c.typ != cards[0].typ {
				return false
			}
		}
		return true
	case 5:
		seen := make(map[CardType]bool, 5)
		for _, c := range cards {
			if seen[c.typ] {
				return false
			}
			seen[c.typ] = true
		}
		return true
	}
	return false
}
