package game

// ActionType is the closed set of things a bot can ask for
type ActionType string

const (
	// Draw ends one queued turn by drawing the top card
	Draw ActionType = "draw"

	// PlayCard plays a single card from hand
	PlayCard ActionType = "play_card"

	// PlayCombo plays 2, 3 or 5 cards together as a combo
	PlayCombo ActionType = "play_combo"

	// Pass declines to act. As a turn action it is treated as a draw;
	// inside a reaction round it declines to react.
	Pass ActionType = "pass"
)

// Action is what a bot returns from TakeTurn or React. The zero value is
// a Pass.
type Action struct {
	Type ActionType

	// Card is the card to play for PlayCard (and for a Nope reaction)
	Card *Card

	// Cards are the combo components for PlayCombo
	Cards []*Card

	// Target optionally names the player a Favor or combo is aimed at.
	// Left empty, the engine asks the bot through ChooseTarget.
	Target string

	// NamedType optionally names the card type requested by a
	// three-of-a-kind combo.
	NamedType CardType
}

// DrawAction returns a draw action
func DrawAction() Action {
	return Action{Type: Draw}
}

// PlayAction returns a single-card play
func PlayAction(card *Card) Action {
	return Action{Type: PlayCard, Card: card}
}

// ComboAction returns a combo play
func ComboAction(target string, cards ...*Card) Action {
	return Action{Type: PlayCombo, Cards: cards, Target: target}
}

// PassAction returns a pass/decline
func PassAction() Action {
	return Action{Type: Pass}
}

// IsPass reports whether the action declines to do anything
func (a Action) IsPass() bool {
	return a.Type == Pass || a.Type == ""
}
