package game

// Bot is the decision contract the engine calls into at well-defined
// points. Implementations are registered with the engine by the host
// application; the engine has no idea how a bot was obtained.
//
// Every method is wrapped in a fault boundary: a panic inside any of them
// is caught, logged, and replaced with a safe default, and a call that
// overruns the configured time budget eliminates the bot. Implementations
// must treat the View as read-only; nothing reachable through it aliases
// engine state.
type Bot interface {
	// Name returns the bot's identity string, fixed for the match
	Name() string

	// TakeTurn is called repeatedly while it is the bot's turn. Returning
	// Draw (or Pass, or anything illegal) ends one queued turn with a draw.
	TakeTurn(v *View) Action

	// React is called inside a reaction round, once per level at most.
	// Return a PlayCard action holding a Nope to cancel the triggering
	// action; anything else declines.
	React(v *View, trigger Event) Action

	// OnEvent is a side-channel notification of every event the bot is
	// allowed to observe. The return is ignored.
	OnEvent(ev Event, v *View)

	// ChooseDefusePosition picks where the defused kitten goes back into
	// the draw pile: 0 is the top, drawPileSize the bottom. Out-of-range
	// answers are clamped.
	ChooseDefusePosition(v *View, drawPileSize int) int

	// ChooseTarget picks another player for a Favor or combo from the
	// candidates. An answer not in candidates falls back to the first.
	ChooseTarget(v *View, candidates []string) string

	// ChooseCardToGive picks which of the bot's own cards to surrender to
	// a Favor. Returning a card not in hand surrenders a random one.
	ChooseCardToGive(v *View, requester string) *Card

	// ChooseCardType names the card type demanded by a three-of-a-kind
	ChooseCardType(v *View, target string) CardType

	// ChooseFromDiscard picks the card a five-unique combo reclaims
	ChooseFromDiscard(v *View, discard []*Card) *Card

	// OnExplode is informational: the bot drew a kitten with no defuse
	// and is about to be eliminated.
	OnExplode(v *View)
}
