package game

// Behavior defines how a card type plays. Execute runs only after the card
// has already been moved to the discard pile and the reaction round has
// resolved in its favor; it mutates state exclusively through engine methods.
type Behavior interface {
	// Type returns the card type tag this behavior implements
	Type() CardType

	// Name returns the display name for logs and events
	Name() string

	// CanPlay reports whether the card may be played as a turn action
	CanPlay(v *View, ownTurn bool) bool

	// CanReact reports whether the card may be played inside a reaction round
	CanReact() bool

	// CanCombo reports whether the card may be a combo component
	CanCombo() bool

	// Execute applies the card's effect for the given player
	Execute(e *Engine, player string) error
}

// behaviors is the card catalog. Looked up by every validation and
// resolution path; unknown types are unplayable.
var behaviors = map[CardType]Behavior{
	Skip:         skipCard{},
	Attack:       attackCard{},
	Favor:        favorCard{},
	Shuffle:      shuffleCard{},
	SeeTheFuture: seeTheFutureCard{},
	Nope:         nopeCard{},
	TacoCat:      catCard{typ: TacoCat, name: "Taco Cat"},
	BeardCat:     catCard{typ: BeardCat, name: "Beard Cat"},
	RainbowCat:   catCard{typ: RainbowCat, name: "Rainbow Ralphing Cat"},
	PotatoCat:    catCard{typ: PotatoCat, name: "Hairy Potato Cat"},
	Cattermelon:  catCard{typ: Cattermelon, name: "Cattermelon"},
	Kitten:       kittenCard{},
	Defuse:       defuseCard{},
}

// BehaviorFor returns the behavior for a card type, or nil if unknown
func BehaviorFor(typ CardType) Behavior {
	return behaviors[typ]
}

// skipCard ends one queued turn without drawing
type skipCard struct{}

func (skipCard) Type() CardType                 { return Skip }
func (skipCard) Name() string                   { return "Skip" }
func (skipCard) CanPlay(v *View, own bool) bool { return own }
func (skipCard) CanReact() bool                 { return false }
func (skipCard) CanCombo() bool                 { return false }

func (skipCard) Execute(e *Engine, player string) error {
	return e.skipTurn(player)
}

// attackCard ends all of the acting player's turns and hands the next alive
// player two turns plus any stacked remainder
type attackCard struct{}

func (attackCard) Type() CardType                 { return Attack }
func (attackCard) Name() string                   { return "Attack" }
func (attackCard) CanPlay(v *View, own bool) bool { return own }
func (attackCard) CanReact() bool                 { return false }
func (attackCard) CanCombo() bool                 { return false }

func (attackCard) Execute(e *Engine, player string) error {
	return e.attackNextPlayer(player)
}

// favorCard asks a target to surrender a card of the target's choosing
type favorCard struct{}

func (favorCard) Type() CardType { return Favor }
func (favorCard) Name() string   { return "Favor" }

func (favorCard) CanPlay(v *View, own bool) bool {
	if !own {
		return false
	}
	// needs at least one other living player holding a card
	for _, count := range v.OtherHandCounts {
		if count > 0 {
			return true
		}
	}
	return false
}

func (favorCard) CanReact() bool { return false }
func (favorCard) CanCombo() bool { return false }

func (favorCard) Execute(e *Engine, player string) error {
	return e.resolveFavor(player)
}

// shuffleCard randomizes the draw pile
type shuffleCard struct{}

func (shuffleCard) Type() CardType                 { return Shuffle }
func (shuffleCard) Name() string                   { return "Shuffle" }
func (shuffleCard) CanPlay(v *View, own bool) bool { return own }
func (shuffleCard) CanReact() bool                 { return false }
func (shuffleCard) CanCombo() bool                 { return false }

func (shuffleCard) Execute(e *Engine, player string) error {
	return e.shuffleDrawPile(player)
}

// seeTheFutureCard privately reveals the top three draw pile cards
type seeTheFutureCard struct{}

func (seeTheFutureCard) Type() CardType                 { return SeeTheFuture }
func (seeTheFutureCard) Name() string                   { return "See the Future" }
func (seeTheFutureCard) CanPlay(v *View, own bool) bool { return own }
func (seeTheFutureCard) CanReact() bool                 { return false }
func (seeTheFutureCard) CanCombo() bool                 { return false }

func (seeTheFutureCard) Execute(e *Engine, player string) error {
	return e.revealTopCards(player, 3)
}

// nopeCard cancels the action it targets. Reaction-only: never a legal
// turn action.
type nopeCard struct{}

func (nopeCard) Type() CardType                 { return Nope }
func (nopeCard) Name() string                   { return "Nope" }
func (nopeCard) CanPlay(v *View, own bool) bool { return false }
func (nopeCard) CanReact() bool                 { return true }
func (nopeCard) CanCombo() bool                 { return false }

// Execute is a no-op: a Nope's whole effect is the parity it contributes to
// the reaction round that played it.
func (nopeCard) Execute(e *Engine, player string) error { return nil }

// catCard has no effect alone and only exists for combos
type catCard struct {
	typ  CardType
	name string
}

func (c catCard) Type() CardType                 { return c.typ }
func (c catCard) Name() string                   { return c.name }
func (c catCard) CanPlay(v *View, own bool) bool { return false }
func (c catCard) CanReact() bool                 { return false }
func (c catCard) CanCombo() bool                 { return true }

func (c catCard) Execute(e *Engine, player string) error { return nil }

// kittenCard is never playable; it only matters when drawn
type kittenCard struct{}

func (kittenCard) Type() CardType                       { return Kitten }
func (kittenCard) Name() string                         { return "Exploding Kitten" }
func (kittenCard) CanPlay(v *View, own bool) bool       { return false }
func (kittenCard) CanReact() bool                       { return false }
func (kittenCard) CanCombo() bool                       { return false }
func (kittenCard) Execute(e *Engine, player string) error { return nil }

// defuseCard is consumed automatically by explosion handling, never played
// voluntarily
type defuseCard struct{}

func (defuseCard) Type() CardType                       { return Defuse }
func (defuseCard) Name() string                         { return "Defuse" }
func (defuseCard) CanPlay(v *View, own bool) bool       { return false }
func (defuseCard) CanReact() bool                       { return false }
func (defuseCard) CanCombo() bool                       { return false }
func (defuseCard) Execute(e *Engine, player string) error { return nil }
