package game

import "fmt"

// CardType identifies a card's rules behavior
type CardType string

const (
	Skip         CardType = "skip"
	Attack       CardType = "attack"
	Favor        CardType = "favor"
	Shuffle      CardType = "shuffle"
	SeeTheFuture CardType = "see_the_future"
	Nope         CardType = "nope"
	TacoCat      CardType = "taco_cat"
	BeardCat     CardType = "beard_cat"
	RainbowCat   CardType = "rainbow_cat"
	PotatoCat    CardType = "potato_cat"
	Cattermelon  CardType = "cattermelon"
	Kitten       CardType = "exploding_kitten"
	Defuse       CardType = "defuse"
)

// String returns the string representation of the card type
func (ct CardType) String() string {
	return string(ct)
}

// IsCat returns true for the five combo-only cat variants
func (ct CardType) IsCat() bool {
	switch ct {
	case TacoCat, BeardCat, RainbowCat, PotatoCat, Cattermelon:
		return true
	}
	return false
}

// Card is a single physical card. Cards are created once per match and then
// move between hands and piles without ever being copied - equality is
// pointer identity, so two Skips are distinct cards.
type Card struct {
	id  int
	typ CardType
}

// ID returns the card's match-unique serial number
func (c *Card) ID() int {
	return c.id
}

// Type returns the card's behavior tag
func (c *Card) Type() CardType {
	return c.typ
}

// String returns the string representation of a card (e.g. "skip#12")
func (c *Card) String() string {
	return fmt.Sprintf("%s#%d", c.typ, c.id)
}

// cardFactory mints cards with match-unique serial numbers. Only the engine
// holds one, so card creation stays a controlled step.
type cardFactory struct {
	next int
}

func (f *cardFactory) mint(typ CardType) *Card {
	f.next++
	return &Card{id: f.next, typ: typ}
}

func (f *cardFactory) minted() int {
	return f.next
}

// DeckConfig maps card types to how many copies the initial pool contains.
// Engine setup adjusts the Kitten and Defuse counts: kittens become
// players-1 (capped by the configured count, so a kitten-free deck stays
// kitten-free) and defuses are topped up to at least players+1.
type DeckConfig map[CardType]int

// DefaultDeckConfig returns the standard 2-5 player deck composition
func DefaultDeckConfig() DeckConfig {
	return DeckConfig{
		Skip:         4,
		Attack:       4,
		Favor:        4,
		Shuffle:      4,
		SeeTheFuture: 5,
		Nope:         5,
		TacoCat:      4,
		BeardCat:     4,
		RainbowCat:   4,
		PotatoCat:    4,
		Cattermelon:  4,
		Kitten:       4,
		Defuse:       6,
	}
}

// total counts every card in the config except kittens and defuses, which
// setup handles separately.
func (dc DeckConfig) playable() int {
	n := 0
	for typ, count := range dc {
		if typ == Kitten || typ == Defuse {
			continue
		}
		n += count
	}
	return n
}
