package game

import (
	"fmt"
	rand "math/rand/v2"
)

// Player holds the mutable per-player state. Only the engine touches it;
// bots only ever see projections built by State.view.
type Player struct {
	ID    string
	Hand  []*Card
	Alive bool
}

func (p *Player) holds(card *Card) bool {
	for _, c := range p.Hand {
		if c == card {
			return true
		}
	}
	return false
}

func (p *Player) firstOfType(typ CardType) *Card {
	for _, c := range p.Hand {
		if c.typ == typ {
			return c
		}
	}
	return nil
}

// State is the protected game state: the real hands, piles and roster.
// It is owned exclusively by the engine. Nothing here is handed to a bot
// directly - create a View instead.
type State struct {
	players map[string]*Player
	drawPile []*Card // index 0 is the top of the pile
	discard  []*Card
	created  int // total cards minted, for conservation checks
	removed  int // cards permanently removed (timeout kitten removal)
}

func newState() *State {
	return &State{players: make(map[string]*Player)}
}

func (s *State) addPlayer(id string) *Player {
	p := &Player{ID: id, Alive: true}
	s.players[id] = p
	return p
}

func (s *State) player(id string) *Player {
	return s.players[id]
}

func (s *State) aliveCount() int {
	n := 0
	for _, p := range s.players {
		if p.Alive {
			n++
		}
	}
	return n
}

// draw pops the top of the draw pile
func (s *State) draw() (*Card, bool) {
	if len(s.drawPile) == 0 {
		return nil, false
	}
	card := s.drawPile[0]
	s.drawPile = s.drawPile[1:]
	return card, true
}

// insertAt places a card back into the draw pile. Position 0 is the top;
// len(drawPile) is the bottom.
func (s *State) insertAt(card *Card, pos int) {
	if pos < 0 {
		pos = 0
	}
	if pos > len(s.drawPile) {
		pos = len(s.drawPile)
	}
	s.drawPile = append(s.drawPile, nil)
	copy(s.drawPile[pos+1:], s.drawPile[pos:])
	s.drawPile[pos] = card
}

// removeFromHand detaches a card from a player's hand without discarding it.
// Returns an error if the player does not hold the card - callers validate
// first, so hitting this is an invariant violation.
func (s *State) removeFromHand(playerID string, card *Card) error {
	p := s.players[playerID]
	if p == nil {
		return fmt.Errorf("unknown player %q", playerID)
	}
	for i, c := range p.Hand {
		if c == card {
			p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("player %s does not hold %s", playerID, card)
}

func (s *State) addToHand(playerID string, card *Card) {
	p := s.players[playerID]
	p.Hand = append(p.Hand, card)
}

func (s *State) toDiscard(card *Card) {
	s.discard = append(s.discard, card)
}

// takeFromDiscard reclaims a card from the discard pile (5-unique combo).
// Returns false if the card is no longer there.
func (s *State) takeFromDiscard(card *Card) bool {
	for i, c := range s.discard {
		if c == card {
			s.discard = append(s.discard[:i], s.discard[i+1:]...)
			return true
		}
	}
	return false
}

// removeKittenFromDraw permanently removes one kitten from the draw pile,
// keeping the kitten:survivor ratio intact after a timeout elimination.
func (s *State) removeKittenFromDraw() bool {
	for i, c := range s.drawPile {
		if c.typ == Kitten {
			s.drawPile = append(s.drawPile[:i], s.drawPile[i+1:]...)
			s.removed++
			return true
		}
	}
	return false
}

// shuffleDraw randomizes the draw pile in place using the engine's RNG
func (s *State) shuffleDraw(rng *rand.Rand) {
	rng.Shuffle(len(s.drawPile), func(i, j int) {
		s.drawPile[i], s.drawPile[j] = s.drawPile[j], s.drawPile[i]
	})
}

// checkConservation verifies every minted card is in exactly one place.
// A failure here is fatal to the match.
func (s *State) checkConservation() error {
	inPlay := len(s.drawPile) + len(s.discard)
	for _, p := range s.players {
		inPlay += len(p.Hand)
	}
	if inPlay+s.removed != s.created {
		return fmt.Errorf("card conservation violated: %d in play + %d removed, %d created",
			inPlay, s.removed, s.created)
	}
	return nil
}
