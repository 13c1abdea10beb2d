package game

import (
	"errors"
	"fmt"
	rand "math/rand/v2"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/kittenforbots/internal/randutil"
)

// maxReactionDepth caps Nope-chain nesting. The real bound is the number of
// Nope cards in the deck; this is a backstop against a broken deck config.
const maxReactionDepth = 64

// Config holds everything an engine needs to run one match. Constructed
// once by the host and passed in; the engine never reads ambient settings.
type Config struct {
	// Deck is the card pool composition. Kitten and Defuse counts are
	// adjusted during setup regardless of what it says.
	Deck DeckConfig

	// HandSize is how many cards each player is dealt
	HandSize int

	// MaxTurns is the safety cutoff on turn actions before the match is
	// declared a draw
	MaxTurns int

	// Timeout is the wall-clock budget for every single bot callback
	Timeout time.Duration

	// Seed drives all randomness. Same seed, same bots, same config:
	// identical event history.
	Seed int64
}

// DefaultConfig returns a standard match configuration
func DefaultConfig() Config {
	return Config{
		Deck:     DefaultDeckConfig(),
		HandSize: 5,
		MaxTurns: 1000,
		Timeout:  time.Second,
	}
}

// Result is what a finished match hands back to the host for persistence.
// The engine itself never writes anywhere.
type Result struct {
	Winner     string         // empty when the match ended in a draw or abort
	Placements map[string]int // 1 is best; simultaneous survivors share a rank
	Turns      int            // turn actions consumed
	Events     []Event        // the full replayable history
}

// Engine runs a single match from setup to termination, producing a
// complete event history. One engine, one match; engines share nothing, so
// any number can run in parallel.
type Engine struct {
	cfg     Config
	logger  *log.Logger
	clock   quartz.Clock
	rng     *rand.Rand
	factory cardFactory

	state   *State
	turns   *TurnManager
	history *History

	bots   map[string]*botGuard
	roster []string // registration order

	eliminated []string // elimination order, for placements
	turnCount  int
	started    bool
	abortErr   error
}

// Option configures an engine at construction time
type Option func(*Engine)

// WithClock substitutes the clock used for bot-call timeouts; tests pass
// a quartz mock
func WithClock(clock quartz.Clock) Option {
	return func(e *Engine) { e.clock = clock }
}

// New creates an engine for one match
func New(cfg Config, logger *log.Logger, opts ...Option) *Engine {
	if cfg.Deck == nil {
		cfg.Deck = DefaultDeckConfig()
	}
	if cfg.HandSize <= 0 {
		cfg.HandSize = 5
	}
	if cfg.MaxTurns <= 0 {
		cfg.MaxTurns = 1000
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = time.Second
	}
	e := &Engine{
		cfg:     cfg,
		logger:  logger.WithPrefix("engine"),
		clock:   quartz.NewReal(),
		rng:     randutil.New(cfg.Seed),
		state:   newState(),
		history: NewHistory(),
		bots:    make(map[string]*botGuard),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Register adds a bot to the match roster. The host decides how bot
// implementations are obtained; the engine only ever sees the contract.
func (e *Engine) Register(bot Bot) error {
	if e.started {
		return errors.New("cannot register bots after the match has started")
	}
	name := bot.Name()
	if name == "" {
		return errors.New("bot name must not be empty")
	}
	if _, dup := e.bots[name]; dup {
		return fmt.Errorf("bot %q already registered", name)
	}
	guard := newBotGuard(bot, e.clock, e.cfg.Timeout, e.logger)
	// faults go straight to the history, not through record, so a bot
	// that panics on every notification cannot recurse
	guard.onFault = func(method string, cause error) {
		e.history.Record(EventBotFault, name, map[string]any{
			"method": method,
			"cause":  cause.Error(),
		})
	}
	e.bots[name] = guard
	e.roster = append(e.roster, name)
	e.history.Record(EventPlayerJoined, name, nil)
	return nil
}

// History returns the match history recorded so far
func (e *Engine) History() *History {
	return e.history
}

// Run plays the match to completion and returns the result. A fatal
// invariant violation aborts the match; the history still ends with a
// terminal game_end event carrying no winner.
func (e *Engine) Run() (*Result, error) {
	if err := e.setup(); err != nil {
		return nil, err
	}
	for e.abortErr == nil && e.state.aliveCount() > 1 && e.turnCount < e.cfg.MaxTurns {
		e.playTurn()
		if err := e.state.checkConservation(); err != nil {
			e.abortErr = err
			e.logger.Error("Fatal invariant violation, aborting match", "error", err)
		}
	}
	return e.finalize()
}

func (e *Engine) setup() error {
	if len(e.roster) < 2 {
		return errors.New("a match needs at least two bots")
	}
	e.started = true
	players := len(e.roster)

	// playable pool must cover the initial deals
	if e.cfg.Deck.playable() < players*e.cfg.HandSize {
		return fmt.Errorf("deck too small: %d playable cards for %d players at hand size %d",
			e.cfg.Deck.playable(), players, e.cfg.HandSize)
	}

	// random seating
	order := append([]string(nil), e.roster...)
	e.rng.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})
	for _, id := range order {
		e.state.addPlayer(id)
	}
	e.turns = NewTurnManager(order)

	// mint the Kitten/Defuse-free pool, in sorted type order so the deck
	// is a pure function of the seed
	types := make([]CardType, 0, len(e.cfg.Deck))
	for typ := range e.cfg.Deck {
		if typ == Kitten || typ == Defuse {
			continue
		}
		types = append(types, typ)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	var pool []*Card
	for _, typ := range types {
		for i := 0; i < e.cfg.Deck[typ]; i++ {
			pool = append(pool, e.factory.mint(typ))
		}
	}
	e.rng.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})

	// initial deals come from the explosion-free pool
	for _, id := range order {
		for i := 0; i < e.cfg.HandSize; i++ {
			e.state.addToHand(id, pool[0])
			pool = pool[1:]
		}
	}

	// every player is guaranteed one Defuse; the reserve tops up the
	// configured count when it would not stretch that far
	defuseCount := e.cfg.Deck[Defuse]
	if defuseCount < players+1 {
		defuseCount = players + 1
	}
	defuses := make([]*Card, 0, defuseCount)
	for i := 0; i < defuseCount; i++ {
		defuses = append(defuses, e.factory.mint(Defuse))
	}
	for _, id := range order {
		e.state.addToHand(id, defuses[0])
		defuses = defuses[1:]
	}
	pool = append(pool, defuses...)

	// players-1 kittens back into the deck, capped by the configured
	// count so an explicitly kitten-free deck stays explosion-free
	kittens := players - 1
	if configured := e.cfg.Deck[Kitten]; configured < kittens {
		kittens = configured
	}
	for i := 0; i < kittens; i++ {
		pool = append(pool, e.factory.mint(Kitten))
	}
	e.rng.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
	e.state.drawPile = pool
	e.state.created = e.factory.minted()

	e.logger.Info("Match starting",
		"players", players,
		"hand_size", e.cfg.HandSize,
		"draw_pile", len(e.state.drawPile),
		"seed", e.cfg.Seed)

	e.record(EventGameStart, "", map[string]any{
		"turn_order": e.turns.Order(),
		"hand_size":  e.cfg.HandSize,
		"deck_size":  len(e.state.drawPile),
	})
	e.record(EventTurnStart, e.turns.Current(), map[string]any{
		"turns_remaining": e.turns.TurnsRemaining(e.turns.Current()),
	})
	return nil
}

// playTurn asks the current player for one turn action and applies it
func (e *Engine) playTurn() {
	p := e.turns.Current()
	pl := e.state.player(p)
	if pl == nil || !pl.Alive {
		// should be unreachable: eliminations unseat players immediately
		e.abortErr = fmt.Errorf("current player %q is not alive", p)
		return
	}
	e.turnCount++

	guard := e.bots[p]
	view := e.viewFor(p)
	act, err := guard.takeTurn(view)
	e.drainMessages(p, view)
	if err != nil {
		e.eliminateForTimeout(p)
		return
	}

	switch act.Type {
	case PlayCard:
		if err := e.playSingle(p, act); err != nil {
			e.rejectIllegal(p, err)
			e.performDraw(p)
		}
	case PlayCombo:
		if err := e.playCombo(p, act); err != nil {
			e.rejectIllegal(p, err)
			e.performDraw(p)
		}
	default:
		e.performDraw(p)
	}
}

// rejectIllegal logs and records an illegal action without any state
// change; the caller then falls back to a draw.
func (e *Engine) rejectIllegal(p string, cause error) {
	e.logger.Warn("Illegal action", "player", p, "cause", cause)
	e.record(EventIllegalAction, p, map[string]any{"cause": cause.Error()})
}

// playSingle validates and resolves a one-card play. On any validation
// failure it returns an error with no cards consumed.
func (e *Engine) playSingle(p string, act Action) error {
	card := act.Card
	if card == nil {
		return errors.New("play_card without a card")
	}
	pl := e.state.player(p)
	if !pl.holds(card) {
		return fmt.Errorf("card %s is not in hand", card)
	}
	b := BehaviorFor(card.typ)
	if b == nil {
		return fmt.Errorf("unknown card type %q", card.typ)
	}
	if !b.CanPlay(e.viewFor(p), true) {
		return fmt.Errorf("%s cannot be played now", b.Name())
	}

	// the card leaves the hand before resolution; a Nope still costs it
	if err := e.state.removeFromHand(p, card); err != nil {
		e.abortErr = err
		return nil
	}
	e.state.toDiscard(card)
	ev := e.record(EventCardPlayed, p, map[string]any{
		"card":    card.typ.String(),
		"card_id": card.id,
	})

	negated := false
	if !b.CanReact() {
		negated = e.reactionRound(ev, p, 0)
	}
	if negated {
		return nil
	}
	// the reaction round can eliminate the acting player (timeout inside a
	// nested level); a dead player's card has no effect
	if !e.state.player(p).Alive {
		return nil
	}
	if err := b.Execute(e, p); err != nil {
		e.abortErr = fmt.Errorf("executing %s: %w", b.Name(), err)
	}
	return nil
}

// playCombo validates and resolves a 2-, 3- or 5-card combo. Invalid
// shapes are rejected without consuming cards; targets are chosen before
// the reaction round opens.
func (e *Engine) playCombo(p string, act Action) error {
	cards := act.Cards
	if !validComboShape(cards) {
		return fmt.Errorf("invalid combo shape (%d cards)", len(cards))
	}
	pl := e.state.player(p)
	for _, c := range cards {
		if !pl.holds(c) {
			return fmt.Errorf("combo card %s is not in hand", c)
		}
	}
	size := len(cards)
	candidates := e.playersWithCards(p)
	if size != 5 && len(candidates) == 0 {
		return errors.New("no living player holds a card to target")
	}

	for _, c := range cards {
		if err := e.state.removeFromHand(p, c); err != nil {
			e.abortErr = err
			return nil
		}
		e.state.toDiscard(c)
	}

	var target string
	if size != 5 {
		target = act.Target
		if !contains(candidates, target) {
			chosen, err := e.bots[p].chooseTarget(e.viewFor(p), candidates)
			if err != nil {
				e.eliminateForTimeout(p)
				return nil
			}
			target = chosen
		}
	}

	var named CardType
	if size == 3 {
		named = act.NamedType
		if BehaviorFor(named) == nil {
			chosen, err := e.bots[p].chooseCardType(e.viewFor(p), target)
			if err != nil {
				e.eliminateForTimeout(p)
				return nil
			}
			named = chosen
		}
	}

	data := map[string]any{
		"cards": cardTypeStrings(cards),
		"size":  size,
	}
	if target != "" {
		data["target"] = target
	}
	if named != "" {
		data["named_type"] = named.String()
	}
	ev := e.record(EventComboPlayed, p, data)

	if e.reactionRound(ev, p, 0) {
		return nil
	}
	if !e.state.player(p).Alive {
		return nil
	}

	switch size {
	case 2:
		e.comboSteal(p, target)
	case 3:
		e.comboRequest(p, target, named)
	case 5:
		e.comboReclaim(p)
	}
	return nil
}

// comboSteal takes one random card from the target's hand
func (e *Engine) comboSteal(p, target string) {
	tp := e.state.player(target)
	if tp == nil || !tp.Alive || len(tp.Hand) == 0 {
		e.record(EventComboMissed, p, map[string]any{"target": target})
		return
	}
	card := tp.Hand[e.rng.IntN(len(tp.Hand))]
	if err := e.state.removeFromHand(target, card); err != nil {
		e.abortErr = err
		return
	}
	e.state.addToHand(p, card)
	e.record(EventCardStolen, p, map[string]any{
		"from":    target,
		"card":    card.typ.String(),
		"card_id": card.id,
	})
}

// comboRequest asks the target for a named card type. A miss is recorded
// without revealing anything else about the target's hand.
func (e *Engine) comboRequest(p, target string, named CardType) {
	tp := e.state.player(target)
	if tp == nil || !tp.Alive {
		e.record(EventComboMissed, p, map[string]any{"target": target, "named_type": named.String()})
		return
	}
	card := tp.firstOfType(named)
	if card == nil {
		e.record(EventComboMissed, p, map[string]any{"target": target, "named_type": named.String()})
		return
	}
	if err := e.state.removeFromHand(target, card); err != nil {
		e.abortErr = err
		return
	}
	e.state.addToHand(p, card)
	e.record(EventCardGiven, target, map[string]any{
		"to":      p,
		"card":    card.typ.String(),
		"card_id": card.id,
	})
}

// comboReclaim lets the player pull any card back out of the discard pile
func (e *Engine) comboReclaim(p string) {
	if len(e.state.discard) == 0 {
		e.record(EventComboMissed, p, nil)
		return
	}
	card, err := e.bots[p].chooseFromDiscard(e.viewFor(p), append([]*Card(nil), e.state.discard...))
	if err != nil {
		e.eliminateForTimeout(p)
		return
	}
	if card == nil || !e.state.takeFromDiscard(card) {
		// default to the most recent discard rather than wasting the combo
		card = e.state.discard[len(e.state.discard)-1]
		e.state.takeFromDiscard(card)
	}
	e.state.addToHand(p, card)
	// the discard pile is public, so the reclaim is too
	e.record(EventDiscardReclaimed, p, map[string]any{
		"card":    card.typ.String(),
		"card_id": card.id,
	})
}

// reactionRound runs one level of the Nope protocol. Given the triggering
// event and player, every other living player is asked exactly once, in
// turn order starting after the trigger. Each Nope played spawns a nested
// round for itself; a Nope that is itself negated does not count. The
// level cancels its trigger when an odd number of Nopes counted.
func (e *Engine) reactionRound(trigger Event, triggerPlayer string, depth int) bool {
	if depth >= maxReactionDepth {
		return false
	}
	pending := e.turns.ReactionOrder(triggerPlayer)
	e.record(EventReactionStart, triggerPlayer, map[string]any{
		"trigger_step": trigger.Step,
		"depth":        depth,
	})

	nopes := 0
	for _, reactor := range pending {
		pl := e.state.player(reactor)
		if pl == nil || !pl.Alive {
			continue
		}
		guard := e.bots[reactor]
		view := e.viewFor(reactor)
		act, err := guard.react(view, trigger)
		e.drainMessages(reactor, view)
		if err != nil {
			e.eliminateForTimeout(reactor)
			continue
		}
		nope := e.validNope(pl, act)
		if nope == nil {
			if !act.IsPass() {
				e.rejectIllegal(reactor, errors.New("reaction must play a Nope from hand"))
			}
			e.record(EventReactionDeclined, reactor, map[string]any{"trigger_step": trigger.Step})
			continue
		}

		if err := e.state.removeFromHand(reactor, nope); err != nil {
			e.abortErr = err
			return false
		}
		e.state.toDiscard(nope)
		ev := e.record(EventReactionPlayed, reactor, map[string]any{
			"card":         nope.typ.String(),
			"card_id":      nope.id,
			"trigger_step": trigger.Step,
		})

		// counter-Nopes: the Nope itself opens a nested round; only a
		// Nope that survives its own round counts at this level
		if !e.reactionRound(ev, reactor, depth+1) {
			nopes++
		}
	}

	negated := nopes%2 == 1
	e.record(EventReactionEnd, triggerPlayer, map[string]any{
		"negated": negated,
		"depth":   depth,
	})
	return negated
}

// validNope returns the Nope card an action plays, or nil if the action
// is not a legal reaction for this player.
func (e *Engine) validNope(pl *Player, act Action) *Card {
	if act.IsPass() || act.Card == nil {
		return nil
	}
	if act.Card.typ != Nope || !pl.holds(act.Card) {
		return nil
	}
	b := BehaviorFor(Nope)
	if b == nil || !b.CanReact() {
		return nil
	}
	return act.Card
}

// performDraw pops the top card for the player, handling explosions, and
// consumes exactly one queued turn.
func (e *Engine) performDraw(p string) {
	card, ok := e.state.draw()
	if !ok {
		// a deck with kittens in it cannot run dry before the match ends,
		// but a kitten-free config can; the turn still counts
		e.logger.Debug("Draw pile empty", "player", p)
		e.finishQueuedTurn(p)
		return
	}

	if card.typ == Kitten {
		// the draw is recorded before the outcome so observers can update
		// their models before knowing whether a defuse follows
		e.record(EventKittenDrawn, p, nil)
		e.handleExplosion(p, card)
		if e.state.player(p).Alive {
			e.finishQueuedTurn(p)
		}
		return
	}

	e.state.addToHand(p, card)
	// observers learn a draw happened, never which card
	e.record(EventCardDrawn, p, map[string]any{
		"card":    card.typ.String(),
		"card_id": card.id,
	})
	e.finishQueuedTurn(p)
}

// handleExplosion resolves a drawn kitten: consume a Defuse and secretly
// reinsert, or eliminate the drawer.
func (e *Engine) handleExplosion(p string, kitten *Card) {
	pl := e.state.player(p)
	guard := e.bots[p]

	defuse := pl.firstOfType(Defuse)
	if defuse == nil {
		guard.onExplode(e.viewFor(p))
		e.state.toDiscard(kitten)
		e.eliminate(p, "exploded")
		return
	}

	if err := e.state.removeFromHand(p, defuse); err != nil {
		e.abortErr = err
		return
	}
	e.state.toDiscard(defuse)
	e.record(EventKittenDefused, p, nil)

	pos, err := guard.chooseDefusePosition(e.viewFor(p), len(e.state.drawPile))
	if err != nil {
		// kitten goes back on top so the timeout elimination's kitten
		// removal keeps the deck balanced
		e.state.insertAt(kitten, 0)
		e.eliminateForTimeout(p)
		return
	}
	e.state.insertAt(kitten, pos)
	// the position is private; observers only learn a reinsert happened
	e.record(EventKittenInserted, p, map[string]any{"position": pos})
}

// finishQueuedTurn consumes one owed turn and advances when none remain
func (e *Engine) finishQueuedTurn(p string) {
	if e.turns.ConsumeTurn(p) == 0 {
		e.advanceTurn(p)
	}
}

// advanceTurn passes control to the next seated player
func (e *Engine) advanceTurn(prev string) {
	e.record(EventTurnEnd, prev, nil)
	next := e.turns.Advance()
	if next == "" {
		return
	}
	e.record(EventTurnStart, next, map[string]any{
		"turns_remaining": e.turns.TurnsRemaining(next),
	})
}

// eliminate removes a player from the match: hand flushed to discard,
// unseated, recorded. Eliminating the current player passes control
// immediately without consuming anyone's queued turns.
func (e *Engine) eliminate(p, reason string) {
	pl := e.state.player(p)
	if pl == nil || !pl.Alive {
		return
	}
	pl.Alive = false
	for _, c := range pl.Hand {
		e.state.toDiscard(c)
	}
	pl.Hand = nil

	wasCurrent := e.turns.Current() == p
	e.turns.Remove(p)
	e.eliminated = append(e.eliminated, p)
	e.logger.Info("Player eliminated", "player", p, "reason", reason)
	e.record(EventPlayerEliminated, p, map[string]any{"reason": reason})

	if wasCurrent && e.state.aliveCount() > 1 {
		next := e.turns.Current()
		e.record(EventTurnStart, next, map[string]any{
			"turns_remaining": e.turns.TurnsRemaining(next),
		})
	}
}

// eliminateForTimeout handles the elimination-worthy fault: one kitten
// leaves the deck for good so the kitten:survivor ratio stays what a
// normal explosion would have produced.
func (e *Engine) eliminateForTimeout(p string) {
	pl := e.state.player(p)
	if pl == nil || !pl.Alive {
		return
	}
	e.record(EventBotTimeout, p, nil)
	if !e.state.removeKittenFromDraw() {
		e.logger.Debug("No kitten left in draw pile to remove", "player", p)
	}
	e.eliminate(p, "timeout")
}

// skipTurn is the Skip card's effect: one queued turn ends, no draw
func (e *Engine) skipTurn(p string) error {
	e.record(EventTurnSkipped, p, nil)
	e.finishQueuedTurn(p)
	return nil
}

// attackNextPlayer is the Attack card's effect: all of the acting player's
// turns transfer, plus two, to the next seated player.
func (e *Engine) attackNextPlayer(p string) error {
	next := e.turns.Attack(p)
	if next == "" {
		return nil
	}
	e.record(EventTurnsAdded, next, map[string]any{
		"turns_remaining": e.turns.TurnsRemaining(next),
		"attacker":        p,
	})
	e.advanceTurn(p)
	return nil
}

// shuffleDrawPile is the Shuffle card's effect. Observers only learn that
// a shuffle happened; any top-card knowledge they held is their problem.
func (e *Engine) shuffleDrawPile(p string) error {
	e.state.shuffleDraw(e.rng)
	e.record(EventDeckShuffled, p, nil)
	return nil
}

// revealTopCards is the See the Future effect: the top n (or fewer) card
// types go to the acting player alone, as an addressed event.
func (e *Engine) revealTopCards(p string, n int) error {
	if n > len(e.state.drawPile) {
		n = len(e.state.drawPile)
	}
	types := make([]string, n)
	for i := 0; i < n; i++ {
		types[i] = e.state.drawPile[i].typ.String()
	}
	e.record(EventCardsPeeked, p, map[string]any{"cards": types})
	return nil
}

// resolveFavor is the Favor card's effect: the target chooses which card
// to surrender, not the requester.
func (e *Engine) resolveFavor(p string) error {
	candidates := e.playersWithCards(p)
	if len(candidates) == 0 {
		return nil
	}
	target, err := e.bots[p].chooseTarget(e.viewFor(p), candidates)
	if err != nil {
		e.eliminateForTimeout(p)
		return nil
	}
	e.record(EventFavorRequested, p, map[string]any{"target": target})

	tp := e.state.player(target)
	card, err := e.bots[target].chooseCardToGive(e.viewFor(target), p)
	if err != nil {
		e.eliminateForTimeout(target)
		return nil
	}
	if card == nil || !tp.holds(card) {
		card = tp.Hand[e.rng.IntN(len(tp.Hand))]
	}
	if err := e.state.removeFromHand(target, card); err != nil {
		e.abortErr = err
		return nil
	}
	e.state.addToHand(p, card)
	e.record(EventCardGiven, target, map[string]any{
		"to":      p,
		"card":    card.typ.String(),
		"card_id": card.id,
	})
	return nil
}

// playersWithCards returns the living players other than p holding at
// least one card, in turn order.
func (e *Engine) playersWithCards(p string) []string {
	var out []string
	for _, id := range e.turns.Order() {
		if id == p {
			continue
		}
		pl := e.state.player(id)
		if pl != nil && pl.Alive && len(pl.Hand) > 0 {
			out = append(out, id)
		}
	}
	return out
}

// viewFor builds the restricted per-call snapshot for a bot. Everything in
// it is copied; nothing aliases engine state.
func (e *Engine) viewFor(p string) *View {
	pl := e.state.player(p)
	counts := make(map[string]int)
	for id, other := range e.state.players {
		if id == p || !other.Alive {
			continue
		}
		counts[id] = len(other.Hand)
	}
	v := &View{
		PlayerID:        p,
		OtherHandCounts: counts,
		DrawPileCount:   len(e.state.drawPile),
		DiscardPile:     append([]*Card(nil), e.state.discard...),
		TurnOrder:       e.turns.Order(),
		CurrentPlayer:   e.turns.Current(),
	}
	if pl != nil {
		v.Hand = append([]*Card(nil), pl.Hand...)
		v.MyTurnsRemaining = e.turns.TurnsRemaining(p)
	}
	return v
}

// record appends an event to the history and notifies every bot allowed
// to see it, each through a fresh view, with private fields stripped for
// everyone but the players involved.
func (e *Engine) record(typ EventType, player string, data map[string]any) Event {
	ev := e.history.Record(typ, player, data)
	e.logger.Debug("Event", "type", typ, "step", ev.Step, "player", player)

	involved := map[string]bool{ev.Player: true}
	if from, ok := ev.Data["from"].(string); ok {
		involved[from] = true
	}
	if to, ok := ev.Data["to"].(string); ok {
		involved[to] = true
	}

	var timedOut []string
	for _, id := range e.roster {
		pl := e.state.player(id)
		if pl == nil || !pl.Alive || !ev.visibleTo(id) {
			continue
		}
		out := ev
		if !involved[id] {
			out = ev.sanitized()
		}
		view := e.viewFor(id)
		if err := e.bots[id].onEvent(out, view); err != nil {
			timedOut = append(timedOut, id)
		}
		// table talk from notifications goes to the record but is not
		// redelivered, so a chatty bot cannot start an event storm
		e.recordMessages(id, view.takeMessages())
	}
	for _, id := range timedOut {
		e.eliminateForTimeout(id)
	}
	return ev
}

// drainMessages records any table talk a bot queued during a decision call
func (e *Engine) drainMessages(p string, v *View) {
	e.recordMessages(p, v.takeMessages())
}

func (e *Engine) recordMessages(p string, msgs []string) {
	for _, msg := range msgs {
		e.logger.Debug("Table talk", "player", p, "message", msg)
		e.history.Record(EventPlayerMessage, p, map[string]any{"message": msg})
	}
}

// finalize records the terminal event and computes placements
func (e *Engine) finalize() (*Result, error) {
	winner := ""
	var survivors []string
	for _, id := range e.turns.Order() {
		if e.state.player(id).Alive {
			survivors = append(survivors, id)
		}
	}
	if e.abortErr == nil && len(survivors) == 1 {
		winner = survivors[0]
	}

	placements := make(map[string]int, len(e.roster))
	for _, id := range survivors {
		placements[id] = 1
	}
	for i := len(e.eliminated) - 1; i >= 0; i-- {
		placements[e.eliminated[i]] = len(survivors) + (len(e.eliminated) - i)
	}

	data := map[string]any{"turns": e.turnCount}
	if winner != "" {
		data["winner"] = winner
	}
	e.record(EventGameEnd, winner, data)

	if winner != "" {
		e.logger.Info("Match complete", "winner", winner, "turns", e.turnCount)
	} else {
		e.logger.Info("Match complete with no winner", "turns", e.turnCount, "survivors", len(survivors))
	}

	res := &Result{
		Winner:     winner,
		Placements: placements,
		Turns:      e.turnCount,
		Events:     e.history.Events(),
	}
	if e.abortErr != nil {
		return res, fmt.Errorf("match aborted: %w", e.abortErr)
	}
	return res, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func cardTypeStrings(cards []*Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.typ.String()
	}
	return out
}
