package server

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/kittenforbots/internal/game"
	"github.com/lox/kittenforbots/internal/protocol"
)

// RemoteBot proxies the Bot interface over a websocket. Each callback
// turns into a request message; the reply is matched by request id. A
// client that answers late or not at all gets a safe default so the
// match keeps moving, and the engine's own deadline handling decides the
// consequences.
type RemoteBot struct {
	name    string
	conn    *Connection
	logger  *log.Logger
	clock   quartz.Clock
	timeout time.Duration
}

// NewRemoteBot creates a bot backed by a remote client connection
func NewRemoteBot(name string, conn *Connection, logger *log.Logger, timeout time.Duration, clock quartz.Clock) *RemoteBot {
	return &RemoteBot{
		name:    name,
		conn:    conn,
		logger:  logger.WithPrefix("remote-bot").With("player", name),
		clock:   clock,
		timeout: timeout,
	}
}

func (b *RemoteBot) Name() string { return b.name }

func (b *RemoteBot) TakeTurn(v *game.View) game.Action {
	id, ch := b.conn.expect()
	req := protocol.TurnRequest{Type: protocol.TypeTurnRequest, RequestID: id, View: viewWire(v)}

	data, ok := b.roundTrip(id, ch, &req)
	if !ok {
		return game.DrawAction()
	}

	var msg protocol.Action
	if err := protocol.Unmarshal(data, &msg); err != nil {
		b.logger.Warn("Bad turn reply", "error", err)
		return game.DrawAction()
	}
	return b.toGameAction(v, msg)
}

func (b *RemoteBot) React(v *game.View, trigger game.Event) game.Action {
	raw, err := protocol.Marshal(trigger)
	if err != nil {
		return game.PassAction()
	}

	id, ch := b.conn.expect()
	req := protocol.ReactRequest{Type: protocol.TypeReactRequest, RequestID: id, View: viewWire(v), Trigger: raw}

	data, ok := b.roundTrip(id, ch, &req)
	if !ok {
		return game.PassAction()
	}

	var msg protocol.Action
	if err := protocol.Unmarshal(data, &msg); err != nil {
		b.logger.Warn("Bad react reply", "error", err)
		return game.PassAction()
	}
	return b.toGameAction(v, msg)
}

func (b *RemoteBot) OnEvent(ev game.Event, v *game.View) {
	raw, err := protocol.Marshal(ev)
	if err != nil {
		return
	}
	_ = b.conn.Send(&protocol.Event{Type: protocol.TypeEvent, Event: raw})
}

func (b *RemoteBot) OnExplode(v *game.View) {}

func (b *RemoteBot) ChooseDefusePosition(v *game.View, drawPileSize int) int {
	choice, ok := b.choose(protocol.ChooseRequest{
		Kind:         protocol.ChooseDefusePosition,
		View:         viewWire(v),
		DrawPileSize: drawPileSize,
	})
	if !ok {
		return 0
	}
	if choice.Position < 0 || choice.Position > drawPileSize {
		return 0
	}
	return choice.Position
}

func (b *RemoteBot) ChooseTarget(v *game.View, candidates []string) string {
	choice, ok := b.choose(protocol.ChooseRequest{
		Kind:       protocol.ChooseTarget,
		View:       viewWire(v),
		Candidates: candidates,
	})
	if ok {
		for _, c := range candidates {
			if c == choice.Target {
				return c
			}
		}
	}
	return candidates[0]
}

func (b *RemoteBot) ChooseCardToGive(v *game.View, requester string) *game.Card {
	choice, ok := b.choose(protocol.ChooseRequest{
		Kind:        protocol.ChooseCardToGive,
		View:        viewWire(v),
		RequestedBy: requester,
	})
	if ok {
		if card := cardByID(v.Hand, choice.CardID); card != nil {
			return card
		}
	}
	if len(v.Hand) > 0 {
		return v.Hand[0]
	}
	return nil
}

func (b *RemoteBot) ChooseCardType(v *game.View, target string) game.CardType {
	choice, ok := b.choose(protocol.ChooseRequest{
		Kind:          protocol.ChooseCardType,
		View:          viewWire(v),
		RequestTarget: target,
	})
	if ok && choice.CardType != "" {
		return game.CardType(choice.CardType)
	}
	return game.Defuse
}

func (b *RemoteBot) ChooseFromDiscard(v *game.View, discard []*game.Card) *game.Card {
	choice, ok := b.choose(protocol.ChooseRequest{
		Kind:  protocol.ChooseFromDiscard,
		View:  viewWire(v),
		Cards: cardsWire(discard),
	})
	if ok {
		if card := cardByID(discard, choice.CardID); card != nil {
			return card
		}
	}
	if len(discard) > 0 {
		return discard[len(discard)-1]
	}
	return nil
}

// choose runs one ChooseRequest round trip, filling in the envelope
func (b *RemoteBot) choose(req protocol.ChooseRequest) (protocol.Choice, bool) {
	id, ch := b.conn.expect()
	req.Type = protocol.TypeChooseRequest
	req.RequestID = id

	data, ok := b.roundTrip(id, ch, &req)
	if !ok {
		return protocol.Choice{}, false
	}

	var choice protocol.Choice
	if err := protocol.Unmarshal(data, &choice); err != nil {
		b.logger.Warn("Bad choice reply", "error", err, "kind", req.Kind)
		return protocol.Choice{}, false
	}
	return choice, true
}

// roundTrip sends a request and waits for its reply, the connection to
// drop, or the deadline to pass, whichever comes first
func (b *RemoteBot) roundTrip(id int, ch <-chan []byte, req any) ([]byte, bool) {
	if err := b.conn.Send(req); err != nil {
		b.conn.forget(id)
		b.logger.Warn("Failed to send request", "error", err)
		return nil, false
	}

	timedOut := make(chan struct{})
	timer := b.clock.AfterFunc(b.timeout, func() {
		close(timedOut)
	})
	defer timer.Stop()

	select {
	case data := <-ch:
		return data, true
	case <-b.conn.Done():
		b.conn.forget(id)
		return nil, false
	case <-timedOut:
		b.conn.forget(id)
		b.logger.Warn("Remote bot reply timed out", "timeout", b.timeout)
		return nil, false
	}
}

// toGameAction resolves a wire action against the live view, turning card
// ids back into the physical cards they name. Anything that does not
// resolve becomes a pass and the engine's own validation takes it from
// there.
func (b *RemoteBot) toGameAction(v *game.View, msg protocol.Action) game.Action {
	switch game.ActionType(msg.Action) {
	case game.Draw:
		return game.DrawAction()
	case game.PlayCard:
		if card := cardByID(v.Hand, msg.CardID); card != nil {
			return game.PlayAction(card)
		}
		b.logger.Warn("Remote bot played a card it does not hold", "card_id", msg.CardID)
		return game.PassAction()
	case game.PlayCombo:
		cards := make([]*game.Card, 0, len(msg.CardIDs))
		for _, cid := range msg.CardIDs {
			card := cardByID(v.Hand, cid)
			if card == nil {
				b.logger.Warn("Remote bot combo names a card it does not hold", "card_id", cid)
				return game.PassAction()
			}
			cards = append(cards, card)
		}
		act := game.ComboAction(msg.Target, cards...)
		act.NamedType = game.CardType(msg.NamedType)
		return act
	default:
		return game.PassAction()
	}
}

func viewWire(v *game.View) protocol.View {
	return protocol.View{
		PlayerID:         v.PlayerID,
		Hand:             cardsWire(v.Hand),
		OtherHandCounts:  v.OtherHandCounts,
		DrawPileCount:    v.DrawPileCount,
		DiscardPile:      cardsWire(v.DiscardPile),
		TurnOrder:        v.TurnOrder,
		CurrentPlayer:    v.CurrentPlayer,
		MyTurnsRemaining: v.MyTurnsRemaining,
	}
}

func cardsWire(cards []*game.Card) []protocol.Card {
	out := make([]protocol.Card, len(cards))
	for i, c := range cards {
		out[i] = protocol.Card{ID: c.ID(), Type: c.Type().String()}
	}
	return out
}

func cardByID(cards []*game.Card, id int) *game.Card {
	for _, c := range cards {
		if c.ID() == id {
			return c
		}
	}
	return nil
}
