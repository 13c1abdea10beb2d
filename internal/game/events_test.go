package game

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizedStripsPrivateKeys(t *testing.T) {
	ev := Event{
		Type:   EventCardDrawn,
		Step:   4,
		Player: "a",
		Data:   map[string]any{"card": "skip", "card_id": 12},
	}

	clean := ev.sanitized()
	assert.NotContains(t, clean.Data, "card")
	assert.NotContains(t, clean.Data, "card_id")
	assert.Equal(t, EventCardDrawn, clean.Type, "the event itself survives")

	// the original is untouched
	assert.Equal(t, "skip", ev.Data["card"])
}

func TestSanitizedKeepsPublicKeys(t *testing.T) {
	ev := Event{
		Type:   EventCardStolen,
		Player: "a",
		Data:   map[string]any{"from": "b", "card": "defuse", "card_id": 3},
	}

	clean := ev.sanitized()
	assert.Equal(t, "b", clean.Data["from"], "who was robbed is public")
	assert.NotContains(t, clean.Data, "card", "what was taken is not")
}

func TestSanitizedNoopForPublicEvents(t *testing.T) {
	ev := Event{Type: EventTurnSkipped, Player: "a"}
	assert.Equal(t, ev, ev.sanitized())
}

func TestPeeksVisibleOnlyToPeeker(t *testing.T) {
	ev := Event{Type: EventCardsPeeked, Player: "a", Data: map[string]any{"cards": []string{"skip"}}}
	assert.True(t, ev.visibleTo("a"))
	assert.False(t, ev.visibleTo("b"))

	public := Event{Type: EventDeckShuffled, Player: "a"}
	assert.True(t, public.visibleTo("b"))
}

func TestObserversReceiveSanitizedDraws(t *testing.T) {
	var sawByB []Event
	a := &scriptBot{name: "a"}
	b := &scriptBot{name: "b", onNotify: func(ev Event, v *View) {
		sawByB = append(sawByB, ev)
	}}
	e := newMatch(t, scenarioConfig(), a, b)
	setHand(e, "a", TacoCat)
	setHand(e, "b", TacoCat)
	setDrawPile(e, Skip, TacoCat)

	e.playTurn() // a draws the skip

	var drawn []Event
	for _, ev := range sawByB {
		if ev.Type == EventCardDrawn {
			drawn = append(drawn, ev)
		}
	}
	require.Len(t, drawn, 1, "b still learns that a draw happened")
	assert.NotContains(t, drawn[0].Data, "card")
	assert.NotContains(t, drawn[0].Data, "card_id")

	// the history keeps the truth
	recorded := eventsOfType(e, EventCardDrawn)
	require.Len(t, recorded, 1)
	assert.Equal(t, "skip", recorded[0].Data["card"])
}

func TestObserversDoNotSeePeeks(t *testing.T) {
	var sawByB []EventType
	a := &scriptBot{name: "a", onTurn: playFirstOfType(SeeTheFuture)}
	b := &scriptBot{name: "b", onNotify: func(ev Event, v *View) {
		sawByB = append(sawByB, ev.Type)
	}}
	e := newMatch(t, scenarioConfig(), a, b)
	setHand(e, "a", SeeTheFuture)
	setHand(e, "b", TacoCat)
	setDrawPile(e, Skip, TacoCat, BeardCat)

	e.playTurn()

	assert.NotContains(t, sawByB, EventCardsPeeked)
	assert.Contains(t, sawByB, EventCardPlayed, "the play itself is public")
}

func TestInsertPositionHiddenFromObservers(t *testing.T) {
	var inserted *Event
	a := &scriptBot{name: "a", defusePos: func(v *View, size int) int { return 1 }}
	b := &scriptBot{name: "b", onNotify: func(ev Event, v *View) {
		if ev.Type == EventKittenInserted {
			cp := ev
			inserted = &cp
		}
	}}
	e := newMatch(t, scenarioConfig(), a, b)
	setHand(e, "a", Defuse)
	setHand(e, "b", TacoCat)
	setDrawPile(e, Kitten, TacoCat, BeardCat)

	e.playTurn()

	require.NotNil(t, inserted, "observers learn a kitten went back in")
	assert.NotContains(t, inserted.Data, "position")
	require.Len(t, eventsOfType(e, EventKittenInserted), 1)
	assert.Equal(t, 1, eventsOfType(e, EventKittenInserted)[0].Data["position"])
}

func TestHistoryStepsAreMonotonic(t *testing.T) {
	h := NewHistory()
	h.Record(EventGameStart, "", nil)
	h.Record(EventTurnStart, "a", nil)
	h.Record(EventCardDrawn, "a", map[string]any{"card": "skip"})

	events := h.Events()
	require.Len(t, events, 3)
	for i, ev := range events {
		assert.Equal(t, i+1, ev.Step)
	}
	assert.Equal(t, 3, h.Len())
}

func TestHistoryEventsReturnsCopy(t *testing.T) {
	h := NewHistory()
	h.Record(EventGameStart, "", nil)

	events := h.Events()
	events[0].Type = EventGameEnd
	assert.Equal(t, EventGameStart, h.Events()[0].Type)
}

func TestHistoryLast(t *testing.T) {
	h := NewHistory()
	h.Record(EventTurnStart, "a", nil)
	h.Record(EventTurnStart, "b", nil)

	last, ok := h.Last(EventTurnStart)
	require.True(t, ok)
	assert.Equal(t, "b", last.Player)

	_, ok = h.Last(EventGameEnd)
	assert.False(t, ok)
}

func TestEventJSONShape(t *testing.T) {
	ev := Event{Type: EventCardPlayed, Step: 9, Player: "a", Data: map[string]any{"card": "skip"}}
	data, err := json.Marshal(ev)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "card_played", decoded["event_type"])
	assert.Equal(t, float64(9), decoded["step"])
	assert.Equal(t, "a", decoded["player_id"])
}
