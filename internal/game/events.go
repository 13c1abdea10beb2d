package game

// EventType represents a game event type with type safety
type EventType string

const (
	EventGameStart        EventType = "game_start"
	EventGameEnd          EventType = "game_end"
	EventTurnStart        EventType = "turn_start"
	EventTurnEnd          EventType = "turn_end"
	EventCardDrawn        EventType = "card_drawn"
	EventCardPlayed       EventType = "card_played"
	EventComboPlayed      EventType = "combo_played"
	EventReactionStart    EventType = "reaction_round_start"
	EventReactionEnd      EventType = "reaction_round_end"
	EventReactionPlayed   EventType = "reaction_played"
	EventReactionDeclined EventType = "reaction_declined"
	EventKittenDrawn      EventType = "kitten_drawn"
	EventKittenDefused    EventType = "kitten_defused"
	EventKittenInserted   EventType = "kitten_inserted"
	EventDeckShuffled     EventType = "deck_shuffled"
	EventTurnsAdded       EventType = "turns_added"
	EventTurnSkipped      EventType = "turn_skipped"
	EventCardsPeeked      EventType = "cards_peeked"
	EventFavorRequested   EventType = "favor_requested"
	EventCardGiven        EventType = "card_given"
	EventCardStolen       EventType = "card_stolen"
	EventComboMissed      EventType = "combo_missed"
	EventDiscardReclaimed EventType = "discard_reclaimed"
	EventPlayerJoined     EventType = "player_joined"
	EventPlayerEliminated EventType = "player_eliminated"
	EventPlayerMessage    EventType = "player_message"
	EventIllegalAction    EventType = "illegal_action"
	EventBotFault         EventType = "bot_fault"
	EventBotTimeout       EventType = "bot_timeout"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// Event is one immutable entry in the match history: a type, a
// monotonically increasing step, the player it concerns (if any), and
// structured data. The recorded history keeps the full truth; what each
// bot gets to see is decided at broadcast time, not here.
type Event struct {
	Type   EventType      `json:"event_type"`
	Step   int            `json:"step"`
	Player string         `json:"player_id,omitempty"`
	Data   map[string]any `json:"data,omitempty"`
}

// privateDataKeys lists data fields that never leave the engine except to
// the player the event is addressed to. Everything else is public record.
var privateDataKeys = map[EventType][]string{
	EventCardDrawn:      {"card", "card_id"},
	EventCardsPeeked:    {"cards"},
	EventKittenInserted: {"position"},
	EventCardGiven:      {"card", "card_id"},
	EventCardStolen:     {"card", "card_id"},
}

// sanitized returns a copy of the event safe to show a non-addressed
// observer: private data fields are stripped, the event itself remains so
// bots can still track that something happened.
func (ev Event) sanitized() Event {
	keys := privateDataKeys[ev.Type]
	if len(keys) == 0 || len(ev.Data) == 0 {
		return ev
	}
	data := make(map[string]any, len(ev.Data))
	for k, v := range ev.Data {
		data[k] = v
	}
	for _, k := range keys {
		delete(data, k)
	}
	ev.Data = data
	return ev
}

// visibleTo reports whether the event should be delivered to the given
// player at all. Peeks are addressed to the peeker only.
func (ev Event) visibleTo(player string) bool {
	if ev.Type == EventCardsPeeked {
		return ev.Player == player
	}
	return true
}
