// Package protocol defines the JSON messages exchanged between the match
// server and remote bots over a websocket. Messages carry a type tag so a
// reader can peek before decoding the full payload.
package protocol

import "encoding/json"

// MessageType identifies the type of message
type MessageType string

const (
	// Client -> Server
	TypeJoin   = "join"
	TypeAction = "action"
	TypeChoice = "choice"

	// Server -> Client
	TypeTurnRequest   = "turn_request"
	TypeReactRequest  = "react_request"
	TypeChooseRequest = "choose_request"
	TypeEvent         = "event"
	TypeMatchResult   = "match_result"
	TypeError         = "error"
)

// Choice kinds used by ChooseRequest
const (
	ChooseDefusePosition = "defuse_position"
	ChooseTarget         = "target"
	ChooseCardToGive     = "card_to_give"
	ChooseCardType       = "card_type"
	ChooseFromDiscard    = "from_discard"
)

// Card is the wire form of a card. The ID is stable for the duration of a
// match and is how a bot refers to a specific physical card in its hand.
type Card struct {
	ID   int    `json:"id"`
	Type string `json:"type"`
}

// View is the wire form of a player's visible game state
type View struct {
	PlayerID         string         `json:"player_id"`
	Hand             []Card         `json:"hand"`
	OtherHandCounts  map[string]int `json:"other_hand_counts"`
	DrawPileCount    int            `json:"draw_pile_count"`
	DiscardPile      []Card         `json:"discard_pile"`
	TurnOrder        []string       `json:"turn_order"`
	CurrentPlayer    string         `json:"current_player"`
	MyTurnsRemaining int            `json:"my_turns_remaining"`
}

// Client -> Server Messages

// Join is sent by a client immediately after connecting
type Join struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

// Action answers a TurnRequest or ReactRequest
type Action struct {
	Type      string `json:"type"`
	RequestID int    `json:"request_id"`
	Action    string `json:"action"` // draw, play_card, play_combo, pass
	CardID    int    `json:"card_id,omitempty"`
	CardIDs   []int  `json:"card_ids,omitempty"`
	Target    string `json:"target,omitempty"`
	NamedType string `json:"named_type,omitempty"`
}

// Choice answers a ChooseRequest; only the field matching the request
// kind is read.
type Choice struct {
	Type      string `json:"type"`
	RequestID int    `json:"request_id"`
	Position  int    `json:"position,omitempty"`
	Target    string `json:"target,omitempty"`
	CardID    int    `json:"card_id,omitempty"`
	CardType  string `json:"card_type,omitempty"`
}

// Server -> Client Messages

// TurnRequest asks a bot for its next turn action
type TurnRequest struct {
	Type      string `json:"type"`
	RequestID int    `json:"request_id"`
	View      View   `json:"view"`
}

// ReactRequest asks a bot whether it wants to play a Nope against the
// triggering event
type ReactRequest struct {
	Type      string          `json:"type"`
	RequestID int             `json:"request_id"`
	View      View            `json:"view"`
	Trigger   json.RawMessage `json:"trigger"`
}

// ChooseRequest asks a bot to make one of the secondary decisions (where
// to bury a kitten, who to target, which card to hand over)
type ChooseRequest struct {
	Type          string   `json:"type"`
	RequestID     int      `json:"request_id"`
	Kind          string   `json:"kind"`
	View          View     `json:"view"`
	Candidates    []string `json:"candidates,omitempty"`
	Cards         []Card   `json:"cards,omitempty"`
	DrawPileSize  int      `json:"draw_pile_size,omitempty"`
	RequestedBy   string   `json:"requested_by,omitempty"`
	RequestTarget string   `json:"request_target,omitempty"`
}

// Event forwards a sanitized game event to the client
type Event struct {
	Type  string          `json:"type"`
	Event json.RawMessage `json:"event"`
}

// MatchResult is the final message of a match
type MatchResult struct {
	Type       string         `json:"type"`
	Winner     string         `json:"winner"`
	Placements map[string]int `json:"placements"`
	Turns      int            `json:"turns"`
}

// Error reports a protocol-level problem to the client
type Error struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
