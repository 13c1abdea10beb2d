package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPeekFindsTypeTag(t *testing.T) {
	data, err := Marshal(&Join{Type: TypeJoin, Name: "TestBot"})
	require.NoError(t, err)

	typ, err := Peek(data)
	require.NoError(t, err)
	require.Equal(t, TypeJoin, typ)
}

func TestPeekRejectsUntaggedMessage(t *testing.T) {
	_, err := Peek([]byte(`{"name":"no-type"}`))
	require.ErrorIs(t, err, ErrUnknownMessageType)

	_, err = Peek([]byte(`this is not json`))
	require.Error(t, err)
}

func TestTurnRequestRoundTrip(t *testing.T) {
	original := TurnRequest{
		Type:      TypeTurnRequest,
		RequestID: 7,
		View: View{
			PlayerID:         "alpha",
			Hand:             []Card{{ID: 3, Type: "skip"}, {ID: 9, Type: "nope"}},
			OtherHandCounts:  map[string]int{"beta": 4},
			DrawPileCount:    21,
			TurnOrder:        []string{"alpha", "beta"},
			CurrentPlayer:    "alpha",
			MyTurnsRemaining: 2,
		},
	}

	data, err := Marshal(&original)
	require.NoError(t, err)

	var decoded TurnRequest
	require.NoError(t, Unmarshal(data, &decoded))
	require.Equal(t, original, decoded)
}

func TestActionOmitsEmptyFields(t *testing.T) {
	data, err := Marshal(&Action{Type: TypeAction, RequestID: 1, Action: "draw"})
	require.NoError(t, err)

	var generic map[string]any
	require.NoError(t, json.Unmarshal(data, &generic))
	require.NotContains(t, generic, "card_id")
	require.NotContains(t, generic, "card_ids")
	require.NotContains(t, generic, "target")
}

func TestChooseRequestCarriesKindSpecificFields(t *testing.T) {
	req := ChooseRequest{
		Type:         TypeChooseRequest,
		RequestID:    4,
		Kind:         ChooseDefusePosition,
		DrawPileSize: 13,
	}

	data, err := Marshal(&req)
	require.NoError(t, err)

	var decoded ChooseRequest
	require.NoError(t, Unmarshal(data, &decoded))
	require.Equal(t, ChooseDefusePosition, decoded.Kind)
	require.Equal(t, 13, decoded.DrawPileSize)
}
