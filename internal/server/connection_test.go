package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/lox/kittenforbots/internal/protocol"
)

// TestCloseAfterFlushDeliversQueuedMessage proves a parting message queued
// just before disconnect still reaches the peer. A plain Close tears the
// socket down before the write pump gets to it.
func TestCloseAfterFlushDeliversQueuedMessage(t *testing.T) {
	upgrader := websocket.Upgrader{}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		conn := NewConnection(ws, testLogger())
		conn.Start()
		require.NoError(t, conn.Send(&protocol.Error{Type: protocol.TypeError, Message: "goodbye"}))
		require.NoError(t, conn.CloseAfterFlush())
	}))
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http")
	ws, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer ws.Close()

	_ = ws.SetReadDeadline(time.Now().Add(5 * time.Second))
	var msg protocol.Error
	require.NoError(t, ws.ReadJSON(&msg))
	require.Equal(t, "goodbye", msg.Message)

	// the peer then sees a clean close, not an abnormal one
	_, _, err = ws.ReadMessage()
	require.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure),
		"expected a normal close frame, got %v", err)
}
