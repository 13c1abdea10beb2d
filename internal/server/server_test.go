package server

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/lox/kittenforbots/internal/game"
	"github.com/lox/kittenforbots/internal/protocol"
)

func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

// scriptedClient is a minimal remote bot: it always draws, never reacts,
// and takes the default on every choice. It runs until the server sends
// the match result or the connection drops.
type scriptedClient struct {
	t    *testing.T
	name string
	ws   *websocket.Conn

	result chan protocol.MatchResult
}

func dialClient(t *testing.T, url, name string) *scriptedClient {
	t.Helper()

	wsURL := "ws" + strings.TrimPrefix(url, "http") + "/ws"
	ws, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)

	c := &scriptedClient{t: t, name: name, ws: ws, result: make(chan protocol.MatchResult, 1)}
	require.NoError(t, ws.WriteJSON(&protocol.Join{Type: protocol.TypeJoin, Name: name}))
	go c.loop()
	return c
}

func (c *scriptedClient) loop() {
	defer c.ws.Close()
	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			return
		}
		typ, err := protocol.Peek(data)
		if err != nil {
			continue
		}

		switch typ {
		case protocol.TypeTurnRequest:
			var req protocol.TurnRequest
			if protocol.Unmarshal(data, &req) == nil {
				_ = c.ws.WriteJSON(&protocol.Action{
					Type: protocol.TypeAction, RequestID: req.RequestID, Action: string(game.Draw),
				})
			}
		case protocol.TypeReactRequest:
			var req protocol.ReactRequest
			if protocol.Unmarshal(data, &req) == nil {
				_ = c.ws.WriteJSON(&protocol.Action{
					Type: protocol.TypeAction, RequestID: req.RequestID, Action: string(game.Pass),
				})
			}
		case protocol.TypeChooseRequest:
			var req protocol.ChooseRequest
			if protocol.Unmarshal(data, &req) == nil {
				_ = c.ws.WriteJSON(&protocol.Choice{
					Type: protocol.TypeChoice, RequestID: req.RequestID,
				})
			}
		case protocol.TypeMatchResult:
			var res protocol.MatchResult
			if protocol.Unmarshal(data, &res) == nil {
				c.result <- res
			}
			return
		}
	}
}

func (c *scriptedClient) waitResult(timeout time.Duration) (protocol.MatchResult, bool) {
	select {
	case res := <-c.result:
		return res, true
	case <-time.After(timeout):
		return protocol.MatchResult{}, false
	}
}

func TestServerRunsMatchBetweenRemoteBots(t *testing.T) {
	gameCfg := game.DefaultConfig()
	gameCfg.Seed = 42
	gameCfg.Timeout = 5 * time.Second

	s := NewServer(Config{
		PlayersPerMatch: 2,
		Game:            gameCfg,
		Logger:          testLogger(),
	})
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()
	defer s.Stop()

	a := dialClient(t, ts.URL, "alpha")
	b := dialClient(t, ts.URL, "beta")

	resA, ok := a.waitResult(10 * time.Second)
	require.True(t, ok, "alpha never received a result")
	resB, ok := b.waitResult(10 * time.Second)
	require.True(t, ok, "beta never received a result")

	require.Equal(t, resA.Winner, resB.Winner)
	require.NotEmpty(t, resA.Winner)
	require.Len(t, resA.Placements, 2)
	require.Contains(t, resA.Placements, "alpha")
	require.Contains(t, resA.Placements, "beta")
}

func TestServerRejectsDuplicateNames(t *testing.T) {
	s := NewServer(Config{
		PlayersPerMatch: 3,
		Game:            game.DefaultConfig(),
		Logger:          testLogger(),
	})
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()
	defer s.Stop()

	_ = dialClient(t, ts.URL, "dup")

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	ws, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer ws.Close()
	require.NoError(t, ws.WriteJSON(&protocol.Join{Type: protocol.TypeJoin, Name: "dup"}))

	_ = ws.SetReadDeadline(time.Now().Add(5 * time.Second))
	var errMsg protocol.Error
	require.NoError(t, ws.ReadJSON(&errMsg))
	require.Equal(t, protocol.TypeError, errMsg.Type)
}

func TestServerRejectsMissingJoin(t *testing.T) {
	s := NewServer(Config{
		PlayersPerMatch: 2,
		Game:            game.DefaultConfig(),
		Logger:          testLogger(),
	})
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()
	defer s.Stop()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	ws, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer ws.Close()

	require.NoError(t, ws.WriteJSON(map[string]string{"type": "action"}))

	_ = ws.SetReadDeadline(time.Now().Add(5 * time.Second))
	var errMsg protocol.Error
	require.NoError(t, ws.ReadJSON(&errMsg))
	require.Equal(t, protocol.TypeError, errMsg.Type)
}
