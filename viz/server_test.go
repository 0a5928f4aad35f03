package viz

import (
	"encoding/json"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdrpinto/gridplan/level"
)

const tinyLevel = `#domain
hospital
#levelname
viztest
#colors
red: 0, A
#initial
+++++
+0A +
+++++
#goal
+++++
+  A+
+++++
#end
`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	lv, err := level.Parse(strings.NewReader(tinyLevel))
	require.NoError(t, err)
	s, err := NewServer(lv, "bfs", slog.Default())
	require.NoError(t, err)
	return s
}

func TestDecodeCommand(t *testing.T) {
	s := newTestServer(t)

	cmd, err := s.decodeCommand([]byte(`{"cmd":"step","count":10}`))
	require.NoError(t, err)
	assert.Equal(t, Command{Cmd: "step", Count: 10}, cmd)

	cmd, err = s.decodeCommand([]byte(`{"cmd":"init"}`))
	require.NoError(t, err)
	assert.Equal(t, "init", cmd.Cmd)

	for name, raw := range map[string]string{
		"unknown cmd":    `{"cmd":"solve"}`,
		"missing cmd":    `{"count":3}`,
		"zero count":     `{"cmd":"step","count":0}`,
		"not an object":  `"step"`,
		"malformed json": `{"cmd":`,
	} {
		_, err := s.decodeCommand([]byte(raw))
		assert.Error(t, err, name)
	}
}

func TestWebsocketSession(t *testing.T) {
	srv := httptest.NewServer(newTestServer(t).Handler())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	// Stepping before init is an error.
	require.NoError(t, conn.WriteJSON(Command{Cmd: "step"}))
	var errMsg struct {
		Type  string `json:"type"`
		Error string `json:"error"`
	}
	require.NoError(t, conn.ReadJSON(&errMsg))
	assert.Equal(t, "error", errMsg.Type)

	require.NoError(t, conn.WriteJSON(Command{Cmd: "init"}))
	var lvMsg levelMessage
	require.NoError(t, conn.ReadJSON(&lvMsg))
	assert.Equal(t, "level", lvMsg.Type)
	assert.Equal(t, "viztest", lvMsg.Name)
	assert.Equal(t, 3, lvMsg.Rows)
	assert.Len(t, lvMsg.Agents, 1)
	assert.NotEmpty(t, lvMsg.Walls)

	// The level solves in one push, so a generous step budget drains the
	// search and the last snapshot carries the plan.
	require.NoError(t, conn.WriteJSON(Command{Cmd: "step", Count: 1000}))
	var last snapshotMessage
	for {
		var raw json.RawMessage
		require.NoError(t, conn.ReadJSON(&raw))
		var probe struct {
			Type string `json:"type"`
			Done bool   `json:"done"`
		}
		require.NoError(t, json.Unmarshal(raw, &probe))
		require.Equal(t, "snapshot", probe.Type)
		require.NoError(t, json.Unmarshal(raw, &last))
		if probe.Done {
			break
		}
	}
	assert.True(t, last.Found)
	require.Len(t, last.Plan, 1)
	assert.Equal(t, "Push(E,E)", last.Plan[0])
}
