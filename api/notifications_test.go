package api

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xiaoyuanzhu-com/claude-todo-viewer/notifications"
)

// readSSEEvent returns the next data event, skipping heartbeats
func readSSEEvent(t *testing.T, r *bufio.Reader) notifications.Event {
	t.Helper()
	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		payload, ok := strings.CutPrefix(strings.TrimSpace(line), "data: ")
		if !ok {
			continue
		}
		var event notifications.Event
		require.NoError(t, json.Unmarshal([]byte(payload), &event))
		return event
	}
}

func TestNotificationStream(t *testing.T) {
	env := newTestEnv(t)
	ts := httptest.NewServer(env.srv.Router())
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/api/notifications/stream", nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	connected := readSSEEvent(t, reader)
	assert.Equal(t, notifications.EventConnected, connected.Type)
	assert.Equal(t, env.todosDir, connected.Dir)

	env.writeTodos(t, sessionID+".json", exampleTodos)

	updated := readSSEEvent(t, reader)
	assert.Equal(t, notifications.EventSessionsUpdated, updated.Type)
	assert.Equal(t, env.todosDir, updated.Dir)
}

func TestNotificationWebSocket(t *testing.T) {
	env := newTestEnv(t)
	ts := httptest.NewServer(env.srv.Router())
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/notifications/ws"
	conn, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)
	defer conn.Close(websocket.StatusNormalClosure, "")

	read := func() notifications.Event {
		msgType, data, err := conn.Read(ctx)
		require.NoError(t, err)
		require.Equal(t, websocket.MessageText, msgType)
		var event notifications.Event
		require.NoError(t, json.Unmarshal(data, &event))
		return event
	}

	assert.Equal(t, notifications.EventConnected, read().Type)

	other := t.TempDir()
	_, err = env.srv.FS().ChangeDirectory(other)
	require.NoError(t, err)

	event := read()
	assert.Equal(t, notifications.EventDirectoryChanged, event.Type)
	assert.Equal(t, other, event.Dir)
}
