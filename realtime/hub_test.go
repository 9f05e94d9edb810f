package realtime

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) (*Hub, context.CancelFunc) {
	t.Helper()
	hub := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(cancel)
	return hub, cancel
}

func dialUser(t *testing.T, hub *Hub, userID int) *websocket.Conn {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		client := hub.NewClient(conn, userID)
		if !hub.Join(client) {
			conn.Close()
			return
		}
		go client.WritePump()
		go client.ReadPump()
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.Eventually(t, func() bool { return hub.HasUser(userID) }, time.Second, 10*time.Millisecond)
	return conn
}

func TestUserRoom(t *testing.T) {
	assert.Equal(t, "user_42", UserRoom(42))
}

func TestHub_SendToUser(t *testing.T) {
	hub, _ := startHub(t)
	conn := dialUser(t, hub, 7)

	assert.False(t, hub.HasUser(8))

	hub.SendToUser(7, "NOTIFICATION_COUNTS", map[string]int{"total": 3})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg struct {
		Type    string         `json:"type"`
		Payload map[string]int `json:"payload"`
		RoomID  string         `json:"room_id"`
	}
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, "NOTIFICATION_COUNTS", msg.Type)
	assert.Equal(t, 3, msg.Payload["total"])
	assert.Equal(t, "user_7", msg.RoomID)
}

func TestHub_ClientDisconnectLeavesRoom(t *testing.T) {
	hub, _ := startHub(t)
	conn := dialUser(t, hub, 5)

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return !hub.HasUser(5) }, 2*time.Second, 10*time.Millisecond)
}

func TestHub_StopClosesClients(t *testing.T) {
	hub, cancel := startHub(t)
	conn := dialUser(t, hub, 9)

	cancel()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
	assert.Eventually(t, func() bool { return !hub.HasUser(9) }, time.Second, 10*time.Millisecond)
	assert.False(t, hub.Join(hub.NewClient(nil, 1)))
}

func TestHub_JoinIsVisibleImmediately(t *testing.T) {
	hub, _ := startHub(t)

	for i := 0; i < 2000; i++ {
		client := hub.NewClient(nil, 7)
		require.True(t, hub.Join(client))
		require.True(t, hub.HasUser(7), "iteration %d", i)
		hub.leave(client)
	}
}
