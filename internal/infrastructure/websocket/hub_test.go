package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gws "github.com/gorilla/websocket"
	"github.com/roundtable/backend/internal/domain/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_BroadcastScopedToDiscussion(t *testing.T) {
	hub := NewHub()
	hub.Start()
	defer hub.Stop()

	c1 := NewConnection("d1")
	c2 := NewConnection("d2")
	hub.Register(c1)
	hub.Register(c2)

	ev := events.NewDiscussionEvent(events.SnapshotCreated, "d1")
	ev.SnapshotID = "s1"
	require.NoError(t, hub.HandleEvent(ev))

	select {
	case data := <-c1.Send:
		var got events.DiscussionEvent
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Equal(t, events.SnapshotCreated, got.EventType)
		assert.Equal(t, "s1", got.SnapshotID)
	case <-time.After(time.Second):
		t.Fatal("d1 的订阅者应收到事件")
	}

	select {
	case <-c2.Send:
		t.Fatal("d2 的订阅者不应收到 d1 的事件")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_UnregisterClosesSend(t *testing.T) {
	hub := NewHub()
	hub.Start()
	defer hub.Stop()

	c := NewConnection("d1")
	hub.Register(c)
	hub.Unregister(c)

	select {
	case _, ok := <-c.Send:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("注销后发送通道应关闭")
	}
	assert.Equal(t, 0, hub.ConnectionCount("d1"))
}

func TestHub_ServeDiscussion(t *testing.T) {
	hub := NewHub()
	hub.Start()
	defer hub.Stop()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = hub.ServeDiscussion(w, r, "d1")
	}))
	defer srv.Close()

	ws, _, err := gws.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer ws.Close()

	require.Eventually(t, func() bool { return hub.ConnectionCount("d1") == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, hub.HandleEvent(events.NewDiscussionEvent(events.DiscussionUpdated, "d1")))

	_ = ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := ws.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"type":"discussion.updated"`)
}
