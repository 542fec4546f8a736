package handler

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Peglo98/SocialSport2/internal/domain/event"
	"github.com/Peglo98/SocialSport2/internal/domain/message"
	"github.com/Peglo98/SocialSport2/internal/hub"
)

func dialWebSocket(t *testing.T, serverURL, path string) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(serverURL, "http") + path
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEnvelope(t *testing.T, conn *websocket.Conn) SnapshotEnvelope {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var envelope SnapshotEnvelope
	require.NoError(t, conn.ReadJSON(&envelope))
	return envelope
}

func TestSubscribeHandler_Events(t *testing.T) {
	h := hub.New()
	handler := NewSubscribeHandler(h, nil)

	e := NewTestEcho()
	e.GET("/ws/events", handler.Events)
	server := httptest.NewServer(e)
	defer server.Close()

	// 接続前に現在値を用意する
	h.Publish(hub.TopicEvents, 1, []*event.Event{sampleEvent("event-1")})

	conn := dialWebSocket(t, server.URL, "/ws/events")

	t.Run("接続直後に現在のスナップショットが届く", func(t *testing.T) {
		envelope := readEnvelope(t, conn)
		assert.Equal(t, "events", envelope.Topic)

		raw, err := json.Marshal(envelope.Data)
		require.NoError(t, err)
		var events []EventResponse
		require.NoError(t, json.Unmarshal(raw, &events))
		require.Len(t, events, 1)
		assert.Equal(t, "event-1", events[0].ID)
	})

	t.Run("変更のたびに最新のスナップショット全体が届く", func(t *testing.T) {
		h.Publish(hub.TopicEvents, 2, []*event.Event{sampleEvent("event-1"), sampleEvent("event-2")})

		deadline := time.Now().Add(2 * time.Second)
		for {
			require.True(t, time.Now().Before(deadline), "更新スナップショットが届かなかった")
			envelope := readEnvelope(t, conn)

			raw, err := json.Marshal(envelope.Data)
			require.NoError(t, err)
			var events []EventResponse
			require.NoError(t, json.Unmarshal(raw, &events))
			if len(events) == 2 {
				return
			}
		}
	})
}

func TestSubscribeHandler_Chat(t *testing.T) {
	h := hub.New()
	handler := NewSubscribeHandler(h, nil)

	e := NewTestEcho()
	e.GET("/ws/events/:id/chat", handler.Chat)
	server := httptest.NewServer(e)
	defer server.Close()

	conn := dialWebSocket(t, server.URL, "/ws/events/event-1/chat")

	// 接続後の配信が届く
	time.Sleep(50 * time.Millisecond)
	h.Publish(hub.ChatTopic("event-1"), 1, []*message.Message{
		{ID: "msg-1", EventID: "event-1", AuthorID: "user-1", Text: "よろしく", PostedAt: time.Now()},
	})

	envelope := readEnvelope(t, conn)
	assert.Equal(t, "chat:event-1", envelope.Topic)
}

func TestSubscribeHandler_Disconnect(t *testing.T) {
	h := hub.New()
	handler := NewSubscribeHandler(h, nil)

	e := NewTestEcho()
	e.GET("/ws/events", handler.Events)
	server := httptest.NewServer(e)
	defer server.Close()

	conn := dialWebSocket(t, server.URL, "/ws/events")
	require.Equal(t, 1, waitForSubscribers(h, hub.TopicEvents, 1))

	// 切断すると購読が解除される
	conn.Close()
	assert.Equal(t, 0, waitForSubscribers(h, hub.TopicEvents, 0))
}

// waitForSubscribers は購読数が期待値になるまで待つ
func waitForSubscribers(h *hub.Hub, topic hub.Topic, want int) int {
	deadline := time.Now().Add(2 * time.Second)
	for {
		count := h.SubscriberCount(topic)
		if count == want || time.Now().After(deadline) {
			return count
		}
		time.Sleep(10 * time.Millisecond)
	}
}
