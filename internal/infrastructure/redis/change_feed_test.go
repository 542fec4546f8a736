package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Peglo98/SocialSport2/internal/hub"
)

func TestChangeFeed(t *testing.T) {
	client := setupTestRedis(t)
	ctx := context.Background()
	channel := "test:topics:" + time.Now().Format("150405.000")

	t.Run("別インスタンスの通知を受信できる", func(t *testing.T) {
		sender := NewChangeFeed(client, channel, "instance-a")
		receiver := NewChangeFeed(client, channel, "instance-b")

		received := make(chan hub.Topic, 1)
		listenCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		go func() {
			_ = receiver.Listen(listenCtx, func(topic hub.Topic) {
				select {
				case received <- topic:
				default:
				}
			})
		}()

		// 購読の確立を待ってから発行する
		time.Sleep(100 * time.Millisecond)
		require.NoError(t, sender.Announce(ctx, hub.EventTopic("ev-1")))

		select {
		case topic := <-received:
			assert.Equal(t, hub.EventTopic("ev-1"), topic)
		case <-time.After(2 * time.Second):
			t.Fatal("通知が届かなかった")
		}
	})

	t.Run("自分が発行した通知は無視する", func(t *testing.T) {
		feed := NewChangeFeed(client, channel, "instance-self")

		received := make(chan hub.Topic, 1)
		listenCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		go func() {
			_ = feed.Listen(listenCtx, func(topic hub.Topic) {
				select {
				case received <- topic:
				default:
				}
			})
		}()

		time.Sleep(100 * time.Millisecond)
		require.NoError(t, feed.Announce(ctx, hub.EventTopic("ev-2")))

		select {
		case topic := <-received:
			t.Fatalf("自分の通知を受信してしまった: %s", topic)
		case <-time.After(300 * time.Millisecond):
		}
	})
}
