package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Peglo98/SocialSport2/internal/hub"
)

// MockSnapshotSource はSnapshotSourceのモック
type MockSnapshotSource struct {
	mock.Mock
}

func (m *MockSnapshotSource) Load(ctx context.Context, topic hub.Topic) (any, uint64, error) {
	args := m.Called(ctx, topic)
	return args.Get(0), args.Get(1).(uint64), args.Error(2)
}

func TestNewTopicRefresher(t *testing.T) {
	source := new(MockSnapshotSource)
	refresher := NewTopicRefresher(hub.New(), source, time.Minute)

	assert.NotNil(t, refresher)
	assert.Equal(t, time.Minute, refresher.interval)
	assert.NotNil(t, refresher.stopCh)
	assert.NotNil(t, refresher.doneCh)
}

func TestTopicRefresher_Refresh(t *testing.T) {
	t.Run("購読中のトピックが再配信される", func(t *testing.T) {
		h := hub.New()
		source := new(MockSnapshotSource)
		source.On("Load", mock.Anything, hub.EventTopic("ev-1")).Return("snapshot", uint64(1), nil)

		received := make(chan any, 4)
		sub := h.Subscribe(hub.EventTopic("ev-1"), func(v any) {
			select {
			case received <- v:
			default:
			}
		})
		defer sub.Cancel()

		refresher := NewTopicRefresher(h, source, time.Minute)
		refresher.refresh(context.Background())

		select {
		case v := <-received:
			assert.Equal(t, "snapshot", v)
		case <-time.After(time.Second):
			t.Fatal("再配信が届かなかった")
		}
		source.AssertExpectations(t)
	})

	t.Run("読み込みに失敗したトピックはスキップされる", func(t *testing.T) {
		h := hub.New()
		source := new(MockSnapshotSource)
		source.On("Load", mock.Anything, hub.EventTopic("壊れた")).Return(nil, uint64(0), assert.AnError)
		source.On("Load", mock.Anything, hub.EventTopic("正常")).Return("ok", uint64(1), nil)

		subA := h.Subscribe(hub.EventTopic("壊れた"), func(v any) {})
		defer subA.Cancel()
		received := make(chan any, 4)
		subB := h.Subscribe(hub.EventTopic("正常"), func(v any) {
			select {
			case received <- v:
			default:
			}
		})
		defer subB.Cancel()

		refresher := NewTopicRefresher(h, source, time.Minute)
		// パニックせず正常なトピックだけ配信される
		refresher.refresh(context.Background())

		select {
		case v := <-received:
			assert.Equal(t, "ok", v)
		case <-time.After(time.Second):
			t.Fatal("正常なトピックの再配信が届かなかった")
		}
	})

	t.Run("購読がなければ何もしない", func(t *testing.T) {
		source := new(MockSnapshotSource)
		refresher := NewTopicRefresher(hub.New(), source, time.Minute)

		refresher.refresh(context.Background())
		source.AssertNotCalled(t, "Load")
	})
}

func TestTopicRefresher_StartStop(t *testing.T) {
	t.Run("開始と停止が正常に動作する", func(t *testing.T) {
		source := new(MockSnapshotSource)
		refresher := NewTopicRefresher(hub.New(), source, 50*time.Millisecond)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		go refresher.Start(ctx)
		time.Sleep(120 * time.Millisecond)
		refresher.Stop()

		select {
		case <-refresher.doneCh:
		case <-time.After(time.Second):
			t.Error("refresher did not stop in time")
		}
	})

	t.Run("コンテキストキャンセルで停止する", func(t *testing.T) {
		source := new(MockSnapshotSource)
		refresher := NewTopicRefresher(hub.New(), source, 50*time.Millisecond)

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		go func() {
			refresher.Start(ctx)
			close(done)
		}()

		time.Sleep(80 * time.Millisecond)
		cancel()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Error("refresher did not stop after context cancel")
		}
	})
}
