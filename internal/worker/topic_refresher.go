package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Peglo98/SocialSport2/internal/hub"
	"github.com/Peglo98/SocialSport2/internal/pkg/logger"
)

// SnapshotSource はトピックの最新スナップショットとその配信キーをストアから読む
type SnapshotSource interface {
	Load(ctx context.Context, topic hub.Topic) (any, uint64, error)
}

// TopicRefresher は購読中の全トピックを定期的に読み直して再配信するワーカー
// ストア障害や通知の欠落で止まった配信を追いつかせるための保険
type TopicRefresher struct {
	h        *hub.Hub
	source   SnapshotSource
	interval time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewTopicRefresher は新しいリフレッシャーを作成
func NewTopicRefresher(h *hub.Hub, source SnapshotSource, interval time.Duration) *TopicRefresher {
	return &TopicRefresher{
		h:        h,
		source:   source,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start はリフレッシャーを開始
func (r *TopicRefresher) Start(ctx context.Context) {
	logger.Info("トピックリフレッシャー開始", zap.Duration("interval", r.interval))

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	defer close(r.doneCh)

	for {
		select {
		case <-ctx.Done():
			logger.Info("トピックリフレッシャー停止（コンテキストキャンセル）")
			return
		case <-r.stopCh:
			logger.Info("トピックリフレッシャー停止（シグナル受信）")
			return
		case <-ticker.C:
			r.refresh(ctx)
		}
	}
}

// Stop はリフレッシャーを停止
func (r *TopicRefresher) Stop() {
	close(r.stopCh)
	<-r.doneCh
}

// refresh は購読中の全トピックを読み直して配信する
// 読み込みに失敗したトピックはスキップし、次の周期で再試行する
func (r *TopicRefresher) refresh(ctx context.Context) {
	log := logger.Get()
	topics := r.h.ActiveTopics()
	if len(topics) == 0 {
		log.Debug("購読中のトピックなし")
		return
	}

	for _, topic := range topics {
		value, version, err := r.source.Load(ctx, topic)
		if err != nil {
			log.Warn("トピックの再読み込み失敗",
				zap.String("topic", string(topic)), zap.Error(err))
			continue
		}
		r.h.Publish(topic, version, value)
	}
	log.Debug("トピック再配信完了", zap.Int("count", len(topics)))
}
