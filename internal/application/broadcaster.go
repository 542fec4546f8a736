package application

import (
	"context"

	"go.uber.org/zap"

	"github.com/Peglo98/SocialSport2/internal/domain/event"
	"github.com/Peglo98/SocialSport2/internal/domain/message"
	"github.com/Peglo98/SocialSport2/internal/hub"
	"github.com/Peglo98/SocialSport2/internal/pkg/logger"
)

// Publisher は購読者へスナップショットを配信する
// hub.Hub がこのインターフェースを満たす
// version はコミット順を表す単調キーで、古いスナップショットの配信を防ぐ
type Publisher interface {
	Publish(topic hub.Topic, version uint64, value any)
}

// Feed は他のプロセスへトピックの変更を通知する（Redis Pub/Sub等）
// 受信側はストアからスナップショットを読み直して自分のHubに配信する
type Feed interface {
	Announce(ctx context.Context, topic hub.Topic) error
}

// Broadcaster はストアへの書き込み成功後にスナップショットを配信する
// 配信はベストエフォート：失敗しても書き込み自体は成立しており、
// TopicRefresher の定期再読み込みで追いつく
type Broadcaster struct {
	pub      Publisher
	feed     Feed
	events   event.Repository
	messages message.Repository
}

// NewBroadcaster はBroadcasterを作成する
// feed は単一プロセス構成では nil でよい
func NewBroadcaster(pub Publisher, feed Feed, events event.Repository, messages message.Repository) *Broadcaster {
	return &Broadcaster{pub: pub, feed: feed, events: events, messages: messages}
}

// EventChanged はイベントの変更を単一イベントと一覧の両トピックへ配信する
// ApplyTransaction が返した実体のバージョンをそのまま配信キーに使うため、
// コミットと配信の間で別の書き込みに追い越されても古い状態は届かない
func (b *Broadcaster) EventChanged(ctx context.Context, e *event.Event) {
	b.pub.Publish(hub.EventTopic(e.ID), uint64(e.Version), e)
	b.announce(ctx, hub.EventTopic(e.ID))

	list, err := b.events.List(ctx, 0)
	if err != nil {
		logger.Warn("イベント一覧の再読み込みに失敗", zap.Error(err))
	} else {
		b.pub.Publish(hub.TopicEvents, ListRevision(list), list)
	}
	b.announce(ctx, hub.TopicEvents)
}

// ChatChanged はイベントのチャットの最新スナップショットを配信する
func (b *Broadcaster) ChatChanged(ctx context.Context, eventID string) {
	msgs, err := b.messages.ListByEvent(ctx, eventID)
	if err != nil {
		logger.Warn("チャットの再読み込みに失敗",
			zap.String("event_id", eventID), zap.Error(err))
	} else {
		// チャットは追記専用なので件数がそのままコミット順のキーになる
		b.pub.Publish(hub.ChatTopic(eventID), uint64(len(msgs)), msgs)
	}
	b.announce(ctx, hub.ChatTopic(eventID))
}

// ListRevision はイベント一覧の状態に対する単調キーを返す
// 一覧は作成（件数+1）と参加（バージョン+1）でしか変化しないため、
// 件数とバージョンの合計は書き込みのたびに必ず1増える
func ListRevision(events []*event.Event) uint64 {
	rev := uint64(len(events))
	for _, e := range events {
		rev += uint64(e.Version)
	}
	return rev
}

func (b *Broadcaster) announce(ctx context.Context, topic hub.Topic) {
	if b.feed == nil {
		return
	}
	if err := b.feed.Announce(ctx, topic); err != nil {
		logger.Warn("トピック変更の通知に失敗",
			zap.String("topic", string(topic)), zap.Error(err))
	}
}
