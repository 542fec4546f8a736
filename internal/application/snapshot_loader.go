package application

import (
	"context"
	"fmt"

	"github.com/Peglo98/SocialSport2/internal/domain/event"
	"github.com/Peglo98/SocialSport2/internal/domain/message"
	"github.com/Peglo98/SocialSport2/internal/hub"
)

// SnapshotLoader はトピックに対応する最新スナップショットをストアから読む
// ChangeFeed の受信側と TopicRefresher が使う
type SnapshotLoader struct {
	events   event.Repository
	messages message.Repository
}

// NewSnapshotLoader はSnapshotLoaderを作成する
func NewSnapshotLoader(events event.Repository, messages message.Repository) *SnapshotLoader {
	return &SnapshotLoader{events: events, messages: messages}
}

// Load はトピックの現在のスナップショットと、その配信キーを返す
// キーは Broadcaster が配信時に使うものと同じ単調キーで、読み込みと
// 配信の間に割り込んだ新しい配信を上書きしないようにする
func (l *SnapshotLoader) Load(ctx context.Context, topic hub.Topic) (any, uint64, error) {
	if topic == hub.TopicEvents {
		list, err := l.events.List(ctx, 0)
		if err != nil {
			return nil, 0, err
		}
		return list, ListRevision(list), nil
	}
	if eventID, ok := topic.EventID(); ok {
		e, err := l.events.GetByID(ctx, eventID)
		if err != nil {
			return nil, 0, err
		}
		return e, uint64(e.Version), nil
	}
	if eventID, ok := topic.ChatEventID(); ok {
		msgs, err := l.messages.ListByEvent(ctx, eventID)
		if err != nil {
			return nil, 0, err
		}
		return msgs, uint64(len(msgs)), nil
	}
	return nil, 0, fmt.Errorf("不明なトピック: %s", topic)
}
