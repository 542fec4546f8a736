package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/Peglo98/SocialSport2/internal/domain/message"
)

// MessageRepository はチャットメッセージリポジトリのインメモリ実装
// イベントごとの追記はロックで直列化される
type MessageRepository struct {
	mu      sync.RWMutex
	byEvent map[string][]*message.Message
}

// NewMessageRepository はMessageRepositoryを作成する
func NewMessageRepository() *MessageRepository {
	return &MessageRepository{byEvent: make(map[string][]*message.Message)}
}

// Append はメッセージを末尾に追記する
func (r *MessageRepository) Append(ctx context.Context, m *message.Message) error {
	if err := m.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	msgs := r.byEvent[m.EventID]
	if len(msgs) > 0 {
		m.PostedAt = message.ClampPostedAt(msgs[len(msgs)-1].PostedAt, m.PostedAt)
	}
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	r.byEvent[m.EventID] = append(msgs, m.Clone())
	return nil
}

// ListByEvent はイベントのメッセージを投稿順で取得する
func (r *MessageRepository) ListByEvent(ctx context.Context, eventID string) ([]*message.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	msgs := r.byEvent[eventID]
	out := make([]*message.Message, len(msgs))
	for i, m := range msgs {
		out[i] = m.Clone()
	}
	return out, nil
}

var _ message.Repository = (*MessageRepository)(nil)
