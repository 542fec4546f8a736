package application

import (
	"context"
	"fmt"

	"github.com/Peglo98/SocialSport2/internal/domain/event"
	"github.com/Peglo98/SocialSport2/internal/domain/message"
	"github.com/Peglo98/SocialSport2/internal/pkg/metrics"
)

// ChatService はイベントごとの追記専用チャットを扱う
type ChatService struct {
	eventRepo   event.Repository
	messageRepo message.Repository
	broadcaster *Broadcaster
	metrics     *metrics.Metrics
}

func NewChatService(eventRepo event.Repository, messageRepo message.Repository, broadcaster *Broadcaster, m *metrics.Metrics) *ChatService {
	return &ChatService{eventRepo: eventRepo, messageRepo: messageRepo, broadcaster: broadcaster, metrics: m}
}

// PostMessage はメッセージを投稿する
// タイムスタンプは同一イベント内で単調非減少になるよう保存時に補正される
func (s *ChatService) PostMessage(ctx context.Context, eventID, authorID, text string) (*message.Message, error) {
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		return nil, err
	}

	m := message.NewMessage(eventID, authorID, text)
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("バリデーションエラー: %w", err)
	}
	if err := s.messageRepo.Append(ctx, m); err != nil {
		return nil, fmt.Errorf("メッセージ投稿に失敗しました: %w", err)
	}

	if s.metrics != nil {
		s.metrics.ChatMessagesTotal.Inc()
	}
	s.broadcaster.ChatChanged(ctx, eventID)
	return m, nil
}

// History はイベントのチャット履歴を投稿順で返す
func (s *ChatService) History(ctx context.Context, eventID string) ([]*message.Message, error) {
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		return nil, err
	}
	return s.messageRepo.ListByEvent(ctx, eventID)
}
