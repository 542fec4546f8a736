package application

import (
	"context"
	"errors"
	"time"

	"github.com/Peglo98/SocialSport2/internal/domain/event"
	"github.com/Peglo98/SocialSport2/internal/pkg/metrics"
)

// JoinService は同一イベントへの並行参加リクエストを調停する
// 正しさは EventStore の ApplyTransaction（compare-and-retry）だけに依存し、
// 外部のロックは使わない。素朴な read-then-write では並行する2つの参加が
// 両方とも「空きあり」を読んでしまい定員超過を起こすため、必ずこの経路を通す
type JoinService struct {
	eventRepo   event.Repository
	broadcaster *Broadcaster
	metrics     *metrics.Metrics
}

func NewJoinService(eventRepo event.Repository, broadcaster *Broadcaster, m *metrics.Metrics) *JoinService {
	return &JoinService{eventRepo: eventRepo, broadcaster: broadcaster, metrics: m}
}

// Join はユーザーをイベントに参加させる
// 成功すると参加者の追加と残り枠の減算が原子的に確定し、購読者へ配信される
func (s *JoinService) Join(ctx context.Context, eventID, userID string) (*event.Event, error) {
	if userID == "" {
		s.record("error")
		return nil, event.ErrUserIDRequired
	}

	updated, err := s.eventRepo.ApplyTransaction(ctx, eventID, func(e *event.Event) error {
		if e.IsPast(time.Now()) {
			return event.ErrEventPast
		}
		return e.Join(userID)
	})
	if err != nil {
		s.record(joinStatus(err))
		if errors.Is(err, event.ErrTxConflict) && s.metrics != nil {
			s.metrics.TxConflictsTotal.Inc()
		}
		return nil, err
	}

	s.record("joined")
	s.broadcaster.EventChanged(ctx, updated)
	return updated, nil
}

func (s *JoinService) record(status string) {
	if s.metrics != nil {
		s.metrics.JoinAttemptsTotal.WithLabelValues(status).Inc()
	}
}

func joinStatus(err error) string {
	switch {
	case errors.Is(err, event.ErrAlreadyJoined):
		return "already_joined"
	case errors.Is(err, event.ErrEventFull):
		return "event_full"
	case errors.Is(err, event.ErrEventPast):
		return "event_past"
	case errors.Is(err, event.ErrTxConflict):
		return "conflict"
	default:
		return "error"
	}
}
