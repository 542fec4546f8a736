package application

import (
	"context"
	"fmt"
	"time"

	"github.com/Peglo98/SocialSport2/internal/domain/event"
	"github.com/Peglo98/SocialSport2/internal/domain/geo"
)

type EventService struct {
	eventRepo   event.Repository
	broadcaster *Broadcaster
}

func NewEventService(eventRepo event.Repository, broadcaster *Broadcaster) *EventService {
	return &EventService{eventRepo: eventRepo, broadcaster: broadcaster}
}

type CreateEventInput struct {
	SportType   string
	Description string
	StartAt     time.Time
	Location    *geo.Coordinate
	Capacity    int
}

func (s *EventService) CreateEvent(ctx context.Context, input CreateEventInput) (*event.Event, error) {
	e := event.NewEvent(input.SportType, input.Description, input.StartAt, input.Location, input.Capacity)
	if err := e.Validate(); err != nil {
		return nil, fmt.Errorf("バリデーションエラー: %w", err)
	}
	if err := s.eventRepo.Create(ctx, e); err != nil {
		return nil, fmt.Errorf("イベント作成に失敗しました: %w", err)
	}
	s.broadcaster.EventChanged(ctx, e)
	return e, nil
}

func (s *EventService) GetEvent(ctx context.Context, id string) (*event.Event, error) {
	return s.eventRepo.GetByID(ctx, id)
}

// ListEvents はイベント一覧を新しい順で返す
// limit が 0 以下の場合は全件
func (s *EventService) ListEvents(ctx context.Context, limit int) ([]*event.Event, error) {
	if limit > 100 {
		limit = 100
	}
	return s.eventRepo.List(ctx, limit)
}
