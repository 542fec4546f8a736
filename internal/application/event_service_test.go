package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Peglo98/SocialSport2/internal/domain/event"
	"github.com/Peglo98/SocialSport2/internal/domain/geo"
	"github.com/Peglo98/SocialSport2/internal/hub"
	"github.com/Peglo98/SocialSport2/internal/infrastructure/memory"
)

type mockEventRepository struct {
	mock.Mock
}

func (m *mockEventRepository) Create(ctx context.Context, e *event.Event) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *mockEventRepository) GetByID(ctx context.Context, id string) (*event.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*event.Event), args.Error(1)
}

func (m *mockEventRepository) List(ctx context.Context, limit int) ([]*event.Event, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*event.Event), args.Error(1)
}

func (m *mockEventRepository) ApplyTransaction(ctx context.Context, id string, mutate func(*event.Event) error) (*event.Event, error) {
	args := m.Called(ctx, id, mutate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*event.Event), args.Error(1)
}

func validCreateInput() CreateEventInput {
	return CreateEventInput{
		SportType:   "バスケットボール",
		Description: "週末の3on3",
		StartAt:     time.Now().Add(48 * time.Hour),
		Location:    &geo.Coordinate{Latitude: 35.66, Longitude: 139.70},
		Capacity:    6,
	}
}

func TestEventService_CreateEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("正常に作成できる", func(t *testing.T) {
		events := memory.NewEventRepository(5)
		b := NewBroadcaster(hub.New(), nil, events, memory.NewMessageRepository())
		svc := NewEventService(events, b)

		e, err := svc.CreateEvent(ctx, validCreateInput())
		require.NoError(t, err)
		assert.NotEmpty(t, e.ID)
		assert.Equal(t, 6, e.CapacityRemaining)
		assert.Empty(t, e.Participants)
	})

	t.Run("バリデーションエラーは保存しない", func(t *testing.T) {
		repo := new(mockEventRepository)
		b := NewBroadcaster(hub.New(), nil, repo, memory.NewMessageRepository())
		svc := NewEventService(repo, b)

		input := validCreateInput()
		input.SportType = ""
		_, err := svc.CreateEvent(ctx, input)
		assert.ErrorIs(t, err, event.ErrSportTypeRequired)
		repo.AssertNotCalled(t, "Create")
	})

	t.Run("保存エラーはラップして返す", func(t *testing.T) {
		repo := new(mockEventRepository)
		b := NewBroadcaster(hub.New(), nil, repo, memory.NewMessageRepository())
		svc := NewEventService(repo, b)

		dbErr := errors.New("接続エラー")
		repo.On("Create", ctx, mock.AnythingOfType("*event.Event")).Return(dbErr)

		_, err := svc.CreateEvent(ctx, validCreateInput())
		assert.ErrorIs(t, err, dbErr)
	})

	t.Run("作成後に一覧トピックへ配信される", func(t *testing.T) {
		events := memory.NewEventRepository(5)
		h := hub.New()
		b := NewBroadcaster(h, nil, events, memory.NewMessageRepository())
		svc := NewEventService(events, b)

		received := make(chan []*event.Event, 4)
		sub := h.Subscribe(hub.TopicEvents, func(v any) {
			if list, ok := v.([]*event.Event); ok {
				select {
				case received <- list:
				default:
				}
			}
		})
		defer sub.Cancel()

		created, err := svc.CreateEvent(ctx, validCreateInput())
		require.NoError(t, err)

		deadline := time.After(time.Second)
		for {
			select {
			case list := <-received:
				if len(list) == 1 && list[0].ID == created.ID {
					return
				}
			case <-deadline:
				t.Fatal("一覧スナップショットが届かなかった")
			}
		}
	})
}

func TestEventService_ListEvents(t *testing.T) {
	ctx := context.Background()

	t.Run("limitの上限は100", func(t *testing.T) {
		repo := new(mockEventRepository)
		b := NewBroadcaster(hub.New(), nil, repo, memory.NewMessageRepository())
		svc := NewEventService(repo, b)

		repo.On("List", ctx, 100).Return([]*event.Event{}, nil)
		_, err := svc.ListEvents(ctx, 500)
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})
}
