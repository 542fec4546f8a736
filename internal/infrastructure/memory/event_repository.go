package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Peglo98/SocialSport2/internal/domain/event"
)

const defaultTxMaxAttempts = 5

// EventRepository はイベントリポジトリのインメモリ実装
// 組み込みバックエンドとして本番の単一プロセス構成でも、テストでも使う
type EventRepository struct {
	mu          sync.RWMutex
	events      map[string]*event.Event
	maxAttempts int
}

// NewEventRepository はEventRepositoryを作成する
// maxAttempts が 0 以下の場合はデフォルト値を使う
func NewEventRepository(maxAttempts int) *EventRepository {
	if maxAttempts <= 0 {
		maxAttempts = defaultTxMaxAttempts
	}
	return &EventRepository{
		events:      make(map[string]*event.Event),
		maxAttempts: maxAttempts,
	}
}

// Create は新しいイベントを保存する
func (r *EventRepository) Create(ctx context.Context, e *event.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	r.events[e.ID] = e.Clone()
	return nil
}

// GetByID はIDからイベントを取得する
func (r *EventRepository) GetByID(ctx context.Context, id string) (*event.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.events[id]
	if !ok {
		return nil, event.ErrEventNotFound
	}
	return e.Clone(), nil
}

// List はイベント一覧を作成日時の新しい順で取得する
func (r *EventRepository) List(ctx context.Context, limit int) ([]*event.Event, error) {
	r.mu.RLock()
	events := make([]*event.Event, 0, len(r.events))
	for _, e := range r.events {
		events = append(events, e.Clone())
	}
	r.mu.RUnlock()

	sort.Slice(events, func(i, j int) bool {
		if !events[i].CreatedAt.Equal(events[j].CreatedAt) {
			return events[i].CreatedAt.After(events[j].CreatedAt)
		}
		return events[i].ID < events[j].ID
	})

	if limit > 0 && len(events) > limit {
		events = events[:limit]
	}
	return events, nil
}

// ApplyTransaction は楽観的ロック付きで mutate を適用する
// 読み取ったバージョンのまま書き込めた場合のみ確定し、競合したら
// 読み直して再試行する。mutate のエラーは再試行しない
func (r *EventRepository) ApplyTransaction(ctx context.Context, id string, mutate func(e *event.Event) error) (*event.Event, error) {
	for attempt := 0; attempt < r.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		r.mu.RLock()
		current, ok := r.events[id]
		if !ok {
			r.mu.RUnlock()
			return nil, event.ErrEventNotFound
		}
		working := current.Clone()
		readVersion := current.Version
		r.mu.RUnlock()

		if err := mutate(working); err != nil {
			return nil, err
		}

		r.mu.Lock()
		current, ok = r.events[id]
		if !ok {
			r.mu.Unlock()
			return nil, event.ErrEventNotFound
		}
		if current.Version != readVersion {
			r.mu.Unlock()
			continue
		}
		working.Version = readVersion + 1
		working.UpdatedAt = time.Now()
		r.events[id] = working
		r.mu.Unlock()
		return working.Clone(), nil
	}
	return nil, event.ErrTxConflict
}

var _ event.Repository = (*EventRepository)(nil)
