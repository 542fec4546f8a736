package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/Peglo98/SocialSport2/internal/domain/event"
	"github.com/Peglo98/SocialSport2/internal/domain/geo"
)

const defaultTxMaxAttempts = 5

// eventRow はDBの行を表す構造体
type eventRow struct {
	ID                string         `db:"id"`
	SportType         string         `db:"sport_type"`
	Description       *string        `db:"description"`
	Latitude          *float64       `db:"latitude"`
	Longitude         *float64       `db:"longitude"`
	StartAt           time.Time      `db:"start_at"`
	CapacityRemaining int            `db:"capacity_remaining"`
	Participants      pq.StringArray `db:"participants"`
	CreatedAt         time.Time      `db:"created_at"`
	UpdatedAt         time.Time      `db:"updated_at"`
	Version           int            `db:"version"`
}

// toEntity はeventRowをEventエンティティに変換する
func (r *eventRow) toEntity() *event.Event {
	var desc string
	if r.Description != nil {
		desc = *r.Description
	}
	var loc *geo.Coordinate
	if r.Latitude != nil && r.Longitude != nil {
		loc = &geo.Coordinate{Latitude: *r.Latitude, Longitude: *r.Longitude}
	}
	return &event.Event{
		ID:                r.ID,
		SportType:         r.SportType,
		Description:       desc,
		StartAt:           r.StartAt,
		Location:          loc,
		CapacityRemaining: r.CapacityRemaining,
		Participants:      []string(r.Participants),
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
		Version:           r.Version,
	}
}

const eventColumns = `id, sport_type, description, latitude, longitude, start_at, capacity_remaining, participants, created_at, updated_at, version`

// EventRepository はイベントリポジトリのPostgreSQL実装
type EventRepository struct {
	db          *sqlx.DB
	maxAttempts int
}

// NewEventRepository はEventRepositoryを作成する
// maxAttempts はApplyTransactionの再試行上限（0以下でデフォルト値）
func NewEventRepository(db *sqlx.DB, maxAttempts int) *EventRepository {
	if maxAttempts <= 0 {
		maxAttempts = defaultTxMaxAttempts
	}
	return &EventRepository{db: db, maxAttempts: maxAttempts}
}

// Create は新しいイベントを作成する
func (r *EventRepository) Create(ctx context.Context, e *event.Event) error {
	query := `
		INSERT INTO events (sport_type, description, latitude, longitude, start_at, capacity_remaining, participants, created_at, updated_at, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	var desc *string
	if e.Description != "" {
		desc = &e.Description
	}
	var lat, lng *float64
	if e.Location != nil {
		lat = &e.Location.Latitude
		lng = &e.Location.Longitude
	}

	err := r.db.QueryRowContext(ctx, query,
		e.SportType, desc, lat, lng, e.StartAt, e.CapacityRemaining,
		pq.Array(e.Participants), e.CreatedAt, e.UpdatedAt, e.Version,
	).Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("イベント作成に失敗しました: %w", err)
	}
	return nil
}

// GetByID はIDからイベントを取得する
func (r *EventRepository) GetByID(ctx context.Context, id string) (*event.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	var row eventRow
	err := r.db.GetContext(ctx, &row, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, event.ErrEventNotFound
		}
		return nil, fmt.Errorf("イベント取得に失敗しました: %w", err)
	}
	return row.toEntity(), nil
}

// List はイベント一覧を作成日時の新しい順で取得する
// limit が 0 以下の場合は全件
func (r *EventRepository) List(ctx context.Context, limit int) ([]*event.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events ORDER BY created_at DESC, id DESC`

	var rows []eventRow
	var err error
	if limit > 0 {
		err = r.db.SelectContext(ctx, &rows, query+` LIMIT $1`, limit)
	} else {
		err = r.db.SelectContext(ctx, &rows, query)
	}
	if err != nil {
		return nil, fmt.Errorf("イベント一覧取得に失敗しました: %w", err)
	}

	events := make([]*event.Event, len(rows))
	for i, row := range rows {
		events[i] = row.toEntity()
	}
	return events, nil
}

// ApplyTransaction は読み取り・変更・条件付き書き込みのループでイベントを更新する
// version が一致する場合のみUPDATEが成立する楽観的ロック。他の書き込みに
// 先行された場合は読み直して再試行し、上限に達するとErrTxConflictを返す。
// mutate がエラーを返した場合は再試行せず即座にそのエラーを返す
func (r *EventRepository) ApplyTransaction(ctx context.Context, id string, mutate func(*event.Event) error) (*event.Event, error) {
	query := `
		UPDATE events
		SET sport_type = $1, description = $2, latitude = $3, longitude = $4, start_at = $5,
		    capacity_remaining = $6, participants = $7, updated_at = $8, version = version + 1
		WHERE id = $9 AND version = $10
	`

	for attempt := 0; attempt < r.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		e, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		readVersion := e.Version

		if err := mutate(e); err != nil {
			return nil, err
		}

		var desc *string
		if e.Description != "" {
			desc = &e.Description
		}
		var lat, lng *float64
		if e.Location != nil {
			lat = &e.Location.Latitude
			lng = &e.Location.Longitude
		}
		now := time.Now()

		result, err := r.db.ExecContext(ctx, query,
			e.SportType, desc, lat, lng, e.StartAt,
			e.CapacityRemaining, pq.Array(e.Participants), now, id, readVersion,
		)
		if err != nil {
			return nil, fmt.Errorf("イベント更新に失敗しました: %w", err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("更新結果の確認に失敗しました: %w", err)
		}
		if rowsAffected == 1 {
			e.Version = readVersion + 1
			e.UpdatedAt = now
			return e, nil
		}
		// versionが進んでいた。読み直して再試行する
	}

	return nil, event.ErrTxConflict
}

// インターフェースを満たしているか確認
var _ event.Repository = (*EventRepository)(nil)
