package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Peglo98/SocialSport2/internal/domain/event"
	"github.com/Peglo98/SocialSport2/internal/domain/message"
)

// messageRow はDBの行を表す構造体
type messageRow struct {
	ID       string    `db:"id"`
	EventID  string    `db:"event_id"`
	AuthorID string    `db:"author_id"`
	Text     string    `db:"text"`
	PostedAt time.Time `db:"posted_at"`
}

func (r *messageRow) toEntity() *message.Message {
	return &message.Message{
		ID:       r.ID,
		EventID:  r.EventID,
		AuthorID: r.AuthorID,
		Text:     r.Text,
		PostedAt: r.PostedAt,
	}
}

// MessageRepository はチャットメッセージのPostgreSQL実装
type MessageRepository struct {
	db *sqlx.DB
}

// NewMessageRepository はMessageRepositoryを作成する
func NewMessageRepository(db *sqlx.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Append はメッセージを履歴の末尾に追記する
// イベント行をロックして同一イベントへの追記を直列化し、
// タイムスタンプが直前のメッセージより後になるよう補正してから保存する
func (r *MessageRepository) Append(ctx context.Context, m *message.Message) error {
	if err := m.Validate(); err != nil {
		return err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("トランザクション開始に失敗しました: %w", err)
	}
	defer tx.Rollback()

	var eventID string
	err = tx.GetContext(ctx, &eventID, `SELECT id FROM events WHERE id = $1 FOR UPDATE`, m.EventID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return event.ErrEventNotFound
		}
		return fmt.Errorf("イベント行のロックに失敗しました: %w", err)
	}

	var last time.Time
	err = tx.GetContext(ctx, &last,
		`SELECT posted_at FROM messages WHERE event_id = $1 ORDER BY seq DESC LIMIT 1`, m.EventID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("直前メッセージの取得に失敗しました: %w", err)
	}
	m.PostedAt = message.ClampPostedAt(last, m.PostedAt)

	err = tx.QueryRowContext(ctx,
		`INSERT INTO messages (event_id, author_id, text, posted_at) VALUES ($1, $2, $3, $4) RETURNING id`,
		m.EventID, m.AuthorID, m.Text, m.PostedAt,
	).Scan(&m.ID)
	if err != nil {
		return fmt.Errorf("メッセージ保存に失敗しました: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("トランザクションのコミットに失敗しました: %w", err)
	}
	return nil
}

// ListByEvent はイベントのメッセージ履歴を投稿順で取得する
func (r *MessageRepository) ListByEvent(ctx context.Context, eventID string) ([]*message.Message, error) {
	query := `SELECT id, event_id, author_id, text, posted_at FROM messages WHERE event_id = $1 ORDER BY seq ASC`

	var rows []messageRow
	if err := r.db.SelectContext(ctx, &rows, query, eventID); err != nil {
		return nil, fmt.Errorf("メッセージ履歴の取得に失敗しました: %w", err)
	}

	messages := make([]*message.Message, len(rows))
	for i, row := range rows {
		messages[i] = row.toEntity()
	}
	return messages, nil
}

var _ message.Repository = (*MessageRepository)(nil)
