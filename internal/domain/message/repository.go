package message

import "context"

// Repository はチャットメッセージリポジトリのインターフェース
type Repository interface {
	// Append はメッセージを末尾に追記し、IDを採番する
	// 同一イベントへの追記は直列化され、PostedAt は ClampPostedAt の
	// 規則に従って補正される
	Append(ctx context.Context, m *Message) error

	// ListByEvent はイベントのメッセージを投稿順で取得する
	ListByEvent(ctx context.Context, eventID string) ([]*Message, error)
}
