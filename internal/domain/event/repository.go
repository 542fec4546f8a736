package event

import "context"

// Repository はイベントリポジトリのインターフェース
type Repository interface {
	// Create は新しいイベントを保存し、IDを採番する
	Create(ctx context.Context, e *Event) error

	// GetByID はIDからイベントを取得する
	GetByID(ctx context.Context, id string) (*Event, error)

	// List はイベント一覧を作成日時の新しい順で取得する
	// limit が 0 以下の場合は全件を返す
	List(ctx context.Context, limit int) ([]*Event, error)

	// ApplyTransaction は現在のレコードに mutate を適用し、読み取り時から
	// 変更されていない場合のみ結果を保存する（楽観的ロック）
	// 競合時は内部で上限回数まで再試行し、尽きた場合は ErrTxConflict を返す
	// mutate がエラーを返した場合は再試行せずそのまま返す
	ApplyTransaction(ctx context.Context, id string, mutate func(e *Event) error) (*Event, error)
}
