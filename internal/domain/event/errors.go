package event

import "errors"

// Event ドメインのエラー定義
var (
	ErrEventNotFound     = errors.New("イベントが見つかりません")
	ErrAlreadyJoined     = errors.New("既にこのイベントに参加しています")
	ErrEventFull         = errors.New("イベントは満員です")
	ErrEventPast         = errors.New("イベントは既に終了しています")
	ErrSportTypeRequired = errors.New("スポーツ種目は必須です")
	ErrLocationRequired  = errors.New("開催場所は必須です")
	ErrStartAtRequired   = errors.New("開催日時は必須です")
	ErrInvalidCapacity   = errors.New("募集人数は0以上である必要があります")
	ErrUserIDRequired    = errors.New("ユーザーIDは必須です")
	ErrTxConflict        = errors.New("楽観的ロックの競合が解消できませんでした")
)
