package message

import "errors"

// Message ドメインのエラー定義
var (
	ErrEventIDRequired = errors.New("イベントIDは必須です")
	ErrAuthorRequired  = errors.New("投稿者IDは必須です")
	ErrTextRequired    = errors.New("メッセージ本文は必須です")
)
