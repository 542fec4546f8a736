package message

import "time"

// Message はイベントチャットの1件のメッセージを表す
// チャットは追記専用で、編集・削除は存在しない
type Message struct {
	ID       string
	EventID  string
	AuthorID string
	Text     string
	PostedAt time.Time
}

// NewMessage は新しいメッセージを作成する
func NewMessage(eventID, authorID, text string) *Message {
	return &Message{
		EventID:  eventID,
		AuthorID: authorID,
		Text:     text,
		PostedAt: time.Now(),
	}
}

// Validate はメッセージの検証を行う
func (m *Message) Validate() error {
	if m.EventID == "" {
		return ErrEventIDRequired
	}
	if m.AuthorID == "" {
		return ErrAuthorRequired
	}
	if m.Text == "" {
		return ErrTextRequired
	}
	return nil
}

// Clone はメッセージのコピーを返す
func (m *Message) Clone() *Message {
	clone := *m
	return &clone
}

// ClampPostedAt は同一イベント内でタイムスタンプが単調非減少になるよう
// 投稿時刻を補正する。時計の巻き戻りがあった場合は直前のメッセージの
// 1ミリ秒後に繰り上げる
func ClampPostedAt(last, proposed time.Time) time.Time {
	if last.IsZero() || proposed.After(last) {
		return proposed
	}
	return last.Add(time.Millisecond)
}
