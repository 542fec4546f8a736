package event

import (
	"time"

	"github.com/Peglo98/SocialSport2/internal/domain/geo"
)

// Event はスポーツイベントのエンティティを表す
// 開催場所・日時・種目は作成後に変更されない
type Event struct {
	ID                string
	SportType         string
	Description       string
	StartAt           time.Time
	Location          *geo.Coordinate
	CapacityRemaining int
	Participants      []string
	CreatedAt         time.Time
	UpdatedAt         time.Time
	Version           int // 楽観的ロック用
}

// NewEvent は新しいイベントを作成する
func NewEvent(sportType, description string, startAt time.Time, location *geo.Coordinate, capacity int) *Event {
	now := time.Now()
	return &Event{
		SportType:         sportType,
		Description:       description,
		StartAt:           startAt,
		Location:          location,
		CapacityRemaining: capacity,
		Participants:      []string{},
		CreatedAt:         now,
		UpdatedAt:         now,
		Version:           0,
	}
}

// Validate はイベントの検証を行う
func (e *Event) Validate() error {
	if e.SportType == "" {
		return ErrSportTypeRequired
	}
	if e.Location == nil {
		return ErrLocationRequired
	}
	if e.StartAt.IsZero() {
		return ErrStartAtRequired
	}
	if e.CapacityRemaining < 0 {
		return ErrInvalidCapacity
	}
	return nil
}

// HasParticipant はユーザーが既に参加しているかを返す
func (e *Event) HasParticipant(userID string) bool {
	for _, id := range e.Participants {
		if id == userID {
			return true
		}
	}
	return false
}

// IsFull は残り枠がないかを返す
func (e *Event) IsFull() bool {
	return e.CapacityRemaining <= 0
}

// IsPast はイベントの開催日時が過ぎているかを返す
func (e *Event) IsPast(now time.Time) bool {
	return e.StartAt.Before(now)
}

// Join はユーザーをイベントに参加させる
// 重複参加と定員超過はここで弾かれるため、Participants への追加と
// CapacityRemaining の減算は常に対になる
func (e *Event) Join(userID string) error {
	if userID == "" {
		return ErrUserIDRequired
	}
	if e.HasParticipant(userID) {
		return ErrAlreadyJoined
	}
	if e.IsFull() {
		return ErrEventFull
	}
	e.Participants = append(e.Participants, userID)
	e.CapacityRemaining--
	e.UpdatedAt = time.Now()
	return nil
}

// Clone はイベントの深いコピーを返す
func (e *Event) Clone() *Event {
	clone := *e
	if e.Location != nil {
		loc := *e.Location
		clone.Location = &loc
	}
	clone.Participants = make([]string, len(e.Participants))
	copy(clone.Participants, e.Participants)
	return &clone
}
