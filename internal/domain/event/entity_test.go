package event

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Peglo98/SocialSport2/internal/domain/geo"
)

func newTestEvent(capacity int) *Event {
	return NewEvent(
		"サッカー",
		"公園で気軽に",
		time.Now().Add(24*time.Hour),
		&geo.Coordinate{Latitude: 52.2297, Longitude: 21.0122},
		capacity,
	)
}

func TestEvent_Validate(t *testing.T) {
	t.Run("正常なイベント", func(t *testing.T) {
		assert.NoError(t, newTestEvent(10).Validate())
	})

	t.Run("種目なしはエラー", func(t *testing.T) {
		e := newTestEvent(10)
		e.SportType = ""
		assert.ErrorIs(t, e.Validate(), ErrSportTypeRequired)
	})

	t.Run("場所なしはエラー", func(t *testing.T) {
		e := newTestEvent(10)
		e.Location = nil
		assert.ErrorIs(t, e.Validate(), ErrLocationRequired)
	})

	t.Run("開催日時なしはエラー", func(t *testing.T) {
		e := newTestEvent(10)
		e.StartAt = time.Time{}
		assert.ErrorIs(t, e.Validate(), ErrStartAtRequired)
	})

	t.Run("負の募集人数はエラー", func(t *testing.T) {
		e := newTestEvent(-1)
		assert.ErrorIs(t, e.Validate(), ErrInvalidCapacity)
	})

	t.Run("募集人数0は有効", func(t *testing.T) {
		e := newTestEvent(0)
		assert.NoError(t, e.Validate())
		assert.True(t, e.IsFull())
	})
}

func TestEvent_Join(t *testing.T) {
	t.Run("参加すると残り枠が1減る", func(t *testing.T) {
		e := newTestEvent(2)
		require.NoError(t, e.Join("user-a"))
		assert.Equal(t, 1, e.CapacityRemaining)
		assert.True(t, e.HasParticipant("user-a"))
	})

	t.Run("重複参加はエラーで状態は変わらない", func(t *testing.T) {
		e := newTestEvent(2)
		require.NoError(t, e.Join("user-a"))
		assert.ErrorIs(t, e.Join("user-a"), ErrAlreadyJoined)
		assert.Equal(t, 1, e.CapacityRemaining)
		assert.Len(t, e.Participants, 1)
	})

	t.Run("満員のイベントには参加できない", func(t *testing.T) {
		e := newTestEvent(1)
		require.NoError(t, e.Join("user-a"))
		assert.True(t, e.IsFull())
		assert.ErrorIs(t, e.Join("user-b"), ErrEventFull)
		assert.Equal(t, 0, e.CapacityRemaining)
	})

	t.Run("ユーザーIDなしはエラー", func(t *testing.T) {
		e := newTestEvent(1)
		assert.ErrorIs(t, e.Join(""), ErrUserIDRequired)
	})

	t.Run("残り枠は負にならない", func(t *testing.T) {
		e := newTestEvent(1)
		require.NoError(t, e.Join("user-a"))
		_ = e.Join("user-b")
		_ = e.Join("user-c")
		assert.GreaterOrEqual(t, e.CapacityRemaining, 0)
	})
}

func TestEvent_IsPast(t *testing.T) {
	e := newTestEvent(5)
	now := time.Now()

	e.StartAt = now.Add(time.Hour)
	assert.False(t, e.IsPast(now))

	e.StartAt = now.Add(-time.Hour)
	assert.True(t, e.IsPast(now))
}

func TestEvent_Clone(t *testing.T) {
	e := newTestEvent(3)
	require.NoError(t, e.Join("user-a"))

	clone := e.Clone()
	require.NoError(t, clone.Join("user-b"))
	clone.Location.Latitude = 0

	assert.Len(t, e.Participants, 1, "コピー側の変更は元に影響しない")
	assert.Equal(t, 52.2297, e.Location.Latitude)
	assert.Equal(t, 2, e.CapacityRemaining)
}
