package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Peglo98/SocialSport2/internal/domain/event"
	"github.com/Peglo98/SocialSport2/internal/domain/geo"
	"github.com/Peglo98/SocialSport2/internal/infrastructure/memory"
)

func eventAt(id, sport string, loc *geo.Coordinate) *event.Event {
	return &event.Event{
		ID:                id,
		SportType:         sport,
		StartAt:           time.Now().Add(24 * time.Hour),
		Location:          loc,
		CapacityRemaining: 5,
	}
}

func TestFilterByProximity(t *testing.T) {
	tokyo := geo.Coordinate{Latitude: 35.6812, Longitude: 139.7671}

	t.Run("半径内のイベントだけが残る", func(t *testing.T) {
		events := []*event.Event{
			eventAt("shinjuku", "ランニング", &geo.Coordinate{Latitude: 35.6896, Longitude: 139.7006}),
			eventAt("osaka", "サッカー", &geo.Coordinate{Latitude: 34.6937, Longitude: 135.5023}),
		}

		result := FilterByProximity(events, tokyo, 10)
		require.Len(t, result, 1)
		assert.Equal(t, "shinjuku", result[0].Event.ID)
		assert.InDelta(t, 6.1, result[0].DistanceKm, 0.5)
	})

	t.Run("距離の昇順で並ぶ", func(t *testing.T) {
		events := []*event.Event{
			eventAt("yokohama", "テニス", &geo.Coordinate{Latitude: 35.4437, Longitude: 139.6380}),
			eventAt("shinjuku", "ランニング", &geo.Coordinate{Latitude: 35.6896, Longitude: 139.7006}),
			eventAt("shibuya", "バスケットボール", &geo.Coordinate{Latitude: 35.6580, Longitude: 139.7016}),
		}

		result := FilterByProximity(events, tokyo, 50)
		require.Len(t, result, 3)
		assert.Equal(t, "shibuya", result[0].Event.ID)
		assert.Equal(t, "shinjuku", result[1].Event.ID)
		assert.Equal(t, "yokohama", result[2].Event.ID)
	})

	t.Run("境界ちょうどの距離は含む", func(t *testing.T) {
		origin := geo.Coordinate{Latitude: 0, Longitude: 0}
		target := geo.Coordinate{Latitude: 0, Longitude: 90}
		exact := geo.DistanceKm(origin, target)

		events := []*event.Event{eventAt("boundary", "サッカー", &target)}
		assert.Len(t, FilterByProximity(events, origin, exact), 1)
		assert.Empty(t, FilterByProximity(events, origin, exact-0.001))
	})

	t.Run("位置情報のないイベントは除外される", func(t *testing.T) {
		events := []*event.Event{
			eventAt("no-location", "サッカー", nil),
			eventAt("here", "サッカー", &tokyo),
		}

		result := FilterByProximity(events, tokyo, 100)
		require.Len(t, result, 1)
		assert.Equal(t, "here", result[0].Event.ID)
		assert.Equal(t, 0.0, result[0].DistanceKm)
	})

	t.Run("同距離はIDで順序が決まる", func(t *testing.T) {
		loc := geo.Coordinate{Latitude: 35.0, Longitude: 139.0}
		events := []*event.Event{
			eventAt("b-event", "サッカー", &loc),
			eventAt("a-event", "テニス", &loc),
		}

		result := FilterByProximity(events, tokyo, 1000)
		require.Len(t, result, 2)
		assert.Equal(t, "a-event", result[0].Event.ID)
		assert.Equal(t, "b-event", result[1].Event.ID)
	})
}

func TestSearchService_SearchNearby(t *testing.T) {
	ctx := context.Background()

	t.Run("現在地が不明な場合はErrLocationUnavailable", func(t *testing.T) {
		svc := NewSearchService(memory.NewEventRepository(5))
		_, err := svc.SearchNearby(ctx, nil, 10)
		assert.ErrorIs(t, err, geo.ErrLocationUnavailable)
	})

	t.Run("ストアの全イベントを対象に検索する", func(t *testing.T) {
		repo := memory.NewEventRepository(5)
		svc := NewSearchService(repo)

		near := event.NewEvent("ランニング", "朝ラン", time.Now().Add(time.Hour),
			&geo.Coordinate{Latitude: 35.6896, Longitude: 139.7006}, 10)
		far := event.NewEvent("サッカー", "遠征", time.Now().Add(time.Hour),
			&geo.Coordinate{Latitude: 34.6937, Longitude: 135.5023}, 10)
		require.NoError(t, repo.Create(ctx, near))
		require.NoError(t, repo.Create(ctx, far))

		result, err := svc.SearchNearby(ctx, &geo.Coordinate{Latitude: 35.6812, Longitude: 139.7671}, 20)
		require.NoError(t, err)
		require.Len(t, result, 1)
		assert.Equal(t, near.ID, result[0].Event.ID)
	})
}
