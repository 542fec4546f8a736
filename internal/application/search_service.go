package application

import (
	"context"
	"sort"

	"github.com/Peglo98/SocialSport2/internal/domain/event"
	"github.com/Peglo98/SocialSport2/internal/domain/geo"
)

// NearbyEvent は距離付きの検索結果の1件を表す
type NearbyEvent struct {
	Event      *event.Event
	DistanceKm float64
}

// SearchService は現在地からの近傍イベント検索を行う
type SearchService struct {
	eventRepo event.Repository
}

func NewSearchService(eventRepo event.Repository) *SearchService {
	return &SearchService{eventRepo: eventRepo}
}

// SearchNearby は origin から radiusKm 以内のイベントを距離の昇順で返す
// 半径はキロメートル。境界ちょうどのイベントは含む
func (s *SearchService) SearchNearby(ctx context.Context, origin *geo.Coordinate, radiusKm float64) ([]NearbyEvent, error) {
	if origin == nil {
		return nil, geo.ErrLocationUnavailable
	}
	events, err := s.eventRepo.List(ctx, 0)
	if err != nil {
		return nil, err
	}
	return FilterByProximity(events, *origin, radiusKm), nil
}

// FilterByProximity は位置情報を持つイベントを距離でふるいにかける
// 場所が不明なイベントは結果から除外する（距離未定義のまま含めない）
// 並びは距離の昇順、同距離はイベントIDで決める
func FilterByProximity(events []*event.Event, origin geo.Coordinate, radiusKm float64) []NearbyEvent {
	result := make([]NearbyEvent, 0, len(events))
	for _, e := range events {
		if e.Location == nil {
			continue
		}
		d := geo.DistanceKm(origin, *e.Location)
		if d <= radiusKm {
			result = append(result, NearbyEvent{Event: e, DistanceKm: d})
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].DistanceKm != result[j].DistanceKm {
			return result[i].DistanceKm < result[j].DistanceKm
		}
		return result[i].Event.ID < result[j].Event.ID
	})
	return result
}
