package geo

import (
	"errors"
	"math"
)

// EarthRadiusKm は地球の半径（キロメートル）
const EarthRadiusKm = 6371.0

var (
	ErrLocationUnavailable = errors.New("現在地を取得できません")
	ErrPermissionDenied    = errors.New("位置情報へのアクセスが許可されていません")
)

// Coordinate は緯度経度の座標を表す
type Coordinate struct {
	Latitude  float64
	Longitude float64
}

// DistanceKm は2点間の大円距離をハバーサイン公式でキロメートル単位で返す
func DistanceKm(a, b Coordinate) float64 {
	dLat := toRad(b.Latitude - a.Latitude)
	dLon := toRad(b.Longitude - a.Longitude)
	lat1 := toRad(a.Latitude)
	lat2 := toRad(b.Latitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1)*math.Cos(lat2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusKm * c
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
