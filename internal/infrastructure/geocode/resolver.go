package geocode

import (
	"context"
	"errors"

	"github.com/Peglo98/SocialSport2/internal/domain/geo"
)

// ErrUnresolved は座標に対応する住所が見つからなかったことを表す
var ErrUnresolved = errors.New("住所を解決できませんでした")

// Resolver は座標を人が読める住所に変換するインターフェース
type Resolver interface {
	Resolve(ctx context.Context, coord geo.Coordinate) (string, error)
}
