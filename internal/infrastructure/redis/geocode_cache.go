package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Peglo98/SocialSport2/internal/domain/geo"
)

var (
	ErrCacheMiss = errors.New("キャッシュが見つかりません")
)

// AddressCache は逆ジオコーディング結果のキャッシュを管理する
// 住所は座標に対してほぼ不変なので長めのTTLで保持する
type AddressCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewAddressCache は新しいAddressCacheインスタンスを作成する
func NewAddressCache(client *redis.Client, ttl time.Duration) *AddressCache {
	return &AddressCache{client: client, ttl: ttl}
}

// Get は座標に対応する住所をキャッシュから取得する
func (c *AddressCache) Get(ctx context.Context, coord geo.Coordinate) (string, error) {
	val, err := c.client.Get(ctx, c.key(coord)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrCacheMiss
		}
		return "", fmt.Errorf("キャッシュ取得に失敗: %w", err)
	}
	return val, nil
}

// Set は座標に対応する住所をキャッシュに保存する
func (c *AddressCache) Set(ctx context.Context, coord geo.Coordinate, address string) error {
	if err := c.client.Set(ctx, c.key(coord), address, c.ttl).Err(); err != nil {
		return fmt.Errorf("キャッシュ保存に失敗: %w", err)
	}
	return nil
}

// 小数第5位（約1m）で丸めて近接する座標のキーを揃える
func (c *AddressCache) key(coord geo.Coordinate) string {
	return fmt.Sprintf("geocode:%.5f:%.5f", coord.Latitude, coord.Longitude)
}
