package geocode

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/Peglo98/SocialSport2/internal/domain/geo"
	"github.com/Peglo98/SocialSport2/internal/infrastructure/redis"
	"github.com/Peglo98/SocialSport2/internal/pkg/logger"
)

// CachedResolver はResolverの結果をRedisにキャッシュする
// キャッシュの読み書き失敗は解決自体を妨げない
type CachedResolver struct {
	inner Resolver
	cache *redis.AddressCache
}

// NewCachedResolver はCachedResolverを作成する
func NewCachedResolver(inner Resolver, cache *redis.AddressCache) *CachedResolver {
	return &CachedResolver{inner: inner, cache: cache}
}

// Resolve はキャッシュを優先して住所を解決する
func (r *CachedResolver) Resolve(ctx context.Context, coord geo.Coordinate) (string, error) {
	address, err := r.cache.Get(ctx, coord)
	if err == nil {
		return address, nil
	}
	if !errors.Is(err, redis.ErrCacheMiss) {
		logger.Warn("住所キャッシュの取得に失敗", zap.Error(err))
	}

	address, err = r.inner.Resolve(ctx, coord)
	if err != nil {
		return "", err
	}

	if err := r.cache.Set(ctx, coord, address); err != nil {
		logger.Warn("住所キャッシュの保存に失敗", zap.Error(err))
	}
	return address, nil
}

var _ Resolver = (*CachedResolver)(nil)
