package memory

import (
	"context"
	"sync"

	"github.com/Peglo98/SocialSport2/internal/domain/user"
)

// UserProvider はアイデンティティ基盤のインメモリ実装
// 組み込みバックエンドでの動作確認とテストのための代替
type UserProvider struct {
	mu       sync.RWMutex
	profiles map[string]*user.Profile
}

// NewUserProvider はUserProviderを作成する
func NewUserProvider() *UserProvider {
	return &UserProvider{profiles: make(map[string]*user.Profile)}
}

// Put はプロフィールを登録する
func (p *UserProvider) Put(profile *user.Profile) {
	p.mu.Lock()
	defer p.mu.Unlock()
	clone := *profile
	p.profiles[profile.ID] = &clone
}

// GetByID はIDからプロフィールを取得する
func (p *UserProvider) GetByID(ctx context.Context, id string) (*user.Profile, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	profile, ok := p.profiles[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	clone := *profile
	return &clone, nil
}

var _ user.Provider = (*UserProvider)(nil)
