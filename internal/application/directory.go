package application

import (
	"context"
	"sync"

	"github.com/Peglo98/SocialSport2/internal/domain/user"
)

// Directory は ユーザーID → 表示プロフィール のリードスルーキャッシュ
// プロフィールはセッション中は安定しているとみなし、プロセスの寿命の間
// キャッシュし続ける（明示的な無効化はない）
// キャッシュは追記専用で、ロックなしの並行読み取りに対して安全
type Directory struct {
	provider user.Provider
	cache    sync.Map // userID -> *user.Profile
}

func NewDirectory(provider user.Provider) *Directory {
	return &Directory{provider: provider}
}

// Resolve はプロフィールを返す。初回のみ外部から取得し、以後はキャッシュから返す
// 見つからなかった結果はキャッシュしない
func (d *Directory) Resolve(ctx context.Context, userID string) (*user.Profile, error) {
	if v, ok := d.cache.Load(userID); ok {
		return v.(*user.Profile), nil
	}

	profile, err := d.provider.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	actual, _ := d.cache.LoadOrStore(userID, profile)
	return actual.(*user.Profile), nil
}

// ResolveAll は複数ユーザーのプロフィールをまとめて返す
// 解決できなかったユーザーは結果から除外する
func (d *Directory) ResolveAll(ctx context.Context, userIDs []string) []*user.Profile {
	profiles := make([]*user.Profile, 0, len(userIDs))
	for _, id := range userIDs {
		p, err := d.Resolve(ctx, id)
		if err != nil {
			continue
		}
		profiles = append(profiles, p)
	}
	return profiles
}
