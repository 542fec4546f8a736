package user

import (
	"context"
	"errors"
)

var ErrUserNotFound = errors.New("ユーザーが見つかりません")

// Profile はユーザーの表示用プロフィールを表す
// ユーザーの管理は外部のアイデンティティ基盤が行い、ここでは読み取り専用
type Profile struct {
	ID          string
	FirstName   string
	LastName    string
	Email       string
	PhoneNumber string
	Age         int
}

// DisplayName は表示名を返す
func (p *Profile) DisplayName() string {
	switch {
	case p.FirstName == "" && p.LastName == "":
		return p.ID
	case p.LastName == "":
		return p.FirstName
	case p.FirstName == "":
		return p.LastName
	}
	return p.FirstName + " " + p.LastName
}

// Provider はアイデンティティ基盤からプロフィールを取得するインターフェース
type Provider interface {
	GetByID(ctx context.Context, id string) (*Profile, error)
}
