package handler

import (
	"context"

	"github.com/Peglo98/SocialSport2/internal/application"
	"github.com/Peglo98/SocialSport2/internal/domain/event"
	"github.com/Peglo98/SocialSport2/internal/domain/geo"
	"github.com/Peglo98/SocialSport2/internal/domain/message"
	"github.com/Peglo98/SocialSport2/internal/domain/user"
)

// EventServiceInterface はイベントサービスのインターフェース
type EventServiceInterface interface {
	CreateEvent(ctx context.Context, input application.CreateEventInput) (*event.Event, error)
	GetEvent(ctx context.Context, id string) (*event.Event, error)
	ListEvents(ctx context.Context, limit int) ([]*event.Event, error)
}

// JoinServiceInterface は参加サービスのインターフェース
type JoinServiceInterface interface {
	Join(ctx context.Context, eventID, userID string) (*event.Event, error)
}

// ChatServiceInterface はチャットサービスのインターフェース
type ChatServiceInterface interface {
	PostMessage(ctx context.Context, eventID, authorID, text string) (*message.Message, error)
	History(ctx context.Context, eventID string) ([]*message.Message, error)
}

// SearchServiceInterface は近傍検索サービスのインターフェース
type SearchServiceInterface interface {
	SearchNearby(ctx context.Context, origin *geo.Coordinate, radiusKm float64) ([]application.NearbyEvent, error)
}

// DirectoryInterface はユーザープロフィール解決のインターフェース
type DirectoryInterface interface {
	Resolve(ctx context.Context, userID string) (*user.Profile, error)
	ResolveAll(ctx context.Context, userIDs []string) []*user.Profile
}

// AddressResolverInterface は座標から住所を解決するインターフェース
type AddressResolverInterface interface {
	Resolve(ctx context.Context, coord geo.Coordinate) (string, error)
}
