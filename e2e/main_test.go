package e2e

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Peglo98/SocialSport2/internal/api"
	"github.com/Peglo98/SocialSport2/internal/api/handler"
	apimiddleware "github.com/Peglo98/SocialSport2/internal/api/middleware"
	"github.com/Peglo98/SocialSport2/internal/application"
	"github.com/Peglo98/SocialSport2/internal/domain/user"
	"github.com/Peglo98/SocialSport2/internal/hub"
	"github.com/Peglo98/SocialSport2/internal/infrastructure/memory"
	"github.com/Peglo98/SocialSport2/internal/pkg/metrics"
)

// TestApp はテスト用にフル構成したアプリケーション
// 外部サービスに依存しないよう組み込みストアで組み立てる
type TestApp struct {
	Echo  *echo.Echo
	Hub   *hub.Hub
	Users *memory.UserProvider
}

// newTestApp は本番と同じ配線でアプリケーションを構成する
func newTestApp() *TestApp {
	m := metrics.NewWithRegistry(prometheus.NewRegistry())
	h := hub.New()

	eventRepo := memory.NewEventRepository(5)
	messageRepo := memory.NewMessageRepository()
	userProvider := memory.NewUserProvider()
	userProvider.Put(&user.Profile{ID: "user-a", FirstName: "太郎", LastName: "山田"})
	userProvider.Put(&user.Profile{ID: "user-b", FirstName: "花子", LastName: "佐藤"})

	broadcaster := application.NewBroadcaster(h, nil, eventRepo, messageRepo)
	eventService := application.NewEventService(eventRepo, broadcaster)
	joinService := application.NewJoinService(eventRepo, broadcaster, m)
	chatService := application.NewChatService(eventRepo, messageRepo, broadcaster, m)
	searchService := application.NewSearchService(eventRepo)
	directory := application.NewDirectory(userProvider)

	eventHandler := handler.NewEventHandler(eventService, searchService, directory, nil)
	joinHandler := handler.NewJoinHandler(joinService)
	chatHandler := handler.NewChatHandler(chatService)
	participantHandler := handler.NewParticipantHandler(directory)
	subscribeHandler := handler.NewSubscribeHandler(h, m)
	healthHandler := handler.NewHealthHandler()

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = api.CustomHTTPErrorHandler
	e.Validator = api.NewValidator()

	v1 := e.Group("/api/v1")
	v1.GET("/health", healthHandler.Check)
	v1.POST("/events", eventHandler.Create)
	v1.GET("/events", eventHandler.List)
	v1.GET("/events/nearby", eventHandler.Nearby)
	v1.GET("/events/:id", eventHandler.GetByID)
	v1.POST("/events/:id/join", joinHandler.Join, apimiddleware.RequireUser())
	v1.GET("/events/:id/messages", chatHandler.History)
	v1.POST("/events/:id/messages", chatHandler.Post, apimiddleware.RequireUser())
	v1.GET("/users/:id", participantHandler.GetByID)

	ws := e.Group("/ws")
	ws.GET("/events", subscribeHandler.Events)
	ws.GET("/events/:id", subscribeHandler.Event)
	ws.GET("/events/:id/chat", subscribeHandler.Chat)

	return &TestApp{Echo: e, Hub: h, Users: userProvider}
}
