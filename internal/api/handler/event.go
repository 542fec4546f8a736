package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/Peglo98/SocialSport2/internal/application"
	"github.com/Peglo98/SocialSport2/internal/domain/event"
	"github.com/Peglo98/SocialSport2/internal/domain/geo"
	"github.com/Peglo98/SocialSport2/internal/pkg/logger"
)

type EventHandler struct {
	eventService  EventServiceInterface
	searchService SearchServiceInterface
	directory     DirectoryInterface
	// addressResolver が nil の場合、住所解決は無効
	addressResolver AddressResolverInterface
}

func NewEventHandler(eventService EventServiceInterface, searchService SearchServiceInterface, directory DirectoryInterface, addressResolver AddressResolverInterface) *EventHandler {
	return &EventHandler{
		eventService:    eventService,
		searchService:   searchService,
		directory:       directory,
		addressResolver: addressResolver,
	}
}

type LocationPayload struct {
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90" example:"35.6812"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180" example:"139.7671"`
}

type CreateEventRequest struct {
	SportType   string           `json:"sport_type" validate:"required" example:"フットサル"`
	Description string           `json:"description" example:"平日夜の練習試合"`
	StartAt     string           `json:"start_at" validate:"required" example:"2026-09-05T19:00:00+09:00"`
	Location    *LocationPayload `json:"location" validate:"required"`
	// Capacity は0を許容する（最初から満員のイベント）。負数のみ拒否する
	Capacity    int              `json:"capacity" validate:"gte=0" example:"10"`
}

type EventResponse struct {
	ID                string           `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	SportType         string           `json:"sport_type" example:"フットサル"`
	Description       string           `json:"description" example:"平日夜の練習試合"`
	StartAt           string           `json:"start_at" example:"2026-09-05T19:00:00+09:00"`
	Location          *LocationPayload `json:"location,omitempty"`
	CapacityRemaining int              `json:"capacity_remaining" example:"10"`
	Participants      []string         `json:"participants"`
	Past              bool             `json:"past" example:"false"`
	CreatedAt         string           `json:"created_at" example:"2026-08-30T10:00:00+09:00"`
	UpdatedAt         string           `json:"updated_at" example:"2026-08-30T10:00:00+09:00"`
}

// EventDetailResponse は単一イベント取得のレスポンス
// 一覧にはない住所と参加者プロフィールを含む
type EventDetailResponse struct {
	EventResponse
	Address             string                `json:"address,omitempty" example:"東京都渋谷区道玄坂"`
	ParticipantProfiles []ParticipantResponse `json:"participant_profiles"`
}

type NearbyEventResponse struct {
	EventResponse
	DistanceKm float64 `json:"distance_km" example:"3.2"`
}

func toEventResponse(e *event.Event) EventResponse {
	var loc *LocationPayload
	if e.Location != nil {
		loc = &LocationPayload{Latitude: e.Location.Latitude, Longitude: e.Location.Longitude}
	}
	participants := e.Participants
	if participants == nil {
		participants = []string{}
	}
	return EventResponse{
		ID:                e.ID,
		SportType:         e.SportType,
		Description:       e.Description,
		StartAt:           e.StartAt.Format(time.RFC3339),
		Location:          loc,
		CapacityRemaining: e.CapacityRemaining,
		Participants:      participants,
		Past:              e.IsPast(time.Now()),
		CreatedAt:         e.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         e.UpdatedAt.Format(time.RFC3339),
	}
}

// Create godoc
// @Summary イベントを作成
// @Description 新しいスポーツイベントを作成します
// @Tags events
// @Accept json
// @Produce json
// @Param request body CreateEventRequest true "イベント情報"
// @Success 201 {object} EventResponse
// @Failure 400 {object} map[string]string
// @Router /events [post]
func (h *EventHandler) Create(c echo.Context) error {
	var req CreateEventRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "リクエストの形式が不正です"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	startAt, err := time.Parse(time.RFC3339, req.StartAt)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "開始時刻の形式が不正です"})
	}

	input := application.CreateEventInput{
		SportType:   req.SportType,
		Description: req.Description,
		StartAt:     startAt,
		Capacity:    req.Capacity,
	}
	if req.Location != nil {
		input.Location = &geo.Coordinate{Latitude: req.Location.Latitude, Longitude: req.Location.Longitude}
	}

	e, err := h.eventService.CreateEvent(c.Request().Context(), input)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, toEventResponse(e))
}

// GetByID godoc
// @Summary イベントを取得
// @Description 指定IDのイベントを住所と参加者プロフィール付きで取得します
// @Tags events
// @Produce json
// @Param id path string true "イベントID"
// @Success 200 {object} EventDetailResponse
// @Failure 404 {object} map[string]string
// @Router /events/{id} [get]
func (h *EventHandler) GetByID(c echo.Context) error {
	ctx := c.Request().Context()
	e, err := h.eventService.GetEvent(ctx, c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}

	resp := EventDetailResponse{
		EventResponse:       toEventResponse(e),
		ParticipantProfiles: []ParticipantResponse{},
	}
	for _, p := range h.directory.ResolveAll(ctx, e.Participants) {
		resp.ParticipantProfiles = append(resp.ParticipantProfiles, toParticipantResponse(p))
	}

	// 住所解決は任意機能。失敗してもイベント自体は返す
	if h.addressResolver != nil && e.Location != nil {
		address, err := h.addressResolver.Resolve(ctx, *e.Location)
		if err != nil {
			logger.Warn("住所解決に失敗",
				zap.String("event_id", e.ID), zap.Error(err))
		} else {
			resp.Address = address
		}
	}

	return c.JSON(http.StatusOK, resp)
}

// List godoc
// @Summary イベント一覧を取得
// @Description イベントの一覧を作成日時の新しい順で取得します
// @Tags events
// @Produce json
// @Param limit query int false "取得件数" default(20)
// @Success 200 {array} EventResponse
// @Router /events [get]
func (h *EventHandler) List(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	events, err := h.eventService.ListEvents(c.Request().Context(), limit)
	if err != nil {
		return respondError(c, err)
	}

	responses := make([]EventResponse, len(events))
	for i, e := range events {
		responses[i] = toEventResponse(e)
	}
	return c.JSON(http.StatusOK, responses)
}

// Nearby godoc
// @Summary 近傍イベントを検索
// @Description 指定した座標から半径内のイベントを距離の昇順で取得します
// @Tags events
// @Produce json
// @Param lat query number true "緯度"
// @Param lng query number true "経度"
// @Param radius_km query number false "検索半径（キロメートル）" default(10)
// @Success 200 {array} NearbyEventResponse
// @Failure 400 {object} map[string]string
// @Router /events/nearby [get]
func (h *EventHandler) Nearby(c echo.Context) error {
	lat, latErr := strconv.ParseFloat(c.QueryParam("lat"), 64)
	lng, lngErr := strconv.ParseFloat(c.QueryParam("lng"), 64)
	if latErr != nil || lngErr != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "緯度・経度の指定が不正です"})
	}

	radiusKm := 10.0
	if raw := c.QueryParam("radius_km"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed <= 0 {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "検索半径の指定が不正です"})
		}
		radiusKm = parsed
	}

	origin := &geo.Coordinate{Latitude: lat, Longitude: lng}
	results, err := h.searchService.SearchNearby(c.Request().Context(), origin, radiusKm)
	if err != nil {
		return respondError(c, err)
	}

	responses := make([]NearbyEventResponse, len(results))
	for i, r := range results {
		responses[i] = NearbyEventResponse{
			EventResponse: toEventResponse(r.Event),
			DistanceKm:    r.DistanceKm,
		}
	}
	return c.JSON(http.StatusOK, responses)
}
