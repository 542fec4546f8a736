package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Peglo98/SocialSport2/internal/api/middleware"
	"github.com/Peglo98/SocialSport2/internal/domain/message"
)

type ChatHandler struct {
	chatService ChatServiceInterface
}

func NewChatHandler(chatService ChatServiceInterface) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

type PostMessageRequest struct {
	Text string `json:"text" validate:"required" example:"今日よろしく！"`
}

type MessageResponse struct {
	ID       string `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	EventID  string `json:"event_id" example:"550e8400-e29b-41d4-a716-446655440001"`
	AuthorID string `json:"author_id" example:"user-123"`
	Text     string `json:"text" example:"今日よろしく！"`
	PostedAt string `json:"posted_at" example:"2026-08-30T19:00:00.123+09:00"`
}

func toMessageResponse(m *message.Message) MessageResponse {
	return MessageResponse{
		ID:       m.ID,
		EventID:  m.EventID,
		AuthorID: m.AuthorID,
		Text:     m.Text,
		PostedAt: m.PostedAt.Format(time.RFC3339Nano),
	}
}

// Post godoc
// @Summary メッセージを投稿
// @Description イベントのチャットにメッセージを投稿します
// @Tags chat
// @Accept json
// @Produce json
// @Param id path string true "イベントID"
// @Param request body PostMessageRequest true "メッセージ"
// @Success 201 {object} MessageResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /events/{id}/messages [post]
func (h *ChatHandler) Post(c echo.Context) error {
	userID := middleware.UserID(c)
	if userID == "" {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "認証が必要です"})
	}

	var req PostMessageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "リクエストの形式が不正です"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	m, err := h.chatService.PostMessage(c.Request().Context(), c.Param("id"), userID, req.Text)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, toMessageResponse(m))
}

// History godoc
// @Summary メッセージ履歴を取得
// @Description イベントのチャット履歴を投稿順で取得します
// @Tags chat
// @Produce json
// @Param id path string true "イベントID"
// @Success 200 {array} MessageResponse
// @Failure 404 {object} map[string]string
// @Router /events/{id}/messages [get]
func (h *ChatHandler) History(c echo.Context) error {
	messages, err := h.chatService.History(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}

	responses := make([]MessageResponse, len(messages))
	for i, m := range messages {
		responses[i] = toMessageResponse(m)
	}
	return c.JSON(http.StatusOK, responses)
}
