package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Peglo98/SocialSport2/internal/api/middleware"
)

type JoinHandler struct {
	joinService JoinServiceInterface
}

func NewJoinHandler(joinService JoinServiceInterface) *JoinHandler {
	return &JoinHandler{joinService: joinService}
}

// Join godoc
// @Summary イベントに参加
// @Description 呼び出し元ユーザーをイベントに参加させます
// @Tags events
// @Produce json
// @Param id path string true "イベントID"
// @Success 200 {object} EventResponse
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /events/{id}/join [post]
func (h *JoinHandler) Join(c echo.Context) error {
	userID := middleware.UserID(c)
	if userID == "" {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "認証が必要です"})
	}

	e, err := h.joinService.Join(c.Request().Context(), c.Param("id"), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toEventResponse(e))
}
