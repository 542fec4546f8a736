package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Peglo98/SocialSport2/internal/domain/event"
	"github.com/Peglo98/SocialSport2/internal/domain/message"
	"github.com/Peglo98/SocialSport2/internal/domain/user"
)

// respondError はドメインエラーをHTTPステータスに対応付けて返す
func respondError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, event.ErrEventNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": "イベントが見つかりません"})
	case errors.Is(err, user.ErrUserNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": "ユーザーが見つかりません"})
	case errors.Is(err, event.ErrAlreadyJoined),
		errors.Is(err, event.ErrEventFull),
		errors.Is(err, event.ErrEventPast):
		return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, event.ErrTxConflict):
		// 再試行上限に達した。クライアントはしばらく待って再試行できる
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
	case errors.Is(err, event.ErrUserIDRequired):
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
	case errors.Is(err, event.ErrSportTypeRequired),
		errors.Is(err, event.ErrLocationRequired),
		errors.Is(err, event.ErrStartAtRequired),
		errors.Is(err, event.ErrInvalidCapacity),
		errors.Is(err, message.ErrEventIDRequired),
		errors.Is(err, message.ErrAuthorRequired),
		errors.Is(err, message.ErrTextRequired):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}
