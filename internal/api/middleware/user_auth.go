package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// HeaderUserID は呼び出し元ユーザーを識別するヘッダー名
// 認証基盤（APIゲートウェイ等）が検証済みのIDを付与する前提
const HeaderUserID = "X-User-ID"

// ContextKeyUserID はechoコンテキストに格納するユーザーIDのキー
const ContextKeyUserID = "user_id"

// RequireUser はユーザーIDヘッダーを必須にするミドルウェア
// ヘッダーがない場合は401を返す
func RequireUser() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID := c.Request().Header.Get(HeaderUserID)
			if userID == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "認証が必要です")
			}
			c.Set(ContextKeyUserID, userID)
			return next(c)
		}
	}
}

// UserID はコンテキストからユーザーIDを取り出す
func UserID(c echo.Context) string {
	if id, ok := c.Get(ContextKeyUserID).(string); ok {
		return id
	}
	return c.Request().Header.Get(HeaderUserID)
}
