package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Peglo98/SocialSport2/internal/domain/user"
)

type ParticipantHandler struct {
	directory DirectoryInterface
}

func NewParticipantHandler(directory DirectoryInterface) *ParticipantHandler {
	return &ParticipantHandler{directory: directory}
}

type ParticipantResponse struct {
	ID          string `json:"id" example:"user-123"`
	DisplayName string `json:"display_name" example:"山田 太郎"`
	FirstName   string `json:"first_name,omitempty" example:"太郎"`
	LastName    string `json:"last_name,omitempty" example:"山田"`
	Email       string `json:"email,omitempty" example:"taro@example.com"`
	PhoneNumber string `json:"phone_number,omitempty" example:"090-1234-5678"`
	Age         int    `json:"age,omitempty" example:"28"`
}

func toParticipantResponse(p *user.Profile) ParticipantResponse {
	return ParticipantResponse{
		ID:          p.ID,
		DisplayName: p.DisplayName(),
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		Email:       p.Email,
		PhoneNumber: p.PhoneNumber,
		Age:         p.Age,
	}
}

// GetByID godoc
// @Summary ユーザープロフィールを取得
// @Description 指定IDのユーザープロフィールを取得します
// @Tags users
// @Produce json
// @Param id path string true "ユーザーID"
// @Success 200 {object} ParticipantResponse
// @Failure 404 {object} map[string]string
// @Router /users/{id} [get]
func (h *ParticipantHandler) GetByID(c echo.Context) error {
	p, err := h.directory.Resolve(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toParticipantResponse(p))
}
