package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/h4ks-com/cashbook/internal/repository"
)

// TableCounter reports the row count of each application table.
type TableCounter func() (map[string]int64, error)

type AdminHandler struct {
	userRepo    *repository.UserRepository
	tableCounts TableCounter
}

func NewAdminHandler(userRepo *repository.UserRepository, tableCounts TableCounter) *AdminHandler {
	return &AdminHandler{
		userRepo:    userRepo,
		tableCounts: tableCounts,
	}
}

type StatsResponse struct {
	Tables map[string]int64 `json:"tables"`
}

// ListUsers godoc
// @Summary List all users (Admin)
// @Description Get every registered account
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} UserResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /admin/users [get]
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.userRepo.FindAll()
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]UserResponse, len(users))
	for i, user := range users {
		response[i] = UserResponse{
			ID:        user.ID,
			Username:  user.Username,
			CreatedAt: user.CreatedAt.UTC().Format(time.RFC3339),
		}
	}

	c.JSON(http.StatusOK, response)
}

// GetStats godoc
// @Summary Storage statistics (Admin)
// @Description Row counts per table
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} StatsResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /admin/stats [get]
func (h *AdminHandler) GetStats(c *gin.Context) {
	counts, err := h.tableCounts()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, StatsResponse{Tables: counts})
}
