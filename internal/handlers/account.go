package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/h4ks-com/cashbook/internal/auth"
	"github.com/h4ks-com/cashbook/internal/services"
)

type AccountHandler struct {
	accountService *services.AccountService
	tokenService   *services.TokenService
	tokenTTL       time.Duration
}

func NewAccountHandler(accountService *services.AccountService, tokenService *services.TokenService, tokenTTL time.Duration) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		tokenService:   tokenService,
		tokenTTL:       tokenTTL,
	}
}

type RegisterRequest struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UserResponse struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	CreatedAt string `json:"created_at"`
}

// Register godoc
// @Summary Register
// @Description Create a new account with a username and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Account details"
// @Success 201 {object} UserResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/register [post]
func (h *AccountHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request: " + err.Error()})
		return
	}

	user, err := h.accountService.Register(req.Username, req.Password, req.ConfirmPassword)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		CreatedAt: user.CreatedAt.UTC().Format(time.RFC3339),
	})
}

// IssueToken godoc
// @Summary Log in
// @Description Exchange a username and password for a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 201 {object} CreateTokenResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/token [post]
func (h *AccountHandler) IssueToken(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request: " + err.Error()})
		return
	}

	user, err := h.accountService.Verify(req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	token, expiresAt, err := h.tokenService.GenerateToken(user.ID, h.tokenTTL)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, CreateTokenResponse{
		Token:     token,
		ExpiresAt: expiresAt.Format(time.RFC3339),
	})
}

// Me godoc
// @Summary Current user
// @Description Get the authenticated user's account
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} UserResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /me [get]
func (h *AccountHandler) Me(c *gin.Context) {
	principal, _ := auth.CurrentPrincipal(c)

	user, err := h.accountService.FindByID(principal.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		CreatedAt: user.CreatedAt.UTC().Format(time.RFC3339),
	})
}
