package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/h4ks-com/cashbook/internal/services"
)

type TokenHandler struct {
	tokenService *services.TokenService
}

func NewTokenHandler(tokenService *services.TokenService) *TokenHandler {
	return &TokenHandler{tokenService: tokenService}
}

type CreateTokenRequest struct {
	ExpiresIn string `json:"expires_in" binding:"required" example:"720h"`
}

type CreateTokenResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
}

type TokenListResponse struct {
	ID        uint   `json:"id"`
	ExpiresAt string `json:"expires_at"`
	CreatedAt string `json:"created_at"`
}

// CreateToken godoc
// @Summary Create API token
// @Description Create an additional API token with the given lifetime
// @Tags tokens
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateTokenRequest true "Token lifetime as a Go duration (e.g. 24h, 720h)"
// @Success 201 {object} CreateTokenResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /tokens [post]
func (h *TokenHandler) CreateToken(c *gin.Context) {
	var req CreateTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request: " + err.Error()})
		return
	}

	duration, err := time.ParseDuration(req.ExpiresIn)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid expires_in format, use a duration like 24h or 720h"})
		return
	}

	if duration <= 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "expires_in must be positive"})
		return
	}

	token, expiresAt, err := h.tokenService.GenerateToken(ownerID(c), duration)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, CreateTokenResponse{
		Token:     token,
		ExpiresAt: expiresAt.Format(time.RFC3339),
	})
}

// ListTokens godoc
// @Summary List API tokens
// @Description List the authenticated user's unexpired API tokens
// @Tags tokens
// @Produce json
// @Security BearerAuth
// @Success 200 {array} TokenListResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /tokens [get]
func (h *TokenHandler) ListTokens(c *gin.Context) {
	tokens, err := h.tokenService.ListUserTokens(ownerID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]TokenListResponse, len(tokens))
	for i, token := range tokens {
		response[i] = TokenListResponse{
			ID:        token.ID,
			ExpiresAt: token.ExpiresAt.UTC().Format(time.RFC3339),
			CreatedAt: token.CreatedAt.UTC().Format(time.RFC3339),
		}
	}

	c.JSON(http.StatusOK, response)
}

// DeleteToken godoc
// @Summary Revoke API token
// @Description Revoke one of the authenticated user's API tokens
// @Tags tokens
// @Produce json
// @Security BearerAuth
// @Param id path int true "Token ID"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /tokens/{id} [delete]
func (h *TokenHandler) DeleteToken(c *gin.Context) {
	var param idParam
	if err := c.ShouldBindUri(&param); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid token ID"})
		return
	}

	if err := h.tokenService.DeleteToken(param.ID, ownerID(c)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "token deleted successfully"})
}
