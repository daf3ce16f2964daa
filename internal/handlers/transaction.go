package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/h4ks-com/cashbook/internal/auth"
	"github.com/h4ks-com/cashbook/internal/models"
	"github.com/h4ks-com/cashbook/internal/services"
	"github.com/shopspring/decimal"
)

type TransactionHandler struct {
	ledgerService *services.LedgerService
}

func NewTransactionHandler(ledgerService *services.LedgerService) *TransactionHandler {
	return &TransactionHandler{ledgerService: ledgerService}
}

type TransactionRequest struct {
	Type        string           `json:"type" binding:"required" example:"expense"`
	Category    string           `json:"category" binding:"required" example:"Food"`
	Amount      *decimal.Decimal `json:"amount" binding:"required" swaggertype:"string" example:"12.50"`
	Description string           `json:"description" example:"Lunch"`
	OccurredAt  *time.Time       `json:"occurred_at,omitempty"`
}

func (r TransactionRequest) input() services.TransactionInput {
	in := services.TransactionInput{
		Kind:        models.Kind(r.Type),
		Category:    r.Category,
		Description: r.Description,
	}
	if r.Amount != nil {
		in.Amount = *r.Amount
	}
	if r.OccurredAt != nil {
		in.OccurredAt = *r.OccurredAt
	}
	return in
}

type TransactionResponse struct {
	ID          uint            `json:"id"`
	Type        string          `json:"type"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount" swaggertype:"string"`
	Description string          `json:"description"`
	OccurredAt  string          `json:"occurred_at"`
	CreatedAt   string          `json:"created_at"`
	UpdatedAt   string          `json:"updated_at"`
}

type DashboardResponse struct {
	TotalIncome  decimal.Decimal       `json:"total_income" swaggertype:"string"`
	TotalExpense decimal.Decimal       `json:"total_expense" swaggertype:"string"`
	Balance      decimal.Decimal       `json:"balance" swaggertype:"string"`
	Transactions []TransactionResponse `json:"transactions"`
}

func toTransactionResponse(t *models.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:          t.ID,
		Type:        string(t.Kind),
		Category:    t.Category,
		Amount:      t.Amount,
		Description: t.Description,
		OccurredAt:  t.OccurredAt.UTC().Format(time.RFC3339),
		CreatedAt:   t.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   t.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func toTransactionResponses(transactions []models.Transaction) []TransactionResponse {
	response := make([]TransactionResponse, len(transactions))
	for i := range transactions {
		response[i] = toTransactionResponse(&transactions[i])
	}
	return response
}

func ownerID(c *gin.Context) uint {
	principal, _ := auth.CurrentPrincipal(c)
	return principal.UserID
}

// ListTransactions godoc
// @Summary List transactions
// @Description List the authenticated user's transactions, newest first
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Success 200 {array} TransactionResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /transactions [get]
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	transactions, err := h.ledgerService.List(ownerID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toTransactionResponses(transactions))
}

// CreateTransaction godoc
// @Summary Record a transaction
// @Description Record an income or expense. occurred_at defaults to now.
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body TransactionRequest true "Transaction"
// @Success 201 {object} TransactionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /transactions [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request: " + err.Error()})
		return
	}

	transaction, err := h.ledgerService.Add(ownerID(c), req.input())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toTransactionResponse(transaction))
}

// GetTransaction godoc
// @Summary Get a transaction
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Transaction ID"
// @Success 200 {object} TransactionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /transactions/{id} [get]
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	var param idParam
	if err := c.ShouldBindUri(&param); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid transaction ID"})
		return
	}

	transaction, err := h.ledgerService.Get(param.ID, ownerID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toTransactionResponse(transaction))
}

// UpdateTransaction godoc
// @Summary Update a transaction
// @Description Replace the mutable fields. occurred_at is kept when omitted.
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Transaction ID"
// @Param request body TransactionRequest true "Transaction"
// @Success 200 {object} TransactionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /transactions/{id} [put]
func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	var param idParam
	if err := c.ShouldBindUri(&param); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid transaction ID"})
		return
	}

	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request: " + err.Error()})
		return
	}

	transaction, err := h.ledgerService.Update(param.ID, ownerID(c), req.input())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toTransactionResponse(transaction))
}

// DeleteTransaction godoc
// @Summary Delete a transaction
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Transaction ID"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	var param idParam
	if err := c.ShouldBindUri(&param); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid transaction ID"})
		return
	}

	if err := h.ledgerService.Delete(param.ID, ownerID(c)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "transaction deleted successfully"})
}

// GetDashboard godoc
// @Summary Dashboard
// @Description Running income, expense and balance over all transactions
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} DashboardResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /dashboard [get]
func (h *TransactionHandler) GetDashboard(c *gin.Context) {
	dashboard, err := h.ledgerService.Dashboard(ownerID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, DashboardResponse{
		TotalIncome:  dashboard.TotalIncome,
		TotalExpense: dashboard.TotalExpense,
		Balance:      dashboard.Balance,
		Transactions: toTransactionResponses(dashboard.Transactions),
	})
}
