package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/h4ks-com/cashbook/internal/services"
)

type ReportHandler struct {
	reportService *services.ReportService
	now           func() time.Time
}

func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		now:           time.Now,
	}
}

type YearsResponse struct {
	Current int   `json:"current"`
	Years   []int `json:"years"`
}

// GetSummary godoc
// @Summary Monthly summary
// @Description Income, expense and balance for each of the twelve months of a year
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param year query int false "Year (defaults to the current year)"
// @Success 200 {object} services.YearSummary
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /reports/summary [get]
func (h *ReportHandler) GetSummary(c *gin.Context) {
	year, err := queryInt(c, "year", h.now().UTC().Year())
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid year"})
		return
	}

	summary, err := h.reportService.Summarize(ownerID(c), year)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetDetail godoc
// @Summary Category breakdown
// @Description Per-category totals, shares and entries for a year or one month of it
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param year query int false "Year (defaults to the current year)"
// @Param month query int false "Month 1-12; omit for the whole year"
// @Success 200 {object} services.Breakdown
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /reports/detail [get]
func (h *ReportHandler) GetDetail(c *gin.Context) {
	year, err := queryInt(c, "year", h.now().UTC().Year())
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid year"})
		return
	}
	month, err := queryInt(c, "month", 0)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid month"})
		return
	}

	detail, err := h.reportService.Detail(ownerID(c), year, month)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

// GetYears godoc
// @Summary Report years
// @Description Years offered by the report selector
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} YearsResponse
// @Failure 401 {object} ErrorResponse
// @Router /reports/years [get]
func (h *ReportHandler) GetYears(c *gin.Context) {
	current := h.now().UTC().Year()
	c.JSON(http.StatusOK, YearsResponse{
		Current: current,
		Years:   services.SelectableYears(current),
	})
}
