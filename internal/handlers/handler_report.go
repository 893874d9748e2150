package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/dvillagrablanco/inmova-reconciliation/internal/core/ports/services"
	"github.com/dvillagrablanco/inmova-reconciliation/internal/dto"
	"github.com/dvillagrablanco/inmova-reconciliation/internal/middleware"
)

// reportingHandler handles HTTP requests for ledger projections.
type reportingHandler struct {
	reportingService portssvc.ReportingSvcFacade
}

// newReportingHandler creates a new reportingHandler.
func newReportingHandler(reportingService portssvc.ReportingSvcFacade) *reportingHandler {
	return &reportingHandler{
		reportingService: reportingService,
	}
}

// matchRate returns matched / eligible credits for one account and period.
// from and to are RFC 3339 dates (2006-01-02).
func (h *reportingHandler) matchRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	companyID := c.Query("companyID")
	accountIBAN := c.Query("accountIBAN")
	if companyID == "" || accountIBAN == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "companyID and accountIBAN query parameters are required"})
		return
	}

	from, err := time.Parse("2006-01-02", c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from must be a YYYY-MM-DD date"})
		return
	}
	to, err := time.Parse("2006-01-02", c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "to must be a YYYY-MM-DD date"})
		return
	}

	report, err := h.reportingService.MatchRate(c.Request.Context(), companyID, accountIBAN, from, to)
	if err != nil {
		logger.Error("Failed to compute match rate", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute match rate"})
		return
	}

	c.JSON(http.StatusOK, dto.ToMatchRateResponse(report))
}

// unmatchedAging buckets unmatched credits by days since booking. asOf
// defaults to now.
func (h *reportingHandler) unmatchedAging(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	companyID := c.Query("companyID")
	accountIBAN := c.Query("accountIBAN")
	if companyID == "" || accountIBAN == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "companyID and accountIBAN query parameters are required"})
		return
	}

	asOf := time.Now().UTC()
	if raw := c.Query("asOf"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "asOf must be a YYYY-MM-DD date"})
			return
		}
		asOf = parsed
	}

	buckets, err := h.reportingService.UnmatchedAging(c.Request.Context(), companyID, accountIBAN, asOf)
	if err != nil {
		logger.Error("Failed to compute unmatched aging", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute unmatched aging"})
		return
	}

	c.JSON(http.StatusOK, dto.ToAgingBucketResponses(buckets))
}
