package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dvillagrablanco/inmova-reconciliation/internal/apperrors"
	"github.com/dvillagrablanco/inmova-reconciliation/internal/core/domain"
	portssvc "github.com/dvillagrablanco/inmova-reconciliation/internal/core/ports/services"
	"github.com/dvillagrablanco/inmova-reconciliation/internal/core/services"
	"github.com/dvillagrablanco/inmova-reconciliation/internal/dto"
	"github.com/dvillagrablanco/inmova-reconciliation/internal/middleware"
)

// reconciliationHandler handles HTTP requests for reconciliation runs and
// the match ledger.
type reconciliationHandler struct {
	reconciliationService portssvc.ReconciliationSvcFacade
	ledgerService         portssvc.LedgerSvcFacade
}

// newReconciliationHandler creates a new reconciliationHandler.
func newReconciliationHandler(reconciliationService portssvc.ReconciliationSvcFacade, ledgerService portssvc.LedgerSvcFacade) *reconciliationHandler {
	return &reconciliationHandler{
		reconciliationService: reconciliationService,
		ledgerService:         ledgerService,
	}
}

// runReconciliation executes one matching pass for a company's account.
func (h *reconciliationHandler) runReconciliation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	req := dto.RunReconciliationRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for runReconciliation", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	result, err := h.reconciliationService.Reconcile(c.Request.Context(), req.CompanyID, req.AccountIBAN, actorID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Reconciliation validation failed", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Reconciliation run failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Reconciliation run failed"})
		return
	}

	logger.Info("Reconciliation run completed",
		slog.String("run_id", result.RunID),
		slog.Int("accepted", len(result.Accepted)),
		slog.Int("suggested", len(result.Suggested)),
		slog.Int("unmatched", len(result.Unmatched)),
	)
	c.JSON(http.StatusOK, dto.ToReconciliationRunResponse(result))
}

// listUnmatched returns unmatched credits with their best stored candidate.
func (h *reconciliationHandler) listUnmatched(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	companyID := c.Query("companyID")
	accountIBAN := c.Query("accountIBAN")
	if companyID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "companyID query parameter is required"})
		return
	}

	entries, err := h.ledgerService.ListUnmatched(c.Request.Context(), companyID, accountIBAN)
	if err != nil {
		logger.Error("Failed to list unmatched entries", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list unmatched entries"})
		return
	}

	c.JSON(http.StatusOK, dto.ToUnmatchedEntryResponses(entries))
}

// commitMatch records a manually confirmed match.
func (h *reconciliationHandler) commitMatch(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	req := dto.CommitMatchRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for commitMatch", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	// A manual confirmation is an operator decision, not a scored one.
	score := 1.0
	if req.Score != nil {
		score = *req.Score
	}

	match, err := h.ledgerService.CommitMatch(
		c.Request.Context(),
		req.CompanyID,
		req.TransactionID,
		req.ExpectedPaymentID,
		score,
		nil,
		domain.DecidedManual,
		actorID,
	)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrConflict):
			logger.Warn("Match conflict", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrNotACredit),
			errors.Is(err, services.ErrPaymentNotOpen),
			errors.Is(err, services.ErrScoreOutOfRange),
			errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to commit match", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit match"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToMatchResponse(match))
}

// unmatch reverses a ledger row, keeping it for audit.
func (h *reconciliationHandler) unmatch(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	matchID := c.Param("matchID")

	req := dto.UnmatchRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for unmatch", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "A reversal reason is required"})
		return
	}

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	reversed, err := h.ledgerService.Unmatch(c.Request.Context(), matchID, req.Reason, actorID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Match not found"})
		case errors.Is(err, services.ErrMatchAlreadyRevoked),
			errors.Is(err, services.ErrReasonRequired),
			errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to reverse match", slog.String("error", err.Error()), slog.String("match_id", matchID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reverse match"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToMatchResponse(reversed))
}

// explainMatch returns the audit view for one transaction.
func (h *reconciliationHandler) explainMatch(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	companyID := c.Query("companyID")
	transactionID := c.Param("transactionID")
	if companyID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "companyID query parameter is required"})
		return
	}

	explanation, err := h.reconciliationService.ExplainMatch(c.Request.Context(), companyID, transactionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
			return
		}
		logger.Error("Failed to explain match", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to explain match"})
		return
	}

	c.JSON(http.StatusOK, dto.ToExplanationResponse(explanation))
}
