package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dvillagrablanco/inmova-reconciliation/internal/apperrors"
	portssvc "github.com/dvillagrablanco/inmova-reconciliation/internal/core/ports/services"
	"github.com/dvillagrablanco/inmova-reconciliation/internal/core/services"
	"github.com/dvillagrablanco/inmova-reconciliation/internal/dto"
	"github.com/dvillagrablanco/inmova-reconciliation/internal/middleware"
)

// expectedPaymentHandler handles HTTP requests for seeding the
// expected-payment pool.
type expectedPaymentHandler struct {
	paymentService portssvc.ExpectedPaymentSvcFacade
}

// newExpectedPaymentHandler creates a new expectedPaymentHandler.
func newExpectedPaymentHandler(paymentService portssvc.ExpectedPaymentSvcFacade) *expectedPaymentHandler {
	return &expectedPaymentHandler{paymentService: paymentService}
}

// createExpectedPayment inserts one anticipated collection into the pool.
func (h *expectedPaymentHandler) createExpectedPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	req := dto.CreateExpectedPaymentRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for createExpectedPayment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	created, err := h.paymentService.CreateExpectedPayment(c.Request.Context(), req.ToExpectedPayment(), actorID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrDuplicate):
			logger.Warn("Duplicate expected payment", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrNonPositiveAmount),
			errors.Is(err, services.ErrDueDateRequired),
			errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to create expected payment", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create expected payment"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToExpectedPaymentResponse(created))
}
