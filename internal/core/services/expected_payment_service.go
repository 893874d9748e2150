package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dvillagrablanco/inmova-reconciliation/internal/apperrors"
	"github.com/dvillagrablanco/inmova-reconciliation/internal/core/domain"
	portsrepo "github.com/dvillagrablanco/inmova-reconciliation/internal/core/ports/repositories"
	portssvc "github.com/dvillagrablanco/inmova-reconciliation/internal/core/ports/services"
	"github.com/dvillagrablanco/inmova-reconciliation/internal/middleware"
)

var (
	ErrNonPositiveAmount = errors.New("expected amount must be positive")
	ErrDueDateRequired   = errors.New("due date is required")
)

// expectedPaymentService seeds the pool of anticipated collections. The
// billing platform owns these rows; this surface only inserts them.
type expectedPaymentService struct {
	paymentRepo portsrepo.ExpectedPaymentRepositoryFacade
}

// NewExpectedPaymentService creates a new ExpectedPaymentService.
func NewExpectedPaymentService(paymentRepo portsrepo.ExpectedPaymentRepositoryFacade) portssvc.ExpectedPaymentSvcFacade {
	return &expectedPaymentService{paymentRepo: paymentRepo}
}

func (s *expectedPaymentService) CreateExpectedPayment(ctx context.Context, payment domain.ExpectedPayment, creatorUserID string) (*domain.ExpectedPayment, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if payment.CompanyID == "" || payment.TenantID == "" || payment.ContractID == "" || payment.AccountIBAN == "" {
		return nil, fmt.Errorf("%w: company, tenant, contract and account are required", apperrors.ErrValidation)
	}
	if payment.ExpectedAmountMinorUnits <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrNonPositiveAmount, payment.ExpectedAmountMinorUnits)
	}
	if payment.DueDate.IsZero() {
		return nil, fmt.Errorf("%w: payment for contract %s", ErrDueDateRequired, payment.ContractID)
	}

	now := time.Now().UTC()
	payment.ExpectedPaymentID = uuid.NewString()
	payment.Status = domain.PaymentPending
	payment.MatchedTransactionID = nil
	payment.AuditFields = domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     creatorUserID,
		LastUpdatedAt: now,
		LastUpdatedBy: creatorUserID,
	}

	if err := s.paymentRepo.CreateExpectedPayment(ctx, payment); err != nil {
		return nil, err
	}

	logger.Info("Expected payment created",
		slog.String("expected_payment_id", payment.ExpectedPaymentID),
		slog.String("company_id", payment.CompanyID),
		slog.String("contract_id", payment.ContractID),
		slog.Int64("amount_minor_units", payment.ExpectedAmountMinorUnits),
	)
	return &payment, nil
}
