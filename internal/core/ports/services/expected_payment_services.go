package services

import (
	"context"

	"github.com/dvillagrablanco/inmova-reconciliation/internal/core/domain"
)

// ExpectedPaymentSvcFacade seeds the expected-payment pool that reconciliation
// runs draw from.
type ExpectedPaymentSvcFacade interface {
	// CreateExpectedPayment inserts one anticipated collection into the pool
	// with status PENDING. Fails with apperrors.ErrDuplicate when the payment
	// already exists.
	CreateExpectedPayment(ctx context.Context, payment domain.ExpectedPayment, creatorUserID string) (*domain.ExpectedPayment, error)
}
