package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/dvillagrablanco/inmova-reconciliation/internal/core/domain"
)

// ExpectedPaymentReader defines read operations for the expected-payment pool
type ExpectedPaymentReader interface {
	// FindExpectedPaymentByID retrieves one expected payment.
	FindExpectedPaymentByID(ctx context.Context, companyID, expectedPaymentID string) (*domain.ExpectedPayment, error)

	// ListOpenExpectedPayments retrieves payments in PENDING or OVERDUE status
	// for the company, optionally scoped to one account IBAN.
	ListOpenExpectedPayments(ctx context.Context, companyID, accountIBAN string) ([]domain.ExpectedPayment, error)
}

// ExpectedPaymentWriter defines the status write-back the engine is allowed
// to perform. The engine never touches any other attribute of the pool.
type ExpectedPaymentWriter interface {
	// UpdateStatusInTx flips an expected payment's status inside the caller's
	// database transaction, so match commit and status change are atomic.
	UpdateStatusInTx(ctx context.Context, tx pgx.Tx, expectedPaymentID string, status domain.ExpectedPaymentStatus, matchedTransactionID *string, updatedBy string, updatedAt time.Time) error

	// CreateExpectedPayment inserts a payment into the pool. Used by the
	// surrounding platform when billing periods are generated.
	CreateExpectedPayment(ctx context.Context, payment domain.ExpectedPayment) error
}

// ExpectedPaymentRepositoryFacade combines reader and writer interfaces.
type ExpectedPaymentRepositoryFacade interface {
	ExpectedPaymentReader
	ExpectedPaymentWriter
}
