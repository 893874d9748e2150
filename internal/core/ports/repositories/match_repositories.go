package repositories

import (
	"context"
	"time"

	"github.com/dvillagrablanco/inmova-reconciliation/internal/core/domain"
)

// MatchReader defines read operations for the reconciliation ledger
type MatchReader interface {
	// FindMatchByID retrieves a ledger row by its identifier.
	FindMatchByID(ctx context.Context, matchID string) (*domain.ReconciliationMatch, error)

	// FindActiveMatchByTransactionID retrieves the active match claiming a
	// transaction, or apperrors.ErrNotFound when the transaction is unmatched.
	FindActiveMatchByTransactionID(ctx context.Context, transactionID string) (*domain.ReconciliationMatch, error)

	// ListMatchesByAccount retrieves ledger rows (active and reversed) whose
	// transaction was booked on the account within [from, to], ordered by
	// decision time. Windowing is on the booking date so period reports keep
	// counting matches decided after the period closed.
	ListMatchesByAccount(ctx context.Context, companyID, accountIBAN string, from, to time.Time) ([]domain.ReconciliationMatch, error)
}

// MatchWriter defines write operations for the reconciliation ledger
type MatchWriter interface {
	// CreateMatch inserts an active ledger row and flips the expected payment
	// to MATCHED as one atomic unit of work. Returns apperrors.ErrConflict
	// when either side already carries an active match.
	CreateMatch(ctx context.Context, match domain.ReconciliationMatch) error

	// ReverseMatch marks a ledger row REVERSED (never deletes it) and resets
	// the expected payment to PENDING, atomically. Operates purely on
	// identifiers so it stays callable after either side changed elsewhere.
	ReverseMatch(ctx context.Context, matchID, reason, updatedBy string, updatedAt time.Time) (*domain.ReconciliationMatch, error)
}

// RunWriter persists reconciliation-run summaries.
type RunWriter interface {
	// SaveRun inserts the summary row of one reconciliation pass.
	SaveRun(ctx context.Context, run domain.ReconciliationRun) error
}

// MatchRepositoryFacade combines all ledger repository interfaces.
type MatchRepositoryFacade interface {
	MatchReader
	MatchWriter
	RunWriter
}

// MatchRepositoryWithTx extends MatchRepositoryFacade with transaction capabilities
type MatchRepositoryWithTx interface {
	MatchRepositoryFacade
	TransactionManager
}
