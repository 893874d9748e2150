package repositories

import (
	"context"
	"time"

	"github.com/dvillagrablanco/inmova-reconciliation/internal/core/domain"
)

// StatementReader defines read operations for imported statement transactions
type StatementReader interface {
	// FindTransactionByID retrieves one canonical transaction by its identifier.
	FindTransactionByID(ctx context.Context, companyID, transactionID string) (*domain.CanonicalTransaction, error)

	// ListTransactionsByAccount retrieves all transactions booked on an account
	// within [from, to].
	ListTransactionsByAccount(ctx context.Context, companyID, accountIBAN string, from, to time.Time) ([]domain.CanonicalTransaction, error)

	// ListUnmatchedCredits retrieves credit transactions without an active
	// reconciliation match, ordered by booking date then sequence number.
	// An empty accountIBAN covers every account of the company.
	ListUnmatchedCredits(ctx context.Context, companyID, accountIBAN string) ([]domain.CanonicalTransaction, error)

	// ListUnmatchedEntries retrieves unmatched credit transactions together
	// with their stored best candidate, for the manual-review surface.
	// An empty accountIBAN covers every account of the company.
	ListUnmatchedEntries(ctx context.Context, companyID, accountIBAN string) ([]domain.UnmatchedEntry, error)

	// GetBestCandidate retrieves the stored suggestion for a transaction, or
	// nil when no candidate survived the last pass.
	GetBestCandidate(ctx context.Context, companyID, transactionID string) (*domain.MatchCandidate, error)
}

// StatementWriter defines write operations for imported statement transactions
type StatementWriter interface {
	// SaveTransactions persists a batch of canonical transactions, skipping
	// rows whose identity key already exists. Returns imported and duplicate
	// counts.
	SaveTransactions(ctx context.Context, companyID string, txns []domain.CanonicalTransaction) (imported int, duplicates int, err error)

	// SaveBestCandidate records the best below-acceptance suggestion found for
	// a transaction during a reconciliation pass, for later explanation.
	// A nil candidate clears a previously stored suggestion.
	SaveBestCandidate(ctx context.Context, companyID, transactionID string, candidate *domain.MatchCandidate) error
}

// StatementRepositoryFacade combines statement reader and writer interfaces.
type StatementRepositoryFacade interface {
	StatementReader
	StatementWriter
}
