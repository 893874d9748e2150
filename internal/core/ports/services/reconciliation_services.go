package services

import (
	"context"

	"github.com/dvillagrablanco/inmova-reconciliation/internal/core/domain"
)

// ReconciliationSvcFacade runs matching passes over imported statements and
// the open expected-payment pool.
type ReconciliationSvcFacade interface {
	// Reconcile executes one pass for a company's account: loads unmatched
	// credit transactions and open expected payments, scores candidates,
	// commits auto-accepted matches (skipping any claimed concurrently) and
	// returns the accepted/suggested/unmatched breakdown.
	Reconcile(ctx context.Context, companyID, accountIBAN, runnerUserID string) (*domain.ReconciliationResult, error)

	// ExplainMatch returns the audit view for one transaction: its accepted
	// match with reasons, its best stored suggestion, or "no candidate".
	ExplainMatch(ctx context.Context, companyID, transactionID string) (*domain.MatchExplanation, error)
}

// LedgerSvcFacade applies and reverses accepted matches durably.
type LedgerSvcFacade interface {
	// CommitMatch records an accepted match and flips the expected payment to
	// MATCHED atomically. Fails with apperrors.ErrConflict when either side
	// already has an active match.
	CommitMatch(ctx context.Context, companyID, transactionID, expectedPaymentID string, score float64, reasons []domain.MatchReason, decidedBy domain.MatchDecider, deciderUserID string) (*domain.ReconciliationMatch, error)

	// Unmatch reverses a match, keeping the ledger row for audit, and resets
	// the expected payment to PENDING.
	Unmatch(ctx context.Context, matchID, reason, userID string) (*domain.ReconciliationMatch, error)

	// ListUnmatched returns unmatched credit entries with their best stored
	// candidate for the manual-review surface.
	ListUnmatched(ctx context.Context, companyID, accountIBAN string) ([]domain.UnmatchedEntry, error)
}
