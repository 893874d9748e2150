package services

import (
	"context"
	"time"

	"github.com/dvillagrablanco/inmova-reconciliation/internal/core/domain"
)

// ReportingSvcFacade exposes read-only projections over the ledger.
type ReportingSvcFacade interface {
	// MatchRate computes matched / eligible credit transactions for one
	// account and period.
	MatchRate(ctx context.Context, companyID, accountIBAN string, from, to time.Time) (*domain.MatchRateReport, error)

	// UnmatchedAging buckets unmatched credit entries by days since booking.
	UnmatchedAging(ctx context.Context, companyID, accountIBAN string, asOf time.Time) ([]domain.AgingBucket, error)
}
