package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dvillagrablanco/inmova-reconciliation/internal/apperrors"
	"github.com/dvillagrablanco/inmova-reconciliation/internal/core/domain"
	portsrepo "github.com/dvillagrablanco/inmova-reconciliation/internal/core/ports/repositories"
	portssvc "github.com/dvillagrablanco/inmova-reconciliation/internal/core/ports/services"
)

// reportingService builds read-only projections for the audit/review UI.
type reportingService struct {
	statementRepo portsrepo.StatementRepositoryFacade
	matchRepo     portsrepo.MatchRepositoryFacade
}

// NewReportingService creates a new ReportingService.
func NewReportingService(statementRepo portsrepo.StatementRepositoryFacade, matchRepo portsrepo.MatchRepositoryFacade) portssvc.ReportingSvcFacade {
	return &reportingService{
		statementRepo: statementRepo,
		matchRepo:     matchRepo,
	}
}

var _ portssvc.ReportingSvcFacade = (*reportingService)(nil)

func (s *reportingService) MatchRate(ctx context.Context, companyID, accountIBAN string, from, to time.Time) (*domain.MatchRateReport, error) {
	if companyID == "" || accountIBAN == "" {
		return nil, fmt.Errorf("%w: company ID and account IBAN are required", apperrors.ErrValidation)
	}
	if to.Before(from) {
		return nil, fmt.Errorf("%w: period end before period start", apperrors.ErrValidation)
	}

	transactions, err := s.statementRepo.ListTransactionsByAccount(ctx, companyID, accountIBAN, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	eligible := make(map[string]bool)
	for _, txn := range transactions {
		if txn.IsCredit() {
			eligible[txn.TransactionID] = true
		}
	}

	matches, err := s.matchRepo.ListMatchesByAccount(ctx, companyID, accountIBAN, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load matches: %w", err)
	}

	matched := 0
	for _, m := range matches {
		if m.Status == domain.MatchActive && eligible[m.TransactionID] {
			matched++
		}
	}

	rate := decimal.Zero
	if len(eligible) > 0 {
		rate = decimal.NewFromInt(int64(matched)).DivRound(decimal.NewFromInt(int64(len(eligible))), 4)
	}

	return &domain.MatchRateReport{
		AccountIBAN: accountIBAN,
		PeriodStart: from,
		PeriodEnd:   to,
		Eligible:    len(eligible),
		Matched:     matched,
		MatchRate:   rate,
	}, nil
}

// agingBoundaries defines the review buckets for unmatched entries.
var agingBoundaries = []struct {
	label   string
	minDays int
	maxDays int
}{
	{"0-7d", 0, 7},
	{"8-30d", 8, 30},
	{"31-90d", 31, 90},
	{"90d+", 91, -1},
}

func (s *reportingService) UnmatchedAging(ctx context.Context, companyID, accountIBAN string, asOf time.Time) ([]domain.AgingBucket, error) {
	if companyID == "" {
		return nil, fmt.Errorf("%w: company ID is required", apperrors.ErrValidation)
	}

	entries, err := s.statementRepo.ListUnmatchedEntries(ctx, companyID, accountIBAN)
	if err != nil {
		return nil, fmt.Errorf("failed to load unmatched entries: %w", err)
	}

	buckets := make([]domain.AgingBucket, len(agingBoundaries))
	for i, b := range agingBoundaries {
		buckets[i] = domain.AgingBucket{Label: b.label, MinDays: b.minDays, MaxDays: b.maxDays}
	}

	for _, entry := range entries {
		age := int(asOf.Sub(entry.Transaction.BookingDate).Hours() / 24)
		if age < 0 {
			age = 0
		}
		for i, b := range agingBoundaries {
			if age >= b.minDays && (b.maxDays < 0 || age <= b.maxDays) {
				buckets[i].Count++
				break
			}
		}
	}

	return buckets, nil
}
