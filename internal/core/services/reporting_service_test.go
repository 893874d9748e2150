package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/dvillagrablanco/inmova-reconciliation/internal/apperrors"
	"github.com/dvillagrablanco/inmova-reconciliation/internal/core/domain"
	portssvc "github.com/dvillagrablanco/inmova-reconciliation/internal/core/ports/services"
	"github.com/dvillagrablanco/inmova-reconciliation/internal/core/services"
)

type ReportingServiceTestSuite struct {
	suite.Suite
	mockStatementRepo *MockStatementRepository
	mockMatchRepo     *MockMatchRepository
	service           portssvc.ReportingSvcFacade
}

func (s *ReportingServiceTestSuite) SetupTest() {
	s.mockStatementRepo = new(MockStatementRepository)
	s.mockMatchRepo = new(MockMatchRepository)
	s.service = services.NewReportingService(s.mockStatementRepo, s.mockMatchRepo)
}

func (s *ReportingServiceTestSuite) TestMatchRate_CountsOnlyActiveMatchesOnCredits() {
	ctx := context.Background()
	from := date(2026, time.March, 1)
	to := date(2026, time.March, 31)

	debit := creditTxn("txn-debit", 85000, date(2026, time.March, 4), "Banco", "COMISION")
	debit.AmountMinorUnits = -1200

	txns := []domain.CanonicalTransaction{
		creditTxn("txn-1", 85000, date(2026, time.March, 3), "Juan Pérez", "ALQUILER C-0042"),
		creditTxn("txn-2", 65000, date(2026, time.March, 4), "Maria García", "ALQUILER C-0017"),
		debit,
	}
	matches := []domain.ReconciliationMatch{
		{MatchID: "m-1", TransactionID: "txn-1", Status: domain.MatchActive},
		{MatchID: "m-2", TransactionID: "txn-2", Status: domain.MatchReversed},
	}

	s.mockStatementRepo.On("ListTransactionsByAccount", ctx, "co-1", matchTestIBAN, from, to).Return(txns, nil).Once()
	s.mockMatchRepo.On("ListMatchesByAccount", ctx, "co-1", matchTestIBAN, from, to).Return(matches, nil).Once()

	report, err := s.service.MatchRate(ctx, "co-1", matchTestIBAN, from, to)

	s.Require().NoError(err)
	s.Equal(2, report.Eligible, "the debit is not an eligible transaction")
	s.Equal(1, report.Matched, "reversed matches do not count")
	s.True(report.MatchRate.Equal(decimal.RequireFromString("0.5")), "got %s", report.MatchRate)
}

func (s *ReportingServiceTestSuite) TestMatchRate_CountsMatchesDecidedAfterPeriodClose() {
	ctx := context.Background()
	from := date(2026, time.March, 1)
	to := date(2026, time.March, 31)

	txns := []domain.CanonicalTransaction{
		creditTxn("txn-1", 85000, date(2026, time.March, 3), "Juan Pérez", "ALQUILER C-0042"),
	}
	// A March credit reconciled in April belongs to the March report.
	matches := []domain.ReconciliationMatch{
		{MatchID: "m-1", TransactionID: "txn-1", Status: domain.MatchActive, DecidedAt: date(2026, time.April, 2)},
	}

	s.mockStatementRepo.On("ListTransactionsByAccount", ctx, "co-1", matchTestIBAN, from, to).Return(txns, nil).Once()
	s.mockMatchRepo.On("ListMatchesByAccount", ctx, "co-1", matchTestIBAN, from, to).Return(matches, nil).Once()

	report, err := s.service.MatchRate(ctx, "co-1", matchTestIBAN, from, to)

	s.Require().NoError(err)
	s.Equal(1, report.Eligible)
	s.Equal(1, report.Matched, "a late decision still counts for the booking period")
	s.True(report.MatchRate.Equal(decimal.NewFromInt(1)), "got %s", report.MatchRate)
}

func (s *ReportingServiceTestSuite) TestMatchRate_ZeroEligible() {
	ctx := context.Background()
	from := date(2026, time.March, 1)
	to := date(2026, time.March, 31)

	s.mockStatementRepo.On("ListTransactionsByAccount", ctx, "co-1", matchTestIBAN, from, to).
		Return([]domain.CanonicalTransaction{}, nil).Once()
	s.mockMatchRepo.On("ListMatchesByAccount", ctx, "co-1", matchTestIBAN, from, to).
		Return([]domain.ReconciliationMatch{}, nil).Once()

	report, err := s.service.MatchRate(ctx, "co-1", matchTestIBAN, from, to)

	s.Require().NoError(err)
	s.Equal(0, report.Eligible)
	s.True(report.MatchRate.IsZero())
}

func (s *ReportingServiceTestSuite) TestMatchRate_RejectsInvertedPeriod() {
	ctx := context.Background()

	report, err := s.service.MatchRate(ctx, "co-1", matchTestIBAN, date(2026, time.March, 31), date(2026, time.March, 1))

	s.Require().Error(err)
	s.Nil(report)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *ReportingServiceTestSuite) TestUnmatchedAging_BucketsByDaysSinceBooking() {
	ctx := context.Background()
	asOf := date(2026, time.June, 1)

	// Ages as of June 1st: 2, 20, 60, 150 days and booked today.
	entries := []domain.UnmatchedEntry{
		{Transaction: creditTxn("txn-1", 85000, date(2026, time.May, 30), "A", "")},
		{Transaction: creditTxn("txn-2", 85000, date(2026, time.May, 12), "B", "")},
		{Transaction: creditTxn("txn-3", 85000, date(2026, time.April, 2), "C", "")},
		{Transaction: creditTxn("txn-4", 85000, date(2026, time.January, 2), "D", "")},
		{Transaction: creditTxn("txn-5", 85000, date(2026, time.June, 1), "E", "")},
	}

	s.mockStatementRepo.On("ListUnmatchedEntries", ctx, "co-1", matchTestIBAN).Return(entries, nil).Once()

	buckets, err := s.service.UnmatchedAging(ctx, "co-1", matchTestIBAN, asOf)

	s.Require().NoError(err)
	s.Require().Len(buckets, 4)
	s.Equal("0-7d", buckets[0].Label)
	s.Equal(2, buckets[0].Count)
	s.Equal("8-30d", buckets[1].Label)
	s.Equal(1, buckets[1].Count)
	s.Equal("31-90d", buckets[2].Label)
	s.Equal(1, buckets[2].Count)
	s.Equal("90d+", buckets[3].Label)
	s.Equal(1, buckets[3].Count)
}

func (s *ReportingServiceTestSuite) TestUnmatchedAging_EmptyLedgerStillReturnsBuckets() {
	ctx := context.Background()

	s.mockStatementRepo.On("ListUnmatchedEntries", ctx, "co-1", matchTestIBAN).
		Return([]domain.UnmatchedEntry{}, nil).Once()

	buckets, err := s.service.UnmatchedAging(ctx, "co-1", matchTestIBAN, time.Now().UTC())

	s.Require().NoError(err)
	s.Require().Len(buckets, 4)
	for _, b := range buckets {
		s.Equal(0, b.Count)
	}
}

func TestReportingService(t *testing.T) {
	suite.Run(t, new(ReportingServiceTestSuite))
}
