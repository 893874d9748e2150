package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/dvillagrablanco/inmova-reconciliation/internal/apperrors"
	"github.com/dvillagrablanco/inmova-reconciliation/internal/core/domain"
	portssvc "github.com/dvillagrablanco/inmova-reconciliation/internal/core/ports/services"
	"github.com/dvillagrablanco/inmova-reconciliation/internal/core/services"
)

// --- Mock LedgerService ---

type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) CommitMatch(ctx context.Context, companyID, transactionID, expectedPaymentID string, score float64, reasons []domain.MatchReason, decidedBy domain.MatchDecider, deciderUserID string) (*domain.ReconciliationMatch, error) {
	args := m.Called(ctx, companyID, transactionID, expectedPaymentID, score, reasons, decidedBy, deciderUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReconciliationMatch), args.Error(1)
}

func (m *MockLedgerService) Unmatch(ctx context.Context, matchID, reason, userID string) (*domain.ReconciliationMatch, error) {
	args := m.Called(ctx, matchID, reason, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReconciliationMatch), args.Error(1)
}

func (m *MockLedgerService) ListUnmatched(ctx context.Context, companyID, accountIBAN string) ([]domain.UnmatchedEntry, error) {
	args := m.Called(ctx, companyID, accountIBAN)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.UnmatchedEntry), args.Error(1)
}

// --- Test Suite ---

type ReconciliationServiceTestSuite struct {
	suite.Suite
	mockStatementRepo *MockStatementRepository
	mockPaymentRepo   *MockExpectedPaymentRepository
	mockMatchRepo     *MockMatchRepository
	mockLedger        *MockLedgerService
	service           portssvc.ReconciliationSvcFacade
}

func (s *ReconciliationServiceTestSuite) SetupTest() {
	s.mockStatementRepo = new(MockStatementRepository)
	s.mockPaymentRepo = new(MockExpectedPaymentRepository)
	s.mockMatchRepo = new(MockMatchRepository)
	s.mockLedger = new(MockLedgerService)
	s.service = services.NewReconciliationService(
		s.mockStatementRepo, s.mockPaymentRepo, s.mockMatchRepo, s.mockLedger,
		services.DefaultMatchingConfig(),
	)
}

func (s *ReconciliationServiceTestSuite) TestReconcile_CommitsAcceptedAndStoresSuggestions() {
	ctx := context.Background()

	// txn-1 matches pay-1 perfectly; txn-2 has no payment anywhere near it.
	txns := []domain.CanonicalTransaction{
		creditTxn("txn-1", 85000, date(2026, time.March, 3), "Juan Pérez", "ALQUILER C-0042"),
		creditTxn("txn-2", 33300, date(2026, time.March, 4), "Desconocido", ""),
	}
	payments := []domain.ExpectedPayment{
		openPayment("pay-1", 85000, date(2026, time.March, 5), "Juan Perez", "C-0042"),
	}

	s.mockStatementRepo.On("ListUnmatchedCredits", ctx, "co-1", matchTestIBAN).Return(txns, nil).Once()
	s.mockPaymentRepo.On("ListOpenExpectedPayments", ctx, "co-1", matchTestIBAN).Return(payments, nil).Once()

	committed := &domain.ReconciliationMatch{
		MatchID:           "match-1",
		TransactionID:     "txn-1",
		ExpectedPaymentID: "pay-1",
		Score:             1.0,
		Status:            domain.MatchActive,
		DecidedBy:         domain.DecidedAutomatic,
	}
	s.mockLedger.On("CommitMatch", ctx, "co-1", "txn-1", "pay-1", mock.AnythingOfType("float64"),
		mock.Anything, domain.DecidedAutomatic, "runner-1").Return(committed, nil).Once()

	// txn-2 ends up unmatched with no candidate; the pass still clears its slot.
	s.mockStatementRepo.On("SaveBestCandidate", ctx, "co-1", "txn-2", (*domain.MatchCandidate)(nil)).
		Return(nil).Once()

	s.mockMatchRepo.On("SaveRun", ctx, mock.MatchedBy(func(run domain.ReconciliationRun) bool {
		return run.CompanyID == "co-1" &&
			run.Transactions == 2 &&
			run.Accepted == 1 &&
			run.Suggested == 0 &&
			run.Unmatched == 1
	})).Return(nil).Once()

	result, err := s.service.Reconcile(ctx, "co-1", matchTestIBAN, "runner-1")

	s.Require().NoError(err)
	s.Require().NotNil(result)
	s.NotEmpty(result.RunID)
	s.Require().Len(result.Accepted, 1)
	s.Equal("match-1", result.Accepted[0].MatchID)
	s.Require().Len(result.Unmatched, 1)
	s.Equal("txn-2", result.Unmatched[0].Transaction.TransactionID)

	s.mockLedger.AssertExpectations(s.T())
	s.mockMatchRepo.AssertExpectations(s.T())
	s.mockStatementRepo.AssertExpectations(s.T())
}

func (s *ReconciliationServiceTestSuite) TestReconcile_SkipsConflictLosers() {
	ctx := context.Background()

	txns := []domain.CanonicalTransaction{
		creditTxn("txn-1", 85000, date(2026, time.March, 3), "Juan Pérez", "ALQUILER C-0042"),
	}
	payments := []domain.ExpectedPayment{
		openPayment("pay-1", 85000, date(2026, time.March, 5), "Juan Perez", "C-0042"),
	}

	s.mockStatementRepo.On("ListUnmatchedCredits", ctx, "co-1", matchTestIBAN).Return(txns, nil).Once()
	s.mockPaymentRepo.On("ListOpenExpectedPayments", ctx, "co-1", matchTestIBAN).Return(payments, nil).Once()

	// A concurrent run claimed the pair first: skip, don't fail the pass.
	s.mockLedger.On("CommitMatch", ctx, "co-1", "txn-1", "pay-1", mock.AnythingOfType("float64"),
		mock.Anything, domain.DecidedAutomatic, "runner-1").Return(nil, apperrors.ErrConflict).Once()

	s.mockMatchRepo.On("SaveRun", ctx, mock.MatchedBy(func(run domain.ReconciliationRun) bool {
		return run.Accepted == 0
	})).Return(nil).Once()

	result, err := s.service.Reconcile(ctx, "co-1", matchTestIBAN, "runner-1")

	s.Require().NoError(err)
	s.Empty(result.Accepted)
	s.mockLedger.AssertExpectations(s.T())
}

func (s *ReconciliationServiceTestSuite) TestReconcile_RequiresCompany() {
	ctx := context.Background()

	result, err := s.service.Reconcile(ctx, "", matchTestIBAN, "runner-1")

	s.Require().Error(err)
	s.Nil(result)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *ReconciliationServiceTestSuite) TestExplainMatch_Accepted() {
	ctx := context.Background()

	txn := creditTxn("txn-1", 85000, date(2026, time.March, 3), "Juan Pérez", "ALQUILER C-0042")
	match := &domain.ReconciliationMatch{
		MatchID:       "match-1",
		TransactionID: "txn-1",
		Score:         0.95,
		Reasons:       []domain.MatchReason{domain.ReasonExactAmount, domain.ReasonNameSimilarity},
		DecidedBy:     domain.DecidedAutomatic,
		Status:        domain.MatchActive,
	}

	s.mockStatementRepo.On("FindTransactionByID", ctx, "co-1", "txn-1").Return(&txn, nil).Once()
	s.mockMatchRepo.On("FindActiveMatchByTransactionID", ctx, "txn-1").Return(match, nil).Once()

	explanation, err := s.service.ExplainMatch(ctx, "co-1", "txn-1")

	s.Require().NoError(err)
	s.Equal("accepted", explanation.Outcome)
	s.Require().NotNil(explanation.Score)
	s.Equal(0.95, *explanation.Score)
	s.Contains(explanation.Reasons, domain.ReasonExactAmount)
	s.Require().NotNil(explanation.DecidedBy)
	s.Equal(domain.DecidedAutomatic, *explanation.DecidedBy)
}

func (s *ReconciliationServiceTestSuite) TestExplainMatch_Suggested() {
	ctx := context.Background()

	txn := creditTxn("txn-1", 85000, date(2026, time.March, 3), "Juan Pérez", "")
	candidate := &domain.MatchCandidate{
		Transaction: txn,
		Payment:     openPayment("pay-1", 85000, date(2026, time.March, 5), "Juan Perez", ""),
		Score:       0.7,
		Reasons:     []domain.MatchReason{domain.ReasonExactAmount},
	}

	s.mockStatementRepo.On("FindTransactionByID", ctx, "co-1", "txn-1").Return(&txn, nil).Once()
	s.mockMatchRepo.On("FindActiveMatchByTransactionID", ctx, "txn-1").Return(nil, apperrors.ErrNotFound).Once()
	s.mockStatementRepo.On("GetBestCandidate", ctx, "co-1", "txn-1").Return(candidate, nil).Once()

	explanation, err := s.service.ExplainMatch(ctx, "co-1", "txn-1")

	s.Require().NoError(err)
	s.Equal("suggested", explanation.Outcome)
	s.Require().NotNil(explanation.Score)
	s.Equal(0.7, *explanation.Score)
	s.Nil(explanation.DecidedBy)
}

func (s *ReconciliationServiceTestSuite) TestExplainMatch_NoCandidate() {
	ctx := context.Background()

	txn := creditTxn("txn-1", 85000, date(2026, time.March, 3), "Desconocido", "")

	s.mockStatementRepo.On("FindTransactionByID", ctx, "co-1", "txn-1").Return(&txn, nil).Once()
	s.mockMatchRepo.On("FindActiveMatchByTransactionID", ctx, "txn-1").Return(nil, apperrors.ErrNotFound).Once()
	s.mockStatementRepo.On("GetBestCandidate", ctx, "co-1", "txn-1").Return(nil, nil).Once()

	explanation, err := s.service.ExplainMatch(ctx, "co-1", "txn-1")

	s.Require().NoError(err)
	s.Equal("no_candidate", explanation.Outcome)
	s.Nil(explanation.Score)
	s.Empty(explanation.Reasons)
}

func (s *ReconciliationServiceTestSuite) TestExplainMatch_UnknownTransaction() {
	ctx := context.Background()

	s.mockStatementRepo.On("FindTransactionByID", ctx, "co-1", "missing").Return(nil, apperrors.ErrNotFound).Once()

	explanation, err := s.service.ExplainMatch(ctx, "co-1", "missing")

	s.Require().Error(err)
	s.Nil(explanation)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func TestReconciliationService(t *testing.T) {
	suite.Run(t, new(ReconciliationServiceTestSuite))
}
