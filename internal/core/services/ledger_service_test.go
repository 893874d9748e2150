package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/dvillagrablanco/inmova-reconciliation/internal/apperrors"
	"github.com/dvillagrablanco/inmova-reconciliation/internal/core/domain"
	portssvc "github.com/dvillagrablanco/inmova-reconciliation/internal/core/ports/services"
	"github.com/dvillagrablanco/inmova-reconciliation/internal/core/services"
)

type LedgerServiceTestSuite struct {
	suite.Suite
	mockMatchRepo     *MockMatchRepository
	mockStatementRepo *MockStatementRepository
	mockPaymentRepo   *MockExpectedPaymentRepository
	service           portssvc.LedgerSvcFacade
}

func (s *LedgerServiceTestSuite) SetupTest() {
	s.mockMatchRepo = new(MockMatchRepository)
	s.mockStatementRepo = new(MockStatementRepository)
	s.mockPaymentRepo = new(MockExpectedPaymentRepository)
	s.service = services.NewLedgerService(s.mockMatchRepo, s.mockStatementRepo, s.mockPaymentRepo)
}

func (s *LedgerServiceTestSuite) creditTransaction(id string) *domain.CanonicalTransaction {
	txn := creditTxn(id, 85000, date(2026, time.March, 3), "Juan Pérez", "ALQUILER C-0042")
	return &txn
}

func (s *LedgerServiceTestSuite) pendingPayment(id string) *domain.ExpectedPayment {
	payment := openPayment(id, 85000, date(2026, time.March, 5), "Juan Perez", "C-0042")
	return &payment
}

func (s *LedgerServiceTestSuite) TestCommitMatch_Success() {
	ctx := context.Background()

	s.mockStatementRepo.On("FindTransactionByID", ctx, "co-1", "txn-1").
		Return(s.creditTransaction("txn-1"), nil).Once()
	s.mockPaymentRepo.On("FindExpectedPaymentByID", ctx, "co-1", "pay-1").
		Return(s.pendingPayment("pay-1"), nil).Once()
	s.mockMatchRepo.On("CreateMatch", ctx, mock.MatchedBy(func(m domain.ReconciliationMatch) bool {
		return m.TransactionID == "txn-1" &&
			m.ExpectedPaymentID == "pay-1" &&
			m.Status == domain.MatchActive &&
			m.DecidedBy == domain.DecidedAutomatic &&
			m.MatchID != ""
	})).Return(nil).Once()
	s.mockStatementRepo.On("SaveBestCandidate", ctx, "co-1", "txn-1", (*domain.MatchCandidate)(nil)).
		Return(nil).Once()

	match, err := s.service.CommitMatch(ctx, "co-1", "txn-1", "pay-1", 0.92,
		[]domain.MatchReason{domain.ReasonExactAmount}, domain.DecidedAutomatic, "runner-1")

	s.Require().NoError(err)
	s.Require().NotNil(match)
	s.Equal(domain.MatchActive, match.Status)
	s.Equal(0.92, match.Score)
	s.mockMatchRepo.AssertExpectations(s.T())
	s.mockStatementRepo.AssertExpectations(s.T())
}

func (s *LedgerServiceTestSuite) TestCommitMatch_RejectsDebit() {
	ctx := context.Background()

	debit := s.creditTransaction("txn-1")
	debit.AmountMinorUnits = -85000

	s.mockStatementRepo.On("FindTransactionByID", ctx, "co-1", "txn-1").
		Return(debit, nil).Once()

	match, err := s.service.CommitMatch(ctx, "co-1", "txn-1", "pay-1", 0.92, nil, domain.DecidedManual, "user-1")

	s.Require().Error(err)
	s.Nil(match)
	s.ErrorIs(err, services.ErrNotACredit)
	s.mockMatchRepo.AssertNotCalled(s.T(), "CreateMatch")
}

func (s *LedgerServiceTestSuite) TestCommitMatch_RejectsClosedPayment() {
	ctx := context.Background()

	payment := s.pendingPayment("pay-1")
	payment.Status = domain.PaymentCancelled

	s.mockStatementRepo.On("FindTransactionByID", ctx, "co-1", "txn-1").
		Return(s.creditTransaction("txn-1"), nil).Once()
	s.mockPaymentRepo.On("FindExpectedPaymentByID", ctx, "co-1", "pay-1").
		Return(payment, nil).Once()

	match, err := s.service.CommitMatch(ctx, "co-1", "txn-1", "pay-1", 0.92, nil, domain.DecidedManual, "user-1")

	s.Require().Error(err)
	s.Nil(match)
	s.ErrorIs(err, services.ErrPaymentNotOpen)
	s.mockMatchRepo.AssertNotCalled(s.T(), "CreateMatch")
}

func (s *LedgerServiceTestSuite) TestCommitMatch_RejectsScoreOutOfRange() {
	ctx := context.Background()

	match, err := s.service.CommitMatch(ctx, "co-1", "txn-1", "pay-1", 1.2, nil, domain.DecidedManual, "user-1")

	s.Require().Error(err)
	s.Nil(match)
	s.ErrorIs(err, services.ErrScoreOutOfRange)
	s.mockStatementRepo.AssertNotCalled(s.T(), "FindTransactionByID")
}

func (s *LedgerServiceTestSuite) TestCommitMatch_SurfacesConflict() {
	ctx := context.Background()

	s.mockStatementRepo.On("FindTransactionByID", ctx, "co-1", "txn-1").
		Return(s.creditTransaction("txn-1"), nil).Once()
	s.mockPaymentRepo.On("FindExpectedPaymentByID", ctx, "co-1", "pay-1").
		Return(s.pendingPayment("pay-1"), nil).Once()
	s.mockMatchRepo.On("CreateMatch", ctx, mock.AnythingOfType("domain.ReconciliationMatch")).
		Return(apperrors.ErrConflict).Once()

	match, err := s.service.CommitMatch(ctx, "co-1", "txn-1", "pay-1", 0.92, nil, domain.DecidedAutomatic, "runner-1")

	s.Require().Error(err)
	s.Nil(match)
	s.ErrorIs(err, apperrors.ErrConflict)
	s.mockStatementRepo.AssertNotCalled(s.T(), "SaveBestCandidate")
}

func (s *LedgerServiceTestSuite) TestUnmatch_Success() {
	ctx := context.Background()

	active := &domain.ReconciliationMatch{
		MatchID:           "match-1",
		TransactionID:     "txn-1",
		ExpectedPaymentID: "pay-1",
		Status:            domain.MatchActive,
	}
	reversed := &domain.ReconciliationMatch{
		MatchID:           "match-1",
		TransactionID:     "txn-1",
		ExpectedPaymentID: "pay-1",
		Status:            domain.MatchReversed,
		ReversalReason:    "tenant disputed the payment",
	}

	s.mockMatchRepo.On("FindMatchByID", ctx, "match-1").Return(active, nil).Once()
	s.mockMatchRepo.On("ReverseMatch", ctx, "match-1", "tenant disputed the payment", "user-1", mock.AnythingOfType("time.Time")).
		Return(reversed, nil).Once()

	result, err := s.service.Unmatch(ctx, "match-1", "tenant disputed the payment", "user-1")

	s.Require().NoError(err)
	s.Require().NotNil(result)
	s.Equal(domain.MatchReversed, result.Status)
	s.Equal("tenant disputed the payment", result.ReversalReason)
	s.mockMatchRepo.AssertExpectations(s.T())
}

func (s *LedgerServiceTestSuite) TestUnmatch_RequiresReason() {
	ctx := context.Background()

	result, err := s.service.Unmatch(ctx, "match-1", "", "user-1")

	s.Require().Error(err)
	s.Nil(result)
	s.ErrorIs(err, services.ErrReasonRequired)
	s.mockMatchRepo.AssertNotCalled(s.T(), "ReverseMatch")
}

func (s *LedgerServiceTestSuite) TestUnmatch_AlreadyReversed() {
	ctx := context.Background()

	reversed := &domain.ReconciliationMatch{
		MatchID: "match-1",
		Status:  domain.MatchReversed,
	}
	s.mockMatchRepo.On("FindMatchByID", ctx, "match-1").Return(reversed, nil).Once()

	result, err := s.service.Unmatch(ctx, "match-1", "duplicate click", "user-1")

	s.Require().Error(err)
	s.Nil(result)
	s.ErrorIs(err, services.ErrMatchAlreadyRevoked)
	s.mockMatchRepo.AssertNotCalled(s.T(), "ReverseMatch")
}

func (s *LedgerServiceTestSuite) TestUnmatch_NotFound() {
	ctx := context.Background()

	s.mockMatchRepo.On("FindMatchByID", ctx, "missing").Return(nil, apperrors.ErrNotFound).Once()

	result, err := s.service.Unmatch(ctx, "missing", "some reason", "user-1")

	s.Require().Error(err)
	s.Nil(result)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *LedgerServiceTestSuite) TestListUnmatched_Success() {
	ctx := context.Background()

	entries := []domain.UnmatchedEntry{
		{Transaction: *s.creditTransaction("txn-1")},
	}
	s.mockStatementRepo.On("ListUnmatchedEntries", ctx, "co-1", matchTestIBAN).
		Return(entries, nil).Once()

	result, err := s.service.ListUnmatched(ctx, "co-1", matchTestIBAN)

	s.Require().NoError(err)
	s.Equal(entries, result)
}

func (s *LedgerServiceTestSuite) TestListUnmatched_EmptyIBANSpansAllAccounts() {
	ctx := context.Background()

	// Without an account scope the review surface shows the whole company,
	// never an empty list.
	other := *s.creditTransaction("txn-2")
	other.AccountIBAN = "ES9121000418450200051999"
	entries := []domain.UnmatchedEntry{
		{Transaction: *s.creditTransaction("txn-1")},
		{Transaction: other},
	}
	s.mockStatementRepo.On("ListUnmatchedEntries", ctx, "co-1", "").
		Return(entries, nil).Once()

	result, err := s.service.ListUnmatched(ctx, "co-1", "")

	s.Require().NoError(err)
	s.Equal(entries, result)
}

func (s *LedgerServiceTestSuite) TestListUnmatched_RequiresCompany() {
	ctx := context.Background()

	result, err := s.service.ListUnmatched(ctx, "", matchTestIBAN)

	s.Require().Error(err)
	s.Nil(result)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func TestLedgerService(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}

/// Unmatch followed by a new commit for the same pair must succeed: reversal
// frees both sides of the bijection.
func TestUnmatchThenRematchRoundTrip(t *testing.T) {
	ctx := context.Background()
	mockMatchRepo := new(MockMatchRepository)
	mockStatementRepo := new(MockStatementRepository)
	mockPaymentRepo := new(MockExpectedPaymentRepository)
	service := services.NewLedgerService(mockMatchRepo, mockStatementRepo, mockPaymentRepo)

	txn := creditTxn("txn-1", 85000, date(2026, time.March, 3), "Juan Pérez", "ALQUILER C-0042")
	payment := openPayment("pay-1", 85000, date(2026, time.March, 5), "Juan Perez", "C-0042")

	active := &domain.ReconciliationMatch{MatchID: "match-1", TransactionID: "txn-1", ExpectedPaymentID: "pay-1", Status: domain.MatchActive}
	reversed := &domain.ReconciliationMatch{MatchID: "match-1", TransactionID: "txn-1", ExpectedPaymentID: "pay-1", Status: domain.MatchReversed, ReversalReason: "wrong tenant"}

	mockMatchRepo.On("FindMatchByID", ctx, "match-1").Return(active, nil).Once()
	mockMatchRepo.On("ReverseMatch", ctx, "match-1", "wrong tenant", "user-1", mock.AnythingOfType("time.Time")).
		Return(reversed, nil).Once()

	_, err := service.Unmatch(ctx, "match-1", "wrong tenant", "user-1")
	assert.NoError(t, err)

	// After the reversal the pair is free again; a new commit makes a new row.
	mockStatementRepo.On("FindTransactionByID", ctx, "co-1", "txn-1").Return(&txn, nil).Once()
	mockPaymentRepo.On("FindExpectedPaymentByID", ctx, "co-1", "pay-1").Return(&payment, nil).Once()
	mockMatchRepo.On("CreateMatch", ctx, mock.MatchedBy(func(m domain.ReconciliationMatch) bool {
		return m.MatchID != "match-1" && m.Status == domain.MatchActive
	})).Return(nil).Once()
	mockStatementRepo.On("SaveBestCandidate", ctx, "co-1", "txn-1", (*domain.MatchCandidate)(nil)).Return(nil).Once()

	rematch, err := service.CommitMatch(ctx, "co-1", "txn-1", "pay-1", 1.0, nil, domain.DecidedManual, "user-1")
	assert.NoError(t, err)
	assert.NotEqual(t, "match-1", rematch.MatchID)
	mockMatchRepo.AssertExpectations(t)
}
