package services_test

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"

	"github.com/dvillagrablanco/inmova-reconciliation/internal/core/domain"
)

// --- Mock StatementRepository ---

type MockStatementRepository struct {
	mock.Mock
}

func (m *MockStatementRepository) FindTransactionByID(ctx context.Context, companyID, transactionID string) (*domain.CanonicalTransaction, error) {
	args := m.Called(ctx, companyID, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CanonicalTransaction), args.Error(1)
}

func (m *MockStatementRepository) ListTransactionsByAccount(ctx context.Context, companyID, accountIBAN string, from, to time.Time) ([]domain.CanonicalTransaction, error) {
	args := m.Called(ctx, companyID, accountIBAN, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CanonicalTransaction), args.Error(1)
}

func (m *MockStatementRepository) ListUnmatchedCredits(ctx context.Context, companyID, accountIBAN string) ([]domain.CanonicalTransaction, error) {
	args := m.Called(ctx, companyID, accountIBAN)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CanonicalTransaction), args.Error(1)
}

func (m *MockStatementRepository) ListUnmatchedEntries(ctx context.Context, companyID, accountIBAN string) ([]domain.UnmatchedEntry, error) {
	args := m.Called(ctx, companyID, accountIBAN)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.UnmatchedEntry), args.Error(1)
}

func (m *MockStatementRepository) GetBestCandidate(ctx context.Context, companyID, transactionID string) (*domain.MatchCandidate, error) {
	args := m.Called(ctx, companyID, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MatchCandidate), args.Error(1)
}

func (m *MockStatementRepository) SaveTransactions(ctx context.Context, companyID string, txns []domain.CanonicalTransaction) (int, int, error) {
	args := m.Called(ctx, companyID, txns)
	return args.Int(0), args.Int(1), args.Error(2)
}

func (m *MockStatementRepository) SaveBestCandidate(ctx context.Context, companyID, transactionID string, candidate *domain.MatchCandidate) error {
	args := m.Called(ctx, companyID, transactionID, candidate)
	return args.Error(0)
}

// --- Mock ExpectedPaymentRepository ---

type MockExpectedPaymentRepository struct {
	mock.Mock
}

func (m *MockExpectedPaymentRepository) FindExpectedPaymentByID(ctx context.Context, companyID, expectedPaymentID string) (*domain.ExpectedPayment, error) {
	args := m.Called(ctx, companyID, expectedPaymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExpectedPayment), args.Error(1)
}

func (m *MockExpectedPaymentRepository) ListOpenExpectedPayments(ctx context.Context, companyID, accountIBAN string) ([]domain.ExpectedPayment, error) {
	args := m.Called(ctx, companyID, accountIBAN)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExpectedPayment), args.Error(1)
}

func (m *MockExpectedPaymentRepository) UpdateStatusInTx(ctx context.Context, tx pgx.Tx, expectedPaymentID string, status domain.ExpectedPaymentStatus, matchedTransactionID *string, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, tx, expectedPaymentID, status, matchedTransactionID, updatedBy, updatedAt)
	return args.Error(0)
}

func (m *MockExpectedPaymentRepository) CreateExpectedPayment(ctx context.Context, payment domain.ExpectedPayment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

// --- Mock MatchRepository ---

type MockMatchRepository struct {
	mock.Mock
}

func (m *MockMatchRepository) FindMatchByID(ctx context.Context, matchID string) (*domain.ReconciliationMatch, error) {
	args := m.Called(ctx, matchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReconciliationMatch), args.Error(1)
}

func (m *MockMatchRepository) FindActiveMatchByTransactionID(ctx context.Context, transactionID string) (*domain.ReconciliationMatch, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReconciliationMatch), args.Error(1)
}

func (m *MockMatchRepository) ListMatchesByAccount(ctx context.Context, companyID, accountIBAN string, from, to time.Time) ([]domain.ReconciliationMatch, error) {
	args := m.Called(ctx, companyID, accountIBAN, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ReconciliationMatch), args.Error(1)
}

func (m *MockMatchRepository) CreateMatch(ctx context.Context, match domain.ReconciliationMatch) error {
	args := m.Called(ctx, match)
	return args.Error(0)
}

func (m *MockMatchRepository) ReverseMatch(ctx context.Context, matchID, reason, updatedBy string, updatedAt time.Time) (*domain.ReconciliationMatch, error) {
	args := m.Called(ctx, matchID, reason, updatedBy, updatedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReconciliationMatch), args.Error(1)
}

func (m *MockMatchRepository) SaveRun(ctx context.Context, run domain.ReconciliationRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *MockMatchRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockMatchRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockMatchRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}
