package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dvillagrablanco/inmova-reconciliation/internal/apperrors"
	"github.com/dvillagrablanco/inmova-reconciliation/internal/core/domain"
	portsrepo "github.com/dvillagrablanco/inmova-reconciliation/internal/core/ports/repositories"
	portssvc "github.com/dvillagrablanco/inmova-reconciliation/internal/core/ports/services"
	"github.com/dvillagrablanco/inmova-reconciliation/internal/middleware"
)

var (
	ErrNotACredit          = errors.New("only credit transactions can be matched")
	ErrPaymentNotOpen      = errors.New("expected payment is not open for matching")
	ErrReasonRequired      = errors.New("unmatch reason is required")
	ErrScoreOutOfRange     = errors.New("match score must be between 0 and 1")
	ErrMatchAlreadyRevoked = errors.New("match is already reversed")
)

// ledgerService applies accepted matches durably and auditable: every
// decision becomes a ledger row, reversals keep the row and mark it.
type ledgerService struct {
	matchRepo     portsrepo.MatchRepositoryWithTx
	statementRepo portsrepo.StatementRepositoryFacade
	paymentRepo   portsrepo.ExpectedPaymentRepositoryFacade
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(matchRepo portsrepo.MatchRepositoryWithTx, statementRepo portsrepo.StatementRepositoryFacade, paymentRepo portsrepo.ExpectedPaymentRepositoryFacade) portssvc.LedgerSvcFacade {
	return &ledgerService{
		matchRepo:     matchRepo,
		statementRepo: statementRepo,
		paymentRepo:   paymentRepo,
	}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

func (s *ledgerService) CommitMatch(ctx context.Context, companyID, transactionID, expectedPaymentID string, score float64, reasons []domain.MatchReason, decidedBy domain.MatchDecider, deciderUserID string) (*domain.ReconciliationMatch, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if score < 0 || score > 1 {
		return nil, fmt.Errorf("%w: got %f", ErrScoreOutOfRange, score)
	}

	txn, err := s.statementRepo.FindTransactionByID(ctx, companyID, transactionID)
	if err != nil {
		return nil, fmt.Errorf("transaction lookup failed: %w", err)
	}
	if !txn.IsCredit() {
		return nil, fmt.Errorf("%w: transaction %s", ErrNotACredit, transactionID)
	}

	payment, err := s.paymentRepo.FindExpectedPaymentByID(ctx, companyID, expectedPaymentID)
	if err != nil {
		return nil, fmt.Errorf("expected payment lookup failed: %w", err)
	}
	if !payment.Status.IsOpen() {
		return nil, fmt.Errorf("%w: payment %s is %s", ErrPaymentNotOpen, expectedPaymentID, payment.Status)
	}

	now := time.Now().UTC()
	match := domain.ReconciliationMatch{
		MatchID:           uuid.NewString(),
		TransactionID:     transactionID,
		ExpectedPaymentID: expectedPaymentID,
		Score:             score,
		Reasons:           reasons,
		DecidedBy:         decidedBy,
		DecidedAt:         now,
		Status:            domain.MatchActive,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     deciderUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: deciderUserID,
		},
	}

	if err := s.matchRepo.CreateMatch(ctx, match); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			// Benign race loss: another run claimed one of the sides first.
			logger.Warn("Match already claimed",
				slog.String("transaction_id", transactionID),
				slog.String("expected_payment_id", expectedPaymentID))
		}
		return nil, err
	}

	// The stored suggestion is stale once the transaction is matched.
	if err := s.statementRepo.SaveBestCandidate(ctx, companyID, transactionID, nil); err != nil {
		logger.Warn("Failed to clear stored suggestion", slog.String("transaction_id", transactionID), slog.String("error", err.Error()))
	}

	logger.Info("Match committed",
		slog.String("match_id", match.MatchID),
		slog.String("transaction_id", transactionID),
		slog.String("expected_payment_id", expectedPaymentID),
		slog.Float64("score", score),
		slog.String("decided_by", string(decidedBy)),
	)
	return &match, nil
}

func (s *ledgerService) Unmatch(ctx context.Context, matchID, reason, userID string) (*domain.ReconciliationMatch, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if reason == "" {
		return nil, fmt.Errorf("%w: match %s", ErrReasonRequired, matchID)
	}

	existing, err := s.matchRepo.FindMatchByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if existing.Status == domain.MatchReversed {
		return nil, fmt.Errorf("%w: match %s", ErrMatchAlreadyRevoked, matchID)
	}

	reversed, err := s.matchRepo.ReverseMatch(ctx, matchID, reason, userID, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	logger.Info("Match reversed",
		slog.String("match_id", matchID),
		slog.String("reason", reason),
		slog.String("user_id", userID),
	)
	return reversed, nil
}

func (s *ledgerService) ListUnmatched(ctx context.Context, companyID, accountIBAN string) ([]domain.UnmatchedEntry, error) {
	if companyID == "" {
		return nil, fmt.Errorf("%w: company ID is required", apperrors.ErrValidation)
	}
	return s.statementRepo.ListUnmatchedEntries(ctx, companyID, accountIBAN)
}
