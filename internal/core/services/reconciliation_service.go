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

// reconciliationService orchestrates one pass: load, match, commit, record.
// The matching itself is pure; all I/O stays at this boundary.
type reconciliationService struct {
	statementRepo portsrepo.StatementRepositoryFacade
	paymentRepo   portsrepo.ExpectedPaymentRepositoryFacade
	matchRepo     portsrepo.MatchRepositoryWithTx
	ledger        portssvc.LedgerSvcFacade
	cfg           MatchingConfig
}

// NewReconciliationService creates a new ReconciliationService.
func NewReconciliationService(statementRepo portsrepo.StatementRepositoryFacade, paymentRepo portsrepo.ExpectedPaymentRepositoryFacade, matchRepo portsrepo.MatchRepositoryWithTx, ledger portssvc.LedgerSvcFacade, cfg MatchingConfig) portssvc.ReconciliationSvcFacade {
	return &reconciliationService{
		statementRepo: statementRepo,
		paymentRepo:   paymentRepo,
		matchRepo:     matchRepo,
		ledger:        ledger,
		cfg:           cfg,
	}
}

var _ portssvc.ReconciliationSvcFacade = (*reconciliationService)(nil)

func (s *reconciliationService) Reconcile(ctx context.Context, companyID, accountIBAN, runnerUserID string) (*domain.ReconciliationResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if companyID == "" {
		return nil, fmt.Errorf("%w: company ID is required", apperrors.ErrValidation)
	}

	transactions, err := s.statementRepo.ListUnmatchedCredits(ctx, companyID, accountIBAN)
	if err != nil {
		return nil, fmt.Errorf("failed to load unmatched transactions: %w", err)
	}
	payments, err := s.paymentRepo.ListOpenExpectedPayments(ctx, companyID, accountIBAN)
	if err != nil {
		return nil, fmt.Errorf("failed to load open expected payments: %w", err)
	}

	outcome := MatchBatch(transactions, payments, s.cfg)

	accepted := make([]domain.ReconciliationMatch, 0, len(outcome.Accepted))
	for _, candidate := range outcome.Accepted {
		match, err := s.ledger.CommitMatch(ctx, companyID,
			candidate.Transaction.TransactionID,
			candidate.Payment.ExpectedPaymentID,
			candidate.Score, candidate.Reasons, domain.DecidedAutomatic, runnerUserID)
		if err != nil {
			if errors.Is(err, apperrors.ErrConflict) {
				// Another run claimed the pair first; the transaction will
				// surface as unmatched on the next pass if still free.
				logger.Warn("Skipping match claimed by concurrent run",
					slog.String("transaction_id", candidate.Transaction.TransactionID),
					slog.String("expected_payment_id", candidate.Payment.ExpectedPaymentID))
				continue
			}
			return nil, fmt.Errorf("failed to commit match: %w", err)
		}
		accepted = append(accepted, *match)
	}

	// Persist the best suggestion per unmatched entry so the review surface
	// and ExplainMatch can show it after this pass.
	for _, entry := range outcome.Unmatched {
		if err := s.statementRepo.SaveBestCandidate(ctx, companyID, entry.Transaction.TransactionID, entry.BestCandidate); err != nil {
			logger.Warn("Failed to store best candidate",
				slog.String("transaction_id", entry.Transaction.TransactionID),
				slog.String("error", err.Error()))
		}
	}

	run := domain.ReconciliationRun{
		RunID:        uuid.NewString(),
		CompanyID:    companyID,
		AccountIBAN:  accountIBAN,
		Transactions: len(transactions),
		Accepted:     len(accepted),
		Suggested:    len(outcome.Suggested),
		Unmatched:    len(outcome.Unmatched),
		RanAt:        time.Now().UTC(),
		AuditFields: domain.AuditFields{
			CreatedAt:     time.Now().UTC(),
			CreatedBy:     runnerUserID,
			LastUpdatedAt: time.Now().UTC(),
			LastUpdatedBy: runnerUserID,
		},
	}
	if err := s.matchRepo.SaveRun(ctx, run); err != nil {
		logger.Error("Failed to persist reconciliation run", slog.String("run_id", run.RunID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to persist reconciliation run: %w", err)
	}

	logger.Info("Reconciliation pass completed",
		slog.String("run_id", run.RunID),
		slog.String("company_id", companyID),
		slog.Int("transactions", run.Transactions),
		slog.Int("accepted", run.Accepted),
		slog.Int("suggested", run.Suggested),
		slog.Int("unmatched", run.Unmatched),
	)

	return &domain.ReconciliationResult{
		RunID:     run.RunID,
		CompanyID: companyID,
		Accepted:  accepted,
		Suggested: outcome.Suggested,
		Unmatched: outcome.Unmatched,
	}, nil
}

// ExplainMatch always answers for a known transaction: accepted with reasons,
// suggested with reasons and score, or no candidate found. No silent drops.
func (s *reconciliationService) ExplainMatch(ctx context.Context, companyID, transactionID string) (*domain.MatchExplanation, error) {
	if _, err := s.statementRepo.FindTransactionByID(ctx, companyID, transactionID); err != nil {
		return nil, err
	}

	match, err := s.matchRepo.FindActiveMatchByTransactionID(ctx, transactionID)
	if err == nil {
		decidedBy := match.DecidedBy
		score := match.Score
		return &domain.MatchExplanation{
			TransactionID: transactionID,
			Outcome:       "accepted",
			Score:         &score,
			Reasons:       match.Reasons,
			DecidedBy:     &decidedBy,
		}, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	candidate, err := s.statementRepo.GetBestCandidate(ctx, companyID, transactionID)
	if err != nil {
		return nil, err
	}
	if candidate != nil {
		score := candidate.Score
		return &domain.MatchExplanation{
			TransactionID: transactionID,
			Outcome:       "suggested",
			Score:         &score,
			Reasons:       candidate.Reasons,
		}, nil
	}

	return &domain.MatchExplanation{
		TransactionID: transactionID,
		Outcome:       "no_candidate",
	}, nil
}
