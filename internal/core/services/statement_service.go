package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dvillagrablanco/inmova-reconciliation/internal/apperrors"
	"github.com/dvillagrablanco/inmova-reconciliation/internal/core/domain"
	portsrepo "github.com/dvillagrablanco/inmova-reconciliation/internal/core/ports/repositories"
	portssvc "github.com/dvillagrablanco/inmova-reconciliation/internal/core/ports/services"
	"github.com/dvillagrablanco/inmova-reconciliation/internal/middleware"
	"github.com/dvillagrablanco/inmova-reconciliation/internal/normalizer"
	"github.com/dvillagrablanco/inmova-reconciliation/internal/parsers"
)

// statementService parses statement files and imports the resulting
// transactions, deduplicating on re-import.
type statementService struct {
	statementRepo portsrepo.StatementRepositoryFacade
}

// NewStatementService creates a new StatementService.
func NewStatementService(statementRepo portsrepo.StatementRepositoryFacade) portssvc.StatementSvcFacade {
	return &statementService{statementRepo: statementRepo}
}

var _ portssvc.StatementSvcFacade = (*statementService)(nil)

func (s *statementService) ImportStatement(ctx context.Context, companyID string, format domain.StatementFormat, fileBytes []byte, declaredIBAN string, importerUserID string) (*domain.ImportReport, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if companyID == "" || declaredIBAN == "" {
		return nil, fmt.Errorf("%w: company ID and IBAN are required", apperrors.ErrValidation)
	}
	if len(fileBytes) == 0 {
		return nil, fmt.Errorf("%w: empty statement file", apperrors.ErrValidation)
	}

	parser, err := parsers.ParserFor(format)
	if err != nil {
		return nil, err
	}

	rawTxns, report, err := parser.Parse(fileBytes, declaredIBAN)
	if err != nil {
		logger.Warn("Statement parse failed", slog.String("format", string(format)), slog.String("error", err.Error()))
		return nil, err
	}

	now := time.Now().UTC()
	canonical := make([]domain.CanonicalTransaction, len(rawTxns))
	for i, raw := range rawTxns {
		raw.TransactionID = uuid.NewString()
		raw.AuditFields = domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     importerUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: importerUserID,
		}
		canonical[i] = normalizer.Normalize(raw)
	}

	imported, duplicates, err := s.statementRepo.SaveTransactions(ctx, companyID, canonical)
	if err != nil {
		logger.Error("Failed to persist statement transactions", slog.String("error", err.Error()), slog.String("company_id", companyID))
		return nil, fmt.Errorf("failed to persist statement transactions: %w", err)
	}

	logger.Info("Statement imported",
		slog.String("format", string(format)),
		slog.Int("accepted", report.Accepted),
		slog.Int("rejected", report.Rejected),
		slog.Int("imported", imported),
		slog.Int("duplicates", duplicates),
	)

	return &domain.ImportReport{
		ParseReport: report,
		Imported:    imported,
		Duplicates:  duplicates,
	}, nil
}
