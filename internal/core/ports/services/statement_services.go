package services

import (
	"context"

	"github.com/dvillagrablanco/inmova-reconciliation/internal/core/domain"
)

// StatementSvcFacade parses and imports bank statement files.
type StatementSvcFacade interface {
	// ImportStatement parses raw file bytes in the given format, normalizes
	// the resulting transactions and persists them, deduplicating by identity
	// key. A structurally invalid file fails with apperrors.ErrParse and
	// imports nothing.
	ImportStatement(ctx context.Context, companyID string, format domain.StatementFormat, fileBytes []byte, declaredIBAN string, importerUserID string) (*domain.ImportReport, error)
}
