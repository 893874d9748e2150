package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dvillagrablanco/inmova-reconciliation/internal/apperrors"
	"github.com/dvillagrablanco/inmova-reconciliation/internal/core/domain"
	portsrepo "github.com/dvillagrablanco/inmova-reconciliation/internal/core/ports/repositories"
	"github.com/dvillagrablanco/inmova-reconciliation/internal/models"
	"github.com/dvillagrablanco/inmova-reconciliation/internal/utils/mapping"
)

type PgxExpectedPaymentRepository struct {
	BaseRepository
}

// newPgxExpectedPaymentRepository creates a new repository for the expected-payment pool.
func newPgxExpectedPaymentRepository(pool *pgxpool.Pool) portsrepo.ExpectedPaymentRepositoryFacade {
	return &PgxExpectedPaymentRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxExpectedPaymentRepository implements portsrepo.ExpectedPaymentRepositoryFacade
var _ portsrepo.ExpectedPaymentRepositoryFacade = (*PgxExpectedPaymentRepository)(nil)

const expectedPaymentColumns = `
	expected_payment_id, company_id, tenant_id, contract_id, account_iban,
	expected_amount_minor_units, due_date, period_start, period_end,
	payer_name_hint, reference_hint, status, matched_transaction_id,
	created_at, created_by, last_updated_at, last_updated_by
`

func scanExpectedPayment(row pgx.Row) (models.ExpectedPayment, error) {
	var m models.ExpectedPayment
	err := row.Scan(
		&m.ExpectedPaymentID, &m.CompanyID, &m.TenantID, &m.ContractID, &m.AccountIBAN,
		&m.ExpectedAmountMinorUnits, &m.DueDate, &m.PeriodStart, &m.PeriodEnd,
		&m.PayerNameHint, &m.ReferenceHint, &m.Status, &m.MatchedTransactionID,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	return m, err
}

// FindExpectedPaymentByID retrieves one expected payment.
func (r *PgxExpectedPaymentRepository) FindExpectedPaymentByID(ctx context.Context, companyID, expectedPaymentID string) (*domain.ExpectedPayment, error) {
	query := `
		SELECT ` + expectedPaymentColumns + `
		FROM expected_payments
		WHERE company_id = $1 AND expected_payment_id = $2;
	`
	m, err := scanExpectedPayment(r.Pool.QueryRow(ctx, query, companyID, expectedPaymentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find expected payment "+expectedPaymentID, err)
	}

	d := mapping.ToDomainExpectedPayment(m)
	return &d, nil
}

// ListOpenExpectedPayments retrieves PENDING and OVERDUE payments for the
// company, optionally scoped to one collection account.
func (r *PgxExpectedPaymentRepository) ListOpenExpectedPayments(ctx context.Context, companyID, accountIBAN string) ([]domain.ExpectedPayment, error) {
	query := `
		SELECT ` + expectedPaymentColumns + `
		FROM expected_payments
		WHERE company_id = $1 AND status IN ('PENDING', 'OVERDUE')
		  AND ($2 = '' OR account_iban = $2)
		ORDER BY due_date ASC, expected_payment_id ASC;
	`
	rows, err := r.Pool.Query(ctx, query, companyID, accountIBAN)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list open expected payments", err)
	}

	modelPayments, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.ExpectedPayment, error) {
		return scanExpectedPayment(row)
	})
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to scan expected payments", err)
	}

	payments := make([]domain.ExpectedPayment, 0, len(modelPayments))
	for _, m := range modelPayments {
		payments = append(payments, mapping.ToDomainExpectedPayment(m))
	}
	return payments, nil
}

// UpdateStatusInTx flips an expected payment's status inside the caller's
// transaction. The ledger repository uses this so a match commit and the
// payment status change are one atomic unit.
func (r *PgxExpectedPaymentRepository) UpdateStatusInTx(ctx context.Context, tx pgx.Tx, expectedPaymentID string, status domain.ExpectedPaymentStatus, matchedTransactionID *string, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE expected_payments
		SET status = $2, matched_transaction_id = $3, last_updated_by = $4, last_updated_at = $5
		WHERE expected_payment_id = $1;
	`
	tag, err := tx.Exec(ctx, query, expectedPaymentID, string(status), matchedTransactionID, updatedBy, updatedAt)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update status of expected payment "+expectedPaymentID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// CreateExpectedPayment inserts a payment into the pool.
func (r *PgxExpectedPaymentRepository) CreateExpectedPayment(ctx context.Context, payment domain.ExpectedPayment) error {
	m := mapping.ToModelExpectedPayment(payment)
	query := `
		INSERT INTO expected_payments (` + expectedPaymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.ExpectedPaymentID, m.CompanyID, m.TenantID, m.ContractID, m.AccountIBAN,
		m.ExpectedAmountMinorUnits, m.DueDate, m.PeriodStart, m.PeriodEnd,
		m.PayerNameHint, m.ReferenceHint, m.Status, m.MatchedTransactionID,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to insert expected payment "+m.ExpectedPaymentID, err)
	}
	return nil
}
