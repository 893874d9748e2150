package pgsql

import (
	"context"
	"errors"
	"fmt"
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

type PgxMatchRepository struct {
	BaseRepository
	paymentRepo portsrepo.ExpectedPaymentRepositoryFacade
}

// newPgxMatchRepository creates a new repository for the reconciliation ledger.
func newPgxMatchRepository(pool *pgxpool.Pool, paymentRepo portsrepo.ExpectedPaymentRepositoryFacade) portsrepo.MatchRepositoryWithTx {
	return &PgxMatchRepository{
		BaseRepository: BaseRepository{Pool: pool},
		paymentRepo:    paymentRepo,
	}
}

// Ensure PgxMatchRepository implements portsrepo.MatchRepositoryWithTx
var _ portsrepo.MatchRepositoryWithTx = (*PgxMatchRepository)(nil)

const matchColumns = `
	match_id, transaction_id, expected_payment_id, score, reasons,
	decided_by, decided_at, status, reversal_reason,
	created_at, created_by, last_updated_at, last_updated_by
`

func scanMatch(row pgx.Row) (models.ReconciliationMatch, error) {
	var m models.ReconciliationMatch
	err := row.Scan(
		&m.MatchID, &m.TransactionID, &m.ExpectedPaymentID, &m.Score, &m.Reasons,
		&m.DecidedBy, &m.DecidedAt, &m.Status, &m.ReversalReason,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	return m, err
}

// CreateMatch inserts an active ledger row and flips the expected payment to
// MATCHED as one atomic unit. The partial unique indexes on active rows turn
// any double claim, from either side, into apperrors.ErrConflict.
func (r *PgxMatchRepository) CreateMatch(ctx context.Context, match domain.ReconciliationMatch) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelMatch(match)
	query := `
		INSERT INTO reconciliation_matches (` + matchColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err = tx.Exec(ctx, query,
		m.MatchID, m.TransactionID, m.ExpectedPaymentID, m.Score, m.Reasons,
		m.DecidedBy, m.DecidedAt, m.Status, m.ReversalReason,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation on an active side
			return fmt.Errorf("%w: transaction %s or payment %s already claimed", apperrors.ErrConflict, m.TransactionID, m.ExpectedPaymentID)
		}
		return apperrors.NewAppError(500, "failed to insert match "+m.MatchID, err)
	}

	txnID := match.TransactionID
	if err := r.paymentRepo.UpdateStatusInTx(ctx, tx, match.ExpectedPaymentID, domain.PaymentMatched, &txnID, match.CreatedBy, match.CreatedAt); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// ReverseMatch marks a ledger row REVERSED and resets the expected payment to
// PENDING, atomically. The row is never deleted.
func (r *PgxMatchRepository) ReverseMatch(ctx context.Context, matchID, reason, updatedBy string, updatedAt time.Time) (*domain.ReconciliationMatch, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	lockQuery := `
		SELECT ` + matchColumns + `
		FROM reconciliation_matches
		WHERE match_id = $1
		FOR UPDATE;
	`
	m, err := scanMatch(tx.QueryRow(ctx, lockQuery, matchID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to lock match "+matchID, err)
	}
	if m.Status == models.MatchReversed {
		return nil, fmt.Errorf("%w: match %s is already reversed", apperrors.ErrValidation, matchID)
	}

	updateQuery := `
		UPDATE reconciliation_matches
		SET status = $2, reversal_reason = $3, last_updated_by = $4, last_updated_at = $5
		WHERE match_id = $1;
	`
	if _, err := tx.Exec(ctx, updateQuery, matchID, string(models.MatchReversed), reason, updatedBy, updatedAt); err != nil {
		return nil, apperrors.NewAppError(500, "failed to reverse match "+matchID, err)
	}

	if err := r.paymentRepo.UpdateStatusInTx(ctx, tx, m.ExpectedPaymentID, domain.PaymentPending, nil, updatedBy, updatedAt); err != nil {
		return nil, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}

	m.Status = models.MatchReversed
	m.ReversalReason = &reason
	m.LastUpdatedBy = updatedBy
	m.LastUpdatedAt = updatedAt
	d := mapping.ToDomainMatch(m)
	return &d, nil
}

// FindMatchByID retrieves a ledger row by its identifier.
func (r *PgxMatchRepository) FindMatchByID(ctx context.Context, matchID string) (*domain.ReconciliationMatch, error) {
	query := `
		SELECT ` + matchColumns + `
		FROM reconciliation_matches
		WHERE match_id = $1;
	`
	m, err := scanMatch(r.Pool.QueryRow(ctx, query, matchID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find match "+matchID, err)
	}

	d := mapping.ToDomainMatch(m)
	return &d, nil
}

// FindActiveMatchByTransactionID retrieves the active ledger row claiming a
// transaction. At most one can exist.
func (r *PgxMatchRepository) FindActiveMatchByTransactionID(ctx context.Context, transactionID string) (*domain.ReconciliationMatch, error) {
	query := `
		SELECT ` + matchColumns + `
		FROM reconciliation_matches
		WHERE transaction_id = $1 AND status = 'ACTIVE';
	`
	m, err := scanMatch(r.Pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find active match for transaction "+transactionID, err)
	}

	d := mapping.ToDomainMatch(m)
	return &d, nil
}

// ListMatchesByAccount retrieves ledger rows (active and reversed) whose
// transaction was booked on the account within [from, to], ordered by
// decision time. The window applies to the booking date, not the decision
// date: a March credit reconciled in April still belongs to the March report.
func (r *PgxMatchRepository) ListMatchesByAccount(ctx context.Context, companyID, accountIBAN string, from, to time.Time) ([]domain.ReconciliationMatch, error) {
	query := `
		SELECT rm.match_id, rm.transaction_id, rm.expected_payment_id, rm.score, rm.reasons,
		       rm.decided_by, rm.decided_at, rm.status, rm.reversal_reason,
		       rm.created_at, rm.created_by, rm.last_updated_at, rm.last_updated_by
		FROM reconciliation_matches rm
		JOIN statement_transactions st ON st.transaction_id = rm.transaction_id
		WHERE st.company_id = $1 AND st.account_iban = $2
		  AND st.booking_date >= $3 AND st.booking_date <= $4
		ORDER BY rm.decided_at ASC, rm.match_id ASC;
	`
	rows, err := r.Pool.Query(ctx, query, companyID, accountIBAN, from, to)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list matches for account", err)
	}

	modelMatches, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.ReconciliationMatch, error) {
		return scanMatch(row)
	})
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to scan matches", err)
	}

	matches := make([]domain.ReconciliationMatch, 0, len(modelMatches))
	for _, m := range modelMatches {
		matches = append(matches, mapping.ToDomainMatch(m))
	}
	return matches, nil
}

// SaveRun inserts the summary row of one reconciliation pass.
func (r *PgxMatchRepository) SaveRun(ctx context.Context, run domain.ReconciliationRun) error {
	m := mapping.ToModelRun(run)
	query := `
		INSERT INTO reconciliation_runs (
			run_id, company_id, account_iban, transactions, accepted, suggested, unmatched, ran_at,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.RunID, m.CompanyID, m.AccountIBAN, m.Transactions, m.Accepted, m.Suggested, m.Unmatched, m.RanAt,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert reconciliation run "+m.RunID, err)
	}
	return nil
}
