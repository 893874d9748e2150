package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dvillagrablanco/inmova-reconciliation/internal/apperrors"
	"github.com/dvillagrablanco/inmova-reconciliation/internal/core/domain"
	portsrepo "github.com/dvillagrablanco/inmova-reconciliation/internal/core/ports/repositories"
	"github.com/dvillagrablanco/inmova-reconciliation/internal/models"
	"github.com/dvillagrablanco/inmova-reconciliation/internal/utils/mapping"
)

type PgxStatementRepository struct {
	BaseRepository
	paymentRepo portsrepo.ExpectedPaymentRepositoryFacade
}

// newPgxStatementRepository creates a new repository for imported statement transactions.
func newPgxStatementRepository(pool *pgxpool.Pool, paymentRepo portsrepo.ExpectedPaymentRepositoryFacade) portsrepo.StatementRepositoryFacade {
	return &PgxStatementRepository{
		BaseRepository: BaseRepository{Pool: pool},
		paymentRepo:    paymentRepo,
	}
}

// Ensure PgxStatementRepository implements portsrepo.StatementRepositoryFacade
var _ portsrepo.StatementRepositoryFacade = (*PgxStatementRepository)(nil)

const statementColumns = `
	transaction_id, company_id, identity_key, account_iban, booking_date, value_date,
	amount_minor_units, counterparty_name, remittance_info, raw_sequence_number,
	normalized_payer_name, normalized_reference, amount_major_units,
	best_candidate_payment_id, best_candidate_score, best_candidate_reasons,
	created_at, created_by, last_updated_at, last_updated_by
`

func scanStatementTransaction(row pgx.Row) (models.StatementTransaction, error) {
	var m models.StatementTransaction
	err := row.Scan(
		&m.TransactionID, &m.CompanyID, &m.IdentityKey, &m.AccountIBAN, &m.BookingDate, &m.ValueDate,
		&m.AmountMinorUnits, &m.CounterpartyName, &m.RemittanceInfo, &m.RawSequenceNumber,
		&m.NormalizedPayerName, &m.NormalizedReference, &m.AmountMajorUnits,
		&m.BestCandidatePaymentID, &m.BestCandidateScore, &m.BestCandidateReasons,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	return m, err
}

// SaveTransactions persists a batch of canonical transactions. Rows whose
// (company_id, identity_key) already exist are skipped rather than rejected,
// which makes re-importing the same statement file idempotent.
func (r *PgxStatementRepository) SaveTransactions(ctx context.Context, companyID string, txns []domain.CanonicalTransaction) (int, int, error) {
	if len(txns) == 0 {
		return 0, 0, nil
	}

	query := `
		INSERT INTO statement_transactions (` + statementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		ON CONFLICT (company_id, identity_key) DO NOTHING;
	`

	batch := &pgx.Batch{}
	for _, txn := range txns {
		m := mapping.ToModelStatementTransaction(companyID, txn)
		batch.Queue(query,
			m.TransactionID, m.CompanyID, m.IdentityKey, m.AccountIBAN, m.BookingDate, m.ValueDate,
			m.AmountMinorUnits, m.CounterpartyName, m.RemittanceInfo, m.RawSequenceNumber,
			m.NormalizedPayerName, m.NormalizedReference, m.AmountMajorUnits,
			m.BestCandidatePaymentID, m.BestCandidateScore, m.BestCandidateReasons,
			m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
		)
	}

	br := r.Pool.SendBatch(ctx, batch)
	defer br.Close()

	imported := 0
	for range txns {
		tag, err := br.Exec()
		if err != nil {
			return 0, 0, apperrors.NewAppError(500, "failed to insert statement transactions", err)
		}
		imported += int(tag.RowsAffected())
	}

	return imported, len(txns) - imported, nil
}

// FindTransactionByID retrieves one canonical transaction by its identifier.
func (r *PgxStatementRepository) FindTransactionByID(ctx context.Context, companyID, transactionID string) (*domain.CanonicalTransaction, error) {
	query := `
		SELECT ` + statementColumns + `
		FROM statement_transactions
		WHERE company_id = $1 AND transaction_id = $2;
	`
	m, err := scanStatementTransaction(r.Pool.QueryRow(ctx, query, companyID, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find transaction "+transactionID, err)
	}

	d := mapping.ToDomainCanonicalTransaction(m)
	return &d, nil
}

// ListTransactionsByAccount retrieves all transactions booked on an account within [from, to].
func (r *PgxStatementRepository) ListTransactionsByAccount(ctx context.Context, companyID, accountIBAN string, from, to time.Time) ([]domain.CanonicalTransaction, error) {
	query := `
		SELECT ` + statementColumns + `
		FROM statement_transactions
		WHERE company_id = $1 AND account_iban = $2 AND booking_date >= $3 AND booking_date <= $4
		ORDER BY booking_date ASC, raw_sequence_number ASC, transaction_id ASC;
	`
	rows, err := r.Pool.Query(ctx, query, companyID, accountIBAN, from, to)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list transactions for account", err)
	}
	defer rows.Close()

	return collectCanonicalTransactions(rows)
}

// ListUnmatchedCredits retrieves credit transactions that no active ledger row
// claims, ordered by booking date then sequence number. This is the engine's
// input set on every reconciliation pass. An empty accountIBAN covers every
// account of the company.
func (r *PgxStatementRepository) ListUnmatchedCredits(ctx context.Context, companyID, accountIBAN string) ([]domain.CanonicalTransaction, error) {
	query := `
		SELECT ` + statementColumns + `
		FROM statement_transactions st
		WHERE st.company_id = $1 AND ($2 = '' OR st.account_iban = $2) AND st.amount_minor_units > 0
		  AND NOT EXISTS (
			SELECT 1 FROM reconciliation_matches rm
			WHERE rm.transaction_id = st.transaction_id AND rm.status = 'ACTIVE'
		  )
		ORDER BY st.booking_date ASC, st.raw_sequence_number ASC, st.transaction_id ASC;
	`
	rows, err := r.Pool.Query(ctx, query, companyID, accountIBAN)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list unmatched credits", err)
	}
	defer rows.Close()

	return collectCanonicalTransactions(rows)
}

// ListUnmatchedEntries retrieves unmatched credits together with their stored
// best candidate for the manual-review surface. An empty accountIBAN covers
// every account of the company.
func (r *PgxStatementRepository) ListUnmatchedEntries(ctx context.Context, companyID, accountIBAN string) ([]domain.UnmatchedEntry, error) {
	query := `
		SELECT ` + statementColumns + `
		FROM statement_transactions st
		WHERE st.company_id = $1 AND ($2 = '' OR st.account_iban = $2) AND st.amount_minor_units > 0
		  AND NOT EXISTS (
			SELECT 1 FROM reconciliation_matches rm
			WHERE rm.transaction_id = st.transaction_id AND rm.status = 'ACTIVE'
		  )
		ORDER BY st.booking_date ASC, st.raw_sequence_number ASC, st.transaction_id ASC;
	`
	rows, err := r.Pool.Query(ctx, query, companyID, accountIBAN)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list unmatched entries", err)
	}

	modelTxns, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.StatementTransaction, error) {
		return scanStatementTransaction(row)
	})
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to scan unmatched entries", err)
	}

	entries := make([]domain.UnmatchedEntry, 0, len(modelTxns))
	for _, m := range modelTxns {
		entry := domain.UnmatchedEntry{Transaction: mapping.ToDomainCanonicalTransaction(m)}
		candidate, err := r.candidateFromModel(ctx, companyID, m)
		if err != nil {
			return nil, err
		}
		entry.BestCandidate = candidate
		entries = append(entries, entry)
	}
	return entries, nil
}

// GetBestCandidate retrieves the stored suggestion for a transaction, or nil
// when no candidate survived the last pass.
func (r *PgxStatementRepository) GetBestCandidate(ctx context.Context, companyID, transactionID string) (*domain.MatchCandidate, error) {
	query := `
		SELECT ` + statementColumns + `
		FROM statement_transactions
		WHERE company_id = $1 AND transaction_id = $2;
	`
	m, err := scanStatementTransaction(r.Pool.QueryRow(ctx, query, companyID, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to load candidate for transaction "+transactionID, err)
	}
	return r.candidateFromModel(ctx, companyID, m)
}

// SaveBestCandidate records (or clears, when candidate is nil) the best
// below-acceptance suggestion for a transaction.
func (r *PgxStatementRepository) SaveBestCandidate(ctx context.Context, companyID, transactionID string, candidate *domain.MatchCandidate) error {
	var (
		paymentID *string
		score     *float64
		reasons   []string
	)
	if candidate != nil {
		paymentID = &candidate.Payment.ExpectedPaymentID
		score = &candidate.Score
		reasons = mapping.ReasonsToStrings(candidate.Reasons)
	}

	query := `
		UPDATE statement_transactions
		SET best_candidate_payment_id = $3, best_candidate_score = $4, best_candidate_reasons = $5, last_updated_at = $6
		WHERE company_id = $1 AND transaction_id = $2;
	`
	tag, err := r.Pool.Exec(ctx, query, companyID, transactionID, paymentID, score, reasons, time.Now())
	if err != nil {
		return apperrors.NewAppError(500, "failed to save best candidate for transaction "+transactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxStatementRepository) candidateFromModel(ctx context.Context, companyID string, m models.StatementTransaction) (*domain.MatchCandidate, error) {
	if m.BestCandidatePaymentID == nil || m.BestCandidateScore == nil {
		return nil, nil
	}

	payment, err := r.paymentRepo.FindExpectedPaymentByID(ctx, companyID, *m.BestCandidatePaymentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// The payment left the pool since the last pass; the suggestion is stale.
			return nil, nil
		}
		return nil, apperrors.NewAppError(500, "failed to load suggested payment "+*m.BestCandidatePaymentID, err)
	}

	return &domain.MatchCandidate{
		Transaction: mapping.ToDomainCanonicalTransaction(m),
		Payment:     *payment,
		Score:       *m.BestCandidateScore,
		Reasons:     mapping.ReasonsFromStrings(m.BestCandidateReasons),
	}, nil
}

func collectCanonicalTransactions(rows pgx.Rows) ([]domain.CanonicalTransaction, error) {
	modelTxns, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.StatementTransaction, error) {
		return scanStatementTransaction(row)
	})
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to scan statement transactions", err)
	}

	domainTxns := make([]domain.CanonicalTransaction, 0, len(modelTxns))
	for _, m := range modelTxns {
		domainTxns = append(domainTxns, mapping.ToDomainCanonicalTransaction(m))
	}
	return domainTxns, nil
}
