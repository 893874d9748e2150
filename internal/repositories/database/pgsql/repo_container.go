package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/dvillagrablanco/inmova-reconciliation/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	paymentRepo := newPgxExpectedPaymentRepository(dbPool)
	statementRepo := newPgxStatementRepository(dbPool, paymentRepo)
	matchRepo := newPgxMatchRepository(dbPool, paymentRepo)

	return portsrepo.RepositoryProvider{
		StatementRepo: statementRepo,
		PaymentRepo:   paymentRepo,
		MatchRepo:     matchRepo,
	}
}
