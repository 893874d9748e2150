package repositories

// RepositoryProvider aggregates all repository facades handed to the service
// layer. Built once at startup from the database pool.
type RepositoryProvider struct {
	StatementRepo StatementRepositoryFacade
	PaymentRepo   ExpectedPaymentRepositoryFacade
	MatchRepo     MatchRepositoryWithTx
}
