package services

import (
	portsrepo "github.com/dvillagrablanco/inmova-reconciliation/internal/core/ports/repositories"
	portssvc "github.com/dvillagrablanco/inmova-reconciliation/internal/core/ports/services"
	"github.com/dvillagrablanco/inmova-reconciliation/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Statement = NewStatementService(repos.StatementRepo)

	// Ledger first since the orchestrator commits through it.
	container.Ledger = NewLedgerService(repos.MatchRepo, repos.StatementRepo, repos.PaymentRepo)

	container.Reconciliation = NewReconciliationService(
		repos.StatementRepo,
		repos.PaymentRepo,
		repos.MatchRepo,
		container.Ledger,
		matchingConfigFrom(cfg),
	)

	container.Payments = NewExpectedPaymentService(repos.PaymentRepo)

	container.Reporting = NewReportingService(repos.StatementRepo, repos.MatchRepo)

	return container
}

// matchingConfigFrom maps configuration onto the engine's knobs, falling back
// to the engine defaults when the settings block is zero-valued.
func matchingConfigFrom(cfg *config.Config) MatchingConfig {
	if cfg == nil || cfg.Matching == (config.MatchingSettings{}) {
		return DefaultMatchingConfig()
	}
	m := cfg.Matching
	return MatchingConfig{
		AmountWeight:         m.AmountWeight,
		NameWeight:           m.NameWeight,
		ReferenceWeight:      m.ReferenceWeight,
		DateWeight:           m.DateWeight,
		AutoAcceptThreshold:  m.AutoAcceptThreshold,
		SuggestThreshold:     m.SuggestThreshold,
		AmountToleranceCents: m.AmountToleranceCents,
		DateGraceDays:        m.DateGraceDays,
		DateOuterBoundDays:   m.DateOuterBoundDays,
	}
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.StatementSvcFacade       = (*statementService)(nil)
	_ portssvc.ReconciliationSvcFacade  = (*reconciliationService)(nil)
	_ portssvc.LedgerSvcFacade          = (*ledgerService)(nil)
	_ portssvc.ExpectedPaymentSvcFacade = (*expectedPaymentService)(nil)
	_ portssvc.ReportingSvcFacade       = (*reportingService)(nil)
)
