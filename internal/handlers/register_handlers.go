package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"

	portssvc "github.com/dvillagrablanco/inmova-reconciliation/internal/core/ports/services"
	"github.com/dvillagrablanco/inmova-reconciliation/internal/middleware"
	"github.com/dvillagrablanco/inmova-reconciliation/internal/platform/config"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	uploadLimiter *limiter.Limiter,
) {
	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	setupAPIV1Routes(r, cfg, services, uploadLimiter)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	uploadLimiter *limiter.Limiter,
) {
	// Apply API-key auth to the entire v1 group
	v1 := r.Group("/api/v1", middleware.APIKeyAuth(cfg.APIKeyHash))

	registerStatementRoutes(v1, services.Statement, uploadLimiter)
	RegisterReconciliationRoutes(v1, services.Reconciliation, services.Ledger)
	RegisterExpectedPaymentRoutes(v1, services.Payments)
	registerReportRoutes(v1, services.Reporting)
}

func registerStatementRoutes(v1 *gin.RouterGroup, statementService portssvc.StatementSvcFacade, uploadLimiter *limiter.Limiter) {
	h := newStatementHandler(statementService)

	// Statement uploads are the only write-heavy public entry point, so they
	// carry their own rate limit.
	v1.POST("/statements", middleware.RateLimit(uploadLimiter), h.importStatement)
}

// RegisterReconciliationRoutes is exported so handler tests can mount the
// reconciliation routes against mock services.
func RegisterReconciliationRoutes(v1 *gin.RouterGroup, reconciliationService portssvc.ReconciliationSvcFacade, ledgerService portssvc.LedgerSvcFacade) {
	h := newReconciliationHandler(reconciliationService, ledgerService)

	reconciliation := v1.Group("/reconciliation")
	{
		reconciliation.POST("/runs", h.runReconciliation)
		reconciliation.GET("/unmatched", h.listUnmatched)
	}

	matches := v1.Group("/matches")
	{
		matches.POST("", h.commitMatch)
		matches.DELETE("/:matchID", h.unmatch)
	}

	v1.GET("/transactions/:transactionID/explanation", h.explainMatch)
}

// RegisterExpectedPaymentRoutes is exported so handler tests can mount the
// expected-payment routes against mock services.
func RegisterExpectedPaymentRoutes(v1 *gin.RouterGroup, paymentService portssvc.ExpectedPaymentSvcFacade) {
	h := newExpectedPaymentHandler(paymentService)

	v1.POST("/expected-payments", h.createExpectedPayment)
}

func registerReportRoutes(v1 *gin.RouterGroup, reportingService portssvc.ReportingSvcFacade) {
	h := newReportingHandler(reportingService)

	reports := v1.Group("/reports")
	{
		reports.GET("/match-rate", h.matchRate)
		reports.GET("/aging", h.unmatchedAging)
	}
}
