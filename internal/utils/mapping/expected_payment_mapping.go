package mapping

import (
	"time"

	"github.com/dvillagrablanco/inmova-reconciliation/internal/core/domain"
	"github.com/dvillagrablanco/inmova-reconciliation/internal/models"
)

// ToModelExpectedPayment converts a domain ExpectedPayment to its persisted form
func ToModelExpectedPayment(d domain.ExpectedPayment) models.ExpectedPayment {
	var periodStart, periodEnd *time.Time
	if !d.PeriodStart.IsZero() {
		start := d.PeriodStart
		periodStart = &start
	}
	if !d.PeriodEnd.IsZero() {
		end := d.PeriodEnd
		periodEnd = &end
	}
	return models.ExpectedPayment{
		ExpectedPaymentID:        d.ExpectedPaymentID,
		CompanyID:                d.CompanyID,
		TenantID:                 d.TenantID,
		ContractID:               d.ContractID,
		AccountIBAN:              d.AccountIBAN,
		ExpectedAmountMinorUnits: d.ExpectedAmountMinorUnits,
		DueDate:                  d.DueDate,
		PeriodStart:              periodStart,
		PeriodEnd:                periodEnd,
		PayerNameHint:            d.PayerNameHint,
		ReferenceHint:            d.ReferenceHint,
		Status:                   models.ExpectedPaymentStatus(d.Status),
		MatchedTransactionID:     d.MatchedTransactionID,
		AuditFields:              ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainExpectedPayment converts a persisted ExpectedPayment row to the domain form
func ToDomainExpectedPayment(m models.ExpectedPayment) domain.ExpectedPayment {
	var periodStart, periodEnd time.Time
	if m.PeriodStart != nil {
		periodStart = *m.PeriodStart
	}
	if m.PeriodEnd != nil {
		periodEnd = *m.PeriodEnd
	}
	return domain.ExpectedPayment{
		ExpectedPaymentID:        m.ExpectedPaymentID,
		CompanyID:                m.CompanyID,
		TenantID:                 m.TenantID,
		ContractID:               m.ContractID,
		AccountIBAN:              m.AccountIBAN,
		ExpectedAmountMinorUnits: m.ExpectedAmountMinorUnits,
		DueDate:                  m.DueDate,
		PeriodStart:              periodStart,
		PeriodEnd:                periodEnd,
		PayerNameHint:            m.PayerNameHint,
		ReferenceHint:            m.ReferenceHint,
		Status:                   domain.ExpectedPaymentStatus(m.Status),
		MatchedTransactionID:     m.MatchedTransactionID,
		AuditFields:              ToDomainAuditFields(m.AuditFields),
	}
}
