package mapping

import (
	"github.com/dvillagrablanco/inmova-reconciliation/internal/core/domain"
	"github.com/dvillagrablanco/inmova-reconciliation/internal/models"
)

// ToModelStatementTransaction converts a canonical transaction to its persisted form
func ToModelStatementTransaction(companyID string, d domain.CanonicalTransaction) models.StatementTransaction {
	return models.StatementTransaction{
		TransactionID:       d.TransactionID,
		CompanyID:           companyID,
		IdentityKey:         d.IdentityKey(),
		AccountIBAN:         d.AccountIBAN,
		BookingDate:         d.BookingDate,
		ValueDate:           d.ValueDate,
		AmountMinorUnits:    d.AmountMinorUnits,
		CounterpartyName:    d.CounterpartyName,
		RemittanceInfo:      d.RemittanceInfo,
		RawSequenceNumber:   d.RawSequenceNumber,
		NormalizedPayerName: d.NormalizedPayerName,
		NormalizedReference: d.NormalizedReference,
		AmountMajorUnits:    d.AmountMajorUnits,
		AuditFields:         ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCanonicalTransaction converts a persisted statement row back to the domain form
func ToDomainCanonicalTransaction(m models.StatementTransaction) domain.CanonicalTransaction {
	return domain.CanonicalTransaction{
		RawTransaction: domain.RawTransaction{
			TransactionID:     m.TransactionID,
			AccountIBAN:       m.AccountIBAN,
			BookingDate:       m.BookingDate,
			ValueDate:         m.ValueDate,
			AmountMinorUnits:  m.AmountMinorUnits,
			CounterpartyName:  m.CounterpartyName,
			RemittanceInfo:    m.RemittanceInfo,
			RawSequenceNumber: m.RawSequenceNumber,
			AuditFields:       ToDomainAuditFields(m.AuditFields),
		},
		NormalizedPayerName: m.NormalizedPayerName,
		NormalizedReference: m.NormalizedReference,
		AmountMajorUnits:    m.AmountMajorUnits,
	}
}
