package mapping

import (
	"github.com/dvillagrablanco/inmova-reconciliation/internal/core/domain"
	"github.com/dvillagrablanco/inmova-reconciliation/internal/models"
)

// ToModelMatch converts a domain ReconciliationMatch to a model ReconciliationMatch
func ToModelMatch(d domain.ReconciliationMatch) models.ReconciliationMatch {
	var reversalReason *string
	if d.ReversalReason != "" {
		reason := d.ReversalReason
		reversalReason = &reason
	}
	return models.ReconciliationMatch{
		MatchID:           d.MatchID,
		TransactionID:     d.TransactionID,
		ExpectedPaymentID: d.ExpectedPaymentID,
		Score:             d.Score,
		Reasons:           ReasonsToStrings(d.Reasons),
		DecidedBy:         string(d.DecidedBy),
		DecidedAt:         d.DecidedAt,
		Status:            models.MatchStatus(d.Status),
		ReversalReason:    reversalReason,
		AuditFields:       ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainMatch converts a model ReconciliationMatch to a domain ReconciliationMatch
func ToDomainMatch(m models.ReconciliationMatch) domain.ReconciliationMatch {
	reversalReason := ""
	if m.ReversalReason != nil {
		reversalReason = *m.ReversalReason
	}
	return domain.ReconciliationMatch{
		MatchID:           m.MatchID,
		TransactionID:     m.TransactionID,
		ExpectedPaymentID: m.ExpectedPaymentID,
		Score:             m.Score,
		Reasons:           ReasonsFromStrings(m.Reasons),
		DecidedBy:         domain.MatchDecider(m.DecidedBy),
		DecidedAt:         m.DecidedAt,
		Status:            domain.MatchStatus(m.Status),
		ReversalReason:    reversalReason,
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelRun converts a domain ReconciliationRun to a model ReconciliationRun
func ToModelRun(d domain.ReconciliationRun) models.ReconciliationRun {
	return models.ReconciliationRun{
		RunID:        d.RunID,
		CompanyID:    d.CompanyID,
		AccountIBAN:  d.AccountIBAN,
		Transactions: d.Transactions,
		Accepted:     d.Accepted,
		Suggested:    d.Suggested,
		Unmatched:    d.Unmatched,
		RanAt:        d.RanAt,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ReasonsToStrings flattens match reasons for storage in a text[] column
func ReasonsToStrings(reasons []domain.MatchReason) []string {
	out := make([]string, len(reasons))
	for i, r := range reasons {
		out[i] = string(r)
	}
	return out
}

// ReasonsFromStrings rebuilds match reasons from their stored form
func ReasonsFromStrings(reasons []string) []domain.MatchReason {
	out := make([]domain.MatchReason, len(reasons))
	for i, r := range reasons {
		out[i] = domain.MatchReason(r)
	}
	return out
}
