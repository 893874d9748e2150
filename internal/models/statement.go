package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// StatementTransaction is the persisted form of an imported statement line:
// the raw parser output plus the normalizer's canonical columns, and the best
// suggestion stored after the last reconciliation pass.
type StatementTransaction struct {
	TransactionID     string    `json:"transactionID"` // Primary Key (UUID)
	CompanyID         string    `json:"companyID"`
	IdentityKey       string    `json:"identityKey"` // Unique per company; dedup on re-import
	AccountIBAN       string    `json:"accountIBAN"`
	BookingDate       time.Time `json:"bookingDate"`
	ValueDate         time.Time `json:"valueDate"`
	AmountMinorUnits  int64     `json:"amountMinorUnits"`
	CounterpartyName  string    `json:"counterpartyName"`
	RemittanceInfo    string    `json:"remittanceInfo"`
	RawSequenceNumber int       `json:"rawSequenceNumber"`

	NormalizedPayerName string          `json:"normalizedPayerName"`
	NormalizedReference string          `json:"normalizedReference"`
	AmountMajorUnits    decimal.Decimal `json:"amountMajorUnits"`

	// Best below-acceptance candidate from the last pass, nullable.
	BestCandidatePaymentID *string  `json:"bestCandidatePaymentID,omitempty"`
	BestCandidateScore     *float64 `json:"bestCandidateScore,omitempty"`
	BestCandidateReasons   []string `json:"bestCandidateReasons,omitempty"`

	AuditFields
}
