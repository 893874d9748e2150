package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// StatementFormat identifies a supported legacy bank statement format.
type StatementFormat string

const (
	// FormatNorma43 is the Spanish AEB Cuaderno 43 fixed-width format.
	FormatNorma43 StatementFormat = "NORMA43"
	// FormatCamt053 is the ISO 20022 camt.053 XML bank-to-customer statement.
	FormatCamt053 StatementFormat = "CAMT053"
)

// RawTransaction is one statement line as produced by a parser.
// Immutable once parsed; identified by IdentityKey for idempotent re-import.
type RawTransaction struct {
	TransactionID     string    `json:"transactionID"` // Primary Key (UUID, assigned at import)
	AccountIBAN       string    `json:"accountIBAN"`
	BookingDate       time.Time `json:"bookingDate"`
	ValueDate         time.Time `json:"valueDate"`
	AmountMinorUnits  int64     `json:"amountMinorUnits"` // Signed cents; credit positive, debit negative
	CounterpartyName  string    `json:"counterpartyName"` // Free text, may be empty
	RemittanceInfo    string    `json:"remittanceInfo"`   // Free text concept/reference
	RawSequenceNumber int       `json:"rawSequenceNumber"`
	AuditFields
}

// IdentityKey returns the stable dedup key for this statement line.
// Re-parsing byte-identical input yields the same key, so a re-import
// of the same file never creates duplicate rows.
func (t RawTransaction) IdentityKey() string {
	return fmt.Sprintf("%s|%s|%d|%d",
		t.AccountIBAN, t.BookingDate.UTC().Format("2006-01-02"), t.AmountMinorUnits, t.RawSequenceNumber)
}

// IsCredit reports whether the line is an incoming payment.
func (t RawTransaction) IsCredit() bool {
	return t.AmountMinorUnits > 0
}

// CanonicalTransaction is a RawTransaction enriched by the normalizer for
// comparison. One-to-one with its RawTransaction, never mutated after creation.
type CanonicalTransaction struct {
	RawTransaction
	NormalizedPayerName string          `json:"normalizedPayerName"`
	NormalizedReference string          `json:"normalizedReference"`
	AmountMajorUnits    decimal.Decimal `json:"amountMajorUnits"`
}
