package models

import "time"

// MatchStatus mirrors the domain ledger status values in the database.
type MatchStatus string

const (
	MatchActive   MatchStatus = "ACTIVE"
	MatchReversed MatchStatus = "REVERSED"
)

// ReconciliationMatch is the persisted ledger row. Partial unique indexes on
// (transaction_id) and (expected_payment_id) where status = ACTIVE enforce
// the bijective invariant at the database level.
type ReconciliationMatch struct {
	MatchID           string      `json:"matchID"` // Primary Key (UUID)
	TransactionID     string      `json:"transactionID"`
	ExpectedPaymentID string      `json:"expectedPaymentID"`
	Score             float64     `json:"score"`
	Reasons           []string    `json:"reasons"`
	DecidedBy         string      `json:"decidedBy"` // AUTOMATIC or MANUAL
	DecidedAt         time.Time   `json:"decidedAt"`
	Status            MatchStatus `json:"status"`
	ReversalReason    *string     `json:"reversalReason,omitempty"`
	AuditFields
}

// ReconciliationRun is the persisted summary of one reconciliation pass.
type ReconciliationRun struct {
	RunID        string    `json:"runID"` // Primary Key (UUID)
	CompanyID    string    `json:"companyID"`
	AccountIBAN  string    `json:"accountIBAN"`
	Transactions int       `json:"transactions"`
	Accepted     int       `json:"accepted"`
	Suggested    int       `json:"suggested"`
	Unmatched    int       `json:"unmatched"`
	RanAt        time.Time `json:"ranAt"`
	AuditFields
}
