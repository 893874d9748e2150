package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ParseReport summarizes one statement file parse: how many lines were
// accepted, how many skipped, and why.
type ParseReport struct {
	Format        StatementFormat `json:"format"`
	Accepted      int             `json:"accepted"`
	Rejected      int             `json:"rejected"`
	RejectReasons []string        `json:"rejectReasons,omitempty"`
	// Statement-level balances when the format carries them.
	OpeningBalanceMinorUnits *int64 `json:"openingBalanceMinorUnits,omitempty"`
	ClosingBalanceMinorUnits *int64 `json:"closingBalanceMinorUnits,omitempty"`
}

// ImportReport extends a ParseReport with dedup results from persisting.
type ImportReport struct {
	ParseReport
	Imported   int `json:"imported"`
	Duplicates int `json:"duplicates"`
}

// ReconciliationResult is the outcome of one reconciliation pass.
type ReconciliationResult struct {
	RunID     string                `json:"runID"`
	CompanyID string                `json:"companyID"`
	Accepted  []ReconciliationMatch `json:"accepted"`
	Suggested []MatchCandidate      `json:"suggested"`
	Unmatched []UnmatchedEntry      `json:"unmatched"`
}

// ReconciliationRun is the persisted summary row of one pass.
type ReconciliationRun struct {
	RunID        string    `json:"runID"`
	CompanyID    string    `json:"companyID"`
	AccountIBAN  string    `json:"accountIBAN"`
	Transactions int       `json:"transactions"`
	Accepted     int       `json:"accepted"`
	Suggested    int       `json:"suggested"`
	Unmatched    int       `json:"unmatched"`
	RanAt        time.Time `json:"ranAt"`
	AuditFields
}

// MatchRateReport is the matched/eligible ratio for one account and period.
type MatchRateReport struct {
	AccountIBAN  string          `json:"accountIBAN"`
	PeriodStart  time.Time       `json:"periodStart"`
	PeriodEnd    time.Time       `json:"periodEnd"`
	Eligible     int             `json:"eligible"` // Credit transactions in period
	Matched      int             `json:"matched"`
	MatchRate    decimal.Decimal `json:"matchRate"` // matched / eligible, 0 when no eligible entries
}

// AgingBucket counts unmatched entries by age since booking date.
type AgingBucket struct {
	Label   string `json:"label"` // e.g. "0-7d"
	MinDays int    `json:"minDays"`
	MaxDays int    `json:"maxDays"` // -1 for open-ended
	Count   int    `json:"count"`
}

// MatchExplanation is the audit view for one transaction: either its accepted
// match, its best suggestion, or "no candidate found". Never silently empty.
type MatchExplanation struct {
	TransactionID string        `json:"transactionID"`
	Outcome       string        `json:"outcome"` // "accepted", "suggested" or "no_candidate"
	Score         *float64      `json:"score,omitempty"`
	Reasons       []MatchReason `json:"reasons,omitempty"`
	DecidedBy     *MatchDecider `json:"decidedBy,omitempty"`
}
