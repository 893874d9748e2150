package domain

import "time"

// MatchReason is one signal that contributed to a candidate's score.
type MatchReason string

const (
	ReasonExactAmount     MatchReason = "EXACT_AMOUNT"
	ReasonAmountTolerance MatchReason = "AMOUNT_WITHIN_TOLERANCE"
	ReasonNameSimilarity  MatchReason = "NAME_SIMILARITY"
	ReasonReferenceMatch  MatchReason = "REFERENCE_MATCH"
	ReasonDateProximity   MatchReason = "DATE_PROXIMITY"
)

// MatchCandidate pairs one statement entry with one expected payment during a
// matching pass. Ephemeral; never persisted except as the best suggestion
// attached to an unmatched entry.
type MatchCandidate struct {
	Transaction CanonicalTransaction `json:"transaction"`
	Payment     ExpectedPayment      `json:"payment"`
	Score       float64              `json:"score"` // 0.0 - 1.0
	Reasons     []MatchReason        `json:"reasons"`
}

// MatchDecider indicates who accepted a match.
type MatchDecider string

const (
	DecidedAutomatic MatchDecider = "AUTOMATIC"
	DecidedManual    MatchDecider = "MANUAL"
)

// MatchStatus indicates whether a ledger entry is still in force.
type MatchStatus string

const (
	MatchActive   MatchStatus = "ACTIVE"
	MatchReversed MatchStatus = "REVERSED"
)

// ReconciliationMatch is the accepted, persisted outcome of matching one
// statement entry to one expected payment. At most one active match may exist
// per TransactionID and per ExpectedPaymentID. Rows are never deleted;
// unmatching marks them REVERSED to keep the audit trail.
type ReconciliationMatch struct {
	MatchID           string        `json:"matchID"` // Primary Key (UUID)
	TransactionID     string        `json:"transactionID"`
	ExpectedPaymentID string        `json:"expectedPaymentID"`
	Score             float64       `json:"score"`
	Reasons           []MatchReason `json:"reasons"`
	DecidedBy         MatchDecider  `json:"decidedBy"`
	DecidedAt         time.Time     `json:"decidedAt"`
	Status            MatchStatus   `json:"status"`
	ReversalReason    string        `json:"reversalReason,omitempty"`
	AuditFields
}

// UnmatchedEntry is a statement entry with no accepted match after a full
// pass. BestCandidate carries the highest-scoring candidate found, if any,
// even when it fell below the acceptance threshold, for human review.
type UnmatchedEntry struct {
	Transaction   CanonicalTransaction `json:"transaction"`
	BestCandidate *MatchCandidate      `json:"bestCandidate,omitempty"`
}
