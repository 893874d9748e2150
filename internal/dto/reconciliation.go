package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/dvillagrablanco/inmova-reconciliation/internal/core/domain"
	"github.com/dvillagrablanco/inmova-reconciliation/internal/utils/mapping"
)

// RunReconciliationRequest defines data for triggering one reconciliation pass.
type RunReconciliationRequest struct {
	CompanyID   string `json:"companyID" binding:"required"`
	AccountIBAN string `json:"accountIBAN" binding:"required"`
}

// CommitMatchRequest defines data for a manual match confirmation.
type CommitMatchRequest struct {
	CompanyID         string   `json:"companyID" binding:"required"`
	TransactionID     string   `json:"transactionID" binding:"required"`
	ExpectedPaymentID string   `json:"expectedPaymentID" binding:"required"`
	Score             *float64 `json:"score,omitempty" binding:"omitempty,min=0,max=1"`
}

// UnmatchRequest defines data for reversing a match. The reason is mandatory
// so the ledger row carries an audit trail.
type UnmatchRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// TransactionResponse defines the data returned for an imported transaction.
type TransactionResponse struct {
	TransactionID    string          `json:"transactionID"`
	AccountIBAN      string          `json:"accountIBAN"`
	BookingDate      time.Time       `json:"bookingDate"`
	ValueDate        time.Time       `json:"valueDate"`
	Amount           decimal.Decimal `json:"amount"`
	AmountMinorUnits int64           `json:"amountMinorUnits"`
	CounterpartyName string          `json:"counterpartyName"`
	RemittanceInfo   string          `json:"remittanceInfo"`
}

// MatchResponse defines the data returned for a ledger row.
type MatchResponse struct {
	MatchID           string    `json:"matchID"`
	TransactionID     string    `json:"transactionID"`
	ExpectedPaymentID string    `json:"expectedPaymentID"`
	Score             float64   `json:"score"`
	Reasons           []string  `json:"reasons"`
	DecidedBy         string    `json:"decidedBy"`
	DecidedAt         time.Time `json:"decidedAt"`
	Status            string    `json:"status"`
	ReversalReason    string    `json:"reversalReason,omitempty"`
}

// CandidateResponse defines the data returned for a scored candidate pairing.
type CandidateResponse struct {
	TransactionID     string   `json:"transactionID"`
	ExpectedPaymentID string   `json:"expectedPaymentID"`
	Score             float64  `json:"score"`
	Reasons           []string `json:"reasons"`
}

// UnmatchedEntryResponse defines an unmatched credit with its best suggestion.
type UnmatchedEntryResponse struct {
	Transaction   TransactionResponse `json:"transaction"`
	BestCandidate *CandidateResponse  `json:"bestCandidate,omitempty"`
}

// ReconciliationRunResponse defines the outcome of one reconciliation pass.
type ReconciliationRunResponse struct {
	RunID     string                   `json:"runID"`
	Accepted  []MatchResponse          `json:"accepted"`
	Suggested []CandidateResponse      `json:"suggested"`
	Unmatched []UnmatchedEntryResponse `json:"unmatched"`
}

// ExplanationResponse defines the audit view for one transaction.
type ExplanationResponse struct {
	TransactionID string   `json:"transactionID"`
	Outcome       string   `json:"outcome"`
	Score         *float64 `json:"score,omitempty"`
	Reasons       []string `json:"reasons,omitempty"`
	DecidedBy     *string  `json:"decidedBy,omitempty"`
}

// ToTransactionResponse converts a domain.CanonicalTransaction to its DTO.
func ToTransactionResponse(t *domain.CanonicalTransaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:    t.TransactionID,
		AccountIBAN:      t.AccountIBAN,
		BookingDate:      t.BookingDate,
		ValueDate:        t.ValueDate,
		Amount:           t.AmountMajorUnits,
		AmountMinorUnits: t.AmountMinorUnits,
		CounterpartyName: t.CounterpartyName,
		RemittanceInfo:   t.RemittanceInfo,
	}
}

// ToMatchResponse converts a domain.ReconciliationMatch to its DTO.
func ToMatchResponse(m *domain.ReconciliationMatch) MatchResponse {
	return MatchResponse{
		MatchID:           m.MatchID,
		TransactionID:     m.TransactionID,
		ExpectedPaymentID: m.ExpectedPaymentID,
		Score:             m.Score,
		Reasons:           mapping.ReasonsToStrings(m.Reasons),
		DecidedBy:         string(m.DecidedBy),
		DecidedAt:         m.DecidedAt,
		Status:            string(m.Status),
		ReversalReason:    m.ReversalReason,
	}
}

// ToCandidateResponse converts a domain.MatchCandidate to its DTO.
func ToCandidateResponse(c *domain.MatchCandidate) CandidateResponse {
	return CandidateResponse{
		TransactionID:     c.Transaction.TransactionID,
		ExpectedPaymentID: c.Payment.ExpectedPaymentID,
		Score:             c.Score,
		Reasons:           mapping.ReasonsToStrings(c.Reasons),
	}
}

// ToUnmatchedEntryResponse converts a domain.UnmatchedEntry to its DTO.
func ToUnmatchedEntryResponse(e *domain.UnmatchedEntry) UnmatchedEntryResponse {
	resp := UnmatchedEntryResponse{
		Transaction: ToTransactionResponse(&e.Transaction),
	}
	if e.BestCandidate != nil {
		candidate := ToCandidateResponse(e.BestCandidate)
		resp.BestCandidate = &candidate
	}
	return resp
}

// ToUnmatchedEntryResponses converts a slice of unmatched entries.
func ToUnmatchedEntryResponses(entries []domain.UnmatchedEntry) []UnmatchedEntryResponse {
	responses := make([]UnmatchedEntryResponse, len(entries))
	for i := range entries {
		responses[i] = ToUnmatchedEntryResponse(&entries[i])
	}
	return responses
}

// ToReconciliationRunResponse converts a domain.ReconciliationResult to its DTO.
func ToReconciliationRunResponse(r *domain.ReconciliationResult) ReconciliationRunResponse {
	accepted := make([]MatchResponse, len(r.Accepted))
	for i := range r.Accepted {
		accepted[i] = ToMatchResponse(&r.Accepted[i])
	}
	suggested := make([]CandidateResponse, len(r.Suggested))
	for i := range r.Suggested {
		suggested[i] = ToCandidateResponse(&r.Suggested[i])
	}
	return ReconciliationRunResponse{
		RunID:     r.RunID,
		Accepted:  accepted,
		Suggested: suggested,
		Unmatched: ToUnmatchedEntryResponses(r.Unmatched),
	}
}

// ToExplanationResponse converts a domain.MatchExplanation to its DTO.
func ToExplanationResponse(e *domain.MatchExplanation) ExplanationResponse {
	resp := ExplanationResponse{
		TransactionID: e.TransactionID,
		Outcome:       e.Outcome,
		Score:         e.Score,
		Reasons:       mapping.ReasonsToStrings(e.Reasons),
	}
	if e.DecidedBy != nil {
		decidedBy := string(*e.DecidedBy)
		resp.DecidedBy = &decidedBy
	}
	return resp
}
