package services

import (
	"sort"
	"strings"
	"time"

	"github.com/dvillagrablanco/inmova-reconciliation/internal/core/domain"
	"github.com/dvillagrablanco/inmova-reconciliation/internal/normalizer"
)

// MatchingConfig holds the tunable weights, thresholds and tolerances of the
// matching engine. Production values come from configuration; the weights are
// deliberately not hard-coded into the scoring path.
type MatchingConfig struct {
	AmountWeight    float64
	NameWeight      float64
	ReferenceWeight float64
	DateWeight      float64

	// AutoAcceptThreshold and above is committed without human review;
	// SuggestThreshold and above is surfaced for manual review; anything
	// lower is discarded.
	AutoAcceptThreshold float64
	SuggestThreshold    float64

	// AmountToleranceCents is the band around the expected amount inside
	// which candidates are generated at all, absorbing bank rounding.
	AmountToleranceCents int64

	// DateGraceDays extends the billing period on both sides with full date
	// credit; beyond it the date score decays linearly, reaching zero at
	// DateOuterBoundDays past the period.
	DateGraceDays      int
	DateOuterBoundDays int
}

// DefaultMatchingConfig returns the engine defaults.
func DefaultMatchingConfig() MatchingConfig {
	return MatchingConfig{
		AmountWeight:         0.4,
		NameWeight:           0.3,
		ReferenceWeight:      0.2,
		DateWeight:           0.1,
		AutoAcceptThreshold:  0.85,
		SuggestThreshold:     0.5,
		AmountToleranceCents: 10,
		DateGraceDays:        5,
		DateOuterBoundDays:   30,
	}
}

// MatchOutcome is the decision set of one pure matching pass. The engine
// never mutates expected-payment state; the ledger applies accepted
// decisions transactionally.
type MatchOutcome struct {
	Accepted  []domain.MatchCandidate
	Suggested []domain.MatchCandidate
	Unmatched []domain.UnmatchedEntry
}

// MatchBatch produces a conflict-free assignment of credit transactions to
// open expected payments: candidate generation within the amount tolerance
// band, weighted scoring, then greedy bipartite assignment in descending
// score order. Deterministic for identical inputs; ties break by earliest
// due date, then booking date, then stable identifiers.
func MatchBatch(transactions []domain.CanonicalTransaction, payments []domain.ExpectedPayment, cfg MatchingConfig) MatchOutcome {
	candidates := make([]domain.MatchCandidate, 0)
	for _, txn := range transactions {
		// Only credits can satisfy an expected payment.
		if !txn.IsCredit() {
			continue
		}
		for _, payment := range payments {
			if !payment.Status.IsOpen() {
				continue
			}
			if absDiff(txn.AmountMinorUnits, payment.ExpectedAmountMinorUnits) > cfg.AmountToleranceCents {
				continue
			}
			candidate := scoreCandidate(txn, payment, cfg)
			if candidate.Score >= cfg.SuggestThreshold {
				candidates = append(candidates, candidate)
			}
		}
	}

	sortCandidates(candidates)

	// Greedy assignment: the sort order above makes the pass deterministic
	// even if candidate generation ever runs in parallel.
	consumedTxns := make(map[string]bool)
	consumedPayments := make(map[string]bool)
	suggestionByTxn := make(map[string]domain.MatchCandidate)

	var outcome MatchOutcome
	for _, c := range candidates {
		if consumedTxns[c.Transaction.TransactionID] || consumedPayments[c.Payment.ExpectedPaymentID] {
			continue
		}
		consumedTxns[c.Transaction.TransactionID] = true
		consumedPayments[c.Payment.ExpectedPaymentID] = true
		if c.Score >= cfg.AutoAcceptThreshold {
			outcome.Accepted = append(outcome.Accepted, c)
		} else {
			outcome.Suggested = append(outcome.Suggested, c)
			suggestionByTxn[c.Transaction.TransactionID] = c
		}
	}

	accepted := make(map[string]bool, len(outcome.Accepted))
	for _, c := range outcome.Accepted {
		accepted[c.Transaction.TransactionID] = true
	}
	for _, txn := range transactions {
		if !txn.IsCredit() || accepted[txn.TransactionID] {
			continue
		}
		entry := domain.UnmatchedEntry{Transaction: txn}
		if suggestion, ok := suggestionByTxn[txn.TransactionID]; ok {
			entry.BestCandidate = &suggestion
		}
		outcome.Unmatched = append(outcome.Unmatched, entry)
	}
	sort.SliceStable(outcome.Unmatched, func(i, j int) bool {
		a, b := outcome.Unmatched[i].Transaction, outcome.Unmatched[j].Transaction
		if !a.BookingDate.Equal(b.BookingDate) {
			return a.BookingDate.Before(b.BookingDate)
		}
		if a.RawSequenceNumber != b.RawSequenceNumber {
			return a.RawSequenceNumber < b.RawSequenceNumber
		}
		return a.TransactionID < b.TransactionID
	})

	return outcome
}

// scoreCandidate computes the weighted sum of the four signals, each in [0,1].
func scoreCandidate(txn domain.CanonicalTransaction, payment domain.ExpectedPayment, cfg MatchingConfig) domain.MatchCandidate {
	var reasons []domain.MatchReason

	diff := absDiff(txn.AmountMinorUnits, payment.ExpectedAmountMinorUnits)
	var amountScore float64
	if diff == 0 {
		amountScore = 1
		reasons = append(reasons, domain.ReasonExactAmount)
	} else {
		amountScore = 1 - float64(diff)/float64(cfg.AmountToleranceCents+1)
		reasons = append(reasons, domain.ReasonAmountTolerance)
	}

	nameScore := normalizer.TokenOverlap(txn.NormalizedPayerName, normalizer.NormalizeName(payment.PayerNameHint))
	if nameScore >= 0.5 {
		reasons = append(reasons, domain.ReasonNameSimilarity)
	}

	refScore := referenceScore(txn, payment)
	if refScore > 0 {
		reasons = append(reasons, domain.ReasonReferenceMatch)
	}

	dateScore := dateProximityScore(txn.BookingDate, payment, cfg)
	if dateScore > 0 {
		reasons = append(reasons, domain.ReasonDateProximity)
	}

	score := cfg.AmountWeight*amountScore +
		cfg.NameWeight*nameScore +
		cfg.ReferenceWeight*refScore +
		cfg.DateWeight*dateScore

	return domain.MatchCandidate{
		Transaction: txn,
		Payment:     payment,
		Score:       score,
		Reasons:     reasons,
	}
}

// referenceScore gives full credit when the remittance concept carries the
// contract/unit code. Hyphenated codes are compared in compacted form so
// "C-0042" is found inside "ALQUILER C-0042 MARZO".
func referenceScore(txn domain.CanonicalTransaction, payment domain.ExpectedPayment) float64 {
	hint := normalizer.CompactAlphanumeric(payment.ReferenceHint)
	if hint == "" {
		return 0
	}
	remittance := normalizer.CompactAlphanumeric(txn.RemittanceInfo)
	if remittance == "" {
		remittance = txn.NormalizedReference
	}
	if strings.Contains(remittance, hint) || strings.Contains(txn.NormalizedReference, hint) {
		return 1
	}
	return 0
}

// dateProximityScore gives full credit inside the billing period extended by
// the grace window, then decays linearly to zero at the outer bound. When
// the payment has no explicit period, the due date stands in for it.
func dateProximityScore(booking time.Time, payment domain.ExpectedPayment, cfg MatchingConfig) float64 {
	start, end := payment.PeriodStart, payment.PeriodEnd
	if start.IsZero() || end.IsZero() {
		start, end = payment.DueDate, payment.DueDate
	}
	grace := time.Duration(cfg.DateGraceDays) * 24 * time.Hour
	windowStart := start.Add(-grace)
	windowEnd := end.Add(grace)

	if !booking.Before(windowStart) && !booking.After(windowEnd) {
		return 1
	}

	var daysOutside float64
	if booking.Before(windowStart) {
		daysOutside = windowStart.Sub(booking).Hours() / 24
	} else {
		daysOutside = booking.Sub(windowEnd).Hours() / 24
	}
	decayDays := float64(cfg.DateOuterBoundDays - cfg.DateGraceDays)
	if decayDays <= 0 {
		return 0
	}
	score := 1 - daysOutside/decayDays
	if score < 0 {
		return 0
	}
	return score
}

// sortCandidates orders by score descending, then the audit-friendly
// tie-breaks that guarantee deterministic assignment for identical input.
func sortCandidates(candidates []domain.MatchCandidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if !a.Payment.DueDate.Equal(b.Payment.DueDate) {
			return a.Payment.DueDate.Before(b.Payment.DueDate)
		}
		if !a.Transaction.BookingDate.Equal(b.Transaction.BookingDate) {
			return a.Transaction.BookingDate.Before(b.Transaction.BookingDate)
		}
		if a.Payment.ExpectedPaymentID != b.Payment.ExpectedPaymentID {
			return a.Payment.ExpectedPaymentID < b.Payment.ExpectedPaymentID
		}
		return a.Transaction.TransactionID < b.Transaction.TransactionID
	})
}

func absDiff(a, b int64) int64 {
	if a > b {
		return a - b
	}
	return b - a
}
