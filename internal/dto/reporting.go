package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/dvillagrablanco/inmova-reconciliation/internal/core/domain"
)

// MatchRateResponse defines the match-rate projection for one account/period.
type MatchRateResponse struct {
	AccountIBAN string          `json:"accountIBAN"`
	PeriodStart time.Time       `json:"periodStart"`
	PeriodEnd   time.Time       `json:"periodEnd"`
	Eligible    int             `json:"eligible"`
	Matched     int             `json:"matched"`
	MatchRate   decimal.Decimal `json:"matchRate"`
}

// AgingBucketResponse defines one unmatched-aging bucket.
type AgingBucketResponse struct {
	Label   string `json:"label"`
	MinDays int    `json:"minDays"`
	MaxDays int    `json:"maxDays"`
	Count   int    `json:"count"`
}

// ToMatchRateResponse converts a domain.MatchRateReport to its DTO.
func ToMatchRateResponse(r *domain.MatchRateReport) MatchRateResponse {
	return MatchRateResponse{
		AccountIBAN: r.AccountIBAN,
		PeriodStart: r.PeriodStart,
		PeriodEnd:   r.PeriodEnd,
		Eligible:    r.Eligible,
		Matched:     r.Matched,
		MatchRate:   r.MatchRate,
	}
}

// ToAgingBucketResponses converts domain aging buckets to DTOs.
func ToAgingBucketResponses(buckets []domain.AgingBucket) []AgingBucketResponse {
	responses := make([]AgingBucketResponse, len(buckets))
	for i, b := range buckets {
		responses[i] = AgingBucketResponse{
			Label:   b.Label,
			MinDays: b.MinDays,
			MaxDays: b.MaxDays,
			Count:   b.Count,
		}
	}
	return responses
}
