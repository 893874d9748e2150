package dto

import (
	"time"

	"github.com/dvillagrablanco/inmova-reconciliation/internal/core/domain"
)

// CreateExpectedPaymentRequest defines data for seeding one anticipated
// collection into the pool.
type CreateExpectedPaymentRequest struct {
	CompanyID                string     `json:"companyID" binding:"required"`
	TenantID                 string     `json:"tenantID" binding:"required"`
	ContractID               string     `json:"contractID" binding:"required"`
	AccountIBAN              string     `json:"accountIBAN" binding:"required"`
	ExpectedAmountMinorUnits int64      `json:"expectedAmountMinorUnits" binding:"required,gt=0"`
	DueDate                  time.Time  `json:"dueDate" binding:"required"`
	PeriodStart              *time.Time `json:"periodStart,omitempty"`
	PeriodEnd                *time.Time `json:"periodEnd,omitempty"`
	PayerNameHint            string     `json:"payerNameHint"`
	ReferenceHint            string     `json:"referenceHint"`
}

// ToExpectedPayment converts the request to its domain representation.
func (r *CreateExpectedPaymentRequest) ToExpectedPayment() domain.ExpectedPayment {
	payment := domain.ExpectedPayment{
		CompanyID:                r.CompanyID,
		TenantID:                 r.TenantID,
		ContractID:               r.ContractID,
		AccountIBAN:              r.AccountIBAN,
		ExpectedAmountMinorUnits: r.ExpectedAmountMinorUnits,
		DueDate:                  r.DueDate,
		PayerNameHint:            r.PayerNameHint,
		ReferenceHint:            r.ReferenceHint,
	}
	if r.PeriodStart != nil {
		payment.PeriodStart = *r.PeriodStart
	}
	if r.PeriodEnd != nil {
		payment.PeriodEnd = *r.PeriodEnd
	}
	return payment
}

// ExpectedPaymentResponse defines the data returned for a pool entry.
type ExpectedPaymentResponse struct {
	ExpectedPaymentID        string    `json:"expectedPaymentID"`
	CompanyID                string    `json:"companyID"`
	TenantID                 string    `json:"tenantID"`
	ContractID               string    `json:"contractID"`
	AccountIBAN              string    `json:"accountIBAN"`
	ExpectedAmountMinorUnits int64     `json:"expectedAmountMinorUnits"`
	DueDate                  time.Time `json:"dueDate"`
	PayerNameHint            string    `json:"payerNameHint,omitempty"`
	ReferenceHint            string    `json:"referenceHint,omitempty"`
	Status                   string    `json:"status"`
}

// ToExpectedPaymentResponse converts a domain.ExpectedPayment to its DTO.
func ToExpectedPaymentResponse(p *domain.ExpectedPayment) ExpectedPaymentResponse {
	return ExpectedPaymentResponse{
		ExpectedPaymentID:        p.ExpectedPaymentID,
		CompanyID:                p.CompanyID,
		TenantID:                 p.TenantID,
		ContractID:               p.ContractID,
		AccountIBAN:              p.AccountIBAN,
		ExpectedAmountMinorUnits: p.ExpectedAmountMinorUnits,
		DueDate:                  p.DueDate,
		PayerNameHint:            p.PayerNameHint,
		ReferenceHint:            p.ReferenceHint,
		Status:                   string(p.Status),
	}
}
