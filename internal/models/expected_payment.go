package models

import "time"

// ExpectedPaymentStatus mirrors the domain status values in the database.
type ExpectedPaymentStatus string

const (
	PaymentPending   ExpectedPaymentStatus = "PENDING"
	PaymentMatched   ExpectedPaymentStatus = "MATCHED"
	PaymentOverdue   ExpectedPaymentStatus = "OVERDUE"
	PaymentCancelled ExpectedPaymentStatus = "CANCELLED"
)

// ExpectedPayment is the persisted expected rent/fee collection row.
type ExpectedPayment struct {
	ExpectedPaymentID        string                `json:"expectedPaymentID"` // Primary Key (UUID)
	CompanyID                string                `json:"companyID"`
	TenantID                 string                `json:"tenantID"`
	ContractID               string                `json:"contractID"`
	AccountIBAN              string                `json:"accountIBAN"` // Collection account scope
	ExpectedAmountMinorUnits int64                 `json:"expectedAmountMinorUnits"`
	DueDate                  time.Time             `json:"dueDate"`
	PeriodStart              *time.Time            `json:"periodStart,omitempty"`
	PeriodEnd                *time.Time            `json:"periodEnd,omitempty"`
	PayerNameHint            string                `json:"payerNameHint"`
	ReferenceHint            string                `json:"referenceHint"`
	Status                   ExpectedPaymentStatus `json:"status"`
	MatchedTransactionID     *string               `json:"matchedTransactionID,omitempty"`
	AuditFields
}
