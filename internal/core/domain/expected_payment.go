package domain

import "time"

// ExpectedPaymentStatus indicates the collection state of an expected payment.
type ExpectedPaymentStatus string

const (
	PaymentPending   ExpectedPaymentStatus = "PENDING"
	PaymentMatched   ExpectedPaymentStatus = "MATCHED"
	PaymentOverdue   ExpectedPaymentStatus = "OVERDUE"
	PaymentCancelled ExpectedPaymentStatus = "CANCELLED"
)

// IsOpen reports whether the payment can still be satisfied by a statement entry.
func (s ExpectedPaymentStatus) IsOpen() bool {
	return s == PaymentPending || s == PaymentOverdue
}

// ExpectedPayment is a rent or fee collection anticipated from a tenant under
// a contract for one billing period. Owned by the persistence collaborator;
// the engine reads it and writes back only Status and MatchedTransactionID.
type ExpectedPayment struct {
	ExpectedPaymentID        string                `json:"expectedPaymentID"` // Primary Key (UUID)
	CompanyID                string                `json:"companyID"`
	TenantID                 string                `json:"tenantID"`
	ContractID               string                `json:"contractID"`
	AccountIBAN              string                `json:"accountIBAN"` // Collection account scope
	ExpectedAmountMinorUnits int64                 `json:"expectedAmountMinorUnits"`
	DueDate                  time.Time             `json:"dueDate"`
	PeriodStart              time.Time             `json:"periodStart"` // Billing period, may be zero
	PeriodEnd                time.Time             `json:"periodEnd"`
	PayerNameHint            string                `json:"payerNameHint"` // Tenant's registered name
	ReferenceHint            string                `json:"referenceHint"` // Contract/unit code
	Status                   ExpectedPaymentStatus `json:"status"`
	MatchedTransactionID     *string               `json:"matchedTransactionID,omitempty"`
	AuditFields
}
