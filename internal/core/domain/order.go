package domain

import "time"

// PaymentState is the state PhonePe reports for a transaction.
type PaymentState string

const (
	PaymentCompleted PaymentState = "COMPLETED"
	PaymentPending   PaymentState = "PENDING"
	PaymentFailed    PaymentState = "FAILED"
)

// Order records a payment that PhonePe confirmed as completed.
type Order struct {
	ID            string       `json:"id"`
	TransactionID string       `json:"transaction_id"`
	MerchantID    string       `json:"merchant_id"`
	UserID        string       `json:"user_id,omitempty"`
	AmountPaise   int64        `json:"amount_paise"`
	State         PaymentState `json:"state"`
	PaymentMethod string       `json:"payment_method,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// PaymentStatus is the verified status of a transaction.
type PaymentStatus struct {
	TransactionID string
	MerchantID    string
	State         PaymentState
	AmountPaise   int64
	PaymentMethod string
	ResponseCode  string
}
