package ports

import (
	"context"

	"github.com/minutehire/auth-gateway/internal/core/domain"
)

// PaymentGateway queries the payment provider for a transaction's status.
type PaymentGateway interface {
	CheckStatus(ctx context.Context, transactionID string) (*domain.PaymentStatus, error)
}

// OrderRepository persists completed orders.
type OrderRepository interface {
	// Upsert writes the order keyed by transaction id.
	Upsert(ctx context.Context, order *domain.Order) (*domain.Order, error)
	FindByTransactionID(ctx context.Context, transactionID string) (*domain.Order, error)
}

// PaymentDedup suppresses replays of an already handled webhook.
type PaymentDedup interface {
	IsDuplicate(ctx context.Context, transactionID string, state domain.PaymentState) (bool, error)
	Mark(ctx context.Context, transactionID string, state domain.PaymentState) error
}

// WebhookInput is the payment webhook payload.
type WebhookInput struct {
	TransactionID string
	UserID        string

	// ClaimedAmountPaise is the amount the notification reports. Zero when absent.
	ClaimedAmountPaise int64
}

// PaymentService verifies transactions and records completed orders.
type PaymentService interface {
	HandleWebhook(ctx context.Context, in WebhookInput) (*domain.Order, error)
	GetOrder(ctx context.Context, transactionID string) (*domain.Order, error)
}
