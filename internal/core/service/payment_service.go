package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/minutehire/auth-gateway/internal/api/metrics"
	"github.com/minutehire/auth-gateway/internal/core/domain"
	"github.com/minutehire/auth-gateway/internal/core/ports"
)

type paymentService struct {
	gateway ports.PaymentGateway
	orders  ports.OrderRepository
	dedup   ports.PaymentDedup
	log     zerolog.Logger
}

// NewPaymentService returns a PaymentService implementation.
func NewPaymentService(
	gateway ports.PaymentGateway,
	orders ports.OrderRepository,
	dedup ports.PaymentDedup,
	log zerolog.Logger,
) ports.PaymentService {
	return &paymentService{gateway: gateway, orders: orders, dedup: dedup, log: log}
}

// HandleWebhook verifies the transaction with the provider and, when it is
// COMPLETED, records the order.
func (s *paymentService) HandleWebhook(ctx context.Context, in ports.WebhookInput) (*domain.Order, error) {
	txn := strings.TrimSpace(in.TransactionID)
	if txn == "" {
		return nil, fmt.Errorf("handle webhook: %w", domain.ErrPaymentNotCompleted)
	}

	// 1. Verify with the provider; the webhook body itself is not trusted.
	status, err := s.gateway.CheckStatus(ctx, txn)
	if err != nil {
		metrics.PaymentWebhooksTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("handle webhook: check status: %w", err)
	}

	if status.State != domain.PaymentCompleted {
		metrics.PaymentWebhooksTotal.WithLabelValues(strings.ToLower(string(status.State))).Inc()
		s.log.Info().Str("transaction_id", txn).Str("state", string(status.State)).Msg("payment not completed")
		return nil, fmt.Errorf("handle webhook: %w (state %s)", domain.ErrPaymentNotCompleted, status.State)
	}

	if in.ClaimedAmountPaise != 0 && in.ClaimedAmountPaise != status.AmountPaise {
		metrics.PaymentWebhooksTotal.WithLabelValues("amount_mismatch").Inc()
		s.log.Warn().
			Str("transaction_id", txn).
			Int64("claimed_paise", in.ClaimedAmountPaise).
			Int64("verified_paise", status.AmountPaise).
			Msg("webhook amount differs from verified amount")
	}

	// 2. Replay check. A failing dedup store only costs an idempotent upsert.
	isDup, err := s.dedup.IsDuplicate(ctx, txn, status.State)
	if err != nil {
		s.log.Warn().Err(err).Str("transaction_id", txn).Msg("dedup check failed, processing anyway")
	} else if isDup {
		metrics.PaymentWebhooksTotal.WithLabelValues("duplicate").Inc()
		s.log.Debug().Str("transaction_id", txn).Msg("duplicate payment webhook skipped")
		return s.orders.FindByTransactionID(ctx, txn)
	}

	// 3. Persist the order.
	now := time.Now().UTC()
	order, err := s.orders.Upsert(ctx, &domain.Order{
		TransactionID: txn,
		MerchantID:    status.MerchantID,
		UserID:        in.UserID,
		AmountPaise:   status.AmountPaise,
		State:         status.State,
		PaymentMethod: status.PaymentMethod,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		metrics.PaymentWebhooksTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("handle webhook: save order: %w", err)
	}

	if err := s.dedup.Mark(ctx, txn, status.State); err != nil {
		s.log.Warn().Err(err).Str("transaction_id", txn).Msg("failed to set dedup key")
	}

	metrics.PaymentWebhooksTotal.WithLabelValues("completed").Inc()
	s.log.Info().
		Str("transaction_id", txn).
		Int64("amount_paise", order.AmountPaise).
		Msg("order recorded")
	return order, nil
}

func (s *paymentService) GetOrder(ctx context.Context, transactionID string) (*domain.Order, error) {
	return s.orders.FindByTransactionID(ctx, transactionID)
}
