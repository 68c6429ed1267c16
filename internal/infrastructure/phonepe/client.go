// Package phonepe verifies transactions against the PhonePe status API.
package phonepe

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/minutehire/auth-gateway/internal/core/domain"
)

const defaultTimeout = 10 * time.Second

// Config holds the merchant credentials.
type Config struct {
	BaseURL    string
	MerchantID string
	Secret     string
	SaltIndex  string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client implements ports.PaymentGateway.
type Client struct {
	cfg  Config
	http *http.Client
}

func NewClient(cfg Config) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}
	if cfg.SaltIndex == "" {
		cfg.SaltIndex = "1"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{cfg: cfg, http: hc}
}

type statusResponse struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Data    struct {
		MerchantID            string `json:"merchantId"`
		MerchantTransactionID string `json:"merchantTransactionId"`
		TransactionID         string `json:"transactionId"`
		Amount                int64  `json:"amount"`
		State                 string `json:"state"`
		ResponseCode          string `json:"responseCode"`
		PaymentInstrument     struct {
			Type string `json:"type"`
		} `json:"paymentInstrument"`
	} `json:"data"`
}

// CheckStatus fetches the transaction state.
func (c *Client) CheckStatus(ctx context.Context, transactionID string) (*domain.PaymentStatus, error) {
	path := fmt.Sprintf("/pg/v1/status/%s/%s", url.PathEscape(c.cfg.MerchantID), url.PathEscape(transactionID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("phonepe status: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-VERIFY", Sign(c.cfg.Secret, path, c.cfg.SaltIndex))
	req.Header.Set("X-MERCHANT-ID", c.cfg.MerchantID)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("phonepe status: %w: %w", domain.ErrPaymentGateway, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("phonepe status: read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("phonepe status: %w: unexpected status %d", domain.ErrPaymentGateway, resp.StatusCode)
	}

	var sr statusResponse
	if err := json.Unmarshal(data, &sr); err != nil {
		return nil, fmt.Errorf("phonepe status: decode: %w", err)
	}

	state := domain.PaymentState(strings.ToUpper(sr.Data.State))
	if state == "" {
		state = domain.PaymentFailed
		if sr.Code == "PAYMENT_PENDING" {
			state = domain.PaymentPending
		}
	}
	return &domain.PaymentStatus{
		TransactionID: transactionID,
		MerchantID:    firstNonEmpty(sr.Data.MerchantID, c.cfg.MerchantID),
		State:         state,
		AmountPaise:   sr.Data.Amount,
		PaymentMethod: sr.Data.PaymentInstrument.Type,
		ResponseCode:  sr.Data.ResponseCode,
	}, nil
}

// Sign builds the X-VERIFY header: hex HMAC-SHA256 of path keyed by secret,
// followed by "###" and the salt index.
func Sign(secret, path, saltIndex string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(path))
	return hex.EncodeToString(mac.Sum(nil)) + "###" + saltIndex
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
