// Package payment integrates the payments provider: order creation and
// callback signature verification.
package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hireready/hireready/config"
)

// Order is the provider's record of a payment to collect.
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"` // minor units
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

type Service struct {
	baseURL   string
	keyID     string
	keySecret string
	http      *http.Client
	now       func() time.Time
}

func NewService(cfg *config.Config) *Service {
	baseURL := cfg.Payment.BaseURL
	if baseURL == "" {
		baseURL = "https://api.razorpay.com"
	}
	return &Service{
		baseURL:   baseURL,
		keyID:     cfg.Payment.KeyID,
		keySecret: cfg.Payment.KeySecret,
		http:      &http.Client{Timeout: 15 * time.Second},
		now:       time.Now,
	}
}

// CreateOrder registers an order with the provider. The amount arrives in
// major units and is converted to the minor units the provider expects.
func (s *Service) CreateOrder(ctx context.Context, amount int64, currency string) (*Order, error) {
	if s.keyID == "" || s.keySecret == "" {
		return nil, fmt.Errorf("payment credentials are not configured")
	}
	if currency == "" {
		currency = "INR"
	}

	payload, err := json.Marshal(map[string]interface{}{
		"amount":   amount * 100,
		"currency": currency,
		"receipt":  fmt.Sprintf("receipt_%d", s.now().UnixMilli()),
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/v1/orders", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(s.keyID, s.keySecret)

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("order request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("order request rejected: %s", resp.Status)
	}

	var order Order
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, fmt.Errorf("failed to decode order response: %w", err)
	}
	log.Info().Str("orderID", order.ID).Int64("amount", order.Amount).Str("currency", order.Currency).Msg("Payment order created")
	return &order, nil
}

// VerifySignature checks the provider's callback signature: an HMAC-SHA256
// over "orderID|paymentID" with the shared secret, hex encoded. A mismatch
// is a false return, not an error.
func (s *Service) VerifySignature(orderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(s.keySecret))
	fmt.Fprintf(mac, "%s|%s", orderID, paymentID)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
