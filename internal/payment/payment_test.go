package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hireready/hireready/config"
)

func verifierWithSecret(secret string) *Service {
	cfg := &config.Config{}
	cfg.Payment.KeyID = "rzp_test_key"
	cfg.Payment.KeySecret = secret
	return NewService(cfg)
}

func sign(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignatureAccepts(t *testing.T) {
	svc := verifierWithSecret("topsecret")
	signature := sign("topsecret", "order_1", "pay_1")
	assert.True(t, svc.VerifySignature("order_1", "pay_1", signature))
}

func TestVerifySignatureRejectsTampering(t *testing.T) {
	svc := verifierWithSecret("topsecret")
	signature := sign("topsecret", "order_1", "pay_1")

	assert.False(t, svc.VerifySignature("order_2", "pay_1", signature), "different order")
	assert.False(t, svc.VerifySignature("order_1", "pay_2", signature), "different payment")
	assert.False(t, svc.VerifySignature("order_1", "pay_1", signature[:len(signature)-1]+"0"), "altered signature")
	assert.False(t, svc.VerifySignature("order_1", "pay_1", ""), "empty signature")
}

func TestVerifySignatureWrongSecret(t *testing.T) {
	svc := verifierWithSecret("topsecret")
	signature := sign("othersecret", "order_1", "pay_1")
	assert.False(t, svc.VerifySignature("order_1", "pay_1", signature))
}
