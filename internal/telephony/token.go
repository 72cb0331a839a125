// Package telephony integrates the phone-interview provider: browser access
// tokens, outbound calls and the voice webhook state held in redis.
package telephony

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hireready/hireready/config"
)

const tokenTTL = time.Hour

// Identity returns the client identity the browser registers under; calls
// are routed to it, so token and call must agree on the format.
func Identity(userID string) string {
	return "interviewee_" + userID
}

// AccessToken is a signed capability the browser client uses to register for
// incoming calls.
type AccessToken struct {
	Token     string
	Identity  string
	ExpiresAt time.Time
}

type TokenService struct {
	accountSID string
	apiKey     string
	apiSecret  string
}

func NewTokenService(cfg *config.Config) *TokenService {
	return &TokenService{
		accountSID: cfg.Telephony.AccountSID,
		apiKey:     cfg.Telephony.APIKey,
		apiSecret:  cfg.Telephony.APISecret,
	}
}

// Generate issues a one-hour voice access token for the user's client
// identity.
func (s *TokenService) Generate(userID string) (*AccessToken, error) {
	if s.apiKey == "" || s.apiSecret == "" {
		return nil, fmt.Errorf("telephony api key and secret are required")
	}

	identity := Identity(userID)
	now := time.Now()
	expiresAt := now.Add(tokenTTL)

	claims := jwt.MapClaims{
		"jti": fmt.Sprintf("%s-%d", s.apiKey, now.Unix()),
		"iss": s.apiKey,
		"sub": s.accountSID,
		"iat": now.Unix(),
		"exp": expiresAt.Unix(),
		"grants": map[string]interface{}{
			"identity": identity,
			"voice": map[string]interface{}{
				"incoming": map[string]interface{}{"allow": true},
			},
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.apiSecret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	return &AccessToken{Token: signed, Identity: identity, ExpiresAt: expiresAt}, nil
}
