package telephony

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hireready/hireready/config"
)

func tokenConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Telephony.AccountSID = "AC123"
	cfg.Telephony.APIKey = "SK456"
	cfg.Telephony.APISecret = "secret"
	return cfg
}

func TestGenerateTokenCarriesIdentity(t *testing.T) {
	svc := NewTokenService(tokenConfig())

	token, err := svc.Generate("user-7")
	require.NoError(t, err)
	assert.Equal(t, "interviewee_user-7", token.Identity)
	assert.WithinDuration(t, time.Now().Add(time.Hour), token.ExpiresAt, 5*time.Second)

	parsed, err := jwt.Parse(token.Token, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return []byte("secret"), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, "SK456", claims["iss"])
	assert.Equal(t, "AC123", claims["sub"])

	grants, ok := claims["grants"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "interviewee_user-7", grants["identity"])
}

func TestGenerateTokenRequiresCredentials(t *testing.T) {
	svc := NewTokenService(&config.Config{})
	_, err := svc.Generate("user-7")
	assert.Error(t, err)
}
