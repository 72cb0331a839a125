package telephony

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hireready/hireready/config"
)

// holdScript keeps the browser call alive while the webhook flow runs the
// interview; thirty minutes is the hard ceiling on a call.
const holdScript = `<?xml version="1.0" encoding="UTF-8"?>
<Response>
  <Say voice="Polly.Joanna">Hello! Welcome to your HireReady phone interview. Your interview will begin shortly. Please stay on the line.</Say>
  <Pause length="1800"/>
</Response>`

// Call is the provider's view of an initiated call.
type Call struct {
	SID    string `json:"sid"`
	Status string `json:"status"`
}

// Client places outbound calls through the provider's REST API.
type Client struct {
	baseURL     string
	accountSID  string
	apiKey      string
	apiSecret   string
	phoneNumber string
	http        *http.Client
}

func NewClient(cfg *config.Config) *Client {
	baseURL := cfg.Telephony.BaseURL
	if baseURL == "" {
		baseURL = "https://api.twilio.com"
	}
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		accountSID:  cfg.Telephony.AccountSID,
		apiKey:      cfg.Telephony.APIKey,
		apiSecret:   cfg.Telephony.APISecret,
		phoneNumber: cfg.Telephony.PhoneNumber,
		http:        &http.Client{Timeout: 15 * time.Second},
	}
}

// CallUser dials the user's browser client with the inline hold script. The
// identity must match what the client registered with its access token.
func (c *Client) CallUser(ctx context.Context, userID, userName string) (string, error) {
	identity := Identity(userID)
	log.Info().Str("identity", identity).Str("userName", userName).Msg("Initiating browser call")

	call, err := c.createCall(ctx, url.Values{
		"To":    {"client:" + identity},
		"From":  {c.phoneNumber},
		"Twiml": {holdScript},
	})
	if err != nil {
		return "", err
	}
	log.Info().Str("callSID", call.SID).Str("status", call.Status).Msg("Call initiated")
	return call.SID, nil
}

func (c *Client) createCall(ctx context.Context, form url.Values) (*Call, error) {
	if c.accountSID == "" {
		return nil, fmt.Errorf("telephony account is not configured")
	}

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Calls.json", c.baseURL, c.accountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.apiKey, c.apiSecret)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("call request rejected: %s", resp.Status)
	}

	var call Call
	if err := json.NewDecoder(resp.Body).Decode(&call); err != nil {
		return nil, fmt.Errorf("failed to decode call response: %w", err)
	}
	return &call, nil
}
