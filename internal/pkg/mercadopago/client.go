package mercadopago

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/condutamedx/medx-backend/internal/pkg/env"
)

const defaultAPIBaseURL = "https://api.mercadopago.com"

// ErrNotConfigured is returned when no access token is available. Callers
// surface it as "payment service unavailable".
var ErrNotConfigured = errors.New("mercado pago access token is not configured")

// Client talks to the Mercado Pago preapproval (recurring subscription) API.
// Build it once at startup; a client without an access token fails fast on
// every call instead of panicking somewhere downstream.
type Client struct {
	AccessToken string
	APIBaseURL  string

	HTTPClient *http.Client
}

// AutoRecurring describes the recurring terms of a preapproval.
type AutoRecurring struct {
	Frequency         int     `json:"frequency"`
	FrequencyType     string  `json:"frequency_type"`
	TransactionAmount float64 `json:"transaction_amount"`
	CurrencyID        string  `json:"currency_id"`
	StartDate         string  `json:"start_date"`
	EndDate           string  `json:"end_date"`
}

// PreapprovalRequest is the outbound payload for creating a subscription.
type PreapprovalRequest struct {
	Reason            string        `json:"reason"`
	ExternalReference string        `json:"external_reference"`
	PayerEmail        string        `json:"payer_email"`
	AutoRecurring     AutoRecurring `json:"auto_recurring"`
	BackURL           string        `json:"back_url"`
	NotificationURL   string        `json:"notification_url"`
	Status            string        `json:"status"`
}

// Preapproval is the provider's subscription object. Raw keeps the full
// response body for the order audit trail.
type Preapproval struct {
	ID                string `json:"id"`
	Status            string `json:"status"`
	ExternalReference string `json:"external_reference"`
	PayerEmail        string `json:"payer_email"`
	InitPoint         string `json:"init_point"`

	Raw json.RawMessage `json:"-"`
}

func NewClientFromEnv() *Client {
	return &Client{
		AccessToken: strings.TrimSpace(env.GetEnv("MERCADO_PAGO_ACCESS_TOKEN", "")),
		APIBaseURL:  strings.TrimRight(env.GetEnv("MERCADO_PAGO_API_BASE_URL", defaultAPIBaseURL), "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// IsConfigured reports whether the client holds credentials.
func (c *Client) IsConfigured() bool {
	return strings.TrimSpace(c.AccessToken) != ""
}

// CreatePreapproval creates a recurring subscription and returns the hosted
// checkout init_point.
func (c *Client) CreatePreapproval(ctx context.Context, req *PreapprovalRequest) (*Preapproval, error) {
	if !c.IsConfigured() {
		return nil, ErrNotConfigured
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.APIBaseURL+"/preapproval", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	return c.do(httpReq)
}

// GetPreapproval fetches the current state of a subscription. This is the
// authoritative read the reconciler relies on; webhook bodies are never
// trusted for status.
func (c *Client) GetPreapproval(ctx context.Context, id string) (*Preapproval, error) {
	if !c.IsConfigured() {
		return nil, ErrNotConfigured
	}
	if strings.TrimSpace(id) == "" {
		return nil, errors.New("preapproval id is required")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.APIBaseURL+"/preapproval/"+id, nil)
	if err != nil {
		return nil, err
	}

	return c.do(httpReq)
}

func (c *Client) do(req *http.Request) (*Preapproval, error) {
	req.Header.Set("Authorization", "Bearer "+c.AccessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("mercado pago request failed: status=%d body=%s", resp.StatusCode, string(body))
	}

	var out Preapproval
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, err
	}
	out.Raw = json.RawMessage(body)
	return &out, nil
}

// FormatDate renders a timestamp in the timezone-qualified millisecond format
// the preapproval API requires, e.g. 2026-01-02T15:04:05.000-03:00.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02T15:04:05.000-07:00")
}
