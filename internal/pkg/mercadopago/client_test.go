package mercadopago

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(serverURL string) *Client {
	return &Client{
		AccessToken: "test-token",
		APIBaseURL:  serverURL,
		HTTPClient:  &http.Client{Timeout: time.Second},
	}
}

func TestIsConfigured(t *testing.T) {
	c := &Client{}
	if c.IsConfigured() {
		t.Fatal("client without token must not report configured")
	}
	c.AccessToken = "   "
	if c.IsConfigured() {
		t.Fatal("whitespace token must not report configured")
	}
	c.AccessToken = "token"
	if !c.IsConfigured() {
		t.Fatal("client with token must report configured")
	}
}

func TestUnconfiguredCallsFailFast(t *testing.T) {
	c := &Client{}
	if _, err := c.CreatePreapproval(context.Background(), &PreapprovalRequest{}); err != ErrNotConfigured {
		t.Fatalf("CreatePreapproval error = %v, want ErrNotConfigured", err)
	}
	if _, err := c.GetPreapproval(context.Background(), "pre-1"); err != ErrNotConfigured {
		t.Fatalf("GetPreapproval error = %v, want ErrNotConfigured", err)
	}
}

func TestCreatePreapproval(t *testing.T) {
	var gotAuth string
	var gotBody PreapprovalRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/preapproval" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"pre-42","status":"pending","init_point":"https://mp.test/start"}`))
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	pre, err := c.CreatePreapproval(context.Background(), &PreapprovalRequest{
		Reason:            "test subscription",
		ExternalReference: "order-1",
		PayerEmail:        "payer@example.com",
	})
	if err != nil {
		t.Fatalf("CreatePreapproval: %v", err)
	}

	if gotAuth != "Bearer test-token" {
		t.Fatalf("Authorization = %q, want bearer token", gotAuth)
	}
	if gotBody.ExternalReference != "order-1" {
		t.Fatalf("external_reference = %q, want order-1", gotBody.ExternalReference)
	}
	if pre.ID != "pre-42" || pre.InitPoint != "https://mp.test/start" {
		t.Fatalf("unexpected preapproval: %+v", pre)
	}
	if len(pre.Raw) == 0 {
		t.Fatal("Raw body must be preserved")
	}
}

func TestGetPreapproval(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/preapproval/pre-7" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"id":"pre-7","status":"authorized","external_reference":"order-7"}`))
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	pre, err := c.GetPreapproval(context.Background(), "pre-7")
	if err != nil {
		t.Fatalf("GetPreapproval: %v", err)
	}
	if pre.Status != "authorized" || pre.ExternalReference != "order-7" {
		t.Fatalf("unexpected preapproval: %+v", pre)
	}
}

func TestGetPreapprovalRequiresID(t *testing.T) {
	c := newTestClient("http://unused.test")
	if _, err := c.GetPreapproval(context.Background(), "  "); err == nil {
		t.Fatal("expected error for empty preapproval id")
	}
}

func TestNonSuccessStatusIsAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"invalid request"}`))
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	if _, err := c.GetPreapproval(context.Background(), "pre-1"); err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}

func TestFormatDate(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	ts := time.Date(2026, 1, 2, 15, 4, 5, 0, loc)
	if got, want := FormatDate(ts), "2026-01-02T15:04:05.000-03:00"; got != want {
		t.Fatalf("FormatDate = %q, want %q", got, want)
	}
}
