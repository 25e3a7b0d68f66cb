package payway

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/govalues/decimal"
	"github.com/kimsann/payway-checkout/internal/adapter/config"
	"github.com/kimsann/payway-checkout/internal/core/domain"
	"github.com/kimsann/payway-checkout/internal/core/port"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func testConfig() *config.PayWay {
	return &config.PayWay{
		MerchantID:     "mid001",
		APIKey:         "topsecret",
		CheckoutURL:    "https://gateway.example/api/purchase",
		CheckURL:       "https://gateway.example/api/check",
		ReturnURL:      "https://shop.example/payment/callback",
		Currency:       "USD",
		RequestTimeout: 5 * time.Second,
	}
}

// hashOf recomputes the gateway hash independently of the client.
func hashOf(key string, parts ...string) string {
	mac := hmac.New(sha512.New, []byte(key))
	mac.Write([]byte(strings.Join(parts, "")))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestClient_New(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *config.PayWay)
		wantErr bool
	}{
		{name: "Complete config", mutate: func(cfg *config.PayWay) {}},
		{
			name:    "Missing merchant id",
			mutate:  func(cfg *config.PayWay) { cfg.MerchantID = "" },
			wantErr: true,
		},
		{
			name:    "Missing api key",
			mutate:  func(cfg *config.PayWay) { cfg.APIKey = "" },
			wantErr: true,
		},
		{
			name:    "Missing checkout url",
			mutate:  func(cfg *config.PayWay) { cfg.CheckoutURL = "" },
			wantErr: true,
		},
		{
			name:    "Built-in status code remap rejected",
			mutate:  func(cfg *config.PayWay) { cfg.StatusCodes = "0:FAILED" },
			wantErr: true,
		},
		{
			name:   "Status code extension accepted",
			mutate: func(cfg *config.PayWay) { cfg.StatusCodes = "4:FAILED,5:CANCELLED" },
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := testConfig()
			test.mutate(cfg)

			_, err := NewClient(cfg, zap.NewNop())
			if test.wantErr {
				assert.ErrorIs(t, err, domain.ErrGatewayConfig)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestClient_BuildCheckout(t *testing.T) {
	cfg := testConfig()
	client, err := NewClient(cfg, zap.NewNop())
	assert.NoError(t, err)

	order := &domain.Order{ID: 7, TotalPrice: decimal.MustParse("10.5")}

	checkout, err := client.BuildCheckout(order, "REF123")
	assert.NoError(t, err)
	assert.Equal(t, cfg.CheckoutURL, checkout.Endpoint)

	fields := checkout.Fields
	assert.Equal(t, "mid001", fields.Get("merchant_id"))
	assert.Equal(t, "REF123", fields.Get("tran_id"))
	assert.Equal(t, "10.50", fields.Get("amount"))
	assert.Equal(t, "USD", fields.Get("currency"))
	assert.Equal(t, cfg.ReturnURL, fields.Get("return_url"))
	assert.NotEmpty(t, fields.Get("req_time"))

	want := hashOf(cfg.APIKey,
		fields.Get("req_time"), cfg.MerchantID, "REF123", "10.50", cfg.ReturnURL)
	assert.Equal(t, want, fields.Get("hash"))
}

func TestClient_VerifyCallback(t *testing.T) {
	cfg := testConfig()
	client, err := NewClient(cfg, zap.NewNop())
	assert.NoError(t, err)

	notice := &port.CallbackNotice{
		TranID:         "REF123",
		StatusCode:     0,
		ApprovedAmount: "10.50",
	}
	notice.Hash = hashOf(cfg.APIKey, "REF123", "10.50", "0")

	assert.NoError(t, client.VerifyCallback(notice))

	t.Run("Tampered amount", func(t *testing.T) {
		bad := *notice
		bad.ApprovedAmount = "0.01"
		assert.ErrorIs(t, client.VerifyCallback(&bad), domain.ErrInvalidSignature)
	})

	t.Run("Tampered status", func(t *testing.T) {
		bad := *notice
		bad.StatusCode = 2
		assert.ErrorIs(t, client.VerifyCallback(&bad), domain.ErrInvalidSignature)
	})

	t.Run("Garbage hash", func(t *testing.T) {
		bad := *notice
		bad.Hash = "bm90IGEgcmVhbCBoYXNo"
		assert.ErrorIs(t, client.VerifyCallback(&bad), domain.ErrInvalidSignature)
	})

	t.Run("Wrong key", func(t *testing.T) {
		bad := *notice
		bad.Hash = hashOf("otherkey", "REF123", "10.50", "0")
		assert.ErrorIs(t, client.VerifyCallback(&bad), domain.ErrInvalidSignature)
	})
}

func TestClient_MapStatus(t *testing.T) {
	cfg := testConfig()
	cfg.StatusCodes = "4:FAILED"
	client, err := NewClient(cfg, zap.NewNop())
	assert.NoError(t, err)

	assert.Equal(t, domain.OutcomeSuccess, client.MapStatus(0))
	assert.Equal(t, domain.OutcomePending, client.MapStatus(1))
	assert.Equal(t, domain.OutcomeFailed, client.MapStatus(2))
	assert.Equal(t, domain.OutcomeCancelled, client.MapStatus(3))
	assert.Equal(t, domain.OutcomeFailed, client.MapStatus(4))
	// Unknown codes must not be treated as terminal.
	assert.Equal(t, domain.OutcomePending, client.MapStatus(99))
}

func TestClient_CheckTransaction(t *testing.T) {
	cfg := testConfig()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "mid001", r.Form.Get("merchant_id"))
		assert.Equal(t, "REF123", r.Form.Get("tran_id"))

		want := hashOf(cfg.APIKey,
			r.Form.Get("req_time"), r.Form.Get("merchant_id"), r.Form.Get("tran_id"))
		assert.Equal(t, want, r.Form.Get("hash"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"tran_id":"REF123","status":0,"apv":"10.50"}`))
	}))
	defer server.Close()

	cfg.CheckURL = server.URL
	client, err := NewClient(cfg, zap.NewNop())
	assert.NoError(t, err)

	state, err := client.CheckTransaction(context.Background(), "REF123")
	assert.NoError(t, err)
	assert.Equal(t, "REF123", state.TranID)
	assert.Equal(t, 0, state.StatusCode)
	assert.Equal(t, "10.50", state.ApprovedAmount)
}

func TestClient_CheckTransactionBadResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	cfg := testConfig()
	cfg.CheckURL = server.URL
	client, err := NewClient(cfg, zap.NewNop())
	assert.NoError(t, err)

	_, err = client.CheckTransaction(context.Background(), "REF123")
	assert.Error(t, err)
}
