package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSign_KnownVectors(t *testing.T) {
	assert.Equal(t,
		"85cbc6036124891c4d0280fbb7cd83804f87a66f2eb485a89af574086f592cbc",
		Sign("test_secret", "order_ABC123", "pay_XYZ789"))
	assert.Equal(t,
		"15e54fc994958b03e5d550900551f2224e4bc3f71ed65272552271e2d4c1b713",
		Sign("rzp_secret", "order_1", "pay_1"))
}

func TestVerify(t *testing.T) {
	sig := Sign("test_secret", "order_ABC123", "pay_XYZ789")

	assert.True(t, Verify("test_secret", "order_ABC123", "pay_XYZ789", sig))
	assert.False(t, Verify("test_secret", "order_ABC123", "pay_XYZ789", strings.ToUpper(sig)))
	assert.False(t, Verify("test_secret", "order_ABC123", "pay_XYZ789", " "+sig+" "))
	assert.False(t, Verify("test_secret", "order_ABC123", "pay_OTHER", sig))
	assert.False(t, Verify("wrong_secret", "order_ABC123", "pay_XYZ789", sig))
	assert.False(t, Verify("test_secret", "order_ABC123", "pay_XYZ789", sig[:10]))
	assert.False(t, Verify("", "order_ABC123", "pay_XYZ789", Sign("", "order_ABC123", "pay_XYZ789")))
}

func TestClient_CreateOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/orders", r.URL.Path)

		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "rzp_test_key", user)
		assert.Equal(t, "rzp_secret", pass)

		var body createOrderRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, int64(50050), body.Amount)
		assert.Equal(t, "INR", body.Currency)
		assert.Equal(t, "receipt_1", body.Receipt)
		assert.Equal(t, 1, body.PaymentCapture)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"order_ABC123","amount":50050,"currency":"INR","receipt":"receipt_1","status":"created"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "rzp_test_key", "rzp_secret", time.Second)
	order, err := c.CreateOrder(context.Background(), 50050, "INR", "receipt_1")
	require.NoError(t, err)
	assert.Equal(t, "order_ABC123", order.ID)
	assert.Equal(t, int64(50050), order.AmountMinor)
	assert.Equal(t, "created", order.Status)
}

func TestClient_CreateOrder_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":"BAD_REQUEST_ERROR","description":"Authentication failed"}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k", "s", time.Second)
	_, err := c.CreateOrder(context.Background(), 100, "INR", "r")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
	assert.Contains(t, err.Error(), "Authentication failed")
}

func TestClient_CreateOrder_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(500 * time.Millisecond):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k", "s", 50*time.Millisecond)
	_, err := c.CreateOrder(context.Background(), 100, "INR", "r")
	require.Error(t, err)
}

func TestClient_CreateOrder_MissingID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"amount":100}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k", "s", time.Second)
	_, err := c.CreateOrder(context.Background(), 100, "INR", "r")
	require.Error(t, err)
}

func TestClient_VerifySignatureUsesKeySecret(t *testing.T) {
	c := NewClient("http://unused", "k", "rzp_secret", time.Second)
	assert.True(t, c.VerifySignature("order_1", "pay_1", "15e54fc994958b03e5d550900551f2224e4bc3f71ed65272552271e2d4c1b713"))
}
