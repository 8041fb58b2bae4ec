package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVerifyPaymentSignature(t *testing.T) {
	secret := "shhh"
	orderID := "order_ABC123"
	paymentID := "pay_XYZ789"

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	valid := hex.EncodeToString(mac.Sum(nil))

	require.True(t, VerifyPaymentSignature(orderID, paymentID, valid, secret))
	require.False(t, VerifyPaymentSignature(orderID, paymentID, valid+"00", secret))
	require.False(t, VerifyPaymentSignature(orderID, paymentID, "", secret))
	require.False(t, VerifyPaymentSignature(orderID, "pay_OTHER", valid, secret))
	require.False(t, VerifyPaymentSignature(orderID, paymentID, valid, "wrong-secret"))
}

func TestRazorpayClientCreateOrder(t *testing.T) {
	var gotAuth string
	var gotBody OrderRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/orders", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")

		json.NewEncoder(w).Encode(RazorpayOrder{
			ID: "order_NEW", Entity: "order", Amount: gotBody.Amount,
			Currency: gotBody.Currency, Receipt: gotBody.Receipt, Status: "created",
		})
	}))
	defer server.Close()

	client := NewRazorpayClient("key_id", "key_secret", server.URL)

	order, err := client.CreateOrder(OrderRequest{Amount: 49900, Currency: "INR", Receipt: "rcpt_abc"})
	require.NoError(t, err)
	require.Equal(t, "order_NEW", order.ID)
	require.EqualValues(t, 49900, gotBody.Amount)
	require.True(t, strings.HasPrefix(gotAuth, "Basic "), "orders API uses basic auth")
}

func TestRazorpayClientCreateOrderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]string{"code": "BAD_REQUEST_ERROR", "description": "Receipt too long"},
		})
	}))
	defer server.Close()

	client := NewRazorpayClient("key_id", "key_secret", server.URL)

	_, err := client.CreateOrder(OrderRequest{Amount: 100, Currency: "INR", Receipt: "x"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "Receipt too long")
}

func TestRazorpayClientFetchPayment(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/payments/pay_123", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(RazorpayPayment{ID: "pay_123", Status: "captured", OrderID: "order_1"})
	}))
	defer server.Close()

	client := NewRazorpayClient("key_id", "key_secret", server.URL)

	payment, err := client.FetchPayment("pay_123")
	require.NoError(t, err)
	require.Equal(t, "captured", payment.Status)
}

func TestGenerateReceiptID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := GenerateReceiptID()
		require.True(t, strings.HasPrefix(id, "rcpt_"))
		require.LessOrEqual(t, len(id), 40, "Razorpay caps receipts at 40 characters")
		seen[id] = true
	}
	require.Len(t, seen, 100, "receipt ids should not collide in practice")
}
