package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// RazorpayOrder is the order object returned by the Razorpay Orders API.
type RazorpayOrder struct {
	ID       string            `json:"id"`
	Entity   string            `json:"entity"`
	Amount   int64             `json:"amount"` // in paise
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Status   string            `json:"status"`
	Notes    map[string]string `json:"notes"`
}

// RazorpayPayment is the payment object returned by the Razorpay Payments API.
type RazorpayPayment struct {
	ID       string `json:"id"`
	Entity   string `json:"entity"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"` // created, authorized, captured, refunded, failed
	OrderID  string `json:"order_id"`
	Method   string `json:"method"`
	Email    string `json:"email"`
	Contact  string `json:"contact"`
}

// OrderRequest carries the fields sent to the Razorpay order creation API.
type OrderRequest struct {
	Amount   int64             `json:"amount"` // in paise
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes,omitempty"`
}

type razorpayError struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

// RazorpayClient talks to the Razorpay REST API using basic auth with the
// key id/secret pair. Credentials are injected so tests can point it at a
// stub server with fake keys.
type RazorpayClient struct {
	keyID     string
	keySecret string
	http      *resty.Client
}

// NewRazorpayClient builds a client for the given credentials. baseURL is
// normally https://api.razorpay.com; tests override it.
func NewRazorpayClient(keyID, keySecret, baseURL string) *RazorpayClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetBasicAuth(keyID, keySecret).
		SetTimeout(15 * time.Second).
		SetHeader("Content-Type", "application/json")

	return &RazorpayClient{
		keyID:     keyID,
		keySecret: keySecret,
		http:      client,
	}
}

// CreateOrder creates a remote order for the given amount (paise) and receipt.
func (r *RazorpayClient) CreateOrder(req OrderRequest) (*RazorpayOrder, error) {
	var order RazorpayOrder
	var apiErr razorpayError

	resp, err := r.http.R().
		SetBody(req).
		SetResult(&order).
		SetError(&apiErr).
		Post("/v1/orders")
	if err != nil {
		return nil, fmt.Errorf("razorpay order request failed: %w", err)
	}

	if resp.IsError() {
		if apiErr.Error.Description != "" {
			return nil, fmt.Errorf("razorpay: %s", apiErr.Error.Description)
		}
		return nil, fmt.Errorf("razorpay order creation failed with status %d", resp.StatusCode())
	}

	return &order, nil
}

// FetchPayment retrieves the live payment object by payment id.
func (r *RazorpayClient) FetchPayment(paymentID string) (*RazorpayPayment, error) {
	var payment RazorpayPayment
	var apiErr razorpayError

	resp, err := r.http.R().
		SetResult(&payment).
		SetError(&apiErr).
		Get("/v1/payments/" + paymentID)
	if err != nil {
		return nil, fmt.Errorf("razorpay payment fetch failed: %w", err)
	}

	if resp.IsError() {
		if apiErr.Error.Description != "" {
			return nil, fmt.Errorf("razorpay: %s", apiErr.Error.Description)
		}
		return nil, fmt.Errorf("razorpay payment fetch failed with status %d", resp.StatusCode())
	}

	return &payment, nil
}

// VerifyPaymentSignature checks a checkout callback's authenticity. Razorpay
// signs "orderID|paymentID" with HMAC-SHA256 keyed by the key secret and
// sends the hex digest as the signature.
func VerifyPaymentSignature(orderID, paymentID, signature, secret string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
