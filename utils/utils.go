package utils

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateReceiptID generates a short receipt identifier for a checkout
// attempt. Razorpay caps receipts at 40 characters; "rcpt_" plus 12 hex
// chars stays well under that. Collisions are treated as negligible, the
// id is a correlation aid and not a uniqueness guarantee.
func GenerateReceiptID() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "rcpt_" + raw[:12]
}

// TruncateString shortens s to at most max characters.
func TruncateString(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
