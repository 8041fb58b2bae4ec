package models

import (
	"time"

	"gorm.io/gorm"
)

// Purchase statuses
const (
	PurchasePending   = "pending"
	PurchaseCompleted = "completed"
	PurchaseFailed    = "failed"
	PurchaseRefunded  = "refunded"
)

// CoursePurchase tracks one checkout attempt from pending to completed/failed.
// PaymentID holds the Razorpay order id and is the lookup key during
// verification; RazorpayPaymentID and RazorpaySignature are set only when
// the purchase completes.
type CoursePurchase struct {
	gorm.Model
	CourseID          uint       `json:"course_id" gorm:"index;not null"`
	UserID            uint       `json:"user_id" gorm:"index;not null"`
	Course            Course     `json:"course,omitempty" gorm:"foreignKey:CourseID"`
	User              User       `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Amount            uint       `json:"amount" gorm:"not null"` // in INR
	Currency          string     `json:"currency" gorm:"type:varchar(10);default:'INR'"`
	Status            string     `json:"status" gorm:"type:varchar(20);index;default:'pending'"` // pending, completed, failed, refunded
	PaymentID         string     `json:"payment_id" gorm:"type:varchar(100);uniqueIndex"`        // Razorpay order id
	RazorpayPaymentID string     `json:"razorpay_payment_id" gorm:"type:varchar(100)"`
	RazorpaySignature string     `json:"razorpay_signature" gorm:"type:varchar(200)"`
	ReceiptID         string     `json:"receipt_id" gorm:"type:varchar(40);not null"` // Razorpay caps receipts at 40 chars
	CompletedAt       *time.Time `json:"completed_at"`
	FailureReason     string     `json:"failure_reason"`
}

// MarkCompleted transitions the purchase to completed and records the
// Razorpay payment id, signature and completion time.
func (p *CoursePurchase) MarkCompleted(db *gorm.DB, paymentID, signature string) error {
	now := time.Now()
	p.Status = PurchaseCompleted
	p.RazorpayPaymentID = paymentID
	p.RazorpaySignature = signature
	p.CompletedAt = &now
	return db.Save(p).Error
}

// MarkFailed transitions the purchase to failed with a diagnostic reason.
func (p *CoursePurchase) MarkFailed(db *gorm.DB, reason string) error {
	p.Status = PurchaseFailed
	p.FailureReason = reason
	return db.Save(p).Error
}
