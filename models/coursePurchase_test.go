package models

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDb(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&User{}, &Course{}, &Lecture{}, &CoursePurchase{}))
	return db
}

func TestMarkCompleted(t *testing.T) {
	db := openTestDb(t)

	purchase := CoursePurchase{
		CourseID: 1, UserID: 1, Amount: 499, Currency: "INR",
		Status: PurchasePending, PaymentID: "order_1", ReceiptID: "rcpt_1",
	}
	require.NoError(t, db.Create(&purchase).Error)

	require.NoError(t, purchase.MarkCompleted(db, "pay_1", "sig_1"))

	var reloaded CoursePurchase
	require.NoError(t, db.First(&reloaded, purchase.ID).Error)
	require.Equal(t, PurchaseCompleted, reloaded.Status)
	require.Equal(t, "pay_1", reloaded.RazorpayPaymentID)
	require.Equal(t, "sig_1", reloaded.RazorpaySignature)
	require.NotNil(t, reloaded.CompletedAt)
	require.Empty(t, reloaded.FailureReason)
}

func TestMarkFailed(t *testing.T) {
	db := openTestDb(t)

	purchase := CoursePurchase{
		CourseID: 1, UserID: 1, Amount: 499, Currency: "INR",
		Status: PurchasePending, PaymentID: "order_2", ReceiptID: "rcpt_2",
	}
	require.NoError(t, db.Create(&purchase).Error)

	require.NoError(t, purchase.MarkFailed(db, "Payment not captured by Razorpay"))

	var reloaded CoursePurchase
	require.NoError(t, db.First(&reloaded, purchase.ID).Error)
	require.Equal(t, PurchaseFailed, reloaded.Status)
	require.Equal(t, "Payment not captured by Razorpay", reloaded.FailureReason)
	require.Nil(t, reloaded.CompletedAt)
	require.Empty(t, reloaded.RazorpayPaymentID)
}

func TestDuplicateGatewayOrderIDRejected(t *testing.T) {
	db := openTestDb(t)

	first := CoursePurchase{CourseID: 1, UserID: 1, Amount: 499, Currency: "INR", Status: PurchasePending, PaymentID: "order_dup", ReceiptID: "rcpt_a"}
	require.NoError(t, db.Create(&first).Error)

	second := CoursePurchase{CourseID: 2, UserID: 2, Amount: 999, Currency: "INR", Status: PurchasePending, PaymentID: "order_dup", ReceiptID: "rcpt_b"}
	require.Error(t, db.Create(&second).Error, "gateway order ids are unique")
}
