package utils

import (
	"fmt"
	"lms/database"
	"lms/models"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// logReconciler logs reconciler events with timestamp
func logReconciler(message string) {
	log.Printf("[PURCHASE-RECONCILER %s] %s", time.Now().Format(time.RFC3339), message)
}

// ReconcilePurchases re-applies the access grant for completed purchases
// whose progress record is missing. The grant is fully idempotent, so
// purchases that were only partially applied (crash between completion and
// fan-out) are safe to re-run in full.
func ReconcilePurchases() {
	db := database.Database.Db

	var purchases []models.CoursePurchase
	if err := db.Where("status = ?", models.PurchaseCompleted).
		Where("NOT EXISTS (SELECT 1 FROM course_progresses cp WHERE cp.user_id = course_purchases.user_id AND cp.course_id = course_purchases.course_id AND cp.deleted_at IS NULL)").
		Find(&purchases).Error; err != nil {
		logReconciler("Error fetching incomplete purchases: " + err.Error())
		return
	}

	if len(purchases) == 0 {
		return
	}

	logReconciler(fmt.Sprintf("Found %d completed purchase(s) with missing progress records", len(purchases)))

	repaired := 0
	for _, purchase := range purchases {
		if err := GrantCourseAccess(db, purchase.UserID, purchase.CourseID); err != nil {
			logReconciler(fmt.Sprintf("Error repairing purchase %d: %v", purchase.ID, err))
			continue
		}
		repaired++
	}

	logReconciler(fmt.Sprintf("Repaired %d purchase(s)", repaired))
}

// InitializePurchaseReconciler starts the periodic repair sweep.
func InitializePurchaseReconciler() *cron.Cron {
	c := cron.New()

	// Every 10 minutes
	if _, err := c.AddFunc("*/10 * * * *", ReconcilePurchases); err != nil {
		log.Fatalf("Failed to schedule purchase reconciler: %v", err)
	}

	c.Start()
	logReconciler("Purchase reconciler started (every 10 minutes)")

	return c
}
