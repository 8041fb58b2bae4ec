package utils

import (
	"fmt"
	"strings"
	"testing"

	"lms/database"
	"lms/models"

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

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Course{},
		&models.Lecture{},
		&models.Enrollment{},
		&models.CoursePurchase{},
		&models.CourseProgress{},
		&models.LectureProgress{},
	))
	return db
}

func seedPurchaseFixture(t *testing.T, db *gorm.DB) (models.User, models.Course) {
	t.Helper()

	user := models.User{Name: "Ravi", Email: "ravi@example.com", Password: "hashed"}
	require.NoError(t, db.Create(&user).Error)

	course := models.Course{Title: "Go from Scratch", Category: "Programming", Price: 499, CreatorID: user.ID}
	require.NoError(t, db.Create(&course).Error)

	for i := 0; i < 2; i++ {
		lecture := models.Lecture{CourseID: course.ID, Title: fmt.Sprintf("Lecture %d", i+1)}
		require.NoError(t, db.Create(&lecture).Error)
	}
	return user, course
}

func TestGrantCourseAccessIsIdempotent(t *testing.T) {
	db := openTestDb(t)
	user, course := seedPurchaseFixture(t, db)

	// Running the grant twice must behave like running it once
	require.NoError(t, GrantCourseAccess(db, user.ID, course.ID))
	require.NoError(t, GrantCourseAccess(db, user.ID, course.ID))

	var enrollments int64
	db.Model(&models.Enrollment{}).Where("user_id = ? AND course_id = ?", user.ID, course.ID).Count(&enrollments)
	require.EqualValues(t, 1, enrollments)

	var progresses int64
	db.Model(&models.CourseProgress{}).Where("user_id = ? AND course_id = ?", user.ID, course.ID).Count(&progresses)
	require.EqualValues(t, 1, progresses)

	var reloadedUser models.User
	require.NoError(t, db.First(&reloadedUser, user.ID).Error)
	require.EqualValues(t, 1, reloadedUser.TotalCoursesEnrolled)

	var reloadedCourse models.Course
	require.NoError(t, db.First(&reloadedCourse, course.ID).Error)
	require.EqualValues(t, 1, reloadedCourse.EnrollmentCount)

	var locked int64
	db.Model(&models.Lecture{}).Where("course_id = ? AND is_preview_free = ?", course.ID, false).Count(&locked)
	require.Zero(t, locked)
}

func TestReconcilePurchasesRepairsMissingProgress(t *testing.T) {
	db := openTestDb(t)
	user, course := seedPurchaseFixture(t, db)

	database.Database = database.DbInstance{Db: db}

	// A purchase that completed without its access grant (crash mid fan-out)
	purchase := models.CoursePurchase{
		CourseID: course.ID, UserID: user.ID, Amount: 499, Currency: "INR",
		Status: models.PurchaseCompleted, PaymentID: "order_CRASHED", ReceiptID: "rcpt_crash",
	}
	require.NoError(t, db.Create(&purchase).Error)

	ReconcilePurchases()

	var progresses int64
	db.Model(&models.CourseProgress{}).Where("user_id = ? AND course_id = ?", user.ID, course.ID).Count(&progresses)
	require.EqualValues(t, 1, progresses, "reconciler must create the missing progress record")

	var enrollments int64
	db.Model(&models.Enrollment{}).Where("user_id = ? AND course_id = ?", user.ID, course.ID).Count(&enrollments)
	require.EqualValues(t, 1, enrollments)

	// Second sweep is a no-op
	ReconcilePurchases()

	db.Model(&models.CourseProgress{}).Where("user_id = ? AND course_id = ?", user.ID, course.ID).Count(&progresses)
	require.EqualValues(t, 1, progresses)

	var reloadedUser models.User
	require.NoError(t, db.First(&reloadedUser, user.ID).Error)
	require.EqualValues(t, 1, reloadedUser.TotalCoursesEnrolled)
}

func TestReconcilePurchasesIgnoresPendingAndFailed(t *testing.T) {
	db := openTestDb(t)
	user, course := seedPurchaseFixture(t, db)

	database.Database = database.DbInstance{Db: db}

	records := []models.CoursePurchase{
		{CourseID: course.ID, UserID: user.ID, Amount: 499, Currency: "INR", Status: models.PurchasePending, PaymentID: "order_P", ReceiptID: "rcpt_p"},
		{CourseID: course.ID, UserID: user.ID, Amount: 499, Currency: "INR", Status: models.PurchaseFailed, PaymentID: "order_F", ReceiptID: "rcpt_f"},
	}
	for i := range records {
		require.NoError(t, db.Create(&records[i]).Error)
	}

	ReconcilePurchases()

	var progresses int64
	db.Model(&models.CourseProgress{}).Count(&progresses)
	require.Zero(t, progresses, "only completed purchases are repaired")
}
