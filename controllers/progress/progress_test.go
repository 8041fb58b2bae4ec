package progressController_test

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"lms/config"
	"lms/database"
	"lms/middleware"
	"lms/models"
	progressRoutes "lms/routers/progressRoutes"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTest(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Course{},
		&models.Lecture{},
		&models.CoursePurchase{},
		&models.CourseProgress{},
		&models.LectureProgress{},
	))

	database.Database = database.DbInstance{Db: db}
	config.AppConfig = &config.Config{JWTKey: "test-jwt-secret", SaltRound: 4}

	app := fiber.New()
	progressRoutes.SetupProgressRoutes(app)
	return app, db
}

func seedPurchasedCourse(t *testing.T, db *gorm.DB) (models.User, models.Course, models.Lecture) {
	t.Helper()

	user := models.User{Name: "Ravi", Email: "ravi@example.com", Password: "hashed"}
	require.NoError(t, db.Create(&user).Error)

	course := models.Course{Title: "Go from Scratch", Category: "Programming", Price: 499, CreatorID: user.ID}
	require.NoError(t, db.Create(&course).Error)

	lecture := models.Lecture{CourseID: course.ID, Title: "Introduction", IsPreviewFree: true}
	require.NoError(t, db.Create(&lecture).Error)

	purchase := models.CoursePurchase{
		CourseID: course.ID, UserID: user.ID, Amount: 499, Currency: "INR",
		Status: models.PurchaseCompleted, PaymentID: "order_OK", ReceiptID: "rcpt_ok",
	}
	require.NoError(t, db.Create(&purchase).Error)

	return user, course, lecture
}

func doRequest(t *testing.T, app *fiber.App, method, path string, user models.User) (*http.Response, map[string]interface{}) {
	t.Helper()

	token, err := middleware.GenerateJWT(user.ID, user.Name, user.Role, user.Email)
	require.NoError(t, err)

	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var parsed map[string]interface{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &parsed))
	}
	return resp, parsed
}

func TestGetCourseProgressLazilyCreatesRecord(t *testing.T) {
	app, db := setupTest(t)
	user, course, _ := seedPurchasedCourse(t, db)

	// No progress record yet: the completed purchase was only partially
	// applied. First access repairs it.
	resp, body := doRequest(t, app, "GET", fmt.Sprintf("/api/v1/progress/%d", course.ID), user)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	data := body["data"].(map[string]interface{})
	require.Equal(t, false, data["completed"])

	var count int64
	db.Model(&models.CourseProgress{}).Where("user_id = ? AND course_id = ?", user.ID, course.ID).Count(&count)
	require.EqualValues(t, 1, count)

	// Second read reuses the same record
	resp, _ = doRequest(t, app, "GET", fmt.Sprintf("/api/v1/progress/%d", course.ID), user)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	db.Model(&models.CourseProgress{}).Where("user_id = ? AND course_id = ?", user.ID, course.ID).Count(&count)
	require.EqualValues(t, 1, count)
}

func TestGetCourseProgressRequiresPurchase(t *testing.T) {
	app, db := setupTest(t)
	_, course, _ := seedPurchasedCourse(t, db)

	stranger := models.User{Name: "Mia", Email: "mia@example.com", Password: "hashed"}
	require.NoError(t, db.Create(&stranger).Error)

	resp, _ := doRequest(t, app, "GET", fmt.Sprintf("/api/v1/progress/%d", course.ID), stranger)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestMarkLectureViewedIsIdempotent(t *testing.T) {
	app, db := setupTest(t)
	user, course, lecture := seedPurchasedCourse(t, db)

	path := fmt.Sprintf("/api/v1/progress/%d/lecture/%d/view", course.ID, lecture.ID)

	for i := 0; i < 2; i++ {
		resp, _ := doRequest(t, app, "POST", path, user)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
	}

	var count int64
	db.Model(&models.LectureProgress{}).Where("lecture_id = ?", lecture.ID).Count(&count)
	require.EqualValues(t, 1, count)

	var lp models.LectureProgress
	require.NoError(t, db.Where("lecture_id = ?", lecture.ID).First(&lp).Error)
	require.True(t, lp.Viewed)
}

func TestMarkCourseCompletedAndIncomplete(t *testing.T) {
	app, db := setupTest(t)
	user, course, _ := seedPurchasedCourse(t, db)

	// Seed the progress record through the lazy path
	resp, _ := doRequest(t, app, "GET", fmt.Sprintf("/api/v1/progress/%d", course.ID), user)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = doRequest(t, app, "POST", fmt.Sprintf("/api/v1/progress/%d/complete", course.ID), user)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var progress models.CourseProgress
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", user.ID, course.ID).First(&progress).Error)
	require.True(t, progress.Completed)

	resp, _ = doRequest(t, app, "POST", fmt.Sprintf("/api/v1/progress/%d/incomplete", course.ID), user)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	require.NoError(t, db.Where("user_id = ? AND course_id = ?", user.ID, course.ID).First(&progress).Error)
	require.False(t, progress.Completed)
}
