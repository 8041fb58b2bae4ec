package progressController

import (
	"lms/database"
	"lms/middleware"
	"lms/models"

	"github.com/gofiber/fiber/v2"
)

// GetCourseProgress returns the user's progress for a purchased course. A
// missing progress record for a completed purchase is created on the spot:
// the post-purchase updates are not transactional, so a crash can leave a
// completed purchase without one.
func GetCourseProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID, ok := c.Locals("courseID").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Course ID is required!", nil)
	}

	db := database.Database.Db

	var purchase models.CoursePurchase
	if err := db.Where("course_id = ? AND user_id = ? AND status = ?", courseID, userID, models.PurchaseCompleted).
		First(&purchase).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You have not purchased this course!", nil)
	}

	var progress models.CourseProgress
	if err := db.Preload("LectureProgress").
		Where("user_id = ? AND course_id = ?", userID, courseID).
		FirstOrCreate(&progress, models.CourseProgress{UserID: userID, CourseID: courseID, Completed: false}).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch progress!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", progress)
}

// MarkLectureViewed records that the user watched a lecture.
func MarkLectureViewed(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(uint)
	lectureID := c.Locals("lectureID").(uint)

	db := database.Database.Db

	var lecture models.Lecture
	if err := db.Where("id = ? AND course_id = ? AND is_deleted = ?", lectureID, courseID, false).
		First(&lecture).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lecture not found!", nil)
	}

	var progress models.CourseProgress
	if err := db.Where("user_id = ? AND course_id = ?", userID, courseID).
		FirstOrCreate(&progress, models.CourseProgress{UserID: userID, CourseID: courseID, Completed: false}).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update progress!", nil)
	}

	var lectureProgress models.LectureProgress
	if err := db.Where("course_progress_id = ? AND lecture_id = ?", progress.ID, lectureID).
		FirstOrCreate(&lectureProgress, models.LectureProgress{CourseProgressID: progress.ID, LectureID: lectureID}).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update progress!", nil)
	}

	if !lectureProgress.Viewed {
		lectureProgress.Viewed = true
		if err := db.Save(&lectureProgress).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update progress!", nil)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lecture marked as viewed!", lectureProgress)
}

// MarkCourseCompleted flips the progress record to completed.
func MarkCourseCompleted(c *fiber.Ctx) error {
	return setCourseCompletion(c, true, "Course marked as completed!")
}

// MarkCourseIncomplete reverts the progress record to incomplete.
func MarkCourseIncomplete(c *fiber.Ctx) error {
	return setCourseCompletion(c, false, "Course marked as incomplete!")
}

func setCourseCompletion(c *fiber.Ctx, completed bool, message string) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID, ok := c.Locals("courseID").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Course ID is required!", nil)
	}

	db := database.Database.Db

	var progress models.CourseProgress
	if err := db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&progress).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Progress record not found!", nil)
	}

	progress.Completed = completed
	if err := db.Save(&progress).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update progress!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, message, progress)
}
