package utils

import (
	"lms/models"

	"gorm.io/gorm"
)

// GrantCourseAccess applies the post-purchase updates for (user, course):
// unlock the course's lectures, add the enrollment, bump the counters and
// create an empty progress record. Every step is idempotent so the whole
// sequence can be re-run after a partial failure without duplicating
// enrollments or progress rows. There is no wrapping transaction; callers
// tolerate and repair partial application (see ReconcilePurchases).
func GrantCourseAccess(db *gorm.DB, userID, courseID uint) error {
	// Unlock every lecture of the purchased course.
	if err := db.Model(&models.Lecture{}).
		Where("course_id = ?", courseID).
		Update("is_preview_free", true).Error; err != nil {
		return err
	}

	// Enroll the user. FirstOrCreate keeps the pair unique; the counters
	// move only when the enrollment row is new.
	var enrollment models.Enrollment
	result := db.Where("user_id = ? AND course_id = ?", userID, courseID).
		FirstOrCreate(&enrollment, models.Enrollment{UserID: userID, CourseID: courseID})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected > 0 {
		if err := db.Model(&models.User{}).Where("id = ?", userID).
			Update("total_courses_enrolled", gorm.Expr("total_courses_enrolled + 1")).Error; err != nil {
			return err
		}
		if err := db.Model(&models.Course{}).Where("id = ?", courseID).
			Update("enrollment_count", gorm.Expr("enrollment_count + 1")).Error; err != nil {
			return err
		}
	}

	// Create the progress record if it does not exist yet.
	var progress models.CourseProgress
	if err := db.Where("user_id = ? AND course_id = ?", userID, courseID).
		FirstOrCreate(&progress, models.CourseProgress{UserID: userID, CourseID: courseID, Completed: false}).Error; err != nil {
		return err
	}

	return nil
}
