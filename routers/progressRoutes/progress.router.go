package progressRoutes

import (
	controllers "lms/controllers/progress"
	"lms/middleware"
	validators "lms/validators/progress"

	"github.com/gofiber/fiber/v2"
)

func SetupProgressRoutes(app *fiber.App) {
	progressGroup := app.Group("/api/v1/progress")

	progressGroup.Get("/:courseId", middleware.JWTMiddleware, validators.CourseID(), controllers.GetCourseProgress)
	progressGroup.Post("/:courseId/lecture/:lectureId/view", middleware.JWTMiddleware, validators.LectureView(), controllers.MarkLectureViewed)
	progressGroup.Post("/:courseId/complete", middleware.JWTMiddleware, validators.CourseID(), controllers.MarkCourseCompleted)
	progressGroup.Post("/:courseId/incomplete", middleware.JWTMiddleware, validators.CourseID(), controllers.MarkCourseIncomplete)
}
