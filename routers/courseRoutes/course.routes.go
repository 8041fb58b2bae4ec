package courseRoutes

import (
	controllers "lms/controllers/course"
	"lms/middleware"
	validators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up all course and lecture routes
func SetupCourseRoutes(app *fiber.App) {
	courseGroup := app.Group("/api/v1/course")

	// Published course browsing
	courseGroup.Get("/published", middleware.JWTMiddleware, validators.CourseList(), controllers.GetPublishedCourses)
	courseGroup.Get("/:id", middleware.JWTMiddleware, validators.CourseID(), controllers.GetCourseByID)

	// Creator-side course management
	courseGroup.Post("/", middleware.JWTMiddleware, middleware.RequireRole("INSTRUCTOR"), validators.CreateCourse(), controllers.CreateCourse)
	courseGroup.Get("/", middleware.JWTMiddleware, middleware.RequireRole("INSTRUCTOR"), controllers.GetCreatorCourses)
	courseGroup.Patch("/:id/publish", middleware.JWTMiddleware, middleware.RequireRole("INSTRUCTOR"), validators.CourseID(), controllers.TogglePublish)

	// Lectures
	courseGroup.Post("/:id/lecture", middleware.JWTMiddleware, middleware.RequireRole("INSTRUCTOR"), validators.CourseID(), validators.CreateLecture(), controllers.CreateLecture)
	courseGroup.Get("/:id/lecture", middleware.JWTMiddleware, validators.CourseID(), controllers.GetCourseLectures)
}
