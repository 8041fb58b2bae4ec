package purchaseRoutes

import (
	controllers "lms/controllers/purchase"
	"lms/middleware"
	validators "lms/validators/purchase"

	"github.com/gofiber/fiber/v2"
)

// SetupPurchaseRoutes sets up the checkout and verification routes
func SetupPurchaseRoutes(app *fiber.App, h *controllers.PurchaseController) {
	purchaseGroup := app.Group("/api/v1/purchase")

	purchaseGroup.Post("/checkout/create-order", middleware.JWTMiddleware, validators.CreateOrder(), h.CreateOrder)
	purchaseGroup.Post("/verify-payment", middleware.JWTMiddleware, validators.VerifyPayment(), h.VerifyPayment)
	purchaseGroup.Get("/course/:courseId/detail-with-status", middleware.JWTMiddleware, validators.CourseDetail(), h.GetCourseDetailWithStatus)
	purchaseGroup.Get("/", middleware.JWTMiddleware, h.GetAllPurchasedCourses)
}
