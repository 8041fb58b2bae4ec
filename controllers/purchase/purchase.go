package purchaseController

import (
	"lms/config"
	"lms/middleware"
	"lms/models"
	"lms/utils"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// PurchaseController handles the checkout and verification flow. The
// database, gateway client and config are injected so the flow can be
// exercised in tests with an in-memory database and a stub gateway.
type PurchaseController struct {
	DB      *gorm.DB
	Gateway *utils.RazorpayClient
	Cfg     *config.Config
}

func NewPurchaseController(db *gorm.DB, gateway *utils.RazorpayClient, cfg *config.Config) *PurchaseController {
	return &PurchaseController{DB: db, Gateway: gateway, Cfg: cfg}
}

// CreateOrder creates a pending purchase record and a Razorpay order for it.
// On success exactly one pending record exists for (user, course) carrying
// the gateway order id, ready for verification.
func (h *PurchaseController) CreateOrder(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedCreateOrder").(*struct {
		CourseID uint `json:"courseId"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Course ID is required!", nil)
	}

	var course models.Course
	if err := h.DB.Where("id = ? AND is_deleted = ?", reqData.CourseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	if course.Price == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course price!", nil)
	}

	// In production, prevent course creators from purchasing their own course
	if h.Cfg.Env == "production" && course.CreatorID == userID {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "You cannot purchase your own course!", nil)
	}

	// Check if user has already purchased the course
	var existing models.CoursePurchase
	if err := h.DB.Where("course_id = ? AND user_id = ? AND status = ?", course.ID, userID, models.PurchaseCompleted).
		First(&existing).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "You have already purchased this course!", nil)
	}

	receiptID := utils.GenerateReceiptID()

	purchase := models.CoursePurchase{
		CourseID:  course.ID,
		UserID:    userID,
		Amount:    course.Price,
		Currency:  "INR",
		Status:    models.PurchasePending,
		ReceiptID: receiptID,
		// PaymentID is unique; hold a receipt-derived placeholder until the
		// gateway order id replaces it. Placeholders never match a
		// verification lookup.
		PaymentID: "local_" + receiptID,
	}

	// Clear abandoned checkout attempts and insert the new pending record
	// in one transaction, so at most one pending row survives per pair.
	tx := h.DB.Begin()
	if err := tx.Where("course_id = ? AND user_id = ? AND status = ?", course.ID, userID, models.PurchasePending).
		Delete(&models.CoursePurchase{}).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create order!", nil)
	}
	if err := tx.Create(&purchase).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create order!", nil)
	}
	tx.Commit()

	order, err := h.Gateway.CreateOrder(utils.OrderRequest{
		Amount:   int64(course.Price) * 100, // amount in paise
		Currency: "INR",
		Receipt:  receiptID,
		Notes: map[string]string{
			"courseId":   strconv.FormatUint(uint64(course.ID), 10),
			"userId":     strconv.FormatUint(uint64(userID), 10),
			"courseName": utils.TruncateString(course.Title, 50),
		},
	})
	if err != nil {
		log.Printf("Razorpay order creation error: %v", err)
		if ferr := purchase.MarkFailed(h.DB, err.Error()); ferr != nil {
			log.Printf("Failed to mark purchase %d as failed: %v", purchase.ID, ferr)
		}
		return middleware.JsonResponse(c, fiber.StatusBadGateway, false, "Failed to create payment order!", nil)
	}

	if order.ID == "" {
		if ferr := purchase.MarkFailed(h.DB, "Invalid order response from Razorpay"); ferr != nil {
			log.Printf("Failed to mark purchase %d as failed: %v", purchase.ID, ferr)
		}
		return middleware.JsonResponse(c, fiber.StatusBadGateway, false, "Invalid order response from Razorpay!", nil)
	}

	// Store the gateway order id for the verification lookup
	purchase.PaymentID = order.ID
	if err := h.DB.Save(&purchase).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create order!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Order created successfully!", fiber.Map{
		"order":      order,
		"courseName": course.Title,
	})
}

// VerifyPayment validates the checkout callback, finalizes the purchase and
// grants course access. Re-verification of an already completed purchase is
// a no-op success so callback redelivery cannot double-process.
func (h *PurchaseController) VerifyPayment(c *fiber.Ctx) error {
	if _, ok := c.Locals("userId").(uint); !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedVerifyPayment").(*struct {
		RazorpayOrderID   string `json:"razorpay_order_id"`
		RazorpayPaymentID string `json:"razorpay_payment_id"`
		RazorpaySignature string `json:"razorpay_signature"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Missing required payment information!", nil)
	}

	// The signature is the callback's only trust signal. Recompute and
	// compare before touching any state.
	if !utils.VerifyPaymentSignature(reqData.RazorpayOrderID, reqData.RazorpayPaymentID, reqData.RazorpaySignature, h.Cfg.RazorpayKeySecret) {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid payment signature!", nil)
	}

	var purchase models.CoursePurchase
	if err := h.DB.Preload("Course").Where("payment_id = ?", reqData.RazorpayOrderID).First(&purchase).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Purchase record not found!", nil)
	}

	if purchase.Status == models.PurchaseCompleted {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Payment already processed!", fiber.Map{
			"courseId": purchase.CourseID,
		})
	}

	// Second authenticity check: the payment must actually be captured,
	// guarding against a replayed signature paired with a dead payment.
	payment, err := h.Gateway.FetchPayment(reqData.RazorpayPaymentID)
	if err != nil {
		log.Printf("Payment verification error: %v", err)
		if ferr := purchase.MarkFailed(h.DB, err.Error()); ferr != nil {
			log.Printf("Failed to mark purchase %d as failed: %v", purchase.ID, ferr)
		}
		return middleware.JsonResponse(c, fiber.StatusBadGateway, false, "Failed to verify payment!", nil)
	}

	if payment.Status != "captured" {
		if ferr := purchase.MarkFailed(h.DB, "Payment not captured by Razorpay"); ferr != nil {
			log.Printf("Failed to mark purchase %d as failed: %v", purchase.ID, ferr)
		}
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Payment not captured!", nil)
	}

	if err := purchase.MarkCompleted(h.DB, reqData.RazorpayPaymentID, reqData.RazorpaySignature); err != nil {
		log.Printf("Failed to complete purchase %d: %v", purchase.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to verify payment!", nil)
	}

	// The purchase is completed at this point. Access grant errors are
	// surfaced but never roll the status back; the reconciler re-runs the
	// idempotent grant for purchases left partially applied.
	if err := utils.GrantCourseAccess(h.DB, purchase.UserID, purchase.CourseID); err != nil {
		log.Printf("Failed to grant course access for purchase %d: %v", purchase.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Payment captured but enrollment failed, it will be retried!", nil)
	}

	go func(userID uint, course models.Course, amount uint) {
		var user models.User
		if err := h.DB.Select("name, email").First(&user, userID).Error; err == nil && user.Email != "" {
			utils.SendPurchaseConfirmationEmail(user.Email, user.Name, course.Title, amount)
		}
	}(purchase.UserID, purchase.Course, purchase.Amount)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payment verified successfully!", fiber.Map{
		"courseId": purchase.CourseID,
	})
}

// GetCourseDetailWithStatus returns the course with creator and lectures,
// plus whether any purchase record exists for the requesting user. Note:
// this intentionally counts records of any status, mirroring the looser
// check the storefront has always used (a failed attempt still flips the
// flag), while CreateOrder's duplicate check requires completed.
func (h *PurchaseController) GetCourseDetailWithStatus(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID, ok := c.Locals("courseID").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Course ID is required!", nil)
	}

	var course models.Course
	if err := h.DB.Preload("Creator").Preload("Lectures").
		Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var count int64
	if err := h.DB.Model(&models.CoursePurchase{}).
		Where("course_id = ? AND user_id = ?", courseID, userID).
		Count(&count).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to get course details!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course details fetched successfully!", fiber.Map{
		"course":    course,
		"purchased": count > 0,
	})
}

// GetAllPurchasedCourses returns every completed purchase with its course,
// used by the instructor dashboard for counts and revenue sums.
func (h *PurchaseController) GetAllPurchasedCourses(c *fiber.Ctx) error {
	if _, ok := c.Locals("userId").(uint); !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var purchases []models.CoursePurchase
	if err := h.DB.Preload("Course").
		Where("status = ?", models.PurchaseCompleted).
		Order("created_at desc").
		Find(&purchases).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to get purchased courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Purchased courses fetched successfully!", fiber.Map{
		"purchasedCourse": purchases,
	})
}
