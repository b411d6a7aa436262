package courseController

import (
	"log"
	"time"

	"portal/config"
	"portal/database"
	"portal/middleware"
	"portal/models"
	courseService "portal/services/course"
	paymentService "portal/services/payment"
	courseValidator "portal/validators/course"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
)

// Gateway charges course payments. When unset it is built from configuration.
var Gateway paymentService.Gateway

func gateway() paymentService.Gateway {
	if Gateway == nil {
		Gateway = paymentService.NewGateway(config.AppConfig)
	}
	return Gateway
}

func Checkout(c *fiber.Ctx) error {
	courseID := middleware.LocalID(c, "courseID")
	db := database.Database.Db

	crs, err := courseService.ActiveCourse(db, courseID)
	if err != nil {
		return courseError(c, err, "load checkout")
	}

	enrollment, err := courseService.GetEnrollment(db, middleware.CurrentUserID(c), crs.ID)
	if err != nil && !errors.Is(err, courseService.ErrNotEnrolled) {
		return courseError(c, err, "load checkout")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Checkout details fetched successfully!", fiber.Map{
		"course":      crs,
		"pricing":     paymentService.Quote(crs.Price, config.AppConfig.CourseTaxRate),
		"is_enrolled": err == nil,
		"is_paid":     err == nil && enrollment.IsPaid,
	})
}

func Pay(c *fiber.Ctx) error {
	courseID := middleware.LocalID(c, "courseID")
	db := database.Database.Db

	var user models.User
	if err := db.First(&user, middleware.CurrentUserID(c)).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	payment, enrollment, err := paymentService.Pay(db, gateway(), &user, courseID, config.AppConfig.CourseTaxRate, time.Now())
	if err != nil {
		if errors.Is(err, paymentService.ErrAlreadyPaid) {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "You have already paid for this course.", nil)
		}
		if errors.Is(err, courseService.ErrNotEnrolled) {
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Please enroll in the course before paying.", fiber.Map{"next": "course_detail"})
		}
		log.Printf("[PAYMENT] Error paying course %d for user %d: %v", courseID, user.ID, err)
		return middleware.JsonResponse(c, fiber.StatusBadGateway, false, "Payment could not be processed. Please try again.", nil)
	}

	if payment == nil || payment.Status == models.PaymentPaid {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Payment successful! Enjoy your course.", fiber.Map{
			"payment":    payment,
			"enrollment": enrollment,
			"next":       "course_detail",
		})
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Complete the payment to unlock your course.", fiber.Map{
		"payment":      payment,
		"token":        payment.GatewayToken,
		"redirect_url": payment.RedirectURL,
		"next":         "payment_gateway",
	})
}

// PaymentNotification applies a gateway status callback.
func PaymentNotification(c *fiber.Ctx) error {
	reqData := c.Locals("validatedNotification").(*courseValidator.PaymentNotification)

	payload := map[string]interface{}{}
	if err := c.BodyParser(&payload); err != nil {
		payload = map[string]interface{}{"order_id": reqData.OrderID, "transaction_status": reqData.TransactionStatus}
	}

	payment, err := paymentService.HandleNotification(database.Database.Db, config.AppConfig.MidtransServerKey, paymentService.Notification{
		OrderID:           reqData.OrderID,
		TransactionStatus: reqData.TransactionStatus,
		StatusCode:        reqData.StatusCode,
		GrossAmount:       reqData.GrossAmount,
		SignatureKey:      reqData.SignatureKey,
		Payload:           payload,
	}, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, paymentService.ErrInvalidSignature):
			log.Printf("[PAYMENT] Rejected unsigned notification for %s from %s", reqData.OrderID, c.IP())
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Invalid notification signature.", nil)
		case errors.Is(err, paymentService.ErrAmountMismatch):
			return middleware.JsonResponse(c, fiber.StatusUnprocessableEntity, false, "Notification amount does not match the payment.", nil)
		case errors.Is(err, paymentService.ErrPaymentNotFound):
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Payment not found!", nil)
		case errors.Is(err, paymentService.ErrUnknownStatus):
			return middleware.JsonResponse(c, fiber.StatusUnprocessableEntity, false, "Unknown transaction status.", nil)
		case errors.Is(err, paymentService.ErrPaymentFinalized):
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Payment already finalized.", nil)
		}
		log.Printf("[PAYMENT] Error handling notification for %s: %v", reqData.OrderID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process notification!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Notification processed.", fiber.Map{"status": payment.Status})
}
