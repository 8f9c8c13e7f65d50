package controller

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"hopefoundation_backend/internals/features/finance/payments/dto"
	"hopefoundation_backend/internals/features/finance/payments/service"
	helper "hopefoundation_backend/internals/helpers"
)

type PaymentController struct {
	Svc *service.PaymentService
}

func NewPaymentController(svc *service.PaymentService) *PaymentController {
	return &PaymentController{Svc: svc}
}

// POST /api/public/donations/checkout
func (ctrl *PaymentController) Checkout(c *fiber.Ctx) error {
	var req dto.CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	resp, err := ctrl.Svc.Checkout(c.UserContext(), req)
	if err != nil {
		return helper.FromDomainError(c, err)
	}
	return helper.JsonCreated(c, "checkout created, continue to payment", resp)
}

// GET /api/public/donations/checkout/:order_id
func (ctrl *PaymentController) Status(c *fiber.Ctx) error {
	intent, err := ctrl.Svc.GetIntent(c.UserContext(), c.Params("order_id"))
	if err != nil {
		return helper.FromDomainError(c, err)
	}
	return helper.JsonOK(c, "", fiber.Map{
		"order_id": intent.PaymentIntentOrderID,
		"status":   intent.PaymentIntentStatus,
		"amount":   intent.PaymentIntentAmount,
	})
}

// POST /api/public/payments/midtrans/notification
// Hasil final (termasuk order tak dikenal) dijawab 200. Gangguan DB atau cek
// status dijawab 500 supaya Midtrans mengirim ulang.
func (ctrl *PaymentController) Notification(c *fiber.Ctx) error {
	var n dto.Notification
	if err := c.BodyParser(&n); err != nil {
		log.Printf("[WARN] midtrans notification: unreadable body: %v", err)
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ignored"})
	}
	res, err := ctrl.Svc.HandleNotification(c.UserContext(), n)
	if err != nil {
		log.Printf("[ERROR] midtrans notification %s: %v", n.OrderID, err)
		if service.Retryable(err) {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "retry", "order_id": n.OrderID})
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "error", "order_id": n.OrderID})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ok", "order_id": res.OrderID, "payment_status": res.Status})
}
