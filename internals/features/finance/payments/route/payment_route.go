package route

import (
	"github.com/gofiber/fiber/v2"

	paymentController "hopefoundation_backend/internals/features/finance/payments/controller"
	paymentService "hopefoundation_backend/internals/features/finance/payments/service"
	"hopefoundation_backend/internals/middlewares"
)

// PaymentPublicRoutes: /api/public (tanpa login)
func PaymentPublicRoutes(r fiber.Router, svc *paymentService.PaymentService) {
	ctrl := paymentController.NewPaymentController(svc)

	r.Post("/donations/checkout", middlewares.DonationRateLimiter(), ctrl.Checkout)
	r.Get("/donations/checkout/:order_id", ctrl.Status)
	r.Post("/payments/midtrans/notification", ctrl.Notification)
}
