package route

import (
	"github.com/gofiber/fiber/v2"

	staffController "hopefoundation_backend/internals/features/users/staff/controller"
	staffService "hopefoundation_backend/internals/features/users/staff/service"
	"hopefoundation_backend/internals/middlewares"
)

// StaffAuthRoutes: /api/auth (tanpa JWT)
func StaffAuthRoutes(r fiber.Router, svc *staffService.StaffService) {
	ctrl := staffController.NewStaffController(svc)

	r.Post("/login", middlewares.LoginRateLimiter(), ctrl.Login)
	r.Post("/logout", ctrl.Logout)
}

// StaffAdminRoutes: /api/a (JWT, semua role staff)
func StaffAdminRoutes(r fiber.Router, svc *staffService.StaffService) {
	ctrl := staffController.NewStaffController(svc)

	r.Get("/staff/me", ctrl.Me)
}

// StaffOwnerRoutes: /api/o (JWT + admin)
func StaffOwnerRoutes(r fiber.Router, svc *staffService.StaffService) {
	ctrl := staffController.NewStaffController(svc)

	r.Post("/staff", ctrl.Create)
}
