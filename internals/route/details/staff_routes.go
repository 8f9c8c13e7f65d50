package details

import (
	"github.com/gofiber/fiber/v2"

	staffRoute "hopefoundation_backend/internals/features/users/staff/route"
	staffService "hopefoundation_backend/internals/features/users/staff/service"
)

func AuthRoutes(r fiber.Router, svc *staffService.StaffService) {
	staffRoute.StaffAuthRoutes(r, svc)
}

func StaffAdminRoutes(r fiber.Router, svc *staffService.StaffService) {
	staffRoute.StaffAdminRoutes(r, svc)
}

func StaffOwnerRoutes(r fiber.Router, svc *staffService.StaffService) {
	staffRoute.StaffOwnerRoutes(r, svc)
}
