package route

import (
	"github.com/gofiber/fiber/v2"

	"hopefoundation_backend/internals/constants"
	allocController "hopefoundation_backend/internals/features/finance/allocations/controller"
	allocService "hopefoundation_backend/internals/features/finance/allocations/service"
	authMiddleware "hopefoundation_backend/internals/middlewares/auth"
)

// AllocationPublicRoutes: /api/public (tanpa login)
func AllocationPublicRoutes(r fiber.Router, svc *allocService.AllocationService) {
	ctrl := allocController.NewAllocationController(svc)

	r.Get("/utilization-ratios", ctrl.GetUtilizationRatios)
	r.Get("/institutions", ctrl.ListInstitutions)
	r.Get("/institutions/:id", ctrl.GetInstitution)
}

// AllocationAdminRoutes: /api/a
func AllocationAdminRoutes(r fiber.Router, svc *allocService.AllocationService) {
	ctrl := allocController.NewAllocationController(svc)
	writers := authMiddleware.OnlyRoles(constants.RoleErrorWriter("allocations"), constants.LedgerWriters...)

	r.Put("/utilization-ratios", writers, ctrl.SetUtilizationRatios)

	inst := r.Group("/institutions")
	inst.Get("/stats", ctrl.InstitutionStats)
	inst.Put("/allocations", writers, ctrl.SetInstitutionAllocations)
	inst.Post("/", writers, ctrl.AddInstitution)
	inst.Patch("/:id", writers, ctrl.UpdateInstitution)
	inst.Delete("/:id", writers, ctrl.DeleteInstitution)
}
