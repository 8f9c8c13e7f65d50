package route

import (
	"github.com/gofiber/fiber/v2"

	reconController "hopefoundation_backend/internals/features/finance/reconciliation/controller"
	reconService "hopefoundation_backend/internals/features/finance/reconciliation/service"
)

// ReconciliationPublicRoutes: /api/public
func ReconciliationPublicRoutes(r fiber.Router, svc *reconService.ReconciliationService) {
	ctrl := reconController.NewReconciliationController(svc)

	r.Get("/summary", ctrl.Summary)
}

// ReconciliationAdminRoutes: /api/a
func ReconciliationAdminRoutes(r fiber.Router, svc *reconService.ReconciliationService) {
	ctrl := reconController.NewReconciliationController(svc)

	r.Get("/ledger/integrity", ctrl.Integrity)
}
