package route

import (
	"github.com/gofiber/fiber/v2"

	"hopefoundation_backend/internals/constants"
	auditController "hopefoundation_backend/internals/features/finance/audit/controller"
	auditService "hopefoundation_backend/internals/features/finance/audit/service"
	authMiddleware "hopefoundation_backend/internals/middlewares/auth"
)

// AuditAdminRoutes: /api/a. Semua role staff boleh baca; arsip ke S3 hanya admin/staff.
func AuditAdminRoutes(r fiber.Router, svc *auditService.AuditService) {
	ctrl := auditController.NewAuditController(svc)
	writers := authMiddleware.OnlyRoles(constants.RoleErrorWriter("audit archives"), constants.LedgerWriters...)

	audit := r.Group("/audit")
	audit.Get("/transactions", ctrl.Transactions)
	audit.Get("/export", ctrl.Export)
	audit.Post("/archive", writers, ctrl.Archive)
}
