package route

import (
	"github.com/gofiber/fiber/v2"

	"hopefoundation_backend/internals/constants"
	ledgerController "hopefoundation_backend/internals/features/finance/ledger/controller"
	ledgerService "hopefoundation_backend/internals/features/finance/ledger/service"
	authMiddleware "hopefoundation_backend/internals/middlewares/auth"
)

// LedgerAdminRoutes: /api/a. Baca untuk semua role staff, tulis hanya admin/staff.
func LedgerAdminRoutes(r fiber.Router, svc *ledgerService.LedgerService) {
	ctrl := ledgerController.NewLedgerController(svc)
	writers := authMiddleware.OnlyRoles(constants.RoleErrorWriter("the ledger"), constants.LedgerWriters...)

	donations := r.Group("/donations")
	donations.Get("/", ctrl.ListDonations)
	donations.Get("/:id", ctrl.GetDonation)
	donations.Post("/", writers, ctrl.CreateDonation)
	donations.Patch("/:id/status", writers, ctrl.UpdateDonationStatus)
	donations.Delete("/:id", writers, ctrl.DeleteDonation)

	disbursements := r.Group("/disbursements")
	disbursements.Get("/", ctrl.ListDisbursements)
	disbursements.Get("/:id", ctrl.GetDisbursement)
	disbursements.Post("/", writers, ctrl.CreateDisbursement)
	disbursements.Patch("/:id/status", writers, ctrl.UpdateDisbursementStatus)
	disbursements.Delete("/:id", writers, ctrl.DeleteDisbursement)

	ledger := r.Group("/ledger")
	ledger.Get("/stats", ctrl.Stats)
	ledger.Get("/balance", ctrl.Balance)
}

// LedgerOwnerRoutes: /api/o (admin)
func LedgerOwnerRoutes(r fiber.Router, svc *ledgerService.LedgerService) {
	ctrl := ledgerController.NewLedgerController(svc)

	r.Post("/ledger/rebuild", ctrl.RebuildBalance)
}
