package controller

import (
	"github.com/gofiber/fiber/v2"

	"hopefoundation_backend/internals/features/finance/reconciliation/service"
	helper "hopefoundation_backend/internals/helpers"
)

type ReconciliationController struct {
	Svc *service.ReconciliationService
}

func NewReconciliationController(svc *service.ReconciliationService) *ReconciliationController {
	return &ReconciliationController{Svc: svc}
}

// GET /api/public/summary
func (ctrl *ReconciliationController) Summary(c *fiber.Ctx) error {
	sum, err := ctrl.Svc.Summary(c.UserContext())
	if err != nil {
		return helper.FromDomainError(c, err)
	}
	return helper.JsonOK(c, "", sum)
}

// GET /api/a/ledger/integrity
func (ctrl *ReconciliationController) Integrity(c *fiber.Ctx) error {
	report, err := ctrl.Svc.IntegrityCheck(c.UserContext())
	if err != nil {
		return helper.FromDomainError(c, err)
	}
	return helper.JsonOK(c, "", report)
}
