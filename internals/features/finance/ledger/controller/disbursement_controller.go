package controller

import (
	"github.com/gofiber/fiber/v2"

	"hopefoundation_backend/internals/features/finance/ledger/dto"
	helper "hopefoundation_backend/internals/helpers"
)

// POST /api/a/disbursements
func (ctrl *LedgerController) CreateDisbursement(c *fiber.Ctx) error {
	var req dto.CreateDisbursementRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	d, err := ctrl.Svc.RecordDisbursement(c.UserContext(), req, helper.ActorID(c))
	if err != nil {
		return helper.FromDomainError(c, err)
	}
	return helper.JsonCreated(c, "disbursement recorded", d)
}

// GET /api/a/disbursements?status=&category=&start_date=&end_date=&page=&per_page=
func (ctrl *LedgerController) ListDisbursements(c *fiber.Ctx) error {
	var q dto.ListDisbursementsQuery
	if err := c.QueryParser(&q); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid query")
	}
	f, err := q.ToFilter(ctrl.Svc.Loc)
	if err != nil {
		return helper.FromDomainError(c, err)
	}
	rows, err := ctrl.Svc.ListDisbursements(c.UserContext(), f)
	if err != nil {
		return helper.FromDomainError(c, err)
	}
	page, pg := helper.PageSlice(rows, helper.ResolvePaging(c, 20, 200))
	return helper.JsonList(c, "", page, &pg)
}

// GET /api/a/disbursements/:id
func (ctrl *LedgerController) GetDisbursement(c *fiber.Ctx) error {
	id, err := helper.ParseIDParam(c, "id")
	if err != nil {
		return helper.FromDomainError(c, err)
	}
	d, err := ctrl.Svc.GetDisbursement(c.UserContext(), id)
	if err != nil {
		return helper.FromDomainError(c, err)
	}
	return helper.JsonOK(c, "", d)
}

// PATCH /api/a/disbursements/:id/status
func (ctrl *LedgerController) UpdateDisbursementStatus(c *fiber.Ctx) error {
	id, err := helper.ParseIDParam(c, "id")
	if err != nil {
		return helper.FromDomainError(c, err)
	}
	var req dto.UpdateDisbursementStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	d, err := ctrl.Svc.UpdateDisbursementStatus(c.UserContext(), id, req.Status, helper.ActorID(c))
	if err != nil {
		return helper.FromDomainError(c, err)
	}
	return helper.JsonUpdated(c, "disbursement status updated", d)
}

// DELETE /api/a/disbursements/:id
func (ctrl *LedgerController) DeleteDisbursement(c *fiber.Ctx) error {
	id, err := helper.ParseIDParam(c, "id")
	if err != nil {
		return helper.FromDomainError(c, err)
	}
	if err := ctrl.Svc.DeleteDisbursement(c.UserContext(), id, helper.ActorID(c), deleteReason(c)); err != nil {
		return helper.FromDomainError(c, err)
	}
	return helper.JsonDeleted(c, "disbursement deleted", fiber.Map{"disbursement_id": id})
}
