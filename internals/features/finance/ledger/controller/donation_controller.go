package controller

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"hopefoundation_backend/internals/features/finance/ledger/dto"
	"hopefoundation_backend/internals/features/finance/ledger/service"
	helper "hopefoundation_backend/internals/helpers"
)

type LedgerController struct {
	Svc *service.LedgerService
}

func NewLedgerController(svc *service.LedgerService) *LedgerController {
	return &LedgerController{Svc: svc}
}

/* ===================== Donations ===================== */

// POST /api/a/donations (entri manual oleh staff)
func (ctrl *LedgerController) CreateDonation(c *fiber.Ctx) error {
	var req dto.CreateDonationRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	d, err := ctrl.Svc.RecordDonation(c.UserContext(), req, helper.ActorID(c))
	if err != nil {
		return helper.FromDomainError(c, err)
	}
	return helper.JsonCreated(c, "donation recorded", d)
}

// GET /api/a/donations?status=&method=&start_date=&end_date=&page=&per_page=
func (ctrl *LedgerController) ListDonations(c *fiber.Ctx) error {
	var q dto.ListDonationsQuery
	if err := c.QueryParser(&q); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid query")
	}
	f, err := q.ToFilter(ctrl.Svc.Loc)
	if err != nil {
		return helper.FromDomainError(c, err)
	}
	rows, err := ctrl.Svc.ListDonations(c.UserContext(), f)
	if err != nil {
		return helper.FromDomainError(c, err)
	}
	page, pg := helper.PageSlice(rows, helper.ResolvePaging(c, 20, 200))
	return helper.JsonList(c, "", page, &pg)
}

// GET /api/a/donations/:id
func (ctrl *LedgerController) GetDonation(c *fiber.Ctx) error {
	id, err := helper.ParseIDParam(c, "id")
	if err != nil {
		return helper.FromDomainError(c, err)
	}
	d, err := ctrl.Svc.GetDonation(c.UserContext(), id)
	if err != nil {
		return helper.FromDomainError(c, err)
	}
	return helper.JsonOK(c, "", d)
}

// PATCH /api/a/donations/:id/status
func (ctrl *LedgerController) UpdateDonationStatus(c *fiber.Ctx) error {
	id, err := helper.ParseIDParam(c, "id")
	if err != nil {
		return helper.FromDomainError(c, err)
	}
	var req dto.UpdateDonationStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	d, err := ctrl.Svc.UpdateDonationStatus(c.UserContext(), id, req.Status, helper.ActorID(c))
	if err != nil {
		return helper.FromDomainError(c, err)
	}
	return helper.JsonUpdated(c, "donation status updated", d)
}

// DELETE /api/a/donations/:id  body {reason} atau ?reason=
func (ctrl *LedgerController) DeleteDonation(c *fiber.Ctx) error {
	id, err := helper.ParseIDParam(c, "id")
	if err != nil {
		return helper.FromDomainError(c, err)
	}
	reason := deleteReason(c)
	if err := ctrl.Svc.DeleteDonation(c.UserContext(), id, helper.ActorID(c), reason); err != nil {
		return helper.FromDomainError(c, err)
	}
	return helper.JsonDeleted(c, "donation deleted", fiber.Map{"donation_id": id})
}

/* ===================== Ledger ===================== */

// GET /api/a/ledger/stats
func (ctrl *LedgerController) Stats(c *fiber.Ctx) error {
	st, err := ctrl.Svc.Stats(c.UserContext())
	if err != nil {
		return helper.FromDomainError(c, err)
	}
	return helper.JsonOK(c, "", st)
}

// GET /api/a/ledger/balance
func (ctrl *LedgerController) Balance(c *fiber.Ctx) error {
	bal, err := ctrl.Svc.Balance(c.UserContext())
	if err != nil {
		return helper.FromDomainError(c, err)
	}
	return helper.JsonOK(c, "", fiber.Map{
		"total_funds":       bal.TotalFunds,
		"total_disbursed":   bal.TotalDisbursed,
		"available_balance": bal.Available(),
		"version":           bal.Version,
	})
}

// POST /api/o/ledger/rebuild
func (ctrl *LedgerController) RebuildBalance(c *fiber.Ctx) error {
	report, err := ctrl.Svc.RebuildBalance(c.UserContext())
	if err != nil {
		return helper.FromDomainError(c, err)
	}
	return helper.JsonOK(c, "balance rebuilt", report)
}

func deleteReason(c *fiber.Ctx) string {
	var req dto.DeleteRequest
	if len(c.Body()) > 0 {
		_ = c.BodyParser(&req)
	}
	if strings.TrimSpace(req.Reason) == "" {
		req.Reason = c.Query("reason")
	}
	return req.Reason
}
