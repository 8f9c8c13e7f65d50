package controller

import (
	"github.com/gofiber/fiber/v2"

	"hopefoundation_backend/internals/features/finance/allocations/dto"
	"hopefoundation_backend/internals/features/finance/allocations/service"
	helper "hopefoundation_backend/internals/helpers"
)

type AllocationController struct {
	Svc *service.AllocationService
}

func NewAllocationController(svc *service.AllocationService) *AllocationController {
	return &AllocationController{Svc: svc}
}

/* ===================== Utilization ratios ===================== */

// GET /api/public/utilization-ratios
func (ctrl *AllocationController) GetUtilizationRatios(c *fiber.Ctx) error {
	rows, err := ctrl.Svc.GetUtilizationRatios(c.UserContext())
	if err != nil {
		return helper.FromDomainError(c, err)
	}
	return helper.JsonOK(c, "", rows)
}

// PUT /api/a/utilization-ratios
func (ctrl *AllocationController) SetUtilizationRatios(c *fiber.Ctx) error {
	var req dto.SetUtilizationRatiosRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	rows, err := ctrl.Svc.SetUtilizationRatios(c.UserContext(), req, helper.ActorID(c))
	if err != nil {
		return helper.FromDomainError(c, err)
	}
	return helper.JsonUpdated(c, "utilization ratios updated", rows)
}

/* ===================== Institutions ===================== */

// GET /api/public/institutions?sector=&status=&city=
func (ctrl *AllocationController) ListInstitutions(c *fiber.Ctx) error {
	var f dto.InstitutionFilter
	if err := c.QueryParser(&f); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid query")
	}
	rows, err := ctrl.Svc.ListInstitutions(c.UserContext(), f)
	if err != nil {
		return helper.FromDomainError(c, err)
	}
	state, err := ctrl.Svc.AllocationState(c.UserContext())
	if err != nil {
		return helper.FromDomainError(c, err)
	}
	return helper.JsonOK(c, "", dto.InstitutionsResponse{Institutions: rows, AllocationState: state})
}

// GET /api/public/institutions/:id
func (ctrl *AllocationController) GetInstitution(c *fiber.Ctx) error {
	id, err := helper.ParseIDParam(c, "id")
	if err != nil {
		return helper.FromDomainError(c, err)
	}
	inst, err := ctrl.Svc.GetInstitution(c.UserContext(), id)
	if err != nil {
		return helper.FromDomainError(c, err)
	}
	return helper.JsonOK(c, "", inst)
}

// GET /api/a/institutions/stats
func (ctrl *AllocationController) InstitutionStats(c *fiber.Ctx) error {
	st, err := ctrl.Svc.InstitutionStats(c.UserContext())
	if err != nil {
		return helper.FromDomainError(c, err)
	}
	return helper.JsonOK(c, "", st)
}

// POST /api/a/institutions
func (ctrl *AllocationController) AddInstitution(c *fiber.Ctx) error {
	var req dto.CreateInstitutionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	resp, err := ctrl.Svc.AddInstitution(c.UserContext(), req)
	if err != nil {
		return helper.FromDomainError(c, err)
	}
	return helper.JsonCreated(c, "institution added", resp)
}

// PATCH /api/a/institutions/:id
func (ctrl *AllocationController) UpdateInstitution(c *fiber.Ctx) error {
	id, err := helper.ParseIDParam(c, "id")
	if err != nil {
		return helper.FromDomainError(c, err)
	}
	var req dto.UpdateInstitutionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	resp, err := ctrl.Svc.UpdateInstitution(c.UserContext(), id, req)
	if err != nil {
		return helper.FromDomainError(c, err)
	}
	return helper.JsonUpdated(c, "institution updated", resp)
}

// PUT /api/a/institutions/allocations
func (ctrl *AllocationController) SetInstitutionAllocations(c *fiber.Ctx) error {
	var req dto.SetInstitutionAllocationsRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	resp, err := ctrl.Svc.SetInstitutionAllocations(c.UserContext(), req)
	if err != nil {
		return helper.FromDomainError(c, err)
	}
	return helper.JsonUpdated(c, "allocations updated", resp)
}

// DELETE /api/a/institutions/:id
func (ctrl *AllocationController) DeleteInstitution(c *fiber.Ctx) error {
	id, err := helper.ParseIDParam(c, "id")
	if err != nil {
		return helper.FromDomainError(c, err)
	}
	state, err := ctrl.Svc.DeleteInstitution(c.UserContext(), id)
	if err != nil {
		return helper.FromDomainError(c, err)
	}
	return helper.JsonDeleted(c, "institution deleted", state)
}
