package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"hopefoundation_backend/internals/features/users/staff/dto"
	"hopefoundation_backend/internals/features/users/staff/service"
	helper "hopefoundation_backend/internals/helpers"
)

type StaffController struct {
	Svc *service.StaffService
}

func NewStaffController(svc *service.StaffService) *StaffController {
	return &StaffController{Svc: svc}
}

// POST /api/auth/login
func (ctrl *StaffController) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	resp, err := ctrl.Svc.Login(c.UserContext(), req)
	if err != nil {
		return helper.FromDomainError(c, err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    resp.AccessToken,
		HTTPOnly: true,
		Secure:   true,
		SameSite: "None",
		Path:     "/",
		Expires:  time.Unix(resp.ExpiresAt, 0),
	})
	return helper.JsonOK(c, "login successful", resp)
}

// POST /api/auth/logout
func (ctrl *StaffController) Logout(c *fiber.Ctx) error {
	c.ClearCookie("access_token")
	return helper.JsonOK(c, "logged out", nil)
}

// GET /api/a/staff/me
func (ctrl *StaffController) Me(c *fiber.Ctx) error {
	id, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromDomainError(c, err)
	}
	st, err := ctrl.Svc.Me(c.UserContext(), id)
	if err != nil {
		return helper.FromDomainError(c, err)
	}
	return helper.JsonOK(c, "", st)
}

// POST /api/o/staff
func (ctrl *StaffController) Create(c *fiber.Ctx) error {
	var req dto.CreateStaffRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	st, err := ctrl.Svc.CreateStaff(c.UserContext(), req)
	if err != nil {
		return helper.FromDomainError(c, err)
	}
	return helper.JsonCreated(c, "staff created", st)
}
