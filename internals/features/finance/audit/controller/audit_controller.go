package controller

import (
	"bytes"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"hopefoundation_backend/internals/features/finance/audit/dto"
	"hopefoundation_backend/internals/features/finance/audit/service"
	helper "hopefoundation_backend/internals/helpers"
)

type AuditController struct {
	Svc *service.AuditService
}

func NewAuditController(svc *service.AuditService) *AuditController {
	return &AuditController{Svc: svc}
}

// GET /api/a/audit/transactions?type=&date_from=&date_to=&page=&per_page=
func (ctrl *AuditController) Transactions(c *fiber.Ctx) error {
	var f dto.Filter
	if err := c.QueryParser(&f); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid query")
	}
	res, err := ctrl.Svc.Feed(c.UserContext(), f)
	if err != nil {
		return helper.FromDomainError(c, err)
	}
	page, pg := helper.PageSlice(res.Entries, helper.ResolvePaging(c, 50, 500))
	return c.JSON(fiber.Map{
		"success":    true,
		"message":    "ok",
		"data":       page,
		"summary":    res.Summary,
		"pagination": pg,
	})
}

// GET /api/a/audit/export?format=csv|xlsx|html&type=&date_from=&date_to=
func (ctrl *AuditController) Export(c *fiber.Ctx) error {
	var q dto.ExportQuery
	if err := c.QueryParser(&q); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid query")
	}
	var buf bytes.Buffer
	format, err := ctrl.Svc.Export(c.UserContext(), &buf, q.Filter(), q.Format)
	if err != nil {
		return helper.FromDomainError(c, err)
	}

	c.Set(fiber.HeaderContentType, service.ContentType(format))
	if format != service.FormatHTML {
		name := fmt.Sprintf("transactions_%s.%s", time.Now().Format("20060102_150405"), format)
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	}
	return c.Send(buf.Bytes())
}

// POST /api/a/audit/archive {format, type, date_from, date_to}
func (ctrl *AuditController) Archive(c *fiber.Ctx) error {
	var req dto.ArchiveRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
		}
	}
	res, err := ctrl.Svc.ArchiveReport(c.UserContext(), req.Filter(), req.Format)
	if err != nil {
		return helper.FromDomainError(c, err)
	}
	return helper.JsonCreated(c, "report archived", res)
}
