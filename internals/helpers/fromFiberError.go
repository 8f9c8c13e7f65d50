package helper

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"hopefoundation_backend/internals/features/finance/errs"
)

// FromDomainError mengubah error dari service finance menjadi response JSON
// dengan bentuk ErrorResponse. Detail StorageError hanya masuk log server;
// client cukup dapat correlation_id.
func FromDomainError(c *fiber.Ctx, err error) error {
	var (
		ve  *errs.ValidationError
		ife *errs.InsufficientFundsError
		ame *errs.AllocationMismatchError
		nfe *errs.NotFoundError
		se  *errs.StorageError
		fe  *fiber.Error
	)
	switch {
	case err == nil:
		return nil
	case errors.As(err, &ve):
		return JsonValidationError(c, ve.Messages)
	case errors.As(err, &ife):
		return c.Status(fiber.StatusConflict).JSON(ErrorResponse{
			Message:   ife.Error(),
			ErrorCode: "INSUFFICIENT_FUNDS",
			Details: fiber.Map{
				"available": ife.Available.StringFixed(2),
				"requested": ife.Requested.StringFixed(2),
			},
		})
	case errors.As(err, &ame):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(ErrorResponse{
			Message:   ame.Error(),
			ErrorCode: "ALLOCATION_MISMATCH",
			Details:   fiber.Map{"actual": ame.Actual},
		})
	case errors.As(err, &nfe):
		return JsonError(c, fiber.StatusNotFound, nfe.Error())
	case errors.As(err, &se):
		log.Printf("[ERROR] %s %s: %s (ref %s): %v", c.Method(), c.OriginalURL(), se.Op, se.CorrelationID, se.Err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Message:       "internal server error",
			ErrorCode:     "INTERNAL_ERROR",
			CorrelationID: se.CorrelationID,
		})
	case errors.As(err, &fe):
		return JsonError(c, fe.Code, fe.Message)
	default:
		log.Printf("[ERROR] %s %s: %v", c.Method(), c.OriginalURL(), err)
		return JsonError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
