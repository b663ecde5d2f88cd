package errx

import (
	"errors"

	"github.com/Abraxas-365/taskboard/pkg/logx"
	"github.com/gofiber/fiber/v2"
)

// Response is the JSON body written for failed requests
type Response struct {
	Error     string         `json:"error"`
	Code      string         `json:"code"`
	Type      string         `json:"type"`
	Status    int            `json:"status"`
	Details   map[string]any `json:"details,omitempty"`
	RequestID string         `json:"request_id,omitempty"`
}

// ToResponse converts any error into the JSON body and status to send
func ToResponse(err error) Response {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return Response{
			Error:  fe.Message,
			Code:   "FIBER_ERROR",
			Type:   string(TypeValidation),
			Status: fe.Code,
		}
	}

	var e *Error
	if errors.As(err, &e) {
		return Response{
			Error:   e.Message,
			Code:    e.Code,
			Type:    string(e.Type),
			Status:  e.HTTPStatus,
			Details: e.Details,
		}
	}

	return Response{
		Error:  "An unexpected error occurred",
		Code:   "INTERNAL_ERROR",
		Type:   string(TypeInternal),
		Status: fiber.StatusInternalServerError,
	}
}

// FiberErrorHandler is a fiber.Config ErrorHandler that logs the failure and
// renders it through ToResponse
func FiberErrorHandler(c *fiber.Ctx, err error) error {
	requestID, _ := c.Locals("requestid").(string)

	logx.WithFields(logx.Fields{
		"path":       c.Path(),
		"method":     c.Method(),
		"ip":         c.IP(),
		"request_id": requestID,
	}).WithError(err).Warn("request failed")

	resp := ToResponse(err)
	resp.RequestID = requestID
	return c.Status(resp.Status).JSON(resp)
}
