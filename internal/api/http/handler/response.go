package handler

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/clinica_backend/internal/model"
	"github.com/Alijeyrad/clinica_backend/pkg/apperr"
	"github.com/Alijeyrad/clinica_backend/pkg/reqctx"
)

type errorBody struct {
	Error     string            `json:"error"`
	Kind      apperr.Kind       `json:"kind,omitempty"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

func ok(c fiber.Ctx, data any) error {
	return c.JSON(fiber.Map{"data": data})
}

func created(c fiber.Ctx, data any) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": data})
}

func page(c fiber.Ctx, data any, meta model.PageMeta) error {
	return c.JSON(fiber.Map{"data": data, "meta": meta})
}

// statusOf maps an error kind to its HTTP status.
func statusOf(k apperr.Kind) int {
	switch k {
	case apperr.KindNotFound:
		return fiber.StatusNotFound
	case apperr.KindConflict:
		return fiber.StatusConflict
	case apperr.KindValidation, apperr.KindInvalidState:
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// fail writes err as a JSON error response. Service errors keep their
// message; anything unclassified is logged and reported as a 500.
func fail(c fiber.Ctx, err error) error {
	ctx := c.Context()
	body := errorBody{RequestID: reqctx.RequestIDFromContext(ctx)}

	var ae *apperr.Error
	var fe *fiber.Error
	switch {
	case errors.As(err, &ae):
		body.Error, body.Kind, body.Fields = ae.Error(), ae.Kind, ae.Fields
		return c.Status(statusOf(ae.Kind)).JSON(body)
	case errors.As(err, &fe):
		body.Error = fe.Message
		return c.Status(fe.Code).JSON(body)
	default:
		slog.ErrorContext(ctx, "request failed", "method", c.Method(), "path", c.Path(), "err", err)
		body.Error = "internal server error"
		return c.Status(fiber.StatusInternalServerError).JSON(body)
	}
}

// ErrorHandler is the fiber.Config error handler so middleware errors share
// the same body shape.
func ErrorHandler(c fiber.Ctx, err error) error {
	return fail(c, err)
}
