package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Materiales-api/internal/application/dto"
	"github.com/jhoicas/Materiales-api/internal/domain"
)

// Códigos de error de la API.
const (
	CodeInvalidArgument   = "INVALID_ARGUMENT"
	CodeInvalidBody       = "INVALID_BODY"
	CodeNotFound          = "NOT_FOUND"
	CodeCapacityViolation = "CAPACITY_VIOLATION"
	CodeRetry             = "RETRY"
	CodeDuplicate         = "DUPLICATE"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeForbidden         = "FORBIDDEN"
	CodeInternal          = "INTERNAL"
)

func errorJSON(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: message})
}

func invalidBody(c *fiber.Ctx) error {
	return errorJSON(c, fiber.StatusBadRequest, CodeInvalidBody, "cuerpo inválido")
}

// decodeJSON decodifica el cuerpo con el decoder JSON de la app sin depender del Content-Type.
func decodeJSON(c *fiber.Ctx, v any) error {
	if len(c.Body()) == 0 {
		return errors.New("cuerpo vacío")
	}
	return c.App().Config().JSONDecoder(c.Body(), v)
}

// writeBatchError responde el rechazo de un lote: toda falla de validación es 400 y el code distingue la categoría.
func writeBatchError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return errorJSON(c, fiber.StatusBadRequest, CodeNotFound, err.Error())
	case errors.Is(err, domain.ErrCapacityViolation):
		return errorJSON(c, fiber.StatusBadRequest, CodeCapacityViolation, err.Error())
	case errors.Is(err, domain.ErrInvalidArgument):
		return errorJSON(c, fiber.StatusBadRequest, CodeInvalidArgument, err.Error())
	}
	return writeError(c, err)
}

// writeError traduce errores de dominio a respuestas HTTP (CRUD y auth).
func writeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrConflict):
		c.Set(fiber.HeaderRetryAfter, "1")
		return errorJSON(c, fiber.StatusConflict, CodeRetry, err.Error())
	case errors.Is(err, domain.ErrInvalidArgument):
		return errorJSON(c, fiber.StatusBadRequest, CodeInvalidArgument, err.Error())
	case errors.Is(err, domain.ErrCapacityViolation):
		return errorJSON(c, fiber.StatusBadRequest, CodeCapacityViolation, err.Error())
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return errorJSON(c, fiber.StatusNotFound, CodeNotFound, err.Error())
	case errors.Is(err, domain.ErrDuplicate), errors.Is(err, domain.ErrUsernameAlreadyTaken):
		return errorJSON(c, fiber.StatusConflict, CodeDuplicate, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		return errorJSON(c, fiber.StatusUnauthorized, CodeUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		return errorJSON(c, fiber.StatusForbidden, CodeForbidden, err.Error())
	}
	return errorJSON(c, fiber.StatusInternalServerError, CodeInternal, "error interno")
}

// ErrorHandler manejador de errores de fiber para lo que no responden los handlers (404 de ruta, panics recuperados).
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code := CodeInternal
		switch fe.Code {
		case fiber.StatusNotFound:
			code = CodeNotFound
		case fiber.StatusBadRequest, fiber.StatusUnprocessableEntity:
			code = CodeInvalidBody
		case fiber.StatusMethodNotAllowed:
			code = CodeInvalidArgument
		}
		return errorJSON(c, fe.Code, code, fe.Message)
	}
	return writeError(c, err)
}
