package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/gestion-pyme/internal/application/dto"
	"github.com/jhoicas/gestion-pyme/internal/domain"
	"github.com/jhoicas/gestion-pyme/pkg/logger"
)

// requestError error de entrada detectado en la capa HTTP (cuerpo, query, parámetros).
type requestError struct {
	code    string
	message string
	details any
}

func (e *requestError) Error() string { return e.message }

func badRequest(code, message string, details any) error {
	return &requestError{code: code, message: message, details: details}
}

// mapError traduce un error a status HTTP y cuerpo estable. Los errores no clasificados nunca
// exponen su mensaje.
func mapError(err error) (int, dto.ErrorResponse) {
	var reqErr *requestError
	if errors.As(err, &reqErr) {
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: reqErr.code, Message: reqErr.message, Details: reqErr.details}
	}
	var stockErr *domain.InsufficientStockError
	if errors.As(err, &stockErr) {
		return fiber.StatusUnprocessableEntity, dto.ErrorResponse{
			Code:    "INSUFFICIENT_STOCK",
			Message: stockErr.Error(),
			Details: dto.InsufficientStockDetails{
				ProductID:   stockErr.ProductID,
				ProductCode: stockErr.Code,
				ProductName: stockErr.ProductName,
				Current:     stockErr.Current,
				Requested:   stockErr.Requested,
			},
		}
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code, dto.ErrorResponse{Code: codeForStatus(fe.Code), Message: fe.Message}
	}
	switch {
	case errors.Is(err, domain.ErrOperationConfirmed):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "OPERATION_CONFIRMED", Message: err.Error()}
	case errors.Is(err, domain.ErrOperationCancelled):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "OPERATION_CANCELLED", Message: err.Error()}
	case errors.Is(err, domain.ErrValidation):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()}
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"}
	case errors.Is(err, domain.ErrDuplicate):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "DUPLICATE", Message: "ya existe un registro con ese código"}
	case errors.Is(err, domain.ErrInUse):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "IN_USE", Message: "el recurso está referenciado por operaciones"}
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado"}
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "credenciales inválidas"}
	}
	return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"}
}

func codeForStatus(status int) string {
	switch status {
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case fiber.StatusBadRequest:
		return "INVALID_BODY"
	case fiber.StatusUnauthorized:
		return "UNAUTHORIZED"
	case fiber.StatusForbidden:
		return "FORBIDDEN"
	}
	return "INTERNAL"
}

// ErrorHandler responde los errores devueltos por los handlers. Los errores de configuración
// son bugs del servidor y se registran como ERROR; el resto de 5xx también se registra.
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status, body := mapError(err)
		if status >= fiber.StatusInternalServerError {
			ev := log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path())
			if errors.Is(err, domain.ErrConfiguration) {
				ev = ev.Str("kind", "configuration")
			}
			ev.Msg("error no controlado")
		}
		return c.Status(status).JSON(body)
	}
}
