package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias de infraestructura).
// La capa HTTP traduce cada uno a un código estable; nunca se exponen errores crudos de la BD.
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrValidation        = errors.New("datos inválidos")
	ErrConfiguration     = errors.New("error de configuración")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrInUse             = errors.New("el recurso está referenciado por operaciones")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrInsufficientStock = errors.New("stock insuficiente")
)

// ErrNoCompany se produce al invocar una consulta multi-tenant sin empresa. Es un bug del caller.
var ErrNoCompany = fmt.Errorf("%w: se requiere una empresa para filtrar", ErrConfiguration)

// ValidationError describe una precondición violada por datos del caller.
// errors.Is(err, ErrValidation) es verdadero para cualquier ValidationError.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Invalid construye un ValidationError con mensaje formateado.
func Invalid(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// Estados que bloquean la modificación de una operación. Se comparan por identidad con errors.Is.
var (
	ErrOperationConfirmed = &ValidationError{Reason: "no se pueden modificar operaciones confirmadas"}
	ErrOperationCancelled = &ValidationError{Reason: "no se pueden modificar operaciones canceladas"}
)

// InsufficientStockError detalla el producto que impidió confirmar una venta.
type InsufficientStockError struct {
	ProductID   string
	ProductName string
	Code        string
	Current     decimal.Decimal
	Requested   decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para %s (%s): disponible %s, solicitado %s",
		e.ProductName, e.Code, e.Current.String(), e.Requested.String())
}

// Unwrap permite errors.Is(err, ErrInsufficientStock) y errors.Is(err, ErrValidation).
func (e *InsufficientStockError) Unwrap() []error {
	return []error{ErrInsufficientStock, ErrValidation}
}
