package entity

import (
	"time"

	"github.com/jhoicas/gestion-pyme/internal/domain"
	"github.com/shopspring/decimal"
)

// OperationType tipo de operación comercial.
type OperationType string

const (
	OperationSale     OperationType = "sale"
	OperationPurchase OperationType = "purchase"
)

// Valid indica si el tipo es uno de los admitidos.
func (t OperationType) Valid() bool {
	switch t {
	case OperationSale, OperationPurchase:
		return true
	}
	return false
}

// OperationStatus estado del ciclo de vida: draft -> confirmed -> cancelled, o draft -> cancelled.
type OperationStatus string

const (
	StatusDraft     OperationStatus = "draft"
	StatusConfirmed OperationStatus = "confirmed"
	StatusCancelled OperationStatus = "cancelled"
)

// Operation venta o compra de una empresa. Los totales se derivan de sus ítems.
type Operation struct {
	ID         string
	CompanyID  string
	Type       OperationType
	Number     string // secuencial por (empresa, tipo), 6 dígitos
	Date       time.Time
	CustomerID *string // solo ventas
	SupplierID *string // solo compras
	Status     OperationStatus
	Subtotal   decimal.Decimal
	Tax        decimal.Decimal
	Total      decimal.Decimal
	Notes      string
	CreatedBy  string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// CounterpartID devuelve el cliente (venta) o proveedor (compra), "" si no hay.
func (o *Operation) CounterpartID() string {
	var id *string
	if o.Type == OperationSale {
		id = o.CustomerID
	} else {
		id = o.SupplierID
	}
	if id == nil {
		return ""
	}
	return *id
}

// CheckModifiable devuelve error si la operación ya no admite cambios en sus ítems.
func (o *Operation) CheckModifiable() error {
	switch o.Status {
	case StatusDraft:
		return nil
	case StatusConfirmed:
		return domain.ErrOperationConfirmed
	case StatusCancelled:
		return domain.ErrOperationCancelled
	}
	return domain.Invalid("estado de operación desconocido: %s", o.Status)
}

// OperationItem línea de una operación. Subtotal = round(Quantity * UnitPrice, 2).
type OperationItem struct {
	ID          string
	OperationID string
	ProductID   string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
	CreatedAt   time.Time
}
