package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateOperationRequest alta de una venta o compra en borrador.
type CreateOperationRequest struct {
	Type       string `json:"type" validate:"required,oneof=sale purchase"`
	Date       string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	CustomerID string `json:"customer_id" validate:"omitempty,uuid"`
	SupplierID string `json:"supplier_id" validate:"omitempty,uuid"`
	Notes      string `json:"notes" validate:"max=2000"`
}

// OperationQuery filtros del listado de operaciones.
type OperationQuery struct {
	Type          string `query:"type" validate:"omitempty,oneof=sale purchase"`
	Status        string `query:"status" validate:"omitempty,oneof=draft confirmed cancelled"`
	CounterpartID string `query:"counterpart_id" validate:"omitempty,uuid"`
	From          string `query:"from" validate:"omitempty,datetime=2006-01-02"`
	To            string `query:"to" validate:"omitempty,datetime=2006-01-02"`
	Limit         int    `query:"limit" validate:"min=0,max=100"`
	Offset        int    `query:"offset" validate:"min=0"`
}

// AddItemRequest nueva línea. Sin unit_price se usa el precio del producto.
type AddItemRequest struct {
	ProductID string           `json:"product_id" validate:"required,uuid"`
	Quantity  decimal.Decimal  `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
}

// UpdateItemRequest cambio parcial de una línea.
type UpdateItemRequest struct {
	Quantity  *decimal.Decimal `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
}

// OperationItemResponse línea de una operación.
type OperationItemResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// OperationResponse salida de una operación. Items solo se incluye en el detalle.
type OperationResponse struct {
	ID         string                  `json:"id"`
	CompanyID  string                  `json:"company_id"`
	Type       string                  `json:"type"`
	Number     string                  `json:"number"`
	Date       string                  `json:"date"`
	CustomerID *string                 `json:"customer_id"`
	SupplierID *string                 `json:"supplier_id"`
	Status     string                  `json:"status"`
	Subtotal   decimal.Decimal         `json:"subtotal"`
	Tax        decimal.Decimal         `json:"tax"`
	Total      decimal.Decimal         `json:"total"`
	Notes      string                  `json:"notes"`
	CreatedBy  string                  `json:"created_by,omitempty"`
	CreatedAt  time.Time               `json:"created_at"`
	UpdatedAt  time.Time               `json:"updated_at"`
	Items      []OperationItemResponse `json:"items,omitempty"`
}

// OperationListResponse lista paginada de operaciones.
type OperationListResponse struct {
	Items []OperationResponse `json:"items"`
	Page  PageResponse        `json:"page"`
}

// InsufficientStockDetails detalle del producto que impidió confirmar.
type InsufficientStockDetails struct {
	ProductID   string          `json:"product_id"`
	ProductCode string          `json:"product_code"`
	ProductName string          `json:"product_name"`
	Current     decimal.Decimal `json:"current"`
	Requested   decimal.Decimal `json:"requested"`
}
