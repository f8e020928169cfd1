package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto. Stock vacío en productos físicos inicia en 0;
// los servicios no llevan stock.
type CreateProductRequest struct {
	Code          string           `json:"code" validate:"required,min=1,max=50"`
	Name          string           `json:"name" validate:"required,min=1,max=200"`
	Description   string           `json:"description"`
	Type          string           `json:"type" validate:"omitempty,oneof=product service"`
	Price         decimal.Decimal  `json:"price"`
	UnitOfMeasure string           `json:"unit_of_measure" validate:"omitempty,max=20"`
	Stock         *decimal.Decimal `json:"stock"`
	StockMinimo   decimal.Decimal  `json:"stock_minimo"`
}

// UpdateProductRequest entrada para actualizar un producto. El stock solo cambia con operaciones.
type UpdateProductRequest struct {
	Code          *string          `json:"code" validate:"omitempty,min=1,max=50"`
	Name          *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description   *string          `json:"description"`
	Type          *string          `json:"type" validate:"omitempty,oneof=product service"`
	Price         *decimal.Decimal `json:"price"`
	UnitOfMeasure *string          `json:"unit_of_measure" validate:"omitempty,max=20"`
	StockMinimo   *decimal.Decimal `json:"stock_minimo"`
	Active        *bool            `json:"active"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID            string           `json:"id"`
	CompanyID     string           `json:"company_id"`
	Code          string           `json:"code"`
	Name          string           `json:"name"`
	Description   string           `json:"description"`
	Type          string           `json:"type"`
	Price         decimal.Decimal  `json:"price"`
	UnitOfMeasure string           `json:"unit_of_measure"`
	Stock         *decimal.Decimal `json:"stock"`
	StockMinimo   decimal.Decimal  `json:"stock_minimo"`
	LowStock      bool             `json:"low_stock"`
	Active        bool             `json:"active"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
