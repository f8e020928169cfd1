package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductType distingue bienes físicos (con stock) de servicios.
type ProductType string

const (
	ProductTypeProduct ProductType = "product"
	ProductTypeService ProductType = "service"
)

// Valid indica si el tipo es uno de los admitidos.
func (t ProductType) Valid() bool {
	switch t {
	case ProductTypeProduct, ProductTypeService:
		return true
	}
	return false
}

// Product representa un producto o servicio del catálogo de una empresa.
type Product struct {
	ID            string
	CompanyID     string
	Code          string // único por empresa
	Name          string
	Description   string
	Type          ProductType
	Price         decimal.Decimal
	UnitOfMeasure string
	Stock         *decimal.Decimal // nil = sin registro de stock (se trata como 0)
	StockMinimo   decimal.Decimal  // umbral de alerta; 0 desactiva la alerta
	Active        bool
	CreatedBy     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TracksStock indica si las operaciones confirmadas mueven el stock de este producto.
func (p *Product) TracksStock() bool {
	return p.Type == ProductTypeProduct
}

// CurrentStock devuelve el stock actual, 0 si no hay registro.
func (p *Product) CurrentStock() decimal.Decimal {
	if p.Stock == nil {
		return decimal.Zero
	}
	return *p.Stock
}

// IsLowStock indica si el stock está en o por debajo del mínimo (solo con mínimo > 0).
func (p *Product) IsLowStock() bool {
	return p.StockMinimo.IsPositive() && p.CurrentStock().LessThanOrEqual(p.StockMinimo)
}
