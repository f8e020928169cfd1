package dto

import "github.com/shopspring/decimal"

// PeriodRequest parámetros de período de los reportes.
type PeriodRequest struct {
	StartDate string `query:"start_date" validate:"omitempty,datetime=2006-01-02"` // por defecto primer día del mes actual
	EndDate   string `query:"end_date" validate:"omitempty,datetime=2006-01-02"`   // por defecto hoy
}

// PeriodDTO período efectivo del reporte.
type PeriodDTO struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// TotalsDTO sumas de operaciones confirmadas.
type TotalsDTO struct {
	Count    int             `json:"count"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// PeriodReportDTO ventas o compras de un período.
type PeriodReportDTO struct {
	Type   string    `json:"type"`
	Period PeriodDTO `json:"period"`
	TotalsDTO
}

// CounterpartSummaryDTO totales de un cliente o proveedor.
type CounterpartSummaryDTO struct {
	CounterpartID string `json:"counterpart_id"`
	Code          string `json:"code"`
	Name          string `json:"name"`
	TotalsDTO
}

// CounterpartReportDTO resumen por contraparte de un período.
type CounterpartReportDTO struct {
	Type   string                  `json:"type"`
	Period PeriodDTO               `json:"period"`
	Items  []CounterpartSummaryDTO `json:"items"`
}

// OverviewDTO ventas y compras del período lado a lado.
type OverviewDTO struct {
	Period    PeriodDTO       `json:"period"`
	Sales     TotalsDTO       `json:"sales"`
	Purchases TotalsDTO       `json:"purchases"`
	Balance   decimal.Decimal `json:"balance"` // ventas - compras (totales)
	LowStock  int             `json:"low_stock"`
}

// LowStockItemDTO producto en o bajo su stock mínimo.
type LowStockItemDTO struct {
	ProductID   string          `json:"product_id"`
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	Stock       decimal.Decimal `json:"stock"`
	StockMinimo decimal.Decimal `json:"stock_minimo"`
}

// CounterpartQuery período más tipo de operación del resumen por contraparte.
type CounterpartQuery struct {
	StartDate string `query:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `query:"end_date" validate:"omitempty,datetime=2006-01-02"`
	Type      string `query:"type" validate:"omitempty,oneof=sale purchase"` // por defecto sale
}

// Period parámetros de período de la consulta.
func (q CounterpartQuery) Period() PeriodRequest {
	return PeriodRequest{StartDate: q.StartDate, EndDate: q.EndDate}
}
