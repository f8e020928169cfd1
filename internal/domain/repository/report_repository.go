package repository

import (
	"context"
	"time"

	"github.com/jhoicas/gestion-pyme/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// PeriodTotals sumas de las operaciones confirmadas de un tipo en un período.
type PeriodTotals struct {
	Count    int
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// CounterpartTotals sumas agrupadas por cliente (ventas) o proveedor (compras).
type CounterpartTotals struct {
	CounterpartID string
	Code          string
	Name          string
	PeriodTotals
}

// ReportRepository consultas de solo lectura. Solo cuentan operaciones confirmadas y las fechas
// son inclusivas.
type ReportRepository interface {
	PeriodTotals(ctx context.Context, companyID string, t entity.OperationType, from, to time.Time) (PeriodTotals, error)
	// TotalsByCounterpart ordenado por total descendente.
	TotalsByCounterpart(ctx context.Context, companyID string, t entity.OperationType, from, to time.Time) ([]CounterpartTotals, error)
}
