// Package reports arma resúmenes de solo lectura sobre operaciones confirmadas y stock.
package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/gestion-pyme/internal/application/dto"
	"github.com/jhoicas/gestion-pyme/internal/domain"
	"github.com/jhoicas/gestion-pyme/internal/domain/entity"
	"github.com/jhoicas/gestion-pyme/internal/domain/repository"
	"golang.org/x/sync/errgroup"
)

const dateLayout = "2006-01-02"

// ReportUseCase consultas de reportes, siempre acotadas a la empresa del scope.
type ReportUseCase struct {
	reports  repository.ReportRepository
	products repository.ProductRepository
	now      func() time.Time
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(reports repository.ReportRepository, products repository.ProductRepository) *ReportUseCase {
	return &ReportUseCase{reports: reports, products: products, now: time.Now}
}

// SalesByPeriod totales de ventas confirmadas del período.
func (uc *ReportUseCase) SalesByPeriod(ctx context.Context, company *entity.Company, req dto.PeriodRequest) (*dto.PeriodReportDTO, error) {
	return uc.byPeriod(ctx, company, entity.OperationSale, req)
}

// PurchasesByPeriod totales de compras confirmadas del período.
func (uc *ReportUseCase) PurchasesByPeriod(ctx context.Context, company *entity.Company, req dto.PeriodRequest) (*dto.PeriodReportDTO, error) {
	return uc.byPeriod(ctx, company, entity.OperationPurchase, req)
}

func (uc *ReportUseCase) byPeriod(ctx context.Context, company *entity.Company, t entity.OperationType, req dto.PeriodRequest) (*dto.PeriodReportDTO, error) {
	companyID, err := company.ScopeID()
	if err != nil {
		return nil, err
	}
	start, end, err := uc.parsePeriod(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}
	totals, err := uc.reports.PeriodTotals(ctx, companyID, t, start, end)
	if err != nil {
		return nil, fmt.Errorf("reports: %s: %w", t, err)
	}
	return &dto.PeriodReportDTO{
		Type:      string(t),
		Period:    periodDTO(start, end),
		TotalsDTO: toTotals(totals),
	}, nil
}

// SummaryByCounterpart totales por cliente (ventas) o proveedor (compras), mayor total primero.
func (uc *ReportUseCase) SummaryByCounterpart(ctx context.Context, company *entity.Company, t entity.OperationType, req dto.PeriodRequest) (*dto.CounterpartReportDTO, error) {
	companyID, err := company.ScopeID()
	if err != nil {
		return nil, err
	}
	if !t.Valid() {
		return nil, domain.Invalid("tipo de operación inválido: %q", t)
	}
	start, end, err := uc.parsePeriod(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}
	rows, err := uc.reports.TotalsByCounterpart(ctx, companyID, t, start, end)
	if err != nil {
		return nil, fmt.Errorf("reports: contrapartes: %w", err)
	}
	items := make([]dto.CounterpartSummaryDTO, 0, len(rows))
	for _, r := range rows {
		items = append(items, dto.CounterpartSummaryDTO{
			CounterpartID: r.CounterpartID,
			Code:          r.Code,
			Name:          r.Name,
			TotalsDTO:     toTotals(r.PeriodTotals),
		})
	}
	return &dto.CounterpartReportDTO{Type: string(t), Period: periodDTO(start, end), Items: items}, nil
}

// LowStock productos físicos activos en o bajo su stock mínimo.
func (uc *ReportUseCase) LowStock(ctx context.Context, company *entity.Company) ([]*entity.Product, error) {
	companyID, err := company.ScopeID()
	if err != nil {
		return nil, err
	}
	return uc.products.ListLowStock(ctx, companyID)
}

// Overview ventas, compras y cantidad de productos con stock bajo del período.
// Las tres consultas son independientes y se ejecutan en paralelo.
func (uc *ReportUseCase) Overview(ctx context.Context, company *entity.Company, req dto.PeriodRequest) (*dto.OverviewDTO, error) {
	companyID, err := company.ScopeID()
	if err != nil {
		return nil, err
	}
	start, end, err := uc.parsePeriod(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	var (
		sales, purchases repository.PeriodTotals
		low              []*entity.Product
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		sales, err = uc.reports.PeriodTotals(gctx, companyID, entity.OperationSale, start, end)
		return err
	})
	g.Go(func() error {
		var err error
		purchases, err = uc.reports.PeriodTotals(gctx, companyID, entity.OperationPurchase, start, end)
		return err
	})
	g.Go(func() error {
		var err error
		low, err = uc.products.ListLowStock(gctx, companyID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("reports: resumen: %w", err)
	}

	return &dto.OverviewDTO{
		Period:    periodDTO(start, end),
		Sales:     toTotals(sales),
		Purchases: toTotals(purchases),
		Balance:   sales.Total.Sub(purchases.Total),
		LowStock:  len(low),
	}, nil
}

func toTotals(t repository.PeriodTotals) dto.TotalsDTO {
	return dto.TotalsDTO{
		Count:    t.Count,
		Subtotal: t.Subtotal.Round(2),
		Tax:      t.Tax.Round(2),
		Total:    t.Total.Round(2),
	}
}

func periodDTO(start, end time.Time) dto.PeriodDTO {
	return dto.PeriodDTO{StartDate: start.Format(dateLayout), EndDate: end.Format(dateLayout)}
}

// parsePeriod convierte las fechas del request; vacías toman el primer día del mes actual y hoy.
// Las fechas de operación no llevan hora, así que ambos extremos son días completos.
func (uc *ReportUseCase) parsePeriod(startStr, endStr string) (start, end time.Time, err error) {
	now := uc.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	if endStr == "" {
		end = today
	} else if end, err = time.Parse(dateLayout, endStr); err != nil {
		return time.Time{}, time.Time{}, domain.Invalid("end_date inválido: %s", endStr)
	}
	if startStr == "" {
		start = time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	} else if start, err = time.Parse(dateLayout, startStr); err != nil {
		return time.Time{}, time.Time{}, domain.Invalid("start_date inválido: %s", startStr)
	}
	if start.After(end) {
		return time.Time{}, time.Time{}, domain.Invalid("start_date no puede ser posterior a end_date")
	}
	return start, end, nil
}
