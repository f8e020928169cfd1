package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/gestion-pyme/internal/application/dto"
	"github.com/jhoicas/gestion-pyme/internal/application/reports"
	"github.com/jhoicas/gestion-pyme/internal/domain/entity"
)

// ReportHandler reportes de la empresa activa (solo lectura).
type ReportHandler struct {
	uc *reports.ReportUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *reports.ReportUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// Sales GET /api/reports/sales?start_date=&end_date=
func (h *ReportHandler) Sales(c *fiber.Ctx) error {
	var q dto.PeriodRequest
	if err := bindQuery(c, &q); err != nil {
		return err
	}
	out, err := h.uc.SalesByPeriod(c.UserContext(), GetScope(c).Company, q)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Purchases GET /api/reports/purchases?start_date=&end_date=
func (h *ReportHandler) Purchases(c *fiber.Ctx) error {
	var q dto.PeriodRequest
	if err := bindQuery(c, &q); err != nil {
		return err
	}
	out, err := h.uc.PurchasesByPeriod(c.UserContext(), GetScope(c).Company, q)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Counterparts GET /api/reports/counterparts?type=sale|purchase&start_date=&end_date=
func (h *ReportHandler) Counterparts(c *fiber.Ctx) error {
	var q dto.CounterpartQuery
	if err := bindQuery(c, &q); err != nil {
		return err
	}
	t := entity.OperationSale
	if q.Type != "" {
		t = entity.OperationType(q.Type)
	}
	out, err := h.uc.SummaryByCounterpart(c.UserContext(), GetScope(c).Company, t, q.Period())
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// LowStock GET /api/reports/low-stock
func (h *ReportHandler) LowStock(c *fiber.Ctx) error {
	list, err := h.uc.LowStock(c.UserContext(), GetScope(c).Company)
	if err != nil {
		return err
	}
	items := make([]dto.LowStockItemDTO, 0, len(list))
	for _, p := range list {
		items = append(items, dto.LowStockItemDTO{
			ProductID:   p.ID,
			Code:        p.Code,
			Name:        p.Name,
			Stock:       p.CurrentStock(),
			StockMinimo: p.StockMinimo,
		})
	}
	return c.JSON(fiber.Map{"items": items})
}

// Overview GET /api/reports/overview?start_date=&end_date=
func (h *ReportHandler) Overview(c *fiber.Ctx) error {
	var q dto.PeriodRequest
	if err := bindQuery(c, &q); err != nil {
		return err
	}
	out, err := h.uc.Overview(c.UserContext(), GetScope(c).Company, q)
	if err != nil {
		return err
	}
	return c.JSON(out)
}
