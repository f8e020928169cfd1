package ledger

import (
	"context"
	"errors"
	"sort"

	appaudit "github.com/jhoicas/gestion-pyme/internal/application/audit"
	"github.com/jhoicas/gestion-pyme/internal/domain"
	"github.com/jhoicas/gestion-pyme/internal/domain/entity"
	"github.com/jhoicas/gestion-pyme/internal/domain/ledger"
	"github.com/jhoicas/gestion-pyme/internal/domain/repository"
	"github.com/jhoicas/gestion-pyme/pkg/metrics"
	"github.com/shopspring/decimal"
)

// stockMove cambio de stock acumulado por producto dentro de una operación.
type stockMove struct {
	product *entity.Product
	stock   decimal.Decimal
}

// lockProducts bloquea los productos referenciados en orden de id para evitar interbloqueos.
func lockProducts(ctx context.Context, tx repository.Repos, companyID string, items []*entity.OperationItem) (map[string]*stockMove, error) {
	ids := make([]string, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, it := range items {
		if !seen[it.ProductID] {
			seen[it.ProductID] = true
			ids = append(ids, it.ProductID)
		}
	}
	sort.Strings(ids)

	moves := make(map[string]*stockMove, len(ids))
	for _, id := range ids {
		p, err := tx.Products.GetForUpdate(ctx, companyID, id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, domain.Invalid("producto %s no pertenece a la empresa de la operación", id)
			}
			return nil, err
		}
		moves[id] = &stockMove{product: p, stock: p.CurrentStock()}
	}
	return moves, nil
}

// applyStock recorre los ítems en orden acumulando el stock resultante. sign = -1 descuenta, +1 suma.
// Si un descuento dejara stock negativo devuelve InsufficientStockError sin persistir nada.
func applyStock(items []*entity.OperationItem, moves map[string]*stockMove, sign int) error {
	for _, it := range items {
		m := moves[it.ProductID]
		if !m.product.TracksStock() {
			continue
		}
		if sign < 0 {
			if m.stock.LessThan(it.Quantity) {
				return &domain.InsufficientStockError{
					ProductID:   m.product.ID,
					ProductName: m.product.Name,
					Code:        m.product.Code,
					Current:     m.stock,
					Requested:   it.Quantity,
				}
			}
			m.stock = m.stock.Sub(it.Quantity)
		} else {
			m.stock = m.stock.Add(it.Quantity)
			if !ledger.InRange(m.stock) {
				return domain.Invalid("el stock de %s supera el máximo almacenable", m.product.Code)
			}
		}
	}
	return nil
}

// persistStock guarda el stock de los productos físicos y devuelve los que quedaron en o bajo su mínimo.
func persistStock(ctx context.Context, tx repository.Repos, companyID string, moves map[string]*stockMove) ([]*entity.Product, error) {
	ids := make([]string, 0, len(moves))
	for id := range moves {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var low []*entity.Product
	for _, id := range ids {
		m := moves[id]
		if !m.product.TracksStock() {
			continue
		}
		if err := tx.Products.UpdateStock(ctx, companyID, id, m.stock); err != nil {
			return nil, err
		}
		stock := m.stock
		m.product.Stock = &stock
		if m.product.IsLowStock() {
			low = append(low, m.product)
		}
	}
	return low, nil
}

// stockSign dirección del movimiento de stock al confirmar (reverse invierte para cancelar).
func stockSign(t entity.OperationType, reverse bool) int {
	sign := 1
	if t == entity.OperationSale {
		sign = -1
	}
	if reverse {
		sign = -sign
	}
	return sign
}

// Confirm confirma un borrador: valida ítems y contraparte, mueve el stock de forma atómica
// y cambia el estado. Si algún producto no alcanza, nada cambia.
func (s *Service) Confirm(ctx context.Context, company *entity.Company, operationID string, actor appaudit.Actor) (*entity.Operation, error) {
	companyID, err := company.ScopeID()
	if err != nil {
		return nil, err
	}
	var (
		op  *entity.Operation
		low []*entity.Product
	)
	err = s.tx.Run(ctx, func(tx repository.Repos) error {
		var err error
		op, err = tx.Operations.GetForUpdate(ctx, companyID, operationID)
		if err != nil {
			return err
		}
		if op.Status != entity.StatusDraft {
			return domain.Invalid("solo se pueden confirmar operaciones en borrador (estado actual: %s)", op.Status)
		}
		items, err := tx.Operations.ListItems(ctx, op.ID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return domain.Invalid("no se puede confirmar una operación sin ítems")
		}
		if op.CounterpartID() == "" {
			if op.Type == entity.OperationSale {
				return domain.Invalid("las ventas requieren un cliente")
			}
			return domain.Invalid("las compras requieren un proveedor")
		}

		moves, err := lockProducts(ctx, tx, companyID, items)
		if err != nil {
			return err
		}
		if err := applyStock(items, moves, stockSign(op.Type, false)); err != nil {
			return err
		}
		low, err = persistStock(ctx, tx, companyID, moves)
		if err != nil {
			return err
		}
		for _, p := range low {
			if err := s.audit.LogTx(ctx, tx.Audit, lowStockEntry(actor, companyID, p, op)); err != nil {
				return err
			}
		}

		op.Status = entity.StatusConfirmed
		op.UpdatedAt = s.now()
		if err := tx.Operations.UpdateStatus(ctx, op); err != nil {
			return err
		}
		return s.audit.LogTx(ctx, tx.Audit, actor.Entry(companyID, entity.ActionUpdate, entity.ModelOperation, op.ID, map[string]any{
			"status": string(entity.StatusConfirmed),
			"number": op.Number,
			"total":  op.Total.StringFixed(2),
		}))
	})
	if err != nil {
		var stockErr *domain.InsufficientStockError
		if errors.As(err, &stockErr) {
			metrics.InsufficientStock.Inc()
			s.log.Warn().
				Str("company_id", companyID).
				Str("operation_id", operationID).
				Str("product_code", stockErr.Code).
				Str("current", stockErr.Current.String()).
				Str("requested", stockErr.Requested.String()).
				Msg("confirmación rechazada por stock insuficiente")
		}
		return nil, err
	}

	metrics.OperationEvents.WithLabelValues(string(op.Type), "confirmed").Inc()
	metrics.LowStock.Add(float64(len(low)))
	for _, p := range low {
		s.log.Warn().
			Str("company_id", companyID).
			Str("product_code", p.Code).
			Str("stock", p.CurrentStock().String()).
			Str("stock_minimo", p.StockMinimo.String()).
			Msg("stock bajo")
	}
	s.log.Info().
		Str("company_id", companyID).
		Str("operation_id", op.ID).
		Str("number", op.Number).
		Msg("operación confirmada")
	return op, nil
}

func lowStockEntry(actor appaudit.Actor, companyID string, p *entity.Product, op *entity.Operation) appaudit.Entry {
	return actor.Entry(companyID, entity.ActionUpdate, entity.ModelProduct, p.ID, map[string]any{
		"alert_type":   entity.AlertLowStock,
		"product_code": p.Code,
		"product_name": p.Name,
		"stock":        p.CurrentStock().String(),
		"stock_minimo": p.StockMinimo.String(),
		"operation_id": op.ID,
	})
}

// Cancel cancela una operación en borrador o confirmada. Con ReverseStockOnCancel, cancelar una
// confirmada devuelve el stock; por defecto el stock no se toca.
func (s *Service) Cancel(ctx context.Context, company *entity.Company, operationID string, actor appaudit.Actor) (*entity.Operation, error) {
	companyID, err := company.ScopeID()
	if err != nil {
		return nil, err
	}
	var (
		op       *entity.Operation
		reversed bool
	)
	err = s.tx.Run(ctx, func(tx repository.Repos) error {
		var err error
		op, err = tx.Operations.GetForUpdate(ctx, companyID, operationID)
		if err != nil {
			return err
		}
		if op.Status == entity.StatusCancelled {
			return domain.Invalid("la operación ya está cancelada")
		}
		previous := op.Status

		if previous == entity.StatusConfirmed && s.cfg.ReverseStockOnCancel {
			items, err := tx.Operations.ListItems(ctx, op.ID)
			if err != nil {
				return err
			}
			moves, err := lockProducts(ctx, tx, companyID, items)
			if err != nil {
				return err
			}
			if err := applyStock(items, moves, stockSign(op.Type, true)); err != nil {
				return err
			}
			if _, err := persistStock(ctx, tx, companyID, moves); err != nil {
				return err
			}
			reversed = true
		}

		op.Status = entity.StatusCancelled
		op.UpdatedAt = s.now()
		if err := tx.Operations.UpdateStatus(ctx, op); err != nil {
			return err
		}
		return s.audit.LogTx(ctx, tx.Audit, actor.Entry(companyID, entity.ActionUpdate, entity.ModelOperation, op.ID, map[string]any{
			"status":          string(entity.StatusCancelled),
			"previous_status": string(previous),
			"number":          op.Number,
			"stock_reversed":  reversed,
		}))
	})
	if err != nil {
		return nil, err
	}

	metrics.OperationEvents.WithLabelValues(string(op.Type), "cancelled").Inc()
	s.log.Info().
		Str("company_id", companyID).
		Str("operation_id", op.ID).
		Bool("stock_reversed", reversed).
		Msg("operación cancelada")

	if s.monitor != nil {
		if _, err := s.monitor.CheckMassDeletion(ctx, actor.UserID, companyID); err != nil {
			s.log.Error().Err(err).Str("company_id", companyID).Msg("error verificando eliminación masiva")
		}
	}
	return op, nil
}
