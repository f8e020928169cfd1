package ledger

import (
	"context"
	"errors"

	"github.com/google/uuid"
	appaudit "github.com/jhoicas/gestion-pyme/internal/application/audit"
	"github.com/jhoicas/gestion-pyme/internal/domain"
	"github.com/jhoicas/gestion-pyme/internal/domain/entity"
	"github.com/jhoicas/gestion-pyme/internal/domain/ledger"
	"github.com/jhoicas/gestion-pyme/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// validateLine cantidad positiva y precio no negativo, ambos con a lo sumo 2 decimales y dentro
// del rango almacenable junto con su subtotal.
func validateLine(quantity, unitPrice decimal.Decimal) error {
	if !quantity.IsPositive() {
		return domain.Invalid("la cantidad debe ser mayor a 0")
	}
	if unitPrice.IsNegative() {
		return domain.Invalid("el precio unitario no puede ser negativo")
	}
	if !quantity.Equal(quantity.Round(ledger.MoneyPlaces)) || !unitPrice.Equal(unitPrice.Round(ledger.MoneyPlaces)) {
		return domain.Invalid("cantidad y precio admiten como máximo 2 decimales")
	}
	if !ledger.InRange(quantity) || !ledger.InRange(unitPrice) || !ledger.InRange(ledger.ItemSubtotal(quantity, unitPrice)) {
		return domain.Invalid("el importe de la línea supera el máximo de %s", ledger.MaxAmount.StringFixed(ledger.MoneyPlaces))
	}
	return nil
}

// AddItem agrega una línea a un borrador y recalcula sus totales.
func (s *Service) AddItem(ctx context.Context, company *entity.Company, operationID string, in ItemInput, actor appaudit.Actor) (*entity.OperationItem, error) {
	companyID, err := company.ScopeID()
	if err != nil {
		return nil, err
	}
	if in.ProductID == "" {
		return nil, domain.Invalid("product_id es obligatorio")
	}
	var item *entity.OperationItem
	err = s.tx.Run(ctx, func(tx repository.Repos) error {
		op, err := lockDraft(ctx, tx, companyID, operationID)
		if err != nil {
			return err
		}
		product, err := tx.Products.GetByCompany(ctx, op.CompanyID, in.ProductID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.Invalid("el producto debe pertenecer a la empresa de la operación")
			}
			return err
		}
		price := product.Price
		if in.UnitPrice != nil {
			price = *in.UnitPrice
		}
		if err := validateLine(in.Quantity, price); err != nil {
			return err
		}
		item = &entity.OperationItem{
			ID:          uuid.New().String(),
			OperationID: op.ID,
			ProductID:   product.ID,
			Quantity:    in.Quantity,
			UnitPrice:   price,
			Subtotal:    ledger.ItemSubtotal(in.Quantity, price),
			CreatedAt:   s.now(),
		}
		if err := tx.Operations.CreateItem(ctx, item); err != nil {
			return err
		}
		if err := recompute(ctx, tx, op); err != nil {
			return err
		}
		return s.audit.LogTx(ctx, tx.Audit, actor.Entry(companyID, entity.ActionCreate, entity.ModelOperationItem, item.ID, map[string]any{
			"operation_id": op.ID,
			"product_code": product.Code,
			"quantity":     item.Quantity.String(),
			"unit_price":   item.UnitPrice.StringFixed(2),
			"subtotal":     item.Subtotal.StringFixed(2),
		}))
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateItem cambia cantidad y/o precio de una línea de un borrador.
func (s *Service) UpdateItem(ctx context.Context, company *entity.Company, operationID, itemID string, patch ItemPatch, actor appaudit.Actor) (*entity.OperationItem, error) {
	companyID, err := company.ScopeID()
	if err != nil {
		return nil, err
	}
	var item *entity.OperationItem
	err = s.tx.Run(ctx, func(tx repository.Repos) error {
		op, err := lockDraft(ctx, tx, companyID, operationID)
		if err != nil {
			return err
		}
		item, err = tx.Operations.GetItem(ctx, op.ID, itemID)
		if err != nil {
			return err
		}
		changes := map[string]any{"operation_id": op.ID}
		if patch.Quantity != nil {
			item.Quantity = *patch.Quantity
			changes["quantity"] = item.Quantity.String()
		}
		if patch.UnitPrice != nil {
			item.UnitPrice = *patch.UnitPrice
			changes["unit_price"] = item.UnitPrice.StringFixed(2)
		}
		if err := validateLine(item.Quantity, item.UnitPrice); err != nil {
			return err
		}
		item.Subtotal = ledger.ItemSubtotal(item.Quantity, item.UnitPrice)
		changes["subtotal"] = item.Subtotal.StringFixed(2)
		if err := tx.Operations.UpdateItem(ctx, item); err != nil {
			return err
		}
		if err := recompute(ctx, tx, op); err != nil {
			return err
		}
		return s.audit.LogTx(ctx, tx.Audit, actor.Entry(companyID, entity.ActionUpdate, entity.ModelOperationItem, item.ID, changes))
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// RemoveItem elimina una línea de un borrador y recalcula sus totales.
// Se registra como actualización de la operación: editar un borrador no es una eliminación de datos.
func (s *Service) RemoveItem(ctx context.Context, company *entity.Company, operationID, itemID string, actor appaudit.Actor) (*entity.Operation, error) {
	companyID, err := company.ScopeID()
	if err != nil {
		return nil, err
	}
	var op *entity.Operation
	err = s.tx.Run(ctx, func(tx repository.Repos) error {
		var err error
		op, err = lockDraft(ctx, tx, companyID, operationID)
		if err != nil {
			return err
		}
		if err := tx.Operations.DeleteItem(ctx, op.ID, itemID); err != nil {
			return err
		}
		if err := recompute(ctx, tx, op); err != nil {
			return err
		}
		return s.audit.LogTx(ctx, tx.Audit, actor.Entry(companyID, entity.ActionUpdate, entity.ModelOperation, op.ID, map[string]any{
			"item_removed": itemID,
			"total":        op.Total.StringFixed(2),
		}))
	})
	if err != nil {
		return nil, err
	}
	return op, nil
}
