// Package ledger implementa el libro de operaciones: ciclo de vida de ventas y compras,
// recálculo de totales y movimiento de stock, todo dentro de transacciones.
package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	appaudit "github.com/jhoicas/gestion-pyme/internal/application/audit"
	"github.com/jhoicas/gestion-pyme/internal/domain"
	"github.com/jhoicas/gestion-pyme/internal/domain/entity"
	"github.com/jhoicas/gestion-pyme/internal/domain/ledger"
	"github.com/jhoicas/gestion-pyme/internal/domain/repository"
	"github.com/jhoicas/gestion-pyme/pkg/logger"
	"github.com/jhoicas/gestion-pyme/pkg/metrics"
	"github.com/shopspring/decimal"
)

// Config comportamiento configurable del libro.
type Config struct {
	// ReverseStockOnCancel revierte el stock al cancelar una operación confirmada.
	ReverseStockOnCancel bool
}

// Service casos de uso del libro de operaciones.
type Service struct {
	tx         repository.TxRunner
	operations repository.OperationRepository
	audit      *appaudit.Service
	monitor    *appaudit.Monitor
	log        *logger.Logger
	cfg        Config
	now        func() time.Time
}

// NewService construye el servicio. operations se usa solo para lecturas fuera de transacción.
func NewService(
	tx repository.TxRunner,
	operations repository.OperationRepository,
	audit *appaudit.Service,
	monitor *appaudit.Monitor,
	log *logger.Logger,
	cfg Config,
) *Service {
	return &Service{
		tx:         tx,
		operations: operations,
		audit:      audit,
		monitor:    monitor,
		log:        log,
		cfg:        cfg,
		now:        time.Now,
	}
}

// CreateInput datos para crear una operación en borrador.
type CreateInput struct {
	Type       entity.OperationType
	Date       time.Time // zero = hoy
	CustomerID string    // obligatorio en ventas
	SupplierID string    // obligatorio en compras
	Notes      string
}

// ItemInput línea nueva. UnitPrice nil toma el precio del producto.
type ItemInput struct {
	ProductID string
	Quantity  decimal.Decimal
	UnitPrice *decimal.Decimal
}

// ItemPatch cambio parcial de una línea.
type ItemPatch struct {
	Quantity  *decimal.Decimal
	UnitPrice *decimal.Decimal
}

// Create valida la contraparte, asigna el siguiente número y guarda la operación en borrador.
func (s *Service) Create(ctx context.Context, company *entity.Company, in CreateInput, actor appaudit.Actor) (*entity.Operation, error) {
	companyID, err := company.ScopeID()
	if err != nil {
		return nil, err
	}
	if !in.Type.Valid() {
		return nil, domain.Invalid("tipo de operación inválido: %q", in.Type)
	}
	date := in.Date
	if date.IsZero() {
		date = s.now()
	}
	now := s.now()
	op := &entity.Operation{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Type:      in.Type,
		Date:      time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC),
		Status:    entity.StatusDraft,
		Subtotal:  decimal.Zero,
		Tax:       decimal.Zero,
		Total:     decimal.Zero,
		Notes:     in.Notes,
		CreatedBy: actor.UserID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.tx.Run(ctx, func(tx repository.Repos) error {
		if err := bindCounterpart(ctx, tx, op, in); err != nil {
			return err
		}
		if err := tx.Operations.LockNumbering(ctx, companyID, op.Type); err != nil {
			return err
		}
		last, err := tx.Operations.LastNumber(ctx, companyID, op.Type)
		if err != nil {
			return err
		}
		op.Number = ledger.NextNumber(last)
		if err := tx.Operations.Create(ctx, op); err != nil {
			return err
		}
		return s.audit.LogTx(ctx, tx.Audit, actor.Entry(companyID, entity.ActionCreate, entity.ModelOperation, op.ID, map[string]any{
			"type":           string(op.Type),
			"number":         op.Number,
			"date":           op.Date.Format("2006-01-02"),
			"counterpart_id": op.CounterpartID(),
		}))
	})
	if err != nil {
		return nil, err
	}

	metrics.OperationEvents.WithLabelValues(string(op.Type), "created").Inc()
	s.log.Info().
		Str("company_id", companyID).
		Str("operation_id", op.ID).
		Str("number", op.Number).
		Str("type", string(op.Type)).
		Msg("operación creada")
	return op, nil
}

// bindCounterpart exige exactamente la contraparte del tipo y que pertenezca a la empresa.
func bindCounterpart(ctx context.Context, tx repository.Repos, op *entity.Operation, in CreateInput) error {
	switch op.Type {
	case entity.OperationSale:
		if in.SupplierID != "" {
			return domain.Invalid("una venta no puede tener proveedor")
		}
		if in.CustomerID == "" {
			return domain.Invalid("las ventas requieren un cliente")
		}
		if _, err := tx.Customers.GetByCompany(ctx, op.CompanyID, in.CustomerID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.Invalid("el cliente debe pertenecer a la empresa actual")
			}
			return err
		}
		id := in.CustomerID
		op.CustomerID = &id
	case entity.OperationPurchase:
		if in.CustomerID != "" {
			return domain.Invalid("una compra no puede tener cliente")
		}
		if in.SupplierID == "" {
			return domain.Invalid("las compras requieren un proveedor")
		}
		if _, err := tx.Suppliers.GetByCompany(ctx, op.CompanyID, in.SupplierID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.Invalid("el proveedor debe pertenecer a la empresa actual")
			}
			return err
		}
		id := in.SupplierID
		op.SupplierID = &id
	}
	return nil
}

// Get obtiene una operación de la empresa con sus ítems.
func (s *Service) Get(ctx context.Context, company *entity.Company, operationID string) (*entity.Operation, []*entity.OperationItem, error) {
	companyID, err := company.ScopeID()
	if err != nil {
		return nil, nil, err
	}
	op, err := s.operations.GetByCompany(ctx, companyID, operationID)
	if err != nil {
		return nil, nil, err
	}
	items, err := s.operations.ListItems(ctx, op.ID)
	if err != nil {
		return nil, nil, err
	}
	return op, items, nil
}

// Items ítems de una operación de la empresa.
func (s *Service) Items(ctx context.Context, company *entity.Company, operationID string) ([]*entity.OperationItem, error) {
	_, items, err := s.Get(ctx, company, operationID)
	return items, err
}

// List operaciones de la empresa con filtros.
func (s *Service) List(ctx context.Context, company *entity.Company, f repository.OperationFilter) ([]*entity.Operation, error) {
	companyID, err := company.ScopeID()
	if err != nil {
		return nil, err
	}
	if f.Type != "" && !f.Type.Valid() {
		return nil, domain.Invalid("tipo de operación inválido: %q", f.Type)
	}
	return s.operations.ListByCompany(ctx, companyID, f)
}

// lockDraft bloquea la operación y exige que siga en borrador.
func lockDraft(ctx context.Context, tx repository.Repos, companyID, operationID string) (*entity.Operation, error) {
	op, err := tx.Operations.GetForUpdate(ctx, companyID, operationID)
	if err != nil {
		return nil, err
	}
	if err := op.CheckModifiable(); err != nil {
		return nil, err
	}
	return op, nil
}

// recompute recalcula y persiste los totales con la tasa de la empresa.
func recompute(ctx context.Context, tx repository.Repos, op *entity.Operation) error {
	items, err := tx.Operations.ListItems(ctx, op.ID)
	if err != nil {
		return err
	}
	rate, err := taxRate(ctx, tx.Companies, op.CompanyID)
	if err != nil {
		return err
	}
	totals := ledger.ComputeTotals(items, rate)
	if !totals.InRange() {
		return domain.Invalid("el total de la operación supera el máximo de %s", ledger.MaxAmount.StringFixed(ledger.MoneyPlaces))
	}
	totals.Apply(op)
	return tx.Operations.UpdateTotals(ctx, op)
}

// taxRate tasa por defecto de la empresa; 0 si no tiene configuración.
func taxRate(ctx context.Context, companies repository.CompanyRepository, companyID string) (decimal.Decimal, error) {
	settings, err := companies.GetSettings(ctx, companyID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return decimal.Zero, nil
		}
		return decimal.Zero, err
	}
	return settings.TaxRateDefault, nil
}

// Recalculate recalcula los totales de un borrador. Es idempotente.
func (s *Service) Recalculate(ctx context.Context, company *entity.Company, operationID string) (*entity.Operation, error) {
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
		return recompute(ctx, tx, op)
	})
	if err != nil {
		return nil, err
	}
	return op, nil
}
