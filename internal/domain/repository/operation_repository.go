package repository

import (
	"context"

	"github.com/jhoicas/gestion-pyme/internal/domain/entity"
)

// OperationRepository define el puerto de persistencia para Operation y sus ítems.
// Los ítems se acceden a través de una operación ya obtenida con su empresa.
type OperationRepository interface {
	Create(ctx context.Context, op *entity.Operation) error
	GetByCompany(ctx context.Context, companyID, id string) (*entity.Operation, error)
	// GetForUpdate bloquea la fila de la operación hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, companyID, id string) (*entity.Operation, error)
	ListByCompany(ctx context.Context, companyID string, f OperationFilter) ([]*entity.Operation, error)
	// LockNumbering serializa la numeración de (empresa, tipo) hasta el fin de la transacción.
	LockNumbering(ctx context.Context, companyID string, t entity.OperationType) error
	// LastNumber devuelve el mayor número numérico emitido para (empresa, tipo), "" si no hay.
	LastNumber(ctx context.Context, companyID string, t entity.OperationType) (string, error)
	UpdateTotals(ctx context.Context, op *entity.Operation) error
	UpdateStatus(ctx context.Context, op *entity.Operation) error

	CreateItem(ctx context.Context, item *entity.OperationItem) error
	GetItem(ctx context.Context, operationID, itemID string) (*entity.OperationItem, error)
	UpdateItem(ctx context.Context, item *entity.OperationItem) error
	DeleteItem(ctx context.Context, operationID, itemID string) error
	ListItems(ctx context.Context, operationID string) ([]*entity.OperationItem, error)
}
