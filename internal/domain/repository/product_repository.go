package repository

import (
	"context"

	"github.com/jhoicas/gestion-pyme/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByCompany(ctx context.Context, companyID, id string) (*entity.Product, error)
	GetByCompanyAndCode(ctx context.Context, companyID, code string) (*entity.Product, error)
	// GetForUpdate bloquea la fila hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, companyID, id string) (*entity.Product, error)
	ListByCompany(ctx context.Context, companyID string, f ListFilter) ([]*entity.Product, error)
	// ListLowStock productos físicos activos con mínimo > 0 y stock en o bajo el mínimo.
	ListLowStock(ctx context.Context, companyID string) ([]*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	UpdateStock(ctx context.Context, companyID, id string, stock decimal.Decimal) error
	Delete(ctx context.Context, companyID, id string) error
}
