package repository

import (
	"context"

	"github.com/jhoicas/gestion-pyme/internal/domain/entity"
)

// SupplierRepository define el puerto de persistencia para Supplier.
type SupplierRepository interface {
	Create(ctx context.Context, supplier *entity.Supplier) error
	GetByCompany(ctx context.Context, companyID, id string) (*entity.Supplier, error)
	GetByCompanyAndCode(ctx context.Context, companyID, code string) (*entity.Supplier, error)
	ListByCompany(ctx context.Context, companyID string, f ListFilter) ([]*entity.Supplier, error)
	Update(ctx context.Context, supplier *entity.Supplier) error
	Delete(ctx context.Context, companyID, id string) error
}
