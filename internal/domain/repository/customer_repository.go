package repository

import (
	"context"

	"github.com/jhoicas/gestion-pyme/internal/domain/entity"
)

// CustomerRepository define el puerto de persistencia para Customer.
// Todas las lecturas exigen companyID; vacío produce domain.ErrConfiguration.
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByCompany(ctx context.Context, companyID, id string) (*entity.Customer, error)
	GetByCompanyAndCode(ctx context.Context, companyID, code string) (*entity.Customer, error)
	ListByCompany(ctx context.Context, companyID string, f ListFilter) ([]*entity.Customer, error)
	Update(ctx context.Context, customer *entity.Customer) error
	// Delete devuelve domain.ErrInUse si alguna operación referencia al cliente.
	Delete(ctx context.Context, companyID, id string) error
}
