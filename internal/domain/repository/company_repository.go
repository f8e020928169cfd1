package repository

import (
	"context"

	"github.com/jhoicas/gestion-pyme/internal/domain/entity"
)

// CompanyRepository define el puerto de persistencia para Company y su configuración (DIP).
// Company es la raíz del tenant: no existe listado global de empresas.
type CompanyRepository interface {
	Create(ctx context.Context, company *entity.Company) error
	GetByID(ctx context.Context, id string) (*entity.Company, error)
	Update(ctx context.Context, company *entity.Company) error
	// GetSettings devuelve domain.ErrNotFound si la empresa no tiene configuración.
	GetSettings(ctx context.Context, companyID string) (*entity.CompanySettings, error)
	UpsertSettings(ctx context.Context, settings *entity.CompanySettings) error
}
