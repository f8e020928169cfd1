package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	appaudit "github.com/jhoicas/gestion-pyme/internal/application/audit"
	"github.com/jhoicas/gestion-pyme/internal/application/dto"
	"github.com/jhoicas/gestion-pyme/internal/domain/entity"
	"github.com/jhoicas/gestion-pyme/internal/domain/repository"
)

// SupplierUseCase casos de uso para proveedores.
type SupplierUseCase struct {
	d CatalogDeps
}

// NewSupplierUseCase construye el caso de uso.
func NewSupplierUseCase(d CatalogDeps) *SupplierUseCase {
	return &SupplierUseCase{d: d}
}

// Create crea un proveedor. Código repetido en la empresa devuelve domain.ErrDuplicate.
func (uc *SupplierUseCase) Create(ctx context.Context, company *entity.Company, in dto.CreateCounterpartRequest, actor appaudit.Actor) (*dto.CounterpartResponse, error) {
	companyID, err := company.ScopeID()
	if err != nil {
		return nil, err
	}
	now := time.Now()
	supplier := &entity.Supplier{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Code:      in.Code,
		Name:      in.Name,
		TaxID:     in.TaxID,
		Email:     in.Email,
		Phone:     in.Phone,
		Address:   in.Address,
		Active:    true,
		CreatedBy: actor.UserID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err = uc.d.Tx.Run(ctx, func(tx repository.Repos) error {
		if err := tx.Suppliers.Create(ctx, supplier); err != nil {
			return err
		}
		return uc.d.Audit.LogTx(ctx, tx.Audit, actor.Entry(companyID, entity.ActionCreate, entity.ModelSupplier, supplier.ID,
			map[string]any{"code": supplier.Code, "name": supplier.Name}))
	})
	if err != nil {
		return nil, err
	}
	return toSupplierResponse(supplier), nil
}

// Get obtiene un proveedor de la empresa.
func (uc *SupplierUseCase) Get(ctx context.Context, company *entity.Company, id string) (*dto.CounterpartResponse, error) {
	companyID, err := company.ScopeID()
	if err != nil {
		return nil, err
	}
	c, err := uc.d.Repos.Suppliers.GetByCompany(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	return toSupplierResponse(c), nil
}

// List lista proveedores de la empresa con paginación y búsqueda.
func (uc *SupplierUseCase) List(ctx context.Context, company *entity.Company, page dto.PageRequest) (*dto.CounterpartListResponse, error) {
	companyID, err := company.ScopeID()
	if err != nil {
		return nil, err
	}
	list, err := uc.d.Repos.Suppliers.ListByCompany(ctx, companyID, listFilter(page))
	if err != nil {
		return nil, err
	}
	items := make([]dto.CounterpartResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *toSupplierResponse(c))
	}
	return &dto.CounterpartListResponse{Items: items, Page: pageOf(page)}, nil
}

// Update actualiza los campos indicados de un proveedor.
func (uc *SupplierUseCase) Update(ctx context.Context, company *entity.Company, id string, in dto.UpdateCounterpartRequest, actor appaudit.Actor) (*dto.CounterpartResponse, error) {
	companyID, err := company.ScopeID()
	if err != nil {
		return nil, err
	}
	var supplier *entity.Supplier
	err = uc.d.Tx.Run(ctx, func(tx repository.Repos) error {
		var err error
		supplier, err = tx.Suppliers.GetByCompany(ctx, companyID, id)
		if err != nil {
			return err
		}
		changes := map[string]any{}
		setIf(&supplier.Code, in.Code, changes, "code")
		setIf(&supplier.Name, in.Name, changes, "name")
		setIf(&supplier.TaxID, in.TaxID, changes, "tax_id")
		setIf(&supplier.Email, in.Email, changes, "email")
		setIf(&supplier.Phone, in.Phone, changes, "phone")
		setIf(&supplier.Address, in.Address, changes, "address")
		setIf(&supplier.Active, in.Active, changes, "active")
		supplier.UpdatedAt = time.Now()
		if err := tx.Suppliers.Update(ctx, supplier); err != nil {
			return err
		}
		return uc.d.Audit.LogTx(ctx, tx.Audit, actor.Entry(companyID, entity.ActionUpdate, entity.ModelSupplier, supplier.ID, changes))
	})
	if err != nil {
		return nil, err
	}
	return toSupplierResponse(supplier), nil
}

// Delete elimina un proveedor sin operaciones. Referenciado devuelve domain.ErrInUse.
func (uc *SupplierUseCase) Delete(ctx context.Context, company *entity.Company, id string, actor appaudit.Actor) error {
	companyID, err := company.ScopeID()
	if err != nil {
		return err
	}
	err = uc.d.Tx.Run(ctx, func(tx repository.Repos) error {
		c, err := tx.Suppliers.GetByCompany(ctx, companyID, id)
		if err != nil {
			return err
		}
		if err := tx.Suppliers.Delete(ctx, companyID, id); err != nil {
			return err
		}
		return uc.d.Audit.LogTx(ctx, tx.Audit, actor.Entry(companyID, entity.ActionDelete, entity.ModelSupplier, id,
			map[string]any{"code": c.Code, "name": c.Name}))
	})
	if err != nil {
		return err
	}
	uc.d.afterDelete(ctx, actor, companyID)
	return nil
}

func toSupplierResponse(c *entity.Supplier) *dto.CounterpartResponse {
	return &dto.CounterpartResponse{
		ID:        c.ID,
		CompanyID: c.CompanyID,
		Code:      c.Code,
		Name:      c.Name,
		TaxID:     c.TaxID,
		Email:     c.Email,
		Phone:     c.Phone,
		Address:   c.Address,
		Active:    c.Active,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
