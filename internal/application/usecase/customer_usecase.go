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

// CustomerUseCase casos de uso para clientes.
type CustomerUseCase struct {
	d CatalogDeps
}

// NewCustomerUseCase construye el caso de uso.
func NewCustomerUseCase(d CatalogDeps) *CustomerUseCase {
	return &CustomerUseCase{d: d}
}

// Create crea un cliente. Código repetido en la empresa devuelve domain.ErrDuplicate.
func (uc *CustomerUseCase) Create(ctx context.Context, company *entity.Company, in dto.CreateCounterpartRequest, actor appaudit.Actor) (*dto.CounterpartResponse, error) {
	companyID, err := company.ScopeID()
	if err != nil {
		return nil, err
	}
	now := time.Now()
	customer := &entity.Customer{
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
		if err := tx.Customers.Create(ctx, customer); err != nil {
			return err
		}
		return uc.d.Audit.LogTx(ctx, tx.Audit, actor.Entry(companyID, entity.ActionCreate, entity.ModelCustomer, customer.ID,
			map[string]any{"code": customer.Code, "name": customer.Name}))
	})
	if err != nil {
		return nil, err
	}
	return toCustomerResponse(customer), nil
}

// Get obtiene un cliente de la empresa.
func (uc *CustomerUseCase) Get(ctx context.Context, company *entity.Company, id string) (*dto.CounterpartResponse, error) {
	companyID, err := company.ScopeID()
	if err != nil {
		return nil, err
	}
	c, err := uc.d.Repos.Customers.GetByCompany(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	return toCustomerResponse(c), nil
}

// List lista clientes de la empresa con paginación y búsqueda.
func (uc *CustomerUseCase) List(ctx context.Context, company *entity.Company, page dto.PageRequest) (*dto.CounterpartListResponse, error) {
	companyID, err := company.ScopeID()
	if err != nil {
		return nil, err
	}
	list, err := uc.d.Repos.Customers.ListByCompany(ctx, companyID, listFilter(page))
	if err != nil {
		return nil, err
	}
	items := make([]dto.CounterpartResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *toCustomerResponse(c))
	}
	return &dto.CounterpartListResponse{Items: items, Page: pageOf(page)}, nil
}

// Update actualiza los campos indicados de un cliente.
func (uc *CustomerUseCase) Update(ctx context.Context, company *entity.Company, id string, in dto.UpdateCounterpartRequest, actor appaudit.Actor) (*dto.CounterpartResponse, error) {
	companyID, err := company.ScopeID()
	if err != nil {
		return nil, err
	}
	var customer *entity.Customer
	err = uc.d.Tx.Run(ctx, func(tx repository.Repos) error {
		var err error
		customer, err = tx.Customers.GetByCompany(ctx, companyID, id)
		if err != nil {
			return err
		}
		changes := map[string]any{}
		setIf(&customer.Code, in.Code, changes, "code")
		setIf(&customer.Name, in.Name, changes, "name")
		setIf(&customer.TaxID, in.TaxID, changes, "tax_id")
		setIf(&customer.Email, in.Email, changes, "email")
		setIf(&customer.Phone, in.Phone, changes, "phone")
		setIf(&customer.Address, in.Address, changes, "address")
		setIf(&customer.Active, in.Active, changes, "active")
		customer.UpdatedAt = time.Now()
		if err := tx.Customers.Update(ctx, customer); err != nil {
			return err
		}
		return uc.d.Audit.LogTx(ctx, tx.Audit, actor.Entry(companyID, entity.ActionUpdate, entity.ModelCustomer, customer.ID, changes))
	})
	if err != nil {
		return nil, err
	}
	return toCustomerResponse(customer), nil
}

// Delete elimina un cliente sin operaciones. Referenciado devuelve domain.ErrInUse.
func (uc *CustomerUseCase) Delete(ctx context.Context, company *entity.Company, id string, actor appaudit.Actor) error {
	companyID, err := company.ScopeID()
	if err != nil {
		return err
	}
	err = uc.d.Tx.Run(ctx, func(tx repository.Repos) error {
		c, err := tx.Customers.GetByCompany(ctx, companyID, id)
		if err != nil {
			return err
		}
		if err := tx.Customers.Delete(ctx, companyID, id); err != nil {
			return err
		}
		return uc.d.Audit.LogTx(ctx, tx.Audit, actor.Entry(companyID, entity.ActionDelete, entity.ModelCustomer, id,
			map[string]any{"code": c.Code, "name": c.Name}))
	})
	if err != nil {
		return err
	}
	uc.d.afterDelete(ctx, actor, companyID)
	return nil
}

func toCustomerResponse(c *entity.Customer) *dto.CounterpartResponse {
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
