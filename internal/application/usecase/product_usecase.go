package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	appaudit "github.com/jhoicas/gestion-pyme/internal/application/audit"
	"github.com/jhoicas/gestion-pyme/internal/application/dto"
	"github.com/jhoicas/gestion-pyme/internal/domain"
	"github.com/jhoicas/gestion-pyme/internal/domain/entity"
	"github.com/jhoicas/gestion-pyme/internal/domain/ledger"
	"github.com/jhoicas/gestion-pyme/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// ProductUseCase casos de uso CRUD para productos. El stock se mueve solo con operaciones confirmadas.
type ProductUseCase struct {
	d CatalogDeps
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(d CatalogDeps) *ProductUseCase {
	return &ProductUseCase{d: d}
}

// validateProduct reglas de producto: tipo válido, precio y mínimo no negativos, servicios sin stock.
func validateProduct(p *entity.Product) error {
	if !p.Type.Valid() {
		return domain.Invalid("tipo de producto inválido: %q", p.Type)
	}
	if p.Price.IsNegative() {
		return domain.Invalid("el precio no puede ser negativo")
	}
	if p.StockMinimo.IsNegative() {
		return domain.Invalid("el stock mínimo no puede ser negativo")
	}
	if p.Stock != nil && p.Stock.IsNegative() {
		return domain.Invalid("el stock no puede ser negativo")
	}
	if !p.TracksStock() && p.Stock != nil {
		return domain.Invalid("los servicios no llevan stock")
	}
	if !ledger.InRange(p.Price) || !ledger.InRange(p.StockMinimo) || (p.Stock != nil && !ledger.InRange(*p.Stock)) {
		return domain.Invalid("precio o stock superan el máximo de %s", ledger.MaxAmount.StringFixed(ledger.MoneyPlaces))
	}
	return nil
}

// Create crea un producto. Un producto físico sin stock inicial arranca en 0.
func (uc *ProductUseCase) Create(ctx context.Context, company *entity.Company, in dto.CreateProductRequest, actor appaudit.Actor) (*dto.ProductResponse, error) {
	companyID, err := company.ScopeID()
	if err != nil {
		return nil, err
	}
	if in.Type == "" {
		in.Type = string(entity.ProductTypeProduct)
	}
	if in.UnitOfMeasure == "" {
		in.UnitOfMeasure = "unidad"
	}
	now := time.Now()
	product := &entity.Product{
		ID:            uuid.New().String(),
		CompanyID:     companyID,
		Code:          in.Code,
		Name:          in.Name,
		Description:   in.Description,
		Type:          entity.ProductType(in.Type),
		Price:         in.Price,
		UnitOfMeasure: in.UnitOfMeasure,
		Stock:         in.Stock,
		StockMinimo:   in.StockMinimo,
		Active:        true,
		CreatedBy:     actor.UserID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if product.TracksStock() && product.Stock == nil {
		zero := decimal.Zero
		product.Stock = &zero
	}
	if err := validateProduct(product); err != nil {
		return nil, err
	}
	err = uc.d.Tx.Run(ctx, func(tx repository.Repos) error {
		if err := tx.Products.Create(ctx, product); err != nil {
			return err
		}
		return uc.d.Audit.LogTx(ctx, tx.Audit, actor.Entry(companyID, entity.ActionCreate, entity.ModelProduct, product.ID, map[string]any{
			"code":  product.Code,
			"name":  product.Name,
			"type":  string(product.Type),
			"price": product.Price.StringFixed(2),
			"stock": product.CurrentStock().String(),
		}))
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// Get obtiene un producto de la empresa.
func (uc *ProductUseCase) Get(ctx context.Context, company *entity.Company, id string) (*dto.ProductResponse, error) {
	companyID, err := company.ScopeID()
	if err != nil {
		return nil, err
	}
	p, err := uc.d.Repos.Products.GetByCompany(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	return toProductResponse(p), nil
}

// List lista productos por empresa con paginación.
func (uc *ProductUseCase) List(ctx context.Context, company *entity.Company, page dto.PageRequest) (*dto.ProductListResponse, error) {
	companyID, err := company.ScopeID()
	if err != nil {
		return nil, err
	}
	list, err := uc.d.Repos.Products.ListByCompany(ctx, companyID, listFilter(page))
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{Items: items, Page: pageOf(page)}, nil
}

// Update actualiza un producto. No modifica el stock: un producto con stock no pasa a servicio y
// un servicio que pasa a producto físico arranca en 0.
func (uc *ProductUseCase) Update(ctx context.Context, company *entity.Company, id string, in dto.UpdateProductRequest, actor appaudit.Actor) (*dto.ProductResponse, error) {
	companyID, err := company.ScopeID()
	if err != nil {
		return nil, err
	}
	var product *entity.Product
	err = uc.d.Tx.Run(ctx, func(tx repository.Repos) error {
		var err error
		product, err = tx.Products.GetForUpdate(ctx, companyID, id)
		if err != nil {
			return err
		}
		changes := map[string]any{}
		setIf(&product.Code, in.Code, changes, "code")
		setIf(&product.Name, in.Name, changes, "name")
		setIf(&product.Description, in.Description, changes, "description")
		setIf(&product.UnitOfMeasure, in.UnitOfMeasure, changes, "unit_of_measure")
		setIf(&product.Active, in.Active, changes, "active")
		if in.Price != nil {
			product.Price = *in.Price
			changes["price"] = in.Price.StringFixed(2)
		}
		if in.StockMinimo != nil {
			product.StockMinimo = *in.StockMinimo
			changes["stock_minimo"] = in.StockMinimo.String()
		}
		if in.Type != nil && entity.ProductType(*in.Type) != product.Type {
			product.Type = entity.ProductType(*in.Type)
			changes["type"] = *in.Type
			switch {
			case product.TracksStock():
				zero := decimal.Zero
				product.Stock = &zero
			case !product.CurrentStock().IsZero():
				return domain.Invalid("no se puede convertir en servicio un producto con stock")
			default:
				product.Stock = nil
			}
		}
		if err := validateProduct(product); err != nil {
			return err
		}
		product.UpdatedAt = time.Now()
		if err := tx.Products.Update(ctx, product); err != nil {
			return err
		}
		return uc.d.Audit.LogTx(ctx, tx.Audit, actor.Entry(companyID, entity.ActionUpdate, entity.ModelProduct, product.ID, changes))
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// Delete elimina un producto que no aparece en ninguna operación (domain.ErrInUse en otro caso).
func (uc *ProductUseCase) Delete(ctx context.Context, company *entity.Company, id string, actor appaudit.Actor) error {
	companyID, err := company.ScopeID()
	if err != nil {
		return err
	}
	err = uc.d.Tx.Run(ctx, func(tx repository.Repos) error {
		p, err := tx.Products.GetByCompany(ctx, companyID, id)
		if err != nil {
			return err
		}
		if err := tx.Products.Delete(ctx, companyID, id); err != nil {
			return err
		}
		return uc.d.Audit.LogTx(ctx, tx.Audit, actor.Entry(companyID, entity.ActionDelete, entity.ModelProduct, id,
			map[string]any{"code": p.Code, "name": p.Name}))
	})
	if err != nil {
		return err
	}
	uc.d.afterDelete(ctx, actor, companyID)
	return nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:            p.ID,
		CompanyID:     p.CompanyID,
		Code:          p.Code,
		Name:          p.Name,
		Description:   p.Description,
		Type:          string(p.Type),
		Price:         p.Price,
		UnitOfMeasure: p.UnitOfMeasure,
		Stock:         p.Stock,
		StockMinimo:   p.StockMinimo,
		LowStock:      p.TracksStock() && p.IsLowStock(),
		Active:        p.Active,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
