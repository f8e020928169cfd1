package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/gestion-pyme/internal/domain"
	"github.com/jhoicas/gestion-pyme/internal/domain/entity"
	"github.com/jhoicas/gestion-pyme/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `id, company_id, code, name, description, type, price, unit_of_measure, stock, stock_minimo,
	active, COALESCE(created_by::text, ''), created_at, updated_at`

func scanProduct(row rowScanner) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(&p.ID, &p.CompanyID, &p.Code, &p.Name, &p.Description, &p.Type, &p.Price, &p.UnitOfMeasure,
		&p.Stock, &p.StockMinimo, &p.Active, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	if p.CompanyID == "" {
		return domain.ErrNoCompany
	}
	query := `
		INSERT INTO products (id, company_id, code, name, description, type, price, unit_of_measure, stock,
			stock_minimo, active, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.CompanyID, p.Code, p.Name, p.Description, string(p.Type), p.Price, p.UnitOfMeasure, p.Stock,
		p.StockMinimo, p.Active, nullIfEmpty(p.CreatedBy), p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *ProductRepo) getOne(ctx context.Context, query, op string, args ...any) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// GetByCompany obtiene un producto de la empresa.
func (r *ProductRepo) GetByCompany(ctx context.Context, companyID, id string) (*entity.Product, error) {
	if companyID == "" {
		return nil, domain.ErrNoCompany
	}
	query := `SELECT ` + productColumns + ` FROM products WHERE company_id = $1 AND id = $2`
	return r.getOne(ctx, query, "get product", companyID, id)
}

// GetByCompanyAndCode obtiene un producto por empresa y código.
func (r *ProductRepo) GetByCompanyAndCode(ctx context.Context, companyID, code string) (*entity.Product, error) {
	if companyID == "" {
		return nil, domain.ErrNoCompany
	}
	query := `SELECT ` + productColumns + ` FROM products WHERE company_id = $1 AND code = $2`
	return r.getOne(ctx, query, "get product by code", companyID, code)
}

// GetForUpdate obtiene el producto y bloquea la fila (SELECT FOR UPDATE). Solo tiene efecto dentro de una tx.
func (r *ProductRepo) GetForUpdate(ctx context.Context, companyID, id string) (*entity.Product, error) {
	if companyID == "" {
		return nil, domain.ErrNoCompany
	}
	query := `SELECT ` + productColumns + ` FROM products WHERE company_id = $1 AND id = $2 FOR UPDATE`
	return r.getOne(ctx, query, "get product for update", companyID, id)
}

func (r *ProductRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	out := []*entity.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ListByCompany lista productos de la empresa ordenados por nombre.
func (r *ProductRepo) ListByCompany(ctx context.Context, companyID string, f repository.ListFilter) ([]*entity.Product, error) {
	if companyID == "" {
		return nil, domain.ErrNoCompany
	}
	query := `
		SELECT ` + productColumns + ` FROM products
		WHERE company_id = $1
		  AND ($2::text IS NULL OR code ILIKE $2 OR name ILIKE $2)
		  AND (NOT $3 OR active)
		ORDER BY name, created_at
		LIMIT $4 OFFSET $5`
	return r.list(ctx, query, companyID, likeArg(f.Search), f.OnlyActive, limitArg(f.Limit), f.Offset)
}

// ListLowStock productos físicos activos en o bajo su stock mínimo.
func (r *ProductRepo) ListLowStock(ctx context.Context, companyID string) ([]*entity.Product, error) {
	if companyID == "" {
		return nil, domain.ErrNoCompany
	}
	query := `
		SELECT ` + productColumns + ` FROM products
		WHERE company_id = $1 AND active AND type = 'product'
		  AND stock_minimo > 0 AND COALESCE(stock, 0) <= stock_minimo
		ORDER BY name, created_at`
	return r.list(ctx, query, companyID)
}

// Update actualiza los datos editables del producto. El stock solo cambia vía UpdateStock.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	if p.CompanyID == "" {
		return domain.ErrNoCompany
	}
	query := `
		UPDATE products
		SET code = $3, name = $4, description = $5, type = $6, price = $7, unit_of_measure = $8,
			stock = $9, stock_minimo = $10, active = $11, updated_at = now()
		WHERE company_id = $1 AND id = $2`
	tag, err := r.q.Exec(ctx, query, p.CompanyID, p.ID, p.Code, p.Name, p.Description, string(p.Type),
		p.Price, p.UnitOfMeasure, p.Stock, p.StockMinimo, p.Active)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateStock fija el stock del producto.
func (r *ProductRepo) UpdateStock(ctx context.Context, companyID, id string, stock decimal.Decimal) error {
	if companyID == "" {
		return domain.ErrNoCompany
	}
	query := `UPDATE products SET stock = $3, updated_at = now() WHERE company_id = $1 AND id = $2`
	tag, err := r.q.Exec(ctx, query, companyID, id, stock)
	if err != nil {
		return fmt.Errorf("update product stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un producto. Referenciado por ítems de operaciones devuelve ErrInUse.
func (r *ProductRepo) Delete(ctx context.Context, companyID, id string) error {
	if companyID == "" {
		return domain.ErrNoCompany
	}
	tag, err := r.q.Exec(ctx, `DELETE FROM products WHERE company_id = $1 AND id = $2`, companyID, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrInUse
		}
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
