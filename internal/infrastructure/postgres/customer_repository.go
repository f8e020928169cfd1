package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/gestion-pyme/internal/domain"
	"github.com/jhoicas/gestion-pyme/internal/domain/entity"
	"github.com/jhoicas/gestion-pyme/internal/domain/repository"
)

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

// CustomerRepo implementación de CustomerRepository (usable con pool o tx).
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

const customerColumns = `id, company_id, code, name, tax_id, email, phone, address, active,
	COALESCE(created_by::text, ''), created_at, updated_at`

func scanCustomer(row rowScanner) (*entity.Customer, error) {
	var c entity.Customer
	err := row.Scan(&c.ID, &c.CompanyID, &c.Code, &c.Name, &c.TaxID, &c.Email, &c.Phone, &c.Address,
		&c.Active, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create persiste un nuevo cliente. Código repetido en la empresa devuelve ErrDuplicate.
func (r *CustomerRepo) Create(ctx context.Context, c *entity.Customer) error {
	if c.CompanyID == "" {
		return domain.ErrNoCompany
	}
	query := `
		INSERT INTO customers (id, company_id, code, name, tax_id, email, phone, address, active, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.CompanyID, c.Code, c.Name, c.TaxID, c.Email, c.Phone, c.Address, c.Active,
		nullIfEmpty(c.CreatedBy), c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

// GetByCompany obtiene un cliente de la empresa. Otro tenant se comporta igual que inexistente.
func (r *CustomerRepo) GetByCompany(ctx context.Context, companyID, id string) (*entity.Customer, error) {
	if companyID == "" {
		return nil, domain.ErrNoCompany
	}
	query := `SELECT ` + customerColumns + ` FROM customers WHERE company_id = $1 AND id = $2`
	c, err := scanCustomer(r.q.QueryRow(ctx, query, companyID, id))
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return c, nil
}

// GetByCompanyAndCode obtiene un cliente por empresa y código.
func (r *CustomerRepo) GetByCompanyAndCode(ctx context.Context, companyID, code string) (*entity.Customer, error) {
	if companyID == "" {
		return nil, domain.ErrNoCompany
	}
	query := `SELECT ` + customerColumns + ` FROM customers WHERE company_id = $1 AND code = $2`
	c, err := scanCustomer(r.q.QueryRow(ctx, query, companyID, code))
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get customer by code: %w", err)
	}
	return c, nil
}

// ListByCompany lista clientes de la empresa ordenados por nombre.
func (r *CustomerRepo) ListByCompany(ctx context.Context, companyID string, f repository.ListFilter) ([]*entity.Customer, error) {
	if companyID == "" {
		return nil, domain.ErrNoCompany
	}
	query := `
		SELECT ` + customerColumns + ` FROM customers
		WHERE company_id = $1
		  AND ($2::text IS NULL OR code ILIKE $2 OR name ILIKE $2)
		  AND (NOT $3 OR active)
		ORDER BY name, created_at
		LIMIT $4 OFFSET $5`
	rows, err := r.q.Query(ctx, query, companyID, likeArg(f.Search), f.OnlyActive, limitArg(f.Limit), f.Offset)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()
	out := []*entity.Customer{}
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Update actualiza un cliente de la empresa.
func (r *CustomerRepo) Update(ctx context.Context, c *entity.Customer) error {
	if c.CompanyID == "" {
		return domain.ErrNoCompany
	}
	query := `
		UPDATE customers
		SET code = $3, name = $4, tax_id = $5, email = $6, phone = $7, address = $8, active = $9, updated_at = now()
		WHERE company_id = $1 AND id = $2`
	tag, err := r.q.Exec(ctx, query, c.CompanyID, c.ID, c.Code, c.Name, c.TaxID, c.Email, c.Phone, c.Address, c.Active)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un cliente. Referenciado por operaciones devuelve ErrInUse.
func (r *CustomerRepo) Delete(ctx context.Context, companyID, id string) error {
	if companyID == "" {
		return domain.ErrNoCompany
	}
	tag, err := r.q.Exec(ctx, `DELETE FROM customers WHERE company_id = $1 AND id = $2`, companyID, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrInUse
		}
		return fmt.Errorf("delete customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
