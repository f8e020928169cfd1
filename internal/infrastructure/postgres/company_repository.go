package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/gestion-pyme/internal/domain"
	"github.com/jhoicas/gestion-pyme/internal/domain/entity"
	"github.com/jhoicas/gestion-pyme/internal/domain/repository"
)

// Asegura que CompanyRepo implementa repository.CompanyRepository.
var _ repository.CompanyRepository = (*CompanyRepo)(nil)

// CompanyRepo implementación del puerto CompanyRepository sobre PostgreSQL (usable con pool o tx).
type CompanyRepo struct {
	q Querier
}

// NewCompanyRepository construye el adaptador de persistencia para empresas.
func NewCompanyRepository(q Querier) *CompanyRepo {
	return &CompanyRepo{q: q}
}

const companyColumns = `id, name, tax_id, address, phone, email, active, is_demo, created_at, updated_at`

func scanCompany(row rowScanner) (*entity.Company, error) {
	var c entity.Company
	err := row.Scan(&c.ID, &c.Name, &c.TaxID, &c.Address, &c.Phone, &c.Email,
		&c.Active, &c.IsDemo, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create persiste una nueva empresa.
func (r *CompanyRepo) Create(ctx context.Context, c *entity.Company) error {
	query := `
		INSERT INTO companies (` + companyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.Name, c.TaxID, c.Address, c.Phone, c.Email, c.Active, c.IsDemo, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert company: %w", err)
	}
	return nil
}

// GetByID obtiene una empresa por ID.
func (r *CompanyRepo) GetByID(ctx context.Context, id string) (*entity.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE id = $1`
	c, err := scanCompany(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get company: %w", err)
	}
	return c, nil
}

// Update actualiza los datos de la empresa.
func (r *CompanyRepo) Update(ctx context.Context, c *entity.Company) error {
	query := `
		UPDATE companies
		SET name = $2, tax_id = $3, address = $4, phone = $5, email = $6, active = $7, is_demo = $8, updated_at = now()
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, c.ID, c.Name, c.TaxID, c.Address, c.Phone, c.Email, c.Active, c.IsDemo)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update company: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetSettings obtiene la configuración de la empresa.
func (r *CompanyRepo) GetSettings(ctx context.Context, companyID string) (*entity.CompanySettings, error) {
	if companyID == "" {
		return nil, domain.ErrNoCompany
	}
	query := `
		SELECT company_id, currency, tax_rate_default, timezone, updated_at
		FROM company_settings WHERE company_id = $1`
	var s entity.CompanySettings
	err := r.q.QueryRow(ctx, query, companyID).Scan(
		&s.CompanyID, &s.Currency, &s.TaxRateDefault, &s.Timezone, &s.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get company settings: %w", err)
	}
	return &s, nil
}

// UpsertSettings crea o reemplaza la configuración de la empresa.
func (r *CompanyRepo) UpsertSettings(ctx context.Context, s *entity.CompanySettings) error {
	if s.CompanyID == "" {
		return domain.ErrNoCompany
	}
	query := `
		INSERT INTO company_settings (company_id, currency, tax_rate_default, timezone, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (company_id)
		DO UPDATE SET currency = EXCLUDED.currency, tax_rate_default = EXCLUDED.tax_rate_default,
			timezone = EXCLUDED.timezone, updated_at = now()`
	_, err := r.q.Exec(ctx, query, s.CompanyID, s.Currency, s.TaxRateDefault, s.Timezone)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("upsert company settings: %w", err)
	}
	return nil
}
