package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/gestion-pyme/internal/domain"
	"github.com/jhoicas/gestion-pyme/internal/domain/entity"
	"github.com/jhoicas/gestion-pyme/internal/domain/repository"
)

var _ repository.MembershipRepository = (*MembershipRepo)(nil)

// MembershipRepo implementación del puerto MembershipRepository sobre PostgreSQL.
type MembershipRepo struct {
	q Querier
}

// NewMembershipRepository construye el adaptador de membresías. Pasar pool o tx (Querier).
func NewMembershipRepository(q Querier) *MembershipRepo {
	return &MembershipRepo{q: q}
}

const membershipColumns = `m.id, m.user_id, m.company_id, m.role, m.active, m.created_at, m.updated_at`

// membershipOrder orden de creación; seq desempata por orden de inserción.
const membershipOrder = `ORDER BY m.created_at, m.seq`

const membershipCompanyColumns = membershipColumns + `,
	c.id, c.name, c.tax_id, c.address, c.phone, c.email, c.active, c.is_demo, c.created_at, c.updated_at`

func scanMembership(row rowScanner) (*entity.Membership, error) {
	var m entity.Membership
	err := row.Scan(&m.ID, &m.UserID, &m.CompanyID, &m.Role, &m.Active, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func scanCompanyMembership(row rowScanner) (*entity.CompanyMembership, error) {
	var m entity.Membership
	var c entity.Company
	err := row.Scan(&m.ID, &m.UserID, &m.CompanyID, &m.Role, &m.Active, &m.CreatedAt, &m.UpdatedAt,
		&c.ID, &c.Name, &c.TaxID, &c.Address, &c.Phone, &c.Email, &c.Active, &c.IsDemo, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &entity.CompanyMembership{Membership: &m, Company: &c}, nil
}

// Create persiste una membresía. (usuario, empresa) repetido devuelve ErrDuplicate.
func (r *MembershipRepo) Create(ctx context.Context, m *entity.Membership) error {
	query := `
		INSERT INTO memberships (id, user_id, company_id, role, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query, m.ID, m.UserID, m.CompanyID, string(m.Role), m.Active, m.CreatedAt, m.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert membership: %w", err)
	}
	return nil
}

// Update cambia rol y estado de la membresía.
func (r *MembershipRepo) Update(ctx context.Context, m *entity.Membership) error {
	query := `UPDATE memberships SET role = $2, active = $3, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, m.ID, string(m.Role), m.Active)
	if err != nil {
		return fmt.Errorf("update membership: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Get obtiene la membresía del usuario en la empresa, en cualquier estado.
func (r *MembershipRepo) Get(ctx context.Context, userID, companyID string) (*entity.Membership, error) {
	if companyID == "" {
		return nil, domain.ErrNoCompany
	}
	query := `SELECT ` + membershipColumns + ` FROM memberships m WHERE m.user_id = $1 AND m.company_id = $2`
	m, err := scanMembership(r.q.QueryRow(ctx, query, userID, companyID))
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get membership: %w", err)
	}
	return m, nil
}

// FindActive membresía activa del usuario en una empresa activa.
func (r *MembershipRepo) FindActive(ctx context.Context, userID, companyID string) (*entity.CompanyMembership, error) {
	if companyID == "" {
		return nil, domain.ErrNoCompany
	}
	query := `
		SELECT ` + membershipCompanyColumns + `
		FROM memberships m JOIN companies c ON c.id = m.company_id
		WHERE m.user_id = $1 AND m.company_id = $2 AND m.active AND c.active`
	cm, err := scanCompanyMembership(r.q.QueryRow(ctx, query, userID, companyID))
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find active membership: %w", err)
	}
	return cm, nil
}

// ListActiveByUser membresías activas en empresas activas, en orden de creación.
func (r *MembershipRepo) ListActiveByUser(ctx context.Context, userID string) ([]*entity.CompanyMembership, error) {
	query := `
		SELECT ` + membershipCompanyColumns + `
		FROM memberships m JOIN companies c ON c.id = m.company_id
		WHERE m.user_id = $1 AND m.active AND c.active
		` + membershipOrder
	rows, err := r.q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}
	defer rows.Close()
	out := []*entity.CompanyMembership{}
	for rows.Next() {
		cm, err := scanCompanyMembership(rows)
		if err != nil {
			return nil, fmt.Errorf("scan membership: %w", err)
		}
		out = append(out, cm)
	}
	return out, rows.Err()
}

// ListByCompany membresías (en cualquier estado) de la empresa.
func (r *MembershipRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.Membership, error) {
	if companyID == "" {
		return nil, domain.ErrNoCompany
	}
	query := `SELECT ` + membershipColumns + ` FROM memberships m WHERE m.company_id = $1 ` + membershipOrder
	rows, err := r.q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list company memberships: %w", err)
	}
	defer rows.Close()
	out := []*entity.Membership{}
	for rows.Next() {
		m, err := scanMembership(rows)
		if err != nil {
			return nil, fmt.Errorf("scan membership: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
