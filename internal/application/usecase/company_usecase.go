package usecase

import (
	"context"
	"errors"
	"strings"
	"time"
	_ "time/tzdata" // validación de zonas horarias sin depender del sistema

	"github.com/google/uuid"
	appaudit "github.com/jhoicas/gestion-pyme/internal/application/audit"
	"github.com/jhoicas/gestion-pyme/internal/application/auth"
	"github.com/jhoicas/gestion-pyme/internal/application/dto"
	"github.com/jhoicas/gestion-pyme/internal/domain"
	"github.com/jhoicas/gestion-pyme/internal/domain/entity"
	"github.com/jhoicas/gestion-pyme/internal/domain/repository"
	"github.com/jhoicas/gestion-pyme/pkg/logger"
)

// CompanyUseCase alta de empresas, su configuración y sus membresías.
type CompanyUseCase struct {
	tx    repository.TxRunner
	repos repository.Repos
	audit *appaudit.Service
	log   *logger.Logger
}

// NewCompanyUseCase construye el caso de uso.
func NewCompanyUseCase(tx repository.TxRunner, repos repository.Repos, audit *appaudit.Service, log *logger.Logger) *CompanyUseCase {
	return &CompanyUseCase{tx: tx, repos: repos, audit: audit, log: log}
}

// Provision crea empresa, configuración y membresía admin en una sola transacción. Si el email del
// administrador no existe se crea el usuario (requiere AdminPassword). Devuelve domain.ErrDuplicate
// si el RUC/NIT ya existe.
func (uc *CompanyUseCase) Provision(ctx context.Context, in dto.ProvisionCompanyRequest, actor appaudit.Actor) (*dto.CompanyResponse, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, domain.Invalid("el nombre de la empresa es obligatorio")
	}
	now := time.Now()
	company := &entity.Company{
		ID:        uuid.New().String(),
		Name:      in.Name,
		TaxID:     in.TaxID,
		Address:   in.Address,
		Phone:     in.Phone,
		Email:     in.Email,
		Active:    true,
		IsDemo:    in.IsDemo,
		CreatedAt: now,
		UpdatedAt: now,
	}
	settings := entity.DefaultSettings(company.ID)
	if in.Currency != "" {
		settings.Currency = strings.ToUpper(in.Currency)
	}
	if in.TaxRateDefault != nil {
		settings.TaxRateDefault = *in.TaxRateDefault
	}
	if in.Timezone != "" {
		settings.Timezone = in.Timezone
	}
	if err := validateSettings(settings); err != nil {
		return nil, err
	}

	err := uc.tx.Run(ctx, func(tx repository.Repos) error {
		admin, err := uc.findOrCreateUser(ctx, tx, in)
		if err != nil {
			return err
		}
		if err := tx.Companies.Create(ctx, company); err != nil {
			return err
		}
		if err := tx.Companies.UpsertSettings(ctx, settings); err != nil {
			return err
		}
		membership := &entity.Membership{
			ID:        uuid.New().String(),
			UserID:    admin.ID,
			CompanyID: company.ID,
			Role:      entity.RoleAdmin,
			Active:    true,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := tx.Memberships.Create(ctx, membership); err != nil {
			return err
		}
		if err := uc.audit.LogTx(ctx, tx.Audit, actor.Entry(company.ID, entity.ActionCreate, entity.ModelCompany, company.ID,
			map[string]any{"name": company.Name, "tax_id": company.TaxID, "is_demo": company.IsDemo})); err != nil {
			return err
		}
		return uc.audit.LogTx(ctx, tx.Audit, actor.Entry(company.ID, entity.ActionCreate, entity.ModelMembership, membership.ID,
			map[string]any{"user_id": admin.ID, "role": string(membership.Role)}))
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("company_id", company.ID).Str("name", company.Name).Msg("empresa aprovisionada")
	return toCompanyResponse(company), nil
}

func (uc *CompanyUseCase) findOrCreateUser(ctx context.Context, tx repository.Repos, in dto.ProvisionCompanyRequest) (*entity.User, error) {
	u, err := tx.Users.GetByEmail(ctx, in.AdminEmail)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if in.AdminPassword == "" {
		return nil, domain.Invalid("admin_password es obligatorio para un usuario nuevo")
	}
	hash, err := auth.HashPassword(in.AdminPassword)
	if err != nil {
		return nil, err
	}
	name := in.AdminName
	if name == "" {
		name = in.AdminEmail
	}
	now := time.Now()
	u = &entity.User{
		ID:           uuid.New().String(),
		Email:        strings.ToLower(in.AdminEmail),
		PasswordHash: hash,
		Name:         name,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := tx.Users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func validateSettings(s *entity.CompanySettings) error {
	if len(s.Currency) != 3 {
		return domain.Invalid("la moneda debe ser un código ISO de 3 letras")
	}
	if s.TaxRateDefault.IsNegative() || s.TaxRateDefault.GreaterThan(hundred) {
		return domain.Invalid("la tasa de impuesto debe estar entre 0 y 100")
	}
	if _, err := time.LoadLocation(s.Timezone); err != nil {
		return domain.Invalid("zona horaria inválida: %s", s.Timezone)
	}
	return nil
}

// Get devuelve la empresa del scope.
func (uc *CompanyUseCase) Get(ctx context.Context, company *entity.Company) (*dto.CompanyResponse, error) {
	companyID, err := company.ScopeID()
	if err != nil {
		return nil, err
	}
	c, err := uc.repos.Companies.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return toCompanyResponse(c), nil
}

// Update actualiza los datos de la empresa del scope.
func (uc *CompanyUseCase) Update(ctx context.Context, company *entity.Company, in dto.UpdateCompanyRequest, actor appaudit.Actor) (*dto.CompanyResponse, error) {
	companyID, err := company.ScopeID()
	if err != nil {
		return nil, err
	}
	var c *entity.Company
	err = uc.tx.Run(ctx, func(tx repository.Repos) error {
		var err error
		c, err = tx.Companies.GetByID(ctx, companyID)
		if err != nil {
			return err
		}
		changes := map[string]any{}
		setIf(&c.Name, in.Name, changes, "name")
		setIf(&c.TaxID, in.TaxID, changes, "tax_id")
		setIf(&c.Address, in.Address, changes, "address")
		setIf(&c.Phone, in.Phone, changes, "phone")
		setIf(&c.Email, in.Email, changes, "email")
		c.UpdatedAt = time.Now()
		if err := tx.Companies.Update(ctx, c); err != nil {
			return err
		}
		return uc.audit.LogTx(ctx, tx.Audit, actor.Entry(companyID, entity.ActionUpdate, entity.ModelCompany, companyID, changes))
	})
	if err != nil {
		return nil, err
	}
	return toCompanyResponse(c), nil
}

// SetActive activa o desactiva una empresa (administración). Una empresa inactiva deja de resolverse.
func (uc *CompanyUseCase) SetActive(ctx context.Context, companyID string, active bool, actor appaudit.Actor) (*dto.CompanyResponse, error) {
	if companyID == "" {
		return nil, domain.ErrNoCompany
	}
	var c *entity.Company
	err := uc.tx.Run(ctx, func(tx repository.Repos) error {
		var err error
		c, err = tx.Companies.GetByID(ctx, companyID)
		if err != nil {
			return err
		}
		c.Active = active
		c.UpdatedAt = time.Now()
		if err := tx.Companies.Update(ctx, c); err != nil {
			return err
		}
		return uc.audit.LogTx(ctx, tx.Audit, actor.Entry(companyID, entity.ActionUpdate, entity.ModelCompany, companyID,
			map[string]any{"active": active}))
	})
	if err != nil {
		return nil, err
	}
	return toCompanyResponse(c), nil
}

// GetSettings configuración de la empresa; sin fila devuelve los valores por defecto.
func (uc *CompanyUseCase) GetSettings(ctx context.Context, company *entity.Company) (*dto.SettingsResponse, error) {
	companyID, err := company.ScopeID()
	if err != nil {
		return nil, err
	}
	s, err := uc.repos.Companies.GetSettings(ctx, companyID)
	if errors.Is(err, domain.ErrNotFound) {
		s, err = entity.DefaultSettings(companyID), nil
	}
	if err != nil {
		return nil, err
	}
	return toSettingsResponse(s), nil
}

// UpdateSettings cambia moneda, tasa por defecto y/o zona horaria. Los borradores existentes toman la
// tasa nueva al recalcularse; las operaciones confirmadas no cambian.
func (uc *CompanyUseCase) UpdateSettings(ctx context.Context, company *entity.Company, in dto.SettingsRequest, actor appaudit.Actor) (*dto.SettingsResponse, error) {
	companyID, err := company.ScopeID()
	if err != nil {
		return nil, err
	}
	var s *entity.CompanySettings
	err = uc.tx.Run(ctx, func(tx repository.Repos) error {
		var err error
		s, err = tx.Companies.GetSettings(ctx, companyID)
		if errors.Is(err, domain.ErrNotFound) {
			s, err = entity.DefaultSettings(companyID), nil
		}
		if err != nil {
			return err
		}
		changes := map[string]any{}
		if in.Currency != nil {
			s.Currency = strings.ToUpper(*in.Currency)
			changes["currency"] = s.Currency
		}
		if in.TaxRateDefault != nil {
			s.TaxRateDefault = *in.TaxRateDefault
			changes["tax_rate_default"] = s.TaxRateDefault.String()
		}
		setIf(&s.Timezone, in.Timezone, changes, "timezone")
		if err := validateSettings(s); err != nil {
			return err
		}
		if err := tx.Companies.UpsertSettings(ctx, s); err != nil {
			return err
		}
		return uc.audit.LogTx(ctx, tx.Audit, actor.Entry(companyID, entity.ActionUpdate, entity.ModelCompany, companyID, changes))
	})
	if err != nil {
		return nil, err
	}
	return toSettingsResponse(s), nil
}

// AddMember da acceso a un usuario existente. Una membresía previa inactiva se reactiva con el rol
// indicado; una activa devuelve domain.ErrDuplicate.
func (uc *CompanyUseCase) AddMember(ctx context.Context, company *entity.Company, in dto.AddMemberRequest, actor appaudit.Actor) (*dto.MembershipResponse, error) {
	companyID, err := company.ScopeID()
	if err != nil {
		return nil, err
	}
	role, ok := entity.ParseRole(in.Role)
	if !ok {
		return nil, domain.Invalid("rol inválido: %q", in.Role)
	}
	var m *entity.Membership
	err = uc.tx.Run(ctx, func(tx repository.Repos) error {
		u, err := tx.Users.GetByEmail(ctx, in.Email)
		if err != nil {
			return err
		}
		now := time.Now()
		action := entity.ActionCreate
		m, err = tx.Memberships.Get(ctx, u.ID, companyID)
		switch {
		case err == nil && m.Active:
			return domain.ErrDuplicate
		case err == nil:
			action = entity.ActionUpdate
			m.Role, m.Active, m.UpdatedAt = role, true, now
			err = tx.Memberships.Update(ctx, m)
		case errors.Is(err, domain.ErrNotFound):
			m = &entity.Membership{
				ID:        uuid.New().String(),
				UserID:    u.ID,
				CompanyID: companyID,
				Role:      role,
				Active:    true,
				CreatedAt: now,
				UpdatedAt: now,
			}
			err = tx.Memberships.Create(ctx, m)
		}
		if err != nil {
			return err
		}
		return uc.audit.LogTx(ctx, tx.Audit, actor.Entry(companyID, action, entity.ModelMembership, m.ID,
			map[string]any{"user_id": u.ID, "role": string(role), "active": true}))
	})
	if err != nil {
		return nil, err
	}
	return toMembershipResponse(m, company), nil
}

// UpdateMember cambia el rol y/o el estado de la membresía de un usuario en la empresa. Un usuario
// no puede modificar su propia membresía.
func (uc *CompanyUseCase) UpdateMember(ctx context.Context, company *entity.Company, userID string, in dto.UpdateMemberRequest, actor appaudit.Actor) (*dto.MembershipResponse, error) {
	companyID, err := company.ScopeID()
	if err != nil {
		return nil, err
	}
	if userID == actor.UserID {
		return nil, domain.Invalid("no se puede modificar la propia membresía")
	}
	var m *entity.Membership
	err = uc.tx.Run(ctx, func(tx repository.Repos) error {
		var err error
		m, err = tx.Memberships.Get(ctx, userID, companyID)
		if err != nil {
			return err
		}
		changes := map[string]any{"user_id": userID}
		if in.Role != nil {
			role, ok := entity.ParseRole(*in.Role)
			if !ok {
				return domain.Invalid("rol inválido: %q", *in.Role)
			}
			m.Role = role
			changes["role"] = string(role)
		}
		setIf(&m.Active, in.Active, changes, "active")
		m.UpdatedAt = time.Now()
		if err := tx.Memberships.Update(ctx, m); err != nil {
			return err
		}
		return uc.audit.LogTx(ctx, tx.Audit, actor.Entry(companyID, entity.ActionUpdate, entity.ModelMembership, m.ID, changes))
	})
	if err != nil {
		return nil, err
	}
	return toMembershipResponse(m, company), nil
}

// SetMembershipActive activa o revoca el acceso de un usuario a la empresa.
func (uc *CompanyUseCase) SetMembershipActive(ctx context.Context, company *entity.Company, userID string, active bool, actor appaudit.Actor) (*dto.MembershipResponse, error) {
	return uc.UpdateMember(ctx, company, userID, dto.UpdateMemberRequest{Active: &active}, actor)
}

// ListMembers membresías de la empresa del scope, activas o no.
func (uc *CompanyUseCase) ListMembers(ctx context.Context, company *entity.Company) ([]dto.MembershipResponse, error) {
	companyID, err := company.ScopeID()
	if err != nil {
		return nil, err
	}
	list, err := uc.repos.Memberships.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MembershipResponse, 0, len(list))
	for _, m := range list {
		out = append(out, *toMembershipResponse(m, company))
	}
	return out, nil
}

// ListMemberships empresas activas accesibles por el usuario, en orden de alta.
func (uc *CompanyUseCase) ListMemberships(ctx context.Context, userID string) ([]dto.MembershipResponse, error) {
	list, err := uc.repos.Memberships.ListActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MembershipResponse, 0, len(list))
	for _, cm := range list {
		out = append(out, *toMembershipResponse(cm.Membership, cm.Company))
	}
	return out, nil
}

func toCompanyResponse(c *entity.Company) *dto.CompanyResponse {
	if c == nil {
		return nil
	}
	return &dto.CompanyResponse{
		ID:        c.ID,
		Name:      c.Name,
		TaxID:     c.TaxID,
		Address:   c.Address,
		Phone:     c.Phone,
		Email:     c.Email,
		Active:    c.Active,
		IsDemo:    c.IsDemo,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func toSettingsResponse(s *entity.CompanySettings) *dto.SettingsResponse {
	return &dto.SettingsResponse{
		CompanyID:      s.CompanyID,
		Currency:       s.Currency,
		TaxRateDefault: s.TaxRateDefault,
		Timezone:       s.Timezone,
		UpdatedAt:      s.UpdatedAt,
	}
}

func toMembershipResponse(m *entity.Membership, c *entity.Company) *dto.MembershipResponse {
	out := &dto.MembershipResponse{
		ID:        m.ID,
		UserID:    m.UserID,
		CompanyID: m.CompanyID,
		Role:      string(m.Role),
		Active:    m.Active,
		CreatedAt: m.CreatedAt,
	}
	if c != nil {
		out.CompanyName = c.Name
	}
	return out
}
