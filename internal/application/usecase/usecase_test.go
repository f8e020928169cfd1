package usecase_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appaudit "github.com/jhoicas/gestion-pyme/internal/application/audit"
	"github.com/jhoicas/gestion-pyme/internal/application/dto"
	"github.com/jhoicas/gestion-pyme/internal/application/usecase"
	"github.com/jhoicas/gestion-pyme/internal/domain"
	"github.com/jhoicas/gestion-pyme/internal/domain/entity"
	"github.com/jhoicas/gestion-pyme/internal/domain/repository"
	"github.com/jhoicas/gestion-pyme/internal/infrastructure/memory"
	"github.com/jhoicas/gestion-pyme/pkg/logger"
)

type env struct {
	ctx       context.Context
	repos     repository.Repos
	deps      usecase.CatalogDeps
	companies *usecase.CompanyUseCase
	actor     appaudit.Actor
}

func newEnv(t *testing.T) *env {
	t.Helper()
	store := memory.NewStore()
	repos := store.Repos()
	log := logger.Nop()
	auditSvc := appaudit.NewService(repos.Audit, log)
	return &env{
		ctx:   context.Background(),
		repos: repos,
		deps: usecase.CatalogDeps{
			Tx:      store,
			Repos:   repos,
			Audit:   auditSvc,
			Monitor: appaudit.NewMonitor(auditSvc, repos.Audit, repos.Companies, log, appaudit.MonitorConfig{}),
			Log:     log,
		},
		companies: usecase.NewCompanyUseCase(store, repos, auditSvc, log),
		actor:     appaudit.Actor{UserID: uuid.New().String(), IP: "10.0.0.1"},
	}
}

func (e *env) provision(t *testing.T, name, email string) *entity.Company {
	t.Helper()
	res, err := e.companies.Provision(e.ctx, dto.ProvisionCompanyRequest{
		Name: name, AdminEmail: email, AdminPassword: "secreta123", TaxRateDefault: decimalPtr("12"),
	}, e.actor)
	require.NoError(t, err)
	c, err := e.repos.Companies.GetByID(e.ctx, res.ID)
	require.NoError(t, err)
	return c
}

func decimalPtr(s string) *decimal.Decimal {
	v := decimal.RequireFromString(s)
	return &v
}

func TestProvision_CreaEmpresaConfiguracionYAdmin(t *testing.T) {
	e := newEnv(t)
	c := e.provision(t, "Acme", "ana@acme.test")

	settings, err := e.companies.GetSettings(e.ctx, c)
	require.NoError(t, err)
	assert.Equal(t, entity.DefaultCurrency, settings.Currency)
	assert.True(t, decimal.NewFromInt(12).Equal(settings.TaxRateDefault))

	u, err := e.repos.Users.GetByEmail(e.ctx, "ana@acme.test")
	require.NoError(t, err)
	mine, err := e.companies.ListMemberships(e.ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, string(entity.RoleAdmin), mine[0].Role)
	assert.Equal(t, "Acme", mine[0].CompanyName)

	second := e.provision(t, "Globex", "ana@acme.test")
	mine, err = e.companies.ListMemberships(e.ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 2, "el mismo administrador en dos empresas")
	assert.NotEqual(t, c.ID, second.ID)
}

func TestProvision_Atomico(t *testing.T) {
	e := newEnv(t)
	_, err := e.companies.Provision(e.ctx, dto.ProvisionCompanyRequest{Name: "Acme", AdminEmail: "nuevo@acme.test"}, e.actor)
	assert.ErrorIs(t, err, domain.ErrValidation, "usuario nuevo sin contraseña")

	_, err = e.companies.Provision(e.ctx, dto.ProvisionCompanyRequest{
		Name: "Acme", AdminEmail: "nuevo@acme.test", AdminPassword: "secreta123", Timezone: "Marte/Olympus",
	}, e.actor)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = e.repos.Users.GetByEmail(e.ctx, "nuevo@acme.test")
	assert.ErrorIs(t, err, domain.ErrNotFound, "nada se persiste si la provisión falla")
}

func TestMembers(t *testing.T) {
	e := newEnv(t)
	c := e.provision(t, "Acme", "ana@acme.test")
	_, err := e.companies.Provision(e.ctx, dto.ProvisionCompanyRequest{Name: "Otra", AdminEmail: "beto@acme.test", AdminPassword: "secreta123"}, e.actor)
	require.NoError(t, err)

	m, err := e.companies.AddMember(e.ctx, c, dto.AddMemberRequest{Email: "beto@acme.test", Role: "operator"}, e.actor)
	require.NoError(t, err)
	assert.Equal(t, "operator", m.Role)

	_, err = e.companies.AddMember(e.ctx, c, dto.AddMemberRequest{Email: "beto@acme.test", Role: "viewer"}, e.actor)
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	_, err = e.companies.AddMember(e.ctx, c, dto.AddMemberRequest{Email: "nadie@acme.test", Role: "viewer"}, e.actor)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = e.companies.AddMember(e.ctx, c, dto.AddMemberRequest{Email: "beto@acme.test", Role: "owner"}, e.actor)
	assert.ErrorIs(t, err, domain.ErrValidation)

	revoked, err := e.companies.SetMembershipActive(e.ctx, c, m.UserID, false, e.actor)
	require.NoError(t, err)
	assert.False(t, revoked.Active)
	_, err = e.repos.Memberships.FindActive(e.ctx, m.UserID, c.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	back, err := e.companies.AddMember(e.ctx, c, dto.AddMemberRequest{Email: "beto@acme.test", Role: "manager"}, e.actor)
	require.NoError(t, err)
	assert.True(t, back.Active)
	assert.Equal(t, m.ID, back.ID, "se reactiva la misma membresía")

	self := appaudit.Actor{UserID: m.UserID}
	_, err = e.companies.SetMembershipActive(e.ctx, c, m.UserID, false, self)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCatalog_CRUDConAuditoria(t *testing.T) {
	e := newEnv(t)
	c := e.provision(t, "Acme", "ana@acme.test")
	other := e.provision(t, "Globex", "beto@acme.test")
	customers := usecase.NewCustomerUseCase(e.deps)

	created, err := customers.Create(e.ctx, c, dto.CreateCounterpartRequest{Code: "C1", Name: "Cliente"}, e.actor)
	require.NoError(t, err)
	_, err = customers.Create(e.ctx, c, dto.CreateCounterpartRequest{Code: "C1", Name: "Otro"}, e.actor)
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	_, err = customers.Create(e.ctx, other, dto.CreateCounterpartRequest{Code: "C1", Name: "Otro"}, e.actor)
	assert.NoError(t, err)

	name := "Cliente Renombrado"
	updated, err := customers.Update(e.ctx, c, created.ID, dto.UpdateCounterpartRequest{Name: &name}, e.actor)
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)

	_, err = customers.Get(e.ctx, other, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, customers.Delete(e.ctx, c, created.ID, e.actor))
	logs, err := e.repos.Audit.ListByCompany(e.ctx, c.ID, repository.AuditFilter{Action: entity.ActionDelete})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "C1", logs[0].Changes["code"])
}

func TestCatalog_EliminacionMasivaAlerta(t *testing.T) {
	e := newEnv(t)
	c := e.provision(t, "Acme", "ana@acme.test")
	suppliers := usecase.NewSupplierUseCase(e.deps)

	for i := 0; i < 4; i++ {
		s, err := suppliers.Create(e.ctx, c, dto.CreateCounterpartRequest{Code: uuid.New().String()[:8], Name: "Proveedor"}, e.actor)
		require.NoError(t, err)
		require.NoError(t, suppliers.Delete(e.ctx, c, s.ID, e.actor))
	}

	alerts, err := e.repos.Audit.ListByCompany(e.ctx, c.ID, repository.AuditFilter{Action: entity.ActionSecurityAlert})
	require.NoError(t, err)
	require.Len(t, alerts, 1, "la cuarta eliminación supera el umbral")
	assert.Equal(t, entity.AlertMassDeletion, alerts[0].Changes["alert_type"])
}

func TestProducts_Reglas(t *testing.T) {
	e := newEnv(t)
	c := e.provision(t, "Acme", "ana@acme.test")
	products := usecase.NewProductUseCase(e.deps)

	p, err := products.Create(e.ctx, c, dto.CreateProductRequest{Code: "P1", Name: "Tornillo", Price: decimal.RequireFromString("0.25")}, e.actor)
	require.NoError(t, err)
	assert.Equal(t, "product", p.Type)
	require.NotNil(t, p.Stock)
	assert.True(t, p.Stock.IsZero())

	svc, err := products.Create(e.ctx, c, dto.CreateProductRequest{Code: "S1", Name: "Instalación", Type: "service"}, e.actor)
	require.NoError(t, err)
	assert.Nil(t, svc.Stock)

	_, err = products.Create(e.ctx, c, dto.CreateProductRequest{Code: "S2", Name: "Soporte", Type: "service", Stock: decimalPtr("1")}, e.actor)
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = products.Create(e.ctx, c, dto.CreateProductRequest{Code: "P2", Name: "Malo", Price: decimal.RequireFromString("-1")}, e.actor)
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = products.Create(e.ctx, c, dto.CreateProductRequest{Code: "P1", Name: "Repetido"}, e.actor)
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	price := decimal.RequireFromString("0.30")
	updated, err := products.Update(e.ctx, c, p.ID, dto.UpdateProductRequest{Price: &price}, e.actor)
	require.NoError(t, err)
	assert.True(t, price.Equal(updated.Price))
}
