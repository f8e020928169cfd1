package tenancy_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appaudit "github.com/jhoicas/gestion-pyme/internal/application/audit"
	"github.com/jhoicas/gestion-pyme/internal/application/tenancy"
	"github.com/jhoicas/gestion-pyme/internal/domain"
	"github.com/jhoicas/gestion-pyme/internal/domain/entity"
	"github.com/jhoicas/gestion-pyme/internal/domain/repository"
	"github.com/jhoicas/gestion-pyme/internal/infrastructure/memory"
	"github.com/jhoicas/gestion-pyme/pkg/logger"
)

type env struct {
	ctx      context.Context
	repos    repository.Repos
	resolver *tenancy.Resolver
	user     *entity.User
	p        *tenancy.Principal
}

func newEnv(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()
	repos := memory.NewStore().Repos()
	u := &entity.User{ID: uuid.New().String(), Email: "ana@acme.test", Name: "Ana", Active: true}
	require.NoError(t, repos.Users.Create(ctx, u))
	svc := appaudit.NewService(repos.Audit, logger.Nop())
	return &env{
		ctx:      ctx,
		repos:    repos,
		resolver: tenancy.NewResolver(repos.Memberships, repos.Companies, svc, logger.Nop()),
		user:     u,
		p:        &tenancy.Principal{UserID: u.ID},
	}
}

func (e *env) company(t *testing.T, name string, active bool) *entity.Company {
	t.Helper()
	c := &entity.Company{ID: uuid.New().String(), Name: name, Active: active}
	require.NoError(t, e.repos.Companies.Create(e.ctx, c))
	return c
}

func (e *env) join(t *testing.T, c *entity.Company, role entity.Role, active bool) {
	t.Helper()
	now := time.Now()
	require.NoError(t, e.repos.Memberships.Create(e.ctx, &entity.Membership{
		ID: uuid.New().String(), UserID: e.user.ID, CompanyID: c.ID, Role: role, Active: active,
		CreatedAt: now, UpdatedAt: now,
	}))
}

func TestResolve_IndicacionValida(t *testing.T) {
	e := newEnv(t)
	a := e.company(t, "A", true)
	b := e.company(t, "B", true)
	e.join(t, a, entity.RoleOperator, true)
	e.join(t, b, entity.RoleManager, true)
	sess := &tenancy.MapSession{CompanyID: b.ID}

	scope := e.resolver.Resolve(e.ctx, e.p, sess, tenancy.PathProtected)

	require.True(t, scope.HasCompany())
	assert.Equal(t, b.ID, scope.CompanyID())
	assert.Equal(t, entity.RoleManager, scope.Role())
	assert.True(t, scope.Allows(entity.PermApprove))
}

func TestResolve_SinIndicacionTomaLaPrimera(t *testing.T) {
	e := newEnv(t)
	a := e.company(t, "A", true)
	b := e.company(t, "B", true)
	e.join(t, a, entity.RoleViewer, true)
	e.join(t, b, entity.RoleAdmin, true)
	sess := &tenancy.MapSession{}

	scope := e.resolver.Resolve(e.ctx, e.p, sess, tenancy.PathProtected)

	assert.Equal(t, a.ID, scope.CompanyID())
	assert.Equal(t, a.ID, sess.CompanyID, "la selección se guarda en la sesión")
	assert.False(t, scope.Allows(entity.PermWrite))
}

func TestResolve_IndicacionInvalidaSeLimpia(t *testing.T) {
	e := newEnv(t)
	a := e.company(t, "A", true)
	revoked := e.company(t, "Revocada", true)
	e.join(t, a, entity.RoleOperator, true)
	e.join(t, revoked, entity.RoleAdmin, false)
	sess := &tenancy.MapSession{CompanyID: revoked.ID}

	scope := e.resolver.Resolve(e.ctx, e.p, sess, tenancy.PathProtected)

	assert.Equal(t, a.ID, scope.CompanyID(), "se cae a la primera membresía válida")
	assert.Equal(t, a.ID, sess.CompanyID)

	logs, err := e.repos.Audit.ListByCompany(e.ctx, revoked.ID, repository.AuditFilter{Action: entity.ActionSecurityAlert})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, entity.AlertInvalidMembership, logs[0].Changes["alert_type"])
}

func TestResolve_EmpresaInactivaNoSeResuelve(t *testing.T) {
	e := newEnv(t)
	off := e.company(t, "Apagada", false)
	e.join(t, off, entity.RoleAdmin, true)
	sess := &tenancy.MapSession{CompanyID: off.ID}

	scope := e.resolver.Resolve(e.ctx, e.p, sess, tenancy.PathProtected)

	assert.False(t, scope.HasCompany())
	assert.Empty(t, sess.CompanyID)
}

func TestResolve_SinMembresias(t *testing.T) {
	e := newEnv(t)
	scope := e.resolver.Resolve(e.ctx, e.p, &tenancy.MapSession{}, tenancy.PathProtected)
	assert.False(t, scope.HasCompany())
	assert.Equal(t, e.user.ID, scope.UserID())
}

func TestResolve_RutasExentas(t *testing.T) {
	e := newEnv(t)
	a := e.company(t, "A", true)
	e.join(t, a, entity.RoleAdmin, true)

	public := e.resolver.Resolve(e.ctx, e.p, &tenancy.MapSession{}, tenancy.PathPublic)
	assert.False(t, public.HasCompany())

	super := &tenancy.Principal{UserID: e.user.ID, SuperAdmin: true}
	admin := e.resolver.Resolve(e.ctx, super, &tenancy.MapSession{}, tenancy.PathAdmin)
	assert.True(t, admin.Exempt)
	assert.False(t, admin.HasCompany())

	anon := e.resolver.Resolve(e.ctx, nil, &tenancy.MapSession{}, tenancy.PathProtected)
	assert.False(t, anon.HasCompany())
}

func TestSelect(t *testing.T) {
	e := newEnv(t)
	a := e.company(t, "A", true)
	b := e.company(t, "B", true)
	e.join(t, a, entity.RoleAdmin, true)
	sess := &tenancy.MapSession{}

	cm, err := e.resolver.Select(e.ctx, e.p, sess, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, cm.Company.ID)
	assert.Equal(t, a.ID, sess.CompanyID)

	_, err = e.resolver.Select(e.ctx, e.p, sess, b.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Equal(t, a.ID, sess.CompanyID, "una selección rechazada no cambia la sesión")

	_, err = e.resolver.Select(e.ctx, nil, sess, a.ID)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestClassify(t *testing.T) {
	assert.Equal(t, tenancy.PathPublic, tenancy.Classify("/health"))
	assert.Equal(t, tenancy.PathPublic, tenancy.Classify("/api/auth/login"))
	assert.Equal(t, tenancy.PathPublic, tenancy.Classify("/api/companies/select"))
	assert.Equal(t, tenancy.PathAdmin, tenancy.Classify("/admin/companies"))
	assert.Equal(t, tenancy.PathProtected, tenancy.Classify("/api/operations"))
}
