package audit_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appaudit "github.com/jhoicas/gestion-pyme/internal/application/audit"
	"github.com/jhoicas/gestion-pyme/internal/application/tenancy"
	"github.com/jhoicas/gestion-pyme/internal/domain"
	domainaudit "github.com/jhoicas/gestion-pyme/internal/domain/audit"
	"github.com/jhoicas/gestion-pyme/internal/domain/entity"
	"github.com/jhoicas/gestion-pyme/internal/domain/repository"
	"github.com/jhoicas/gestion-pyme/internal/infrastructure/memory"
	"github.com/jhoicas/gestion-pyme/pkg/logger"
)

type env struct {
	ctx     context.Context
	repos   repository.Repos
	svc     *appaudit.Service
	monitor *appaudit.Monitor
	company *entity.Company
	actor   appaudit.Actor
}

func newEnv(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()
	repos := memory.NewStore().Repos()
	svc := appaudit.NewService(repos.Audit, logger.Nop())
	c := &entity.Company{ID: uuid.New().String(), Name: "Acme", Active: true}
	require.NoError(t, repos.Companies.Create(ctx, c))
	return &env{
		ctx:     ctx,
		repos:   repos,
		svc:     svc,
		monitor: appaudit.NewMonitor(svc, repos.Audit, repos.Companies, logger.Nop(), appaudit.MonitorConfig{}),
		company: c,
		actor:   appaudit.Actor{UserID: uuid.New().String(), IP: "10.0.0.1"},
	}
}

func (e *env) alerts(t *testing.T, alertType string) int {
	t.Helper()
	logs, err := e.repos.Audit.ListByCompany(e.ctx, e.company.ID, repository.AuditFilter{Action: entity.ActionSecurityAlert})
	require.NoError(t, err)
	n := 0
	for _, l := range logs {
		if l.Changes["alert_type"] == alertType {
			n++
		}
	}
	return n
}

func (e *env) deleteEntry() appaudit.Entry {
	return e.actor.Entry(e.company.ID, entity.ActionDelete, entity.ModelCustomer, uuid.New().String(), map[string]any{"code": "C1"})
}

func TestLog_SaneaCambios(t *testing.T) {
	e := newEnv(t)
	e.svc.Log(e.ctx, e.actor.Entry(e.company.ID, entity.ActionCreate, entity.ModelUser, "u1", map[string]any{
		"email":    "a@b.c",
		"password": "hunter2",
		"nested":   map[string]any{"api_key": "abc"},
	}))

	logs, err := e.svc.List(e.ctx, e.company.ID, repository.AuditFilter{})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "a@b.c", logs[0].Changes["email"])
	assert.Equal(t, domainaudit.Redacted, logs[0].Changes["password"])
	assert.Equal(t, domainaudit.Redacted, logs[0].Changes["nested"].(map[string]any)["api_key"])
	assert.Equal(t, "10.0.0.1", logs[0].IPAddress)
}

func TestBuild_SinEmpresa(t *testing.T) {
	e := newEnv(t)
	_, err := e.svc.Build(e.actor.Entry("", entity.ActionCreate, entity.ModelUser, "u1", nil))
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestCheckMassDeletion_Umbral(t *testing.T) {
	e := newEnv(t)

	for i := 0; i < 3; i++ {
		e.svc.Log(e.ctx, e.deleteEntry())
	}
	alerted, err := e.monitor.CheckMassDeletion(e.ctx, e.actor.UserID, e.company.ID)
	require.NoError(t, err)
	assert.False(t, alerted, "tres eliminaciones no superan el umbral")
	assert.Equal(t, 0, e.alerts(t, entity.AlertMassDeletion))

	e.svc.Log(e.ctx, e.deleteEntry())
	alerted, err = e.monitor.CheckMassDeletion(e.ctx, e.actor.UserID, e.company.ID)
	require.NoError(t, err)
	assert.True(t, alerted)
	assert.Equal(t, 1, e.alerts(t, entity.AlertMassDeletion))
}

func TestCheckMassDeletion_CuentaCancelaciones(t *testing.T) {
	e := newEnv(t)
	for i := 0; i < 2; i++ {
		e.svc.Log(e.ctx, e.deleteEntry())
		e.svc.Log(e.ctx, e.actor.Entry(e.company.ID, entity.ActionUpdate, entity.ModelOperation, uuid.New().String(),
			map[string]any{"status": string(entity.StatusCancelled)}))
	}
	e.svc.Log(e.ctx, e.actor.Entry(e.company.ID, entity.ActionUpdate, entity.ModelOperation, uuid.New().String(),
		map[string]any{"status": string(entity.StatusConfirmed)}))

	alerted, err := e.monitor.CheckMassDeletion(e.ctx, e.actor.UserID, e.company.ID)
	require.NoError(t, err)
	assert.True(t, alerted, "dos eliminaciones más dos cancelaciones superan el umbral")
}

func TestCheckMassDeletion_OtroUsuarioNoSuma(t *testing.T) {
	e := newEnv(t)
	other := appaudit.Actor{UserID: uuid.New().String()}
	for i := 0; i < 3; i++ {
		e.svc.Log(e.ctx, e.deleteEntry())
	}
	e.svc.Log(e.ctx, other.Entry(e.company.ID, entity.ActionDelete, entity.ModelProduct, "p1", nil))

	alerted, err := e.monitor.CheckMassDeletion(e.ctx, e.actor.UserID, e.company.ID)
	require.NoError(t, err)
	assert.False(t, alerted)

	_, err = e.monitor.CheckMassDeletion(e.ctx, e.actor.UserID, "")
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestObserveIP(t *testing.T) {
	e := newEnv(t)
	sess := &tenancy.MapSession{}

	assert.False(t, e.monitor.ObserveIP(e.ctx, sess, e.actor.UserID, e.company.ID, "10.0.0.1"), "la primera IP no es alerta")
	assert.False(t, e.monitor.ObserveIP(e.ctx, sess, e.actor.UserID, e.company.ID, "10.0.0.1"))
	assert.True(t, e.monitor.ObserveIP(e.ctx, sess, e.actor.UserID, e.company.ID, "10.0.0.2"))
	assert.Equal(t, "10.0.0.2", sess.LastIP())
	assert.Equal(t, 1, e.alerts(t, entity.AlertIPChange))
}

func TestObserveIP_UsaEmpresaDeLaSesion(t *testing.T) {
	e := newEnv(t)
	sess := &tenancy.MapSession{CompanyID: e.company.ID, IP: "10.0.0.1"}

	assert.True(t, e.monitor.ObserveIP(e.ctx, sess, e.actor.UserID, "", "10.0.0.9"))
	assert.Equal(t, 1, e.alerts(t, entity.AlertIPChange))

	sess.CompanyID = ""
	assert.True(t, e.monitor.ObserveIP(e.ctx, sess, e.actor.UserID, "", "10.0.0.10"), "sin empresa solo se loguea")
	assert.Equal(t, 1, e.alerts(t, entity.AlertIPChange))
}
