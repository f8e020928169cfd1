package tenancy

import (
	"context"
	"errors"

	appaudit "github.com/jhoicas/gestion-pyme/internal/application/audit"
	"github.com/jhoicas/gestion-pyme/internal/domain"
	"github.com/jhoicas/gestion-pyme/internal/domain/entity"
	"github.com/jhoicas/gestion-pyme/internal/domain/repository"
	"github.com/jhoicas/gestion-pyme/pkg/logger"
	"github.com/jhoicas/gestion-pyme/pkg/metrics"
)

// Motivos de advertencia de la resolución.
const (
	ReasonInvalidMembership = "invalid_membership"
	ReasonNoMembership      = "no_membership"
	ReasonLookupFailed      = "lookup_failed"
)

// Resolver decide la empresa activa de cada request a partir del principal y la sesión.
type Resolver struct {
	memberships repository.MembershipRepository
	companies   repository.CompanyRepository
	audit       *appaudit.Service
	log         *logger.Logger
}

// NewResolver construye el resolvedor.
func NewResolver(memberships repository.MembershipRepository, companies repository.CompanyRepository, audit *appaudit.Service, log *logger.Logger) *Resolver {
	return &Resolver{memberships: memberships, companies: companies, audit: audit, log: log}
}

// Resolve calcula el scope del request. Nunca falla: cualquier problema produce un scope sin empresa
// y una advertencia. Efectos sobre la sesión:
//   - empresa indicada pero sin membresía válida: se elimina la indicación
//   - sin indicación y con alguna membresía activa: se fija la primera como activa
func (r *Resolver) Resolve(ctx context.Context, p *Principal, sess Session, class PathClass) Scope {
	scope := Scope{Principal: p}
	if class == PathPublic || p == nil || p.UserID == "" {
		return scope
	}
	if class == PathAdmin && p.SuperAdmin {
		scope.Exempt = true
		return scope
	}
	if sess == nil {
		sess = &MapSession{}
	}

	if hinted := sess.ActiveCompanyID(); hinted != "" {
		cm, err := r.memberships.FindActive(ctx, p.UserID, hinted)
		if err == nil {
			scope.Company, scope.Membership = cm.Company, cm.Membership
			return scope
		}
		if !errors.Is(err, domain.ErrNotFound) {
			r.warn(ctx, ReasonLookupFailed, p.UserID, hinted, err)
			return scope
		}
		sess.ClearActiveCompanyID()
		r.warn(ctx, ReasonInvalidMembership, p.UserID, hinted, nil)
	}

	list, err := r.memberships.ListActiveByUser(ctx, p.UserID)
	if err != nil {
		r.warn(ctx, ReasonLookupFailed, p.UserID, "", err)
		return scope
	}
	if len(list) == 0 {
		r.warn(ctx, ReasonNoMembership, p.UserID, "", nil)
		return scope
	}
	first := list[0]
	sess.SetActiveCompanyID(first.Company.ID)
	scope.Company, scope.Membership = first.Company, first.Membership
	return scope
}

// Select valida y fija la empresa activa de la sesión. Sin membresía válida devuelve domain.ErrForbidden.
func (r *Resolver) Select(ctx context.Context, p *Principal, sess Session, companyID string) (*entity.CompanyMembership, error) {
	if p == nil || p.UserID == "" {
		return nil, domain.ErrUnauthorized
	}
	if companyID == "" {
		return nil, domain.Invalid("company_id es obligatorio")
	}
	cm, err := r.memberships.FindActive(ctx, p.UserID, companyID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			r.warn(ctx, ReasonInvalidMembership, p.UserID, companyID, nil)
			return nil, domain.ErrForbidden
		}
		return nil, err
	}
	sess.SetActiveCompanyID(cm.Company.ID)
	return cm, nil
}

// warn registra la advertencia en log y métricas; si la empresa indicada existe, también en su bitácora.
func (r *Resolver) warn(ctx context.Context, reason, userID, companyID string, cause error) {
	metrics.TenantWarnings.WithLabelValues(reason).Inc()
	ev := r.log.Warn().Str("reason", reason).Str("user_id", userID)
	if companyID != "" {
		ev = ev.Str("company_id", companyID)
	}
	if cause != nil {
		ev = ev.Err(cause)
	}
	ev.Msg("resolución de empresa sin resultado")

	if reason != ReasonInvalidMembership || companyID == "" || r.audit == nil {
		return
	}
	if _, err := r.companies.GetByID(ctx, companyID); err != nil {
		return
	}
	metrics.SecurityAlerts.WithLabelValues(entity.AlertInvalidMembership).Inc()
	r.audit.Log(ctx, appaudit.Entry{
		CompanyID: companyID,
		UserID:    userID,
		Action:    entity.ActionSecurityAlert,
		ModelName: entity.ModelSecurityAlert,
		Changes: map[string]any{
			"alert_type":        entity.AlertInvalidMembership,
			"hinted_company_id": companyID,
		},
	})
}
