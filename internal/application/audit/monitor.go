package audit

import (
	"context"
	"errors"
	"time"

	"github.com/jhoicas/gestion-pyme/internal/domain"
	"github.com/jhoicas/gestion-pyme/internal/domain/entity"
	"github.com/jhoicas/gestion-pyme/internal/domain/repository"
	"github.com/jhoicas/gestion-pyme/pkg/logger"
	"github.com/jhoicas/gestion-pyme/pkg/metrics"
)

// Valores por defecto de la detección de eliminación masiva.
const (
	DefaultMassDeletionWindow    = 10 * time.Minute
	DefaultMassDeletionThreshold = 3
)

// IPSession parte de la sesión que usa el monitor de IP.
type IPSession interface {
	ActiveCompanyID() string
	LastIP() string
	SetLastIP(ip string)
}

// MonitorConfig umbrales del monitor.
type MonitorConfig struct {
	Window    time.Duration
	Threshold int // alerta cuando el conteo es mayor
}

// Monitor detecta eliminación masiva y cambios de IP.
type Monitor struct {
	audit     *Service
	repo      repository.AuditLogRepository
	companies repository.CompanyRepository
	log       *logger.Logger
	cfg       MonitorConfig
	now       func() time.Time
}

// NewMonitor construye el monitor. Valores de configuración no positivos toman los por defecto.
func NewMonitor(svc *Service, repo repository.AuditLogRepository, companies repository.CompanyRepository, log *logger.Logger, cfg MonitorConfig) *Monitor {
	if cfg.Window <= 0 {
		cfg.Window = DefaultMassDeletionWindow
	}
	if cfg.Threshold <= 0 {
		cfg.Threshold = DefaultMassDeletionThreshold
	}
	return &Monitor{audit: svc, repo: repo, companies: companies, log: log, cfg: cfg, now: time.Now}
}

// CheckMassDeletion cuenta las eliminaciones y cancelaciones del usuario en la ventana y, si superan
// el umbral, registra una alerta MASS_DELETION. Devuelve si se emitió la alerta.
func (m *Monitor) CheckMassDeletion(ctx context.Context, userID, companyID string) (bool, error) {
	if companyID == "" {
		return false, domain.ErrNoCompany
	}
	if userID == "" {
		return false, nil
	}
	since := m.now().Add(-m.cfg.Window)
	entries, err := m.repo.ListByCompany(ctx, companyID, repository.AuditFilter{UserID: userID, Since: &since})
	if err != nil {
		return false, err
	}
	count := 0
	for _, e := range entries {
		if isDestructive(e) {
			count++
		}
	}
	if count <= m.cfg.Threshold {
		return false, nil
	}

	metrics.SecurityAlerts.WithLabelValues(entity.AlertMassDeletion).Inc()
	m.log.Warn().
		Str("user_id", userID).
		Str("company_id", companyID).
		Int("count", count).
		Msg("eliminación masiva detectada")
	m.audit.Log(ctx, Entry{
		CompanyID: companyID,
		UserID:    userID,
		Action:    entity.ActionSecurityAlert,
		ModelName: entity.ModelSecurityAlert,
		Changes: map[string]any{
			"alert_type":     entity.AlertMassDeletion,
			"count":          count,
			"window_minutes": int(m.cfg.Window / time.Minute),
		},
	})
	return true, nil
}

// isDestructive eliminaciones y cancelaciones de operaciones.
func isDestructive(e *entity.AuditLog) bool {
	switch e.Action {
	case entity.ActionDelete:
		return true
	case entity.ActionUpdate:
		status, _ := e.Changes["status"].(string)
		return e.ModelName == entity.ModelOperation && status == string(entity.StatusCancelled)
	}
	return false
}

// ObserveIP compara la IP del request con la última conocida en la sesión. La primera IP no es
// alerta. La alerta se asocia a la empresa resuelta o, si aún no hay, a la activa en la sesión.
// La última IP de la sesión se actualiza siempre. Devuelve si se emitió la alerta.
func (m *Monitor) ObserveIP(ctx context.Context, sess IPSession, userID, companyID, ip string) bool {
	if sess == nil || userID == "" || ip == "" {
		return false
	}
	last := sess.LastIP()
	sess.SetLastIP(ip)
	if last == "" || last == ip {
		return false
	}

	target := companyID
	if target == "" {
		target = m.sessionCompany(ctx, sess)
	}
	metrics.SecurityAlerts.WithLabelValues(entity.AlertIPChange).Inc()
	m.log.Warn().
		Str("user_id", userID).
		Str("company_id", target).
		Str("from_ip", last).
		Str("to_ip", ip).
		Msg("cambio de IP en la sesión")
	if target == "" {
		return true
	}
	m.audit.Log(ctx, Entry{
		CompanyID: target,
		UserID:    userID,
		Action:    entity.ActionSecurityAlert,
		ModelName: entity.ModelSecurityAlert,
		Changes: map[string]any{
			"alert_type": entity.AlertIPChange,
			"from_ip":    last,
			"to_ip":      ip,
		},
		IP: ip,
	})
	return true
}

// sessionCompany empresa activa de la sesión si existe y está activa.
func (m *Monitor) sessionCompany(ctx context.Context, sess IPSession) string {
	id := sess.ActiveCompanyID()
	if id == "" {
		return ""
	}
	c, err := m.companies.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			m.log.Error().Err(err).Str("company_id", id).Msg("no se pudo leer la empresa de la sesión")
		}
		return ""
	}
	if !c.Active {
		return ""
	}
	return c.ID
}
