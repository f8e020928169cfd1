// Package audit registra la bitácora de auditoría y vigila patrones sospechosos.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/gestion-pyme/internal/domain"
	domainaudit "github.com/jhoicas/gestion-pyme/internal/domain/audit"
	"github.com/jhoicas/gestion-pyme/internal/domain/entity"
	"github.com/jhoicas/gestion-pyme/internal/domain/repository"
	"github.com/jhoicas/gestion-pyme/pkg/logger"
	"github.com/jhoicas/gestion-pyme/pkg/metrics"
)

// Actor quién ejecuta una acción y desde dónde.
type Actor struct {
	UserID string
	IP     string
}

// Entry datos de una entrada de bitácora antes de sanear.
type Entry struct {
	CompanyID string
	UserID    string
	Action    entity.AuditAction
	ModelName string
	ObjectID  string
	Changes   map[string]any
	IP        string
}

// Entry construye una entrada con los datos del actor.
func (a Actor) Entry(companyID string, action entity.AuditAction, model, objectID string, changes map[string]any) Entry {
	return Entry{
		CompanyID: companyID,
		UserID:    a.UserID,
		Action:    action,
		ModelName: model,
		ObjectID:  objectID,
		Changes:   changes,
		IP:        a.IP,
	}
}

// Service persiste entradas saneadas de la bitácora.
type Service struct {
	repo repository.AuditLogRepository
	log  *logger.Logger
	now  func() time.Time
}

// NewService construye el servicio de auditoría sobre el repositorio (pool).
func NewService(repo repository.AuditLogRepository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log, now: time.Now}
}

// Build sanea los cambios y arma el registro. Sin empresa es un error de configuración.
func (s *Service) Build(e Entry) (*entity.AuditLog, error) {
	if e.CompanyID == "" {
		return nil, domain.ErrNoCompany
	}
	return &entity.AuditLog{
		ID:        uuid.New().String(),
		CompanyID: e.CompanyID,
		UserID:    e.UserID,
		Action:    e.Action,
		ModelName: e.ModelName,
		ObjectID:  e.ObjectID,
		Changes:   domainaudit.Sanitize(e.Changes),
		IPAddress: e.IP,
		Timestamp: s.now(),
	}, nil
}

// Log registra la entrada; nunca falla hacia el caller. Los errores se loguean y se cuentan.
func (s *Service) Log(ctx context.Context, e Entry) {
	if err := s.LogTx(ctx, s.repo, e); err != nil {
		metrics.AuditWriteFailures.Inc()
		s.log.Error().Err(err).
			Str("company_id", e.CompanyID).
			Str("action", string(e.Action)).
			Str("model", e.ModelName).
			Msg("no se pudo registrar la auditoría")
	}
}

// LogTx registra la entrada con un repositorio atado a una transacción y devuelve el error,
// de modo que la entrada se confirma o se descarta junto con los datos que describe.
func (s *Service) LogTx(ctx context.Context, repo repository.AuditLogRepository, e Entry) error {
	rec, err := s.Build(e)
	if err != nil {
		return err
	}
	return repo.Append(ctx, rec)
}

// List consulta la bitácora de una empresa.
func (s *Service) List(ctx context.Context, companyID string, f repository.AuditFilter) ([]*entity.AuditLog, error) {
	return s.repo.ListByCompany(ctx, companyID, f)
}
