package repository

import (
	"context"

	"github.com/jhoicas/gestion-pyme/internal/domain/entity"
)

// AuditLogRepository bitácora append-only. No hay actualización ni borrado.
type AuditLogRepository interface {
	Append(ctx context.Context, log *entity.AuditLog) error
	// ListByCompany devuelve entradas de la empresa, más recientes primero.
	ListByCompany(ctx context.Context, companyID string, f AuditFilter) ([]*entity.AuditLog, error)
}
