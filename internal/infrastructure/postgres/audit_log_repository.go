package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/gestion-pyme/internal/domain"
	"github.com/jhoicas/gestion-pyme/internal/domain/entity"
	"github.com/jhoicas/gestion-pyme/internal/domain/repository"
)

var _ repository.AuditLogRepository = (*AuditLogRepo)(nil)

// AuditLogRepo bitácora append-only sobre PostgreSQL.
type AuditLogRepo struct {
	q Querier
}

// NewAuditLogRepository construye el adaptador de bitácora. Pasar pool o tx (Querier).
func NewAuditLogRepository(q Querier) *AuditLogRepo {
	return &AuditLogRepo{q: q}
}

// Append inserta una entrada. Changes se guarda como JSONB.
func (r *AuditLogRepo) Append(ctx context.Context, l *entity.AuditLog) error {
	if l.CompanyID == "" {
		return domain.ErrNoCompany
	}
	query := `
		INSERT INTO audit_logs (id, company_id, user_id, action, model_name, object_id, changes, ip_address, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		l.ID, l.CompanyID, nullIfEmpty(l.UserID), string(l.Action), l.ModelName, l.ObjectID,
		l.Changes, nullIfEmpty(l.IPAddress), l.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}

// ListByCompany entradas de la empresa, más recientes primero.
func (r *AuditLogRepo) ListByCompany(ctx context.Context, companyID string, f repository.AuditFilter) ([]*entity.AuditLog, error) {
	if companyID == "" {
		return nil, domain.ErrNoCompany
	}
	query := `
		SELECT id, company_id, COALESCE(user_id::text, ''), action, model_name, object_id, changes,
			COALESCE(ip_address, ''), timestamp
		FROM audit_logs
		WHERE company_id = $1
		  AND ($2::uuid IS NULL OR user_id = $2)
		  AND ($3::text IS NULL OR action = $3)
		  AND ($4::timestamptz IS NULL OR timestamp >= $4)
		ORDER BY timestamp DESC
		LIMIT $5`
	rows, err := r.q.Query(ctx, query, companyID,
		nullIfEmpty(f.UserID), nullIfEmpty(string(f.Action)), f.Since, limitArg(f.Limit))
	if err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	defer rows.Close()
	out := []*entity.AuditLog{}
	for rows.Next() {
		var l entity.AuditLog
		if err := rows.Scan(&l.ID, &l.CompanyID, &l.UserID, &l.Action, &l.ModelName, &l.ObjectID,
			&l.Changes, &l.IPAddress, &l.Timestamp); err != nil {
			return nil, fmt.Errorf("scan audit log: %w", err)
		}
		out = append(out, &l)
	}
	return out, rows.Err()
}
