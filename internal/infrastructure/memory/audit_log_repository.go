package memory

import (
	"context"

	"github.com/jhoicas/gestion-pyme/internal/domain/entity"
	"github.com/jhoicas/gestion-pyme/internal/domain/repository"
)

var _ repository.AuditLogRepository = (*AuditLogRepo)(nil)

// AuditLogRepo bitácora append-only.
type AuditLogRepo struct {
	a access
}

func (r *AuditLogRepo) Append(_ context.Context, log *entity.AuditLog) error {
	if err := requireCompany(log.CompanyID); err != nil {
		return err
	}
	return r.a.write(func(st *state) error {
		st.audit = append(st.audit, *log)
		return nil
	})
}

func (r *AuditLogRepo) ListByCompany(_ context.Context, companyID string, f repository.AuditFilter) ([]*entity.AuditLog, error) {
	if err := requireCompany(companyID); err != nil {
		return nil, err
	}
	var out []*entity.AuditLog
	err := r.a.read(func(st *state) error {
		out = []*entity.AuditLog{}
		// El slice está en orden de inserción; se recorre al revés para devolver lo más reciente primero.
		for i := len(st.audit) - 1; i >= 0; i-- {
			e := st.audit[i]
			if e.CompanyID != companyID {
				continue
			}
			if f.UserID != "" && e.UserID != f.UserID {
				continue
			}
			if f.Action != "" && e.Action != f.Action {
				continue
			}
			if f.Since != nil && e.Timestamp.Before(*f.Since) {
				continue
			}
			out = append(out, &e)
			if f.Limit > 0 && len(out) >= f.Limit {
				break
			}
		}
		return nil
	})
	return out, err
}
