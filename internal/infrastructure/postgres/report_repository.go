package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/gestion-pyme/internal/domain"
	"github.com/jhoicas/gestion-pyme/internal/domain/entity"
	"github.com/jhoicas/gestion-pyme/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo consultas agregadas de solo lectura sobre operaciones confirmadas.
type ReportRepo struct {
	q Querier
}

// NewReportRepository construye el adaptador de reportes.
func NewReportRepository(q Querier) *ReportRepo {
	return &ReportRepo{q: q}
}

// PeriodTotals suma subtotal, impuesto y total de las operaciones confirmadas del período.
func (r *ReportRepo) PeriodTotals(ctx context.Context, companyID string, t entity.OperationType, from, to time.Time) (repository.PeriodTotals, error) {
	var out repository.PeriodTotals
	if companyID == "" {
		return out, domain.ErrNoCompany
	}
	const query = `
	SELECT
	    COUNT(*),
	    COALESCE(SUM(subtotal), 0),
	    COALESCE(SUM(tax), 0),
	    COALESCE(SUM(total), 0)
	FROM operations
	WHERE company_id = $1
	  AND type = $2
	  AND status = 'confirmed'
	  AND date BETWEEN $3 AND $4`
	err := r.q.QueryRow(ctx, query, companyID, string(t), from, to).
		Scan(&out.Count, &out.Subtotal, &out.Tax, &out.Total)
	if err != nil {
		return out, fmt.Errorf("reports.PeriodTotals: %w", err)
	}
	return out, nil
}

// TotalsByCounterpart agrupa por cliente o proveedor según el tipo.
func (r *ReportRepo) TotalsByCounterpart(ctx context.Context, companyID string, t entity.OperationType, from, to time.Time) ([]repository.CounterpartTotals, error) {
	if companyID == "" {
		return nil, domain.ErrNoCompany
	}
	query := `
	SELECT
	    c.id::text, c.code, c.name,
	    COUNT(o.id),
	    COALESCE(SUM(o.subtotal), 0),
	    COALESCE(SUM(o.tax), 0),
	    COALESCE(SUM(o.total), 0)
	FROM operations o
	JOIN %[1]s c ON c.id = o.%[2]s AND c.company_id = o.company_id
	WHERE o.company_id = $1
	  AND o.type = $2
	  AND o.status = 'confirmed'
	  AND o.date BETWEEN $3 AND $4
	GROUP BY c.id, c.code, c.name
	ORDER BY SUM(o.total) DESC, c.name`
	if t == entity.OperationSale {
		query = fmt.Sprintf(query, "customers", "customer_id")
	} else {
		query = fmt.Sprintf(query, "suppliers", "supplier_id")
	}

	rows, err := r.q.Query(ctx, query, companyID, string(t), from, to)
	if err != nil {
		return nil, fmt.Errorf("reports.TotalsByCounterpart: %w", err)
	}
	defer rows.Close()

	results := []repository.CounterpartTotals{}
	for rows.Next() {
		var row repository.CounterpartTotals
		if err := rows.Scan(
			&row.CounterpartID,
			&row.Code,
			&row.Name,
			&row.Count,
			&row.Subtotal,
			&row.Tax,
			&row.Total,
		); err != nil {
			return nil, fmt.Errorf("reports.TotalsByCounterpart scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}
