package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/gestion-pyme/internal/domain/entity"
	"github.com/jhoicas/gestion-pyme/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo agregados calculados sobre el estado en memoria.
type ReportRepo struct {
	a access
}

func confirmedIn(op entity.Operation, companyID string, t entity.OperationType, from, to time.Time) bool {
	return op.CompanyID == companyID && op.Type == t && op.Status == entity.StatusConfirmed &&
		!op.Date.Before(from) && !op.Date.After(to)
}

func addTotals(acc *repository.PeriodTotals, op entity.Operation) {
	acc.Count++
	acc.Subtotal = acc.Subtotal.Add(op.Subtotal)
	acc.Tax = acc.Tax.Add(op.Tax)
	acc.Total = acc.Total.Add(op.Total)
}

func zeroTotals() repository.PeriodTotals {
	return repository.PeriodTotals{Subtotal: decimal.Zero, Tax: decimal.Zero, Total: decimal.Zero}
}

func (r *ReportRepo) PeriodTotals(_ context.Context, companyID string, t entity.OperationType, from, to time.Time) (repository.PeriodTotals, error) {
	out := zeroTotals()
	if err := requireCompany(companyID); err != nil {
		return out, err
	}
	err := r.a.read(func(st *state) error {
		for _, op := range st.operations {
			if confirmedIn(op, companyID, t, from, to) {
				addTotals(&out, op)
			}
		}
		return nil
	})
	return out, err
}

func (r *ReportRepo) TotalsByCounterpart(_ context.Context, companyID string, t entity.OperationType, from, to time.Time) ([]repository.CounterpartTotals, error) {
	if err := requireCompany(companyID); err != nil {
		return nil, err
	}
	var out []repository.CounterpartTotals
	err := r.a.read(func(st *state) error {
		groups := map[string]*repository.CounterpartTotals{}
		for _, op := range st.operations {
			if !confirmedIn(op, companyID, t, from, to) {
				continue
			}
			id := op.CounterpartID()
			g, ok := groups[id]
			if !ok {
				g = &repository.CounterpartTotals{CounterpartID: id, PeriodTotals: zeroTotals()}
				if t == entity.OperationSale {
					c := st.customers[id]
					g.Code, g.Name = c.Code, c.Name
				} else {
					s := st.suppliers[id]
					g.Code, g.Name = s.Code, s.Name
				}
				groups[id] = g
			}
			addTotals(&g.PeriodTotals, op)
		}
		out = make([]repository.CounterpartTotals, 0, len(groups))
		for _, g := range groups {
			out = append(out, *g)
		}
		sort.Slice(out, func(i, j int) bool {
			if !out[i].Total.Equal(out[j].Total) {
				return out[i].Total.GreaterThan(out[j].Total)
			}
			return out[i].Name < out[j].Name
		})
		return nil
	})
	return out, err
}
