package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/gestion-pyme/internal/domain"
	"github.com/jhoicas/gestion-pyme/internal/domain/entity"
	"github.com/jhoicas/gestion-pyme/internal/domain/ledger"
	"github.com/jhoicas/gestion-pyme/internal/domain/repository"
)

var _ repository.OperationRepository = (*OperationRepo)(nil)

// OperationRepo operaciones e ítems.
type OperationRepo struct {
	a   access
	now func() time.Time
}

func (r *OperationRepo) Create(_ context.Context, op *entity.Operation) error {
	if err := requireCompany(op.CompanyID); err != nil {
		return err
	}
	return r.a.write(func(st *state) error {
		if _, ok := st.companies[op.CompanyID]; !ok {
			return domain.ErrNotFound
		}
		for _, other := range st.operations {
			if other.ID == op.ID ||
				(other.CompanyID == op.CompanyID && other.Type == op.Type && other.Number == op.Number) {
				return domain.ErrDuplicate
			}
		}
		st.operations[op.ID] = cloneOperation(*op)
		st.track(op.ID)
		return nil
	})
}

func (r *OperationRepo) GetByCompany(_ context.Context, companyID, id string) (*entity.Operation, error) {
	if err := requireCompany(companyID); err != nil {
		return nil, err
	}
	var out *entity.Operation
	err := r.a.read(func(st *state) error {
		op, ok := st.operations[id]
		if !ok || op.CompanyID != companyID {
			return domain.ErrNotFound
		}
		op = cloneOperation(op)
		out = &op
		return nil
	})
	return out, err
}

func (r *OperationRepo) GetForUpdate(ctx context.Context, companyID, id string) (*entity.Operation, error) {
	return r.GetByCompany(ctx, companyID, id)
}

func (r *OperationRepo) ListByCompany(_ context.Context, companyID string, f repository.OperationFilter) ([]*entity.Operation, error) {
	if err := requireCompany(companyID); err != nil {
		return nil, err
	}
	var out []*entity.Operation
	err := r.a.read(func(st *state) error {
		list := []*entity.Operation{}
		for _, op := range st.operations {
			if op.CompanyID != companyID || !matchesOperation(op, f) {
				continue
			}
			op = cloneOperation(op)
			list = append(list, &op)
		}
		// Más recientes primero (fecha, luego orden de creación).
		sort.SliceStable(list, func(i, j int) bool {
			a, b := list[i], list[j]
			if !a.Date.Equal(b.Date) {
				return a.Date.After(b.Date)
			}
			return st.seq[a.ID] > st.seq[b.ID]
		})
		out = page(list, f.Limit, f.Offset)
		return nil
	})
	return out, err
}

func matchesOperation(op entity.Operation, f repository.OperationFilter) bool {
	if f.Type != "" && op.Type != f.Type {
		return false
	}
	if f.Status != "" && op.Status != f.Status {
		return false
	}
	if f.CounterpartID != "" && op.CounterpartID() != f.CounterpartID {
		return false
	}
	if f.From != nil && op.Date.Before(*f.From) {
		return false
	}
	if f.To != nil && op.Date.After(*f.To) {
		return false
	}
	return true
}

// LockNumbering no necesita bloqueo adicional: Run ya serializa las transacciones.
func (r *OperationRepo) LockNumbering(_ context.Context, companyID string, _ entity.OperationType) error {
	return requireCompany(companyID)
}

func (r *OperationRepo) LastNumber(_ context.Context, companyID string, t entity.OperationType) (string, error) {
	if err := requireCompany(companyID); err != nil {
		return "", err
	}
	var last string
	err := r.a.read(func(st *state) error {
		for _, op := range st.operations {
			if op.CompanyID != companyID || op.Type != t || !ledger.IsNumeric(op.Number) {
				continue
			}
			if last == "" || ledger.GreaterNumber(op.Number, last) {
				last = op.Number
			}
		}
		return nil
	})
	return last, err
}

func (r *OperationRepo) UpdateTotals(_ context.Context, op *entity.Operation) error {
	return r.mutate(op, func(cur *entity.Operation) {
		cur.Subtotal, cur.Tax, cur.Total = op.Subtotal, op.Tax, op.Total
	})
}

func (r *OperationRepo) UpdateStatus(_ context.Context, op *entity.Operation) error {
	return r.mutate(op, func(cur *entity.Operation) {
		cur.Status = op.Status
	})
}

func (r *OperationRepo) mutate(op *entity.Operation, apply func(cur *entity.Operation)) error {
	if err := requireCompany(op.CompanyID); err != nil {
		return err
	}
	return r.a.write(func(st *state) error {
		cur, ok := st.operations[op.ID]
		if !ok || cur.CompanyID != op.CompanyID {
			return domain.ErrNotFound
		}
		apply(&cur)
		cur.UpdatedAt = r.now()
		op.UpdatedAt = cur.UpdatedAt
		st.operations[op.ID] = cur
		return nil
	})
}

func (r *OperationRepo) CreateItem(_ context.Context, item *entity.OperationItem) error {
	return r.a.write(func(st *state) error {
		if _, ok := st.operations[item.OperationID]; !ok {
			return domain.ErrNotFound
		}
		if _, ok := st.items[item.ID]; ok {
			return domain.ErrDuplicate
		}
		st.items[item.ID] = *item
		st.track(item.ID)
		return nil
	})
}

func (r *OperationRepo) GetItem(_ context.Context, operationID, itemID string) (*entity.OperationItem, error) {
	var out *entity.OperationItem
	err := r.a.read(func(st *state) error {
		it, ok := st.items[itemID]
		if !ok || it.OperationID != operationID {
			return domain.ErrNotFound
		}
		out = &it
		return nil
	})
	return out, err
}

func (r *OperationRepo) UpdateItem(_ context.Context, item *entity.OperationItem) error {
	return r.a.write(func(st *state) error {
		cur, ok := st.items[item.ID]
		if !ok || cur.OperationID != item.OperationID {
			return domain.ErrNotFound
		}
		st.items[item.ID] = *item
		return nil
	})
}

func (r *OperationRepo) DeleteItem(_ context.Context, operationID, itemID string) error {
	return r.a.write(func(st *state) error {
		cur, ok := st.items[itemID]
		if !ok || cur.OperationID != operationID {
			return domain.ErrNotFound
		}
		delete(st.items, itemID)
		return nil
	})
}

func (r *OperationRepo) ListItems(_ context.Context, operationID string) ([]*entity.OperationItem, error) {
	var out []*entity.OperationItem
	err := r.a.read(func(st *state) error {
		out = []*entity.OperationItem{}
		for _, it := range st.items {
			if it.OperationID == operationID {
				it := it
				out = append(out, &it)
			}
		}
		sort.Slice(out, func(i, j int) bool {
			return st.before(out[i].ID, out[i].CreatedAt, out[j].ID, out[j].CreatedAt)
		})
		return nil
	})
	return out, err
}
