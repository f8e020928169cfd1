package memory

import (
	"context"
	"time"

	"github.com/jhoicas/gestion-pyme/internal/domain"
	"github.com/jhoicas/gestion-pyme/internal/domain/entity"
	"github.com/jhoicas/gestion-pyme/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo productos por empresa. Dentro de una transacción el bloqueo de filas es
// innecesario: las transacciones en memoria ya son serializables.
type ProductRepo struct {
	a   access
	now func() time.Time
}

func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	if err := requireCompany(p.CompanyID); err != nil {
		return err
	}
	return r.a.write(func(st *state) error {
		if _, ok := st.companies[p.CompanyID]; !ok {
			return domain.ErrNotFound
		}
		for _, other := range st.products {
			if other.ID == p.ID || (other.CompanyID == p.CompanyID && other.Code == p.Code) {
				return domain.ErrDuplicate
			}
		}
		st.products[p.ID] = cloneProduct(*p)
		st.track(p.ID)
		return nil
	})
}

func (r *ProductRepo) GetByCompany(_ context.Context, companyID, id string) (*entity.Product, error) {
	if err := requireCompany(companyID); err != nil {
		return nil, err
	}
	var out *entity.Product
	err := r.a.read(func(st *state) error {
		p, ok := st.products[id]
		if !ok || p.CompanyID != companyID {
			return domain.ErrNotFound
		}
		p = cloneProduct(p)
		out = &p
		return nil
	})
	return out, err
}

func (r *ProductRepo) GetByCompanyAndCode(_ context.Context, companyID, code string) (*entity.Product, error) {
	if err := requireCompany(companyID); err != nil {
		return nil, err
	}
	var out *entity.Product
	err := r.a.read(func(st *state) error {
		for _, p := range st.products {
			if p.CompanyID == companyID && p.Code == code {
				p = cloneProduct(p)
				out = &p
				return nil
			}
		}
		return domain.ErrNotFound
	})
	return out, err
}

func (r *ProductRepo) GetForUpdate(ctx context.Context, companyID, id string) (*entity.Product, error) {
	return r.GetByCompany(ctx, companyID, id)
}

func (r *ProductRepo) ListByCompany(_ context.Context, companyID string, f repository.ListFilter) ([]*entity.Product, error) {
	if err := requireCompany(companyID); err != nil {
		return nil, err
	}
	var out []*entity.Product
	err := r.a.read(func(st *state) error {
		list := []*entity.Product{}
		for _, p := range st.products {
			if p.CompanyID != companyID || (f.OnlyActive && !p.Active) || !matches(f.Search, p.Code, p.Name) {
				continue
			}
			p = cloneProduct(p)
			list = append(list, &p)
		}
		sortByName(st, list, func(p *entity.Product) string { return p.Name }, func(p *entity.Product) string { return p.ID })
		out = page(list, f.Limit, f.Offset)
		return nil
	})
	return out, err
}

func (r *ProductRepo) ListLowStock(_ context.Context, companyID string) ([]*entity.Product, error) {
	if err := requireCompany(companyID); err != nil {
		return nil, err
	}
	var out []*entity.Product
	err := r.a.read(func(st *state) error {
		out = []*entity.Product{}
		for _, p := range st.products {
			if p.CompanyID != companyID || !p.Active || !p.TracksStock() || !p.IsLowStock() {
				continue
			}
			p = cloneProduct(p)
			out = append(out, &p)
		}
		sortByName(st, out, func(p *entity.Product) string { return p.Name }, func(p *entity.Product) string { return p.ID })
		return nil
	})
	return out, err
}

func (r *ProductRepo) Update(_ context.Context, p *entity.Product) error {
	if err := requireCompany(p.CompanyID); err != nil {
		return err
	}
	return r.a.write(func(st *state) error {
		cur, ok := st.products[p.ID]
		if !ok || cur.CompanyID != p.CompanyID {
			return domain.ErrNotFound
		}
		for _, other := range st.products {
			if other.ID != p.ID && other.CompanyID == p.CompanyID && other.Code == p.Code {
				return domain.ErrDuplicate
			}
		}
		p.UpdatedAt = r.now()
		st.products[p.ID] = cloneProduct(*p)
		return nil
	})
}

func (r *ProductRepo) UpdateStock(_ context.Context, companyID, id string, stock decimal.Decimal) error {
	if err := requireCompany(companyID); err != nil {
		return err
	}
	return r.a.write(func(st *state) error {
		p, ok := st.products[id]
		if !ok || p.CompanyID != companyID {
			return domain.ErrNotFound
		}
		p.Stock = &stock
		p.UpdatedAt = r.now()
		st.products[id] = p
		return nil
	})
}

func (r *ProductRepo) Delete(_ context.Context, companyID, id string) error {
	if err := requireCompany(companyID); err != nil {
		return err
	}
	return r.a.write(func(st *state) error {
		cur, ok := st.products[id]
		if !ok || cur.CompanyID != companyID {
			return domain.ErrNotFound
		}
		for _, it := range st.items {
			if it.ProductID == id {
				return domain.ErrInUse
			}
		}
		delete(st.products, id)
		return nil
	})
}
