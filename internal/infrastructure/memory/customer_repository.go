package memory

import (
	"context"
	"time"

	"github.com/jhoicas/gestion-pyme/internal/domain"
	"github.com/jhoicas/gestion-pyme/internal/domain/entity"
	"github.com/jhoicas/gestion-pyme/internal/domain/repository"
)

var (
	_ repository.CustomerRepository = (*CustomerRepo)(nil)
	_ repository.SupplierRepository = (*SupplierRepo)(nil)
)

// CustomerRepo clientes por empresa.
type CustomerRepo struct {
	a   access
	now func() time.Time
}

func (r *CustomerRepo) Create(_ context.Context, c *entity.Customer) error {
	if err := requireCompany(c.CompanyID); err != nil {
		return err
	}
	return r.a.write(func(st *state) error {
		if _, ok := st.companies[c.CompanyID]; !ok {
			return domain.ErrNotFound
		}
		for _, other := range st.customers {
			if other.ID == c.ID || (other.CompanyID == c.CompanyID && other.Code == c.Code) {
				return domain.ErrDuplicate
			}
		}
		st.customers[c.ID] = *c
		st.track(c.ID)
		return nil
	})
}

func (r *CustomerRepo) GetByCompany(_ context.Context, companyID, id string) (*entity.Customer, error) {
	if err := requireCompany(companyID); err != nil {
		return nil, err
	}
	var out *entity.Customer
	err := r.a.read(func(st *state) error {
		c, ok := st.customers[id]
		if !ok || c.CompanyID != companyID {
			return domain.ErrNotFound
		}
		out = &c
		return nil
	})
	return out, err
}

func (r *CustomerRepo) GetByCompanyAndCode(_ context.Context, companyID, code string) (*entity.Customer, error) {
	if err := requireCompany(companyID); err != nil {
		return nil, err
	}
	var out *entity.Customer
	err := r.a.read(func(st *state) error {
		for _, c := range st.customers {
			if c.CompanyID == companyID && c.Code == code {
				c := c
				out = &c
				return nil
			}
		}
		return domain.ErrNotFound
	})
	return out, err
}

func (r *CustomerRepo) ListByCompany(_ context.Context, companyID string, f repository.ListFilter) ([]*entity.Customer, error) {
	if err := requireCompany(companyID); err != nil {
		return nil, err
	}
	var out []*entity.Customer
	err := r.a.read(func(st *state) error {
		list := []*entity.Customer{}
		for _, c := range st.customers {
			if c.CompanyID != companyID || (f.OnlyActive && !c.Active) || !matches(f.Search, c.Code, c.Name) {
				continue
			}
			c := c
			list = append(list, &c)
		}
		sortByName(st, list, func(c *entity.Customer) string { return c.Name }, func(c *entity.Customer) string { return c.ID })
		out = page(list, f.Limit, f.Offset)
		return nil
	})
	return out, err
}

func (r *CustomerRepo) Update(_ context.Context, c *entity.Customer) error {
	if err := requireCompany(c.CompanyID); err != nil {
		return err
	}
	return r.a.write(func(st *state) error {
		cur, ok := st.customers[c.ID]
		if !ok || cur.CompanyID != c.CompanyID {
			return domain.ErrNotFound
		}
		for _, other := range st.customers {
			if other.ID != c.ID && other.CompanyID == c.CompanyID && other.Code == c.Code {
				return domain.ErrDuplicate
			}
		}
		c.UpdatedAt = r.now()
		st.customers[c.ID] = *c
		return nil
	})
}

func (r *CustomerRepo) Delete(_ context.Context, companyID, id string) error {
	if err := requireCompany(companyID); err != nil {
		return err
	}
	return r.a.write(func(st *state) error {
		cur, ok := st.customers[id]
		if !ok || cur.CompanyID != companyID {
			return domain.ErrNotFound
		}
		for _, op := range st.operations {
			if op.CustomerID != nil && *op.CustomerID == id {
				return domain.ErrInUse
			}
		}
		delete(st.customers, id)
		return nil
	})
}

// SupplierRepo proveedores por empresa.
type SupplierRepo struct {
	a   access
	now func() time.Time
}

func (r *SupplierRepo) Create(_ context.Context, s *entity.Supplier) error {
	if err := requireCompany(s.CompanyID); err != nil {
		return err
	}
	return r.a.write(func(st *state) error {
		if _, ok := st.companies[s.CompanyID]; !ok {
			return domain.ErrNotFound
		}
		for _, other := range st.suppliers {
			if other.ID == s.ID || (other.CompanyID == s.CompanyID && other.Code == s.Code) {
				return domain.ErrDuplicate
			}
		}
		st.suppliers[s.ID] = *s
		st.track(s.ID)
		return nil
	})
}

func (r *SupplierRepo) GetByCompany(_ context.Context, companyID, id string) (*entity.Supplier, error) {
	if err := requireCompany(companyID); err != nil {
		return nil, err
	}
	var out *entity.Supplier
	err := r.a.read(func(st *state) error {
		s, ok := st.suppliers[id]
		if !ok || s.CompanyID != companyID {
			return domain.ErrNotFound
		}
		out = &s
		return nil
	})
	return out, err
}

func (r *SupplierRepo) GetByCompanyAndCode(_ context.Context, companyID, code string) (*entity.Supplier, error) {
	if err := requireCompany(companyID); err != nil {
		return nil, err
	}
	var out *entity.Supplier
	err := r.a.read(func(st *state) error {
		for _, s := range st.suppliers {
			if s.CompanyID == companyID && s.Code == code {
				s := s
				out = &s
				return nil
			}
		}
		return domain.ErrNotFound
	})
	return out, err
}

func (r *SupplierRepo) ListByCompany(_ context.Context, companyID string, f repository.ListFilter) ([]*entity.Supplier, error) {
	if err := requireCompany(companyID); err != nil {
		return nil, err
	}
	var out []*entity.Supplier
	err := r.a.read(func(st *state) error {
		list := []*entity.Supplier{}
		for _, s := range st.suppliers {
			if s.CompanyID != companyID || (f.OnlyActive && !s.Active) || !matches(f.Search, s.Code, s.Name) {
				continue
			}
			s := s
			list = append(list, &s)
		}
		sortByName(st, list, func(s *entity.Supplier) string { return s.Name }, func(s *entity.Supplier) string { return s.ID })
		out = page(list, f.Limit, f.Offset)
		return nil
	})
	return out, err
}

func (r *SupplierRepo) Update(_ context.Context, s *entity.Supplier) error {
	if err := requireCompany(s.CompanyID); err != nil {
		return err
	}
	return r.a.write(func(st *state) error {
		cur, ok := st.suppliers[s.ID]
		if !ok || cur.CompanyID != s.CompanyID {
			return domain.ErrNotFound
		}
		for _, other := range st.suppliers {
			if other.ID != s.ID && other.CompanyID == s.CompanyID && other.Code == s.Code {
				return domain.ErrDuplicate
			}
		}
		s.UpdatedAt = r.now()
		st.suppliers[s.ID] = *s
		return nil
	})
}

func (r *SupplierRepo) Delete(_ context.Context, companyID, id string) error {
	if err := requireCompany(companyID); err != nil {
		return err
	}
	return r.a.write(func(st *state) error {
		cur, ok := st.suppliers[id]
		if !ok || cur.CompanyID != companyID {
			return domain.ErrNotFound
		}
		for _, op := range st.operations {
			if op.SupplierID != nil && *op.SupplierID == id {
				return domain.ErrInUse
			}
		}
		delete(st.suppliers, id)
		return nil
	})
}
