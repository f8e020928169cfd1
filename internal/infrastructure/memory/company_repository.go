package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/gestion-pyme/internal/domain"
	"github.com/jhoicas/gestion-pyme/internal/domain/entity"
	"github.com/jhoicas/gestion-pyme/internal/domain/repository"
)

var (
	_ repository.CompanyRepository    = (*CompanyRepo)(nil)
	_ repository.UserRepository       = (*UserRepo)(nil)
	_ repository.MembershipRepository = (*MembershipRepo)(nil)
)

// CompanyRepo empresas y su configuración.
type CompanyRepo struct {
	a   access
	now func() time.Time
}

func (r *CompanyRepo) Create(_ context.Context, c *entity.Company) error {
	return r.a.write(func(st *state) error {
		if _, ok := st.companies[c.ID]; ok {
			return domain.ErrDuplicate
		}
		if c.TaxID != "" {
			for _, other := range st.companies {
				if other.TaxID == c.TaxID {
					return domain.ErrDuplicate
				}
			}
		}
		st.companies[c.ID] = *c
		st.track(c.ID)
		return nil
	})
}

func (r *CompanyRepo) GetByID(_ context.Context, id string) (*entity.Company, error) {
	var out *entity.Company
	err := r.a.read(func(st *state) error {
		c, ok := st.companies[id]
		if !ok {
			return domain.ErrNotFound
		}
		out = &c
		return nil
	})
	return out, err
}

func (r *CompanyRepo) Update(_ context.Context, c *entity.Company) error {
	return r.a.write(func(st *state) error {
		if _, ok := st.companies[c.ID]; !ok {
			return domain.ErrNotFound
		}
		for id, other := range st.companies {
			if id != c.ID && c.TaxID != "" && other.TaxID == c.TaxID {
				return domain.ErrDuplicate
			}
		}
		st.companies[c.ID] = *c
		return nil
	})
}

func (r *CompanyRepo) GetSettings(_ context.Context, companyID string) (*entity.CompanySettings, error) {
	if err := requireCompany(companyID); err != nil {
		return nil, err
	}
	var out *entity.CompanySettings
	err := r.a.read(func(st *state) error {
		s, ok := st.settings[companyID]
		if !ok {
			return domain.ErrNotFound
		}
		out = &s
		return nil
	})
	return out, err
}

func (r *CompanyRepo) UpsertSettings(_ context.Context, s *entity.CompanySettings) error {
	if err := requireCompany(s.CompanyID); err != nil {
		return err
	}
	return r.a.write(func(st *state) error {
		if _, ok := st.companies[s.CompanyID]; !ok {
			return domain.ErrNotFound
		}
		s.UpdatedAt = r.now()
		st.settings[s.CompanyID] = *s
		return nil
	})
}

// UserRepo usuarios.
type UserRepo struct {
	a access
}

func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	return r.a.write(func(st *state) error {
		if _, ok := st.users[u.ID]; ok {
			return domain.ErrDuplicate
		}
		for _, other := range st.users {
			if strings.EqualFold(other.Email, u.Email) {
				return domain.ErrDuplicate
			}
		}
		st.users[u.ID] = *u
		st.track(u.ID)
		return nil
	})
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	var out *entity.User
	err := r.a.read(func(st *state) error {
		u, ok := st.users[id]
		if !ok {
			return domain.ErrNotFound
		}
		out = &u
		return nil
	})
	return out, err
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	var out *entity.User
	err := r.a.read(func(st *state) error {
		for _, u := range st.users {
			if strings.EqualFold(u.Email, email) {
				u := u
				out = &u
				return nil
			}
		}
		return domain.ErrNotFound
	})
	return out, err
}

// MembershipRepo membresías usuario-empresa.
type MembershipRepo struct {
	a   access
	now func() time.Time
}

func (r *MembershipRepo) Create(_ context.Context, m *entity.Membership) error {
	return r.a.write(func(st *state) error {
		if _, ok := st.users[m.UserID]; !ok {
			return domain.ErrNotFound
		}
		if _, ok := st.companies[m.CompanyID]; !ok {
			return domain.ErrNotFound
		}
		for _, other := range st.memberships {
			if other.UserID == m.UserID && other.CompanyID == m.CompanyID {
				return domain.ErrDuplicate
			}
		}
		st.memberships[m.ID] = *m
		st.track(m.ID)
		return nil
	})
}

func (r *MembershipRepo) Update(_ context.Context, m *entity.Membership) error {
	return r.a.write(func(st *state) error {
		if _, ok := st.memberships[m.ID]; !ok {
			return domain.ErrNotFound
		}
		m.UpdatedAt = r.now()
		st.memberships[m.ID] = *m
		return nil
	})
}

func (r *MembershipRepo) Get(_ context.Context, userID, companyID string) (*entity.Membership, error) {
	if err := requireCompany(companyID); err != nil {
		return nil, err
	}
	var out *entity.Membership
	err := r.a.read(func(st *state) error {
		for _, m := range st.memberships {
			if m.UserID == userID && m.CompanyID == companyID {
				m := m
				out = &m
				return nil
			}
		}
		return domain.ErrNotFound
	})
	return out, err
}

func (r *MembershipRepo) FindActive(_ context.Context, userID, companyID string) (*entity.CompanyMembership, error) {
	if err := requireCompany(companyID); err != nil {
		return nil, err
	}
	var out *entity.CompanyMembership
	err := r.a.read(func(st *state) error {
		for _, m := range st.memberships {
			if m.UserID != userID || m.CompanyID != companyID || !m.Active {
				continue
			}
			c, ok := st.companies[companyID]
			if !ok || !c.Active {
				return domain.ErrNotFound
			}
			m := m
			out = &entity.CompanyMembership{Membership: &m, Company: &c}
			return nil
		}
		return domain.ErrNotFound
	})
	return out, err
}

func (r *MembershipRepo) ListActiveByUser(_ context.Context, userID string) ([]*entity.CompanyMembership, error) {
	var out []*entity.CompanyMembership
	err := r.a.read(func(st *state) error {
		var list []entity.Membership
		for _, m := range st.memberships {
			if m.UserID != userID || !m.Active {
				continue
			}
			if c, ok := st.companies[m.CompanyID]; !ok || !c.Active {
				continue
			}
			list = append(list, m)
		}
		sort.Slice(list, func(i, j int) bool {
			return st.before(list[i].ID, list[i].CreatedAt, list[j].ID, list[j].CreatedAt)
		})
		out = make([]*entity.CompanyMembership, 0, len(list))
		for _, m := range list {
			m := m
			c := st.companies[m.CompanyID]
			out = append(out, &entity.CompanyMembership{Membership: &m, Company: &c})
		}
		return nil
	})
	return out, err
}

func (r *MembershipRepo) ListByCompany(_ context.Context, companyID string) ([]*entity.Membership, error) {
	if err := requireCompany(companyID); err != nil {
		return nil, err
	}
	var out []*entity.Membership
	err := r.a.read(func(st *state) error {
		out = []*entity.Membership{}
		for _, m := range st.memberships {
			if m.CompanyID == companyID {
				m := m
				out = append(out, &m)
			}
		}
		sort.Slice(out, func(i, j int) bool {
			return st.before(out[i].ID, out[i].CreatedAt, out[j].ID, out[j].CreatedAt)
		})
		return nil
	})
	return out, err
}
