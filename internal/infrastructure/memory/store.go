// Package memory implementa los puertos de persistencia en memoria con transacciones reales:
// cada transacción trabaja sobre una copia del estado y la publica al confirmar.
// Se usa en modo desarrollo (STORAGE_DRIVER=memory) y como respaldo de los tests de servicios.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/gestion-pyme/internal/domain"
	"github.com/jhoicas/gestion-pyme/internal/domain/entity"
	"github.com/jhoicas/gestion-pyme/internal/domain/repository"
)

type state struct {
	companies   map[string]entity.Company
	settings    map[string]entity.CompanySettings
	users       map[string]entity.User
	memberships map[string]entity.Membership
	customers   map[string]entity.Customer
	suppliers   map[string]entity.Supplier
	products    map[string]entity.Product
	operations  map[string]entity.Operation
	items       map[string]entity.OperationItem
	audit       []entity.AuditLog
	// seq orden de inserción por ID, desempata registros con el mismo CreatedAt.
	seq  map[string]int64
	next int64
}

func newState() *state {
	return &state{
		companies:   map[string]entity.Company{},
		settings:    map[string]entity.CompanySettings{},
		users:       map[string]entity.User{},
		memberships: map[string]entity.Membership{},
		customers:   map[string]entity.Customer{},
		suppliers:   map[string]entity.Supplier{},
		products:    map[string]entity.Product{},
		operations:  map[string]entity.Operation{},
		items:       map[string]entity.OperationItem{},
		seq:         map[string]int64{},
	}
}

func (s *state) clone() *state {
	c := &state{
		companies:   cloneMap(s.companies, nil),
		settings:    cloneMap(s.settings, nil),
		users:       cloneMap(s.users, nil),
		memberships: cloneMap(s.memberships, nil),
		customers:   cloneMap(s.customers, nil),
		suppliers:   cloneMap(s.suppliers, nil),
		products:    cloneMap(s.products, cloneProduct),
		operations:  cloneMap(s.operations, cloneOperation),
		items:       cloneMap(s.items, nil),
		audit:       append([]entity.AuditLog(nil), s.audit...),
		seq:         cloneMap(s.seq, nil),
		next:        s.next,
	}
	return c
}

func cloneMap[V any](in map[string]V, deep func(V) V) map[string]V {
	out := make(map[string]V, len(in))
	for k, v := range in {
		if deep != nil {
			v = deep(v)
		}
		out[k] = v
	}
	return out
}

func cloneProduct(p entity.Product) entity.Product {
	if p.Stock != nil {
		v := *p.Stock
		p.Stock = &v
	}
	return p
}

func cloneOperation(o entity.Operation) entity.Operation {
	o.CustomerID = cloneStr(o.CustomerID)
	o.SupplierID = cloneStr(o.SupplierID)
	return o
}

func cloneStr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

// track registra el orden de inserción de un ID.
func (s *state) track(id string) {
	if _, ok := s.seq[id]; ok {
		return
	}
	s.next++
	s.seq[id] = s.next
}

// before orden estable: CreatedAt y luego orden de inserción.
func (s *state) before(aID string, aAt time.Time, bID string, bAt time.Time) bool {
	if !aAt.Equal(bAt) {
		return aAt.Before(bAt)
	}
	return s.seq[aID] < s.seq[bID]
}

// access abstrae si los repositorios leen el estado publicado o la copia de una transacción.
type access interface {
	read(fn func(st *state) error) error
	write(fn func(st *state) error) error
}

// Store estado en memoria compartido por todos los repositorios.
// Las escrituras fuera de transacción también son atómicas (copia y publicación).
// Un callback de Run no debe escribir con los repositorios de Store (solo con los de la tx).
type Store struct {
	txMu  sync.Mutex   // serializa escritores
	mu    sync.RWMutex // protege el puntero al estado publicado
	state *state
	now   func() time.Time
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{state: newState(), now: time.Now}
}

func (s *Store) snapshot() *state {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Store) publish(next *state) {
	s.mu.Lock()
	s.state = next
	s.mu.Unlock()
}

// Run ejecuta fn dentro de una transacción: si fn falla, ningún cambio es visible.
func (s *Store) Run(ctx context.Context, fn func(tx repository.Repos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()
	work := s.snapshot().clone()
	if err := fn(reposFor(txAccess{st: work}, s.now)); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.publish(work)
	return nil
}

// Repos repositorios sobre el estado publicado (fuera de transacción).
func (s *Store) Repos() repository.Repos {
	return reposFor(rootAccess{s: s}, s.now)
}

type rootAccess struct{ s *Store }

func (a rootAccess) read(fn func(st *state) error) error {
	return fn(a.s.snapshot())
}

func (a rootAccess) write(fn func(st *state) error) error {
	a.s.txMu.Lock()
	defer a.s.txMu.Unlock()
	next := a.s.snapshot().clone()
	if err := fn(next); err != nil {
		return err
	}
	a.s.publish(next)
	return nil
}

type txAccess struct{ st *state }

func (a txAccess) read(fn func(st *state) error) error  { return fn(a.st) }
func (a txAccess) write(fn func(st *state) error) error { return fn(a.st) }

func reposFor(a access, now func() time.Time) repository.Repos {
	return repository.Repos{
		Companies:   &CompanyRepo{a: a, now: now},
		Users:       &UserRepo{a: a},
		Memberships: &MembershipRepo{a: a, now: now},
		Customers:   &CustomerRepo{a: a, now: now},
		Suppliers:   &SupplierRepo{a: a, now: now},
		Products:    &ProductRepo{a: a, now: now},
		Operations:  &OperationRepo{a: a, now: now},
		Audit:       &AuditLogRepo{a: a},
		Reports:     &ReportRepo{a: a},
	}
}

func requireCompany(companyID string) error {
	if companyID == "" {
		return domain.ErrNoCompany
	}
	return nil
}

// page aplica offset y límite (0 = sin límite).
func page[T any](in []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(in) {
			return []T{}
		}
		in = in[offset:]
	}
	if limit > 0 && limit < len(in) {
		in = in[:limit]
	}
	return in
}

// matches búsqueda parcial sin distinguir mayúsculas en código o nombre.
func matches(search, code, name string) bool {
	if search == "" {
		return true
	}
	q := strings.ToLower(search)
	return strings.Contains(strings.ToLower(code), q) || strings.Contains(strings.ToLower(name), q)
}

func sortByName[T any](st *state, list []*T, name func(*T) string, id func(*T) string) {
	sort.SliceStable(list, func(i, j int) bool {
		ni, nj := name(list[i]), name(list[j])
		if ni != nj {
			return ni < nj
		}
		return st.seq[id(list[i])] < st.seq[id(list[j])]
	})
}
