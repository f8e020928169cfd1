package memory_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestion-pyme/internal/domain"
	"github.com/jhoicas/gestion-pyme/internal/domain/entity"
	"github.com/jhoicas/gestion-pyme/internal/domain/repository"
	"github.com/jhoicas/gestion-pyme/internal/infrastructure/memory"
)

func newCompany(t *testing.T, repos repository.Repos, name string) *entity.Company {
	t.Helper()
	c := &entity.Company{ID: uuid.New().String(), Name: name, Active: true}
	require.NoError(t, repos.Companies.Create(context.Background(), c))
	return c
}

func newCustomer(companyID, code string) *entity.Customer {
	return &entity.Customer{ID: uuid.New().String(), CompanyID: companyID, Code: code, Name: "Cliente " + code, Active: true}
}

func TestStore_ConsultasAcotadasPorEmpresa(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewStore().Repos()
	a := newCompany(t, repos, "A")
	b := newCompany(t, repos, "B")

	c := newCustomer(a.ID, "C1")
	require.NoError(t, repos.Customers.Create(ctx, c))

	_, err := repos.Customers.GetByCompany(ctx, b.ID, c.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound, "un id de otra empresa se comporta como inexistente")

	got, err := repos.Customers.GetByCompany(ctx, a.ID, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "C1", got.Code)

	listB, err := repos.Customers.ListByCompany(ctx, b.ID, repository.ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, listB)

	assert.ErrorIs(t, repos.Customers.Delete(ctx, b.ID, c.ID), domain.ErrNotFound)
}

func TestStore_SinEmpresaEsErrorDeConfiguracion(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewStore().Repos()

	_, err := repos.Customers.ListByCompany(ctx, "", repository.ListFilter{})
	assert.ErrorIs(t, err, domain.ErrConfiguration)
	_, err = repos.Products.GetByCompany(ctx, "", uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrConfiguration)
	_, err = repos.Operations.ListByCompany(ctx, "", repository.OperationFilter{})
	assert.ErrorIs(t, err, domain.ErrConfiguration)
	err = repos.Customers.Create(ctx, newCustomer("", "C1"))
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestStore_CodigoUnicoPorEmpresa(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewStore().Repos()
	a := newCompany(t, repos, "A")
	b := newCompany(t, repos, "B")

	require.NoError(t, repos.Customers.Create(ctx, newCustomer(a.ID, "C1")))
	assert.ErrorIs(t, repos.Customers.Create(ctx, newCustomer(a.ID, "C1")), domain.ErrDuplicate)
	assert.NoError(t, repos.Customers.Create(ctx, newCustomer(b.ID, "C1")), "el mismo código en otra empresa es válido")
}

func TestStore_RunDescartaCambiosSiFalla(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repos := store.Repos()
	a := newCompany(t, repos, "A")
	boom := errors.New("boom")

	err := store.Run(ctx, func(tx repository.Repos) error {
		require.NoError(t, tx.Customers.Create(ctx, newCustomer(a.ID, "C1")))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	list, err := repos.Customers.ListByCompany(ctx, a.ID, repository.ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)

	require.NoError(t, store.Run(ctx, func(tx repository.Repos) error {
		return tx.Customers.Create(ctx, newCustomer(a.ID, "C2"))
	}))
	list, err = repos.Customers.ListByCompany(ctx, a.ID, repository.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestStore_ProductoReferenciadoNoSeElimina(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewStore().Repos()
	a := newCompany(t, repos, "A")
	cust := newCustomer(a.ID, "C1")
	require.NoError(t, repos.Customers.Create(ctx, cust))
	stock := decimal.NewFromInt(3)
	p := &entity.Product{ID: uuid.New().String(), CompanyID: a.ID, Code: "P1", Name: "P1", Type: entity.ProductTypeProduct, Stock: &stock, Active: true}
	require.NoError(t, repos.Products.Create(ctx, p))

	op := &entity.Operation{ID: uuid.New().String(), CompanyID: a.ID, Type: entity.OperationSale, Number: "000001", CustomerID: &cust.ID, Status: entity.StatusDraft}
	require.NoError(t, repos.Operations.Create(ctx, op))
	require.NoError(t, repos.Operations.CreateItem(ctx, &entity.OperationItem{
		ID: uuid.New().String(), OperationID: op.ID, ProductID: p.ID, Quantity: decimal.NewFromInt(1),
	}))

	assert.ErrorIs(t, repos.Products.Delete(ctx, a.ID, p.ID), domain.ErrInUse)
	assert.ErrorIs(t, repos.Customers.Delete(ctx, a.ID, cust.ID), domain.ErrInUse)
}

func TestStore_CopiasIndependientes(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewStore().Repos()
	a := newCompany(t, repos, "A")
	stock := decimal.NewFromInt(10)
	p := &entity.Product{ID: uuid.New().String(), CompanyID: a.ID, Code: "P1", Name: "P1", Type: entity.ProductTypeProduct, Stock: &stock, Active: true}
	require.NoError(t, repos.Products.Create(ctx, p))

	got, err := repos.Products.GetByCompany(ctx, a.ID, p.ID)
	require.NoError(t, err)
	*got.Stock = decimal.NewFromInt(0)

	again, err := repos.Products.GetByCompany(ctx, a.ID, p.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(10).Equal(again.CurrentStock()))
}

func TestStore_RunSerializaLecturaEscritura(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repos := store.Repos()
	c := newCompany(t, repos, "A")
	zero := decimal.Zero
	p := &entity.Product{ID: uuid.New().String(), CompanyID: c.ID, Code: "P1", Name: "P1", Type: entity.ProductTypeProduct, Stock: &zero, Active: true}
	require.NoError(t, repos.Products.Create(ctx, p))

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := store.Run(ctx, func(tx repository.Repos) error {
				cur, err := tx.Products.GetForUpdate(ctx, c.ID, p.ID)
				if err != nil {
					return err
				}
				return tx.Products.UpdateStock(ctx, c.ID, p.ID, cur.CurrentStock().Add(decimal.NewFromInt(1)))
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := repos.Products.GetByCompany(ctx, c.ID, p.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(n).Equal(got.CurrentStock()), "ningún incremento se pierde")
}

func TestStore_MembresiasEmpatadasEnOrdenDeInsercion(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewStore().Repos()
	user := &entity.User{ID: uuid.New().String(), Email: "u@x.test", Active: true}
	require.NoError(t, repos.Users.Create(ctx, user))

	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	ids := make([]string, 0, 5)
	for i := 0; i < 5; i++ {
		c := newCompany(t, repos, "E")
		m := &entity.Membership{ID: uuid.New().String(), UserID: user.ID, CompanyID: c.ID, Role: entity.RoleViewer, Active: true, CreatedAt: at, UpdatedAt: at}
		require.NoError(t, repos.Memberships.Create(ctx, m))
		ids = append(ids, c.ID)
	}

	list, err := repos.Memberships.ListActiveByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, list, 5)
	for i, cm := range list {
		assert.Equal(t, ids[i], cm.Company.ID)
	}
}
