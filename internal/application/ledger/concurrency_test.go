package ledger_test

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestion-pyme/internal/application/ledger"
	"github.com/jhoicas/gestion-pyme/internal/domain"
	"github.com/jhoicas/gestion-pyme/internal/domain/entity"
)

// Ejecutar con -race.

func TestCreate_ConcurrenteNumerosUnicosSinHuecos(t *testing.T) {
	f := newFixture(t, ledger.Config{})
	const n = 20

	numbers := make([]string, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			op, err := f.svc.Create(f.ctx, f.company, ledger.CreateInput{Type: entity.OperationSale, CustomerID: f.customer.ID}, f.actor)
			errs[i] = err
			if err == nil {
				numbers[i] = op.Number
			}
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	sort.Strings(numbers)
	for i, got := range numbers {
		assert.Equal(t, fmt.Sprintf("%06d", i+1), got)
	}
}

func TestConfirm_ConcurrenteNuncaDejaStockNegativo(t *testing.T) {
	f := newFixture(t, ledger.Config{})
	p := f.newProduct(t, f.company, "A", "1.00", "5", "0")
	const n = 10

	sales := make([]*entity.Operation, n)
	for i := range sales {
		sales[i] = f.newSale(t)
		_, err := f.svc.AddItem(f.ctx, f.company, sales[i].ID, ledger.ItemInput{ProductID: p.ID, Quantity: d("1")}, f.actor)
		require.NoError(t, err)
	}

	errs := make([]error, n)
	var wg sync.WaitGroup
	for i, op := range sales {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			_, errs[i] = f.svc.Confirm(f.ctx, f.company, id, f.actor)
		}(i, op.ID)
	}
	wg.Wait()

	confirmed := 0
	for _, err := range errs {
		if err == nil {
			confirmed++
			continue
		}
		var stockErr *domain.InsufficientStockError
		assert.True(t, errors.As(err, &stockErr), "solo se rechaza por stock: %v", err)
	}
	assert.Equal(t, 5, confirmed)
	assert.True(t, f.stock(t, p).IsZero())
}

func TestConfirm_ConcurrenteCompraYVenta(t *testing.T) {
	f := newFixture(t, ledger.Config{})
	p := f.newProduct(t, f.company, "A", "1.00", "0", "0")

	purchase := f.newPurchase(t)
	_, err := f.svc.AddItem(f.ctx, f.company, purchase.ID, ledger.ItemInput{ProductID: p.ID, Quantity: d("3")}, f.actor)
	require.NoError(t, err)
	sale := f.newSale(t)
	_, err = f.svc.AddItem(f.ctx, f.company, sale.ID, ledger.ItemInput{ProductID: p.ID, Quantity: d("2")}, f.actor)
	require.NoError(t, err)

	var wg sync.WaitGroup
	var saleErr error
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, err := f.svc.Confirm(f.ctx, f.company, purchase.ID, f.actor)
		assert.NoError(t, err)
	}()
	go func() {
		defer wg.Done()
		_, saleErr = f.svc.Confirm(f.ctx, f.company, sale.ID, f.actor)
	}()
	wg.Wait()

	// Según el orden, la venta encuentra 0 o 3 unidades; el stock nunca queda negativo.
	if saleErr == nil {
		assert.True(t, d("1").Equal(f.stock(t, p)))
	} else {
		assert.ErrorIs(t, saleErr, domain.ErrInsufficientStock)
		assert.True(t, d("3").Equal(f.stock(t, p)))
	}
}
