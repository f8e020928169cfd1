package ledger_test

import (
	"testing"

	"github.com/jhoicas/gestion-pyme/internal/domain/entity"
	"github.com/jhoicas/gestion-pyme/internal/domain/ledger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func item(q, p string) *entity.OperationItem {
	return &entity.OperationItem{Quantity: d(q), UnitPrice: d(p), Subtotal: ledger.ItemSubtotal(d(q), d(p))}
}

func TestItemSubtotal_RedondeaMitadHaciaArriba(t *testing.T) {
	assert.True(t, d("10.00").Equal(ledger.ItemSubtotal(d("2"), d("5.00"))))
	assert.True(t, d("0.01").Equal(ledger.ItemSubtotal(d("0.5"), d("0.01"))), "0.005 debe redondear a 0.01")
	assert.True(t, d("3.34").Equal(ledger.ItemSubtotal(d("1.5"), d("2.225"))))
}

func TestComputeTotals_ConTasa(t *testing.T) {
	items := []*entity.OperationItem{item("2", "10.00"), item("1", "5.50")}

	got := ledger.ComputeTotals(items, d("12"))

	assert.True(t, d("25.50").Equal(got.Subtotal))
	assert.True(t, d("3.06").Equal(got.Tax))
	assert.True(t, d("28.56").Equal(got.Total))
}

func TestComputeTotals_RedondeaUnaSolaVez(t *testing.T) {
	// 3 x 0.335 = 1.005 por línea; por línea serían 1.01 + 1.01, sobre la suma exacta 2.01.
	items := []*entity.OperationItem{item("3", "0.335"), item("3", "0.335")}

	got := ledger.ComputeTotals(items, decimal.Zero)

	assert.True(t, d("2.01").Equal(got.Subtotal))
	assert.True(t, d("1.01").Equal(items[0].Subtotal))
}

func TestComputeTotals_SinItems(t *testing.T) {
	got := ledger.ComputeTotals(nil, d("12"))
	assert.True(t, got.Subtotal.IsZero())
	assert.True(t, got.Tax.IsZero())
	assert.True(t, got.Total.IsZero())
}

func TestComputeTotals_Invariantes(t *testing.T) {
	items := []*entity.OperationItem{item("3", "1.333"), item("0.25", "19.99"), item("7", "0.07")}
	rate := d("15")

	got := ledger.ComputeTotals(items, rate)

	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.Quantity.Mul(it.UnitPrice))
	}
	assert.True(t, ledger.Round(sum).Equal(got.Subtotal), "subtotal = suma exacta redondeada una vez")
	assert.True(t, ledger.Round(got.Subtotal.Mul(rate).Div(d("100"))).Equal(got.Tax))
	assert.True(t, got.Subtotal.Add(got.Tax).Equal(got.Total), "total = subtotal + impuesto")

	again := ledger.ComputeTotals(items, rate)
	assert.Equal(t, got, again, "recalcular sin cambios no altera los totales")
}

func TestApply(t *testing.T) {
	op := &entity.Operation{}
	ledger.ComputeTotals([]*entity.OperationItem{item("1", "100")}, d("10")).Apply(op)
	assert.True(t, d("110").Equal(op.Total))
}

func TestInRange(t *testing.T) {
	assert.True(t, ledger.InRange(d("9999999999999.99")))
	assert.True(t, ledger.InRange(d("-9999999999999.99")))
	assert.False(t, ledger.InRange(d("10000000000000.00")))

	got := ledger.ComputeTotals([]*entity.OperationItem{item("1", "9999999999999.99")}, d("12"))
	assert.False(t, got.InRange(), "el impuesto empuja el total fuera de NUMERIC(15,2)")
}
