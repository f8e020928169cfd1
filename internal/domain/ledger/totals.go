// Package ledger contiene la aritmética pura del libro de operaciones: redondeo, totales y numeración.
package ledger

import (
	"github.com/jhoicas/gestion-pyme/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// MoneyPlaces decimales de todos los importes monetarios.
const MoneyPlaces int32 = 2

// MaxAmount mayor importe o cantidad almacenable: NUMERIC(15,2).
var MaxAmount = decimal.New(1, 13).Sub(decimal.New(1, -MoneyPlaces))

// InRange indica si el valor cabe en una columna NUMERIC(15,2) (en valor absoluto).
func InRange(d decimal.Decimal) bool {
	return d.Abs().LessThanOrEqual(MaxAmount)
}

// Round redondea a 2 decimales, mitades lejos de cero.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyPlaces)
}

// ItemSubtotal calcula el subtotal de una línea.
func ItemSubtotal(quantity, unitPrice decimal.Decimal) decimal.Decimal {
	return Round(quantity.Mul(unitPrice))
}

// Totals importes derivados de una operación.
type Totals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// ComputeTotals suma los importes exactos de los ítems (cantidad x precio), redondea una sola vez
// y aplica la tasa (porcentaje) de la empresa. Función pura: mismos ítems y tasa producen los
// mismos totales.
func ComputeTotals(items []*entity.OperationItem, ratePercent decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(it.Quantity.Mul(it.UnitPrice))
	}
	subtotal = Round(subtotal)
	tax := Round(subtotal.Mul(ratePercent).Shift(-2))
	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    Round(subtotal.Add(tax)),
	}
}

// InRange indica si los tres importes caben en su columna.
func (t Totals) InRange() bool {
	return InRange(t.Subtotal) && InRange(t.Tax) && InRange(t.Total)
}

// Apply copia los totales a la operación.
func (t Totals) Apply(op *entity.Operation) {
	op.Subtotal = t.Subtotal
	op.Tax = t.Tax
	op.Total = t.Total
}
