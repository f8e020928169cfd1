package entity_test

import (
	"errors"
	"testing"

	"github.com/jhoicas/gestion-pyme/internal/domain"
	"github.com/jhoicas/gestion-pyme/internal/domain/entity"
	"github.com/stretchr/testify/assert"
)

func TestCheckModifiable(t *testing.T) {
	op := &entity.Operation{Status: entity.StatusDraft}
	assert.NoError(t, op.CheckModifiable())

	op.Status = entity.StatusConfirmed
	err := op.CheckModifiable()
	assert.ErrorIs(t, err, domain.ErrOperationConfirmed)
	assert.ErrorIs(t, err, domain.ErrValidation)

	op.Status = entity.StatusCancelled
	err = op.CheckModifiable()
	assert.ErrorIs(t, err, domain.ErrOperationCancelled)
	assert.False(t, errors.Is(err, domain.ErrOperationConfirmed))
}

func TestCounterpartID(t *testing.T) {
	c, s := "c1", "s1"
	assert.Equal(t, "c1", (&entity.Operation{Type: entity.OperationSale, CustomerID: &c}).CounterpartID())
	assert.Equal(t, "s1", (&entity.Operation{Type: entity.OperationPurchase, SupplierID: &s}).CounterpartID())
	assert.Equal(t, "", (&entity.Operation{Type: entity.OperationSale, SupplierID: &s}).CounterpartID())
}
