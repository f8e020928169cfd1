package ledger_test

import (
	"testing"

	"github.com/jhoicas/gestion-pyme/internal/domain/ledger"
	"github.com/stretchr/testify/assert"
)

func TestNextNumber(t *testing.T) {
	cases := []struct {
		last, want string
	}{
		{"", "000001"},
		{"000001", "000002"},
		{"000099", "000100"},
		{"999999", "1000000"},
		{"FAC-01", "000001"},
		{"  000007 ", "000008"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, ledger.NextNumber(c.last), "último=%q", c.last)
	}
}

func TestIsNumeric(t *testing.T) {
	assert.True(t, ledger.IsNumeric("000123"))
	assert.False(t, ledger.IsNumeric(""))
	assert.False(t, ledger.IsNumeric("12a"))
}

func TestGreaterNumber(t *testing.T) {
	assert.True(t, ledger.GreaterNumber("1000000", "999999"))
	assert.True(t, ledger.GreaterNumber("000010", "000009"))
	assert.False(t, ledger.GreaterNumber("000001", "000001"))
}
