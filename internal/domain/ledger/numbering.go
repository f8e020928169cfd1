package ledger

import (
	"fmt"
	"strconv"
	"strings"
)

// NumberWidth dígitos del número de operación (relleno con ceros).
const NumberWidth = 6

// FirstNumber número asignado a la primera operación de cada (empresa, tipo).
const FirstNumber = "000001"

// NextNumber calcula el número siguiente al último emitido.
// Sin número previo, o si el previo no es numérico, reinicia en 000001.
func NextNumber(last string) string {
	last = strings.TrimSpace(last)
	if last == "" {
		return FirstNumber
	}
	n, err := strconv.ParseUint(last, 10, 63)
	if err != nil {
		return FirstNumber
	}
	return fmt.Sprintf("%0*d", NumberWidth, n+1)
}

// IsNumeric indica si un número de operación participa en la secuencia.
func IsNumeric(number string) bool {
	if number == "" {
		return false
	}
	for _, r := range number {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// GreaterNumber compara dos números numéricos sin límite de longitud (por longitud y luego lexicográfico).
func GreaterNumber(a, b string) bool {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		return len(a) > len(b)
	}
	return a > b
}
