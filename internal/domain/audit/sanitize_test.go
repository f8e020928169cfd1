package audit_test

import (
	"testing"

	"github.com/jhoicas/gestion-pyme/internal/domain/audit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitize_Nil(t *testing.T) {
	got := audit.Sanitize(nil)
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSanitize_ClavesSensibles(t *testing.T) {
	in := map[string]any{
		"name":          "Juan",
		"password":      "x",
		"API_KEY":       "k",
		"Authorization": "Bearer abc",
		"user_token":    "t",
		"pin":           "1234",
		"number":        "000001",
		"account":       "ahorros",
		"status":        "confirmed",
		"pass":          "abreviado",
	}

	got := audit.Sanitize(in)

	assert.Equal(t, "Juan", got["name"])
	assert.Equal(t, audit.Redacted, got["password"])
	assert.Equal(t, audit.Redacted, got["API_KEY"])
	assert.Equal(t, audit.Redacted, got["Authorization"])
	assert.Equal(t, audit.Redacted, got["user_token"])
	assert.Equal(t, audit.Redacted, got["pin"])
	assert.Equal(t, audit.Redacted, got["pass"], "abreviatura de password")
	assert.Equal(t, "000001", got["number"])
	assert.Equal(t, "ahorros", got["account"], "cc solo coincide con la clave completa")
	assert.Equal(t, "confirmed", got["status"])
	assert.Equal(t, "x", in["password"], "la entrada no se modifica")
}

func TestSanitize_Anidado(t *testing.T) {
	in := map[string]any{
		"payment": map[string]any{
			"card_number": "4111111111111111",
			"amount":      "10.00",
		},
		"items": []any{
			map[string]any{"cvv": "123", "qty": 2},
			"texto",
		},
		"headers": []map[string]any{{"Cookie": "sid=1", "Accept": "json"}},
	}

	got := audit.Sanitize(in)

	payment := got["payment"].(map[string]any)
	assert.Equal(t, audit.Redacted, payment["card_number"])
	assert.Equal(t, "10.00", payment["amount"])

	items := got["items"].([]any)
	first := items[0].(map[string]any)
	assert.Equal(t, audit.Redacted, first["cvv"])
	assert.Equal(t, 2, first["qty"])
	assert.Equal(t, "texto", items[1])

	headers := got["headers"].([]any)
	assert.Equal(t, audit.Redacted, headers[0].(map[string]any)["Cookie"])
	assert.Equal(t, "json", headers[0].(map[string]any)["Accept"])
}

func TestIsSensitiveKey_PlegadoUnicode(t *testing.T) {
	assert.True(t, audit.IsSensitiveKey("PASSWORD"))
	assert.True(t, audit.IsSensitiveKey("Secreto"))
	assert.True(t, audit.IsSensitiveKey("SESSION_ID"))
	assert.False(t, audit.IsSensitiveKey(""))
	assert.False(t, audit.IsSensitiveKey("cod"), "las claves cortas no se tratan como abreviatura")
}
