// Package audit contiene el saneamiento puro de los datos que se guardan en la bitácora.
package audit

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

// Redacted reemplaza el valor de cualquier clave sensible.
const Redacted = "***REDACTED***"

// Términos cortos: solo coinciden con la clave completa ("cc" no debe tapar "account").
var exactTerms = []string{"cc", "pin", "ssn"}

var sensitiveTerms = []string{
	"password", "passwd", "pwd",
	"token", "secret", "key", "api_key", "apikey",
	"card", "card_number", "cardnumber", "credit_card",
	"cvv", "cvc",
	"authorization", "cookie", "session",
}

// Longitud mínima de una abreviatura ("pass", "secr") para considerarla prefijo de un término.
const minPrefixRunes = 4

// IsSensitiveKey indica si el valor asociado a key debe ocultarse.
func IsSensitiveKey(key string) bool {
	// cases.Caser no es seguro entre goroutines: uno por llamada.
	k := cases.Fold().String(strings.TrimSpace(key))
	if k == "" {
		return false
	}
	for _, t := range exactTerms {
		if k == t {
			return true
		}
	}
	long := utf8.RuneCountInString(k) >= minPrefixRunes
	for _, t := range sensitiveTerms {
		if strings.Contains(k, t) {
			return true
		}
		if long && strings.HasPrefix(t, k) {
			return true
		}
	}
	return false
}

// Sanitize devuelve una copia de changes con los valores sensibles ocultos, recorriendo
// mapas anidados y listas. nil produce un mapa vacío. El mapa de entrada no se modifica.
func Sanitize(changes map[string]any) map[string]any {
	if changes == nil {
		return map[string]any{}
	}
	return sanitizeMap(changes)
}

func sanitizeMap(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		if IsSensitiveKey(k) {
			out[k] = Redacted
			continue
		}
		out[k] = sanitizeValue(v)
	}
	return out
}

func sanitizeValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return sanitizeMap(t)
	case map[string]string:
		m := make(map[string]any, len(t))
		for k, s := range t {
			m[k] = s
		}
		return sanitizeMap(m)
	case []map[string]any:
		out := make([]any, len(t))
		for i, m := range t {
			out[i] = sanitizeMap(m)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = sanitizeValue(e)
		}
		return out
	default:
		return v
	}
}
