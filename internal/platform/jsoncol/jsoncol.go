// Package jsoncol serializa estructuras anidadas guardadas en columnas JSON/JSONB.
//
// Política: leer nunca falla. Si el valor guardado está vacío, es null o no
// parsea, se devuelve el default del campo.
package jsoncol

import (
	"bytes"
	"encoding/json"
)

// Parse decodifica raw en T o devuelve fallback().
func Parse[T any](raw []byte, fallback func() T) T {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return fallback()
	}
	var out T
	if err := json.Unmarshal(trimmed, &out); err != nil {
		return fallback()
	}
	return out
}

// ParseString es Parse para columnas TEXT.
func ParseString[T any](raw string, fallback func() T) T {
	return Parse([]byte(raw), fallback)
}

// Encode serializa v. nil se guarda como "null" para que Parse aplique default.
func Encode(v any) ([]byte, error) {
	return json.Marshal(v)
}

// EmptyList es el default para columnas de listas.
func EmptyList() []string { return []string{} }

// EmptyObject es el default para columnas de objetos libres.
func EmptyObject() map[string]any { return map[string]any{} }
