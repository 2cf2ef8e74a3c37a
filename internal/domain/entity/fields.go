package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de campo dinámico soportados en tareas (variante cerrada, no JSON libre).
const (
	FieldText   = "text"
	FieldDate   = "date"
	FieldNumber = "number"
	FieldOption = "option"
)

// FieldValue valor de un campo dinámico. Solo el miembro que corresponde a
// Kind es significativo; el resto queda en cero.
type FieldValue struct {
	Kind   string          `json:"kind"`
	Text   string          `json:"text,omitempty"`
	Date   *time.Time      `json:"date,omitempty"`
	Number decimal.Decimal `json:"number,omitempty"`
	Option string          `json:"option,omitempty"`
}

// FieldMap campos dinámicos de una tarea, indexados por clave.
// Se persiste como JSONB pero el dominio trabaja con la variante tipada.
type FieldMap map[string]FieldValue

// Clone devuelve una copia independiente del mapa (los valores son copias;
// el puntero Date se duplica para no compartir estado con el original).
func (m FieldMap) Clone() FieldMap {
	if m == nil {
		return nil
	}
	out := make(FieldMap, len(m))
	for k, v := range m {
		if v.Date != nil {
			d := *v.Date
			v.Date = &d
		}
		out[k] = v
	}
	return out
}
