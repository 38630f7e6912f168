package dto

import "github.com/shopspring/decimal"

// ConsultaPrecioResponse is the public, cacheable system-price lookup.
type ConsultaPrecioResponse struct {
	Codigo         string          `json:"codigo"`
	PrecioCaja     decimal.Decimal `json:"precio_caja"`
	ActualizadoPor string          `json:"actualizado_por,omitempty"`
	ActualizadoAt  string          `json:"actualizado_at"`
}
