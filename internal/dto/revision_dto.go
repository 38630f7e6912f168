package dto

import "github.com/shopspring/decimal"

// LineaRevision is one ledger line prepared for reconciliation: the
// newly computed unit price next to the previously known system price.
type LineaRevision struct {
	HistorialID     string `json:"historial_id"`
	Producto        string `json:"producto"`
	Proveedor       string `json:"proveedor"`
	CodigoBarras    string `json:"codigo_barras,omitempty"`
	CodRef          string `json:"cod_ref,omitempty"`
	UnidadesPorCaja int    `json:"unidades_por_caja"`

	PrecioNuevoUnidad decimal.Decimal `json:"precio_nuevo_unidad"`
	// PrecioAnteriorUnidad and DeltaPct are absent when the product has
	// no system price (or a zero one) to compare against.
	PrecioAnteriorUnidad *decimal.Decimal `json:"precio_anterior_unidad,omitempty"`
	DeltaPct             *decimal.Decimal `json:"delta_pct,omitempty"`

	ParametrosManual bool   `json:"parametros_manual"`
	CasoEspecial     string `json:"caso_especial,omitempty"`

	// Decidida marks lines that already carry a persisted decision.
	Decidida bool   `json:"decidida"`
	Accion   string `json:"accion,omitempty"`
}

type RevisionResponse struct {
	SesionID  string          `json:"sesion_id"`
	Estado    string          `json:"estado"`
	Lineas    []LineaRevision `json:"lineas"`
	Decididas int             `json:"decididas"`
}

type DecidirRequest struct {
	HistorialID string `json:"historial_id" validate:"required,uuid"`
	Accion      string `json:"accion" validate:"required,oneof=mantener_anterior usar_nuevo promedio reprocesar"`
	Motivo      string `json:"motivo" validate:"omitempty,max=500"`
}

type DecisionResponse struct {
	HistorialID          string           `json:"historial_id"`
	Accion               string           `json:"accion"`
	PrecioAnteriorUnidad *decimal.Decimal `json:"precio_anterior_unidad,omitempty"`
	PrecioNuevoUnidad    decimal.Decimal  `json:"precio_nuevo_unidad"`
	PrecioFinalUnidad    decimal.Decimal  `json:"precio_final_unidad"`
	Motivo               string           `json:"motivo,omitempty"`
	Revisor              string           `json:"revisor"`
}
