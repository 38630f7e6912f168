package dto

import "github.com/shopspring/decimal"

// RegistrarLineaRequest commits one priced line to the active session's
// ledger. CostoCaja may override the transient cost entry; when empty,
// the previously entered cost (or the catalog cost) is used.
type RegistrarLineaRequest struct {
	ProductoID  string `json:"producto_id" validate:"required"`
	CostoCaja   string `json:"costo_caja"`
	Cajas       *int   `json:"cajas" validate:"omitempty,min=0"`
	Lote        string `json:"lote" validate:"omitempty,max=40"`
	Vencimiento string `json:"vencimiento" validate:"omitempty,datetime=2006-01-02"`
}

type ReordenarRequest struct {
	Desde int `json:"desde" validate:"min=0"`
	Hasta int `json:"hasta" validate:"min=0"`
}

// LineaBitacora mirrors a persisted historial_calculos row for the
// active session's local ledger view.
type LineaBitacora struct {
	ID              string `json:"id"`
	SesionID        string `json:"sesion_id"`
	ProductoID      string `json:"producto_id"`
	Producto        string `json:"producto"`
	Proveedor       string `json:"proveedor"`
	Linea           string `json:"linea"`
	CodigoBarras    string `json:"codigo_barras,omitempty"`
	CodRef          string `json:"cod_ref,omitempty"`
	UnidadesPorCaja int    `json:"unidades_por_caja"`

	CostoCaja         decimal.Decimal `json:"costo_caja"`
	Desc1Pct          decimal.Decimal `json:"desc1_pct"`
	Desc2Pct          decimal.Decimal `json:"desc2_pct"`
	IncrementoPct     decimal.Decimal `json:"incremento_pct"`
	CostoNetoCaja     decimal.Decimal `json:"costo_neto_caja"`
	CostoNetoUnidad   decimal.Decimal `json:"costo_neto_unidad"`
	PrecioFinalCaja   decimal.Decimal `json:"precio_final_caja"`
	PrecioFinalUnidad decimal.Decimal `json:"precio_final_unidad"`

	Cajas            int    `json:"cajas"`
	Unidades         int    `json:"unidades"`
	Lote             string `json:"lote,omitempty"`
	Vencimiento      string `json:"vencimiento,omitempty"`
	ParametrosManual bool   `json:"parametros_manual"`
	CasoEspecial     string `json:"caso_especial,omitempty"`
	Estado           string `json:"estado"`
	Usuario          string `json:"usuario"`
	CreatedAt        string `json:"created_at"`
}

type BitacoraResponse struct {
	SesionID string          `json:"sesion_id"`
	Lineas   []LineaBitacora `json:"lineas"`
	// EliminacionPendiente is true while a delete is inside its undo
	// window; Deshacer only works during that window.
	EliminacionPendiente bool `json:"eliminacion_pendiente"`
}
