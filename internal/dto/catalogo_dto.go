package dto

import "github.com/shopspring/decimal"

// ImportarCatalogoResponse summarizes one catalog replacement.
type ImportarCatalogoResponse struct {
	Archivo    string `json:"archivo"`
	Importados int    `json:"importados"`
}

// FijarCostoRequest carries the operator-typed box cost and logistics
// data for one product. CostoCaja is a raw string on purpose: it is
// parsed with the locale-aware normalizer, not by JSON number rules.
type FijarCostoRequest struct {
	CostoCaja   string `json:"costo_caja" validate:"required"`
	Cajas       *int   `json:"cajas" validate:"omitempty,min=0"`
	Lote        string `json:"lote" validate:"omitempty,max=40"`
	Vencimiento string `json:"vencimiento" validate:"omitempty,datetime=2006-01-02"`
}

// FijarOverridesRequest carries raw percentage inputs. Empty string
// clears that override; values go through the percent-magnitude
// heuristic ("25" and "0.25" both mean 25%).
type FijarOverridesRequest struct {
	Desc1      *string `json:"desc1_pct"`
	Desc2      *string `json:"desc2_pct"`
	Incremento *string `json:"incremento_pct"`
}

// ProductoCotizado is one catalog row plus its computed preview prices
// under the effective (catalog or overridden) parameters.
type ProductoCotizado struct {
	ID              string  `json:"id"`
	CodigoBarras    *string `json:"codigo_barras,omitempty"`
	CodRef          *string `json:"cod_ref,omitempty"`
	Nombre          string  `json:"nombre"`
	Proveedor       string  `json:"proveedor"`
	Linea           string  `json:"linea"`
	UnidadesPorCaja int     `json:"unidades_por_caja"`
	CasoEspecial    string  `json:"caso_especial,omitempty"`

	CostoCaja         decimal.Decimal `json:"costo_caja"`
	Desc1Pct          decimal.Decimal `json:"desc1_pct"`
	Desc2Pct          decimal.Decimal `json:"desc2_pct"`
	IncrementoPct     decimal.Decimal `json:"incremento_pct"`
	ParametrosManual  bool            `json:"parametros_manual"`
	CostoNetoCaja     decimal.Decimal `json:"costo_neto_caja"`
	CostoNetoUnidad   decimal.Decimal `json:"costo_neto_unidad"`
	PrecioFinalCaja   decimal.Decimal `json:"precio_final_caja"`
	PrecioFinalUnidad decimal.Decimal `json:"precio_final_unidad"`

	Cajas       *int   `json:"cajas,omitempty"`
	Lote        string `json:"lote,omitempty"`
	Vencimiento string `json:"vencimiento,omitempty"`
}
