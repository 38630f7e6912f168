// Package catalogo ingests supplier price lists (CSV or XLSX) into
// catalog rows. Column headers vary wildly between suppliers, so they
// are first normalized through a fixed synonym table into the canonical
// field names the rest of the system uses.
package catalogo

import "strings"

// Canonical column names produced by NormalizarCabecera.
const (
	ColNombre          = "nombre"
	ColProveedor       = "proveedor"
	ColLinea           = "linea"
	ColMarca           = "marca"
	ColUnidadesPorCaja = "unidades_por_caja"
	ColCostoCaja       = "costo_caja"
	ColCostoUnitario   = "costo_unitario"
	ColCosto           = "costo"
	ColDesc1           = "desc1_pct"
	ColDesc2           = "desc2_pct"
	ColIncremento      = "incremento_pct"
	ColCasoEspecial    = "caso_especial"
	ColCodigoBarras    = "codigo_barras"
	ColCodRef          = "cod_ref"
)

var sinonimos = map[string]string{
	"producto":        ColNombre,
	"nombre":          ColNombre,
	"nombre producto": ColNombre,
	"nombre_producto": ColNombre,
	"nombre product":  ColNombre,

	"proveedor": ColProveedor,
	"vendor":    ColProveedor,
	"supplier":  ColProveedor,

	"linea":             ColLinea,
	"línea":             ColLinea,
	"linea de producto": ColLinea,
	"familia":           ColLinea,
	"categoria":         ColLinea,
	"categoría":         ColLinea,

	"marca": ColMarca,

	"unidades_por_caja": ColUnidadesPorCaja,
	"unidades por caja": ColUnidadesPorCaja,
	"unidades x caja":   ColUnidadesPorCaja,
	"u_x_caja":          ColUnidadesPorCaja,
	"pack":              ColUnidadesPorCaja,
	"contenido":         ColUnidadesPorCaja,
	"contenido_x":       ColUnidadesPorCaja,
	"presentacion":      ColUnidadesPorCaja,
	"presentación":      ColUnidadesPorCaja,

	"costo_caja":   ColCostoCaja,
	"costo caja":   ColCostoCaja,
	"box_cost":     ColCostoCaja,
	"costo/pack":   ColCostoCaja,
	"costo master": ColCostoCaja,

	"costo_unitario": ColCostoUnitario,
	"costo unit":     ColCostoUnitario,
	"unit_cost":      ColCostoUnitario,
	"costo/u":        ColCostoUnitario,
	"costo unidad":   ColCostoUnitario,

	"costo":        ColCosto,
	"precio costo": ColCosto,
	"cost":         ColCosto,
	"precio_costo": ColCosto,

	"% incremento sobre costo final": ColIncremento,
	"% incremento":                   ColIncremento,
	"% incremento costo":             ColIncremento,
	"incremento":                     ColIncremento,
	"incremento_pct":                 ColIncremento,
	"markup":                         ColIncremento,
	"margen":                         ColIncremento,
	"margen_pct":                     ColIncremento,
	"incremento %":                   ColIncremento,
	"incremento%":                    ColIncremento,
	"% inc":                          ColIncremento,
	"% inc.":                         ColIncremento,
	"inc %":                          ColIncremento,
	"inc%":                           ColIncremento,

	"% descuento sobre costo": ColDesc1,
	"%descuento sobre costo":  ColDesc1,
	"descuento sobre costo":   ColDesc1,
	"desc1":                   ColDesc1,
	"d1":                      ColDesc1,
	"d1 %":                    ColDesc1,
	"d1%":                     ColDesc1,
	"descuento 1":             ColDesc1,
	"desc 1":                  ColDesc1,

	"% de descuento sobre costo 2": ColDesc2,
	"% descuento sobre costo 2":    ColDesc2,
	"desc2":                        ColDesc2,
	"d2":                           ColDesc2,
	"d2 %":                         ColDesc2,
	"d2%":                          ColDesc2,
	"descuento 2":                  ColDesc2,
	"desc 2":                       ColDesc2,

	"caso especial?":    ColCasoEspecial,
	"caso especial":     ColCasoEspecial,
	"especial?":         ColCasoEspecial,
	"alerta":            ColCasoEspecial,
	"alertas":           ColCasoEspecial,
	"alertas proveedor": ColCasoEspecial,

	"cod barras":       ColCodigoBarras,
	"codigo de barras": ColCodigoBarras,
	"código de barras": ColCodigoBarras,
	"barcode":          ColCodigoBarras,
	"ean":              ColCodigoBarras,
	"ean13":            ColCodigoBarras,

	"cod ref":    ColCodRef,
	"cod_ref":    ColCodRef,
	"codigo ref": ColCodRef,
	"código ref": ColCodRef,
	"ref":        ColCodRef,
}

// NormalizarCabecera maps a raw column header to its canonical field
// name. Unknown headers fall through a last-resort fuzzy match for the
// discount/markup columns, and otherwise come back lowercased unchanged
// ("id", "sku", ...).
func NormalizarCabecera(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	if canon, ok := sinonimos[s]; ok {
		return canon
	}

	tieneDescuento := strings.Contains(s, "descuento") || strings.Contains(s, "desc")
	if (tieneDescuento || strings.Contains(s, "d1")) && strings.Contains(s, "1") {
		return ColDesc1
	}
	if (tieneDescuento || strings.Contains(s, "d2")) && strings.Contains(s, "2") {
		return ColDesc2
	}
	if strings.Contains(s, "incremento") ||
		strings.Contains(s, "margen") ||
		strings.Contains(s, "markup") ||
		strings.HasPrefix(s, "inc ") ||
		strings.Contains(s, " inc") ||
		strings.Contains(s, "inc%") {
		return ColIncremento
	}
	return s
}
