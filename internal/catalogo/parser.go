package catalogo

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/desiigner97/farmaclinic-margenes/internal/model"
	"github.com/desiigner97/farmaclinic-margenes/internal/pricing"
)

// Parse dispatches on the file extension: .xlsx/.xls go through
// excelize, everything else is treated as delimited text.
func Parse(nombreArchivo string, data []byte) ([]model.Producto, error) {
	switch strings.ToLower(filepath.Ext(nombreArchivo)) {
	case ".xlsx", ".xls":
		return ParseXLSX(data)
	default:
		return ParseCSV(bytes.NewReader(data))
	}
}

// ParseCSV reads a delimited price list. The delimiter is sniffed from
// the header line (suppliers send both comma- and semicolon-separated
// files).
func ParseCSV(r io.Reader) ([]model.Producto, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("catalogo: leer CSV: %w", err)
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = sniffDelimitador(data)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	registros, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("catalogo: CSV invalido: %w", err)
	}
	if len(registros) < 2 {
		return nil, nil
	}

	cabeceras := make([]string, len(registros[0]))
	for i, h := range registros[0] {
		cabeceras[i] = NormalizarCabecera(strings.TrimPrefix(h, "\ufeff"))
	}

	productos := make([]model.Producto, 0, len(registros)-1)
	for _, registro := range registros[1:] {
		fila := make(map[string]string, len(cabeceras))
		for i, v := range registro {
			if i < len(cabeceras) {
				fila[cabeceras[i]] = v
			}
		}
		if p, ok := filaAProducto(fila); ok {
			productos = append(productos, p)
		}
	}
	return productos, nil
}

// ParseXLSX reads the first sheet of a workbook.
func ParseXLSX(data []byte) ([]model.Producto, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("catalogo: abrir XLSX: %w", err)
	}
	defer f.Close()

	hojas := f.GetSheetList()
	if len(hojas) == 0 {
		return nil, nil
	}
	filas, err := f.GetRows(hojas[0])
	if err != nil {
		return nil, fmt.Errorf("catalogo: leer hoja %q: %w", hojas[0], err)
	}
	if len(filas) < 2 {
		return nil, nil
	}

	cabeceras := make([]string, len(filas[0]))
	for i, h := range filas[0] {
		cabeceras[i] = NormalizarCabecera(h)
	}

	productos := make([]model.Producto, 0, len(filas)-1)
	for _, registro := range filas[1:] {
		fila := make(map[string]string, len(cabeceras))
		for i, v := range registro {
			if i < len(cabeceras) {
				fila[cabeceras[i]] = v
			}
		}
		if p, ok := filaAProducto(fila); ok {
			productos = append(productos, p)
		}
	}
	return productos, nil
}

// filaAProducto converts one normalized row into a catalog product.
// Rows without a name are dropped. Missing box cost is derived from
// unit cost x units-per-box, then from the plain "costo" column.
func filaAProducto(fila map[string]string) (model.Producto, bool) {
	nombre := strings.TrimSpace(fila[ColNombre])
	if nombre == "" {
		return model.Producto{}, false
	}

	codigoBarras := strings.TrimSpace(fila[ColCodigoBarras])
	codRef := strings.TrimSpace(fila[ColCodRef])

	id := codigoBarras
	if id == "" {
		id = codRef
	}
	if id == "" {
		id = strings.TrimSpace(fila["id"])
	}
	if id == "" {
		id = "tmp-" + uuid.NewString()
	}

	unidades := 1
	if upc, ok := pricing.ParseNumeroLocale(fila[ColUnidadesPorCaja]); ok {
		if n := int(upc.IntPart()); n > 0 {
			unidades = n
		}
	}

	costoCaja, tieneCosto := pricing.ParseNumeroLocale(fila[ColCostoCaja])
	if !tieneCosto {
		if cu, ok := pricing.ParseNumeroLocale(fila[ColCostoUnitario]); ok {
			costoCaja = cu.Mul(decimal.NewFromInt(int64(unidades)))
			tieneCosto = true
		}
	}
	if !tieneCosto {
		if cc, ok := pricing.ParseNumeroLocale(fila[ColCosto]); ok {
			costoCaja = cc
		}
	}

	linea := strings.TrimSpace(fila[ColLinea])
	marca := strings.TrimSpace(fila[ColMarca])
	if linea == "" {
		linea = marca
	}

	p := model.Producto{
		ID:              id,
		Nombre:          nombre,
		Proveedor:       strings.TrimSpace(fila[ColProveedor]),
		Linea:           linea,
		Marca:           marca,
		UnidadesPorCaja: unidades,
		CostoCaja:       costoCaja,
		Desc1Pct:        porcentajeODefecto(fila[ColDesc1]),
		Desc2Pct:        porcentajeODefecto(fila[ColDesc2]),
		IncrementoPct:   porcentajeODefecto(fila[ColIncremento]),
		CasoEspecial:    strings.TrimSpace(fila[ColCasoEspecial]),
	}
	if codigoBarras != "" {
		p.CodigoBarras = &codigoBarras
	}
	if codRef != "" {
		p.CodRef = &codRef
	}
	return p, true
}

// porcentajeODefecto applies the percent heuristic; absent or invalid
// input becomes zero at this boundary (an import cannot stop to ask).
func porcentajeODefecto(raw string) decimal.Decimal {
	d, err := pricing.ParsePorcentaje(raw)
	if err != nil || d == nil {
		return decimal.Zero
	}
	return *d
}

func sniffDelimitador(data []byte) rune {
	primeraLinea := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		primeraLinea = data[:i]
	}
	if bytes.Count(primeraLinea, []byte{';'}) > bytes.Count(primeraLinea, []byte{','}) {
		return ';'
	}
	return ','
}
