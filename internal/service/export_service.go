package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/desiigner97/farmaclinic-margenes/internal/model"
	"github.com/desiigner97/farmaclinic-margenes/internal/repository"
)

var ErrSinRegistros = errors.New("No hay registros para exportar")

// ExportService renders a session's ledger as spreadsheet and report
// documents. Both formats read straight from the store so they reflect
// committed lines only, never local views.
type ExportService interface {
	ExportarXLSX(ctx context.Context, sesionID uuid.UUID) ([]byte, string, error)
	ReportePDF(ctx context.Context, sesionID uuid.UUID) ([]byte, string, error)
}

type exportService struct {
	sesionRepo    repository.SesionRepository
	historialRepo repository.HistorialRepository
	decisionRepo  repository.DecisionRepository
}

func NewExportService(
	sesionRepo repository.SesionRepository,
	historialRepo repository.HistorialRepository,
	decisionRepo repository.DecisionRepository,
) ExportService {
	return &exportService{sesionRepo: sesionRepo, historialRepo: historialRepo, decisionRepo: decisionRepo}
}

var cabecerasExport = []string{
	"N°", "Fecha", "Producto", "Proveedor", "Marca/Línea",
	"Código de Barras", "Código Ref", "Unidades por Caja",
	"Costo Caja (Bs)", "Costo Unitario (Bs)",
	"Descuento 1 (%)", "Descuento 2 (%)", "Incremento (%)", "Parámetros Manuales",
	"Costo Neto Caja (Bs)", "Costo Neto Unitario (Bs)",
	"PRECIO CAJA (Bs)", "PRECIO FRACCIÓN (Bs)",
	"Margen Caja (Bs)", "Margen Unitario (Bs)",
	"Estado", "Caso Especial", "Usuario",
}

func (s *exportService) ExportarXLSX(ctx context.Context, sesionID uuid.UUID) ([]byte, string, error) {
	lineas, err := s.historialRepo.ListBySesion(ctx, sesionID)
	if err != nil {
		return nil, "", err
	}
	if len(lineas) == 0 {
		return nil, "", ErrSinRegistros
	}

	f := excelize.NewFile()
	defer f.Close()

	const hoja = "Registro de Márgenes"
	f.SetSheetName("Sheet1", hoja)
	if err := f.SetSheetRow(hoja, "A1", &cabecerasExport); err != nil {
		return nil, "", err
	}

	cien := decimal.NewFromInt(100)
	for i := range lineas {
		h := &lineas[i]
		upc := h.UnidadesPorCaja
		if upc <= 0 {
			upc = 1
		}
		divUPC := decimal.NewFromInt(int64(upc))
		fila := []interface{}{
			i + 1,
			h.CreatedAt.Format("02/01/2006 15:04"),
			h.Producto,
			h.Proveedor,
			h.Linea,
			h.CodigoBarras,
			h.CodRef,
			upc,
			h.CostoCaja.StringFixed(2),
			h.CostoCaja.Div(divUPC).StringFixed(2),
			h.Desc1Pct.Mul(cien).StringFixed(2),
			h.Desc2Pct.Mul(cien).StringFixed(2),
			h.IncrementoPct.Mul(cien).StringFixed(2),
			siNo(h.ParametrosManual),
			h.CostoNetoCaja.StringFixed(2),
			h.CostoNetoUnidad.StringFixed(2),
			h.PrecioFinalCaja.StringFixed(2),
			h.PrecioFinalUnidad.StringFixed(2),
			h.PrecioFinalCaja.Sub(h.CostoNetoCaja).StringFixed(2),
			h.PrecioFinalUnidad.Sub(h.CostoNetoUnidad).StringFixed(2),
			estadoMayusculas(h.Estado),
			h.CasoEspecial,
			h.Usuario,
		}
		celda, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, "", err
		}
		if err := f.SetSheetRow(hoja, celda, &fila); err != nil {
			return nil, "", err
		}
	}

	if err := s.hojaResumen(f, lineas); err != nil {
		return nil, "", err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}
	ahora := time.Now()
	nombre := fmt.Sprintf("FarmaClinic_Margenes_%s_%s.xlsx", ahora.Format("2006-01-02"), ahora.Format("1504"))
	return buf.Bytes(), nombre, nil
}

func (s *exportService) hojaResumen(f *excelize.File, lineas []model.HistorialCalculo) error {
	const hoja = "Resumen"
	if _, err := f.NewSheet(hoja); err != nil {
		return err
	}

	manuales, especiales := 0, 0
	var sumD1, sumD2, sumInc decimal.Decimal
	for i := range lineas {
		if lineas[i].ParametrosManual {
			manuales++
		}
		if lineas[i].CasoEspecial == "si" || lineas[i].CasoEspecial == "SI" {
			especiales++
		}
		sumD1 = sumD1.Add(lineas[i].Desc1Pct)
		sumD2 = sumD2.Add(lineas[i].Desc2Pct)
		sumInc = sumInc.Add(lineas[i].IncrementoPct)
	}
	total := decimal.NewFromInt(int64(len(lineas)))
	cien := decimal.NewFromInt(100)
	promedio := func(suma decimal.Decimal) string {
		return suma.Mul(cien).Div(total).StringFixed(2)
	}

	filas := [][]interface{}{
		{"Métrica", "Valor"},
		{"Total de productos procesados", len(lineas)},
		{"Productos con parámetros manuales", manuales},
		{"Productos con casos especiales", especiales},
		{"Promedio descuento 1 (%)", promedio(sumD1)},
		{"Promedio descuento 2 (%)", promedio(sumD2)},
		{"Promedio incremento (%)", promedio(sumInc)},
	}
	for i, fila := range filas {
		celda, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(hoja, celda, &fila); err != nil {
			return err
		}
	}
	return f.SetColWidth(hoja, "A", "A", 35)
}

// ReportePDF renders an A4 review report: session header, decision
// counts, and the ledger with old/new price columns where decided.
func (s *exportService) ReportePDF(ctx context.Context, sesionID uuid.UUID) ([]byte, string, error) {
	sesion, err := s.sesionRepo.FindByID(ctx, sesionID)
	if err != nil {
		return nil, "", ErrSesionNoEncontrada
	}
	lineas, err := s.historialRepo.ListBySesion(ctx, sesionID)
	if err != nil {
		return nil, "", err
	}
	if len(lineas) == 0 {
		return nil, "", ErrSinRegistros
	}
	decisiones, err := s.decisionRepo.ListBySesion(ctx, sesionID)
	if err != nil {
		return nil, "", err
	}
	porLinea := make(map[uuid.UUID]*model.DecisionComparacion, len(decisiones))
	for i := range decisiones {
		porLinea[decisiones[i].HistorialID] = &decisiones[i]
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	// Core fonts are cp1252; accents and the ellipsis must be
	// translated or they render as mojibake.
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(12, 12, 12)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 24

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 8, tr("FarmaClinic - Reporte de Márgenes"), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, tr(sesion.Nombre), "", 1, "C", false, 0, "")
	pdf.CellFormat(contentW, 5,
		tr(fmt.Sprintf("Operador: %s    Estado: %s    Registros: %d", sesion.Usuario, sesion.Estado, len(lineas))),
		"", 1, "C", false, 0, "")
	pdf.Ln(3)
	pdf.Line(12, pdf.GetY(), pageW-12, pdf.GetY())
	pdf.Ln(3)

	// ── Table header ──────────────────────────────────────────────────────────
	colProd := contentW * 0.30
	colProv := contentW * 0.16
	colUPC := contentW * 0.08
	colAnt := contentW * 0.14
	colNvo := contentW * 0.14
	colAcc := contentW * 0.18

	encabezado := func() {
		pdf.SetFont("Helvetica", "B", 8)
		pdf.CellFormat(colProd, 6, "Producto", "B", 0, "L", false, 0, "")
		pdf.CellFormat(colProv, 6, "Proveedor", "B", 0, "L", false, 0, "")
		pdf.CellFormat(colUPC, 6, "U/Caja", "B", 0, "C", false, 0, "")
		pdf.CellFormat(colAnt, 6, "P. Anterior", "B", 0, "R", false, 0, "")
		pdf.CellFormat(colNvo, 6, "P. Nuevo", "B", 0, "R", false, 0, "")
		pdf.CellFormat(colAcc, 6, tr("Decisión"), "B", 1, "L", false, 0, "")
	}
	encabezado()

	_, pageH := pdf.GetPageSize()
	pdf.SetFont("Helvetica", "", 8)
	for i := range lineas {
		h := &lineas[i]
		if pdf.GetY() > pageH-20 {
			pdf.AddPage()
			encabezado()
			pdf.SetFont("Helvetica", "", 8)
		}
		nombre := h.Producto
		if len([]rune(nombre)) > 34 {
			nombre = string([]rune(nombre)[:33]) + "…"
		}
		anterior, accion := "-", "pendiente"
		if d, ok := porLinea[h.ID]; ok {
			if d.PrecioAnteriorUnidad != nil {
				anterior = d.PrecioAnteriorUnidad.StringFixed(2)
			}
			accion = d.Accion
		}
		pdf.CellFormat(colProd, 5, tr(nombre), "", 0, "L", false, 0, "")
		pdf.CellFormat(colProv, 5, tr(h.Proveedor), "", 0, "L", false, 0, "")
		pdf.CellFormat(colUPC, 5, fmt.Sprintf("%d", h.UnidadesPorCaja), "", 0, "C", false, 0, "")
		pdf.CellFormat(colAnt, 5, anterior, "", 0, "R", false, 0, "")
		pdf.CellFormat(colNvo, 5, h.PrecioFinalUnidad.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(colAcc, 5, accion, "", 1, "L", false, 0, "")
	}

	// ── Footer ────────────────────────────────────────────────────────────────
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.CellFormat(contentW, 4,
		fmt.Sprintf("Decisiones registradas: %d de %d    Generado: %s",
			len(decisiones), len(lineas), time.Now().Format("02/01/2006 15:04")),
		"", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", fmt.Errorf("pdf: generar reporte: %w", err)
	}
	nombre := fmt.Sprintf("FarmaClinic_Revision_%s.pdf", time.Now().Format("2006-01-02"))
	return buf.Bytes(), nombre, nil
}

func siNo(v bool) string {
	if v {
		return "SÍ"
	}
	return "NO"
}

func estadoMayusculas(estado string) string {
	if estado == "" {
		return "PENDIENTE"
	}
	return strings.ToUpper(estado)
}
