package service

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/desiigner97/farmaclinic-margenes/internal/model"
)

type exportFixture struct {
	svc        ExportService
	sesiones   *stubSesionRepo
	historial  *stubHistorialRepo
	decisiones *stubDecisionRepo
	sesionID   uuid.UUID
	reloj      time.Time
}

func newExportFixture(t *testing.T) *exportFixture {
	t.Helper()
	f := &exportFixture{
		sesiones:   newStubSesionRepo(),
		historial:  newStubHistorialRepo(),
		decisiones: newStubDecisionRepo(),
	}
	f.svc = NewExportService(f.sesiones, f.historial, f.decisiones)

	sesion := &model.SesionTrabajo{Nombre: "Sesión de prueba", Usuario: "carla", Estado: model.SesionEnviadaRevision}
	require.NoError(t, f.sesiones.Create(context.Background(), sesion))
	f.sesionID = sesion.ID
	f.reloj = time.Now()
	return f
}

func (f *exportFixture) agregarLinea(t *testing.T, nombre string, manual bool) *model.HistorialCalculo {
	t.Helper()
	h := &model.HistorialCalculo{
		SesionID:          f.sesionID,
		Producto:          nombre,
		Proveedor:         "INTI",
		CodigoBarras:      "7750001111111",
		UnidadesPorCaja:   10,
		CostoCaja:         decimal.NewFromInt(50),
		Desc1Pct:          decimal.NewFromFloat(0.06),
		Desc2Pct:          decimal.NewFromFloat(0.07),
		IncrementoPct:     decimal.NewFromFloat(0.25),
		CostoNetoCaja:     decimal.RequireFromString("43.71"),
		CostoNetoUnidad:   decimal.RequireFromString("4.371"),
		PrecioFinalCaja:   decimal.RequireFromString("54.6375"),
		PrecioFinalUnidad: decimal.RequireFromString("5.46375"),
		Cajas:             3,
		Unidades:          30,
		ParametrosManual:  manual,
		Estado:            model.LineaPendienteRevision,
		Usuario:           "carla",
	}
	f.reloj = f.reloj.Add(time.Second)
	h.CreatedAt = f.reloj
	require.NoError(t, f.historial.Create(context.Background(), h))
	return h
}

func TestExportarXLSX(t *testing.T) {
	f := newExportFixture(t)
	f.agregarLinea(t, "Paracetamol 500 mg x10", false)
	f.agregarLinea(t, "Ibuprofeno 400 mg x10", true)

	data, nombre, err := f.svc.ExportarXLSX(context.Background(), f.sesionID)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(nombre, "FarmaClinic_Margenes_"), "got %s", nombre)
	assert.True(t, strings.HasSuffix(nombre, ".xlsx"))

	wb, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer wb.Close()
	assert.ElementsMatch(t, []string{"Registro de Márgenes", "Resumen"}, wb.GetSheetList())

	// Header row and a sample of computed cells.
	celda := func(ref string) string {
		v, err := wb.GetCellValue("Registro de Márgenes", ref)
		require.NoError(t, err)
		return v
	}
	assert.Equal(t, "N°", celda("A1"))
	assert.Equal(t, "PRECIO CAJA (Bs)", celda("Q1"))
	assert.Equal(t, "Paracetamol 500 mg x10", celda("C2"))
	assert.Equal(t, "6.00", celda("K2"), "discount written as whole percent")
	assert.Equal(t, "54.64", celda("Q2"))
	assert.Equal(t, "10.93", celda("S2"), "box margin = final - neto")
	assert.Equal(t, "NO", celda("N2"))
	assert.Equal(t, "SÍ", celda("N3"))
	assert.Equal(t, "PENDIENTE_REVISION", celda("U2"))

	resumen := func(ref string) string {
		v, err := wb.GetCellValue("Resumen", ref)
		require.NoError(t, err)
		return v
	}
	assert.Equal(t, "Total de productos procesados", resumen("A2"))
	assert.Equal(t, "2", resumen("B2"))
	assert.Equal(t, "1", resumen("B3"), "one line has manual parameters")
	assert.Equal(t, "6.00", resumen("B5"), "average discount 1")
}

func TestExportarXLSX_SesionVacia(t *testing.T) {
	f := newExportFixture(t)
	_, _, err := f.svc.ExportarXLSX(context.Background(), f.sesionID)
	assert.ErrorIs(t, err, ErrSinRegistros)
}

func TestReportePDF(t *testing.T) {
	f := newExportFixture(t)
	linea := f.agregarLinea(t, "Paracetamol 500 mg x10", false)

	anterior := decimal.NewFromInt(5)
	require.NoError(t, f.decisiones.Upsert(context.Background(), &model.DecisionComparacion{
		SesionID:             f.sesionID,
		HistorialID:          linea.ID,
		Accion:               model.AccionUsarNuevo,
		PrecioAnteriorUnidad: &anterior,
		PrecioNuevoUnidad:    linea.PrecioFinalUnidad,
		PrecioFinalUnidad:    linea.PrecioFinalUnidad,
		Revisor:              "rev",
	}))

	data, nombre, err := f.svc.ReportePDF(context.Background(), f.sesionID)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(nombre, "FarmaClinic_Revision_"), "got %s", nombre)
	assert.True(t, strings.HasSuffix(nombre, ".pdf"))
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")), "output is a pdf document")
}

func TestReportePDF_Guardas(t *testing.T) {
	f := newExportFixture(t)

	_, _, err := f.svc.ReportePDF(context.Background(), f.sesionID)
	assert.ErrorIs(t, err, ErrSinRegistros)

	_, _, err = f.svc.ReportePDF(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrSesionNoEncontrada)
}
