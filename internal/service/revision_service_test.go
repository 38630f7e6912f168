package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/desiigner97/farmaclinic-margenes/internal/dto"
	"github.com/desiigner97/farmaclinic-margenes/internal/model"
)

type revisionFixture struct {
	sesionRepo    *stubSesionRepo
	historialRepo *stubHistorialRepo
	precioRepo    *stubPrecioRepo
	decisionRepo  *stubDecisionRepo
	invalidador   *stubInvalidador
	svc           RevisionService
	sesion        *model.SesionTrabajo
}

func newRevisionFixture(t *testing.T) *revisionFixture {
	t.Helper()
	f := &revisionFixture{
		sesionRepo:    newStubSesionRepo(),
		historialRepo: newStubHistorialRepo(),
		precioRepo:    newStubPrecioRepo(),
		decisionRepo:  newStubDecisionRepo(),
		invalidador:   &stubInvalidador{},
	}
	f.svc = NewRevisionService(f.sesionRepo, f.historialRepo, f.precioRepo, f.decisionRepo, f.invalidador)

	f.sesion = &model.SesionTrabajo{Usuario: "vendedor1", Nombre: "lote", Estado: model.SesionEnviadaRevision}
	require.NoError(t, f.sesionRepo.Create(context.Background(), f.sesion))
	return f
}

func (f *revisionFixture) linea(t *testing.T, codigoBarras, codRef string, upc int, precioUnidad string) uuid.UUID {
	t.Helper()
	h := &model.HistorialCalculo{
		SesionID:          f.sesion.ID,
		Producto:          "Producto de prueba",
		CodigoBarras:      codigoBarras,
		CodRef:            codRef,
		UnidadesPorCaja:   upc,
		PrecioFinalUnidad: decimal.RequireFromString(precioUnidad),
		Estado:            model.LineaPendienteRevision,
		Usuario:           "vendedor1",
	}
	require.NoError(t, f.historialRepo.Create(context.Background(), h))
	return h.ID
}

func TestRevisionLineas_DeltaPorcentual(t *testing.T) {
	f := newRevisionFixture(t)
	ctx := context.Background()

	// Old box price 1000 over 10 units = old unit price 100; new is 110.
	f.precioRepo.seed("777", decimal.NewFromInt(1000))
	f.linea(t, "777", "", 10, "110")
	// A line without system price shows no delta.
	f.linea(t, "888", "", 10, "55")

	resp, err := f.svc.Lineas(ctx, f.sesion.ID)
	require.NoError(t, err)
	require.Len(t, resp.Lineas, 2)

	conPrecio := resp.Lineas[0]
	if conPrecio.PrecioAnteriorUnidad == nil {
		conPrecio = resp.Lineas[1]
	}
	require.NotNil(t, conPrecio.PrecioAnteriorUnidad)
	assert.True(t, conPrecio.PrecioAnteriorUnidad.Equal(decimal.NewFromInt(100)))
	require.NotNil(t, conPrecio.DeltaPct)
	assert.True(t, conPrecio.DeltaPct.Equal(decimal.NewFromInt(10)), "(110-100)/100*100, got %s", conPrecio.DeltaPct)

	for _, l := range resp.Lineas {
		if l.PrecioAnteriorUnidad == nil {
			assert.Nil(t, l.DeltaPct)
			assert.False(t, l.Decidida)
		}
	}
}

func TestRevisionDecidir_UsarNuevo(t *testing.T) {
	f := newRevisionFixture(t)
	ctx := context.Background()

	f.precioRepo.seed("777", decimal.NewFromInt(1000))
	lineaID := f.linea(t, "777", "", 10, "110")

	resp, err := f.svc.Decidir(ctx, f.sesion.ID, "revisor1", dto.DecidirRequest{
		HistorialID: lineaID.String(),
		Accion:      model.AccionUsarNuevo,
	})
	require.NoError(t, err)
	assert.True(t, resp.PrecioFinalUnidad.Equal(decimal.NewFromInt(110)))

	// System box price = decided unit price x upc.
	p, err := f.precioRepo.FindByCodigo(ctx, "777", "")
	require.NoError(t, err)
	assert.True(t, p.PrecioCaja.Equal(decimal.NewFromInt(1100)))
	assert.Equal(t, "revisor1", p.ActualizadoPor)

	// Line marked reviewed, cache invalidated.
	h, err := f.historialRepo.FindByID(ctx, lineaID)
	require.NoError(t, err)
	assert.Equal(t, model.LineaRevisada, h.Estado)
	assert.Contains(t, f.invalidador.codigos, "777")
}

func TestRevisionDecidir_Promedio(t *testing.T) {
	f := newRevisionFixture(t)
	ctx := context.Background()

	f.precioRepo.seed("777", decimal.NewFromInt(1000))
	lineaID := f.linea(t, "777", "", 10, "110")

	resp, err := f.svc.Decidir(ctx, f.sesion.ID, "revisor1", dto.DecidirRequest{
		HistorialID: lineaID.String(),
		Accion:      model.AccionPromedio,
	})
	require.NoError(t, err)
	assert.True(t, resp.PrecioFinalUnidad.Equal(decimal.NewFromInt(105)), "(100+110)/2")
}

func TestRevisionDecidir_MantenerAnterior(t *testing.T) {
	f := newRevisionFixture(t)
	ctx := context.Background()

	f.precioRepo.seed("777", decimal.NewFromInt(1000))
	lineaID := f.linea(t, "777", "", 10, "110")

	resp, err := f.svc.Decidir(ctx, f.sesion.ID, "revisor1", dto.DecidirRequest{
		HistorialID: lineaID.String(),
		Accion:      model.AccionMantenerAnterior,
	})
	require.NoError(t, err)
	assert.True(t, resp.PrecioFinalUnidad.Equal(decimal.NewFromInt(100)))

	p, err := f.precioRepo.FindByCodigo(ctx, "777", "")
	require.NoError(t, err)
	assert.True(t, p.PrecioCaja.Equal(decimal.NewFromInt(1000)), "box price rewritten to the same value")
}

func TestRevisionDecidir_SinPrecioAnterior(t *testing.T) {
	f := newRevisionFixture(t)
	ctx := context.Background()
	lineaID := f.linea(t, "999", "", 10, "110")

	for _, accion := range []string{model.AccionMantenerAnterior, model.AccionPromedio} {
		_, err := f.svc.Decidir(ctx, f.sesion.ID, "revisor1", dto.DecidirRequest{
			HistorialID: lineaID.String(), Accion: accion,
		})
		assert.ErrorIs(t, err, ErrSinPrecioAnterior, "accion %s", accion)
	}

	// usar_nuevo works without a prior price and creates the row.
	_, err := f.svc.Decidir(ctx, f.sesion.ID, "revisor1", dto.DecidirRequest{
		HistorialID: lineaID.String(), Accion: model.AccionUsarNuevo,
	})
	require.NoError(t, err)
	p, err := f.precioRepo.FindByCodigo(ctx, "999", "")
	require.NoError(t, err)
	assert.True(t, p.PrecioCaja.Equal(decimal.NewFromInt(1100)))
}

func TestRevisionDecidir_Reprocesar(t *testing.T) {
	f := newRevisionFixture(t)
	ctx := context.Background()

	f.precioRepo.seed("777", decimal.NewFromInt(1000))
	lineaID := f.linea(t, "777", "", 10, "110")

	_, err := f.svc.Decidir(ctx, f.sesion.ID, "revisor1", dto.DecidirRequest{
		HistorialID: lineaID.String(),
		Accion:      model.AccionReprocesar,
		Motivo:      "costo dudoso",
	})
	require.NoError(t, err)

	// Advisory only: the system price never changes.
	p, err := f.precioRepo.FindByCodigo(ctx, "777", "")
	require.NoError(t, err)
	assert.True(t, p.PrecioCaja.Equal(decimal.NewFromInt(1000)))

	// Line stays pending, decision is recorded anyway.
	h, err := f.historialRepo.FindByID(ctx, lineaID)
	require.NoError(t, err)
	assert.Equal(t, model.LineaPendienteRevision, h.Estado)
	decisiones, err := f.decisionRepo.ListBySesion(ctx, f.sesion.ID)
	require.NoError(t, err)
	require.Len(t, decisiones, 1)
	assert.Equal(t, "costo dudoso", decisiones[0].Motivo)
}

func TestRevisionDecidir_ReDecidirReemplaza(t *testing.T) {
	f := newRevisionFixture(t)
	ctx := context.Background()

	f.precioRepo.seed("777", decimal.NewFromInt(1000))
	lineaID := f.linea(t, "777", "", 10, "110")

	for _, accion := range []string{model.AccionUsarNuevo, model.AccionMantenerAnterior} {
		_, err := f.svc.Decidir(ctx, f.sesion.ID, "revisor1", dto.DecidirRequest{
			HistorialID: lineaID.String(), Accion: accion,
		})
		require.NoError(t, err)
	}

	decisiones, err := f.decisionRepo.ListBySesion(ctx, f.sesion.ID)
	require.NoError(t, err)
	require.Len(t, decisiones, 1, "same line upserts, never duplicates")
	assert.Equal(t, model.AccionMantenerAnterior, decisiones[0].Accion)
}

func TestRevisionDecidir_BusquedaPorCodRef(t *testing.T) {
	f := newRevisionFixture(t)
	ctx := context.Background()

	// No barcode anywhere; the reference code resolves the price.
	f.precioRepo.seed("INTI-P500-10", decimal.NewFromInt(500))
	lineaID := f.linea(t, "", "INTI-P500-10", 10, "60")

	resp, err := f.svc.Decidir(ctx, f.sesion.ID, "revisor1", dto.DecidirRequest{
		HistorialID: lineaID.String(), Accion: model.AccionPromedio,
	})
	require.NoError(t, err)
	assert.True(t, resp.PrecioFinalUnidad.Equal(decimal.NewFromInt(55)), "(50+60)/2")
}

func TestRevisionDecidir_LineaSinCodigosNoEscribePrecio(t *testing.T) {
	f := newRevisionFixture(t)
	ctx := context.Background()

	// Sheet rows without barcode or reference code get a generated id;
	// no price lookup can ever resolve them.
	lineaID := f.linea(t, "", "", 10, "12.5")

	resp, err := f.svc.Decidir(ctx, f.sesion.ID, "revisor1", dto.DecidirRequest{
		HistorialID: lineaID.String(),
		Accion:      model.AccionUsarNuevo,
	})
	require.NoError(t, err)
	assert.True(t, resp.PrecioFinalUnidad.Equal(decimal.RequireFromString("12.5")))

	// The decision is recorded and the line reviewed, but the system
	// price table and the cache stay untouched.
	assert.Empty(t, f.precioRepo.precios)
	assert.Empty(t, f.invalidador.codigos)
	h, err := f.historialRepo.FindByID(ctx, lineaID)
	require.NoError(t, err)
	assert.Equal(t, model.LineaRevisada, h.Estado)
	decisiones, err := f.decisionRepo.ListBySesion(ctx, f.sesion.ID)
	require.NoError(t, err)
	require.Len(t, decisiones, 1)
	assert.Equal(t, model.AccionUsarNuevo, decisiones[0].Accion)
}

func TestRevisionDecidir_EstadosYPertenencia(t *testing.T) {
	f := newRevisionFixture(t)
	ctx := context.Background()
	lineaID := f.linea(t, "777", "", 10, "110")

	// Line from another session is rejected.
	otra := &model.SesionTrabajo{Usuario: "v2", Estado: model.SesionEnviadaRevision}
	require.NoError(t, f.sesionRepo.Create(ctx, otra))
	_, err := f.svc.Decidir(ctx, otra.ID, "revisor1", dto.DecidirRequest{
		HistorialID: lineaID.String(), Accion: model.AccionUsarNuevo,
	})
	assert.ErrorIs(t, err, ErrLineaFueraDeSesion)

	// Only enviada_revision sessions accept decisions.
	f.sesion.Estado = model.SesionEnProceso
	require.NoError(t, f.sesionRepo.Update(ctx, f.sesion))
	_, err = f.svc.Decidir(ctx, f.sesion.ID, "revisor1", dto.DecidirRequest{
		HistorialID: lineaID.String(), Accion: model.AccionUsarNuevo,
	})
	assert.ErrorIs(t, err, ErrSesionNoRevisable)
}

func TestRevisionFinalizar(t *testing.T) {
	f := newRevisionFixture(t)
	ctx := context.Background()
	f.linea(t, "777", "", 10, "110")

	// Coverage is not required: undecided lines stay pending.
	resp, err := f.svc.FinalizarRevision(ctx, f.sesion.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SesionRevisada, resp.Estado)
	assert.NotNil(t, resp.RevisadaAt)

	_, err = f.svc.FinalizarRevision(ctx, f.sesion.ID)
	assert.ErrorIs(t, err, ErrSesionNoRevisable)
}
