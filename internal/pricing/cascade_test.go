package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestAplicarCascada_Secuencial(t *testing.T) {
	// 50 * (1-0.06) * (1-0.07) = 43.71 — the discounts compound, they
	// are not added.
	got := AplicarCascada(dec("50"), dec("0.06"), dec("0.07"))
	assert.True(t, got.Equal(dec("43.71")), "got %s", got)

	// Sequential != additive: 50 * (1-0.13) would be 43.50.
	assert.False(t, got.Equal(dec("43.50")))
}

func TestAplicarCascada_ClampPorDescuento(t *testing.T) {
	// Each discount clamps to [0,1] independently.
	got := AplicarCascada(dec("100"), dec("1.5"), dec("-0.2"))
	assert.True(t, got.Equal(decimal.Zero), "d1 clamped to 1 zeroes the cost, got %s", got)

	got = AplicarCascada(dec("100"), dec("-0.5"), dec("0.1"))
	assert.True(t, got.Equal(dec("90")), "negative d1 clamps to 0, got %s", got)
}

func TestAplicarIncremento(t *testing.T) {
	got := AplicarIncremento(dec("43.71"), dec("0.25"))
	assert.True(t, got.Equal(dec("54.6375")), "got %s", got)

	// Markup clamps to [0, 10].
	got = AplicarIncremento(dec("10"), dec("12"))
	assert.True(t, got.Equal(dec("110")), "inc clamped to 10, got %s", got)
	got = AplicarIncremento(dec("10"), dec("-3"))
	assert.True(t, got.Equal(dec("10")), "negative inc clamps to 0, got %s", got)
}

func TestCotizar_FilaDemoParacetamol(t *testing.T) {
	// d1=6%, d2=7%, incremento=25% sobre un costo de caja de 50.
	p := Parametros{Desc1: dec("0.06"), Desc2: dec("0.07"), Incremento: dec("0.25")}
	cot := Cotizar(dec("50"), 10, p)

	assert.True(t, cot.CostoNetoCaja.Equal(dec("43.71")), "neto caja %s", cot.CostoNetoCaja)
	assert.True(t, cot.PrecioFinalCaja.Equal(dec("54.6375")), "final caja %s", cot.PrecioFinalCaja)
	assert.True(t, cot.CostoUnidad.Equal(dec("5")), "costo unidad %s", cot.CostoUnidad)
	assert.True(t, cot.CostoNetoUnidad.Equal(dec("4.371")), "neto unidad %s", cot.CostoNetoUnidad)
	assert.True(t, cot.PrecioFinalUnidad.Equal(dec("5.46375")), "final unidad %s", cot.PrecioFinalUnidad)
}

func TestCotizar_UnidadCascadaIndependiente(t *testing.T) {
	// The unit price cascades from costo_caja/upc, it is never derived
	// from the final box price. With exact decimals both agree when
	// multiplied back, but the computation path must start at the unit
	// cost.
	p := Parametros{Desc1: dec("0.1"), Incremento: dec("0.3")}
	cot := Cotizar(dec("100"), 3, p)

	esperadoUnidad := AplicarIncremento(AplicarCascada(dec("100").Div(dec("3")), dec("0.1"), decimal.Zero), dec("0.3"))
	assert.True(t, cot.PrecioFinalUnidad.Equal(esperadoUnidad), "got %s want %s", cot.PrecioFinalUnidad, esperadoUnidad)
}

func TestCotizar_UnidadesInvalidasCuentanComoUna(t *testing.T) {
	p := Parametros{Incremento: dec("0.5")}
	for _, upc := range []int{0, -4} {
		cot := Cotizar(dec("20"), upc, p)
		assert.True(t, cot.CostoUnidad.Equal(dec("20")), "upc=%d", upc)
		assert.True(t, cot.PrecioFinalUnidad.Equal(cot.PrecioFinalCaja), "upc=%d", upc)
	}
}

func TestCotizar_SinParametrosEsIdentidad(t *testing.T) {
	cot := Cotizar(dec("37.50"), 5, Parametros{})
	require.True(t, cot.PrecioFinalCaja.Equal(dec("37.50")))
	require.True(t, cot.CostoNetoCaja.Equal(dec("37.50")))
}
