package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestResolverParametros_SinOverride(t *testing.T) {
	p := ResolverParametros(dec("0.06"), dec("0.07"), dec("0.25"), nil)
	assert.True(t, p.Desc1.Equal(dec("0.06")))
	assert.True(t, p.Desc2.Equal(dec("0.07")))
	assert.True(t, p.Incremento.Equal(dec("0.25")))
	assert.False(t, p.Manual)
}

func TestResolverParametros_OverrideParcial(t *testing.T) {
	d1 := dec("0.15")
	ov := &Override{Desc1: &d1}
	p := ResolverParametros(dec("0.06"), dec("0.07"), dec("0.25"), ov)

	assert.True(t, p.Desc1.Equal(dec("0.15")), "overridden field wins")
	assert.True(t, p.Desc2.Equal(dec("0.07")), "nil field keeps catalog value")
	assert.True(t, p.Incremento.Equal(dec("0.25")))
	assert.True(t, p.Manual)
}

func TestResolverParametros_OverrideCero(t *testing.T) {
	// An explicit zero override is an override, not an absence.
	cero := decimal.Zero
	ov := &Override{Desc1: &cero}
	p := ResolverParametros(dec("0.06"), dec("0.07"), dec("0.25"), ov)

	assert.True(t, p.Desc1.Equal(decimal.Zero))
	assert.True(t, p.Manual)
}

func TestResolverParametros_OverrideVacioNoEsManual(t *testing.T) {
	p := ResolverParametros(dec("0.06"), decimal.Zero, dec("0.25"), &Override{})
	assert.False(t, p.Manual)
	assert.True(t, p.Desc1.Equal(dec("0.06")))
}

func TestOverrideVacia(t *testing.T) {
	assert.True(t, Override{}.Vacia())
	inc := dec("0.3")
	assert.False(t, Override{Incremento: &inc}.Vacia())
}
