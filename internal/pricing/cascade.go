package pricing

import "github.com/shopspring/decimal"

var (
	uno  = decimal.NewFromInt(1)
	diez = decimal.NewFromInt(10)
)

// clampFraccion limits a discount fraction to [0, 1]. Each discount is
// clamped independently before the cascade, which is not the same as
// clamping their sum.
func clampFraccion(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	if d.GreaterThan(uno) {
		return uno
	}
	return d
}

// clampIncremento limits the markup fraction to [0, 10].
func clampIncremento(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	if d.GreaterThan(diez) {
		return diez
	}
	return d
}

// AplicarCascada applies the two supplier discounts sequentially:
// costo * (1-d1) * (1-d2).
func AplicarCascada(costo, d1, d2 decimal.Decimal) decimal.Decimal {
	return costo.
		Mul(uno.Sub(clampFraccion(d1))).
		Mul(uno.Sub(clampFraccion(d2)))
}

// AplicarIncremento applies the markup on an already-discounted cost:
// neto * (1+inc).
func AplicarIncremento(neto, incremento decimal.Decimal) decimal.Decimal {
	return neto.Mul(uno.Add(clampIncremento(incremento)))
}

// Cotizacion is the result of pricing one product at box and unit
// granularity.
type Cotizacion struct {
	CostoCaja   decimal.Decimal
	CostoUnidad decimal.Decimal

	CostoNetoCaja   decimal.Decimal
	CostoNetoUnidad decimal.Decimal

	PrecioFinalCaja   decimal.Decimal
	PrecioFinalUnidad decimal.Decimal
}

// Cotizar runs the cascade + markup against the box cost and, separately,
// against the box cost divided by units-per-box. The unit price is NOT
// PrecioFinalCaja / unidades: both granularities are cascaded
// independently from their own base cost, so small rounding differences
// between precio_final_unidad * unidades and precio_final_caja are
// expected. This mirrors the behavior the margins workflow has always
// had and downstream reconciliation depends on the unit figures.
func Cotizar(costoCaja decimal.Decimal, unidadesPorCaja int, p Parametros) Cotizacion {
	if unidadesPorCaja <= 0 {
		unidadesPorCaja = 1
	}
	costoUnidad := costoCaja.Div(decimal.NewFromInt(int64(unidadesPorCaja)))

	netoCaja := AplicarCascada(costoCaja, p.Desc1, p.Desc2)
	netoUnidad := AplicarCascada(costoUnidad, p.Desc1, p.Desc2)

	return Cotizacion{
		CostoCaja:         costoCaja,
		CostoUnidad:       costoUnidad,
		CostoNetoCaja:     netoCaja,
		CostoNetoUnidad:   netoUnidad,
		PrecioFinalCaja:   AplicarIncremento(netoCaja, p.Incremento),
		PrecioFinalUnidad: AplicarIncremento(netoUnidad, p.Incremento),
	}
}
