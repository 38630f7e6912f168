package catalogo

import (
	"github.com/shopspring/decimal"

	"github.com/desiigner97/farmaclinic-margenes/internal/model"
)

func ptr(s string) *string { return &s }

// Demo returns the two catalog rows seeded in development when the
// catalog is empty, so the workflow can be exercised without importing
// a real supplier file.
func Demo() []model.Producto {
	return []model.Producto{
		{
			ID:              "7750001111111",
			CodigoBarras:    ptr("7750001111111"),
			CodRef:          ptr("INTI-P500-10"),
			Nombre:          "Paracetamol 500 mg x10",
			Proveedor:       "INTI",
			Linea:           "OTC",
			UnidadesPorCaja: 10,
			Desc1Pct:        decimal.NewFromFloat(0.06),
			Desc2Pct:        decimal.NewFromFloat(0.07),
			IncrementoPct:   decimal.NewFromFloat(0.25),
		},
		{
			ID:              "7790002222222",
			CodigoBarras:    ptr("7790002222222"),
			CodRef:          ptr("BAGO-I400-10"),
			Nombre:          "Ibuprofeno 400 mg x10",
			Proveedor:       "BAGO",
			Linea:           "OTC",
			UnidadesPorCaja: 10,
			Desc1Pct:        decimal.NewFromFloat(0.1),
			Desc2Pct:        decimal.Zero,
			IncrementoPct:   decimal.NewFromFloat(0.3),
		},
	}
}
