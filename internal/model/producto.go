package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Producto is one catalog row imported from a supplier price list.
// The catalog is immutable once imported and replaced wholesale on the
// next import, so there is no Update path for these rows.
//
// ID is the barcode when present, falling back to the reference code,
// then to an imported id column, then to a generated identifier.
type Producto struct {
	ID           string  `gorm:"primaryKey"`
	CodigoBarras *string `gorm:"index"`
	CodRef       *string `gorm:"index"`
	Nombre       string  `gorm:"index;not null"`
	Proveedor    string  `gorm:"index"`
	Linea        string  `gorm:"index"`
	Marca        string

	UnidadesPorCaja int             `gorm:"not null;default:1"`
	CostoCaja       decimal.Decimal `gorm:"type:decimal(12,2)"`

	// Fractions, not whole percentages: 0.06 means 6%.
	Desc1Pct      decimal.Decimal `gorm:"type:decimal(8,6);not null;default:0"`
	Desc2Pct      decimal.Decimal `gorm:"type:decimal(8,6);not null;default:0"`
	IncrementoPct decimal.Decimal `gorm:"type:decimal(8,6);not null;default:0"`

	// CasoEspecial: "" | "si" | "consultar" — free text from the sheet.
	CasoEspecial string
	CreatedAt    time.Time
}

func (Producto) TableName() string { return "productos_catalogo" }
