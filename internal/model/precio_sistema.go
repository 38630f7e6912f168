package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PrecioSistema is the previously approved box price for a product,
// keyed by barcode or reference code. The review overwrites it with the
// approved price so the next reconciliation pass compares against the
// new baseline.
type PrecioSistema struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CodigoBarras *string   `gorm:"uniqueIndex"`
	CodRef       *string   `gorm:"uniqueIndex"`

	PrecioCaja decimal.Decimal `gorm:"type:decimal(12,4);not null"`

	ActualizadoPor string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (PrecioSistema) TableName() string { return "precios_sistema" }
