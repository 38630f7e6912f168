package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// HistorialCalculo is one priced line item committed to a work session's
// ledger (bitácora). All monetary columns are snapshots taken at commit
// time with the cascade formula — they are never recomputed after
// persistence. A row is only ever created or deleted, never mutated,
// except for the Estado transition driven by the review.
//
// Estado: "pendiente_revision" | "revisado"
type HistorialCalculo struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SesionID uuid.UUID `gorm:"type:uuid;not null;index"`

	// Product identity, denormalized so the ledger survives catalog
	// replacement.
	ProductoID   string
	Producto     string `gorm:"not null"`
	Proveedor    string
	Linea        string
	CodigoBarras string
	CodRef       string

	UnidadesPorCaja int             `gorm:"not null;default:1"`
	CostoCaja       decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Desc1Pct      decimal.Decimal `gorm:"type:decimal(8,6);not null"`
	Desc2Pct      decimal.Decimal `gorm:"type:decimal(8,6);not null"`
	IncrementoPct decimal.Decimal `gorm:"type:decimal(8,6);not null"`

	CostoNetoCaja     decimal.Decimal `gorm:"type:decimal(12,4);not null"`
	CostoNetoUnidad   decimal.Decimal `gorm:"type:decimal(12,4);not null"`
	PrecioFinalCaja   decimal.Decimal `gorm:"type:decimal(12,4);not null"`
	PrecioFinalUnidad decimal.Decimal `gorm:"type:decimal(12,4);not null"`

	Cajas int `gorm:"not null;default:0"`
	// Unidades = Cajas * UnidadesPorCaja, always recomputed at commit,
	// never edited independently.
	Unidades    int `gorm:"not null;default:0"`
	Lote        string
	Vencimiento *time.Time

	ParametrosManual bool   `gorm:"not null;default:false"`
	CasoEspecial     string
	Estado           string `gorm:"type:varchar(30);not null;default:'pendiente_revision';index"`
	Usuario          string `gorm:"not null"`
	CreatedAt        time.Time
}

func (HistorialCalculo) TableName() string { return "historial_calculos" }
