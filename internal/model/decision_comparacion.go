package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Reconciliation decision actions.
const (
	AccionMantenerAnterior = "mantener_anterior"
	AccionUsarNuevo        = "usar_nuevo"
	AccionPromedio         = "promedio"
	AccionReprocesar       = "reprocesar"
)

// DecisionComparacion is the audit record of one reconciliation decision:
// the old and new unit prices that were compared, the action the reviewer
// took, and the resolved final unit price. Keyed by (sesion_id,
// historial_id) so re-deciding the same line upserts instead of
// duplicating.
type DecisionComparacion struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SesionID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_decision_sesion_linea"`
	HistorialID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_decision_sesion_linea"`

	Accion string `gorm:"type:varchar(30);not null"`

	// PrecioAnteriorUnidad is nil when no system price existed for the
	// product at decision time.
	PrecioAnteriorUnidad *decimal.Decimal `gorm:"type:decimal(12,4)"`
	PrecioNuevoUnidad    decimal.Decimal  `gorm:"type:decimal(12,4);not null"`
	PrecioFinalUnidad    decimal.Decimal  `gorm:"type:decimal(12,4);not null"`

	Motivo    string
	Revisor   string `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (DecisionComparacion) TableName() string { return "decisiones_comparacion" }
