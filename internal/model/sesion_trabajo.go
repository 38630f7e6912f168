package model

import (
	"time"

	"github.com/google/uuid"
)

// SesionTrabajo is one batch of pricing work, from authoring through
// review. Estado: "en_proceso" | "enviada_revision" | "revisada".
// At most one en_proceso session exists per operator; the service layer
// enforces this by query convention, not by a DB constraint.
type SesionTrabajo struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre  string    `gorm:"not null"`
	Usuario string    `gorm:"not null;index"`
	Estado  string    `gorm:"type:varchar(30);not null;default:'en_proceso';index"`

	// TotalRegistros is snapshotted at finalize time from an
	// authoritative COUNT of persisted ledger rows, never from the local
	// in-memory list.
	TotalRegistros int `gorm:"not null;default:0"`

	CreatedAt    time.Time
	FinalizadaAt *time.Time
	RevisadaAt   *time.Time
}

func (SesionTrabajo) TableName() string { return "sesiones_trabajo" }

// Session and ledger lifecycle states.
const (
	SesionEnProceso       = "en_proceso"
	SesionEnviadaRevision = "enviada_revision"
	SesionRevisada        = "revisada"

	LineaPendienteRevision = "pendiente_revision"
	LineaRevisada          = "revisado"
)
