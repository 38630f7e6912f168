package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/desiigner97/farmaclinic-margenes/internal/model"
)

type DecisionRepository interface {
	// Upsert is keyed by (sesion_id, historial_id): re-deciding a line
	// replaces the previous decision instead of duplicating it.
	Upsert(ctx context.Context, d *model.DecisionComparacion) error
	ListBySesion(ctx context.Context, sesionID uuid.UUID) ([]model.DecisionComparacion, error)
	CountBySesion(ctx context.Context, sesionID uuid.UUID) (int64, error)
}

type decisionRepo struct{ db *gorm.DB }

func NewDecisionRepository(db *gorm.DB) DecisionRepository { return &decisionRepo{db: db} }

func (r *decisionRepo) Upsert(ctx context.Context, d *model.DecisionComparacion) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "sesion_id"}, {Name: "historial_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"accion", "precio_anterior_unidad", "precio_nuevo_unidad",
			"precio_final_unidad", "motivo", "revisor", "updated_at",
		}),
	}).Create(d).Error
}

func (r *decisionRepo) ListBySesion(ctx context.Context, sesionID uuid.UUID) ([]model.DecisionComparacion, error) {
	var decisiones []model.DecisionComparacion
	err := r.db.WithContext(ctx).
		Where("sesion_id = ?", sesionID).
		Order("created_at ASC").
		Find(&decisiones).Error
	return decisiones, err
}

func (r *decisionRepo) CountBySesion(ctx context.Context, sesionID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&model.DecisionComparacion{}).
		Where("sesion_id = ?", sesionID).
		Count(&total).Error
	return total, err
}
