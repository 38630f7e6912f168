package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/desiigner97/farmaclinic-margenes/internal/model"
)

type HistorialRepository interface {
	Create(ctx context.Context, h *model.HistorialCalculo) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.HistorialCalculo, error)
	ListBySesion(ctx context.Context, sesionID uuid.UUID) ([]model.HistorialCalculo, error)
	CountBySesion(ctx context.Context, sesionID uuid.UUID) (int64, error)
	UpdateEstado(ctx context.Context, id uuid.UUID, estado string) error
}

type historialRepo struct{ db *gorm.DB }

func NewHistorialRepository(db *gorm.DB) HistorialRepository { return &historialRepo{db: db} }

func (r *historialRepo) Create(ctx context.Context, h *model.HistorialCalculo) error {
	return r.db.WithContext(ctx).Create(h).Error
}

func (r *historialRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.HistorialCalculo{}, "id = ?", id).Error
}

func (r *historialRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.HistorialCalculo, error) {
	var h model.HistorialCalculo
	err := r.db.WithContext(ctx).First(&h, "id = ?", id).Error
	return &h, err
}

func (r *historialRepo) ListBySesion(ctx context.Context, sesionID uuid.UUID) ([]model.HistorialCalculo, error) {
	var lineas []model.HistorialCalculo
	err := r.db.WithContext(ctx).
		Where("sesion_id = ?", sesionID).
		Order("created_at ASC").
		Find(&lineas).Error
	return lineas, err
}

func (r *historialRepo) CountBySesion(ctx context.Context, sesionID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&model.HistorialCalculo{}).
		Where("sesion_id = ?", sesionID).
		Count(&total).Error
	return total, err
}

func (r *historialRepo) UpdateEstado(ctx context.Context, id uuid.UUID, estado string) error {
	return r.db.WithContext(ctx).
		Model(&model.HistorialCalculo{}).
		Where("id = ?", id).
		Update("estado", estado).Error
}
