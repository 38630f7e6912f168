package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/desiigner97/farmaclinic-margenes/internal/model"
)

type SesionRepository interface {
	Create(ctx context.Context, s *model.SesionTrabajo) error
	Update(ctx context.Context, s *model.SesionTrabajo) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.SesionTrabajo, error)
	// FindEnProcesoByUsuario returns the most recent en_proceso session
	// for one operator, or gorm.ErrRecordNotFound.
	FindEnProcesoByUsuario(ctx context.Context, usuario string) (*model.SesionTrabajo, error)
	ListByEstado(ctx context.Context, estado string) ([]model.SesionTrabajo, error)
	// AjustarTotal shifts the running line counter by delta (negative
	// when a line is removed).
	AjustarTotal(ctx context.Context, id uuid.UUID, delta int) error
}

type sesionRepo struct{ db *gorm.DB }

func NewSesionRepository(db *gorm.DB) SesionRepository { return &sesionRepo{db: db} }

func (r *sesionRepo) Create(ctx context.Context, s *model.SesionTrabajo) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *sesionRepo) Update(ctx context.Context, s *model.SesionTrabajo) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *sesionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.SesionTrabajo, error) {
	var s model.SesionTrabajo
	err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error
	return &s, err
}

func (r *sesionRepo) FindEnProcesoByUsuario(ctx context.Context, usuario string) (*model.SesionTrabajo, error) {
	var s model.SesionTrabajo
	err := r.db.WithContext(ctx).
		Where("usuario = ? AND estado = ?", usuario, model.SesionEnProceso).
		Order("created_at DESC").
		First(&s).Error
	return &s, err
}

func (r *sesionRepo) AjustarTotal(ctx context.Context, id uuid.UUID, delta int) error {
	return r.db.WithContext(ctx).
		Model(&model.SesionTrabajo{}).
		Where("id = ?", id).
		UpdateColumn("total_registros", gorm.Expr("total_registros + ?", delta)).Error
}

func (r *sesionRepo) ListByEstado(ctx context.Context, estado string) ([]model.SesionTrabajo, error) {
	query := r.db.WithContext(ctx).Model(&model.SesionTrabajo{})
	if estado != "" {
		query = query.Where("estado = ?", estado)
	}
	var sesiones []model.SesionTrabajo
	err := query.Order("created_at DESC").Find(&sesiones).Error
	return sesiones, err
}
