package repository

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/desiigner97/farmaclinic-margenes/internal/model"
)

type PrecioSistemaRepository interface {
	// FindByCodigo looks up by barcode first, then by reference code.
	FindByCodigo(ctx context.Context, codigoBarras, codRef string) (*model.PrecioSistema, error)
	// Upsert overwrites the box price for whichever code resolves,
	// creating the row when none exists yet.
	Upsert(ctx context.Context, codigoBarras, codRef string, precioCaja decimal.Decimal, actualizadoPor string) error
}

type precioSistemaRepo struct{ db *gorm.DB }

func NewPrecioSistemaRepository(db *gorm.DB) PrecioSistemaRepository {
	return &precioSistemaRepo{db: db}
}

func (r *precioSistemaRepo) FindByCodigo(ctx context.Context, codigoBarras, codRef string) (*model.PrecioSistema, error) {
	var p model.PrecioSistema
	if codigoBarras != "" {
		err := r.db.WithContext(ctx).First(&p, "codigo_barras = ?", codigoBarras).Error
		if err == nil {
			return &p, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}
	if codRef != "" {
		err := r.db.WithContext(ctx).First(&p, "cod_ref = ?", codRef).Error
		if err == nil {
			return &p, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *precioSistemaRepo) Upsert(ctx context.Context, codigoBarras, codRef string, precioCaja decimal.Decimal, actualizadoPor string) error {
	existente, err := r.FindByCodigo(ctx, codigoBarras, codRef)
	switch {
	case err == nil:
		existente.PrecioCaja = precioCaja
		existente.ActualizadoPor = actualizadoPor
		return r.db.WithContext(ctx).Save(existente).Error
	case errors.Is(err, gorm.ErrRecordNotFound):
		nuevo := model.PrecioSistema{
			PrecioCaja:     precioCaja,
			ActualizadoPor: actualizadoPor,
		}
		if codigoBarras != "" {
			nuevo.CodigoBarras = &codigoBarras
		}
		if codRef != "" {
			nuevo.CodRef = &codRef
		}
		return r.db.WithContext(ctx).Create(&nuevo).Error
	default:
		return err
	}
}
