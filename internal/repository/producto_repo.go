package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/desiigner97/farmaclinic-margenes/internal/model"
)

type ProductoRepository interface {
	// ReplaceAll swaps the whole catalog in one transaction — an import
	// never merges with the previous price list.
	ReplaceAll(ctx context.Context, productos []model.Producto) error
	List(ctx context.Context, q, proveedor, linea string) ([]model.Producto, error)
	FindByID(ctx context.Context, id string) (*model.Producto, error)
	Count(ctx context.Context) (int64, error)
}

type productoRepo struct{ db *gorm.DB }

func NewProductoRepository(db *gorm.DB) ProductoRepository { return &productoRepo{db: db} }

func (r *productoRepo) ReplaceAll(ctx context.Context, productos []model.Producto) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&model.Producto{}).Error; err != nil {
			return err
		}
		if len(productos) == 0 {
			return nil
		}
		return tx.CreateInBatches(productos, 200).Error
	})
}

func (r *productoRepo) List(ctx context.Context, q, proveedor, linea string) ([]model.Producto, error) {
	query := r.db.WithContext(ctx).Model(&model.Producto{})
	if q != "" {
		patron := "%" + q + "%"
		query = query.Where(
			"nombre ILIKE ? OR proveedor ILIKE ? OR linea ILIKE ? OR codigo_barras ILIKE ? OR cod_ref ILIKE ?",
			patron, patron, patron, patron, patron,
		)
	}
	if proveedor != "" {
		query = query.Where("proveedor = ?", proveedor)
	}
	if linea != "" {
		query = query.Where("linea = ?", linea)
	}

	var productos []model.Producto
	err := query.Order("nombre ASC").Find(&productos).Error
	return productos, err
}

func (r *productoRepo) FindByID(ctx context.Context, id string) (*model.Producto, error) {
	var p model.Producto
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	return &p, err
}

func (r *productoRepo) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Producto{}).Count(&total).Error
	return total, err
}
