package repository

import (
	"context"

	"bodegon/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductoRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Producto, error)
	FindByBarcode(ctx context.Context, sucursalID, codigo string) (*model.Producto, error)
	Search(ctx context.Context, sucursalID, query string, limit int) ([]model.Producto, error)
}

type productoRepo struct{ db *gorm.DB }

func NewProductoRepository(db *gorm.DB) ProductoRepository { return &productoRepo{db: db} }

func (r *productoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Producto, error) {
	var p model.Producto
	err := r.db.WithContext(ctx).First(&p, id).Error
	return &p, err
}

func (r *productoRepo) FindByBarcode(ctx context.Context, sucursalID, codigo string) (*model.Producto, error) {
	var p model.Producto
	err := r.db.WithContext(ctx).
		Where("sucursal_id = ? AND codigo_barras = ? AND activo", sucursalID, codigo).
		First(&p).Error
	return &p, err
}

func (r *productoRepo) Search(ctx context.Context, sucursalID, query string, limit int) ([]model.Producto, error) {
	var productos []model.Producto
	err := r.db.WithContext(ctx).
		Where("sucursal_id = ? AND activo AND (nombre ILIKE ? OR codigo_barras = ?)",
			sucursalID, "%"+query+"%", query).
		Order("nombre ASC").
		Limit(limit).
		Find(&productos).Error
	return productos, err
}
