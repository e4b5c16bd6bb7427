package repository

import (
	"context"
	"time"

	"bodegon/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VentaRepository interface {
	// DB exposes the underlying handle so the service can run the
	// confirm-and-submit sequence inside one transaction. Nil in unit tests.
	DB() *gorm.DB
	Create(ctx context.Context, tx *gorm.DB, v *model.Venta) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error)
	// ListDelDia returns the confirmed sales for one (cajero, sucursal, fecha)
	// scope with items and tenders preloaded — the cuadre folds over these.
	ListDelDia(ctx context.Context, sucursalID string, cajeroID uuid.UUID, fecha time.Time) ([]model.Venta, error)
	UpdateEstadoTx(tx *gorm.DB, id uuid.UUID, estado string) error
}

type ventaRepo struct{ db *gorm.DB }

func NewVentaRepository(db *gorm.DB) VentaRepository { return &ventaRepo{db: db} }

func (r *ventaRepo) DB() *gorm.DB { return r.db }

func (r *ventaRepo) Create(ctx context.Context, tx *gorm.DB, v *model.Venta) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(v).Error
}

func (r *ventaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error) {
	var v model.Venta
	err := r.db.WithContext(ctx).Preload("Items").Preload("Pagos").First(&v, id).Error
	return &v, err
}

func (r *ventaRepo) ListDelDia(ctx context.Context, sucursalID string, cajeroID uuid.UUID, fecha time.Time) ([]model.Venta, error) {
	var ventas []model.Venta
	err := r.db.WithContext(ctx).
		Preload("Items").Preload("Pagos").
		Where("sucursal_id = ? AND cajero_id = ? AND fecha = ? AND estado = 'confirmada'",
			sucursalID, cajeroID, fecha.Format("2006-01-02")).
		Order("created_at ASC").
		Find(&ventas).Error
	return ventas, err
}

func (r *ventaRepo) UpdateEstadoTx(tx *gorm.DB, id uuid.UUID, estado string) error {
	if tx == nil {
		tx = r.db
	}
	return tx.Model(&model.Venta{}).Where("id = ?", id).Update("estado", estado).Error
}
