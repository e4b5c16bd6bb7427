package repository

import (
	"context"
	"time"

	"bodegon/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CuadreRepository interface {
	// DB exposes the handle so the service can persist and submit inside one
	// transaction. Nil in unit tests.
	DB() *gorm.DB
	// Create persists the record once. The unique (sucursal, cajero, fecha)
	// index makes a second close of the same shift fail — cuadres are
	// append-only, corrections arrive as full new records from the back office.
	Create(ctx context.Context, tx *gorm.DB, c *model.Cuadre) error
	FindPorDia(ctx context.Context, sucursalID string, cajeroID uuid.UUID, fecha time.Time) (*model.Cuadre, error)
	Historial(ctx context.Context, sucursalID string, page, limit int) ([]model.Cuadre, int64, error)
}

type cuadreRepo struct{ db *gorm.DB }

func NewCuadreRepository(db *gorm.DB) CuadreRepository { return &cuadreRepo{db: db} }

func (r *cuadreRepo) DB() *gorm.DB { return r.db }

func (r *cuadreRepo) Create(ctx context.Context, tx *gorm.DB, c *model.Cuadre) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(c).Error
}

func (r *cuadreRepo) FindPorDia(ctx context.Context, sucursalID string, cajeroID uuid.UUID, fecha time.Time) (*model.Cuadre, error) {
	var c model.Cuadre
	err := r.db.WithContext(ctx).
		Where("sucursal_id = ? AND cajero_id = ? AND fecha = ?",
			sucursalID, cajeroID, fecha.Format("2006-01-02")).
		First(&c).Error
	return &c, err
}

func (r *cuadreRepo) Historial(ctx context.Context, sucursalID string, page, limit int) ([]model.Cuadre, int64, error) {
	var cuadres []model.Cuadre
	var total int64
	q := r.db.WithContext(ctx).Model(&model.Cuadre{}).Where("sucursal_id = ?", sucursalID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("fecha DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&cuadres).Error
	return cuadres, total, err
}
