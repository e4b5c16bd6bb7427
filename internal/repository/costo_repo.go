package repository

import (
	"context"

	"bodegon/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CostoRepository is the inventory cost lookup collaborator: per sucursal, a
// mapping product → unit cost (USD). A product with no entry is a normal,
// expected condition — the cuadre falls back to the cost carried on the sale
// line, and counts lines where neither source exists.
type CostoRepository interface {
	CostosPorSucursal(ctx context.Context, sucursalID string) (map[uuid.UUID]decimal.Decimal, error)
}

type costoRepo struct{ db *gorm.DB }

func NewCostoRepository(db *gorm.DB) CostoRepository { return &costoRepo{db: db} }

func (r *costoRepo) CostosPorSucursal(ctx context.Context, sucursalID string) (map[uuid.UUID]decimal.Decimal, error) {
	var productos []model.Producto
	err := r.db.WithContext(ctx).
		Select("id", "costo_usd").
		Where("sucursal_id = ? AND costo_usd IS NOT NULL", sucursalID).
		Find(&productos).Error
	if err != nil {
		return nil, err
	}
	costos := make(map[uuid.UUID]decimal.Decimal, len(productos))
	for _, p := range productos {
		if p.CostoUSD != nil {
			costos[p.ID] = *p.CostoUSD
		}
	}
	return costos, nil
}
