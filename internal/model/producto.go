package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Producto is the catalog entry the cart references. Prices are kept in USD;
// VES prices are always derived with the day's rate, never stored.
type Producto struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SucursalID   string    `gorm:"type:varchar(40);index;not null"`
	CodigoBarras string    `gorm:"uniqueIndex;not null"`
	Nombre       string    `gorm:"index;not null"`
	Descripcion  *string
	PrecioUSD    decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	// CostoUSD may be absent — the inventory cost lookup treats a missing
	// entry as a normal condition, not an error.
	CostoUSD    *decimal.Decimal `gorm:"type:decimal(14,4)"`
	StockActual int              `gorm:"not null;default:0"`
	ConIVA      bool             `gorm:"not null;default:false"`
	Activo      bool             `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
