package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cuadre is the end-of-shift till reconciliation: one record per
// (cajero, sucursal, fecha), created at shift close and append-only after.
// Declared amounts come from the operator's count; expected amounts are folds
// over the day's confirmed ventas. Variance fields keep 4 decimal places so
// cumulative rounding is never masked.
type Cuadre struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SucursalID string    `gorm:"type:varchar(40);uniqueIndex:idx_cuadre_dia;not null"`
	CajeroID   uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_cuadre_dia;not null"`
	Fecha      time.Time `gorm:"type:date;uniqueIndex:idx_cuadre_dia;not null"`
	TasaDia    decimal.Decimal `gorm:"type:decimal(14,4);not null"`

	// Fondo de apertura — display only, never part of the expected totals.
	FondoVES decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	FondoUSD decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`

	// Expected side: folds over the day's confirmed ventas.
	TotalSistemaUSD decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	PuntoVES        decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	PagoMovilVES    decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	EfectivoVES     decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	EfectivoUSD     decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	ZelleUSD        decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	ValesUSD        decimal.Decimal `gorm:"type:decimal(14,2);not null"`

	// Cost of goods consumed, from the inventory lookup with per-line
	// fallback. LineasSinCosto counts lines that contributed 0 because
	// neither source had a cost — a visible diagnostic, never silent.
	CostoInventarioUSD decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	LineasSinCosto     int             `gorm:"not null;default:0"`

	// Declared side: operator-counted amounts per channel.
	DeclaradoEfectivoVES  decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	DeclaradoPuntoVES     decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	DeclaradoPagoMovilVES decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	DeclaradoEfectivoUSD  decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	DeclaradoZelleUSD     decimal.Decimal `gorm:"type:decimal(14,2);not null"`

	// Derived totals. TotalDeclaradoVES covers only VES-cleared channels;
	// USD-only channels are added after conversion, never mixed in.
	TotalDeclaradoVES decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	TotalDeclaradoUSD decimal.Decimal `gorm:"type:decimal(14,4);not null"`
	TotalEsperadoUSD  decimal.Decimal `gorm:"type:decimal(14,4);not null"`

	// VarianzaUSD = declarado − esperado, 4 decimal places.
	// Exactly one of Sobrante/Faltante may be non-zero.
	VarianzaUSD decimal.Decimal `gorm:"type:decimal(14,4);not null"`
	SobranteUSD decimal.Decimal `gorm:"type:decimal(14,4);not null"`
	FaltanteUSD decimal.Decimal `gorm:"type:decimal(14,4);not null"`

	DesdePOS  bool `gorm:"not null;default:true"`
	CreatedAt time.Time
}
