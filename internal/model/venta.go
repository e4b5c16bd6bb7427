package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Venta is a confirmed sale. Immutable once Estado = "confirmada" —
// corrections go through AnularVenta, which writes inverse records.
// Estado: "confirmada" | "anulada"
type Venta struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SucursalID string    `gorm:"type:varchar(40);index:idx_ventas_dia;not null"`
	CajeroID   uuid.UUID `gorm:"type:uuid;index:idx_ventas_dia;not null"`
	// Fecha is the business day (00:00 local), the third leg of the
	// (cajero, sucursal, fecha) scope key used by the cuadre.
	Fecha time.Time `gorm:"type:date;index:idx_ventas_dia;not null"`
	// TasaDia is the USD→VES rate the session priced with. 0 means the rate
	// was unavailable and every VES-derived total is 0.
	TasaDia             decimal.Decimal `gorm:"type:decimal(14,4);not null"`
	DescuentoClientePct decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	DescuentoMonedaPct  decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	TotalUSD            decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	TotalVES            decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	// DesdePOS distinguishes sales entered through the point-of-sale flow from
	// manually captured ones; the back office uses it to avoid double counting.
	DesdePOS  bool   `gorm:"not null;default:true"`
	Estado    string `gorm:"type:varchar(20);not null;default:'confirmada'"`
	CreatedAt time.Time

	Items []VentaItem `gorm:"foreignKey:VentaID"`
	Pagos []VentaPago `gorm:"foreignKey:VentaID"`
}

// VentaItem is one confirmed cart line. Unit prices are derived fields frozen
// at confirmation: they already include the discount stack and, when ConIVA,
// the flat surcharge.
type VentaItem struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VentaID    uuid.UUID `gorm:"type:uuid;index;not null"`
	ProductoID uuid.UUID `gorm:"type:uuid;index;not null"`
	Nombre     string    `gorm:"not null"`
	Cantidad   int       `gorm:"not null"`
	// PrecioBaseUSD is the catalog price before any discount.
	PrecioBaseUSD decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	// DescuentoPct is the arithmetic sum of the stack — display only, the
	// stored unit prices were computed by sequential application.
	DescuentoPct      decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	ConIVA            bool            `gorm:"not null;default:false"`
	PrecioUnitarioUSD decimal.Decimal `gorm:"type:decimal(14,4);not null"`
	PrecioUnitarioVES decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	SubtotalUSD       decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	SubtotalVES       decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	// CostoUnitarioUSD is the cost carried on the line itself, used as the
	// fallback when the inventory lookup has no entry for the product.
	CostoUnitarioUSD *decimal.Decimal `gorm:"type:decimal(14,4)"`
}

// VentaPago is one tender. A negative Monto is change given back to the
// customer — same type as a payment, distinguished only by sign.
type VentaPago struct {
	ID      uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VentaID uuid.UUID       `gorm:"type:uuid;index;not null"`
	Moneda  string          `gorm:"type:varchar(3);not null"`
	Metodo  string          `gorm:"type:varchar(20);not null"`
	BancoID *uuid.UUID      `gorm:"type:uuid"`
	Monto   decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	// NoConvertible marks a VES tender accepted while tasa <= 0; it
	// contributes 0 to USD totals by explicit policy.
	NoConvertible bool `gorm:"not null;default:false"`
	CreatedAt     time.Time
}

// EsVuelto reports whether this tender is change given to the customer.
func (p VentaPago) EsVuelto() bool { return p.Monto.IsNegative() }
