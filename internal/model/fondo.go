package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FondoCaja is the opening cash float assigned to one cajero at one sucursal
// for one business day. Written once at shift open, read-only during the
// shift, deleted when the cuadre closes the shift. It lives in the key-value
// store (not postgres) because it is session state, not ledger data.
type FondoCaja struct {
	SucursalID  string          `json:"sucursal_id"`
	CajeroID    uuid.UUID       `json:"cajero_id"`
	Fecha       string          `json:"fecha"` // YYYY-MM-DD
	EfectivoVES decimal.Decimal `json:"efectivo_ves"`
	EfectivoUSD decimal.Decimal `json:"efectivo_usd"`
	AbiertoEn   time.Time       `json:"abierto_en"`
}

// FondoKey builds the composite scope key. Sessions for a different cajero,
// sucursal or day can never collide on it.
func FondoKey(sucursalID string, cajeroID uuid.UUID, fecha string) string {
	return fmt.Sprintf("fondo:%s:%s:%s", sucursalID, cajeroID, fecha)
}

// Key returns the store key for this float.
func (f FondoCaja) Key() string {
	return FondoKey(f.SucursalID, f.CajeroID, f.Fecha)
}
