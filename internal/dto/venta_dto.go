package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ItemVentaRequest struct {
	ProductoID string `json:"producto_id" validate:"required,uuid"`
	Cantidad   int    `json:"cantidad"    validate:"required,min=1"`
}

// PagoRequest is one tender. Monto is signed: negative entries are change
// given back (vuelto) and are replayed through the change dispenser.
type PagoRequest struct {
	Moneda  string          `json:"moneda"   validate:"required,oneof=VES USD"`
	Metodo  string          `json:"metodo"   validate:"required,oneof=efectivo punto pago_movil zelle vale"`
	BancoID *string         `json:"banco_id" validate:"omitempty,uuid"`
	Monto   decimal.Decimal `json:"monto"    validate:"required"`
}

type RegistrarVentaRequest struct {
	// TasaDia: USD→VES del día. 0 = tasa no disponible; los totales VES
	// derivados quedan en 0.
	TasaDia             decimal.Decimal    `json:"tasa_dia"              validate:"min=0"`
	DescuentoClientePct decimal.Decimal    `json:"descuento_cliente_pct" validate:"min=0"`
	DescuentoMonedaPct  decimal.Decimal    `json:"descuento_moneda_pct"  validate:"min=0"`
	Items               []ItemVentaRequest `json:"items"                 validate:"required,min=1,dive"`
	Pagos               []PagoRequest      `json:"pagos"                 validate:"required,min=1,dive"`
	// DesdePOS: false cuando la venta se captura manualmente fuera del flujo POS.
	DesdePOS *bool `json:"desde_pos"`
}

type VentaFilter struct {
	Fecha string `form:"fecha"` // YYYY-MM-DD; empty = today
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ItemVentaResponse struct {
	ProductoID        string          `json:"producto_id"`
	Producto          string          `json:"producto"`
	Cantidad          int             `json:"cantidad"`
	PrecioUnitarioUSD decimal.Decimal `json:"precio_unitario_usd"`
	PrecioUnitarioVES decimal.Decimal `json:"precio_unitario_ves"`
	SubtotalUSD       decimal.Decimal `json:"subtotal_usd"`
	SubtotalVES       decimal.Decimal `json:"subtotal_ves"`
	DescuentoPct      decimal.Decimal `json:"descuento_pct"`
}

type PagoResponse struct {
	Moneda   string          `json:"moneda"`
	Metodo   string          `json:"metodo"`
	BancoID  *string         `json:"banco_id"`
	Monto    decimal.Decimal `json:"monto"`
	EsVuelto bool            `json:"es_vuelto"`
}

type VentaResponse struct {
	ID             string              `json:"id"`
	SucursalID     string              `json:"sucursal_id"`
	Fecha          string              `json:"fecha"`
	TasaDia        decimal.Decimal     `json:"tasa_dia"`
	TotalUSD       decimal.Decimal     `json:"total_usd"`
	TotalVES       decimal.Decimal     `json:"total_ves"`
	Items          []ItemVentaResponse `json:"items"`
	Pagos          []PagoResponse      `json:"pagos"`
	Estado         string              `json:"estado"`
	// PagosNoConvertibles cuenta pagos VES aceptados sin tasa — contribuyen 0
	// al total USD por política explícita y se advierten al operador.
	PagosNoConvertibles int    `json:"pagos_no_convertibles,omitempty"`
	StockAjustado       bool   `json:"stock_ajustado,omitempty"`
	CreatedAt           string `json:"created_at"`
}

type VentaListResponse struct {
	Data     []VentaResponse `json:"data"`
	TotalUSD decimal.Decimal `json:"total_usd"`
	TotalVES decimal.Decimal `json:"total_ves"`
}

type AnularVentaRequest struct {
	Motivo string `json:"motivo" validate:"required,min=5"`
}
