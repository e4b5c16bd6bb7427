package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// DeclaracionCuadre holds the operator-counted amounts per channel. VES and
// USD channels are declared separately and never mixed before conversion.
type DeclaracionCuadre struct {
	EfectivoVES  decimal.Decimal `json:"efectivo_ves"  validate:"min=0"`
	PuntoVES     decimal.Decimal `json:"punto_ves"     validate:"min=0"`
	PagoMovilVES decimal.Decimal `json:"pago_movil_ves" validate:"min=0"`
	EfectivoUSD  decimal.Decimal `json:"efectivo_usd"  validate:"min=0"`
	ZelleUSD     decimal.Decimal `json:"zelle_usd"     validate:"min=0"`
}

type CerrarCuadreRequest struct {
	Fecha       string            `json:"fecha"    validate:"omitempty,datetime=2006-01-02"`
	TasaDia     decimal.Decimal   `json:"tasa_dia" validate:"min=0"`
	Declaracion DeclaracionCuadre `json:"declaracion" validate:"required"`
	// DesdePOS: el back office lo usa para no contar dos veces contra un
	// total pendiente cargado a mano.
	DesdePOS *bool `json:"desde_pos"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// EsperadoCuadre are the system-side aggregates folded from the day's sales.
type EsperadoCuadre struct {
	TotalSistemaUSD decimal.Decimal `json:"total_sistema_usd"`
	PuntoVES        decimal.Decimal `json:"punto_ves"`
	PagoMovilVES    decimal.Decimal `json:"pago_movil_ves"`
	EfectivoVES     decimal.Decimal `json:"efectivo_ves"`
	EfectivoUSD     decimal.Decimal `json:"efectivo_usd"`
	ZelleUSD        decimal.Decimal `json:"zelle_usd"`
	ValesUSD        decimal.Decimal `json:"vales_usd"`
	// TotalEsperadoUSD excluye vales: crédito prepagado, no efectivo del día.
	TotalEsperadoUSD decimal.Decimal `json:"total_esperado_usd"`
}

type CostoCuadre struct {
	CostoInventarioUSD decimal.Decimal `json:"costo_inventario_usd"`
	// LineasSinCosto: líneas que aportaron 0 por no tener costo en ninguna
	// fuente. Diagnóstico visible, nunca una reducción silenciosa.
	LineasSinCosto int `json:"lineas_sin_costo"`
}

type FondoCuadre struct {
	EfectivoVES decimal.Decimal `json:"efectivo_ves"`
	EfectivoUSD decimal.Decimal `json:"efectivo_usd"`
}

type VarianzaCuadre struct {
	TotalDeclaradoVES decimal.Decimal `json:"total_declarado_ves"`
	TotalDeclaradoUSD decimal.Decimal `json:"total_declarado_usd"`
	TotalEsperadoUSD  decimal.Decimal `json:"total_esperado_usd"`
	// VarianzaUSD a 4 decimales; sobrante y faltante mutuamente excluyentes.
	VarianzaUSD decimal.Decimal `json:"varianza_usd"`
	SobranteUSD decimal.Decimal `json:"sobrante_usd"`
	FaltanteUSD decimal.Decimal `json:"faltante_usd"`
}

type CuadreResponse struct {
	ID         string          `json:"id"`
	SucursalID string          `json:"sucursal_id"`
	CajeroID   string          `json:"cajero_id"`
	Fecha      string          `json:"fecha"`
	TasaDia    decimal.Decimal `json:"tasa_dia"`
	Fondo      FondoCuadre     `json:"fondo"`
	Esperado   EsperadoCuadre  `json:"esperado"`
	Costo      CostoCuadre     `json:"costo"`
	Varianza   VarianzaCuadre  `json:"varianza"`
	DesdePOS   bool            `json:"desde_pos"`
	CreatedAt  string          `json:"created_at"`
}

// ResumenCuadreResponse is the pre-close preview: expected aggregates plus
// the opening float (display only), before the operator declares the count.
type ResumenCuadreResponse struct {
	SucursalID string          `json:"sucursal_id"`
	Fecha      string          `json:"fecha"`
	Ventas     int             `json:"ventas"`
	Fondo      FondoCuadre     `json:"fondo"`
	Esperado   EsperadoCuadre  `json:"esperado"`
	Costo      CostoCuadre     `json:"costo"`
}

type CuadreHistorialResponse struct {
	Data  []CuadreResponse `json:"data"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}
