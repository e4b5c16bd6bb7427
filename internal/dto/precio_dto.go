package dto

import "github.com/shopspring/decimal"

// CotizarPrecioRequest asks for a dual-currency quote of a catalog product
// under a discount stack. Discounts over 99.99 are clamped at this boundary;
// negative ones are rejected by the calculator.
type CotizarPrecioRequest struct {
	ProductoID string            `json:"producto_id" validate:"required,uuid"`
	TasaDia    decimal.Decimal   `json:"tasa_dia"    validate:"min=0"`
	Descuentos []decimal.Decimal `json:"descuentos"`
}

type PrecioResponse struct {
	ProductoID        string          `json:"producto_id"`
	Producto          string          `json:"producto"`
	PrecioBaseUSD     decimal.Decimal `json:"precio_base_usd"`
	PrecioUSD         decimal.Decimal `json:"precio_usd"`
	PrecioVES         decimal.Decimal `json:"precio_ves"`
	// DescuentoTotalPct es la suma aritmética — solo display; el cálculo
	// aplica la pila secuencialmente.
	DescuentoTotalPct decimal.Decimal `json:"descuento_total_pct"`
	ConIVA            bool            `json:"con_iva"`
}

type ProductoResponse struct {
	ID           string          `json:"id"`
	CodigoBarras string          `json:"codigo_barras"`
	Nombre       string          `json:"nombre"`
	PrecioUSD    decimal.Decimal `json:"precio_usd"`
	StockActual  int             `json:"stock_actual"`
	ConIVA       bool            `json:"con_iva"`
}
