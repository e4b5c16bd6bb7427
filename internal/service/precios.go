package service

import (
	"github.com/shopspring/decimal"
)

// ── Pricing & discount calculator ─────────────────────────────────────────────
// Catalog prices are USD. The VES price is always derived from the day's rate;
// with tasa <= 0 it is 0, which downstream code treats as "not computable",
// never as a real zero price.

var (
	cien             = decimal.NewFromInt(100)
	maxDescuento     = decimal.NewFromFloat(99.99)
	toleranciaUSD    = decimal.NewFromFloat(0.01)
	precisionCuadre  = int32(4)
	precisionDisplay = int32(2)
)

// PrecioCalculado is a dual-currency unit price after the discount stack.
type PrecioCalculado struct {
	USD decimal.Decimal
	VES decimal.Decimal
}

// ValidarDescuento rejects discounts outside [0, 100). A 100% discount would
// zero the price and is rejected here, not clamped — clamping belongs to the
// input boundary (ClampDescuento).
func ValidarDescuento(d decimal.Decimal) error {
	if d.IsNegative() {
		return &ErrValidacion{Campo: "descuento", Detalle: "no puede ser negativo"}
	}
	if d.GreaterThanOrEqual(cien) {
		return &ErrValidacion{Campo: "descuento", Detalle: "debe ser menor a 100%"}
	}
	return nil
}

// ClampDescuento caps a boundary-supplied discount at 99.99%. Negative input
// is NOT clamped; it still fails ValidarDescuento so bad data is never turned
// into a wrong default silently.
func ClampDescuento(d decimal.Decimal) decimal.Decimal {
	if d.GreaterThan(maxDescuento) {
		return maxDescuento
	}
	return d
}

// PrecioUnitario applies each discount of the stack sequentially against the
// remaining price: p_i = p_{i-1} * (1 - d_i/100). Stacked discounts compound
// multiplicatively — 10% + 5% yields base*0.9*0.95, not base*0.85.
func PrecioUnitario(baseUSD, tasa decimal.Decimal, descuentos []decimal.Decimal) (PrecioCalculado, error) {
	if baseUSD.IsNegative() {
		return PrecioCalculado{}, &ErrValidacion{Campo: "precio_base", Detalle: "no puede ser negativo"}
	}
	usd := baseUSD
	for _, d := range descuentos {
		if err := ValidarDescuento(d); err != nil {
			return PrecioCalculado{}, err
		}
		usd = usd.Mul(decimal.NewFromInt(1).Sub(d.Div(cien)))
	}
	ves := decimal.Zero
	if tasa.IsPositive() {
		ves = usd.Mul(tasa)
	}
	return PrecioCalculado{USD: usd, VES: ves}, nil
}

// SumaDescuentos returns the arithmetic sum of the stack. Display only — the
// engine never applies the sum as a single discount.
func SumaDescuentos(descuentos []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, d := range descuentos {
		total = total.Add(d)
	}
	return total
}
