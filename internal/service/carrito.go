package service

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"bodegon/internal/model"
)

// ── Cart aggregator ───────────────────────────────────────────────────────────
// Carrito owns every derived total. Each mutating operation finishes with a
// full recompute, so callers never observe a stale partial total. It lives
// only for the duration of one open sale session and is owned by exactly one
// session — no locking, scoping does the isolation.

// ItemCarrito is one cart line. Derived fields (PrecioUSD/VES, SubtotalUSD/VES)
// are recomputed by the cart and never set directly.
type ItemCarrito struct {
	ProductoID      uuid.UUID
	Nombre          string
	Cantidad        int
	StockDisponible int
	PrecioBaseUSD   decimal.Decimal
	// Descuentos is the stack snapshot taken when the item entered the cart;
	// Recalcular replaces it when the session stack changes.
	Descuentos []decimal.Decimal
	ConIVA     bool
	// CostoUnitarioUSD carries the line-level cost fallback for the cuadre.
	CostoUnitarioUSD *decimal.Decimal

	PrecioUSD   decimal.Decimal
	PrecioVES   decimal.Decimal
	SubtotalUSD decimal.Decimal
	SubtotalVES decimal.Decimal
}

// Carrito is the in-session cart.
type Carrito struct {
	Tasa decimal.Decimal
	// Descuentos is the session stack: customer discount plus payment-method
	// discount, applied sequentially (multiplicative).
	Descuentos []decimal.Decimal
	IVAPct     decimal.Decimal
	Items      []ItemCarrito

	TotalUSD decimal.Decimal
	TotalVES decimal.Decimal
}

// NuevoCarrito opens an empty cart for the session. The discount stack is
// validated up front so a bad discount never reaches a line computation.
func NuevoCarrito(tasa, ivaPct decimal.Decimal, descuentos ...decimal.Decimal) (*Carrito, error) {
	for _, d := range descuentos {
		if err := ValidarDescuento(d); err != nil {
			return nil, err
		}
	}
	c := &Carrito{Tasa: tasa, Descuentos: descuentos, IVAPct: ivaPct}
	c.recalcular()
	return c, nil
}

// AgregarItem adds a line and recomputes. A product already in the cart merges
// into its existing line instead of duplicating it, so the stock ceiling is
// enforced once per product. The clamp is signalled through the first return
// value, not an error — the caller decides whether to surface it.
func (c *Carrito) AgregarItem(item ItemCarrito) (ajustado bool, err error) {
	if item.Cantidad <= 0 {
		return false, &ErrValidacion{Campo: "cantidad", Detalle: "debe ser mayor a cero"}
	}
	if item.PrecioBaseUSD.IsNegative() {
		return false, &ErrValidacion{Campo: "precio_base", Detalle: "no puede ser negativo"}
	}
	for i := range c.Items {
		if c.Items[i].ProductoID != item.ProductoID {
			continue
		}
		cantidad := c.Items[i].Cantidad + item.Cantidad
		if c.Items[i].StockDisponible > 0 && cantidad > c.Items[i].StockDisponible {
			cantidad = c.Items[i].StockDisponible
			ajustado = true
		}
		c.Items[i].Cantidad = cantidad
		return ajustado, c.recalcular()
	}
	if item.StockDisponible > 0 && item.Cantidad > item.StockDisponible {
		item.Cantidad = item.StockDisponible
		ajustado = true
	}
	item.Descuentos = c.Descuentos
	c.Items = append(c.Items, item)
	return ajustado, c.recalcular()
}

// ActualizarCantidad changes a line's quantity, clamping to the stock ceiling
// supplied by the inventory collaborator. The clamp is signalled through the
// first return value, not an error — the caller decides whether to surface it.
func (c *Carrito) ActualizarCantidad(productoID uuid.UUID, cantidad int) (ajustado bool, err error) {
	if cantidad <= 0 {
		return false, &ErrValidacion{Campo: "cantidad", Detalle: "debe ser mayor a cero"}
	}
	for i := range c.Items {
		if c.Items[i].ProductoID != productoID {
			continue
		}
		if c.Items[i].StockDisponible > 0 && cantidad > c.Items[i].StockDisponible {
			cantidad = c.Items[i].StockDisponible
			ajustado = true
		}
		c.Items[i].Cantidad = cantidad
		return ajustado, c.recalcular()
	}
	return false, &ErrValidacion{Campo: "producto_id", Detalle: "no está en el carrito"}
}

// EliminarItem removes a line and recomputes.
func (c *Carrito) EliminarItem(productoID uuid.UUID) error {
	for i := range c.Items {
		if c.Items[i].ProductoID == productoID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return c.recalcular()
		}
	}
	return &ErrValidacion{Campo: "producto_id", Detalle: "no está en el carrito"}
}

// Recalcular re-derives every line and total under a new rate and discount
// stack. Idempotent: identical inputs produce identical totals.
func (c *Carrito) Recalcular(tasa decimal.Decimal, descuentos []decimal.Decimal) error {
	for _, d := range descuentos {
		if err := ValidarDescuento(d); err != nil {
			return err
		}
	}
	c.Tasa = tasa
	c.Descuentos = descuentos
	for i := range c.Items {
		c.Items[i].Descuentos = descuentos
	}
	return c.recalcular()
}

func (c *Carrito) recalcular() error {
	totalUSD := decimal.Zero
	totalVES := decimal.Zero
	for i := range c.Items {
		it := &c.Items[i]
		precio, err := PrecioUnitario(it.PrecioBaseUSD, c.Tasa, it.Descuentos)
		if err != nil {
			return err
		}
		if it.ConIVA && c.IVAPct.IsPositive() {
			factor := decimal.NewFromInt(1).Add(c.IVAPct.Div(cien))
			precio.USD = precio.USD.Mul(factor)
			precio.VES = precio.VES.Mul(factor)
		}
		cant := decimal.NewFromInt(int64(it.Cantidad))
		it.PrecioUSD = precio.USD
		it.PrecioVES = precio.VES
		it.SubtotalUSD = precio.USD.Mul(cant)
		it.SubtotalVES = precio.VES.Mul(cant)
		totalUSD = totalUSD.Add(it.SubtotalUSD)
		totalVES = totalVES.Add(it.SubtotalVES)
	}
	c.TotalUSD = totalUSD
	c.TotalVES = totalVES
	return nil
}

// Vacio reports whether the cart has no lines.
func (c *Carrito) Vacio() bool { return len(c.Items) == 0 }

// LineasVenta freezes the cart into persistable sale lines.
func (c *Carrito) LineasVenta() []model.VentaItem {
	items := make([]model.VentaItem, 0, len(c.Items))
	for _, it := range c.Items {
		items = append(items, model.VentaItem{
			ProductoID:        it.ProductoID,
			Nombre:            it.Nombre,
			Cantidad:          it.Cantidad,
			PrecioBaseUSD:     it.PrecioBaseUSD,
			DescuentoPct:      SumaDescuentos(it.Descuentos),
			ConIVA:            it.ConIVA,
			PrecioUnitarioUSD: it.PrecioUSD,
			PrecioUnitarioVES: it.PrecioVES,
			SubtotalUSD:       it.SubtotalUSD.Round(precisionDisplay),
			SubtotalVES:       it.SubtotalVES.Round(precisionDisplay),
			CostoUnitarioUSD:  it.CostoUnitarioUSD,
		})
	}
	return items
}
