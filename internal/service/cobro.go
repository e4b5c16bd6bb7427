package service

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"bodegon/internal/model"
)

// ── Payment allocator + change dispenser ──────────────────────────────────────
// Cobro accumulates tenders against the cart's USD total and tracks the
// settlement state machine:
//
//   abierto → parcial → exacto ──────────────┐
//                     ↘ excedido → (vueltos) → liquidado
//
// A sale is only confirmable in exacto or liquidado: the business rule is
// that money must be exactly balanced, change already returned, before the
// record exists.

type EstadoCobro string

const (
	CobroAbierto   EstadoCobro = "abierto"
	CobroParcial   EstadoCobro = "parcial"
	CobroExacto    EstadoCobro = "exacto"
	CobroExcedido  EstadoCobro = "excedido"
	CobroLiquidado EstadoCobro = "liquidado"
)

// Cobro is the payment phase of one sale session.
type Cobro struct {
	TotalUSD decimal.Decimal
	Tasa     decimal.Decimal
	Pagos    []model.VentaPago

	estado EstadoCobro
}

// NuevoCobro opens the payment phase for a cart totalling totalUSD.
func NuevoCobro(totalUSD, tasa decimal.Decimal) *Cobro {
	return &Cobro{TotalUSD: totalUSD, Tasa: tasa, estado: CobroAbierto}
}

// Estado returns the current settlement state.
func (co *Cobro) Estado() EstadoCobro { return co.estado }

// AgregarPago records a positive tender. It only updates totals and state —
// change capability is the dispenser's concern, not checked here.
func (co *Cobro) AgregarPago(monto decimal.Decimal, moneda, metodo string, bancoID *uuid.UUID) error {
	if !monto.IsPositive() {
		return &ErrValidacion{Campo: "monto", Detalle: "el pago debe ser mayor a cero"}
	}
	if !model.MonedaValida(moneda) {
		return &ErrValidacion{Campo: "moneda", Detalle: "moneda desconocida"}
	}
	if !model.MetodoValido(metodo) {
		return &ErrValidacion{Campo: "metodo", Detalle: "método de pago desconocido"}
	}
	_, convertible := model.AUSD(monto, moneda, co.Tasa)
	co.Pagos = append(co.Pagos, model.VentaPago{
		Moneda:        moneda,
		Metodo:        metodo,
		BancoID:       bancoID,
		Monto:         monto,
		NoConvertible: !convertible,
	})
	co.transicionar()
	return nil
}

// TotalPagadoUSD folds every tender into USD with the session rate. The
// second return counts VES tenders that contributed 0 because the rate is
// unavailable — explicit policy, flagged so the caller can warn.
func (co *Cobro) TotalPagadoUSD() (decimal.Decimal, int) {
	total := decimal.Zero
	noConvertibles := 0
	for _, p := range co.Pagos {
		usd, ok := model.AUSD(p.Monto, p.Moneda, co.Tasa)
		if !ok {
			noConvertibles++
			continue
		}
		total = total.Add(usd)
	}
	return total, noConvertibles
}

// TotalPagadoVES folds every tender into VES; USD tenders contribute 0 when
// the rate is unavailable.
func (co *Cobro) TotalPagadoVES() decimal.Decimal {
	total := decimal.Zero
	for _, p := range co.Pagos {
		if p.Moneda == model.MonedaVES {
			total = total.Add(p.Monto)
			continue
		}
		total = total.Add(model.AVES(p.Monto, co.Tasa))
	}
	return total
}

// Diferencia returns pagado − total in USD (signed).
func (co *Cobro) Diferencia() decimal.Decimal {
	pagado, _ := co.TotalPagadoUSD()
	return pagado.Sub(co.TotalUSD)
}

// VueltoPendienteUSD is the change still owed (0 when not overpaid).
func (co *Cobro) VueltoPendienteUSD() decimal.Decimal {
	diff := co.Diferencia()
	if diff.IsPositive() {
		return diff
	}
	return decimal.Zero
}

// DarVuelto disburses change: appends a negative tender and recomputes. Only
// legal while excedido. Multiple partial disbursements across currencies and
// instruments are allowed; the state flips to liquidado the instant owed
// change reaches 0 within tolerance.
func (co *Cobro) DarVuelto(monto decimal.Decimal, moneda, metodo string, bancoID *uuid.UUID) error {
	if co.estado != CobroExcedido {
		return &ErrValidacion{Campo: "vuelto", Detalle: "no hay vuelto pendiente"}
	}
	if !monto.IsPositive() {
		return &ErrValidacion{Campo: "monto", Detalle: "el vuelto debe ser mayor a cero"}
	}
	if !model.MonedaValida(moneda) {
		return &ErrValidacion{Campo: "moneda", Detalle: "moneda desconocida"}
	}
	// A cross-currency disbursement without a rate would give a silently
	// wrong amount — refuse instead.
	if moneda == model.MonedaVES && !co.Tasa.IsPositive() {
		return ErrTasaNoDisponible
	}
	vueltoUSD, _ := model.AUSD(monto, moneda, co.Tasa)
	if vueltoUSD.GreaterThan(co.VueltoPendienteUSD().Add(toleranciaUSD)) {
		return &ErrValidacion{Campo: "monto", Detalle: "el vuelto excede lo adeudado"}
	}
	co.Pagos = append(co.Pagos, model.VentaPago{
		Moneda:  moneda,
		Metodo:  metodo,
		BancoID: bancoID,
		Monto:   monto.Neg(),
	})
	co.transicionar()
	return nil
}

// PuedeConfirmar is true only when the tenders net to zero within 0.01 USD.
func (co *Cobro) PuedeConfirmar() bool {
	return co.estado == CobroExacto || co.estado == CobroLiquidado
}

// Confirmar validates the terminal balance. Partial settlement is fine while
// the session is open; at confirmation the residual must be zero.
func (co *Cobro) Confirmar() error {
	if co.PuedeConfirmar() {
		return nil
	}
	return &ErrPagoDesbalanceado{DiferenciaUSD: co.Diferencia()}
}

func (co *Cobro) transicionar() {
	if len(co.Pagos) == 0 {
		co.estado = CobroAbierto
		return
	}
	diff := co.Diferencia()
	switch {
	case diff.Abs().LessThanOrEqual(toleranciaUSD):
		if co.tieneVueltos() {
			co.estado = CobroLiquidado
		} else {
			co.estado = CobroExacto
		}
	case diff.IsNegative():
		co.estado = CobroParcial
	default:
		co.estado = CobroExcedido
	}
}

func (co *Cobro) tieneVueltos() bool {
	for _, p := range co.Pagos {
		if p.EsVuelto() {
			return true
		}
	}
	return false
}
