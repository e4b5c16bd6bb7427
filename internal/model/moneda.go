package model

import "github.com/shopspring/decimal"

// Moneda values. VES is the local currency; USD is the reference currency in
// which all catalog prices are kept.
const (
	MonedaVES = "VES"
	MonedaUSD = "USD"
)

// Métodos de pago. "punto" is the card terminal (punto de venta); pago_movil
// and punto clear in VES, zelle and vale only exist in USD.
const (
	MetodoEfectivo  = "efectivo"
	MetodoPunto     = "punto"
	MetodoPagoMovil = "pago_movil"
	MetodoZelle     = "zelle"
	MetodoVale      = "vale"
)

// MonedaValida reports whether m is one of the two tracked currencies.
func MonedaValida(m string) bool { return m == MonedaVES || m == MonedaUSD }

// MetodoValido reports whether metodo is a known payment channel.
func MetodoValido(metodo string) bool {
	switch metodo {
	case MetodoEfectivo, MetodoPunto, MetodoPagoMovil, MetodoZelle, MetodoVale:
		return true
	}
	return false
}

// AUSD converts a signed amount in moneda to USD using the day's rate.
// A VES amount with tasa <= 0 converts to 0 and the second return is false —
// the caller must treat the tender as unconvertible, never as a real zero.
func AUSD(monto decimal.Decimal, moneda string, tasa decimal.Decimal) (decimal.Decimal, bool) {
	if moneda == MonedaUSD {
		return monto, true
	}
	if tasa.IsPositive() {
		return monto.Div(tasa), true
	}
	return decimal.Zero, false
}

// AVES converts a signed USD amount to VES. With tasa <= 0 the VES amount is
// not computable and 0 is returned (display policy, not an error).
func AVES(montoUSD decimal.Decimal, tasa decimal.Decimal) decimal.Decimal {
	if !tasa.IsPositive() {
		return decimal.Zero
	}
	return montoUSD.Mul(tasa)
}
