package service

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrValidacion is a recoverable input error (bad discount, non-positive
// amount, unknown currency). It is surfaced to the operator as a message and
// never propagated as a crash.
type ErrValidacion struct {
	Campo   string
	Detalle string
}

func (e *ErrValidacion) Error() string {
	return fmt.Sprintf("validación %s: %s", e.Campo, e.Detalle)
}

// ErrPagoDesbalanceado blocks confirmation of a sale whose tenders do not net
// to zero. DiferenciaUSD is signed: negative = faltante (underpaid), positive
// = vuelto pendiente (overpaid with change still owed).
type ErrPagoDesbalanceado struct {
	DiferenciaUSD decimal.Decimal
}

func (e *ErrPagoDesbalanceado) Error() string {
	if e.DiferenciaUSD.IsNegative() {
		return fmt.Sprintf("pago insuficiente: faltan %s USD", e.DiferenciaUSD.Abs().StringFixed(2))
	}
	return fmt.Sprintf("vuelto pendiente por %s USD", e.DiferenciaUSD.StringFixed(2))
}

// ErrTasaNoDisponible is returned when an operation needs a cross-currency
// conversion and the day's rate is missing or zero. Normal cart recompute
// never raises it — only explicit conversions do.
var ErrTasaNoDisponible = errors.New("tasa del día no disponible para la conversión")

// ErrCuadreIncompleto blocks reconciliation when a required input is missing.
// No partial or zero-filled cuadre is ever produced.
type ErrCuadreIncompleto struct {
	Faltan []string
}

func (e *ErrCuadreIncompleto) Error() string {
	return fmt.Sprintf("cuadre incompleto: faltan %v", e.Faltan)
}

// ErrBusquedaSuperada marks a search result discarded because a newer request
// started before this one finished (last-request-wins).
var ErrBusquedaSuperada = errors.New("búsqueda superada por una solicitud más reciente")
