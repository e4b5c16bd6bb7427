package dto

import "github.com/shopspring/decimal"

type AbrirFondoRequest struct {
	EfectivoVES decimal.Decimal `json:"efectivo_ves" validate:"min=0"`
	EfectivoUSD decimal.Decimal `json:"efectivo_usd" validate:"min=0"`
}

type FondoResponse struct {
	SucursalID  string          `json:"sucursal_id"`
	CajeroID    string          `json:"cajero_id"`
	Fecha       string          `json:"fecha"`
	EfectivoVES decimal.Decimal `json:"efectivo_ves"`
	EfectivoUSD decimal.Decimal `json:"efectivo_usd"`
	AbiertoEn   string          `json:"abierto_en"`
}
