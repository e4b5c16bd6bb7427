package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"bodegon/internal/model"

	"github.com/shopspring/decimal"
)

// ventaPayload is the sale document the central back office expects. Amounts
// travel as decimal strings so nothing is lost to binary floats in transit.
type ventaPayload struct {
	VentaID    string          `json:"venta_id"`
	SucursalID string          `json:"sucursal_id"`
	CajeroID   string          `json:"cajero_id"`
	Fecha      string          `json:"fecha"`
	TasaDia    decimal.Decimal `json:"tasa_dia"`
	TotalUSD   decimal.Decimal `json:"total_usd"`
	TotalVES   decimal.Decimal `json:"total_ves"`
	DesdePOS   bool            `json:"desde_pos"`
	Items      []itemPayload   `json:"items"`
	Pagos      []pagoPayload   `json:"pagos"`
}

type itemPayload struct {
	ProductoID        string          `json:"producto_id"`
	Nombre            string          `json:"nombre"`
	Cantidad          int             `json:"cantidad"`
	PrecioUnitarioUSD decimal.Decimal `json:"precio_unitario_usd"`
	SubtotalUSD       decimal.Decimal `json:"subtotal_usd"`
	SubtotalVES       decimal.Decimal `json:"subtotal_ves"`
}

type pagoPayload struct {
	Moneda string          `json:"moneda"`
	Metodo string          `json:"metodo"`
	Monto  decimal.Decimal `json:"monto"` // signed: negatives are change given
}

// cuadrePayload carries the full reconciliation record, expected and declared
// sides included, so the back office can audit the variance independently.
type cuadrePayload struct {
	CuadreID          string          `json:"cuadre_id"`
	SucursalID        string          `json:"sucursal_id"`
	CajeroID          string          `json:"cajero_id"`
	Fecha             string          `json:"fecha"`
	TasaDia           decimal.Decimal `json:"tasa_dia"`
	TotalSistemaUSD   decimal.Decimal `json:"total_sistema_usd"`
	TotalDeclaradoUSD decimal.Decimal `json:"total_declarado_usd"`
	TotalEsperadoUSD  decimal.Decimal `json:"total_esperado_usd"`
	VarianzaUSD       decimal.Decimal `json:"varianza_usd"`
	SobranteUSD       decimal.Decimal `json:"sobrante_usd"`
	FaltanteUSD       decimal.Decimal `json:"faltante_usd"`
	ValesUSD          decimal.Decimal `json:"vales_usd"`
	CostoUSD          decimal.Decimal `json:"costo_inventario_usd"`
	LineasSinCosto    int             `json:"lineas_sin_costo"`
	DesdePOS          bool            `json:"desde_pos"`
}

// BackofficeHTTP submits sales and cuadres to the central back office over
// HTTP. Every call goes through the circuit breaker; there is no retry queue
// here — a failed submission propagates to the caller, which rolls back.
type BackofficeHTTP struct {
	baseURL    string
	httpClient *http.Client
	cb         *CircuitBreaker
}

func NewBackofficeHTTP(baseURL string, cb *CircuitBreaker) *BackofficeHTTP {
	return &BackofficeHTTP{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		cb:         cb,
	}
}

// CircuitState exposes the breaker state for the health endpoint.
func (c *BackofficeHTTP) CircuitState() string {
	return c.cb.State().String()
}

func (c *BackofficeHTTP) EnviarVenta(ctx context.Context, v *model.Venta) error {
	items := make([]itemPayload, 0, len(v.Items))
	for _, it := range v.Items {
		items = append(items, itemPayload{
			ProductoID:        it.ProductoID.String(),
			Nombre:            it.Nombre,
			Cantidad:          it.Cantidad,
			PrecioUnitarioUSD: it.PrecioUnitarioUSD,
			SubtotalUSD:       it.SubtotalUSD,
			SubtotalVES:       it.SubtotalVES,
		})
	}
	pagos := make([]pagoPayload, 0, len(v.Pagos))
	for _, p := range v.Pagos {
		pagos = append(pagos, pagoPayload{Moneda: p.Moneda, Metodo: p.Metodo, Monto: p.Monto})
	}
	payload := ventaPayload{
		VentaID:    v.ID.String(),
		SucursalID: v.SucursalID,
		CajeroID:   v.CajeroID.String(),
		Fecha:      v.Fecha.Format("2006-01-02"),
		TasaDia:    v.TasaDia,
		TotalUSD:   v.TotalUSD,
		TotalVES:   v.TotalVES,
		DesdePOS:   v.DesdePOS,
		Items:      items,
		Pagos:      pagos,
	}
	return c.post(ctx, "/v1/ventas", payload)
}

func (c *BackofficeHTTP) EnviarCuadre(ctx context.Context, q *model.Cuadre) error {
	payload := cuadrePayload{
		CuadreID:          q.ID.String(),
		SucursalID:        q.SucursalID,
		CajeroID:          q.CajeroID.String(),
		Fecha:             q.Fecha.Format("2006-01-02"),
		TasaDia:           q.TasaDia,
		TotalSistemaUSD:   q.TotalSistemaUSD,
		TotalDeclaradoUSD: q.TotalDeclaradoUSD,
		TotalEsperadoUSD:  q.TotalEsperadoUSD,
		VarianzaUSD:       q.VarianzaUSD,
		SobranteUSD:       q.SobranteUSD,
		FaltanteUSD:       q.FaltanteUSD,
		ValesUSD:          q.ValesUSD,
		CostoUSD:          q.CostoInventarioUSD,
		LineasSinCosto:    q.LineasSinCosto,
		DesdePOS:          q.DesdePOS,
	}
	return c.post(ctx, "/v1/cuadres", payload)
}

func (c *BackofficeHTTP) post(ctx context.Context, path string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("backoffice: marshal payload: %w", err)
	}
	return c.cb.Execute(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("backoffice: create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("backoffice: unreachable: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
			return fmt.Errorf("backoffice: returned %d", resp.StatusCode)
		}
		return nil
	})
}
