package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bodegon/internal/dto"
	"bodegon/internal/model"
	"bodegon/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BackofficeClient is the outbound sale/cuadre submission collaborator. The
// engine has already validated every invariant before building the payload —
// the boundary performs no business validation. Calls are fire-and-await:
// a failure surfaces verbatim, there is no automatic retry.
type BackofficeClient interface {
	EnviarVenta(ctx context.Context, v *model.Venta) error
	EnviarCuadre(ctx context.Context, c *model.Cuadre) error
}

type VentaService interface {
	RegistrarVenta(ctx context.Context, cajeroID uuid.UUID, sucursalID string, req dto.RegistrarVentaRequest) (*dto.VentaResponse, error)
	ListVentasDelDia(ctx context.Context, cajeroID uuid.UUID, sucursalID string, filter dto.VentaFilter) (*dto.VentaListResponse, error)
	AnularVenta(ctx context.Context, id uuid.UUID, motivo string) error
}

type ventaService struct {
	repo         repository.VentaRepository
	productoRepo repository.ProductoRepository
	backoffice   BackofficeClient
	ivaPct       decimal.Decimal
}

func NewVentaService(
	repo repository.VentaRepository,
	productoRepo repository.ProductoRepository,
	backoffice BackofficeClient,
	ivaPct decimal.Decimal,
) VentaService {
	return &ventaService{
		repo:         repo,
		productoRepo: productoRepo,
		backoffice:   backoffice,
		ivaPct:       ivaPct,
	}
}

// runTx executes fn inside a GORM transaction when db is available, or calls
// fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// FechaDia truncates t to the business day used in the (cajero, sucursal,
// fecha) scope key.
func FechaDia(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ── RegistrarVenta ────────────────────────────────────────────────────────────
// The whole sale session is replayed server-side:
//   1. Carrito from items (catalog prices, discount stack, day's rate)
//   2. Cobro from tenders — positives through AgregarPago, negatives through
//      the change dispenser
//   3. Confirmar: residual difference must be zero within 0.01 USD
//   4. BEGIN TX: persist venta, submit payload to the back office, COMMIT.
//      A failed submission rolls everything back — full payload or nothing.

func (s *ventaService) RegistrarVenta(ctx context.Context, cajeroID uuid.UUID, sucursalID string, req dto.RegistrarVentaRequest) (*dto.VentaResponse, error) {
	descCliente := ClampDescuento(req.DescuentoClientePct)
	descMoneda := ClampDescuento(req.DescuentoMonedaPct)

	carrito, err := NuevoCarrito(req.TasaDia, s.ivaPct, descCliente, descMoneda)
	if err != nil {
		return nil, err
	}

	stockAjustado := false
	for _, item := range req.Items {
		pid, err := uuid.Parse(item.ProductoID)
		if err != nil {
			return nil, &ErrValidacion{Campo: "producto_id", Detalle: "inválido"}
		}
		p, err := s.productoRepo.FindByID(ctx, pid)
		if err != nil {
			return nil, fmt.Errorf("producto %s no encontrado", item.ProductoID)
		}
		if !p.Activo {
			return nil, fmt.Errorf("producto %s está inactivo y no puede venderse", p.Nombre)
		}
		// AgregarItem clamps to the stock ceiling and merges repeated lines of
		// the same product — the clamp is non-fatal, surfaced in the response.
		ajustado, err := carrito.AgregarItem(ItemCarrito{
			ProductoID:       p.ID,
			Nombre:           p.Nombre,
			Cantidad:         item.Cantidad,
			StockDisponible:  p.StockActual,
			PrecioBaseUSD:    p.PrecioUSD,
			ConIVA:           p.ConIVA,
			CostoUnitarioUSD: p.CostoUSD,
		})
		if err != nil {
			return nil, err
		}
		stockAjustado = stockAjustado || ajustado
	}

	cobro := NuevoCobro(carrito.TotalUSD, req.TasaDia)
	for _, pago := range req.Pagos {
		var bancoID *uuid.UUID
		if pago.BancoID != nil {
			id, err := uuid.Parse(*pago.BancoID)
			if err != nil {
				return nil, &ErrValidacion{Campo: "banco_id", Detalle: "inválido"}
			}
			bancoID = &id
		}
		if pago.Monto.IsNegative() {
			err = cobro.DarVuelto(pago.Monto.Abs(), pago.Moneda, pago.Metodo, bancoID)
		} else {
			err = cobro.AgregarPago(pago.Monto, pago.Moneda, pago.Metodo, bancoID)
		}
		if err != nil {
			return nil, err
		}
	}

	if err := cobro.Confirmar(); err != nil {
		return nil, err
	}

	desdePOS := true
	if req.DesdePOS != nil {
		desdePOS = *req.DesdePOS
	}

	_, noConvertibles := cobro.TotalPagadoUSD()
	venta := model.Venta{
		SucursalID:          sucursalID,
		CajeroID:            cajeroID,
		Fecha:               FechaDia(time.Now()),
		TasaDia:             req.TasaDia,
		DescuentoClientePct: descCliente,
		DescuentoMonedaPct:  descMoneda,
		TotalUSD:            carrito.TotalUSD.Round(precisionDisplay),
		TotalVES:            carrito.TotalVES.Round(precisionDisplay),
		DesdePOS:            desdePOS,
		Estado:              "confirmada",
		Items:               carrito.LineasVenta(),
		Pagos:               cobro.Pagos,
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.Create(ctx, tx, &venta); err != nil {
			return err
		}
		// Submission inside the transaction: a rejected or unreachable back
		// office rolls back the local record too.
		return s.backoffice.EnviarVenta(ctx, &venta)
	})
	if txErr != nil {
		return nil, txErr
	}

	resp := ventaToResponse(&venta)
	resp.PagosNoConvertibles = noConvertibles
	resp.StockAjustado = stockAjustado
	return resp, nil
}

// ── ListVentasDelDia ──────────────────────────────────────────────────────────

func (s *ventaService) ListVentasDelDia(ctx context.Context, cajeroID uuid.UUID, sucursalID string, filter dto.VentaFilter) (*dto.VentaListResponse, error) {
	fecha := FechaDia(time.Now())
	if filter.Fecha != "" {
		parsed, err := time.Parse("2006-01-02", filter.Fecha)
		if err != nil {
			return nil, &ErrValidacion{Campo: "fecha", Detalle: "formato esperado YYYY-MM-DD"}
		}
		fecha = parsed
	}
	ventas, err := s.repo.ListDelDia(ctx, sucursalID, cajeroID, fecha)
	if err != nil {
		return nil, err
	}
	resp := &dto.VentaListResponse{
		Data:     make([]dto.VentaResponse, 0, len(ventas)),
		TotalUSD: decimal.Zero,
		TotalVES: decimal.Zero,
	}
	for i := range ventas {
		resp.Data = append(resp.Data, *ventaToResponse(&ventas[i]))
		resp.TotalUSD = resp.TotalUSD.Add(ventas[i].TotalUSD)
		resp.TotalVES = resp.TotalVES.Add(ventas[i].TotalVES)
	}
	return resp, nil
}

// ── AnularVenta ───────────────────────────────────────────────────────────────
// Annulled sales stay stored but are excluded from every cuadre fold.

func (s *ventaService) AnularVenta(ctx context.Context, id uuid.UUID, motivo string) error {
	venta, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return errors.New("venta no encontrada")
	}
	if venta.Estado == "anulada" {
		return errors.New("la venta ya está anulada")
	}
	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.UpdateEstadoTx(tx, id, "anulada")
	})
}

func ventaToResponse(v *model.Venta) *dto.VentaResponse {
	items := make([]dto.ItemVentaResponse, 0, len(v.Items))
	for _, item := range v.Items {
		items = append(items, dto.ItemVentaResponse{
			ProductoID:        item.ProductoID.String(),
			Producto:          item.Nombre,
			Cantidad:          item.Cantidad,
			PrecioUnitarioUSD: item.PrecioUnitarioUSD,
			PrecioUnitarioVES: item.PrecioUnitarioVES,
			SubtotalUSD:       item.SubtotalUSD,
			SubtotalVES:       item.SubtotalVES,
			DescuentoPct:      item.DescuentoPct,
		})
	}
	pagos := make([]dto.PagoResponse, 0, len(v.Pagos))
	for _, p := range v.Pagos {
		var bancoID *string
		if p.BancoID != nil {
			id := p.BancoID.String()
			bancoID = &id
		}
		pagos = append(pagos, dto.PagoResponse{
			Moneda:   p.Moneda,
			Metodo:   p.Metodo,
			BancoID:  bancoID,
			Monto:    p.Monto,
			EsVuelto: p.EsVuelto(),
		})
	}
	return &dto.VentaResponse{
		ID:         v.ID.String(),
		SucursalID: v.SucursalID,
		Fecha:      v.Fecha.Format("2006-01-02"),
		TasaDia:    v.TasaDia,
		TotalUSD:   v.TotalUSD,
		TotalVES:   v.TotalVES,
		Items:      items,
		Pagos:      pagos,
		Estado:     v.Estado,
		CreatedAt:  v.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
