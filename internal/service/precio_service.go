package service

import (
	"context"
	"errors"

	"bodegon/internal/dto"
	"bodegon/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PrecioService interface {
	// Cotizar resolves a catalog product and prices it in both currencies
	// under the given discount stack, without touching any cart.
	Cotizar(ctx context.Context, sucursalID string, req dto.CotizarPrecioRequest) (*dto.PrecioResponse, error)
	// BuscarProductos runs a last-request-wins catalog search for one cajero.
	BuscarProductos(ctx context.Context, cajeroID uuid.UUID, sucursalID, query string, limit int) ([]dto.ProductoResponse, error)
	// PorCodigoBarras resolves a scanned barcode to its product.
	PorCodigoBarras(ctx context.Context, sucursalID, codigo string) (*dto.ProductoResponse, error)
}

type precioService struct {
	repo     repository.ProductoRepository
	buscador *BuscadorProductos
}

func NewPrecioService(repo repository.ProductoRepository) PrecioService {
	return &precioService{
		repo:     repo,
		buscador: NewBuscadorProductos(repo),
	}
}

func (s *precioService) Cotizar(ctx context.Context, sucursalID string, req dto.CotizarPrecioRequest) (*dto.PrecioResponse, error) {
	pid, err := uuid.Parse(req.ProductoID)
	if err != nil {
		return nil, &ErrValidacion{Campo: "producto_id", Detalle: "inválido"}
	}
	p, err := s.repo.FindByID(ctx, pid)
	if err != nil {
		return nil, errors.New("producto no encontrado")
	}
	if p.SucursalID != sucursalID {
		return nil, errors.New("producto no pertenece a esta sucursal")
	}

	// Copia del stack: el clamp no debe escribir sobre el slice del caller.
	stack := make([]decimal.Decimal, len(req.Descuentos))
	for i, d := range req.Descuentos {
		stack[i] = ClampDescuento(d)
	}
	precio, err := PrecioUnitario(p.PrecioUSD, req.TasaDia, stack)
	if err != nil {
		return nil, err
	}

	return &dto.PrecioResponse{
		ProductoID:        p.ID.String(),
		Producto:          p.Nombre,
		PrecioBaseUSD:     p.PrecioUSD,
		PrecioUSD:         precio.USD.Round(precisionDisplay),
		PrecioVES:         precio.VES.Round(precisionDisplay),
		DescuentoTotalPct: SumaDescuentos(stack),
		ConIVA:            p.ConIVA,
	}, nil
}

func (s *precioService) BuscarProductos(ctx context.Context, cajeroID uuid.UUID, sucursalID, query string, limit int) ([]dto.ProductoResponse, error) {
	if len(query) < 2 {
		return nil, &ErrValidacion{Campo: "q", Detalle: "mínimo 2 caracteres"}
	}
	productos, err := s.buscador.Buscar(ctx, cajeroID, sucursalID, query, limit)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.ProductoResponse, 0, len(productos))
	for _, p := range productos {
		resp = append(resp, dto.ProductoResponse{
			ID:           p.ID.String(),
			CodigoBarras: p.CodigoBarras,
			Nombre:       p.Nombre,
			PrecioUSD:    p.PrecioUSD,
			StockActual:  p.StockActual,
			ConIVA:       p.ConIVA,
		})
	}
	return resp, nil
}

func (s *precioService) PorCodigoBarras(ctx context.Context, sucursalID, codigo string) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByBarcode(ctx, sucursalID, codigo)
	if err != nil {
		return nil, errors.New("producto no encontrado")
	}
	return &dto.ProductoResponse{
		ID:           p.ID.String(),
		CodigoBarras: p.CodigoBarras,
		Nombre:       p.Nombre,
		PrecioUSD:    p.PrecioUSD,
		StockActual:  p.StockActual,
		ConIVA:       p.ConIVA,
	}, nil
}
