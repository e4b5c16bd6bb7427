package service

import (
	"context"
	"errors"
	"time"

	"bodegon/internal/dto"
	"bodegon/internal/model"
	"bodegon/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CuadreService interface {
	// Resumen previews the expected side of the cuadre before the operator
	// declares the counted amounts (blind count stays blind: no variance yet).
	Resumen(ctx context.Context, cajeroID uuid.UUID, sucursalID string, fecha string) (*dto.ResumenCuadreResponse, error)
	// Cerrar computes and persists the reconciliation, submits it to the back
	// office and clears the float — the shift is closed after this.
	Cerrar(ctx context.Context, cajeroID uuid.UUID, sucursalID string, req dto.CerrarCuadreRequest) (*dto.CuadreResponse, error)
	Historial(ctx context.Context, sucursalID string, page, limit int) (*dto.CuadreHistorialResponse, error)
}

type cuadreService struct {
	repo       repository.CuadreRepository
	ventaRepo  repository.VentaRepository
	costoRepo  repository.CostoRepository
	fondoRepo  repository.FondoRepository
	backoffice BackofficeClient
}

func NewCuadreService(
	repo repository.CuadreRepository,
	ventaRepo repository.VentaRepository,
	costoRepo repository.CostoRepository,
	fondoRepo repository.FondoRepository,
	backoffice BackofficeClient,
) CuadreService {
	return &cuadreService{
		repo:       repo,
		ventaRepo:  ventaRepo,
		costoRepo:  costoRepo,
		fondoRepo:  fondoRepo,
		backoffice: backoffice,
	}
}

// agregadosDia is the fold over one day's confirmed ventas: system totals,
// per-channel sums (signed — change disbursements reduce their channel) and
// the cost of goods with its missing-cost diagnostic.
type agregadosDia struct {
	ventas          int
	totalSistemaUSD decimal.Decimal
	puntoVES        decimal.Decimal
	pagoMovilVES    decimal.Decimal
	efectivoVES     decimal.Decimal
	efectivoUSD     decimal.Decimal
	zelleUSD        decimal.Decimal
	valesUSD        decimal.Decimal
	costoUSD        decimal.Decimal
	lineasSinCosto  int
}

func agregarVentasDia(ventas []model.Venta, costos map[uuid.UUID]decimal.Decimal) agregadosDia {
	agg := agregadosDia{
		totalSistemaUSD: decimal.Zero,
		puntoVES:        decimal.Zero,
		pagoMovilVES:    decimal.Zero,
		efectivoVES:     decimal.Zero,
		efectivoUSD:     decimal.Zero,
		zelleUSD:        decimal.Zero,
		valesUSD:        decimal.Zero,
		costoUSD:        decimal.Zero,
	}
	for _, v := range ventas {
		agg.ventas++
		agg.totalSistemaUSD = agg.totalSistemaUSD.Add(v.TotalUSD)

		for _, p := range v.Pagos {
			switch {
			case p.Metodo == model.MetodoEfectivo && p.Moneda == model.MonedaVES:
				agg.efectivoVES = agg.efectivoVES.Add(p.Monto)
			case p.Metodo == model.MetodoEfectivo && p.Moneda == model.MonedaUSD:
				agg.efectivoUSD = agg.efectivoUSD.Add(p.Monto)
			case p.Metodo == model.MetodoPunto && p.Moneda == model.MonedaVES:
				agg.puntoVES = agg.puntoVES.Add(p.Monto)
			case p.Metodo == model.MetodoPagoMovil && p.Moneda == model.MonedaVES:
				agg.pagoMovilVES = agg.pagoMovilVES.Add(p.Monto)
			case p.Metodo == model.MetodoZelle && p.Moneda == model.MonedaUSD:
				agg.zelleUSD = agg.zelleUSD.Add(p.Monto)
			case p.Metodo == model.MetodoVale && p.Moneda == model.MonedaUSD:
				agg.valesUSD = agg.valesUSD.Add(p.Monto)
			}
		}

		for _, item := range v.Items {
			costo, ok := costos[item.ProductoID]
			if !ok {
				// Fall back to the cost frozen on the line; if neither
				// source exists the line contributes 0 and is counted —
				// never a silent reduction.
				if item.CostoUnitarioUSD == nil {
					agg.lineasSinCosto++
					continue
				}
				costo = *item.CostoUnitarioUSD
			}
			agg.costoUSD = agg.costoUSD.Add(costo.Mul(decimal.NewFromInt(int64(item.Cantidad))))
		}
	}
	return agg
}

// ── Resumen ───────────────────────────────────────────────────────────────────

func (s *cuadreService) Resumen(ctx context.Context, cajeroID uuid.UUID, sucursalID string, fecha string) (*dto.ResumenCuadreResponse, error) {
	dia, err := parseFecha(fecha)
	if err != nil {
		return nil, err
	}
	fondo, err := s.fondoRepo.Get(ctx, sucursalID, cajeroID, dia.Format("2006-01-02"))
	if err != nil {
		return nil, err
	}
	ventas, err := s.ventaRepo.ListDelDia(ctx, sucursalID, cajeroID, dia)
	if err != nil {
		return nil, err
	}
	costos, err := s.costoRepo.CostosPorSucursal(ctx, sucursalID)
	if err != nil {
		return nil, err
	}
	agg := agregarVentasDia(ventas, costos)

	return &dto.ResumenCuadreResponse{
		SucursalID: sucursalID,
		Fecha:      dia.Format("2006-01-02"),
		Ventas:     agg.ventas,
		Fondo:      dto.FondoCuadre{EfectivoVES: fondo.EfectivoVES, EfectivoUSD: fondo.EfectivoUSD},
		Esperado:   esperadoFromAgregados(agg),
		Costo:      dto.CostoCuadre{CostoInventarioUSD: agg.costoUSD.Round(precisionDisplay), LineasSinCosto: agg.lineasSinCosto},
	}, nil
}

// ── Cerrar ────────────────────────────────────────────────────────────────────

func (s *cuadreService) Cerrar(ctx context.Context, cajeroID uuid.UUID, sucursalID string, req dto.CerrarCuadreRequest) (*dto.CuadreResponse, error) {
	dia, err := parseFecha(req.Fecha)
	if err != nil {
		return nil, err
	}
	fechaStr := dia.Format("2006-01-02")

	if existing, err := s.repo.FindPorDia(ctx, sucursalID, cajeroID, dia); err == nil && existing != nil {
		return nil, errors.New("ya existe un cuadre para este cajero y fecha")
	}

	fondo, err := s.fondoRepo.Get(ctx, sucursalID, cajeroID, fechaStr)
	if err != nil {
		return nil, err
	}
	ventas, err := s.ventaRepo.ListDelDia(ctx, sucursalID, cajeroID, dia)
	if err != nil {
		return nil, err
	}
	costos, err := s.costoRepo.CostosPorSucursal(ctx, sucursalID)
	if err != nil {
		return nil, err
	}
	agg := agregarVentasDia(ventas, costos)

	// A cuadre without a valid rate or a positive cost of goods cannot be
	// trusted — refuse instead of producing a zero-filled record.
	var faltan []string
	if !req.TasaDia.IsPositive() {
		faltan = append(faltan, "tasa_dia")
	}
	if !agg.costoUSD.IsPositive() {
		faltan = append(faltan, "costo_inventario")
	}
	if len(faltan) > 0 {
		return nil, &ErrCuadreIncompleto{Faltan: faltan}
	}

	desdePOS := true
	if req.DesdePOS != nil {
		desdePOS = *req.DesdePOS
	}

	declarado := req.Declaracion
	// Card totals auto-populate only for POS-originated closes with a
	// positive system card total; manual captures always declare explicitly.
	if declarado.PuntoVES.IsZero() && desdePOS && agg.puntoVES.IsPositive() {
		declarado.PuntoVES = agg.puntoVES
	}

	totalDeclaradoVES := declarado.EfectivoVES.Add(declarado.PuntoVES).Add(declarado.PagoMovilVES)
	totalDeclaradoUSD := totalDeclaradoVES.Div(req.TasaDia).
		Add(declarado.EfectivoUSD).
		Add(declarado.ZelleUSD)
	totalEsperadoUSD := agg.totalSistemaUSD.Sub(agg.valesUSD)

	varianza := totalDeclaradoUSD.Sub(totalEsperadoUSD).Round(precisionCuadre)
	sobrante := decimal.Zero
	faltante := decimal.Zero
	if varianza.IsPositive() {
		sobrante = varianza
	} else {
		faltante = varianza.Neg()
	}

	cuadre := model.Cuadre{
		SucursalID:            sucursalID,
		CajeroID:              cajeroID,
		Fecha:                 dia,
		TasaDia:               req.TasaDia,
		FondoVES:              fondo.EfectivoVES,
		FondoUSD:              fondo.EfectivoUSD,
		TotalSistemaUSD:       agg.totalSistemaUSD,
		PuntoVES:              agg.puntoVES,
		PagoMovilVES:          agg.pagoMovilVES,
		EfectivoVES:           agg.efectivoVES,
		EfectivoUSD:           agg.efectivoUSD,
		ZelleUSD:              agg.zelleUSD,
		ValesUSD:              agg.valesUSD,
		CostoInventarioUSD:    agg.costoUSD.Round(precisionDisplay),
		LineasSinCosto:        agg.lineasSinCosto,
		DeclaradoEfectivoVES:  declarado.EfectivoVES,
		DeclaradoPuntoVES:     declarado.PuntoVES,
		DeclaradoPagoMovilVES: declarado.PagoMovilVES,
		DeclaradoEfectivoUSD:  declarado.EfectivoUSD,
		DeclaradoZelleUSD:     declarado.ZelleUSD,
		TotalDeclaradoVES:     totalDeclaradoVES,
		TotalDeclaradoUSD:     totalDeclaradoUSD.Round(precisionCuadre),
		TotalEsperadoUSD:      totalEsperadoUSD.Round(precisionCuadre),
		VarianzaUSD:           varianza,
		SobranteUSD:           sobrante,
		FaltanteUSD:           faltante,
		DesdePOS:              desdePOS,
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.Create(ctx, tx, &cuadre); err != nil {
			return err
		}
		return s.backoffice.EnviarCuadre(ctx, &cuadre)
	})
	if txErr != nil {
		return nil, txErr
	}

	// Shift closed: the float key is deleted. A failure here leaves a stale
	// key that the TTL clears; the cuadre itself is already safe.
	_ = s.fondoRepo.Delete(ctx, sucursalID, cajeroID, fechaStr)

	return cuadreToResponse(&cuadre), nil
}

// ── Historial ─────────────────────────────────────────────────────────────────

func (s *cuadreService) Historial(ctx context.Context, sucursalID string, page, limit int) (*dto.CuadreHistorialResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	cuadres, total, err := s.repo.Historial(ctx, sucursalID, page, limit)
	if err != nil {
		return nil, err
	}
	resp := &dto.CuadreHistorialResponse{
		Data:  make([]dto.CuadreResponse, 0, len(cuadres)),
		Total: total,
		Page:  page,
		Limit: limit,
	}
	for i := range cuadres {
		resp.Data = append(resp.Data, *cuadreToResponse(&cuadres[i]))
	}
	return resp, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func parseFecha(fecha string) (time.Time, error) {
	if fecha == "" {
		return FechaDia(time.Now()), nil
	}
	dia, err := time.Parse("2006-01-02", fecha)
	if err != nil {
		return time.Time{}, &ErrValidacion{Campo: "fecha", Detalle: "formato esperado YYYY-MM-DD"}
	}
	return dia, nil
}

func esperadoFromAgregados(agg agregadosDia) dto.EsperadoCuadre {
	return dto.EsperadoCuadre{
		TotalSistemaUSD:  agg.totalSistemaUSD,
		PuntoVES:         agg.puntoVES,
		PagoMovilVES:     agg.pagoMovilVES,
		EfectivoVES:      agg.efectivoVES,
		EfectivoUSD:      agg.efectivoUSD,
		ZelleUSD:         agg.zelleUSD,
		ValesUSD:         agg.valesUSD,
		TotalEsperadoUSD: agg.totalSistemaUSD.Sub(agg.valesUSD),
	}
}

func cuadreToResponse(c *model.Cuadre) *dto.CuadreResponse {
	return &dto.CuadreResponse{
		ID:         c.ID.String(),
		SucursalID: c.SucursalID,
		CajeroID:   c.CajeroID.String(),
		Fecha:      c.Fecha.Format("2006-01-02"),
		TasaDia:    c.TasaDia,
		Fondo:      dto.FondoCuadre{EfectivoVES: c.FondoVES, EfectivoUSD: c.FondoUSD},
		Esperado: dto.EsperadoCuadre{
			TotalSistemaUSD:  c.TotalSistemaUSD,
			PuntoVES:         c.PuntoVES,
			PagoMovilVES:     c.PagoMovilVES,
			EfectivoVES:      c.EfectivoVES,
			EfectivoUSD:      c.EfectivoUSD,
			ZelleUSD:         c.ZelleUSD,
			ValesUSD:         c.ValesUSD,
			TotalEsperadoUSD: c.TotalEsperadoUSD,
		},
		Costo: dto.CostoCuadre{CostoInventarioUSD: c.CostoInventarioUSD, LineasSinCosto: c.LineasSinCosto},
		Varianza: dto.VarianzaCuadre{
			TotalDeclaradoVES: c.TotalDeclaradoVES,
			TotalDeclaradoUSD: c.TotalDeclaradoUSD,
			TotalEsperadoUSD:  c.TotalEsperadoUSD,
			VarianzaUSD:       c.VarianzaUSD,
			SobranteUSD:       c.SobranteUSD,
			FaltanteUSD:       c.FaltanteUSD,
		},
		DesdePOS:  c.DesdePOS,
		CreatedAt: c.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
