package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"bodegon/internal/dto"
	"bodegon/internal/model"
	"bodegon/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── In-memory fakes ───────────────────────────────────────────────────────────

type memCuadreRepo struct {
	cuadres []*model.Cuadre
}

func (r *memCuadreRepo) DB() *gorm.DB { return nil }

func (r *memCuadreRepo) Create(_ context.Context, _ *gorm.DB, c *model.Cuadre) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.CreatedAt = time.Now()
	r.cuadres = append(r.cuadres, c)
	return nil
}

func (r *memCuadreRepo) FindPorDia(_ context.Context, sucursalID string, cajeroID uuid.UUID, fecha time.Time) (*model.Cuadre, error) {
	dia := fecha.Format("2006-01-02")
	for _, c := range r.cuadres {
		if c.SucursalID == sucursalID && c.CajeroID == cajeroID && c.Fecha.Format("2006-01-02") == dia {
			return c, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *memCuadreRepo) Historial(_ context.Context, sucursalID string, page, limit int) ([]model.Cuadre, int64, error) {
	var all []model.Cuadre
	for _, c := range r.cuadres {
		if c.SucursalID == sucursalID {
			all = append(all, *c)
		}
	}
	return all, int64(len(all)), nil
}

var _ repository.CuadreRepository = (*memCuadreRepo)(nil)

type memCostoRepo struct {
	costos map[uuid.UUID]decimal.Decimal
}

func (r *memCostoRepo) CostosPorSucursal(_ context.Context, _ string) (map[uuid.UUID]decimal.Decimal, error) {
	return r.costos, nil
}

var _ repository.CostoRepository = (*memCostoRepo)(nil)

type memFondoRepo struct {
	fondos map[string]*model.FondoCaja
}

func newMemFondoRepo() *memFondoRepo {
	return &memFondoRepo{fondos: make(map[string]*model.FondoCaja)}
}

func (r *memFondoRepo) Get(_ context.Context, sucursalID string, cajeroID uuid.UUID, fecha string) (*model.FondoCaja, error) {
	f, ok := r.fondos[model.FondoKey(sucursalID, cajeroID, fecha)]
	if !ok {
		return nil, repository.ErrFondoNoExiste
	}
	return f, nil
}

func (r *memFondoRepo) Put(_ context.Context, f *model.FondoCaja) error {
	if _, ok := r.fondos[f.Key()]; ok {
		return repository.ErrFondoYaAbierto
	}
	r.fondos[f.Key()] = f
	return nil
}

func (r *memFondoRepo) Delete(_ context.Context, sucursalID string, cajeroID uuid.UUID, fecha string) error {
	delete(r.fondos, model.FondoKey(sucursalID, cajeroID, fecha))
	return nil
}

var _ repository.FondoRepository = (*memFondoRepo)(nil)

// ── Fixture ───────────────────────────────────────────────────────────────────

type cuadreFixture struct {
	cajeroID   uuid.UUID
	sucursalID string
	hoy        time.Time
	ventaRepo  *memVentaRepo
	cuadreRepo *memCuadreRepo
	costoRepo  *memCostoRepo
	fondoRepo  *memFondoRepo
	backoffice *fakeBackoffice
	svc        CuadreService
}

func newCuadreFixture(t *testing.T) *cuadreFixture {
	t.Helper()
	f := &cuadreFixture{
		cajeroID:   uuid.New(),
		sucursalID: "suc-01",
		hoy:        FechaDia(time.Now()),
		ventaRepo:  newMemVentaRepo(),
		cuadreRepo: &memCuadreRepo{},
		costoRepo:  &memCostoRepo{costos: make(map[uuid.UUID]decimal.Decimal)},
		fondoRepo:  newMemFondoRepo(),
		backoffice: &fakeBackoffice{},
	}
	f.svc = NewCuadreService(f.cuadreRepo, f.ventaRepo, f.costoRepo, f.fondoRepo, f.backoffice)

	require.NoError(t, f.fondoRepo.Put(context.Background(), &model.FondoCaja{
		SucursalID:  f.sucursalID,
		CajeroID:    f.cajeroID,
		Fecha:       f.hoy.Format("2006-01-02"),
		EfectivoVES: decimal.NewFromInt(500),
		EfectivoUSD: decimal.NewFromInt(20),
	}))
	return f
}

// venta agrega una venta confirmada del día con un ítem y los pagos dados.
func (f *cuadreFixture) venta(t *testing.T, totalUSD float64, costo *float64, pagos ...model.VentaPago) {
	t.Helper()
	pid := uuid.New()
	var costoDec *decimal.Decimal
	if costo != nil {
		d := decimal.NewFromFloat(*costo)
		costoDec = &d
		f.costoRepo.costos[pid] = d
	}
	total := decimal.NewFromFloat(totalUSD)
	require.NoError(t, f.ventaRepo.Create(context.Background(), nil, &model.Venta{
		SucursalID: f.sucursalID,
		CajeroID:   f.cajeroID,
		Fecha:      f.hoy,
		TasaDia:    decimal.NewFromInt(40),
		TotalUSD:   total,
		Estado:     "confirmada",
		Items: []model.VentaItem{{
			ProductoID:       pid,
			Cantidad:         1,
			PrecioBaseUSD:    total,
			SubtotalUSD:      total,
			CostoUnitarioUSD: costoDec,
		}},
		Pagos: pagos,
	}))
}

func pago(monto float64, moneda, metodo string) model.VentaPago {
	return model.VentaPago{Moneda: moneda, Metodo: metodo, Monto: decimal.NewFromFloat(monto)}
}

func cerrar(f *cuadreFixture, declaracion dto.DeclaracionCuadre) (*dto.CuadreResponse, error) {
	return f.svc.Cerrar(context.Background(), f.cajeroID, f.sucursalID, dto.CerrarCuadreRequest{
		TasaDia:     decimal.NewFromInt(40),
		Declaracion: declaracion,
	})
}

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestCuadreSinVarianza(t *testing.T) {
	f := newCuadreFixture(t)
	costo := 60.0
	f.venta(t, 100, &costo,
		pago(2000, model.MonedaVES, model.MetodoEfectivo), // 50 USD
		pago(50, model.MonedaUSD, model.MetodoEfectivo),
	)

	resp, err := cerrar(f, dto.DeclaracionCuadre{
		EfectivoVES: decimal.NewFromInt(2000),
		EfectivoUSD: decimal.NewFromInt(50),
	})
	require.NoError(t, err)
	assert.Equal(t, "100", resp.Esperado.TotalSistemaUSD.String())
	assert.True(t, resp.Varianza.VarianzaUSD.IsZero())
	assert.True(t, resp.Varianza.SobranteUSD.IsZero())
	assert.True(t, resp.Varianza.FaltanteUSD.IsZero())
}

func TestCuadreSobranteCuatroDecimales(t *testing.T) {
	f := newCuadreFixture(t)
	costo := 70.0
	f.venta(t, 120, &costo, pago(120, model.MonedaUSD, model.MetodoEfectivo))

	// Declara 120.0050 contra 120.0000 esperado
	resp, err := cerrar(f, dto.DeclaracionCuadre{
		EfectivoUSD: decimal.NewFromFloat(120.0050),
	})
	require.NoError(t, err)
	assert.Equal(t, "0.005", resp.Varianza.VarianzaUSD.String())
	assert.Equal(t, "0.005", resp.Varianza.SobranteUSD.String())
	assert.True(t, resp.Varianza.FaltanteUSD.IsZero())
}

func TestCuadreFaltanteExcluyenteConSobrante(t *testing.T) {
	f := newCuadreFixture(t)
	costo := 10.0
	f.venta(t, 80, &costo, pago(80, model.MonedaUSD, model.MetodoEfectivo))

	resp, err := cerrar(f, dto.DeclaracionCuadre{
		EfectivoUSD: decimal.NewFromInt(75),
	})
	require.NoError(t, err)
	assert.Equal(t, "-5", resp.Varianza.VarianzaUSD.String())
	assert.Equal(t, "5", resp.Varianza.FaltanteUSD.String())
	assert.True(t, resp.Varianza.SobranteUSD.IsZero())
}

func TestCuadreValesExcluidosDelEsperado(t *testing.T) {
	f := newCuadreFixture(t)
	costo := 5.0
	f.venta(t, 30, &costo,
		pago(10, model.MonedaUSD, model.MetodoVale),
		pago(20, model.MonedaUSD, model.MetodoEfectivo),
	)

	resp, err := cerrar(f, dto.DeclaracionCuadre{
		EfectivoUSD: decimal.NewFromInt(20),
	})
	require.NoError(t, err)
	// El vale es crédito prepagado: esperado = 30 − 10 = 20
	assert.Equal(t, "10", resp.Esperado.ValesUSD.String())
	assert.Equal(t, "20", resp.Varianza.TotalEsperadoUSD.String())
	assert.True(t, resp.Varianza.VarianzaUSD.IsZero())
}

func TestCuadreVueltosReducenElCanal(t *testing.T) {
	f := newCuadreFixture(t)
	costo := 5.0
	// Pagó 50, vuelto de 5: el cajón de efectivo USD tiene 45 netos
	f.venta(t, 45, &costo,
		pago(50, model.MonedaUSD, model.MetodoEfectivo),
		pago(-5, model.MonedaUSD, model.MetodoEfectivo),
	)

	resp, err := cerrar(f, dto.DeclaracionCuadre{
		EfectivoUSD: decimal.NewFromInt(45),
	})
	require.NoError(t, err)
	assert.Equal(t, "45", resp.Esperado.EfectivoUSD.String())
	assert.True(t, resp.Varianza.VarianzaUSD.IsZero())
}

func TestCuadreIncompletoSinTasa(t *testing.T) {
	f := newCuadreFixture(t)
	costo := 5.0
	f.venta(t, 10, &costo, pago(10, model.MonedaUSD, model.MetodoEfectivo))

	_, err := f.svc.Cerrar(context.Background(), f.cajeroID, f.sucursalID, dto.CerrarCuadreRequest{
		TasaDia:     decimal.Zero,
		Declaracion: dto.DeclaracionCuadre{EfectivoUSD: decimal.NewFromInt(10)},
	})
	var incompleto *ErrCuadreIncompleto
	require.True(t, errors.As(err, &incompleto))
	assert.Contains(t, incompleto.Faltan, "tasa_dia")
	assert.Empty(t, f.cuadreRepo.cuadres) // nada persistido
}

func TestCuadreIncompletoSinCosto(t *testing.T) {
	f := newCuadreFixture(t)
	f.venta(t, 10, nil, pago(10, model.MonedaUSD, model.MetodoEfectivo))

	_, err := cerrar(f, dto.DeclaracionCuadre{EfectivoUSD: decimal.NewFromInt(10)})
	var incompleto *ErrCuadreIncompleto
	require.True(t, errors.As(err, &incompleto))
	assert.Contains(t, incompleto.Faltan, "costo_inventario")
}

func TestCuadreCostoFallbackDeLinea(t *testing.T) {
	f := newCuadreFixture(t)
	// Producto sin costo en inventario pero con costo congelado en la línea
	pid := uuid.New()
	costoLinea := decimal.NewFromInt(3)
	require.NoError(t, f.ventaRepo.Create(context.Background(), nil, &model.Venta{
		SucursalID: f.sucursalID, CajeroID: f.cajeroID, Fecha: f.hoy,
		TasaDia: decimal.NewFromInt(40), TotalUSD: decimal.NewFromInt(10), Estado: "confirmada",
		Items: []model.VentaItem{{ProductoID: pid, Cantidad: 2, CostoUnitarioUSD: &costoLinea}},
		Pagos: []model.VentaPago{pago(10, model.MonedaUSD, model.MetodoEfectivo)},
	}))

	resp, err := cerrar(f, dto.DeclaracionCuadre{EfectivoUSD: decimal.NewFromInt(10)})
	require.NoError(t, err)
	assert.Equal(t, "6", resp.Costo.CostoInventarioUSD.String()) // 3 * 2
	assert.Zero(t, resp.Costo.LineasSinCosto)
}

func TestCuadreLineasSinCostoDiagnostico(t *testing.T) {
	f := newCuadreFixture(t)
	costo := 4.0
	f.venta(t, 10, &costo, pago(10, model.MonedaUSD, model.MetodoEfectivo))
	// Segunda venta sin costo en ninguna fuente
	require.NoError(t, f.ventaRepo.Create(context.Background(), nil, &model.Venta{
		SucursalID: f.sucursalID, CajeroID: f.cajeroID, Fecha: f.hoy,
		TasaDia: decimal.NewFromInt(40), TotalUSD: decimal.NewFromInt(5), Estado: "confirmada",
		Items: []model.VentaItem{{ProductoID: uuid.New(), Cantidad: 1}},
		Pagos: []model.VentaPago{pago(5, model.MonedaUSD, model.MetodoEfectivo)},
	}))

	resp, err := cerrar(f, dto.DeclaracionCuadre{EfectivoUSD: decimal.NewFromInt(15)})
	require.NoError(t, err)
	assert.Equal(t, "4", resp.Costo.CostoInventarioUSD.String())
	assert.Equal(t, 1, resp.Costo.LineasSinCosto)
}

func TestCuadreAutocompletaPuntoDesdePOS(t *testing.T) {
	f := newCuadreFixture(t)
	costo := 5.0
	f.venta(t, 50, &costo, pago(2000, model.MonedaVES, model.MetodoPunto))

	// Declaración sin punto_ves y origen POS: se autocompleta con el sistema
	resp, err := cerrar(f, dto.DeclaracionCuadre{})
	require.NoError(t, err)
	assert.Equal(t, "2000", resp.Varianza.TotalDeclaradoVES.String())
	assert.True(t, resp.Varianza.VarianzaUSD.IsZero())
}

func TestCuadreNoAutocompletaCapturaManual(t *testing.T) {
	f := newCuadreFixture(t)
	costo := 5.0
	f.venta(t, 50, &costo, pago(2000, model.MonedaVES, model.MetodoPunto))

	manual := false
	_, err := f.svc.Cerrar(context.Background(), f.cajeroID, f.sucursalID, dto.CerrarCuadreRequest{
		TasaDia:     decimal.NewFromInt(40),
		Declaracion: dto.DeclaracionCuadre{},
		DesdePOS:    &manual,
	})
	require.NoError(t, err)
	// Captura manual declara explícito: sin autocompletar hay faltante de 50
	assert.Equal(t, "50", f.cuadreRepo.cuadres[0].FaltanteUSD.String())
}

func TestCuadreDuplicadoRechazado(t *testing.T) {
	f := newCuadreFixture(t)
	costo := 5.0
	f.venta(t, 10, &costo, pago(10, model.MonedaUSD, model.MetodoEfectivo))

	_, err := cerrar(f, dto.DeclaracionCuadre{EfectivoUSD: decimal.NewFromInt(10)})
	require.NoError(t, err)

	// El fondo ya fue borrado al cerrar; reabrirlo para aislar la causa
	require.NoError(t, f.fondoRepo.Put(context.Background(), &model.FondoCaja{
		SucursalID: f.sucursalID, CajeroID: f.cajeroID, Fecha: f.hoy.Format("2006-01-02"),
	}))
	_, err = cerrar(f, dto.DeclaracionCuadre{EfectivoUSD: decimal.NewFromInt(10)})
	assert.ErrorContains(t, err, "ya existe un cuadre")
}

func TestCuadreSinFondoAbierto(t *testing.T) {
	f := newCuadreFixture(t)
	otroCajero := uuid.New()
	_, err := f.svc.Cerrar(context.Background(), otroCajero, f.sucursalID, dto.CerrarCuadreRequest{
		TasaDia:     decimal.NewFromInt(40),
		Declaracion: dto.DeclaracionCuadre{},
	})
	assert.ErrorIs(t, err, repository.ErrFondoNoExiste)
}

func TestCuadreBorraElFondoAlCerrar(t *testing.T) {
	f := newCuadreFixture(t)
	costo := 5.0
	f.venta(t, 10, &costo, pago(10, model.MonedaUSD, model.MetodoEfectivo))

	_, err := cerrar(f, dto.DeclaracionCuadre{EfectivoUSD: decimal.NewFromInt(10)})
	require.NoError(t, err)

	_, err = f.fondoRepo.Get(context.Background(), f.sucursalID, f.cajeroID, f.hoy.Format("2006-01-02"))
	assert.ErrorIs(t, err, repository.ErrFondoNoExiste)
	require.Len(t, f.backoffice.cuadres, 1)
}

func TestCuadreCanalesMixtosConConversion(t *testing.T) {
	f := newCuadreFixture(t)
	costo := 40.0
	// 100 USD: 1600 VES pago móvil (40) + 30 zelle + 30 efectivo USD
	f.venta(t, 100, &costo,
		pago(1600, model.MonedaVES, model.MetodoPagoMovil),
		pago(30, model.MonedaUSD, model.MetodoZelle),
		pago(30, model.MonedaUSD, model.MetodoEfectivo),
	)

	resp, err := cerrar(f, dto.DeclaracionCuadre{
		PagoMovilVES: decimal.NewFromInt(1600),
		ZelleUSD:     decimal.NewFromInt(30),
		EfectivoUSD:  decimal.NewFromInt(30),
	})
	require.NoError(t, err)
	assert.Equal(t, "1600", resp.Esperado.PagoMovilVES.String())
	assert.Equal(t, "30", resp.Esperado.ZelleUSD.String())
	assert.Equal(t, "1600", resp.Varianza.TotalDeclaradoVES.String())
	assert.True(t, resp.Varianza.VarianzaUSD.IsZero())
}

func TestResumenNoRequiereDeclaracion(t *testing.T) {
	f := newCuadreFixture(t)
	costo := 2.0
	f.venta(t, 10, &costo, pago(10, model.MonedaUSD, model.MetodoEfectivo))

	resp, err := f.svc.Resumen(context.Background(), f.cajeroID, f.sucursalID, "")
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Ventas)
	assert.Equal(t, "10", resp.Esperado.TotalSistemaUSD.String())
	assert.Equal(t, "500", resp.Fondo.EfectivoVES.String())
	assert.Empty(t, f.cuadreRepo.cuadres) // el resumen nunca persiste
}
