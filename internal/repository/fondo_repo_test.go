package repository

import (
	"context"
	"testing"

	"bodegon/internal/model"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupFondoRepo(t *testing.T) (FondoRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewFondoRepository(rdb), mr
}

func fondoPrueba(cajeroID uuid.UUID) *model.FondoCaja {
	return &model.FondoCaja{
		SucursalID:  "suc-01",
		CajeroID:    cajeroID,
		Fecha:       "2026-08-30",
		EfectivoVES: decimal.NewFromInt(500),
		EfectivoUSD: decimal.NewFromInt(20),
	}
}

func TestFondoPutGet(t *testing.T) {
	repo, _ := setupFondoRepo(t)
	cajeroID := uuid.New()

	require.NoError(t, repo.Put(context.Background(), fondoPrueba(cajeroID)))

	f, err := repo.Get(context.Background(), "suc-01", cajeroID, "2026-08-30")
	require.NoError(t, err)
	assert.Equal(t, "500", f.EfectivoVES.String())
	assert.Equal(t, "20", f.EfectivoUSD.String())
	assert.Equal(t, cajeroID, f.CajeroID)
}

func TestFondoEscrituraUnica(t *testing.T) {
	repo, _ := setupFondoRepo(t)
	cajeroID := uuid.New()

	require.NoError(t, repo.Put(context.Background(), fondoPrueba(cajeroID)))

	// Segundo open del mismo turno: rechazado sin sobrescribir
	otro := fondoPrueba(cajeroID)
	otro.EfectivoVES = decimal.NewFromInt(9999)
	err := repo.Put(context.Background(), otro)
	assert.ErrorIs(t, err, ErrFondoYaAbierto)

	f, err := repo.Get(context.Background(), "suc-01", cajeroID, "2026-08-30")
	require.NoError(t, err)
	assert.Equal(t, "500", f.EfectivoVES.String())
}

func TestFondoClavesPorAmbito(t *testing.T) {
	repo, _ := setupFondoRepo(t)
	cajeroID := uuid.New()

	require.NoError(t, repo.Put(context.Background(), fondoPrueba(cajeroID)))

	// Otro cajero, otra sucursal u otro día no colisionan
	otroCajero := fondoPrueba(uuid.New())
	require.NoError(t, repo.Put(context.Background(), otroCajero))

	otroDia := fondoPrueba(cajeroID)
	otroDia.Fecha = "2026-08-31"
	require.NoError(t, repo.Put(context.Background(), otroDia))

	otraSucursal := fondoPrueba(cajeroID)
	otraSucursal.SucursalID = "suc-02"
	require.NoError(t, repo.Put(context.Background(), otraSucursal))
}

func TestFondoNoExiste(t *testing.T) {
	repo, _ := setupFondoRepo(t)
	_, err := repo.Get(context.Background(), "suc-01", uuid.New(), "2026-08-30")
	assert.ErrorIs(t, err, ErrFondoNoExiste)
}

func TestFondoDelete(t *testing.T) {
	repo, _ := setupFondoRepo(t)
	cajeroID := uuid.New()

	require.NoError(t, repo.Put(context.Background(), fondoPrueba(cajeroID)))
	require.NoError(t, repo.Delete(context.Background(), "suc-01", cajeroID, "2026-08-30"))

	_, err := repo.Get(context.Background(), "suc-01", cajeroID, "2026-08-30")
	assert.ErrorIs(t, err, ErrFondoNoExiste)

	// Tras el borrado un nuevo turno puede abrir de nuevo
	require.NoError(t, repo.Put(context.Background(), fondoPrueba(cajeroID)))
}

func TestFondoTTLDeSeguridad(t *testing.T) {
	repo, mr := setupFondoRepo(t)
	cajeroID := uuid.New()

	require.NoError(t, repo.Put(context.Background(), fondoPrueba(cajeroID)))

	// Un fondo nunca cerrado expira solo con el TTL de seguridad
	mr.FastForward(fondoTTL)
	_, err := repo.Get(context.Background(), "suc-01", cajeroID, "2026-08-30")
	assert.ErrorIs(t, err, ErrFondoNoExiste)
}
