package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"bodegon/internal/model"
	"bodegon/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bloqueanteRepo blocks every Search call until released, or until its
// context is cancelled — lets the tests race two searches deterministically.
type bloqueanteRepo struct {
	mu       sync.Mutex
	liberar  chan struct{}
	llamadas int
}

func newBloqueanteRepo() *bloqueanteRepo {
	return &bloqueanteRepo{liberar: make(chan struct{})}
}

func (r *bloqueanteRepo) FindByID(_ context.Context, _ uuid.UUID) (*model.Producto, error) {
	return nil, nil
}

func (r *bloqueanteRepo) FindByBarcode(_ context.Context, _, _ string) (*model.Producto, error) {
	return nil, nil
}

func (r *bloqueanteRepo) Search(ctx context.Context, _, query string, _ int) ([]model.Producto, error) {
	r.mu.Lock()
	r.llamadas++
	r.mu.Unlock()
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-r.liberar:
		return []model.Producto{{Nombre: query}}, nil
	}
}

var _ repository.ProductoRepository = (*bloqueanteRepo)(nil)

func TestBusquedaUltimaGana(t *testing.T) {
	repo := newBloqueanteRepo()
	b := NewBuscadorProductos(repo)
	cajero := uuid.New()

	type resultado struct {
		productos []model.Producto
		err       error
	}
	primera := make(chan resultado, 1)

	go func() {
		p, err := b.Buscar(context.Background(), cajero, "suc-01", "har", 10)
		primera <- resultado{p, err}
	}()

	// Esperar a que la primera búsqueda esté en vuelo
	require.Eventually(t, func() bool {
		repo.mu.Lock()
		defer repo.mu.Unlock()
		return repo.llamadas == 1
	}, time.Second, 5*time.Millisecond)

	// La segunda búsqueda cancela a la primera
	segunda := make(chan resultado, 1)
	go func() {
		p, err := b.Buscar(context.Background(), cajero, "suc-01", "harina", 10)
		segunda <- resultado{p, err}
	}()

	r1 := <-primera
	assert.ErrorIs(t, r1.err, ErrBusquedaSuperada)
	assert.Nil(t, r1.productos)

	close(repo.liberar)
	r2 := <-segunda
	require.NoError(t, r2.err)
	require.Len(t, r2.productos, 1)
	assert.Equal(t, "harina", r2.productos[0].Nombre)
}

func TestBusquedaCajerosIndependientes(t *testing.T) {
	repo := newBloqueanteRepo()
	close(repo.liberar) // sin bloqueo
	b := NewBuscadorProductos(repo)

	// Búsquedas de cajeros distintos nunca se cancelan entre sí
	p1, err := b.Buscar(context.Background(), uuid.New(), "suc-01", "arroz", 10)
	require.NoError(t, err)
	p2, err := b.Buscar(context.Background(), uuid.New(), "suc-01", "café", 10)
	require.NoError(t, err)
	assert.Equal(t, "arroz", p1[0].Nombre)
	assert.Equal(t, "café", p2[0].Nombre)
}

func TestBusquedaSecuencialSinCancelacion(t *testing.T) {
	repo := newBloqueanteRepo()
	close(repo.liberar)
	b := NewBuscadorProductos(repo)
	cajero := uuid.New()

	for _, q := range []string{"ha", "har", "harina"} {
		p, err := b.Buscar(context.Background(), cajero, "suc-01", q, 10)
		require.NoError(t, err)
		assert.Equal(t, q, p[0].Nombre)
	}
}
