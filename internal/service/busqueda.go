package service

import (
	"context"
	"sync"

	"bodegon/internal/model"
	"bodegon/internal/repository"

	"github.com/google/uuid"
)

// BuscadorProductos serializes catalog searches per cajero with
// last-request-wins semantics: starting a new search cancels the one still in
// flight for the same cajero, and a result that finished after being
// superseded is discarded instead of reaching the operator out of order.
type BuscadorProductos struct {
	repo repository.ProductoRepository

	mu       sync.Mutex
	enCurso  map[uuid.UUID]context.CancelFunc
	version  map[uuid.UUID]uint64
}

func NewBuscadorProductos(repo repository.ProductoRepository) *BuscadorProductos {
	return &BuscadorProductos{
		repo:    repo,
		enCurso: make(map[uuid.UUID]context.CancelFunc),
		version: make(map[uuid.UUID]uint64),
	}
}

func (b *BuscadorProductos) Buscar(ctx context.Context, cajeroID uuid.UUID, sucursalID, query string, limit int) ([]model.Producto, error) {
	if limit < 1 || limit > 50 {
		limit = 20
	}

	b.mu.Lock()
	if cancel, ok := b.enCurso[cajeroID]; ok {
		cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	b.enCurso[cajeroID] = cancel
	b.version[cajeroID]++
	miVersion := b.version[cajeroID]
	b.mu.Unlock()

	defer func() {
		b.mu.Lock()
		if b.version[cajeroID] == miVersion {
			delete(b.enCurso, cajeroID)
			cancel()
		}
		b.mu.Unlock()
	}()

	productos, err := b.repo.Search(ctx, sucursalID, query, limit)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ErrBusquedaSuperada
		}
		return nil, err
	}

	// The query may have finished right as a newer one started: check the
	// version again so a stale result never wins.
	b.mu.Lock()
	superada := b.version[cajeroID] != miVersion
	b.mu.Unlock()
	if superada {
		return nil, ErrBusquedaSuperada
	}
	return productos, nil
}
