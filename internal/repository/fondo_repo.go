package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"bodegon/internal/model"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var (
	ErrFondoYaAbierto  = errors.New("ya existe un fondo abierto para este cajero")
	ErrFondoNoExiste   = errors.New("no hay fondo abierto para este cajero")
	fondoTTL           = 48 * time.Hour // safety net; normal path deletes at cuadre
)

// FondoRepository is the persisted float state keyed by (cajero, sucursal,
// fecha): read once at shift start, written once at float confirmation,
// deleted at shift close. It is the single source of truth for "is a float
// already open" — injected so the engine is testable without a real store.
type FondoRepository interface {
	Get(ctx context.Context, sucursalID string, cajeroID uuid.UUID, fecha string) (*model.FondoCaja, error)
	Put(ctx context.Context, f *model.FondoCaja) error
	Delete(ctx context.Context, sucursalID string, cajeroID uuid.UUID, fecha string) error
}

type fondoRedis struct{ rdb *redis.Client }

func NewFondoRepository(rdb *redis.Client) FondoRepository { return &fondoRedis{rdb: rdb} }

func (r *fondoRedis) Get(ctx context.Context, sucursalID string, cajeroID uuid.UUID, fecha string) (*model.FondoCaja, error) {
	raw, err := r.rdb.Get(ctx, model.FondoKey(sucursalID, cajeroID, fecha)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrFondoNoExiste
	}
	if err != nil {
		return nil, err
	}
	var f model.FondoCaja
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *fondoRedis) Put(ctx context.Context, f *model.FondoCaja) error {
	raw, err := json.Marshal(f)
	if err != nil {
		return err
	}
	// SetNX: the float is write-once — a second open for the same scope key
	// must fail, not overwrite.
	ok, err := r.rdb.SetNX(ctx, f.Key(), raw, fondoTTL).Result()
	if err != nil {
		return err
	}
	if !ok {
		return ErrFondoYaAbierto
	}
	return nil
}

func (r *fondoRedis) Delete(ctx context.Context, sucursalID string, cajeroID uuid.UUID, fecha string) error {
	return r.rdb.Del(ctx, model.FondoKey(sucursalID, cajeroID, fecha)).Err()
}
