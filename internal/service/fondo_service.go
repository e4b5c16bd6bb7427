package service

import (
	"context"
	"time"

	"bodegon/internal/dto"
	"bodegon/internal/model"
	"bodegon/internal/repository"

	"github.com/google/uuid"
)

type FondoService interface {
	Abrir(ctx context.Context, cajeroID uuid.UUID, sucursalID string, req dto.AbrirFondoRequest) (*dto.FondoResponse, error)
	Obtener(ctx context.Context, cajeroID uuid.UUID, sucursalID string, fecha string) (*dto.FondoResponse, error)
}

type fondoService struct {
	repo repository.FondoRepository
}

func NewFondoService(repo repository.FondoRepository) FondoService {
	return &fondoService{repo: repo}
}

func (s *fondoService) Abrir(ctx context.Context, cajeroID uuid.UUID, sucursalID string, req dto.AbrirFondoRequest) (*dto.FondoResponse, error) {
	if req.EfectivoVES.IsNegative() || req.EfectivoUSD.IsNegative() {
		return nil, &ErrValidacion{Campo: "efectivo", Detalle: "el fondo no puede ser negativo"}
	}
	fondo := model.FondoCaja{
		SucursalID:  sucursalID,
		CajeroID:    cajeroID,
		Fecha:       FechaDia(time.Now()).Format("2006-01-02"),
		EfectivoVES: req.EfectivoVES,
		EfectivoUSD: req.EfectivoUSD,
		AbiertoEn:   time.Now().UTC(),
	}
	// Put is write-once: a second open for the same shift comes back as
	// ErrFondoYaAbierto and nothing is overwritten.
	if err := s.repo.Put(ctx, &fondo); err != nil {
		return nil, err
	}
	return fondoToResponse(&fondo), nil
}

func (s *fondoService) Obtener(ctx context.Context, cajeroID uuid.UUID, sucursalID string, fecha string) (*dto.FondoResponse, error) {
	dia, err := parseFecha(fecha)
	if err != nil {
		return nil, err
	}
	fondo, err := s.repo.Get(ctx, sucursalID, cajeroID, dia.Format("2006-01-02"))
	if err != nil {
		return nil, err
	}
	return fondoToResponse(fondo), nil
}

func fondoToResponse(f *model.FondoCaja) *dto.FondoResponse {
	return &dto.FondoResponse{
		SucursalID:  f.SucursalID,
		CajeroID:    f.CajeroID.String(),
		Fecha:       f.Fecha,
		EfectivoVES: f.EfectivoVES,
		EfectivoUSD: f.EfectivoUSD,
		AbiertoEn:   f.AbiertoEn.Format(time.RFC3339),
	}
}
