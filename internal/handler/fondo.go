package handler

import (
	"errors"
	"net/http"

	"bodegon/internal/apierror"
	"bodegon/internal/dto"
	"bodegon/internal/middleware"
	"bodegon/internal/repository"
	"bodegon/internal/service"

	"github.com/gin-gonic/gin"
)

type FondoHandler struct{ svc service.FondoService }

func NewFondoHandler(svc service.FondoService) *FondoHandler { return &FondoHandler{svc: svc} }

// Abrir godoc
// @Summary      Abrir fondo de caja
// @Description  Registra el fondo inicial del turno. Escritura única: un segundo intento para el mismo cajero y día es rechazado sin sobrescribir.
// @Tags         fondo
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.AbrirFondoRequest true "Montos iniciales"
// @Success      201  {object} dto.FondoResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/fondo [post]
func (h *FondoHandler) Abrir(c *gin.Context) {
	var req dto.AbrirFondoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	cajeroID, err := claims.CajeroID()
	if err != nil {
		c.JSON(http.StatusUnauthorized, apierror.New("Token invalido"))
		return
	}
	resp, err := h.svc.Abrir(c.Request.Context(), cajeroID, claims.SucursalID, req)
	if err != nil {
		if errors.Is(err, repository.ErrFondoYaAbierto) {
			c.JSON(http.StatusConflict, apierror.New(err.Error()))
			return
		}
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Obtener godoc
// @Summary      Consultar fondo del turno
// @Tags         fondo
// @Produce      json
// @Security     BearerAuth
// @Param        fecha query string false "Fecha YYYY-MM-DD (default: hoy)"
// @Success      200   {object} dto.FondoResponse
// @Failure      404   {object} apierror.APIError
// @Router       /v1/fondo [get]
func (h *FondoHandler) Obtener(c *gin.Context) {
	claims := middleware.GetClaims(c)
	cajeroID, err := claims.CajeroID()
	if err != nil {
		c.JSON(http.StatusUnauthorized, apierror.New("Token invalido"))
		return
	}
	resp, err := h.svc.Obtener(c.Request.Context(), cajeroID, claims.SucursalID, c.Query("fecha"))
	if err != nil {
		if errors.Is(err, repository.ErrFondoNoExiste) {
			c.JSON(http.StatusNotFound, apierror.New(err.Error()))
			return
		}
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}
