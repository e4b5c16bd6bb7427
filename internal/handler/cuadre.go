package handler

import (
	"errors"
	"net/http"
	"strconv"

	"bodegon/internal/apierror"
	"bodegon/internal/dto"
	"bodegon/internal/middleware"
	"bodegon/internal/repository"
	"bodegon/internal/service"

	"github.com/gin-gonic/gin"
)

type CuadreHandler struct{ svc service.CuadreService }

func NewCuadreHandler(svc service.CuadreService) *CuadreHandler { return &CuadreHandler{svc: svc} }

// Resumen godoc
// @Summary      Resumen pre-cierre
// @Description  Totales esperados del día por canal, fondo de apertura y costo de inventario, antes de declarar el conteo.
// @Tags         cuadre
// @Produce      json
// @Security     BearerAuth
// @Param        fecha query string false "Fecha YYYY-MM-DD (default: hoy)"
// @Success      200   {object} dto.ResumenCuadreResponse
// @Failure      404   {object} apierror.APIError
// @Router       /v1/cuadre/resumen [get]
func (h *CuadreHandler) Resumen(c *gin.Context) {
	claims := middleware.GetClaims(c)
	cajeroID, err := claims.CajeroID()
	if err != nil {
		c.JSON(http.StatusUnauthorized, apierror.New("Token invalido"))
		return
	}
	resp, err := h.svc.Resumen(c.Request.Context(), cajeroID, claims.SucursalID, c.Query("fecha"))
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

// Cerrar godoc
// @Summary      Cerrar cuadre del turno
// @Description  Calcula la varianza entre lo declarado y lo esperado, persiste el registro y lo envía al back office en una sola transacción. Falla sin efecto si falta la tasa o el costo de inventario.
// @Tags         cuadre
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CerrarCuadreRequest true "Declaración del conteo"
// @Success      201  {object} dto.CuadreResponse
// @Failure      400  {object} apierror.APIError
// @Failure      422  {object} apierror.APIError
// @Router       /v1/cuadre [post]
func (h *CuadreHandler) Cerrar(c *gin.Context) {
	var req dto.CerrarCuadreRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	cajeroID, err := claims.CajeroID()
	if err != nil {
		c.JSON(http.StatusUnauthorized, apierror.New("Token invalido"))
		return
	}
	resp, err := h.svc.Cerrar(c.Request.Context(), cajeroID, claims.SucursalID, req)
	if err != nil {
		var incompleto *service.ErrCuadreIncompleto
		if errors.As(err, &incompleto) {
			c.JSON(http.StatusUnprocessableEntity, apierror.New(err.Error()))
			return
		}
		if errors.Is(err, repository.ErrFondoNoExiste) {
			c.JSON(http.StatusNotFound, apierror.New(err.Error()))
			return
		}
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Historial godoc
// @Summary      Historial de cuadres
// @Description  Lista paginada de cuadres de la sucursal, más reciente primero.
// @Tags         cuadre
// @Produce      json
// @Security     BearerAuth
// @Param        page  query int false "Página (default 1)"
// @Param        limit query int false "Registros por página (default 20, max 100)"
// @Success      200   {object} dto.CuadreHistorialResponse
// @Router       /v1/cuadre/historial [get]
func (h *CuadreHandler) Historial(c *gin.Context) {
	claims := middleware.GetClaims(c)
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	resp, err := h.svc.Historial(c.Request.Context(), claims.SucursalID, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar cuadres"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
