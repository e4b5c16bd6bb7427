package handler

import (
	"errors"
	"net/http"
	"strconv"

	"bodegon/internal/apierror"
	"bodegon/internal/dto"
	"bodegon/internal/middleware"
	"bodegon/internal/service"

	"github.com/gin-gonic/gin"
)

type PreciosHandler struct{ svc service.PrecioService }

func NewPreciosHandler(svc service.PrecioService) *PreciosHandler {
	return &PreciosHandler{svc: svc}
}

// Cotizar godoc
// @Summary      Cotizar precio de producto
// @Description  Precio en USD y VES bajo una pila de descuentos secuenciales, sin tocar ningún carrito. Con tasa 0 el precio VES queda en 0.
// @Tags         precios
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CotizarPrecioRequest true "Producto, tasa y descuentos"
// @Success      200  {object} dto.PrecioResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/precios/cotizar [post]
func (h *PreciosHandler) Cotizar(c *gin.Context) {
	var req dto.CotizarPrecioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	resp, err := h.svc.Cotizar(c.Request.Context(), claims.SucursalID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// BuscarProductos godoc
// @Summary      Buscar productos
// @Description  Búsqueda por nombre o código de barras con semántica last-request-wins por cajero: una búsqueda nueva descarta la anterior en vuelo.
// @Tags         precios
// @Produce      json
// @Security     BearerAuth
// @Param        q     query string true  "Texto a buscar (mínimo 2 caracteres)"
// @Param        limit query int    false "Máximo de resultados (default 20)"
// @Success      200   {array}  dto.ProductoResponse
// @Failure      409   {object} apierror.APIError
// @Router       /v1/productos/buscar [get]
func (h *PreciosHandler) BuscarProductos(c *gin.Context) {
	claims := middleware.GetClaims(c)
	cajeroID, err := claims.CajeroID()
	if err != nil {
		c.JSON(http.StatusUnauthorized, apierror.New("Token invalido"))
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	resp, err := h.svc.BuscarProductos(c.Request.Context(), cajeroID, claims.SucursalID, c.Query("q"), limit)
	if err != nil {
		if errors.Is(err, service.ErrBusquedaSuperada) {
			// The client already issued a newer search; this result is stale.
			c.JSON(http.StatusConflict, apierror.New(err.Error()))
			return
		}
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// PorCodigoBarras godoc
// @Summary      Producto por código de barras
// @Tags         precios
// @Produce      json
// @Security     BearerAuth
// @Param        codigo path string true "Código de barras"
// @Success      200    {object} dto.ProductoResponse
// @Failure      404    {object} apierror.APIError
// @Router       /v1/productos/barcode/{codigo} [get]
func (h *PreciosHandler) PorCodigoBarras(c *gin.Context) {
	claims := middleware.GetClaims(c)
	resp, err := h.svc.PorCodigoBarras(c.Request.Context(), claims.SucursalID, c.Param("codigo"))
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}
