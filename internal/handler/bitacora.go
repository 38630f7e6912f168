package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/desiigner97/farmaclinic-margenes/internal/apierror"
	"github.com/desiigner97/farmaclinic-margenes/internal/dto"
	"github.com/desiigner97/farmaclinic-margenes/internal/middleware"
	"github.com/desiigner97/farmaclinic-margenes/internal/service"
)

type BitacoraHandler struct {
	svc service.BitacoraService
}

func NewBitacoraHandler(svc service.BitacoraService) *BitacoraHandler {
	return &BitacoraHandler{svc: svc}
}

// Registrar godoc
// @Summary      Registrar línea en la bitácora
// @Description  Calcula la cascada con los parámetros efectivos del producto y persiste el snapshot en la sesión activa.
// @Tags         bitacora
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body body     dto.RegistrarLineaRequest true "Línea"
// @Success      201  {object} dto.BitacoraResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/bitacora [post]
func (h *BitacoraHandler) Registrar(c *gin.Context) {
	var req dto.RegistrarLineaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	resp, err := h.svc.Registrar(c.Request.Context(), claims.Username, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Lineas godoc
// @Summary      Bitácora de la sesión activa
// @Tags         bitacora
// @Security     BearerAuth
// @Produce      json
// @Success      200 {object} dto.BitacoraResponse
// @Router       /v1/bitacora [get]
func (h *BitacoraHandler) Lineas(c *gin.Context) {
	claims := middleware.GetClaims(c)
	resp, err := h.svc.Lineas(c.Request.Context(), claims.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al cargar la bitácora"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Reordenar godoc
// @Summary      Reordenar la vista local de la bitácora
// @Description  Mueve una línea de la posición desde a hasta. Solo afecta la vista; el orden persistido es cronológico.
// @Tags         bitacora
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body body     dto.ReordenarRequest true "Movimiento"
// @Success      200  {object} dto.BitacoraResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/bitacora/reordenar [post]
func (h *BitacoraHandler) Reordenar(c *gin.Context) {
	var req dto.ReordenarRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	resp, err := h.svc.Reordenar(c.Request.Context(), claims.Username, req.Desde, req.Hasta)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Eliminar godoc
// @Summary      Eliminar una línea con ventana de deshacer
// @Description  La línea sale de la vista de inmediato; el borrado en base de datos se difiere hasta que venza la ventana de deshacer.
// @Tags         bitacora
// @Security     BearerAuth
// @Produce      json
// @Param        id path string true "UUID de la línea"
// @Success      200 {object} dto.BitacoraResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/bitacora/{id} [delete]
func (h *BitacoraHandler) Eliminar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID de línea inválido"))
		return
	}
	claims := middleware.GetClaims(c)
	resp, err := h.svc.Eliminar(c.Request.Context(), claims.Username, id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Deshacer godoc
// @Summary      Deshacer la eliminación pendiente
// @Description  Solo funciona mientras la ventana de deshacer siga abierta; la línea vuelve a su posición original.
// @Tags         bitacora
// @Security     BearerAuth
// @Produce      json
// @Success      200 {object} dto.BitacoraResponse
// @Failure      409 {object} apierror.APIError
// @Router       /v1/bitacora/deshacer [post]
func (h *BitacoraHandler) Deshacer(c *gin.Context) {
	claims := middleware.GetClaims(c)
	resp, err := h.svc.Deshacer(c.Request.Context(), claims.Username)
	if err != nil {
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// EliminarAhora godoc
// @Summary      Confirmar la eliminación pendiente sin esperar
// @Tags         bitacora
// @Security     BearerAuth
// @Produce      json
// @Success      200 {object} dto.BitacoraResponse
// @Failure      409 {object} apierror.APIError
// @Router       /v1/bitacora/eliminar-ahora [post]
func (h *BitacoraHandler) EliminarAhora(c *gin.Context) {
	claims := middleware.GetClaims(c)
	resp, err := h.svc.EliminarAhora(c.Request.Context(), claims.Username)
	if err != nil {
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}
