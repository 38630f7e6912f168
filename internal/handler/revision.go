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

type RevisionHandler struct {
	svc service.RevisionService
}

func NewRevisionHandler(svc service.RevisionService) *RevisionHandler {
	return &RevisionHandler{svc: svc}
}

// Lineas godoc
// @Summary      Líneas de una sesión para conciliación
// @Description  Cada línea trae el precio unitario nuevo, el precio anterior del sistema cuando existe y el delta porcentual.
// @Tags         revision
// @Security     BearerAuth
// @Produce      json
// @Param        sesionId path string true "UUID de la sesión"
// @Success      200 {object} dto.RevisionResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/revision/{sesionId}/lineas [get]
func (h *RevisionHandler) Lineas(c *gin.Context) {
	sesionID, err := uuid.Parse(c.Param("sesionId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID de sesión inválido"))
		return
	}
	resp, err := h.svc.Lineas(c.Request.Context(), sesionID)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Decidir godoc
// @Summary      Registrar una decisión de conciliación
// @Description  Acciones: mantener_anterior, usar_nuevo, promedio, reprocesar. Todas menos reprocesar escriben el precio resuelto en precios del sistema. Re-decidir la misma línea reemplaza la decisión previa.
// @Tags         revision
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        sesionId path     string            true "UUID de la sesión"
// @Param        body     body     dto.DecidirRequest true "Decisión"
// @Success      200      {object} dto.DecisionResponse
// @Failure      409      {object} apierror.APIError
// @Router       /v1/revision/{sesionId}/decisiones [post]
func (h *RevisionHandler) Decidir(c *gin.Context) {
	sesionID, err := uuid.Parse(c.Param("sesionId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID de sesión inválido"))
		return
	}
	var req dto.DecidirRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	resp, err := h.svc.Decidir(c.Request.Context(), sesionID, claims.Username, req)
	if err != nil {
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Finalizar godoc
// @Summary      Cerrar la revisión de una sesión
// @Description  Marca la sesión como revisada. No exige decisión sobre todas las líneas; las no decididas quedan pendientes.
// @Tags         revision
// @Security     BearerAuth
// @Produce      json
// @Param        sesionId path string true "UUID de la sesión"
// @Success      200 {object} dto.SesionResponse
// @Failure      409 {object} apierror.APIError
// @Router       /v1/revision/{sesionId}/finalizar [post]
func (h *RevisionHandler) Finalizar(c *gin.Context) {
	sesionID, err := uuid.Parse(c.Param("sesionId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID de sesión inválido"))
		return
	}
	resp, err := h.svc.FinalizarRevision(c.Request.Context(), sesionID)
	if err != nil {
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}
