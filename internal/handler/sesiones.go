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

type SesionesHandler struct {
	svc service.SesionService
}

func NewSesionesHandler(svc service.SesionService) *SesionesHandler {
	return &SesionesHandler{svc: svc}
}

// Activa godoc
// @Summary      Sesión activa del operador
// @Description  Retorna la sesión en proceso del operador, creándola si no existe, junto con su bitácora persistida.
// @Tags         sesiones
// @Security     BearerAuth
// @Produce      json
// @Success      200 {object} dto.SesionActivaResponse
// @Router       /v1/sesiones/activa [get]
func (h *SesionesHandler) Activa(c *gin.Context) {
	claims := middleware.GetClaims(c)
	sesion, lineas, err := h.svc.ResumirOCrear(c.Request.Context(), claims.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al resolver la sesión activa"))
		return
	}
	resp := dto.SesionActivaResponse{
		Sesion: service.SesionADTO(sesion),
		Lineas: make([]dto.LineaBitacora, 0, len(lineas)),
	}
	for i := range lineas {
		resp.Lineas = append(resp.Lineas, service.LineaADTO(&lineas[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// Crear godoc
// @Summary      Crear sesión de trabajo
// @Description  Falla si el operador ya tiene una sesión en proceso.
// @Tags         sesiones
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body body     dto.CrearSesionRequest true "Nombre opcional"
// @Success      201  {object} dto.SesionResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/sesiones [post]
func (h *SesionesHandler) Crear(c *gin.Context) {
	var req dto.CrearSesionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	sesion, err := h.svc.Crear(c.Request.Context(), claims.Username, req.Nombre)
	if err != nil {
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, service.SesionADTO(sesion))
}

// Listar godoc
// @Summary      Listar sesiones
// @Tags         sesiones
// @Security     BearerAuth
// @Produce      json
// @Param        estado query string false "Filtro por estado (en_proceso | enviada_revision | revisada)"
// @Success      200 {array} dto.SesionResponse
// @Router       /v1/sesiones [get]
func (h *SesionesHandler) Listar(c *gin.Context) {
	sesiones, err := h.svc.Listar(c.Request.Context(), c.Query("estado"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar sesiones"))
		return
	}
	resp := make([]dto.SesionResponse, 0, len(sesiones))
	for i := range sesiones {
		resp = append(resp, service.SesionADTO(&sesiones[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// Finalizar godoc
// @Summary      Finalizar sesión y enviarla a revisión
// @Description  Requiere al menos un registro persistido. Crea automáticamente la sesión siguiente y notifica al revisor si hay SMTP configurado.
// @Tags         sesiones
// @Security     BearerAuth
// @Produce      json
// @Param        id path string true "UUID de la sesión"
// @Success      200 {object} dto.FinalizarSesionResponse
// @Failure      409 {object} apierror.APIError
// @Router       /v1/sesiones/{id}/finalizar [post]
func (h *SesionesHandler) Finalizar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID de sesión inválido"))
		return
	}
	claims := middleware.GetClaims(c)
	resp, err := h.svc.Finalizar(c.Request.Context(), id, claims.Username)
	if err != nil {
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}
