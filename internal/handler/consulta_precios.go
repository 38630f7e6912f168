package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/desiigner97/farmaclinic-margenes/internal/apierror"
	"github.com/desiigner97/farmaclinic-margenes/internal/dto"
	"github.com/desiigner97/farmaclinic-margenes/internal/infra"
	"github.com/desiigner97/farmaclinic-margenes/internal/repository"
)

// ConsultaPreciosHandler serves the public price lookup used by the
// sales floor: barcode or reference code in, current system price out.
// Reads go through the Redis cache; the review invalidates it on every
// price change.
type ConsultaPreciosHandler struct {
	repo  repository.PrecioSistemaRepository
	cache *infra.PrecioCache
}

func NewConsultaPreciosHandler(repo repository.PrecioSistemaRepository, cache *infra.PrecioCache) *ConsultaPreciosHandler {
	return &ConsultaPreciosHandler{repo: repo, cache: cache}
}

// Consultar godoc
// @Summary      Consultar precio de sistema por código
// @Description  Busca por código de barras y luego por código de referencia. Respuesta cacheada.
// @Tags         precios
// @Produce      json
// @Param        codigo path string true "Código de barras o de referencia"
// @Success      200 {object} dto.ConsultaPrecioResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/precio/{codigo} [get]
func (h *ConsultaPreciosHandler) Consultar(c *gin.Context) {
	codigo := strings.TrimSpace(c.Param("codigo"))
	if codigo == "" {
		c.JSON(http.StatusBadRequest, apierror.New("Código requerido"))
		return
	}

	var cached dto.ConsultaPrecioResponse
	if h.cache != nil && h.cache.Get(c.Request.Context(), codigo, &cached) {
		c.JSON(http.StatusOK, cached)
		return
	}

	precio, err := h.repo.FindByCodigo(c.Request.Context(), codigo, codigo)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("No hay precio registrado para ese código"))
		return
	}

	resp := dto.ConsultaPrecioResponse{
		Codigo:         codigo,
		PrecioCaja:     precio.PrecioCaja,
		ActualizadoPor: precio.ActualizadoPor,
		ActualizadoAt:  precio.UpdatedAt.Format(time.RFC3339),
	}
	if h.cache != nil {
		h.cache.Set(c.Request.Context(), codigo, resp)
	}
	c.JSON(http.StatusOK, resp)
}
