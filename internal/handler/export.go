package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/desiigner97/farmaclinic-margenes/internal/apierror"
	"github.com/desiigner97/farmaclinic-margenes/internal/service"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypePDF  = "application/pdf"
)

type ExportHandler struct {
	svc service.ExportService
}

func NewExportHandler(svc service.ExportService) *ExportHandler {
	return &ExportHandler{svc: svc}
}

// ExportarXLSX godoc
// @Summary      Exportar la bitácora de una sesión a Excel
// @Description  Genera un libro con la hoja "Registro de Márgenes" y una hoja "Resumen" con métricas agregadas.
// @Tags         export
// @Security     BearerAuth
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        id path string true "UUID de la sesión"
// @Success      200 {file} binary
// @Failure      404 {object} apierror.APIError
// @Router       /v1/sesiones/{id}/export.xlsx [get]
func (h *ExportHandler) ExportarXLSX(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID de sesión inválido"))
		return
	}
	data, nombre, err := h.svc.ExportarXLSX(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+nombre+`"`)
	c.Data(http.StatusOK, contentTypeXLSX, data)
}

// ReportePDF godoc
// @Summary      Reporte PDF de revisión de una sesión
// @Description  Reporte A4 con el estado de conciliación de cada línea.
// @Tags         export
// @Security     BearerAuth
// @Produce      application/pdf
// @Param        id path string true "UUID de la sesión"
// @Success      200 {file} binary
// @Failure      404 {object} apierror.APIError
// @Router       /v1/sesiones/{id}/reporte.pdf [get]
func (h *ExportHandler) ReportePDF(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID de sesión inválido"))
		return
	}
	data, nombre, err := h.svc.ReportePDF(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+nombre+`"`)
	c.Data(http.StatusOK, contentTypePDF, data)
}
