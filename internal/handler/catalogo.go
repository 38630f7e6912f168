package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/desiigner97/farmaclinic-margenes/internal/apierror"
	"github.com/desiigner97/farmaclinic-margenes/internal/dto"
	"github.com/desiigner97/farmaclinic-margenes/internal/service"
)

// maxArchivoCatalogo caps uploads at 10 MB; supplier lists are far
// smaller in practice.
const maxArchivoCatalogo = 10 << 20

type CatalogoHandler struct {
	svc service.CatalogoService
}

func NewCatalogoHandler(svc service.CatalogoService) *CatalogoHandler {
	return &CatalogoHandler{svc: svc}
}

// Importar godoc
// @Summary      Importar catálogo de proveedor
// @Description  Reemplaza el catálogo completo con un archivo CSV o XLSX. Las cabeceras se normalizan por sinónimos.
// @Tags         catalogo
// @Security     BearerAuth
// @Accept       multipart/form-data
// @Produce      json
// @Param        archivo formData file true "Archivo CSV/XLSX"
// @Success      200 {object} dto.ImportarCatalogoResponse
// @Failure      400 {object} apierror.APIError
// @Router       /v1/catalogo/importar [post]
func (h *CatalogoHandler) Importar(c *gin.Context) {
	fileHeader, err := c.FormFile("archivo")
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Falta el archivo del catálogo"))
		return
	}
	if fileHeader.Size > maxArchivoCatalogo {
		c.JSON(http.StatusBadRequest, apierror.New("El archivo excede el tamaño máximo permitido"))
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("No se pudo leer el archivo"))
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("No se pudo leer el archivo"))
		return
	}

	resp, err := h.svc.Importar(c.Request.Context(), fileHeader.Filename, data)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Listar godoc
// @Summary      Listar catálogo con precios calculados
// @Description  Cada fila incluye la cascada de precios bajo los parámetros efectivos (catálogo u override de sesión).
// @Tags         catalogo
// @Security     BearerAuth
// @Produce      json
// @Param        q         query string false "Búsqueda por nombre, proveedor, línea o códigos"
// @Param        proveedor query string false "Filtro exacto por proveedor"
// @Param        linea     query string false "Filtro exacto por línea"
// @Success      200 {array} dto.ProductoCotizado
// @Router       /v1/catalogo [get]
func (h *CatalogoHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context(), c.Query("q"), c.Query("proveedor"), c.Query("linea"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar el catálogo"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// FijarCosto godoc
// @Summary      Fijar costo de caja y datos logísticos
// @Description  El costo acepta formatos locales ("1.234,56", "1234.56"). Valores no positivos se rechazan.
// @Tags         catalogo
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id   path     string               true "ID del producto"
// @Param        body body     dto.FijarCostoRequest true "Costo y logística"
// @Success      200  {object} dto.ProductoCotizado
// @Failure      400  {object} apierror.APIError
// @Router       /v1/catalogo/{id}/costo [put]
func (h *CatalogoHandler) FijarCosto(c *gin.Context) {
	var req dto.FijarCostoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.FijarCosto(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// FijarOverrides godoc
// @Summary      Fijar parámetros manuales de un producto
// @Description  Porcentajes en magnitud libre ("25" y "0.25" significan 25%). Cadena vacía limpia ese parámetro. Un valor inválido rechaza toda la solicitud.
// @Tags         catalogo
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id   path     string                    true "ID del producto"
// @Param        body body     dto.FijarOverridesRequest true "Overrides"
// @Success      200  {object} dto.ProductoCotizado
// @Failure      400  {object} apierror.APIError
// @Router       /v1/catalogo/{id}/overrides [put]
func (h *CatalogoHandler) FijarOverrides(c *gin.Context) {
	var req dto.FijarOverridesRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.FijarOverrides(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RestaurarOverrides godoc
// @Summary      Restaurar parámetros de catálogo
// @Description  Elimina los overrides del producto; las líneas ya registradas en bitácora no cambian.
// @Tags         catalogo
// @Security     BearerAuth
// @Produce      json
// @Param        id path string true "ID del producto"
// @Success      200 {object} dto.ProductoCotizado
// @Failure      404 {object} apierror.APIError
// @Router       /v1/catalogo/{id}/overrides [delete]
func (h *CatalogoHandler) RestaurarOverrides(c *gin.Context) {
	resp, err := h.svc.RestaurarOverrides(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}
