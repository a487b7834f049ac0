package handler

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	appbulk "github.com/nuam/calificaciones/internal/application/bulk"
)

// maxImportSize caps the uploaded spreadsheet at 10 MB
const maxImportSize = 10 << 20

// BulkHandler exposes the export/import routes
type BulkHandler struct {
	BaseHandler
	exporter *appbulk.Exporter
	importer *appbulk.Importer
}

// NewBulkHandler creates a new bulk handler
func NewBulkHandler(exporter *appbulk.Exporter, importer *appbulk.Importer) *BulkHandler {
	return &BulkHandler{exporter: exporter, importer: importer}
}

// Export handles GET /ratings/export?format=xlsx|csv
func (h *BulkHandler) Export(c *gin.Context) {
	caller, ok := actor(c)
	if !ok {
		h.Unauthorized(c, "Token de autorización requerido")
		return
	}
	format, err := appbulk.ParseFormat(c.Query("format"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	callerName := strings.SplitN(caller.Email, "@", 2)[0]
	result, err := h.exporter.Export(c.Request.Context(), caller.Scope(), callerName, format)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(http.StatusOK, result.ContentType, result.Data)
}

// Import handles POST /ratings/import (multipart form, field "file")
func (h *BulkHandler) Import(c *gin.Context) {
	caller, ok := actor(c)
	if !ok {
		h.Unauthorized(c, "Token de autorización requerido")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "El archivo es requerido")
		return
	}
	if fileHeader.Size > maxImportSize {
		h.BadRequest(c, "El archivo excede el tamaño máximo permitido")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.BadRequest(c, "No fue posible leer el archivo")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxImportSize+1))
	if err != nil {
		h.BadRequest(c, "No fue posible leer el archivo")
		return
	}

	result, err := h.importer.Import(c.Request.Context(), caller.ID, fileHeader.Filename, data)
	if err != nil {
		// structural failures abort the whole import
		h.BadRequest(c, err.Error())
		return
	}
	h.Success(c, result)
}
