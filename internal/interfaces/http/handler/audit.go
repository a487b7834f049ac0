package handler

import (
	"github.com/gin-gonic/gin"

	appaudit "github.com/nuam/calificaciones/internal/application/audit"
	"github.com/nuam/calificaciones/internal/interfaces/http/middleware"
)

// AuditHandler exposes the role-scoped audit trail
type AuditHandler struct {
	BaseHandler
	query *appaudit.QueryService
}

// NewAuditHandler creates a new audit handler
func NewAuditHandler(query *appaudit.QueryService) *AuditHandler {
	return &AuditHandler{query: query}
}

// ListLogs handles GET /logs
func (h *AuditHandler) ListLogs(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		h.Unauthorized(c, "Token de autorización requerido")
		return
	}
	role, _ := middleware.GetRole(c)

	var filter appaudit.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Solicitud inválida: "+err.Error())
		return
	}

	resp, err := h.query.ListLogs(c.Request.Context(), userID, role, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, resp.Items, resp.Total, resp.Page, resp.PageSize)
}

// ListRecords handles GET /auditorias
func (h *AuditHandler) ListRecords(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		h.Unauthorized(c, "Token de autorización requerido")
		return
	}
	role, _ := middleware.GetRole(c)

	var filter appaudit.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Solicitud inválida: "+err.Error())
		return
	}

	resp, err := h.query.ListRecords(c.Request.Context(), userID, role, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, resp.Items, resp.Total, resp.Page, resp.PageSize)
}
