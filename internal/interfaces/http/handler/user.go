package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appidentity "github.com/nuam/calificaciones/internal/application/identity"
)

// UserHandler exposes the admin account management routes
type UserHandler struct {
	BaseHandler
	users *appidentity.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(users *appidentity.UserService) *UserHandler {
	return &UserHandler{users: users}
}

func parseUserID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	return id, err == nil
}

// List handles GET /users
func (h *UserHandler) List(c *gin.Context) {
	var filter appidentity.ListUsersFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Parámetros inválidos: "+err.Error())
		return
	}
	resp, err := h.users.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, resp.Items, resp.Total, resp.Page, resp.PageSize)
}

// ListByRole handles GET /users/by-role?rol=<role>
func (h *UserHandler) ListByRole(c *gin.Context) {
	items, err := h.users.ListByRole(c.Request.Context(), c.Query("rol"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// Get handles GET /users/:id
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := parseUserID(c)
	if !ok {
		h.BadRequest(c, "Identificador inválido")
		return
	}
	resp, err := h.users.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Create handles POST /users
func (h *UserHandler) Create(c *gin.Context) {
	var req appidentity.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Solicitud inválida: "+err.Error())
		return
	}
	resp, err := h.users.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Update handles PATCH /users/:id
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := parseUserID(c)
	if !ok {
		h.BadRequest(c, "Identificador inválido")
		return
	}
	var req appidentity.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Solicitud inválida: "+err.Error())
		return
	}
	resp, err := h.users.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Disable handles POST /users/:id/disable
func (h *UserHandler) Disable(c *gin.Context) {
	id, ok := parseUserID(c)
	if !ok {
		h.BadRequest(c, "Identificador inválido")
		return
	}
	resp, err := h.users.Disable(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Enable handles POST /users/:id/enable
func (h *UserHandler) Enable(c *gin.Context) {
	id, ok := parseUserID(c)
	if !ok {
		h.BadRequest(c, "Identificador inválido")
		return
	}
	resp, err := h.users.Enable(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
