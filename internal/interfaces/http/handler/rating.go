package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apprating "github.com/nuam/calificaciones/internal/application/rating"
	"github.com/nuam/calificaciones/internal/interfaces/http/middleware"
)

// RatingHandler exposes the rating CRUD, reassignment and tax-event routes
type RatingHandler struct {
	BaseHandler
	ratings *apprating.Service
}

// NewRatingHandler creates a new rating handler
func NewRatingHandler(ratings *apprating.Service) *RatingHandler {
	return &RatingHandler{ratings: ratings}
}

// actor builds the caller identity from the validated token claims
func actor(c *gin.Context) (apprating.Actor, bool) {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		return apprating.Actor{}, false
	}
	userID, err := claims.GetUserUUID()
	if err != nil {
		return apprating.Actor{}, false
	}
	role, err := claims.GetRole()
	if err != nil {
		return apprating.Actor{}, false
	}
	return apprating.Actor{ID: userID, Email: claims.Email, Role: role}, true
}

func parseRatingID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	return id, err == nil
}

// List handles GET /ratings
func (h *RatingHandler) List(c *gin.Context) {
	caller, ok := actor(c)
	if !ok {
		h.Unauthorized(c, "Token de autorización requerido")
		return
	}
	var filter apprating.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Parámetros inválidos: "+err.Error())
		return
	}
	resp, err := h.ratings.List(c.Request.Context(), caller, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, resp.Items, resp.Total, resp.Page, resp.PageSize)
}

// ListMine handles GET /ratings/mine
func (h *RatingHandler) ListMine(c *gin.Context) {
	caller, ok := actor(c)
	if !ok {
		h.Unauthorized(c, "Token de autorización requerido")
		return
	}
	var filter apprating.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Parámetros inválidos: "+err.Error())
		return
	}
	filter.OnlyOwn = true
	resp, err := h.ratings.List(c.Request.Context(), caller, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, resp.Items, resp.Total, resp.Page, resp.PageSize)
}

// Get handles GET /ratings/:id
func (h *RatingHandler) Get(c *gin.Context) {
	caller, ok := actor(c)
	if !ok {
		h.Unauthorized(c, "Token de autorización requerido")
		return
	}
	id, ok := parseRatingID(c)
	if !ok {
		h.BadRequest(c, "Identificador inválido")
		return
	}
	resp, err := h.ratings.GetByID(c.Request.Context(), caller, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Create handles POST /ratings
func (h *RatingHandler) Create(c *gin.Context) {
	caller, ok := actor(c)
	if !ok {
		h.Unauthorized(c, "Token de autorización requerido")
		return
	}
	var req apprating.CreateRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Solicitud inválida: "+err.Error())
		return
	}
	resp, err := h.ratings.Create(c.Request.Context(), caller, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Update handles PUT /ratings/:id
func (h *RatingHandler) Update(c *gin.Context) {
	caller, ok := actor(c)
	if !ok {
		h.Unauthorized(c, "Token de autorización requerido")
		return
	}
	id, ok := parseRatingID(c)
	if !ok {
		h.BadRequest(c, "Identificador inválido")
		return
	}
	var req apprating.UpdateRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Solicitud inválida: "+err.Error())
		return
	}
	resp, err := h.ratings.Update(c.Request.Context(), caller, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete handles DELETE /ratings/:id (soft delete)
func (h *RatingHandler) Delete(c *gin.Context) {
	caller, ok := actor(c)
	if !ok {
		h.Unauthorized(c, "Token de autorización requerido")
		return
	}
	id, ok := parseRatingID(c)
	if !ok {
		h.BadRequest(c, "Identificador inválido")
		return
	}
	if err := h.ratings.SoftDelete(c.Request.Context(), caller, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Reassign handles POST /ratings/:id/reassign
func (h *RatingHandler) Reassign(c *gin.Context) {
	caller, ok := actor(c)
	if !ok {
		h.Unauthorized(c, "Token de autorización requerido")
		return
	}
	id, ok := parseRatingID(c)
	if !ok {
		h.BadRequest(c, "Identificador inválido")
		return
	}
	var req apprating.ReassignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Solicitud inválida: "+err.Error())
		return
	}
	resp, err := h.ratings.Reassign(c.Request.Context(), caller, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// CreateEvent handles POST /ratings/:id/events
func (h *RatingHandler) CreateEvent(c *gin.Context) {
	caller, ok := actor(c)
	if !ok {
		h.Unauthorized(c, "Token de autorización requerido")
		return
	}
	id, ok := parseRatingID(c)
	if !ok {
		h.BadRequest(c, "Identificador inválido")
		return
	}
	var req apprating.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Solicitud inválida: "+err.Error())
		return
	}
	resp, err := h.ratings.CreateEvent(c.Request.Context(), caller, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// UpdateEvent handles PUT /ratings/:id/events/:eventID
func (h *RatingHandler) UpdateEvent(c *gin.Context) {
	caller, ok := actor(c)
	if !ok {
		h.Unauthorized(c, "Token de autorización requerido")
		return
	}
	eventID, err := uuid.Parse(c.Param("eventID"))
	if err != nil {
		h.BadRequest(c, "Identificador inválido")
		return
	}
	var req apprating.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Solicitud inválida: "+err.Error())
		return
	}
	resp, err := h.ratings.UpdateEvent(c.Request.Context(), caller, eventID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
