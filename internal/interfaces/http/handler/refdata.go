package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	apprefdata "github.com/nuam/calificaciones/internal/application/refdata"
)

// RefdataHandler exposes the lookup table CRUD routes
type RefdataHandler struct {
	BaseHandler
	refdata *apprefdata.Service
}

// NewRefdataHandler creates a new reference data handler
func NewRefdataHandler(refdata *apprefdata.Service) *RefdataHandler {
	return &RefdataHandler{refdata: refdata}
}

func parseRefID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	return id, err == nil && id > 0
}

// ListInstruments handles GET /instrumentos
func (h *RefdataHandler) ListInstruments(c *gin.Context) {
	items, err := h.refdata.ListInstruments(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// GetInstrument handles GET /instrumentos/:id
func (h *RefdataHandler) GetInstrument(c *gin.Context) {
	id, ok := parseRefID(c)
	if !ok {
		h.BadRequest(c, "Identificador inválido")
		return
	}
	resp, err := h.refdata.GetInstrument(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// CreateInstrument handles POST /instrumentos
func (h *RefdataHandler) CreateInstrument(c *gin.Context) {
	var req apprefdata.InstrumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Solicitud inválida: "+err.Error())
		return
	}
	resp, err := h.refdata.CreateInstrument(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// UpdateInstrument handles PUT /instrumentos/:id
func (h *RefdataHandler) UpdateInstrument(c *gin.Context) {
	id, ok := parseRefID(c)
	if !ok {
		h.BadRequest(c, "Identificador inválido")
		return
	}
	var req apprefdata.InstrumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Solicitud inválida: "+err.Error())
		return
	}
	resp, err := h.refdata.UpdateInstrument(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// DeleteInstrument handles DELETE /instrumentos/:id
func (h *RefdataHandler) DeleteInstrument(c *gin.Context) {
	id, ok := parseRefID(c)
	if !ok {
		h.BadRequest(c, "Identificador inválido")
		return
	}
	if err := h.refdata.DeleteInstrument(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListMarkets handles GET /mercados
func (h *RefdataHandler) ListMarkets(c *gin.Context) {
	items, err := h.refdata.ListMarkets(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// GetMarket handles GET /mercados/:id
func (h *RefdataHandler) GetMarket(c *gin.Context) {
	id, ok := parseRefID(c)
	if !ok {
		h.BadRequest(c, "Identificador inválido")
		return
	}
	resp, err := h.refdata.GetMarket(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// CreateMarket handles POST /mercados
func (h *RefdataHandler) CreateMarket(c *gin.Context) {
	var req apprefdata.MarketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Solicitud inválida: "+err.Error())
		return
	}
	resp, err := h.refdata.CreateMarket(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// UpdateMarket handles PUT /mercados/:id
func (h *RefdataHandler) UpdateMarket(c *gin.Context) {
	id, ok := parseRefID(c)
	if !ok {
		h.BadRequest(c, "Identificador inválido")
		return
	}
	var req apprefdata.MarketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Solicitud inválida: "+err.Error())
		return
	}
	resp, err := h.refdata.UpdateMarket(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// DeleteMarket handles DELETE /mercados/:id
func (h *RefdataHandler) DeleteMarket(c *gin.Context) {
	id, ok := parseRefID(c)
	if !ok {
		h.BadRequest(c, "Identificador inválido")
		return
	}
	if err := h.refdata.DeleteMarket(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListStates handles GET /estados
func (h *RefdataHandler) ListStates(c *gin.Context) {
	items, err := h.refdata.ListStates(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// GetState handles GET /estados/:id
func (h *RefdataHandler) GetState(c *gin.Context) {
	id, ok := parseRefID(c)
	if !ok {
		h.BadRequest(c, "Identificador inválido")
		return
	}
	resp, err := h.refdata.GetState(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// CreateState handles POST /estados
func (h *RefdataHandler) CreateState(c *gin.Context) {
	var req apprefdata.StateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Solicitud inválida: "+err.Error())
		return
	}
	resp, err := h.refdata.CreateState(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// UpdateState handles PUT /estados/:id
func (h *RefdataHandler) UpdateState(c *gin.Context) {
	id, ok := parseRefID(c)
	if !ok {
		h.BadRequest(c, "Identificador inválido")
		return
	}
	var req apprefdata.StateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Solicitud inválida: "+err.Error())
		return
	}
	resp, err := h.refdata.UpdateState(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// DeleteState handles DELETE /estados/:id
func (h *RefdataHandler) DeleteState(c *gin.Context) {
	id, ok := parseRefID(c)
	if !ok {
		h.BadRequest(c, "Identificador inválido")
		return
	}
	if err := h.refdata.DeleteState(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
