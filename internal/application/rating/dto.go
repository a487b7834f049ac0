package rating

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nuam/calificaciones/internal/domain/identity"
	"github.com/nuam/calificaciones/internal/domain/rating"
)

// Actor identifies the authenticated caller of a rating operation. The
// role always comes from the validated token, never from a default.
type Actor struct {
	ID    uuid.UUID
	Email string
	Role  identity.Role
}

// Scope converts the actor into a repository visibility scope
func (a Actor) Scope() rating.Scope {
	return rating.Scope{UserID: a.ID, Role: a.Role}
}

// =============================================================================
// Requests
// =============================================================================

// CreateTaxFactorRequest is a nested factor in a create payload
type CreateTaxFactorRequest struct {
	Code        string          `json:"codigo_factor" binding:"required,min=1,max=100"`
	Description string          `json:"descripcion" binding:"max=255"`
	Value       decimal.Decimal `json:"valor_factor" binding:"required"`
}

// CreateTaxEventRequest is a nested tax event in a create payload
type CreateTaxEventRequest struct {
	Sequence        int                      `json:"secuencia_evento" binding:"required,min=1"`
	CapitalEvent    decimal.Decimal          `json:"evento_capital" binding:"required"`
	Year            int                      `json:"anio" binding:"required"`
	HistoricalValue *decimal.Decimal         `json:"valor_historico"`
	Description     string                   `json:"descripcion"`
	AmountBased     bool                     `json:"basado_en_monto"`
	Factors         []CreateTaxFactorRequest `json:"factores" binding:"omitempty,dive"`
}

// CreateRatingRequest creates a rating, optionally with nested events
type CreateRatingRequest struct {
	Amount       decimal.Decimal         `json:"monto" binding:"required"`
	IssueDate    string                  `json:"fecha_emision" binding:"required,datetime=2006-01-02"`
	PaymentDate  string                  `json:"fecha_pago" binding:"required,datetime=2006-01-02"`
	InstrumentID *int64                  `json:"instrumento_id"`
	MarketID     *int64                  `json:"mercado_id"`
	StateID      *int64                  `json:"estado_id"`
	Comments     string                  `json:"comentarios"`
	TaxEvents    []CreateTaxEventRequest `json:"eventos" binding:"omitempty,dive"`
}

// UpdateRatingRequest updates the rating's own fields. Ownership is not
// part of this payload: reassignment is a separate operation.
type UpdateRatingRequest struct {
	Amount       *decimal.Decimal `json:"monto"`
	IssueDate    *string          `json:"fecha_emision" binding:"omitempty,datetime=2006-01-02"`
	PaymentDate  *string          `json:"fecha_pago" binding:"omitempty,datetime=2006-01-02"`
	InstrumentID *int64           `json:"instrumento_id"`
	MarketID     *int64           `json:"mercado_id"`
	StateID      *int64           `json:"estado_id"`
	Comments     *string          `json:"comentarios"`
}

// ReassignRequest transfers ownership of a rating
type ReassignRequest struct {
	NewOwnerID uuid.UUID `json:"nuevo_propietario_id" binding:"required"`
}

// CreateEventRequest adds a tax event to an existing rating
type CreateEventRequest = CreateTaxEventRequest

// UpdateEventRequest updates a tax event's fields
type UpdateEventRequest struct {
	Sequence        *int             `json:"secuencia_evento" binding:"omitempty,min=1"`
	CapitalEvent    *decimal.Decimal `json:"evento_capital"`
	Year            *int             `json:"anio"`
	HistoricalValue *decimal.Decimal `json:"valor_historico"`
	Description     *string          `json:"descripcion"`
	AmountBased     *bool            `json:"basado_en_monto"`
}

// ListFilter carries the rating list query parameters
type ListFilter struct {
	ID           string `form:"id" binding:"omitempty,uuid"`
	OwnerEmail   string `form:"usuario_email"`
	Year         *int   `form:"anio"`
	IssuedFrom   string `form:"fecha_desde" binding:"omitempty,datetime=2006-01-02"`
	IssuedUntil  string `form:"fecha_hasta" binding:"omitempty,datetime=2006-01-02"`
	StateID      *int64 `form:"estado"`
	MarketID     *int64 `form:"mercado"`
	InstrumentID *int64 `form:"instrumento"`
	OnlyOwn      bool   `form:"-"`
	Page         int    `form:"page" binding:"omitempty,min=1"`
	PageSize     int    `form:"page_size" binding:"omitempty,min=1,max=500"`
	SortBy       string `form:"orden"`
	SortDesc     bool   `form:"descendente"`
}

// =============================================================================
// Responses
// =============================================================================

// TaxFactorResponse represents a factor in API responses
type TaxFactorResponse struct {
	ID          uuid.UUID       `json:"id"`
	Code        string          `json:"codigo_factor"`
	Description string          `json:"descripcion"`
	Value       decimal.Decimal `json:"valor_factor"`
}

// TaxEventResponse represents a tax event in API responses
type TaxEventResponse struct {
	ID              uuid.UUID           `json:"id"`
	RatingID        uuid.UUID           `json:"calificacion_id"`
	Sequence        int                 `json:"secuencia_evento"`
	CapitalEvent    decimal.Decimal     `json:"evento_capital"`
	Year            int                 `json:"anio"`
	HistoricalValue *decimal.Decimal    `json:"valor_historico,omitempty"`
	Description     string              `json:"descripcion"`
	AmountBased     bool                `json:"basado_en_monto"`
	Factors         []TaxFactorResponse `json:"factores"`
}

// RatingResponse represents a rating in API responses
type RatingResponse struct {
	ID           uuid.UUID          `json:"id"`
	Amount       decimal.Decimal    `json:"monto"`
	IssueDate    string             `json:"fecha_emision"`
	PaymentDate  string             `json:"fecha_pago"`
	OwnerID      *uuid.UUID         `json:"propietario_id,omitempty"`
	InstrumentID *int64             `json:"instrumento_id,omitempty"`
	MarketID     *int64             `json:"mercado_id,omitempty"`
	StateID      *int64             `json:"estado_id,omitempty"`
	Comments     string             `json:"comentarios"`
	IsActive     bool               `json:"activa"`
	CreatedBy    *uuid.UUID         `json:"creada_por,omitempty"`
	CreatedAt    time.Time          `json:"creada_en"`
	UpdatedAt    time.Time          `json:"actualizada_en"`
	TaxEvents    []TaxEventResponse `json:"eventos"`
}

// ListRatingsResponse is a paginated rating listing
type ListRatingsResponse struct {
	Items    []RatingResponse `json:"items"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
}

const dateLayout = "2006-01-02"

// ToTaxFactorResponse maps a domain factor to its response shape
func ToTaxFactorResponse(f *rating.TaxFactor) TaxFactorResponse {
	return TaxFactorResponse{
		ID:          f.ID,
		Code:        f.Code,
		Description: f.Description,
		Value:       f.Value,
	}
}

// ToTaxEventResponse maps a domain tax event to its response shape
func ToTaxEventResponse(e *rating.TaxEvent) TaxEventResponse {
	factors := make([]TaxFactorResponse, len(e.TaxFactors))
	for i := range e.TaxFactors {
		factors[i] = ToTaxFactorResponse(&e.TaxFactors[i])
	}
	return TaxEventResponse{
		ID:              e.ID,
		RatingID:        e.RatingID,
		Sequence:        e.Sequence,
		CapitalEvent:    e.CapitalEvent,
		Year:            e.Year,
		HistoricalValue: e.HistoricalValue,
		Description:     e.Description,
		AmountBased:     e.AmountBased,
		Factors:         factors,
	}
}

// ToRatingResponse maps a domain rating to its response shape
func ToRatingResponse(r *rating.Rating) RatingResponse {
	events := make([]TaxEventResponse, len(r.TaxEvents))
	for i := range r.TaxEvents {
		events[i] = ToTaxEventResponse(&r.TaxEvents[i])
	}
	return RatingResponse{
		ID:           r.ID,
		Amount:       r.Amount,
		IssueDate:    r.IssueDate.Format(dateLayout),
		PaymentDate:  r.PaymentDate.Format(dateLayout),
		OwnerID:      r.OwnerID,
		InstrumentID: r.InstrumentID,
		MarketID:     r.MarketID,
		StateID:      r.StateID,
		Comments:     r.Comments,
		IsActive:     r.IsActive,
		CreatedBy:    r.CreatedBy,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
		TaxEvents:    events,
	}
}
