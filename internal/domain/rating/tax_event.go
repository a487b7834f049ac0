package rating

import (
	"github.com/google/uuid"
	"github.com/nuam/calificaciones/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Year bounds accepted for tax events
const (
	MinEventYear = 2000
	MaxEventYear = 2100
)

// TaxEvent is a capital event filed under a rating. The sequence number
// defines display and processing order within the parent.
type TaxEvent struct {
	shared.AuditedEntity
	RatingID        uuid.UUID        `gorm:"type:uuid;not null;index"`
	Sequence        int              `gorm:"not null"`
	CapitalEvent    decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	Year            int              `gorm:"not null;index"`
	HistoricalValue *decimal.Decimal `gorm:"type:decimal(18,4)"`
	Description     string           `gorm:"type:text"`
	AmountBased     bool             `gorm:"not null;default:false"`
	TaxFactors      []TaxFactor      `gorm:"foreignKey:TaxEventID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (TaxEvent) TableName() string {
	return "calificaciones_tributarias"
}

// NewTaxEvent creates a validated tax event stamped with the acting user
func NewTaxEvent(actor uuid.UUID, sequence int, capitalEvent decimal.Decimal, year int) (*TaxEvent, error) {
	event := &TaxEvent{
		AuditedEntity: shared.NewAuditedEntity(actor),
		Sequence:      sequence,
		CapitalEvent:  capitalEvent,
		Year:          year,
	}
	if err := event.Validate(); err != nil {
		return nil, err
	}
	return event, nil
}

// Validate checks the event invariants: year bounds and the historical-value
// cap against the capital event.
func (e *TaxEvent) Validate() error {
	if e.Year < MinEventYear || e.Year > MaxEventYear {
		return shared.NewValidationError("anio", "El año debe estar entre 2000 y 2100")
	}
	if e.HistoricalValue != nil && e.HistoricalValue.GreaterThan(e.CapitalEvent) {
		return shared.NewValidationError("valor_historico", "El valor histórico no puede ser mayor al evento capital")
	}
	return nil
}

// SetHistoricalValue sets the optional historical value, enforcing the cap
func (e *TaxEvent) SetHistoricalValue(value decimal.Decimal) error {
	if value.GreaterThan(e.CapitalEvent) {
		return shared.NewValidationError("valor_historico", "El valor histórico no puede ser mayor al evento capital")
	}
	e.HistoricalValue = &value
	return nil
}

// AddFactor attaches a factor to the event
func (e *TaxEvent) AddFactor(factor TaxFactor) {
	factor.TaxEventID = e.ID
	e.TaxFactors = append(e.TaxFactors, factor)
}
