// Package rating holds the Calificacion aggregate: a tax rating with its
// tax sub-events (CalificacionTributaria) and their factors
// (FactorTributario). The rating exclusively owns its events, and each event
// exclusively owns its factors.
package rating

import (
	"time"

	"github.com/google/uuid"
	"github.com/nuam/calificaciones/internal/domain/identity"
	"github.com/nuam/calificaciones/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Rating is the aggregate root for a tax rating (calificación tributaria)
type Rating struct {
	shared.AuditedEntity
	Amount       decimal.Decimal `gorm:"type:decimal(18,4);not null;index"`
	IssueDate    time.Time       `gorm:"type:date;not null;index"`
	PaymentDate  time.Time       `gorm:"type:date;not null;index"`
	OwnerID      *uuid.UUID      `gorm:"type:uuid;index"`
	InstrumentID *int64          `gorm:"index"`
	MarketID     *int64          `gorm:"index"`
	StateID      *int64          `gorm:"index"`
	TaxEvents    []TaxEvent      `gorm:"foreignKey:RatingID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (Rating) TableName() string {
	return "calificaciones"
}

// NewRating creates a rating owned by the acting user. The owner is always
// the creator: callers cannot spoof ownership through the payload.
func NewRating(actor uuid.UUID, amount decimal.Decimal, issueDate, paymentDate time.Time) (*Rating, error) {
	if err := validateDates(issueDate, paymentDate); err != nil {
		return nil, err
	}

	owner := actor
	return &Rating{
		AuditedEntity: shared.NewAuditedEntity(actor),
		Amount:        amount,
		IssueDate:     issueDate,
		PaymentDate:   paymentDate,
		OwnerID:       &owner,
	}, nil
}

func validateDates(issueDate, paymentDate time.Time) error {
	if paymentDate.Before(issueDate) {
		return shared.NewValidationError("fecha_pago", "La fecha de pago no puede ser anterior a la fecha de emisión")
	}
	return nil
}

// Update mutates the rating's core fields, re-validating the date invariant
// against the resulting state. CreatedBy/CreatedAt stay untouched.
func (r *Rating) Update(actor uuid.UUID, amount decimal.Decimal, issueDate, paymentDate time.Time) error {
	if err := validateDates(issueDate, paymentDate); err != nil {
		return err
	}
	r.Amount = amount
	r.IssueDate = issueDate
	r.PaymentDate = paymentDate
	r.Touch(actor)
	return nil
}

// SetReferences updates the lookup references
func (r *Rating) SetReferences(instrumentID, marketID, stateID *int64) {
	r.InstrumentID = instrumentID
	r.MarketID = marketID
	r.StateID = stateID
}

// Reassign transfers ownership to another user. This is a separately
// authorized operation, never an implicit side effect of a generic update.
func (r *Rating) Reassign(actor, newOwner uuid.UUID) {
	r.OwnerID = &newOwner
	r.Touch(actor)
}

// SoftDelete flips the active flag. The row and its children stay in place.
func (r *Rating) SoftDelete(actor uuid.UUID) {
	r.Deactivate(actor)
}

// IsOwnedBy reports whether the given user owns this rating
func (r *Rating) IsOwnedBy(userID uuid.UUID) bool {
	return r.OwnerID != nil && *r.OwnerID == userID
}

// CanBeMutatedBy decides the write contract: the owner or a role that
// overrides ownership (admin, supervisor) may mutate the rating.
func (r *Rating) CanBeMutatedBy(userID uuid.UUID, role identity.Role) bool {
	return r.IsOwnedBy(userID) || role.OverridesOwnership()
}

// AddEvent validates and attaches a tax event to the aggregate
func (r *Rating) AddEvent(event TaxEvent) error {
	if err := event.Validate(); err != nil {
		return err
	}
	event.RatingID = r.ID
	r.TaxEvents = append(r.TaxEvents, event)
	return nil
}
