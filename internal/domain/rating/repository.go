package rating

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/nuam/calificaciones/internal/domain/identity"
	"github.com/nuam/calificaciones/internal/domain/shared"
)

// Scope identifies the caller for visibility filtering: admin and supervisor
// see every active rating, a corredor only its own.
type Scope struct {
	UserID uuid.UUID
	Role   identity.Role
}

// ListQuery carries the optional rating list filters
type ListQuery struct {
	ID           *uuid.UUID
	OwnerEmail   string // substring match on the owner's email
	Year         *int   // issue-date year
	IssuedFrom   *time.Time
	IssuedUntil  *time.Time
	StateID      *int64
	MarketID     *int64
	InstrumentID *int64
	OnlyOwn      bool // restrict to the caller's rows regardless of role
	Filter       shared.Filter
}

// Repository provides persistence for the rating aggregate
type Repository interface {
	// FindByID loads a rating with its events and factors, without
	// visibility filtering. Callers enforce the access policy.
	FindByID(ctx context.Context, id uuid.UUID) (*Rating, error)
	// FindAll lists active ratings visible to the scope, newest first
	FindAll(ctx context.Context, scope Scope, query ListQuery) ([]Rating, int64, error)
	// Save persists a new rating together with its nested events and factors
	Save(ctx context.Context, r *Rating) error
	// Update persists changes to the rating row (not its children)
	Update(ctx context.Context, r *Rating) error
	// FindEventByID loads a tax event with its factors
	FindEventByID(ctx context.Context, id uuid.UUID) (*TaxEvent, error)
	// SaveEvent persists a new tax event with its factors
	SaveEvent(ctx context.Context, event *TaxEvent) error
	// UpdateEvent persists changes to a tax event row
	UpdateEvent(ctx context.Context, event *TaxEvent) error
}
