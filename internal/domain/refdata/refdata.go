// Package refdata holds the lookup entities referenced by ratings:
// instruments, markets and workflow states. Rows are shared across ratings
// and never owned by any one of them.
package refdata

import (
	"context"

	"github.com/nuam/calificaciones/internal/domain/shared"
)

// Instrument is a tradable financial instrument (bond, stock, fund)
type Instrument struct {
	ID       int64  `gorm:"primaryKey;autoIncrement"`
	Name     string `gorm:"type:varchar(200);not null"`
	Type     string `gorm:"type:varchar(100);not null"`
	Currency string `gorm:"type:varchar(50);not null"`
}

// TableName returns the table name for GORM
func (Instrument) TableName() string {
	return "instrumentos"
}

// Market is an exchange venue (CL, CO, PE)
type Market struct {
	ID      int64  `gorm:"primaryKey;autoIncrement"`
	Name    string `gorm:"type:varchar(200);not null"`
	Country string `gorm:"type:varchar(100);not null"`
	Type    string `gorm:"type:varchar(100);not null"`
}

// TableName returns the table name for GORM
func (Market) TableName() string {
	return "mercados"
}

// State is a rating workflow state (Validado, Pendiente, Rechazado)
type State struct {
	ID   int64  `gorm:"primaryKey;autoIncrement"`
	Name string `gorm:"type:varchar(100);not null;uniqueIndex"`
}

// TableName returns the table name for GORM
func (State) TableName() string {
	return "estados"
}

// NewInstrument validates and builds an instrument
func NewInstrument(name, instrumentType, currency string) (*Instrument, error) {
	if name == "" {
		return nil, shared.NewValidationError("nombre", "El nombre es requerido")
	}
	return &Instrument{Name: name, Type: instrumentType, Currency: currency}, nil
}

// NewMarket validates and builds a market
func NewMarket(name, country, marketType string) (*Market, error) {
	if name == "" {
		return nil, shared.NewValidationError("nombre", "El nombre es requerido")
	}
	return &Market{Name: name, Country: country, Type: marketType}, nil
}

// NewState validates and builds a state
func NewState(name string) (*State, error) {
	if name == "" {
		return nil, shared.NewValidationError("nombre", "El nombre es requerido")
	}
	return &State{Name: name}, nil
}

// InstrumentRepository provides persistence for instruments
type InstrumentRepository interface {
	FindByID(ctx context.Context, id int64) (*Instrument, error)
	FindAll(ctx context.Context) ([]Instrument, error)
	Save(ctx context.Context, instrument *Instrument) error
	Update(ctx context.Context, instrument *Instrument) error
	Delete(ctx context.Context, id int64) error
}

// MarketRepository provides persistence for markets
type MarketRepository interface {
	FindByID(ctx context.Context, id int64) (*Market, error)
	FindAll(ctx context.Context) ([]Market, error)
	Save(ctx context.Context, market *Market) error
	Update(ctx context.Context, market *Market) error
	Delete(ctx context.Context, id int64) error
}

// StateRepository provides persistence for states
type StateRepository interface {
	FindByID(ctx context.Context, id int64) (*State, error)
	FindAll(ctx context.Context) ([]State, error)
	Save(ctx context.Context, state *State) error
	Update(ctx context.Context, state *State) error
	Delete(ctx context.Context, id int64) error
}
