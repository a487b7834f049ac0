// Package refdata is the CRUD surface over the lookup tables: instruments,
// markets and states. Reads are open to any authenticated user; writes are
// gated to admins at the route level.
package refdata

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/nuam/calificaciones/internal/domain/refdata"
)

// InstrumentRequest creates or updates an instrument
type InstrumentRequest struct {
	Name     string `json:"nombre" binding:"required,max=200"`
	Type     string `json:"tipo" binding:"max=100"`
	Currency string `json:"moneda" binding:"max=50"`
}

// MarketRequest creates or updates a market
type MarketRequest struct {
	Name    string `json:"nombre" binding:"required,max=200"`
	Country string `json:"pais" binding:"max=100"`
	Type    string `json:"tipo" binding:"max=100"`
}

// StateRequest creates or updates a state
type StateRequest struct {
	Name string `json:"nombre" binding:"required,max=100"`
}

// InstrumentResponse represents an instrument in API responses
type InstrumentResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"nombre"`
	Type     string `json:"tipo"`
	Currency string `json:"moneda"`
}

// MarketResponse represents a market in API responses
type MarketResponse struct {
	ID      int64  `json:"id"`
	Name    string `json:"nombre"`
	Country string `json:"pais"`
	Type    string `json:"tipo"`
}

// StateResponse represents a state in API responses
type StateResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"nombre"`
}

// Service manages the three lookup tables
type Service struct {
	instruments refdata.InstrumentRepository
	markets     refdata.MarketRepository
	states      refdata.StateRepository
	logger      *zap.Logger
}

// NewService creates a new reference data service
func NewService(instruments refdata.InstrumentRepository, markets refdata.MarketRepository, states refdata.StateRepository, logger *zap.Logger) *Service {
	return &Service{
		instruments: instruments,
		markets:     markets,
		states:      states,
		logger:      logger,
	}
}

func toInstrumentResponse(i *refdata.Instrument) InstrumentResponse {
	return InstrumentResponse{ID: i.ID, Name: i.Name, Type: i.Type, Currency: i.Currency}
}

func toMarketResponse(m *refdata.Market) MarketResponse {
	return MarketResponse{ID: m.ID, Name: m.Name, Country: m.Country, Type: m.Type}
}

func toStateResponse(s *refdata.State) StateResponse {
	return StateResponse{ID: s.ID, Name: s.Name}
}

// ListInstruments returns every instrument ordered by name
func (s *Service) ListInstruments(ctx context.Context) ([]InstrumentResponse, error) {
	instruments, err := s.instruments.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list instruments: %w", err)
	}
	items := make([]InstrumentResponse, len(instruments))
	for i := range instruments {
		items[i] = toInstrumentResponse(&instruments[i])
	}
	return items, nil
}

// GetInstrument loads one instrument
func (s *Service) GetInstrument(ctx context.Context, id int64) (*InstrumentResponse, error) {
	instrument, err := s.instruments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toInstrumentResponse(instrument)
	return &resp, nil
}

// CreateInstrument validates and persists a new instrument
func (s *Service) CreateInstrument(ctx context.Context, req InstrumentRequest) (*InstrumentResponse, error) {
	instrument, err := refdata.NewInstrument(req.Name, req.Type, req.Currency)
	if err != nil {
		return nil, err
	}
	if err := s.instruments.Save(ctx, instrument); err != nil {
		return nil, fmt.Errorf("failed to save instrument: %w", err)
	}
	s.logger.Info("instrument created", zap.String("name", instrument.Name))
	resp := toInstrumentResponse(instrument)
	return &resp, nil
}

// UpdateInstrument replaces the instrument's fields
func (s *Service) UpdateInstrument(ctx context.Context, id int64, req InstrumentRequest) (*InstrumentResponse, error) {
	instrument, err := s.instruments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	instrument.Name = req.Name
	instrument.Type = req.Type
	instrument.Currency = req.Currency
	if err := s.instruments.Update(ctx, instrument); err != nil {
		return nil, fmt.Errorf("failed to update instrument: %w", err)
	}
	resp := toInstrumentResponse(instrument)
	return &resp, nil
}

// DeleteInstrument removes the instrument row
func (s *Service) DeleteInstrument(ctx context.Context, id int64) error {
	return s.instruments.Delete(ctx, id)
}

// ListMarkets returns every market ordered by name
func (s *Service) ListMarkets(ctx context.Context) ([]MarketResponse, error) {
	markets, err := s.markets.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list markets: %w", err)
	}
	items := make([]MarketResponse, len(markets))
	for i := range markets {
		items[i] = toMarketResponse(&markets[i])
	}
	return items, nil
}

// GetMarket loads one market
func (s *Service) GetMarket(ctx context.Context, id int64) (*MarketResponse, error) {
	market, err := s.markets.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toMarketResponse(market)
	return &resp, nil
}

// CreateMarket validates and persists a new market
func (s *Service) CreateMarket(ctx context.Context, req MarketRequest) (*MarketResponse, error) {
	market, err := refdata.NewMarket(req.Name, req.Country, req.Type)
	if err != nil {
		return nil, err
	}
	if err := s.markets.Save(ctx, market); err != nil {
		return nil, fmt.Errorf("failed to save market: %w", err)
	}
	s.logger.Info("market created", zap.String("name", market.Name))
	resp := toMarketResponse(market)
	return &resp, nil
}

// UpdateMarket replaces the market's fields
func (s *Service) UpdateMarket(ctx context.Context, id int64, req MarketRequest) (*MarketResponse, error) {
	market, err := s.markets.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	market.Name = req.Name
	market.Country = req.Country
	market.Type = req.Type
	if err := s.markets.Update(ctx, market); err != nil {
		return nil, fmt.Errorf("failed to update market: %w", err)
	}
	resp := toMarketResponse(market)
	return &resp, nil
}

// DeleteMarket removes the market row
func (s *Service) DeleteMarket(ctx context.Context, id int64) error {
	return s.markets.Delete(ctx, id)
}

// ListStates returns every state ordered by name
func (s *Service) ListStates(ctx context.Context) ([]StateResponse, error) {
	states, err := s.states.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list states: %w", err)
	}
	items := make([]StateResponse, len(states))
	for i := range states {
		items[i] = toStateResponse(&states[i])
	}
	return items, nil
}

// GetState loads one state
func (s *Service) GetState(ctx context.Context, id int64) (*StateResponse, error) {
	state, err := s.states.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toStateResponse(state)
	return &resp, nil
}

// CreateState validates and persists a new state
func (s *Service) CreateState(ctx context.Context, req StateRequest) (*StateResponse, error) {
	state, err := refdata.NewState(req.Name)
	if err != nil {
		return nil, err
	}
	if err := s.states.Save(ctx, state); err != nil {
		return nil, fmt.Errorf("failed to save state: %w", err)
	}
	s.logger.Info("state created", zap.String("name", state.Name))
	resp := toStateResponse(state)
	return &resp, nil
}

// UpdateState replaces the state's name
func (s *Service) UpdateState(ctx context.Context, id int64, req StateRequest) (*StateResponse, error) {
	state, err := s.states.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	state.Name = req.Name
	if err := s.states.Update(ctx, state); err != nil {
		return nil, fmt.Errorf("failed to update state: %w", err)
	}
	resp := toStateResponse(state)
	return &resp, nil
}

// DeleteState removes the state row
func (s *Service) DeleteState(ctx context.Context, id int64) error {
	return s.states.Delete(ctx, id)
}
