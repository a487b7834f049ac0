package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/nuam/calificaciones/internal/domain/refdata"
	"github.com/nuam/calificaciones/internal/domain/shared"
)

// GormInstrumentRepository implements refdata.InstrumentRepository using GORM
type GormInstrumentRepository struct {
	db *gorm.DB
}

// NewGormInstrumentRepository creates a new GormInstrumentRepository
func NewGormInstrumentRepository(db *gorm.DB) *GormInstrumentRepository {
	return &GormInstrumentRepository{db: db}
}

// FindByID finds an instrument by ID
func (r *GormInstrumentRepository) FindByID(ctx context.Context, id int64) (*refdata.Instrument, error) {
	var model refdata.Instrument
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &model, nil
}

// FindAll lists all instruments ordered by name
func (r *GormInstrumentRepository) FindAll(ctx context.Context) ([]refdata.Instrument, error) {
	var models []refdata.Instrument
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	return models, nil
}

// Save creates an instrument
func (r *GormInstrumentRepository) Save(ctx context.Context, instrument *refdata.Instrument) error {
	return r.db.WithContext(ctx).Create(instrument).Error
}

// Update persists changes to an instrument
func (r *GormInstrumentRepository) Update(ctx context.Context, instrument *refdata.Instrument) error {
	result := r.db.WithContext(ctx).Save(instrument)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes an instrument
func (r *GormInstrumentRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&refdata.Instrument{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ refdata.InstrumentRepository = (*GormInstrumentRepository)(nil)

// GormMarketRepository implements refdata.MarketRepository using GORM
type GormMarketRepository struct {
	db *gorm.DB
}

// NewGormMarketRepository creates a new GormMarketRepository
func NewGormMarketRepository(db *gorm.DB) *GormMarketRepository {
	return &GormMarketRepository{db: db}
}

// FindByID finds a market by ID
func (r *GormMarketRepository) FindByID(ctx context.Context, id int64) (*refdata.Market, error) {
	var model refdata.Market
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &model, nil
}

// FindAll lists all markets ordered by name
func (r *GormMarketRepository) FindAll(ctx context.Context) ([]refdata.Market, error) {
	var models []refdata.Market
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	return models, nil
}

// Save creates a market
func (r *GormMarketRepository) Save(ctx context.Context, market *refdata.Market) error {
	return r.db.WithContext(ctx).Create(market).Error
}

// Update persists changes to a market
func (r *GormMarketRepository) Update(ctx context.Context, market *refdata.Market) error {
	result := r.db.WithContext(ctx).Save(market)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes a market
func (r *GormMarketRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&refdata.Market{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ refdata.MarketRepository = (*GormMarketRepository)(nil)

// GormStateRepository implements refdata.StateRepository using GORM
type GormStateRepository struct {
	db *gorm.DB
}

// NewGormStateRepository creates a new GormStateRepository
func NewGormStateRepository(db *gorm.DB) *GormStateRepository {
	return &GormStateRepository{db: db}
}

// FindByID finds a state by ID
func (r *GormStateRepository) FindByID(ctx context.Context, id int64) (*refdata.State, error) {
	var model refdata.State
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &model, nil
}

// FindAll lists all states ordered by name
func (r *GormStateRepository) FindAll(ctx context.Context) ([]refdata.State, error) {
	var models []refdata.State
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	return models, nil
}

// Save creates a state
func (r *GormStateRepository) Save(ctx context.Context, state *refdata.State) error {
	return r.db.WithContext(ctx).Create(state).Error
}

// Update persists changes to a state
func (r *GormStateRepository) Update(ctx context.Context, state *refdata.State) error {
	result := r.db.WithContext(ctx).Save(state)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes a state
func (r *GormStateRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&refdata.State{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ refdata.StateRepository = (*GormStateRepository)(nil)
