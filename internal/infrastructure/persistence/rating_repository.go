package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nuam/calificaciones/internal/domain/rating"
	"github.com/nuam/calificaciones/internal/domain/shared"
	"github.com/nuam/calificaciones/internal/infrastructure/persistence/accessscope"
)

// GormRatingRepository implements rating.Repository using GORM
type GormRatingRepository struct {
	db *gorm.DB
}

// NewGormRatingRepository creates a new GormRatingRepository
func NewGormRatingRepository(db *gorm.DB) *GormRatingRepository {
	return &GormRatingRepository{db: db}
}

// FindByID loads a rating with its events and factors. Access policy is
// enforced by the caller, not here.
func (r *GormRatingRepository) FindByID(ctx context.Context, id uuid.UUID) (*rating.Rating, error) {
	var model rating.Rating
	if err := r.db.WithContext(ctx).
		Preload("TaxEvents", func(db *gorm.DB) *gorm.DB {
			return db.Order("sequence ASC")
		}).
		Preload("TaxEvents.TaxFactors").
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &model, nil
}

// FindAll lists active ratings visible to the scope, newest first
func (r *GormRatingRepository) FindAll(ctx context.Context, scope rating.Scope, query rating.ListQuery) ([]rating.Rating, int64, error) {
	base := r.db.WithContext(ctx).Model(&rating.Rating{}).Where("calificaciones.is_active = ?", true)
	base = accessscope.Apply(base, scope)
	base = r.applyQuery(base, scope, query)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortField := ValidateSortField(query.Filter.SortBy, RatingSortFields, "created_at")
	order := "calificaciones." + sortField + " " + ValidateSortOrder(query.Filter.SortDesc || query.Filter.SortBy == "")

	var models []rating.Rating
	if err := base.
		Preload("TaxEvents", func(db *gorm.DB) *gorm.DB {
			return db.Order("sequence ASC")
		}).
		Preload("TaxEvents.TaxFactors").
		Order(order).
		Offset(query.Filter.Offset()).
		Limit(query.Filter.Limit()).
		Find(&models).Error; err != nil {
		return nil, 0, err
	}
	return models, total, nil
}

func (r *GormRatingRepository) applyQuery(db *gorm.DB, scope rating.Scope, query rating.ListQuery) *gorm.DB {
	if query.ID != nil {
		db = db.Where("calificaciones.id = ?", *query.ID)
	}
	if query.OnlyOwn {
		db = db.Where("calificaciones.owner_id = ?", scope.UserID)
	}
	if query.OwnerEmail != "" {
		db = db.Joins("JOIN usuarios ON usuarios.id = calificaciones.owner_id").
			Where("usuarios.email ILIKE ?", "%"+query.OwnerEmail+"%")
	}
	if query.Year != nil {
		db = db.Where("EXTRACT(YEAR FROM calificaciones.issue_date) = ?", *query.Year)
	}
	if query.IssuedFrom != nil {
		db = db.Where("calificaciones.issue_date >= ?", *query.IssuedFrom)
	}
	if query.IssuedUntil != nil {
		db = db.Where("calificaciones.issue_date <= ?", *query.IssuedUntil)
	}
	if query.StateID != nil {
		db = db.Where("calificaciones.state_id = ?", *query.StateID)
	}
	if query.MarketID != nil {
		db = db.Where("calificaciones.market_id = ?", *query.MarketID)
	}
	if query.InstrumentID != nil {
		db = db.Where("calificaciones.instrument_id = ?", *query.InstrumentID)
	}
	return db
}

// Save persists a new rating together with its nested events and factors
func (r *GormRatingRepository) Save(ctx context.Context, rt *rating.Rating) error {
	return r.db.WithContext(ctx).Create(rt).Error
}

// Update persists the rating row. Children are managed through the
// event operations, never rewritten wholesale here.
func (r *GormRatingRepository) Update(ctx context.Context, rt *rating.Rating) error {
	result := r.db.WithContext(ctx).Omit(clause.Associations).Save(rt)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindEventByID loads a tax event with its factors
func (r *GormRatingRepository) FindEventByID(ctx context.Context, id uuid.UUID) (*rating.TaxEvent, error) {
	var model rating.TaxEvent
	if err := r.db.WithContext(ctx).
		Preload("TaxFactors").
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &model, nil
}

// SaveEvent persists a new tax event with its factors
func (r *GormRatingRepository) SaveEvent(ctx context.Context, event *rating.TaxEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

// UpdateEvent persists changes to a tax event row
func (r *GormRatingRepository) UpdateEvent(ctx context.Context, event *rating.TaxEvent) error {
	result := r.db.WithContext(ctx).Omit(clause.Associations).Save(event)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ rating.Repository = (*GormRatingRepository)(nil)
