package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nuam/calificaciones/internal/domain/audit"
	"github.com/nuam/calificaciones/internal/domain/shared"
)

// GormLogRepository implements audit.LogRepository using GORM
type GormLogRepository struct {
	db *gorm.DB
}

// NewGormLogRepository creates a new GormLogRepository
func NewGormLogRepository(db *gorm.DB) *GormLogRepository {
	return &GormLogRepository{db: db}
}

// Append stores a log entry
func (r *GormLogRepository) Append(ctx context.Context, entry *audit.LogEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// FindAll lists log entries newest first. A non-nil userID restricts the
// listing to that user's entries.
func (r *GormLogRepository) FindAll(ctx context.Context, userID *uuid.UUID, filter shared.Filter) ([]audit.LogEntry, int64, error) {
	query := r.db.WithContext(ctx).Model(&audit.LogEntry{})
	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []audit.LogEntry
	if err := query.
		Order("at DESC").
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&entries).Error; err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

var _ audit.LogRepository = (*GormLogRepository)(nil)

// GormRecordRepository implements audit.RecordRepository using GORM
type GormRecordRepository struct {
	db *gorm.DB
}

// NewGormRecordRepository creates a new GormRecordRepository
func NewGormRecordRepository(db *gorm.DB) *GormRecordRepository {
	return &GormRecordRepository{db: db}
}

// Append stores an audit record
func (r *GormRecordRepository) Append(ctx context.Context, record *audit.Record) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// FindAll lists audit records newest first, optionally scoped to one user
func (r *GormRecordRepository) FindAll(ctx context.Context, userID *uuid.UUID, filter shared.Filter) ([]audit.Record, int64, error) {
	query := r.db.WithContext(ctx).Model(&audit.Record{})
	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []audit.Record
	if err := query.
		Order("at DESC").
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&records).Error; err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

var _ audit.RecordRepository = (*GormRecordRepository)(nil)
