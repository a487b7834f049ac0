package persistence

import (
	"context"

	"gorm.io/gorm"

	appbulk "github.com/nuam/calificaciones/internal/application/bulk"
	"github.com/nuam/calificaciones/internal/domain/audit"
	"github.com/nuam/calificaciones/internal/domain/rating"
)

// GormTransactionScope implements bulk.TransactionScope using GORM
// transactions. Nested calls map to SAVEPOINTs on postgres.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction. If the
// function returns an error the whole transaction is rolled back.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(uow appbulk.UnitOfWork) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormUnitOfWork{tx: tx})
	})
}

type gormUnitOfWork struct {
	tx *gorm.DB
}

// Ratings returns the rating repository bound to the current transaction
func (u *gormUnitOfWork) Ratings() rating.Repository {
	return NewGormRatingRepository(u.tx)
}

// Logs returns the audit log repository bound to the current transaction
func (u *gormUnitOfWork) Logs() audit.LogRepository {
	return NewGormLogRepository(u.tx)
}

// SavePoint runs fn in a sub-transaction. GORM issues SAVEPOINT /
// ROLLBACK TO SAVEPOINT inside an open transaction, so a failing fn
// only discards its own writes.
func (u *gormUnitOfWork) SavePoint(fn func(uow appbulk.UnitOfWork) error) error {
	return u.tx.Transaction(func(tx *gorm.DB) error {
		return fn(&gormUnitOfWork{tx: tx})
	})
}

var _ appbulk.TransactionScope = (*GormTransactionScope)(nil)
var _ appbulk.UnitOfWork = (*gormUnitOfWork)(nil)
