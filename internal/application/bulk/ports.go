// Package bulk implements the Excel/CSV mass import and export of ratings.
package bulk

import (
	"context"

	"github.com/nuam/calificaciones/internal/domain/audit"
	"github.com/nuam/calificaciones/internal/domain/rating"
)

// UnitOfWork exposes the repositories bound to one database transaction.
// SavePoint runs a function inside a sub-transaction: when it fails only
// its own writes are rolled back, the enclosing transaction survives.
type UnitOfWork interface {
	Ratings() rating.Repository
	Logs() audit.LogRepository
	SavePoint(fn func(uow UnitOfWork) error) error
}

// TransactionScope runs a function within a database transaction. The
// import uses one transaction per file with a savepoint per row, so a
// bad row never poisons its neighbours.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(uow UnitOfWork) error) error
}
