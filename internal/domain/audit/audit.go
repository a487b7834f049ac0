// Package audit holds the append-only trail written as a side effect of
// rating mutations: Log entries for lifecycle actions and Records
// (auditorías) for tax-event changes. Rows are immutable once written and
// weakly reference their rating and user, tolerating either being absent.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/nuam/calificaciones/internal/domain/shared"
)

// Action classifies a lifecycle log entry. The classification is an explicit
// decision at the call site, never inferred from field state.
type Action string

const (
	ActionCreated     Action = "Crear calificación"
	ActionUpdated     Action = "Actualizar calificación"
	ActionDeactivated Action = "Eliminar calificación"
	ActionBulkImport  Action = "Carga masiva"
)

// IsValid reports whether the action is one of the enumerated values
func (a Action) IsValid() bool {
	switch a {
	case ActionCreated, ActionUpdated, ActionDeactivated, ActionBulkImport:
		return true
	}
	return false
}

// LogEntry records one lifecycle action against a rating
type LogEntry struct {
	ID       int64      `gorm:"primaryKey;autoIncrement"`
	At       time.Time  `gorm:"not null;index"`
	Action   Action     `gorm:"type:varchar(200);not null"`
	Detail   string     `gorm:"type:text"`
	UserID   *uuid.UUID `gorm:"type:uuid;index"`
	RatingID *uuid.UUID `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (LogEntry) TableName() string {
	return "logs"
}

// NewLogEntry builds a validated log entry stamped with the current time
func NewLogEntry(action Action, detail string, userID, ratingID *uuid.UUID) (*LogEntry, error) {
	if !action.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Acción de log desconocida")
	}
	return &LogEntry{
		At:       time.Now(),
		Action:   action,
		Detail:   detail,
		UserID:   userID,
		RatingID: ratingID,
	}, nil
}

// Record is an auditoría row: the outcome of a checked operation,
// currently written for tax-event changes against the parent rating.
type Record struct {
	ID       int64      `gorm:"primaryKey;autoIncrement"`
	At       time.Time  `gorm:"not null;index"`
	Kind     string     `gorm:"type:varchar(100);not null"`
	Result   string     `gorm:"type:varchar(100);not null"`
	Notes    string     `gorm:"type:text"`
	UserID   *uuid.UUID `gorm:"type:uuid;index"`
	RatingID *uuid.UUID `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (Record) TableName() string {
	return "auditorias"
}

// NewRecord builds an auditoría row stamped with the current time
func NewRecord(kind, result, notes string, userID, ratingID *uuid.UUID) *Record {
	return &Record{
		At:       time.Now(),
		Kind:     kind,
		Result:   result,
		Notes:    notes,
		UserID:   userID,
		RatingID: ratingID,
	}
}

// LogRepository provides append and role-scoped listing for log entries
type LogRepository interface {
	Append(ctx context.Context, entry *LogEntry) error
	// FindAll lists entries newest first; userID restricts to one user's
	// actions when set (corredor scope)
	FindAll(ctx context.Context, userID *uuid.UUID, filter shared.Filter) ([]LogEntry, int64, error)
}

// RecordRepository provides append and role-scoped listing for auditorías
type RecordRepository interface {
	Append(ctx context.Context, record *Record) error
	FindAll(ctx context.Context, userID *uuid.UUID, filter shared.Filter) ([]Record, int64, error)
}
