// Package audit exposes the read side of the audit trail: role-scoped
// listings of logs and auditorías.
package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nuam/calificaciones/internal/domain/audit"
	"github.com/nuam/calificaciones/internal/domain/identity"
	"github.com/nuam/calificaciones/internal/domain/shared"
)

// ListFilter carries pagination for an audit listing
type ListFilter struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=500"`
}

// LogEntryResponse represents a log entry in API responses
type LogEntryResponse struct {
	ID       int64      `json:"id"`
	At       time.Time  `json:"fecha"`
	Action   string     `json:"accion"`
	Detail   string     `json:"detalle"`
	UserID   *uuid.UUID `json:"usuario_id,omitempty"`
	RatingID *uuid.UUID `json:"calificacion_id,omitempty"`
}

// RecordResponse represents an auditoría row in API responses
type RecordResponse struct {
	ID       int64      `json:"id"`
	At       time.Time  `json:"fecha"`
	Kind     string     `json:"tipo"`
	Result   string     `json:"resultado"`
	Notes    string     `json:"notas"`
	UserID   *uuid.UUID `json:"usuario_id,omitempty"`
	RatingID *uuid.UUID `json:"calificacion_id,omitempty"`
}

// LogListResponse is a paginated log listing
type LogListResponse struct {
	Items    []LogEntryResponse `json:"items"`
	Total    int64              `json:"total"`
	Page     int                `json:"page"`
	PageSize int                `json:"page_size"`
}

// RecordListResponse is a paginated auditoría listing
type RecordListResponse struct {
	Items    []RecordResponse `json:"items"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
}

// QueryService lists audit entries under the caller's visibility: admin and
// supervisor see the full trail, corredor only its own actions.
type QueryService struct {
	logs    audit.LogRepository
	records audit.RecordRepository
}

// NewQueryService creates a new audit query service
func NewQueryService(logs audit.LogRepository, records audit.RecordRepository) *QueryService {
	return &QueryService{logs: logs, records: records}
}

// userScope narrows the listing to the caller's own rows unless the role
// sees everything. An invalid role sees nothing.
func userScope(userID uuid.UUID, role identity.Role) (*uuid.UUID, error) {
	if !role.IsValid() {
		return nil, shared.ErrForbidden
	}
	if role.SeesAllRatings() {
		return nil, nil
	}
	return &userID, nil
}

func pageFilter(filter ListFilter) shared.Filter {
	f := shared.DefaultFilter()
	if filter.Page > 0 {
		f.Page = filter.Page
	}
	if filter.PageSize > 0 {
		f.PageSize = filter.PageSize
	}
	return f
}

// ListLogs returns log entries visible to the caller, newest first
func (s *QueryService) ListLogs(ctx context.Context, userID uuid.UUID, role identity.Role, filter ListFilter) (*LogListResponse, error) {
	scope, err := userScope(userID, role)
	if err != nil {
		return nil, err
	}
	f := pageFilter(filter)

	entries, total, err := s.logs.FindAll(ctx, scope, f)
	if err != nil {
		return nil, fmt.Errorf("failed to list logs: %w", err)
	}

	items := make([]LogEntryResponse, len(entries))
	for i, entry := range entries {
		items[i] = LogEntryResponse{
			ID:       entry.ID,
			At:       entry.At,
			Action:   string(entry.Action),
			Detail:   entry.Detail,
			UserID:   entry.UserID,
			RatingID: entry.RatingID,
		}
	}
	return &LogListResponse{Items: items, Total: total, Page: f.Page, PageSize: f.PageSize}, nil
}

// ListRecords returns auditoría rows visible to the caller, newest first
func (s *QueryService) ListRecords(ctx context.Context, userID uuid.UUID, role identity.Role, filter ListFilter) (*RecordListResponse, error) {
	scope, err := userScope(userID, role)
	if err != nil {
		return nil, err
	}
	f := pageFilter(filter)

	records, total, err := s.records.FindAll(ctx, scope, f)
	if err != nil {
		return nil, fmt.Errorf("failed to list auditorias: %w", err)
	}

	items := make([]RecordResponse, len(records))
	for i, record := range records {
		items[i] = RecordResponse{
			ID:       record.ID,
			At:       record.At,
			Kind:     record.Kind,
			Result:   record.Result,
			Notes:    record.Notes,
			UserID:   record.UserID,
			RatingID: record.RatingID,
		}
	}
	return &RecordListResponse{Items: items, Total: total, Page: f.Page, PageSize: f.PageSize}, nil
}
