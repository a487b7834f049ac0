package audit

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nuam/calificaciones/internal/domain/audit"
	"github.com/nuam/calificaciones/internal/domain/identity"
	"github.com/nuam/calificaciones/internal/domain/shared"
)

// MockLogRepository is a mock implementation of audit.LogRepository
type MockLogRepository struct {
	mock.Mock
}

func (m *MockLogRepository) Append(ctx context.Context, entry *audit.LogEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLogRepository) FindAll(ctx context.Context, userID *uuid.UUID, filter shared.Filter) ([]audit.LogEntry, int64, error) {
	args := m.Called(ctx, userID, filter)
	return args.Get(0).([]audit.LogEntry), args.Get(1).(int64), args.Error(2)
}

// MockRecordRepository is a mock implementation of audit.RecordRepository
type MockRecordRepository struct {
	mock.Mock
}

func (m *MockRecordRepository) Append(ctx context.Context, record *audit.Record) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockRecordRepository) FindAll(ctx context.Context, userID *uuid.UUID, filter shared.Filter) ([]audit.Record, int64, error) {
	args := m.Called(ctx, userID, filter)
	return args.Get(0).([]audit.Record), args.Get(1).(int64), args.Error(2)
}

func TestQueryService_ListLogs_CorredorSeesOwnOnly(t *testing.T) {
	ctx := context.Background()
	logs := new(MockLogRepository)
	userID := uuid.New()

	entry, err := audit.NewLogEntry(audit.ActionCreated, "Calificación x", &userID, nil)
	require.NoError(t, err)

	logs.On("FindAll", ctx, &userID, mock.Anything).
		Return([]audit.LogEntry{*entry}, int64(1), nil)

	svc := NewQueryService(logs, new(MockRecordRepository))
	resp, err := svc.ListLogs(ctx, userID, identity.RoleCorredor, ListFilter{})

	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.Total)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "Crear calificación", resp.Items[0].Action)
	logs.AssertExpectations(t)
}

func TestQueryService_ListLogs_SupervisorSeesAll(t *testing.T) {
	ctx := context.Background()
	logs := new(MockLogRepository)

	logs.On("FindAll", ctx, (*uuid.UUID)(nil), mock.Anything).
		Return([]audit.LogEntry{}, int64(0), nil)

	svc := NewQueryService(logs, new(MockRecordRepository))
	_, err := svc.ListLogs(ctx, uuid.New(), identity.RoleSupervisor, ListFilter{})

	require.NoError(t, err)
	logs.AssertExpectations(t)
}

func TestQueryService_ListLogs_InvalidRoleForbidden(t *testing.T) {
	svc := NewQueryService(new(MockLogRepository), new(MockRecordRepository))

	_, err := svc.ListLogs(context.Background(), uuid.New(), identity.Role(""), ListFilter{})
	assert.ErrorIs(t, err, shared.ErrForbidden)
}

func TestQueryService_ListRecords_AdminSeesAll(t *testing.T) {
	ctx := context.Background()
	records := new(MockRecordRepository)
	userID := uuid.New()
	ratingID := uuid.New()

	record := audit.NewRecord("Actualización (Tributaria)", "Éxito", "Evento x", &userID, &ratingID)
	records.On("FindAll", ctx, (*uuid.UUID)(nil), mock.Anything).
		Return([]audit.Record{*record}, int64(1), nil)

	svc := NewQueryService(new(MockLogRepository), records)
	resp, err := svc.ListRecords(ctx, uuid.New(), identity.RoleAdmin, ListFilter{})

	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "Éxito", resp.Items[0].Result)
}

func TestQueryService_Pagination(t *testing.T) {
	ctx := context.Background()
	logs := new(MockLogRepository)
	userID := uuid.New()

	logs.On("FindAll", ctx, &userID, mock.MatchedBy(func(f shared.Filter) bool {
		return f.Page == 3 && f.PageSize == 20
	})).Return([]audit.LogEntry{}, int64(100), nil)

	svc := NewQueryService(logs, new(MockRecordRepository))
	resp, err := svc.ListLogs(ctx, userID, identity.RoleCorredor, ListFilter{Page: 3, PageSize: 20})

	require.NoError(t, err)
	assert.Equal(t, 3, resp.Page)
	assert.Equal(t, 20, resp.PageSize)
}
