package bulk

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nuam/calificaciones/internal/domain/identity"
	"github.com/nuam/calificaciones/internal/domain/rating"
	"github.com/nuam/calificaciones/internal/infrastructure/bulkfile"
)

// MockRatingRepository is a mock implementation of rating.Repository
type MockRatingRepository struct {
	mock.Mock
}

func (m *MockRatingRepository) FindByID(ctx context.Context, id uuid.UUID) (*rating.Rating, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rating.Rating), args.Error(1)
}

func (m *MockRatingRepository) FindAll(ctx context.Context, scope rating.Scope, query rating.ListQuery) ([]rating.Rating, int64, error) {
	args := m.Called(ctx, scope, query)
	return args.Get(0).([]rating.Rating), args.Get(1).(int64), args.Error(2)
}

func (m *MockRatingRepository) Save(ctx context.Context, r *rating.Rating) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRatingRepository) Update(ctx context.Context, r *rating.Rating) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRatingRepository) FindEventByID(ctx context.Context, id uuid.UUID) (*rating.TaxEvent, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rating.TaxEvent), args.Error(1)
}

func (m *MockRatingRepository) SaveEvent(ctx context.Context, taxEvent *rating.TaxEvent) error {
	args := m.Called(ctx, taxEvent)
	return args.Error(0)
}

func (m *MockRatingRepository) UpdateEvent(ctx context.Context, taxEvent *rating.TaxEvent) error {
	args := m.Called(ctx, taxEvent)
	return args.Error(0)
}

func exportTestRating(t *testing.T, owner uuid.UUID) *rating.Rating {
	t.Helper()
	r, err := rating.NewRating(owner,
		decimal.NewFromFloat(1500.50),
		time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	instrumentID := int64(3)
	r.SetReferences(&instrumentID, nil, nil)
	return r
}

func TestFlattenRating_NoEvents(t *testing.T) {
	r := exportTestRating(t, uuid.New())

	rows := FlattenRating(r)

	require.Len(t, rows, 1)
	require.Len(t, rows[0], len(bulkfile.Columns()))
	assert.Equal(t, r.ID.String(), rows[0][0])
	assert.Equal(t, "3", rows[0][1])
	assert.Equal(t, "1500.5", rows[0][4])
	assert.Equal(t, "2025-03-01", rows[0][5])
	// event and factor cells stay blank
	for _, cell := range rows[0][9:] {
		assert.Empty(t, cell)
	}
}

func TestFlattenRating_EventWithoutFactors(t *testing.T) {
	r := exportTestRating(t, uuid.New())
	taxEvent, err := rating.NewTaxEvent(uuid.New(), 1, decimal.NewFromInt(1000), 2025)
	require.NoError(t, err)
	require.NoError(t, r.AddEvent(*taxEvent))

	rows := FlattenRating(r)

	require.Len(t, rows, 1)
	assert.Equal(t, "1", rows[0][9])
	assert.Equal(t, "1000", rows[0][10])
	assert.Equal(t, "2025", rows[0][11])
	assert.Empty(t, rows[0][13])
	assert.Empty(t, rows[0][14])
}

func TestFlattenRating_OneRowPerFactor(t *testing.T) {
	r := exportTestRating(t, uuid.New())
	taxEvent, err := rating.NewTaxEvent(uuid.New(), 1, decimal.NewFromInt(1000), 2025)
	require.NoError(t, err)
	taxEvent.AddFactor(rating.NewTaxFactor("F8", "", decimal.RequireFromString("0.12345678")))
	taxEvent.AddFactor(rating.NewTaxFactor("F10", "", decimal.RequireFromString("0.5")))
	require.NoError(t, r.AddEvent(*taxEvent))

	rows := FlattenRating(r)

	require.Len(t, rows, 2)
	assert.Equal(t, "F8", rows[0][13])
	assert.Equal(t, "0.12345678", rows[0][14])
	assert.Equal(t, "F10", rows[1][13])
	// rating cells repeat on every factor row
	assert.Equal(t, rows[0][0], rows[1][0])
}

func TestExporter_Export_CSV(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRatingRepository)
	owner := uuid.New()
	r := exportTestRating(t, owner)

	scope := rating.Scope{UserID: owner, Role: identity.RoleCorredor}
	repo.On("FindAll", ctx, scope, mock.Anything).Return([]rating.Rating{*r}, int64(1), nil)

	exporter := NewExporter(repo, zap.NewNop())
	result, err := exporter.Export(ctx, scope, "corredor", FormatCSV)

	require.NoError(t, err)
	assert.Equal(t, "calificaciones_corredor.csv", result.Filename)
	assert.Equal(t, "text/csv", result.ContentType)

	rows, err := bulkfile.ReadCSV(result.Data)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, r.ID.String(), rows[0].Get(bulkfile.ColRatingID))
	// the listing already carries the full aggregate
	repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestExporter_Export_XLSX(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRatingRepository)
	owner := uuid.New()
	r := exportTestRating(t, owner)

	scope := rating.Scope{UserID: owner, Role: identity.RoleAdmin}
	repo.On("FindAll", ctx, scope, mock.Anything).Return([]rating.Rating{*r}, int64(1), nil)

	exporter := NewExporter(repo, zap.NewNop())
	result, err := exporter.Export(ctx, scope, "admin", FormatXLSX)

	require.NoError(t, err)
	assert.Equal(t, "calificaciones_admin.xlsx", result.Filename)

	rows, err := bulkfile.ReadXLSX(result.Data)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "1500.5", rows[0].Get(bulkfile.ColAmount))
}

func TestParseFormat(t *testing.T) {
	format, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, format)

	format, err = ParseFormat("csv")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, format)

	_, err = ParseFormat("pdf")
	assert.Error(t, err)
}
