package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appaudit "github.com/nuam/calificaciones/internal/application/audit"
	appbulk "github.com/nuam/calificaciones/internal/application/bulk"
	appidentity "github.com/nuam/calificaciones/internal/application/identity"
	apprating "github.com/nuam/calificaciones/internal/application/rating"
	apprefdata "github.com/nuam/calificaciones/internal/application/refdata"
	"github.com/nuam/calificaciones/internal/domain/audit"
	"github.com/nuam/calificaciones/internal/domain/identity"
	"github.com/nuam/calificaciones/internal/domain/rating"
	"github.com/nuam/calificaciones/internal/domain/refdata"
	"github.com/nuam/calificaciones/internal/domain/shared"
	"github.com/nuam/calificaciones/internal/infrastructure/auth"
	"github.com/nuam/calificaciones/internal/infrastructure/config"
	"github.com/nuam/calificaciones/internal/infrastructure/event"
	"github.com/nuam/calificaciones/internal/interfaces/http/handler"
	"github.com/nuam/calificaciones/internal/interfaces/http/router"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:                 "test-secret-key-32-characters-long",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "test-issuer",
	}
}

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) ExistsByRut(ctx context.Context, rut string) (bool, error) {
	args := m.Called(ctx, rut)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, emailContains string, filter shared.Filter) ([]identity.User, int64, error) {
	args := m.Called(ctx, emailContains, filter)
	return args.Get(0).([]identity.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) FindByRole(ctx context.Context, role identity.Role) ([]identity.User, error) {
	args := m.Called(ctx, role)
	return args.Get(0).([]identity.User), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

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

func (m *MockRatingRepository) SaveEvent(ctx context.Context, event *rating.TaxEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockRatingRepository) UpdateEvent(ctx context.Context, event *rating.TaxEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// MockInstrumentRepository is a mock implementation of refdata.InstrumentRepository
type MockInstrumentRepository struct {
	mock.Mock
}

func (m *MockInstrumentRepository) FindByID(ctx context.Context, id int64) (*refdata.Instrument, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*refdata.Instrument), args.Error(1)
}

func (m *MockInstrumentRepository) FindAll(ctx context.Context) ([]refdata.Instrument, error) {
	args := m.Called(ctx)
	return args.Get(0).([]refdata.Instrument), args.Error(1)
}

func (m *MockInstrumentRepository) Save(ctx context.Context, instrument *refdata.Instrument) error {
	args := m.Called(ctx, instrument)
	return args.Error(0)
}

func (m *MockInstrumentRepository) Update(ctx context.Context, instrument *refdata.Instrument) error {
	args := m.Called(ctx, instrument)
	return args.Error(0)
}

func (m *MockInstrumentRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockMarketRepository is a mock implementation of refdata.MarketRepository
type MockMarketRepository struct {
	mock.Mock
}

func (m *MockMarketRepository) FindByID(ctx context.Context, id int64) (*refdata.Market, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*refdata.Market), args.Error(1)
}

func (m *MockMarketRepository) FindAll(ctx context.Context) ([]refdata.Market, error) {
	args := m.Called(ctx)
	return args.Get(0).([]refdata.Market), args.Error(1)
}

func (m *MockMarketRepository) Save(ctx context.Context, market *refdata.Market) error {
	args := m.Called(ctx, market)
	return args.Error(0)
}

func (m *MockMarketRepository) Update(ctx context.Context, market *refdata.Market) error {
	args := m.Called(ctx, market)
	return args.Error(0)
}

func (m *MockMarketRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockStateRepository is a mock implementation of refdata.StateRepository
type MockStateRepository struct {
	mock.Mock
}

func (m *MockStateRepository) FindByID(ctx context.Context, id int64) (*refdata.State, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*refdata.State), args.Error(1)
}

func (m *MockStateRepository) FindAll(ctx context.Context) ([]refdata.State, error) {
	args := m.Called(ctx)
	return args.Get(0).([]refdata.State), args.Error(1)
}

func (m *MockStateRepository) Save(ctx context.Context, state *refdata.State) error {
	args := m.Called(ctx, state)
	return args.Error(0)
}

func (m *MockStateRepository) Update(ctx context.Context, state *refdata.State) error {
	args := m.Called(ctx, state)
	return args.Error(0)
}

func (m *MockStateRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

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

// serverScope drives the bulk importer against the mocked repositories
// without a real transaction.
type serverScope struct {
	ratings rating.Repository
	logs    audit.LogRepository
}

func (s *serverScope) Execute(ctx context.Context, fn func(uow appbulk.UnitOfWork) error) error {
	return fn(s)
}

func (s *serverScope) Ratings() rating.Repository { return s.ratings }

func (s *serverScope) Logs() audit.LogRepository { return s.logs }

func (s *serverScope) SavePoint(fn func(uow appbulk.UnitOfWork) error) error {
	return fn(s)
}

type serverMocks struct {
	users       *MockUserRepository
	ratings     *MockRatingRepository
	instruments *MockInstrumentRepository
	markets     *MockMarketRepository
	states      *MockStateRepository
	logs        *MockLogRepository
	records     *MockRecordRepository
}

// newTestServer wires mocked repositories through the real services,
// handlers and router, so each test exercises the full HTTP path
// including the JWT middleware and the role gates.
func newTestServer(t *testing.T) (*gin.Engine, *serverMocks, *auth.JWTService) {
	t.Helper()

	mocks := &serverMocks{
		users:       new(MockUserRepository),
		ratings:     new(MockRatingRepository),
		instruments: new(MockInstrumentRepository),
		markets:     new(MockMarketRepository),
		states:      new(MockStateRepository),
		logs:        new(MockLogRepository),
		records:     new(MockRecordRepository),
	}

	log := zap.NewNop()
	jwtService := auth.NewJWTService(testJWTConfig())
	blacklist := auth.NewInMemoryTokenBlacklist()

	authService := appidentity.NewAuthService(mocks.users, jwtService, blacklist, log)
	userService := appidentity.NewUserService(mocks.users, log)
	ratingService := apprating.NewService(
		mocks.ratings, mocks.users,
		mocks.instruments, mocks.markets, mocks.states,
		mocks.logs, mocks.records,
		event.NewNoopRatingPublisher(), log,
	)
	refdataService := apprefdata.NewService(mocks.instruments, mocks.markets, mocks.states, log)
	auditService := appaudit.NewQueryService(mocks.logs, mocks.records)
	exporter := appbulk.NewExporter(mocks.ratings, log)
	importer := appbulk.NewImporter(&serverScope{ratings: mocks.ratings, logs: mocks.logs}, 100, log)

	engine := router.New(router.Dependencies{
		Config:     &config.Config{},
		Logger:     log,
		JWTService: jwtService,
		Blacklist:  blacklist,
		Handlers: router.Handlers{
			Auth:    handler.NewAuthHandler(authService),
			Users:   handler.NewUserHandler(userService),
			Ratings: handler.NewRatingHandler(ratingService),
			Bulk:    handler.NewBulkHandler(exporter, importer),
			Refdata: handler.NewRefdataHandler(refdataService),
			Audit:   handler.NewAuditHandler(auditService),
		},
	})
	return engine, mocks, jwtService
}

func makeUser(t *testing.T, role identity.Role) *identity.User {
	t.Helper()
	user, err := identity.NewUser("ana.rojas@nuam.cl", "Password123", role)
	require.NoError(t, err)
	return user
}

func bearerFor(t *testing.T, jwtService *auth.JWTService, user *identity.User) string {
	t.Helper()
	pair, err := jwtService.GenerateTokenPair(user.ID, user.Email, user.Role)
	require.NoError(t, err)
	return "Bearer " + pair.AccessToken
}

func doRequest(engine *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}
