package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nuam/calificaciones/internal/domain/identity"
	"github.com/nuam/calificaciones/internal/domain/shared"
	"github.com/nuam/calificaciones/internal/infrastructure/auth"
	"github.com/nuam/calificaciones/internal/infrastructure/config"
)

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

func newJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-32-characters-long",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "test-issuer",
	})
}

func newAuthService(users *MockUserRepository) (*AuthService, *auth.InMemoryTokenBlacklist) {
	blacklist := auth.NewInMemoryTokenBlacklist()
	return NewAuthService(users, newJWTService(), blacklist, zap.NewNop()), blacklist
}

func activeUser(t *testing.T, role identity.Role) *identity.User {
	t.Helper()
	user, err := identity.NewUser("ana.rojas@nuam.cl", "Password123", role)
	require.NoError(t, err)
	return user
}

func TestAuthService_Login_Success(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserRepository)
	user := activeUser(t, identity.RoleCorredor)

	users.On("FindByEmail", ctx, "ana.rojas@nuam.cl").Return(user, nil)

	svc, _ := newAuthService(users)
	resp, err := svc.Login(ctx, LoginRequest{Email: "ana.rojas@nuam.cl", Password: "Password123"})

	require.NoError(t, err)
	assert.NotEmpty(t, resp.Tokens.AccessToken)
	assert.NotEmpty(t, resp.Tokens.RefreshToken)
	assert.Equal(t, "Bearer", resp.Tokens.TokenType)
	assert.Equal(t, identity.RoleCorredor, resp.User.Role)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserRepository)
	user := activeUser(t, identity.RoleCorredor)

	users.On("FindByEmail", ctx, "ana.rojas@nuam.cl").Return(user, nil)

	svc, _ := newAuthService(users)
	_, err := svc.Login(ctx, LoginRequest{Email: "ana.rojas@nuam.cl", Password: "incorrecta"})

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "INVALID_CREDENTIALS", domainErr.Code)
}

func TestAuthService_Login_UnknownAndDisabledLookTheSame(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserRepository)

	disabled := activeUser(t, identity.RoleCorredor)
	disabled.IsActive = false
	users.On("FindByEmail", ctx, "ana.rojas@nuam.cl").Return(disabled, nil)
	users.On("FindByEmail", ctx, "nadie@nuam.cl").Return(nil, shared.ErrNotFound)

	svc, _ := newAuthService(users)
	_, errDisabled := svc.Login(ctx, LoginRequest{Email: "ana.rojas@nuam.cl", Password: "Password123"})
	_, errUnknown := svc.Login(ctx, LoginRequest{Email: "nadie@nuam.cl", Password: "Password123"})

	require.Error(t, errDisabled)
	require.Error(t, errUnknown)
	assert.Equal(t, errDisabled.Error(), errUnknown.Error())
}

func TestAuthService_Register_Success(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserRepository)

	users.On("ExistsByEmail", ctx, "pedro.soto@nuam.cl").Return(false, nil)
	users.On("ExistsByRut", ctx, "12.345.678-9").Return(false, nil)
	users.On("Save", ctx, mock.AnythingOfType("*identity.User")).Return(nil)

	svc, _ := newAuthService(users)
	resp, err := svc.Register(ctx, RegisterRequest{
		Email:    "pedro.soto@nuam.cl",
		Password: "Password123",
		Role:     "corredor",
		Rut:      "12.345.678-9",
	})

	require.NoError(t, err)
	assert.Equal(t, identity.RoleCorredor, resp.Role)
	assert.True(t, resp.IsActive)
	users.AssertExpectations(t)
}

func TestAuthService_Register_RoleIsRequired(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthService(new(MockUserRepository))

	_, err := svc.Register(ctx, RegisterRequest{
		Email:    "pedro.soto@nuam.cl",
		Password: "Password123",
	})

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "rol", domainErr.Field)
}

func TestAuthService_Register_AdminRoleRejected(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthService(new(MockUserRepository))

	_, err := svc.Register(ctx, RegisterRequest{
		Email:    "pedro.soto@nuam.cl",
		Password: "Password123",
		Role:     "admin",
	})

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "rol", domainErr.Field)
}

func TestAuthService_Register_NonCorporateEmailRejected(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserRepository)
	users.On("ExistsByEmail", ctx, "pedro@gmail.com").Return(false, nil)

	svc, _ := newAuthService(users)
	_, err := svc.Register(ctx, RegisterRequest{
		Email:    "pedro@gmail.com",
		Password: "Password123",
		Role:     "corredor",
	})

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "email", domainErr.Field)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserRepository)
	users.On("ExistsByEmail", ctx, "ana.rojas@nuam.cl").Return(true, nil)

	svc, _ := newAuthService(users)
	_, err := svc.Register(ctx, RegisterRequest{
		Email:    "ana.rojas@nuam.cl",
		Password: "Password123",
		Role:     "corredor",
	})

	require.Error(t, err)
	users.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestAuthService_LogoutThenRefreshRejected(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserRepository)
	svc, _ := newAuthService(users)

	jwtService := newJWTService()
	tokens, err := jwtService.GenerateTokenPair(uuid.New(), "ana.rojas@nuam.cl", identity.RoleCorredor)
	require.NoError(t, err)

	claims, err := jwtService.ValidateRefreshToken(tokens.RefreshToken)
	require.NoError(t, err)
	require.NoError(t, svc.Logout(ctx, claims))

	_, err = svc.Refresh(ctx, RefreshRequest{RefreshToken: tokens.RefreshToken})
	assert.ErrorIs(t, err, shared.ErrUnauthorized)
}

func TestAuthService_Refresh_Success(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthService(new(MockUserRepository))

	tokens, err := newJWTService().GenerateTokenPair(uuid.New(), "ana.rojas@nuam.cl", identity.RoleSupervisor)
	require.NoError(t, err)

	refreshed, err := svc.Refresh(ctx, RefreshRequest{RefreshToken: tokens.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
}

func TestAuthService_CurrentUser(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserRepository)
	user := activeUser(t, identity.RoleSupervisor)
	users.On("FindByID", ctx, user.ID).Return(user, nil)

	svc, _ := newAuthService(users)
	jwtService := newJWTService()
	tokens, err := jwtService.GenerateTokenPair(user.ID, user.Email, user.Role)
	require.NoError(t, err)
	claims, err := jwtService.ValidateAccessToken(tokens.AccessToken)
	require.NoError(t, err)

	resp, err := svc.CurrentUser(ctx, claims)
	require.NoError(t, err)
	assert.Equal(t, user.Email, resp.Email)
}
