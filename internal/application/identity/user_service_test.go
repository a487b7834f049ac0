package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nuam/calificaciones/internal/domain/identity"
	"github.com/nuam/calificaciones/internal/domain/shared"
)

func newUserService(users *MockUserRepository) *UserService {
	return NewUserService(users, zap.NewNop())
}

func TestUserService_List(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserRepository)
	user := activeUser(t, identity.RoleCorredor)

	users.On("FindAll", ctx, "rojas", mock.MatchedBy(func(f shared.Filter) bool {
		return f.Page == 1 && f.PageSize == 50
	})).Return([]identity.User{*user}, int64(1), nil)

	svc := newUserService(users)
	resp, err := svc.List(ctx, ListUsersFilter{Email: "rojas"})

	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.Total)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, user.Email, resp.Items[0].Email)
}

func TestUserService_Create_AdminRoleAllowed(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserRepository)

	users.On("ExistsByEmail", ctx, "jefa@nuam.cl").Return(false, nil)
	users.On("Save", ctx, mock.AnythingOfType("*identity.User")).Return(nil)

	svc := newUserService(users)
	resp, err := svc.Create(ctx, RegisterRequest{
		Email:    "jefa@nuam.cl",
		Password: "Password123",
		Role:     "admin",
	})

	require.NoError(t, err)
	assert.Equal(t, identity.RoleAdmin, resp.Role)
}

func TestUserService_Update_ChangesRole(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserRepository)
	user := activeUser(t, identity.RoleCorredor)

	users.On("FindByID", ctx, user.ID).Return(user, nil)
	users.On("Update", ctx, user).Return(nil)

	svc := newUserService(users)
	role := "supervisor"
	resp, err := svc.Update(ctx, user.ID, UpdateUserRequest{Role: &role})

	require.NoError(t, err)
	assert.Equal(t, identity.RoleSupervisor, resp.Role)
}

func TestUserService_Update_UnknownRoleRejected(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserRepository)
	user := activeUser(t, identity.RoleCorredor)
	users.On("FindByID", ctx, user.ID).Return(user, nil)

	svc := newUserService(users)
	role := "gerente"
	_, err := svc.Update(ctx, user.ID, UpdateUserRequest{Role: &role})

	require.Error(t, err)
	users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUserService_Disable_AdminRejected(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserRepository)
	admin := activeUser(t, identity.RoleAdmin)
	users.On("FindByID", ctx, admin.ID).Return(admin, nil)

	svc := newUserService(users)
	_, err := svc.Disable(ctx, admin.ID)

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "FORBIDDEN", domainErr.Code)
	assert.True(t, admin.IsActive)
}

func TestUserService_DisableThenEnable(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserRepository)
	user := activeUser(t, identity.RoleCorredor)
	users.On("FindByID", ctx, user.ID).Return(user, nil)
	users.On("Update", ctx, user).Return(nil)

	svc := newUserService(users)

	resp, err := svc.Disable(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, resp.IsActive)

	resp, err = svc.Enable(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, resp.IsActive)
}

func TestUserService_ListByRole_InvalidRole(t *testing.T) {
	ctx := context.Background()
	svc := newUserService(new(MockUserRepository))

	_, err := svc.ListByRole(ctx, "")
	require.Error(t, err)
}
