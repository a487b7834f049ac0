package identity

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nuam/calificaciones/internal/domain/identity"
	"github.com/nuam/calificaciones/internal/domain/shared"
)

// UserService is the admin account management surface
type UserService struct {
	users  identity.UserRepository
	logger *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(users identity.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{users: users, logger: logger}
}

// List returns users filtered by email substring, paginated
func (s *UserService) List(ctx context.Context, filter ListUsersFilter) (*ListUsersResponse, error) {
	pageFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		pageFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		pageFilter.PageSize = filter.PageSize
	}

	users, total, err := s.users.FindAll(ctx, filter.Email, pageFilter)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	items := make([]UserResponse, len(users))
	for i := range users {
		items[i] = ToUserResponse(&users[i])
	}
	return &ListUsersResponse{
		Items:    items,
		Total:    total,
		Page:     pageFilter.Page,
		PageSize: pageFilter.PageSize,
	}, nil
}

// GetByID loads one user
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// ListByRole returns every user holding the given role
func (s *UserService) ListByRole(ctx context.Context, rawRole string) ([]UserResponse, error) {
	role, err := identity.ParseRole(rawRole)
	if err != nil {
		return nil, err
	}
	users, err := s.users.FindByRole(ctx, role)
	if err != nil {
		return nil, fmt.Errorf("failed to list users by role: %w", err)
	}
	items := make([]UserResponse, len(users))
	for i := range users {
		items[i] = ToUserResponse(&users[i])
	}
	return items, nil
}

// Create registers an account on behalf of an admin; any role is allowed
func (s *UserService) Create(ctx context.Context, req RegisterRequest) (*UserResponse, error) {
	role, err := identity.ParseRole(req.Role)
	if err != nil {
		return nil, err
	}

	exists, err := s.users.ExistsByEmail(ctx, identity.NormalizeEmail(req.Email))
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, shared.NewValidationError("email", "El correo ya está registrado")
	}

	user, err := identity.NewUser(req.Email, req.Password, role)
	if err != nil {
		return nil, err
	}
	user.FirstName = req.FirstName
	user.LastName = req.LastName
	user.RutDocument = req.Rut
	user.Phone = req.Phone
	user.Address = req.Address
	user.Country = req.Country

	if err := s.users.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	s.logger.Info("user created by admin",
		zap.String("email", user.Email),
		zap.String("role", string(user.Role)))

	resp := ToUserResponse(user)
	return &resp, nil
}

// Update patches profile fields and, when present, the role
func (s *UserService) Update(ctx context.Context, id uuid.UUID, req UpdateUserRequest) (*UserResponse, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Address != nil {
		user.Address = *req.Address
	}
	if req.Country != nil {
		user.Country = *req.Country
	}
	if req.Role != nil {
		role, err := identity.ParseRole(*req.Role)
		if err != nil {
			return nil, err
		}
		if err := user.AssignRole(role); err != nil {
			return nil, err
		}
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	resp := ToUserResponse(user)
	return &resp, nil
}

// Disable deactivates an account. Admin accounts cannot be disabled.
func (s *UserService) Disable(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := user.Disable(); err != nil {
		return nil, err
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to disable user: %w", err)
	}

	s.logger.Info("user disabled", zap.String("email", user.Email))
	resp := ToUserResponse(user)
	return &resp, nil
}

// Enable reactivates an account
func (s *UserService) Enable(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Enable()
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to enable user: %w", err)
	}

	s.logger.Info("user enabled", zap.String("email", user.Email))
	resp := ToUserResponse(user)
	return &resp, nil
}
