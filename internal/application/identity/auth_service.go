// Package identity implements authentication and account administration on
// top of the identity domain: corporate login, registration, token refresh
// and revocation, and the admin user management surface.
package identity

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/nuam/calificaciones/internal/domain/identity"
	"github.com/nuam/calificaciones/internal/domain/shared"
	"github.com/nuam/calificaciones/internal/infrastructure/auth"
)

var errInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS", "Credenciales inválidas")

// AuthService handles login, registration and token lifecycle
type AuthService struct {
	users      identity.UserRepository
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	logger     *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(users identity.UserRepository, jwtService *auth.JWTService, blacklist auth.TokenBlacklist, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:      users,
		jwtService: jwtService,
		blacklist:  blacklist,
		logger:     logger,
	}
}

// Login authenticates corporate credentials and issues a token pair.
// Unknown email, wrong password and disabled account all collapse into the
// same error so the response does not leak which accounts exist.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, errInvalidCredentials
	}
	if !user.CheckPassword(req.Password) {
		s.logger.Warn("login with wrong password", zap.String("email", user.Email))
		return nil, errInvalidCredentials
	}
	if !user.IsActive {
		s.logger.Warn("login on disabled account", zap.String("email", user.Email))
		return nil, errInvalidCredentials
	}

	tokens, err := s.jwtService.GenerateTokenPair(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	s.logger.Info("user logged in",
		zap.String("email", user.Email),
		zap.String("role", string(user.Role)))

	return &LoginResponse{Tokens: tokens, User: ToUserResponse(user)}, nil
}

// Register creates an account with an explicit, non-admin role. Admin
// accounts are only created through the admin user surface.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*UserResponse, error) {
	role, err := identity.ParseRole(req.Role)
	if err != nil {
		return nil, err
	}
	if role == identity.RoleAdmin {
		return nil, shared.NewValidationError("rol", "No es posible registrarse como administrador")
	}

	exists, err := s.users.ExistsByEmail(ctx, identity.NormalizeEmail(req.Email))
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, shared.NewValidationError("email", "El correo ya está registrado")
	}
	if req.Rut != "" {
		taken, err := s.users.ExistsByRut(ctx, req.Rut)
		if err != nil {
			return nil, fmt.Errorf("failed to check rut: %w", err)
		}
		if taken {
			return nil, shared.NewValidationError("rut", "El RUT ya está registrado")
		}
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

	s.logger.Info("user registered",
		zap.String("email", user.Email),
		zap.String("role", string(user.Role)))

	resp := ToUserResponse(user)
	return &resp, nil
}

// Refresh exchanges a valid refresh token for a new pair
func (s *AuthService) Refresh(ctx context.Context, req RefreshRequest) (*auth.TokenPair, error) {
	claims, err := s.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, shared.ErrUnauthorized
	}
	if revoked, err := s.blacklist.IsBlacklisted(ctx, claims.ID); err == nil && revoked {
		return nil, shared.ErrUnauthorized
	}

	tokens, err := s.jwtService.RefreshTokenPair(req.RefreshToken)
	if err != nil {
		return nil, shared.ErrUnauthorized
	}
	return tokens, nil
}

// Logout revokes the presented access token for its remaining lifetime
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	ttl := claims.GetRemainingTTL()
	if ttl <= 0 {
		return nil
	}
	if err := s.blacklist.AddToBlacklist(ctx, claims.ID, ttl); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	s.logger.Info("user logged out", zap.String("user_id", claims.UserID))
	return nil
}

// CurrentUser loads the authenticated user's profile
func (s *AuthService) CurrentUser(ctx context.Context, claims *auth.Claims) (*UserResponse, error) {
	userID, err := claims.GetUserUUID()
	if err != nil {
		return nil, shared.ErrUnauthorized
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}
