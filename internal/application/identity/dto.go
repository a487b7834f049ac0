package identity

import (
	"time"

	"github.com/google/uuid"

	"github.com/nuam/calificaciones/internal/domain/identity"
	"github.com/nuam/calificaciones/internal/infrastructure/auth"
)

// LoginRequest carries corporate credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest creates an account. The role is mandatory and must be one
// of the enumerated values; there is no implicit default.
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	Role      string `json:"rol" binding:"required"`
	FirstName string `json:"nombre"`
	LastName  string `json:"apellido"`
	Rut       string `json:"rut" binding:"omitempty,rut"`
	Phone     string `json:"telefono"`
	Address   string `json:"direccion"`
	Country   string `json:"pais"`
}

// RefreshRequest exchanges a refresh token for a new pair
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// UpdateUserRequest patches profile fields; role changes go through the
// same payload but stay admin-only at the route level.
type UpdateUserRequest struct {
	FirstName *string `json:"nombre"`
	LastName  *string `json:"apellido"`
	Phone     *string `json:"telefono"`
	Address   *string `json:"direccion"`
	Country   *string `json:"pais"`
	Role      *string `json:"rol"`
}

// ListUsersFilter carries the user listing query parameters
type ListUsersFilter struct {
	Email    string `form:"email"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=500"`
}

// UserResponse represents a user in API responses. The password hash never
// leaves the service layer.
type UserResponse struct {
	ID        uuid.UUID     `json:"id"`
	Email     string        `json:"email"`
	FirstName string        `json:"nombre"`
	LastName  string        `json:"apellido"`
	FullName  string        `json:"nombre_completo"`
	Role      identity.Role `json:"rol"`
	Rut       string        `json:"rut"`
	Phone     string        `json:"telefono"`
	Address   string        `json:"direccion"`
	Country   string        `json:"pais"`
	IsActive  bool          `json:"activo"`
	CreatedAt time.Time     `json:"creado_en"`
}

// LoginResponse bundles the token pair with the authenticated user
type LoginResponse struct {
	Tokens *auth.TokenPair `json:"tokens"`
	User   UserResponse    `json:"user"`
}

// ListUsersResponse is a paginated user listing
type ListUsersResponse struct {
	Items    []UserResponse `json:"items"`
	Total    int64          `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
}

// ToUserResponse maps a domain user to its response shape
func ToUserResponse(u *identity.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		FullName:  u.FullName(),
		Role:      u.Role,
		Rut:       u.RutDocument,
		Phone:     u.Phone,
		Address:   u.Address,
		Country:   u.Country,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}
