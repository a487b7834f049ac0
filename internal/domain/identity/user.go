package identity

import (
	"strings"

	"github.com/nuam/calificaciones/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// CorporateDomain is the only mail domain accepted for accounts
const CorporateDomain = "@nuam.cl"

// User represents an account that can authenticate and own ratings
type User struct {
	shared.BaseEntity
	Email        string `gorm:"type:varchar(200);not null;uniqueIndex"`
	PasswordHash string `gorm:"type:varchar(200);not null"`
	FirstName    string `gorm:"type:varchar(100)"`
	LastName     string `gorm:"type:varchar(100)"`
	Role         Role   `gorm:"type:varchar(20);not null;index"`
	Gender       string `gorm:"type:varchar(20)"`
	Phone        string `gorm:"type:varchar(20)"`
	Address      string `gorm:"type:varchar(255)"`
	RutDocument  string `gorm:"type:varchar(20);uniqueIndex:idx_usuarios_rut_document,where:rut_document <> ''"`
	Country      string `gorm:"type:varchar(50)"`
	IsActive     bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "usuarios"
}

// NewUser creates an active user with a validated corporate email,
// an explicit role and a bcrypt-hashed password.
func NewUser(email, password string, role Role) (*User, error) {
	email = NormalizeEmail(email)
	if err := validateCorporateEmail(email); err != nil {
		return nil, err
	}
	if !role.IsValid() {
		return nil, shared.NewValidationError("rol", "El rol es requerido")
	}
	if password == "" {
		return nil, shared.NewValidationError("password", "La contraseña es requerida")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return &User{
		BaseEntity:   shared.NewBaseEntity(),
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
	}, nil
}

// NormalizeEmail lowercases and trims a raw email value
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateCorporateEmail(email string) error {
	if email == "" {
		return shared.NewValidationError("email", "Email y password son requeridos")
	}
	if !strings.HasSuffix(email, CorporateDomain) {
		return shared.NewValidationError("email", "Solo se permiten correos corporativos "+CorporateDomain)
	}
	return nil
}

// CheckPassword verifies a plaintext password against the stored hash
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// SetPassword replaces the stored password hash
func (u *User) SetPassword(password string) error {
	if password == "" {
		return shared.NewValidationError("password", "La contraseña es requerida")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// AssignRole changes the user's role
func (u *User) AssignRole(role Role) error {
	if !role.IsValid() {
		return shared.NewValidationError("rol", "Rol desconocido: "+string(role))
	}
	u.Role = role
	return nil
}

// Disable deactivates the account. Admin accounts cannot be disabled.
func (u *User) Disable() error {
	if u.Role == RoleAdmin {
		return shared.NewDomainError("FORBIDDEN", "No se puede deshabilitar a un administrador")
	}
	u.IsActive = false
	return nil
}

// Enable reactivates the account
func (u *User) Enable() {
	u.IsActive = true
}

// FullName returns the display name, falling back to the email
func (u *User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Email
	}
	return name
}
