package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nuam/calificaciones/internal/domain/identity"
	"github.com/nuam/calificaciones/internal/infrastructure/auth"
	"github.com/nuam/calificaciones/internal/infrastructure/logger"
	"github.com/nuam/calificaciones/internal/interfaces/http/dto"
)

// JWT context keys
const (
	ClaimsKey     = "jwt_claims"
	BearerPrefix  = "Bearer "
	AuthHeaderKey = "Authorization"
)

// JWTAuth validates the bearer token, rejects revoked tokens and places the
// claims on the request context. The role comes from the validated token
// only; there is no header fallback and no default role.
func JWTAuth(jwtService *auth.JWTService, blacklist auth.TokenBlacklist) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(AuthHeaderKey)
		if header == "" || !strings.HasPrefix(header, BearerPrefix) {
			abortUnauthorized(c, "Token de autorización requerido")
			return
		}

		tokenString := strings.TrimPrefix(header, BearerPrefix)
		claims, err := jwtService.ValidateAccessToken(tokenString)
		if err != nil {
			abortUnauthorized(c, "Token inválido o expirado")
			return
		}

		if blacklist != nil {
			ctx := c.Request.Context()
			if revoked, err := blacklist.IsBlacklisted(ctx, claims.ID); err == nil && revoked {
				abortUnauthorized(c, "Token revocado")
				return
			}
			if claims.IssuedAt != nil {
				if invalidated, err := blacklist.IsUserTokenInvalidated(ctx, claims.UserID, claims.IssuedAt.Time); err == nil && invalidated {
					abortUnauthorized(c, "Token revocado")
					return
				}
			}
		}

		c.Set(ClaimsKey, claims)
		c.Request = c.Request.WithContext(
			logger.WithUserID(c.Request.Context(), claims.UserID))
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewErrorResponse(dto.CodeUnauthorized, message))
}

// GetClaims returns the validated claims placed by JWTAuth
func GetClaims(c *gin.Context) (*auth.Claims, bool) {
	value, exists := c.Get(ClaimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*auth.Claims)
	return claims, ok
}

// GetUserID returns the authenticated user's ID
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	claims, ok := GetClaims(c)
	if !ok {
		return uuid.Nil, false
	}
	id, err := claims.GetUserUUID()
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// GetRole returns the authenticated user's role
func GetRole(c *gin.Context) (identity.Role, bool) {
	claims, ok := GetClaims(c)
	if !ok {
		return "", false
	}
	role, err := claims.GetRole()
	if err != nil {
		return "", false
	}
	return role, true
}

// RequireRoles gates a route to the given roles. Must run after JWTAuth.
func RequireRoles(roles ...identity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := GetRole(c)
		if !ok {
			abortUnauthorized(c, "Token de autorización requerido")
			return
		}
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden,
			dto.NewErrorResponse(dto.CodeForbidden, "No tiene permisos para esta operación"))
	}
}

// RequireAdmin gates a route to administrators
func RequireAdmin() gin.HandlerFunc {
	return RequireRoles(identity.RoleAdmin)
}
