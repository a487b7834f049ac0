// Package accessscope applies role-based visibility to GORM queries.
//
// Administrators and supervisors see every record. Corredores only see
// records they own. The scope is resolved from the authenticated role,
// never from a default: a query without a valid role returns nothing.
//
// Usage:
//
//	scopedDB := accessscope.Apply(db, scope)
//	scopedDB.Find(&ratings) // WHERE owner_id = ? is added for corredores
package accessscope

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nuam/calificaciones/internal/domain/rating"
)

// Apply narrows the query to the rows visible to the scope's role.
func Apply(db *gorm.DB, scope rating.Scope) *gorm.DB {
	if !scope.Role.IsValid() {
		return db.Where("1 = 0")
	}
	if scope.Role.SeesAllRatings() {
		return db
	}
	if scope.UserID == uuid.Nil {
		return db.Where("1 = 0")
	}
	return db.Where("owner_id = ?", scope.UserID)
}

// ApplyOwner narrows a query by an explicit owner column. Used for
// tables that reference the owner through a different column name.
func ApplyOwner(db *gorm.DB, scope rating.Scope, column string) *gorm.DB {
	if !scope.Role.IsValid() {
		return db.Where("1 = 0")
	}
	if scope.Role.SeesAllRatings() {
		return db
	}
	if scope.UserID == uuid.Nil {
		return db.Where("1 = 0")
	}
	return db.Where(column+" = ?", scope.UserID)
}

// CanSee reports whether the scope may read a record owned by ownerID.
// Records without an owner are visible to privileged roles only.
func CanSee(scope rating.Scope, ownerID *uuid.UUID) bool {
	if !scope.Role.IsValid() {
		return false
	}
	if scope.Role.SeesAllRatings() {
		return true
	}
	if ownerID == nil {
		return false
	}
	return *ownerID == scope.UserID
}
