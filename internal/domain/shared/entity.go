package shared

import (
	"time"

	"github.com/google/uuid"
)

// Entity is the base interface for all domain entities
type Entity interface {
	GetID() uuid.UUID
	GetCreatedAt() time.Time
	GetUpdatedAt() time.Time
}

// BaseEntity provides common fields for all entities
type BaseEntity struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null;index"`
	UpdatedAt time.Time `gorm:"not null"`
}

// GetID returns the entity ID
func (e *BaseEntity) GetID() uuid.UUID {
	return e.ID
}

// GetCreatedAt returns the creation timestamp
func (e *BaseEntity) GetCreatedAt() time.Time {
	return e.CreatedAt
}

// GetUpdatedAt returns the last update timestamp
func (e *BaseEntity) GetUpdatedAt() time.Time {
	return e.UpdatedAt
}

// NewBaseEntity creates a new base entity with generated ID
func NewBaseEntity() BaseEntity {
	now := time.Now()
	return BaseEntity{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AuditedEntity extends BaseEntity with actor tracking and a soft-delete flag.
// CreatedBy/CreatedAt are immutable after creation; every mutation must stamp
// UpdatedBy. Records are never physically removed through the API: "delete"
// flips IsActive to false.
type AuditedEntity struct {
	BaseEntity
	CreatedBy *uuid.UUID `gorm:"type:uuid;index"`
	UpdatedBy *uuid.UUID `gorm:"type:uuid"`
	IsActive  bool       `gorm:"not null;default:true;index"`
	Comments  string     `gorm:"type:text"`
}

// NewAuditedEntity creates an audited entity stamped with the acting user
func NewAuditedEntity(actor uuid.UUID) AuditedEntity {
	return AuditedEntity{
		BaseEntity: NewBaseEntity(),
		CreatedBy:  &actor,
		UpdatedBy:  &actor,
		IsActive:   true,
	}
}

// Touch stamps the entity with the acting user and current time
func (e *AuditedEntity) Touch(actor uuid.UUID) {
	e.UpdatedBy = &actor
	e.UpdatedAt = time.Now()
}

// Deactivate flips the soft-delete flag. Idempotent: deactivating an already
// inactive entity still stamps the acting user.
func (e *AuditedEntity) Deactivate(actor uuid.UUID) {
	e.IsActive = false
	e.Touch(actor)
}
