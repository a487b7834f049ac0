package accessscope

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/nuam/calificaciones/internal/domain/identity"
	"github.com/nuam/calificaciones/internal/domain/rating"
)

func TestCanSee(t *testing.T) {
	ownerID := uuid.New()
	otherID := uuid.New()

	tests := []struct {
		name  string
		scope rating.Scope
		owner *uuid.UUID
		want  bool
	}{
		{"admin sees any record", rating.Scope{UserID: otherID, Role: identity.RoleAdmin}, &ownerID, true},
		{"supervisor sees any record", rating.Scope{UserID: otherID, Role: identity.RoleSupervisor}, &ownerID, true},
		{"corredor sees own record", rating.Scope{UserID: ownerID, Role: identity.RoleCorredor}, &ownerID, true},
		{"corredor blind to others", rating.Scope{UserID: otherID, Role: identity.RoleCorredor}, &ownerID, false},
		{"corredor blind to ownerless record", rating.Scope{UserID: ownerID, Role: identity.RoleCorredor}, nil, false},
		{"admin sees ownerless record", rating.Scope{UserID: otherID, Role: identity.RoleAdmin}, nil, true},
		{"invalid role sees nothing", rating.Scope{UserID: ownerID, Role: identity.Role("guest")}, &ownerID, false},
		{"empty role sees nothing", rating.Scope{UserID: ownerID}, &ownerID, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanSee(tt.scope, tt.owner))
		})
	}
}
