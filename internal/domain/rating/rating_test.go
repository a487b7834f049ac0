package rating

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nuam/calificaciones/internal/domain/identity"
	"github.com/nuam/calificaciones/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNewRating(t *testing.T) {
	actor := uuid.New()

	t.Run("owner is forced to the creator", func(t *testing.T) {
		r, err := NewRating(actor, decimal.RequireFromString("100.0000"), date(2025, 1, 1), date(2025, 1, 2))
		require.NoError(t, err)

		require.NotNil(t, r.OwnerID)
		assert.Equal(t, actor, *r.OwnerID)
		require.NotNil(t, r.CreatedBy)
		assert.Equal(t, actor, *r.CreatedBy)
		require.NotNil(t, r.UpdatedBy)
		assert.Equal(t, actor, *r.UpdatedBy)
		assert.True(t, r.IsActive)
	})

	t.Run("payment date equal to issue date is allowed", func(t *testing.T) {
		_, err := NewRating(actor, decimal.New(1, 0), date(2025, 3, 15), date(2025, 3, 15))
		assert.NoError(t, err)
	})

	t.Run("payment date before issue date is rejected", func(t *testing.T) {
		_, err := NewRating(actor, decimal.New(1, 0), date(2025, 1, 10), date(2025, 1, 9))
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "VALIDATION_ERROR", domainErr.Code)
		assert.Equal(t, "fecha_pago", domainErr.Field)
	})
}

func TestRatingUpdate(t *testing.T) {
	actor := uuid.New()
	editor := uuid.New()

	r, err := NewRating(actor, decimal.New(100, 0), date(2025, 1, 1), date(2025, 1, 2))
	require.NoError(t, err)
	createdBy := *r.CreatedBy

	t.Run("re-validates the date invariant and leaves state unchanged on failure", func(t *testing.T) {
		prevAmount := r.Amount
		err := r.Update(editor, decimal.New(999, 0), date(2025, 2, 2), date(2025, 2, 1))
		require.Error(t, err)
		assert.True(t, r.Amount.Equal(prevAmount))
		assert.Equal(t, date(2025, 1, 1), r.IssueDate)
	})

	t.Run("stamps updated-by but never created-by", func(t *testing.T) {
		require.NoError(t, r.Update(editor, decimal.New(200, 0), date(2025, 1, 1), date(2025, 1, 3)))
		assert.Equal(t, editor, *r.UpdatedBy)
		assert.Equal(t, createdBy, *r.CreatedBy)
	})
}

func TestRatingSoftDelete(t *testing.T) {
	actor := uuid.New()
	deleter := uuid.New()

	r, err := NewRating(actor, decimal.New(1, 0), date(2025, 1, 1), date(2025, 1, 1))
	require.NoError(t, err)

	r.SoftDelete(deleter)
	assert.False(t, r.IsActive)
	assert.Equal(t, deleter, *r.UpdatedBy)

	// idempotent: deleting an inactive rating keeps it inactive and
	// still stamps the acting user
	other := uuid.New()
	r.SoftDelete(other)
	assert.False(t, r.IsActive)
	assert.Equal(t, other, *r.UpdatedBy)
}

func TestRatingCanBeMutatedBy(t *testing.T) {
	owner := uuid.New()
	stranger := uuid.New()

	r, err := NewRating(owner, decimal.New(1, 0), date(2025, 1, 1), date(2025, 1, 1))
	require.NoError(t, err)

	assert.True(t, r.CanBeMutatedBy(owner, identity.RoleCorredor))
	assert.False(t, r.CanBeMutatedBy(stranger, identity.RoleCorredor))
	assert.True(t, r.CanBeMutatedBy(stranger, identity.RoleSupervisor))
	assert.True(t, r.CanBeMutatedBy(stranger, identity.RoleAdmin))
}

func TestRatingReassign(t *testing.T) {
	owner := uuid.New()
	admin := uuid.New()
	newOwner := uuid.New()

	r, err := NewRating(owner, decimal.New(1, 0), date(2025, 1, 1), date(2025, 1, 1))
	require.NoError(t, err)

	r.Reassign(admin, newOwner)
	assert.Equal(t, newOwner, *r.OwnerID)
	assert.Equal(t, admin, *r.UpdatedBy)
	assert.Equal(t, owner, *r.CreatedBy)
}

func TestRatingAddEvent(t *testing.T) {
	actor := uuid.New()
	r, err := NewRating(actor, decimal.New(1, 0), date(2025, 1, 1), date(2025, 1, 1))
	require.NoError(t, err)

	event, err := NewTaxEvent(actor, 1, decimal.New(500, 0), 2025)
	require.NoError(t, err)

	require.NoError(t, r.AddEvent(*event))
	require.Len(t, r.TaxEvents, 1)
	assert.Equal(t, r.ID, r.TaxEvents[0].RatingID)

	bad := *event
	bad.Year = 1999
	assert.Error(t, r.AddEvent(bad))
	assert.Len(t, r.TaxEvents, 1)
}
