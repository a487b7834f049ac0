package audit

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogEntry(t *testing.T) {
	userID := uuid.New()
	ratingID := uuid.New()

	t.Run("valid actions", func(t *testing.T) {
		for _, action := range []Action{ActionCreated, ActionUpdated, ActionDeactivated, ActionBulkImport} {
			entry, err := NewLogEntry(action, "detalle", &userID, &ratingID)
			require.NoError(t, err)
			assert.Equal(t, action, entry.Action)
			assert.False(t, entry.At.IsZero())
		}
	})

	t.Run("unknown action is rejected", func(t *testing.T) {
		_, err := NewLogEntry(Action("borrar todo"), "", nil, nil)
		assert.Error(t, err)
	})

	t.Run("tolerates absent user and rating references", func(t *testing.T) {
		entry, err := NewLogEntry(ActionDeactivated, "Calificación eliminada", nil, nil)
		require.NoError(t, err)
		assert.Nil(t, entry.UserID)
		assert.Nil(t, entry.RatingID)
	})
}

func TestNewRecord(t *testing.T) {
	ratingID := uuid.New()
	record := NewRecord("Actualización (Tributaria)", "Éxito", "Cambio en tributaria", nil, &ratingID)

	assert.Equal(t, "Actualización (Tributaria)", record.Kind)
	assert.Equal(t, "Éxito", record.Result)
	assert.Nil(t, record.UserID)
	assert.Equal(t, ratingID, *record.RatingID)
	assert.False(t, record.At.IsZero())
}
