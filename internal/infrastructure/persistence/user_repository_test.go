package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/nuam/calificaciones/internal/domain/shared"
)

func userColumns() []string {
	return []string{"id", "created_at", "updated_at", "email", "password_hash",
		"first_name", "last_name", "role", "gender", "phone", "address",
		"rut_document", "country", "is_active"}
}

func TestGormUserRepository_FindByEmail(t *testing.T) {
	t.Run("normalizes the email before querying", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormUserRepository(db)

		userID := uuid.New()
		now := time.Now()
		rows := sqlmock.NewRows(userColumns()).
			AddRow(userID, now, now, "ana@nuam.cl", "hash", "Ana", "Rojas",
				"admin", "", "", "", "11111111-1", "CL", true)

		mock.ExpectQuery(`SELECT \* FROM "usuarios" WHERE email = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("ana@nuam.cl", 1).
			WillReturnRows(rows)

		user, err := repo.FindByEmail(context.Background(), "  ANA@nuam.cl ")

		require.NoError(t, err)
		assert.Equal(t, userID, user.ID)
		assert.Equal(t, "ana@nuam.cl", user.Email)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps missing user to ErrNotFound", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormUserRepository(db)

		mock.ExpectQuery(`SELECT \* FROM "usuarios" WHERE email = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("nadie@nuam.cl", 1).
			WillReturnError(gorm.ErrRecordNotFound)

		user, err := repo.FindByEmail(context.Background(), "nadie@nuam.cl")

		assert.Nil(t, user)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormUserRepository_ExistsByEmail(t *testing.T) {
	db, mock, mockDB := newMockDB(t)
	defer mockDB.Close()
	repo := NewGormUserRepository(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "usuarios" WHERE email = \$1`).
		WithArgs("ana@nuam.cl").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	exists, err := repo.ExistsByEmail(context.Background(), "ana@nuam.cl")

	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormUserRepository_ExistsByRut(t *testing.T) {
	t.Run("empty rut short-circuits without querying", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormUserRepository(db)

		exists, err := repo.ExistsByRut(context.Background(), "")

		require.NoError(t, err)
		assert.False(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormUserRepository_FindAll(t *testing.T) {
	t.Run("filters by email substring", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormUserRepository(db)

		mock.ExpectQuery(`SELECT count\(\*\) FROM "usuarios" WHERE email ILIKE \$1`).
			WithArgs("%rojas%").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery(`SELECT \* FROM "usuarios" WHERE email ILIKE \$1 ORDER BY created_at DESC LIMIT .*`).
			WithArgs("%rojas%").
			WillReturnRows(sqlmock.NewRows(userColumns()))

		users, total, err := repo.FindAll(context.Background(), "rojas", shared.DefaultFilter())

		require.NoError(t, err)
		assert.Zero(t, total)
		assert.Empty(t, users)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
