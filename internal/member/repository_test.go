package member

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
)

var memberCols = []string{"id", "name", "email", "password_hash", "role", "created_at"}

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func TestRepository_Create(t *testing.T) {
	dbx, mock := newMockDB(t)
	repo := NewRepository(dbx)

	mock.ExpectQuery(`INSERT INTO members.*RETURNING.*`).
		WithArgs("Alice", "alice@example.com", "hashed", "member").
		WillReturnRows(sqlmock.NewRows(memberCols).
			AddRow(1, "Alice", "alice@example.com", "hashed", "member", time.Now()))

	m, err := repo.Create(context.Background(), "Alice", "alice@example.com", "hashed", "member")
	assert.NoError(t, err)
	assert.Equal(t, 1, m.ID)
	assert.Equal(t, "alice@example.com", m.Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_FindByEmail(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		dbx, mock := newMockDB(t)
		repo := NewRepository(dbx)

		mock.ExpectQuery(`SELECT .* FROM members WHERE email = \$1`).
			WithArgs("alice@example.com").
			WillReturnRows(sqlmock.NewRows(memberCols).
				AddRow(1, "Alice", "alice@example.com", "hashed", "member", time.Now()))

		m, err := repo.FindByEmail(context.Background(), "alice@example.com")
		assert.NoError(t, err)
		assert.Equal(t, "Alice", m.Name)
	})

	t.Run("not found", func(t *testing.T) {
		dbx, mock := newMockDB(t)
		repo := NewRepository(dbx)

		mock.ExpectQuery(`SELECT .* FROM members WHERE email = \$1`).
			WithArgs("ghost@example.com").
			WillReturnError(sql.ErrNoRows)

		_, err := repo.FindByEmail(context.Background(), "ghost@example.com")
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})
}

func TestRepository_EmailExists(t *testing.T) {
	dbx, mock := newMockDB(t)
	repo := NewRepository(dbx)

	mock.ExpectQuery(`SELECT EXISTS.*FROM members WHERE email = \$1.*`).
		WithArgs("alice@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.EmailExists(context.Background(), "alice@example.com")
	assert.NoError(t, err)
	assert.True(t, exists)
}
