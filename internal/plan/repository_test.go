package plan

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
)

var planCols = []string{
	"id", "name", "price_cents", "duration_kind", "duration_days",
	"features", "archived", "created_at", "updated_at",
}

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func TestRepository_Create(t *testing.T) {
	dbx, mock := newMockDB(t)
	repo := NewRepository(dbx)

	mock.ExpectQuery(`INSERT INTO plans.*RETURNING.*`).
		WithArgs("Standard", int64(4999), "monthly", nil, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(planCols).
			AddRow(1, "Standard", 4999, "monthly", nil, "{gym access}", false, time.Now(), time.Now()))

	created, err := repo.Create(context.Background(), &Plan{
		Name:         "Standard",
		PriceCents:   4999,
		DurationKind: DurationMonthly,
		Features:     []string{"gym access"},
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, created.ID)
	assert.Equal(t, []string{"gym access"}, []string(created.Features))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Archive(t *testing.T) {
	t.Run("archives a live plan", func(t *testing.T) {
		dbx, mock := newMockDB(t)
		repo := NewRepository(dbx)

		mock.ExpectExec(`UPDATE plans.*SET archived = TRUE.*WHERE id = \$1 AND archived = FALSE`).
			WithArgs(1).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Archive(context.Background(), 1))
	})

	t.Run("second archive finds no row", func(t *testing.T) {
		dbx, mock := newMockDB(t)
		repo := NewRepository(dbx)

		mock.ExpectExec(`UPDATE plans.*SET archived = TRUE.*`).
			WithArgs(1).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Archive(context.Background(), 1)
		assert.ErrorIs(t, err, ErrPlanNotFoundOrArchived)
	})
}

func TestRepository_List(t *testing.T) {
	dbx, mock := newMockDB(t)
	repo := NewRepository(dbx)

	mock.ExpectQuery(`SELECT .* FROM plans.*ORDER BY price_cents ASC`).
		WithArgs(false).
		WillReturnRows(sqlmock.NewRows(planCols).
			AddRow(2, "Basic", 2999, "monthly", nil, "{gym access}", false, time.Now(), time.Now()).
			AddRow(1, "Standard", 4999, "monthly", nil, "{gym access,classes}", false, time.Now(), time.Now()))

	plans, err := repo.List(context.Background(), false)
	assert.NoError(t, err)
	assert.Len(t, plans, 2)
	assert.Equal(t, "Basic", plans[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_HasCurrentMemberships(t *testing.T) {
	dbx, mock := newMockDB(t)
	repo := NewRepository(dbx)

	mock.ExpectQuery(`SELECT EXISTS.*FROM memberships.*status IN \('active', 'frozen'\).*`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	inUse, err := repo.HasCurrentMemberships(context.Background(), 1)
	assert.NoError(t, err)
	assert.True(t, inUse)
}
