package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
)

var recordCols = []string{"id", "member_id", "type", "session_id", "check_in_time", "check_out_time"}

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func TestRepository_Create(t *testing.T) {
	dbx, mock := newMockDB(t)
	repo := NewRepository(dbx)

	mock.ExpectQuery(`INSERT INTO attendance_records.*RETURNING.*`).
		WithArgs(1, TypeGymVisit, nil).
		WillReturnRows(sqlmock.NewRows(recordCols).
			AddRow(1, 1, "gym_visit", nil, time.Now(), nil))

	record, err := repo.Create(context.Background(), 1, TypeGymVisit, nil)
	assert.NoError(t, err)
	assert.Equal(t, TypeGymVisit, record.Type)
	assert.Nil(t, record.CheckOutTime)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_SetCheckOut(t *testing.T) {
	t.Run("first check-out wins", func(t *testing.T) {
		dbx, mock := newMockDB(t)
		repo := NewRepository(dbx)

		mock.ExpectExec(`UPDATE attendance_records.*WHERE id = \$1 AND check_out_time IS NULL`).
			WithArgs(1).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.SetCheckOut(context.Background(), 1))
	})

	t.Run("second check-out touches no row", func(t *testing.T) {
		dbx, mock := newMockDB(t)
		repo := NewRepository(dbx)

		mock.ExpectExec(`UPDATE attendance_records.*check_out_time IS NULL`).
			WithArgs(1).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.SetCheckOut(context.Background(), 1)
		assert.ErrorIs(t, err, ErrAlreadyCheckedOut)
	})
}

func TestRepository_ListByMember(t *testing.T) {
	dbx, mock := newMockDB(t)
	repo := NewRepository(dbx)

	sessionID := 5
	checkOut := time.Now()
	mock.ExpectQuery(`SELECT .* FROM attendance_records.*ORDER BY check_in_time DESC`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(recordCols).
			AddRow(2, 1, "class_attendance", sessionID, time.Now(), nil).
			AddRow(1, 1, "gym_visit", nil, time.Now().Add(-24*time.Hour), checkOut))

	records, err := repo.ListByMember(context.Background(), 1)
	assert.NoError(t, err)
	assert.Len(t, records, 2)
	assert.Equal(t, TypeClassAttendance, records[0].Type)
	assert.NotNil(t, records[1].CheckOutTime)
}
