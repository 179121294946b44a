package reporting

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"gymdesk/internal/metrics"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func TestRepository_RevenueByMonth(t *testing.T) {
	dbx, mock := newMockDB(t)
	repo := NewRepository(dbx)

	mock.ExpectQuery(`SELECT.*SUM\(final_price_cents\).*FROM memberships.*GROUP BY.*`).
		WithArgs(12).
		WillReturnRows(sqlmock.NewRows([]string{"month", "revenue_cents", "memberships"}).
			AddRow("2025-01", int64(149970), 30).
			AddRow("2024-12", int64(99980), 20))

	rows, err := repo.RevenueByMonth(context.Background(), 12)
	assert.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Equal(t, "2025-01", rows[0].Month)
	assert.Equal(t, int64(149970), rows[0].RevenueCents)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ActiveMembershipsByPlan(t *testing.T) {
	dbx, mock := newMockDB(t)
	repo := NewRepository(dbx)

	mock.ExpectQuery(`SELECT.*FROM plans p.*LEFT JOIN memberships m.*GROUP BY.*`).
		WillReturnRows(sqlmock.NewRows([]string{"plan_id", "plan_name", "active", "frozen"}).
			AddRow(1, "Standard", 25, 3).
			AddRow(2, "Premium", 10, 1))

	rows, err := repo.ActiveMembershipsByPlan(context.Background())
	assert.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Equal(t, 25, rows[0].Active)
	assert.Equal(t, 3, rows[0].Frozen)

	assert.Equal(t, 25.0, testutil.ToFloat64(metrics.ActiveMemberships.WithLabelValues("Standard")))
	assert.Equal(t, 10.0, testutil.ToFloat64(metrics.ActiveMemberships.WithLabelValues("Premium")))
}

func TestRepository_AttendanceByDay(t *testing.T) {
	dbx, mock := newMockDB(t)
	repo := NewRepository(dbx)

	mock.ExpectQuery(`SELECT.*FROM attendance_records.*GROUP BY.*`).
		WithArgs(30).
		WillReturnRows(sqlmock.NewRows([]string{"day", "gym_visits", "class_attendances"}).
			AddRow("2025-01-15", 40, 12))

	rows, err := repo.AttendanceByDay(context.Background(), 30)
	assert.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, 40, rows[0].GymVisits)
	assert.Equal(t, 12, rows[0].ClassAttendances)
}

func TestRepository_ClassOccupancy(t *testing.T) {
	dbx, mock := newMockDB(t)
	repo := NewRepository(dbx)

	mock.ExpectQuery(`SELECT.*FROM class_sessions s.*LEFT JOIN bookings b.*GROUP BY.*`).
		WillReturnRows(sqlmock.NewRows([]string{"session_id", "class_name", "start_time", "capacity", "booked", "fill_rate"}).
			AddRow(1, "Morning Yoga", "2025-01-15T09:00:00Z", 20, 15, 0.75))

	rows, err := repo.ClassOccupancy(context.Background())
	assert.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, "Morning Yoga", rows[0].ClassName)
	assert.Equal(t, 0.75, rows[0].FillRate)
}
