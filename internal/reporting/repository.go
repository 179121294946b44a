package reporting

import (
	"context"

	"github.com/jmoiron/sqlx"

	"gymdesk/internal/metrics"
)

type Repository interface {
	RevenueByMonth(ctx context.Context, months int) ([]MonthlyRevenue, error)
	ActiveMembershipsByPlan(ctx context.Context) ([]PlanMembershipCount, error)
	AttendanceByDay(ctx context.Context, days int) ([]DailyAttendance, error)
	ClassOccupancy(ctx context.Context) ([]SessionOccupancy, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// RevenueByMonth sums the final price of memberships started in each of the
// last N months. Frozen and expired memberships still count; the money was
// collected at subscription time.
func (r *repository) RevenueByMonth(ctx context.Context, months int) ([]MonthlyRevenue, error) {
	query := `
		SELECT
			TO_CHAR(DATE_TRUNC('month', start_date), 'YYYY-MM') AS month,
			COALESCE(SUM(final_price_cents), 0) AS revenue_cents,
			COUNT(*) AS memberships
		FROM memberships
		WHERE start_date >= DATE_TRUNC('month', NOW()) - ($1 || ' months')::interval
		GROUP BY DATE_TRUNC('month', start_date)
		ORDER BY month DESC
	`

	var rows []MonthlyRevenue
	err := r.db.SelectContext(ctx, &rows, query, months)
	if err != nil {
		return nil, err
	}

	return rows, nil
}

// ActiveMembershipsByPlan counts current memberships per plan and refreshes
// the active-memberships gauge as a side effect.
func (r *repository) ActiveMembershipsByPlan(ctx context.Context) ([]PlanMembershipCount, error) {
	query := `
		SELECT
			p.id AS plan_id,
			p.name AS plan_name,
			COUNT(m.id) FILTER (WHERE m.status = 'active') AS active,
			COUNT(m.id) FILTER (WHERE m.status = 'frozen') AS frozen
		FROM plans p
		LEFT JOIN memberships m ON m.plan_id = p.id AND m.status IN ('active', 'frozen')
		WHERE p.archived = FALSE
		GROUP BY p.id, p.name
		ORDER BY active DESC, p.name ASC
	`

	var rows []PlanMembershipCount
	err := r.db.SelectContext(ctx, &rows, query)
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		metrics.ActiveMemberships.WithLabelValues(row.PlanName).Set(float64(row.Active))
	}

	return rows, nil
}

func (r *repository) AttendanceByDay(ctx context.Context, days int) ([]DailyAttendance, error) {
	query := `
		SELECT
			TO_CHAR(DATE_TRUNC('day', check_in_time), 'YYYY-MM-DD') AS day,
			COUNT(*) FILTER (WHERE type = 'gym_visit') AS gym_visits,
			COUNT(*) FILTER (WHERE type = 'class_attendance') AS class_attendances
		FROM attendance_records
		WHERE check_in_time >= DATE_TRUNC('day', NOW()) - ($1 || ' days')::interval
		GROUP BY DATE_TRUNC('day', check_in_time)
		ORDER BY day DESC
	`

	var rows []DailyAttendance
	err := r.db.SelectContext(ctx, &rows, query, days)
	if err != nil {
		return nil, err
	}

	return rows, nil
}

func (r *repository) ClassOccupancy(ctx context.Context) ([]SessionOccupancy, error) {
	query := `
		SELECT
			s.id AS session_id,
			s.name AS class_name,
			TO_CHAR(s.start_time, 'YYYY-MM-DD"T"HH24:MI:SS"Z"') AS start_time,
			s.capacity,
			COUNT(b.id) FILTER (WHERE b.status = 'booked') AS booked,
			ROUND(
				COUNT(b.id) FILTER (WHERE b.status = 'booked')::numeric / s.capacity,
				2
			)::float8 AS fill_rate
		FROM class_sessions s
		LEFT JOIN bookings b ON b.session_id = s.id
		GROUP BY s.id, s.name, s.start_time, s.capacity
		ORDER BY s.start_time DESC
	`

	var rows []SessionOccupancy
	err := r.db.SelectContext(ctx, &rows, query)
	if err != nil {
		return nil, err
	}

	return rows, nil
}
