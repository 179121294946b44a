package reporting

type MonthlyRevenue struct {
	Month        string `db:"month" json:"month"`
	RevenueCents int64  `db:"revenue_cents" json:"revenue_cents"`
	Memberships  int    `db:"memberships" json:"memberships"`
}

type PlanMembershipCount struct {
	PlanID   int    `db:"plan_id" json:"plan_id"`
	PlanName string `db:"plan_name" json:"plan_name"`
	Active   int    `db:"active" json:"active"`
	Frozen   int    `db:"frozen" json:"frozen"`
}

type DailyAttendance struct {
	Day              string `db:"day" json:"day"`
	GymVisits        int    `db:"gym_visits" json:"gym_visits"`
	ClassAttendances int    `db:"class_attendances" json:"class_attendances"`
}

type SessionOccupancy struct {
	SessionID int     `db:"session_id" json:"session_id"`
	ClassName string  `db:"class_name" json:"class_name"`
	StartTime string  `db:"start_time" json:"start_time"`
	Capacity  int     `db:"capacity" json:"capacity"`
	Booked    int     `db:"booked" json:"booked"`
	FillRate  float64 `db:"fill_rate" json:"fill_rate"`
}
