package attendance

import "time"

type CheckInType string

const (
	TypeGymVisit        CheckInType = "gym_visit"
	TypeClassAttendance CheckInType = "class_attendance"
)

// Record is written once on check-in and mutated exactly once when the
// check-out time is set.
type Record struct {
	ID           int         `db:"id" json:"id"`
	MemberID     int         `db:"member_id" json:"member_id"`
	Type         CheckInType `db:"type" json:"type"`
	SessionID    *int        `db:"session_id" json:"session_id,omitempty"`
	CheckInTime  time.Time   `db:"check_in_time" json:"check_in_time"`
	CheckOutTime *time.Time  `db:"check_out_time" json:"check_out_time,omitempty"`
}

type CheckInRequest struct {
	Type      string `json:"type" binding:"required"`
	SessionID *int   `json:"session_id,omitempty"`
}
