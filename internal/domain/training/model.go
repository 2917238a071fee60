package training

import "time"

type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceLate    AttendanceStatus = "late"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceExcused AttendanceStatus = "excused"
)

type Attendance struct {
	PlayerID string
	Status   AttendanceStatus
}

// Training is a read-only view of one session, used for attendance trends.
type Training struct {
	ID          string
	TeamID      string
	ScheduledAt time.Time
	Attendance  []Attendance
}

// AttendanceRate returns the share of listed players who showed up, 0..100.
func (t Training) AttendanceRate() float64 {
	if len(t.Attendance) == 0 {
		return 0
	}
	attended := 0
	for _, item := range t.Attendance {
		if item.Status == AttendancePresent || item.Status == AttendanceLate {
			attended++
		}
	}
	return float64(attended) * 100 / float64(len(t.Attendance))
}
