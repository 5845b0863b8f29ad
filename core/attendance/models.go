package attendance

import (
	"github.com/padhai-app/padhai/core"
)

// Statuses
const (
	StatusPresent = "present"
	StatusAbsent  = "absent"
)

// Record is a day-keyed attendance entry: at most one exists per
// (studentId, date) pair. ClassLevel is denormalized from the student at
// write time and is not retroactively fixed if the student changes class.
type Record struct {
	ID         string `json:"id"`
	StudentID  string `json:"student_id"`
	ClassLevel int    `json:"class_level"`
	Date       string `json:"date"`
	Status     string `json:"status"`
}

// MarkAttendance sets a student's status for a day; marking the same
// (student, date) again overwrites the previous status.
type MarkAttendance struct {
	StudentID string `json:"student_id" validate:"required"`
	Date      string `json:"date" validate:"omitempty,isodate"`
	Status    string `json:"status" validate:"required,oneof=present absent"`
}

func (ma *MarkAttendance) Validate() error {
	ma.StudentID = core.CleanString(ma.StudentID)
	if ma.Date == "" {
		ma.Date = core.Today()
	}
	return core.Validate.Struct(ma)
}

// DailyStats is the per-class, per-day roll-up view-model.
type DailyStats struct {
	Present    int `json:"present"`
	Absent     int `json:"absent"`
	Unmarked   int `json:"unmarked"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}

// Rate is a student's attendance rate over recorded days only: days without
// a record count neither as present nor absent.
type Rate struct {
	PresentDays int     `json:"present_days"`
	TotalDays   int     `json:"total_days"`
	Percentage  float64 `json:"percentage"`
}
