package attendance

import (
	"math"

	"github.com/padhai-app/padhai/core"
	"github.com/padhai-app/padhai/core/student"
)

var (
	// errors
	ErrNotFound = core.NewNotFoundError("attendance record not found")
)

type (
	Repository interface {
		// UpsertAttendance inserts or overwrites the record for
		// (rec.StudentID, rec.Date); the store never holds more than one
		// record per key.
		UpsertAttendance(rec Record) (Record, error)
		GetAttendance(studentID, date string) (Record, error)
		QueryAttendanceByStudent(studentID string) ([]Record, error)
		QueryAttendanceByDate(date string) ([]Record, error)
		QueryAllAttendance() ([]Record, error)
	}

	Service struct {
		repo   Repository
		stdSvc *student.Service
	}
)

func NewService(repo Repository, stdSvc *student.Service) *Service {
	return &Service{repo: repo, stdSvc: stdSvc}
}

// Mark upserts a student's attendance for a day.
func (svc *Service) Mark(ma MarkAttendance) (Record, error) {
	if err := ma.Validate(); err != nil {
		return Record{}, err
	}

	std, err := svc.stdSvc.GetByID(ma.StudentID)
	if err != nil {
		return Record{}, err
	}

	rec := Record{
		StudentID:  std.ID,
		ClassLevel: std.ClassLevel,
		Date:       ma.Date,
		Status:     ma.Status,
	}
	return svc.repo.UpsertAttendance(rec)
}

// Toggle flips the status for (studentID, date); an unmarked day becomes
// present.
func (svc *Service) Toggle(studentID, date string) (Record, error) {
	status := StatusPresent
	if rec, err := svc.repo.GetAttendance(studentID, date); err == nil {
		if rec.Status == StatusPresent {
			status = StatusAbsent
		}
	}
	return svc.Mark(MarkAttendance{StudentID: studentID, Date: date, Status: status})
}

// MarkAllPresent upserts a present record for every student in the class and
// batch. Calling it twice leaves the store exactly as one call does.
func (svc *Service) MarkAllPresent(classLevel int, batch, date string) ([]Record, error) {
	if date == "" {
		date = core.Today()
	}

	roster, err := svc.stdSvc.Filter(student.QueryFilter{ClassLevel: classLevel, Batch: batch})
	if err != nil {
		return nil, err
	}

	recs := make([]Record, 0, len(roster))
	for _, std := range roster {
		rec, err := svc.repo.UpsertAttendance(Record{
			StudentID:  std.ID,
			ClassLevel: std.ClassLevel,
			Date:       date,
			Status:     StatusPresent,
		})
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

// ScanPresent resolves a scanned token (student id, register number or
// enrollment id) and marks the student present for the day.
func (svc *Service) ScanPresent(token, date string) (student.Student, Record, error) {
	std, err := svc.stdSvc.ResolveToken(token)
	if err != nil {
		return student.Student{}, Record{}, err
	}
	rec, err := svc.Mark(MarkAttendance{StudentID: std.ID, Date: date, Status: StatusPresent})
	return std, rec, err
}

// ClassDailyStats recomputes the per-class roll-up for a day. An empty
// roster yields percentage 0, not a division error.
func (svc *Service) ClassDailyStats(classLevel int, batch, date string) (DailyStats, error) {
	if date == "" {
		date = core.Today()
	}

	roster, err := svc.stdSvc.Filter(student.QueryFilter{ClassLevel: classLevel, Batch: batch})
	if err != nil {
		return DailyStats{}, err
	}

	stats := DailyStats{Total: len(roster)}
	for _, std := range roster {
		rec, err := svc.repo.GetAttendance(std.ID, date)
		if err != nil {
			if core.IsNotFound(err) {
				stats.Unmarked++
				continue
			}
			return DailyStats{}, err
		}
		if rec.Status == StatusPresent {
			stats.Present++
		} else {
			stats.Absent++
		}
	}
	if stats.Total > 0 {
		stats.Percentage = int(math.Round(float64(stats.Present) / float64(stats.Total) * 100))
	}
	return stats, nil
}

// StudentRate computes a student's attendance rate over the days that have a
// record, optionally bounded by from/to dates (inclusive, ISO order).
func (svc *Service) StudentRate(studentID, from, to string) (Rate, error) {
	if _, err := svc.stdSvc.GetByID(studentID); err != nil {
		return Rate{}, err
	}

	recs, err := svc.repo.QueryAttendanceByStudent(studentID)
	if err != nil {
		return Rate{}, err
	}

	var rate Rate
	for _, rec := range recs {
		if from != "" && rec.Date < from {
			continue
		}
		if to != "" && rec.Date > to {
			continue
		}
		rate.TotalDays++
		if rec.Status == StatusPresent {
			rate.PresentDays++
		}
	}
	if rate.TotalDays > 0 {
		rate.Percentage = float64(rate.PresentDays) / float64(rate.TotalDays) * 100
	}
	return rate, nil
}

// History returns a student's records for display, most recent first.
func (svc *Service) History(studentID string) ([]Record, error) {
	if _, err := svc.stdSvc.GetByID(studentID); err != nil {
		return nil, err
	}
	return svc.repo.QueryAttendanceByStudent(studentID)
}

// DayRecords returns every record for a date (all classes).
func (svc *Service) DayRecords(date string) ([]Record, error) {
	return svc.repo.QueryAttendanceByDate(date)
}
