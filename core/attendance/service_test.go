package attendance_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/padhai-app/padhai/core"
	"github.com/padhai-app/padhai/core/attendance"
	"github.com/padhai-app/padhai/core/student"
	inmemdb "github.com/padhai-app/padhai/storage/database/inmem"
)

func setup(t *testing.T) (*attendance.Service, *student.Service) {
	db, err := inmemdb.Open()
	require.NoError(t, err)

	stdSvc := student.NewService(inmemdb.NewStudentRepository(db))
	svc := attendance.NewService(inmemdb.NewAttendanceRepository(db), stdSvc)
	return svc, stdSvc
}

func newStudent(t *testing.T, stdSvc *student.Service, name string, classLevel int, batch string) student.Student {
	std, err := stdSvc.Create(student.NewStudent{
		Name:           name,
		Email:          fmt.Sprintf("%s@student.com", core.CleanString(name, true)),
		ClassLevel:     classLevel,
		Batch:          batch,
		RegisterNumber: "REG-" + name,
		EnrollmentID:   "ENR-" + name,
	})
	require.NoError(t, err)
	return std
}

func TestMarkUpsertsByStudentAndDate(t *testing.T) {
	svc, stdSvc := setup(t)
	std := newStudent(t, stdSvc, "alice", 10, "A")

	rec, err := svc.Mark(attendance.MarkAttendance{StudentID: std.ID, Date: "2026-02-10", Status: attendance.StatusAbsent})
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusAbsent, rec.Status)
	assert.Equal(t, 10, rec.ClassLevel)

	// marking the same day again overwrites in place, keeping the record id
	rec2, err := svc.Mark(attendance.MarkAttendance{StudentID: std.ID, Date: "2026-02-10", Status: attendance.StatusPresent})
	require.NoError(t, err)
	assert.Equal(t, rec.ID, rec2.ID)
	assert.Equal(t, attendance.StatusPresent, rec2.Status)

	recs, err := svc.History(std.ID)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, attendance.StatusPresent, recs[0].Status)
}

func TestMarkUnknownStudent(t *testing.T) {
	svc, _ := setup(t)

	_, err := svc.Mark(attendance.MarkAttendance{StudentID: "nope", Date: "2026-02-10", Status: attendance.StatusPresent})
	assert.True(t, core.IsNotFound(err))
}

func TestMarkDefaultsToToday(t *testing.T) {
	svc, stdSvc := setup(t)
	std := newStudent(t, stdSvc, "bob", 10, "A")

	rec, err := svc.Mark(attendance.MarkAttendance{StudentID: std.ID, Status: attendance.StatusPresent})
	require.NoError(t, err)
	assert.Equal(t, core.Today(), rec.Date)
}

func TestToggle(t *testing.T) {
	svc, stdSvc := setup(t)
	std := newStudent(t, stdSvc, "carol", 10, "A")

	// unmarked day toggles to present
	rec, err := svc.Toggle(std.ID, "2026-02-10")
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusPresent, rec.Status)

	rec, err = svc.Toggle(std.ID, "2026-02-10")
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusAbsent, rec.Status)

	rec, err = svc.Toggle(std.ID, "2026-02-10")
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusPresent, rec.Status)
}

func TestMarkAllPresentIsIdempotent(t *testing.T) {
	svc, stdSvc := setup(t)
	newStudent(t, stdSvc, "dave", 10, "A")
	newStudent(t, stdSvc, "erin", 10, "A")
	other := newStudent(t, stdSvc, "frank", 9, "A") // different class, untouched

	recs, err := svc.MarkAllPresent(10, "A", "2026-02-10")
	require.NoError(t, err)
	assert.Len(t, recs, 2)

	recs, err = svc.MarkAllPresent(10, "A", "2026-02-10")
	require.NoError(t, err)
	assert.Len(t, recs, 2)

	day, err := svc.DayRecords("2026-02-10")
	require.NoError(t, err)
	assert.Len(t, day, 2)

	_, err = svc.StudentRate(other.ID, "", "")
	require.NoError(t, err)
	hist, err := svc.History(other.ID)
	require.NoError(t, err)
	assert.Empty(t, hist)
}

func TestScanPresent(t *testing.T) {
	svc, stdSvc := setup(t)
	std := newStudent(t, stdSvc, "grace", 10, "A")

	t.Run("by register number", func(t *testing.T) {
		got, rec, err := svc.ScanPresent(std.RegisterNumber, "2026-02-10")
		require.NoError(t, err)
		assert.Equal(t, std.ID, got.ID)
		assert.Equal(t, attendance.StatusPresent, rec.Status)
	})

	t.Run("by enrollment id", func(t *testing.T) {
		got, _, err := svc.ScanPresent(std.EnrollmentID, "2026-02-11")
		require.NoError(t, err)
		assert.Equal(t, std.ID, got.ID)
	})

	t.Run("by student id", func(t *testing.T) {
		got, _, err := svc.ScanPresent(std.ID, "2026-02-12")
		require.NoError(t, err)
		assert.Equal(t, std.ID, got.ID)
	})

	t.Run("unknown token", func(t *testing.T) {
		_, _, err := svc.ScanPresent("nope", "2026-02-10")
		assert.True(t, core.IsNotFound(err))
	})
}

func TestClassDailyStats(t *testing.T) {
	svc, stdSvc := setup(t)
	s1 := newStudent(t, stdSvc, "henry", 10, "A")
	s2 := newStudent(t, stdSvc, "iris", 10, "A")
	newStudent(t, stdSvc, "jack", 10, "A") // stays unmarked

	_, err := svc.Mark(attendance.MarkAttendance{StudentID: s1.ID, Date: "2026-02-10", Status: attendance.StatusPresent})
	require.NoError(t, err)
	_, err = svc.Mark(attendance.MarkAttendance{StudentID: s2.ID, Date: "2026-02-10", Status: attendance.StatusAbsent})
	require.NoError(t, err)

	stats, err := svc.ClassDailyStats(10, "A", "2026-02-10")
	require.NoError(t, err)
	assert.Equal(t, attendance.DailyStats{Present: 1, Absent: 1, Unmarked: 1, Total: 3, Percentage: 33}, stats)
}

func TestClassDailyStatsEmptyRoster(t *testing.T) {
	svc, _ := setup(t)

	stats, err := svc.ClassDailyStats(12, "A", "2026-02-10")
	require.NoError(t, err)
	assert.Equal(t, attendance.DailyStats{}, stats)
}

func TestStudentRate(t *testing.T) {
	svc, stdSvc := setup(t)
	std := newStudent(t, stdSvc, "kate", 10, "A")

	mark := func(date, status string) {
		_, err := svc.Mark(attendance.MarkAttendance{StudentID: std.ID, Date: date, Status: status})
		require.NoError(t, err)
	}
	mark("2026-02-09", attendance.StatusPresent)
	mark("2026-02-10", attendance.StatusAbsent)
	mark("2026-02-11", attendance.StatusPresent)
	mark("2026-02-12", attendance.StatusPresent)

	t.Run("all recorded days", func(t *testing.T) {
		rate, err := svc.StudentRate(std.ID, "", "")
		require.NoError(t, err)
		assert.Equal(t, 3, rate.PresentDays)
		assert.Equal(t, 4, rate.TotalDays)
		assert.InDelta(t, 75.0, rate.Percentage, 0.001)
	})

	t.Run("bounded window, inclusive", func(t *testing.T) {
		rate, err := svc.StudentRate(std.ID, "2026-02-10", "2026-02-11")
		require.NoError(t, err)
		assert.Equal(t, 1, rate.PresentDays)
		assert.Equal(t, 2, rate.TotalDays)
	})

	t.Run("no recorded days", func(t *testing.T) {
		rate, err := svc.StudentRate(std.ID, "2027-01-01", "")
		require.NoError(t, err)
		assert.Zero(t, rate.TotalDays)
		assert.Zero(t, rate.Percentage)
	})

	t.Run("unknown student", func(t *testing.T) {
		_, err := svc.StudentRate("nope", "", "")
		assert.True(t, core.IsNotFound(err))
	})
}

func TestHistorySortedMostRecentFirst(t *testing.T) {
	svc, stdSvc := setup(t)
	std := newStudent(t, stdSvc, "liam", 10, "A")

	for _, date := range []string{"2026-02-10", "2026-02-12", "2026-02-11"} {
		_, err := svc.Mark(attendance.MarkAttendance{StudentID: std.ID, Date: date, Status: attendance.StatusPresent})
		require.NoError(t, err)
	}

	recs, err := svc.History(std.ID)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, "2026-02-12", recs[0].Date)
	assert.Equal(t, "2026-02-11", recs[1].Date)
	assert.Equal(t, "2026-02-10", recs[2].Date)
}
