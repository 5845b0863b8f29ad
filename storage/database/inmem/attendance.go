package inmemdb

import (
	"sort"

	"github.com/google/uuid"

	"github.com/padhai-app/padhai/core/attendance"
)

type attendanceRepository struct {
	db *attendanceTable
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(db *DB) attendance.Repository {
	return &attendanceRepository{db: db.attendance}
}

func attendanceKey(studentID, date string) string {
	return studentID + "|" + date
}

// UpsertAttendance keeps the invariant of at most one record per
// (studentID, date): a second mark for the same key overwrites in place and
// keeps the original record id.
func (repo *attendanceRepository) UpsertAttendance(rec attendance.Record) (attendance.Record, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	key := attendanceKey(rec.StudentID, rec.Date)
	if orig, ok := repo.db.table[key]; ok {
		rec.ID = orig.ID
	} else {
		rec.ID = uuid.New().String()
	}
	repo.db.table[key] = &rec
	return rec, nil
}

func (repo *attendanceRepository) GetAttendance(studentID, date string) (attendance.Record, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if rec, ok := repo.db.table[attendanceKey(studentID, date)]; ok {
		return *rec, nil
	}
	return attendance.Record{}, attendance.ErrNotFound
}

func (repo *attendanceRepository) QueryAttendanceByStudent(studentID string) ([]attendance.Record, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	recs := make([]attendance.Record, 0)
	for _, rec := range repo.db.table {
		if rec.StudentID == studentID {
			recs = append(recs, *rec)
		}
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].Date > recs[j].Date })
	return recs, nil
}

func (repo *attendanceRepository) QueryAttendanceByDate(date string) ([]attendance.Record, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	recs := make([]attendance.Record, 0)
	for _, rec := range repo.db.table {
		if rec.Date == date {
			recs = append(recs, *rec)
		}
	}
	return recs, nil
}

func (repo *attendanceRepository) QueryAllAttendance() ([]attendance.Record, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	recs := make([]attendance.Record, 0, len(repo.db.table))
	for _, rec := range repo.db.table {
		recs = append(recs, *rec)
	}
	return recs, nil
}
