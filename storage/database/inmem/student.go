package inmemdb

import (
	"strings"

	"github.com/padhai-app/padhai/core/student"
)

type studentRepository struct {
	db *studentTable
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *DB) student.Repository {
	return &studentRepository{db: db.student}
}

func (repo *studentRepository) query() []student.Student {
	students := make([]student.Student, 0, len(repo.db.table))
	for _, std := range repo.db.table {
		students = append(students, *std)
	}
	return students
}

// CheckIdentifierUniqueness scans all three identifier spaces (id, register
// number, enrollment id) for each value, so an identifier can never resolve
// to two different students regardless of which space it lives in.
func (repo *studentRepository) CheckIdentifierUniqueness(values []string, excluded ...student.Student) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, std := range repo.query() {
		if isExcludedStudent(std.ID, excluded) {
			continue
		}
		for _, v := range values {
			if v == std.ID || (std.RegisterNumber != "" && v == std.RegisterNumber) || (std.EnrollmentID != "" && v == std.EnrollmentID) {
				return student.ErrIdentifierExists
			}
		}
	}
	return nil
}

func (repo *studentRepository) CheckRollNumberUniqueness(roll string, classLevel int, batch string, excluded ...student.Student) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, std := range repo.query() {
		if isExcludedStudent(std.ID, excluded) {
			continue
		}
		if std.RollNumber == roll && std.ClassLevel == classLevel && std.Batch == batch {
			return student.ErrRollNumberExists
		}
	}
	return nil
}

func (repo *studentRepository) CreateStudent(std student.Student) (student.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.table[std.ID] = &std
	return std, nil
}

func (repo *studentRepository) QueryAllStudents() ([]student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(), nil
}

func (repo *studentRepository) GetStudentByID(id string) (student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if std, ok := repo.db.table[id]; ok {
		return *std, nil
	}
	return student.Student{}, student.ErrNotFound
}

// GetStudentByToken resolves in id -> register number -> enrollment id order.
func (repo *studentRepository) GetStudentByToken(token string) (student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if std, ok := repo.db.table[token]; ok {
		return *std, nil
	}
	for _, std := range repo.query() {
		if std.RegisterNumber != "" && std.RegisterNumber == token {
			return std, nil
		}
	}
	for _, std := range repo.query() {
		if std.EnrollmentID != "" && std.EnrollmentID == token {
			return std, nil
		}
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) FilterStudents(filter student.QueryFilter) ([]student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	filter.Clean()
	students := make([]student.Student, 0)
	for _, std := range repo.query() {
		if filter.Search != "" && !studentMatchesSearch(std, filter.Search) {
			continue
		}
		if filter.ClassLevel != 0 && std.ClassLevel != filter.ClassLevel {
			continue
		}
		if filter.Batch != "" && std.Batch != filter.Batch {
			continue
		}
		if filter.Category != "" && std.Category != filter.Category {
			continue
		}
		students = append(students, std)
	}
	return students, nil
}

func (repo *studentRepository) UpdateStudent(std student.Student) (student.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	// only save set fields; RegisterNumber is immutable and never copied
	orig, ok := repo.db.table[std.ID]
	if !ok {
		return student.Student{}, student.ErrNotFound
	}
	if std.Name != "" {
		orig.Name = std.Name
	}
	if std.Email != "" {
		orig.Email = std.Email
	}
	if std.Phone != "" {
		orig.Phone = std.Phone
	}
	if std.ClassLevel != 0 {
		orig.ClassLevel = std.ClassLevel
	}
	if std.Batch != "" {
		orig.Batch = std.Batch
	}
	if std.Category != "" {
		orig.Category = std.Category
	}
	if std.RollNumber != "" {
		orig.RollNumber = std.RollNumber
	}
	if std.ParentIDs != nil {
		orig.ParentIDs = std.ParentIDs
	}
	if !std.UpdatedAt.IsZero() {
		orig.UpdatedAt = std.UpdatedAt
	}

	repo.db.table[std.ID] = orig
	return *orig, nil
}

func (repo *studentRepository) DeleteStudentsByID(ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}

func studentMatchesSearch(std student.Student, search string) bool {
	search = strings.ToLower(search)
	return strings.Contains(strings.ToLower(std.Name), search) ||
		strings.Contains(strings.ToLower(std.Email), search) ||
		strings.Contains(strings.ToLower(std.RegisterNumber), search)
}

func isExcludedStudent(id string, excluded []student.Student) bool {
	for _, std := range excluded {
		if std.ID == id {
			return true
		}
	}
	return false
}
