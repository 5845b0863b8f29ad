package student

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/padhai-app/padhai/core"
)

var (
	// errors
	ErrNotFound = core.NewNotFoundError("student not found")

	// ErrIdentifierExists covers the three scan-identifier spaces (student id,
	// register number, enrollment id): a value may appear in at most one of
	// them, store-wide, so scanner lookups can never be ambiguous.
	ErrIdentifierExists = errors.New("this identifier is already in use")
	ErrRollNumberExists = errors.New("this roll number is already taken in this class and batch")
)

type (
	Repository interface {
		// CheckIdentifierUniqueness verifies that none of the given values
		// collide with any student's id, register number or enrollment id.
		CheckIdentifierUniqueness(values []string, excluded ...Student) error
		CheckRollNumberUniqueness(roll string, classLevel int, batch string, excluded ...Student) error
		CreateStudent(std Student) (Student, error)
		QueryAllStudents() ([]Student, error)
		GetStudentByID(id string) (Student, error)
		// GetStudentByToken matches token against student id, register number
		// or enrollment id, in that order of precedence.
		GetStudentByToken(token string) (Student, error)
		// FilterStudents applies AND operation on available QueryFilter fields.
		// QueryFilter.Search does a case-insensitive match on one of
		// Student.Name, Student.Email or Student.RegisterNumber.
		FilterStudents(filter QueryFilter) ([]Student, error)
		UpdateStudent(std Student) (Student, error)
		DeleteStudentsByID(ids ...string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) CheckIdentifierUniqueness(id, regNum, enrollmentID string, excl ...Student) error {
	values := make([]string, 0, 3)
	for _, v := range []string{id, regNum, enrollmentID} {
		if v != "" {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return nil
	}
	if err := svc.repo.CheckIdentifierUniqueness(values, excl...); err != nil {
		if err == ErrIdentifierExists {
			return core.NewValidationError(err, core.FieldError{Field: "register_number", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *Service) CheckRollNumberUniqueness(roll string, classLevel int, batch string, excl ...Student) error {
	if roll == "" {
		return nil
	}
	if err := svc.repo.CheckRollNumberUniqueness(roll, classLevel, batch, excl...); err != nil {
		if err == ErrRollNumberExists {
			return core.NewValidationError(err, core.FieldError{Field: "roll_number", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *Service) Create(ns NewStudent) (Student, error) {
	now := time.Now().UTC()
	std := Student{
		ID:             uuid.New().String(),
		Name:           ns.Name,
		Email:          ns.Email,
		Phone:          ns.Phone,
		ClassLevel:     ns.ClassLevel,
		Batch:          ns.Batch,
		Category:       ns.Category,
		RegisterNumber: ns.RegisterNumber,
		RollNumber:     ns.RollNumber,
		EnrollmentID:   ns.EnrollmentID,
		ParentIDs:      ns.ParentIDs,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	return svc.repo.CreateStudent(std)
}

func (svc *Service) QueryAll() ([]Student, error) {
	return svc.repo.QueryAllStudents()
}

func (svc *Service) GetByID(id string) (Student, error) {
	return svc.repo.GetStudentByID(id)
}

// ResolveToken implements the scanner-mode lookup: the scanned token is
// matched against student id, register number and enrollment id.
func (svc *Service) ResolveToken(token string) (Student, error) {
	token = core.CleanString(token)
	if token == "" {
		return Student{}, ErrNotFound
	}
	return svc.repo.GetStudentByToken(token)
}

func (svc *Service) Filter(filter QueryFilter) ([]Student, error) {
	return svc.repo.FilterStudents(filter)
}

func (svc *Service) Update(id string, us UpdateStudent) (Student, error) {
	std := Student{
		ID:         id,
		Name:       us.Name,
		Email:      us.Email,
		Phone:      us.Phone,
		ClassLevel: us.ClassLevel,
		Batch:      us.Batch,
		Category:   us.Category,
		RollNumber: us.RollNumber,
		ParentIDs:  us.ParentIDs,
		UpdatedAt:  time.Now().UTC(),
	}
	return svc.repo.UpdateStudent(std)
}

func (svc *Service) Delete(ids ...string) error {
	return svc.repo.DeleteStudentsByID(ids...)
}
