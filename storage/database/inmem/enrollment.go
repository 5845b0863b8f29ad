package inmemdb

import (
	"sort"
	"strings"

	"github.com/padhai-app/padhai/core/enrollment"
)

type enrollmentRepository struct {
	db *enrollmentTable
}

var _ enrollment.Repository = (*enrollmentRepository)(nil) // interface compliance check

func NewEnrollmentRepository(db *DB) enrollment.Repository {
	return &enrollmentRepository{db: db.enrollment}
}

func (repo *enrollmentRepository) query() []enrollment.Enrollment {
	enrs := make([]enrollment.Enrollment, 0, len(repo.db.table))
	for _, enr := range repo.db.table {
		enrs = append(enrs, *enr)
	}
	sort.Slice(enrs, func(i, j int) bool { return enrs[i].SubmittedDate > enrs[j].SubmittedDate })
	return enrs
}

func (repo *enrollmentRepository) CreateEnrollment(enr enrollment.Enrollment) (enrollment.Enrollment, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.table[enr.ID] = &enr
	return enr, nil
}

func (repo *enrollmentRepository) QueryAllEnrollments() ([]enrollment.Enrollment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(), nil
}

func (repo *enrollmentRepository) GetEnrollmentByID(id string) (enrollment.Enrollment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if enr, ok := repo.db.table[id]; ok {
		return *enr, nil
	}
	return enrollment.Enrollment{}, enrollment.ErrNotFound
}

func (repo *enrollmentRepository) FilterEnrollments(filter enrollment.QueryFilter) ([]enrollment.Enrollment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	filter.Clean()
	enrs := make([]enrollment.Enrollment, 0)
	for _, enr := range repo.query() {
		if filter.Search != "" && !enrollmentMatchesSearch(enr, filter.Search) {
			continue
		}
		if filter.Status != "" && enr.Status != filter.Status {
			continue
		}
		if filter.ClassLevel != 0 && enr.ClassLevel != filter.ClassLevel {
			continue
		}
		if filter.Batch != "" && enr.Batch != filter.Batch {
			continue
		}
		enrs = append(enrs, enr)
	}
	return enrs, nil
}

// UpdateEnrollment mutates a copy under the write lock and commits it only
// when `apply` succeeds, so a failed transition leaves the store unchanged.
func (repo *enrollmentRepository) UpdateEnrollment(id string, apply func(*enrollment.Enrollment) error) (enrollment.Enrollment, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.table[id]
	if !ok {
		return enrollment.Enrollment{}, enrollment.ErrNotFound
	}

	enr := *orig
	if err := apply(&enr); err != nil {
		return enrollment.Enrollment{}, err
	}
	repo.db.table[id] = &enr
	return enr, nil
}

// AppendPayment commits the ledger entry and the projection update together:
// an error from `apply` aborts both.
func (repo *enrollmentRepository) AppendPayment(pay enrollment.Payment, apply func(*enrollment.Enrollment) error) (enrollment.Payment, enrollment.Enrollment, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.table[pay.EnrollmentID]
	if !ok {
		return enrollment.Payment{}, enrollment.Enrollment{}, enrollment.ErrNotFound
	}

	enr := *orig
	if err := apply(&enr); err != nil {
		return enrollment.Payment{}, enrollment.Enrollment{}, err
	}
	repo.db.payments = append(repo.db.payments, pay)
	repo.db.table[enr.ID] = &enr
	return pay, enr, nil
}

func (repo *enrollmentRepository) QueryAllPayments() ([]enrollment.Payment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	pays := make([]enrollment.Payment, len(repo.db.payments))
	copy(pays, repo.db.payments)
	return pays, nil
}

func (repo *enrollmentRepository) QueryPaymentsByEnrollment(enrollmentID string) ([]enrollment.Payment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	pays := make([]enrollment.Payment, 0)
	for _, pay := range repo.db.payments {
		if pay.EnrollmentID == enrollmentID {
			pays = append(pays, pay)
		}
	}
	return pays, nil
}

func enrollmentMatchesSearch(enr enrollment.Enrollment, search string) bool {
	search = strings.ToLower(search)
	return strings.Contains(strings.ToLower(enr.StudentName), search) ||
		strings.Contains(strings.ToLower(enr.Email), search)
}
