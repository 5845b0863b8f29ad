package inmemdb

import (
	"sort"

	"github.com/padhai-app/padhai/core/academics"
)

type academicsRepository struct {
	db *academicsTable
}

var _ academics.Repository = (*academicsRepository)(nil) // interface compliance check

func NewAcademicsRepository(db *DB) academics.Repository {
	return &academicsRepository{db: db.academics}
}

// Subjects

func (repo *academicsRepository) CreateSubject(sub academics.Subject) (academics.Subject, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.subjects[sub.ID] = &sub
	return sub, nil
}

func (repo *academicsRepository) GetSubjectByID(id string) (academics.Subject, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if sub, ok := repo.db.subjects[id]; ok {
		return *sub, nil
	}
	return academics.Subject{}, academics.ErrSubjectNotFound
}

func (repo *academicsRepository) QuerySubjects(classLevel int) ([]academics.Subject, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	subs := make([]academics.Subject, 0, len(repo.db.subjects))
	for _, sub := range repo.db.subjects {
		if classLevel != 0 && sub.ClassLevel != classLevel {
			continue
		}
		subs = append(subs, *sub)
	}
	sort.Slice(subs, func(i, j int) bool {
		if subs[i].ClassLevel != subs[j].ClassLevel {
			return subs[i].ClassLevel < subs[j].ClassLevel
		}
		return subs[i].Name < subs[j].Name
	})
	return subs, nil
}

// Marks

func (repo *academicsRepository) CreateMark(mark academics.Mark) (academics.Mark, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.marks[mark.ID] = &mark
	return mark, nil
}

func (repo *academicsRepository) GetMarkByID(id string) (academics.Mark, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if mark, ok := repo.db.marks[id]; ok {
		return *mark, nil
	}
	return academics.Mark{}, academics.ErrMarkNotFound
}

func (repo *academicsRepository) QueryMarks(filter academics.MarkFilter) ([]academics.Mark, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	marks := make([]academics.Mark, 0)
	for _, mark := range repo.db.marks {
		if filter.StudentID != "" && mark.StudentID != filter.StudentID {
			continue
		}
		if filter.SubjectID != "" && mark.SubjectID != filter.SubjectID {
			continue
		}
		if filter.ClassLevel != 0 && mark.ClassLevel != filter.ClassLevel {
			continue
		}
		if filter.ExamType != "" && mark.ExamType != filter.ExamType {
			continue
		}
		marks = append(marks, *mark)
	}
	return marks, nil
}

func (repo *academicsRepository) UpdateMark(mark academics.Mark) (academics.Mark, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.marks[mark.ID]; !ok {
		return academics.Mark{}, academics.ErrMarkNotFound
	}
	repo.db.marks[mark.ID] = &mark
	return mark, nil
}

// Assignments

func (repo *academicsRepository) CreateAssignment(a academics.Assignment) (academics.Assignment, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.assignments[a.ID] = &a
	return a, nil
}

func (repo *academicsRepository) GetAssignmentByID(id string) (academics.Assignment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if a, ok := repo.db.assignments[id]; ok {
		return *a, nil
	}
	return academics.Assignment{}, academics.ErrAssignmentNotFound
}

func (repo *academicsRepository) QueryAssignments(filter academics.AssignmentFilter) ([]academics.Assignment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	as := make([]academics.Assignment, 0)
	for _, a := range repo.db.assignments {
		if filter.StudentID != "" && a.StudentID != "" && a.StudentID != filter.StudentID {
			continue
		}
		if filter.SubjectID != "" && a.SubjectID != filter.SubjectID {
			continue
		}
		if filter.ClassLevel != 0 && a.ClassLevel != filter.ClassLevel {
			continue
		}
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		as = append(as, *a)
	}
	sort.Slice(as, func(i, j int) bool { return as[i].DueDate < as[j].DueDate })
	return as, nil
}

func (repo *academicsRepository) UpdateAssignment(id string, apply func(*academics.Assignment) error) (academics.Assignment, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.assignments[id]
	if !ok {
		return academics.Assignment{}, academics.ErrAssignmentNotFound
	}

	a := *orig
	if err := apply(&a); err != nil {
		return academics.Assignment{}, err
	}
	repo.db.assignments[id] = &a
	return a, nil
}
