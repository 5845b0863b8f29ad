package inmemdb

import (
	"sort"

	"github.com/padhai-app/padhai/core/catalog"
)

type catalogRepository struct {
	db *catalogTable
}

var _ catalog.Repository = (*catalogRepository)(nil) // interface compliance check

func NewCatalogRepository(db *DB) catalog.Repository {
	return &catalogRepository{db: db.catalog}
}

// Courses

func (repo *catalogRepository) CreateCourse(course catalog.Course) (catalog.Course, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.courses[course.ID] = &course
	return course, nil
}

func (repo *catalogRepository) GetCourseByID(id string) (catalog.Course, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if course, ok := repo.db.courses[id]; ok {
		return *course, nil
	}
	return catalog.Course{}, catalog.ErrCourseNotFound
}

func (repo *catalogRepository) QueryAllCourses() ([]catalog.Course, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	courses := make([]catalog.Course, 0, len(repo.db.courses))
	for _, course := range repo.db.courses {
		courses = append(courses, *course)
	}
	sort.Slice(courses, func(i, j int) bool {
		if courses[i].ClassLevel != courses[j].ClassLevel {
			return courses[i].ClassLevel < courses[j].ClassLevel
		}
		return courses[i].Name < courses[j].Name
	})
	return courses, nil
}

func (repo *catalogRepository) UpdateCourse(course catalog.Course) (catalog.Course, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.courses[course.ID]; !ok {
		return catalog.Course{}, catalog.ErrCourseNotFound
	}
	repo.db.courses[course.ID] = &course
	return course, nil
}

func (repo *catalogRepository) DeleteCoursesByID(ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	for _, id := range ids {
		delete(repo.db.courses, id)
	}
	return nil
}

// Notes

func (repo *catalogRepository) CreateNote(note catalog.Note) (catalog.Note, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.notes[note.ID] = &note
	return note, nil
}

func (repo *catalogRepository) GetNoteByID(id string) (catalog.Note, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if note, ok := repo.db.notes[id]; ok {
		return *note, nil
	}
	return catalog.Note{}, catalog.ErrNoteNotFound
}

func (repo *catalogRepository) QueryNotes(filter catalog.NoteFilter) ([]catalog.Note, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	notes := make([]catalog.Note, 0)
	for _, note := range repo.db.notes {
		if filter.ClassLevel != 0 && note.ClassLevel != filter.ClassLevel {
			continue
		}
		// a note published to "all" reaches every batch of its class
		if filter.Batch != "" && note.Batch != "all" && note.Batch != filter.Batch {
			continue
		}
		if filter.SubjectID != "" && note.SubjectID != filter.SubjectID {
			continue
		}
		notes = append(notes, *note)
	}
	sort.Slice(notes, func(i, j int) bool { return notes[i].UploadedDate > notes[j].UploadedDate })
	return notes, nil
}

func (repo *catalogRepository) DeleteNotesByID(ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	for _, id := range ids {
		delete(repo.db.notes, id)
	}
	return nil
}
