package catalog

import (
	"github.com/google/uuid"

	"github.com/padhai-app/padhai/core"
)

// Course types
const (
	CourseClassroom = "classroom"
	CourseOnline    = "online"
)

type (
	// Course is an offering students enroll into, e.g. "Class 10 CBSE" or
	// "JEE Main". Fee is the default total fee for enrollments into it.
	Course struct {
		ID          string  `json:"id"`
		Name        string  `json:"name"`
		ClassLevel  int     `json:"class_level"`
		Batch       string  `json:"batch"`
		Description string  `json:"description,omitempty"`
		Duration    string  `json:"duration,omitempty"`
		Fee         float64 `json:"fee"`
		Type        string  `json:"type"`
	}

	// Note is shared study material; Batch "all" targets every batch of the
	// class.
	Note struct {
		ID           string `json:"id"`
		Title        string `json:"title"`
		Description  string `json:"description,omitempty"`
		URL          string `json:"url"`
		ClassLevel   int    `json:"class_level"`
		Batch        string `json:"batch"`
		SubjectID    string `json:"subject_id,omitempty"`
		UploadedDate string `json:"uploaded_date"`
		UploadedBy   string `json:"uploaded_by"`
	}
)

type NewCourse struct {
	Name        string  `json:"name" validate:"required"`
	ClassLevel  int     `json:"class_level" validate:"required,gte=6,lte=12"`
	Batch       string  `json:"batch" validate:"required"`
	Description string  `json:"description"`
	Duration    string  `json:"duration"`
	Fee         float64 `json:"fee" validate:"gte=0"`
	Type        string  `json:"type" validate:"required,oneof=classroom online"`
}

func (nc *NewCourse) Validate() error {
	nc.Name = core.CleanString(nc.Name)
	nc.Batch = core.CleanString(nc.Batch)
	return core.Validate.Struct(nc)
}

type NewNote struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	URL         string `json:"url" validate:"required,url"`
	ClassLevel  int    `json:"class_level" validate:"required,gte=6,lte=12"`
	Batch       string `json:"batch" validate:"required"`
	SubjectID   string `json:"subject_id"`
	UploadedBy  string `json:"uploaded_by" validate:"required"`
}

func (nn *NewNote) Validate() error {
	nn.Title = core.CleanString(nn.Title)
	nn.Batch = core.CleanString(nn.Batch)
	return core.Validate.Struct(nn)
}

// NoteFilter scopes note listings to what a student may see.
type NoteFilter struct {
	ClassLevel int    `query:"class_level"`
	Batch      string `query:"batch"`
	SubjectID  string `query:"subject_id"`
}

var (
	// errors
	ErrCourseNotFound = core.NewNotFoundError("course not found")
	ErrNoteNotFound   = core.NewNotFoundError("note not found")
)

type (
	Repository interface {
		CreateCourse(course Course) (Course, error)
		GetCourseByID(id string) (Course, error)
		QueryAllCourses() ([]Course, error)
		UpdateCourse(course Course) (Course, error)
		DeleteCoursesByID(ids ...string) error

		CreateNote(note Note) (Note, error)
		GetNoteByID(id string) (Note, error)
		// QueryNotes matches on the non-zero filter fields; a note with
		// batch "all" matches any requested batch.
		QueryNotes(filter NoteFilter) ([]Note, error)
		DeleteNotesByID(ids ...string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) CreateCourse(nc NewCourse) (Course, error) {
	if err := nc.Validate(); err != nil {
		return Course{}, err
	}
	course := Course{
		ID:          uuid.New().String(),
		Name:        nc.Name,
		ClassLevel:  nc.ClassLevel,
		Batch:       nc.Batch,
		Description: nc.Description,
		Duration:    nc.Duration,
		Fee:         nc.Fee,
		Type:        nc.Type,
	}
	return svc.repo.CreateCourse(course)
}

func (svc *Service) GetCourseByID(id string) (Course, error) {
	return svc.repo.GetCourseByID(id)
}

func (svc *Service) Courses() ([]Course, error) {
	return svc.repo.QueryAllCourses()
}

func (svc *Service) DeleteCourse(id string) error {
	if _, err := svc.repo.GetCourseByID(id); err != nil {
		return err
	}
	return svc.repo.DeleteCoursesByID(id)
}

func (svc *Service) CreateNote(nn NewNote) (Note, error) {
	if err := nn.Validate(); err != nil {
		return Note{}, err
	}
	note := Note{
		ID:           uuid.New().String(),
		Title:        nn.Title,
		Description:  nn.Description,
		URL:          nn.URL,
		ClassLevel:   nn.ClassLevel,
		Batch:        nn.Batch,
		SubjectID:    nn.SubjectID,
		UploadedDate: core.Today(),
		UploadedBy:   nn.UploadedBy,
	}
	return svc.repo.CreateNote(note)
}

func (svc *Service) Notes(filter NoteFilter) ([]Note, error) {
	return svc.repo.QueryNotes(filter)
}

func (svc *Service) DeleteNote(id string) error {
	if _, err := svc.repo.GetNoteByID(id); err != nil {
		return err
	}
	return svc.repo.DeleteNotesByID(id)
}
