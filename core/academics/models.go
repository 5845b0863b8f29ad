package academics

import (
	"github.com/padhai-app/padhai/core"
)

// Subject partitions the curriculum by class; its id is the key into the
// ranking weightage table.
type Subject struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ClassLevel int    `json:"class_level"`
}

type NewSubject struct {
	Name       string `json:"name" validate:"required"`
	ClassLevel int    `json:"class_level" validate:"required,gte=6,lte=12"`
}

func (ns *NewSubject) Validate() error {
	ns.Name = core.CleanString(ns.Name)
	return core.Validate.Struct(ns)
}

// Mark is a single exam result. Several may exist per (student, subject)
// across exam types and dates; aggregation is always scoped to an exam type
// and class, never mixed across them.
type Mark struct {
	ID         string  `json:"id"`
	StudentID  string  `json:"student_id"`
	SubjectID  string  `json:"subject_id"`
	ClassLevel int     `json:"class_level"`
	Marks      float64 `json:"marks"`
	MaxMarks   float64 `json:"max_marks"`
	ExamType   string  `json:"exam_type"`
	Date       string  `json:"date"`
	Remarks    string  `json:"remarks,omitempty"`
}

type NewMark struct {
	StudentID  string  `json:"student_id" validate:"required"`
	SubjectID  string  `json:"subject_id" validate:"required"`
	ClassLevel int     `json:"class_level" validate:"required,gte=6,lte=12"`
	Marks      float64 `json:"marks" validate:"gte=0,ltefield=MaxMarks"`
	MaxMarks   float64 `json:"max_marks" validate:"required,gt=0"`
	ExamType   string  `json:"exam_type" validate:"required"`
	Date       string  `json:"date" validate:"omitempty,isodate"`
	Remarks    string  `json:"remarks"`
}

func (nm *NewMark) Validate() error {
	nm.ExamType = core.CleanString(nm.ExamType)
	if nm.Date == "" {
		nm.Date = core.Today()
	}
	return core.Validate.Struct(nm)
}

// MarkFilter scopes mark queries; zero values mean "any".
type MarkFilter struct {
	StudentID  string `query:"student_id"`
	SubjectID  string `query:"subject_id"`
	ClassLevel int    `query:"class_level"`
	ExamType   string `query:"exam_type"`
}

// Assignment statuses: pending -> submitted -> evaluated, one way.
const (
	AssignmentPending   = "pending"
	AssignmentSubmitted = "submitted"
	AssignmentEvaluated = "evaluated"
)

// Assignment is coursework handed to a class or a single student.
type Assignment struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	ClassLevel    int     `json:"class_level"`
	SubjectID     string  `json:"subject_id"`
	StudentID     string  `json:"student_id,omitempty"` // set when assigned to one student
	DueDate       string  `json:"due_date"`
	Status        string  `json:"status"`
	SubmittedDate string  `json:"submitted_date,omitempty"`
	Grade         float64 `json:"grade,omitempty"`
	Remarks       string  `json:"remarks,omitempty"`
}

type NewAssignment struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	ClassLevel  int    `json:"class_level" validate:"required,gte=6,lte=12"`
	SubjectID   string `json:"subject_id" validate:"required"`
	StudentID   string `json:"student_id"`
	DueDate     string `json:"due_date" validate:"required,isodate"`
}

func (na *NewAssignment) Validate() error {
	na.Title = core.CleanString(na.Title)
	return core.Validate.Struct(na)
}

// EvaluateAssignment grades a submitted assignment.
type EvaluateAssignment struct {
	Grade   float64 `json:"grade" validate:"gte=0,lte=100"`
	Remarks string  `json:"remarks"`
}

func (ea *EvaluateAssignment) Validate() error {
	return core.Validate.Struct(ea)
}

// GradeLetter maps a percentage to the fixed display grade used everywhere
// grades are shown.
func GradeLetter(percentage float64) string {
	switch {
	case percentage >= 90:
		return "A+"
	case percentage >= 80:
		return "A"
	case percentage >= 70:
		return "B"
	case percentage >= 60:
		return "C"
	case percentage >= 50:
		return "D"
	default:
		return "F"
	}
}
