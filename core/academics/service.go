package academics

import (
	"errors"
	"sort"

	"github.com/google/uuid"

	"github.com/padhai-app/padhai/core"
	"github.com/padhai-app/padhai/core/settings"
	"github.com/padhai-app/padhai/core/student"
)

var (
	// errors
	ErrSubjectNotFound    = core.NewNotFoundError("subject not found")
	ErrMarkNotFound       = core.NewNotFoundError("mark not found")
	ErrAssignmentNotFound = core.NewNotFoundError("assignment not found")
	ErrAlreadySubmitted   = core.NewStateError("assignment has already been submitted")
	ErrNotSubmitted       = core.NewStateError("assignment has not been submitted yet")

	errMarksExceedMax = errors.New("marks cannot exceed max marks")
	errClassMismatch  = errors.New("subject does not belong to this class")
)

type (
	Repository interface {
		CreateSubject(sub Subject) (Subject, error)
		GetSubjectByID(id string) (Subject, error)
		// QuerySubjects returns all subjects, or only a class's when
		// classLevel is non-zero.
		QuerySubjects(classLevel int) ([]Subject, error)

		CreateMark(mark Mark) (Mark, error)
		GetMarkByID(id string) (Mark, error)
		// QueryMarks applies AND operation on the non-zero MarkFilter fields
		// and returns a copy of the matching marks, so a ranking computation
		// works on a consistent snapshot.
		QueryMarks(filter MarkFilter) ([]Mark, error)
		UpdateMark(mark Mark) (Mark, error)

		CreateAssignment(a Assignment) (Assignment, error)
		GetAssignmentByID(id string) (Assignment, error)
		QueryAssignments(filter AssignmentFilter) ([]Assignment, error)
		// UpdateAssignment applies `apply` under the store's write lock; an
		// error returned by `apply` aborts the update.
		UpdateAssignment(id string, apply func(*Assignment) error) (Assignment, error)
	}

	Service struct {
		repo   Repository
		stdSvc *student.Service
		setSvc *settings.Service
	}
)

// AssignmentFilter scopes assignment queries; zero values mean "any".
type AssignmentFilter struct {
	StudentID  string `query:"student_id"`
	SubjectID  string `query:"subject_id"`
	ClassLevel int    `query:"class_level"`
	Status     string `query:"status"`
}

func NewService(repo Repository, stdSvc *student.Service, setSvc *settings.Service) *Service {
	return &Service{repo: repo, stdSvc: stdSvc, setSvc: setSvc}
}

// Subjects

func (svc *Service) CreateSubject(ns NewSubject) (Subject, error) {
	sub := Subject{
		ID:         uuid.New().String(),
		Name:       ns.Name,
		ClassLevel: ns.ClassLevel,
	}
	return svc.repo.CreateSubject(sub)
}

func (svc *Service) GetSubjectByID(id string) (Subject, error) {
	return svc.repo.GetSubjectByID(id)
}

func (svc *Service) QuerySubjects(classLevel int) ([]Subject, error) {
	return svc.repo.QuerySubjects(classLevel)
}

// Marks

// AddMark records an exam result. Range checks are done here regardless of
// upstream form validation.
func (svc *Service) AddMark(nm NewMark) (Mark, error) {
	if err := nm.Validate(); err != nil {
		return Mark{}, err
	}
	if _, err := svc.stdSvc.GetByID(nm.StudentID); err != nil {
		return Mark{}, err
	}
	sub, err := svc.repo.GetSubjectByID(nm.SubjectID)
	if err != nil {
		return Mark{}, err
	}
	if sub.ClassLevel != nm.ClassLevel {
		return Mark{}, core.NewValidationError(errClassMismatch, core.FieldError{Field: "subject_id", Error: errClassMismatch.Error()})
	}

	mark := Mark{
		ID:         uuid.New().String(),
		StudentID:  nm.StudentID,
		SubjectID:  nm.SubjectID,
		ClassLevel: nm.ClassLevel,
		Marks:      nm.Marks,
		MaxMarks:   nm.MaxMarks,
		ExamType:   nm.ExamType,
		Date:       nm.Date,
		Remarks:    nm.Remarks,
	}
	return svc.repo.CreateMark(mark)
}

// UpdateMark corrects an entered result; only the given fields change.
type UpdateMark struct {
	Marks    *float64 `json:"marks" validate:"omitempty,gte=0"`
	MaxMarks *float64 `json:"max_marks" validate:"omitempty,gt=0"`
	Remarks  *string  `json:"remarks"`
}

func (svc *Service) UpdateMarkByID(id string, um UpdateMark) (Mark, error) {
	if err := core.Validate.Struct(um); err != nil {
		return Mark{}, err
	}

	mark, err := svc.repo.GetMarkByID(id)
	if err != nil {
		return Mark{}, err
	}
	if um.Marks != nil {
		mark.Marks = *um.Marks
	}
	if um.MaxMarks != nil {
		mark.MaxMarks = *um.MaxMarks
	}
	if um.Remarks != nil {
		mark.Remarks = *um.Remarks
	}
	if mark.Marks > mark.MaxMarks {
		return Mark{}, core.NewValidationError(errMarksExceedMax, core.FieldError{Field: "marks", Error: errMarksExceedMax.Error()})
	}
	return svc.repo.UpdateMark(mark)
}

func (svc *Service) Marks(filter MarkFilter) ([]Mark, error) {
	return svc.repo.QueryMarks(filter)
}

// SubjectPercentageFor averages a student's results in a subject for one
// exam type; a student with no marks scores 0.
func (svc *Service) SubjectPercentageFor(studentID, subjectID, examType string) (float64, error) {
	marks, err := svc.repo.QueryMarks(MarkFilter{StudentID: studentID, SubjectID: subjectID, ExamType: examType})
	if err != nil {
		return 0, err
	}
	return SubjectPercentage(marks), nil
}

// WeightedTotalFor computes a student's weighted total for one exam type in
// a class, against the current settings.
func (svc *Service) WeightedTotalFor(studentID string, classLevel int, examType string) (float64, error) {
	cfg, err := svc.setSvc.Get()
	if err != nil {
		return 0, err
	}
	marks, err := svc.repo.QueryMarks(MarkFilter{StudentID: studentID, ClassLevel: classLevel, ExamType: examType})
	if err != nil {
		return 0, err
	}
	return WeightedTotal(marks, cfg), nil
}

// ClassRanking ranks every student with marks in (classLevel, examType). A
// class with no marks yields an empty ranking, not an error.
func (svc *Service) ClassRanking(classLevel int, examType string) ([]RankedStudent, error) {
	cfg, err := svc.setSvc.Get()
	if err != nil {
		return nil, err
	}
	marks, err := svc.repo.QueryMarks(MarkFilter{ClassLevel: classLevel, ExamType: examType})
	if err != nil {
		return nil, err
	}

	byStudent := make(map[string][]Mark)
	for _, m := range marks {
		byStudent[m.StudentID] = append(byStudent[m.StudentID], m)
	}

	entries := make([]RankedStudent, 0, len(byStudent))
	for studentID, stdMarks := range byStudent {
		std, err := svc.stdSvc.GetByID(studentID)
		if err != nil {
			if core.IsNotFound(err) {
				continue // marks for a deleted student do not rank
			}
			return nil, err
		}
		entries = append(entries, RankedStudent{
			StudentID:      std.ID,
			Name:           std.Name,
			RegisterNumber: std.RegisterNumber,
			WeightedTotal:  WeightedTotal(stdMarks, cfg),
		})
	}
	return RankStudents(entries), nil
}

// Report cards

type (
	// SubjectResult is one report-card row. Weight is shown for
	// transparency: a subject with weight 0 contributes nothing to the
	// weighted total but its raw percentage still displays.
	SubjectResult struct {
		SubjectID  string  `json:"subject_id"`
		Subject    string  `json:"subject"`
		Marks      float64 `json:"marks"`
		MaxMarks   float64 `json:"max_marks"`
		Percentage float64 `json:"percentage"`
		Grade      string  `json:"grade"`
		Weight     float64 `json:"weight"`
	}

	// ReportCard is the per-student results view-model, recomputed on every
	// read. Rank is omitted entirely when the caller may not see it.
	ReportCard struct {
		StudentID      string          `json:"student_id"`
		StudentName    string          `json:"student_name"`
		RegisterNumber string          `json:"register_number"`
		ClassLevel     int             `json:"class_level"`
		ExamType       string          `json:"exam_type"`
		Subjects       []SubjectResult `json:"subjects"`
		TotalMarks     float64         `json:"total_marks"`
		MaxMarks       float64         `json:"max_marks"`
		Percentage     float64         `json:"percentage"`
		Grade          string          `json:"grade"`
		WeightedTotal  float64         `json:"weighted_total"`
		Rank           *int            `json:"rank,omitempty"`
	}
)

// BuildReportCard assembles a student's results for one exam type.
// includeRank is an access-control decision made by the caller: admin and
// teacher views always pass true; student and parent views pass true only
// when ranking is enabled in the system settings.
func (svc *Service) BuildReportCard(studentID, examType string, includeRank bool) (ReportCard, error) {
	std, err := svc.stdSvc.GetByID(studentID)
	if err != nil {
		return ReportCard{}, err
	}
	cfg, err := svc.setSvc.Get()
	if err != nil {
		return ReportCard{}, err
	}
	marks, err := svc.repo.QueryMarks(MarkFilter{StudentID: studentID, ClassLevel: std.ClassLevel, ExamType: examType})
	if err != nil {
		return ReportCard{}, err
	}

	bySubject := make(map[string][]Mark)
	for _, m := range marks {
		bySubject[m.SubjectID] = append(bySubject[m.SubjectID], m)
	}

	card := ReportCard{
		StudentID:      std.ID,
		StudentName:    std.Name,
		RegisterNumber: std.RegisterNumber,
		ClassLevel:     std.ClassLevel,
		ExamType:       examType,
		Subjects:       make([]SubjectResult, 0, len(bySubject)),
		WeightedTotal:  WeightedTotal(marks, cfg),
	}

	for subjectID, subjMarks := range bySubject {
		row := SubjectResult{
			SubjectID:  subjectID,
			Percentage: SubjectPercentage(subjMarks),
			Weight:     cfg.Weight(subjectID),
		}
		row.Grade = GradeLetter(row.Percentage)
		for _, m := range subjMarks {
			row.Marks += m.Marks
			row.MaxMarks += m.MaxMarks
		}
		if sub, err := svc.repo.GetSubjectByID(subjectID); err == nil {
			row.Subject = sub.Name
		}
		card.Subjects = append(card.Subjects, row)
		card.TotalMarks += row.Marks
		card.MaxMarks += row.MaxMarks
	}
	sort.Slice(card.Subjects, func(i, j int) bool { return card.Subjects[i].Subject < card.Subjects[j].Subject })

	card.Percentage = OverallPercentage(marks)
	card.Grade = GradeLetter(card.Percentage)

	if includeRank {
		ranking, err := svc.ClassRanking(std.ClassLevel, examType)
		if err != nil {
			return ReportCard{}, err
		}
		for _, entry := range ranking {
			if entry.StudentID == std.ID {
				rank := entry.Rank
				card.Rank = &rank
				break
			}
		}
	}
	return card, nil
}

// Assignments

func (svc *Service) CreateAssignment(na NewAssignment) (Assignment, error) {
	if err := na.Validate(); err != nil {
		return Assignment{}, err
	}
	if _, err := svc.repo.GetSubjectByID(na.SubjectID); err != nil {
		return Assignment{}, err
	}
	if na.StudentID != "" {
		if _, err := svc.stdSvc.GetByID(na.StudentID); err != nil {
			return Assignment{}, err
		}
	}

	a := Assignment{
		ID:          uuid.New().String(),
		Title:       na.Title,
		Description: na.Description,
		ClassLevel:  na.ClassLevel,
		SubjectID:   na.SubjectID,
		StudentID:   na.StudentID,
		DueDate:     na.DueDate,
		Status:      AssignmentPending,
	}
	return svc.repo.CreateAssignment(a)
}

// SubmitAssignment moves pending -> submitted; anything else is rejected.
func (svc *Service) SubmitAssignment(id string) (Assignment, error) {
	return svc.repo.UpdateAssignment(id, func(a *Assignment) error {
		if a.Status != AssignmentPending {
			return ErrAlreadySubmitted
		}
		a.Status = AssignmentSubmitted
		a.SubmittedDate = core.Today()
		return nil
	})
}

// EvaluateAssignmentByID moves submitted -> evaluated with a grade.
func (svc *Service) EvaluateAssignmentByID(id string, ea EvaluateAssignment) (Assignment, error) {
	if err := ea.Validate(); err != nil {
		return Assignment{}, err
	}
	return svc.repo.UpdateAssignment(id, func(a *Assignment) error {
		if a.Status != AssignmentSubmitted {
			return ErrNotSubmitted
		}
		a.Status = AssignmentEvaluated
		a.Grade = ea.Grade
		a.Remarks = ea.Remarks
		return nil
	})
}

func (svc *Service) Assignments(filter AssignmentFilter) ([]Assignment, error) {
	return svc.repo.QueryAssignments(filter)
}
