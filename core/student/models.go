package student

import (
	"time"

	"github.com/padhai-app/padhai/core"
)

// Categories
const (
	CategoryNormal      = "normal"
	CategorySlowLearner = "slow_learner"
)

// Student is the canonical record of an admitted student.
// RegisterNumber is immutable once assigned; RollNumber is unique within
// (classLevel, batch) only.
type Student struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Email          string   `json:"email"`
	Phone          string   `json:"phone"`
	ClassLevel     int      `json:"class_level"`
	Batch          string   `json:"batch"`
	Category       string   `json:"category"`
	RegisterNumber string   `json:"register_number"`
	RollNumber     string   `json:"roll_number"`
	EnrollmentID   string   `json:"enrollment_id,omitempty"`
	ParentIDs      []string `json:"parent_ids,omitempty"`

	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

// NewStudent contains information needed to create a new Student.
type NewStudent struct {
	Name           string   `json:"name" validate:"required"`
	Email          string   `json:"email" validate:"omitempty,email"`
	Phone          string   `json:"phone"`
	ClassLevel     int      `json:"class_level" validate:"required,gte=6,lte=12"`
	Batch          string   `json:"batch" validate:"required"`
	Category       string   `json:"category" validate:"omitempty,oneof=normal slow_learner"`
	RegisterNumber string   `json:"register_number"`
	RollNumber     string   `json:"roll_number"`
	EnrollmentID   string   `json:"enrollment_id"`
	ParentIDs      []string `json:"parent_ids"`
}

func (ns *NewStudent) Validate(svc *Service) error {
	ns.Name = core.CleanString(ns.Name)
	ns.Email = core.CleanString(ns.Email, true /* lower */)
	ns.RegisterNumber = core.CleanString(ns.RegisterNumber)
	if ns.Category == "" {
		ns.Category = CategoryNormal
	}

	if err := core.Validate.Struct(ns); err != nil {
		return err
	}
	if err := svc.CheckIdentifierUniqueness("", ns.RegisterNumber, ns.EnrollmentID); err != nil {
		return err
	}
	return svc.CheckRollNumberUniqueness(ns.RollNumber, ns.ClassLevel, ns.Batch)
}

// UpdateStudent defines what information may be provided to modify an existing
// Student. RegisterNumber is deliberately absent: it cannot be changed.
type UpdateStudent struct {
	Name       string   `json:"name"`
	Email      string   `json:"email" validate:"omitempty,email"`
	Phone      string   `json:"phone"`
	ClassLevel int      `json:"class_level" validate:"omitempty,gte=6,lte=12"`
	Batch      string   `json:"batch"`
	Category   string   `json:"category" validate:"omitempty,oneof=normal slow_learner"`
	RollNumber string   `json:"roll_number"`
	ParentIDs  []string `json:"parent_ids"`
}

func (us *UpdateStudent) Validate(orig Student, svc *Service) error {
	if name := core.CleanString(us.Name); name != "" {
		us.Name = name
	} else {
		us.Name = orig.Name
	}
	if email := core.CleanString(us.Email, true /* lower */); email != "" {
		us.Email = email
	} else {
		us.Email = orig.Email
	}
	if us.ClassLevel == 0 {
		us.ClassLevel = orig.ClassLevel
	}
	if us.Batch == "" {
		us.Batch = orig.Batch
	}
	if us.Category == "" {
		us.Category = orig.Category
	}
	if us.RollNumber == "" {
		us.RollNumber = orig.RollNumber
	}

	if err := core.Validate.Struct(us); err != nil {
		return err
	}
	return svc.CheckRollNumberUniqueness(us.RollNumber, us.ClassLevel, us.Batch, orig)
}

type QueryFilter struct {
	Search     string `query:"search"`
	ClassLevel int    `query:"class_level"`
	Batch      string `query:"batch"`
	Category   string `query:"category"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.ClassLevel == 0 && qf.Batch == "" && qf.Category == ""
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
}
