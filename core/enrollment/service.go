package enrollment

import (
	"errors"
	"fmt"
	"net/mail"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"

	"github.com/padhai-app/padhai/core"
	"github.com/padhai-app/padhai/core/student"
)

var (
	// errors
	ErrNotFound           = core.NewNotFoundError("enrollment not found")
	ErrTerminalStatus     = core.NewStateError("enrollment has already been processed")
	ErrRejectedEnrollment = core.NewStateError("cannot record a payment on a rejected enrollment")

	errBadTargetStatus = errors.New("status must be confirmed or rejected")
)

type (
	Repository interface {
		CreateEnrollment(enr Enrollment) (Enrollment, error)
		QueryAllEnrollments() ([]Enrollment, error)
		GetEnrollmentByID(id string) (Enrollment, error)
		// FilterEnrollments applies AND operation on available QueryFilter
		// fields. QueryFilter.Search does a case-insensitive match on one of
		// Enrollment.StudentName or Enrollment.Email.
		FilterEnrollments(filter QueryFilter) ([]Enrollment, error)
		// UpdateEnrollment applies `apply` to the stored enrollment under the
		// store's write lock; an error returned by `apply` aborts the whole
		// update and leaves the store unchanged.
		UpdateEnrollment(id string, apply func(*Enrollment) error) (Enrollment, error)
		// AppendPayment appends `pay` to the ledger and applies `apply` to the
		// matching enrollment as one atomic mutation: either both halves
		// commit or neither does.
		AppendPayment(pay Payment, apply func(*Enrollment) error) (Payment, Enrollment, error)
		QueryAllPayments() ([]Payment, error)
		QueryPaymentsByEnrollment(enrollmentID string) ([]Payment, error)
	}

	Service struct {
		repo    Repository
		stdSvc  *student.Service
		mailSvc core.EmailService
	}
)

func NewService(repo Repository, stdSvc *student.Service, mailSvc core.EmailService) *Service {
	return &Service{repo: repo, stdSvc: stdSvc, mailSvc: mailSvc}
}

// Submit files a public self-enrollment; it lands pending until an admin
// confirms or rejects it.
func (svc *Service) Submit(ne NewEnrollment) (Enrollment, error) {
	if err := ne.Validate(); err != nil {
		return Enrollment{}, err
	}

	enr := Enrollment{
		ID:             uuid.New().String(),
		StudentName:    ne.StudentName,
		Phone:          ne.Phone,
		Email:          ne.Email,
		Address:        ne.Address,
		ClassLevel:     ne.ClassLevel,
		Batch:          ne.Batch,
		Mode:           ne.Mode,
		Category:       ne.Category,
		RegisterNumber: ne.RegisterNumber,
		Status:         StatusPending,
		SubmittedDate:  core.Today(),
		TotalFee:       ne.TotalFee,
		PaymentStatus:  DeriveStatus(0, ne.TotalFee),
	}
	return svc.repo.CreateEnrollment(enr)
}

// ConfirmOffline files a walk-in admission: the enrollment is confirmed
// directly, a register number is allocated (a manually supplied one wins),
// the Student record is created and the initial payment — the whole fee for
// the full plan, the first installment otherwise — is put on the ledger.
func (svc *Service) ConfirmOffline(oe OfflineEnrollment) (Enrollment, error) {
	if err := oe.Validate(); err != nil {
		return Enrollment{}, err
	}

	regNum := oe.RegisterNumber
	if regNum == "" {
		regNum = GenerateRegistrationID()
	}

	enrID := uuid.New().String()
	if err := svc.stdSvc.CheckIdentifierUniqueness("", regNum, enrID); err != nil {
		return Enrollment{}, err
	}
	if err := svc.stdSvc.CheckRollNumberUniqueness(oe.RollNumber, oe.ClassLevel, oe.Batch); err != nil {
		return Enrollment{}, err
	}

	enr := Enrollment{
		ID:             enrID,
		StudentName:    oe.StudentName,
		Phone:          oe.Phone,
		Email:          oe.Email,
		Address:        oe.Address,
		ClassLevel:     oe.ClassLevel,
		Batch:          oe.Batch,
		Mode:           ModeOffline,
		Category:       oe.Category,
		RegisterNumber: regNum,
		RollNumber:     oe.RollNumber,
		Status:         StatusConfirmed,
		SubmittedDate:  core.Today(),
		TotalFee:       oe.TotalFee,
		PaymentStatus:  DeriveStatus(0, oe.TotalFee),
	}
	enr, err := svc.repo.CreateEnrollment(enr)
	if err != nil {
		return Enrollment{}, err
	}

	if _, err = svc.createStudent(enr); err != nil {
		return Enrollment{}, err
	}

	amount := oe.InitialPayment
	payType := TypeInstallment1
	if oe.Plan == PlanFull {
		amount = oe.TotalFee
		payType = TypeFullPayment
	}
	if amount > 0 {
		np := NewPayment{
			EnrollmentID: enr.ID,
			Amount:       amount,
			Date:         core.Today(),
			Method:       oe.Method,
			Type:         payType,
		}
		if _, err = svc.RecordPayment(np); err != nil {
			return Enrollment{}, err
		}
		if enr, err = svc.repo.GetEnrollmentByID(enr.ID); err != nil {
			return Enrollment{}, err
		}
	}

	svc.sendConfirmationMail(enr)
	return enr, nil
}

// UpdateStatus transitions a pending enrollment to confirmed or rejected.
// Both outcomes are terminal: re-processing an already-processed enrollment
// fails with a state error and leaves the store unchanged. Confirmation also
// allocates the register number and creates the Student record.
func (svc *Service) UpdateStatus(id, newStatus string) (Enrollment, error) {
	if newStatus != StatusConfirmed && newStatus != StatusRejected {
		return Enrollment{}, core.NewValidationError(errBadTargetStatus, core.FieldError{Field: "status", Error: errBadTargetStatus.Error()})
	}

	// Pre-allocate identifiers so the uniqueness check happens before any
	// mutation; the store stays untouched on failure.
	var regNum string
	if newStatus == StatusConfirmed {
		orig, err := svc.repo.GetEnrollmentByID(id)
		if err != nil {
			return Enrollment{}, err
		}
		regNum = orig.RegisterNumber
		if regNum == "" {
			regNum = GenerateRegistrationID()
		}
		if err = svc.stdSvc.CheckIdentifierUniqueness("", regNum, id); err != nil {
			return Enrollment{}, err
		}
	}

	enr, err := svc.repo.UpdateEnrollment(id, func(e *Enrollment) error {
		if e.Status != StatusPending {
			return ErrTerminalStatus
		}
		e.Status = newStatus
		if newStatus == StatusConfirmed {
			e.RegisterNumber = regNum
		}
		return nil
	})
	if err != nil {
		return Enrollment{}, err
	}

	if newStatus == StatusConfirmed {
		if _, err = svc.createStudent(enr); err != nil {
			return Enrollment{}, err
		}
		svc.sendConfirmationMail(enr)
	}
	return enr, nil
}

// RecordPayment appends an immutable ledger entry and updates the matching
// enrollment's cached projection (paid amount, credit, payment status) as one
// atomic mutation. Amounts beyond the total fee are clamped into Credit.
func (svc *Service) RecordPayment(np NewPayment) (Payment, error) {
	if err := np.Validate(); err != nil {
		return Payment{}, err
	}

	pay := Payment{
		ID:            uuid.New().String(),
		EnrollmentID:  np.EnrollmentID,
		Amount:        np.Amount,
		Date:          np.Date,
		Method:        np.Method,
		Status:        PaymentPaid,
		TransactionID: np.TransactionID,
		Type:          np.Type,
	}

	pay, enr, err := svc.repo.AppendPayment(pay, func(e *Enrollment) error {
		if e.Status == StatusRejected {
			return ErrRejectedEnrollment
		}
		gross := e.PaidAmount + e.Credit + np.Amount
		e.PaidAmount = gross
		e.Credit = 0
		if gross > e.TotalFee {
			e.PaidAmount = e.TotalFee
			e.Credit = gross - e.TotalFee
		}
		e.PaymentStatus = DeriveStatus(e.PaidAmount, e.TotalFee)
		return nil
	})
	if err != nil {
		return Payment{}, err
	}

	svc.sendReceiptMail(enr, pay)
	return pay, nil
}

func (svc *Service) QueryAll() ([]Enrollment, error) {
	return svc.repo.QueryAllEnrollments()
}

func (svc *Service) GetByID(id string) (Enrollment, error) {
	return svc.repo.GetEnrollmentByID(id)
}

func (svc *Service) Filter(filter QueryFilter) ([]Enrollment, error) {
	return svc.repo.FilterEnrollments(filter)
}

func (svc *Service) Payments(enrollmentID string) ([]Payment, error) {
	if _, err := svc.repo.GetEnrollmentByID(enrollmentID); err != nil {
		return nil, err
	}
	return svc.repo.QueryPaymentsByEnrollment(enrollmentID)
}

func (svc *Service) AllPayments() ([]Payment, error) {
	return svc.repo.QueryAllPayments()
}

// Summary recomputes the per-enrollment payment view-model on every read.
func (svc *Service) Summary(id string) (Summary, error) {
	enr, err := svc.repo.GetEnrollmentByID(id)
	if err != nil {
		return Summary{}, err
	}
	pays, err := svc.repo.QueryPaymentsByEnrollment(id)
	if err != nil {
		return Summary{}, err
	}
	return Summary{
		Enrollment:  enr,
		Payments:    pays,
		Outstanding: enr.TotalFee - enr.PaidAmount,
	}, nil
}

// Stats is the admin dashboard money/admissions roll-up.
type Stats struct {
	TotalCollected   float64 `json:"total_collected"`
	TotalOutstanding float64 `json:"total_outstanding"`
	PendingCount     int     `json:"pending_count"`
	ConfirmedCount   int     `json:"confirmed_count"`
}

func (svc *Service) CollectionStats() (Stats, error) {
	var stats Stats

	pays, err := svc.repo.QueryAllPayments()
	if err != nil {
		return Stats{}, err
	}
	for _, p := range pays {
		if p.Status == PaymentPaid {
			stats.TotalCollected += p.Amount
		}
	}

	enrs, err := svc.repo.QueryAllEnrollments()
	if err != nil {
		return Stats{}, err
	}
	for _, e := range enrs {
		switch e.Status {
		case StatusPending:
			stats.PendingCount++
		case StatusConfirmed:
			stats.ConfirmedCount++
			stats.TotalOutstanding += e.TotalFee - e.PaidAmount
		}
	}
	return stats, nil
}

func (svc *Service) createStudent(enr Enrollment) (student.Student, error) {
	ns := student.NewStudent{
		Name:           enr.StudentName,
		Email:          enr.Email,
		Phone:          enr.Phone,
		ClassLevel:     enr.ClassLevel,
		Batch:          enr.Batch,
		Category:       enr.Category,
		RegisterNumber: enr.RegisterNumber,
		RollNumber:     enr.RollNumber,
		EnrollmentID:   enr.ID,
	}
	if err := ns.Validate(svc.stdSvc); err != nil {
		return student.Student{}, pkgerrors.Wrap(err, "creating student from enrollment")
	}
	return svc.stdSvc.Create(ns)
}

func (svc *Service) sendConfirmationMail(enr Enrollment) {
	if svc.mailSvc == nil || enr.Email == "" {
		return
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: enr.StudentName, Address: enr.Email}},
		Subject: "Admission confirmed",
		Body: fmt.Sprintf(
			"Hi %s,\n\nYour admission to Class %d (%s) is confirmed.\nRegister number: %s\n",
			enr.StudentName, enr.ClassLevel, enr.Batch, enr.RegisterNumber,
		),
	})
}

func (svc *Service) sendReceiptMail(enr Enrollment, pay Payment) {
	if svc.mailSvc == nil || enr.Email == "" {
		return
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: enr.StudentName, Address: enr.Email}},
		Subject: "Payment received",
		Body: fmt.Sprintf(
			"Hi %s,\n\nWe received your payment of %.2f on %s (%s).\nPaid so far: %.2f of %.2f.\n",
			enr.StudentName, pay.Amount, pay.Date, pay.Method, enr.PaidAmount, enr.TotalFee,
		),
	})
}
