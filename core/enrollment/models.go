package enrollment

import (
	"github.com/padhai-app/padhai/core"
)

// Admission statuses. Pending may transition to confirmed or rejected;
// both of those are terminal.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusRejected  = "rejected"
)

// Payment statuses, derived from (paidAmount, totalFee) — never set by hand.
const (
	PaymentPending = "pending"
	PaymentPartial = "partial"
	PaymentPaid    = "paid"
)

// Admission modes
const (
	ModeOnline  = "online"
	ModeOffline = "offline"
)

// Payment methods
const (
	MethodOnline   = "online"
	MethodCash     = "cash"
	MethodTransfer = "transfer"
)

// Installment plans for offline admissions
const (
	PlanFull            = "full"
	PlanTwoInstallments = "two_installments"
)

// Payment kinds
const (
	TypeInstallment1 = "installment_1"
	TypeInstallment2 = "installment_2"
	TypeFullPayment  = "full_payment"
)

type (
	// Enrollment is an admission record. PaidAmount and Credit are cached
	// projections of the payment ledger; PaymentStatus is derived from
	// (PaidAmount, TotalFee). All three are maintained by the service inside
	// the same repository mutation that appends to the ledger.
	Enrollment struct {
		ID             string  `json:"id"`
		StudentName    string  `json:"student_name"`
		Phone          string  `json:"phone"`
		Email          string  `json:"email"`
		Address        string  `json:"address,omitempty"`
		ClassLevel     int     `json:"class_level"`
		Batch          string  `json:"batch"`
		Mode           string  `json:"mode"`
		Category       string  `json:"category,omitempty"`
		RegisterNumber string  `json:"register_number,omitempty"`
		RollNumber     string  `json:"roll_number,omitempty"`
		Status         string  `json:"status"`
		SubmittedDate  string  `json:"submitted_date"`
		TotalFee       float64 `json:"total_fee"`
		PaidAmount     float64 `json:"paid_amount"`
		// Credit is the amount received beyond TotalFee; PaidAmount itself is
		// clamped at TotalFee so overpayment never hides in the projection.
		Credit        float64 `json:"credit,omitempty"`
		PaymentStatus string  `json:"payment_status"`
	}

	// Payment is an immutable, append-only ledger entry. There is no edit or
	// delete entry point anywhere in the system.
	Payment struct {
		ID            string  `json:"id"`
		EnrollmentID  string  `json:"enrollment_id"`
		Amount        float64 `json:"amount"`
		Date          string  `json:"date"`
		Method        string  `json:"method"`
		Status        string  `json:"status"`
		TransactionID string  `json:"transaction_id,omitempty"`
		Type          string  `json:"type,omitempty"`
	}
)

// DeriveStatus classifies the payment status of an enrollment from its two
// inputs alone: paid when the fee is covered, partial when something but not
// everything is in, pending when nothing is.
func DeriveStatus(paidAmount, totalFee float64) string {
	switch {
	case paidAmount >= totalFee:
		return PaymentPaid
	case paidAmount > 0:
		return PaymentPartial
	default:
		return PaymentPending
	}
}

// NewEnrollment is a public self-enrollment submission; it lands pending.
type NewEnrollment struct {
	StudentName    string  `json:"student_name" validate:"required"`
	Phone          string  `json:"phone" validate:"required"`
	Email          string  `json:"email" validate:"required,email"`
	Address        string  `json:"address"`
	ClassLevel     int     `json:"class_level" validate:"required,gte=6,lte=12"`
	Batch          string  `json:"batch" validate:"required"`
	Mode           string  `json:"mode" validate:"omitempty,oneof=online offline"`
	Category       string  `json:"category" validate:"omitempty,oneof=normal slow_learner"`
	RegisterNumber string  `json:"register_number"` // existing students only
	TotalFee       float64 `json:"total_fee" validate:"gte=0"`
}

func (ne *NewEnrollment) Validate() error {
	ne.StudentName = core.CleanString(ne.StudentName)
	ne.Email = core.CleanString(ne.Email, true /* lower */)
	ne.RegisterNumber = core.CleanString(ne.RegisterNumber)
	if ne.Mode == "" {
		ne.Mode = ModeOnline
	}
	return core.Validate.Struct(ne)
}

// OfflineEnrollment is an admin walk-in admission; it is confirmed directly.
type OfflineEnrollment struct {
	StudentName    string  `json:"student_name" validate:"required"`
	Phone          string  `json:"phone" validate:"required"`
	Email          string  `json:"email" validate:"required,email"`
	Address        string  `json:"address"`
	ClassLevel     int     `json:"class_level" validate:"required,gte=6,lte=12"`
	Batch          string  `json:"batch" validate:"required"`
	Category       string  `json:"category" validate:"omitempty,oneof=normal slow_learner"`
	RegisterNumber string  `json:"register_number"` // manual override; wins over the generator
	RollNumber     string  `json:"roll_number"`
	TotalFee       float64 `json:"total_fee" validate:"gte=0"`
	Plan           string  `json:"plan" validate:"omitempty,oneof=full two_installments"`
	// InitialPayment is only read for the two-installments plan.
	InitialPayment float64 `json:"initial_payment" validate:"gte=0"`
	Method         string  `json:"method" validate:"omitempty,oneof=online cash transfer"`
}

func (oe *OfflineEnrollment) Validate() error {
	oe.StudentName = core.CleanString(oe.StudentName)
	oe.Email = core.CleanString(oe.Email, true /* lower */)
	oe.RegisterNumber = core.CleanString(oe.RegisterNumber)
	if oe.Plan == "" {
		oe.Plan = PlanFull
	}
	if oe.Method == "" {
		oe.Method = MethodCash
	}
	return core.Validate.Struct(oe)
}

// NewPayment records an amount received against an enrollment.
type NewPayment struct {
	EnrollmentID  string  `json:"enrollment_id" validate:"required"`
	Amount        float64 `json:"amount" validate:"required,gt=0"`
	Date          string  `json:"date" validate:"omitempty,isodate"`
	Method        string  `json:"method" validate:"required,oneof=online cash transfer"`
	TransactionID string  `json:"transaction_id"`
	Type          string  `json:"type" validate:"omitempty,oneof=installment_1 installment_2 full_payment"`
}

func (np *NewPayment) Validate() error {
	np.TransactionID = core.CleanString(np.TransactionID)
	if np.Date == "" {
		np.Date = core.Today()
	}
	return core.Validate.Struct(np)
}

type QueryFilter struct {
	Search     string `query:"search"`
	Status     string `query:"status"`
	ClassLevel int    `query:"class_level"`
	Batch      string `query:"batch"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.Status == "" && qf.ClassLevel == 0 && qf.Batch == ""
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
}

// Summary is the per-enrollment payment view-model handed to the UI;
// recomputed on every read.
type Summary struct {
	Enrollment  Enrollment `json:"enrollment"`
	Payments    []Payment  `json:"payments"`
	Outstanding float64    `json:"outstanding"`
}
