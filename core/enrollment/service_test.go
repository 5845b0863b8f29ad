package enrollment_test

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/padhai-app/padhai/core"
	"github.com/padhai-app/padhai/core/enrollment"
	"github.com/padhai-app/padhai/core/student"
	inmemdb "github.com/padhai-app/padhai/storage/database/inmem"
)

type mailRecorder struct {
	sent []*core.EmailMessage
}

func (m *mailRecorder) SendMessages(messages ...*core.EmailMessage) {
	m.sent = append(m.sent, messages...)
}

func setup(t *testing.T) (*enrollment.Service, *student.Service, *mailRecorder) {
	db, err := inmemdb.Open()
	require.NoError(t, err)

	mail := new(mailRecorder)
	stdSvc := student.NewService(inmemdb.NewStudentRepository(db))
	svc := enrollment.NewService(inmemdb.NewEnrollmentRepository(db), stdSvc, mail)
	return svc, stdSvc, mail
}

func submit(t *testing.T, svc *enrollment.Service, totalFee float64) enrollment.Enrollment {
	enr, err := svc.Submit(enrollment.NewEnrollment{
		StudentName: "Alice Johnson",
		Phone:       "9876543210",
		Email:       "alice@student.com",
		ClassLevel:  10,
		Batch:       "A",
		Mode:        enrollment.ModeOnline,
		TotalFee:    totalFee,
	})
	require.NoError(t, err)
	return enr
}

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		name           string
		paid, totalFee float64
		want           string
	}{
		{"nothing paid", 0, 50000, enrollment.PaymentPending},
		{"part paid", 25000, 50000, enrollment.PaymentPartial},
		{"fully paid", 50000, 50000, enrollment.PaymentPaid},
		{"paid over total", 60000, 50000, enrollment.PaymentPaid},
		{"zero fee is immediately paid", 0, 0, enrollment.PaymentPaid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, enrollment.DeriveStatus(tt.paid, tt.totalFee))
		})
	}
}

func TestGenerateRegistrationID(t *testing.T) {
	enrollment.NowFunc = func() time.Time { return time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC) }
	defer func() { enrollment.NowFunc = time.Now }()

	re := regexp.MustCompile(`^STU260201\d{3}$`)
	for i := 0; i < 20; i++ {
		id := enrollment.GenerateRegistrationID()
		assert.Regexp(t, re, id)
		assert.Len(t, id, 12)
	}
}

func TestSubmitLandsPending(t *testing.T) {
	svc, _, _ := setup(t)

	enr := submit(t, svc, 50000)
	assert.Equal(t, enrollment.StatusPending, enr.Status)
	assert.Equal(t, enrollment.PaymentPending, enr.PaymentStatus)
	assert.Zero(t, enr.PaidAmount)
	assert.Empty(t, enr.RegisterNumber)
}

func TestConfirmCreatesStudent(t *testing.T) {
	svc, stdSvc, mail := setup(t)

	enr := submit(t, svc, 50000)
	enr, err := svc.UpdateStatus(enr.ID, enrollment.StatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, enrollment.StatusConfirmed, enr.Status)
	assert.NotEmpty(t, enr.RegisterNumber)

	// the student record is reachable by all three scan identifiers
	std, err := stdSvc.ResolveToken(enr.RegisterNumber)
	require.NoError(t, err)
	assert.Equal(t, enr.StudentName, std.Name)
	assert.Equal(t, enr.ID, std.EnrollmentID)

	byEnrID, err := stdSvc.ResolveToken(enr.ID)
	require.NoError(t, err)
	assert.Equal(t, std.ID, byEnrID.ID)

	byID, err := stdSvc.ResolveToken(std.ID)
	require.NoError(t, err)
	assert.Equal(t, std.ID, byID.ID)

	require.Len(t, mail.sent, 1)
	assert.Contains(t, mail.sent[0].Body, enr.RegisterNumber)
}

func TestConfirmKeepsManualRegisterNumber(t *testing.T) {
	svc, stdSvc, _ := setup(t)

	enr, err := svc.Submit(enrollment.NewEnrollment{
		StudentName:    "Bob Smith",
		Phone:          "9876543211",
		Email:          "bob@student.com",
		ClassLevel:     10,
		Batch:          "A",
		RegisterNumber: "STU250601042",
		TotalFee:       50000,
	})
	require.NoError(t, err)

	enr, err = svc.UpdateStatus(enr.ID, enrollment.StatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, "STU250601042", enr.RegisterNumber)

	std, err := stdSvc.ResolveToken("STU250601042")
	require.NoError(t, err)
	assert.Equal(t, "Bob Smith", std.Name)
}

func TestStatusTransitionsAreTerminal(t *testing.T) {
	svc, _, _ := setup(t)

	t.Run("confirmed stays confirmed", func(t *testing.T) {
		enr := submit(t, svc, 50000)
		_, err := svc.UpdateStatus(enr.ID, enrollment.StatusConfirmed)
		require.NoError(t, err)

		_, err = svc.UpdateStatus(enr.ID, enrollment.StatusRejected)
		assert.True(t, core.IsStateConflict(err))

		got, err := svc.GetByID(enr.ID)
		require.NoError(t, err)
		assert.Equal(t, enrollment.StatusConfirmed, got.Status)
	})

	t.Run("rejected stays rejected", func(t *testing.T) {
		enr := submit(t, svc, 50000)
		_, err := svc.UpdateStatus(enr.ID, enrollment.StatusRejected)
		require.NoError(t, err)

		_, err = svc.UpdateStatus(enr.ID, enrollment.StatusConfirmed)
		assert.True(t, core.IsStateConflict(err))
	})

	t.Run("bad target status", func(t *testing.T) {
		enr := submit(t, svc, 50000)
		_, err := svc.UpdateStatus(enr.ID, "paid")
		var vErr *core.ValidationError
		assert.ErrorAs(t, err, &vErr)
	})
}

func TestRecordPaymentProgression(t *testing.T) {
	svc, _, _ := setup(t)
	enr := submit(t, svc, 50000)

	pay := func(amount float64) enrollment.Enrollment {
		_, err := svc.RecordPayment(enrollment.NewPayment{
			EnrollmentID: enr.ID,
			Amount:       amount,
			Method:       enrollment.MethodCash,
		})
		require.NoError(t, err)
		got, err := svc.GetByID(enr.ID)
		require.NoError(t, err)
		return got
	}

	got := pay(20000)
	assert.Equal(t, 20000.0, got.PaidAmount)
	assert.Equal(t, enrollment.PaymentPartial, got.PaymentStatus)

	got = pay(30000)
	assert.Equal(t, 50000.0, got.PaidAmount)
	assert.Equal(t, enrollment.PaymentPaid, got.PaymentStatus)

	// the ledger holds both entries untouched
	pays, err := svc.Payments(enr.ID)
	require.NoError(t, err)
	require.Len(t, pays, 2)
	assert.Equal(t, 20000.0, pays[0].Amount)
	assert.Equal(t, 30000.0, pays[1].Amount)
}

func TestOverpaymentClampsIntoCredit(t *testing.T) {
	svc, _, _ := setup(t)
	enr := submit(t, svc, 50000)

	_, err := svc.RecordPayment(enrollment.NewPayment{
		EnrollmentID: enr.ID,
		Amount:       60000,
		Method:       enrollment.MethodTransfer,
	})
	require.NoError(t, err)

	got, err := svc.GetByID(enr.ID)
	require.NoError(t, err)
	assert.Equal(t, 50000.0, got.PaidAmount)
	assert.Equal(t, 10000.0, got.Credit)
	assert.Equal(t, enrollment.PaymentPaid, got.PaymentStatus)

	// projection + credit always equals the ledger sum
	pays, err := svc.Payments(enr.ID)
	require.NoError(t, err)
	var ledger float64
	for _, p := range pays {
		ledger += p.Amount
	}
	assert.Equal(t, ledger, got.PaidAmount+got.Credit)
}

func TestRecordPaymentOnRejectedEnrollment(t *testing.T) {
	svc, _, _ := setup(t)
	enr := submit(t, svc, 50000)
	_, err := svc.UpdateStatus(enr.ID, enrollment.StatusRejected)
	require.NoError(t, err)

	_, err = svc.RecordPayment(enrollment.NewPayment{
		EnrollmentID: enr.ID,
		Amount:       1000,
		Method:       enrollment.MethodCash,
	})
	assert.True(t, core.IsStateConflict(err))

	// nothing landed on the ledger
	pays, err := svc.Payments(enr.ID)
	require.NoError(t, err)
	assert.Empty(t, pays)
}

func TestRecordPaymentValidation(t *testing.T) {
	svc, _, _ := setup(t)
	enr := submit(t, svc, 50000)

	_, err := svc.RecordPayment(enrollment.NewPayment{
		EnrollmentID: enr.ID,
		Amount:       0,
		Method:       enrollment.MethodCash,
	})
	assert.Error(t, err)

	_, err = svc.RecordPayment(enrollment.NewPayment{
		EnrollmentID: "nope",
		Amount:       1000,
		Method:       enrollment.MethodCash,
	})
	assert.True(t, core.IsNotFound(err))
}

func TestConfirmOffline(t *testing.T) {
	t.Run("full plan lands paid", func(t *testing.T) {
		svc, _, mail := setup(t)
		enr, err := svc.ConfirmOffline(enrollment.OfflineEnrollment{
			StudentName: "Charlie Brown",
			Phone:       "9876543212",
			Email:       "charlie@student.com",
			ClassLevel:  9,
			Batch:       "A",
			TotalFee:    40000,
			Plan:        enrollment.PlanFull,
		})
		require.NoError(t, err)
		assert.Equal(t, enrollment.StatusConfirmed, enr.Status)
		assert.Equal(t, 40000.0, enr.PaidAmount)
		assert.Equal(t, enrollment.PaymentPaid, enr.PaymentStatus)

		pays, err := svc.Payments(enr.ID)
		require.NoError(t, err)
		require.Len(t, pays, 1)
		assert.Equal(t, enrollment.TypeFullPayment, pays[0].Type)
		assert.Equal(t, enrollment.MethodCash, pays[0].Method) // default

		// receipt then confirmation
		assert.Len(t, mail.sent, 2)
	})

	t.Run("two installments lands partial", func(t *testing.T) {
		svc, _, _ := setup(t)
		enr, err := svc.ConfirmOffline(enrollment.OfflineEnrollment{
			StudentName:    "Diana Prince",
			Phone:          "9876543213",
			Email:          "diana@student.com",
			ClassLevel:     11,
			Batch:          "A",
			TotalFee:       60000,
			Plan:           enrollment.PlanTwoInstallments,
			InitialPayment: 30000,
			Method:         enrollment.MethodTransfer,
		})
		require.NoError(t, err)
		assert.Equal(t, 30000.0, enr.PaidAmount)
		assert.Equal(t, enrollment.PaymentPartial, enr.PaymentStatus)

		pays, err := svc.Payments(enr.ID)
		require.NoError(t, err)
		require.Len(t, pays, 1)
		assert.Equal(t, enrollment.TypeInstallment1, pays[0].Type)
	})

	t.Run("duplicate register number is rejected before any write", func(t *testing.T) {
		svc, _, _ := setup(t)
		_, err := svc.ConfirmOffline(enrollment.OfflineEnrollment{
			StudentName:    "First",
			Phone:          "9876543214",
			Email:          "first@student.com",
			ClassLevel:     10,
			Batch:          "A",
			RegisterNumber: "STU250601099",
			TotalFee:       50000,
		})
		require.NoError(t, err)

		_, err = svc.ConfirmOffline(enrollment.OfflineEnrollment{
			StudentName:    "Second",
			Phone:          "9876543215",
			Email:          "second@student.com",
			ClassLevel:     10,
			Batch:          "A",
			RegisterNumber: "STU250601099",
			TotalFee:       50000,
		})
		var vErr *core.ValidationError
		require.ErrorAs(t, err, &vErr)

		enrs, err := svc.QueryAll()
		require.NoError(t, err)
		assert.Len(t, enrs, 1)
	})

	t.Run("duplicate roll number is rejected before any write", func(t *testing.T) {
		svc, _, _ := setup(t)
		_, err := svc.ConfirmOffline(enrollment.OfflineEnrollment{
			StudentName: "First",
			Phone:       "9876543216",
			Email:       "first@student.com",
			ClassLevel:  10,
			Batch:       "A",
			RollNumber:  "42",
			TotalFee:    50000,
		})
		require.NoError(t, err)

		_, err = svc.ConfirmOffline(enrollment.OfflineEnrollment{
			StudentName: "Second",
			Phone:       "9876543217",
			Email:       "second@student.com",
			ClassLevel:  10,
			Batch:       "A",
			RollNumber:  "42",
			TotalFee:    50000,
		})
		var vErr *core.ValidationError
		require.ErrorAs(t, err, &vErr)

		// no orphan enrollment without a student
		enrs, err := svc.QueryAll()
		require.NoError(t, err)
		assert.Len(t, enrs, 1)
	})
}

func TestCollectionStats(t *testing.T) {
	svc, _, _ := setup(t)

	paid := submit(t, svc, 50000)
	_, err := svc.UpdateStatus(paid.ID, enrollment.StatusConfirmed)
	require.NoError(t, err)
	_, err = svc.RecordPayment(enrollment.NewPayment{EnrollmentID: paid.ID, Amount: 20000, Method: enrollment.MethodCash})
	require.NoError(t, err)

	submit(t, svc, 30000) // stays pending

	stats, err := svc.CollectionStats()
	require.NoError(t, err)
	assert.Equal(t, 20000.0, stats.TotalCollected)
	assert.Equal(t, 30000.0, stats.TotalOutstanding)
	assert.Equal(t, 1, stats.PendingCount)
	assert.Equal(t, 1, stats.ConfirmedCount)
}

func TestSummary(t *testing.T) {
	svc, _, _ := setup(t)
	enr := submit(t, svc, 50000)
	_, err := svc.RecordPayment(enrollment.NewPayment{EnrollmentID: enr.ID, Amount: 15000, Method: enrollment.MethodOnline})
	require.NoError(t, err)

	sum, err := svc.Summary(enr.ID)
	require.NoError(t, err)
	assert.Equal(t, 35000.0, sum.Outstanding)
	assert.Len(t, sum.Payments, 1)

	_, err = svc.Summary("nope")
	assert.True(t, core.IsNotFound(err))
}
