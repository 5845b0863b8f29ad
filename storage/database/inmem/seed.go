package inmemdb

import (
	"fmt"
	"math/rand"

	"github.com/padhai-app/padhai/core"
	"github.com/padhai-app/padhai/core/academics"
	"github.com/padhai-app/padhai/core/attendance"
	"github.com/padhai-app/padhai/core/catalog"
	"github.com/padhai-app/padhai/core/enrollment"
	"github.com/padhai-app/padhai/core/message"
	"github.com/padhai-app/padhai/core/student"
	"github.com/padhai-app/padhai/core/user"
)

// Seed loads the demo fixtures. The store starts empty on every boot, so the
// whole dataset is rebuilt here; ids are fixed so demo logins and
// cross-references stay stable across restarts.
func Seed(db *DB) error {
	if err := seedUsersAndStudents(db); err != nil {
		return err
	}
	if err := seedAcademics(db); err != nil {
		return err
	}
	if err := seedEnrollments(db); err != nil {
		return err
	}
	if err := seedAttendance(db); err != nil {
		return err
	}
	if err := seedCatalog(db); err != nil {
		return err
	}
	return seedMessages(db)
}

type seedStudent struct {
	id, name, email string
	classLevel      int
	batch           string
	regNum, roll    string
	enrollmentID    string
	parentIDs       []string
}

var seedStudents = []seedStudent{
	{"s1", "Alice Johnson", "alice@student.com", 10, "A", "STU250601001", "10A-01", "e1", []string{"p1"}},
	{"s2", "Bob Smith", "bob@student.com", 10, "A", "STU250601002", "10A-02", "e2", []string{"p2"}},
	{"s3", "Charlie Brown", "charlie@student.com", 9, "A", "STU250601003", "9A-01", "e3", []string{"p3"}},
	{"s4", "Diana Prince", "diana@student.com", 11, "A", "STU250601004", "11A-01", "e4", []string{"p4"}},
	{"s5", "Emma Watson", "emma@student.com", 10, "B", "STU250601005", "10B-01", "e5", []string{"p1"}},
}

func seedUsersAndStudents(db *DB) error {
	stdRepo := NewStudentRepository(db)
	now := core.NowFunc().UTC()

	for _, ss := range seedStudents {
		if _, err := stdRepo.CreateStudent(student.Student{
			ID:             ss.id,
			Name:           ss.name,
			Email:          ss.email,
			ClassLevel:     ss.classLevel,
			Batch:          ss.batch,
			Category:       student.CategoryNormal,
			RegisterNumber: ss.regNum,
			RollNumber:     ss.roll,
			EnrollmentID:   ss.enrollmentID,
			ParentIDs:      ss.parentIDs,
			CreatedAt:      now,
			UpdatedAt:      now,
		}); err != nil {
			return err
		}
	}

	usrRepo := NewUserRepository(db)
	users := []user.User{
		{ID: "u-admin", Name: "Admin", Username: "admin", Email: "admin@school.com", Roles: []string{user.RoleAdminOwner}},
		{
			ID: "t1", Name: "Dr. Jane Williams", Username: "jwilliams", Email: "teacher@school.com",
			Roles:           []string{user.RoleTeacher},
			AssignedClasses: []int{9, 10, 11}, AssignedBatches: []string{"A", "B"},
		},
		{ID: "p1", Name: "John Johnson", Username: "jjohnson", Email: "john@parent.com", Roles: []string{user.RoleParent}, ChildrenIDs: []string{"s1", "s5"}},
		{ID: "p2", Name: "Mary Smith", Username: "marysmith", Email: "mary@parent.com", Roles: []string{user.RoleParent}, ChildrenIDs: []string{"s2"}},
		{ID: "p3", Name: "Robert Brown", Username: "rbrown1", Email: "robert@parent.com", Roles: []string{user.RoleParent}, ChildrenIDs: []string{"s3"}},
		{ID: "p4", Name: "Sarah Prince", Username: "sprince", Email: "sarah@parent.com", Roles: []string{user.RoleParent}, ChildrenIDs: []string{"s4"}},
	}
	for _, ss := range seedStudents {
		users = append(users, user.User{
			ID:        "u-" + ss.id,
			Name:      ss.name,
			Username:  ss.id + "-login",
			Email:     ss.email,
			Roles:     []string{user.RoleStudent},
			StudentID: ss.id,
		})
	}

	for _, usr := range users {
		usr.IsActive = true
		usr.CreatedAt, usr.UpdatedAt = now, now
		if err := usr.SetPassword("Secret123!"); err != nil {
			return err
		}
		if _, err := usrRepo.CreateUser(usr); err != nil {
			return err
		}
	}
	return nil
}

func seedAcademics(db *DB) error {
	repo := NewAcademicsRepository(db)

	subjects := []academics.Subject{
		{ID: "sub1", Name: "Mathematics", ClassLevel: 9},
		{ID: "sub2", Name: "Science", ClassLevel: 9},
		{ID: "sub3", Name: "English", ClassLevel: 9},
		{ID: "sub4", Name: "History", ClassLevel: 9},
		{ID: "sub5", Name: "Geography", ClassLevel: 9},
		{ID: "sub6", Name: "Mathematics", ClassLevel: 10},
		{ID: "sub7", Name: "Science", ClassLevel: 10},
		{ID: "sub8", Name: "English", ClassLevel: 10},
		{ID: "sub9", Name: "History", ClassLevel: 10},
		{ID: "sub10", Name: "Geography", ClassLevel: 10},
		{ID: "sub11", Name: "Mathematics", ClassLevel: 11},
		{ID: "sub12", Name: "Physics", ClassLevel: 11},
		{ID: "sub13", Name: "Chemistry", ClassLevel: 11},
		{ID: "sub14", Name: "English", ClassLevel: 11},
		{ID: "sub15", Name: "Computer Science", ClassLevel: 11},
	}
	for _, sub := range subjects {
		if _, err := repo.CreateSubject(sub); err != nil {
			return err
		}
	}

	type m struct {
		id, studentID, subjectID string
		classLevel               int
		marks                    float64
		date, remarks            string
	}
	marks := []m{
		{"m1", "s1", "sub6", 10, 85, "2026-01-15", "Good work"},
		{"m2", "s1", "sub7", 10, 78, "2026-01-16", ""},
		{"m3", "s1", "sub8", 10, 92, "2026-01-17", "Excellent"},
		{"m4", "s1", "sub9", 10, 88, "2026-01-18", ""},
		{"m5", "s1", "sub10", 10, 75, "2026-01-19", ""},
		{"m6", "s2", "sub6", 10, 72, "2026-01-15", ""},
		{"m7", "s2", "sub7", 10, 68, "2026-01-16", ""},
		{"m8", "s2", "sub8", 10, 80, "2026-01-17", ""},
		{"m9", "s2", "sub9", 10, 76, "2026-01-18", ""},
		{"m10", "s2", "sub10", 10, 82, "2026-01-19", ""},
		{"m11", "s3", "sub1", 9, 90, "2026-01-15", ""},
		{"m12", "s3", "sub2", 9, 88, "2026-01-16", ""},
		{"m13", "s3", "sub3", 9, 85, "2026-01-17", ""},
		{"m14", "s4", "sub11", 11, 95, "2026-01-15", ""},
		{"m15", "s4", "sub12", 11, 92, "2026-01-16", ""},
		{"m16", "s4", "sub13", 11, 89, "2026-01-17", ""},
		{"m17", "s5", "sub6", 10, 88, "2026-01-15", ""},
		{"m18", "s5", "sub7", 10, 91, "2026-01-16", ""},
		{"m19", "s5", "sub8", 10, 87, "2026-01-17", ""},
	}
	for _, mk := range marks {
		if _, err := repo.CreateMark(academics.Mark{
			ID:         mk.id,
			StudentID:  mk.studentID,
			SubjectID:  mk.subjectID,
			ClassLevel: mk.classLevel,
			Marks:      mk.marks,
			MaxMarks:   100,
			ExamType:   "Mid-term",
			Date:       mk.date,
			Remarks:    mk.remarks,
		}); err != nil {
			return err
		}
	}

	assignments := []academics.Assignment{
		{
			ID: "a1", Title: "Quadratic Equations Problem Set", Description: "Solve all problems in Chapter 4",
			ClassLevel: 10, SubjectID: "sub6", DueDate: "2026-02-05", Status: academics.AssignmentPending,
		},
		{
			ID: "a2", Title: "Chemical Reactions Lab Report", Description: "Write a detailed lab report on the experiment conducted",
			ClassLevel: 10, SubjectID: "sub7", StudentID: "s1", DueDate: "2026-02-10",
			Status: academics.AssignmentSubmitted, SubmittedDate: "2026-01-28",
		},
		{
			ID: "a3", Title: "Essay on Climate Change", Description: "Write a 500-word essay",
			ClassLevel: 10, SubjectID: "sub8", StudentID: "s1", DueDate: "2026-02-01",
			Status: academics.AssignmentEvaluated, SubmittedDate: "2026-01-27", Grade: 85, Remarks: "Well written!",
		},
		{
			ID: "a4", Title: "Geometry Worksheet", Description: "Complete all triangle problems",
			ClassLevel: 9, SubjectID: "sub1", DueDate: "2026-02-08", Status: academics.AssignmentPending,
		},
		{
			ID: "a5", Title: "Physics Problems", Description: "Newton's Laws problems",
			ClassLevel: 11, SubjectID: "sub12", DueDate: "2026-02-12", Status: academics.AssignmentPending,
		},
	}
	for _, a := range assignments {
		if _, err := repo.CreateAssignment(a); err != nil {
			return err
		}
	}
	return nil
}

func seedEnrollments(db *DB) error {
	repo := NewEnrollmentRepository(db)

	// confirmed enrollments backing the seeded students, each with its ledger
	for i, ss := range seedStudents {
		enr := enrollment.Enrollment{
			ID:             ss.enrollmentID,
			StudentName:    ss.name,
			Phone:          fmt.Sprintf("98765432%02d", i),
			Email:          ss.email,
			ClassLevel:     ss.classLevel,
			Batch:          ss.batch,
			Mode:           enrollment.ModeOffline,
			Category:       student.CategoryNormal,
			RegisterNumber: ss.regNum,
			RollNumber:     ss.roll,
			Status:         enrollment.StatusConfirmed,
			SubmittedDate:  "2025-06-01",
			TotalFee:       50000,
		}
		if _, err := repo.CreateEnrollment(enr); err != nil {
			return err
		}

		// first two students paid in full, the rest paid one installment
		amount, payType := 25000.0, enrollment.TypeInstallment1
		if i < 2 {
			amount, payType = 50000, enrollment.TypeFullPayment
		}
		pay := enrollment.Payment{
			ID:           fmt.Sprintf("pay-%s", ss.enrollmentID),
			EnrollmentID: ss.enrollmentID,
			Amount:       amount,
			Date:         "2025-06-01",
			Method:       enrollment.MethodCash,
			Status:       enrollment.PaymentPaid,
			Type:         payType,
		}
		if _, _, err := repo.AppendPayment(pay, func(e *enrollment.Enrollment) error {
			e.PaidAmount = amount
			e.PaymentStatus = enrollment.DeriveStatus(e.PaidAmount, e.TotalFee)
			return nil
		}); err != nil {
			return err
		}
	}

	// a couple of fresh public submissions awaiting review
	pending := []enrollment.Enrollment{
		{
			ID: "e6", StudentName: "Frank Castle", Phone: "9876543210", Email: "frank@applicant.com",
			ClassLevel: 10, Batch: "A", Mode: enrollment.ModeOnline, Status: enrollment.StatusPending,
			SubmittedDate: core.Today(), TotalFee: 50000, PaymentStatus: enrollment.PaymentPending,
		},
		{
			ID: "e7", StudentName: "Grace Lee", Phone: "9876543211", Email: "grace@applicant.com",
			ClassLevel: 11, Batch: "A", Mode: enrollment.ModeOnline, Status: enrollment.StatusPending,
			SubmittedDate: core.Today(), TotalFee: 60000, PaymentStatus: enrollment.PaymentPending,
		},
	}
	for _, enr := range pending {
		if _, err := repo.CreateEnrollment(enr); err != nil {
			return err
		}
	}
	return nil
}

// seedAttendance marks the last 30 days for every seeded student with a
// fixed-seed 85% present rate, so restarts reproduce the same history.
func seedAttendance(db *DB) error {
	repo := NewAttendanceRepository(db)
	rng := rand.New(rand.NewSource(42))
	today := core.NowFunc()

	for i := 0; i < 30; i++ {
		date := today.AddDate(0, 0, -i).Format(core.DateFormat)
		for _, ss := range seedStudents {
			status := attendance.StatusPresent
			if rng.Float64() < 0.15 {
				status = attendance.StatusAbsent
			}
			if _, err := repo.UpsertAttendance(attendance.Record{
				StudentID:  ss.id,
				ClassLevel: ss.classLevel,
				Date:       date,
				Status:     status,
			}); err != nil {
				return err
			}
		}
	}
	return nil
}

func seedCatalog(db *DB) error {
	repo := NewCatalogRepository(db)

	courses := []catalog.Course{
		{
			ID: "c1", Name: "Class 10 CBSE", ClassLevel: 10, Batch: "A",
			Description: "Full-year CBSE board preparation", Duration: "12 months",
			Fee: 50000, Type: catalog.CourseClassroom,
		},
		{
			ID: "c2", Name: "JEE Main Foundation", ClassLevel: 11, Batch: "A",
			Description: "Engineering entrance foundation", Duration: "24 months",
			Fee: 60000, Type: catalog.CourseOnline,
		},
	}
	for _, course := range courses {
		if _, err := repo.CreateCourse(course); err != nil {
			return err
		}
	}

	notes := []catalog.Note{
		{
			ID: "n1", Title: "Quadratic Equations Summary", URL: "https://files.school.com/notes/quadratic.pdf",
			ClassLevel: 10, Batch: "all", SubjectID: "sub6", UploadedDate: "2026-01-20", UploadedBy: "Dr. Jane Williams",
		},
		{
			ID: "n2", Title: "Newton's Laws Cheat Sheet", URL: "https://files.school.com/notes/newton.pdf",
			ClassLevel: 11, Batch: "A", SubjectID: "sub12", UploadedDate: "2026-01-22", UploadedBy: "Dr. Jane Williams",
		},
	}
	for _, note := range notes {
		if _, err := repo.CreateNote(note); err != nil {
			return err
		}
	}
	return nil
}

func seedMessages(db *DB) error {
	repo := NewMessageRepository(db)

	msgs := []message.Message{
		{ID: "msg1", From: "t1", To: "u-s1", Subject: "Great Progress!", Content: "Alice, you're doing excellent work in Mathematics. Keep it up!", Date: "2026-01-28"},
		{ID: "msg2", From: "t1", To: "p1", Subject: "Parent-Teacher Meeting", Content: "Dear Parent, we have scheduled a parent-teacher meeting on Feb 5th.", Date: "2026-01-27"},
		{ID: "msg3", From: "t1", To: "u-s2", Subject: "Assignment Reminder", Content: "Bob, please submit your Chemistry lab report by Feb 10th.", Date: "2026-01-26", Read: true},
		{ID: "msg4", From: "t1", To: "p2", Subject: "Attendance Update", Content: "Please note that Bob was absent on Jan 25th.", Date: "2026-01-25", Read: true},
	}
	for _, msg := range msgs {
		if _, err := repo.CreateMessage(msg); err != nil {
			return err
		}
	}
	return nil
}
