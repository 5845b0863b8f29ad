package inmemdb

import (
	"sync"

	"github.com/padhai-app/padhai/core/academics"
	"github.com/padhai-app/padhai/core/attendance"
	"github.com/padhai-app/padhai/core/catalog"
	"github.com/padhai-app/padhai/core/enrollment"
	"github.com/padhai-app/padhai/core/message"
	"github.com/padhai-app/padhai/core/settings"
	"github.com/padhai-app/padhai/core/student"
	"github.com/padhai-app/padhai/core/user"
)

// DB holds every aggregate's table. Each table carries its own RWMutex;
// cross-aggregate consistency (e.g. the payment ledger and its enrollment
// projection) is kept by doing both mutations under the one table that owns
// them.
type (
	DB struct {
		user       *userTable
		student    *studentTable
		enrollment *enrollmentTable
		attendance *attendanceTable
		academics  *academicsTable
		settings   *settingsTable
		catalog    *catalogTable
		message    *messageTable
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
	}

	studentTable struct {
		sync.RWMutex
		table map[string]*student.Student
	}

	// enrollmentTable owns both the enrollments and the payment ledger so
	// an append and its projection update commit under one lock.
	enrollmentTable struct {
		sync.RWMutex
		table    map[string]*enrollment.Enrollment
		payments []enrollment.Payment // append-only
	}

	attendanceTable struct {
		sync.RWMutex
		table map[string]*attendance.Record // keyed studentID + "|" + date
	}

	academicsTable struct {
		sync.RWMutex
		subjects    map[string]*academics.Subject
		marks       map[string]*academics.Mark
		assignments map[string]*academics.Assignment
	}

	settingsTable struct {
		sync.RWMutex
		current settings.Settings
	}

	catalogTable struct {
		sync.RWMutex
		courses map[string]*catalog.Course
		notes   map[string]*catalog.Note
	}

	messageTable struct {
		sync.RWMutex
		table map[string]*message.Message
	}
)

func Open() (*DB, error) {
	db := &DB{
		user:       &userTable{table: make(map[string]*user.User)},
		student:    &studentTable{table: make(map[string]*student.Student)},
		enrollment: &enrollmentTable{table: make(map[string]*enrollment.Enrollment)},
		attendance: &attendanceTable{table: make(map[string]*attendance.Record)},
		academics: &academicsTable{
			subjects:    make(map[string]*academics.Subject),
			marks:       make(map[string]*academics.Mark),
			assignments: make(map[string]*academics.Assignment),
		},
		settings: &settingsTable{current: settings.Settings{
			RankingEnabled:   true,
			RankingWeightage: make(map[string]float64),
		}},
		catalog: &catalogTable{
			courses: make(map[string]*catalog.Course),
			notes:   make(map[string]*catalog.Note),
		},
		message: &messageTable{table: make(map[string]*message.Message)},
	}
	return db, nil
}
