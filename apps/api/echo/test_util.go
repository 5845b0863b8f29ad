package echoapi

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/padhai-app/padhai/core"
	"github.com/padhai-app/padhai/core/academics"
	"github.com/padhai-app/padhai/core/attendance"
	"github.com/padhai-app/padhai/core/catalog"
	"github.com/padhai-app/padhai/core/enrollment"
	"github.com/padhai-app/padhai/core/message"
	"github.com/padhai-app/padhai/core/settings"
	"github.com/padhai-app/padhai/core/student"
	"github.com/padhai-app/padhai/core/user"
	emailsvc "github.com/padhai-app/padhai/services/email"
	logsvc "github.com/padhai-app/padhai/services/logger"
	inmemdb "github.com/padhai-app/padhai/storage/database/inmem"
)

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

type testApp struct {
	http.Handler
	conf   *core.Config
	usrSvc *user.Service
	stdSvc *student.Service
	enrSvc *enrollment.Service
	attSvc *attendance.Service
	acaSvc *academics.Service
	setSvc *settings.Service
	catSvc *catalog.Service
	msgSvc *message.Service
}

func initApp(t *testing.T) *testApp {
	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("initApp() failed: %v", err)
	}

	conf := &core.Config{
		TestMode:         true,
		Env:              "TEST",
		AppName:          "Padhai",
		SecretKey:        "secret",
		DefaultFromEmail: "noreply@localhost",
		Server: core.ServerConfig{
			JWTExpirationDelta:        10 * time.Minute,
			JWTRefreshExpirationDelta: 4 * time.Hour,
		},
	}
	mailSvc := emailsvc.NewConsoleServiceMock(conf)

	usrSvc := user.NewService(inmemdb.NewUserRepository(db))
	stdSvc := student.NewService(inmemdb.NewStudentRepository(db))
	setSvc := settings.NewService(inmemdb.NewSettingsRepository(db))
	enrSvc := enrollment.NewService(inmemdb.NewEnrollmentRepository(db), stdSvc, mailSvc)
	attSvc := attendance.NewService(inmemdb.NewAttendanceRepository(db), stdSvc)
	acaSvc := academics.NewService(inmemdb.NewAcademicsRepository(db), stdSvc, setSvc)
	catSvc := catalog.NewService(inmemdb.NewCatalogRepository(db))
	msgSvc := message.NewService(inmemdb.NewMessageRepository(db), usrSvc, mailSvc)

	srv := NewServer(&Options{
		Address:        ":0",
		DisableReqLogs: true,
		Conf:           conf,
		Logger:         logsvc.NewConsoleLogger(log.New(os.Stdout, "TEST : ", log.LstdFlags)),
		UserSvc:        usrSvc,
		StudentSvc:     stdSvc,
		EnrollmentSvc:  enrSvc,
		AttendanceSvc:  attSvc,
		AcademicsSvc:   acaSvc,
		SettingsSvc:    setSvc,
		CatalogSvc:     catSvc,
		MessageSvc:     msgSvc,
	})
	return &testApp{
		Handler: srv,
		conf:    conf,
		usrSvc:  usrSvc,
		stdSvc:  stdSvc,
		enrSvc:  enrSvc,
		attSvc:  attSvc,
		acaSvc:  acaSvc,
		setSvc:  setSvc,
		catSvc:  catSvc,
		msgSvc:  msgSvc,
	}
}

func (a *testApp) createUser(t *testing.T, name, uname, email string, roles []string, opts ...func(*user.NewUser)) user.User {
	nu := user.NewUser{
		Name:            name,
		Username:        uname,
		Email:           email,
		Password:        "Secret123!",
		PasswordConfirm: "Secret123!",
		Roles:           roles,
	}
	for _, opt := range opts {
		opt(&nu)
	}
	usr, err := a.usrSvc.Create(nu)
	if err != nil {
		t.Fatalf("createUser() failed: %v", err)
	}
	return usr
}

func (a *testApp) createStudent(t *testing.T, name, regNum string, classLevel int, batch string) student.Student {
	std, err := a.stdSvc.Create(student.NewStudent{
		Name:           name,
		Email:          regNum + "@student.com",
		ClassLevel:     classLevel,
		Batch:          batch,
		RegisterNumber: regNum,
		EnrollmentID:   "ENR-" + regNum,
	})
	if err != nil {
		t.Fatalf("createStudent() failed: %v", err)
	}
	return std
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, usr user.User) string {
	token, err := GenerateToken(GetUserClaims(usr))
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	return assert.ElementsMatch(t, j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
