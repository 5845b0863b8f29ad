package echoapi

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/padhai-app/padhai/core"
	"github.com/padhai-app/padhai/core/academics"
	"github.com/padhai-app/padhai/core/attendance"
	"github.com/padhai-app/padhai/core/catalog"
	"github.com/padhai-app/padhai/core/enrollment"
	"github.com/padhai-app/padhai/core/message"
	"github.com/padhai-app/padhai/core/settings"
	"github.com/padhai-app/padhai/core/student"
	"github.com/padhai-app/padhai/core/user"
)

type (
	Options struct {
		Address        string
		DisableReqLogs bool

		Conf   *core.Config
		Logger core.Logger

		UserSvc       *user.Service
		StudentSvc    *student.Service
		EnrollmentSvc *enrollment.Service
		AttendanceSvc *attendance.Service
		AcademicsSvc  *academics.Service
		SettingsSvc   *settings.Service
		CatalogSvc    *catalog.Service
		MessageSvc    *message.Service
	}

	Server interface {
		http.Handler
		Start()
		Stop(context.Context) error
		// ShutdownSignal fires when a handler reports an unrecoverable error.
		ShutdownSignal() <-chan struct{}
	}

	server struct {
		opts *Options
		app  *echo.Echo

		shutdown chan struct{}
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	s := &server{
		opts:     opts,
		app:      echo.New(),
		shutdown: make(chan struct{}, 1),
	}
	initJWTConfig(opts.Conf)
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.opts.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger, s.signalShutdown)
	s.app.Debug = conf.Debug

	s.app.GET("/", home)

	v1 := s.app.Group("/v1")
	jwt := middleware.JWTWithConfig(appJWTConfig)

	registerUserAPI(v1, jwt, s.opts.UserSvc)
	registerStudentAPI(v1, jwt, s.opts.StudentSvc)
	registerEnrollmentAPI(v1, jwt, s.opts.EnrollmentSvc)
	registerAttendanceAPI(v1, jwt, s.opts.AttendanceSvc, s.opts.UserSvc)
	registerAcademicsAPI(v1, jwt, s.opts.AcademicsSvc, s.opts.SettingsSvc, s.opts.UserSvc, s.opts.StudentSvc)
	registerSettingsAPI(v1, jwt, s.opts.SettingsSvc)
	registerCatalogAPI(v1, jwt, s.opts.CatalogSvc)
	registerMessageAPI(v1, jwt, s.opts.MessageSvc)
}

func (s *server) Start() {
	s.app.Logger.Fatal(s.app.Start(s.opts.Address))
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ShutdownSignal() <-chan struct{} {
	return s.shutdown
}

func (s *server) signalShutdown() {
	select {
	case s.shutdown <- struct{}{}:
	default:
	}
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to Padhai API!")
}
