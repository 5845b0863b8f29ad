package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	echoapi "github.com/padhai-app/padhai/apps/api/echo"
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

func main() {
	conf := core.NewConfig()
	std := log.New(os.Stdout, conf.AppName+" : ", log.LstdFlags|log.Lshortfile)

	var logger core.Logger
	if conf.Debug {
		logger = logsvc.NewConsoleLogger(std)
	} else {
		logger = logsvc.NewRollbarLogger(std, conf)
	}

	// the store is rebuilt from the seed fixtures on every boot
	db, err := inmemdb.Open()
	errAndDie(std, err)
	errAndDie(std, inmemdb.Seed(db))

	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	usrSvc := user.NewService(inmemdb.NewUserRepository(db))
	stdSvc := student.NewService(inmemdb.NewStudentRepository(db))
	setSvc := settings.NewService(inmemdb.NewSettingsRepository(db))
	enrSvc := enrollment.NewService(inmemdb.NewEnrollmentRepository(db), stdSvc, mailSvc)
	attSvc := attendance.NewService(inmemdb.NewAttendanceRepository(db), stdSvc)
	acaSvc := academics.NewService(inmemdb.NewAcademicsRepository(db), stdSvc, setSvc)
	catSvc := catalog.NewService(inmemdb.NewCatalogRepository(db))
	msgSvc := message.NewService(inmemdb.NewMessageRepository(db), usrSvc, mailSvc)

	app := echoapi.NewServer(&echoapi.Options{
		Address: conf.Server.Address(),
		Conf:    conf,
		Logger:  logger,

		UserSvc:       usrSvc,
		StudentSvc:    stdSvc,
		EnrollmentSvc: enrSvc,
		AttendanceSvc: attSvc,
		AcademicsSvc:  acaSvc,
		SettingsSvc:   setSvc,
		CatalogSvc:    catSvc,
		MessageSvc:    msgSvc,
	})

	go app.Start()

	// block until a shutdown is requested
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		logger.Info("shutdown started: " + sig.String())
	case <-app.ShutdownSignal():
		logger.Info("shutdown started: integrity issue reported")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.Stop(ctx); err != nil {
		logger.Error("graceful shutdown failed", err)
	}
}

func errAndDie(std *log.Logger, err error) {
	if err != nil {
		std.Fatal(err)
	}
}
