package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	echoapi "github.com/Aleguiojo777/Teacher-Portal/apps/api/echo"
	"github.com/Aleguiojo777/Teacher-Portal/core"
	"github.com/Aleguiojo777/Teacher-Portal/core/account"
	"github.com/Aleguiojo777/Teacher-Portal/core/attendance"
	"github.com/Aleguiojo777/Teacher-Portal/core/student"
	emailsvc "github.com/Aleguiojo777/Teacher-Portal/services/email"
	logsvc "github.com/Aleguiojo777/Teacher-Portal/services/logger"
	"github.com/Aleguiojo777/Teacher-Portal/storage/database"
	sqlxrepos "github.com/Aleguiojo777/Teacher-Portal/storage/database/sqlx"
)

const shutdownTimeout = 20 * time.Second

func main() {
	std := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	// set up logger
	var logger core.Logger
	if core.Conf.Debug {
		logger = core.NewStdLogger(std)
	} else {
		rollbar := logsvc.NewRollbarLogger(std, core.Conf)
		rollbar.Enable(true)
		logger = rollbar
	}

	// set up DB
	db, err := database.Open(core.Conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("opening database: %v", err), err)
	}
	defer db.Close()
	if err = database.Migrate(db); err != nil {
		logger.Fatal(fmt.Sprintf("migrating database: %v", err), err)
	}

	// set up services
	var mailSvc core.EmailService
	if core.Conf.Debug {
		mailSvc = emailsvc.NewConsoleService()
	} else {
		mailSvc = emailsvc.NewSendgridService(logger)
	}
	acctSvc := account.NewService(sqlxrepos.NewAccountRepository(db))
	studentSvc := student.NewService(sqlxrepos.NewStudentRepository(db))
	attendanceSvc := attendance.NewService(sqlxrepos.NewAttendanceRepository(db))

	// start API server
	app := echoapi.NewServer(
		&echoapi.Options{
			Addr:          core.Conf.Server.Addr,
			Logger:        logger,
			MailSvc:       mailSvc,
			AccountSvc:    acctSvc,
			StudentSvc:    studentSvc,
			AttendanceSvc: attendanceSvc,
		},
	)

	logger.Info(fmt.Sprintf("%s starting on %s", core.Conf.AppName, core.Conf.Server.Addr))
	defer logger.Info("Application stopped")

	go app.Start()

	// wait for an interrupt or an unrecoverable server error
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info(fmt.Sprintf("%v: start shutdown...", sig))
	case sig := <-app.ShutdownSignal():
		logger.Error(fmt.Sprintf("%v: unrecoverable state, start shutdown...", sig))
	}

	// give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err = app.Stop(ctx); err != nil {
		logger.Fatal(fmt.Sprintf("could not stop server gracefully: %v", err), err)
	}
}
