package testutil

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Aleguiojo777/Teacher-Portal/core"
	"github.com/Aleguiojo777/Teacher-Portal/core/account"
	"github.com/Aleguiojo777/Teacher-Portal/core/attendance"
	"github.com/Aleguiojo777/Teacher-Portal/core/student"
	"github.com/Aleguiojo777/Teacher-Portal/storage/database"
)

var dbCounter int64

func init() {
	// error responses must be the production shape, not raw debug messages
	core.Conf.Debug = false
	core.Conf.TestMode = true
}

// PrepareDB opens a fresh in-memory sqlite database and applies migrations.
// The database is closed via t.Cleanup.
func PrepareDB(t *testing.T) *sqlx.DB {
	t.Helper()

	conf := *core.Conf
	conf.Database.Path = fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", atomic.AddInt64(&dbCounter, 1))
	db, err := database.Open(&conf)
	if err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("PrepareDB() migrate failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// ResetDB empties all application tables.
func ResetDB(t *testing.T, db *sqlx.DB) {
	t.Helper()
	for _, table := range []string{"attendance", "students", "admins"} {
		if _, err := db.Exec("DELETE FROM " + table); err != nil {
			t.Fatalf("ResetDB(%s) failed: %v", table, err)
		}
	}
}

func CreateAccount(
	t *testing.T,
	repo account.Repository,
	fullName, email, pwd string,
	isAdmin, isMain bool,
	createdAt ...time.Time,
) account.Account {
	t.Helper()

	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	acct := account.Account{
		FullName:  fullName,
		Email:     email,
		IsAdmin:   isAdmin,
		IsMain:    isMain,
		CreatedAt: tstamp,
	}
	if pwd != "" {
		if err := acct.SetPassword(pwd); err != nil {
			t.Fatalf("CreateAccount() failed: %v", err)
		}
	}
	acct, err := repo.CreateAccount(context.Background(), acct)
	if err != nil {
		t.Fatalf("CreateAccount() failed: %v", err)
	}
	return acct
}

func CreateStudent(
	t *testing.T,
	repo student.Repository,
	firstName, lastName, course, section string,
	createdBy *int,
) student.Student {
	t.Helper()

	s := student.Student{
		FirstName: firstName,
		LastName:  lastName,
		ContactNo: "0900000000",
		Course:    course,
		Section:   section,
		CreatedBy: createdBy,
		CreatedAt: time.Now().UTC(),
	}
	s, err := repo.CreateStudent(context.Background(), s)
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	return s
}

func SetRecord(
	t *testing.T,
	repo attendance.Repository,
	studentID int,
	date, status string,
	recordedBy int,
) attendance.Record {
	t.Helper()

	rec := attendance.Record{
		StudentID:  studentID,
		Date:       date,
		Status:     status,
		RecordedBy: &recordedBy,
		CreatedAt:  time.Now().UTC(),
	}
	rec, err := repo.UpsertRecord(context.Background(), rec, nil)
	if err != nil {
		t.Fatalf("SetRecord() failed: %v", err)
	}
	return rec
}
