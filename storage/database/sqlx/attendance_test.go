package sqlxrepos

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Aleguiojo777/Teacher-Portal/core/attendance"
	"github.com/Aleguiojo777/Teacher-Portal/core/student"
	testutil "github.com/Aleguiojo777/Teacher-Portal/tests"
)

func Test_attendanceRepository_UpsertRecord(t *testing.T) {
	db := testutil.PrepareDB(t)
	repo := NewAttendanceRepository(db)
	acctRepo := NewAccountRepository(db)
	stuRepo := NewStudentRepository(db)
	ctx := context.Background()

	teacher := testutil.CreateAccount(t, acctRepo, "T One", "t1@school.test", "teacherpass", false, false)
	other := testutil.CreateAccount(t, acctRepo, "T Two", "t2@school.test", "teacherpass", false, false)
	s := testutil.CreateStudent(t, stuRepo, "Ada", "Lovelace", "BSCS", "A1", &teacher.ID)

	rec := attendance.Record{
		StudentID:  s.ID,
		Date:       "2024-01-10",
		Status:     attendance.StatusPresent,
		RecordedBy: &teacher.ID,
		CreatedAt:  time.Now().UTC(),
	}

	t.Run("insert", func(t *testing.T) {
		got, err := repo.UpsertRecord(ctx, rec, &teacher.ID)
		if err != nil {
			t.Fatalf("UpsertRecord() failed: %v", err)
		}
		assert.NotZero(t, got.ID)
	})

	t.Run("same day overwrite keeps one row", func(t *testing.T) {
		late := rec
		late.Status = attendance.StatusLate
		if _, err := repo.UpsertRecord(ctx, late, &teacher.ID); err != nil {
			t.Fatalf("UpsertRecord() failed: %v", err)
		}

		records, err := repo.QueryRecordsByDate(ctx, "2024-01-10", nil)
		if err != nil {
			t.Fatalf("QueryRecordsByDate() failed: %v", err)
		}
		if assert.Len(t, records, 1) {
			assert.Equal(t, attendance.StatusLate, records[0].Status)
		}
	})

	t.Run("not owner", func(t *testing.T) {
		_, err := repo.UpsertRecord(ctx, rec, &other.ID)
		assert.Equal(t, attendance.ErrNotOwner, err)
	})

	t.Run("admin bypasses ownership", func(t *testing.T) {
		_, err := repo.UpsertRecord(ctx, rec, nil)
		assert.NoError(t, err)
	})

	t.Run("unknown student", func(t *testing.T) {
		missing := rec
		missing.StudentID = 999
		_, err := repo.UpsertRecord(ctx, missing, &teacher.ID)
		assert.Equal(t, student.ErrNotFound, err)
	})
}

func Test_attendanceRepository_QueryRecordsByDate(t *testing.T) {
	db := testutil.PrepareDB(t)
	repo := NewAttendanceRepository(db)
	acctRepo := NewAccountRepository(db)
	stuRepo := NewStudentRepository(db)
	ctx := context.Background()

	teacher := testutil.CreateAccount(t, acctRepo, "T One", "t1@school.test", "teacherpass", false, false)
	other := testutil.CreateAccount(t, acctRepo, "T Two", "t2@school.test", "teacherpass", false, false)

	// created out of (section, first name) order on purpose
	zed := testutil.CreateStudent(t, stuRepo, "Zed", "Zulu", "BSCS", "B2", &teacher.ID)
	ada := testutil.CreateStudent(t, stuRepo, "Ada", "Lovelace", "BSCS", "A1", &teacher.ID)
	mia := testutil.CreateStudent(t, stuRepo, "Mia", "Wong", "BSIT", "A1", &other.ID)

	date := "2024-01-10"
	testutil.SetRecord(t, repo, zed.ID, date, attendance.StatusLate, teacher.ID)
	testutil.SetRecord(t, repo, ada.ID, date, attendance.StatusPresent, teacher.ID)
	testutil.SetRecord(t, repo, mia.ID, date, attendance.StatusAbsent, other.ID)
	testutil.SetRecord(t, repo, ada.ID, "2024-01-09", attendance.StatusAbsent, teacher.ID)

	t.Run("all records ordered by section then first name", func(t *testing.T) {
		records, err := repo.QueryRecordsByDate(ctx, date, nil)
		if err != nil {
			t.Fatalf("QueryRecordsByDate() failed: %v", err)
		}
		if assert.Len(t, records, 3) {
			assert.Equal(t, []int{ada.ID, mia.ID, zed.ID}, []int{records[0].StudentID, records[1].StudentID, records[2].StudentID})
		}
	})

	t.Run("owner filter", func(t *testing.T) {
		records, err := repo.QueryRecordsByDate(ctx, date, &other.ID)
		if err != nil {
			t.Fatalf("QueryRecordsByDate() failed: %v", err)
		}
		if assert.Len(t, records, 1) {
			assert.Equal(t, mia.ID, records[0].StudentID)
		}
	})

	t.Run("empty date", func(t *testing.T) {
		records, err := repo.QueryRecordsByDate(ctx, "2030-01-01", nil)
		assert.NoError(t, err)
		assert.Empty(t, records)
	})
}

func Test_attendanceRepository_QueryRecordsByRange(t *testing.T) {
	db := testutil.PrepareDB(t)
	repo := NewAttendanceRepository(db)
	acctRepo := NewAccountRepository(db)
	stuRepo := NewStudentRepository(db)
	ctx := context.Background()

	teacher := testutil.CreateAccount(t, acctRepo, "T One", "t1@school.test", "teacherpass", false, false)
	ada := testutil.CreateStudent(t, stuRepo, "Ada", "Lovelace", "BSCS", "A1", &teacher.ID)
	zed := testutil.CreateStudent(t, stuRepo, "Zed", "Zulu", "BSCS", "B2", &teacher.ID)

	testutil.SetRecord(t, repo, ada.ID, "2024-01-08", attendance.StatusPresent, teacher.ID)
	testutil.SetRecord(t, repo, ada.ID, "2024-01-09", attendance.StatusLate, teacher.ID)
	testutil.SetRecord(t, repo, zed.ID, "2024-01-09", attendance.StatusPresent, teacher.ID)
	testutil.SetRecord(t, repo, ada.ID, "2024-01-12", attendance.StatusAbsent, teacher.ID)

	records, err := repo.QueryRecordsByRange(ctx, "2024-01-08", "2024-01-10", nil)
	if err != nil {
		t.Fatalf("QueryRecordsByRange() failed: %v", err)
	}
	// date descending, then section, then first name; the 01-12 row is out of range
	if assert.Len(t, records, 3) {
		assert.Equal(t, "2024-01-09", records[0].Date)
		assert.Equal(t, ada.ID, records[0].StudentID)
		assert.Equal(t, "2024-01-09", records[1].Date)
		assert.Equal(t, zed.ID, records[1].StudentID)
		assert.Equal(t, "2024-01-08", records[2].Date)
	}
}
