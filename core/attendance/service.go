package attendance

import (
	"context"
	"errors"
	"time"

	"github.com/Aleguiojo777/Teacher-Portal/core/account"
)

var (
	// ErrNotOwner is returned when a teacher records attendance for a student
	// they did not create.
	ErrNotOwner = errors.New("attendance can only be recorded for own students")
)

type (
	Repository interface {
		// UpsertRecord inserts or replaces the (student, date) row. When ownerID
		// is non-nil the student's ownership is verified in the same transaction
		// as the write; it fails with student.ErrNotFound or ErrNotOwner.
		UpsertRecord(ctx context.Context, rec Record, ownerID *int) (Record, error)
		// QueryRecordsByDate returns the date's records joined with students,
		// ordered by section then first name. A non-nil ownerID restricts the
		// result to students created by that account.
		QueryRecordsByDate(ctx context.Context, date string, ownerID *int) ([]StudentRecord, error)
		// QueryRecordsByRange is like QueryRecordsByDate over [start, end],
		// ordered by date descending, then section, then first name.
		QueryRecordsByRange(ctx context.Context, start, end string, ownerID *int) ([]StudentRecord, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// SetStatus upserts recorder's status entry for the (student, date) pair.
// Teachers may only record attendance for students they own.
func (svc *Service) SetStatus(ctx context.Context, nr NewRecord, recorder account.Account) (Record, error) {
	date := nr.Date
	if date == "" {
		date = Today()
	}

	var ownerID *int
	if recorder.IsTeacher() {
		ownerID = &recorder.ID
	}

	recorderID := recorder.ID
	rec := Record{
		StudentID:  nr.StudentID,
		Date:       date,
		Status:     nr.Status,
		RecordedBy: &recorderID,
		CreatedAt:  time.Now().UTC(),
	}
	return svc.repo.UpsertRecord(ctx, rec, ownerID)
}

// QueryByDate returns the date's records as seen by requester: admins see
// every record, teachers only records for students they own.
func (svc *Service) QueryByDate(ctx context.Context, date string, requester account.Account) ([]StudentRecord, error) {
	return svc.repo.QueryRecordsByDate(ctx, date, visibilityOwner(requester))
}

// QueryRange returns records over [start, end] with the same visibility rule.
func (svc *Service) QueryRange(ctx context.Context, start, end string, requester account.Account) ([]StudentRecord, error) {
	return svc.repo.QueryRecordsByRange(ctx, start, end, visibilityOwner(requester))
}

func visibilityOwner(requester account.Account) *int {
	if requester.IsAdmin {
		return nil
	}
	return &requester.ID
}
