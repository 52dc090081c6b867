package student

import (
	"context"
	"errors"
	"time"

	"github.com/Aleguiojo777/Teacher-Portal/core/account"
)

var (
	// ErrNotFound is also returned when a student exists but is not visible to
	// the requester: invisibility is indistinguishable from nonexistence.
	ErrNotFound = errors.New("student not found")
)

type (
	Repository interface {
		CreateStudent(ctx context.Context, s Student) (Student, error)
		GetStudentByID(ctx context.Context, id int) (Student, error)
		// QueryAllStudents returns all students, newest id first.
		QueryAllStudents(ctx context.Context) ([]Student, error)
		// QueryStudentsByOwner returns students created by ownerID, newest id first.
		QueryStudentsByOwner(ctx context.Context, ownerID int) ([]Student, error)
		// UpdateStudent overwrites all five business fields of s.
		UpdateStudent(ctx context.Context, s Student) (Student, error)
		// DeleteStudentByID removes the student; attendance rows cascade.
		DeleteStudentByID(ctx context.Context, id int) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, in Input, createdBy int) (Student, error) {
	s := Student{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		ContactNo: in.ContactNo,
		Course:    in.Course,
		Section:   in.Section,
		CreatedBy: &createdBy,
		CreatedAt: time.Now().UTC(),
	}
	return svc.repo.CreateStudent(ctx, s)
}

// QueryVisibleTo returns the roster as seen by requester: admins see all
// students, teachers only the ones they created.
func (svc *Service) QueryVisibleTo(ctx context.Context, requester account.Account) ([]Student, error) {
	if requester.IsAdmin {
		return svc.repo.QueryAllStudents(ctx)
	}
	return svc.repo.QueryStudentsByOwner(ctx, requester.ID)
}

// GetVisibleTo looks up a single student with the same visibility filter.
func (svc *Service) GetVisibleTo(ctx context.Context, id int, requester account.Account) (Student, error) {
	s, err := svc.repo.GetStudentByID(ctx, id)
	if err != nil {
		return Student{}, err
	}
	if !CanAccess(requester, s) {
		return Student{}, ErrNotFound
	}
	return s, nil
}

func (svc *Service) Update(ctx context.Context, id int, in Input) (Student, error) {
	s := Student{
		ID:        id,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		ContactNo: in.ContactNo,
		Course:    in.Course,
		Section:   in.Section,
	}
	return svc.repo.UpdateStudent(ctx, s)
}

func (svc *Service) Delete(ctx context.Context, id int) error {
	return svc.repo.DeleteStudentByID(ctx, id)
}
