package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/Aleguiojo777/Teacher-Portal/core/student"
)

type studentRow struct {
	ID        int           `db:"id"`
	FirstName string        `db:"first_name"`
	LastName  string        `db:"last_name"`
	ContactNo string        `db:"contact_no"`
	Course    string        `db:"course"`
	Section   string        `db:"section"`
	CreatedBy sql.NullInt64 `db:"created_by"`
	CreatedAt time.Time     `db:"created_at"`
}

func (r studentRow) toCore() student.Student {
	return student.Student{
		ID:        r.ID,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		ContactNo: r.ContactNo,
		Course:    r.Course,
		Section:   r.Section,
		CreatedBy: idPtr(r.CreatedBy),
		CreatedAt: r.CreatedAt.UTC(),
	}
}

type studentRepository struct {
	db *sqlx.DB
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *sqlx.DB) *studentRepository {
	return &studentRepository{db: db}
}

func (repo studentRepository) CreateStudent(ctx context.Context, s student.Student) (student.Student, error) {
	res, err := repo.db.ExecContext(ctx,
		`INSERT INTO students (first_name, last_name, contact_no, course, section, created_by, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.FirstName, s.LastName, s.ContactNo, s.Course, s.Section, nullableID(s.CreatedBy), s.CreatedAt.UTC(),
	)
	if err != nil {
		return student.Student{}, errors.Wrap(err, "inserting student")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return student.Student{}, errors.Wrap(err, "reading inserted student id")
	}
	s.ID = int(id)
	return s, nil
}

func (repo studentRepository) GetStudentByID(ctx context.Context, id int) (student.Student, error) {
	var row studentRow
	err := repo.db.GetContext(ctx, &row,
		`SELECT id, first_name, last_name, contact_no, course, section, created_by, created_at
		 FROM students WHERE id = ?`, id)
	if err != nil {
		return student.Student{}, trapNoRowsErr(err, student.ErrNotFound, "getting student")
	}
	return row.toCore(), nil
}

func (repo studentRepository) queryStudents(ctx context.Context, query string, args ...interface{}) ([]student.Student, error) {
	var rows []studentRow
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	students := make([]student.Student, 0, len(rows))
	for _, r := range rows {
		students = append(students, r.toCore())
	}
	return students, nil
}

func (repo studentRepository) QueryAllStudents(ctx context.Context) ([]student.Student, error) {
	return repo.queryStudents(ctx,
		`SELECT id, first_name, last_name, contact_no, course, section, created_by, created_at
		 FROM students ORDER BY id DESC`)
}

func (repo studentRepository) QueryStudentsByOwner(ctx context.Context, ownerID int) ([]student.Student, error) {
	return repo.queryStudents(ctx,
		`SELECT id, first_name, last_name, contact_no, course, section, created_by, created_at
		 FROM students WHERE created_by = ? ORDER BY id DESC`, ownerID)
}

func (repo studentRepository) UpdateStudent(ctx context.Context, s student.Student) (student.Student, error) {
	res, err := repo.db.ExecContext(ctx,
		`UPDATE students SET first_name = ?, last_name = ?, contact_no = ?, course = ?, section = ? WHERE id = ?`,
		s.FirstName, s.LastName, s.ContactNo, s.Course, s.Section, s.ID,
	)
	if err != nil {
		return student.Student{}, errors.Wrap(err, "updating student")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return student.Student{}, errors.Wrap(err, "reading affected rows")
	}
	if n == 0 {
		return student.Student{}, student.ErrNotFound
	}
	return repo.GetStudentByID(ctx, s.ID)
}

func (repo studentRepository) DeleteStudentByID(ctx context.Context, id int) error {
	// attendance rows cascade via the foreign key
	res, err := repo.db.ExecContext(ctx, `DELETE FROM students WHERE id = ?`, id)
	if err != nil {
		return errors.Wrap(err, "deleting student")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "reading affected rows")
	}
	if n == 0 {
		return student.ErrNotFound
	}
	return nil
}
