package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/Aleguiojo777/Teacher-Portal/core/attendance"
	"github.com/Aleguiojo777/Teacher-Portal/core/student"
)

type studentRecordRow struct {
	ID         int           `db:"id"`
	StudentID  int           `db:"student_id"`
	Date       string        `db:"attendance_date"`
	Status     string        `db:"status"`
	RecordedBy sql.NullInt64 `db:"recorded_by"`
	CreatedAt  time.Time     `db:"created_at"`
	FirstName  string        `db:"first_name"`
	LastName   string        `db:"last_name"`
	Course     string        `db:"course"`
	Section    string        `db:"section"`
}

func (r studentRecordRow) toCore() attendance.StudentRecord {
	return attendance.StudentRecord{
		Record: attendance.Record{
			ID:         r.ID,
			StudentID:  r.StudentID,
			Date:       r.Date,
			Status:     r.Status,
			RecordedBy: idPtr(r.RecordedBy),
			CreatedAt:  r.CreatedAt.UTC(),
		},
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Course:    r.Course,
		Section:   r.Section,
	}
}

type attendanceRepository struct {
	db *sqlx.DB
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(db *sqlx.DB) *attendanceRepository {
	return &attendanceRepository{db: db}
}

// UpsertRecord verifies ownership and writes the (student, date) row in one
// transaction, so a concurrent student delete cannot slip between the check
// and the write.
func (repo attendanceRepository) UpsertRecord(ctx context.Context, rec attendance.Record, ownerID *int) (attendance.Record, error) {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return attendance.Record{}, errors.Wrap(err, "beginning transaction")
	}
	defer func() { _ = tx.Rollback() }()

	var createdBy sql.NullInt64
	if err := tx.GetContext(ctx, &createdBy, `SELECT created_by FROM students WHERE id = ?`, rec.StudentID); err != nil {
		return attendance.Record{}, trapNoRowsErr(err, student.ErrNotFound, "getting student owner")
	}
	if ownerID != nil && (!createdBy.Valid || int(createdBy.Int64) != *ownerID) {
		return attendance.Record{}, attendance.ErrNotOwner
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO attendance (student_id, attendance_date, status, recorded_by, created_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (student_id, attendance_date) DO UPDATE SET
			status = excluded.status,
			recorded_by = excluded.recorded_by,
			created_at = excluded.created_at`,
		rec.StudentID, rec.Date, rec.Status, nullableID(rec.RecordedBy), rec.CreatedAt.UTC(),
	); err != nil {
		return attendance.Record{}, errors.Wrap(err, "upserting attendance record")
	}

	if err := tx.GetContext(ctx, &rec.ID,
		`SELECT id FROM attendance WHERE student_id = ? AND attendance_date = ?`,
		rec.StudentID, rec.Date,
	); err != nil {
		return attendance.Record{}, errors.Wrap(err, "reading upserted record id")
	}

	if err := tx.Commit(); err != nil {
		return attendance.Record{}, errors.Wrap(err, "committing attendance upsert")
	}
	return rec, nil
}

func (repo attendanceRepository) queryRecords(ctx context.Context, query string, args ...interface{}) ([]attendance.StudentRecord, error) {
	var rows []studentRecordRow
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying attendance records")
	}
	records := make([]attendance.StudentRecord, 0, len(rows))
	for _, r := range rows {
		records = append(records, r.toCore())
	}
	return records, nil
}

const studentRecordColumns = `a.id, a.student_id, a.attendance_date, a.status, a.recorded_by, a.created_at,
		s.first_name, s.last_name, s.course, s.section`

func (repo attendanceRepository) QueryRecordsByDate(ctx context.Context, date string, ownerID *int) ([]attendance.StudentRecord, error) {
	query := `SELECT ` + studentRecordColumns + `
		FROM attendance a
		JOIN students s ON s.id = a.student_id
		WHERE a.attendance_date = ?`
	args := []interface{}{date}
	if ownerID != nil {
		query += ` AND s.created_by = ?`
		args = append(args, *ownerID)
	}
	query += ` ORDER BY s.section, s.first_name`
	return repo.queryRecords(ctx, query, args...)
}

func (repo attendanceRepository) QueryRecordsByRange(ctx context.Context, start, end string, ownerID *int) ([]attendance.StudentRecord, error) {
	query := `SELECT ` + studentRecordColumns + `
		FROM attendance a
		JOIN students s ON s.id = a.student_id
		WHERE a.attendance_date BETWEEN ? AND ?`
	args := []interface{}{start, end}
	if ownerID != nil {
		query += ` AND s.created_by = ?`
		args = append(args, *ownerID)
	}
	query += ` ORDER BY a.attendance_date DESC, s.section, s.first_name`
	return repo.queryRecords(ctx, query, args...)
}
