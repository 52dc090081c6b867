package attendance

import (
	"time"

	"github.com/Aleguiojo777/Teacher-Portal/core"
)

// Attendance statuses.
const (
	StatusPresent = "Present"
	StatusAbsent  = "Absent"
	StatusLate    = "Late"
)

// Record is one status entry per student per calendar date. Recording twice
// for the same (student, date) replaces the prior record.
type Record struct {
	ID         int       `json:"id"`
	StudentID  int       `json:"studentId"`
	Date       string    `json:"attendanceDate"` // YYYY-MM-DD
	Status     string    `json:"status"`
	RecordedBy *int      `json:"recordedBy"`
	CreatedAt  time.Time `json:"createdAt"` // UTC
}

// StudentRecord is a Record joined with its roster entry, as served by the
// per-date and range queries.
type StudentRecord struct {
	Record
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Course    string `json:"course"`
	Section   string `json:"section"`
}

// NewRecord contains information needed to set a student's status.
// Date defaults to the server's current UTC date when omitted.
type NewRecord struct {
	StudentID int    `json:"studentId" validate:"required"`
	Status    string `json:"status" validate:"required,oneof=Present Absent Late"`
	Date      string `json:"attendanceDate" validate:"omitempty,dateonly"`
}

func (nr *NewRecord) Validate() error {
	nr.Status = core.CleanString(nr.Status)
	nr.Date = core.CleanString(nr.Date)
	return core.Validate.Struct(nr)
}

// Today returns the server's current date, UTC-normalized.
func Today() string {
	return time.Now().UTC().Format(core.DateLayout)
}

// IsValidDate reports whether s is a calendar date in DateLayout format.
func IsValidDate(s string) bool {
	_, err := time.Parse(core.DateLayout, s)
	return err == nil
}
