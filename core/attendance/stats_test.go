package attendance

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Aleguiojo777/Teacher-Portal/core/student"
)

func TestComputeDayStats(t *testing.T) {
	roster := []student.Student{{ID: 1}, {ID: 2}, {ID: 3}, {ID: 4}}
	rec := func(id int, status string) StudentRecord {
		return StudentRecord{Record: Record{StudentID: id, Status: status}}
	}

	tests := []struct {
		name    string
		records []StudentRecord
		roster  []student.Student
		want    DayStats
	}{
		{
			name:   "no records defaults everyone to absent",
			roster: roster,
			want:   DayStats{Total: 4, Absent: 4, AbsentPct: 100},
		},
		{
			name:    "mixed statuses",
			records: []StudentRecord{rec(1, StatusPresent), rec(2, StatusPresent), rec(3, StatusLate)},
			roster:  roster,
			want:    DayStats{Total: 4, Present: 2, Late: 1, Absent: 1, PresentPct: 50, LatePct: 25, AbsentPct: 25},
		},
		{
			name:    "explicit absent equals unrecorded",
			records: []StudentRecord{rec(1, StatusAbsent)},
			roster:  roster,
			want:    DayStats{Total: 4, Absent: 4, AbsentPct: 100},
		},
		{
			name:    "records outside roster are ignored",
			records: []StudentRecord{rec(99, StatusPresent)},
			roster:  roster,
			want:    DayStats{Total: 4, Absent: 4, AbsentPct: 100},
		},
		{
			name: "empty roster",
			want: DayStats{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeDayStats(tt.records, tt.roster))
		})
	}
}
