package attendance

import (
	"math"

	"github.com/Aleguiojo777/Teacher-Portal/core/student"
)

// DayStats are derived counts for one date. They are computed on the fly and
// never stored: a student with no record for the date counts as Absent for
// display purposes only, and that default is never written back to the ledger.
type DayStats struct {
	Total      int `json:"total"`
	Present    int `json:"present"`
	Absent     int `json:"absent"`
	Late       int `json:"late"`
	PresentPct int `json:"presentPercentage"`
	AbsentPct  int `json:"absentPercentage"`
	LatePct    int `json:"latePercentage"`
}

// ComputeDayStats derives the day's statistics from its records and the
// requester's visible roster.
func ComputeDayStats(records []StudentRecord, roster []student.Student) DayStats {
	statuses := make(map[int]string, len(records))
	for _, rec := range records {
		statuses[rec.StudentID] = rec.Status
	}

	stats := DayStats{Total: len(roster)}
	for _, s := range roster {
		switch statuses[s.ID] {
		case StatusPresent:
			stats.Present++
		case StatusLate:
			stats.Late++
		default: // unrecorded students default to Absent
			stats.Absent++
		}
	}

	if stats.Total > 0 {
		stats.PresentPct = pct(stats.Present, stats.Total)
		stats.AbsentPct = pct(stats.Absent, stats.Total)
		stats.LatePct = pct(stats.Late, stats.Total)
	}
	return stats
}

func pct(count, total int) int {
	return int(math.Round(float64(count) / float64(total) * 100))
}
