package academics

import (
	"sort"

	"github.com/padhai-app/padhai/core/settings"
)

// The ranking computations are pure functions of (marks, weights): the
// caller fetches the current settings on every computation so a weightage
// change is never served from a stale snapshot.

// SubjectPercentage averages marks/maxMarks*100 over the given marks.
// No marks yield 0, never NaN.
func SubjectPercentage(marks []Mark) float64 {
	if len(marks) == 0 {
		return 0
	}
	var sum float64
	for _, m := range marks {
		sum += m.Marks / m.MaxMarks * 100
	}
	return sum / float64(len(marks))
}

// WeightedTotal sums raw marks multiplied by each subject's weight. It is a
// weighted sum of raw marks, not of percentages: subjects with larger
// maximums dominate unless explicitly down-weighted.
func WeightedTotal(marks []Mark, cfg settings.Settings) float64 {
	var total float64
	for _, m := range marks {
		total += m.Marks * cfg.Weight(m.SubjectID)
	}
	return total
}

// OverallPercentage is total marks over total maximum, for report cards.
func OverallPercentage(marks []Mark) float64 {
	var total, max float64
	for _, m := range marks {
		total += m.Marks
		max += m.MaxMarks
	}
	if max == 0 {
		return 0
	}
	return total / max * 100
}

// RankedStudent is one row of a class ranking.
type RankedStudent struct {
	StudentID      string  `json:"student_id"`
	Name           string  `json:"name"`
	RegisterNumber string  `json:"register_number"`
	WeightedTotal  float64 `json:"weighted_total"`
	Rank           int     `json:"rank"`
}

// RankStudents orders entries by weighted total descending. Equal totals
// share the same displayed rank (competition style: 1, 2, 2, 4); register
// number ascending is the deterministic secondary order within a tie.
func RankStudents(entries []RankedStudent) []RankedStudent {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].WeightedTotal != entries[j].WeightedTotal {
			return entries[i].WeightedTotal > entries[j].WeightedTotal
		}
		return entries[i].RegisterNumber < entries[j].RegisterNumber
	})

	for i := range entries {
		if i > 0 && entries[i].WeightedTotal == entries[i-1].WeightedTotal {
			entries[i].Rank = entries[i-1].Rank
		} else {
			entries[i].Rank = i + 1
		}
	}
	return entries
}
