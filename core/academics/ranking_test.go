package academics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/padhai-app/padhai/core/settings"
)

func TestSubjectPercentage(t *testing.T) {
	assert.Zero(t, SubjectPercentage(nil))

	got := SubjectPercentage([]Mark{
		{Marks: 80, MaxMarks: 100},
		{Marks: 40, MaxMarks: 50},
	})
	assert.InDelta(t, 80.0, got, 0.001)
}

func TestOverallPercentage(t *testing.T) {
	assert.Zero(t, OverallPercentage(nil))

	got := OverallPercentage([]Mark{
		{Marks: 90, MaxMarks: 100},
		{Marks: 30, MaxMarks: 50},
	})
	assert.InDelta(t, 80.0, got, 0.001)
}

func TestWeightedTotal(t *testing.T) {
	marks := []Mark{
		{SubjectID: "math", Marks: 90, MaxMarks: 100},
		{SubjectID: "eng", Marks: 80, MaxMarks: 100},
		{SubjectID: "art", Marks: 70, MaxMarks: 100},
	}

	t.Run("default weight is 1", func(t *testing.T) {
		got := WeightedTotal(marks, settings.Settings{})
		assert.InDelta(t, 240.0, got, 0.001)
	})

	t.Run("weights multiply raw marks", func(t *testing.T) {
		cfg := settings.Settings{RankingWeightage: map[string]float64{"math": 2, "art": 0.5}}
		got := WeightedTotal(marks, cfg)
		assert.InDelta(t, 90*2+80+70*0.5, got, 0.001)
	})

	t.Run("weight 0 drops a subject from the total", func(t *testing.T) {
		cfg := settings.Settings{RankingWeightage: map[string]float64{"art": 0}}
		got := WeightedTotal(marks, cfg)
		assert.InDelta(t, 90+80, got, 0.001)
	})

	t.Run("several marks in one subject all weigh in", func(t *testing.T) {
		two := []Mark{
			{SubjectID: "sub6", Marks: 80, MaxMarks: 100},
			{SubjectID: "sub6", Marks: 90, MaxMarks: 100},
		}
		cfg := settings.Settings{RankingWeightage: map[string]float64{"sub6": 2}}
		assert.InDelta(t, 340.0, WeightedTotal(two, cfg), 0.001)
		assert.InDelta(t, 85.0, SubjectPercentage(two), 0.001)
	})
}

func TestRankStudents(t *testing.T) {
	t.Run("orders by weighted total descending", func(t *testing.T) {
		ranked := RankStudents([]RankedStudent{
			{StudentID: "s1", RegisterNumber: "R1", WeightedTotal: 150},
			{StudentID: "s2", RegisterNumber: "R2", WeightedTotal: 250},
			{StudentID: "s3", RegisterNumber: "R3", WeightedTotal: 200},
		})
		assert.Equal(t, []string{"s2", "s3", "s1"}, ids(ranked))
		assert.Equal(t, []int{1, 2, 3}, ranks(ranked))
	})

	t.Run("ties share a rank, competition style", func(t *testing.T) {
		ranked := RankStudents([]RankedStudent{
			{StudentID: "s1", RegisterNumber: "R4", WeightedTotal: 200},
			{StudentID: "s2", RegisterNumber: "R2", WeightedTotal: 200},
			{StudentID: "s3", RegisterNumber: "R1", WeightedTotal: 250},
			{StudentID: "s4", RegisterNumber: "R3", WeightedTotal: 150},
		})
		// within the tie, register number ascending decides display order
		assert.Equal(t, []string{"s3", "s2", "s1", "s4"}, ids(ranked))
		assert.Equal(t, []int{1, 2, 2, 4}, ranks(ranked))
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, RankStudents(nil))
	})
}

func TestGradeLetter(t *testing.T) {
	tests := []struct {
		percentage float64
		want       string
	}{
		{100, "A+"}, {90, "A+"},
		{89.9, "A"}, {80, "A"},
		{79.9, "B"}, {70, "B"},
		{69.9, "C"}, {60, "C"},
		{59.9, "D"}, {50, "D"},
		{49.9, "F"}, {0, "F"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, GradeLetter(tt.percentage), "percentage %v", tt.percentage)
	}
}

func ids(entries []RankedStudent) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.StudentID
	}
	return out
}

func ranks(entries []RankedStudent) []int {
	out := make([]int, len(entries))
	for i, e := range entries {
		out[i] = e.Rank
	}
	return out
}
