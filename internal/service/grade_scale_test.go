package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLetterGradeBoundaries(t *testing.T) {
	cases := []struct {
		grade  float64
		letter string
	}{
		{95, "A+"},
		{90, "A+"},
		{89.99, "A"},
		{85, "A"},
		{80, "A-"},
		{75, "B+"},
		{70, "B"},
		{65, "B-"},
		{60, "C+"},
		{50, "C"},
		{45, "D"},
		{44.99, "F"},
		{0, "F"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.letter, LetterGrade(tc.grade), "grade %v", tc.grade)
	}
}

func TestGradePointValues(t *testing.T) {
	assert.InDelta(t, 4.00, GradePointValue("A+"), 0.001)
	assert.InDelta(t, 4.00, GradePointValue("A"), 0.001)
	assert.InDelta(t, 3.75, GradePointValue("A-"), 0.001)
	assert.InDelta(t, 3.00, GradePointValue("B"), 0.001)
	assert.InDelta(t, 1.00, GradePointValue("D"), 0.001)
	assert.InDelta(t, 0.00, GradePointValue("F"), 0.001)
	assert.InDelta(t, 0.00, GradePointValue("unknown"), 0.001)
}

func TestAcademicYearClamped(t *testing.T) {
	now := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 3, AcademicYear(2023, now))
	assert.Equal(t, 1, AcademicYear(2025, now))
	assert.Equal(t, 1, AcademicYear(2030, now))
	assert.Equal(t, 5, AcademicYear(2015, now))
}
