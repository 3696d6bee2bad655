package service

// The canonical AASTU grading scale used by grade-report creation.
// Bands are inclusive at the lower bound; anything below 45 is an F.
var gradeBands = []struct {
	min    float64
	letter string
	value  float64
}{
	{90, "A+", 4.00},
	{85, "A", 4.00},
	{80, "A-", 3.75},
	{75, "B+", 3.50},
	{70, "B", 3.00},
	{65, "B-", 2.75},
	{60, "C+", 2.50},
	{50, "C", 2.00},
	{45, "D", 1.00},
}

// LetterGrade maps a numeric grade to its letter grade.
func LetterGrade(numberGrade float64) string {
	for _, band := range gradeBands {
		if numberGrade >= band.min {
			return band.letter
		}
	}
	return "F"
}

// GradePointValue returns the grade-point value for a letter grade.
func GradePointValue(letterGrade string) float64 {
	for _, band := range gradeBands {
		if band.letter == letterGrade {
			return band.value
		}
	}
	return 0
}
