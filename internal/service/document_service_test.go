package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aastu-sis/registration-api/internal/models"
)

func TestSlipPDFRendersFinalizedSlip(t *testing.T) {
	serial := "AASTU-20250901-0A1B2C3D"
	advisorID := "ADV001"
	approvedAt := time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC)

	slip := models.RegistrationSlip{
		ID:                1,
		StudentID:         "ETS0001/14",
		StudentName:       "Abebe Bekele",
		Department:        "Software Engineering",
		Semester:          "2025/26 Semester I",
		AcademicYear:      3,
		TotalCreditHours:  7,
		Status:            models.SlipStatusRegistrarFinalized,
		IsAdvisorApproved: true,
		AdvisorID:         &advisorID,
		AdvisorApprovedAt: &approvedAt,
		SerialNumber:      &serial,
		IsLocked:          true,
		Courses: []models.SlipCourse{
			{CourseCode: "SE301", CourseName: "Operating Systems", CreditHours: 4},
			{CourseCode: "SE302", CourseName: "Compilers", CreditHours: 3},
		},
	}

	data, err := NewDocumentService().SlipPDF(slip)
	require.NoError(t, err)
	require.NotEmpty(t, data)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestGradeReportPDFRendersSummary(t *testing.T) {
	prevCredit, prevGP, prevGPA := 10.0, 32.0, 3.2
	report := models.GradeReport{
		ID:          1,
		StudentID:   "ETS0001/14",
		StudentName: "Abebe Bekele",
		Major:       "Software Engineering",
		Program:     "Degree",
		Year:        3,
		Semester:    "2025/26 Semester I",
		Status:      models.GradeReportStatusCreated,

		PreviousCredit: &prevCredit,
		PreviousGP:     &prevGP,
		PreviousGPA:    &prevGPA,

		SemesterCredit:   7,
		SemesterGP:       24,
		SemesterGPA:      24.0 / 7.0,
		CumulativeCredit: 17,
		CumulativeGP:     56,
		CumulativeGPA:    56.0 / 17.0,

		Courses: []models.CourseGrade{
			{CourseCode: "SE301", CourseTitle: "Operating Systems", CreditHours: 4, NumberGrade: 72, LetterGrade: "B", GradePoint: 12},
			{CourseCode: "SE302", CourseTitle: "Compilers", CreditHours: 3, NumberGrade: 91, LetterGrade: "A+", GradePoint: 12},
		},
	}

	data, err := NewDocumentService().GradeReportPDF(report)
	require.NoError(t, err)
	require.NotEmpty(t, data)
	assert.Equal(t, "%PDF", string(data[:4]))
}
