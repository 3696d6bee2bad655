package service

import (
	"fmt"
	"strconv"
	"time"

	"github.com/aastu-sis/registration-api/internal/models"
	"github.com/aastu-sis/registration-api/pkg/pdf"
)

// DocumentService renders printable exports of workflow aggregates.
type DocumentService struct {
	renderer *pdf.Renderer
}

// NewDocumentService constructs DocumentService.
func NewDocumentService() *DocumentService {
	return &DocumentService{renderer: pdf.NewRenderer()}
}

// SlipPDF renders a registration slip with its approval trail. Finalized
// slips carry the serial number issued by the registrar.
func (s *DocumentService) SlipPDF(slip models.RegistrationSlip) ([]byte, error) {
	courseRows := make([][]string, 0, len(slip.Courses))
	for _, course := range slip.Courses {
		courseRows = append(courseRows, []string{course.CourseCode, course.CourseName, strconv.Itoa(course.CreditHours)})
	}

	studentFields := []pdf.Field{
		{Label: "Full Name", Value: slip.StudentName},
		{Label: "Student ID", Value: slip.StudentID},
		{Label: "Department", Value: slip.Department},
		{Label: "Semester", Value: slip.Semester},
		{Label: "Academic Year", Value: strconv.Itoa(slip.AcademicYear)},
		{Label: "Total Credit Hours", Value: strconv.Itoa(slip.TotalCreditHours)},
		{Label: "Status", Value: string(slip.Status)},
	}
	if slip.SerialNumber != nil {
		studentFields = append(studentFields, pdf.Field{Label: "Serial Number", Value: *slip.SerialNumber})
	}

	approvalFields := []pdf.Field{
		{Label: "Advisor Approval", Value: approvalLine(slip.IsAdvisorApproved, slip.AdvisorID, slip.AdvisorApprovedAt)},
		{Label: "Cost Sharing Verification", Value: approvalLine(slip.IsCostSharingVerified, slip.CostSharingOfficerID, slip.CostSharingVerifiedAt)},
		{Label: "Registrar Finalization", Value: approvalLine(slip.IsRegistrarFinalized, slip.RegistrarID, slip.RegistrarFinalizedAt)},
	}

	return s.renderer.Render(pdf.Document{
		Title:    "Addis Ababa Science and Technology University",
		Subtitle: "Course Registration Slip",
		Sections: []pdf.Section{
			{Heading: "Student", Fields: studentFields},
			{
				Heading: "Registered Courses",
				Table: &pdf.Table{
					Headers: []string{"Course Code", "Course Title", "Credit Hours"},
					Rows:    courseRows,
				},
			},
			{Heading: "Approvals", Fields: approvalFields},
		},
		Footer: fmt.Sprintf("Generated %s", time.Now().UTC().Format("02 Jan 2006")),
	})
}

// GradeReportPDF renders a grade report with its GPA summary.
func (s *DocumentService) GradeReportPDF(report models.GradeReport) ([]byte, error) {
	courseRows := make([][]string, 0, len(report.Courses))
	for _, grade := range report.Courses {
		courseRows = append(courseRows, []string{
			grade.CourseCode,
			grade.CourseTitle,
			fmt.Sprintf("%.1f", grade.CreditHours),
			fmt.Sprintf("%.2f", grade.NumberGrade),
			grade.LetterGrade,
			fmt.Sprintf("%.2f", grade.GradePoint),
		})
	}

	summaryRows := [][]string{
		{"Semester", fmt.Sprintf("%.1f", report.SemesterCredit), fmt.Sprintf("%.2f", report.SemesterGP), fmt.Sprintf("%.2f", report.SemesterGPA)},
		{"Cumulative", fmt.Sprintf("%.1f", report.CumulativeCredit), fmt.Sprintf("%.2f", report.CumulativeGP), fmt.Sprintf("%.2f", report.CumulativeGPA)},
	}
	if report.PreviousCredit != nil && report.PreviousGP != nil && report.PreviousGPA != nil {
		summaryRows = append([][]string{
			{"Previous", fmt.Sprintf("%.1f", *report.PreviousCredit), fmt.Sprintf("%.2f", *report.PreviousGP), fmt.Sprintf("%.2f", *report.PreviousGPA)},
		}, summaryRows...)
	}

	studentFields := []pdf.Field{
		{Label: "Full Name", Value: report.StudentName},
		{Label: "Student ID", Value: report.StudentID},
		{Label: "Major", Value: report.Major},
		{Label: "Program", Value: report.Program},
		{Label: "Year", Value: strconv.Itoa(report.Year)},
		{Label: "Semester", Value: report.Semester},
		{Label: "Status", Value: string(report.Status)},
	}
	if report.Remark != nil && *report.Remark != "" {
		studentFields = append(studentFields, pdf.Field{Label: "Remark", Value: *report.Remark})
	}

	return s.renderer.Render(pdf.Document{
		Title:    "Addis Ababa Science and Technology University",
		Subtitle: "Student Grade Report",
		Sections: []pdf.Section{
			{Heading: "Student", Fields: studentFields},
			{
				Heading: "Courses",
				Table: &pdf.Table{
					Headers: []string{"Course Code", "Course Title", "Credits", "Grade", "Letter", "Grade Point"},
					Rows:    courseRows,
				},
			},
			{
				Heading: "GPA Summary",
				Table: &pdf.Table{
					Headers: []string{"", "Credit Hours", "Grade Points", "GPA"},
					Rows:    summaryRows,
				},
			},
		},
		Footer: fmt.Sprintf("Generated %s", time.Now().UTC().Format("02 Jan 2006")),
	})
}

func approvalLine(approved bool, actorID *string, at *time.Time) string {
	if !approved {
		return "Pending"
	}
	line := "Approved"
	if actorID != nil {
		line += " by " + *actorID
	}
	if at != nil {
		line += " on " + at.UTC().Format("02 Jan 2006")
	}
	return line
}
