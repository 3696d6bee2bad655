package models

import "time"

// GradeReportStatus is the grade report approval state.
type GradeReportStatus string

const (
	GradeReportStatusCreated  GradeReportStatus = "Created"
	GradeReportStatusApproved GradeReportStatus = "DepartmentHeadApproved"
	GradeReportStatusRejected GradeReportStatus = "Rejected"
)

// CourseGrade is one graded course row on a grade report. LetterGrade and
// GradePoint are derived from NumberGrade at creation and stored as written.
type CourseGrade struct {
	ID          int64   `db:"id" json:"-"`
	ReportID    int64   `db:"report_id" json:"-"`
	CourseCode  string  `db:"course_code" json:"courseCode"`
	CourseTitle string  `db:"course_title" json:"courseTitle"`
	CreditHours float64 `db:"credit_hours" json:"creditHours"`
	NumberGrade float64 `db:"number_grade" json:"numberGrade"`
	LetterGrade string  `db:"letter_grade" json:"letterGrade"`
	GradePoint  float64 `db:"grade_point" json:"gradePoint"`
}

// GradeReport aggregates a student's semester results. It is linked to the
// student by id only, not to a specific registration slip.
type GradeReport struct {
	ID          int64  `db:"id" json:"id"`
	StudentID   string `db:"student_id" json:"studentId"`
	StudentName string `db:"student_name" json:"studentName"`
	Major       string `db:"major" json:"major"`
	Program     string `db:"program" json:"program"`
	Year        int    `db:"year" json:"year"`
	Semester    string `db:"semester" json:"semester"`

	PreviousCredit *float64 `db:"previous_credit" json:"previousCredit,omitempty"`
	PreviousGP     *float64 `db:"previous_gp" json:"previousGP,omitempty"`
	PreviousGPA    *float64 `db:"previous_gpa" json:"previousGPA,omitempty"`

	SemesterCredit float64 `db:"semester_credit" json:"semesterCredit"`
	SemesterGP     float64 `db:"semester_gp" json:"semesterGP"`
	SemesterGPA    float64 `db:"semester_gpa" json:"semesterGPA"`

	CumulativeCredit float64 `db:"cumulative_credit" json:"cumulativeCredit"`
	CumulativeGP     float64 `db:"cumulative_gp" json:"cumulativeGP"`
	CumulativeGPA    float64 `db:"cumulative_gpa" json:"cumulativeGPA"`

	Remark      *string `db:"remark" json:"remark,omitempty"`
	GeneratedBy string  `db:"generated_by" json:"generatedBy"`

	Status          GradeReportStatus `db:"status" json:"status"`
	ApprovedBy      *string           `db:"approved_by" json:"approvedBy,omitempty"`
	ApprovedAt      *time.Time        `db:"approved_at" json:"approvedAt,omitempty"`
	RejectionReason *string           `db:"rejection_reason" json:"rejectionReason,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`

	Courses []CourseGrade `json:"courses"`
}
