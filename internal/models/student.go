package models

import "time"

// Student is reference data consumed by the workflow; its CRUD lives
// outside this service.
type Student struct {
	StudentID       string    `db:"student_id" json:"studentId"`
	FullName        string    `db:"full_name" json:"fullName"`
	Department      string    `db:"department" json:"department"`
	EnrollmentYear  int       `db:"enrollment_year" json:"enrollmentYear"`
	UniversityEmail string    `db:"university_email" json:"universityEmail"`
	CreatedAt       time.Time `db:"created_at" json:"createdAt"`
}

// Course is a catalog entry offered for a department and academic year.
type Course struct {
	ID           int64  `db:"id" json:"id"`
	CourseCode   string `db:"course_code" json:"courseCode"`
	CourseName   string `db:"course_name" json:"courseName"`
	CreditHours  int    `db:"credit_hours" json:"creditHours"`
	AcademicYear int    `db:"academic_year" json:"academicYear"`
	Department   string `db:"department" json:"department"`
	Semester     string `db:"semester" json:"semester"`
}
