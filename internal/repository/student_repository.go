package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/aastu-sis/registration-api/internal/models"
)

// StudentRepository reads student reference data. Student CRUD lives in a
// separate administration system; the workflow only resolves identities.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// FindByStudentID fetches a student record by institutional id.
func (r *StudentRepository) FindByStudentID(ctx context.Context, studentID string) (*models.Student, error) {
	const query = `SELECT student_id, full_name, department, enrollment_year, university_email, created_at
        FROM students WHERE student_id = $1`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, studentID); err != nil {
		return nil, err
	}
	return &student, nil
}

// CourseRepository reads the course catalog.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs a CourseRepository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// ListByYearAndDepartment returns catalog courses for an academic year and
// department, optionally narrowed to one semester.
func (r *CourseRepository) ListByYearAndDepartment(ctx context.Context, academicYear int, department, semester string) ([]models.Course, error) {
	const base = `SELECT id, course_code, course_name, credit_hours, academic_year, department, semester
        FROM courses WHERE academic_year = $1 AND department = $2`

	var courses []models.Course
	if semester != "" {
		if err := r.db.SelectContext(ctx, &courses, base+" AND semester = $3 ORDER BY course_code", academicYear, department, semester); err != nil {
			return nil, fmt.Errorf("list courses: %w", err)
		}
		return courses, nil
	}
	if err := r.db.SelectContext(ctx, &courses, base+" ORDER BY course_code", academicYear, department); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}
