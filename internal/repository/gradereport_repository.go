package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/aastu-sis/registration-api/internal/models"
)

const gradeReportColumns = `id, student_id, student_name, major, program, year, semester,
        previous_credit, previous_gp, previous_gpa,
        semester_credit, semester_gp, semester_gpa,
        cumulative_credit, cumulative_gp, cumulative_gpa,
        remark, generated_by, status, approved_by, approved_at, rejection_reason, created_at`

// GradeReportRepository manages persistence for grade reports and their
// per-course grade rows.
type GradeReportRepository struct {
	db *sqlx.DB
}

// NewGradeReportRepository constructs a GradeReportRepository.
func NewGradeReportRepository(db *sqlx.DB) *GradeReportRepository {
	return &GradeReportRepository{db: db}
}

// Create inserts a report and its course rows in one transaction.
func (r *GradeReportRepository) Create(ctx context.Context, report *models.GradeReport) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create grade report: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const insertReport = `INSERT INTO grade_reports
        (student_id, student_name, major, program, year, semester,
         previous_credit, previous_gp, previous_gpa,
         semester_credit, semester_gp, semester_gpa,
         cumulative_credit, cumulative_gp, cumulative_gpa,
         remark, generated_by, status, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
        RETURNING id`
	if err := tx.QueryRowxContext(ctx, insertReport,
		report.StudentID, report.StudentName, report.Major, report.Program, report.Year, report.Semester,
		report.PreviousCredit, report.PreviousGP, report.PreviousGPA,
		report.SemesterCredit, report.SemesterGP, report.SemesterGPA,
		report.CumulativeCredit, report.CumulativeGP, report.CumulativeGPA,
		report.Remark, report.GeneratedBy, report.Status, report.CreatedAt,
	).Scan(&report.ID); err != nil {
		return fmt.Errorf("insert grade report: %w", err)
	}

	const insertCourse = `INSERT INTO grade_report_courses
        (report_id, course_code, course_title, credit_hours, number_grade, letter_grade, grade_point)
        VALUES ($1, $2, $3, $4, $5, $6, $7)`
	for i := range report.Courses {
		report.Courses[i].ReportID = report.ID
		course := report.Courses[i]
		if _, err := tx.ExecContext(ctx, insertCourse,
			report.ID, course.CourseCode, course.CourseTitle, course.CreditHours,
			course.NumberGrade, course.LetterGrade, course.GradePoint,
		); err != nil {
			return fmt.Errorf("insert grade report course: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create grade report: %w", err)
	}
	return nil
}

// FindByID fetches a report with its course rows.
func (r *GradeReportRepository) FindByID(ctx context.Context, id int64) (*models.GradeReport, error) {
	query := fmt.Sprintf("SELECT %s FROM grade_reports WHERE id = $1", gradeReportColumns)
	var report models.GradeReport
	if err := r.db.GetContext(ctx, &report, query, id); err != nil {
		return nil, err
	}
	if err := r.attachCourses(ctx, []*models.GradeReport{&report}); err != nil {
		return nil, err
	}
	return &report, nil
}

// ListByStatus returns reports at the given approval state, newest first.
func (r *GradeReportRepository) ListByStatus(ctx context.Context, status models.GradeReportStatus) ([]models.GradeReport, error) {
	query := fmt.Sprintf("SELECT %s FROM grade_reports WHERE status = $1 ORDER BY created_at DESC", gradeReportColumns)
	var reports []models.GradeReport
	if err := r.db.SelectContext(ctx, &reports, query, status); err != nil {
		return nil, fmt.Errorf("list grade reports by status: %w", err)
	}
	refs := make([]*models.GradeReport, len(reports))
	for i := range reports {
		refs[i] = &reports[i]
	}
	if err := r.attachCourses(ctx, refs); err != nil {
		return nil, err
	}
	return reports, nil
}

// SetApproval resolves a Created report into approved or rejected. Returns
// false when the report is missing or no longer Created.
func (r *GradeReportRepository) SetApproval(ctx context.Context, id int64, status models.GradeReportStatus, headID string, reason *string, now time.Time) (bool, error) {
	const query = `UPDATE grade_reports
        SET status = $2, approved_by = $3, approved_at = $4, rejection_reason = $5
        WHERE id = $1 AND status = $6`
	res, err := r.db.ExecContext(ctx, query, id, status, headID, now, reason, models.GradeReportStatusCreated)
	if err != nil {
		return false, fmt.Errorf("set grade report approval: %w", err)
	}
	return oneRowAffected(res)
}

func (r *GradeReportRepository) attachCourses(ctx context.Context, reports []*models.GradeReport) error {
	if len(reports) == 0 {
		return nil
	}
	ids := make([]int64, len(reports))
	byID := make(map[int64]*models.GradeReport, len(reports))
	for i, report := range reports {
		ids[i] = report.ID
		byID[report.ID] = report
		report.Courses = []models.CourseGrade{}
	}

	const query = `SELECT id, report_id, course_code, course_title, credit_hours, number_grade, letter_grade, grade_point
        FROM grade_report_courses WHERE report_id = ANY($1) ORDER BY id`
	var courses []models.CourseGrade
	if err := r.db.SelectContext(ctx, &courses, query, pq.Array(ids)); err != nil {
		return fmt.Errorf("load grade report courses: %w", err)
	}
	for _, course := range courses {
		if report, ok := byID[course.ReportID]; ok {
			report.Courses = append(report.Courses, course)
		}
	}
	return nil
}
