package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/aastu-sis/registration-api/internal/models"
)

// ErrDuplicateSerial signals a unique violation on the serial number column.
// Collisions are astronomically rare; the service retries generation once.
var ErrDuplicateSerial = errors.New("duplicate serial number")

const slipColumns = `id, student_id, student_name, department, semester, academic_year, total_credit_hours, status,
        is_advisor_approved, advisor_id, advisor_comment, advisor_approved_at,
        is_cost_sharing_verified, cost_sharing_officer_id, cost_sharing_verified_at,
        is_registrar_finalized, registrar_id, registrar_finalized_at,
        serial_number, qr_payload, is_locked, created_at, updated_at`

// SlipRepository manages persistence for registration slips. Every
// transition is a conditional update guarded by the expected status so the
// precondition check and the write are a single atomic statement.
type SlipRepository struct {
	db *sqlx.DB
}

// NewSlipRepository constructs a SlipRepository.
func NewSlipRepository(db *sqlx.DB) *SlipRepository {
	return &SlipRepository{db: db}
}

// Create inserts a slip and its course rows in one transaction.
func (r *SlipRepository) Create(ctx context.Context, slip *models.RegistrationSlip) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create slip: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const insertSlip = `INSERT INTO registration_slips
        (student_id, student_name, department, semester, academic_year, total_credit_hours, status, is_locked, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, false, $8, $8)
        RETURNING id`
	if err := tx.QueryRowxContext(ctx, insertSlip,
		slip.StudentID, slip.StudentName, slip.Department, slip.Semester,
		slip.AcademicYear, slip.TotalCreditHours, slip.Status, slip.CreatedAt,
	).Scan(&slip.ID); err != nil {
		return fmt.Errorf("insert slip: %w", err)
	}

	const insertCourse = `INSERT INTO registration_slip_courses (slip_id, course_code, course_name, credit_hours)
        VALUES ($1, $2, $3, $4)`
	for i := range slip.Courses {
		slip.Courses[i].SlipID = slip.ID
		if _, err := tx.ExecContext(ctx, insertCourse,
			slip.ID, slip.Courses[i].CourseCode, slip.Courses[i].CourseName, slip.Courses[i].CreditHours,
		); err != nil {
			return fmt.Errorf("insert slip course: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create slip: %w", err)
	}
	return nil
}

// FindByID fetches a slip with its course rows.
func (r *SlipRepository) FindByID(ctx context.Context, id int64) (*models.RegistrationSlip, error) {
	query := fmt.Sprintf("SELECT %s FROM registration_slips WHERE id = $1", slipColumns)
	var slip models.RegistrationSlip
	if err := r.db.GetContext(ctx, &slip, query, id); err != nil {
		return nil, err
	}
	if err := r.attachCourses(ctx, []*models.RegistrationSlip{&slip}); err != nil {
		return nil, err
	}
	return &slip, nil
}

// ListByStudent returns a student's slips, most recent first.
func (r *SlipRepository) ListByStudent(ctx context.Context, studentID string) ([]models.RegistrationSlip, error) {
	query := fmt.Sprintf("SELECT %s FROM registration_slips WHERE student_id = $1 ORDER BY created_at DESC", slipColumns)
	var slips []models.RegistrationSlip
	if err := r.db.SelectContext(ctx, &slips, query, studentID); err != nil {
		return nil, fmt.Errorf("list slips for student: %w", err)
	}
	if err := r.attachCoursesToAll(ctx, slips); err != nil {
		return nil, err
	}
	return slips, nil
}

// ListByStatus returns all slips at the given workflow stage, most recent
// first. This backs the per-role pending projections.
func (r *SlipRepository) ListByStatus(ctx context.Context, status models.SlipStatus) ([]models.RegistrationSlip, error) {
	query := fmt.Sprintf("SELECT %s FROM registration_slips WHERE status = $1 ORDER BY created_at DESC", slipColumns)
	var slips []models.RegistrationSlip
	if err := r.db.SelectContext(ctx, &slips, query, status); err != nil {
		return nil, fmt.Errorf("list slips by status: %w", err)
	}
	if err := r.attachCoursesToAll(ctx, slips); err != nil {
		return nil, err
	}
	return slips, nil
}

// Approve advances a slip from Created to AdvisorApproved. Returns false
// when the slip is missing or not in Created.
func (r *SlipRepository) Approve(ctx context.Context, id int64, advisorID string, comment *string, now time.Time) (bool, error) {
	const query = `UPDATE registration_slips
        SET status = $2, is_advisor_approved = true, advisor_id = $3, advisor_comment = $4, advisor_approved_at = $5, updated_at = $5
        WHERE id = $1 AND status = $6`
	res, err := r.db.ExecContext(ctx, query, id, models.SlipStatusAdvisorApproved, advisorID, comment, now, models.SlipStatusCreated)
	if err != nil {
		return false, fmt.Errorf("approve slip: %w", err)
	}
	return oneRowAffected(res)
}

// Reject moves a slip from Created to the terminal Rejected status.
func (r *SlipRepository) Reject(ctx context.Context, id int64, advisorID, comment string, now time.Time) (bool, error) {
	const query = `UPDATE registration_slips
        SET status = $2, advisor_id = $3, advisor_comment = $4, updated_at = $5
        WHERE id = $1 AND status = $6`
	res, err := r.db.ExecContext(ctx, query, id, models.SlipStatusRejected, advisorID, comment, now, models.SlipStatusCreated)
	if err != nil {
		return false, fmt.Errorf("reject slip: %w", err)
	}
	return oneRowAffected(res)
}

// VerifyCostSharing advances the slip and marks its cost-sharing form
// verified inside one transaction. Both updates are guarded by their
// expected status; if either misses, everything rolls back.
func (r *SlipRepository) VerifyCostSharing(ctx context.Context, slipID int64, officerID string, now time.Time) (bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin verify cost sharing: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const updateSlip = `UPDATE registration_slips
        SET status = $2, is_cost_sharing_verified = true, cost_sharing_officer_id = $3, cost_sharing_verified_at = $4, updated_at = $4
        WHERE id = $1 AND status = $5`
	res, err := tx.ExecContext(ctx, updateSlip, slipID, models.SlipStatusCostSharingVerified, officerID, now, models.SlipStatusAdvisorApproved)
	if err != nil {
		return false, fmt.Errorf("verify slip: %w", err)
	}
	ok, err := oneRowAffected(res)
	if err != nil || !ok {
		return false, err
	}

	const updateForm = `UPDATE cost_sharing_forms
        SET status = $2, verified_by = $3, verified_at = $4
        WHERE registration_slip_id = $1 AND status = $5`
	res, err = tx.ExecContext(ctx, updateForm, slipID, models.CostSharingStatusVerified, officerID, now, models.CostSharingStatusPending)
	if err != nil {
		return false, fmt.Errorf("verify cost sharing form: %w", err)
	}
	ok, err = oneRowAffected(res)
	if err != nil || !ok {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit verify cost sharing: %w", err)
	}
	return true, nil
}

// Finalize locks the slip and stamps serial number and QR payload.
// A unique violation on serial_number yields ErrDuplicateSerial.
func (r *SlipRepository) Finalize(ctx context.Context, id int64, registrarID, serialNumber, qrPayload string, now time.Time) (bool, error) {
	const query = `UPDATE registration_slips
        SET status = $2, is_registrar_finalized = true, registrar_id = $3, registrar_finalized_at = $4,
            serial_number = $5, qr_payload = $6, is_locked = true, updated_at = $4
        WHERE id = $1 AND status = $7`
	res, err := r.db.ExecContext(ctx, query, id, models.SlipStatusRegistrarFinalized, registrarID, now, serialNumber, qrPayload, models.SlipStatusCostSharingVerified)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return false, ErrDuplicateSerial
		}
		return false, fmt.Errorf("finalize slip: %w", err)
	}
	return oneRowAffected(res)
}

func (r *SlipRepository) attachCoursesToAll(ctx context.Context, slips []models.RegistrationSlip) error {
	refs := make([]*models.RegistrationSlip, len(slips))
	for i := range slips {
		refs[i] = &slips[i]
	}
	return r.attachCourses(ctx, refs)
}

func (r *SlipRepository) attachCourses(ctx context.Context, slips []*models.RegistrationSlip) error {
	if len(slips) == 0 {
		return nil
	}
	ids := make([]int64, len(slips))
	byID := make(map[int64]*models.RegistrationSlip, len(slips))
	for i, slip := range slips {
		ids[i] = slip.ID
		byID[slip.ID] = slip
		slip.Courses = []models.SlipCourse{}
	}

	const query = `SELECT id, slip_id, course_code, course_name, credit_hours
        FROM registration_slip_courses WHERE slip_id = ANY($1) ORDER BY id`
	var courses []models.SlipCourse
	if err := r.db.SelectContext(ctx, &courses, query, pq.Array(ids)); err != nil {
		return fmt.Errorf("load slip courses: %w", err)
	}
	for _, course := range courses {
		if slip, ok := byID[course.SlipID]; ok {
			slip.Courses = append(slip.Courses, course)
		}
	}
	return nil
}

func oneRowAffected(res sql.Result) (bool, error) {
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected == 1, nil
}
