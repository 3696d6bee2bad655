package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/aastu-sis/registration-api/internal/models"
)

const costSharingColumns = `id, registration_slip_id, student_id, photo_path, photo_data_url, payment_info,
        full_name, identity_no, sex, nationality, date_of_birth, place_of_birth,
        mothers_full_name, mothers_address, school_name, date_completed,
        faculty_or_college, department, entrance_year_ec, academic_year_text, semester_text,
        tuition_fee_15_percent, food_expense, boarding_expense, total_cost, service_selection,
        advance_payment_date, discount, receipt_no, beneficiary_signature_name, beneficiary_signed_at,
        status, verified_by, verified_at, submitted_at, created_at`

// CostSharingRepository manages persistence for cost-sharing forms. The
// slip id carries a unique constraint so each slip has at most one form.
type CostSharingRepository struct {
	db *sqlx.DB
}

// NewCostSharingRepository constructs a CostSharingRepository.
func NewCostSharingRepository(db *sqlx.DB) *CostSharingRepository {
	return &CostSharingRepository{db: db}
}

// Create inserts a form in one statement. The issuer path carries only the
// schedule fields; the student submit path carries the paper-form fields
// too, so a failure can never leave a half-written form behind.
func (r *CostSharingRepository) Create(ctx context.Context, form *models.CostSharingForm) error {
	const query = `INSERT INTO cost_sharing_forms
        (registration_slip_id, student_id, photo_path, photo_data_url, payment_info,
         full_name, identity_no, sex, nationality, date_of_birth, place_of_birth,
         mothers_full_name, mothers_address, school_name, date_completed,
         faculty_or_college, department, entrance_year_ec, academic_year_text, semester_text,
         tuition_fee_15_percent, food_expense, boarding_expense, total_cost, service_selection,
         advance_payment_date, discount, receipt_no, beneficiary_signature_name, beneficiary_signed_at,
         status, verified_by, verified_at, submitted_at, created_at)
        VALUES (:registration_slip_id, :student_id, :photo_path, :photo_data_url, :payment_info,
         :full_name, :identity_no, :sex, :nationality, :date_of_birth, :place_of_birth,
         :mothers_full_name, :mothers_address, :school_name, :date_completed,
         :faculty_or_college, :department, :entrance_year_ec, :academic_year_text, :semester_text,
         :tuition_fee_15_percent, :food_expense, :boarding_expense, :total_cost, :service_selection,
         :advance_payment_date, :discount, :receipt_no, :beneficiary_signature_name, :beneficiary_signed_at,
         :status, :verified_by, :verified_at, :submitted_at, :created_at)
        RETURNING id`
	rows, err := sqlx.NamedQueryContext(ctx, r.db, query, form)
	if err != nil {
		return fmt.Errorf("create cost sharing form: %w", err)
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&form.ID); err != nil {
			return fmt.Errorf("create cost sharing form: %w", err)
		}
	}
	return rows.Err()
}

// FindBySlipID fetches the form attached to a slip.
func (r *CostSharingRepository) FindBySlipID(ctx context.Context, slipID int64) (*models.CostSharingForm, error) {
	query := fmt.Sprintf("SELECT %s FROM cost_sharing_forms WHERE registration_slip_id = $1", costSharingColumns)
	var form models.CostSharingForm
	if err := r.db.GetContext(ctx, &form, query, slipID); err != nil {
		return nil, err
	}
	return &form, nil
}

// FindByID fetches a form by its own id.
func (r *CostSharingRepository) FindByID(ctx context.Context, id int64) (*models.CostSharingForm, error) {
	query := fmt.Sprintf("SELECT %s FROM cost_sharing_forms WHERE id = $1", costSharingColumns)
	var form models.CostSharingForm
	if err := r.db.GetContext(ctx, &form, query, id); err != nil {
		return nil, err
	}
	return &form, nil
}

// Replace overwrites every student-supplied field of an existing form and
// resets it to Pending. Resubmission is a full replace, not a merge.
func (r *CostSharingRepository) Replace(ctx context.Context, form *models.CostSharingForm) error {
	const query = `UPDATE cost_sharing_forms SET
        photo_path = :photo_path, photo_data_url = :photo_data_url, payment_info = :payment_info,
        full_name = :full_name, identity_no = :identity_no, sex = :sex, nationality = :nationality,
        date_of_birth = :date_of_birth, place_of_birth = :place_of_birth,
        mothers_full_name = :mothers_full_name, mothers_address = :mothers_address,
        school_name = :school_name, date_completed = :date_completed,
        faculty_or_college = :faculty_or_college, department = :department,
        entrance_year_ec = :entrance_year_ec, academic_year_text = :academic_year_text, semester_text = :semester_text,
        service_selection = :service_selection, advance_payment_date = :advance_payment_date,
        discount = :discount, receipt_no = :receipt_no,
        beneficiary_signature_name = :beneficiary_signature_name, beneficiary_signed_at = :beneficiary_signed_at,
        status = :status, submitted_at = :submitted_at
        WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, form); err != nil {
		return fmt.Errorf("replace cost sharing form: %w", err)
	}
	return nil
}
