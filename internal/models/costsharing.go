package models

import "time"

// CostSharingFormStatus is the cost-sharing sub-state, independent of the
// parent slip's status until verification joins them.
type CostSharingFormStatus string

const (
	CostSharingStatusPending  CostSharingFormStatus = "Pending"
	CostSharingStatusVerified CostSharingFormStatus = "Verified"
	CostSharingStatusRejected CostSharingFormStatus = "Rejected"
)

// CostSharingForm captures the cost-sharing beneficiaries agreement for one
// registration slip. The schedule amounts are stamped at issuance; the
// paper-form fields arrive later through student submission.
type CostSharingForm struct {
	ID                 int64  `db:"id" json:"id"`
	RegistrationSlipID int64  `db:"registration_slip_id" json:"registrationSlipId"`
	StudentID          string `db:"student_id" json:"studentId"`

	PhotoPath   *string `db:"photo_path" json:"photoPath,omitempty"`
	PhotoDataURL *string `db:"photo_data_url" json:"photoDataUrl,omitempty"`
	PaymentInfo *string `db:"payment_info" json:"paymentInfo,omitempty"`

	FullName        *string    `db:"full_name" json:"fullName,omitempty"`
	IdentityNo      *string    `db:"identity_no" json:"identityNo,omitempty"`
	Sex             *string    `db:"sex" json:"sex,omitempty"`
	Nationality     *string    `db:"nationality" json:"nationality,omitempty"`
	DateOfBirth     *time.Time `db:"date_of_birth" json:"dateOfBirth,omitempty"`
	PlaceOfBirth    *string    `db:"place_of_birth" json:"placeOfBirth,omitempty"`
	MothersFullName *string    `db:"mothers_full_name" json:"mothersFullName,omitempty"`
	MothersAddress  *string    `db:"mothers_address" json:"mothersAddress,omitempty"`
	SchoolName      *string    `db:"school_name" json:"schoolName,omitempty"`
	DateCompleted   *time.Time `db:"date_completed" json:"dateCompleted,omitempty"`
	FacultyOrCollege *string   `db:"faculty_or_college" json:"facultyOrCollege,omitempty"`
	Department      *string    `db:"department" json:"department,omitempty"`
	EntranceYearEC  *string    `db:"entrance_year_ec" json:"entranceYearEC,omitempty"`
	AcademicYearText *string   `db:"academic_year_text" json:"academicYearText,omitempty"`
	SemesterText    *string    `db:"semester_text" json:"semesterText,omitempty"`

	TuitionFee15Percent float64 `db:"tuition_fee_15_percent" json:"tuitionFee15Percent"`
	FoodExpense         float64 `db:"food_expense" json:"foodExpense"`
	BoardingExpense     float64 `db:"boarding_expense" json:"boardingExpense"`
	TotalCost           float64 `db:"total_cost" json:"totalCost"`

	ServiceSelection *string `db:"service_selection" json:"serviceSelection,omitempty"`

	AdvancePaymentDate *time.Time `db:"advance_payment_date" json:"advancePaymentDate,omitempty"`
	Discount           *string    `db:"discount" json:"discount,omitempty"`
	ReceiptNo          *string    `db:"receipt_no" json:"receiptNo,omitempty"`

	BeneficiarySignatureName *string    `db:"beneficiary_signature_name" json:"beneficiarySignatureName,omitempty"`
	BeneficiarySignedAt      *time.Time `db:"beneficiary_signed_at" json:"beneficiarySignedAt,omitempty"`

	Status      CostSharingFormStatus `db:"status" json:"status"`
	VerifiedBy  *string               `db:"verified_by" json:"verifiedBy,omitempty"`
	VerifiedAt  *time.Time            `db:"verified_at" json:"verifiedAt,omitempty"`
	SubmittedAt time.Time             `db:"submitted_at" json:"submittedAt"`
	CreatedAt   time.Time             `db:"created_at" json:"createdAt"`
}
