package models

import "time"

// SlipStatus is the registration slip workflow state.
type SlipStatus string

const (
	SlipStatusCreated             SlipStatus = "Created"
	SlipStatusAdvisorApproved     SlipStatus = "AdvisorApproved"
	SlipStatusCostSharingVerified SlipStatus = "CostSharingVerified"
	SlipStatusRegistrarFinalized  SlipStatus = "RegistrarFinalized"
	SlipStatusRejected            SlipStatus = "Rejected"
)

// SlipCourse is one course row on a registration slip.
type SlipCourse struct {
	ID          int64  `db:"id" json:"-"`
	SlipID      int64  `db:"slip_id" json:"-"`
	CourseCode  string `db:"course_code" json:"courseCode"`
	CourseName  string `db:"course_name" json:"courseName"`
	CreditHours int    `db:"credit_hours" json:"creditHours"`
}

// RegistrationSlip is a student's per-semester course selection moving
// through the Advisor → CostSharingOfficer → Registrar approval chain.
// Once IsLocked is set no transition may mutate it again.
type RegistrationSlip struct {
	ID               int64      `db:"id" json:"id"`
	StudentID        string     `db:"student_id" json:"studentId"`
	StudentName      string     `db:"student_name" json:"studentName"`
	Department       string     `db:"department" json:"department"`
	Semester         string     `db:"semester" json:"semester"`
	AcademicYear     int        `db:"academic_year" json:"academicYear"`
	TotalCreditHours int        `db:"total_credit_hours" json:"totalCreditHours"`
	Status           SlipStatus `db:"status" json:"status"`

	IsAdvisorApproved bool       `db:"is_advisor_approved" json:"isAdvisorApproved"`
	AdvisorID         *string    `db:"advisor_id" json:"advisorId,omitempty"`
	AdvisorComment    *string    `db:"advisor_comment" json:"advisorComment,omitempty"`
	AdvisorApprovedAt *time.Time `db:"advisor_approved_at" json:"advisorApprovedAt,omitempty"`

	IsCostSharingVerified bool       `db:"is_cost_sharing_verified" json:"isCostSharingVerified"`
	CostSharingOfficerID  *string    `db:"cost_sharing_officer_id" json:"costSharingOfficerId,omitempty"`
	CostSharingVerifiedAt *time.Time `db:"cost_sharing_verified_at" json:"costSharingVerifiedAt,omitempty"`

	IsRegistrarFinalized  bool       `db:"is_registrar_finalized" json:"isRegistrarFinalized"`
	RegistrarID           *string    `db:"registrar_id" json:"registrarId,omitempty"`
	RegistrarFinalizedAt  *time.Time `db:"registrar_finalized_at" json:"registrarFinalizedAt,omitempty"`

	SerialNumber *string `db:"serial_number" json:"serialNumber,omitempty"`
	QrPayload    *string `db:"qr_payload" json:"qrPayload,omitempty"`
	IsLocked     bool    `db:"is_locked" json:"isLocked"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`

	Courses []SlipCourse `json:"courses"`
}
