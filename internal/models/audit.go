package models

import "time"

// Audit actions recorded by the workflow.
const (
	AuditActionSlipCreated          = "SlipCreated"
	AuditActionSlipApproved         = "SlipApproved"
	AuditActionSlipRejected         = "SlipRejected"
	AuditActionCostSharingSubmitted = "CostSharingSubmitted"
	AuditActionCostSharingVerified  = "CostSharingVerified"
	AuditActionRegistrationFinal    = "RegistrationFinalized"
	AuditActionGradeReportCreated   = "GradeReportCreated"
	AuditActionGradeReportApproved  = "GradeReportApproved"
	AuditActionGradeReportRejected  = "GradeReportRejected"
	AuditActionLogin                = "Login"
)

// AuditLog is an append-only trail entry. Recording is fire-and-forget and
// never blocks or fails the operation being audited.
type AuditLog struct {
	ID        int64     `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"userId"`
	Role      string    `db:"role" json:"role"`
	Action    string    `db:"action" json:"action"`
	Details   string    `db:"details" json:"details"`
	IPAddress *string   `db:"ip_address" json:"ipAddress,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
