package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aastu-sis/registration-api/internal/models"
	"github.com/aastu-sis/registration-api/internal/repository"
	appErrors "github.com/aastu-sis/registration-api/pkg/errors"
	"github.com/aastu-sis/registration-api/pkg/qr"
)

type slipRepo interface {
	Create(ctx context.Context, slip *models.RegistrationSlip) error
	FindByID(ctx context.Context, id int64) (*models.RegistrationSlip, error)
	ListByStudent(ctx context.Context, studentID string) ([]models.RegistrationSlip, error)
	ListByStatus(ctx context.Context, status models.SlipStatus) ([]models.RegistrationSlip, error)
	Approve(ctx context.Context, id int64, advisorID string, comment *string, now time.Time) (bool, error)
	Reject(ctx context.Context, id int64, advisorID, comment string, now time.Time) (bool, error)
	VerifyCostSharing(ctx context.Context, slipID int64, officerID string, now time.Time) (bool, error)
	Finalize(ctx context.Context, id int64, registrarID, serialNumber, qrPayload string, now time.Time) (bool, error)
}

type studentDirectory interface {
	FindByStudentID(ctx context.Context, studentID string) (*models.Student, error)
}

type costFormIssuer interface {
	Issue(ctx context.Context, slip *models.RegistrationSlip) (*models.CostSharingForm, error)
}

type costFormReader interface {
	FindBySlipID(ctx context.Context, slipID int64) (*models.CostSharingForm, error)
}

type approvalNotifier interface {
	SendCostSharingForm(slip models.RegistrationSlip, student models.Student, form models.CostSharingForm)
}

type auditSink interface {
	Record(actorID string, role models.Role, action, details string)
}

type qrEncoder interface {
	Encode(p qr.Payload) (string, error)
}

// CourseInput is one course selection on a create-slip request.
type CourseInput struct {
	CourseCode  string `json:"courseCode" validate:"required"`
	CourseName  string `json:"courseName" validate:"required"`
	CreditHours int    `json:"creditHours" validate:"required,gt=0"`
}

// CreateSlipRequest is the payload for opening a registration slip.
type CreateSlipRequest struct {
	StudentID string        `json:"studentId" validate:"required"`
	Semester  string        `json:"semester" validate:"required"`
	Courses   []CourseInput `json:"courses" validate:"required,min=1,dive"`
}

// RegistrationService owns the registration-slip state machine:
// Created → AdvisorApproved → CostSharingVerified → RegistrarFinalized,
// with Created → Rejected as the only alternate terminal. Every transition
// takes the acting staff member's id explicitly.
type RegistrationService struct {
	slips     slipRepo
	students  studentDirectory
	costForms costFormReader
	issuer    costFormIssuer
	notifier  approvalNotifier
	audit     auditSink
	qrEncoder qrEncoder
	validator *validator.Validate
	logger    *zap.Logger
	metrics   *MetricsService
}

// NewRegistrationService constructs a RegistrationService.
func NewRegistrationService(slips slipRepo, students studentDirectory, costForms costFormReader, issuer costFormIssuer, notifier approvalNotifier, audit auditSink, qrEnc qrEncoder, validate *validator.Validate, logger *zap.Logger, metrics *MetricsService) *RegistrationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RegistrationService{
		slips:     slips,
		students:  students,
		costForms: costForms,
		issuer:    issuer,
		notifier:  notifier,
		audit:     audit,
		qrEncoder: qrEnc,
		validator: validate,
		logger:    logger,
		metrics:   metrics,
	}
}

// CreateSlip opens a new registration slip for a student. Duplicate calls
// create duplicate slips; the pipeline does not deduplicate.
func (s *RegistrationService) CreateSlip(ctx context.Context, actor models.Actor, req CreateSlipRequest) (*models.RegistrationSlip, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid slip payload")
	}

	student, err := s.students.FindByStudentID(ctx, req.StudentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	now := time.Now().UTC()
	slip := &models.RegistrationSlip{
		StudentID:    student.StudentID,
		StudentName:  student.FullName,
		Department:   student.Department,
		Semester:     req.Semester,
		AcademicYear: AcademicYear(student.EnrollmentYear, now),
		Status:       models.SlipStatusCreated,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	for _, course := range req.Courses {
		slip.Courses = append(slip.Courses, models.SlipCourse{
			CourseCode:  course.CourseCode,
			CourseName:  course.CourseName,
			CreditHours: course.CreditHours,
		})
		slip.TotalCreditHours += course.CreditHours
	}

	if err := s.slips.Create(ctx, slip); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create slip")
	}

	s.recordTransition("create", "success")
	s.audit.Record(actor.ID, actor.Role, models.AuditActionSlipCreated, fmt.Sprintf("Created slip %d for student %s", slip.ID, slip.StudentID))
	return slip, nil
}

// Approve advances a slip from Created to AdvisorApproved, issues the
// cost-sharing form and queues the notification email. The email is best
// effort: its failure never fails the approval.
func (s *RegistrationService) Approve(ctx context.Context, slipID int64, advisorID string, comment *string) error {
	slip, err := s.loadSlip(ctx, slipID)
	if err != nil {
		return err
	}

	student, err := s.students.FindByStudentID(ctx, slip.StudentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	now := time.Now().UTC()
	ok, err := s.slips.Approve(ctx, slipID, advisorID, comment, now)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to approve slip")
	}
	if !ok {
		s.recordTransition("approve", "rejected")
		return appErrors.Clone(appErrors.ErrInvalidState, "failed to approve slip")
	}

	slip.Status = models.SlipStatusAdvisorApproved
	slip.IsAdvisorApproved = true
	slip.AdvisorID = &advisorID
	slip.AdvisorComment = comment
	slip.AdvisorApprovedAt = &now
	slip.UpdatedAt = now

	form, err := s.issuer.Issue(ctx, slip)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to issue cost sharing form")
	}

	s.notifier.SendCostSharingForm(*slip, *student, *form)

	s.recordTransition("approve", "success")
	s.audit.Record(advisorID, models.RoleAdvisor, models.AuditActionSlipApproved, fmt.Sprintf("Approved slip %d for student %s and sent cost-sharing form", slipID, slip.StudentID))
	return nil
}

// Reject moves a Created slip to the terminal Rejected status with the
// advisor's comment as the reason. No transition leaves Rejected.
func (s *RegistrationService) Reject(ctx context.Context, slipID int64, advisorID, comment string) error {
	if _, err := s.loadSlip(ctx, slipID); err != nil {
		return err
	}

	now := time.Now().UTC()
	ok, err := s.slips.Reject(ctx, slipID, advisorID, comment, now)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reject slip")
	}
	if !ok {
		s.recordTransition("reject", "rejected")
		return appErrors.Clone(appErrors.ErrInvalidState, "failed to reject slip")
	}

	s.recordTransition("reject", "success")
	s.audit.Record(advisorID, models.RoleAdvisor, models.AuditActionSlipRejected, fmt.Sprintf("Rejected slip %d: %s", slipID, comment))
	return nil
}

// VerifyCostSharing advances an AdvisorApproved slip whose form is still
// Pending. Slip and form change together atomically or not at all.
func (s *RegistrationService) VerifyCostSharing(ctx context.Context, slipID int64, officerID string) error {
	if _, err := s.loadSlip(ctx, slipID); err != nil {
		return err
	}

	if _, err := s.costForms.FindBySlipID(ctx, slipID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.recordTransition("verify_cost_sharing", "rejected")
			return appErrors.Clone(appErrors.ErrInvalidState, "failed to verify cost sharing")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load cost sharing form")
	}

	now := time.Now().UTC()
	ok, err := s.slips.VerifyCostSharing(ctx, slipID, officerID, now)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to verify cost sharing")
	}
	if !ok {
		s.recordTransition("verify_cost_sharing", "rejected")
		return appErrors.Clone(appErrors.ErrInvalidState, "failed to verify cost sharing")
	}

	s.recordTransition("verify_cost_sharing", "success")
	s.audit.Record(officerID, models.RoleCostSharingOfficer, models.AuditActionCostSharingVerified, fmt.Sprintf("Verified cost sharing for slip %d", slipID))
	return nil
}

// Finalize locks a CostSharingVerified slip, minting its serial number and
// QR payload. A serial collision retries generation once, then surfaces as
// a conflict.
func (s *RegistrationService) Finalize(ctx context.Context, slipID int64, registrarID string) error {
	slip, err := s.loadSlip(ctx, slipID)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	for attempt := 0; attempt < 2; attempt++ {
		serial := generateSerialNumber(now)
		payload, err := s.qrEncoder.Encode(qr.Payload{
			SerialNumber: serial,
			StudentID:    slip.StudentID,
			Semester:     slip.Semester,
			IssuedAt:     now,
		})
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode qr payload")
		}

		ok, err := s.slips.Finalize(ctx, slipID, registrarID, serial, payload, now)
		if err != nil {
			if errors.Is(err, repository.ErrDuplicateSerial) {
				s.logger.Warn("serial number collision, regenerating", zap.Int64("slip_id", slipID), zap.String("serial", serial))
				continue
			}
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to finalize registration")
		}
		if !ok {
			s.recordTransition("finalize", "rejected")
			return appErrors.Clone(appErrors.ErrInvalidState, "failed to finalize registration")
		}

		s.recordTransition("finalize", "success")
		s.audit.Record(registrarID, models.RoleRegistrar, models.AuditActionRegistrationFinal, fmt.Sprintf("Finalized registration slip %d for student %s", slipID, slip.StudentID))
		return nil
	}

	s.recordTransition("finalize", "conflict")
	return appErrors.Clone(appErrors.ErrConflict, "serial number collision")
}

// PendingForRole returns the slips awaiting the given role, most recent
// first. Deliberately role-scoped, not identity-scoped: every holder of a
// role sees all slips at that stage. Unknown roles see nothing.
func (s *RegistrationService) PendingForRole(ctx context.Context, role models.Role) ([]models.RegistrationSlip, error) {
	var status models.SlipStatus
	switch role {
	case models.RoleAdvisor:
		status = models.SlipStatusCreated
	case models.RoleCostSharingOfficer:
		status = models.SlipStatusAdvisorApproved
	case models.RoleRegistrar:
		status = models.SlipStatusCostSharingVerified
	default:
		return []models.RegistrationSlip{}, nil
	}

	slips, err := s.slips.ListByStatus(ctx, status)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list pending slips")
	}
	return slips, nil
}

// GetSlip fetches one slip.
func (s *RegistrationService) GetSlip(ctx context.Context, slipID int64) (*models.RegistrationSlip, error) {
	return s.loadSlip(ctx, slipID)
}

// StudentSlips returns a student's slip history, most recent first.
func (s *RegistrationService) StudentSlips(ctx context.Context, studentID string) ([]models.RegistrationSlip, error) {
	slips, err := s.slips.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list student slips")
	}
	return slips, nil
}

func (s *RegistrationService) loadSlip(ctx context.Context, slipID int64) (*models.RegistrationSlip, error) {
	slip, err := s.slips.FindByID(ctx, slipID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "slip not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load slip")
	}
	return slip, nil
}

func (s *RegistrationService) recordTransition(transition, outcome string) {
	if s.metrics != nil {
		s.metrics.RecordTransition(transition, outcome)
	}
}

// AcademicYear derives a student's academic year from the enrollment year,
// clamped to the five-year program length.
func AcademicYear(enrollmentYear int, now time.Time) int {
	year := now.Year() - enrollmentYear + 1
	if year < 1 {
		return 1
	}
	if year > 5 {
		return 5
	}
	return year
}

func generateSerialNumber(now time.Time) string {
	random := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("AASTU-%s-%s", now.Format("20060102"), random)
}
