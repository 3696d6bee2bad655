package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/aastu-sis/registration-api/internal/models"
	appErrors "github.com/aastu-sis/registration-api/pkg/errors"
)

type costFormStore interface {
	Create(ctx context.Context, form *models.CostSharingForm) error
	FindBySlipID(ctx context.Context, slipID int64) (*models.CostSharingForm, error)
	FindByID(ctx context.Context, id int64) (*models.CostSharingForm, error)
	Replace(ctx context.Context, form *models.CostSharingForm) error
}

type slipReader interface {
	FindByID(ctx context.Context, id int64) (*models.RegistrationSlip, error)
}

type slipVerifier interface {
	VerifyCostSharing(ctx context.Context, slipID int64, officerID string) error
}

// SubmitCostSharingRequest carries the student's paper-form fields.
// Resubmission replaces every field, not just the ones provided.
type SubmitCostSharingRequest struct {
	SlipID int64 `json:"slipId" validate:"required"`

	PhotoPath    *string `json:"photoPath"`
	PhotoDataURL *string `json:"photoDataUrl"`
	PaymentInfo  *string `json:"paymentInfo"`

	FullName         *string    `json:"fullName"`
	IdentityNo       *string    `json:"identityNo"`
	Sex              *string    `json:"sex"`
	Nationality      *string    `json:"nationality"`
	DateOfBirth      *time.Time `json:"dateOfBirth"`
	PlaceOfBirth     *string    `json:"placeOfBirth"`
	MothersFullName  *string    `json:"mothersFullName"`
	MothersAddress   *string    `json:"mothersAddress"`
	SchoolName       *string    `json:"schoolName"`
	DateCompleted    *time.Time `json:"dateCompleted"`
	FacultyOrCollege *string    `json:"facultyOrCollege"`
	Department       *string    `json:"department"`
	EntranceYearEC   *string    `json:"entranceYearEC"`
	AcademicYearText *string    `json:"academicYearText"`
	SemesterText     *string    `json:"semesterText"`

	ServiceSelection   *string    `json:"serviceSelection"`
	AdvancePaymentDate *time.Time `json:"advancePaymentDate"`
	Discount           *string    `json:"discount"`
	ReceiptNo          *string    `json:"receiptNo"`

	BeneficiarySignatureName *string    `json:"beneficiarySignatureName"`
	BeneficiarySignedAt      *time.Time `json:"beneficiarySignedAt"`
}

// CostSharingService handles the student-facing form lifecycle: submission
// while the parent slip awaits officer review, and officer verification.
type CostSharingService struct {
	forms     costFormStore
	slips     slipReader
	issuer    *CostSharingIssuer
	verifier  slipVerifier
	audit     auditSink
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCostSharingService constructs a CostSharingService.
func NewCostSharingService(forms costFormStore, slips slipReader, issuer *CostSharingIssuer, verifier slipVerifier, audit auditSink, validate *validator.Validate, logger *zap.Logger) *CostSharingService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CostSharingService{
		forms:     forms,
		slips:     slips,
		issuer:    issuer,
		verifier:  verifier,
		audit:     audit,
		validator: validate,
		logger:    logger,
	}
}

// Submit upserts the student's form fields. The slip must belong to the
// student and still be AdvisorApproved. An existing form is fully replaced
// and reset to Pending; a missing one is created from the schedule with the
// supplied fields layered on.
func (s *CostSharingService) Submit(ctx context.Context, studentID string, req SubmitCostSharingRequest) (*models.CostSharingForm, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid cost sharing payload")
	}

	slip, err := s.slips.FindByID(ctx, req.SlipID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "slip not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load slip")
	}
	if slip.StudentID != studentID {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "slip not found")
	}
	if slip.Status != models.SlipStatusAdvisorApproved {
		return nil, appErrors.Clone(appErrors.ErrInvalidState, "slip must be approved by advisor first")
	}

	now := time.Now().UTC()
	form, err := s.forms.FindBySlipID(ctx, req.SlipID)
	switch {
	case err == nil:
		s.applyFields(form, req)
		form.Status = models.CostSharingStatusPending
		form.SubmittedAt = now
		if err := s.forms.Replace(ctx, form); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update cost sharing form")
		}
	case errors.Is(err, sql.ErrNoRows):
		// single insert carrying schedule and student fields together
		form = s.issuer.NewForm(slip)
		s.applyFields(form, req)
		form.SubmittedAt = now
		if err := s.forms.Create(ctx, form); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create cost sharing form")
		}
	default:
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load cost sharing form")
	}

	s.audit.Record(studentID, models.RoleStudent, models.AuditActionCostSharingSubmitted, fmt.Sprintf("Submitted cost sharing form for slip %d", req.SlipID))
	return form, nil
}

// Verify marks the form verified through the slip state machine so both
// aggregates change atomically.
func (s *CostSharingService) Verify(ctx context.Context, formID int64, officerID string) error {
	form, err := s.forms.FindByID(ctx, formID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "cost sharing form not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load cost sharing form")
	}

	return s.verifier.VerifyCostSharing(ctx, form.RegistrationSlipID, officerID)
}

// FormForSlip fetches the form attached to a slip.
func (s *CostSharingService) FormForSlip(ctx context.Context, slipID int64) (*models.CostSharingForm, error) {
	form, err := s.forms.FindBySlipID(ctx, slipID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "cost sharing form not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load cost sharing form")
	}
	return form, nil
}

// applyFields overwrites every student-supplied field. The schedule
// amounts never change here; only the issuer sets them.
func (s *CostSharingService) applyFields(form *models.CostSharingForm, req SubmitCostSharingRequest) {
	form.PhotoPath = req.PhotoPath
	form.PhotoDataURL = req.PhotoDataURL
	form.PaymentInfo = req.PaymentInfo
	form.FullName = req.FullName
	form.IdentityNo = req.IdentityNo
	form.Sex = req.Sex
	form.Nationality = req.Nationality
	form.DateOfBirth = req.DateOfBirth
	form.PlaceOfBirth = req.PlaceOfBirth
	form.MothersFullName = req.MothersFullName
	form.MothersAddress = req.MothersAddress
	form.SchoolName = req.SchoolName
	form.DateCompleted = req.DateCompleted
	form.FacultyOrCollege = req.FacultyOrCollege
	form.Department = req.Department
	form.EntranceYearEC = req.EntranceYearEC
	form.AcademicYearText = req.AcademicYearText
	form.SemesterText = req.SemesterText
	if req.ServiceSelection != nil {
		form.ServiceSelection = req.ServiceSelection
	}
	form.AdvancePaymentDate = req.AdvancePaymentDate
	form.Discount = req.Discount
	form.ReceiptNo = req.ReceiptNo
	form.BeneficiarySignatureName = req.BeneficiarySignatureName
	form.BeneficiarySignedAt = req.BeneficiarySignedAt
}
