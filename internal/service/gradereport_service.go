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

type gradeReportRepo interface {
	Create(ctx context.Context, report *models.GradeReport) error
	FindByID(ctx context.Context, id int64) (*models.GradeReport, error)
	ListByStatus(ctx context.Context, status models.GradeReportStatus) ([]models.GradeReport, error)
	SetApproval(ctx context.Context, id int64, status models.GradeReportStatus, headID string, reason *string, now time.Time) (bool, error)
}

// CourseGradeInput is one graded course on a create-report request.
type CourseGradeInput struct {
	CourseCode  string  `json:"courseCode" validate:"required"`
	CourseTitle string  `json:"courseTitle" validate:"required"`
	CreditHours float64 `json:"creditHours" validate:"required,gt=0"`
	NumberGrade float64 `json:"numberGrade" validate:"gte=0,lte=100"`
}

// CreateGradeReportRequest is the registrar's payload for a new report.
type CreateGradeReportRequest struct {
	StudentID string             `json:"studentId" validate:"required"`
	Semester  string             `json:"semester" validate:"required"`
	Year      int                `json:"year" validate:"required,gte=1,lte=5"`
	Program   string             `json:"program"`
	Remark    *string            `json:"remark"`
	Courses   []CourseGradeInput `json:"courses" validate:"required,min=1,dive"`

	PreviousCredit *float64 `json:"previousCredit"`
	PreviousGP     *float64 `json:"previousGP"`
	PreviousGPA    *float64 `json:"previousGPA"`
}

// ApproveGradeReportRequest resolves a pending report.
type ApproveGradeReportRequest struct {
	Approve bool    `json:"approve"`
	Comment *string `json:"comment"`
}

// GradeReportService computes semester and cumulative GPA totals and tracks
// department-head approval. Reports link to students by id only; they are
// independent of the registration slip pipeline.
type GradeReportService struct {
	reports   gradeReportRepo
	students  studentDirectory
	audit     auditSink
	validator *validator.Validate
	logger    *zap.Logger
}

// NewGradeReportService constructs a GradeReportService.
func NewGradeReportService(reports gradeReportRepo, students studentDirectory, audit auditSink, validate *validator.Validate, logger *zap.Logger) *GradeReportService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GradeReportService{reports: reports, students: students, audit: audit, validator: validate, logger: logger}
}

// Create derives letter grades and grade points from the numeric grades,
// totals them into semester and cumulative GPA triples, and stores the
// report with status Created.
func (s *GradeReportService) Create(ctx context.Context, registrarID string, req CreateGradeReportRequest) (*models.GradeReport, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid grade report payload")
	}

	student, err := s.students.FindByStudentID(ctx, req.StudentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	var semesterCredit, semesterGP float64
	courses := make([]models.CourseGrade, 0, len(req.Courses))
	for _, input := range req.Courses {
		letter := LetterGrade(input.NumberGrade)
		gradePoint := input.CreditHours * GradePointValue(letter)
		courses = append(courses, models.CourseGrade{
			CourseCode:  input.CourseCode,
			CourseTitle: input.CourseTitle,
			CreditHours: input.CreditHours,
			NumberGrade: input.NumberGrade,
			LetterGrade: letter,
			GradePoint:  gradePoint,
		})
		semesterCredit += input.CreditHours
		semesterGP += gradePoint
	}

	var semesterGPA float64
	if semesterCredit > 0 {
		semesterGPA = semesterGP / semesterCredit
	}

	var previousCredit, previousGP float64
	if req.PreviousCredit != nil {
		previousCredit = *req.PreviousCredit
	}
	if req.PreviousGP != nil {
		previousGP = *req.PreviousGP
	}
	cumulativeCredit := previousCredit + semesterCredit
	cumulativeGP := previousGP + semesterGP
	var cumulativeGPA float64
	if cumulativeCredit > 0 {
		cumulativeGPA = cumulativeGP / cumulativeCredit
	}

	program := req.Program
	if program == "" {
		program = "Degree"
	}

	report := &models.GradeReport{
		StudentID:   student.StudentID,
		StudentName: student.FullName,
		Major:       student.Department,
		Program:     program,
		Year:        req.Year,
		Semester:    req.Semester,

		PreviousCredit: req.PreviousCredit,
		PreviousGP:     req.PreviousGP,
		PreviousGPA:    req.PreviousGPA,

		SemesterCredit: semesterCredit,
		SemesterGP:     semesterGP,
		SemesterGPA:    semesterGPA,

		CumulativeCredit: cumulativeCredit,
		CumulativeGP:     cumulativeGP,
		CumulativeGPA:    cumulativeGPA,

		Remark:      req.Remark,
		GeneratedBy: registrarID,
		Status:      models.GradeReportStatusCreated,
		CreatedAt:   time.Now().UTC(),
		Courses:     courses,
	}

	if err := s.reports.Create(ctx, report); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create grade report")
	}

	s.audit.Record(registrarID, models.RoleRegistrar, models.AuditActionGradeReportCreated, fmt.Sprintf("Created grade report %d for student %s", report.ID, report.StudentID))
	return report, nil
}

// Approve resolves a Created report into DepartmentHeadApproved or
// Rejected. No transition leaves either terminal state.
func (s *GradeReportService) Approve(ctx context.Context, reportID int64, headID string, req ApproveGradeReportRequest) error {
	if _, err := s.get(ctx, reportID); err != nil {
		return err
	}

	status := models.GradeReportStatusApproved
	action := models.AuditActionGradeReportApproved
	var reason *string
	if !req.Approve {
		status = models.GradeReportStatusRejected
		action = models.AuditActionGradeReportRejected
		reason = req.Comment
	}

	ok, err := s.reports.SetApproval(ctx, reportID, status, headID, reason, time.Now().UTC())
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update grade report")
	}
	if !ok {
		return appErrors.Clone(appErrors.ErrInvalidState, "grade report already resolved")
	}

	s.audit.Record(headID, models.RoleDepartmentHead, action, fmt.Sprintf("Resolved grade report %d", reportID))
	return nil
}

// Pending lists reports awaiting department-head review, newest first.
func (s *GradeReportService) Pending(ctx context.Context) ([]models.GradeReport, error) {
	reports, err := s.reports.ListByStatus(ctx, models.GradeReportStatusCreated)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list pending grade reports")
	}
	return reports, nil
}

// Get fetches one report.
func (s *GradeReportService) Get(ctx context.Context, reportID int64) (*models.GradeReport, error) {
	return s.get(ctx, reportID)
}

func (s *GradeReportService) get(ctx context.Context, reportID int64) (*models.GradeReport, error) {
	report, err := s.reports.FindByID(ctx, reportID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "grade report not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load grade report")
	}
	return report, nil
}
