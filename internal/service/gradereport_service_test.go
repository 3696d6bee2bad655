package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aastu-sis/registration-api/internal/models"
	appErrors "github.com/aastu-sis/registration-api/pkg/errors"
)

type mockGradeReportRepo struct {
	reports map[int64]*models.GradeReport
	nextID  int64
}

func newMockGradeReportRepo() *mockGradeReportRepo {
	return &mockGradeReportRepo{reports: make(map[int64]*models.GradeReport), nextID: 1}
}

func (m *mockGradeReportRepo) Create(ctx context.Context, report *models.GradeReport) error {
	report.ID = m.nextID
	m.nextID++
	copied := *report
	m.reports[report.ID] = &copied
	return nil
}

func (m *mockGradeReportRepo) FindByID(ctx context.Context, id int64) (*models.GradeReport, error) {
	if report, ok := m.reports[id]; ok {
		copied := *report
		return &copied, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockGradeReportRepo) ListByStatus(ctx context.Context, status models.GradeReportStatus) ([]models.GradeReport, error) {
	result := []models.GradeReport{}
	for _, report := range m.reports {
		if report.Status == status {
			result = append(result, *report)
		}
	}
	return result, nil
}

func (m *mockGradeReportRepo) SetApproval(ctx context.Context, id int64, status models.GradeReportStatus, headID string, reason *string, now time.Time) (bool, error) {
	report, ok := m.reports[id]
	if !ok || report.Status != models.GradeReportStatusCreated {
		return false, nil
	}
	report.Status = status
	report.ApprovedBy = &headID
	report.ApprovedAt = &now
	report.RejectionReason = reason
	return true, nil
}

func newGradeReportFixture() (*GradeReportService, *mockGradeReportRepo) {
	repo := newMockGradeReportRepo()
	students := &mockStudentDirectory{students: map[string]*models.Student{
		"ETS0001/14": {
			StudentID:      "ETS0001/14",
			FullName:       "Abebe Kebede",
			Department:     "Software Engineering",
			EnrollmentYear: 2023,
		},
	}}
	return NewGradeReportService(repo, students, &mockAudit{}, nil, nil), repo
}

func newTestReportRequest() CreateGradeReportRequest {
	return CreateGradeReportRequest{
		StudentID: "ETS0001/14",
		Semester:  "First",
		Year:      3,
		Courses: []CourseGradeInput{
			{CourseCode: "SWEG3101", CourseTitle: "Operating Systems", CreditHours: 3, NumberGrade: 90},
			{CourseCode: "SWEG3102", CourseTitle: "Computer Networks", CreditHours: 4, NumberGrade: 70},
		},
	}
}

func TestCreateGradeReportDerivesGrades(t *testing.T) {
	svc, _ := newGradeReportFixture()

	report, err := svc.Create(context.Background(), "REG001", newTestReportRequest())
	require.NoError(t, err)

	require.Len(t, report.Courses, 2)
	assert.Equal(t, "A+", report.Courses[0].LetterGrade)
	assert.InDelta(t, 12.0, report.Courses[0].GradePoint, 0.001)
	assert.Equal(t, "B", report.Courses[1].LetterGrade)
	assert.InDelta(t, 12.0, report.Courses[1].GradePoint, 0.001)

	assert.InDelta(t, 7.0, report.SemesterCredit, 0.001)
	assert.InDelta(t, 24.0, report.SemesterGP, 0.001)
	assert.InDelta(t, 24.0/7.0, report.SemesterGPA, 0.001)

	// no previous triple: cumulative equals semester
	assert.InDelta(t, 7.0, report.CumulativeCredit, 0.001)
	assert.InDelta(t, 24.0, report.CumulativeGP, 0.001)
	assert.InDelta(t, 24.0/7.0, report.CumulativeGPA, 0.001)

	assert.Equal(t, models.GradeReportStatusCreated, report.Status)
	assert.Equal(t, "REG001", report.GeneratedBy)
	assert.Equal(t, "Abebe Kebede", report.StudentName)
}

func TestCreateGradeReportAccumulatesPreviousTriple(t *testing.T) {
	svc, _ := newGradeReportFixture()

	prevCredit := 10.0
	prevGP := 32.0
	prevGPA := 3.20
	req := newTestReportRequest()
	req.PreviousCredit = &prevCredit
	req.PreviousGP = &prevGP
	req.PreviousGPA = &prevGPA

	report, err := svc.Create(context.Background(), "REG001", req)
	require.NoError(t, err)

	assert.InDelta(t, 17.0, report.CumulativeCredit, 0.001)
	assert.InDelta(t, 56.0, report.CumulativeGP, 0.001)
	assert.InDelta(t, 56.0/17.0, report.CumulativeGPA, 0.001)
}

func TestCreateGradeReportUnknownStudent(t *testing.T) {
	svc, _ := newGradeReportFixture()
	req := newTestReportRequest()
	req.StudentID = "ETS9999/14"

	_, err := svc.Create(context.Background(), "REG001", req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestCreateGradeReportRequiresCourses(t *testing.T) {
	svc, _ := newGradeReportFixture()
	req := newTestReportRequest()
	req.Courses = nil

	_, err := svc.Create(context.Background(), "REG001", req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestApproveGradeReport(t *testing.T) {
	svc, repo := newGradeReportFixture()
	report, err := svc.Create(context.Background(), "REG001", newTestReportRequest())
	require.NoError(t, err)

	require.NoError(t, svc.Approve(context.Background(), report.ID, "DH001", ApproveGradeReportRequest{Approve: true}))

	stored := repo.reports[report.ID]
	assert.Equal(t, models.GradeReportStatusApproved, stored.Status)
	require.NotNil(t, stored.ApprovedBy)
	assert.Equal(t, "DH001", *stored.ApprovedBy)
}

func TestRejectGradeReportKeepsReason(t *testing.T) {
	svc, repo := newGradeReportFixture()
	report, err := svc.Create(context.Background(), "REG001", newTestReportRequest())
	require.NoError(t, err)

	reason := "wrong credit hours for SWEG3102"
	require.NoError(t, svc.Approve(context.Background(), report.ID, "DH001", ApproveGradeReportRequest{Approve: false, Comment: &reason}))

	stored := repo.reports[report.ID]
	assert.Equal(t, models.GradeReportStatusRejected, stored.Status)
	require.NotNil(t, stored.RejectionReason)
	assert.Equal(t, reason, *stored.RejectionReason)
}

func TestApproveResolvedReportConflicts(t *testing.T) {
	svc, _ := newGradeReportFixture()
	report, err := svc.Create(context.Background(), "REG001", newTestReportRequest())
	require.NoError(t, err)
	require.NoError(t, svc.Approve(context.Background(), report.ID, "DH001", ApproveGradeReportRequest{Approve: true}))

	err = svc.Approve(context.Background(), report.ID, "DH001", ApproveGradeReportRequest{Approve: false})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidState.Code, appErrors.FromError(err).Code)
}

func TestPendingListsOnlyCreated(t *testing.T) {
	svc, _ := newGradeReportFixture()
	first, err := svc.Create(context.Background(), "REG001", newTestReportRequest())
	require.NoError(t, err)
	second, err := svc.Create(context.Background(), "REG001", newTestReportRequest())
	require.NoError(t, err)
	require.NoError(t, svc.Approve(context.Background(), first.ID, "DH001", ApproveGradeReportRequest{Approve: true}))

	pending, err := svc.Pending(context.Background())
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, second.ID, pending[0].ID)
}
