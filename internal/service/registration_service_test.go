package service

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aastu-sis/registration-api/internal/models"
	"github.com/aastu-sis/registration-api/internal/repository"
	appErrors "github.com/aastu-sis/registration-api/pkg/errors"
	"github.com/aastu-sis/registration-api/pkg/qr"
)

type mockSlipRepo struct {
	slips         map[int64]*models.RegistrationSlip
	nextID        int64
	finalizeErrs  []error
	finalizeCalls int
}

func newMockSlipRepo() *mockSlipRepo {
	return &mockSlipRepo{slips: make(map[int64]*models.RegistrationSlip), nextID: 1}
}

func (m *mockSlipRepo) Create(ctx context.Context, slip *models.RegistrationSlip) error {
	slip.ID = m.nextID
	m.nextID++
	copied := *slip
	m.slips[slip.ID] = &copied
	return nil
}

func (m *mockSlipRepo) FindByID(ctx context.Context, id int64) (*models.RegistrationSlip, error) {
	slip, ok := m.slips[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *slip
	return &copied, nil
}

func (m *mockSlipRepo) ListByStudent(ctx context.Context, studentID string) ([]models.RegistrationSlip, error) {
	var result []models.RegistrationSlip
	for _, slip := range m.slips {
		if slip.StudentID == studentID {
			result = append(result, *slip)
		}
	}
	return result, nil
}

func (m *mockSlipRepo) ListByStatus(ctx context.Context, status models.SlipStatus) ([]models.RegistrationSlip, error) {
	result := []models.RegistrationSlip{}
	for _, slip := range m.slips {
		if slip.Status == status {
			result = append(result, *slip)
		}
	}
	return result, nil
}

func (m *mockSlipRepo) Approve(ctx context.Context, id int64, advisorID string, comment *string, now time.Time) (bool, error) {
	slip, ok := m.slips[id]
	if !ok || slip.Status != models.SlipStatusCreated {
		return false, nil
	}
	slip.Status = models.SlipStatusAdvisorApproved
	slip.IsAdvisorApproved = true
	slip.AdvisorID = &advisorID
	slip.AdvisorComment = comment
	slip.AdvisorApprovedAt = &now
	return true, nil
}

func (m *mockSlipRepo) Reject(ctx context.Context, id int64, advisorID, comment string, now time.Time) (bool, error) {
	slip, ok := m.slips[id]
	if !ok || slip.Status != models.SlipStatusCreated {
		return false, nil
	}
	slip.Status = models.SlipStatusRejected
	slip.AdvisorID = &advisorID
	slip.AdvisorComment = &comment
	return true, nil
}

func (m *mockSlipRepo) VerifyCostSharing(ctx context.Context, slipID int64, officerID string, now time.Time) (bool, error) {
	slip, ok := m.slips[slipID]
	if !ok || slip.Status != models.SlipStatusAdvisorApproved {
		return false, nil
	}
	slip.Status = models.SlipStatusCostSharingVerified
	slip.IsCostSharingVerified = true
	slip.CostSharingOfficerID = &officerID
	slip.CostSharingVerifiedAt = &now
	return true, nil
}

func (m *mockSlipRepo) Finalize(ctx context.Context, id int64, registrarID, serialNumber, qrPayload string, now time.Time) (bool, error) {
	m.finalizeCalls++
	if len(m.finalizeErrs) > 0 {
		err := m.finalizeErrs[0]
		m.finalizeErrs = m.finalizeErrs[1:]
		if err != nil {
			return false, err
		}
	}
	slip, ok := m.slips[id]
	if !ok || slip.Status != models.SlipStatusCostSharingVerified {
		return false, nil
	}
	slip.Status = models.SlipStatusRegistrarFinalized
	slip.IsRegistrarFinalized = true
	slip.RegistrarID = &registrarID
	slip.SerialNumber = &serialNumber
	slip.QrPayload = &qrPayload
	slip.IsLocked = true
	return true, nil
}

type mockStudentDirectory struct {
	students map[string]*models.Student
}

func (m *mockStudentDirectory) FindByStudentID(ctx context.Context, studentID string) (*models.Student, error) {
	if student, ok := m.students[studentID]; ok {
		return student, nil
	}
	return nil, sql.ErrNoRows
}

type mockIssuer struct {
	issued []int64
}

func (m *mockIssuer) Issue(ctx context.Context, slip *models.RegistrationSlip) (*models.CostSharingForm, error) {
	m.issued = append(m.issued, slip.ID)
	return &models.CostSharingForm{
		ID:                 int64(len(m.issued)),
		RegistrationSlipID: slip.ID,
		StudentID:          slip.StudentID,
		TotalCost:          24962.11,
		Status:             models.CostSharingStatusPending,
	}, nil
}

type mockFormReader struct {
	forms map[int64]*models.CostSharingForm
}

func (m *mockFormReader) FindBySlipID(ctx context.Context, slipID int64) (*models.CostSharingForm, error) {
	if form, ok := m.forms[slipID]; ok {
		return form, nil
	}
	return nil, sql.ErrNoRows
}

type mockNotifier struct {
	sent []int64
}

func (m *mockNotifier) SendCostSharingForm(slip models.RegistrationSlip, student models.Student, form models.CostSharingForm) {
	m.sent = append(m.sent, slip.ID)
}

type mockAudit struct {
	actions []string
}

func (m *mockAudit) Record(actorID string, role models.Role, action, details string) {
	m.actions = append(m.actions, action)
}

func (m *mockAudit) ListRecent(ctx context.Context, limit int) ([]models.AuditLog, error) {
	return nil, nil
}

type fixture struct {
	svc      *RegistrationService
	slips    *mockSlipRepo
	issuer   *mockIssuer
	notifier *mockNotifier
	audit    *mockAudit
	forms    *mockFormReader
}

func newFixture() *fixture {
	slips := newMockSlipRepo()
	students := &mockStudentDirectory{students: map[string]*models.Student{
		"ETS0001/14": {
			StudentID:       "ETS0001/14",
			FullName:        "Abebe Kebede",
			Department:      "Software Engineering",
			EnrollmentYear:  2023,
			UniversityEmail: "abebe.kebede@aastustudent.edu.et",
		},
	}}
	issuer := &mockIssuer{}
	notifier := &mockNotifier{}
	audit := &mockAudit{}
	forms := &mockFormReader{forms: make(map[int64]*models.CostSharingForm)}

	svc := NewRegistrationService(slips, students, forms, issuer, notifier, audit, qr.NewBase64Encoder(), nil, nil, nil)
	return &fixture{svc: svc, slips: slips, issuer: issuer, notifier: notifier, audit: audit, forms: forms}
}

func newTestSlipRequest() CreateSlipRequest {
	return CreateSlipRequest{
		StudentID: "ETS0001/14",
		Semester:  "First",
		Courses: []CourseInput{
			{CourseCode: "SWEG3101", CourseName: "Operating Systems", CreditHours: 4},
			{CourseCode: "SWEG3102", CourseName: "Computer Networks", CreditHours: 3},
		},
	}
}

func TestCreateSlipComputesTotals(t *testing.T) {
	f := newFixture()

	slip, err := f.svc.CreateSlip(context.Background(), models.Actor{ID: "ETS0001/14", Role: models.RoleStudent}, newTestSlipRequest())
	require.NoError(t, err)

	assert.Equal(t, models.SlipStatusCreated, slip.Status)
	assert.Equal(t, 7, slip.TotalCreditHours)
	assert.Equal(t, "Software Engineering", slip.Department)
	assert.False(t, slip.IsLocked)
	assert.Contains(t, f.audit.actions, models.AuditActionSlipCreated)
}

func TestCreateSlipUnknownStudent(t *testing.T) {
	f := newFixture()
	req := newTestSlipRequest()
	req.StudentID = "ETS9999/14"

	_, err := f.svc.CreateSlip(context.Background(), models.Actor{ID: "ETS9999/14", Role: models.RoleStudent}, req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestCreateSlipRejectsEmptyCourses(t *testing.T) {
	f := newFixture()
	req := newTestSlipRequest()
	req.Courses = nil

	_, err := f.svc.CreateSlip(context.Background(), models.Actor{ID: "ETS0001/14", Role: models.RoleStudent}, req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestApproveIssuesFormAndNotifies(t *testing.T) {
	f := newFixture()
	slip, err := f.svc.CreateSlip(context.Background(), models.Actor{ID: "ETS0001/14", Role: models.RoleStudent}, newTestSlipRequest())
	require.NoError(t, err)

	err = f.svc.Approve(context.Background(), slip.ID, "ADV001", nil)
	require.NoError(t, err)

	stored, _ := f.slips.FindByID(context.Background(), slip.ID)
	assert.Equal(t, models.SlipStatusAdvisorApproved, stored.Status)
	assert.Equal(t, []int64{slip.ID}, f.issuer.issued)
	assert.Equal(t, []int64{slip.ID}, f.notifier.sent)
	assert.Contains(t, f.audit.actions, models.AuditActionSlipApproved)
}

func TestApproveTwiceConflicts(t *testing.T) {
	f := newFixture()
	slip, _ := f.svc.CreateSlip(context.Background(), models.Actor{ID: "ETS0001/14", Role: models.RoleStudent}, newTestSlipRequest())
	require.NoError(t, f.svc.Approve(context.Background(), slip.ID, "ADV001", nil))

	err := f.svc.Approve(context.Background(), slip.ID, "ADV001", nil)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidState.Code, appErrors.FromError(err).Code)
	assert.Len(t, f.issuer.issued, 1)
}

func TestRejectOnlyFromCreated(t *testing.T) {
	f := newFixture()
	slip, _ := f.svc.CreateSlip(context.Background(), models.Actor{ID: "ETS0001/14", Role: models.RoleStudent}, newTestSlipRequest())

	require.NoError(t, f.svc.Reject(context.Background(), slip.ID, "ADV001", "credit overload"))

	stored, _ := f.slips.FindByID(context.Background(), slip.ID)
	assert.Equal(t, models.SlipStatusRejected, stored.Status)

	err := f.svc.Approve(context.Background(), slip.ID, "ADV001", nil)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidState.Code, appErrors.FromError(err).Code)
}

func TestVerifyCostSharingRequiresForm(t *testing.T) {
	f := newFixture()
	slip, _ := f.svc.CreateSlip(context.Background(), models.Actor{ID: "ETS0001/14", Role: models.RoleStudent}, newTestSlipRequest())
	require.NoError(t, f.svc.Approve(context.Background(), slip.ID, "ADV001", nil))

	// form reader knows nothing about this slip
	err := f.svc.VerifyCostSharing(context.Background(), slip.ID, "CSO001")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidState.Code, appErrors.FromError(err).Code)
}

func TestVerifyCostSharingAdvancesSlip(t *testing.T) {
	f := newFixture()
	slip, _ := f.svc.CreateSlip(context.Background(), models.Actor{ID: "ETS0001/14", Role: models.RoleStudent}, newTestSlipRequest())
	require.NoError(t, f.svc.Approve(context.Background(), slip.ID, "ADV001", nil))
	f.forms.forms[slip.ID] = &models.CostSharingForm{ID: 1, RegistrationSlipID: slip.ID, Status: models.CostSharingStatusPending}

	require.NoError(t, f.svc.VerifyCostSharing(context.Background(), slip.ID, "CSO001"))

	stored, _ := f.slips.FindByID(context.Background(), slip.ID)
	assert.Equal(t, models.SlipStatusCostSharingVerified, stored.Status)
	assert.Contains(t, f.audit.actions, models.AuditActionCostSharingVerified)
}

func TestFinalizeMintsSerialAndLocks(t *testing.T) {
	f := newFixture()
	slip, _ := f.svc.CreateSlip(context.Background(), models.Actor{ID: "ETS0001/14", Role: models.RoleStudent}, newTestSlipRequest())
	require.NoError(t, f.svc.Approve(context.Background(), slip.ID, "ADV001", nil))
	f.forms.forms[slip.ID] = &models.CostSharingForm{ID: 1, RegistrationSlipID: slip.ID, Status: models.CostSharingStatusPending}
	require.NoError(t, f.svc.VerifyCostSharing(context.Background(), slip.ID, "CSO001"))

	require.NoError(t, f.svc.Finalize(context.Background(), slip.ID, "REG001"))

	stored, _ := f.slips.FindByID(context.Background(), slip.ID)
	assert.Equal(t, models.SlipStatusRegistrarFinalized, stored.Status)
	assert.True(t, stored.IsLocked)
	require.NotNil(t, stored.SerialNumber)
	assert.Regexp(t, regexp.MustCompile(`^AASTU-\d{8}-[0-9A-F]{8}$`), *stored.SerialNumber)
	require.NotNil(t, stored.QrPayload)
	assert.NotEmpty(t, *stored.QrPayload)
}

func TestFinalizeRetriesSerialCollisionOnce(t *testing.T) {
	f := newFixture()
	slip, _ := f.svc.CreateSlip(context.Background(), models.Actor{ID: "ETS0001/14", Role: models.RoleStudent}, newTestSlipRequest())
	require.NoError(t, f.svc.Approve(context.Background(), slip.ID, "ADV001", nil))
	f.forms.forms[slip.ID] = &models.CostSharingForm{ID: 1, RegistrationSlipID: slip.ID, Status: models.CostSharingStatusPending}
	require.NoError(t, f.svc.VerifyCostSharing(context.Background(), slip.ID, "CSO001"))

	f.slips.finalizeErrs = []error{repository.ErrDuplicateSerial}
	require.NoError(t, f.svc.Finalize(context.Background(), slip.ID, "REG001"))
	assert.Equal(t, 2, f.slips.finalizeCalls)
}

func TestFinalizeGivesUpAfterSecondCollision(t *testing.T) {
	f := newFixture()
	slip, _ := f.svc.CreateSlip(context.Background(), models.Actor{ID: "ETS0001/14", Role: models.RoleStudent}, newTestSlipRequest())
	require.NoError(t, f.svc.Approve(context.Background(), slip.ID, "ADV001", nil))
	f.forms.forms[slip.ID] = &models.CostSharingForm{ID: 1, RegistrationSlipID: slip.ID, Status: models.CostSharingStatusPending}
	require.NoError(t, f.svc.VerifyCostSharing(context.Background(), slip.ID, "CSO001"))

	f.slips.finalizeErrs = []error{repository.ErrDuplicateSerial, repository.ErrDuplicateSerial}
	err := f.svc.Finalize(context.Background(), slip.ID, "REG001")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestFinalizeRequiresVerifiedSlip(t *testing.T) {
	f := newFixture()
	slip, _ := f.svc.CreateSlip(context.Background(), models.Actor{ID: "ETS0001/14", Role: models.RoleStudent}, newTestSlipRequest())

	err := f.svc.Finalize(context.Background(), slip.ID, "REG001")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidState.Code, appErrors.FromError(err).Code)
}

func TestFinalizeFailsFromAdvisorApproved(t *testing.T) {
	f := newFixture()
	slip, _ := f.svc.CreateSlip(context.Background(), models.Actor{ID: "ETS0001/14", Role: models.RoleStudent}, newTestSlipRequest())
	require.NoError(t, f.svc.Approve(context.Background(), slip.ID, "ADV001", nil))

	err := f.svc.Finalize(context.Background(), slip.ID, "REG001")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidState.Code, appErrors.FromError(err).Code)

	stored, _ := f.slips.FindByID(context.Background(), slip.ID)
	assert.Equal(t, models.SlipStatusAdvisorApproved, stored.Status)
	assert.Nil(t, stored.SerialNumber)
	assert.False(t, stored.IsLocked)
}

func TestPendingForRoleProjections(t *testing.T) {
	f := newFixture()
	slip, _ := f.svc.CreateSlip(context.Background(), models.Actor{ID: "ETS0001/14", Role: models.RoleStudent}, newTestSlipRequest())

	pending, err := f.svc.PendingForRole(context.Background(), models.RoleAdvisor)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, slip.ID, pending[0].ID)

	pending, err = f.svc.PendingForRole(context.Background(), models.RoleCostSharingOfficer)
	require.NoError(t, err)
	assert.Empty(t, pending)

	require.NoError(t, f.svc.Approve(context.Background(), slip.ID, "ADV001", nil))

	pending, err = f.svc.PendingForRole(context.Background(), models.RoleCostSharingOfficer)
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	pending, err = f.svc.PendingForRole(context.Background(), models.RoleStudent)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestGetSlipNotFound(t *testing.T) {
	f := newFixture()
	_, err := f.svc.GetSlip(context.Background(), 42)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestSerialNumberFormat(t *testing.T) {
	now := time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC)
	serial := generateSerialNumber(now)
	assert.Regexp(t, regexp.MustCompile(`^AASTU-20250901-[0-9A-F]{8}$`), serial)

	other := generateSerialNumber(now)
	assert.NotEqual(t, serial, other)
}
