package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aastu-sis/registration-api/internal/models"
	"github.com/aastu-sis/registration-api/pkg/config"
	appErrors "github.com/aastu-sis/registration-api/pkg/errors"
)

var testSchedule = config.CostSharingConfig{
	TuitionFee15Percent: 1382.11,
	FoodExpense:         22980.00,
	BoardingExpense:     600.00,
	InKindSelection:     "Boarding only",
	InCashSelection:     "Food only",
}

type mockFormStore struct {
	bySlip   map[int64]*models.CostSharingForm
	nextID   int64
	replaced int
}

func newMockFormStore() *mockFormStore {
	return &mockFormStore{bySlip: make(map[int64]*models.CostSharingForm), nextID: 1}
}

func (m *mockFormStore) Create(ctx context.Context, form *models.CostSharingForm) error {
	form.ID = m.nextID
	m.nextID++
	copied := *form
	m.bySlip[form.RegistrationSlipID] = &copied
	return nil
}

func (m *mockFormStore) FindBySlipID(ctx context.Context, slipID int64) (*models.CostSharingForm, error) {
	if form, ok := m.bySlip[slipID]; ok {
		copied := *form
		return &copied, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockFormStore) FindByID(ctx context.Context, id int64) (*models.CostSharingForm, error) {
	for _, form := range m.bySlip {
		if form.ID == id {
			copied := *form
			return &copied, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockFormStore) Replace(ctx context.Context, form *models.CostSharingForm) error {
	m.replaced++
	copied := *form
	m.bySlip[form.RegistrationSlipID] = &copied
	return nil
}

type mockVerifier struct {
	verified []int64
}

func (m *mockVerifier) VerifyCostSharing(ctx context.Context, slipID int64, officerID string) error {
	m.verified = append(m.verified, slipID)
	return nil
}

type costSharingFixture struct {
	svc      *CostSharingService
	forms    *mockFormStore
	slips    *mockSlipRepo
	verifier *mockVerifier
}

func newCostSharingFixture() *costSharingFixture {
	forms := newMockFormStore()
	slips := newMockSlipRepo()
	verifier := &mockVerifier{}
	issuer := NewCostSharingIssuer(forms, testSchedule)
	svc := NewCostSharingService(forms, slips, issuer, verifier, &mockAudit{}, nil, nil)
	return &costSharingFixture{svc: svc, forms: forms, slips: slips, verifier: verifier}
}

func (f *costSharingFixture) seedSlip(status models.SlipStatus) *models.RegistrationSlip {
	slip := &models.RegistrationSlip{
		StudentID:   "ETS0001/14",
		StudentName: "Abebe Kebede",
		Department:  "Software Engineering",
		Semester:    "First",
		Status:      status,
	}
	_ = f.slips.Create(context.Background(), slip)
	return slip
}

func TestIssuerScheduleTotal(t *testing.T) {
	issuer := NewCostSharingIssuer(newMockFormStore(), testSchedule)
	slip := &models.RegistrationSlip{ID: 3, StudentID: "ETS0001/14"}

	form := issuer.NewForm(slip)

	assert.InDelta(t, 1382.11, form.TuitionFee15Percent, 0.001)
	assert.InDelta(t, 22980.00, form.FoodExpense, 0.001)
	assert.InDelta(t, 600.00, form.BoardingExpense, 0.001)
	assert.InDelta(t, 24962.11, form.TotalCost, 0.001)
	assert.Equal(t, models.CostSharingStatusPending, form.Status)

	require.NotNil(t, form.ServiceSelection)
	var selection map[string]string
	require.NoError(t, json.Unmarshal([]byte(*form.ServiceSelection), &selection))
	assert.Equal(t, "Boarding only", selection["inKind"])
	assert.Equal(t, "Food only", selection["inCash"])
}

func TestSubmitCreatesFormWhenMissing(t *testing.T) {
	f := newCostSharingFixture()
	slip := f.seedSlip(models.SlipStatusAdvisorApproved)

	fullName := "Abebe Kebede"
	form, err := f.svc.Submit(context.Background(), "ETS0001/14", SubmitCostSharingRequest{
		SlipID:   slip.ID,
		FullName: &fullName,
	})
	require.NoError(t, err)

	assert.Equal(t, models.CostSharingStatusPending, form.Status)
	assert.InDelta(t, 24962.11, form.TotalCost, 0.001)
	require.NotNil(t, form.FullName)
	assert.Equal(t, "Abebe Kebede", *form.FullName)

	// the create path persists schedule and student fields in one write
	assert.Equal(t, 0, f.forms.replaced)
	stored, err := f.forms.FindBySlipID(context.Background(), slip.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.FullName)
	assert.Equal(t, "Abebe Kebede", *stored.FullName)
	assert.InDelta(t, 24962.11, stored.TotalCost, 0.001)
}

func TestSubmitReplacesExistingForm(t *testing.T) {
	f := newCostSharingFixture()
	slip := f.seedSlip(models.SlipStatusAdvisorApproved)

	first := "First Attempt"
	_, err := f.svc.Submit(context.Background(), "ETS0001/14", SubmitCostSharingRequest{SlipID: slip.ID, FullName: &first})
	require.NoError(t, err)

	second := "Second Attempt"
	identity := "ID-42"
	form, err := f.svc.Submit(context.Background(), "ETS0001/14", SubmitCostSharingRequest{SlipID: slip.ID, FullName: &second, IdentityNo: &identity})
	require.NoError(t, err)

	assert.Equal(t, "Second Attempt", *form.FullName)
	assert.Equal(t, "ID-42", *form.IdentityNo)

	// replace, not merge: omitted fields are cleared
	third := "Third Attempt"
	form, err = f.svc.Submit(context.Background(), "ETS0001/14", SubmitCostSharingRequest{SlipID: slip.ID, FullName: &third})
	require.NoError(t, err)
	assert.Nil(t, form.IdentityNo)
	// the issued service selection survives omission
	assert.NotNil(t, form.ServiceSelection)
}

func TestSubmitRejectsForeignSlip(t *testing.T) {
	f := newCostSharingFixture()
	slip := f.seedSlip(models.SlipStatusAdvisorApproved)

	_, err := f.svc.Submit(context.Background(), "ETS0002/14", SubmitCostSharingRequest{SlipID: slip.ID})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestSubmitRequiresAdvisorApprovedSlip(t *testing.T) {
	f := newCostSharingFixture()
	slip := f.seedSlip(models.SlipStatusCreated)

	_, err := f.svc.Submit(context.Background(), "ETS0001/14", SubmitCostSharingRequest{SlipID: slip.ID})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidState.Code, appErrors.FromError(err).Code)
}

func TestVerifyDelegatesToSlipStateMachine(t *testing.T) {
	f := newCostSharingFixture()
	slip := f.seedSlip(models.SlipStatusAdvisorApproved)
	form, err := f.svc.Submit(context.Background(), "ETS0001/14", SubmitCostSharingRequest{SlipID: slip.ID})
	require.NoError(t, err)

	require.NoError(t, f.svc.Verify(context.Background(), form.ID, "CSO001"))
	assert.Equal(t, []int64{slip.ID}, f.verifier.verified)
}

func TestVerifyUnknownForm(t *testing.T) {
	f := newCostSharingFixture()
	err := f.svc.Verify(context.Background(), 99, "CSO001")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
