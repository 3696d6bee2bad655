package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aastu-sis/registration-api/internal/models"
)

func TestCostSharingCreateReturnsID(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCostSharingRepository(db)

	now := time.Now().UTC()
	selection := `{"inKind":"Boarding only","inCash":"Food only"}`
	form := &models.CostSharingForm{
		RegistrationSlipID:  4,
		StudentID:           "ETS0001/14",
		TuitionFee15Percent: 1382.11,
		FoodExpense:         22980.00,
		BoardingExpense:     600.00,
		TotalCost:           24962.11,
		ServiceSelection:    &selection,
		Status:              models.CostSharingStatusPending,
		SubmittedAt:         now,
		CreatedAt:           now,
	}

	mock.ExpectQuery("INSERT INTO cost_sharing_forms").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))

	err := repo.Create(context.Background(), form)
	require.NoError(t, err)
	assert.Equal(t, int64(11), form.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCostSharingCreateCarriesStudentFieldsInOneInsert(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCostSharingRepository(db)

	now := time.Now().UTC()
	selection := `{"inKind":"Boarding only","inCash":"Food only"}`
	fullName := "Abebe Bekele"
	identityNo := "ID-4521"
	form := &models.CostSharingForm{
		RegistrationSlipID:  4,
		StudentID:           "ETS0001/14",
		FullName:            &fullName,
		IdentityNo:          &identityNo,
		TuitionFee15Percent: 1382.11,
		FoodExpense:         22980.00,
		BoardingExpense:     600.00,
		TotalCost:           24962.11,
		ServiceSelection:    &selection,
		Status:              models.CostSharingStatusPending,
		SubmittedAt:         now,
		CreatedAt:           now,
	}

	mock.ExpectQuery("INSERT INTO cost_sharing_forms").
		WithArgs(
			int64(4), "ETS0001/14", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			fullName, identityNo,
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			1382.11, 22980.00, 600.00, 24962.11, selection,
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			string(models.CostSharingStatusPending), sqlmock.AnyArg(), sqlmock.AnyArg(), now, now,
		).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(12))

	err := repo.Create(context.Background(), form)
	require.NoError(t, err)
	assert.Equal(t, int64(12), form.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCostSharingFindBySlipID(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCostSharingRepository(db)

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "registration_slip_id", "student_id", "tuition_fee_15_percent", "food_expense",
		"boarding_expense", "total_cost", "status", "submitted_at", "created_at",
	}).AddRow(11, 4, "ETS0001/14", 1382.11, 22980.00, 600.00, 24962.11, string(models.CostSharingStatusPending), now, now)

	mock.ExpectQuery("SELECT .+ FROM cost_sharing_forms WHERE registration_slip_id").
		WithArgs(int64(4)).
		WillReturnRows(rows)

	form, err := repo.FindBySlipID(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, int64(11), form.ID)
	assert.InDelta(t, 24962.11, form.TotalCost, 0.001)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCostSharingReplace(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCostSharingRepository(db)

	fullName := "Abebe Kebede"
	form := &models.CostSharingForm{
		ID:          11,
		FullName:    &fullName,
		Status:      models.CostSharingStatusPending,
		SubmittedAt: time.Now().UTC(),
	}

	mock.ExpectExec("UPDATE cost_sharing_forms SET").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Replace(context.Background(), form)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
