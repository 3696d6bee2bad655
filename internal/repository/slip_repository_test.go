package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aastu-sis/registration-api/internal/models"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxdb := sqlx.NewDb(db, "sqlmock")
	return sqlxdb, mock, func() {
		db.Close()
	}
}

func TestSlipCreateInsertsCourses(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSlipRepository(db)

	now := time.Now().UTC()
	slip := &models.RegistrationSlip{
		StudentID:        "ETS0001/14",
		StudentName:      "Abebe Kebede",
		Department:       "Software Engineering",
		Semester:         "First",
		AcademicYear:     3,
		TotalCreditHours: 8,
		Status:           models.SlipStatusCreated,
		CreatedAt:        now,
		Courses: []models.SlipCourse{
			{CourseCode: "SWEG3101", CourseName: "Operating Systems", CreditHours: 4},
			{CourseCode: "SWEG3102", CourseName: "Computer Networks", CreditHours: 4},
		},
	}

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO registration_slips").
		WithArgs("ETS0001/14", "Abebe Kebede", "Software Engineering", "First", 3, 8, string(models.SlipStatusCreated), now).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectExec("INSERT INTO registration_slip_courses").
		WithArgs(int64(7), "SWEG3101", "Operating Systems", 4).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO registration_slip_courses").
		WithArgs(int64(7), "SWEG3102", "Computer Networks", 4).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	err := repo.Create(context.Background(), slip)
	require.NoError(t, err)
	assert.Equal(t, int64(7), slip.ID)
	assert.Equal(t, int64(7), slip.Courses[0].SlipID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSlipApproveGuardedByStatus(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSlipRepository(db)

	now := time.Now().UTC()
	comment := "looks good"

	mock.ExpectExec("UPDATE registration_slips").
		WithArgs(int64(5), string(models.SlipStatusAdvisorApproved), "ADV001", comment, now, string(models.SlipStatusCreated)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := repo.Approve(context.Background(), 5, "ADV001", &comment, now)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSlipApproveWrongStatusAffectsNothing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSlipRepository(db)

	now := time.Now().UTC()
	mock.ExpectExec("UPDATE registration_slips").
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.Approve(context.Background(), 5, "ADV001", nil, now)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVerifyCostSharingRollsBackWhenFormMisses(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSlipRepository(db)

	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE registration_slips").
		WithArgs(int64(5), string(models.SlipStatusCostSharingVerified), "CSO001", now, string(models.SlipStatusAdvisorApproved)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE cost_sharing_forms").
		WithArgs(int64(5), string(models.CostSharingStatusVerified), "CSO001", now, string(models.CostSharingStatusPending)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	ok, err := repo.VerifyCostSharing(context.Background(), 5, "CSO001", now)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVerifyCostSharingCommitsWhenBothHit(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSlipRepository(db)

	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE registration_slips").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE cost_sharing_forms").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	ok, err := repo.VerifyCostSharing(context.Background(), 5, "CSO001", now)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFinalizeMapsUniqueViolation(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSlipRepository(db)

	now := time.Now().UTC()
	mock.ExpectExec("UPDATE registration_slips").
		WillReturnError(&pq.Error{Code: "23505"})

	ok, err := repo.Finalize(context.Background(), 5, "REG001", "AASTU-20250901-DEADBEEF", "payload", now)
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrDuplicateSerial)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFinalizeWrongStatusAffectsNothing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSlipRepository(db)

	now := time.Now().UTC()
	mock.ExpectExec("UPDATE registration_slips").
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.Finalize(context.Background(), 5, "REG001", "AASTU-20250901-DEADBEEF", "payload", now)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}
