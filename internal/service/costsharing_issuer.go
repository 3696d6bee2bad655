package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/aastu-sis/registration-api/internal/models"
	"github.com/aastu-sis/registration-api/pkg/config"
	appErrors "github.com/aastu-sis/registration-api/pkg/errors"
)

type costFormCreator interface {
	Create(ctx context.Context, form *models.CostSharingForm) error
}

// CostSharingIssuer materializes cost-sharing forms from the configured
// schedule. The schedule is fixed per configuration, not computed from fee
// tables; the total is always the sum of the three components.
type CostSharingIssuer struct {
	forms    costFormCreator
	schedule config.CostSharingConfig
}

// NewCostSharingIssuer constructs a CostSharingIssuer.
func NewCostSharingIssuer(forms costFormCreator, schedule config.CostSharingConfig) *CostSharingIssuer {
	return &CostSharingIssuer{forms: forms, schedule: schedule}
}

// NewForm builds an unsaved form for the slip with the schedule stamped in.
func (i *CostSharingIssuer) NewForm(slip *models.RegistrationSlip) *models.CostSharingForm {
	now := time.Now().UTC()
	selection, _ := json.Marshal(map[string]string{
		"inKind": i.schedule.InKindSelection,
		"inCash": i.schedule.InCashSelection,
	})
	selectionText := string(selection)

	return &models.CostSharingForm{
		RegistrationSlipID:  slip.ID,
		StudentID:           slip.StudentID,
		TuitionFee15Percent: i.schedule.TuitionFee15Percent,
		FoodExpense:         i.schedule.FoodExpense,
		BoardingExpense:     i.schedule.BoardingExpense,
		TotalCost:           i.schedule.Total(),
		ServiceSelection:    &selectionText,
		Status:              models.CostSharingStatusPending,
		SubmittedAt:         now,
		CreatedAt:           now,
	}
}

// Issue creates and persists the form triggered by advisor approval.
func (i *CostSharingIssuer) Issue(ctx context.Context, slip *models.RegistrationSlip) (*models.CostSharingForm, error) {
	form := i.NewForm(slip)
	if err := i.forms.Create(ctx, form); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create cost sharing form")
	}
	return form, nil
}
