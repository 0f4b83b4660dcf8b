package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/terraincognita07/rationportal/internal/models"
	"go.uber.org/zap"
)

// BeneficiaryForm is the raw input of the add and edit forms.
type BeneficiaryForm struct {
	CNIC           string `json:"cnic" form:"cnic"`
	Name           string `json:"name" form:"name"`
	Phone          string `json:"phone" form:"phone"`
	Designation    string `json:"designation" form:"designation"`
	ZakaatEligible string `json:"zakaat_eligible" form:"zakaat_eligible"`
}

func FormFromBeneficiary(beneficiary models.Beneficiary) BeneficiaryForm {
	return BeneficiaryForm{
		CNIC:           beneficiary.CNIC,
		Name:           models.StringValue(beneficiary.Name),
		Phone:          models.StringValue(beneficiary.Phone),
		Designation:    models.StringValue(beneficiary.Designation),
		ZakaatEligible: beneficiary.ZakaatEligible.FormValue(),
	}
}

// Details converts the optional fields; blanks become nil.
func (form BeneficiaryForm) Details() models.BeneficiaryDetails {
	return models.BeneficiaryDetails{
		Name:           models.OptionalString(form.Name),
		Phone:          models.OptionalString(form.Phone),
		Designation:    models.OptionalString(form.Designation),
		ZakaatEligible: models.ParseTriState(form.ZakaatEligible),
	}
}

// Create inserts a new pending beneficiary into location. A duplicate CNIC
// surfaces as store.ErrConflict.
func (service *BeneficiaryService) Create(ctx context.Context, location models.Location, form BeneficiaryForm) (models.Beneficiary, error) {
	if _, ok := models.ParseLocation(string(location)); !ok {
		return models.Beneficiary{}, &ValidationError{Field: "location", Err: ErrInvalidLocation}
	}
	cnic := strings.TrimSpace(form.CNIC)
	if cnic == "" {
		return models.Beneficiary{}, &ValidationError{Field: "cnic", Err: ErrCNICRequired}
	}

	details := form.Details()
	record := models.Beneficiary{
		CNIC:           cnic,
		Name:           details.Name,
		Phone:          details.Phone,
		Designation:    details.Designation,
		Location:       location,
		ZakaatEligible: details.ZakaatEligible,
		Status:         models.StatusPending,
	}

	id, err := service.store.InsertOne(ctx, &record)
	if err != nil {
		return models.Beneficiary{}, fmt.Errorf("create beneficiary: %w", err)
	}
	record.ID = id

	service.logger.Info("beneficiary created",
		zap.String("id", id),
		zap.String("location", string(location)),
	)
	service.refreshKnownCNICs(ctx)
	return record, nil
}

// Update rewrites the editable fields. CNIC and location in the form are
// ignored.
func (service *BeneficiaryService) Update(ctx context.Context, id string, form BeneficiaryForm) error {
	details := form.Details()
	if err := service.store.UpdateByID(ctx, id, models.BeneficiaryChanges{Details: &details}); err != nil {
		return fmt.Errorf("update beneficiary: %w", err)
	}
	return nil
}
