package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Location string

const (
	LocationInsideGIKI  Location = "inside_giki"
	LocationOutsideGIKI Location = "outside_giki"
)

type Status string

const (
	StatusPending Status = "pending"
	StatusDone    Status = "done"
)

type Beneficiary struct {
	ID             string    `gorm:"primaryKey;type:text" json:"id"`
	Name           *string   `json:"name"`
	CNIC           string    `gorm:"column:cnic;not null;uniqueIndex" json:"cnic"`
	Phone          *string   `json:"phone"`
	Designation    *string   `json:"designation"`
	Location       Location  `gorm:"not null" json:"location"`
	ZakaatEligible TriState  `gorm:"column:zakaat_eligible" json:"zakaat_eligible"`
	Status         Status    `gorm:"not null" json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

func (Beneficiary) TableName() string {
	return "beneficiaries"
}

func (beneficiary *Beneficiary) BeforeCreate(*gorm.DB) error {
	if beneficiary.ID == "" {
		beneficiary.ID = uuid.NewString()
	}
	if beneficiary.Status == "" {
		beneficiary.Status = StatusPending
	}
	return nil
}

// BeneficiaryDetails holds the fields an operator may change after creation.
type BeneficiaryDetails struct {
	Name           *string
	Phone          *string
	Designation    *string
	ZakaatEligible TriState
}

// BeneficiaryChanges is a partial update; nil members are left untouched.
type BeneficiaryChanges struct {
	Details *BeneficiaryDetails
	Status  *Status
}

func (changes BeneficiaryChanges) IsEmpty() bool {
	return changes.Details == nil && changes.Status == nil
}

// Columns maps the changes onto store column names. Nil pointers in Details
// become NULL.
func (changes BeneficiaryChanges) Columns() map[string]any {
	columns := make(map[string]any, 5)
	if changes.Details != nil {
		columns["name"] = changes.Details.Name
		columns["phone"] = changes.Details.Phone
		columns["designation"] = changes.Details.Designation
		columns["zakaat_eligible"] = changes.Details.ZakaatEligible
	}
	if changes.Status != nil {
		columns["status"] = *changes.Status
	}
	return columns
}

func ParseLocation(raw string) (Location, bool) {
	switch Location(strings.ToLower(strings.TrimSpace(raw))) {
	case LocationInsideGIKI:
		return LocationInsideGIKI, true
	case LocationOutsideGIKI:
		return LocationOutsideGIKI, true
	default:
		return "", false
	}
}

func Locations() []Location {
	return []Location{LocationInsideGIKI, LocationOutsideGIKI}
}

func ParseStatus(raw string) (Status, bool) {
	switch Status(strings.ToLower(strings.TrimSpace(raw))) {
	case StatusPending:
		return StatusPending, true
	case StatusDone:
		return StatusDone, true
	default:
		return "", false
	}
}

func (status Status) Toggled() Status {
	if status == StatusDone {
		return StatusPending
	}
	return StatusDone
}

func (beneficiary Beneficiary) Details() BeneficiaryDetails {
	return BeneficiaryDetails{
		Name:           beneficiary.Name,
		Phone:          beneficiary.Phone,
		Designation:    beneficiary.Designation,
		ZakaatEligible: beneficiary.ZakaatEligible,
	}
}

// OptionalString trims raw and returns nil when nothing is left.
func OptionalString(raw string) *string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func StringValue(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
