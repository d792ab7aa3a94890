package models

import (
	"time"

	"gorm.io/gorm"
)

// Equipment represents one physical tool subject to periodic calibration.
// The external field names for this record have drifted across client
// versions (equipment_id -> number -> asset_tag); this struct is the one
// canonical shape and the registry adapter folds the aliases into it.
//
// LastCalDate/NextDueDate are the most recent date pair derived from the
// append-only calibration event ledger. Compliance status is never stored:
// it is always computed fresh from these dates and the current time.
type Equipment struct {
	ID           string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	CompanyID    string `gorm:"type:uuid;not null;uniqueIndex:idx_company_asset_tag" json:"companyId"`
	AssetTag     string `gorm:"not null;uniqueIndex:idx_company_asset_tag" json:"assetTag"`
	Type         string `json:"type,omitempty"`
	Description  string `json:"description,omitempty"`
	Manufacturer string `json:"manufacturer,omitempty"`
	Model        string `json:"model,omitempty"`
	SerialNumber string `json:"serialNumber,omitempty"`
	Location     string `json:"location,omitempty"`
	Building     string `json:"building,omitempty"`
	Ownership    string `json:"ownership,omitempty"`

	// IntervalDays is the calibration interval in days. Incoming month
	// counts and named frequencies are normalized to days on create.
	IntervalDays int  `gorm:"not null;default:365" json:"intervalDays"`
	Critical     bool `gorm:"default:false" json:"critical"`

	// LabName is the calibrating entity, empty until one is assigned.
	LabName string `json:"labName,omitempty"`

	LastCalDate *time.Time `json:"lastCalDate,omitempty"`
	NextDueDate *time.Time `json:"nextDueDate,omitempty"`

	// Status is derived on read, never persisted.
	Status string `gorm:"-" json:"calibrationStatus,omitempty"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for Equipment model
func (Equipment) TableName() string {
	return "equipment"
}
