package models

import (
	"time"

	"gorm.io/datatypes"
)

// CalibrationEvent is one completed calibration. Events are append-only
// audit evidence: they are never updated or deleted. Each new event
// rewrites the owning Equipment record's last-cal/next-due date pair.
type CalibrationEvent struct {
	ID           string    `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	RecordNumber string    `gorm:"not null;index" json:"recordNumber"` // e.g. CAL-20260830-a1b2c3
	EquipmentID  string    `gorm:"type:uuid;not null;index" json:"equipmentId"`
	CompanyID    string    `gorm:"type:uuid;not null;index" json:"companyId"`
	Date         time.Time `gorm:"column:calibration_date;not null" json:"calibrationDate"`
	Result       string    `gorm:"default:'pass'" json:"result"` // pass / fail
	NextDueDate  time.Time `json:"nextDueDate"`
	Technician   string    `json:"technician,omitempty"`
	// Traceability holds the certificate identifier or standards reference.
	Traceability string `json:"traceability,omitempty"`
	Comments     string `json:"comments,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

// TableName specifies the table name for CalibrationEvent model
func (CalibrationEvent) TableName() string {
	return "calibration_events"
}

// Certificate is a stored calibration certificate file together with the
// fields the agent extracted from it.
type Certificate struct {
	ID            string         `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	CompanyID     string         `gorm:"type:uuid;not null;index" json:"companyId"`
	EquipmentID   *string        `gorm:"type:uuid;index" json:"equipmentId,omitempty"`
	EventID       *string        `gorm:"type:uuid" json:"eventId,omitempty"`
	Filename      string         `gorm:"not null" json:"filename"`
	OriginalName  string         `json:"originalName"`
	FileSize      int64          `json:"fileSize"`
	MimeType      string         `json:"mimeType"`
	ExtractedData datatypes.JSON `gorm:"type:jsonb" json:"extractedData,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

// TableName specifies the table name for Certificate model
func (Certificate) TableName() string {
	return "certificates"
}
