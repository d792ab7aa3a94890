package models

import (
	"time"

	"gorm.io/datatypes"
)

// EmailLog records every email the agent receives or sends for a tenant.
// Inbound rows come from the ingest webhook; MessageID is kept for
// webhook-retry deduplication.
type EmailLog struct {
	ID        string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	CompanyID string `gorm:"type:uuid;not null;index" json:"companyId"`
	Direction string `gorm:"not null" json:"direction"` // inbound / outbound

	FromAddress string `json:"from"`
	ToAddress   string `json:"to"`
	CCAddresses string `json:"cc,omitempty"`
	Subject     string `json:"subject,omitempty"`
	BodyText    string `json:"bodyText,omitempty"`
	BodyHTML    string `json:"-"`

	HasAttachments  bool   `json:"hasAttachments"`
	AttachmentCount int    `json:"attachmentCount"`
	MessageID       string `gorm:"index" json:"messageId,omitempty"`
	InReplyTo       string `json:"inReplyTo,omitempty"`

	// Status: received -> processed for inbound, sent / failed for outbound.
	Status           string         `gorm:"default:'received'" json:"status"`
	ProcessingResult datatypes.JSON `gorm:"type:jsonb" json:"processingResult,omitempty"`
	ProcessedAt      *time.Time     `json:"processedAt,omitempty"`

	CreatedAt time.Time `json:"receivedAt"`
}

// TableName specifies the table name for EmailLog model
func (EmailLog) TableName() string {
	return "email_log"
}
