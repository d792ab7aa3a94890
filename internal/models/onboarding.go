package models

import (
	"time"

	"gorm.io/datatypes"
)

// OnboardingSession tracks one operator's progress through the onboarding
// conversation for one tenant. State only moves forward; a completed
// session is never re-entered.
type OnboardingSession struct {
	ID        string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	CompanyID string `gorm:"type:uuid;not null;uniqueIndex:idx_company_operator" json:"companyId"`
	UserID    string `gorm:"type:uuid;not null;uniqueIndex:idx_company_operator" json:"userId"`
	State     string `gorm:"not null;default:'introduction'" json:"state"`

	// Transcript is the append-only conversation log, the single source
	// of truth for what the operator saw.
	Transcript datatypes.JSON `gorm:"type:jsonb" json:"transcript,omitempty"`

	CompletedAt *time.Time `json:"completedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// TableName specifies the table name for OnboardingSession model
func (OnboardingSession) TableName() string {
	return "onboarding_sessions"
}
