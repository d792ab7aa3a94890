package models

import (
	"time"

	"gorm.io/gorm"
)

// Company is one tenant. The Slug doubles as the registration code
// operators enter when signing up; tenants are provisioned out of band.
type Company struct {
	ID       string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Name     string `gorm:"not null" json:"name"`
	Slug     string `gorm:"unique;not null" json:"slug"`
	MaxUsers int    `gorm:"default:10" json:"maxUsers"`
	MaxTools int    `gorm:"default:500" json:"maxTools"`
	IsActive bool   `gorm:"default:true" json:"isActive"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for Company model
func (Company) TableName() string {
	return "companies"
}
