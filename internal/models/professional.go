package models

import "time"

type Professional struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	CompanyID uint    `gorm:"index" json:"company_id"`
	Company   Company `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"company"`
	UserID    uint    `gorm:"index" json:"user_id"`

	Name         string       `gorm:"size:100;not null" json:"name"`
	WorkingHours WorkingHours `gorm:"type:jsonb;serializer:json" json:"working_hours"`

	Services []Service `gorm:"many2many:professional_services;" json:"services,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
