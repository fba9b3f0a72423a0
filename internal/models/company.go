package models

import "time"

type Company struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"size:100;not null" json:"name"`
	Timezone string `gorm:"size:64" json:"timezone"`

	// Fallback for professionals without an entry for a weekday.
	WorkingHours WorkingHours `gorm:"type:jsonb;serializer:json" json:"working_hours"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
