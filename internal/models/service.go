package models

import "time"

type Service struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	CompanyID uint `gorm:"index" json:"company_id"`

	Name string `gorm:"size:100;not null" json:"name"`
	// "60", "30min", "2h", "1h30min" or "PT1H30M".
	Duration string  `gorm:"size:20;not null" json:"duration"`
	Price    float64 `json:"price"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
