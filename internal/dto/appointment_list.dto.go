package dto

import "time"

type AppointmentListDTO struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"user_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Status    string    `json:"status"`
	Services  []string  `json:"services"`
}
