package appointment

import (
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/appointment-engine/internal/models"
)

type EventType string

const (
	EventAppointmentCreated   EventType = "APPOINTMENT_CREATED"
	EventAppointmentConfirmed EventType = "APPOINTMENT_CONFIRMED"
	EventAppointmentCancelled EventType = "APPOINTMENT_CANCELLED"
	EventAppointmentCompleted EventType = "APPOINTMENT_COMPLETED"
)

// DomainEvent is handed to the caller after a successful state change for
// activity-feed and gamification consumers. ID lets consumers drop
// redeliveries.
type DomainEvent struct {
	ID             uuid.UUID `json:"id"`
	Type           EventType `json:"type"`
	AppointmentID  uint      `json:"appointment_id"`
	ProfessionalID uint      `json:"professional_id"`
	UserID         uint      `json:"user_id"`
	ActorID        uint      `json:"actor_id"`
	From           Status    `json:"from,omitempty"`
	To             Status    `json:"to"`
	StartTime      time.Time `json:"start_time"`
	OccurredAt     time.Time `json:"occurred_at"`
}

func NewEvent(
	typ EventType,
	ap *models.Appointment,
	actorID uint,
	from, to Status,
	at time.Time,
) DomainEvent {
	return DomainEvent{
		ID:             uuid.New(),
		Type:           typ,
		AppointmentID:  ap.ID,
		ProfessionalID: ap.ProfessionalID,
		UserID:         ap.UserID,
		ActorID:        actorID,
		From:           from,
		To:             to,
		StartTime:      ap.StartTime,
		OccurredAt:     at,
	}
}
