package appointment

import (
	"fmt"
	"time"

	"github.com/BruksfildServices01/appointment-engine/internal/httperr"
	"github.com/BruksfildServices01/appointment-engine/internal/models"
)

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

func ParseStatus(s string) (Status, bool) {
	switch st := Status(s); st {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return st, true
	}
	return "", false
}

func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// InitialStatus is the status every new booking starts in.
func InitialStatus() Status {
	return StatusPending
}

// ===============================
// Actors
// ===============================

type Role string

const (
	RoleUser         Role = "user"
	RoleProfessional Role = "professional"
	RoleAdmin        Role = "admin"
)

// Actor is whoever asks for a transition. ProfessionalID is set when the
// actor acts as a professional.
type Actor struct {
	UserID         uint
	Role           Role
	ProfessionalID uint
}

// ManagesProfessional: an admin, or the professional itself.
func (a Actor) ManagesProfessional(professionalID uint) bool {
	if a.Role == RoleAdmin {
		return true
	}
	return a.Role == RoleProfessional && a.ProfessionalID != 0 && a.ProfessionalID == professionalID
}

// CanView reports whether the actor may read ap.
func (a Actor) CanView(ap *models.Appointment) bool {
	return a.privilegedFor(ap) || a.owns(ap)
}

func (a Actor) privilegedFor(ap *models.Appointment) bool {
	return a.ManagesProfessional(ap.ProfessionalID)
}

func (a Actor) owns(ap *models.Appointment) bool {
	return a.UserID != 0 && a.UserID == ap.UserID
}

// ===============================
// Transition table
// ===============================

type rule struct {
	// only admins and the appointment's professional
	privilegedOnly bool
	// startTime must already be in the past
	requiresStarted bool
	// owners (not admin/professional) must respect MinCancellationNotice
	ownerNotice bool
	event       EventType
}

var transitions = map[Status]map[Status]rule{
	StatusPending: {
		StatusConfirmed: {privilegedOnly: true, event: EventAppointmentConfirmed},
		StatusCancelled: {ownerNotice: true, event: EventAppointmentCancelled},
	},
	StatusConfirmed: {
		StatusCancelled: {ownerNotice: true, event: EventAppointmentCancelled},
		StatusCompleted: {privilegedOnly: true, requiresStarted: true, event: EventAppointmentCompleted},
	},
}

// CanTransition reports whether from -> to is an edge of the state machine,
// regardless of who asks or when.
func CanTransition(from, to Status) bool {
	_, ok := transitions[from][to]
	return ok
}

// Transition validates moving ap to status to on behalf of actor at now.
// It does not mutate ap: on success it returns the events to publish once
// the change is persisted; on rejection it returns exactly one of the
// InvalidTransition, Forbidden or BadRequest errors and no events.
func Transition(
	ap *models.Appointment,
	to Status,
	actor Actor,
	now time.Time,
	policy Policy,
) ([]DomainEvent, error) {

	from := Status(ap.Status)

	if from.Terminal() {
		return nil, httperr.ErrInvalidTransition(
			"appointment_closed",
			fmt.Sprintf("appointment is already %s", from),
		)
	}

	r, ok := transitions[from][to]
	if !ok {
		return nil, httperr.ErrInvalidTransition(
			"invalid_transition",
			fmt.Sprintf("cannot move appointment from %s to %s", from, to),
		)
	}

	privileged := actor.privilegedFor(ap)

	if r.privilegedOnly && !privileged {
		return nil, httperr.ErrForbidden("not_allowed", "only an admin or the professional may do this")
	}
	if !privileged && !actor.owns(ap) {
		return nil, httperr.ErrForbidden("not_allowed", "not your appointment")
	}

	if r.requiresStarted && !ap.StartTime.Before(now) {
		return nil, httperr.ErrBadRequest("appointment_not_started", "appointment has not started yet")
	}

	if r.ownerNotice && !privileged && ap.StartTime.Sub(now) < policy.MinCancellationNotice {
		return nil, httperr.ErrBadRequest(
			"cancellation_too_late",
			fmt.Sprintf("appointments can only be cancelled at least %s in advance", policy.MinCancellationNotice),
		)
	}

	return []DomainEvent{
		NewEvent(r.event, ap, actor.UserID, from, to, now),
	}, nil
}
