package appointment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/appointment-engine/internal/httperr"
	"github.com/BruksfildServices01/appointment-engine/internal/models"
)

var (
	now   = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	owner = Actor{UserID: 7, Role: RoleUser}
	admin = Actor{UserID: 1, Role: RoleAdmin}
	pro   = Actor{UserID: 3, Role: RoleProfessional, ProfessionalID: 11}
	other = Actor{UserID: 8, Role: RoleUser}
	rival = Actor{UserID: 4, Role: RoleProfessional, ProfessionalID: 12}
)

func appointmentIn(status Status, startsIn time.Duration) *models.Appointment {
	return &models.Appointment{
		ID:             100,
		ProfessionalID: 11,
		UserID:         7,
		StartTime:      now.Add(startsIn),
		EndTime:        now.Add(startsIn + 30*time.Minute),
		Status:         string(status),
	}
}

func TestTransitionTable(t *testing.T) {
	all := []Status{StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled}
	allowed := map[[2]Status]bool{
		{StatusPending, StatusConfirmed}:   true,
		{StatusPending, StatusCancelled}:   true,
		{StatusConfirmed, StatusCancelled}: true,
		{StatusConfirmed, StatusCompleted}: true,
	}

	for _, from := range all {
		for _, to := range all {
			assert.Equal(t, allowed[[2]Status{from, to}], CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestTransitionPendingToCompletedAlwaysInvalid(t *testing.T) {
	for _, actor := range []Actor{owner, admin, pro, other} {
		ap := appointmentIn(StatusPending, -time.Hour)
		events, err := Transition(ap, StatusCompleted, actor, now, DefaultPolicy())
		assert.Nil(t, events)
		assert.True(t, httperr.IsKind(err, httperr.KindInvalidTransition), "actor %+v", actor)
	}
}

func TestTransitionOutOfTerminalStates(t *testing.T) {
	for _, from := range []Status{StatusCompleted, StatusCancelled} {
		for _, to := range []Status{StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted} {
			_, err := Transition(appointmentIn(from, 5*time.Hour), to, admin, now, DefaultPolicy())
			assert.True(t, httperr.IsKind(err, httperr.KindInvalidTransition), "%s -> %s", from, to)
			assert.True(t, httperr.IsBusiness(err, "appointment_closed"), "%s -> %s", from, to)
		}
	}
}

func TestStatusTerminal(t *testing.T) {
	assert.False(t, StatusPending.Terminal())
	assert.False(t, StatusConfirmed.Terminal())
	assert.True(t, StatusCompleted.Terminal())
	assert.True(t, StatusCancelled.Terminal())
}

func TestTransitionConfirm(t *testing.T) {
	ap := appointmentIn(StatusPending, 5*time.Hour)

	_, err := Transition(ap, StatusConfirmed, owner, now, DefaultPolicy())
	assert.True(t, httperr.IsKind(err, httperr.KindForbidden))

	_, err = Transition(ap, StatusConfirmed, rival, now, DefaultPolicy())
	assert.True(t, httperr.IsKind(err, httperr.KindForbidden))

	events, err := Transition(ap, StatusConfirmed, pro, now, DefaultPolicy())
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, EventAppointmentConfirmed, events[0].Type)
	assert.Equal(t, StatusPending, events[0].From)
	assert.Equal(t, StatusConfirmed, events[0].To)
	assert.Equal(t, uint(100), events[0].AppointmentID)
	assert.Equal(t, uint(3), events[0].ActorID)

	// Transition never mutates its input.
	assert.Equal(t, string(StatusPending), ap.Status)
}

func TestTransitionOwnerCancellationNotice(t *testing.T) {
	ap := appointmentIn(StatusPending, 90*time.Minute)

	_, err := Transition(ap, StatusCancelled, owner, now, DefaultPolicy())
	assert.True(t, httperr.IsKind(err, httperr.KindBadRequest))
	assert.True(t, httperr.IsBusiness(err, "cancellation_too_late"))

	events, err := Transition(ap, StatusCancelled, admin, now, DefaultPolicy())
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, EventAppointmentCancelled, events[0].Type)

	_, err = Transition(ap, StatusCancelled, pro, now, DefaultPolicy())
	assert.NoError(t, err)

	// Exactly at the edge of the window is allowed.
	_, err = Transition(appointmentIn(StatusConfirmed, 2*time.Hour), StatusCancelled, owner, now, DefaultPolicy())
	assert.NoError(t, err)
}

func TestTransitionCancelByStranger(t *testing.T) {
	_, err := Transition(appointmentIn(StatusConfirmed, 24*time.Hour), StatusCancelled, other, now, DefaultPolicy())
	assert.True(t, httperr.IsKind(err, httperr.KindForbidden))
}

func TestTransitionComplete(t *testing.T) {
	_, err := Transition(appointmentIn(StatusConfirmed, time.Hour), StatusCompleted, pro, now, DefaultPolicy())
	assert.True(t, httperr.IsBusiness(err, "appointment_not_started"))

	_, err = Transition(appointmentIn(StatusConfirmed, -time.Hour), StatusCompleted, owner, now, DefaultPolicy())
	assert.True(t, httperr.IsKind(err, httperr.KindForbidden))

	events, err := Transition(appointmentIn(StatusConfirmed, -time.Hour), StatusCompleted, admin, now, DefaultPolicy())
	require.NoError(t, err)
	assert.Equal(t, EventAppointmentCompleted, events[0].Type)
}

func TestApplyStatus(t *testing.T) {
	ap := appointmentIn(StatusPending, time.Hour)
	ApplyStatus(ap, StatusConfirmed, now)

	assert.Equal(t, string(StatusConfirmed), ap.Status)
	require.NotNil(t, ap.ConfirmedAt)
	assert.Equal(t, now, *ap.ConfirmedAt)
	assert.Nil(t, ap.CancelledAt)
	assert.Equal(t, "cancelled_at", StampColumn(StatusCancelled))
}

func TestActorVisibility(t *testing.T) {
	ap := appointmentIn(StatusPending, 3*time.Hour)

	assert.True(t, owner.CanView(ap))
	assert.True(t, admin.CanView(ap))
	assert.True(t, pro.CanView(ap))
	assert.False(t, other.CanView(ap))
	assert.False(t, rival.CanView(ap))

	assert.True(t, pro.ManagesProfessional(11))
	assert.False(t, rival.ManagesProfessional(11))
	assert.True(t, admin.ManagesProfessional(11))
	assert.False(t, owner.ManagesProfessional(11))
}
