package appointment

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/appointment-engine/internal/cache"
	domain "github.com/BruksfildServices01/appointment-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/appointment-engine/internal/httperr"
	"github.com/BruksfildServices01/appointment-engine/internal/metrics"
	"github.com/BruksfildServices01/appointment-engine/internal/models"
)

type TransitionInput struct {
	AppointmentID uint
	Status        string
	Actor         domain.Actor
}

// TransitionAppointmentStatus confirms, cancels or completes an
// appointment. The status write is a compare-and-swap on the status read
// here, so concurrent transitions of one appointment cannot both win.
type TransitionAppointmentStatus struct {
	repo   domain.Repository
	events EventDispatcher
	slots  cache.SlotCache
	policy domain.Policy
	now    Clock
	log    zerolog.Logger
}

func NewTransitionAppointmentStatus(
	repo domain.Repository,
	events EventDispatcher,
	slots cache.SlotCache,
	policy domain.Policy,
	now Clock,
	log zerolog.Logger,
) *TransitionAppointmentStatus {
	if slots == nil {
		slots = cache.NopSlotCache{}
	}
	return &TransitionAppointmentStatus{
		repo:   repo,
		events: events,
		slots:  slots,
		policy: policy,
		now:    now,
		log:    log,
	}
}

func (uc *TransitionAppointmentStatus) Execute(
	ctx context.Context,
	in TransitionInput,
) (*models.Appointment, error) {

	to, ok := domain.ParseStatus(in.Status)
	if !ok {
		return nil, httperr.ErrBadRequest("invalid_status", "unknown status "+in.Status)
	}

	updated, err := uc.execute(ctx, in, to)

	result := "ok"
	if err != nil {
		result = string(httperr.KindOf(err))
		if result == "" {
			result = metrics.ResultError
		}
	}
	metrics.StatusTransitions.WithLabelValues(string(to), result).Inc()

	return updated, err
}

func (uc *TransitionAppointmentStatus) execute(
	ctx context.Context,
	in TransitionInput,
	to domain.Status,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointment(ctx, in.AppointmentID)
	if err != nil {
		return nil, err
	}

	from := domain.Status(ap.Status)
	now := uc.now()

	events, err := domain.Transition(ap, to, in.Actor, now, uc.policy)
	if err != nil {
		uc.log.Debug().
			Err(err).
			Uint("appointment_id", ap.ID).
			Str("from", string(from)).
			Str("to", string(to)).
			Msg("transition rejected")
		return nil, err
	}

	updated, err := uc.repo.UpdateAppointmentStatus(ctx, ap.ID, from, to, now)
	if err != nil {
		return nil, err
	}

	if err := uc.events.Dispatch(ctx, events...); err != nil {
		uc.log.Error().
			Err(err).
			Uint("appointment_id", ap.ID).
			Msg("failed to dispatch appointment event")
	}

	if pro, err := uc.repo.FindProfessionalByID(ctx, updated.ProfessionalID); err == nil {
		invalidateDays(ctx, uc.slots, pro, updated)
	} else {
		uc.log.Warn().Err(err).Uint("appointment_id", ap.ID).Msg("slot cache not invalidated")
	}

	uc.log.Info().
		Uint("appointment_id", ap.ID).
		Uint("actor_id", in.Actor.UserID).
		Str("from", string(from)).
		Str("to", string(to)).
		Msg("appointment status changed")

	return updated, nil
}
