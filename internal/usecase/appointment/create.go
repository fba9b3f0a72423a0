package appointment

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/appointment-engine/internal/cache"
	domain "github.com/BruksfildServices01/appointment-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/appointment-engine/internal/httperr"
	"github.com/BruksfildServices01/appointment-engine/internal/metrics"
	"github.com/BruksfildServices01/appointment-engine/internal/models"
	"github.com/BruksfildServices01/appointment-engine/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

// CreateAppointmentInput carries the requested start as wall-clock date and
// time in the company's timezone.
type CreateAppointmentInput struct {
	UserID         uint
	ProfessionalID uint
	ServiceIDs     []uint

	Date string // YYYY-MM-DD
	Time string // HH:MM
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo   domain.Repository
	events EventDispatcher
	slots  cache.SlotCache
	policy domain.Policy
	now    Clock
	log    zerolog.Logger
}

func NewCreateAppointment(
	repo domain.Repository,
	events EventDispatcher,
	slots cache.SlotCache,
	policy domain.Policy,
	now Clock,
	log zerolog.Logger,
) *CreateAppointment {
	if slots == nil {
		slots = cache.NopSlotCache{}
	}
	return &CreateAppointment{
		repo:   repo,
		events: events,
		slots:  slots,
		policy: policy,
		now:    now,
		log:    log,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	ap, err := uc.execute(ctx, in)

	switch {
	case err == nil:
		metrics.BookingAttempts.WithLabelValues(metrics.ResultCreated).Inc()
	case httperr.IsKind(err, httperr.KindConflict):
		metrics.BookingAttempts.WithLabelValues(metrics.ResultConflict).Inc()
		uc.log.Debug().Err(err).Uint("professional_id", in.ProfessionalID).Msg("booking conflict")
	case httperr.KindOf(err) != "":
		metrics.BookingAttempts.WithLabelValues(metrics.ResultRejected).Inc()
		uc.log.Debug().Err(err).Uint("professional_id", in.ProfessionalID).Msg("booking rejected")
	default:
		metrics.BookingAttempts.WithLabelValues(metrics.ResultError).Inc()
		uc.log.Error().Err(err).Uint("professional_id", in.ProfessionalID).Msg("booking failed")
	}

	return ap, err
}

func (uc *CreateAppointment) execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	// --------------------------------------------------
	// Professional
	// --------------------------------------------------
	pro, err := uc.repo.FindProfessionalByID(ctx, in.ProfessionalID)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// Services offered by the professional
	// --------------------------------------------------
	services, duration, err := loadServices(ctx, uc.repo, in.ServiceIDs)
	if err != nil {
		return nil, err
	}
	if err := checkOffered(ctx, uc.repo, pro.ID, services); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// Start in the company's timezone, lead time
	// --------------------------------------------------
	start, err := timezone.ParseDateTime(pro.Company.Timezone, in.Date, in.Time)
	if err != nil {
		return nil, httperr.ErrBadRequest("invalid_date_or_time", "date must be YYYY-MM-DD and time HH:MM")
	}

	now := uc.now()
	if start.Before(now) {
		return nil, httperr.ErrBadRequest("start_in_past", "appointment cannot start in the past")
	}
	if start.Before(now.Add(uc.policy.MinBookingAdvance)) {
		return nil, httperr.ErrBadRequest("too_soon", "appointment must be booked further in advance")
	}

	requested := domain.TimeRange{Start: start, End: start.Add(duration)}
	if !requested.Valid() {
		return nil, httperr.ErrBadRequest("invalid_service_duration", "services add up to an empty duration")
	}

	// --------------------------------------------------
	// Working hours
	// --------------------------------------------------
	wh := domain.ResolveWorkingHours(start, schedules(uc.log, pro)...)
	if wh == nil || !wh.Contains(requested) {
		return nil, httperr.ErrBadRequest("outside_working_hours", "requested time is outside working hours")
	}

	// --------------------------------------------------
	// Conflict check + insert, atomically
	// --------------------------------------------------
	ap := &models.Appointment{
		ProfessionalID: pro.ID,
		UserID:         in.UserID,
		Services:       services,
		StartTime:      requested.Start,
		EndTime:        requested.End,
		Status:         string(domain.InitialStatus()),
	}

	err = uc.repo.InsertAppointmentAtomically(ctx, ap, func(ctx context.Context, uow domain.UnitOfWork) error {
		appointments, err := uow.FindAppointments(ctx, pro.ID, requested, domain.StatusCancelled)
		if err != nil {
			return err
		}
		blocks, err := uow.FindScheduleBlocks(ctx, pro.ID, requested)
		if err != nil {
			return err
		}
		if domain.ConflictsWithAny(requested, domain.BusyRanges(appointments, blocks)) {
			return httperr.ErrConflict("time_conflict", "requested time is no longer available")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	invalidateDays(ctx, uc.slots, pro, ap)

	// --------------------------------------------------
	// Event
	// --------------------------------------------------
	ev := domain.NewEvent(domain.EventAppointmentCreated, ap, in.UserID, "", domain.StatusPending, now)
	if err := uc.events.Dispatch(ctx, ev); err != nil {
		uc.log.Error().
			Err(err).
			Uint("appointment_id", ap.ID).
			Msg("failed to dispatch appointment event")
	}

	uc.log.Info().
		Uint("appointment_id", ap.ID).
		Uint("professional_id", pro.ID).
		Time("start", ap.StartTime).
		Msg("appointment created")

	return ap, nil
}
