package appointment

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/appointment-engine/internal/cache"
	domain "github.com/BruksfildServices01/appointment-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/appointment-engine/internal/httperr"
	"github.com/BruksfildServices01/appointment-engine/internal/models"
	"github.com/BruksfildServices01/appointment-engine/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

// GetAvailabilityInput targets exactly one of ProfessionalID or CompanyID.
type GetAvailabilityInput struct {
	Date           string // YYYY-MM-DD
	ServiceIDs     []uint
	ProfessionalID uint
	CompanyID      uint
}

// ======================================================
// USE CASE
// ======================================================

type GetAvailability struct {
	repo   domain.Repository
	slots  cache.SlotCache
	policy domain.Policy
	now    Clock
	log    zerolog.Logger
}

func NewGetAvailability(
	repo domain.Repository,
	slots cache.SlotCache,
	policy domain.Policy,
	now Clock,
	log zerolog.Logger,
) *GetAvailability {
	if slots == nil {
		slots = cache.NopSlotCache{}
	}
	return &GetAvailability{
		repo:   repo,
		slots:  slots,
		policy: policy,
		now:    now,
		log:    log,
	}
}

// Execute returns the bookable "HH:MM" start times, ascending. A closed
// day is an empty list.
func (uc *GetAvailability) Execute(
	ctx context.Context,
	in GetAvailabilityInput,
) ([]string, error) {

	switch {
	case in.ProfessionalID != 0 && in.CompanyID != 0:
		return nil, httperr.ErrBadRequest("invalid_target", "use either professional or company, not both")
	case in.ProfessionalID != 0:
		return uc.forProfessional(ctx, in)
	case in.CompanyID != 0:
		return uc.forCompany(ctx, in)
	}
	return nil, httperr.ErrBadRequest("invalid_target", "professional or company is required")
}

func (uc *GetAvailability) forProfessional(
	ctx context.Context,
	in GetAvailabilityInput,
) ([]string, error) {

	pro, err := uc.repo.FindProfessionalByID(ctx, in.ProfessionalID)
	if err != nil {
		return nil, err
	}

	services, duration, err := loadServices(ctx, uc.repo, in.ServiceIDs)
	if err != nil {
		return nil, err
	}
	if err := checkOffered(ctx, uc.repo, pro.ID, services); err != nil {
		return nil, err
	}

	return uc.slotsFor(ctx, pro, in.Date, duration)
}

// forCompany is the union of the slots of every professional that offers
// all requested services.
func (uc *GetAvailability) forCompany(
	ctx context.Context,
	in GetAvailabilityInput,
) ([]string, error) {

	if _, err := uc.repo.FindCompanyByID(ctx, in.CompanyID); err != nil {
		return nil, err
	}

	services, duration, err := loadServices(ctx, uc.repo, in.ServiceIDs)
	if err != nil {
		return nil, err
	}
	for _, s := range services {
		if s.CompanyID != in.CompanyID {
			return nil, httperr.ErrNotFound(
				"service_not_found",
				fmt.Sprintf("service %d not found in company %d", s.ID, in.CompanyID),
			)
		}
	}

	pros, err := uc.repo.ListProfessionalsByCompany(ctx, in.CompanyID)
	if err != nil {
		return nil, err
	}

	union := map[string]bool{}
	for i := range pros {
		pro := &pros[i]

		if err := checkOffered(ctx, uc.repo, pro.ID, services); err != nil {
			if httperr.IsBusiness(err, "service_professional_mismatch") {
				continue
			}
			return nil, err
		}

		slots, err := uc.slotsFor(ctx, pro, in.Date, duration)
		if err != nil {
			return nil, err
		}
		for _, s := range slots {
			union[s] = true
		}
	}

	out := make([]string, 0, len(union))
	for s := range union {
		out = append(out, s)
	}
	sort.Strings(out)
	return out, nil
}

// slotsFor computes (or reads from cache) the professional's free slots on
// date and drops those inside the booking lead time.
func (uc *GetAvailability) slotsFor(
	ctx context.Context,
	pro *models.Professional,
	date string,
	duration time.Duration,
) ([]string, error) {

	tz := pro.Company.Timezone

	day, err := timezone.ParseDate(tz, date)
	if err != nil {
		return nil, httperr.ErrBadRequest("invalid_date", "date must be YYYY-MM-DD")
	}

	key := cache.SlotKey{
		ProfessionalID:  pro.ID,
		Day:             day.Format(dayFormat),
		DurationMinutes: int(duration / time.Minute),
	}

	slots, version, ok := uc.slots.Get(ctx, key)
	if !ok {
		slots, err = uc.generate(ctx, pro, day, duration)
		if err != nil {
			return nil, err
		}
		uc.slots.Set(ctx, key, version, slots)
	}

	earliest := uc.now().Add(uc.policy.MinBookingAdvance)

	out := make([]string, 0, len(slots))
	for _, s := range slots {
		start, err := timezone.ParseDateTime(tz, key.Day, s)
		if err != nil || start.Before(earliest) {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (uc *GetAvailability) generate(
	ctx context.Context,
	pro *models.Professional,
	day time.Time,
	duration time.Duration,
) ([]string, error) {

	wh := domain.ResolveWorkingHours(day, schedules(uc.log, pro)...)
	if wh == nil {
		return []string{}, nil
	}

	appointments, err := uc.repo.FindAppointments(ctx, pro.ID, *wh, domain.StatusCancelled)
	if err != nil {
		return nil, err
	}

	blocks, err := uc.repo.FindScheduleBlocks(ctx, pro.ID, *wh)
	if err != nil {
		return nil, err
	}

	step := uc.policy.SlotStep
	if step <= 0 {
		step = domain.DefaultSlotStep
	}

	return domain.FormatSlots(
		domain.GenerateSlots(wh, duration, step, appointments, blocks),
	), nil
}
