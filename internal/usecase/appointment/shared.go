package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/appointment-engine/internal/cache"
	domain "github.com/BruksfildServices01/appointment-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/appointment-engine/internal/httperr"
	"github.com/BruksfildServices01/appointment-engine/internal/models"
	"github.com/BruksfildServices01/appointment-engine/internal/timezone"
)

// EventDispatcher delivers domain events after a state change has been
// persisted.
type EventDispatcher interface {
	Dispatch(ctx context.Context, events ...domain.DomainEvent) error
}

// Clock returns "now". Use cases take one so tests can pin time.
type Clock func() time.Time

const dayFormat = "2006-01-02"

// dedupe keeps the first occurrence of every id.
func dedupe(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// loadServices resolves every id, failing with NotFound on the first
// missing one, and returns the services with their summed duration.
func loadServices(
	ctx context.Context,
	repo domain.Repository,
	ids []uint,
) ([]models.Service, time.Duration, error) {

	ids = dedupe(ids)
	if len(ids) == 0 {
		return nil, 0, httperr.ErrBadRequest("missing_services", "at least one service is required")
	}

	found, err := repo.FindServicesByIDs(ctx, ids)
	if err != nil {
		return nil, 0, err
	}

	byID := make(map[uint]models.Service, len(found))
	for _, s := range found {
		byID[s.ID] = s
	}

	services := make([]models.Service, 0, len(ids))
	var total time.Duration

	for _, id := range ids {
		s, ok := byID[id]
		if !ok {
			return nil, 0, httperr.ErrNotFound(
				"service_not_found",
				fmt.Sprintf("service %d not found", id),
			)
		}

		minutes, ok := domain.ParseDurationMinutes(s.Duration)
		if !ok || minutes <= 0 {
			return nil, 0, httperr.ErrBadRequest(
				"invalid_service_duration",
				fmt.Sprintf("service %d has an invalid duration %q", id, s.Duration),
			)
		}

		services = append(services, s)
		total += time.Duration(minutes) * time.Minute
	}

	return services, total, nil
}

// checkOffered fails unless the professional offers every service.
func checkOffered(
	ctx context.Context,
	repo domain.Repository,
	professionalID uint,
	services []models.Service,
) error {
	for _, s := range services {
		ok, err := repo.IsServiceOfferedByProfessional(ctx, s.ID, professionalID)
		if err != nil {
			return err
		}
		if !ok {
			return httperr.ErrBadRequest(
				"service_professional_mismatch",
				fmt.Sprintf("service %d is not offered by professional %d", s.ID, professionalID),
			)
		}
	}
	return nil
}

// schedules returns the professional's weekly schedule followed by the
// company's, in the order ResolveWorkingHours consults them.
func schedules(log zerolog.Logger, pro *models.Professional) []domain.WeeklySchedule {
	own, invalid := domain.ParseWeeklySchedule(pro.WorkingHours)
	if len(invalid) > 0 {
		log.Warn().
			Uint("professional_id", pro.ID).
			Strs("entries", invalid).
			Msg("ignoring malformed professional working hours")
	}

	company, invalid := domain.ParseWeeklySchedule(pro.Company.WorkingHours)
	if len(invalid) > 0 {
		log.Warn().
			Uint("company_id", pro.CompanyID).
			Strs("entries", invalid).
			Msg("ignoring malformed company working hours")
	}

	return []domain.WeeklySchedule{own, company}
}

// invalidateDays drops cached availability for every calendar day the
// appointment touches, in the company's timezone.
func invalidateDays(
	ctx context.Context,
	slots cache.SlotCache,
	pro *models.Professional,
	ap *models.Appointment,
) {
	loc := timezone.Location(pro.Company.Timezone)

	start := ap.StartTime.In(loc)
	end := ap.EndTime.In(loc)

	slots.InvalidateDay(ctx, pro.ID, start.Format(dayFormat))
	if last := end.Add(-time.Nanosecond); last.Format(dayFormat) != start.Format(dayFormat) {
		slots.InvalidateDay(ctx, pro.ID, last.Format(dayFormat))
	}
}
