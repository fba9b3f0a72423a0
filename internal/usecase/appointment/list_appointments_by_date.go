package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/appointment-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/appointment-engine/internal/dto"
	"github.com/BruksfildServices01/appointment-engine/internal/httperr"
	"github.com/BruksfildServices01/appointment-engine/internal/timezone"
)

type ListAppointmentsByDate struct {
	repo domain.Repository
}

func NewListAppointmentsByDate(
	repo domain.Repository,
) *ListAppointmentsByDate {
	return &ListAppointmentsByDate{
		repo: repo,
	}
}

// Execute lists the professional's agenda for one calendar day in the
// company's timezone, every status included.
func (uc *ListAppointmentsByDate) Execute(
	ctx context.Context,
	professionalID uint,
	date string,
	actor domain.Actor,
) ([]dto.AppointmentListDTO, error) {

	if !actor.ManagesProfessional(professionalID) {
		return nil, httperr.ErrForbidden("not_allowed", "not your agenda")
	}

	pro, err := uc.repo.FindProfessionalByID(ctx, professionalID)
	if err != nil {
		return nil, err
	}

	day, err := timezone.ParseDate(pro.Company.Timezone, date)
	if err != nil {
		return nil, httperr.ErrBadRequest("invalid_date", "date must be YYYY-MM-DD")
	}

	start, end := timezone.DayBounds(day)

	appointments, err := uc.repo.FindAppointments(
		ctx,
		pro.ID,
		domain.TimeRange{Start: start, End: end},
	)
	if err != nil {
		return nil, err
	}

	out := make([]dto.AppointmentListDTO, 0, len(appointments))
	for _, ap := range appointments {
		names := make([]string, 0, len(ap.Services))
		for _, s := range ap.Services {
			names = append(names, s.Name)
		}

		out = append(out, dto.AppointmentListDTO{
			ID:        ap.ID,
			UserID:    ap.UserID,
			StartTime: ap.StartTime,
			EndTime:   ap.EndTime,
			Status:    ap.Status,
			Services:  names,
		})
	}

	return out, nil
}
