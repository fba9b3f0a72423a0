package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/appointment-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/appointment-engine/internal/httperr"
	"github.com/BruksfildServices01/appointment-engine/internal/models"
)

type GetAppointment struct {
	repo domain.Repository
}

func NewGetAppointment(repo domain.Repository) *GetAppointment {
	return &GetAppointment{repo: repo}
}

// Execute returns the appointment if the actor owns it or manages its
// professional.
func (uc *GetAppointment) Execute(
	ctx context.Context,
	id uint,
	actor domain.Actor,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointment(ctx, id)
	if err != nil {
		return nil, err
	}

	if !actor.CanView(ap) {
		return nil, httperr.ErrForbidden("not_allowed", "not your appointment")
	}

	return ap, nil
}
