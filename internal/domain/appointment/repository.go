package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/appointment-engine/internal/models"
)

// UnitOfWork is the read side of an open storage transaction. Reads made
// through it see what the enclosing insert will be committed against.
type UnitOfWork interface {
	// Appointments overlapping window, minus the excluded statuses.
	FindAppointments(
		ctx context.Context,
		professionalID uint,
		window TimeRange,
		exclude ...Status,
	) ([]models.Appointment, error)

	FindScheduleBlocks(
		ctx context.Context,
		professionalID uint,
		window TimeRange,
	) ([]models.ScheduleBlock, error)
}

// ConflictPredicate runs inside InsertAppointmentAtomically, before the
// insert. Returning an error aborts the insert and is passed back as is.
type ConflictPredicate func(ctx context.Context, uow UnitOfWork) error

type Repository interface {
	UnitOfWork

	// -------- Company / Professional --------
	FindCompanyByID(
		ctx context.Context,
		id uint,
	) (*models.Company, error)

	// Preloads Company.
	FindProfessionalByID(
		ctx context.Context,
		id uint,
	) (*models.Professional, error)

	ListProfessionalsByCompany(
		ctx context.Context,
		companyID uint,
	) ([]models.Professional, error)

	// -------- Service --------
	FindServicesByIDs(
		ctx context.Context,
		ids []uint,
	) ([]models.Service, error)

	IsServiceOfferedByProfessional(
		ctx context.Context,
		serviceID uint,
		professionalID uint,
	) (bool, error)

	// -------- Appointment --------
	GetAppointment(
		ctx context.Context,
		id uint,
	) (*models.Appointment, error)

	// InsertAppointmentAtomically runs check and the insert as one unit:
	// no other insert for the same professional can interleave between them.
	InsertAppointmentAtomically(
		ctx context.Context,
		ap *models.Appointment,
		check ConflictPredicate,
	) error

	// UpdateAppointmentStatus moves the appointment to next only if it is
	// still in expected (compare-and-swap). Fails with Conflict if the
	// status changed underneath, NotFound if the appointment is gone.
	UpdateAppointmentStatus(
		ctx context.Context,
		id uint,
		expected Status,
		next Status,
		at time.Time,
	) (*models.Appointment, error)
}
