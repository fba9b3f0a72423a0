package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/appointment-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/appointment-engine/internal/httperr"
	"github.com/BruksfildServices01/appointment-engine/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// --------------------------------------------------
// Company / Professional
// --------------------------------------------------

func (r *AppointmentGormRepository) FindCompanyByID(
	ctx context.Context,
	id uint,
) (*models.Company, error) {

	var company models.Company
	if err := r.db.WithContext(ctx).First(&company, id).Error; err != nil {
		return nil, notFound(err, "company_not_found", fmt.Sprintf("company %d not found", id))
	}
	return &company, nil
}

func (r *AppointmentGormRepository) FindProfessionalByID(
	ctx context.Context,
	id uint,
) (*models.Professional, error) {

	var pro models.Professional
	if err := r.db.WithContext(ctx).
		Preload("Company").
		First(&pro, id).Error; err != nil {
		return nil, notFound(err, "professional_not_found", fmt.Sprintf("professional %d not found", id))
	}
	return &pro, nil
}

func (r *AppointmentGormRepository) ListProfessionalsByCompany(
	ctx context.Context,
	companyID uint,
) ([]models.Professional, error) {

	var pros []models.Professional
	if err := r.db.WithContext(ctx).
		Preload("Company").
		Where("company_id = ?", companyID).
		Order("id ASC").
		Find(&pros).Error; err != nil {
		return nil, err
	}
	return pros, nil
}

// --------------------------------------------------
// Service
// --------------------------------------------------

func (r *AppointmentGormRepository) FindServicesByIDs(
	ctx context.Context,
	ids []uint,
) ([]models.Service, error) {

	var services []models.Service
	if len(ids) == 0 {
		return services, nil
	}
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

func (r *AppointmentGormRepository) IsServiceOfferedByProfessional(
	ctx context.Context,
	serviceID uint,
	professionalID uint,
) (bool, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Table("professional_services").
		Where("service_id = ? AND professional_id = ?", serviceID, professionalID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// --------------------------------------------------
// Appointment (reads)
// --------------------------------------------------

func (r *AppointmentGormRepository) FindAppointments(
	ctx context.Context,
	professionalID uint,
	window domain.TimeRange,
	exclude ...domain.Status,
) ([]models.Appointment, error) {
	return findAppointments(r.db.WithContext(ctx).Preload("Services"), professionalID, window, exclude)
}

func (r *AppointmentGormRepository) FindScheduleBlocks(
	ctx context.Context,
	professionalID uint,
	window domain.TimeRange,
) ([]models.ScheduleBlock, error) {
	return findScheduleBlocks(r.db.WithContext(ctx), professionalID, window)
}

func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	id uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Services").
		First(&ap, id).Error; err != nil {
		return nil, notFound(err, "appointment_not_found", fmt.Sprintf("appointment %d not found", id))
	}
	return &ap, nil
}

// --------------------------------------------------
// Appointment (atomic create)
// --------------------------------------------------

// InsertAppointmentAtomically locks the professional row for the length of
// the transaction, so every booking for that professional runs its
// check-then-insert one at a time.
func (r *AppointmentGormRepository) InsertAppointmentAtomically(
	ctx context.Context,
	ap *models.Appointment,
	check domain.ConflictPredicate,
) error {

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		var pro models.Professional
		if err := lockProfessional(tx).First(&pro, ap.ProfessionalID).Error; err != nil {
			return notFound(err, "professional_not_found", fmt.Sprintf("professional %d not found", ap.ProfessionalID))
		}

		if err := check(ctx, &gormUnitOfWork{db: tx}); err != nil {
			return err
		}

		// Services already exist; only the join rows are written.
		return tx.Omit("Services.*").Create(ap).Error
	})

	return mapInsertError(err)
}

// lockProfessional selects the professional row FOR UPDATE.
func lockProfessional(tx *gorm.DB) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"}).Select("id")
}

// mapInsertError turns a constraint violation raised by a concurrent
// writer into the same Conflict the predicate reports.
func mapInsertError(err error) error {
	if err != nil && httperr.IsExclusionConflict(err) {
		return httperr.ErrConflict("time_conflict", "the requested interval was taken concurrently")
	}
	return err
}

// --------------------------------------------------
// Appointment (status compare-and-swap)
// --------------------------------------------------

func (r *AppointmentGormRepository) UpdateAppointmentStatus(
	ctx context.Context,
	id uint,
	expected domain.Status,
	next domain.Status,
	at time.Time,
) (*models.Appointment, error) {

	updates := map[string]any{
		"status":     string(next),
		"updated_at": at,
	}
	if col := domain.StampColumn(next); col != "" {
		updates[col] = at
	}

	res := casStatus(r.db.WithContext(ctx), id, expected, updates)
	if res.Error != nil {
		return nil, res.Error
	}

	if res.RowsAffected == 0 {
		_, err := r.GetAppointment(ctx, id)
		return nil, casMiss(err)
	}

	return r.GetAppointment(ctx, id)
}

// casStatus applies updates only while the row still has status expected.
func casStatus(db *gorm.DB, id uint, expected domain.Status, updates map[string]any) *gorm.DB {
	return db.
		Model(&models.Appointment{}).
		Where("id = ? AND status = ?", id, string(expected)).
		Updates(updates)
}

// casMiss explains an update that matched no row: the appointment is gone
// (lookupErr is its NotFound), or another writer moved it first.
func casMiss(lookupErr error) error {
	if lookupErr != nil {
		return lookupErr
	}
	return httperr.ErrConflict("status_changed", "appointment status changed concurrently")
}

// --------------------------------------------------
// Unit of work
// --------------------------------------------------

type gormUnitOfWork struct {
	db *gorm.DB
}

func (u *gormUnitOfWork) FindAppointments(
	ctx context.Context,
	professionalID uint,
	window domain.TimeRange,
	exclude ...domain.Status,
) ([]models.Appointment, error) {
	return findAppointments(u.db.WithContext(ctx), professionalID, window, exclude)
}

func (u *gormUnitOfWork) FindScheduleBlocks(
	ctx context.Context,
	professionalID uint,
	window domain.TimeRange,
) ([]models.ScheduleBlock, error) {
	return findScheduleBlocks(u.db.WithContext(ctx), professionalID, window)
}

func findAppointments(
	db *gorm.DB,
	professionalID uint,
	window domain.TimeRange,
	exclude []domain.Status,
) ([]models.Appointment, error) {

	q := db.Where(
		"professional_id = ? AND start_time < ? AND end_time > ?",
		professionalID,
		window.End,
		window.Start,
	)

	if len(exclude) > 0 {
		statuses := make([]string, 0, len(exclude))
		for _, s := range exclude {
			statuses = append(statuses, string(s))
		}
		q = q.Where("status NOT IN ?", statuses)
	}

	var apps []models.Appointment
	if err := q.Order("start_time ASC").Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func findScheduleBlocks(
	db *gorm.DB,
	professionalID uint,
	window domain.TimeRange,
) ([]models.ScheduleBlock, error) {

	var blocks []models.ScheduleBlock
	if err := db.
		Where(
			"professional_id = ? AND start_time < ? AND end_time > ?",
			professionalID,
			window.End,
			window.Start,
		).
		Order("start_time ASC").
		Find(&blocks).Error; err != nil {
		return nil, err
	}
	return blocks, nil
}

func notFound(err error, code, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return httperr.ErrNotFound(code, message)
	}
	return err
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
