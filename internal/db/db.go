package db

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/appointment-engine/internal/config"
	"github.com/BruksfildServices01/appointment-engine/internal/models"
)

// noOverlapConstraint backs the application-level conflict check: two live
// appointments of one professional cannot overlap, even if a writer
// bypasses the repository.
const noOverlapConstraint = `
DO $$
BEGIN
	IF NOT EXISTS (
		SELECT 1 FROM pg_constraint WHERE conname = 'appointments_no_overlap'
	) THEN
		ALTER TABLE appointments
		ADD CONSTRAINT appointments_no_overlap
		EXCLUDE USING gist (
			professional_id WITH =,
			tstzrange(start_time, end_time, '[)') WITH &&
		) WHERE (status <> 'CANCELLED');
	END IF;
END
$$;`

func NewDB(cfg *config.Config, log zerolog.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.AutoMigrate(
		&models.Company{},
		&models.Service{},
		&models.Professional{},
		&models.Appointment{},
		&models.ScheduleBlock{},
		&models.AuditLog{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS btree_gist`).Error; err != nil {
		log.Warn().Err(err).Msg("btree_gist unavailable, overlap constraint skipped")
	} else if err := db.Exec(noOverlapConstraint).Error; err != nil {
		log.Warn().Err(err).Msg("failed to create overlap constraint")
	}

	if err := db.Exec(
		`UPDATE companies SET timezone = ? WHERE timezone IS NULL OR timezone = ''`,
		cfg.DefaultTimezone,
	).Error; err != nil {
		log.Warn().Err(err).Msg("failed to backfill company timezones")
	}

	return db, nil
}
