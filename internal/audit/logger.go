package audit

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/appointment-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/appointment-engine/internal/models"
)

// Logger persists events into audit_logs. Rows are keyed by event id, so a
// replayed event is stored once.
type Logger struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Logger {
	return &Logger{db: db}
}

func (l *Logger) Handle(ctx context.Context, ev domain.DomainEvent) error {
	return l.Log(ctx, ev, map[string]any{
		"from":       ev.From,
		"to":         ev.To,
		"user_id":    ev.UserID,
		"start_time": ev.StartTime,
	})
}

func (l *Logger) Log(ctx context.Context, ev domain.DomainEvent, metadata any) error {

	var metaJSON string
	if metadata != nil {
		if b, err := json.Marshal(metadata); err == nil {
			metaJSON = string(b)
		}
	}

	actorID := ev.ActorID
	entityID := ev.AppointmentID

	row := models.AuditLog{
		EventID:        ev.ID.String(),
		ProfessionalID: ev.ProfessionalID,
		ActorID:        &actorID,
		Action:         string(ev.Type),
		Entity:         "appointment",
		EntityID:       &entityID,
		Metadata:       metaJSON,
		CreatedAt:      ev.OccurredAt,
	}

	return insertOnce(l.db.WithContext(ctx), &row).Error
}

// insertOnce skips rows whose event id is already stored.
func insertOnce(db *gorm.DB, row *models.AuditLog) *gorm.DB {
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(row)
}

// LogSink writes events to the process log; used when there is no database.
type LogSink struct {
	log zerolog.Logger
}

func NewLogSink(log zerolog.Logger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) Handle(_ context.Context, ev domain.DomainEvent) error {
	s.log.Info().
		Str("event_id", ev.ID.String()).
		Str("event_type", string(ev.Type)).
		Uint("appointment_id", ev.AppointmentID).
		Uint("professional_id", ev.ProfessionalID).
		Uint("actor_id", ev.ActorID).
		Str("to", string(ev.To)).
		Msg("appointment event")
	return nil
}
