package appointment

import (
	"time"

	"github.com/BruksfildServices01/appointment-engine/internal/models"
)

// ===============================
// Domain Actions
// ===============================

// ApplyStatus writes the new status and its timestamp onto ap. Callers
// validate with Transition first.
func ApplyStatus(ap *models.Appointment, to Status, at time.Time) {
	ap.Status = string(to)
	ap.UpdatedAt = at

	switch to {
	case StatusConfirmed:
		ap.ConfirmedAt = &at
	case StatusCancelled:
		ap.CancelledAt = &at
	case StatusCompleted:
		ap.CompletedAt = &at
	}
}

// StampColumn is the column ApplyStatus sets for to, or "" if none.
func StampColumn(to Status) string {
	switch to {
	case StatusConfirmed:
		return "confirmed_at"
	case StatusCancelled:
		return "cancelled_at"
	case StatusCompleted:
		return "completed_at"
	}
	return ""
}
