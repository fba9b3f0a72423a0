package appointment

import "time"

const (
	DefaultMinBookingAdvance     = 1 * time.Hour
	DefaultMinCancellationNotice = 2 * time.Hour
)

// Policy holds the notice windows and slot granularity the engine enforces.
type Policy struct {
	MinBookingAdvance     time.Duration
	MinCancellationNotice time.Duration
	SlotStep              time.Duration
}

func DefaultPolicy() Policy {
	return Policy{
		MinBookingAdvance:     DefaultMinBookingAdvance,
		MinCancellationNotice: DefaultMinCancellationNotice,
		SlotStep:              DefaultSlotStep,
	}
}
