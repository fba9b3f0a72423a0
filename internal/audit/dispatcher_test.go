package audit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/appointment-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/appointment-engine/internal/models"
)

type recordingSink struct {
	mu     sync.Mutex
	events []domain.DomainEvent
}

func (s *recordingSink) Handle(_ context.Context, ev domain.DomainEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	return nil
}

var testNow = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

func event(id uint, typ domain.EventType) domain.DomainEvent {
	return domain.NewEvent(typ, &models.Appointment{ID: id}, 1, domain.StatusPending, domain.StatusConfirmed, testNow)
}

func TestDispatcherDeliversOnceInOrder(t *testing.T) {
	first := &recordingSink{}
	second := &recordingSink{}
	d := NewDispatcher(zerolog.Nop(), first, second)

	const n = 250
	for i := 1; i <= n; i++ {
		require.NoError(t, d.Dispatch(context.Background(), event(uint(i), domain.EventAppointmentConfirmed)))
	}
	d.Close()

	for _, s := range []*recordingSink{first, second} {
		require.Len(t, s.events, n)
		seen := map[string]bool{}
		for i, ev := range s.events {
			assert.Equal(t, uint(i+1), ev.AppointmentID)
			assert.False(t, seen[ev.ID.String()])
			seen[ev.ID.String()] = true
		}
	}
}

func TestDispatcherFailingSinkDoesNotBlockOthers(t *testing.T) {
	rec := &recordingSink{}
	failing := SinkFunc(func(context.Context, domain.DomainEvent) error {
		return errors.New("redis down")
	})
	d := NewDispatcher(zerolog.Nop(), failing, rec)

	require.NoError(t, d.Dispatch(context.Background(), event(1, domain.EventAppointmentCancelled)))
	d.Close()

	assert.Len(t, rec.events, 1)
}

func TestDispatcherClosed(t *testing.T) {
	d := NewDispatcher(zerolog.Nop())
	d.Close()
	d.Close()

	err := d.Dispatch(context.Background(), event(1, domain.EventAppointmentCreated))
	assert.ErrorIs(t, err, ErrDispatcherClosed)
}
