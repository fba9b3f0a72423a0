package appointment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/appointment-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/appointment-engine/internal/httperr"
)

func TestGetAppointmentVisibility(t *testing.T) {
	f := newFixture(t)
	ap := f.bookToday(t)

	uc := NewGetAppointment(f.repo)
	ctx := context.Background()

	for _, actor := range []domain.Actor{f.owner(), f.admin(), f.professional()} {
		got, err := uc.Execute(ctx, ap.ID, actor)
		require.NoError(t, err)
		assert.Equal(t, ap.ID, got.ID)
	}

	_, err := uc.Execute(ctx, ap.ID, domain.Actor{UserID: 99, Role: domain.RoleUser})
	assert.Equal(t, httperr.KindForbidden, httperr.KindOf(err))

	_, err = uc.Execute(ctx, 999, f.admin())
	assert.Equal(t, httperr.KindNotFound, httperr.KindOf(err))
}

func TestListAppointmentsByDate(t *testing.T) {
	f := newFixture(t)

	first, err := f.book(t, nextMon, "10:00", f.haircut.ID, f.beard.ID)
	require.NoError(t, err)
	second, err := f.book(t, nextMon, "14:00", f.haircut.ID)
	require.NoError(t, err)
	_, err = f.move(second, domain.StatusCancelled, f.admin())
	require.NoError(t, err)

	_, err = f.book(t, "2026-03-16", "10:00", f.haircut.ID)
	require.NoError(t, err)

	uc := NewListAppointmentsByDate(f.repo)

	agenda, err := uc.Execute(context.Background(), f.pro.ID, nextMon, f.professional())
	require.NoError(t, err)
	require.Len(t, agenda, 2)

	assert.Equal(t, first.ID, agenda[0].ID)
	assert.Equal(t, []string{"Haircut", "Beard"}, agenda[0].Services)
	assert.Equal(t, string(domain.StatusCancelled), agenda[1].Status)

	_, err = uc.Execute(context.Background(), f.pro.ID, nextMon, f.owner())
	assert.Equal(t, httperr.KindForbidden, httperr.KindOf(err))
}
