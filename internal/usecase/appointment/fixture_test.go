package appointment

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/appointment-engine/internal/cache"
	domain "github.com/BruksfildServices01/appointment-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/appointment-engine/internal/infra/repository"
	"github.com/BruksfildServices01/appointment-engine/internal/models"
)

// Monday 2026-03-02, 06:00 UTC.
var startOfTests = time.Date(2026, 3, 2, 6, 0, 0, 0, time.UTC)

const (
	ownerID = 7
	nextMon = "2026-03-09"
)

type recorder struct {
	mu     sync.Mutex
	events []domain.DomainEvent
}

func (r *recorder) Dispatch(_ context.Context, events ...domain.DomainEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, events...)
	return nil
}

func (r *recorder) count(typ domain.EventType) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, ev := range r.events {
		if ev.Type == typ {
			n++
		}
	}
	return n
}

type invalidation struct {
	professionalID uint
	day            string
}

// slotSpy records every cache call. Get misses unless the key was seeded.
type slotSpy struct {
	mu          sync.Mutex
	seeded      map[cache.SlotKey][]string
	gets        []cache.SlotKey
	sets        map[cache.SlotKey][]string
	invalidated []invalidation
}

func newSlotSpy() *slotSpy {
	return &slotSpy{
		seeded: map[cache.SlotKey][]string{},
		sets:   map[cache.SlotKey][]string{},
	}
}

func (s *slotSpy) Get(_ context.Context, key cache.SlotKey) ([]string, int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gets = append(s.gets, key)
	slots, ok := s.seeded[key]
	return slots, 0, ok
}

func (s *slotSpy) Set(_ context.Context, key cache.SlotKey, _ int64, slots []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sets[key] = slots
}

func (s *slotSpy) InvalidateDay(_ context.Context, professionalID uint, day string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invalidated = append(s.invalidated, invalidation{professionalID, day})
}

func (s *slotSpy) invalidations() []invalidation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]invalidation(nil), s.invalidated...)
}

type fixture struct {
	repo   *repository.MemoryRepository
	events *recorder
	cache  *slotSpy
	now    time.Time

	company models.Company
	pro     models.Professional
	late    models.Professional

	haircut  models.Service
	beard    models.Service
	coloring models.Service

	create     *CreateAppointment
	transition *TransitionAppointmentStatus
	available  *GetAvailability
}

// newFixture: one UTC company open Monday 09:00-17:00 and closed Sunday.
// pro follows the company hours and offers haircut (30min) and beard
// (45min); late works Monday 13:00-18:00 and offers haircut only. Nobody
// offers coloring.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		repo:   repository.NewMemoryRepository(),
		events: &recorder{},
		cache:  newSlotSpy(),
		now:    startOfTests,
	}

	f.company = f.repo.AddCompany(models.Company{
		Name:     "Studio",
		Timezone: "UTC",
		WorkingHours: models.WorkingHours{
			"0": nil,
			"1": {Start: "09:00", End: "17:00"},
		},
	})

	f.haircut = f.repo.AddService(models.Service{CompanyID: f.company.ID, Name: "Haircut", Duration: "30min"})
	f.beard = f.repo.AddService(models.Service{CompanyID: f.company.ID, Name: "Beard", Duration: "PT45M"})
	f.coloring = f.repo.AddService(models.Service{CompanyID: f.company.ID, Name: "Coloring", Duration: "2h"})

	f.pro = f.repo.AddProfessional(models.Professional{
		CompanyID: f.company.ID,
		Name:      "Ana",
	}, f.haircut.ID, f.beard.ID)

	f.late = f.repo.AddProfessional(models.Professional{
		CompanyID: f.company.ID,
		Name:      "Bruno",
		WorkingHours: models.WorkingHours{
			"1": {Start: "13:00", End: "18:00"},
		},
	}, f.haircut.ID)

	clock := func() time.Time { return f.now }
	policy := domain.DefaultPolicy()
	log := zerolog.Nop()

	f.create = NewCreateAppointment(f.repo, f.events, f.cache, policy, clock, log)
	f.transition = NewTransitionAppointmentStatus(f.repo, f.events, f.cache, policy, clock, log)
	f.available = NewGetAvailability(f.repo, f.cache, policy, clock, log)

	return f
}

func (f *fixture) book(t *testing.T, date, clock string, services ...uint) (*models.Appointment, error) {
	t.Helper()
	return f.create.Execute(context.Background(), CreateAppointmentInput{
		UserID:         ownerID,
		ProfessionalID: f.pro.ID,
		ServiceIDs:     services,
		Date:           date,
		Time:           clock,
	})
}

func (f *fixture) admin() domain.Actor {
	return domain.Actor{UserID: 1, Role: domain.RoleAdmin}
}

func (f *fixture) owner() domain.Actor {
	return domain.Actor{UserID: ownerID, Role: domain.RoleUser}
}

func (f *fixture) professional() domain.Actor {
	return domain.Actor{UserID: 3, Role: domain.RoleProfessional, ProfessionalID: f.pro.ID}
}
