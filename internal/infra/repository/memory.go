package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	domain "github.com/BruksfildServices01/appointment-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/appointment-engine/internal/httperr"
	"github.com/BruksfildServices01/appointment-engine/internal/models"
)

// MemoryRepository keeps everything in process. Bookings for one
// professional are serialized by a per-professional mutex, the in-process
// counterpart of the row lock taken by the gorm repository.
type MemoryRepository struct {
	mu sync.RWMutex

	companies     map[uint]models.Company
	professionals map[uint]models.Professional
	services      map[uint]models.Service
	offered       map[uint]map[uint]bool // professionalID -> serviceID
	appointments  map[uint]models.Appointment
	blocks        map[uint]models.ScheduleBlock

	nextID uint

	locksMu sync.Mutex
	locks   map[uint]*sync.Mutex
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		companies:     make(map[uint]models.Company),
		professionals: make(map[uint]models.Professional),
		services:      make(map[uint]models.Service),
		offered:       make(map[uint]map[uint]bool),
		appointments:  make(map[uint]models.Appointment),
		blocks:        make(map[uint]models.ScheduleBlock),
		locks:         make(map[uint]*sync.Mutex),
	}
}

// --------------------------------------------------
// Seeding
// --------------------------------------------------

func (r *MemoryRepository) id(current uint) uint {
	if current != 0 {
		if current > r.nextID {
			r.nextID = current
		}
		return current
	}
	r.nextID++
	return r.nextID
}

func (r *MemoryRepository) AddCompany(c models.Company) models.Company {
	r.mu.Lock()
	defer r.mu.Unlock()

	c.ID = r.id(c.ID)
	r.companies[c.ID] = c
	return c
}

func (r *MemoryRepository) AddService(s models.Service) models.Service {
	r.mu.Lock()
	defer r.mu.Unlock()

	s.ID = r.id(s.ID)
	r.services[s.ID] = s
	return s
}

// AddProfessional stores p and links it to the given services.
func (r *MemoryRepository) AddProfessional(p models.Professional, serviceIDs ...uint) models.Professional {
	r.mu.Lock()
	defer r.mu.Unlock()

	p.ID = r.id(p.ID)
	r.professionals[p.ID] = p

	links := make(map[uint]bool, len(serviceIDs))
	for _, sid := range serviceIDs {
		links[sid] = true
	}
	r.offered[p.ID] = links
	return p
}

func (r *MemoryRepository) AddScheduleBlock(b models.ScheduleBlock) models.ScheduleBlock {
	r.mu.Lock()
	defer r.mu.Unlock()

	b.ID = r.id(b.ID)
	r.blocks[b.ID] = b
	return b
}

// --------------------------------------------------
// Company / Professional
// --------------------------------------------------

func (r *MemoryRepository) FindCompanyByID(_ context.Context, id uint) (*models.Company, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.companies[id]
	if !ok {
		return nil, httperr.ErrNotFound("company_not_found", fmt.Sprintf("company %d not found", id))
	}
	return &c, nil
}

func (r *MemoryRepository) FindProfessionalByID(_ context.Context, id uint) (*models.Professional, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.professionals[id]
	if !ok {
		return nil, httperr.ErrNotFound("professional_not_found", fmt.Sprintf("professional %d not found", id))
	}
	p.Company = r.companies[p.CompanyID]
	return &p, nil
}

func (r *MemoryRepository) ListProfessionalsByCompany(_ context.Context, companyID uint) ([]models.Professional, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []models.Professional
	for _, p := range r.professionals {
		if p.CompanyID == companyID {
			p.Company = r.companies[p.CompanyID]
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// --------------------------------------------------
// Service
// --------------------------------------------------

func (r *MemoryRepository) FindServicesByIDs(_ context.Context, ids []uint) ([]models.Service, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Service, 0, len(ids))
	for _, id := range ids {
		if s, ok := r.services[id]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *MemoryRepository) IsServiceOfferedByProfessional(_ context.Context, serviceID, professionalID uint) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.offered[professionalID][serviceID], nil
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

func (r *MemoryRepository) FindAppointments(
	_ context.Context,
	professionalID uint,
	window domain.TimeRange,
	exclude ...domain.Status,
) ([]models.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	skip := make(map[string]bool, len(exclude))
	for _, s := range exclude {
		skip[string(s)] = true
	}

	var out []models.Appointment
	for _, ap := range r.appointments {
		if ap.ProfessionalID != professionalID || skip[ap.Status] {
			continue
		}
		if !window.Overlaps(domain.TimeRange{Start: ap.StartTime, End: ap.EndTime}) {
			continue
		}
		out = append(out, ap)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (r *MemoryRepository) FindScheduleBlocks(
	_ context.Context,
	professionalID uint,
	window domain.TimeRange,
) ([]models.ScheduleBlock, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []models.ScheduleBlock
	for _, b := range r.blocks {
		if b.ProfessionalID != professionalID {
			continue
		}
		if !window.Overlaps(domain.TimeRange{Start: b.StartTime, End: b.EndTime}) {
			continue
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (r *MemoryRepository) GetAppointment(_ context.Context, id uint) (*models.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ap, ok := r.appointments[id]
	if !ok {
		return nil, httperr.ErrNotFound("appointment_not_found", fmt.Sprintf("appointment %d not found", id))
	}
	return &ap, nil
}

func (r *MemoryRepository) InsertAppointmentAtomically(
	ctx context.Context,
	ap *models.Appointment,
	check domain.ConflictPredicate,
) error {

	r.mu.RLock()
	_, ok := r.professionals[ap.ProfessionalID]
	r.mu.RUnlock()
	if !ok {
		return httperr.ErrNotFound("professional_not_found", fmt.Sprintf("professional %d not found", ap.ProfessionalID))
	}

	lock := r.professionalLock(ap.ProfessionalID)
	lock.Lock()
	defer lock.Unlock()

	if err := check(ctx, r); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	ap.ID = r.id(0)
	ap.CreatedAt = now
	ap.UpdatedAt = now
	r.appointments[ap.ID] = *ap
	return nil
}

func (r *MemoryRepository) UpdateAppointmentStatus(
	_ context.Context,
	id uint,
	expected domain.Status,
	next domain.Status,
	at time.Time,
) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ap, ok := r.appointments[id]
	if !ok {
		return nil, httperr.ErrNotFound("appointment_not_found", fmt.Sprintf("appointment %d not found", id))
	}
	if ap.Status != string(expected) {
		return nil, httperr.ErrConflict("status_changed", "appointment status changed concurrently")
	}

	domain.ApplyStatus(&ap, next, at)
	r.appointments[id] = ap
	return &ap, nil
}

func (r *MemoryRepository) professionalLock(id uint) *sync.Mutex {
	r.locksMu.Lock()
	defer r.locksMu.Unlock()

	l, ok := r.locks[id]
	if !ok {
		l = &sync.Mutex{}
		r.locks[id] = l
	}
	return l
}

var _ domain.Repository = (*MemoryRepository)(nil)
