package appointment

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/petcarelabs/vetclinic-api/internal/audit"
	domain "github.com/petcarelabs/vetclinic-api/internal/domain/appointment"
	"github.com/petcarelabs/vetclinic-api/internal/httperr"
	"github.com/petcarelabs/vetclinic-api/internal/models"
)

// The tests below drive the use cases against an in-memory repository
// that mimics the storage guarantees: the partial unique slot index
// and the version-guarded update.

type fakeRepo struct {
	mu           sync.Mutex
	appointments map[uint]*models.Appointment
	pets         map[uint]*models.Pet
	users        map[uint]*models.User
	types        map[uint]*models.AppointmentType
	nextID       uint
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		appointments: map[uint]*models.Appointment{},
		pets:         map[uint]*models.Pet{},
		users:        map[uint]*models.User{},
		types:        map[uint]*models.AppointmentType{},
		nextID:       100,
	}
}

var _ domain.Repository = (*fakeRepo)(nil)

func (r *fakeRepo) addUser(id uint, role string) {
	r.users[id] = &models.User{ID: id, Role: role}
}

func (r *fakeRepo) addPet(id, ownerID uint) {
	r.pets[id] = &models.Pet{ID: id, Name: "Firulais", Species: "Perro", OwnerID: ownerID}
}

func (r *fakeRepo) addType(id uint) {
	r.types[id] = &models.AppointmentType{ID: id, Name: "Consulta general", DurationMin: 30}
}

func (r *fakeRepo) addAppointment(ap models.Appointment) *models.Appointment {
	if ap.ID == 0 {
		r.nextID++
		ap.ID = r.nextID
	}
	if ap.Version == 0 {
		ap.Version = 1
	}
	r.appointments[ap.ID] = &ap
	return &ap
}

func (r *fakeRepo) withPet(ap models.Appointment) *models.Appointment {
	if pet, ok := r.pets[ap.PetID]; ok {
		ap.Pet = *pet
	}
	return &ap
}

func (r *fakeRepo) GetAppointment(ctx context.Context, id uint) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ap, ok := r.appointments[id]
	if !ok {
		return nil, httperr.ErrNotFound
	}
	return r.withPet(*ap), nil
}

func (r *fakeRepo) ListAppointments(ctx context.Context, filter domain.ListFilter) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Appointment
	for _, ap := range r.appointments {
		cp := r.withPet(*ap)
		if filter.OwnerScope != 0 && cp.Pet.OwnerID != filter.OwnerScope {
			continue
		}
		if filter.VetID != 0 && cp.VeterinarianID != filter.VetID {
			continue
		}
		if filter.Status != "" && domain.Status(cp.Status) != filter.Status {
			continue
		}
		out = append(out, *cp)
	}
	// Newest first, same as the SQL repository.
	sort.Slice(out, func(i, j int) bool {
		return out[i].ScheduledAt.After(out[j].ScheduledAt)
	})
	return out, nil
}

func (r *fakeRepo) slotTakenLocked(vetID uint, at time.Time, excludeID uint) bool {
	for _, ap := range r.appointments {
		if ap.ID == excludeID {
			continue
		}
		if ap.VeterinarianID == vetID && ap.ScheduledAt.Equal(at) && !domain.Status(ap.Status).Cancelled() {
			return true
		}
	}
	return false
}

func (r *fakeRepo) CreateAppointment(ctx context.Context, ap *models.Appointment, newPet *models.Pet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.slotTakenLocked(ap.VeterinarianID, ap.ScheduledAt, 0) {
		return domain.ErrSlotTaken
	}

	if newPet != nil {
		r.nextID++
		newPet.ID = r.nextID
		cp := *newPet
		r.pets[cp.ID] = &cp
		ap.PetID = cp.ID
	}

	r.nextID++
	ap.ID = r.nextID
	ap.Version = 1

	cp := *ap
	r.appointments[cp.ID] = &cp
	return nil
}

func (r *fakeRepo) UpdateAppointment(ctx context.Context, ap *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.appointments[ap.ID]
	if !ok {
		return httperr.ErrNotFound
	}
	if stored.Version != ap.Version {
		return httperr.ErrConcurrency
	}
	if !domain.Status(ap.Status).Cancelled() &&
		r.slotTakenLocked(ap.VeterinarianID, ap.ScheduledAt, ap.ID) {
		return domain.ErrSlotTaken
	}

	ap.Version++
	cp := *ap
	r.appointments[cp.ID] = &cp
	return nil
}

func (r *fakeRepo) DeleteAppointment(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.appointments[id]; !ok {
		return httperr.ErrNotFound
	}
	delete(r.appointments, id)
	return nil
}

func (r *fakeRepo) SlotTaken(ctx context.Context, vetID uint, at time.Time, excludeID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.slotTakenLocked(vetID, at, excludeID), nil
}

func (r *fakeRepo) OccupiedSlots(ctx context.Context, vetID uint, dayStart, dayEnd time.Time, excludeID uint) ([]time.Time, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []time.Time
	for _, ap := range r.appointments {
		if ap.ID == excludeID || ap.VeterinarianID != vetID {
			continue
		}
		if domain.Status(ap.Status).Cancelled() {
			continue
		}
		if !ap.ScheduledAt.Before(dayStart) && ap.ScheduledAt.Before(dayEnd) {
			out = append(out, ap.ScheduledAt)
		}
	}
	return out, nil
}

func (r *fakeRepo) CompleteOverdue(ctx context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for _, ap := range r.appointments {
		st := domain.Status(ap.Status)
		if st != domain.StatusScheduled && st != domain.StatusConfirmed {
			continue
		}
		if ap.ScheduledAt.Before(cutoff) {
			ap.Status = string(domain.StatusCompleted)
			ap.Version++
			n++
		}
	}
	return n, nil
}

func (r *fakeRepo) GetVeterinarian(ctx context.Context, id uint) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok || u.Role != string(domain.RoleVet) {
		return nil, httperr.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeRepo) GetAppointmentType(ctx context.Context, id uint) (*models.AppointmentType, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.types[id]
	if !ok {
		return nil, httperr.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *fakeRepo) GetPet(ctx context.Context, id uint) (*models.Pet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.pets[id]
	if !ok {
		return nil, httperr.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

// --------- Shared fixtures ---------

type nopRecorder struct{}

func (nopRecorder) Record(audit.Event) error { return nil }

func testDispatcher() *audit.Dispatcher {
	return audit.NewDispatcher(nopRecorder{}, zap.NewNop())
}

// testNow is a Tuesday at noon; slots two days out are always valid.
var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return testNow }

func slotAt(day, hour int) time.Time {
	return time.Date(2026, 3, day, hour, 0, 0, 0, time.UTC)
}

// seededRepo returns a repo with a vet (id 1), a client-owned pet
// (pet 10, owner 2), another client's pet (pet 11, owner 3) and an
// appointment type (id 5).
func seededRepo() *fakeRepo {
	repo := newFakeRepo()
	repo.addUser(1, string(domain.RoleVet))
	repo.addUser(2, string(domain.RoleClient))
	repo.addUser(3, string(domain.RoleClient))
	repo.addPet(10, 2)
	repo.addPet(11, 3)
	repo.addType(5)
	return repo
}

func clientActor() domain.Actor {
	return domain.Actor{UserID: 2, Role: domain.RoleClient}
}

func vetActor() domain.Actor {
	return domain.Actor{UserID: 1, Role: domain.RoleVet}
}
