package scheduling

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/BruksfildServices01/barberflow/internal/audit"
	"github.com/BruksfildServices01/barberflow/internal/config"
	domain "github.com/BruksfildServices01/barberflow/internal/domain/scheduling"
	"github.com/BruksfildServices01/barberflow/internal/httperr"
	"github.com/BruksfildServices01/barberflow/internal/models"
)

// ======================================================
// Fakes em memória para os use cases
// ======================================================

var errNotFound = errors.New("not found")

// fakeRepo implementa domain.Repository com as mesmas garantias de
// atomicidade da infra gorm: as escritas revalidam conflito/posição
// sob o mesmo lock, então dois writers concorrentes se comportam
// como na transação real.
type fakeRepo struct {
	mu sync.Mutex

	shop     models.Barbershop
	barbers  []models.User
	services []models.BarberService
	addOns   []models.AddOn

	// barberID → weekday → working hours
	hours map[uint]map[int]models.WorkingHours

	clients      map[uint]models.Client
	appointments map[uint]models.Appointment

	nextClientID      uint
	nextAppointmentID uint
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		shop: models.Barbershop{
			ID:                1,
			Name:              "Barbearia Central",
			Slug:              "barbearia-central",
			Timezone:          "UTC",
			MinAdvanceMinutes: 120,
		},
		hours:             make(map[uint]map[int]models.WorkingHours),
		clients:           make(map[uint]models.Client),
		appointments:      make(map[uint]models.Appointment),
		nextClientID:      1,
		nextAppointmentID: 1,
	}
}

// ---------- seeds ----------

func (r *fakeRepo) seedBarber(id uint, name string) {
	r.barbers = append(r.barbers, models.User{
		ID:           id,
		BarbershopID: r.shop.ID,
		Name:         name,
		Role:         "barber",
		Active:       true,
	})
}

func (r *fakeRepo) seedHours(barberID uint, weekday int, start, end, lunchStart, lunchEnd string) {
	if r.hours[barberID] == nil {
		r.hours[barberID] = make(map[int]models.WorkingHours)
	}
	r.hours[barberID][weekday] = models.WorkingHours{
		BarberID:   barberID,
		Weekday:    weekday,
		StartTime:  start,
		EndTime:    end,
		LunchStart: lunchStart,
		LunchEnd:   lunchEnd,
		Active:     true,
	}
}

func (r *fakeRepo) seedService(id uint, durationMin int, price float64) {
	r.services = append(r.services, models.BarberService{
		ID:           id,
		BarbershopID: r.shop.ID,
		Name:         fmt.Sprintf("Serviço %d", id),
		DurationMin:  durationMin,
		Price:        price,
		Active:       true,
	})
}

func (r *fakeRepo) seedScheduled(barberID uint, day time.Time, hour, min, durationMin int) uint {
	start := time.Date(day.Year(), day.Month(), day.Day(), hour, min, 0, 0, day.Location())
	end := start.Add(time.Duration(durationMin) * time.Minute)

	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.nextAppointmentID
	r.nextAppointmentID++
	r.appointments[id] = models.Appointment{
		ID:               id,
		BarbershopID:     r.shop.ID,
		BarberID:         barberID,
		Date:             day,
		StartTime:        &start,
		EndTime:          &end,
		Type:             string(domain.TypeScheduled),
		Priority:         string(domain.PriorityNormal),
		Status:           string(domain.StatusPending),
		TotalDurationMin: durationMin,
	}
	return id
}

func (r *fakeRepo) seedQueued(barberID uint, day time.Time, position int, priority domain.Priority, durationMin int) uint {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.nextAppointmentID
	r.nextAppointmentID++
	pos := position
	r.appointments[id] = models.Appointment{
		ID:               id,
		BarbershopID:     r.shop.ID,
		BarberID:         barberID,
		Date:             day,
		Type:             string(domain.TypeQueue),
		Priority:         string(priority),
		Status:           string(domain.StatusPending),
		QueuePosition:    &pos,
		TotalDurationMin: durationMin,
		CreatedAt:        time.Now(),
	}
	return id
}

func (r *fakeRepo) get(id uint) models.Appointment {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.appointments[id]
}

// ---------- leitura ----------

func (r *fakeRepo) GetBarbershopByID(_ context.Context, id uint) (*models.Barbershop, error) {
	if id != r.shop.ID {
		return nil, errNotFound
	}
	shop := r.shop
	return &shop, nil
}

func (r *fakeRepo) GetBarbershopBySlug(_ context.Context, slug string) (*models.Barbershop, error) {
	if slug != r.shop.Slug {
		return nil, errNotFound
	}
	shop := r.shop
	return &shop, nil
}

func (r *fakeRepo) GetCatalog(_ context.Context, _ uint) (*domain.Catalog, error) {
	return domain.NewCatalog(r.services, r.addOns), nil
}

func (r *fakeRepo) ListActiveBarbers(_ context.Context, _ uint) ([]models.User, error) {
	var out []models.User
	for _, b := range r.barbers {
		if b.Active {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeRepo) GetOrCreateClient(_ context.Context, barbershopID uint, name, phone, email string) (*models.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range r.clients {
		if phone != "" && c.Phone == phone {
			client := c
			return &client, nil
		}
	}

	client := models.Client{
		ID:           r.nextClientID,
		BarbershopID: barbershopID,
		Name:         name,
		Phone:        phone,
		Email:        email,
	}
	r.nextClientID++
	r.clients[client.ID] = client
	return &client, nil
}

func (r *fakeRepo) GetWorkingHours(_ context.Context, barberID uint, weekday int) (*models.WorkingHours, error) {
	wh, ok := r.hours[barberID][weekday]
	if !ok {
		return nil, errNotFound
	}
	return &wh, nil
}

func (r *fakeRepo) listLocked(barberID uint, dayStart, dayEnd time.Time, queueOnly bool) []models.Appointment {
	ids := make([]uint, 0, len(r.appointments))
	for id := range r.appointments {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var out []models.Appointment
	for _, id := range ids {
		ap := r.appointments[id]
		if ap.BarberID != barberID {
			continue
		}
		if ap.Date.Before(dayStart) || !ap.Date.Before(dayEnd) {
			continue
		}
		if queueOnly && domain.Type(ap.Type) != domain.TypeQueue {
			continue
		}
		out = append(out, ap)
	}
	return out
}

func (r *fakeRepo) ListDayAppointments(_ context.Context, barberID uint, dayStart, dayEnd time.Time) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.listLocked(barberID, dayStart, dayEnd, false), nil
}

func (r *fakeRepo) ListQueue(_ context.Context, barberID uint, dayStart, dayEnd time.Time) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.listLocked(barberID, dayStart, dayEnd, true), nil
}

// ---------- escrita atômica ----------

func (r *fakeRepo) CreateScheduled(_ context.Context, ap *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, other := range r.appointments {
		if other.BarberID != ap.BarberID {
			continue
		}
		if domain.Type(other.Type) != domain.TypeScheduled {
			continue
		}
		if !domain.Status(other.Status).IsOccupying() || other.StartTime == nil {
			continue
		}
		if domain.Overlaps(*ap.StartTime, ap.TotalDurationMin, *other.StartTime, other.TotalDurationMin) {
			return httperr.ErrConflict("time_conflict")
		}
	}

	ap.ID = r.nextAppointmentID
	r.nextAppointmentID++
	r.appointments[ap.ID] = *ap
	return nil
}

func (r *fakeRepo) CreateQueued(_ context.Context, ap *models.Appointment, position int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	dayEnd := ap.Date.Add(24 * time.Hour)
	for id, other := range r.appointments {
		if other.BarberID != ap.BarberID || domain.Type(other.Type) != domain.TypeQueue {
			continue
		}
		if other.Date.Before(ap.Date) || !other.Date.Before(dayEnd) {
			continue
		}
		if other.QueuePosition != nil && *other.QueuePosition >= position {
			next := *other.QueuePosition + 1
			other.QueuePosition = &next
			r.appointments[id] = other
		}
	}

	pos := position
	ap.QueuePosition = &pos
	ap.ID = r.nextAppointmentID
	r.nextAppointmentID++
	r.appointments[ap.ID] = *ap
	return nil
}

// ---------- mudança de estado ----------

func (r *fakeRepo) GetAppointmentForShop(_ context.Context, appointmentID, barbershopID uint) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ap, ok := r.appointments[appointmentID]
	if !ok || ap.BarbershopID != barbershopID {
		return nil, errNotFound
	}
	return &ap, nil
}

func (r *fakeRepo) UpdateAppointment(_ context.Context, ap *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.appointments[ap.ID]; !ok {
		return errNotFound
	}
	r.appointments[ap.ID] = *ap
	return nil
}

// UpdateScheduledTime revalida o conflito sob o mesmo lock da escrita,
// ignorando a própria linha — espelho do repositório real.
func (r *fakeRepo) UpdateScheduledTime(_ context.Context, ap *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.appointments[ap.ID]; !ok {
		return errNotFound
	}

	for id, other := range r.appointments {
		if id == ap.ID || other.BarberID != ap.BarberID {
			continue
		}
		if domain.Type(other.Type) != domain.TypeScheduled {
			continue
		}
		if !domain.Status(other.Status).IsOccupying() || other.StartTime == nil {
			continue
		}
		if domain.Overlaps(*ap.StartTime, ap.TotalDurationMin, *other.StartTime, other.TotalDurationMin) {
			return httperr.ErrConflict("time_conflict")
		}
	}

	r.appointments[ap.ID] = *ap
	return nil
}

func (r *fakeRepo) RenumberQueue(_ context.Context, barberID uint, dayStart, dayEnd time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	queued := r.listLocked(barberID, dayStart, dayEnd, true)
	waiting := domain.Waiting(domain.EntriesFrom(queued))
	renumbered := domain.Renumber(waiting)

	for id, pos := range renumbered {
		ap := r.appointments[id]
		p := pos
		ap.QueuePosition = &p
		r.appointments[id] = ap
	}
	return nil
}

func (r *fakeRepo) CountWaiting(_ context.Context, barberID uint, dayStart, dayEnd time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	queued := r.listLocked(barberID, dayStart, dayEnd, true)
	return int64(len(domain.Waiting(domain.EntriesFrom(queued)))), nil
}

func (r *fakeRepo) ListAppointmentsForPeriod(_ context.Context, barberID uint, start, end time.Time) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.listLocked(barberID, start, end, false), nil
}

// Compile-time check
var _ domain.Repository = (*fakeRepo)(nil)

// ======================================================
// Notifier + auditoria de teste
// ======================================================

type fakeNotifier struct {
	mu       sync.Mutex
	changed  int
	outcomes []domain.OutcomeEvent
}

func (n *fakeNotifier) AppointmentChanged(_ context.Context, _ uint, _ time.Time) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.changed++
}

func (n *fakeNotifier) Outcome(_ context.Context, ev domain.OutcomeEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.outcomes = append(n.outcomes, ev)
}

var _ domain.Notifier = (*fakeNotifier)(nil)

type noopSink struct{}

func (noopSink) Log(_ uint, _ *uint, _, _ string, _ *uint, _ any) error {
	return nil
}

func newTestAudit() *audit.Dispatcher {
	return audit.NewDispatcher(noopSink{})
}

// ======================================================
// Fixtures
// ======================================================

// segunda-feira, no fuso da barbearia de teste (UTC)
var testDay = time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)

const testDate = "2026-09-14"

func testConfig() *config.Config {
	return &config.Config{
		SlotStepMin:        30,
		AvgServiceMin:      30,
		QueueCapacity:      10,
		UrgentSurcharge:    10,
		PromoteMinPriority: "high",
		StoreTimeoutSec:    5,
		AlternativesLimit:  3,
	}
}

// barbearia com um barbeiro atendendo 09:00–18:00, almoço 12:00–13:00
func newTestRepo() *fakeRepo {
	r := newFakeRepo()
	r.seedBarber(1, "Carlos")
	r.seedHours(1, int(testDay.Weekday()), "09:00", "18:00", "12:00", "13:00")
	r.seedService(10, 30, 50)
	return r
}

func at(hour, min int) time.Time {
	return time.Date(testDay.Year(), testDay.Month(), testDay.Day(), hour, min, 0, 0, time.UTC)
}
