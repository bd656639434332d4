package scheduling

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barberflow/internal/config"
	domain "github.com/BruksfildServices01/barberflow/internal/domain/scheduling"
	"github.com/BruksfildServices01/barberflow/internal/dto"
	"github.com/BruksfildServices01/barberflow/internal/httperr"
)

func newEngine(r *fakeRepo, cfg *config.Config, n *fakeNotifier) *SmartInsert {
	finder := NewFindAlternatives(r, cfg)
	return NewSmartInsert(r, cfg, finder, newTestAudit(), n)
}

func baseRequest() dto.BookingRequest {
	return dto.BookingRequest{
		ClientName:  "João",
		ClientPhone: "11999990000",
		BarberID:    1,
		ServiceID:   10,
		Date:        testDate,
	}
}

// ------------------------------------------------------
// Validação
// ------------------------------------------------------

func TestMissingRequiredFieldsFailBeforeStore(t *testing.T) {
	engine := newEngine(newTestRepo(), testConfig(), &fakeNotifier{})

	_, err := engine.Execute(context.Background(), SmartInsertInput{
		BarbershopID: 1,
		Request:      dto.BookingRequest{ClientName: "João"},
	})

	require.Error(t, err)
	assert.True(t, httperr.IsKind(err, httperr.KindValidation))
	assert.True(t, httperr.IsBusiness(err, "missing_required_fields"))
}

func TestFriendBookingRequiresValidPayload(t *testing.T) {
	engine := newEngine(newTestRepo(), testConfig(), &fakeNotifier{})

	req := baseRequest()
	req.ForFriend = true // sem req.Friend

	_, err := engine.Execute(context.Background(), SmartInsertInput{
		BarbershopID: 1,
		Request:      req,
	})

	require.Error(t, err)
	assert.True(t, httperr.IsBusiness(err, "invalid_friend_booking"))
}

func TestPublicBookingEnforcesMinAdvance(t *testing.T) {
	engine := newEngine(newTestRepo(), testConfig(), &fakeNotifier{})

	desired := time.Now().UTC().Add(10 * time.Minute)
	req := baseRequest()
	req.Date = desired.Format("2006-01-02")
	req.Time = desired.Format("15:04")

	_, err := engine.Execute(context.Background(), SmartInsertInput{
		BarbershopID:      1,
		Request:           req,
		EnforceMinAdvance: true,
	})

	require.Error(t, err)
	assert.True(t, httperr.IsBusiness(err, "too_soon"))
}

// ------------------------------------------------------
// Horário pedido
// ------------------------------------------------------

func TestDesiredSlotFreeBooksScheduled(t *testing.T) {
	repo := newTestRepo()
	notifier := &fakeNotifier{}
	engine := newEngine(repo, testConfig(), notifier)

	req := baseRequest()
	req.Time = "09:00"

	out, err := engine.Execute(context.Background(), SmartInsertInput{
		BarbershopID: 1,
		Request:      req,
	})

	require.NoError(t, err)
	assert.Equal(t, string(domain.OutcomeScheduled), out.OutcomeType)
	assert.Equal(t, string(domain.StatusPending), out.Status)
	require.NotNil(t, out.AssignedTime)
	assert.True(t, out.AssignedTime.Equal(at(9, 0)))

	stored := repo.get(out.AppointmentID)
	assert.Equal(t, string(domain.TypeScheduled), stored.Type)
	assert.Equal(t, 30, stored.TotalDurationMin)
	assert.Equal(t, 50.0, stored.TotalPrice)
	require.NotNil(t, stored.EndTime)
	assert.True(t, stored.EndTime.Equal(at(9, 30)))

	require.Len(t, notifier.outcomes, 1)
	assert.Equal(t, domain.OutcomeScheduled, notifier.outcomes[0].OutcomeType)
}

func TestDesiredSlotTakenFallsToQueue(t *testing.T) {
	repo := newTestRepo()
	repo.seedScheduled(1, testDay, 9, 0, 30)
	engine := newEngine(repo, testConfig(), &fakeNotifier{})

	req := baseRequest()
	req.Time = "09:00"

	out, err := engine.Execute(context.Background(), SmartInsertInput{
		BarbershopID: 1,
		Request:      req,
	})

	require.NoError(t, err)
	assert.Equal(t, string(domain.OutcomeQueued), out.OutcomeType)
	require.NotNil(t, out.QueuePosition)
	assert.Equal(t, 1, *out.QueuePosition)
	assert.Equal(t, "0 min", out.EstimatedWait)

	stored := repo.get(out.AppointmentID)
	assert.Equal(t, string(domain.TypeQueue), stored.Type)
	assert.Nil(t, stored.StartTime)
	assert.Nil(t, stored.EndTime)
}

// ------------------------------------------------------
// Promoção por prioridade
// ------------------------------------------------------

func TestHighPriorityPromotedToFirstFreeSlot(t *testing.T) {
	repo := newTestRepo()
	repo.seedScheduled(1, testDay, 9, 0, 30)
	engine := newEngine(repo, testConfig(), &fakeNotifier{})

	req := baseRequest()
	req.Priority = string(domain.PriorityHigh) // sem horário pedido

	out, err := engine.Execute(context.Background(), SmartInsertInput{
		BarbershopID: 1,
		Request:      req,
	})

	require.NoError(t, err)
	assert.Equal(t, string(domain.OutcomeScheduled), out.OutcomeType)
	require.NotNil(t, out.AssignedTime)
	assert.True(t, out.AssignedTime.Equal(at(9, 30)))
}

func TestUrgentFlagPromotesAndChargesSurcharge(t *testing.T) {
	repo := newTestRepo()
	engine := newEngine(repo, testConfig(), &fakeNotifier{})

	req := baseRequest()
	req.Priority = string(domain.PriorityLow)
	req.IsUrgent = true

	out, err := engine.Execute(context.Background(), SmartInsertInput{
		BarbershopID: 1,
		Request:      req,
	})

	require.NoError(t, err)
	assert.Equal(t, string(domain.OutcomeScheduled), out.OutcomeType)

	stored := repo.get(out.AppointmentID)
	assert.Equal(t, string(domain.PriorityUrgent), stored.Priority)
	assert.Equal(t, 60.0, stored.TotalPrice) // 50 + sobretaxa urgente
}

// ------------------------------------------------------
// Fila
// ------------------------------------------------------

func TestWalkInAlwaysQueues(t *testing.T) {
	repo := newTestRepo()
	engine := newEngine(repo, testConfig(), &fakeNotifier{})

	req := baseRequest()
	req.Time = "09:00" // ignorado: walk-in não reserva horário fixo
	req.WalkIn = true

	out, err := engine.Execute(context.Background(), SmartInsertInput{
		BarbershopID: 1,
		Request:      req,
	})

	require.NoError(t, err)
	assert.Equal(t, string(domain.OutcomeQueued), out.OutcomeType)
	require.NotNil(t, out.QueuePosition)
	assert.Equal(t, 1, *out.QueuePosition)
}

func TestUrgentWalkInJumpsTheQueue(t *testing.T) {
	repo := newTestRepo()
	first := repo.seedQueued(1, testDay, 1, domain.PriorityNormal, 30)
	second := repo.seedQueued(1, testDay, 2, domain.PriorityNormal, 30)
	engine := newEngine(repo, testConfig(), &fakeNotifier{})

	req := baseRequest()
	req.WalkIn = true
	req.IsUrgent = true

	out, err := engine.Execute(context.Background(), SmartInsertInput{
		BarbershopID: 1,
		Request:      req,
	})

	require.NoError(t, err)
	require.NotNil(t, out.QueuePosition)
	assert.Equal(t, 1, *out.QueuePosition)

	// os normais foram deslocados, sem buraco na sequência
	require.NotNil(t, repo.get(first).QueuePosition)
	assert.Equal(t, 2, *repo.get(first).QueuePosition)
	require.NotNil(t, repo.get(second).QueuePosition)
	assert.Equal(t, 3, *repo.get(second).QueuePosition)
}

func TestClosedDayFallsToQueue(t *testing.T) {
	repo := newFakeRepo() // sem working hours
	repo.seedBarber(1, "Carlos")
	repo.seedService(10, 30, 50)
	engine := newEngine(repo, testConfig(), &fakeNotifier{})

	req := baseRequest()
	req.Time = "09:00"

	out, err := engine.Execute(context.Background(), SmartInsertInput{
		BarbershopID: 1,
		Request:      req,
	})

	require.NoError(t, err)
	assert.Equal(t, string(domain.OutcomeQueued), out.OutcomeType)
}

// ------------------------------------------------------
// Saturação
// ------------------------------------------------------

func TestSaturationSuggestsAlternatives(t *testing.T) {
	repo := newFakeRepo()
	repo.seedService(10, 30, 50)

	// barbeiro 1: expediente curto, os dois slots tomados e fila no limite
	repo.seedBarber(1, "Carlos")
	repo.seedHours(1, int(testDay.Weekday()), "09:00", "10:00", "", "")
	repo.seedScheduled(1, testDay, 9, 0, 30)
	repo.seedScheduled(1, testDay, 9, 30, 30)
	repo.seedQueued(1, testDay, 1, domain.PriorityNormal, 30)

	// barbeiro 2: dia livre
	repo.seedBarber(2, "Rafael")
	repo.seedHours(2, int(testDay.Weekday()), "09:00", "18:00", "12:00", "13:00")

	cfg := testConfig()
	cfg.QueueCapacity = 1
	engine := newEngine(repo, cfg, &fakeNotifier{})

	out, err := engine.Execute(context.Background(), SmartInsertInput{
		BarbershopID: 1,
		Request:      baseRequest(),
	})

	require.Error(t, err)
	assert.True(t, httperr.IsKind(err, httperr.KindSaturation))

	require.NotNil(t, out)
	assert.Equal(t, string(domain.OutcomeAlternativeSuggested), out.OutcomeType)
	require.Len(t, out.Alternatives, 1)
	assert.Equal(t, uint(2), out.Alternatives[0].BarberID)
	assert.True(t, out.Alternatives[0].NextAvailableTime.Equal(at(9, 0)))
}

func TestQueueAtCapacityWithFreeSlotBooksSlot(t *testing.T) {
	repo := newTestRepo()
	repo.seedQueued(1, testDay, 1, domain.PriorityNormal, 30)

	cfg := testConfig()
	cfg.QueueCapacity = 1
	engine := newEngine(repo, cfg, &fakeNotifier{})

	out, err := engine.Execute(context.Background(), SmartInsertInput{
		BarbershopID: 1,
		Request:      baseRequest(),
	})

	require.NoError(t, err)
	assert.Equal(t, string(domain.OutcomeScheduled), out.OutcomeType)
	require.NotNil(t, out.AssignedTime)
	assert.True(t, out.AssignedTime.Equal(at(9, 0)))
}

// ------------------------------------------------------
// Corrida pelo mesmo horário
// ------------------------------------------------------

func TestConcurrentBookingsNeverDoubleBookSlot(t *testing.T) {
	repo := newTestRepo()
	engine := newEngine(repo, testConfig(), &fakeNotifier{})

	req := baseRequest()
	req.Time = "09:00"

	type result struct {
		out *dto.BookingOutcome
		err error
	}

	start := make(chan struct{})
	results := make(chan result, 2)

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			out, err := engine.Execute(context.Background(), SmartInsertInput{
				BarbershopID: 1,
				Request:      req,
			})
			results <- result{out: out, err: err}
		}()
	}
	close(start)
	wg.Wait()
	close(results)

	scheduled := 0
	for res := range results {
		if res.err != nil {
			// quem perdeu a corrida recebe conflito re-tentável
			assert.True(t, httperr.IsKind(res.err, httperr.KindConflict))
			continue
		}
		if res.out.OutcomeType == string(domain.OutcomeScheduled) {
			scheduled++
		}
	}

	// o invariante: nunca dois horários fixos no mesmo slot
	repo.mu.Lock()
	defer repo.mu.Unlock()
	count := 0
	for _, ap := range repo.appointments {
		if domain.Type(ap.Type) == domain.TypeScheduled &&
			ap.StartTime != nil && ap.StartTime.Equal(at(9, 0)) {
			count++
		}
	}
	assert.Equal(t, 1, count)
	assert.LessOrEqual(t, scheduled, 1)
}

// dois walk-ins disputando uma fila vazia: os dois leram o mesmo
// snapshot (posição 1), mas a escrita serializada desloca o primeiro —
// a fila termina densa 1..2, nunca com posição duplicada.
func TestConcurrentWalkInsKeepDenseQueue(t *testing.T) {
	repo := newTestRepo()
	engine := newEngine(repo, testConfig(), &fakeNotifier{})

	req := baseRequest()
	req.WalkIn = true

	start := make(chan struct{})
	errs := make(chan error, 2)

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := engine.Execute(context.Background(), SmartInsertInput{
				BarbershopID: 1,
				Request:      req,
			})
			errs <- err
		}()
	}
	close(start)
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	repo.mu.Lock()
	defer repo.mu.Unlock()
	positions := map[int]int{}
	for _, ap := range repo.appointments {
		if domain.Type(ap.Type) != domain.TypeQueue || ap.QueuePosition == nil {
			continue
		}
		positions[*ap.QueuePosition]++
	}
	assert.Equal(t, map[int]int{1: 1, 2: 1}, positions)
}
