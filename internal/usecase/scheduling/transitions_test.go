package scheduling

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/barberflow/internal/domain/scheduling"
	"github.com/BruksfildServices01/barberflow/internal/httperr"
)

func TestConfirmAppointment(t *testing.T) {
	repo := newTestRepo()
	id := repo.seedScheduled(1, testDay, 9, 0, 30)

	uc := NewConfirmAppointment(repo, testConfig(), newTestAudit(), &fakeNotifier{})

	ap, err := uc.Execute(context.Background(), 1, id)

	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusConfirmed), ap.Status)
	assert.Equal(t, string(domain.StatusConfirmed), repo.get(id).Status)
}

func TestConfirmUnknownAppointment(t *testing.T) {
	uc := NewConfirmAppointment(newTestRepo(), testConfig(), newTestAudit(), &fakeNotifier{})

	_, err := uc.Execute(context.Background(), 1, 999)

	require.Error(t, err)
	assert.True(t, httperr.IsBusiness(err, "appointment_not_found"))
}

func TestStartQueuedRenumbersWaiting(t *testing.T) {
	repo := newTestRepo()
	first := repo.seedQueued(1, testDay, 1, domain.PriorityNormal, 30)
	second := repo.seedQueued(1, testDay, 2, domain.PriorityNormal, 30)
	third := repo.seedQueued(1, testDay, 3, domain.PriorityNormal, 30)

	uc := NewStartService(repo, testConfig(), newTestAudit(), &fakeNotifier{})

	ap, err := uc.Execute(context.Background(), 1, first)

	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusOngoing), ap.Status)
	require.NotNil(t, ap.QueuePosition)
	assert.Equal(t, 0, *ap.QueuePosition) // posição 0 = em atendimento

	// a espera volta a ser densa: 1..N
	require.NotNil(t, repo.get(second).QueuePosition)
	assert.Equal(t, 1, *repo.get(second).QueuePosition)
	require.NotNil(t, repo.get(third).QueuePosition)
	assert.Equal(t, 2, *repo.get(third).QueuePosition)
}

func TestCompleteOngoingClearsPosition(t *testing.T) {
	repo := newTestRepo()
	id := repo.seedQueued(1, testDay, 1, domain.PriorityNormal, 30)

	startUC := NewStartService(repo, testConfig(), newTestAudit(), &fakeNotifier{})
	_, err := startUC.Execute(context.Background(), 1, id)
	require.NoError(t, err)

	completeUC := NewCompleteAppointment(repo, testConfig(), newTestAudit(), &fakeNotifier{})
	ap, err := completeUC.Execute(context.Background(), 1, id)

	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusDone), ap.Status)
	assert.Nil(t, ap.QueuePosition)
	assert.NotNil(t, ap.CompletedAt)
}

func TestCancelMiddleOfQueueRenumbers(t *testing.T) {
	repo := newTestRepo()
	first := repo.seedQueued(1, testDay, 1, domain.PriorityNormal, 30)
	second := repo.seedQueued(1, testDay, 2, domain.PriorityNormal, 30)
	third := repo.seedQueued(1, testDay, 3, domain.PriorityNormal, 30)

	uc := NewCancelAppointment(repo, testConfig(), newTestAudit(), &fakeNotifier{})

	ap, err := uc.Execute(context.Background(), 1, second)

	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCancelled), ap.Status)
	assert.Nil(t, ap.QueuePosition)
	assert.NotNil(t, ap.CancelledAt)

	assert.Equal(t, 1, *repo.get(first).QueuePosition)
	assert.Equal(t, 2, *repo.get(third).QueuePosition)
}

func TestCancelTerminalIsRejected(t *testing.T) {
	repo := newTestRepo()
	id := repo.seedQueued(1, testDay, 1, domain.PriorityNormal, 30)

	uc := NewCancelAppointment(repo, testConfig(), newTestAudit(), &fakeNotifier{})

	_, err := uc.Execute(context.Background(), 1, id)
	require.NoError(t, err)

	_, err = uc.Execute(context.Background(), 1, id)
	require.Error(t, err)
	assert.True(t, httperr.IsBusiness(err, "invalid_state"))
}

func TestRescheduleToFreeSlot(t *testing.T) {
	repo := newTestRepo()
	id := repo.seedScheduled(1, testDay, 9, 0, 30)

	uc := NewReschedule(repo, testConfig(), newTestAudit(), &fakeNotifier{})

	ap, err := uc.Execute(context.Background(), 1, id, testDate, "14:00")

	require.NoError(t, err)
	require.NotNil(t, ap.StartTime)
	assert.True(t, ap.StartTime.Equal(at(14, 0)))
	require.NotNil(t, ap.EndTime)
	assert.True(t, ap.EndTime.Equal(at(14, 30)))
}

// o próprio horário atual não bloqueia a remarcação (auto-exclusão),
// mas o horário de outro agendamento bloqueia.
func TestRescheduleSelfExclusionAndConflict(t *testing.T) {
	repo := newTestRepo()
	id := repo.seedScheduled(1, testDay, 9, 0, 30)
	repo.seedScheduled(1, testDay, 10, 0, 30)

	uc := NewReschedule(repo, testConfig(), newTestAudit(), &fakeNotifier{})

	// voltar para o próprio horário é permitido
	ap, err := uc.Execute(context.Background(), 1, id, testDate, "09:00")
	require.NoError(t, err)
	assert.True(t, ap.StartTime.Equal(at(9, 0)))

	// o horário do vizinho não
	_, err = uc.Execute(context.Background(), 1, id, testDate, "10:00")
	require.Error(t, err)
	assert.True(t, httperr.IsKind(err, httperr.KindConflict))
}

// duas remarcações disputando o mesmo horário livre: a grade que as duas
// leram dizia "disponível", mas a revalidação na escrita só deixa uma
// passar — a outra recebe conflito re-tentável.
func TestConcurrentReschedulesKeepSlotExclusive(t *testing.T) {
	repo := newTestRepo()
	first := repo.seedScheduled(1, testDay, 9, 0, 30)
	second := repo.seedScheduled(1, testDay, 10, 0, 30)

	uc := NewReschedule(repo, testConfig(), newTestAudit(), &fakeNotifier{})

	start := make(chan struct{})
	errs := make(chan error, 2)

	var wg sync.WaitGroup
	for _, id := range []uint{first, second} {
		wg.Add(1)
		go func(id uint) {
			defer wg.Done()
			<-start
			_, err := uc.Execute(context.Background(), 1, id, testDate, "14:00")
			errs <- err
		}(id)
	}
	close(start)
	wg.Wait()
	close(errs)

	won, lost := 0, 0
	for err := range errs {
		if err != nil {
			assert.True(t, httperr.IsKind(err, httperr.KindConflict))
			lost++
			continue
		}
		won++
	}
	assert.Equal(t, 1, won)
	assert.Equal(t, 1, lost)

	// nunca dois horários fixos ocupando o slot disputado
	repo.mu.Lock()
	defer repo.mu.Unlock()
	count := 0
	for _, ap := range repo.appointments {
		if domain.Type(ap.Type) == domain.TypeScheduled &&
			domain.Status(ap.Status).IsOccupying() &&
			ap.StartTime != nil && ap.StartTime.Equal(at(14, 0)) {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestRescheduleQueueEntryIsRejected(t *testing.T) {
	repo := newTestRepo()
	id := repo.seedQueued(1, testDay, 1, domain.PriorityNormal, 30)

	uc := NewReschedule(repo, testConfig(), newTestAudit(), &fakeNotifier{})

	_, err := uc.Execute(context.Background(), 1, id, testDate, "14:00")

	require.Error(t, err)
	assert.True(t, httperr.IsBusiness(err, "not_a_scheduled_appointment"))
}
