package scheduling

import (
	"context"
	"time"

	"github.com/BruksfildServices01/barberflow/internal/config"
	domain "github.com/BruksfildServices01/barberflow/internal/domain/scheduling"
	"github.com/BruksfildServices01/barberflow/internal/timezone"
)

// dayBounds: [meia-noite, meia-noite+24h) no fuso da barbearia
func dayBounds(tz string, date time.Time) (time.Time, time.Time) {
	loc := timezone.Location(tz)
	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
	return start, start.Add(24 * time.Hour)
}

// withStoreTimeout limita toda ida ao store; estourou, a tentativa de
// reserva falha com erro re-tentável (ver storeErr na infra).
func withStoreTimeout(ctx context.Context, cfg *config.Config) (context.Context, context.CancelFunc) {
	timeout := time.Duration(cfg.StoreTimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return context.WithTimeout(ctx, timeout)
}

// daySlots monta a grade do dia para um barbeiro: working hours +
// almoço + ocupação atual. ok=false quando o barbeiro não atende no dia.
func daySlots(
	ctx context.Context,
	repo domain.Repository,
	cfg *config.Config,
	barberID uint,
	tz string,
	date time.Time,
	durationMin int,
	excludeID uint,
) ([]domain.Slot, bool, error) {

	wh, err := repo.GetWorkingHours(ctx, barberID, int(date.Weekday()))
	if err != nil {
		return nil, false, nil // sem working hours = dia inativo
	}

	dayStart, dayEnd := dayBounds(tz, date)

	window, ok := domain.WindowFromWorkingHours(wh, dayStart)
	if !ok {
		return nil, false, nil
	}

	existing, err := repo.ListDayAppointments(ctx, barberID, dayStart, dayEnd)
	if err != nil {
		return nil, false, err
	}

	slots := domain.BuildDaySlots(domain.AvailabilityInput{
		Window:      window,
		StepMin:     cfg.SlotStepMin,
		DurationMin: durationMin,
		Existing:    domain.OccupiedFrom(existing),
		ExcludeID:   excludeID,
	})

	return slots, true, nil
}
