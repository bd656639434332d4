package scheduling

import (
	"context"
	"time"

	"github.com/BruksfildServices01/barberflow/internal/audit"
	"github.com/BruksfildServices01/barberflow/internal/config"
	domain "github.com/BruksfildServices01/barberflow/internal/domain/scheduling"
	"github.com/BruksfildServices01/barberflow/internal/httperr"
	"github.com/BruksfildServices01/barberflow/internal/models"
	"github.com/BruksfildServices01/barberflow/internal/timezone"
)

// Reschedule muda o horário de um agendamento fixo. O horário original
// do próprio agendamento nunca conflita consigo mesmo (auto-exclusão),
// então salvar sem mudar nada não gera conflito espúrio.
type Reschedule struct {
	repo     domain.Repository
	cfg      *config.Config
	audit    *audit.Dispatcher
	notifier domain.Notifier
}

func NewReschedule(
	repo domain.Repository,
	cfg *config.Config,
	auditDispatcher *audit.Dispatcher,
	notifier domain.Notifier,
) *Reschedule {
	return &Reschedule{
		repo:     repo,
		cfg:      cfg,
		audit:    auditDispatcher,
		notifier: notifier,
	}
}

func (uc *Reschedule) Execute(
	ctx context.Context,
	barbershopID uint,
	appointmentID uint,
	dateStr string,
	timeStr string,
) (*models.Appointment, error) {

	if dateStr == "" || timeStr == "" {
		return nil, httperr.ErrValidation("missing_required_fields")
	}

	ctx, cancel := withStoreTimeout(ctx, uc.cfg)
	defer cancel()

	shop, err := uc.repo.GetBarbershopByID(ctx, barbershopID)
	if err != nil {
		return nil, err
	}

	ap, err := uc.repo.GetAppointmentForShop(ctx, appointmentID, barbershopID)
	if err != nil {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}

	if domain.Type(ap.Type) != domain.TypeScheduled {
		return nil, httperr.ErrBusiness("not_a_scheduled_appointment")
	}
	if domain.Status(ap.Status).IsTerminal() {
		return nil, httperr.ErrBusiness("invalid_state")
	}

	loc := timezone.Location(shop.Timezone)

	start, err := time.ParseInLocation("2006-01-02 15:04", dateStr+" "+timeStr, loc)
	if err != nil {
		return nil, httperr.ErrValidation("invalid_date_or_time")
	}

	date, _ := time.ParseInLocation("2006-01-02", dateStr, loc)

	slots, open, err := daySlots(
		ctx, uc.repo, uc.cfg,
		ap.BarberID, shop.Timezone, date,
		ap.TotalDurationMin, ap.ID,
	)
	if err != nil {
		return nil, err
	}
	if !open {
		return nil, httperr.ErrBusiness("outside_working_hours")
	}

	slot, found := domain.SlotAt(slots, start)
	if !found || slot.State != domain.SlotAvailable {
		return nil, httperr.ErrConflict("time_conflict")
	}

	oldDate := ap.Date
	end := start.Add(time.Duration(ap.TotalDurationMin) * time.Minute)

	dayStart, _ := dayBounds(shop.Timezone, date)
	ap.Date = dayStart
	ap.StartTime = &start
	ap.EndTime = &end

	// A grade acima é só um snapshot: a palavra final sobre o conflito
	// é da revalidação dentro da transação de escrita.
	if err := uc.repo.UpdateScheduledTime(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		BarbershopID: barbershopID,
		UserID:       &ap.BarberID,
		Action:       "appointment_rescheduled",
		Entity:       "appointment",
		EntityID:     &ap.ID,
	})

	uc.notifier.AppointmentChanged(ctx, ap.BarberID, oldDate)
	if !oldDate.Equal(ap.Date) {
		uc.notifier.AppointmentChanged(ctx, ap.BarberID, ap.Date)
	}

	return ap, nil
}
