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

type CompleteAppointment struct {
	repo     domain.Repository
	cfg      *config.Config
	audit    *audit.Dispatcher
	notifier domain.Notifier
}

func NewCompleteAppointment(
	repo domain.Repository,
	cfg *config.Config,
	auditDispatcher *audit.Dispatcher,
	notifier domain.Notifier,
) *CompleteAppointment {
	return &CompleteAppointment{
		repo:     repo,
		cfg:      cfg,
		audit:    auditDispatcher,
		notifier: notifier,
	}
}

func (uc *CompleteAppointment) Execute(
	ctx context.Context,
	barbershopID uint,
	appointmentID uint,
) (*models.Appointment, error) {

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

	wasQueue := domain.Type(ap.Type) == domain.TypeQueue

	now := timezone.NowIn(shop.Timezone)
	if err := domain.Complete(ap, now); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	if wasQueue {
		dayEnd := ap.Date.Add(24 * time.Hour)
		if err := uc.repo.RenumberQueue(ctx, ap.BarberID, ap.Date, dayEnd); err != nil {
			return nil, err
		}
	}

	uc.audit.Dispatch(audit.Event{
		BarbershopID: barbershopID,
		UserID:       &ap.BarberID,
		Action:       "appointment_completed",
		Entity:       "appointment",
		EntityID:     &ap.ID,
	})

	uc.notifier.AppointmentChanged(ctx, ap.BarberID, ap.Date)

	return ap, nil
}
