package scheduling

import (
	"context"

	"github.com/BruksfildServices01/barberflow/internal/audit"
	"github.com/BruksfildServices01/barberflow/internal/config"
	domain "github.com/BruksfildServices01/barberflow/internal/domain/scheduling"
	"github.com/BruksfildServices01/barberflow/internal/httperr"
	"github.com/BruksfildServices01/barberflow/internal/models"
)

type ConfirmAppointment struct {
	repo     domain.Repository
	cfg      *config.Config
	audit    *audit.Dispatcher
	notifier domain.Notifier
}

func NewConfirmAppointment(
	repo domain.Repository,
	cfg *config.Config,
	auditDispatcher *audit.Dispatcher,
	notifier domain.Notifier,
) *ConfirmAppointment {
	return &ConfirmAppointment{
		repo:     repo,
		cfg:      cfg,
		audit:    auditDispatcher,
		notifier: notifier,
	}
}

func (uc *ConfirmAppointment) Execute(
	ctx context.Context,
	barbershopID uint,
	appointmentID uint,
) (*models.Appointment, error) {

	ctx, cancel := withStoreTimeout(ctx, uc.cfg)
	defer cancel()

	ap, err := uc.repo.GetAppointmentForShop(ctx, appointmentID, barbershopID)
	if err != nil {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}

	if err := domain.Confirm(ap); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		BarbershopID: barbershopID,
		UserID:       &ap.BarberID,
		Action:       "appointment_confirmed",
		Entity:       "appointment",
		EntityID:     &ap.ID,
	})

	uc.notifier.AppointmentChanged(ctx, ap.BarberID, ap.Date)

	return ap, nil
}
