package scheduling

import (
	"context"
	"time"

	"github.com/BruksfildServices01/barberflow/internal/audit"
	"github.com/BruksfildServices01/barberflow/internal/config"
	domain "github.com/BruksfildServices01/barberflow/internal/domain/scheduling"
	"github.com/BruksfildServices01/barberflow/internal/httperr"
	"github.com/BruksfildServices01/barberflow/internal/models"
)

// StartService coloca o agendamento em atendimento (posição 0) e
// renume a fila de espera — um único ongoing por barbeiro por vez.
type StartService struct {
	repo     domain.Repository
	cfg      *config.Config
	audit    *audit.Dispatcher
	notifier domain.Notifier
}

func NewStartService(
	repo domain.Repository,
	cfg *config.Config,
	auditDispatcher *audit.Dispatcher,
	notifier domain.Notifier,
) *StartService {
	return &StartService{
		repo:     repo,
		cfg:      cfg,
		audit:    auditDispatcher,
		notifier: notifier,
	}
}

func (uc *StartService) Execute(
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

	if err := domain.Start(ap); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	// a entrada saiu da sequência de espera → posições voltam a ser densas
	if domain.Type(ap.Type) == domain.TypeQueue {
		dayEnd := ap.Date.Add(24 * time.Hour)
		if err := uc.repo.RenumberQueue(ctx, ap.BarberID, ap.Date, dayEnd); err != nil {
			return nil, err
		}
	}

	uc.audit.Dispatch(audit.Event{
		BarbershopID: barbershopID,
		UserID:       &ap.BarberID,
		Action:       "appointment_started",
		Entity:       "appointment",
		EntityID:     &ap.ID,
	})

	uc.notifier.AppointmentChanged(ctx, ap.BarberID, ap.Date)

	return ap, nil
}
