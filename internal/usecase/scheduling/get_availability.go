package scheduling

import (
	"context"
	"log"
	"time"

	"github.com/BruksfildServices01/barberflow/internal/config"
	domain "github.com/BruksfildServices01/barberflow/internal/domain/scheduling"
	"github.com/BruksfildServices01/barberflow/internal/httperr"
)

type AvailabilityInput struct {
	BarbershopID uint
	BarberID     uint
	ServiceID    uint
	Services     []uint
	AddOns       []uint
	Date         time.Time

	// auto-exclusão ao editar: o horário do próprio agendamento
	// continua aparecendo como disponível
	ExcludeAppointmentID uint
}

type GetAvailability struct {
	repo domain.Repository
	cfg  *config.Config
}

func NewGetAvailability(repo domain.Repository, cfg *config.Config) *GetAvailability {
	return &GetAvailability{repo: repo, cfg: cfg}
}

// Execute devolve a sequência de slot descriptors do dia. Snapshot:
// válido só até a próxima escrita para o barbeiro/dia.
func (uc *GetAvailability) Execute(
	ctx context.Context,
	in AvailabilityInput,
) ([]domain.Slot, error) {

	if in.BarberID == 0 || in.ServiceID == 0 {
		return nil, httperr.ErrValidation("missing_required_fields")
	}

	ctx, cancel := withStoreTimeout(ctx, uc.cfg)
	defer cancel()

	shop, err := uc.repo.GetBarbershopByID(ctx, in.BarbershopID)
	if err != nil {
		return nil, err
	}

	catalog, err := uc.repo.GetCatalog(ctx, in.BarbershopID)
	if err != nil {
		return nil, err
	}

	quote := catalog.Resolve(in.ServiceID, in.Services, in.AddOns)
	for _, a := range quote.Anomalies {
		log.Printf("catalog anomaly (availability): %s", a)
	}

	duration := quote.DurationMin
	if duration <= 0 {
		duration = uc.cfg.AvgServiceMin
	}

	slots, ok, err := daySlots(
		ctx, uc.repo, uc.cfg,
		in.BarberID, shop.Timezone, in.Date,
		duration, in.ExcludeAppointmentID,
	)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []domain.Slot{}, nil
	}

	return slots, nil
}
