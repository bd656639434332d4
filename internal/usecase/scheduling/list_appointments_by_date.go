package scheduling

import (
	"context"
	"time"

	"github.com/BruksfildServices01/barberflow/internal/config"
	domain "github.com/BruksfildServices01/barberflow/internal/domain/scheduling"
	"github.com/BruksfildServices01/barberflow/internal/dto"
)

type ListAppointmentsByDate struct {
	repo domain.Repository
	cfg  *config.Config
}

func NewListAppointmentsByDate(
	repo domain.Repository,
	cfg *config.Config,
) *ListAppointmentsByDate {
	return &ListAppointmentsByDate{repo: repo, cfg: cfg}
}

func (uc *ListAppointmentsByDate) Execute(
	ctx context.Context,
	barbershopID uint,
	barberID uint,
	date time.Time,
) ([]dto.AppointmentListDTO, error) {

	ctx, cancel := withStoreTimeout(ctx, uc.cfg)
	defer cancel()

	shop, err := uc.repo.GetBarbershopByID(ctx, barbershopID)
	if err != nil {
		return nil, err
	}

	start, end := dayBounds(shop.Timezone, date)

	appointments, err := uc.repo.ListAppointmentsForPeriod(
		ctx,
		barberID,
		start,
		end,
	)
	if err != nil {
		return nil, err
	}

	out := make([]dto.AppointmentListDTO, 0, len(appointments))
	for _, ap := range appointments {
		out = append(out, dto.AppointmentListDTO{
			ID:            ap.ID,
			Date:          ap.Date,
			StartTime:     ap.StartTime,
			EndTime:       ap.EndTime,
			Type:          ap.Type,
			Priority:      ap.Priority,
			Status:        ap.Status,
			QueuePosition: ap.QueuePosition,
			ClientName:    ap.Client.Name,
			ServiceName:   ap.Service.Name,
			TotalPrice:    ap.TotalPrice,
			DurationMin:   ap.TotalDurationMin,
		})
	}

	return out, nil
}
