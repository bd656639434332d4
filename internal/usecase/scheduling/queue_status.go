package scheduling

import (
	"context"
	"time"

	"github.com/BruksfildServices01/barberflow/internal/config"
	domain "github.com/BruksfildServices01/barberflow/internal/domain/scheduling"
	"github.com/BruksfildServices01/barberflow/internal/dto"
)

// QueueStatus monta o painel da fila do barbeiro/dia com as
// estimativas de espera por posição.
type QueueStatus struct {
	repo domain.Repository
	cfg  *config.Config
}

func NewQueueStatus(repo domain.Repository, cfg *config.Config) *QueueStatus {
	return &QueueStatus{repo: repo, cfg: cfg}
}

func (uc *QueueStatus) Execute(
	ctx context.Context,
	barbershopID uint,
	barberID uint,
	date time.Time,
) ([]dto.QueueEntryDTO, error) {

	ctx, cancel := withStoreTimeout(ctx, uc.cfg)
	defer cancel()

	shop, err := uc.repo.GetBarbershopByID(ctx, barbershopID)
	if err != nil {
		return nil, err
	}

	dayStart, dayEnd := dayBounds(shop.Timezone, date)

	queued, err := uc.repo.ListQueue(ctx, barberID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	entries := domain.EntriesFrom(queued)

	out := make([]dto.QueueEntryDTO, 0, len(queued))
	for _, ap := range queued {
		if ap.QueuePosition == nil {
			continue
		}
		pos := *ap.QueuePosition

		waitMin := domain.EstimateWait(entries, pos, uc.cfg.AvgServiceMin)

		out = append(out, dto.QueueEntryDTO{
			AppointmentID: ap.ID,
			Position:      pos,
			Priority:      ap.Priority,
			Status:        ap.Status,
			ClientName:    ap.Client.Name,
			DurationMin:   ap.TotalDurationMin,
			EstimatedWait: domain.FormatWait(waitMin),
		})
	}

	return out, nil
}
