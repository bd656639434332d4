package scheduling

import (
	"context"
	"sort"
	"time"

	"github.com/BruksfildServices01/barberflow/internal/config"
	domain "github.com/BruksfildServices01/barberflow/internal/domain/scheduling"
)

// ======================================================
// Alternative Barber Finder
// ======================================================

type FindAlternatives struct {
	repo domain.Repository
	cfg  *config.Config
}

func NewFindAlternatives(repo domain.Repository, cfg *config.Config) *FindAlternatives {
	return &FindAlternatives{repo: repo, cfg: cfg}
}

// Execute varre a disponibilidade dos demais barbeiros ativos e
// ranqueia pelo primeiro horário livre. Leitura pura, sem mutação.
func (uc *FindAlternatives) Execute(
	ctx context.Context,
	barbershopID uint,
	excludeBarberID uint,
	date time.Time,
	durationMin int,
) ([]domain.Alternative, error) {

	shop, err := uc.repo.GetBarbershopByID(ctx, barbershopID)
	if err != nil {
		return nil, err
	}

	barbers, err := uc.repo.ListActiveBarbers(ctx, barbershopID)
	if err != nil {
		return nil, err
	}

	var alternatives []domain.Alternative

	for _, barber := range barbers {
		if barber.ID == excludeBarberID {
			continue
		}

		slots, ok, err := daySlots(
			ctx, uc.repo, uc.cfg,
			barber.ID, shop.Timezone, date,
			durationMin, 0,
		)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		first, found := domain.FirstAvailable(slots)
		if !found {
			continue
		}

		alternatives = append(alternatives, domain.Alternative{
			BarberID:           barber.ID,
			BarberName:         barber.Name,
			NextAvailableTime:  first.Start,
			AvailableSlotCount: domain.CountAvailable(slots),
		})
	}

	sort.Slice(alternatives, func(i, j int) bool {
		return alternatives[i].NextAvailableTime.Before(alternatives[j].NextAvailableTime)
	})

	limit := uc.cfg.AlternativesLimit
	if limit <= 0 {
		limit = 3
	}
	if len(alternatives) > limit {
		alternatives = alternatives[:limit]
	}

	return alternatives, nil
}
