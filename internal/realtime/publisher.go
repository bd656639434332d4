package realtime

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/barberflow/internal/domain/scheduling"
)

const (
	ChannelChanged  = "appointments:changed"
	ChannelOutcomes = "scheduling:outcomes"
)

// Publisher emite invalidações e desfechos via redis pub/sub.
// Quem consome (front, painéis, notificações) fica fora deste serviço.
type Publisher struct {
	rdb *redis.Client
}

func NewPublisher(addr string) *Publisher {
	return &Publisher{
		rdb: redis.NewClient(&redis.Options{Addr: addr}),
	}
}

type changedEvent struct {
	EventID  string `json:"event_id"`
	BarberID uint   `json:"barber_id"`
	Date     string `json:"date"`
}

type outcomeEvent struct {
	EventID string `json:"event_id"`
	domain.OutcomeEvent
}

// AppointmentChanged invalida qualquer resultado de disponibilidade
// em voo para o barbeiro/dia. Publicação best-effort: nunca falha a reserva.
func (p *Publisher) AppointmentChanged(ctx context.Context, barberID uint, date time.Time) {
	p.publish(ctx, ChannelChanged, changedEvent{
		EventID:  uuid.NewString(),
		BarberID: barberID,
		Date:     date.Format("2006-01-02"),
	})
}

func (p *Publisher) Outcome(ctx context.Context, ev domain.OutcomeEvent) {
	p.publish(ctx, ChannelOutcomes, outcomeEvent{
		EventID:      uuid.NewString(),
		OutcomeEvent: ev,
	})
}

func (p *Publisher) publish(ctx context.Context, channel string, payload any) {
	b, err := json.Marshal(payload)
	if err != nil {
		log.Println("realtime marshal error:", err)
		return
	}
	if err := p.rdb.Publish(ctx, channel, b).Err(); err != nil {
		log.Println("realtime publish error:", err)
	}
}

var _ domain.Notifier = (*Publisher)(nil)
