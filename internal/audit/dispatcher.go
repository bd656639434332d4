package audit

import "log"

type Event struct {
	BarbershopID uint
	UserID       *uint
	Action       string
	Entity       string
	EntityID     *uint
	Metadata     any
}

// Sink é o destino final dos eventos (o Logger gorm em produção).
type Sink interface {
	Log(
		barbershopID uint,
		userID *uint,
		action string,
		entity string,
		entityID *uint,
		metadata any,
	) error
}

// Dispatcher grava auditoria fora do caminho crítico da reserva:
// eventos entram num canal com buffer e um worker persiste em background.
type Dispatcher struct {
	logger Sink
	queue  chan Event
	done   chan struct{}
}

func NewDispatcher(logger Sink) *Dispatcher {
	d := &Dispatcher{
		logger: logger,
		queue:  make(chan Event, 100),
		done:   make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)

	for ev := range d.queue {
		if err := d.logger.Log(
			ev.BarbershopID,
			ev.UserID,
			ev.Action,
			ev.Entity,
			ev.EntityID,
			ev.Metadata,
		); err != nil {
			log.Println("audit error:", err)
		}
	}
}

func (d *Dispatcher) Dispatch(ev Event) {
	select {
	case d.queue <- ev:
		// enviado
	default:
		// fila cheia → auditoria nunca derruba a API
		log.Println("audit queue full, dropping event")
	}
}

// Close drena o que restou na fila antes do shutdown.
func (d *Dispatcher) Close() {
	close(d.queue)
	<-d.done
}
