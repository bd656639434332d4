package scheduling

import (
	"context"
	"time"

	"github.com/BruksfildServices01/barberflow/internal/models"
)

type Repository interface {
	// -------- Barbershop --------
	GetBarbershopByID(
		ctx context.Context,
		id uint,
	) (*models.Barbershop, error)

	GetBarbershopBySlug(
		ctx context.Context,
		slug string,
	) (*models.Barbershop, error)

	// -------- Catalog --------
	GetCatalog(
		ctx context.Context,
		barbershopID uint,
	) (*Catalog, error)

	// -------- Barbers --------
	ListActiveBarbers(
		ctx context.Context,
		barbershopID uint,
	) ([]models.User, error)

	// -------- Client --------
	GetOrCreateClient(
		ctx context.Context,
		barbershopID uint,
		name string,
		phone string,
		email string,
	) (*models.Client, error)

	// -------- Working hours --------
	GetWorkingHours(
		ctx context.Context,
		barberID uint,
		weekday int,
	) (*models.WorkingHours, error)

	// -------- Occupancy (leitura do dia) --------
	ListDayAppointments(
		ctx context.Context,
		barberID uint,
		dayStart time.Time,
		dayEnd time.Time,
	) ([]models.Appointment, error)

	ListQueue(
		ctx context.Context,
		barberID uint,
		dayStart time.Time,
		dayEnd time.Time,
	) ([]models.Appointment, error)

	// -------- Escrita atômica --------
	//
	// CreateScheduled revalida o conflito de intervalo dentro da mesma
	// transação da escrita (lock por barbeiro) e devolve ConflictError
	// para o segundo escritor.
	CreateScheduled(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// CreateQueued insere na posição pedida deslocando as posteriores,
	// tudo numa transação sobre a partição barbeiro/dia.
	CreateQueued(
		ctx context.Context,
		ap *models.Appointment,
		position int,
	) error

	// -------- State change --------
	GetAppointmentForShop(
		ctx context.Context,
		appointmentID uint,
		barbershopID uint,
	) (*models.Appointment, error)

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// UpdateScheduledTime grava a nova janela de um agendamento fixo
	// revalidando o conflito (com auto-exclusão) na mesma transação.
	UpdateScheduledTime(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// RenumberQueue refaz as posições 1..N do barbeiro/dia numa única
	// transação ordenada — nunca updates independentes por linha.
	RenumberQueue(
		ctx context.Context,
		barberID uint,
		dayStart time.Time,
		dayEnd time.Time,
	) error

	CountWaiting(
		ctx context.Context,
		barberID uint,
		dayStart time.Time,
		dayEnd time.Time,
	) (int64, error)

	ListAppointmentsForPeriod(
		ctx context.Context,
		barberID uint,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)
}

// Notifier é o Notification Dispatcher: informado dos desfechos,
// nunca influencia a decisão de agendamento.
type Notifier interface {
	AppointmentChanged(ctx context.Context, barberID uint, date time.Time)
	Outcome(ctx context.Context, ev OutcomeEvent)
}

type OutcomeEvent struct {
	AppointmentID uint        `json:"appointment_id"`
	OutcomeType   OutcomeType `json:"outcome_type"`
	AssignedTime  *time.Time  `json:"assigned_time,omitempty"`
	QueuePosition *int        `json:"queue_position,omitempty"`
	EstimatedWait string      `json:"estimated_wait,omitempty"`
}
