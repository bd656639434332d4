package scheduling

import "time"

// ===============================
// Appointment Type
// ===============================

type Type string

const (
	TypeScheduled Type = "scheduled" // horário fixo
	TypeQueue     Type = "queue"     // posição na fila, sem horário
)

// ===============================
// Slot descriptors
// ===============================

type SlotState string

const (
	SlotAvailable SlotState = "available"
	SlotScheduled SlotState = "scheduled"
	SlotQueue     SlotState = "queue"
	SlotLunch     SlotState = "lunch"
	SlotFull      SlotState = "full"
)

type Slot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	State SlotState `json:"state"`

	// preenchidos só para state = scheduled / queue
	AppointmentID uint `json:"appointment_id,omitempty"`
	QueuePosition int  `json:"queue_position,omitempty"`
}

// Occupied é a projeção mínima de um agendamento existente
// que o Availability Calculator precisa enxergar.
type Occupied struct {
	ID          uint
	Start       *time.Time
	DurationMin int
	Status      Status
	Type        Type
	QueuePos    *int
}

// Overlaps: [t, t+dur) intersecta [et, et+ed)
func Overlaps(t time.Time, durMin int, et time.Time, edMin int) bool {
	end := t.Add(time.Duration(durMin) * time.Minute)
	occEnd := et.Add(time.Duration(edMin) * time.Minute)
	return t.Before(occEnd) && end.After(et)
}

// ===============================
// Booking outcome
// ===============================

type OutcomeType string

const (
	OutcomeScheduled            OutcomeType = "scheduled"
	OutcomeQueued               OutcomeType = "queued"
	OutcomeAlternativeSuggested OutcomeType = "alternativeSuggested"
)

type Alternative struct {
	BarberID           uint      `json:"barber_id"`
	BarberName         string    `json:"barber_name"`
	NextAvailableTime  time.Time `json:"next_available_time"`
	AvailableSlotCount int       `json:"available_slot_count"`
}
