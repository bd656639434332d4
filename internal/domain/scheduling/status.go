package scheduling

import "github.com/BruksfildServices01/barberflow/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPending   Status = "pending"
	StatusScheduled Status = "scheduled"
	StatusConfirmed Status = "confirmed"
	StatusOngoing   Status = "ongoing"
	StatusDone      Status = "done"
	StatusCancelled Status = "cancelled"
)

// pending → scheduled|confirmed → ongoing → done
// cancelled é alcançável de qualquer estado não-terminal
var transitions = map[Status][]Status{
	StatusPending:   {StatusScheduled, StatusConfirmed, StatusOngoing, StatusCancelled},
	StatusScheduled: {StatusConfirmed, StatusOngoing, StatusCancelled},
	StatusConfirmed: {StatusOngoing, StatusCancelled},
	StatusOngoing:   {StatusDone, StatusCancelled},
}

func (s Status) IsTerminal() bool {
	return s == StatusDone || s == StatusCancelled
}

// IsOccupying: status que ocupam um intervalo de tempo do barbeiro
func (s Status) IsOccupying() bool {
	switch s {
	case StatusPending, StatusScheduled, StatusConfirmed, StatusOngoing:
		return true
	}
	return false
}

// IsWaiting: status que contam na sequência 1..N da fila
func (s Status) IsWaiting() bool {
	switch s {
	case StatusPending, StatusScheduled:
		return true
	}
	return false
}

func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func AssertTransition(from, to Status) error {
	if !CanTransition(from, to) {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

func InitialStatus() Status {
	return StatusPending
}
