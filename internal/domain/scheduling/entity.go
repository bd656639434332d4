package scheduling

import (
	"time"

	"github.com/BruksfildServices01/barberflow/internal/models"
)

// ===============================
// Domain Actions
// ===============================

func Confirm(ap *models.Appointment) error {
	if err := AssertTransition(Status(ap.Status), StatusConfirmed); err != nil {
		return err
	}
	ap.Status = string(StatusConfirmed)
	return nil
}

// Start coloca o agendamento em atendimento: posição 0 na fila.
func Start(ap *models.Appointment) error {
	if err := AssertTransition(Status(ap.Status), StatusOngoing); err != nil {
		return err
	}
	ap.Status = string(StatusOngoing)

	zero := 0
	ap.QueuePosition = &zero
	return nil
}

// Complete encerra o atendimento e limpa a posição na fila.
// Quem chama dispara a renumeração para o barbeiro/dia.
func Complete(ap *models.Appointment, now time.Time) error {
	if err := AssertTransition(Status(ap.Status), StatusDone); err != nil {
		return err
	}
	ap.Status = string(StatusDone)
	ap.CompletedAt = &now
	ap.QueuePosition = nil
	return nil
}

func Cancel(ap *models.Appointment, now time.Time) error {
	if Status(ap.Status).IsTerminal() {
		return AssertTransition(Status(ap.Status), StatusCancelled)
	}
	ap.Status = string(StatusCancelled)
	ap.CancelledAt = &now
	ap.QueuePosition = nil
	return nil
}
