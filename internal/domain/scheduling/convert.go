package scheduling

import "github.com/BruksfildServices01/barberflow/internal/models"

// Projeções dos modelos persistidos para as estruturas puras do domínio.

func OccupiedFrom(aps []models.Appointment) []Occupied {
	out := make([]Occupied, 0, len(aps))
	for _, ap := range aps {
		out = append(out, Occupied{
			ID:          ap.ID,
			Start:       ap.StartTime,
			DurationMin: ap.TotalDurationMin,
			Status:      Status(ap.Status),
			Type:        Type(ap.Type),
			QueuePos:    ap.QueuePosition,
		})
	}
	return out
}

func EntriesFrom(aps []models.Appointment) []Entry {
	out := make([]Entry, 0, len(aps))
	for _, ap := range aps {
		if Type(ap.Type) != TypeQueue || ap.QueuePosition == nil {
			continue
		}
		out = append(out, Entry{
			ID:          ap.ID,
			Position:    *ap.QueuePosition,
			Priority:    Priority(ap.Priority),
			DurationMin: ap.TotalDurationMin,
			Status:      Status(ap.Status),
			CreatedAt:   ap.CreatedAt,
		})
	}
	return out
}
