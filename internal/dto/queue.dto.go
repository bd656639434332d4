package dto

type QueueEntryDTO struct {
	AppointmentID uint   `json:"appointment_id"`
	Position      int    `json:"position"`
	Priority      string `json:"priority"`
	Status        string `json:"status"`
	ClientName    string `json:"client_name"`
	DurationMin   int    `json:"duration_min"`
	EstimatedWait string `json:"estimated_wait"`
}
